// Package tui is the terminal host for a playback session.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/roach88/teleprompt/internal/text"
)

// Span is one token placed on a line.
type Span struct {
	Token int
	Col   int
	Width int
	Text  string
}

// Layout is tokens word-wrapped to a width. Runs of whitespace become a
// single space, or line breaks when they contain newlines.
type Layout struct {
	Width int
	Lines [][]Span
	// line[token] is the line holding token, or -1 when not drawn.
	line []int
}

// Wrap lays tokens out in lines of at most width cells. A word wider than
// the line gets a line of its own.
func Wrap(tokens []text.Token, width int) *Layout {
	if width < 1 {
		width = 1
	}
	l := &Layout{Width: width, Lines: [][]Span{nil}, line: make([]int, len(tokens))}
	for i := range l.line {
		l.line[i] = -1
	}

	col := 0
	newLine := func() {
		l.Lines = append(l.Lines, nil)
		col = 0
	}
	place := func(tok int, s string, w int) {
		cur := len(l.Lines) - 1
		l.Lines[cur] = append(l.Lines[cur], Span{Token: tok, Col: col, Width: w, Text: s})
		l.line[tok] = cur
		col += w
	}

	for i, tok := range tokens {
		if !tok.IsWord() {
			if breaks := strings.Count(tok.Text, "\n"); breaks > 0 {
				for b := 0; b < breaks; b++ {
					newLine()
				}
				continue
			}
			if col > 0 && col < width {
				place(i, " ", 1)
			}
			continue
		}

		w := displayWidth(tok.Text)
		if col > 0 && col+w > width {
			l.trimTrailingSpace()
			newLine()
		}
		place(i, tok.Text, w)
	}
	return l
}

// trimTrailingSpace drops a whitespace span ending the current line.
func (l *Layout) trimTrailingSpace() {
	cur := len(l.Lines) - 1
	spans := l.Lines[cur]
	if n := len(spans); n > 0 && spans[n-1].Text == " " {
		l.line[spans[n-1].Token] = -1
		l.Lines[cur] = spans[:n-1]
	}
}

// LineOf returns the line holding token, or -1.
func (l *Layout) LineOf(token int) int {
	if token < 0 || token >= len(l.line) {
		return -1
	}
	return l.line[token]
}

// TokenAt returns the token drawn at (line, col), both 0-based.
func (l *Layout) TokenAt(line, col int) (int, bool) {
	if line < 0 || line >= len(l.Lines) {
		return 0, false
	}
	for _, s := range l.Lines[line] {
		if col >= s.Col && col < s.Col+s.Width {
			return s.Token, true
		}
	}
	return 0, false
}

// Top returns the first visible line for a viewport of height lines so
// that focus sits in the middle, clamped to the layout.
func (l *Layout) Top(focus, height int) int {
	if focus < 0 || height <= 0 {
		return 0
	}
	top := focus - height/2
	if last := len(l.Lines) - height; top > last {
		top = last
	}
	if top < 0 {
		top = 0
	}
	return top
}

func displayWidth(s string) int {
	width := 0
	for _, ru := range s {
		w := runewidth.RuneWidth(ru)
		if w <= 0 {
			w = 1
		}
		width += w
	}
	return width
}
