package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/roach88/teleprompt/internal/playback"
	"github.com/roach88/teleprompt/internal/text"
)

const (
	marginX    = 2
	chromeRows = 2 // progress bar + status line
)

// Styles maps token classes and chrome to lipgloss styles.
type Styles struct {
	Current    lipgloss.Style
	Before     lipgloss.Style
	After      lipgloss.Style
	Whitespace lipgloss.Style
	BarFilled  lipgloss.Style
	BarEmpty   lipgloss.Style
	Status     lipgloss.Style
}

// NewStyles builds the default palette on r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Current:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		Before:     r.NewStyle().Foreground(lipgloss.Color("245")),
		After:      r.NewStyle().Foreground(lipgloss.Color("240")).Faint(true),
		Whitespace: r.NewStyle(),
		BarFilled:  r.NewStyle().Foreground(lipgloss.Color("141")),
		BarEmpty:   r.NewStyle().Foreground(lipgloss.Color("238")),
		Status:     r.NewStyle().Reverse(true),
	}
}

func (s Styles) forClass(c playback.Class) lipgloss.Style {
	switch c {
	case playback.ClassCurrent:
		return s.Current
	case playback.ClassBefore:
		return s.Before
	case playback.ClassAfter:
		return s.After
	default:
		return s.Whitespace
	}
}

// Frame is the geometry of a drawn screen, used to map a mouse press back
// to a token. Frames are immutable.
type Frame struct {
	Layout *Layout
	Top    int
	Body   int // visible content lines
}

// TokenAt maps a 0-based screen cell to the token drawn there.
func (f *Frame) TokenAt(x, y int) (int, bool) {
	if f == nil || y < 0 || y >= f.Body {
		return 0, false
	}
	return f.Layout.TokenAt(f.Top+y, x-marginX)
}

// Renderer draws playback state onto a width x height terminal.
type Renderer struct {
	styles Styles
	tokens []text.Token
	index  *text.WordIndex
	width  int
	height int
	layout *Layout
}

// NewRenderer creates a renderer for tokens.
func NewRenderer(styles Styles, tokens []text.Token, width, height int) *Renderer {
	r := &Renderer{styles: styles, tokens: tokens, index: text.NewWordIndex(tokens)}
	r.Resize(width, height)
	return r
}

// Resize re-wraps the content when the terminal size changed. It reports
// whether anything changed.
func (r *Renderer) Resize(width, height int) bool {
	if width < marginX*2+1 {
		width = marginX*2 + 1
	}
	if height < chromeRows+1 {
		height = chromeRows + 1
	}
	if r.layout != nil && width == r.width && height == r.height {
		return false
	}
	r.width, r.height = width, height
	r.layout = Wrap(r.tokens, width-marginX*2)
	return true
}

// Render draws the full screen for snap, one row per line.
func (r *Renderer) Render(snap playback.Snapshot) (string, *Frame) {
	body := r.height - chromeRows
	focus := r.layout.LineOf(snap.Position)
	frame := &Frame{Layout: r.layout, Top: r.layout.Top(focus, body), Body: body}

	rows := make([]string, 0, r.height)
	pad := strings.Repeat(" ", marginX)
	for row := 0; row < body; row++ {
		line := frame.Top + row
		if line >= len(r.layout.Lines) {
			rows = append(rows, "")
			continue
		}
		var b strings.Builder
		b.WriteString(pad)
		for _, s := range r.layout.Lines[line] {
			class := playback.Classify(r.index, snap.Position, s.Token)
			b.WriteString(r.styles.forClass(class).Render(s.Text))
		}
		rows = append(rows, b.String())
	}

	rows = append(rows, pad+r.progressBar(snap.Progress, r.width-marginX*2))
	rows = append(rows, r.styles.Status.Render(runewidth.FillRight(
		runewidth.Truncate(StatusLine(snap), r.width, "…"), r.width)))

	return strings.Join(rows, "\n"), frame
}

func (r *Renderer) progressBar(percent float64, width int) string {
	filled := int(math.Round(percent / 100 * float64(width)))
	if filled > width {
		filled = width
	}
	return r.styles.BarFilled.Render(strings.Repeat("━", filled)) +
		r.styles.BarEmpty.Render(strings.Repeat("─", width-filled))
}

// StatusLine summarizes a snapshot: play state, pace, word count, progress
// and the key help.
func StatusLine(s playback.Snapshot) string {
	glyph := "❚❚"
	if s.State == playback.Playing {
		glyph = "▶"
	}
	word := 0
	if s.Rank != text.None {
		word = s.Rank + 1
	}
	return fmt.Sprintf(" %s %s  %d wpm  %d/%d  %.0f%%  space play · ←→ step · ↑↓ pace · r reset · esc close ",
		glyph, s.State, s.WPM, word, s.Total, s.Progress)
}
