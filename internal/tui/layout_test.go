package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/teleprompt/internal/text"
)

func lineTexts(l *Layout) []string {
	out := make([]string, len(l.Lines))
	for i, spans := range l.Lines {
		for _, s := range spans {
			out[i] += s.Text
		}
	}
	return out
}

func TestWrap_FitsWidth(t *testing.T) {
	l := Wrap(text.Tokenize("the quick brown fox jumps"), 10)

	assert.Equal(t, []string{"the quick", "brown fox", "jumps"}, lineTexts(l))
	assert.Equal(t, 0, l.LineOf(0))
	assert.Equal(t, 1, l.LineOf(4))
	assert.Equal(t, 2, l.LineOf(8))
	assert.Equal(t, -1, l.LineOf(3), "a space dropped at a wrap is not drawn")
}

func TestWrap_CollapsesWhitespaceAndKeepsNewlines(t *testing.T) {
	l := Wrap(text.Tokenize("one   two\n\nthree"), 40)

	assert.Equal(t, []string{"one two", "", "three"}, lineTexts(l))
}

func TestWrap_LongWordOwnLine(t *testing.T) {
	l := Wrap(text.Tokenize("a supercalifragilistic b"), 8)

	assert.Equal(t, []string{"a", "supercalifragilistic", "b"}, lineTexts(l))
}

func TestWrap_WideRunes(t *testing.T) {
	l := Wrap(text.Tokenize("日本語 ab"), 7)

	require.Len(t, l.Lines, 2)
	assert.Equal(t, 6, l.Lines[0][0].Width)
	assert.Equal(t, "ab", l.Lines[1][0].Text)
}

func TestWrap_Empty(t *testing.T) {
	l := Wrap(nil, 10)
	assert.Len(t, l.Lines, 1)
	assert.Equal(t, -1, l.LineOf(0))
}

func TestLayout_TokenAt(t *testing.T) {
	l := Wrap(text.Tokenize("alpha beta"), 20)

	tok, ok := l.TokenAt(0, 0)
	require.True(t, ok)
	assert.Equal(t, 0, tok)

	tok, ok = l.TokenAt(0, 5)
	require.True(t, ok)
	assert.Equal(t, 1, tok, "the gap is the whitespace token")

	tok, ok = l.TokenAt(0, 9)
	require.True(t, ok)
	assert.Equal(t, 2, tok)

	_, ok = l.TokenAt(0, 10)
	assert.False(t, ok)
	_, ok = l.TokenAt(3, 0)
	assert.False(t, ok)
}

func TestLayout_TopCentersFocus(t *testing.T) {
	l := &Layout{Lines: make([][]Span, 20)}

	assert.Equal(t, 0, l.Top(2, 6))
	assert.Equal(t, 7, l.Top(10, 6))
	assert.Equal(t, 14, l.Top(19, 6), "clamped at the end")
	assert.Equal(t, 0, l.Top(-1, 6))

	short := &Layout{Lines: make([][]Span, 3)}
	assert.Equal(t, 0, short.Top(2, 6))
}
