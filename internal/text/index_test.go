package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordIndex_HelloWorld(t *testing.T) {
	idx := NewWordIndex(Tokenize("Hello world"))

	assert.Equal(t, 2, idx.Total())
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []int{0, 2}, idx.Words())

	assert.Equal(t, 0, idx.PositionOf(0))
	assert.Equal(t, None, idx.PositionOf(1))
	assert.Equal(t, 1, idx.PositionOf(2))

	assert.Equal(t, 0, idx.First())
	assert.Equal(t, 2, idx.Last())
	assert.Equal(t, 2, idx.Next(0))
	assert.Equal(t, None, idx.Next(2))
	assert.Equal(t, 0, idx.Previous(2))
	assert.Equal(t, None, idx.Previous(0))
}

func TestWordIndex_Empty(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\t"} {
		idx := NewWordIndex(Tokenize(content))

		assert.Equal(t, 0, idx.Total())
		assert.Equal(t, None, idx.First())
		assert.Equal(t, None, idx.Last())
		assert.Equal(t, None, idx.Next(0))
		assert.Equal(t, None, idx.Previous(0))
		assert.Equal(t, None, idx.Next(None))
	}
}

func TestWordIndex_NonWordNeighbors(t *testing.T) {
	idx := NewWordIndex(Tokenize("a b c"))

	// Whitespace tokens have no neighbors.
	assert.Equal(t, None, idx.Next(1))
	assert.Equal(t, None, idx.Previous(3))
	assert.False(t, idx.IsWord(1))
	assert.True(t, idx.IsWord(4))
}

func TestWordIndex_OutOfRange(t *testing.T) {
	idx := NewWordIndex(Tokenize("a b"))

	assert.Equal(t, None, idx.PositionOf(-1))
	assert.Equal(t, None, idx.PositionOf(99))
	assert.Equal(t, None, idx.At(-1))
	assert.Equal(t, None, idx.At(2))
	assert.Equal(t, None, idx.Next(None))
	assert.Equal(t, None, idx.Previous(None))
}

func TestWordIndex_LeadingWhitespace(t *testing.T) {
	idx := NewWordIndex(Tokenize("  first second"))

	assert.Equal(t, 1, idx.First())
	assert.Equal(t, 3, idx.Next(1))
	assert.Equal(t, 0, idx.PositionOf(1))
}

func TestWordIndex_MonotonicNavigation(t *testing.T) {
	contents := []string{
		"one two three four five",
		"  spaced\n\nout\t words  ",
		"single",
		"a  b   c    d",
	}

	for _, content := range contents {
		idx := NewWordIndex(Tokenize(content))
		for _, x := range idx.Words() {
			next := idx.Next(x)
			if next == None {
				assert.Equal(t, idx.Total()-1, idx.PositionOf(x))
				continue
			}
			assert.Equal(t, idx.PositionOf(x)+1, idx.PositionOf(next), "content %q token %d", content, x)
			assert.Equal(t, x, idx.Previous(next))
		}
	}
}

func TestWordIndex_WordsIsCopy(t *testing.T) {
	idx := NewWordIndex(Tokenize("a b"))
	words := idx.Words()
	words[0] = 42

	assert.Equal(t, 0, idx.First())
}
