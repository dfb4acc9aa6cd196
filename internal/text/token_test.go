package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
}

func TestTokenize_HelloWorld(t *testing.T) {
	tokens := Tokenize("Hello world")

	require.Len(t, tokens, 3)
	assert.Equal(t, Token{Kind: KindWord, Text: "Hello"}, tokens[0])
	assert.Equal(t, Token{Kind: KindWhitespace, Text: " "}, tokens[1])
	assert.Equal(t, Token{Kind: KindWord, Text: "world"}, tokens[2])
}

func TestTokenize_WhitespaceRunsKeptWhole(t *testing.T) {
	tokens := Tokenize("  one\t\n two  ")

	texts := make([]string, len(tokens))
	kinds := make([]Kind, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
		kinds[i] = tok.Kind
	}

	assert.Equal(t, []string{"  ", "one", "\t\n ", "two", "  "}, texts)
	assert.Equal(t, []Kind{KindWhitespace, KindWord, KindWhitespace, KindWord, KindWhitespace}, kinds)
}

func TestTokenize_OnlyWhitespace(t *testing.T) {
	tokens := Tokenize(" \n\t")
	require.Len(t, tokens, 1)
	assert.Equal(t, KindWhitespace, tokens[0].Kind)
}

func TestTokenize_UnicodeWhitespace(t *testing.T) {
	// U+00A0 (no-break space) and U+3000 (ideographic space) split words.
	tokens := Tokenize("a\u00a0b\u3000c")
	require.Len(t, tokens, 5)
	assert.Equal(t, "a", tokens[0].Text)
	assert.Equal(t, "\u00a0", tokens[1].Text)
	assert.Equal(t, "b", tokens[2].Text)
	assert.Equal(t, "\u3000", tokens[3].Text)
	assert.Equal(t, "c", tokens[4].Text)
}

func TestTokenize_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"x",
		" ",
		"Hello world",
		"  leading and trailing  ",
		"multi\n\nline\r\ntext",
		"tabs\tand nbsp",
		"émigré naïve café",
		"日本語 の テキスト",
		"invalid \xff\xfe bytes",
		"punctuation, stays! attached?",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, in, Join(Tokenize(in)))
		})
	}
}

func TestTokenize_Alternates(t *testing.T) {
	tokens := Tokenize("a b  c\td ")
	for i := 1; i < len(tokens); i++ {
		assert.NotEqual(t, tokens[i-1].Kind, tokens[i].Kind, "tokens %d and %d share a kind", i-1, i)
	}
}

func TestTokenize_Deterministic(t *testing.T) {
	in := "the quick  brown\nfox"
	assert.Equal(t, Tokenize(in), Tokenize(in))
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   "))
	assert.Equal(t, 2, CountWords("Hello world"))
	assert.Equal(t, 3, CountWords(" a\tb\nc "))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "word", KindWord.String())
	assert.Equal(t, "whitespace", KindWhitespace.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
