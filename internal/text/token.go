package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind distinguishes word tokens from whitespace runs.
type Kind int

const (
	// KindWord is a maximal run of non-whitespace runes.
	KindWord Kind = iota + 1
	// KindWhitespace is a maximal run of whitespace runes.
	KindWhitespace
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindWhitespace:
		return "whitespace"
	default:
		return "unknown"
	}
}

// Token is one atomic unit of content.
type Token struct {
	Kind Kind
	Text string
}

// IsWord reports whether the token carries a word.
func (t Token) IsWord() bool {
	return t.Kind == KindWord
}

// Tokenize splits content into alternating word and whitespace tokens.
//
// Whitespace is anything unicode.IsSpace accepts. Empty input yields an
// empty (nil) slice. Invalid UTF-8 bytes are treated as word content so the
// round trip stays exact.
func Tokenize(content string) []Token {
	if content == "" {
		return nil
	}

	var tokens []Token
	start := 0
	inSpace := false

	for i := 0; i < len(content); {
		r, size := utf8.DecodeRuneInString(content[i:])
		space := r != utf8.RuneError && unicode.IsSpace(r)

		if i == 0 {
			inSpace = space
		} else if space != inSpace {
			tokens = append(tokens, newToken(content[start:i], inSpace))
			start = i
			inSpace = space
		}
		i += size
	}
	tokens = append(tokens, newToken(content[start:], inSpace))

	return tokens
}

func newToken(s string, space bool) Token {
	if space {
		return Token{Kind: KindWhitespace, Text: s}
	}
	return Token{Kind: KindWord, Text: s}
}

// Join concatenates the text of every token.
// Join(Tokenize(s)) == s for every string s.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// CountWords returns the number of word tokens in content without keeping
// the token slice around.
func CountWords(content string) int {
	return len(strings.FieldsFunc(content, unicode.IsSpace))
}
