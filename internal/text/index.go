package text

// None marks "no current word": a session that has not started or was reset.
const None = -1

// WordIndex is the ordered set of word-bearing token indices of one token
// sequence, plus a reverse map from token index to word rank.
//
// INVARIANTS:
//   - words is strictly increasing and every entry points at a word token
//   - rank[words[i]] == i, and rank[t] == None for whitespace tokens
//   - both slices are never mutated after NewWordIndex returns
type WordIndex struct {
	words []int
	rank  []int
}

// NewWordIndex builds the index for tokens in a single pass.
func NewWordIndex(tokens []Token) *WordIndex {
	idx := &WordIndex{
		words: make([]int, 0, len(tokens)/2+1),
		rank:  make([]int, len(tokens)),
	}
	for i, t := range tokens {
		if t.IsWord() {
			idx.rank[i] = len(idx.words)
			idx.words = append(idx.words, i)
			continue
		}
		idx.rank[i] = None
	}
	return idx
}

// Total returns the number of word tokens.
func (x *WordIndex) Total() int {
	return len(x.words)
}

// Len returns the number of tokens the index was built from.
func (x *WordIndex) Len() int {
	return len(x.rank)
}

// PositionOf returns the 0-based rank of tokenIndex among word tokens, or
// None (-1) when tokenIndex is out of range or not a word.
func (x *WordIndex) PositionOf(tokenIndex int) int {
	if tokenIndex < 0 || tokenIndex >= len(x.rank) {
		return None
	}
	return x.rank[tokenIndex]
}

// IsWord reports whether tokenIndex addresses a word token.
func (x *WordIndex) IsWord(tokenIndex int) bool {
	return x.PositionOf(tokenIndex) >= 0
}

// At returns the token index of the word with the given rank, or None.
func (x *WordIndex) At(rank int) int {
	if rank < 0 || rank >= len(x.words) {
		return None
	}
	return x.words[rank]
}

// First returns the first word token, or None for content without words.
func (x *WordIndex) First() int {
	return x.At(0)
}

// Last returns the last word token, or None for content without words.
func (x *WordIndex) Last() int {
	return x.At(len(x.words) - 1)
}

// Next returns the word token after tokenIndex. It returns None when
// tokenIndex is the last word or is not a word token.
func (x *WordIndex) Next(tokenIndex int) int {
	r := x.PositionOf(tokenIndex)
	if r == None {
		return None
	}
	return x.At(r + 1)
}

// Previous returns the word token before tokenIndex. It returns None when
// tokenIndex is the first word or is not a word token.
func (x *WordIndex) Previous(tokenIndex int) int {
	r := x.PositionOf(tokenIndex)
	if r <= 0 {
		return None
	}
	return x.words[r-1]
}

// Words returns a copy of the word token indices in order.
func (x *WordIndex) Words() []int {
	out := make([]int, len(x.words))
	copy(out, x.words)
	return out
}
