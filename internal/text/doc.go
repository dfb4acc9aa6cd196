// Package text turns raw content into the token sequence a playback session
// walks over.
//
// Tokenize splits content on runs of whitespace and keeps those runs as
// tokens of their own, so joining every token's Text reproduces the input
// byte for byte. WordIndex is built once per token sequence and answers the
// per-tick questions the engine asks (rank of a word, next word, previous
// word) in O(1) from a precomputed reverse map.
//
// Both types are immutable after construction and safe to share between
// goroutines.
package text
