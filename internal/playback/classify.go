package playback

import "github.com/roach88/teleprompt/internal/text"

// Class is the visual classification of a token relative to the position.
type Class int

const (
	ClassWhitespace Class = iota
	ClassBefore
	ClassCurrent
	ClassAfter
)

// String returns the name used in traces and host renderers.
func (c Class) String() string {
	switch c {
	case ClassWhitespace:
		return "whitespace"
	case ClassBefore:
		return "before-current"
	case ClassCurrent:
		return "current"
	case ClassAfter:
		return "after-current"
	default:
		return "unknown"
	}
}

// Classify returns the class of tokenIndex given the current position.
// Words are "after" when nothing is selected yet.
func Classify(index *text.WordIndex, position, tokenIndex int) Class {
	rank := index.PositionOf(tokenIndex)
	if rank < 0 {
		return ClassWhitespace
	}
	if tokenIndex == position {
		return ClassCurrent
	}
	current := index.PositionOf(position)
	if current >= 0 && rank < current {
		return ClassBefore
	}
	return ClassAfter
}
