package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/teleprompt/internal/text"
)

func TestClassify(t *testing.T) {
	// tokens: 0 "a", 1 " ", 2 "b", 3 " ", 4 "c"
	idx := text.NewWordIndex(text.Tokenize("a b c"))

	t.Run("not started", func(t *testing.T) {
		assert.Equal(t, ClassAfter, Classify(idx, text.None, 0))
		assert.Equal(t, ClassWhitespace, Classify(idx, text.None, 1))
		assert.Equal(t, ClassAfter, Classify(idx, text.None, 4))
	})

	t.Run("middle", func(t *testing.T) {
		assert.Equal(t, ClassBefore, Classify(idx, 2, 0))
		assert.Equal(t, ClassWhitespace, Classify(idx, 2, 1))
		assert.Equal(t, ClassCurrent, Classify(idx, 2, 2))
		assert.Equal(t, ClassWhitespace, Classify(idx, 2, 3))
		assert.Equal(t, ClassAfter, Classify(idx, 2, 4))
	})

	t.Run("first", func(t *testing.T) {
		assert.Equal(t, ClassCurrent, Classify(idx, 0, 0))
		assert.Equal(t, ClassAfter, Classify(idx, 0, 2))
	})
}

func TestClass_String(t *testing.T) {
	assert.Equal(t, "current", ClassCurrent.String())
	assert.Equal(t, "before-current", ClassBefore.String())
	assert.Equal(t, "after-current", ClassAfter.String())
	assert.Equal(t, "whitespace", ClassWhitespace.String())
}

func TestProgress(t *testing.T) {
	idx := text.NewWordIndex(text.Tokenize("Hello world"))

	assert.Equal(t, 0.0, Progress(idx, text.None))
	assert.Equal(t, 50.0, Progress(idx, 0))
	assert.Equal(t, 100.0, Progress(idx, 2))
	assert.Equal(t, 0.0, Progress(idx, 1), "whitespace is not a position")

	empty := text.NewWordIndex(text.Tokenize("   "))
	assert.Equal(t, 0.0, Progress(empty, text.None))
	assert.Equal(t, 0.0, Progress(empty, 0))
}

func TestCommand_Names(t *testing.T) {
	for kind, name := range commandNames {
		parsed, err := ParseCommandKind(name)
		assert.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseCommandKind("rewind")
	assert.Error(t, err)

	assert.Equal(t, "jump(4)", Jump(4).String())
	assert.Equal(t, "set_pace(60)", SetPace(60).String())
	assert.Equal(t, "toggle", Cmd(CommandTogglePlay).String())
	assert.Equal(t, "CommandKind(99)", CommandKind(99).String())
}
