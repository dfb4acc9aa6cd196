package deck

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() Option {
	n := 0
	return WithIDFunc(func() string {
		n++
		return fmt.Sprintf("card-%d", n)
	})
}

func TestDeck_AddTrimsAndPrepends(t *testing.T) {
	d := New(sequentialIDs())

	first, err := d.Add("  first card \n")
	require.NoError(t, err)
	assert.Equal(t, "first card", first.Content)

	_, err = d.Add("second")
	require.NoError(t, err)

	cards := d.List()
	require.Len(t, cards, 2)
	assert.Equal(t, "card-2", cards[0].ID, "newest first")
	assert.Equal(t, "card-1", cards[1].ID)
}

func TestDeck_AddRejectsBlank(t *testing.T) {
	d := New()

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := d.Add(content)
		assert.ErrorIs(t, err, ErrEmpty)
	}
	assert.Zero(t, d.Len())
}

func TestDeck_DefaultIDsAreUUIDs(t *testing.T) {
	d := New()
	c, err := d.Add("x")
	require.NoError(t, err)

	_, err = uuid.Parse(c.ID)
	assert.NoError(t, err)
}

func TestDeck_DeleteAndGet(t *testing.T) {
	d := New(sequentialIDs())
	d.Add("a")
	d.Add("b")

	c, err := d.Get("card-1")
	require.NoError(t, err)
	assert.Equal(t, "a", c.Content)

	require.NoError(t, d.Delete("card-1"))
	_, err = d.Get("card-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, d.Delete("card-1"), ErrNotFound)
	assert.Equal(t, 1, d.Len())
}

func TestDeck_ListIsACopy(t *testing.T) {
	d := New(sequentialIDs())
	d.Add("a")

	cards := d.List()
	cards[0].Content = "changed"

	c, _ := d.Get("card-1")
	assert.Equal(t, "a", c.Content)
}

func TestPreview(t *testing.T) {
	short := strings.Repeat("x", PreviewLength)
	assert.Equal(t, short, Preview(short))

	long := strings.Repeat("y", PreviewLength+1)
	assert.Equal(t, strings.Repeat("y", PreviewLength)+"...", Preview(long))

	// Characters, not bytes.
	wide := strings.Repeat("é", PreviewLength)
	assert.Equal(t, wide, Preview(wide))
}

func TestCard_CharsAndTruncated(t *testing.T) {
	c := Card{Content: "héllo"}
	assert.Equal(t, 5, c.Chars())
	assert.False(t, c.Truncated())

	c.Content = strings.Repeat("z", 151)
	assert.True(t, c.Truncated())
	assert.Len(t, []rune(c.Preview()), PreviewLength+3)
}
