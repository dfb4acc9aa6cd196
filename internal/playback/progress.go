package playback

import "github.com/roach88/teleprompt/internal/text"

// Progress returns how far position is through index, in percent.
// It is 0 when nothing is selected or the content has no words.
func Progress(index *text.WordIndex, position int) float64 {
	total := index.Total()
	if position == text.None || total == 0 {
		return 0
	}
	rank := index.PositionOf(position)
	if rank < 0 {
		return 0
	}
	return float64(rank+1) / float64(total) * 100
}
