package harness

import (
	"fmt"
	"unicode/utf8"

	"github.com/roach88/teleprompt/internal/playback"
	"github.com/roach88/teleprompt/internal/testutil"
	"github.com/roach88/teleprompt/internal/text"
)

// Property is a named check that must hold for every content string.
type Property struct {
	Name  string
	Check func(content string) error
}

// Properties returns the built-in playback properties.
func Properties() []Property {
	return []Property{
		{Name: "round_trip", Check: checkRoundTrip},
		{Name: "monotonic_navigation", Check: checkMonotonicNavigation},
		{Name: "empty_content", Check: checkEmptyContent},
		{Name: "jump_rejection", Check: checkJumpRejection},
		{Name: "reset_idempotence", Check: checkResetIdempotence},
		{Name: "pace_clamping", Check: checkPaceClamping},
	}
}

// PropertyResult summarizes a CheckProperties run.
type PropertyResult struct {
	TotalInputs int               `json:"total_inputs"`
	TotalChecks int               `json:"total_checks"`
	Passed      int               `json:"passed"`
	Failed      int               `json:"failed"`
	Failures    []PropertyFailure `json:"failures,omitempty"`
}

// PropertyFailure represents one property that did not hold for one input.
type PropertyFailure struct {
	Property string `json:"property"`
	Input    string `json:"input"`
	Error    string `json:"error"`
}

// CheckProperties runs every property against every content string.
func CheckProperties(corpus []string) *PropertyResult {
	result := &PropertyResult{TotalInputs: len(corpus)}

	for _, content := range corpus {
		for _, prop := range Properties() {
			result.TotalChecks++
			if err := prop.Check(content); err != nil {
				result.Failed++
				result.Failures = append(result.Failures, PropertyFailure{
					Property: prop.Name,
					Input:    shorten(content),
					Error:    err.Error(),
				})
				continue
			}
			result.Passed++
		}
	}

	return result
}

// DefaultCorpus covers the tokenizer's edge cases.
var DefaultCorpus = []string{
	"",
	"   ",
	"Hello world",
	"  leading and trailing  ",
	"tabs\tand\nnewlines\r\n",
	"one",
	"wide 日本語 words",
	"combining e\u0301 accent",
	"no\u00a0break\u2003em space",
	"emoji 🙂 between",
}

func shorten(s string) string {
	const limit = 40
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

func checkRoundTrip(content string) error {
	if got := text.Join(text.Tokenize(content)); got != content {
		return fmt.Errorf("tokens join to %q", got)
	}
	return nil
}

func checkMonotonicNavigation(content string) error {
	index := text.NewWordIndex(text.Tokenize(content))
	for _, x := range index.Words() {
		next := index.Next(x)
		if next == text.None {
			continue
		}
		if index.PositionOf(next) != index.PositionOf(x)+1 {
			return fmt.Errorf("next(%d)=%d has rank %d, want %d",
				x, next, index.PositionOf(next), index.PositionOf(x)+1)
		}
		if index.Previous(next) != x {
			return fmt.Errorf("previous(next(%d)) = %d", x, index.Previous(next))
		}
	}
	return nil
}

func checkEmptyContent(content string) error {
	p, sched := newPropertyPlayer(content)
	if p.Index().Total() != 0 {
		return nil
	}
	p.Start()
	if p.Position() != text.None || p.State() != playback.Paused || p.Progress() != 0 {
		return fmt.Errorf("start on empty content: position=%d state=%s progress=%v",
			p.Position(), p.State(), p.Progress())
	}
	if n := len(sched.Scheduled()); n != 0 {
		return fmt.Errorf("start on empty content scheduled %d timers", n)
	}
	return nil
}

func checkJumpRejection(content string) error {
	p, _ := newPropertyPlayer(content)
	p.Start()
	before := p.Snapshot()
	for i, tok := range p.Tokens() {
		if tok.IsWord() {
			continue
		}
		p.JumpTo(i)
		if p.Snapshot() != before {
			return fmt.Errorf("jump to whitespace token %d changed state", i)
		}
	}
	return nil
}

func checkResetIdempotence(content string) error {
	p, sched := newPropertyPlayer(content)
	p.Start()
	p.StepForward()
	p.Reset()
	once := p.Snapshot()
	p.Reset()
	if p.Snapshot() != once {
		return fmt.Errorf("second reset changed state")
	}
	if once.Position != text.None || once.State != playback.Paused {
		return fmt.Errorf("reset left position=%d state=%s", once.Position, once.State)
	}
	if n := len(sched.Active()); n != 0 {
		return fmt.Errorf("reset left %d live timers", n)
	}
	return nil
}

func checkPaceClamping(content string) error {
	p, _ := newPropertyPlayer(content)
	for _, tc := range []struct{ in, want int }{
		{1000, playback.MaxWPM},
		{-5, playback.MinWPM},
		{150, 150},
	} {
		p.SetPace(tc.in)
		if p.WPM() != tc.want {
			return fmt.Errorf("set pace %d gave %d, want %d", tc.in, p.WPM(), tc.want)
		}
	}
	return nil
}

func newPropertyPlayer(content string) (*playback.Player, *testutil.ManualScheduler) {
	sched := testutil.NewManualScheduler()
	return playback.New(content, sched), sched
}
