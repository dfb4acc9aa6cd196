package playback

import "time"

// Pace bounds and defaults, in words per minute.
const (
	MinWPM      = 30
	MaxWPM      = 300
	DefaultWPM  = 120
	DefaultStep = 10
)

// Pace is the pace controller. The zero value is not usable; use NewPace.
//
// INVARIANT: MinWPM <= wpm <= MaxWPM at all times.
type Pace struct {
	wpm int
}

// NewPace returns a controller clamped to wpm.
func NewPace(wpm int) *Pace {
	return &Pace{wpm: ClampWPM(wpm)}
}

// ClampWPM clamps v into [MinWPM, MaxWPM].
func ClampWPM(v int) int {
	if v < MinWPM {
		return MinWPM
	}
	if v > MaxWPM {
		return MaxWPM
	}
	return v
}

// WPM returns the current pace.
func (p *Pace) WPM() int {
	return p.wpm
}

// Set clamps value into range, stores it and returns the stored pace.
// Out-of-range input is never rejected.
func (p *Pace) Set(value int) int {
	p.wpm = ClampWPM(value)
	return p.wpm
}

// Increase adds step and clamps.
func (p *Pace) Increase(step int) int {
	return p.Set(p.wpm + step)
}

// Decrease subtracts step and clamps.
func (p *Pace) Decrease(step int) int {
	return p.Set(p.wpm - step)
}

// IntervalMs returns round(60000 / wpm) milliseconds.
func (p *Pace) IntervalMs() int64 {
	return IntervalMs(p.wpm)
}

// Interval returns IntervalMs as a time.Duration.
func (p *Pace) Interval() time.Duration {
	return time.Duration(p.IntervalMs()) * time.Millisecond
}

// IntervalMs returns round(60000 / wpm) for a positive wpm, rounding halves up.
func IntervalMs(wpm int) int64 {
	w := int64(wpm)
	return (60000 + w/2) / w
}
