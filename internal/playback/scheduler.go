package playback

import "time"

// TimerID identifies a scheduled timer. The zero value means "no timer".
type TimerID uint64

// NoTimer is the zero TimerID.
const NoTimer TimerID = 0

// Scheduler is the timer capability a Player is given instead of ambient
// global timers.
//
// Schedule arranges for fn to run every interval until Cancel is called
// with the returned id. Implementations must invoke fn on the same logical
// thread that drives the Player and must never invoke fn for an id after
// Cancel(id) returned. Cancel of an unknown or already cancelled id is a
// no-op.
type Scheduler interface {
	Schedule(interval time.Duration, fn func()) TimerID
	Cancel(id TimerID)
}
