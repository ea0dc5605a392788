package postpone

import "time"

//go:generate go tool mockgen -destination internal/testutil/clockmock/clock_mock.go -package clockmock . Clock,Timer

// Clock is the time source used by a [Delay] for its inner single-shot waits.
// Implementations must be safe for concurrent use.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// NewTimer returns a single-shot timer that fires once d has elapsed.
	// A non-positive d must produce a timer that fires immediately.
	NewTimer(d time.Duration) Timer
}

// Timer is a single-shot wait started by [Clock.NewTimer].
type Timer interface {
	// C returns the channel on which the firing time is delivered.
	C() <-chan time.Time
	// Stop prevents the timer from firing.
	// It returns false if the timer has already fired.
	Stop() bool
}

type systemClock struct{}

var sysClock systemClock

// SystemClock returns the [Clock] backed by the time package.
// It is the default clock of a [Delay].
func SystemClock() Clock { return sysClock }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) NewTimer(d time.Duration) Timer { return sysTimer{time.NewTimer(d)} }

type sysTimer struct{ tmr *time.Timer }

func (t sysTimer) C() <-chan time.Time { return t.tmr.C }

func (t sysTimer) Stop() bool { return t.tmr.Stop() }
