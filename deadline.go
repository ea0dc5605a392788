package postpone

import (
	"sync"
	"time"
)

// deadlineCell is the single piece of state shared between a [Delay] and all
// of its handles. The target and its generation are only ever read and
// written together under the mutex, so a reader can never observe a target
// paired with a foreign generation. The generation grows by one on every
// write, which makes any reschedule detectable since the last snapshot,
// including back-to-back writes of the same target.
type deadlineCell struct {
	mu     sync.Mutex
	target time.Time
	gen    uint64

	// changed coalesces write notifications for the delay loop, so a target
	// pulled into the past releases the waiter without waiting out the
	// superseded deadline.
	changed chan struct{}
}

func newDeadlineCell(target time.Time, gen uint64) *deadlineCell {
	return &deadlineCell{
		target:  target,
		gen:     gen,
		changed: make(chan struct{}, 1),
	}
}

// read returns a consistent (target, generation) snapshot.
func (c *deadlineCell) read() (time.Time, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target, c.gen
}

// write replaces the target, bumps the generation and nudges the delay loop.
// Concurrent writes apply in mutex order; none is lost and no generation
// value is reused.
func (c *deadlineCell) write(target time.Time) {
	c.mu.Lock()
	c.target = target
	c.gen++
	c.mu.Unlock()

	select {
	case c.changed <- struct{}{}:
	default:
	}
}
