package postpone

import "time"

// Handle is a capability to rewrite the deadline of a [Delay].
//
// Handles are cheap values; copying one is the way to hand the capability to
// another goroutine, every copy addresses the same deadline. Any number of
// handles may call [Handle.Postpone] concurrently with each other and with
// the delay's waiter.
//
// The zero Handle is inert. Handles may outlive their delay's resolution;
// postponing afterwards has no observable effect.
type Handle struct {
	cell *deadlineCell
}

// Postpone rewrites the deadline the delay resolves at. It returns
// immediately and never blocks on the waiter.
//
// Despite the name, target may also lie before the current deadline or in
// the past: the deadline is pulled in and the delay resolves promptly,
// still subject to one reschedule check. Concurrent calls apply in some
// total order; the last write wins.
func (h Handle) Postpone(target time.Time) {
	if h.cell == nil {
		return
	}
	h.cell.write(target)
}

// Target returns the deadline currently held by the shared state.
func (h Handle) Target() time.Time {
	if h.cell == nil {
		return time.Time{}
	}
	target, _ := h.cell.read()
	return target
}

// Generation returns the deadline's change counter.
func (h Handle) Generation() uint64 {
	if h.cell == nil {
		return 0
	}
	_, gen := h.cell.read()
	return gen
}

// IsValid reports whether the handle is attached to a delay.
func (h Handle) IsValid() bool { return h.cell != nil }
