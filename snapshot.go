package postpone

import (
	"encoding/json"
	"time"

	"braces.dev/errtrace"
)

// DelaySnapshot represents a serializable view of a [Delay].
// Only deterministic fields are included; the clock, the logger and
// registered callbacks are runtime-only and must be re-supplied on restore.
type DelaySnapshot struct {
	// Time is the snapshot timestamp.
	Time time.Time `json:"time"`
	// State is the delay state at snapshot time.
	State DelayState `json:"state"`
	// Target is the deadline the delay resolves at.
	Target time.Time `json:"target"`
	// Generation is the deadline's change counter.
	Generation uint64 `json:"generation"`
}

// IsValid checks whether the snapshot is valid.
func (snap *DelaySnapshot) IsValid() bool {
	if snap == nil {
		return false
	}
	switch snap.State {
	case DelayStatePending, DelayStateResolved, DelayStateStopped:
		return !snap.Target.IsZero()
	}
	return false
}

// Snapshot returns an immutable representation of the delay state.
// The returned snapshot can be serialized directly or passed to
// [RestoreDelay] to recreate a delay with the same deadline and generation.
func (d *Delay) Snapshot() *DelaySnapshot {
	if d == nil {
		return nil
	}

	target, gen := d.cell.read()
	return &DelaySnapshot{
		Time:       d.clock.Now(),
		State:      d.State(),
		Target:     target,
		Generation: gen,
	}
}

// MarshalJSON implements [json.Marshaler].
func (d *Delay) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	return errtrace.Wrap2(json.Marshal(d.Snapshot()))
}

// RestoreDelay recreates a [Delay] from its snapshot.
//
// A pending snapshot produces a live delay that resumes waiting against the
// snapshot's deadline and generation; a deadline that elapsed while the
// snapshot was in storage resolves almost immediately. A resolved or
// stopped snapshot produces a terminal delay whose accessors and channels
// behave as if it reached that state here. Callbacks must be reattached
// with [Delay.OnResolve].
func RestoreDelay(snap *DelaySnapshot, opts *DelayOptions) (*Delay, error) {
	if !snap.IsValid() {
		return nil, errtrace.Wrap(NewInvalidArgumentError("invalid delay snapshot"))
	}

	d := newDelay(snap.Target, snap.Generation, snap.State, opts)
	if snap.State == DelayStatePending {
		go d.run()
	}
	return d, nil
}
