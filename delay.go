package postpone

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qmuntal/stateless"

	"github.com/ghettovoice/postpone/internal/types"
	"github.com/ghettovoice/postpone/log"
)

// DelayState represents the lifecycle state of a [Delay].
type DelayState string

const (
	// DelayStatePending indicates the delay is waiting for its deadline.
	DelayStatePending DelayState = "pending"
	// DelayStateResolved indicates the delay has fired. Terminal.
	DelayStateResolved DelayState = "resolved"
	// DelayStateStopped indicates the delay was stopped before firing. Terminal.
	DelayStateStopped DelayState = "stopped"
)

// ResolveHandler is a callback invoked when a [Delay] resolves.
type ResolveHandler = func(ctx context.Context, d *Delay)

// DelayOptions contains options for a [Delay].
type DelayOptions struct {
	// Clock is the time source for the inner single-shot waits.
	// If nil, the [SystemClock] is used.
	Clock Clock
	// Log is the logger.
	// If nil, the [log.Default] is used.
	Log *slog.Logger
}

func (o *DelayOptions) clock() Clock {
	if o == nil || o.Clock == nil {
		return SystemClock()
	}
	return o.Clock
}

func (o *DelayOptions) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Default()
	}
	return o.Log
}

// Delay is a one-shot delay whose deadline can be rewritten through a
// [Handle] while a waiter is blocked on it.
//
// A Delay resolves exactly once, at or after the latest deadline written
// before resolution. It is waiting on exactly the deadline it last observed;
// whenever the shared deadline is rewritten, the in-flight inner wait is
// discarded and a new one is started, so a superseded deadline can never
// leak a stale firing to the waiter.
//
// Use [NewDelay] to create a Delay. All methods are safe for concurrent use.
type Delay struct {
	cell  *deadlineCell
	clock Clock
	fsm   *stateless.StateMachine
	ctx   context.Context
	log   *slog.Logger

	// done is closed exactly once, when the delay resolves.
	done chan struct{}
	// stopped is closed when the delay is stopped before resolution.
	// It doubles as the run loop shutdown signal.
	stopped chan struct{}

	stopReq   atomic.Bool
	onResolve types.CallbackManager[ResolveHandler]
}

// NewDelay creates a delay that resolves no sooner than target.
//
// A target already in the past is legal: the delay resolves almost
// immediately, still subject to one reschedule check. Options are optional
// and can be nil, in which case default values are used (see [DelayOptions]).
func NewDelay(target time.Time, opts *DelayOptions) *Delay {
	d := newDelay(target, 0, DelayStatePending, opts)
	go d.run()
	return d
}

func newDelay(target time.Time, gen uint64, start DelayState, opts *DelayOptions) *Delay {
	d := &Delay{
		cell:    newDeadlineCell(target, gen),
		clock:   opts.clock(),
		ctx:     context.Background(),
		log:     opts.log(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	d.initFSM(start)

	switch start {
	case DelayStateResolved:
		close(d.done)
	case DelayStateStopped:
		d.stopReq.Store(true)
		close(d.stopped)
	}
	return d
}

const (
	dlyEvtFire       = "fire"
	dlyEvtReschedule = "reschedule"
	dlyEvtStop       = "stop"
)

func (d *Delay) initFSM(start DelayState) {
	fsm := stateless.NewStateMachineWithMode(start, stateless.FiringImmediate)

	fsm.Configure(DelayStatePending).
		InternalTransition(dlyEvtReschedule, d.actReschedule).
		Permit(dlyEvtFire, DelayStateResolved).
		Permit(dlyEvtStop, DelayStateStopped)

	fsm.Configure(DelayStateResolved).
		OnEntry(d.actResolved).
		Ignore(dlyEvtStop).
		Ignore(dlyEvtReschedule)

	fsm.Configure(DelayStateStopped).
		OnEntry(d.actStopped).
		Ignore(dlyEvtFire).
		Ignore(dlyEvtReschedule)

	d.fsm = fsm
}

// run is the reschedule loop. It always waits on the deadline that belongs
// to the generation it last read; any firing of the inner timer is only
// trusted after a fresh read still shows that generation.
func (d *Delay) run() {
	target, gen := d.cell.read()
	for {
		tmr := d.clock.NewTimer(target.Sub(d.clock.Now()))

		select {
		case <-tmr.C():
			curTarget, curGen := d.cell.read()
			if curGen == gen {
				d.fire(dlyEvtFire)
				return
			}
			// The deadline moved while the wait was in flight; the firing
			// is stale, restart against the fresh deadline.
			target, gen = curTarget, curGen
			d.fire(dlyEvtReschedule)

		case <-d.cell.changed:
			tmr.Stop()
			curTarget, curGen := d.cell.read()
			if curGen == gen {
				// Coalesced notification already handled on a previous turn.
				continue
			}
			target, gen = curTarget, curGen
			d.fire(dlyEvtReschedule)

		case <-d.stopped:
			tmr.Stop()
			return
		}
	}
}

func (d *Delay) fire(evt string) {
	if err := d.fsm.FireCtx(d.ctx, evt); err != nil {
		// All triggers are permitted or ignored in every state.
		panic(fmt.Errorf("fire %q in state %q: %w", evt, d.State(), err))
	}
}

//nolint:unparam
func (d *Delay) actReschedule(ctx context.Context, _ ...any) error {
	d.log.LogAttrs(ctx, slog.LevelDebug, "delay rescheduled", slog.Any("delay", d))

	return nil
}

//nolint:unparam
func (d *Delay) actResolved(ctx context.Context, _ ...any) error {
	close(d.done)

	d.log.LogAttrs(ctx, slog.LevelDebug, "delay resolved", slog.Any("delay", d))

	for cb := range d.onResolve.All() {
		cb(ctx, d)
	}
	return nil
}

//nolint:unparam
func (d *Delay) actStopped(ctx context.Context, _ ...any) error {
	close(d.stopped)

	d.log.LogAttrs(ctx, slog.LevelDebug, "delay stopped", slog.Any("delay", d))

	return nil
}

// Handle returns a new [Handle] sharing this delay's deadline.
// It may be called any number of times; all returned handles address the
// same deadline. A handle obtained after the delay resolved or stopped is
// inert.
func (d *Delay) Handle() Handle {
	if d == nil {
		return Handle{}
	}
	return Handle{cell: d.cell}
}

// C returns the channel that is closed when the delay resolves.
// The channel is never closed if the delay is stopped first.
func (d *Delay) C() <-chan struct{} {
	if d == nil {
		return nil
	}
	return d.done
}

// Wait blocks until the delay resolves, the context is canceled or the
// delay is stopped. It returns nil on resolution, the context error on
// cancellation and [ErrDelayStopped] if [Delay.Stop] won.
func (d *Delay) Wait(ctx context.Context) error {
	select {
	case <-d.done:
		return nil
	case <-d.stopped:
		return ErrDelayStopped //errtrace:skip
	case <-ctx.Done():
		return ctx.Err() //errtrace:skip
	}
}

// Stop releases an unresolved delay: the inner wait is torn down, the run
// loop exits and waiters are unblocked with [ErrDelayStopped]. It returns
// false if the delay has already resolved or been stopped. Handles stay
// valid but become no-ops.
func (d *Delay) Stop() bool {
	if d == nil || !d.stopReq.CompareAndSwap(false, true) {
		return false
	}
	d.fire(dlyEvtStop)
	// The stop trigger is ignored when resolution won the race.
	return d.State() == DelayStateStopped
}

// OnResolve registers a callback invoked once when the delay resolves.
// If the delay has already resolved, the callback is invoked immediately.
// The returned function removes the callback.
func (d *Delay) OnResolve(fn ResolveHandler) (remove func()) {
	var once sync.Once
	wrapped := func(ctx context.Context, dd *Delay) {
		once.Do(func() { fn(ctx, dd) })
	}

	remove = d.onResolve.Add(wrapped)
	if d.State() == DelayStateResolved {
		remove()
		wrapped(d.ctx, d)
	}
	return remove
}

// State returns the current delay state.
func (d *Delay) State() DelayState {
	if d == nil {
		return ""
	}
	return d.fsm.MustState().(DelayState) //nolint:forcetypeassert
}

// Target returns the deadline the delay currently resolves at.
func (d *Delay) Target() time.Time {
	if d == nil {
		return time.Time{}
	}
	target, _ := d.cell.read()
	return target
}

// Generation returns the deadline's change counter. It starts at zero and
// grows by one on every [Handle.Postpone].
func (d *Delay) Generation() uint64 {
	if d == nil {
		return 0
	}
	_, gen := d.cell.read()
	return gen
}

// LogValue implements [slog.LogValuer].
func (d *Delay) LogValue() slog.Value {
	if d == nil {
		return slog.Value{}
	}
	target, gen := d.cell.read()
	return slog.GroupValue(
		slog.Time("target", target),
		slog.Uint64("generation", gen),
		slog.Any("state", d.State()),
	)
}
