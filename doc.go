// Package postpone provides a one-shot delay whose deadline can be moved
// while another goroutine is already waiting on it.
//
// A [Delay] behaves like a single firing of [time.Timer], except that any
// number of [Handle] holders may rewrite the deadline concurrently with the
// waiter. The waiter never observes a stale firing: a reschedule that lands
// while the inner wait is in flight discards that wait and starts a new one
// for the fresh deadline. Moving the deadline into the past is legal and
// releases the waiter promptly.
//
// Basic usage:
//
//	d := postpone.NewDelay(time.Now().Add(5*time.Second), nil)
//	h := d.Handle()
//
//	// Another goroutine pushes the deadline back.
//	go h.Postpone(time.Now().Add(10 * time.Second))
//
//	if err := d.Wait(ctx); err != nil {
//	    // context canceled or delay stopped
//	}
//
// The channel form composes with select:
//
//	select {
//	case <-d.C():
//	case <-ctx.Done():
//	}
//
// A Delay resolves exactly once. Calling [Handle.Postpone] after resolution
// is a harmless no-op. [Delay.Stop] releases all resources of an unresolved
// delay and unblocks waiters with [ErrDelayStopped].
//
// All operations are safe for concurrent use.
package postpone

//go:generate go tool errtrace -w .
