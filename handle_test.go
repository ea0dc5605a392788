package postpone_test

import (
	"testing"
	"time"

	"github.com/ghettovoice/postpone"
)

func TestHandle_Copies(t *testing.T) {
	t.Parallel()

	d := postpone.NewDelay(time.Now().Add(time.Hour), nil)
	defer d.Stop()

	h1 := d.Handle()
	h2 := h1 // copying hands over the same capability
	h3 := d.Handle()

	target := time.Now().Add(2 * time.Hour)
	h2.Postpone(target)

	for i, h := range []postpone.Handle{h1, h2, h3} {
		if got := h.Target(); !got.Equal(target) {
			t.Fatalf("handle %d Target() = %v, want %v", i, got, target)
		}
		if got := h.Generation(); got != 1 {
			t.Fatalf("handle %d Generation() = %d, want 1", i, got)
		}
		if !h.IsValid() {
			t.Fatalf("handle %d IsValid() = false, want true", i)
		}
	}
}

func TestHandle_Zero(t *testing.T) {
	t.Parallel()

	var h postpone.Handle
	if h.IsValid() {
		t.Fatal("zero handle IsValid() = true, want false")
	}

	// Must not panic.
	h.Postpone(time.Now())

	if !h.Target().IsZero() {
		t.Fatal("zero handle Target() is not zero")
	}
	if got := h.Generation(); got != 0 {
		t.Fatalf("zero handle Generation() = %d, want 0", got)
	}
}

func TestHandle_OutlivesDelay(t *testing.T) {
	t.Parallel()

	d := postpone.NewDelay(time.Now().Add(10*time.Millisecond), nil)
	h := d.Handle()

	if err := d.Wait(t.Context()); err != nil {
		t.Fatalf("d.Wait(ctx) error = %v, want nil", err)
	}

	// The write itself still lands in the shared state, but there is
	// nothing left to reschedule.
	h.Postpone(time.Now().Add(time.Hour))
	if got, want := d.State(), postpone.DelayStateResolved; got != want {
		t.Fatalf("d.State() = %q, want %q", got, want)
	}
}
