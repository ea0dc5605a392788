package postpone

import "github.com/ghettovoice/postpone/internal/errorutil"

// Common errors.
const (
	ErrInvalidArgument = errorutil.ErrInvalidArgument
	// ErrDelayStopped is returned by [Delay.Wait] when the delay is stopped
	// before it resolves.
	ErrDelayStopped Error = "delay stopped"
)

// Error represents a postpone error.
// See [errorutil.Error].
type Error = errorutil.Error

// NewInvalidArgumentError creates a new error with [ErrInvalidArgument] or
// wraps provided error with [ErrInvalidArgument].
func NewInvalidArgumentError(args ...any) error {
	return errorutil.NewInvalidArgumentError(args...) //errtrace:skip
}
