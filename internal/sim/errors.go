package sim

import (
	"errors"
	"fmt"
)

// Configuration errors are fatal and reported before any stepping occurs.
var (
	// ErrNotFinalized indicates Integrate was called before Finalize.
	ErrNotFinalized = errors.New("sim: collection not finalized")

	// ErrFinalized indicates a registration after Finalize.
	ErrFinalized = errors.New("sim: collection already finalized")

	// ErrNoBodies indicates Finalize on an empty collection.
	ErrNoBodies = errors.New("sim: collection holds no bodies")

	// ErrBadConfig indicates a non-positive step count or final time.
	ErrBadConfig = errors.New("sim: invalid run configuration")

	// ErrNonFinite indicates NaN or Inf detected in body state.
	ErrNonFinite = errors.New("sim: non-finite state")
)

// StepError wraps a failure during one integration step with its context.
type StepError struct {
	Step    int
	Time    float64
	Body    string
	Wrapped error
}

func (e *StepError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("sim: step %d (t=%.6g) body %q: %v", e.Step, e.Time, e.Body, e.Wrapped)
	}
	return fmt.Sprintf("sim: step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }
