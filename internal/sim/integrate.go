package sim

import (
	"context"
	"fmt"
)

// Integrate runs exactly cfg.TotalSteps stepper iterations over a finalized
// collection, recording snapshots of every body at the configured cadence.
// dt is FinalTime/TotalSteps. Configuration errors are reported before any
// stepping; a non-finite state after a step aborts the run with the step
// index and offending body.
func Integrate(ctx context.Context, stepper *Stepper, c *Collection, cfg Config) (*Result, error) {
	if err := validateConfig(c, cfg); err != nil {
		return nil, err
	}

	dt := cfg.FinalTime / float64(cfg.TotalSteps)
	every := cfg.RecordEvery
	if every <= 0 {
		every = 1
	}

	capacity := cfg.TotalSteps/every + 2
	result := &Result{
		Times:  make([]float64, 0, capacity),
		Series: make([][]Record, len(c.bodies)),
	}
	for i := range result.Series {
		result.Series[i] = make([]Record, 0, capacity)
	}

	time := 0.0
	record(result, c, 0, time)

	for i := 0; i < cfg.TotalSteps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		var err error
		time, err = stepper.Step(c, time, dt)
		if err != nil {
			return result, &StepError{Step: i, Time: time, Wrapped: err}
		}

		if cfg.ValidateState {
			for _, b := range c.bodies {
				if err := b.CheckFinite(); err != nil {
					return result, &StepError{Step: i, Time: time, Body: b.Name(), Wrapped: err}
				}
			}
		}

		result.StepsTaken++
		if (i+1)%every == 0 {
			record(result, c, i+1, time)
		}
	}

	return result, nil
}

func validateConfig(c *Collection, cfg Config) error {
	if !c.Finalized() {
		return ErrNotFinalized
	}
	if cfg.TotalSteps <= 0 {
		return fmt.Errorf("%w: total steps must be positive, got %d", ErrBadConfig, cfg.TotalSteps)
	}
	if cfg.FinalTime <= 0 {
		return fmt.Errorf("%w: final time must be positive, got %g", ErrBadConfig, cfg.FinalTime)
	}
	return nil
}

func record(r *Result, c *Collection, step int, time float64) {
	r.Times = append(r.Times, time)
	for i, b := range c.bodies {
		r.Series[i] = append(r.Series[i], Record{Step: step, Time: time, Snapshot: b.Snapshot()})
	}
}
