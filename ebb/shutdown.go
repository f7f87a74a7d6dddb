package ebb

import (
	"context"
	"time"
)

// motorPollInterval is the spec.md §4.5 shutdown poll cadence: block
// until QM reports both motors idle, polling at ~10ms.
const motorPollInterval = 10 * time.Millisecond

// Shutdown blocks until both motors report idle via QM, disables them,
// and closes the port. Per spec.md §4.5 this must run even when the
// owning session is torn down abnormally, so callers should invoke it
// from a deferred cleanup guarded by its own context rather than the
// one that was cancelled — Go has no destructor, so
// plotter.Orchestrator is responsible for calling this from a defer,
// grounded on dxl/controller.go's context.WithCancel+sync.WaitGroup
// shutdown discipline.
func (d *Device) Shutdown(ctx context.Context) error {
	for {
		status, err := d.QueryMotorStatus(ctx)
		if err != nil {
			return err
		}
		if !status.Motor1Moving && !status.Motor2Moving {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(motorPollInterval):
		}
	}

	if err := d.DisableMotors(ctx); err != nil {
		return err
	}
	return d.Close()
}

// EmergencyShutdown runs the cancellation path from spec.md §5: abort
// (ES,1), drain whatever response follows, raise the pen, then close.
// Used when the drawing session is interrupted mid-plan rather than
// completing normally.
func (d *Device) EmergencyShutdown(ctx context.Context) error {
	_ = d.Abort(ctx, true)
	_ = d.PenState(ctx, false, 0)
	return d.Close()
}
