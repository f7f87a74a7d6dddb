package plotter

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/axiplan/axiplan/ebb"
	"github.com/axiplan/axiplan/geom"
	"github.com/axiplan/axiplan/motion"
	"github.com/axiplan/axiplan/stepper"
)

// junctionEpsilon is the tolerance used to decide whether consecutive
// polylines share an endpoint closely enough to skip a pen lift, per
// spec.md §4.4's interleaving rule.
const junctionEpsilon = 1e-6

// divisorToMicrostepMode maps the options' microstep_divisor to the
// ebb package's MicrostepMode enum.
var divisorToMicrostepMode = map[int]ebb.MicrostepMode{
	1:  ebb.FullStep,
	2:  ebb.HalfStep,
	4:  ebb.QuarterStep,
	8:  ebb.EighthStep,
	16: ebb.SixteenthStep,
}

// Orchestrator binds a connected ebb.Device, a motion.Planner, and a
// stepper.Executor to drive a full Drawing. Ported from
// original_source/src/axidraw.rs's Axidraw::draw per spec.md §4.6.
type Orchestrator struct {
	Device   *ebb.Device
	Planner  *motion.Planner
	Executor stepper.Executor
	Options  Options
	log      zerolog.Logger
}

// NewOrchestrator builds an Orchestrator from already-resolved
// dependencies. Callers choose the Executor (native vs sampled)
// themselves; see NewExecutorFor for the spec.md §4.4 selection rule.
func NewOrchestrator(device *ebb.Device, opts Options, executor stepper.Executor, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		Device:   device,
		Planner:  motion.NewPlanner(opts.Acceleration, opts.MaxVelocity, opts.CornerFactor),
		Executor: executor,
		Options:  opts,
		log:      log.With().Str("component", "orchestrator").Logger(),
	}
}

// NewExecutorFor picks stepper.SampledExecutor when opts.SliceDuration
// is set (Strategy B, mandatory whenever the caller's
// acceleration/velocity configuration could produce an
// over-duration block per spec.md §4.4), else stepper.NativeExecutor
// (Strategy A).
func NewExecutorFor(opts Options) stepper.Executor {
	if opts.SliceDuration > 0 {
		return &stepper.SampledExecutor{
			StepsPerMM:    opts.StepsPerMM(),
			SliceDuration: opts.SliceDuration.Seconds(),
		}
	}
	return &stepper.NativeExecutor{StepsPerMM: opts.StepsPerMM()}
}

// Run executes spec.md §4.6's full sequence: open/enable/zero/raise,
// stream every polyline with pen-state interleaving, return to origin
// with pen raised, disable motors. The deferred cleanup runs even if an
// earlier device step returns an error or ctx is canceled mid-drawing:
// on cancellation it runs Device.EmergencyShutdown (abort, raise pen,
// close), otherwise Device.Shutdown (wait idle, disable, close),
// matching spec.md §5's cancellation policy.
func (o *Orchestrator) Run(ctx context.Context, drawing Drawing) (err error) {
	mode, ok := divisorToMicrostepMode[o.Options.MicrostepDivisor]
	if !ok {
		return fmt.Errorf("plotter: unsupported microstep_divisor %d", o.Options.MicrostepDivisor)
	}

	defer func() {
		if ctx.Err() != nil {
			if shutdownErr := o.Device.EmergencyShutdown(context.Background()); shutdownErr != nil && err == nil {
				err = fmt.Errorf("plotter: emergency shutdown: %w", shutdownErr)
			}
			return
		}
		if shutdownErr := o.Device.Shutdown(ctx); shutdownErr != nil && err == nil {
			err = fmt.Errorf("plotter: shutdown: %w", shutdownErr)
		}
	}()

	if err := o.Device.Configure(ctx); err != nil {
		return fmt.Errorf("plotter: configure servos: %w", err)
	}
	if err := o.Device.EnableMotors(ctx, mode); err != nil {
		return fmt.Errorf("plotter: enable motors: %w", err)
	}
	if err := o.Device.ZeroPosition(ctx); err != nil {
		return fmt.Errorf("plotter: zero position: %w", err)
	}
	if err := o.Device.PenState(ctx, false, 0); err != nil {
		return fmt.Errorf("plotter: raise pen: %w", err)
	}

	current := geom.Point{X: 0, Y: 0}
	for i, polyline := range drawing.Polylines {
		if len(polyline) == 0 {
			continue
		}

		if err := o.travel(ctx, current, polyline[0]); err != nil {
			return err
		}
		if err := o.Device.PenState(ctx, true, int(o.Options.PenDownDelay.Milliseconds())); err != nil {
			return fmt.Errorf("plotter: lower pen: %w", err)
		}

		plan, planErr := o.Planner.Plan(polyline)
		if plan != nil {
			if err := o.Executor.Run(ctx, plan, o.Device); err != nil {
				return fmt.Errorf("plotter: execute polyline %d: %w", i, err)
			}
		}
		if planErr != nil {
			o.log.Warn().Err(planErr).Int("polyline", i).Msg("plan was infeasible, drew best effort")
		}

		current = polyline[len(polyline)-1]

		skipLift := i+1 < len(drawing.Polylines) && nextStartsHere(drawing.Polylines[i+1:], current)
		if !skipLift {
			if err := o.Device.PenState(ctx, false, int(o.Options.PenUpDelay.Milliseconds())); err != nil {
				return fmt.Errorf("plotter: raise pen: %w", err)
			}
		}
	}

	if err := o.travel(ctx, current, geom.Point{X: 0, Y: 0}); err != nil {
		return err
	}
	if err := o.Device.PenState(ctx, false, 0); err != nil {
		return fmt.Errorf("plotter: raise pen at origin: %w", err)
	}
	return nil
}

// nextStartsHere reports whether the first non-empty polyline in
// rest begins within junctionEpsilon of at.
func nextStartsHere(rest [][]geom.Point, at geom.Point) bool {
	for _, polyline := range rest {
		if len(polyline) == 0 {
			continue
		}
		return polyline[0].Distance(at) <= junctionEpsilon
	}
	return false
}

// travel plans and executes a pen-up move from from to to.
func (o *Orchestrator) travel(ctx context.Context, from, to geom.Point) error {
	if from.Distance(to) <= junctionEpsilon {
		return nil
	}
	plan, planErr := o.Planner.Plan([]geom.Point{from, to})
	if plan == nil {
		return fmt.Errorf("plotter: travel move: %w", planErr)
	}
	if planErr != nil {
		o.log.Warn().Err(planErr).Msg("travel move plan was infeasible, moved best effort")
	}
	if runErr := o.Executor.Run(ctx, plan, o.Device); runErr != nil {
		return fmt.Errorf("plotter: travel move: %w", runErr)
	}
	return nil
}
