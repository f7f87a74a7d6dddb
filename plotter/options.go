package plotter

import "time"

// Model identifies a supported AxiDraw-class chassis, each with its
// own drawable area, per spec.md §6's model table.
type Model int

const (
	ModelV3 Model = iota
	ModelV3A3
	ModelSEA3
	ModelMini
)

// modelDimensions gives the drawable width/height in millimeters for
// each Model, grounded on original_source/src/axidraw.rs's model
// table (AxiDrawModel's doc comments: V3 215.9x279.4, V3/A3 and SE/A3
// 279.4x431.8, Mini 160x101).
var modelDimensions = map[Model][2]float64{
	ModelV3:   {215.9, 279.4},
	ModelV3A3: {279.4, 431.8},
	ModelSEA3: {279.4, 431.8},
	ModelMini: {160, 101},
}

// Dimensions returns the drawable width/height in millimeters for m.
func (m Model) Dimensions() (width, height float64) {
	d := modelDimensions[m]
	return d[0], d[1]
}

// Options bundles every plotting knob named in spec.md §6: servo
// positions/rates/delays, the acceleration/velocity/corner-factor
// triple the motion planner needs, the chassis model, and the serial
// port to use.
type Options struct {
	Model Model
	Port  string

	// PenUpPercent/PenDownPercent are 0-100 and map linearly onto the
	// servo's raw [7500,28000] range by ebb.ServoPosition, per spec.md
	// §6 and original_source/src/device.rs:142-151's configure().
	PenUpPercent   int
	PenDownPercent int
	// PenUpSpeed/PenDownSpeed are the user-facing servo rate values;
	// ebb.ServoRate multiplies by 5 before they reach SC,11/SC,12, per
	// original_source/src/device.rs:156-157.
	PenUpSpeed   int
	PenDownSpeed int
	PenUpDelay   time.Duration
	PenDownDelay time.Duration

	MicrostepDivisor int

	Acceleration float64
	MaxVelocity  float64
	CornerFactor float64

	// SliceDuration, if non-zero, forces stepper.SampledExecutor
	// (Strategy B) instead of letting the orchestrator pick per-block
	// native commands.
	SliceDuration time.Duration
}

// DefaultOptions returns the AxiDraw defaults from
// original_source/src/axidraw.rs's PEN_UP_POS/PEN_UP_SPEED/.../
// CORNER_FACTOR constants, per spec.md §6's parenthesized defaults.
func DefaultOptions() Options {
	return Options{
		Model:            ModelMini,
		PenUpPercent:     60,
		PenDownPercent:   30,
		PenUpSpeed:       150,
		PenDownSpeed:     150,
		MicrostepDivisor: 16,
		Acceleration:     16,
		MaxVelocity:      20,
		CornerFactor:     0.001,
	}
}

// StepsPerMM computes steps/mm as 80/microstep_divisor, per spec.md §6.
func (o Options) StepsPerMM() float64 {
	return 80 / float64(o.MicrostepDivisor)
}
