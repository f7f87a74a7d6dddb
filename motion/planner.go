package motion

import "github.com/axiplan/axiplan/geom"

// Planner bundles the ambient limits (acceleration magnitude, velocity
// ceiling, corner factor) that apply to every polyline planned through
// it. It is stateless and safe for concurrent use — Plan performs no
// I/O and shares no mutable state across calls.
type Planner struct {
	Acceleration float64
	MaxVelocity  float64
	CornerFactor float64
}

// NewPlanner constructs a Planner with the given acceleration
// magnitude, velocity ceiling, and corner factor.
func NewPlanner(acceleration, maxVelocity, cornerFactor float64) *Planner {
	return &Planner{Acceleration: acceleration, MaxVelocity: maxVelocity, CornerFactor: cornerFactor}
}

// Plan runs the look-ahead planner over points using the Planner's
// ambient limits, with no per-vertex velocity or per-segment ceiling
// overrides.
func (pl *Planner) Plan(points []geom.Point) (*Plan, error) {
	return NewPlan(points, nil, nil, pl.Acceleration, pl.MaxVelocity, pl.CornerFactor)
}
