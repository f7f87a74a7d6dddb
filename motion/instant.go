package motion

import "github.com/axiplan/axiplan/geom"

// Instant is a sampled kinematic state: how far into a plan or block we
// are in time and distance, the instantaneous velocity/acceleration,
// and the resulting position.
type Instant struct {
	TimeElapsed      float64
	DistanceTraveled float64
	Velocity         float64
	Acceleration     float64
	Position         geom.Point
}
