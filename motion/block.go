package motion

import (
	"math"

	"github.com/axiplan/axiplan/geom"
)

// Block is a single constant-acceleration kinematic slice: accelerate
// (positive), cruise (zero), or decelerate (negative). Distance is
// derived from p1->p2 at construction and must satisfy
// distance ≈ initialVelocity*duration + 0.5*acceleration*duration^2.
type Block struct {
	Acceleration    float64
	Duration        float64
	InitialVelocity float64
	Distance        float64
	P1, P2          geom.Point
}

// NewBlock builds a Block, deriving Distance from p1 and p2.
func NewBlock(acceleration, duration, initialVelocity float64, p1, p2 geom.Point) Block {
	return Block{
		Acceleration:    acceleration,
		Duration:        duration,
		InitialVelocity: initialVelocity,
		Distance:        p1.Distance(p2),
		P1:              p1,
		P2:              p2,
	}
}

// Instant evaluates the block at elapsed time t (clamped to
// [0, Duration]), offsetting the result by dt/ds so the sample lines up
// with a containing Plan's cumulative time/distance indices.
func (b Block) Instant(t, dt, ds float64) Instant {
	clampedT := clamp(t, 0, b.Duration)
	a := b.Acceleration
	v := b.InitialVelocity + a*clampedT
	s := b.InitialVelocity*clampedT + 0.5*a*clampedT*clampedT
	clampedS := clamp(s, 0, b.Distance)
	position := b.P1.Lerps(b.P2, clampedS)
	return Instant{
		TimeElapsed:      clampedT + dt,
		DistanceTraveled: clampedS + ds,
		Velocity:         v,
		Acceleration:     a,
		Position:         position,
	}
}

// InstantAtDistance evaluates the block at the time it has traveled
// distance s, inverting s = vi*t + 0.5*a*t^2 for t.
func (b Block) InstantAtDistance(s, dt, ds float64) Instant {
	if s <= 0 {
		return b.Instant(0, dt, ds)
	}
	if s >= b.Distance {
		return b.Instant(b.Duration, dt, ds)
	}
	vf := math.Sqrt(b.InitialVelocity*b.InitialVelocity + 2*b.Acceleration*s)
	t := (2 * s) / (vf + b.InitialVelocity)
	return b.Instant(t, dt, ds)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
