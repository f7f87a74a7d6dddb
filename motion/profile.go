package motion

import (
	"math"

	"github.com/axiplan/axiplan/geom"
)

// epsilon is the planner's numeric tolerance for profile-solver and
// backtracking comparisons. The spec fixes this at 1e-9 rather than
// the much tighter float64 machine epsilon the original Rust used:
// 1e-9 is loose enough to treat the intentional near-zero sub-distance
// cases (pure-acceleration, reversal) as exact without tripping on
// ordinary floating point noise.
const epsilon = 1e-9

// Triangle is the accelerate-then-decelerate profile for one segment,
// with no cruise phase. S1/S2 are the distances spent accelerating and
// decelerating; T1/T2 the corresponding durations; Vmax the peak
// velocity reached; P1/P2/P3 the start, apex, and end points.
type Triangle struct {
	S1, S2 float64
	T1, T2 float64
	Vmax   float64
	P1, P2, P3 geom.Point
}

// TriangularProfile computes the accelerate/decelerate profile for a
// segment of distance s, entry velocity vi, desired exit velocity vf,
// and acceleration magnitude a. Three cases the caller must handle:
// S1 < -epsilon means vf is unreachable from vi over s (caller must
// lower the entry velocity and backtrack); S2 <= 0 means deceleration
// never starts (pure acceleration); Vmax above the segment's velocity
// ceiling means the caller should promote to a TrapezoidalProfile.
func TriangularProfile(s, vi, vf, a float64, p1, p3 geom.Point) Triangle {
	s1 := (2*a*s + vf*vf - vi*vi) / (4 * a)
	s2 := s - s1
	vmax := math.Sqrt(math.Max(0, vi*vi+2*a*s1))
	t1 := (vmax - vi) / a
	t2 := (vmax - vf) / a
	p2 := p1.Lerp(p3, s1/s)

	return Triangle{
		S1: s1, S2: s2,
		T1: t1, T2: t2,
		Vmax: vmax,
		P1:   p1, P2: p2, P3: p3,
	}
}

// Trapezoid is the accelerate-cruise-decelerate profile: three blocks,
// cruising at Vmax (the segment's velocity ceiling, not the triangle's
// peak). P1..P4 are the segment start, the end of acceleration, the
// end of cruise, and the segment end: the four points the three
// blocks span.
type Trapezoid struct {
	T1, T2, T3         float64
	Saccel, Scruise, Sdecel float64
	Vmax               float64
	P1, P2, P3, P4     geom.Point
}

// TrapezoidalProfile computes the accelerate-cruise-decelerate profile
// for a segment of distance s, entry velocity vi, cruise ceiling vmax,
// exit velocity vf, and acceleration magnitude a.
func TrapezoidalProfile(s, vi, vmax, vf, a float64, p1, p4 geom.Point) Trapezoid {
	t1 := (vmax - vi) / a
	sAccel := (vmax*vmax - vi*vi) / (2 * a)

	t3 := (vmax - vf) / a
	sDecel := (vmax*vmax - vf*vf) / (2 * a)

	sCruise := s - sAccel - sDecel
	t2 := sCruise / vmax

	p2 := p1.Lerps(p4, sAccel)
	p3 := p1.Lerps(p4, sAccel+sCruise)

	return Trapezoid{
		T1: t1, T2: t2, T3: t3,
		Saccel: sAccel, Scruise: sCruise, Sdecel: sDecel,
		Vmax: vmax,
		P1:   p1, P2: p2, P3: p3, P4: p4,
	}
}
