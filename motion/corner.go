package motion

import (
	"math"

	"github.com/axiplan/axiplan/geom"
)

// CornerVelocity computes the maximum entry velocity a junction between
// two adjacent unit segment directions u1 (incoming) and u2 (outgoing)
// can sustain, given the ambient velocity ceiling vmax, acceleration
// magnitude a, and a corner factor cf (a centripetal-acceleration
// budget, in mm, that trades cornering sharpness for speed). This is
// the Smoothieware/Grbl junction-deviation formulation.
func CornerVelocity(u1, u2 geom.Point, vmax, a, cf float64) float64 {
	cos := -u1.Dot(u2)

	if math.Abs(cos-1) < epsilon {
		// Anti-parallel: a full reversal, must come to a stop.
		return 0
	}

	sin := math.Sqrt(math.Max(0, (1-cos)/2))

	if math.Abs(sin-1) < epsilon {
		// Straight through: no speed penalty.
		return vmax
	}

	v := math.Sqrt(a * cf * sin / (1 - sin))
	return math.Min(v, vmax)
}
