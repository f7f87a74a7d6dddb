package motion

import (
	"math"
	"testing"

	"github.com/axiplan/axiplan/geom"
	"github.com/stretchr/testify/assert"
)

func TestCornerVelocity(t *testing.T) {
	tests := []struct {
		name     string
		u1, u2   geom.Point
		vmax     float64
		a        float64
		cf       float64
		expected float64
		delta    float64
	}{
		{
			name:     "collinear same direction returns vmax",
			u1:       geom.Point{X: 1, Y: 0},
			u2:       geom.Point{X: 1, Y: 0},
			vmax:     20,
			a:        16,
			cf:       0.001,
			expected: 20,
			delta:    1e-9,
		},
		{
			name:     "reversal returns zero",
			u1:       geom.Point{X: 1, Y: 0},
			u2:       geom.Point{X: -1, Y: 0},
			vmax:     20,
			a:        16,
			cf:       0.001,
			expected: 0,
			delta:    1e-9,
		},
		{
			name:     "90 degree corner",
			u1:       geom.Point{X: 1, Y: 0},
			u2:       geom.Point{X: 0, Y: 1},
			vmax:     1000,
			a:        1000,
			cf:       0.05,
			expected: math.Sqrt(1000 * 0.05 * math.Sin(math.Pi/4) / (1 - math.Sin(math.Pi/4))),
			delta:    1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CornerVelocity(tt.u1, tt.u2, tt.vmax, tt.a, tt.cf)
			assert.InDelta(t, tt.expected, got, tt.delta)
		})
	}
}

func TestCornerVelocityCapsAtVmax(t *testing.T) {
	// A very sharp but not-quite-reversal corner with a large corner
	// factor should still be capped at vmax.
	got := CornerVelocity(geom.Point{X: 1, Y: 0}, geom.Point{X: -0.999, Y: 0.045}, 5, 1000, 10)
	assert.LessOrEqual(t, got, 5.0+1e-9)
}
