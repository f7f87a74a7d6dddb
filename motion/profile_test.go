package motion

import (
	"math"
	"testing"

	"github.com/axiplan/axiplan/geom"
	"github.com/stretchr/testify/assert"
)

func TestTriangularProfileSymmetricZeroEndpoints(t *testing.T) {
	p1 := geom.Point{X: 0, Y: 0}
	p3 := geom.Point{X: 5, Y: 0}
	tri := TriangularProfile(5, 0, 0, 16, p1, p3)

	assert.InDelta(t, tri.S1, tri.S2, 1e-9)
	assert.InDelta(t, math.Sqrt(16*5), tri.Vmax, 1e-9)
}

func TestTriangularProfileBacktrackSignal(t *testing.T) {
	// A very short segment asked to come to rest from a high entry
	// velocity should report S1 < -epsilon, the caller's backtrack
	// signal: (2*16*0.01 + 0 - 100) / 64 ≈ -1.557.
	p1 := geom.Point{X: 0, Y: 0}
	p3 := geom.Point{X: 0.01, Y: 0}
	tri := TriangularProfile(0.01, 10, 0, 16, p1, p3)
	assert.Less(t, tri.S1, -epsilon)
}

func TestTrapezoidalProfileThreeBlocks(t *testing.T) {
	p1 := geom.Point{X: 0, Y: 0}
	p4 := geom.Point{X: 100, Y: 0}
	z := TrapezoidalProfile(100, 0, 10, 0, 16, p1, p4)

	assert.Greater(t, z.T1, 0.0)
	assert.Greater(t, z.T2, 0.0)
	assert.Greater(t, z.T3, 0.0)
	total := z.Saccel + z.Scruise + z.Sdecel
	assert.InDelta(t, 100.0, total, 1e-6)
}
