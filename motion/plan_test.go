package motion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/axiplan/axiplan/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumBlockDistances(blocks []Block) float64 {
	var s float64
	for _, b := range blocks {
		s += b.Distance
	}
	return s
}

func TestPlanSquare(t *testing.T) {
	points := []geom.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0},
	}
	plan, err := NewPlan(points, nil, nil, 16, 20, 0.001)
	require.NoError(t, err)

	assert.InDelta(t, 40.0, plan.TotalDistance, 1e-6)
	require.NotEmpty(t, plan.Blocks)
	last := plan.Blocks[len(plan.Blocks)-1]
	exitVelocity := last.InitialVelocity + last.Acceleration*last.Duration
	assert.InDelta(t, 0.0, exitVelocity, 1e-6)
}

func TestPlanTwoCollinearPoints(t *testing.T) {
	points := []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}}
	plan, err := NewPlan(points, nil, nil, 16, 20, 0.001)
	require.NoError(t, err)

	require.Len(t, plan.Blocks, 2)
	expectedVmax := math.Sqrt(16 * 5)
	assert.InDelta(t, expectedVmax, plan.Blocks[0].InitialVelocity+plan.Blocks[0].Acceleration*plan.Blocks[0].Duration, 1e-6)
	assert.InDelta(t, plan.Blocks[0].Duration, plan.Blocks[1].Duration, 1e-6)
}

func TestPlanDedupNearDuplicatePoints(t *testing.T) {
	points := []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 1e-12}, {X: 10, Y: 0}}
	plan, err := NewPlan(points, nil, nil, 16, 20, 0.001)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, plan.TotalDistance, 1e-6)
}

func TestPlanReversal(t *testing.T) {
	points := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 0}}
	plan, err := NewPlan(points, nil, nil, 16, 20, 0.001)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, sumBlockDistances(plan.Blocks), float64(len(plan.Blocks))*1e-6)
}

func TestPlanSinglePointIsEmptyMotion(t *testing.T) {
	points := []geom.Point{{X: 3, Y: 4}}
	plan, err := NewPlan(points, nil, nil, 16, 20, 0.001)
	require.NoError(t, err)
	assert.Empty(t, plan.Blocks)
	assert.Zero(t, plan.TotalTime)
	assert.Zero(t, plan.TotalDistance)
}

func TestPlanInfeasibleAlternatingCorners(t *testing.T) {
	// Ten short 0.1mm segments with alternating 90-degree corners at
	// cf=0 forces a full stop at every corner.
	points := make([]geom.Point, 0, 11)
	x, y := 0.0, 0.0
	points = append(points, geom.Point{X: x, Y: y})
	horizontal := true
	for i := 0; i < 10; i++ {
		if horizontal {
			x += 0.1
		} else {
			y += 0.1
		}
		points = append(points, geom.Point{X: x, Y: y})
		horizontal = !horizontal
	}

	plan, err := NewPlan(points, nil, nil, 16, 1000, 0)
	require.NoError(t, err)
	require.NotEmpty(t, plan.Blocks)

	expected := 10 * 2 * math.Sqrt(2*0.05/16)
	assert.InDelta(t, expected, plan.TotalTime, 0.05)
}

// TestPlanPropertyDistanceConservation is a property-based check (spec
// §8 property 1): for random polylines, the sum of block distances must
// equal the deduplicated polyline length within n*epsilon.
func TestPlanPropertyDistanceConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(6)
		points := make([]geom.Point, n)
		for i := range points {
			points[i] = geom.Point{X: rng.Float64() * 50, Y: rng.Float64() * 50}
		}
		plan, _ := NewPlan(points, nil, nil, 16, 20, 0.001)

		dedup := dedupPoints(points)
		var polylineLength float64
		for i := 1; i < len(dedup); i++ {
			polylineLength += dedup[i-1].Distance(dedup[i])
		}

		assert.InDelta(t, polylineLength, sumBlockDistances(plan.Blocks), float64(len(plan.Blocks)+1)*1e-6)
	}
}

// TestPlanPropertyFinalVelocityZero is property 2: the last emitted
// block always ends at rest.
func TestPlanPropertyFinalVelocityZero(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(6)
		points := make([]geom.Point, n)
		for i := range points {
			points[i] = geom.Point{X: rng.Float64() * 50, Y: rng.Float64() * 50}
		}
		plan, _ := NewPlan(points, nil, nil, 16, 20, 0.001)
		if len(plan.Blocks) == 0 {
			continue
		}
		last := plan.Blocks[len(plan.Blocks)-1]
		exit := last.InitialVelocity + last.Acceleration*last.Duration
		assert.InDelta(t, 0.0, exit, 1e-6)
	}
}

// TestPlanPropertyVelocityContinuity is property 3: velocity is
// continuous across every block junction.
func TestPlanPropertyVelocityContinuity(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(6)
		points := make([]geom.Point, n)
		for i := range points {
			points[i] = geom.Point{X: rng.Float64() * 50, Y: rng.Float64() * 50}
		}
		plan, _ := NewPlan(points, nil, nil, 16, 20, 0.001)
		for i := 1; i < len(plan.Blocks); i++ {
			prev := plan.Blocks[i-1]
			vOut := prev.InitialVelocity + prev.Acceleration*prev.Duration
			vIn := plan.Blocks[i].InitialVelocity
			assert.InDelta(t, vOut, vIn, 1e-6)
		}
	}
}

// TestPlanInstantMatchesInstantAtDistance is property 6.
func TestPlanInstantMatchesInstantAtDistance(t *testing.T) {
	points := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	plan, err := NewPlan(points, nil, nil, 16, 20, 0.001)
	require.NoError(t, err)

	steps := 25
	for i := 0; i <= steps; i++ {
		t0 := plan.TotalTime * float64(i) / float64(steps)
		byTime := plan.Instant(t0)
		byDistance := plan.InstantAtDistance(byTime.DistanceTraveled)
		assert.InDelta(t, byTime.Position.X, byDistance.Position.X, 1e-4)
		assert.InDelta(t, byTime.Position.Y, byDistance.Position.Y, 1e-4)
	}
}

func TestPlanInstantBlockBoundaryContinuity(t *testing.T) {
	points := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	plan, err := NewPlan(points, nil, nil, 16, 20, 0.001)
	require.NoError(t, err)

	for i := 1; i < len(plan.Times); i++ {
		boundary := plan.Times[i]
		before := plan.Instant(boundary - 1e-9)
		after := plan.Instant(boundary)
		assert.InDelta(t, before.Velocity, after.Velocity, 1e-4)
	}
}
