package motion

import (
	"math"
	"sort"

	"github.com/axiplan/axiplan/geom"
)

// Plan is an ordered, concatenated list of motion Blocks for one
// polyline, plus parallel cumulative-time and cumulative-distance
// indices used by Instant/InstantAtDistance to locate the block
// containing a given sample point.
type Plan struct {
	Blocks        []Block
	Times         []float64
	Distances     []float64
	TotalTime     float64
	TotalDistance float64
}

// NewPlan runs the look-ahead-with-backtracking planner over points,
// producing a Plan under the given acceleration magnitude a, velocity
// ceiling vmax, and corner factor cf. vs, if non-empty, overrides the
// per-vertex entry velocity derived from corner geometry (must then be
// len(points)); vmaxs, if non-empty, overrides the per-segment velocity
// ceiling (must then be len(points)).
//
// If the backtracking pass cannot converge (exhausts segment 0 while
// still needing a lower entry velocity), NewPlan returns both a
// best-effort Plan and a *PlanInfeasibleError — the plan is not nil in
// that case and remains a usable, if imperfect, trajectory.
func NewPlan(points []geom.Point, vs, vmaxs []float64, a, vmax, cf float64) (*Plan, error) {
	points = dedupPoints(points)
	if len(points) <= 1 {
		return &Plan{Blocks: []Block{}, Times: []float64{0}, Distances: []float64{0}}, nil
	}

	segments := make([]Segment, 0, len(points))
	for i := 1; i < len(points); i++ {
		segments = append(segments, NewSegment(points[i-1], points[i]))
	}
	last := points[len(points)-1]
	segments = append(segments, NewSegment(last, last))

	vmaxsResolved := vmaxs
	if len(vmaxsResolved) == 0 {
		vmaxsResolved = make([]float64, len(points))
		for i := range vmaxsResolved {
			vmaxsResolved[i] = vmax
		}
	}

	if len(vs) == 0 {
		for i := 1; i < len(segments)-1; i++ {
			segments[i].MaxEntryVelocity = CornerVelocity(segments[i-1].Vector, segments[i].Vector, vmaxsResolved[i], a, cf)
		}
	} else {
		for i, v := range vs {
			segments[i].MaxEntryVelocity = math.Min(vmaxsResolved[i], v)
		}
	}

	var infeasible error
	i := 0
	for i < len(segments)-1 {
		segment := &segments[i]
		next := &segments[i+1]

		s := segment.Length
		vi := segment.EntryVelocity
		segVmax := vmaxsResolved[i]
		vexit := math.Min(segVmax, next.MaxEntryVelocity)

		p1, p2 := segment.P1, segment.P2

		tri := TriangularProfile(s, vi, vexit, a, p1, p2)

		switch {
		case tri.S1 < -epsilon:
			// Too fast: vexit is unreachable from vi over s. Lower this
			// segment's MaxEntryVelocity to the highest entry velocity
			// compatible with reaching vexit and re-solve the previous
			// segment.
			segment.MaxEntryVelocity = math.Sqrt(vexit*vexit + 2*a*s)
			if i > 0 {
				i--
			} else {
				infeasible = &PlanInfeasibleError{SegmentIndex: i, Requested: segment.MaxEntryVelocity}
				segment.Blocks = nil
				i++
			}
			continue

		case tri.S2 <= 0:
			// Accelerate only: deceleration phase vanishes.
			vf := math.Sqrt(vi*vi + 2*a*s)
			t := (vf - vi) / a
			segment.Blocks = []Block{NewBlock(a, t, vi, p1, p2)}
			next.EntryVelocity = vf

		case tri.Vmax > segVmax+epsilon:
			// Trapezoid: accelerate, cruise at segVmax, decelerate.
			z := TrapezoidalProfile(s, vi, segVmax, vexit, a, p1, p2)
			segment.Blocks = []Block{
				NewBlock(a, z.T1, vi, z.P1, z.P2),
				NewBlock(0, z.T2, segVmax, z.P2, z.P3),
				NewBlock(-a, z.T3, segVmax, z.P3, z.P4),
			}
			next.EntryVelocity = vexit

		default:
			// Pure triangle: accelerate then decelerate, no cruise.
			segment.Blocks = []Block{
				NewBlock(a, tri.T1, vi, tri.P1, tri.P2),
				NewBlock(-a, tri.T2, tri.Vmax, tri.P2, tri.P3),
			}
			next.EntryVelocity = vexit
		}
		i++
	}

	var allBlocks []Block
	for _, seg := range segments {
		for _, b := range seg.Blocks {
			if b.Duration > epsilon {
				allBlocks = append(allBlocks, b)
			}
		}
	}

	times := make([]float64, len(allBlocks))
	distances := make([]float64, len(allBlocks))
	var t, s float64
	for idx, b := range allBlocks {
		times[idx] = t
		distances[idx] = s
		t += b.Duration
		s += b.Distance
	}

	return &Plan{
		Blocks:        allBlocks,
		Times:         times,
		Distances:     distances,
		TotalTime:     t,
		TotalDistance: s,
	}, infeasible
}

// dedupPoints drops consecutive points closer than epsilon, preserving
// order and the first occurrence of each distinct location.
func dedupPoints(points []geom.Point) []geom.Point {
	if len(points) == 0 {
		return points
	}
	out := make([]geom.Point, 0, len(points))
	out = append(out, points[0])
	for _, p := range points[1:] {
		if out[len(out)-1].Distance(p) > epsilon {
			out = append(out, p)
		}
	}
	return out
}

// Instant returns the plan's kinematic state at elapsed time t, clamped
// to [0, TotalTime].
func (p *Plan) Instant(t float64) Instant {
	if len(p.Blocks) == 0 {
		return Instant{}
	}
	clampedT := clamp(t, 0, p.TotalTime)
	idx := p.blockIndexForTime(clampedT)
	block := p.Blocks[idx]
	return block.Instant(clampedT-p.Times[idx], p.Times[idx], p.Distances[idx])
}

// InstantAtDistance returns the plan's kinematic state having traveled
// distance s, clamped to [0, TotalDistance].
func (p *Plan) InstantAtDistance(s float64) Instant {
	if len(p.Blocks) == 0 {
		return Instant{}
	}
	clampedS := clamp(s, 0, p.TotalDistance)
	idx := p.blockIndexForDistance(clampedS)
	block := p.Blocks[idx]
	return block.InstantAtDistance(clampedS-p.Distances[idx], p.Times[idx], p.Distances[idx])
}

// blockIndexForTime finds the last block whose start time is <= t.
func (p *Plan) blockIndexForTime(t float64) int {
	idx := sort.Search(len(p.Times), func(i int) bool { return p.Times[i] > t })
	if idx == 0 {
		return 0
	}
	return idx - 1
}

// blockIndexForDistance finds the last block whose start distance is <= s.
func (p *Plan) blockIndexForDistance(s float64) int {
	idx := sort.Search(len(p.Distances), func(i int) bool { return p.Distances[i] > s })
	if idx == 0 {
		return 0
	}
	return idx - 1
}
