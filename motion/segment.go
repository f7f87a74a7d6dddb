package motion

import "github.com/axiplan/axiplan/geom"

// Segment is the straight portion between two consecutive polyline
// points. A zero-length segment (P1 == P2) is a sentinel: it never
// carries motion of its own, it only anchors the terminal
// MaxEntryVelocity of 0 that forces the plan to end at rest.
type Segment struct {
	P1, P2           geom.Point
	Vector           geom.Point // unit direction P1->P2
	Length           float64
	MaxEntryVelocity float64
	EntryVelocity    float64
	Blocks           []Block
}

// NewSegment builds a Segment between p1 and p2, deriving Length and
// the unit direction Vector. A degenerate (p1 == p2) segment gets
// Length 0 and Vector {0,0}.
func NewSegment(p1, p2 geom.Point) Segment {
	return Segment{
		P1:     p1,
		P2:     p2,
		Vector: p2.Sub(p1).Normalize(),
		Length: p1.Distance(p2),
	}
}
