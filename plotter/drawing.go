package plotter

import "github.com/axiplan/axiplan/geom"

// Drawing is an ordered list of polylines to plot; pen is raised
// between polylines (subject to the skip-lift rule in
// Orchestrator.Run) and lowered at the start of each.
type Drawing struct {
	Polylines [][]geom.Point
}

// BoundingBox returns the min/max corners across every point in every
// polyline. Returns two zero Points if the drawing is empty.
func (d Drawing) BoundingBox() (min, max geom.Point) {
	first := true
	for _, polyline := range d.Polylines {
		for _, p := range polyline {
			if first {
				min, max = p, p
				first = false
				continue
			}
			if p.X < min.X {
				min.X = p.X
			}
			if p.Y < min.Y {
				min.Y = p.Y
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Y > max.Y {
				max.Y = p.Y
			}
		}
	}
	return min, max
}
