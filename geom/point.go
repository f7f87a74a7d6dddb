// Package geom provides the 2D geometry primitives that every other
// package in axiplan builds on: points, vectors, and the handful of
// operations the motion planner needs (subtraction, normalization, dot
// product, distance, and arc-length interpolation).
package geom

import "math"

// Point is a location or a free vector in the plane, in millimeters.
type Point struct {
	X, Y float64
}

// Sub returns p - other, treating both as position vectors. Segment
// directions are computed as p2.Sub(p1), matching the teacher's p2-p1.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Add returns p + other treated as a vector offset.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Scale returns the vector p scaled by k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Dot returns the dot product of p and other, treating both as vectors.
func (p Point) Dot(other Point) float64 {
	return p.X*other.X + p.Y*other.Y
}

// Norm returns the Euclidean length of p treated as a vector.
func (p Point) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Distance returns the Euclidean distance between p and other.
func (p Point) Distance(other Point) float64 {
	return other.Sub(p).Norm()
}

// Normalize returns a unit-length vector in the direction of p. The
// zero vector maps to the zero vector rather than dividing by zero.
func (p Point) Normalize() Point {
	n := p.Norm()
	if n == 0 {
		return Point{}
	}
	return Point{X: p.X / n, Y: p.Y / n}
}

// Lerp linearly interpolates between p and other at parameter t in
// [0, 1], where t=0 returns p and t=1 returns other.
func (p Point) Lerp(other Point, t float64) Point {
	return Point{
		X: p.X + (other.X-p.X)*t,
		Y: p.Y + (other.Y-p.Y)*t,
	}
}

// Lerps interpolates between p and other parameterized by arc length s
// (millimeters from p) rather than by the unit parameter t: it returns
// p + unit(other-p)*s. For s outside [0, distance(p,other)] the result
// extrapolates along the same line.
func (p Point) Lerps(other Point, s float64) Point {
	dir := other.Sub(p).Normalize()
	return p.Add(dir.Scale(s))
}
