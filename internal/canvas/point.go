package canvas

// Point is a 2D position in canvas space.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// LengthSquared returns the squared length of the vector.
func (p Point) LengthSquared() float64 {
	return p.X*p.X + p.Y*p.Y
}

// DistanceSquared returns the squared distance between two points.
// The shaded brush works entirely in squared units, so the square root
// is never taken on the hot path.
func (p Point) DistanceSquared(q Point) float64 {
	return p.Sub(q).LengthSquared()
}
