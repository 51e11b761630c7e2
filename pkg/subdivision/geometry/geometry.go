// Package geometry provides the planar primitives the subdivision decoder
// and validator are built on. Everything here is pure and deterministic:
// the same inputs always produce bit-identical outputs, which is what lets
// layout decoding be memoized and tested for reproducibility.
package geometry

import "math"

// Eps is the tolerance used for area and coincidence checks. Coordinates are
// site-plan units (meters or feet), so 1e-9 is far below survey precision.
const Eps = 1e-9

// Point is a planar coordinate.
type Point struct {
	X float64
	Y float64
}

// Sub returns p - q as a vector.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Cross returns the z component of (p-o) x (q-o).
func Cross(o, p, q Point) float64 {
	return (p.X-o.X)*(q.Y-o.Y) - (p.Y-o.Y)*(q.X-o.X)
}

// Polygon is a closed ring of vertices. The closing edge from the last
// vertex back to the first is implicit; callers must not repeat the first
// vertex at the end.
type Polygon []Point

// Clone returns an independent copy of the ring.
func (p Polygon) Clone() Polygon {
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// SignedArea returns the shoelace area, positive for counter-clockwise rings.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	sum := 0.0
	for i, a := range p {
		b := p[(i+1)%len(p)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Area returns the absolute enclosed area.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Perimeter returns the total edge length including the closing edge.
func (p Polygon) Perimeter() float64 {
	if len(p) < 2 {
		return 0
	}
	sum := 0.0
	for i, a := range p {
		sum += a.Dist(p[(i+1)%len(p)])
	}
	return sum
}

// Centroid returns the area centroid. For degenerate rings it falls back to
// the vertex mean so the result is still a finite point.
func (p Polygon) Centroid() Point {
	a := p.SignedArea()
	if math.Abs(a) < Eps {
		var c Point
		for _, v := range p {
			c.X += v.X
			c.Y += v.Y
		}
		n := float64(len(p))
		if n > 0 {
			c.X /= n
			c.Y /= n
		}
		return c
	}
	var cx, cy float64
	for i, v := range p {
		w := p[(i+1)%len(p)]
		f := v.X*w.Y - w.X*v.Y
		cx += (v.X + w.X) * f
		cy += (v.Y + w.Y) * f
	}
	return Point{cx / (6 * a), cy / (6 * a)}
}

// BoundingBox returns the axis-aligned bounding box of the ring.
func (p Polygon) BoundingBox() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{p[0].X, p[0].Y, p[0].X, p[0].Y}
	for _, v := range p[1:] {
		r.MinX = math.Min(r.MinX, v.X)
		r.MinY = math.Min(r.MinY, v.Y)
		r.MaxX = math.Max(r.MaxX, v.X)
		r.MaxY = math.Max(r.MaxY, v.Y)
	}
	return r
}

// Contains reports whether pt lies inside the ring (ray casting; points on
// an edge count as inside).
func (p Polygon) Contains(pt Point) bool {
	if len(p) < 3 {
		return false
	}
	inside := false
	for i, a := range p {
		b := p[(i+1)%len(p)]
		if onSegment(a, b, pt) {
			return true
		}
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// IsSimple reports whether the ring has no self-intersections. Adjacent
// edges sharing a vertex do not count as intersections. O(n^2), which is
// fine for survey boundaries with tens of vertices.
func (p Polygon) IsSimple() bool {
	n := len(p)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1 := p[i]
		a2 := p[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip the shared-vertex neighbours of edge i.
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1 := p[j]
			b2 := p[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

func onSegment(a, b, pt Point) bool {
	if math.Abs(Cross(a, b, pt)) > Eps {
		return false
	}
	return pt.X >= math.Min(a.X, b.X)-Eps && pt.X <= math.Max(a.X, b.X)+Eps &&
		pt.Y >= math.Min(a.Y, b.Y)-Eps && pt.Y <= math.Max(a.Y, b.Y)+Eps
}

// segmentsIntersect reports a proper or improper crossing of segments
// (a1,a2) and (b1,b2).
func segmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := Cross(b1, b2, a1)
	d2 := Cross(b1, b2, a2)
	d3 := Cross(a1, a2, b1)
	d4 := Cross(a1, a2, b2)
	if ((d1 > Eps && d2 < -Eps) || (d1 < -Eps && d2 > Eps)) &&
		((d3 > Eps && d4 < -Eps) || (d3 < -Eps && d4 > Eps)) {
		return true
	}
	if math.Abs(d1) <= Eps && onSegment(b1, b2, a1) {
		return true
	}
	if math.Abs(d2) <= Eps && onSegment(b1, b2, a2) {
		return true
	}
	if math.Abs(d3) <= Eps && onSegment(a1, a2, b1) {
		return true
	}
	if math.Abs(d4) <= Eps && onSegment(a1, a2, b2) {
		return true
	}
	return false
}

// Polyline is an open chain of points, used for road centerlines.
type Polyline []Point

// Length returns the total chain length.
func (l Polyline) Length() float64 {
	sum := 0.0
	for i := 1; i < len(l); i++ {
		sum += l[i-1].Dist(l[i])
	}
	return sum
}
