package geometry

import "math"

// Rect is an axis-aligned rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewRect normalizes the corner order so Min <= Max on both axes.
func NewRect(x1, y1, x2, y2 float64) Rect {
	return Rect{
		MinX: math.Min(x1, x2),
		MinY: math.Min(y1, y2),
		MaxX: math.Max(x1, x2),
		MaxY: math.Max(y1, y2),
	}
}

// Width returns the x extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the y extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Area returns width * height, zero for inverted rects.
func (r Rect) Area() float64 {
	if r.Width() <= 0 || r.Height() <= 0 {
		return 0
	}
	return r.Width() * r.Height()
}

// Inset shrinks the rect by d on every side. The result may be inverted
// (zero Area) when d is larger than half an extent.
func (r Rect) Inset(d float64) Rect {
	return Rect{r.MinX + d, r.MinY + d, r.MaxX - d, r.MaxY - d}
}

// Polygon returns the rect as a counter-clockwise ring.
func (r Rect) Polygon() Polygon {
	return Polygon{
		{r.MinX, r.MinY},
		{r.MaxX, r.MinY},
		{r.MaxX, r.MaxY},
		{r.MinX, r.MaxY},
	}
}

// ClipToRect clips an arbitrary simple ring against the rectangle using
// Sutherland-Hodgman over the four half planes. The clip window is convex,
// so the algorithm is exact; a non-convex subject that the window splits
// into pieces comes back as one ring joined by zero-width bridges, which
// keeps area computations correct. Returns nil when nothing remains.
func ClipToRect(subject Polygon, r Rect) Polygon {
	if len(subject) < 3 || r.Area() <= 0 {
		return nil
	}
	out := subject
	for side := 0; side < 4; side++ {
		out = clipHalfPlane(out, r, side)
		if len(out) < 3 {
			return nil
		}
	}
	if out.Area() < Eps {
		return nil
	}
	return out
}

// side encoding: 0 = x>=MinX, 1 = x<=MaxX, 2 = y>=MinY, 3 = y<=MaxY.
func clipHalfPlane(subject Polygon, r Rect, side int) Polygon {
	inside := func(p Point) bool {
		switch side {
		case 0:
			return p.X >= r.MinX
		case 1:
			return p.X <= r.MaxX
		case 2:
			return p.Y >= r.MinY
		default:
			return p.Y <= r.MaxY
		}
	}
	intersect := func(a, b Point) Point {
		var t float64
		switch side {
		case 0:
			t = (r.MinX - a.X) / (b.X - a.X)
			return Point{r.MinX, a.Y + t*(b.Y-a.Y)}
		case 1:
			t = (r.MaxX - a.X) / (b.X - a.X)
			return Point{r.MaxX, a.Y + t*(b.Y-a.Y)}
		case 2:
			t = (r.MinY - a.Y) / (b.Y - a.Y)
			return Point{a.X + t*(b.X-a.X), r.MinY}
		default:
			t = (r.MaxY - a.Y) / (b.Y - a.Y)
			return Point{a.X + t*(b.X-a.X), r.MaxY}
		}
	}

	var out Polygon
	for i, cur := range subject {
		prev := subject[(i+len(subject)-1)%len(subject)]
		curIn := inside(cur)
		prevIn := inside(prev)
		switch {
		case curIn && prevIn:
			out = append(out, cur)
		case curIn && !prevIn:
			out = append(out, intersect(prev, cur), cur)
		case !curIn && prevIn:
			out = append(out, intersect(prev, cur))
		}
	}
	return out
}
