// Package layout holds the domain model shared by the decoder, the
// validator and the fitness evaluator: the parcel boundary, the constraint
// set, and the decoded Layout with its lots, roads and green space.
package layout

import (
	"fmt"

	"github.com/parcelopt/parcelopt/pkg/subdivision/geometry"
)

// Boundary is the validated parcel outline. It is immutable once built;
// every accessor either returns a copy or a value type.
type Boundary struct {
	ring geometry.Polygon
	area float64
	bbox geometry.Rect
}

// NewBoundary validates the ring and wraps it. Returns ErrInvalidBoundary
// for rings that are open-degenerate, self-intersecting or without area.
func NewBoundary(ring geometry.Polygon) (*Boundary, error) {
	if len(ring) < 3 {
		return nil, fmt.Errorf("%w: %d vertices", ErrInvalidBoundary, len(ring))
	}
	if !ring.IsSimple() {
		return nil, fmt.Errorf("%w: ring self-intersects", ErrInvalidBoundary)
	}
	area := ring.Area()
	if area <= geometry.Eps {
		return nil, fmt.Errorf("%w: area %v", ErrInvalidBoundary, area)
	}
	return &Boundary{
		ring: ring.Clone(),
		area: area,
		bbox: ring.BoundingBox(),
	}, nil
}

// Ring returns a copy of the outline so callers cannot mutate the boundary.
func (b *Boundary) Ring() geometry.Polygon {
	return b.ring.Clone()
}

// Area returns the enclosed parcel area.
func (b *Boundary) Area() float64 { return b.area }

// BoundingBox returns the axis-aligned extent of the parcel.
func (b *Boundary) BoundingBox() geometry.Rect { return b.bbox }

// Contains reports whether the point lies inside the parcel.
func (b *Boundary) Contains(pt geometry.Point) bool {
	return b.ring.Contains(pt)
}
