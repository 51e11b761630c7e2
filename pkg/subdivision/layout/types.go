package layout

import (
	"github.com/parcelopt/parcelopt/pkg/subdivision/geometry"
)

// ZoneKind tags the intended use of a lot.
type ZoneKind string

const (
	ZoneResidential ZoneKind = "residential"
	ZoneCommercial  ZoneKind = "commercial"
	ZoneGreen       ZoneKind = "green"
)

// Zone is a tagged variant: Kind selects which parameter record is set.
// Exactly one of the pointers is non-nil for lot zones; ZoneGreen carries
// no parameters.
type Zone struct {
	Kind        ZoneKind
	Residential *ResidentialParams
	Commercial  *CommercialParams
}

// ResidentialParams are the sizing parameters for a residential lot.
type ResidentialParams struct {
	TargetArea float64
	AspectLow  float64
	AspectHigh float64
}

// CommercialParams are the sizing parameters for a commercial lot.
// Commercial lots front the primary road and trade depth for exposure.
type CommercialParams struct {
	TargetArea     float64
	FrontageFactor float64
}

// Lot is one sellable parcel in a decoded layout.
type Lot struct {
	Ring        geometry.Polygon
	Area        float64
	Frontage    float64
	AspectRatio float64
	Corner      bool
	Zone        Zone
}

// RoadClass is the hierarchy tag of a road.
type RoadClass string

const (
	RoadPrimary   RoadClass = "primary"
	RoadSecondary RoadClass = "secondary"
)

// Road is one road strip: a centerline with width and the carriageway
// footprint clipped to the parcel.
type Road struct {
	Centerline geometry.Polyline
	Width      float64
	Class      RoadClass
	Surface    geometry.Polygon
}

// Length returns the centerline length.
func (r Road) Length() float64 { return r.Centerline.Length() }

// RoadEdge is one edge of the road graph, indexing into the node arena.
type RoadEdge struct {
	From  int
	To    int
	Width float64
	Class RoadClass
}

// RoadNetwork is the road topology as a node arena plus an edge list, kept
// free of pointers so layouts stay serializable and comparable.
type RoadNetwork struct {
	Nodes []geometry.Point
	Edges []RoadEdge
}

// TotalLength sums the edge lengths.
func (n RoadNetwork) TotalLength() float64 {
	sum := 0.0
	for _, e := range n.Edges {
		sum += n.Nodes[e.From].Dist(n.Nodes[e.To])
	}
	return sum
}

// Layout is the read-only result of decoding a genome: lots, roads, green
// space and whatever remainder could not be allocated. It is derived data;
// nothing mutates a Layout after the decoder returns it.
type Layout struct {
	Lots        []Lot
	Roads       []Road
	Network     RoadNetwork
	GreenSpace  []geometry.Polygon
	Unallocated []geometry.Polygon

	// BoundaryArea is carried so ratio measurements need no back-reference.
	BoundaryArea float64
}

// LotArea sums the sellable area.
func (l *Layout) LotArea() float64 {
	sum := 0.0
	for i := range l.Lots {
		sum += l.Lots[i].Area
	}
	return sum
}

// RoadArea sums the carriageway footprints.
func (l *Layout) RoadArea() float64 {
	sum := 0.0
	for i := range l.Roads {
		sum += l.Roads[i].Surface.Area()
	}
	return sum
}

// GreenArea sums the green space polygons.
func (l *Layout) GreenArea() float64 {
	sum := 0.0
	for _, g := range l.GreenSpace {
		sum += g.Area()
	}
	return sum
}

// GreenRatio returns green area over parcel area.
func (l *Layout) GreenRatio() float64 {
	if l.BoundaryArea <= 0 {
		return 0
	}
	return l.GreenArea() / l.BoundaryArea
}

// TotalRoadLength sums the road centerlines.
func (l *Layout) TotalRoadLength() float64 {
	sum := 0.0
	for i := range l.Roads {
		sum += l.Roads[i].Length()
	}
	return sum
}

// Violation records one failed or penalized rule with the measured value
// and what the rule required.
type Violation struct {
	Rule     string  `json:"rule"`
	Actual   float64 `json:"actual"`
	Required float64 `json:"required"`
}

// ConstraintReport classifies a layout against a constraint set. Feasible
// is true iff every hard rule passes; SoftPenalty accumulates the
// continuous magnitudes of soft-rule violations.
type ConstraintReport struct {
	Feasible    bool        `json:"feasible"`
	Violations  []Violation `json:"violations,omitempty"`
	SoftPenalty float64     `json:"softPenalty"`
	// HardViolations counts the failed hard rules, for penalty scaling.
	HardViolations int `json:"hardViolations"`
}
