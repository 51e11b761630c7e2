// Package decoder turns a genome plus a boundary and constraint set into a
// concrete Layout. Decoding is a pure function: the same inputs always
// yield bit-identical geometry, so layouts and oracle scores can be cached
// by genome hash and runs replayed exactly.
//
// The decoding scheme: a primary road crosses the usable area at a
// genome-chosen position and orientation; secondary roads at genome-chosen
// cut positions split each side into block columns; blocks are subdivided
// into lots fronting the nearest road; fragments too small to be lots are
// absorbed into green space, which is then topped up from the least
// valuable lots until the scenario's green-space ratio is met.
package decoder

import (
	"math"

	"github.com/parcelopt/parcelopt/apis/config/v1alpha1"
	"github.com/parcelopt/parcelopt/pkg/subdivision/genome"
	"github.com/parcelopt/parcelopt/pkg/subdivision/geometry"
	"github.com/parcelopt/parcelopt/pkg/subdivision/layout"
)

// params are the numeric targets derived from the constraint set and the
// genome's sizing genes.
type params struct {
	roadWidth   float64
	bufferWidth float64
	minLotArea  float64
	maxLotArea  float64
	minFrontage float64
	greenRatio  float64
	aspectLow   float64
	aspectHigh  float64

	targetArea float64
	lotDepth   float64
	lotWidth   float64
}

func paramsFrom(cs *layout.ConstraintSet, g genome.Genome) params {
	p := params{
		roadWidth:   cs.Threshold(v1alpha1.ParamRoadWidth, 12),
		bufferWidth: cs.Threshold(v1alpha1.ParamBufferWidth, 0),
		minLotArea:  cs.Threshold(v1alpha1.ParamMinLotArea, 1000),
		maxLotArea:  cs.Threshold(v1alpha1.ParamMaxLotArea, math.Inf(1)),
		minFrontage: cs.Threshold(v1alpha1.ParamMinFrontage, 15),
		greenRatio:  cs.Threshold(v1alpha1.ParamGreenSpaceRatio, 0),
	}
	p.aspectLow, p.aspectHigh = cs.Bounds(v1alpha1.ParamAspectRatio, 1.5, 2.0)

	p.targetArea = p.minLotArea * 1.25
	if p.targetArea > p.maxLotArea {
		p.targetArea = p.maxLotArea
	}
	aspect := p.aspectLow + g[genome.GeneLotDepth]*(p.aspectHigh-p.aspectLow)
	p.lotDepth = math.Sqrt(p.targetArea * aspect)
	p.lotWidth = p.targetArea / p.lotDepth
	if p.lotWidth < p.minFrontage {
		p.lotWidth = p.minFrontage
		p.lotDepth = p.targetArea / p.lotWidth
	}
	return p
}

// frame maps the decoder's road-aligned (u, v) coordinates to world
// coordinates: u runs along the primary road, v across it.
type frame struct {
	horizontal bool
	u0, u1     float64
	v0, v1     float64
}

func (f frame) rect(ua, va, ub, vb float64) geometry.Rect {
	if f.horizontal {
		return geometry.NewRect(ua, va, ub, vb)
	}
	return geometry.NewRect(va, ua, vb, ub)
}

func (f frame) point(u, v float64) geometry.Point {
	if f.horizontal {
		return geometry.Point{X: u, Y: v}
	}
	return geometry.Point{X: v, Y: u}
}

// decodeState accumulates the layout while blocks are carved up.
type decodeState struct {
	g    genome.Genome
	p    params
	f    frame
	ring geometry.Polygon
	out  *layout.Layout

	// fragments are sub-minimum leftovers destined for green space.
	fragments []geometry.Polygon

	// vCenter is the primary road centerline in frame coords, for
	// distance-based green-space ordering.
	vCenter float64

	blockIdx int
}

// Decode derives the layout for a structurally valid genome. It never
// fails: degenerate geometry produces an empty or partial layout, and the
// validator downstream decides what that is worth.
func Decode(g genome.Genome, b *layout.Boundary, cs *layout.ConstraintSet) *layout.Layout {
	g = genome.Repair(g.Clone())
	p := paramsFrom(cs, g)

	out := &layout.Layout{BoundaryArea: b.Area()}
	ring := b.Ring()
	usable := b.BoundingBox().Inset(p.bufferWidth)
	if usable.Area() <= 0 {
		return out
	}

	horizontal := (usable.Width() >= usable.Height()) == (g[genome.GeneAxis] < 0.5)
	f := frame{horizontal: horizontal}
	if horizontal {
		f.u0, f.u1 = usable.MinX, usable.MaxX
		f.v0, f.v1 = usable.MinY, usable.MaxY
	} else {
		f.u0, f.u1 = usable.MinY, usable.MaxY
		f.v0, f.v1 = usable.MinX, usable.MaxX
	}

	st := &decodeState{g: g, p: p, f: f, ring: ring, out: out}

	if f.v1-f.v0 <= p.roadWidth || f.u1-f.u0 <= p.minFrontage {
		// No room for a road network; hand the whole usable area back.
		if piece := geometry.ClipToRect(ring, f.rect(f.u0, f.v0, f.u1, f.v1)); piece != nil {
			out.Unallocated = append(out.Unallocated, piece)
		}
		return out
	}

	vRoad := f.v0 + g[genome.GenePrimaryPos]*(f.v1-f.v0-p.roadWidth)
	st.vCenter = vRoad + p.roadWidth/2
	cuts := st.placeRoads(vRoad)
	st.carveBlocks(vRoad, cuts)
	st.allocateGreen()
	return out
}

// placeRoads emits the primary road strip, the secondary road strips at the
// genome's cut positions, and the node/edge topology. Returns the u
// positions of the secondary strips.
func (st *decodeState) placeRoads(vRoad float64) []float64 {
	f, p := st.f, st.p
	uLen := f.u1 - f.u0

	// Spread the active cut genes across the sorted cut block, then drop
	// cuts that would leave a column too narrow for a single lot.
	n := st.g.ActiveCuts()
	sorted := st.g.Cuts()
	minCol := math.Max(p.lotWidth, p.minFrontage)
	var cuts []float64
	prevEdge := f.u0
	for j := 0; j < n; j++ {
		val := sorted[j*genome.MaxCuts/n]
		u := f.u0 + val*uLen
		if u-prevEdge < minCol {
			continue
		}
		if f.u1-(u+p.roadWidth) < minCol {
			break
		}
		cuts = append(cuts, u)
		prevEdge = u + p.roadWidth
	}

	// Primary road.
	primary := f.rect(f.u0, vRoad, f.u1, vRoad+p.roadWidth)
	if surface := geometry.ClipToRect(st.ring, primary); surface != nil {
		st.out.Roads = append(st.out.Roads, layout.Road{
			Centerline: geometry.Polyline{f.point(f.u0, st.vCenter), f.point(f.u1, st.vCenter)},
			Width:      p.roadWidth,
			Class:      layout.RoadPrimary,
			Surface:    surface,
		})
	}

	// Secondary roads cross the full usable depth.
	for _, u := range cuts {
		strip := f.rect(u, f.v0, u+p.roadWidth, f.v1)
		if surface := geometry.ClipToRect(st.ring, strip); surface != nil {
			uc := u + p.roadWidth/2
			st.out.Roads = append(st.out.Roads, layout.Road{
				Centerline: geometry.Polyline{f.point(uc, f.v0), f.point(uc, f.v1)},
				Width:      p.roadWidth,
				Class:      layout.RoadSecondary,
				Surface:    surface,
			})
		}
	}

	st.buildNetwork(vRoad, cuts)
	return cuts
}

// buildNetwork records the road topology as a node arena plus edge list:
// primary segments between consecutive intersections, and two half edges
// per secondary road meeting at its intersection.
func (st *decodeState) buildNetwork(vRoad float64, cuts []float64) {
	f, p := st.f, st.p
	net := &st.out.Network

	addNode := func(u, v float64) int {
		net.Nodes = append(net.Nodes, f.point(u, v))
		return len(net.Nodes) - 1
	}

	start := addNode(f.u0, st.vCenter)
	prev := start
	for _, u := range cuts {
		uc := u + p.roadWidth/2
		cross := addNode(uc, st.vCenter)
		net.Edges = append(net.Edges, layout.RoadEdge{From: prev, To: cross, Width: p.roadWidth, Class: layout.RoadPrimary})
		near := addNode(uc, f.v0)
		far := addNode(uc, f.v1)
		net.Edges = append(net.Edges,
			layout.RoadEdge{From: near, To: cross, Width: p.roadWidth, Class: layout.RoadSecondary},
			layout.RoadEdge{From: cross, To: far, Width: p.roadWidth, Class: layout.RoadSecondary},
		)
		prev = cross
	}
	end := addNode(f.u1, st.vCenter)
	net.Edges = append(net.Edges, layout.RoadEdge{From: prev, To: end, Width: p.roadWidth, Class: layout.RoadPrimary})
}

// carveBlocks walks the column x side grid left by the roads and
// subdivides each block into lots.
func (st *decodeState) carveBlocks(vRoad float64, cuts []float64) {
	f, p := st.f, st.p

	edges := []float64{f.u0}
	for _, u := range cuts {
		edges = append(edges, u, u+p.roadWidth)
	}
	edges = append(edges, f.u1)

	for c := 0; c+1 < len(edges); c += 2 {
		ua, ub := edges[c], edges[c+1]
		leftRoad := c > 0
		rightRoad := c+2 < len(edges)

		// Side below the primary road (v decreasing from the road edge),
		// then above it.
		if vRoad-f.v0 > geometry.Eps {
			st.carveBlock(ua, ub, vRoad, f.v0, leftRoad, rightRoad)
		}
		if f.v1-(vRoad+p.roadWidth) > geometry.Eps {
			st.carveBlock(ua, ub, vRoad+p.roadWidth, f.v1, leftRoad, rightRoad)
		}
	}
}
