package decoder

import (
	"math"
	"sort"

	"github.com/parcelopt/parcelopt/pkg/subdivision/genome"
	"github.com/parcelopt/parcelopt/pkg/subdivision/geometry"
	"github.com/parcelopt/parcelopt/pkg/subdivision/layout"
)

// carveBlock subdivides one block between roads. vNear is the block edge
// touching the primary road, vFar the far edge; lots fronting the primary
// road fill the near band, and the rest of the block is split into strips
// fronting the secondary roads on its left and right.
func (st *decodeState) carveBlock(ua, ub, vNear, vFar float64, leftRoad, rightRoad bool) {
	p := st.p
	idx := st.blockIdx
	st.blockIdx++

	sign := 1.0
	if vFar < vNear {
		sign = -1
	}
	bw := ub - ua
	bd := math.Abs(vFar - vNear)
	if bw*bd < p.minLotArea {
		st.fragment(ua, vNear, ub, vFar)
		return
	}

	widthFactor := 0.85 + 0.3*st.g.WidthFactor(idx)
	w := math.Max(p.lotWidth*widthFactor, p.minFrontage)

	// Band of lots fronting the primary road.
	depth := math.Min(p.lotDepth, bd)
	k := int(bw / w)
	if most := int(bw * depth / p.minLotArea); k > most {
		k = most
	}
	if k < 1 {
		st.fragment(ua, vNear, ub, vFar)
		return
	}
	lotW := bw / float64(k)
	vBandEnd := vNear + sign*depth
	for i := 0; i < k; i++ {
		lu := ua + float64(i)*lotW
		corner := (i == 0 && leftRoad) || (i == k-1 && rightRoad)
		st.emitLot(lu, vNear, lu+lotW, vBandEnd, lotW, corner, layout.Zone{
			Kind:       layout.ZoneCommercial,
			Commercial: &layout.CommercialParams{TargetArea: p.targetArea, FrontageFactor: widthFactor},
		})
	}

	rd := bd - depth
	if rd <= geometry.Eps {
		return
	}
	if rd*bw < p.minLotArea || (!leftRoad && !rightRoad) {
		st.fragment(ua, vBandEnd, ub, vFar)
		return
	}

	// Strips fronting the secondary roads.
	var dl, dr float64
	if leftRoad {
		dl = p.lotDepth
		if rightRoad {
			dl = math.Min(dl, bw/2)
		} else {
			dl = math.Min(dl, bw)
		}
	}
	if rightRoad {
		dr = p.lotDepth
		if leftRoad {
			dr = math.Min(dr, bw/2)
		} else {
			dr = math.Min(dr, bw)
		}
	}
	if dl+dr > bw {
		total := dl + dr
		dl = bw * dl / total
		dr = bw - dl
	}

	zone := layout.Zone{
		Kind:        layout.ZoneResidential,
		Residential: &layout.ResidentialParams{TargetArea: p.targetArea, AspectLow: p.aspectLow, AspectHigh: p.aspectHigh},
	}
	st.carveStrip(ua, ua+dl, vBandEnd, vFar, sign, rd, w, dl, zone)
	st.carveStrip(ub-dr, ub, vBandEnd, vFar, sign, rd, w, dr, zone)

	if ub-dr-(ua+dl) > geometry.Eps {
		st.fragment(ua+dl, vBandEnd, ub-dr, vFar)
	}
}

// carveStrip stacks lots along a secondary road. The strip spans
// [ua, ub] in u and [vStart, vFar] in v; frontage runs along v.
func (st *decodeState) carveStrip(ua, ub, vStart, vFar, sign, rd, w, depth float64, zone layout.Zone) {
	p := st.p
	if depth <= geometry.Eps {
		return
	}
	m := int(rd / w)
	if most := int(rd * depth / p.minLotArea); m > most {
		m = most
	}
	if m < 1 {
		st.fragment(ua, vStart, ub, vFar)
		return
	}
	lotH := rd / float64(m)
	for j := 0; j < m; j++ {
		lv := vStart + sign*float64(j)*lotH
		st.emitLot(ua, lv, ub, lv+sign*lotH, lotH, false, zone)
	}
}

// emitLot clips a candidate lot rectangle against the parcel outline.
// Pieces the boundary fully contains become lots; pieces the boundary cuts
// are demoted to unallocated remainder when still lot-sized and to green
// fragments otherwise, since an irregular sliver has no usable frontage.
func (st *decodeState) emitLot(ua, va, ub, vb, frontage float64, corner bool, zone layout.Zone) {
	r := st.f.rect(ua, va, ub, vb)
	piece := geometry.ClipToRect(st.ring, r)
	if piece == nil {
		return
	}
	area := piece.Area()
	if area < r.Area()*(1-1e-6) {
		if area >= st.p.minLotArea {
			st.out.Unallocated = append(st.out.Unallocated, piece)
		} else {
			st.fragments = append(st.fragments, piece)
		}
		return
	}
	long := math.Max(r.Width(), r.Height())
	short := math.Min(r.Width(), r.Height())
	aspect := math.Inf(1)
	if short > 0 {
		aspect = long / short
	}
	st.out.Lots = append(st.out.Lots, layout.Lot{
		Ring:        piece,
		Area:        area,
		Frontage:    frontage,
		AspectRatio: aspect,
		Corner:      corner,
		Zone:        zone,
	})
}

// fragment clips a leftover region and queues it for green space.
func (st *decodeState) fragment(ua, va, ub, vb float64) {
	r := st.f.rect(ua, va, ub, vb)
	if piece := geometry.ClipToRect(st.ring, r); piece != nil {
		st.fragments = append(st.fragments, piece)
	}
}

// allocateGreen turns all fragments into green space, then keeps converting
// lots until the constraint set's green-space ratio is met or no lots
// remain. The green-bias gene picks the sacrifice order: smallest lots
// first, or lots farthest from the primary road first.
func (st *decodeState) allocateGreen() {
	out := st.out
	for _, frag := range st.fragments {
		out.GreenSpace = append(out.GreenSpace, frag)
	}

	needed := st.p.greenRatio*out.BoundaryArea - out.GreenArea()
	if needed <= geometry.Eps || len(out.Lots) == 0 {
		return
	}

	order := make([]int, len(out.Lots))
	for i := range order {
		order[i] = i
	}
	if st.g[genome.GeneGreenBias] < 0.5 {
		sort.SliceStable(order, func(a, b int) bool {
			return out.Lots[order[a]].Area < out.Lots[order[b]].Area
		})
	} else {
		dist := func(i int) float64 {
			c := out.Lots[i].Ring.Centroid()
			v := c.Y
			if !st.f.horizontal {
				v = c.X
			}
			return math.Abs(v - st.vCenter)
		}
		sort.SliceStable(order, func(a, b int) bool {
			return dist(order[a]) > dist(order[b])
		})
	}

	sacrificed := make(map[int]bool, len(order))
	for _, i := range order {
		if needed <= geometry.Eps {
			break
		}
		out.GreenSpace = append(out.GreenSpace, out.Lots[i].Ring)
		needed -= out.Lots[i].Area
		sacrificed[i] = true
	}

	kept := out.Lots[:0]
	for i := range out.Lots {
		if !sacrificed[i] {
			kept = append(kept, out.Lots[i])
		}
	}
	out.Lots = kept
}
