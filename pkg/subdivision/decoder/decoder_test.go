package decoder

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelopt/parcelopt/apis/config/v1alpha1"
	"github.com/parcelopt/parcelopt/pkg/subdivision/genome"
	"github.com/parcelopt/parcelopt/pkg/subdivision/geometry"
	"github.com/parcelopt/parcelopt/pkg/subdivision/layout"
)

func boundaryRect(t *testing.T, w, h float64) *layout.Boundary {
	t.Helper()
	b, err := layout.NewBoundary(geometry.Polygon{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}})
	require.NoError(t, err)
	return b
}

func constraints(t *testing.T, specs ...v1alpha1.ConstraintSpec) *layout.ConstraintSet {
	t.Helper()
	cs, err := layout.NewConstraintSet(specs)
	require.NoError(t, err)
	return cs
}

func hard(param string, op v1alpha1.ConstraintOperator, threshold float64) v1alpha1.ConstraintSpec {
	return v1alpha1.ConstraintSpec{Parameter: param, Operator: op, Threshold: threshold, Priority: v1alpha1.PriorityHard}
}

// siteConstraints is the reference scenario used across the decoder tests:
// a 20-wide road grid, 2000-area lots with 15 units of frontage.
func siteConstraints(t *testing.T) *layout.ConstraintSet {
	return constraints(t,
		hard(v1alpha1.ParamMinLotArea, v1alpha1.OperatorMin, 2000),
		hard(v1alpha1.ParamMinFrontage, v1alpha1.OperatorMin, 15),
		hard(v1alpha1.ParamRoadWidth, v1alpha1.OperatorMin, 20),
	)
}

func TestDecodeProducesLotsOnLargeParcel(t *testing.T) {
	b := boundaryRect(t, 1000, 500)
	cs := siteConstraints(t)
	l := Decode(genome.New(), b, cs)

	require.NotEmpty(t, l.Lots)
	assert.GreaterOrEqual(t, len(l.Lots), 15)
	require.NotEmpty(t, l.Roads)
	assert.Equal(t, layout.RoadPrimary, l.Roads[0].Class)

	for _, lot := range l.Lots {
		assert.GreaterOrEqual(t, lot.Area, 2000.0)
		assert.GreaterOrEqual(t, lot.Frontage, 15.0)
	}
}

func TestDecodeDeterministic(t *testing.T) {
	b := boundaryRect(t, 1000, 500)
	cs := siteConstraints(t)
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 10; trial++ {
		g := genome.NewRandom(rng)
		first := Decode(g, b, cs)
		second := Decode(g, b, cs)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("decode is not deterministic (-first +second):\n%s", diff)
		}
	}
}

func TestDecodeDoesNotMutateGenome(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	g := genome.NewRandom(rng)
	before := g.Clone()
	Decode(g, boundaryRect(t, 1000, 500), siteConstraints(t))
	assert.Equal(t, before, g)
}

func TestDecodeLotsDisjointFromRoads(t *testing.T) {
	b := boundaryRect(t, 1000, 500)
	cs := siteConstraints(t)
	rng := rand.New(rand.NewSource(13))
	for trial := 0; trial < 20; trial++ {
		l := Decode(genome.NewRandom(rng), b, cs)
		for _, road := range l.Roads {
			strip := road.Surface.BoundingBox()
			for _, lot := range l.Lots {
				overlap := geometry.ClipToRect(lot.Ring, strip)
				if overlap != nil {
					assert.InDelta(t, 0.0, overlap.Area(), 1e-6,
						"lot overlaps %s road", road.Class)
				}
			}
		}
	}
}

func TestDecodeEverythingInsideBoundary(t *testing.T) {
	// L-shaped parcel exercises the clipping path.
	ring := geometry.Polygon{{X: 0, Y: 0}, {X: 800, Y: 0}, {X: 800, Y: 300}, {X: 400, Y: 300}, {X: 400, Y: 600}, {X: 0, Y: 600}}
	b, err := layout.NewBoundary(ring)
	require.NoError(t, err)
	cs := siteConstraints(t)

	rng := rand.New(rand.NewSource(14))
	for trial := 0; trial < 10; trial++ {
		l := Decode(genome.NewRandom(rng), b, cs)
		check := func(p geometry.Polygon, what string) {
			for _, v := range p {
				assert.True(t, b.Contains(v), "%s vertex %v escapes the boundary", what, v)
			}
		}
		for _, lot := range l.Lots {
			check(lot.Ring, "lot")
		}
		for _, road := range l.Roads {
			check(road.Surface, "road")
		}
		for _, g := range l.GreenSpace {
			check(g, "green")
		}
		for _, u := range l.Unallocated {
			check(u, "unallocated")
		}
	}
}

func TestDecodeGreenSpaceTopUp(t *testing.T) {
	b := boundaryRect(t, 1000, 500)
	cs := constraints(t,
		hard(v1alpha1.ParamMinLotArea, v1alpha1.OperatorMin, 2000),
		hard(v1alpha1.ParamRoadWidth, v1alpha1.OperatorMin, 20),
		hard(v1alpha1.ParamGreenSpaceRatio, v1alpha1.OperatorMin, 0.15),
	)
	l := Decode(genome.New(), b, cs)
	assert.GreaterOrEqual(t, l.GreenRatio(), 0.15-1e-9,
		"decoder must sacrifice lots until the green ratio is met")
	assert.NotEmpty(t, l.Lots, "a 15%% ratio should not consume every lot")
}

func TestDecodeImpossibleGreenRatioConsumesAllLots(t *testing.T) {
	b := boundaryRect(t, 200, 100)
	cs := constraints(t,
		hard(v1alpha1.ParamMinLotArea, v1alpha1.OperatorMin, 2000),
		hard(v1alpha1.ParamRoadWidth, v1alpha1.OperatorMin, 20),
		hard(v1alpha1.ParamGreenSpaceRatio, v1alpha1.OperatorMin, 0.9),
	)
	l := Decode(genome.New(), b, cs)
	assert.Empty(t, l.Lots)
	assert.Less(t, l.GreenRatio(), 0.9, "roads keep the ratio unreachable")
}

func TestDecodeTinyParcelNeverPanics(t *testing.T) {
	b := boundaryRect(t, 30, 30)
	cs := siteConstraints(t)
	rng := rand.New(rand.NewSource(15))
	for trial := 0; trial < 10; trial++ {
		l := Decode(genome.NewRandom(rng), b, cs)
		assert.Empty(t, l.Lots)
	}
}

func TestDecodeBufferStripKeepsSetback(t *testing.T) {
	b := boundaryRect(t, 1000, 500)
	cs := constraints(t,
		hard(v1alpha1.ParamMinLotArea, v1alpha1.OperatorMin, 2000),
		hard(v1alpha1.ParamRoadWidth, v1alpha1.OperatorMin, 20),
		hard(v1alpha1.ParamBufferWidth, v1alpha1.OperatorMin, 25),
	)
	l := Decode(genome.New(), b, cs)
	require.NotEmpty(t, l.Lots)
	for _, lot := range l.Lots {
		for _, v := range lot.Ring {
			assert.GreaterOrEqual(t, v.X, 25.0-1e-9)
			assert.GreaterOrEqual(t, v.Y, 25.0-1e-9)
			assert.LessOrEqual(t, v.X, 975.0+1e-9)
			assert.LessOrEqual(t, v.Y, 475.0+1e-9)
		}
	}
}

func TestDecodeRoadNetworkTopology(t *testing.T) {
	b := boundaryRect(t, 1000, 500)
	cs := siteConstraints(t)
	g := genome.New()
	g[genome.GeneCutCount] = 1 // all cuts active
	l := Decode(genome.Repair(g), b, cs)

	require.NotEmpty(t, l.Network.Nodes)
	require.NotEmpty(t, l.Network.Edges)
	for _, e := range l.Network.Edges {
		assert.Less(t, e.From, len(l.Network.Nodes))
		assert.Less(t, e.To, len(l.Network.Nodes))
	}
	// One secondary road contributes two half edges.
	secondaries := 0
	for _, e := range l.Network.Edges {
		if e.Class == layout.RoadSecondary {
			secondaries++
		}
	}
	roadCount := 0
	for _, r := range l.Roads {
		if r.Class == layout.RoadSecondary {
			roadCount++
		}
	}
	assert.Equal(t, 2*roadCount, secondaries)
}

func TestDecodeZonesAreTagged(t *testing.T) {
	b := boundaryRect(t, 1000, 500)
	l := Decode(genome.New(), b, siteConstraints(t))
	require.NotEmpty(t, l.Lots)
	for _, lot := range l.Lots {
		switch lot.Zone.Kind {
		case layout.ZoneCommercial:
			require.NotNil(t, lot.Zone.Commercial)
			assert.Nil(t, lot.Zone.Residential)
		case layout.ZoneResidential:
			require.NotNil(t, lot.Zone.Residential)
			assert.Nil(t, lot.Zone.Commercial)
		default:
			t.Fatalf("unexpected zone kind %q", lot.Zone.Kind)
		}
	}
}
