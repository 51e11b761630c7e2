package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelopt/parcelopt/apis/config/v1alpha1"
	"github.com/parcelopt/parcelopt/pkg/subdivision/geometry"
)

func rect(w, h float64) geometry.Polygon {
	return geometry.Polygon{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
}

func TestNewBoundaryValid(t *testing.T) {
	b, err := NewBoundary(rect(1000, 500))
	require.NoError(t, err)
	assert.InDelta(t, 500000.0, b.Area(), 1e-6)
	assert.True(t, b.Contains(geometry.Point{X: 500, Y: 250}))
	assert.False(t, b.Contains(geometry.Point{X: 1500, Y: 250}))
}

func TestNewBoundaryRejectsSelfIntersection(t *testing.T) {
	bowtie := geometry.Polygon{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	_, err := NewBoundary(bowtie)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBoundary)
}

func TestNewBoundaryRejectsDegenerate(t *testing.T) {
	_, err := NewBoundary(geometry.Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}})
	assert.ErrorIs(t, err, ErrInvalidBoundary)

	// Collinear ring has zero area.
	flat := geometry.Polygon{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}}
	_, err = NewBoundary(flat)
	assert.ErrorIs(t, err, ErrInvalidBoundary)
}

func TestBoundaryRingIsACopy(t *testing.T) {
	b, err := NewBoundary(rect(10, 10))
	require.NoError(t, err)
	ring := b.Ring()
	ring[0].X = 999
	assert.Zero(t, b.Ring()[0].X, "mutating the returned ring must not touch the boundary")
}

func TestConstraintSetLookup(t *testing.T) {
	cs, err := NewConstraintSet([]v1alpha1.ConstraintSpec{
		{Parameter: v1alpha1.ParamMinLotArea, Operator: v1alpha1.OperatorMin, Threshold: 2000, Priority: v1alpha1.PriorityHard},
		{Parameter: v1alpha1.ParamAspectRatio, Operator: v1alpha1.OperatorRange, Threshold: 1.5, Upper: 2.0, Priority: v1alpha1.PrioritySoft},
	})
	require.NoError(t, err)

	r, ok := cs.Rule(v1alpha1.ParamMinLotArea)
	require.True(t, ok)
	assert.True(t, r.Hard())
	assert.Equal(t, 2000.0, r.Threshold)

	_, ok = cs.Rule(v1alpha1.ParamRoadWidth)
	assert.False(t, ok)

	assert.Equal(t, 2000.0, cs.Threshold(v1alpha1.ParamMinLotArea, 1))
	assert.Equal(t, 12.0, cs.Threshold(v1alpha1.ParamRoadWidth, 12))

	low, high := cs.Bounds(v1alpha1.ParamAspectRatio, 1, 3)
	assert.Equal(t, 1.5, low)
	assert.Equal(t, 2.0, high)
}

func TestConstraintSetRejectsDuplicates(t *testing.T) {
	_, err := NewConstraintSet([]v1alpha1.ConstraintSpec{
		{Parameter: v1alpha1.ParamMinLotArea, Operator: v1alpha1.OperatorMin, Threshold: 2000, Priority: v1alpha1.PriorityHard},
		{Parameter: v1alpha1.ParamMinLotArea, Operator: v1alpha1.OperatorMin, Threshold: 3000, Priority: v1alpha1.PriorityHard},
	})
	assert.ErrorIs(t, err, ErrDuplicateRule)
}

func TestConstraintSetRulesAreSorted(t *testing.T) {
	cs, err := NewConstraintSet([]v1alpha1.ConstraintSpec{
		{Parameter: v1alpha1.ParamRoadWidth, Operator: v1alpha1.OperatorMin, Threshold: 10, Priority: v1alpha1.PriorityHard},
		{Parameter: v1alpha1.ParamMinFrontage, Operator: v1alpha1.OperatorMin, Threshold: 15, Priority: v1alpha1.PriorityHard},
	})
	require.NoError(t, err)
	rules := cs.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, v1alpha1.ParamMinFrontage, rules[0].Parameter)
	assert.Equal(t, v1alpha1.ParamRoadWidth, rules[1].Parameter)
}

func TestLayoutAggregates(t *testing.T) {
	l := &Layout{
		Lots: []Lot{
			{Ring: rect(40, 50), Area: 2000},
			{Ring: rect(40, 50), Area: 2000},
		},
		Roads: []Road{
			{Centerline: geometry.Polyline{{X: 0, Y: 0}, {X: 100, Y: 0}}, Width: 10, Surface: rect(100, 10)},
		},
		GreenSpace:   []geometry.Polygon{rect(20, 25)},
		BoundaryArea: 10000,
	}
	assert.InDelta(t, 4000.0, l.LotArea(), 1e-9)
	assert.InDelta(t, 1000.0, l.RoadArea(), 1e-9)
	assert.InDelta(t, 500.0, l.GreenArea(), 1e-9)
	assert.InDelta(t, 0.05, l.GreenRatio(), 1e-9)
	assert.InDelta(t, 100.0, l.TotalRoadLength(), 1e-9)
}

func TestRoadNetworkTotalLength(t *testing.T) {
	n := RoadNetwork{
		Nodes: []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 50}},
		Edges: []RoadEdge{
			{From: 0, To: 1, Width: 20, Class: RoadPrimary},
			{From: 1, To: 2, Width: 12, Class: RoadSecondary},
		},
	}
	assert.InDelta(t, 150.0, n.TotalLength(), 1e-9)
}

func TestLoadScenarioFile(t *testing.T) {
	doc := `
name: strip-mall
boundary:
  vertices: [[0, 0], [400, 0], [400, 200], [0, 200]]
constraints:
  - {parameter: min_lot_area, operator: min, threshold: 1000, priority: hard}
  - {parameter: green_space_ratio, operator: min, threshold: 0.1, priority: soft}
ga:
  populationSize: 20
  maxGenerations: 10
financial:
  landCostPerArea: 2
  roadCostPerArea: 30
  lotRevenuePerArea: 12
`
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "strip-mall", sc.Name)
	assert.InDelta(t, 80000.0, sc.Boundary.Area(), 1e-6)
	_, ok := sc.Constraints.Rule("min_lot_area")
	assert.True(t, ok)
	// Defaults filled in.
	assert.Equal(t, 0.9, sc.Spec.GA.CrossoverRate)
	assert.Equal(t, int64(1), sc.Spec.GA.Seed)
}

func TestFromSpecRejectsBadBoundary(t *testing.T) {
	_, err := FromSpec(v1alpha1.ScenarioSpec{
		Boundary: v1alpha1.BoundarySpec{Vertices: [][2]float64{{0, 0}, {10, 10}, {10, 0}, {0, 10}}},
	})
	assert.ErrorIs(t, err, ErrInvalidBoundary)
}

func TestFromSpecRejectsUnknownConstraint(t *testing.T) {
	_, err := FromSpec(v1alpha1.ScenarioSpec{
		Boundary:    v1alpha1.BoundarySpec{Vertices: [][2]float64{{0, 0}, {100, 0}, {100, 100}, {0, 100}}},
		Constraints: []v1alpha1.ConstraintSpec{{Parameter: "minimum_vibes", Operator: v1alpha1.OperatorMin, Threshold: 1, Priority: v1alpha1.PriorityHard}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown constraint parameter")
}
