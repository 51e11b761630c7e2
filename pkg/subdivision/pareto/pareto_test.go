package pareto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelopt/parcelopt/pkg/subdivision/framework"
	"github.com/parcelopt/parcelopt/pkg/subdivision/geometry"
	"github.com/parcelopt/parcelopt/pkg/subdivision/layout"
)

func plan(financial, roadLength float64, lots int) *framework.Individual {
	l := &layout.Layout{
		Lots: make([]layout.Lot, lots),
		Roads: []layout.Road{{
			Centerline: geometry.Polyline{{X: 0, Y: 0}, {X: roadLength, Y: 0}},
		}},
	}
	return &framework.Individual{
		Layout:     l,
		Fitness:    &framework.FitnessVector{LotCount: float64(lots), Financial: financial},
		Objectives: []float64{float64(lots), 0, 0, financial},
	}
}

func TestFrontKeepsOnlyNonDominated(t *testing.T) {
	a := plan(100, 300, 10)
	b := plan(80, 300, 12)  // trades financial for lots
	c := plan(80, 300, 8)   // dominated by a
	d := plan(100, 300, 10) // duplicate of a, mutually non-dominating

	front := Front([]*framework.Individual{a, b, c, d})

	assert.ElementsMatch(t, []*framework.Individual{a, b, d}, front)
}

func TestFrontEmptyPopulation(t *testing.T) {
	assert.Nil(t, Front(nil))
}

func TestRecommendPrefersFinancial(t *testing.T) {
	low := plan(90, 100, 20)
	high := plan(120, 900, 5)

	assert.Same(t, high, Recommend([]*framework.Individual{low, high}))
}

func TestRecommendTieBreaksOnRoadLengthThenLots(t *testing.T) {
	longRoad := plan(100, 500, 10)
	shortRoad := plan(100, 300, 10)
	assert.Same(t, shortRoad, Recommend([]*framework.Individual{longRoad, shortRoad}))

	fewLots := plan(100, 300, 10)
	manyLots := plan(100, 300, 14)
	assert.Same(t, manyLots, Recommend([]*framework.Individual{fewLots, manyLots}))
}

func TestRecommendStableOnFullTie(t *testing.T) {
	first := plan(100, 300, 10)
	second := plan(100, 300, 10)

	for i := 0; i < 5; i++ {
		assert.Same(t, first, Recommend([]*framework.Individual{first, second}))
	}
}

func TestRecommendSkipsUndecoded(t *testing.T) {
	bare := &framework.Individual{
		Fitness:    &framework.FitnessVector{Financial: 1e9},
		Objectives: []float64{0, 0, 0, 1e9},
	}
	decoded := plan(10, 100, 3)

	rec := Recommend([]*framework.Individual{bare, decoded})
	require.NotNil(t, rec)
	assert.Same(t, decoded, rec)
}
