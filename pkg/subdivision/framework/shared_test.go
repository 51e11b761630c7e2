package framework

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ind(objs ...float64) *Individual {
	return &Individual{Objectives: objs}
}

func TestDominates(t *testing.T) {
	assert.True(t, Dominates(ind(2, 2), ind(1, 1)))
	assert.True(t, Dominates(ind(2, 1), ind(1, 1)), "equal on one, better on the other")
	assert.False(t, Dominates(ind(1, 1), ind(1, 1)), "equal vectors do not dominate")
	assert.False(t, Dominates(ind(2, 0), ind(1, 1)), "trade-off does not dominate")
	assert.False(t, Dominates(ind(1, 1), ind(2, 2)))
}

func TestNonDominatedSortRanks(t *testing.T) {
	a := ind(4, 4) // front 0
	b := ind(3, 5) // front 0
	c := ind(2, 2) // dominated by a
	d := ind(1, 1) // dominated by everything above

	fronts := NonDominatedSort([]*Individual{d, c, b, a})
	require.Len(t, fronts, 3)
	assert.ElementsMatch(t, []*Individual{a, b}, fronts[0])
	assert.ElementsMatch(t, []*Individual{c}, fronts[1])
	assert.ElementsMatch(t, []*Individual{d}, fronts[2])

	assert.Equal(t, 0, a.Rank)
	assert.Equal(t, 0, b.Rank)
	assert.Equal(t, 1, c.Rank)
	assert.Equal(t, 2, d.Rank)
}

func TestNonDominatedSortFirstFrontIsNonDominated(t *testing.T) {
	pop := []*Individual{
		ind(1, 9), ind(2, 8), ind(3, 7), ind(5, 5),
		ind(1, 8), ind(2, 2), ind(4, 6),
	}
	fronts := NonDominatedSort(pop)
	first := fronts[0]
	for i := range first {
		for j := range first {
			if i != j {
				assert.False(t, Dominates(first[i], first[j]), "front 0 contains dominated member")
			}
		}
	}
}

func TestCrowdingDistanceBoundariesInfinite(t *testing.T) {
	front := []*Individual{ind(1, 9), ind(2, 8), ind(3, 7), ind(5, 5)}
	CrowdingDistance(front)

	var infinite, finite int
	for _, m := range front {
		if math.IsInf(m.Distance, 1) {
			infinite++
		} else {
			assert.Greater(t, m.Distance, 0.0)
			finite++
		}
	}
	assert.Equal(t, 2, infinite, "objective-space extremes get infinite distance")
	assert.Equal(t, 2, finite)
}

func TestCrowdingDistanceSmallFront(t *testing.T) {
	front := []*Individual{ind(1, 2), ind(2, 1)}
	CrowdingDistance(front)
	for _, m := range front {
		assert.True(t, math.IsInf(m.Distance, 1))
	}
}
