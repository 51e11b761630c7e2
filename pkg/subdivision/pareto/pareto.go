// Package pareto extracts the non-dominated front from a population and
// picks a single recommended plan from it deterministically.
package pareto

import (
	"github.com/parcelopt/parcelopt/pkg/subdivision/framework"
)

// Front returns the non-dominated subset of the population. The input is
// not modified beyond rank stamping.
func Front(population []*framework.Individual) []*framework.Individual {
	if len(population) == 0 {
		return nil
	}
	return framework.NonDominatedSort(population)[0]
}

// Recommend picks one plan from the front. The tie-break chain is fixed:
// highest financial return, then shortest total road length, then most
// lots. Equal on all three means the layouts are interchangeable and the
// first in input order wins, which keeps runs reproducible.
func Recommend(front []*framework.Individual) *framework.Individual {
	var best *framework.Individual
	for _, ind := range front {
		if ind.Layout == nil {
			continue
		}
		if best == nil || prefer(ind, best) {
			best = ind
		}
	}
	return best
}

func prefer(a, b *framework.Individual) bool {
	if a.Fitness.Financial != b.Fitness.Financial {
		return a.Fitness.Financial > b.Fitness.Financial
	}
	ra, rb := a.Layout.TotalRoadLength(), b.Layout.TotalRoadLength()
	if ra != rb {
		return ra < rb
	}
	return len(a.Layout.Lots) > len(b.Layout.Lots)
}
