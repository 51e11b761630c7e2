package framework

import (
	"math"
	"sort"
)

// Dominates reports whether a Pareto-dominates b: at least as good on
// every objective and strictly better on at least one. Objectives are
// maximized.
func Dominates(a, b *Individual) bool {
	better := false
	for i := range a.Objectives {
		if a.Objectives[i] < b.Objectives[i] {
			return false
		}
		if a.Objectives[i] > b.Objectives[i] {
			better = true
		}
	}
	return better
}

// NonDominatedSort partitions the population into fronts and stamps each
// individual's Rank. Front 0 is the non-dominated set.
func NonDominatedSort(population []*Individual) [][]*Individual {
	var fronts [][]*Individual
	dominated := make(map[int][]int)
	domCount := make([]int, len(population))

	for i := 0; i < len(population); i++ {
		dominated[i] = []int{}
		for j := 0; j < len(population); j++ {
			if i == j {
				continue
			}
			if Dominates(population[i], population[j]) {
				dominated[i] = append(dominated[i], j)
			} else if Dominates(population[j], population[i]) {
				domCount[i]++
			}
		}
	}

	var currentFront []*Individual
	var currentIndices []int
	for i := 0; i < len(population); i++ {
		if domCount[i] == 0 {
			population[i].Rank = 0
			currentFront = append(currentFront, population[i])
			currentIndices = append(currentIndices, i)
		}
	}
	fronts = append(fronts, currentFront)

	frontIndex := 0
	for len(currentFront) > 0 {
		var nextFront []*Individual
		var nextIndices []int
		for _, idx := range currentIndices {
			for _, dominatedIdx := range dominated[idx] {
				domCount[dominatedIdx]--
				if domCount[dominatedIdx] == 0 {
					population[dominatedIdx].Rank = frontIndex + 1
					nextFront = append(nextFront, population[dominatedIdx])
					nextIndices = append(nextIndices, dominatedIdx)
				}
			}
		}
		frontIndex++
		if len(nextFront) > 0 {
			fronts = append(fronts, nextFront)
		}
		currentFront = nextFront
		currentIndices = nextIndices
	}

	return fronts
}

// CrowdingDistance stamps each front member's Distance: the normalized
// objective-space spread around it, infinite at the boundary points so the
// extremes of every front survive selection.
func CrowdingDistance(front []*Individual) {
	if len(front) <= 2 {
		for i := range front {
			front[i].Distance = math.Inf(1)
		}
		return
	}

	numObjectives := len(front[0].Objectives)
	for i := range front {
		front[i].Distance = 0
	}

	for m := 0; m < numObjectives; m++ {
		sort.Slice(front, func(i, j int) bool {
			return front[i].Objectives[m] < front[j].Objectives[m]
		})

		front[0].Distance = math.Inf(1)
		front[len(front)-1].Distance = math.Inf(1)

		objectiveRange := front[len(front)-1].Objectives[m] - front[0].Objectives[m]
		if objectiveRange == 0 {
			continue
		}

		for i := 1; i < len(front)-1; i++ {
			front[i].Distance += (front[i+1].Objectives[m] - front[i-1].Objectives[m]) / objectiveRange
		}
	}
}
