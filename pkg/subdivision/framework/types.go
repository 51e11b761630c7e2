// Package framework holds the optimizer's shared contracts: the individual
// with its cached layout and fitness, the fixed objective order, Pareto
// dominance, non-dominated sorting and crowding distance.
package framework

import (
	"github.com/parcelopt/parcelopt/pkg/subdivision/genome"
	"github.com/parcelopt/parcelopt/pkg/subdivision/layout"
)

// Objective indices. The order is fixed: every vector in the system lists
// lot count, mean lot quality, road efficiency, then the financial
// objective. All four are maximized.
const (
	ObjLotCount = iota
	ObjMeanQuality
	ObjRoadEfficiency
	ObjFinancial

	NumObjectives
)

// FitnessVector carries the raw objective scores of a layout plus its
// constraint report. Raw scores are what reports show; dominance ranking
// uses the penalized Objectives slice on the Individual, so infeasible
// layouts stay comparable among themselves yet never beat feasible ones.
type FitnessVector struct {
	LotCount       float64                 `json:"lotCount"`
	MeanQuality    float64                 `json:"meanQuality"`
	RoadEfficiency float64                 `json:"roadEfficiency"`
	Financial      float64                 `json:"financial"`
	Report         layout.ConstraintReport `json:"report"`
}

// Individual is one member of the population: a genome plus the lazily
// computed, memoized layout and fitness. Layout and Fitness are nil until
// the evaluating phase resolves them; elites keep theirs across
// generations so nothing is ever re-decoded.
type Individual struct {
	Genome  genome.Genome
	Layout  *layout.Layout
	Fitness *FitnessVector

	// Objectives is the penalized maximization vector ranking works on.
	Objectives []float64

	// Rank and Distance are set by non-dominated sorting and crowding.
	Rank     int
	Distance float64
}

// Evaluated reports whether fitness has been resolved.
func (ind *Individual) Evaluated() bool { return ind.Fitness != nil }

// ObjectiveSpacePoint is an N-dimensional point in objective space, one
// coordinate per objective.
type ObjectiveSpacePoint []float64

// Point projects the individual's penalized objectives for plotting.
func (ind *Individual) Point() ObjectiveSpacePoint {
	out := make(ObjectiveSpacePoint, len(ind.Objectives))
	copy(out, ind.Objectives)
	return out
}
