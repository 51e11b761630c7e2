package fitness

import (
	"sync/atomic"

	"gonum.org/v1/gonum/stat"
	"k8s.io/klog/v2"

	"github.com/parcelopt/parcelopt/apis/config/v1alpha1"
	"github.com/parcelopt/parcelopt/pkg/subdivision/decoder"
	"github.com/parcelopt/parcelopt/pkg/subdivision/framework"
	"github.com/parcelopt/parcelopt/pkg/subdivision/layout"
	"github.com/parcelopt/parcelopt/pkg/subdivision/validator"
)

const (
	// WorstFinancial is the sentinel financial objective assigned when a
	// contributing oracle fails. It is finite so infeasible individuals
	// still rank against each other.
	WorstFinancial = -1e9

	// infeasiblePenalty is the fixed offset subtracted from every
	// objective of an infeasible layout, scaled by how badly it violates.
	// Large enough that any feasible layout dominates any infeasible one.
	infeasiblePenalty = 1e6

	// softWeight converts the validator's dimensionless soft penalty into
	// objective units for feasible layouts.
	softWeight = 5.0
)

// Oracles bundles the pluggable scorers. Financial is required; the others
// contribute when present.
type Oracles struct {
	Financial FinancialOracle
	Utility   UtilityOracle
	Terrain   TerrainOracle
}

// keyedScorer is satisfied by CachedFinancial; plain oracles are called
// without a key.
type keyedScorer interface {
	ScoreKeyed(key uint64, l *layout.Layout) (FinancialScore, error)
}

// Evaluator resolves the fitness of individuals. It is safe for
// concurrent use: all state it reads is immutable and the failure counter
// is atomic.
type Evaluator struct {
	boundary *layout.Boundary
	cs       *layout.ConstraintSet
	val      *validator.Validator
	oracles  Oracles

	minFrontage float64
	aspectLow   float64
	aspectHigh  float64

	oracleFailures atomic.Uint64
}

// NewEvaluator wires the evaluator for a run. When a terrain oracle is
// present it also feeds the validator's slope rule.
func NewEvaluator(boundary *layout.Boundary, cs *layout.ConstraintSet, oracles Oracles) *Evaluator {
	var slope validator.SlopeSource
	if oracles.Terrain != nil {
		slope = SlopeFromTerrain{Oracle: oracles.Terrain}
	}
	low, high := cs.Bounds(v1alpha1.ParamAspectRatio, 1.5, 2.0)
	return &Evaluator{
		boundary:    boundary,
		cs:          cs,
		val:         validator.New(boundary, cs, slope),
		oracles:     oracles,
		minFrontage: cs.Threshold(v1alpha1.ParamMinFrontage, 15),
		aspectLow:   low,
		aspectHigh:  high,
	}
}

// OracleFailures returns the number of failed oracle calls so far.
func (e *Evaluator) OracleFailures() uint64 {
	return e.oracleFailures.Load()
}

// Evaluate decodes, validates and scores one individual, memoizing the
// result on the individual itself. Already evaluated individuals (elites)
// are left untouched.
func (e *Evaluator) Evaluate(ind *framework.Individual) {
	if ind.Evaluated() {
		return
	}
	if ind.Layout == nil {
		ind.Layout = decoder.Decode(ind.Genome, e.boundary, e.cs)
	}
	l := ind.Layout
	report := e.val.Validate(l)

	fv := &framework.FitnessVector{
		LotCount:       float64(len(l.Lots)),
		MeanQuality:    e.meanQuality(l),
		RoadEfficiency: roadEfficiency(l),
		Financial:      e.financial(ind.Genome.Hash(), l),
		Report:         report,
	}
	ind.Fitness = fv

	objs := []float64{fv.LotCount, fv.MeanQuality, fv.RoadEfficiency, fv.Financial}
	if !report.Feasible {
		offset := infeasiblePenalty * (1 + report.SoftPenalty + float64(report.HardViolations))
		for i := range objs {
			objs[i] -= offset
		}
	} else if report.SoftPenalty > 0 {
		for i := range objs {
			objs[i] -= softWeight * report.SoftPenalty
		}
	}
	ind.Objectives = objs
}

// financial folds the financial, utility and terrain oracles into one ROI
// objective. Any contributing oracle failing pins the objective to the
// worst sentinel for this individual only; the failure is counted and the
// run continues.
func (e *Evaluator) financial(key uint64, l *layout.Layout) float64 {
	var score FinancialScore
	var err error
	if keyed, ok := e.oracles.Financial.(keyedScorer); ok {
		score, err = keyed.ScoreKeyed(key, l)
	} else {
		score, err = e.oracles.Financial.Score(l)
	}
	if err != nil {
		e.oracleFailures.Add(1)
		klog.V(1).InfoS("financial oracle failed", "genome", key, "err", err)
		return WorstFinancial
	}

	cost := score.TotalCost
	if e.oracles.Utility != nil {
		u, uerr := e.oracles.Utility.Score(l.Lots, l.Roads)
		if uerr != nil {
			e.oracleFailures.Add(1)
			klog.V(1).InfoS("utility oracle failed", "genome", key, "err", uerr)
			return WorstFinancial
		}
		cost += u.NetworkCost
	}
	if e.oracles.Terrain != nil {
		ts, terr := e.oracles.Terrain.Score(l)
		if terr != nil {
			e.oracleFailures.Add(1)
			klog.V(1).InfoS("terrain oracle failed", "genome", key, "err", terr)
			return WorstFinancial
		}
		cost += ts.GradingCost
	}

	if cost <= 0 {
		return score.ROIPercent
	}
	return (score.TotalRevenue - cost) / cost * 100
}

// meanQuality averages the per-lot score: regularity against the target
// aspect range (0-40), frontage generosity (0-40) and a corner bonus (20).
func (e *Evaluator) meanQuality(l *layout.Layout) float64 {
	if len(l.Lots) == 0 {
		return 0
	}
	scores := make([]float64, len(l.Lots))
	for i := range l.Lots {
		scores[i] = e.lotScore(&l.Lots[i])
	}
	return stat.Mean(scores, nil)
}

func (e *Evaluator) lotScore(lot *layout.Lot) float64 {
	score := 0.0

	a := lot.AspectRatio
	switch {
	case a >= e.aspectLow && a <= e.aspectHigh:
		score += 40
	case a > e.aspectHigh:
		over := (a - e.aspectHigh) / e.aspectHigh
		score += 40 * clamp01(1-over)
	default:
		under := (e.aspectLow - a) / e.aspectLow
		score += 40 * clamp01(1-under)
	}

	if e.minFrontage > 0 {
		score += 40 * clamp01(lot.Frontage/(1.5*e.minFrontage))
	} else {
		score += 40
	}

	if lot.Corner {
		score += 20
	}
	return score
}

// roadEfficiency is sellable area per unit of road area. No roads means no
// access and scores zero.
func roadEfficiency(l *layout.Layout) float64 {
	roads := l.RoadArea()
	if roads <= 0 {
		return 0
	}
	return l.LotArea() / roads
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
