// Package v1alpha1 defines the serialized scenario format consumed by the
// optimizer: the parcel boundary, the constraint set, the genetic-algorithm
// parameters and the financial model configuration. A scenario file is the
// single input of a run; everything in it is validated before the first
// generation starts.
package v1alpha1

import (
	"fmt"
	"strings"
)

// ScenarioSpec is the top-level scenario document.
type ScenarioSpec struct {
	// Name identifies the scenario in logs and reports.
	Name string `yaml:"name" json:"name"`

	// Boundary is the parcel outline.
	Boundary BoundarySpec `yaml:"boundary" json:"boundary"`

	// Constraints is the regulatory rule set applied to decoded layouts.
	Constraints []ConstraintSpec `yaml:"constraints" json:"constraints"`

	// GA holds the evolutionary search parameters.
	GA GASpec `yaml:"ga" json:"ga"`

	// Financial configures the built-in financial scoring model.
	Financial FinancialSpec `yaml:"financial" json:"financial"`
}

// BoundarySpec is a closed ring of vertices. The closing edge is implicit.
type BoundarySpec struct {
	// Vertices are [x, y] pairs in site-plan units.
	Vertices [][2]float64 `yaml:"vertices" json:"vertices"`
}

// ConstraintOperator is the comparison a rule applies to a measured value.
type ConstraintOperator string

const (
	OperatorMin   ConstraintOperator = "min"   // actual >= threshold
	OperatorMax   ConstraintOperator = "max"   // actual <= threshold
	OperatorEqual ConstraintOperator = "equal" // actual == threshold (within tolerance)
	OperatorRange ConstraintOperator = "range" // threshold <= actual <= upper
)

// ConstraintPriority distinguishes rules that gate feasibility from rules
// that only penalize.
type ConstraintPriority string

const (
	PriorityHard ConstraintPriority = "hard"
	PrioritySoft ConstraintPriority = "soft"
)

// ConstraintSpec is a single named rule, e.g.
//
//	{parameter: min_lot_area, operator: min, threshold: 2000, priority: hard}
type ConstraintSpec struct {
	Parameter string             `yaml:"parameter" json:"parameter"`
	Operator  ConstraintOperator `yaml:"operator" json:"operator"`
	Threshold float64            `yaml:"threshold" json:"threshold"`
	// Upper is the high end for range rules, ignored otherwise.
	Upper    float64            `yaml:"upper,omitempty" json:"upper,omitempty"`
	Priority ConstraintPriority `yaml:"priority" json:"priority"`
}

// GASpec holds the evolutionary search parameters.
type GASpec struct {
	// PopulationSize is the number of individuals per generation.
	PopulationSize int `yaml:"populationSize" json:"populationSize"`

	// MaxGenerations bounds the run length.
	MaxGenerations int `yaml:"maxGenerations" json:"maxGenerations"`

	// CrossoverRate is the per-pair probability of crossover.
	CrossoverRate float64 `yaml:"crossoverRate" json:"crossoverRate"`

	// MutationRate is the per-gene probability of perturbation.
	MutationRate float64 `yaml:"mutationRate" json:"mutationRate"`

	// EliteCount is the number of non-dominated individuals carried
	// forward unchanged each generation.
	EliteCount int `yaml:"eliteCount" json:"eliteCount"`

	// TournamentSize is the sample size for tournament selection.
	TournamentSize int `yaml:"tournamentSize" json:"tournamentSize"`

	// PlateauWindow stops the run early when the best financial objective
	// has not improved for this many consecutive generations. Zero disables
	// the plateau check.
	PlateauWindow int `yaml:"plateauWindow,omitempty" json:"plateauWindow,omitempty"`

	// Workers is the evaluation pool size. Zero means GOMAXPROCS.
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty"`

	// Seed makes runs reproducible. Zero picks a fixed default seed rather
	// than a time-derived one, so an unset field still reproduces.
	Seed int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// FinancialSpec parameterizes the built-in financial oracle.
type FinancialSpec struct {
	// LandCostPerArea is the acquisition cost per unit area of the parcel.
	LandCostPerArea float64 `yaml:"landCostPerArea" json:"landCostPerArea"`

	// RoadCostPerArea is the construction cost per unit area of road.
	RoadCostPerArea float64 `yaml:"roadCostPerArea" json:"roadCostPerArea"`

	// LotRevenuePerArea is the expected sale revenue per unit area of lot.
	LotRevenuePerArea float64 `yaml:"lotRevenuePerArea" json:"lotRevenuePerArea"`

	// CornerPremium is the fractional revenue uplift for corner lots.
	CornerPremium float64 `yaml:"cornerPremium,omitempty" json:"cornerPremium,omitempty"`
}

// Well-known constraint parameter names. The validator measures these
// directly from the decoded layout; unknown parameters are rejected at load
// time rather than silently ignored.
const (
	ParamMinLotArea      = "min_lot_area"
	ParamMaxLotArea      = "max_lot_area"
	ParamMinFrontage     = "min_frontage"
	ParamGreenSpaceRatio = "green_space_ratio"
	ParamBufferWidth     = "buffer_width"
	ParamRoadWidth       = "road_width"
	ParamMaxSlope        = "max_slope"
	ParamAspectRatio     = "aspect_ratio"
)

var knownParameters = map[string]bool{
	ParamMinLotArea:      true,
	ParamMaxLotArea:      true,
	ParamMinFrontage:     true,
	ParamGreenSpaceRatio: true,
	ParamBufferWidth:     true,
	ParamRoadWidth:       true,
	ParamMaxSlope:        true,
	ParamAspectRatio:     true,
}

// SetDefaults fills unset GA fields with workable values.
func (g *GASpec) SetDefaults() {
	if g.PopulationSize == 0 {
		g.PopulationSize = 80
	}
	if g.MaxGenerations == 0 {
		g.MaxGenerations = 100
	}
	if g.CrossoverRate == 0 {
		g.CrossoverRate = 0.9
	}
	if g.MutationRate == 0 {
		g.MutationRate = 0.1
	}
	if g.EliteCount == 0 {
		g.EliteCount = 4
	}
	if g.TournamentSize == 0 {
		g.TournamentSize = 2
	}
	if g.Seed == 0 {
		g.Seed = 1
	}
}

// Validate checks the GA parameters for values the engine cannot run with.
func (g *GASpec) Validate() error {
	if g.PopulationSize < 2 {
		return fmt.Errorf("populationSize must be >= 2, got %d", g.PopulationSize)
	}
	if g.MaxGenerations < 1 {
		return fmt.Errorf("maxGenerations must be >= 1, got %d", g.MaxGenerations)
	}
	if g.CrossoverRate < 0 || g.CrossoverRate > 1 {
		return fmt.Errorf("crossoverRate must be in [0, 1], got %v", g.CrossoverRate)
	}
	if g.MutationRate < 0 || g.MutationRate > 1 {
		return fmt.Errorf("mutationRate must be in [0, 1], got %v", g.MutationRate)
	}
	if g.EliteCount < 0 || g.EliteCount >= g.PopulationSize {
		return fmt.Errorf("eliteCount must be in [0, populationSize), got %d", g.EliteCount)
	}
	if g.TournamentSize < 1 {
		return fmt.Errorf("tournamentSize must be >= 1, got %d", g.TournamentSize)
	}
	if g.PlateauWindow < 0 {
		return fmt.Errorf("plateauWindow must be >= 0, got %d", g.PlateauWindow)
	}
	if g.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", g.Workers)
	}
	return nil
}

// Validate checks a single constraint rule.
func (c *ConstraintSpec) Validate() error {
	name := strings.TrimSpace(c.Parameter)
	if name == "" {
		return fmt.Errorf("constraint parameter name is required")
	}
	if !knownParameters[name] {
		return fmt.Errorf("unknown constraint parameter %q", name)
	}
	switch c.Operator {
	case OperatorMin, OperatorMax, OperatorEqual:
	case OperatorRange:
		if c.Upper < c.Threshold {
			return fmt.Errorf("constraint %s: range upper %v below threshold %v", name, c.Upper, c.Threshold)
		}
	default:
		return fmt.Errorf("constraint %s: unknown operator %q", name, c.Operator)
	}
	switch c.Priority {
	case PriorityHard, PrioritySoft:
	default:
		return fmt.Errorf("constraint %s: priority must be hard or soft, got %q", name, c.Priority)
	}
	return nil
}

// Validate checks the financial model configuration.
func (f *FinancialSpec) Validate() error {
	if f.LandCostPerArea < 0 {
		return fmt.Errorf("landCostPerArea must be >= 0, got %v", f.LandCostPerArea)
	}
	if f.RoadCostPerArea < 0 {
		return fmt.Errorf("roadCostPerArea must be >= 0, got %v", f.RoadCostPerArea)
	}
	if f.LotRevenuePerArea < 0 {
		return fmt.Errorf("lotRevenuePerArea must be >= 0, got %v", f.LotRevenuePerArea)
	}
	if f.CornerPremium < 0 || f.CornerPremium > 1 {
		return fmt.Errorf("cornerPremium must be in [0, 1], got %v", f.CornerPremium)
	}
	return nil
}

// Validate checks the whole scenario document. Boundary geometry beyond the
// vertex count is checked by the layout loader, which owns the simplicity
// and area rules.
func (s *ScenarioSpec) Validate() error {
	if len(s.Boundary.Vertices) < 3 {
		return fmt.Errorf("boundary requires at least 3 vertices, got %d", len(s.Boundary.Vertices))
	}
	for i := range s.Constraints {
		if err := s.Constraints[i].Validate(); err != nil {
			return fmt.Errorf("constraints[%d]: %w", i, err)
		}
	}
	if err := s.GA.Validate(); err != nil {
		return fmt.Errorf("ga: %w", err)
	}
	if err := s.Financial.Validate(); err != nil {
		return fmt.Errorf("financial: %w", err)
	}
	return nil
}
