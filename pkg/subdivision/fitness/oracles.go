// Package fitness computes the objective vector of a decoded layout. The
// financial, utility-routing and terrain scores come from pluggable
// oracles; this package only aggregates. Oracle calls are synchronous and
// treated as pure; anything genuinely asynchronous belongs behind the
// genome-keyed caching adapter.
package fitness

import "github.com/parcelopt/parcelopt/pkg/subdivision/layout"

// FinancialScore is the financial oracle's verdict on a layout.
type FinancialScore struct {
	TotalCost    float64 `json:"totalCost"`
	TotalRevenue float64 `json:"totalRevenue"`
	ROIPercent   float64 `json:"roiPercentage"`
}

// FinancialOracle prices a layout. Implementations must be deterministic
// given the layout and their own configuration.
type FinancialOracle interface {
	Score(l *layout.Layout) (FinancialScore, error)
}

// UtilityScore is the utility-routing oracle's cost contribution.
type UtilityScore struct {
	NetworkCost float64 `json:"networkCost"`
}

// UtilityOracle estimates the cost of running utilities to the lots along
// the road network. Optional; a nil oracle contributes nothing.
type UtilityOracle interface {
	Score(lots []layout.Lot, roads []layout.Road) (UtilityScore, error)
}

// TerrainScore is the terrain oracle's grading verdict.
type TerrainScore struct {
	GradingCost     float64 `json:"gradingCost"`
	SlopeViolations int     `json:"slopeViolations"`
	MaxSlope        float64 `json:"maxSlope"`
}

// TerrainOracle analyzes earthworks for a layout. Optional; it feeds both
// the financial objective (grading cost) and the validator's slope rule.
type TerrainOracle interface {
	Score(l *layout.Layout) (TerrainScore, error)
}

// SlopeFromTerrain adapts a terrain oracle into the validator's slope
// source. A failing oracle reports zero slope so the rule does not fire on
// garbage data.
type SlopeFromTerrain struct {
	Oracle TerrainOracle
}

// MaxSlope implements validator.SlopeSource.
func (s SlopeFromTerrain) MaxSlope(l *layout.Layout) float64 {
	score, err := s.Oracle.Score(l)
	if err != nil {
		return 0
	}
	return score.MaxSlope
}
