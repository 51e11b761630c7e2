package fitness

import (
	"errors"

	"github.com/parcelopt/parcelopt/apis/config/v1alpha1"
	"github.com/parcelopt/parcelopt/pkg/subdivision/layout"
)

// ErrNoCost indicates the cost model produced a zero total cost, which
// makes ROI undefined.
var ErrNoCost = errors.New("fitness: total cost is zero, ROI undefined")

// CostModel is the built-in financial oracle: land acquisition plus road
// construction against per-area lot revenue, with a premium on corner
// lots. Production deployments plug in their own oracle; this one keeps
// the optimizer usable out of the box and anchors the tests.
type CostModel struct {
	spec v1alpha1.FinancialSpec
}

// NewCostModel builds the oracle from a validated financial spec.
func NewCostModel(spec v1alpha1.FinancialSpec) *CostModel {
	return &CostModel{spec: spec}
}

// Score implements FinancialOracle.
func (m *CostModel) Score(l *layout.Layout) (FinancialScore, error) {
	cost := m.spec.LandCostPerArea*l.BoundaryArea + m.spec.RoadCostPerArea*l.RoadArea()

	revenue := 0.0
	for i := range l.Lots {
		lot := &l.Lots[i]
		r := m.spec.LotRevenuePerArea * lot.Area
		if lot.Corner {
			r *= 1 + m.spec.CornerPremium
		}
		revenue += r
	}

	if cost <= 0 {
		return FinancialScore{}, ErrNoCost
	}
	return FinancialScore{
		TotalCost:    cost,
		TotalRevenue: revenue,
		ROIPercent:   (revenue - cost) / cost * 100,
	}, nil
}
