// Package validator classifies decoded layouts against a constraint set.
// Hard rules gate feasibility; soft rules accumulate a continuous penalty
// the fitness evaluator folds into the objective vector. Validation is
// read-only: a Layout is never touched.
package validator

import (
	"math"

	"github.com/parcelopt/parcelopt/apis/config/v1alpha1"
	"github.com/parcelopt/parcelopt/pkg/subdivision/geometry"
	"github.com/parcelopt/parcelopt/pkg/subdivision/layout"
)

// SlopeSource supplies terrain steepness for the max_slope rule. When no
// terrain data is available the rule is skipped rather than guessed.
type SlopeSource interface {
	MaxSlope(l *layout.Layout) float64
}

// Validator holds the compiled rule set for a run.
type Validator struct {
	boundary *layout.Boundary
	cs       *layout.ConstraintSet
	slope    SlopeSource
}

// New builds a validator. slope may be nil when the scenario has no
// terrain data.
func New(boundary *layout.Boundary, cs *layout.ConstraintSet, slope SlopeSource) *Validator {
	return &Validator{boundary: boundary, cs: cs, slope: slope}
}

// Validate measures every rule against the layout and returns the report.
func (v *Validator) Validate(l *layout.Layout) layout.ConstraintReport {
	report := layout.ConstraintReport{Feasible: true}

	for _, rule := range v.cs.Rules() {
		actual, ok := v.measure(rule.Parameter, l)
		if !ok {
			continue
		}
		pass, deviation := apply(rule, actual)
		if pass {
			continue
		}
		report.Violations = append(report.Violations, layout.Violation{
			Rule:     rule.Parameter,
			Actual:   actual,
			Required: rule.Threshold,
		})
		if rule.Hard() {
			report.Feasible = false
			report.HardViolations++
		} else {
			report.SoftPenalty += deviation
		}
	}
	return report
}

// measure extracts the rule's observed value from the layout. The bool is
// false when the rule does not apply (no lots for lot rules, no terrain
// data for slope).
func (v *Validator) measure(parameter string, l *layout.Layout) (float64, bool) {
	switch parameter {
	case v1alpha1.ParamMinLotArea:
		return minOverLots(l, func(lot *layout.Lot) float64 { return lot.Area })
	case v1alpha1.ParamMaxLotArea:
		return maxOverLots(l, func(lot *layout.Lot) float64 { return lot.Area })
	case v1alpha1.ParamMinFrontage:
		return minOverLots(l, func(lot *layout.Lot) float64 { return lot.Frontage })
	case v1alpha1.ParamAspectRatio:
		return maxOverLots(l, func(lot *layout.Lot) float64 { return lot.AspectRatio })
	case v1alpha1.ParamGreenSpaceRatio:
		return l.GreenRatio(), true
	case v1alpha1.ParamRoadWidth:
		if len(l.Roads) == 0 {
			return 0, false
		}
		width := math.Inf(1)
		for i := range l.Roads {
			width = math.Min(width, l.Roads[i].Width)
		}
		return width, true
	case v1alpha1.ParamBufferWidth:
		return v.clearance(l)
	case v1alpha1.ParamMaxSlope:
		if v.slope == nil {
			return 0, false
		}
		return v.slope.MaxSlope(l), true
	default:
		return 0, false
	}
}

// clearance returns the smallest distance from any lot or road vertex to
// the parcel outline. No built area means the rule is vacuous.
func (v *Validator) clearance(l *layout.Layout) (float64, bool) {
	ring := v.boundary.Ring()
	best := math.Inf(1)
	seen := false
	scan := func(p geometry.Polygon) {
		for _, vert := range p {
			best = math.Min(best, distToRing(vert, ring))
			seen = true
		}
	}
	for i := range l.Lots {
		scan(l.Lots[i].Ring)
	}
	for i := range l.Roads {
		scan(l.Roads[i].Surface)
	}
	return best, seen
}

func distToRing(pt geometry.Point, ring geometry.Polygon) float64 {
	best := math.Inf(1)
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		best = math.Min(best, distToSegment(pt, a, b))
	}
	return best
}

func distToSegment(pt, a, b geometry.Point) float64 {
	ab := b.Sub(a)
	ap := pt.Sub(a)
	den := ab.X*ab.X + ab.Y*ab.Y
	if den == 0 {
		return pt.Dist(a)
	}
	t := (ap.X*ab.X + ap.Y*ab.Y) / den
	t = math.Max(0, math.Min(1, t))
	return pt.Dist(geometry.Point{X: a.X + t*ab.X, Y: a.Y + t*ab.Y})
}

// apply evaluates the rule operator. The returned deviation is a
// dimensionless violation magnitude used as the soft penalty: the shortfall
// relative to the threshold, so rules on different scales compare.
func apply(rule layout.Rule, actual float64) (bool, float64) {
	norm := math.Max(math.Abs(rule.Threshold), 1)
	switch rule.Operator {
	case v1alpha1.OperatorMin:
		if actual >= rule.Threshold {
			return true, 0
		}
		return false, (rule.Threshold - actual) / norm
	case v1alpha1.OperatorMax:
		if actual <= rule.Threshold {
			return true, 0
		}
		return false, (actual - rule.Threshold) / norm
	case v1alpha1.OperatorEqual:
		dev := math.Abs(actual - rule.Threshold)
		if dev <= 1e-6*norm {
			return true, 0
		}
		return false, dev / norm
	case v1alpha1.OperatorRange:
		if actual < rule.Threshold {
			return false, (rule.Threshold - actual) / norm
		}
		if actual > rule.Upper {
			return false, (actual - rule.Upper) / math.Max(math.Abs(rule.Upper), 1)
		}
		return true, 0
	default:
		return true, 0
	}
}

func minOverLots(l *layout.Layout, get func(*layout.Lot) float64) (float64, bool) {
	if len(l.Lots) == 0 {
		return 0, false
	}
	best := math.Inf(1)
	for i := range l.Lots {
		best = math.Min(best, get(&l.Lots[i]))
	}
	return best, true
}

func maxOverLots(l *layout.Layout, get func(*layout.Lot) float64) (float64, bool) {
	if len(l.Lots) == 0 {
		return 0, false
	}
	best := math.Inf(-1)
	for i := range l.Lots {
		best = math.Max(best, get(&l.Lots[i]))
	}
	return best, true
}
