package layout

import (
	"fmt"
	"sort"

	"github.com/parcelopt/parcelopt/apis/config/v1alpha1"
)

// Rule is one compiled constraint: a parameter name, a comparison and a
// priority. Hard rules gate feasibility; soft rules only penalize.
type Rule struct {
	Parameter string
	Operator  v1alpha1.ConstraintOperator
	Threshold float64
	Upper     float64
	Priority  v1alpha1.ConstraintPriority
}

// Hard reports whether violating the rule makes a layout infeasible.
func (r Rule) Hard() bool { return r.Priority == v1alpha1.PriorityHard }

// ConstraintSet is the immutable compiled rule set for a run, keyed by
// parameter name. At most one rule per parameter.
type ConstraintSet struct {
	rules map[string]Rule
}

// NewConstraintSet compiles validated specs into a set.
func NewConstraintSet(specs []v1alpha1.ConstraintSpec) (*ConstraintSet, error) {
	rules := make(map[string]Rule, len(specs))
	for i := range specs {
		s := &specs[i]
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := rules[s.Parameter]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, s.Parameter)
		}
		rules[s.Parameter] = Rule{
			Parameter: s.Parameter,
			Operator:  s.Operator,
			Threshold: s.Threshold,
			Upper:     s.Upper,
			Priority:  s.Priority,
		}
	}
	return &ConstraintSet{rules: rules}, nil
}

// Rule returns the rule for a parameter, if present.
func (cs *ConstraintSet) Rule(parameter string) (Rule, bool) {
	r, ok := cs.rules[parameter]
	return r, ok
}

// Rules returns all rules ordered by parameter name, so iteration order is
// stable across runs.
func (cs *ConstraintSet) Rules() []Rule {
	out := make([]Rule, 0, len(cs.rules))
	for _, r := range cs.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Parameter < out[j].Parameter })
	return out
}

// Threshold returns the rule's threshold for a parameter, or def when the
// scenario sets no rule. The decoder uses this to pick target dimensions.
func (cs *ConstraintSet) Threshold(parameter string, def float64) float64 {
	if r, ok := cs.rules[parameter]; ok {
		return r.Threshold
	}
	return def
}

// Bounds returns the [low, high] interval for a range rule, or the given
// defaults when the scenario sets no rule for the parameter.
func (cs *ConstraintSet) Bounds(parameter string, defLow, defHigh float64) (float64, float64) {
	r, ok := cs.rules[parameter]
	if !ok {
		return defLow, defHigh
	}
	switch r.Operator {
	case v1alpha1.OperatorRange:
		return r.Threshold, r.Upper
	case v1alpha1.OperatorMin:
		return r.Threshold, defHigh
	case v1alpha1.OperatorMax:
		return defLow, r.Threshold
	default:
		return r.Threshold, r.Threshold
	}
}
