package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/parcelopt/parcelopt/apis/config/v1alpha1"
	"github.com/parcelopt/parcelopt/pkg/subdivision/geometry"
)

// Scenario is a fully loaded and validated run input.
type Scenario struct {
	Name        string
	Boundary    *Boundary
	Constraints *ConstraintSet
	Spec        v1alpha1.ScenarioSpec
}

// LoadScenario reads a scenario YAML file and compiles it. Degenerate
// boundaries are rejected here, before the optimizer ever starts.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var spec v1alpha1.ScenarioSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return FromSpec(spec)
}

// FromSpec compiles an in-memory scenario spec.
func FromSpec(spec v1alpha1.ScenarioSpec) (*Scenario, error) {
	spec.GA.SetDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	ring := make(geometry.Polygon, len(spec.Boundary.Vertices))
	for i, v := range spec.Boundary.Vertices {
		ring[i] = geometry.Point{X: v[0], Y: v[1]}
	}
	boundary, err := NewBoundary(ring)
	if err != nil {
		return nil, err
	}
	constraints, err := NewConstraintSet(spec.Constraints)
	if err != nil {
		return nil, err
	}
	return &Scenario{
		Name:        spec.Name,
		Boundary:    boundary,
		Constraints: constraints,
		Spec:        spec,
	}, nil
}
