// Package experiment holds the boundary objects around the fitting
// core: the stimulus parameter space an external design process
// samples from, and per-subject sessions accumulating observed trials.
package experiment

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/copyleftdev/VALOR/internal/errors"
	"github.com/copyleftdev/VALOR/internal/fitting"
	"github.com/copyleftdev/VALOR/internal/valuation"
)

// Range is one named bounded stimulus attribute.
type Range struct {
	Name string  `yaml:"name" json:"name"`
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max" json:"max"`
}

// ParameterSpace is the set of bounded ranges defining valid stimulus
// generation for a delayed-reward experiment. The fitting core never
// enforces these bounds; they exist for the external trial-selection
// process and for validating incoming trials at the API boundary.
type ParameterSpace struct {
	Amount1 Range `yaml:"amount_1" json:"amount_1"`
	Cost1   Range `yaml:"cost_1" json:"cost_1"`
	Amount2 Range `yaml:"amount_2" json:"amount_2"`
	Cost2   Range `yaml:"cost_2" json:"cost_2"`
}

// DefaultParameterSpace returns the standard delayed-reward bounds:
// a smaller-sooner option in amount [0,10] x delay [1,10] against a
// larger-later option in amount [10,100] x delay [11,100].
func DefaultParameterSpace() ParameterSpace {
	return ParameterSpace{
		Amount1: Range{Name: "amount_1", Min: 0, Max: 10},
		Cost1:   Range{Name: "cost_1", Min: 1, Max: 10},
		Amount2: Range{Name: "amount_2", Min: 10, Max: 100},
		Cost2:   Range{Name: "cost_2", Min: 11, Max: 100},
	}
}

// LoadParameterSpace reads a parameter space from a YAML file. Ranges
// missing from the file keep their defaults.
func LoadParameterSpace(path string) (ParameterSpace, error) {
	space := DefaultParameterSpace()

	raw, err := os.ReadFile(path)
	if err != nil {
		return space, errors.Wrap(err, "reading parameter space").WithComponent("experiment")
	}
	if err := yaml.Unmarshal(raw, &space); err != nil {
		return space, errors.Wrap(err, "parsing parameter space").WithComponent("experiment")
	}
	if err := space.Validate(); err != nil {
		return space, err
	}
	return space, nil
}

// Validate checks that every range is well-formed.
func (s ParameterSpace) Validate() error {
	for _, r := range []Range{s.Amount1, s.Cost1, s.Amount2, s.Cost2} {
		if r.Min > r.Max {
			return errors.Errorf("range %q has min %v > max %v", r.Name, r.Min, r.Max).
				WithOperation("validate").
				WithComponent("experiment")
		}
	}
	return nil
}

// Contains reports whether a trial's stimulus attributes fall inside
// the space.
func (s ParameterSpace) Contains(t Trial) bool {
	return inRange(s.Amount1, t.Amount1) &&
		inRange(s.Cost1, t.Cost1) &&
		inRange(s.Amount2, t.Amount2) &&
		inRange(s.Cost2, t.Cost2)
}

func inRange(r Range, v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Trial is one observed delayed-reward choice at the API boundary:
// the four stimulus attributes and the choice code, 0 for the first
// option and 1 for the second.
type Trial struct {
	Amount1 float64 `json:"amount_1"`
	Cost1   float64 `json:"cost_1"`
	Amount2 float64 `json:"amount_2"`
	Cost2   float64 `json:"cost_2"`
	Choice  int     `json:"choice"`
}

// Observation converts the trial into a fitting record.
func (t Trial) Observation() fitting.Observation {
	return fitting.Observation{
		Options: []valuation.Stimulus{
			{Amount: t.Amount1, Cost: t.Cost1},
			{Amount: t.Amount2, Cost: t.Cost2},
		},
		Chosen: t.Choice,
	}
}

// BurninTrials returns the six seed trials every subject answers
// before the adaptive loop takes over.
func BurninTrials() []Trial {
	return []Trial{
		{Amount1: 5, Cost1: 2, Amount2: 12, Cost2: 25, Choice: 1},
		{Amount1: 1, Cost1: 1, Amount2: 15, Cost2: 55, Choice: 0},
		{Amount1: 7, Cost1: 10, Amount2: 100, Cost2: 40, Choice: 1},
		{Amount1: 10, Cost1: 2, Amount2: 20, Cost2: 65, Choice: 0},
		{Amount1: 5, Cost1: 5, Amount2: 20, Cost2: 15, Choice: 1},
		{Amount1: 10, Cost1: 10, Amount2: 39, Cost2: 72, Choice: 0},
	}
}
