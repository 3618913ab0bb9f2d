package fitting

import "github.com/copyleftdev/VALOR/internal/valuation"

// Observation is one historical trial: the options presented to the
// subject, in presentation order, and the index of the option chosen.
type Observation struct {
	Options []valuation.Stimulus
	Chosen  int
}

// Dataset is the fitting history for one subject. Records are
// immutable once appended; a fit operates on a snapshot.
type Dataset []Observation

// ValidatePairwise checks that the dataset is usable by the pairwise
// likelihood: non-empty, exactly two options per observation, and a
// chosen index of 0 or 1. It is the fail-fast boundary; the numeric
// code beneath it assumes a valid dataset.
func (d Dataset) ValidatePairwise() error {
	if len(d) == 0 {
		return NewError("dataset is empty").
			WithOperation("validate").
			WithComponent("fitting")
	}
	for i, obs := range d {
		if len(obs.Options) != 2 {
			return NewErrorf("observation %d has %d options, pairwise fitting requires 2", i, len(obs.Options)).
				WithOperation("validate").
				WithComponent("fitting")
		}
		if obs.Chosen < 0 || obs.Chosen >= len(obs.Options) {
			return NewErrorf("observation %d chose option %d, must index the presented options", i, obs.Chosen).
				WithOperation("validate").
				WithComponent("fitting")
		}
	}
	return nil
}
