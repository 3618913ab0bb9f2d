// Package choice converts subjective values into choice probabilities
// and predicted outcomes.
package choice

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Decision is the outcome of applying a choice rule: the probability
// assigned to every presented option and the index of the predicted
// choice.
type Decision struct {
	Probs  []float64
	Chosen int
}

// PairwiseProb returns the probability of choosing the first of two
// options under a logistic rule with choice consistency beta:
//
//	p1 = 1 / (1 + exp(-beta*(v1 - v2)))
//
// The exponential saturates naturally for extreme arguments, so p1 is
// well defined over the full double range.
func PairwiseProb(v1, v2, beta float64) float64 {
	return 1 / (1 + math.Exp(-beta*(v1-v2)))
}

// Pairwise applies the two-alternative logistic rule. The predicted
// choice is option 0 when p1 >= 0.5; exact ties go to option 0.
func Pairwise(v1, v2, beta float64) Decision {
	p1 := PairwiseProb(v1, v2, beta)
	chosen := 0
	if p1 < 0.5 {
		chosen = 1
	}
	return Decision{Probs: []float64{p1, 1 - p1}, Chosen: chosen}
}

// Softmax applies the multi-alternative rule: w_i proportional to
// exp(beta*v_i), normalized to sum to one. The predicted choice is
// determined by a single argmax pass, so exactly one outcome is
// selected even when several probabilities are bit-identical; ties go
// to the lowest index. Panics on an empty value slice.
func Softmax(values []float64, beta float64) Decision {
	if len(values) == 0 {
		panic("choice: Softmax requires at least one value")
	}

	// Shift by the max before exponentiating; the ratios are unchanged
	// and the largest argument to Exp is 0.
	probs := make([]float64, len(values))
	for i, v := range values {
		probs[i] = beta * v
	}
	shift := probs[floats.MaxIdx(probs)]
	for i := range probs {
		probs[i] = math.Exp(probs[i] - shift)
	}
	total := floats.Sum(probs)
	for i := range probs {
		probs[i] /= total
	}

	return Decision{Probs: probs, Chosen: floats.MaxIdx(probs)}
}

// PairwiseBatch evaluates the pairwise rule element-wise over two
// equal-length columns of subjective values. It maps the scalar rule,
// so the two paths cannot diverge numerically. Panics if the columns
// differ in length.
func PairwiseBatch(v1s, v2s []float64, beta float64) []Decision {
	if len(v1s) != len(v2s) {
		panic("choice: PairwiseBatch requires equal-length columns")
	}
	out := make([]Decision, len(v1s))
	for i := range v1s {
		out[i] = Pairwise(v1s[i], v2s[i], beta)
	}
	return out
}

// SoftmaxBatch evaluates the softmax rule over each row of values.
func SoftmaxBatch(rows [][]float64, beta float64) []Decision {
	out := make([]Decision, len(rows))
	for i, row := range rows {
		out[i] = Softmax(row, beta)
	}
	return out
}
