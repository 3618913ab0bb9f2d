package fitting

import (
	"math"

	"github.com/copyleftdev/VALOR/internal/choice"
	"github.com/copyleftdev/VALOR/internal/valuation"
)

// Predicted probabilities are clipped into [probFloor, 1-probFloor]
// before taking logs, so a confidently wrong trial costs a large but
// finite likelihood penalty instead of -Inf.
const probFloor = 1e-10

// Binder maps a natural-scale free-parameter vector to a valuation
// model and a choice-consistency value. Every free parameter is
// strictly positive; the estimator optimizes their logs and
// exponentiates before calling Bind.
type Binder interface {
	// Names returns the free-parameter names, in vector order.
	Names() []string

	// Bind builds the model for theta. The last convention-free slot
	// is the choice consistency beta.
	Bind(theta []float64) (valuation.Model, float64)
}

// HyperbolicBinder fits hyperbolic temporal discounting with free
// parameters (k, beta). This is the default delayed-reward model.
type HyperbolicBinder struct{}

// Names returns the free-parameter names, in vector order.
func (HyperbolicBinder) Names() []string { return []string{"k", "beta"} }

// Bind builds a hyperbolic model from theta = (k, beta).
func (HyperbolicBinder) Bind(theta []float64) (valuation.Model, float64) {
	return valuation.NewHyperbolicDiscount(theta[0]), theta[1]
}

// PowerBinder fits two-parameter power discounting with free
// parameters (k, p, beta).
type PowerBinder struct{}

// Names returns the free-parameter names, in vector order.
func (PowerBinder) Names() []string { return []string{"k", "p", "beta"} }

// Bind builds a power-discounting model from theta = (k, p, beta).
func (PowerBinder) Bind(theta []float64) (valuation.Model, float64) {
	return valuation.NewPowerDiscount(theta[0], theta[1]), theta[2]
}

// Surface is the negative log-likelihood of a fixed dataset under a
// binder's model family. It is a pure function of the unconstrained
// parameter vector, so the optimizer may evaluate it repeatedly and
// from multiple points; concurrent fits over distinct surfaces share
// nothing.
type Surface struct {
	binder Binder
	first  []valuation.Stimulus
	second []valuation.Stimulus
	chosen []float64
}

// NewSurface validates the dataset and builds the likelihood surface.
// The options are split into columns once so each optimizer iteration
// is a pair of batched model evaluations.
func NewSurface(data Dataset, binder Binder) (*Surface, error) {
	if err := data.ValidatePairwise(); err != nil {
		return nil, err
	}

	s := &Surface{
		binder: binder,
		first:  make([]valuation.Stimulus, len(data)),
		second: make([]valuation.Stimulus, len(data)),
		chosen: make([]float64, len(data)),
	}
	for i, obs := range data {
		s.first[i] = obs.Options[0]
		s.second[i] = obs.Options[1]
		s.chosen[i] = float64(obs.Chosen)
	}
	return s, nil
}

// Dim returns the number of free parameters.
func (s *Surface) Dim() int { return len(s.binder.Names()) }

// NLL computes the negative log-likelihood at the unconstrained
// (log-domain) parameter vector x. The free parameters are
// exponentiated here, which keeps every iterate strictly positive
// without bounded optimization.
//
// For each observation, p is the predicted probability of the
// observed code 1 (the second option): p = sigma(beta*(sv2 - sv1)).
func (s *Surface) NLL(x []float64) float64 {
	theta := make([]float64, len(x))
	for i, v := range x {
		theta[i] = math.Exp(v)
	}
	model, beta := s.binder.Bind(theta)

	sv1 := valuation.Batch(model, s.first)
	sv2 := valuation.Batch(model, s.second)

	nll := 0.0
	for i := range s.chosen {
		p := choice.PairwiseProb(sv2[i], sv1[i], beta)
		p = math.Min(math.Max(p, probFloor), 1-probFloor)
		y := s.chosen[i]
		nll -= y*math.Log(p) + (1-y)*math.Log(1-p)
	}
	return nll
}
