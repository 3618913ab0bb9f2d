package valuation

import (
	"fmt"
	"math"
)

// Stimulus holds the raw attributes of one choice option.
// Amount may be signed (gains vs losses); Cost is a delay/effort
// covariate and Probability an outcome probability, used only by the
// models that declare them.
type Stimulus struct {
	Amount      float64
	Cost        float64
	Probability float64
}

// Model represents a subjective-value transform over a stimulus.
// Implementations are pure and stateless; out-of-domain inputs
// (negative amounts under fractional exponents, zero probabilities)
// produce NaN/Inf that propagate to the caller unmasked.
type Model interface {
	// Value computes the subjective value of the stimulus
	Value(s Stimulus) float64

	// Params returns the current model parameters
	Params() []float64

	// SetParams sets the model's parameters
	SetParams(params []float64) error
}

// Kind identifies a model variant. Callers select a variant per call;
// the package keeps no notion of an "active" model.
type Kind string

const (
	KindLossAversion        Kind = "loss_aversion"
	KindRiskAversion        Kind = "risk_aversion"
	KindProspectTheory      Kind = "prospect_theory"
	KindHyperbolic          Kind = "hyperbolic"
	KindSigmoidalEffort     Kind = "sigmoidal_effort"
	KindPowerDiscount       Kind = "power_discount"
	KindProbabilityDiscount Kind = "probability_discount"
)

// New constructs a model of the given kind from its parameter vector.
// Parameter order matches the Params()/SetParams() convention of each
// variant.
func New(kind Kind, params []float64) (Model, error) {
	var m Model
	switch kind {
	case KindLossAversion:
		m = &LossAversion{}
	case KindRiskAversion:
		m = &RiskAversion{}
	case KindProspectTheory:
		m = &ProspectTheory{}
	case KindHyperbolic:
		m = &HyperbolicDiscount{}
	case KindSigmoidalEffort:
		m = &SigmoidalDiscount{}
	case KindPowerDiscount:
		m = &PowerDiscount{}
	case KindProbabilityDiscount:
		m = &ProbabilityDiscount{}
	default:
		return nil, fmt.Errorf("unknown valuation model kind %q", kind)
	}
	if err := m.SetParams(params); err != nil {
		return nil, err
	}
	return m, nil
}

// LossAversion scales negative amounts by lambda.
// SV = m if m >= 0 else lambda * m.
type LossAversion struct {
	// Loss-aversion coefficient (typically > 1)
	Lambda float64
}

// NewLossAversion creates a loss-aversion model with coefficient lambda.
func NewLossAversion(lambda float64) *LossAversion {
	return &LossAversion{Lambda: lambda}
}

// Value computes the loss-averse subjective value of s.
func (m *LossAversion) Value(s Stimulus) float64 {
	if s.Amount >= 0 {
		return s.Amount
	}
	return m.Lambda * s.Amount
}

// Params returns the current model parameters.
func (m *LossAversion) Params() []float64 { return []float64{m.Lambda} }

// SetParams sets the model's parameters.
func (m *LossAversion) SetParams(params []float64) error {
	if len(params) != 1 {
		return fmt.Errorf("expected 1 parameter, got %d", len(params))
	}
	m.Lambda = params[0]
	return nil
}

// RiskAversion is power utility. SV = m^rho.
type RiskAversion struct {
	// Curvature of the utility function
	Rho float64
}

// NewRiskAversion creates a power-utility model with curvature rho.
func NewRiskAversion(rho float64) *RiskAversion {
	return &RiskAversion{Rho: rho}
}

// Value computes the power-utility subjective value of s. Fractional
// rho with a negative amount yields NaN, as the underlying power does.
func (m *RiskAversion) Value(s Stimulus) float64 {
	return math.Pow(s.Amount, m.Rho)
}

// Params returns the current model parameters.
func (m *RiskAversion) Params() []float64 { return []float64{m.Rho} }

// SetParams sets the model's parameters.
func (m *RiskAversion) SetParams(params []float64) error {
	if len(params) != 1 {
		return fmt.Errorf("expected 1 parameter, got %d", len(params))
	}
	m.Rho = params[0]
	return nil
}

// ProspectTheory combines power utility with loss aversion.
// SV = m^rho if m >= 0 else -lambda * (-m)^rho.
type ProspectTheory struct {
	Lambda float64
	Rho    float64
}

// NewProspectTheory creates a prospect-theory model.
func NewProspectTheory(lambda, rho float64) *ProspectTheory {
	return &ProspectTheory{Lambda: lambda, Rho: rho}
}

// Value computes the prospect-theory subjective value of s.
func (m *ProspectTheory) Value(s Stimulus) float64 {
	if s.Amount >= 0 {
		return math.Pow(s.Amount, m.Rho)
	}
	return -m.Lambda * math.Pow(-s.Amount, m.Rho)
}

// Params returns the current model parameters.
func (m *ProspectTheory) Params() []float64 { return []float64{m.Lambda, m.Rho} }

// SetParams sets the model's parameters.
func (m *ProspectTheory) SetParams(params []float64) error {
	if len(params) != 2 {
		return fmt.Errorf("expected 2 parameters, got %d", len(params))
	}
	m.Lambda, m.Rho = params[0], params[1]
	return nil
}

// HyperbolicDiscount discounts value hyperbolically in cost.
// SV = m / (1 + k*cost).
type HyperbolicDiscount struct {
	// Discount rate
	K float64
}

// NewHyperbolicDiscount creates a hyperbolic discounting model with rate k.
func NewHyperbolicDiscount(k float64) *HyperbolicDiscount {
	return &HyperbolicDiscount{K: k}
}

// Value computes the hyperbolically discounted value of s. At cost 0
// it is exactly the amount.
func (m *HyperbolicDiscount) Value(s Stimulus) float64 {
	return s.Amount / (1 + m.K*s.Cost)
}

// Params returns the current model parameters.
func (m *HyperbolicDiscount) Params() []float64 { return []float64{m.K} }

// SetParams sets the model's parameters.
func (m *HyperbolicDiscount) SetParams(params []float64) error {
	if len(params) != 1 {
		return fmt.Errorf("expected 1 parameter, got %d", len(params))
	}
	m.K = params[0]
	return nil
}

// SigmoidalDiscount discounts value along a sigmoid in cost, with
// slope k and location p. The curve is normalized so that cost 0
// leaves the amount untouched:
//
//	SV = m * (1 - (sig(cost) - sig(0)) * (1 + exp(-k*p)))
//	sig(x) = 1 / (1 + exp(-k*(x - p)))
type SigmoidalDiscount struct {
	K float64
	P float64
}

// NewSigmoidalDiscount creates a sigmoidal effort-discounting model.
func NewSigmoidalDiscount(k, p float64) *SigmoidalDiscount {
	return &SigmoidalDiscount{K: k, P: p}
}

// Value computes the sigmoidally discounted value of s.
func (m *SigmoidalDiscount) Value(s Stimulus) float64 {
	sigCost := 1 / (1 + math.Exp(-m.K*(s.Cost-m.P)))
	sigZero := 1 / (1 + math.Exp(m.K*m.P))
	norm := 1 + math.Exp(-m.K*m.P)
	return s.Amount * (1 - (sigCost-sigZero)*norm)
}

// Params returns the current model parameters.
func (m *SigmoidalDiscount) Params() []float64 { return []float64{m.K, m.P} }

// SetParams sets the model's parameters.
func (m *SigmoidalDiscount) SetParams(params []float64) error {
	if len(params) != 2 {
		return fmt.Errorf("expected 2 parameters, got %d", len(params))
	}
	m.K, m.P = params[0], params[1]
	return nil
}

// PowerDiscount subtracts a power function of cost.
// SV = m - k*cost^p.
type PowerDiscount struct {
	K float64
	P float64
}

// NewPowerDiscount creates a two-parameter power discounting model.
func NewPowerDiscount(k, p float64) *PowerDiscount {
	return &PowerDiscount{K: k, P: p}
}

// Value computes the power-discounted value of s.
func (m *PowerDiscount) Value(s Stimulus) float64 {
	return s.Amount - m.K*math.Pow(s.Cost, m.P)
}

// Params returns the current model parameters.
func (m *PowerDiscount) Params() []float64 { return []float64{m.K, m.P} }

// SetParams sets the model's parameters.
func (m *PowerDiscount) SetParams(params []float64) error {
	if len(params) != 2 {
		return fmt.Errorf("expected 2 parameters, got %d", len(params))
	}
	m.K, m.P = params[0], params[1]
	return nil
}

// ProbabilityDiscount discounts value by the odds against the outcome,
// with scaling k and sensitivity s.
// SV = m / (1 + k*(1-q)/q)^s for outcome probability q.
// q = 0 divides by zero; callers must keep q in (0, 1).
type ProbabilityDiscount struct {
	K float64
	S float64
}

// NewProbabilityDiscount creates a probability discounting model.
func NewProbabilityDiscount(k, s float64) *ProbabilityDiscount {
	return &ProbabilityDiscount{K: k, S: s}
}

// Value computes the probability-discounted value of s.
func (m *ProbabilityDiscount) Value(s Stimulus) float64 {
	odds := (1 - s.Probability) / s.Probability
	return s.Amount / math.Pow(1+m.K*odds, m.S)
}

// Params returns the current model parameters.
func (m *ProbabilityDiscount) Params() []float64 { return []float64{m.K, m.S} }

// SetParams sets the model's parameters.
func (m *ProbabilityDiscount) SetParams(params []float64) error {
	if len(params) != 2 {
		return fmt.Errorf("expected 2 parameters, got %d", len(params))
	}
	m.K, m.S = params[0], params[1]
	return nil
}

// Batch evaluates m element-wise over stimuli. It is the only
// vectorized path: a map over the scalar Value, so both paths cannot
// diverge numerically. Safe for concurrent use as long as m is not
// mutated during the call.
func Batch(m Model, stimuli []Stimulus) []float64 {
	out := make([]float64, len(stimuli))
	for i, s := range stimuli {
		out[i] = m.Value(s)
	}
	return out
}
