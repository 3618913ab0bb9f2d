package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLossAversion(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		lambda   float64
		expected float64
	}{
		{
			name:     "gain passes through",
			amount:   5.0,
			lambda:   2.25,
			expected: 5.0,
		},
		{
			name:     "zero passes through",
			amount:   0.0,
			lambda:   2.25,
			expected: 0.0,
		},
		{
			name:     "loss is scaled",
			amount:   -4.0,
			lambda:   2.25,
			expected: -9.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewLossAversion(tt.lambda)
			got := m.Value(Stimulus{Amount: tt.amount})
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestRiskAversion(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		rho      float64
		expected float64
	}{
		{
			name:     "linear when rho is 1",
			amount:   7.0,
			rho:      1.0,
			expected: 7.0,
		},
		{
			name:     "concave utility",
			amount:   9.0,
			rho:      0.5,
			expected: 3.0,
		},
		{
			name:     "unit amount is fixed point",
			amount:   1.0,
			rho:      0.33,
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewRiskAversion(tt.rho)
			got := m.Value(Stimulus{Amount: tt.amount})
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestRiskAversionOutOfDomainPropagates(t *testing.T) {
	// Negative amount under a fractional exponent is a caller error;
	// the NaN must pass through unmasked.
	m := NewRiskAversion(0.5)
	got := m.Value(Stimulus{Amount: -4.0})
	assert.True(t, math.IsNaN(got))
}

func TestProspectTheory(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		lambda   float64
		rho      float64
		expected float64
	}{
		{
			name:     "gain uses power utility",
			amount:   4.0,
			lambda:   2.0,
			rho:      0.5,
			expected: 2.0,
		},
		{
			name:     "loss is reflected and scaled",
			amount:   -4.0,
			lambda:   2.0,
			rho:      0.5,
			expected: -4.0, // -2 * (4)^0.5
		},
		{
			name:     "zero amount",
			amount:   0.0,
			lambda:   2.0,
			rho:      0.88,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewProspectTheory(tt.lambda, tt.rho)
			got := m.Value(Stimulus{Amount: tt.amount})
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestHyperbolicDiscount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		cost     float64
		k        float64
		expected float64
	}{
		{
			name:     "no cost returns amount exactly",
			amount:   20.0,
			cost:     0.0,
			k:        0.05,
			expected: 20.0,
		},
		{
			name:     "unit discount",
			amount:   20.0,
			cost:     20.0,
			k:        0.05,
			expected: 10.0,
		},
		{
			name:     "zero k never discounts",
			amount:   20.0,
			cost:     100.0,
			k:        0.0,
			expected: 20.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewHyperbolicDiscount(tt.k)
			got := m.Value(Stimulus{Amount: tt.amount, Cost: tt.cost})
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestSigmoidalDiscountBaseCase(t *testing.T) {
	// Normalization guarantees cost=0 returns the amount exactly.
	for _, k := range []float64{0.5, 1.0, 3.0} {
		for _, p := range []float64{0.5, 2.0, 10.0} {
			m := NewSigmoidalDiscount(k, p)
			got := m.Value(Stimulus{Amount: 12.0, Cost: 0.0})
			assert.InDelta(t, 12.0, got, 1e-9, "k=%v p=%v", k, p)
		}
	}
}

func TestSigmoidalDiscountMonotoneInCost(t *testing.T) {
	m := NewSigmoidalDiscount(1.0, 3.0)
	prev := math.Inf(1)
	for cost := 0.0; cost <= 10.0; cost += 0.5 {
		got := m.Value(Stimulus{Amount: 10.0, Cost: cost})
		assert.LessOrEqual(t, got, prev, "cost=%v", cost)
		prev = got
	}
}

func TestPowerDiscount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		cost     float64
		k, p     float64
		expected float64
	}{
		{
			name:     "no cost returns amount exactly",
			amount:   15.0,
			cost:     0.0,
			k:        0.8,
			p:        2.0,
			expected: 15.0,
		},
		{
			name:     "quadratic cost",
			amount:   15.0,
			cost:     3.0,
			k:        0.5,
			p:        2.0,
			expected: 10.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPowerDiscount(tt.k, tt.p)
			got := m.Value(Stimulus{Amount: tt.amount, Cost: tt.cost})
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestProbabilityDiscount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		prob     float64
		k, s     float64
		expected float64
	}{
		{
			name:     "certain outcome is undiscounted",
			amount:   10.0,
			prob:     1.0,
			k:        1.0,
			s:        1.0,
			expected: 10.0,
		},
		{
			name:     "even odds with unit k halves value",
			amount:   10.0,
			prob:     0.5,
			k:        1.0,
			s:        1.0,
			expected: 5.0,
		},
		{
			name:     "sensitivity compounds the odds term",
			amount:   10.0,
			prob:     0.5,
			k:        1.0,
			s:        2.0,
			expected: 2.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewProbabilityDiscount(tt.k, tt.s)
			got := m.Value(Stimulus{Amount: tt.amount, Probability: tt.prob})
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestNewByKind(t *testing.T) {
	tests := []struct {
		kind   Kind
		params []float64
	}{
		{KindLossAversion, []float64{2.0}},
		{KindRiskAversion, []float64{0.8}},
		{KindProspectTheory, []float64{2.0, 0.8}},
		{KindHyperbolic, []float64{0.05}},
		{KindSigmoidalEffort, []float64{1.0, 3.0}},
		{KindPowerDiscount, []float64{0.5, 2.0}},
		{KindProbabilityDiscount, []float64{1.0, 1.0}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			m, err := New(tt.kind, tt.params)
			require.NoError(t, err)
			require.NotNil(t, m)
			assert.Equal(t, tt.params, m.Params())
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, err := New(Kind("bogus"), nil)
		assert.Error(t, err)
	})

	t.Run("wrong parameter count", func(t *testing.T) {
		_, err := New(KindHyperbolic, []float64{0.05, 1.0})
		assert.Error(t, err)
	})
}

func TestBatchMatchesScalar(t *testing.T) {
	m := NewHyperbolicDiscount(0.07)
	stimuli := []Stimulus{
		{Amount: 5, Cost: 2},
		{Amount: 12, Cost: 25},
		{Amount: 100, Cost: 40},
		{Amount: 0, Cost: 9},
	}

	got := Batch(m, stimuli)
	require.Len(t, got, len(stimuli))
	for i, s := range stimuli {
		assert.Equal(t, m.Value(s), got[i], "index %d", i)
	}
}
