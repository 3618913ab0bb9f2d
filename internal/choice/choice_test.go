package choice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairwiseProbsSumToOne(t *testing.T) {
	tests := []struct {
		name   string
		v1, v2 float64
		beta   float64
	}{
		{"symmetric", 1.0, 1.0, 2.0},
		{"first larger", 10.0, 2.0, 0.5},
		{"second larger", -3.0, 7.0, 1.5},
		{"extreme spread", 1000.0, -1000.0, 5.0},
		{"tiny beta", 4.0, 5.0, 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Pairwise(tt.v1, tt.v2, tt.beta)
			require.Len(t, d.Probs, 2)
			assert.InDelta(t, 1.0, d.Probs[0]+d.Probs[1], 1e-9)
		})
	}
}

func TestPairwiseTieGoesToFirstOption(t *testing.T) {
	d := Pairwise(3.0, 3.0, 2.0)
	assert.InDelta(t, 0.5, d.Probs[0], 1e-12)
	assert.Equal(t, 0, d.Chosen)
}

func TestPairwiseMonotoneInFirstValue(t *testing.T) {
	const v2, beta = 5.0, 1.5
	prev := -1.0
	for v1 := -10.0; v1 <= 10.0; v1 += 0.25 {
		p1 := PairwiseProb(v1, v2, beta)
		assert.GreaterOrEqual(t, p1, prev, "v1=%v", v1)
		prev = p1
	}
}

func TestPairwiseSaturation(t *testing.T) {
	// Huge value differences must saturate to 0/1, not overflow to NaN.
	d := Pairwise(1e6, -1e6, 10.0)
	assert.Equal(t, 1.0, d.Probs[0])
	assert.Equal(t, 0, d.Chosen)

	d = Pairwise(-1e6, 1e6, 10.0)
	assert.Equal(t, 0.0, d.Probs[0])
	assert.Equal(t, 1, d.Chosen)
}

func TestSoftmaxProbsSumToOne(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		beta   float64
	}{
		{"two options", []float64{1.0, 2.0}, 1.0},
		{"five options", []float64{-2.0, 0.0, 1.0, 1.0, 4.0}, 0.7},
		{"single option", []float64{3.0}, 2.0},
		{"large magnitudes", []float64{900.0, 905.0, 910.0}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Softmax(tt.values, tt.beta)
			require.Len(t, d.Probs, len(tt.values))
			sum := 0.0
			for _, p := range d.Probs {
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestSoftmaxChosenIsArgmax(t *testing.T) {
	d := Softmax([]float64{0.5, 3.0, 1.0, 2.9}, 2.0)
	assert.Equal(t, 1, d.Chosen)
	for i, p := range d.Probs {
		if i != d.Chosen {
			assert.Less(t, p, d.Probs[d.Chosen])
		}
	}
}

func TestSoftmaxTiesBreakToLowestIndex(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   int
	}{
		{"all identical", []float64{2.0, 2.0, 2.0, 2.0}, 0},
		{"single value", []float64{7.0}, 0},
		{"tie not at front", []float64{1.0, 5.0, 5.0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Softmax(tt.values, 1.3)
			assert.Equal(t, tt.want, d.Chosen)
		})
	}
}

func TestSoftmaxMatchesPairwiseForTwoOptions(t *testing.T) {
	// With two options the softmax reduces to the logistic rule.
	const v1, v2, beta = 2.5, 1.0, 1.7
	d := Softmax([]float64{v1, v2}, beta)
	assert.InDelta(t, PairwiseProb(v1, v2, beta), d.Probs[0], 1e-12)
}

func TestSoftmaxEmptyPanics(t *testing.T) {
	assert.Panics(t, func() { Softmax(nil, 1.0) })
}

func TestPairwiseBatchMatchesScalar(t *testing.T) {
	v1s := []float64{1.0, 2.0, -3.0, 0.0}
	v2s := []float64{1.0, 1.5, 4.0, 0.0}
	const beta = 2.0

	got := PairwiseBatch(v1s, v2s, beta)
	require.Len(t, got, len(v1s))
	for i := range v1s {
		want := Pairwise(v1s[i], v2s[i], beta)
		assert.Equal(t, want.Probs, got[i].Probs, "index %d", i)
		assert.Equal(t, want.Chosen, got[i].Chosen, "index %d", i)
	}
}

func TestPairwiseBatchLengthMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { PairwiseBatch([]float64{1}, []float64{1, 2}, 1.0) })
}

func TestSoftmaxBatchMatchesScalar(t *testing.T) {
	rows := [][]float64{
		{1.0, 2.0, 3.0},
		{5.0, 5.0},
		{-1.0, 0.0, 1.0, 2.0},
	}
	const beta = 0.9

	got := SoftmaxBatch(rows, beta)
	require.Len(t, got, len(rows))
	for i, row := range rows {
		want := Softmax(row, beta)
		assert.Equal(t, want.Probs, got[i].Probs, "row %d", i)
		assert.Equal(t, want.Chosen, got[i].Chosen, "row %d", i)
	}
}

func TestPairwiseBetaLimits(t *testing.T) {
	// Beta near zero is indifference; huge beta is a step function.
	assert.InDelta(t, 0.5, PairwiseProb(9.0, 1.0, 1e-12), 1e-9)
	assert.InDelta(t, 1.0, PairwiseProb(9.0, 1.0, 1e6), 1e-9)
	assert.False(t, math.IsNaN(PairwiseProb(9.0, 1.0, math.MaxFloat64/1e10)))
}
