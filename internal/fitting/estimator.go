// Package fitting estimates discounting-model parameters from choice
// histories by maximum likelihood.
package fitting

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Options configures a fit.
type Options struct {
	// InitialGuess is the log-domain starting point, one entry per
	// free parameter. If nil, every parameter starts at 1 (zero in
	// log-domain).
	InitialGuess []float64

	// MaxIterations caps the optimizer's major iterations. Zero means
	// no cap.
	MaxIterations int
}

// FitResult is the outcome of one maximum-likelihood fit. Estimates
// are on the natural scale; standard errors and the entropy
// determinant are on the log-transformed scale the optimizer worked
// on. When covariance extraction fails, StdErrs and Entropy are NaN
// and Success is false, but the best point found is still reported.
type FitResult struct {
	Names     []string
	Estimates []float64
	StdErrs   []float64
	NLL       float64
	AIC       float64
	Entropy   float64
	Success   bool
}

// Fit minimizes the dataset's negative log-likelihood over the
// binder's free parameters. It returns an error only for malformed
// input; optimizer and covariance failures degrade to Success=false
// so an automated experiment loop keeps running.
//
// Each call is self-contained: no state survives between fits.
func Fit(data Dataset, binder Binder, opts Options) (FitResult, error) {
	surface, err := NewSurface(data, binder)
	if err != nil {
		return FitResult{}, err
	}

	dim := surface.Dim()
	x0 := opts.InitialGuess
	if x0 == nil {
		x0 = make([]float64, dim)
	}
	if len(x0) != dim {
		return FitResult{}, NewErrorf("initial guess has %d entries, model has %d free parameters", len(x0), dim).
			WithOperation("fit").
			WithComponent("fitting")
	}

	x, fval, converged := minimize(surface, x0, opts.MaxIterations)

	estimates := make([]float64, dim)
	for i, v := range x {
		estimates[i] = math.Exp(v)
	}

	res := FitResult{
		Names:     binder.Names(),
		Estimates: estimates,
		NLL:       fval,
		AIC:       2*float64(dim) + 2*fval,
	}

	stderrs, entropy, ok := covariance(surface, x)
	if ok {
		res.StdErrs = stderrs
		res.Entropy = entropy
		res.Success = converged
	} else {
		res.StdErrs = nanVector(dim)
		res.Entropy = math.NaN()
		res.Success = false
	}
	return res, nil
}

// minimize runs a derivative-free Nelder-Mead search from x0 and
// returns the best point found, its objective value, and whether the
// optimizer converged. Hitting the iteration cap counts as
// non-convergence. An optimizer failure is not an error here; the
// caller reports it through the Success flag.
func minimize(surface *Surface, x0 []float64, maxIter int) (x []float64, fval float64, converged bool) {
	x = append([]float64(nil), x0...)
	fval = surface.NLL(x)

	problem := optimize.Problem{Func: surface.NLL}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 100,
		},
	}
	if maxIter > 0 {
		settings.MajorIterations = maxIter
	}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if result != nil && result.F <= fval {
		x = append(x[:0], result.X...)
		fval = result.F
	}
	converged = err == nil && result != nil && result.Status != optimize.IterationLimit
	return x, fval, converged
}

// covariance estimates the parameter covariance at the optimum as the
// inverse of a finite-difference Hessian. It returns the standard
// errors (sqrt of the diagonal) and the determinant of the covariance
// matrix. The not-ok branch is explicit: a Hessian that cannot be
// inverted (degenerate data, flat surface) yields ok=false rather
// than a panic or a caught exception.
func covariance(surface *Surface, x []float64) (stderrs []float64, det float64, ok bool) {
	dim := len(x)

	hess := mat.NewSymDense(dim, nil)
	fd.Hessian(hess, surface.NLL, x, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			if math.IsNaN(hess.At(i, j)) || math.IsInf(hess.At(i, j), 0) {
				return nil, math.NaN(), false
			}
		}
	}

	var chol mat.Cholesky
	if chol.Factorize(hess) {
		var inv mat.SymDense
		if err := chol.InverseTo(&inv); err == nil {
			return diagSqrt(&inv), 1 / chol.Det(), true
		}
	}

	// Not positive definite; fall back to a dense inverse.
	var inv mat.Dense
	if err := inv.Inverse(hess); err != nil {
		return nil, math.NaN(), false
	}
	return diagSqrt(&inv), mat.Det(&inv), true
}

func diagSqrt(m mat.Matrix) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = math.Sqrt(m.At(i, i))
	}
	return out
}

func nanVector(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// HyperbolicFit is the boundary record consumed by the adaptive
// trial-selection process. All eight fields are always present on the
// wire; NaN values render as null.
type HyperbolicFit struct {
	K       float64 `json:"k"`
	Beta    float64 `json:"beta"`
	KSE     float64 `json:"k_se"`
	BetaSE  float64 `json:"beta_se"`
	NLL     float64 `json:"negative_log_likelihood"`
	AIC     float64 `json:"AIC"`
	Entropy float64 `json:"entropy"`
	Success bool    `json:"success"`
}

// FitHyperbolic fits the two-parameter hyperbolic discounting model
// (k, beta) to a pairwise choice dataset, starting from k=0.01 and
// beta=1 unless the options say otherwise.
func FitHyperbolic(data Dataset, opts Options) (HyperbolicFit, error) {
	if opts.InitialGuess == nil {
		opts.InitialGuess = []float64{math.Log(0.01), math.Log(1.0)}
	}

	res, err := Fit(data, HyperbolicBinder{}, opts)
	if err != nil {
		return HyperbolicFit{}, err
	}

	return HyperbolicFit{
		K:       res.Estimates[0],
		Beta:    res.Estimates[1],
		KSE:     res.StdErrs[0],
		BetaSE:  res.StdErrs[1],
		NLL:     res.NLL,
		AIC:     res.AIC,
		Entropy: res.Entropy,
		Success: res.Success,
	}, nil
}

// MarshalJSON keeps every field present even when a value is NaN,
// which encoding/json would otherwise refuse to emit. NaN and Inf
// become null.
func (f HyperbolicFit) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"k":                       jsonNumber(f.K),
		"beta":                    jsonNumber(f.Beta),
		"k_se":                    jsonNumber(f.KSE),
		"beta_se":                 jsonNumber(f.BetaSE),
		"negative_log_likelihood": jsonNumber(f.NLL),
		"AIC":                     jsonNumber(f.AIC),
		"entropy":                 jsonNumber(f.Entropy),
		"success":                 f.Success,
	})
}

// UnmarshalJSON accepts null for any numeric field and stores NaN.
func (f *HyperbolicFit) UnmarshalJSON(data []byte) error {
	var raw struct {
		K       *float64 `json:"k"`
		Beta    *float64 `json:"beta"`
		KSE     *float64 `json:"k_se"`
		BetaSE  *float64 `json:"beta_se"`
		NLL     *float64 `json:"negative_log_likelihood"`
		AIC     *float64 `json:"AIC"`
		Entropy *float64 `json:"entropy"`
		Success bool     `json:"success"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding fit result: %w", err)
	}

	f.K = deref(raw.K)
	f.Beta = deref(raw.Beta)
	f.KSE = deref(raw.KSE)
	f.BetaSE = deref(raw.BetaSE)
	f.NLL = deref(raw.NLL)
	f.AIC = deref(raw.AIC)
	f.Entropy = deref(raw.Entropy)
	f.Success = raw.Success
	return nil
}

func jsonNumber(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
