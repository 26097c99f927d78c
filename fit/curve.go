package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/wdilens-org/wdilens/dataset"
)

// ============================================================================
// NONLINEAR CURVES — Exponential Growth and Logistic
// ============================================================================
// Nonlinear least squares: BFGS on the sum of squared residuals with
// finite-difference gradients (gonum/optimize). Parameter covariance
// comes from the numeric residual Jacobian at the optimum:
//   Cov = (JᵀJ)⁻¹·σ²
// which is what feeds the confidence bands in model.go.
// ============================================================================

// ExpGrowth fits y = a·exp(b·t) with t = year − first year.
func ExpGrowth(s dataset.Series) (*Model, error) {
	x0, err := expStart(s)
	if err != nil {
		return nil, err
	}
	return fitCurve(s, KindExpGrowth, expEval, x0, []string{"scale", "growth_rate"})
}

// Logistic fits y = L / (1 + exp(−k·(t − tm))) with t = year − first year.
func Logistic(s dataset.Series) (*Model, error) {
	x0, err := logisticStart(s)
	if err != nil {
		return nil, err
	}
	return fitCurve(s, KindLogistic, logisticEval, x0, []string{"limit", "rate", "midpoint"})
}

// ForKind dispatches a fit by model family name.
func ForKind(kind Kind, s dataset.Series) (*Model, error) {
	switch kind {
	case KindLinear:
		return Linear(s)
	case KindPolynomial:
		return Polynomial(s, 2)
	case KindExpGrowth:
		return ExpGrowth(s)
	case KindLogistic:
		return Logistic(s)
	default:
		return nil, fmt.Errorf("fit: unknown model kind %q", kind)
	}
}

// ============================================================================
// CURVE DEFINITIONS
// ============================================================================

func expEval(params []float64, t float64) float64 {
	return params[0] * math.Exp(params[1]*t)
}

func logisticEval(params []float64, t float64) float64 {
	return params[0] / (1 + math.Exp(-params[1]*(t-params[2])))
}

// ============================================================================
// STARTING POINTS
// ============================================================================
// Nonlinear fits live or die on initialization; both are data-driven.

func expStart(s dataset.Series) ([]float64, error) {
	if err := checkLen(s, 2); err != nil {
		return nil, err
	}

	first, last := s.Values[0], s.Values[len(s.Values)-1]
	span := float64(s.Years[len(s.Years)-1] - s.Years[0])

	a := first
	if a <= 0 {
		a = math.Max(mean(s.Values), 1e-6)
	}
	b := 0.01
	if first > 0 && last > 0 && span > 0 {
		b = math.Log(last/first) / span
	}
	return []float64{a, b}, nil
}

func logisticStart(s dataset.Series) ([]float64, error) {
	if err := checkLen(s, 3); err != nil {
		return nil, err
	}

	limit := 1.05 * maxVal(s.Values)
	if limit <= 0 {
		limit = 1
	}

	// Midpoint guess: the year the series crosses half the ceiling.
	tm := float64(s.Years[len(s.Years)/2] - s.Years[0])
	for i, v := range s.Values {
		if v >= limit/2 {
			tm = float64(s.Years[i] - s.Years[0])
			break
		}
	}
	return []float64{limit, 0.3, tm}, nil
}

func checkLen(s dataset.Series, nparams int) error {
	if s.Len() < nparams+2 {
		return fmt.Errorf("%w: %d points for %d params", ErrTooFewPoints, s.Len(), nparams)
	}
	return nil
}

// ============================================================================
// SHARED NLS DRIVER
// ============================================================================

func fitCurve(s dataset.Series, kind Kind, fn func([]float64, float64) float64, x0 []float64, names []string) (*Model, error) {
	n := s.Len()
	t0 := float64(s.Years[0])
	ts := make([]float64, n)
	years := make([]float64, n)
	for i, y := range s.Years {
		years[i] = float64(y)
		ts[i] = float64(y) - t0
	}

	sse := func(params []float64) float64 {
		var sum float64
		for i := 0; i < n; i++ {
			r := s.Values[i] - fn(params, ts[i])
			sum += r * r
		}
		return sum
	}

	problem := optimize.Problem{Func: sse}
	result, err := optimize.Minimize(problem, x0, nil, &optimize.BFGS{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoConverge, err)
	}
	for _, v := range result.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNoConverge
		}
	}

	m := &Model{
		Kind:       kind,
		Country:    s.Country,
		Indicator:  s.Indicator,
		Params:     result.X,
		ParamNames: names,
		T0:         t0,
		fn:         fn,
	}
	m.finish(years, s.Values)

	cov, err := jacobianCovariance(m, ts, len(result.X))
	if err != nil {
		return nil, err
	}
	m.cov = cov

	return m, nil
}

// jacobianCovariance estimates parameter covariance from the numeric
// residual Jacobian at the optimum.
func jacobianCovariance(m *Model, ts []float64, p int) (*mat.SymDense, error) {
	n := len(ts)

	J := mat.NewDense(n, p, nil)
	fd.Jacobian(J, func(dst, params []float64) {
		for i, t := range ts {
			dst[i] = m.fn(params, t)
		}
	}, m.Params, nil)

	var jtj mat.Dense
	jtj.Mul(J.T(), J)
	var inv mat.Dense
	if err := inv.Inverse(&jtj); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
	}

	cov := mat.NewSymDense(p, nil)
	s2 := m.Sigma * m.Sigma
	for a := 0; a < p; a++ {
		for b := a; b < p; b++ {
			cov.SetSym(a, b, inv.At(a, b)*s2)
		}
	}
	return cov, nil
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func maxVal(vals []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}
