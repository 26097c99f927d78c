package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/wdilens-org/wdilens/dataset"
)

// ============================================================================
// ORDINARY LEAST SQUARES — Linear and Polynomial Trends
// ============================================================================
// Solved via QR on the (Vandermonde) design matrix. Parameter
// covariance is the exact OLS expression (XᵀX)⁻¹·σ².
// ============================================================================

// Linear fits y = c0 + c1·t to a country series.
func Linear(s dataset.Series) (*Model, error) {
	return Polynomial(s, 1)
}

// Polynomial fits y = c0 + c1·t + … + c_d·t^d to a country series.
func Polynomial(s dataset.Series, degree int) (*Model, error) {
	if degree < 1 {
		return nil, fmt.Errorf("fit: polynomial degree must be ≥ 1, got %d", degree)
	}
	p := degree + 1
	n := s.Len()
	if n < p+2 {
		return nil, fmt.Errorf("%w: %d points for %d params", ErrTooFewPoints, n, p)
	}

	t0 := float64(s.Years[0])
	years := make([]float64, n)
	for i, y := range s.Years {
		years[i] = float64(y)
	}

	// Vandermonde design.
	X := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		t := years[i] - t0
		pow := 1.0
		for j := 0; j < p; j++ {
			X.Set(i, j, pow)
			pow *= t
		}
	}
	y := mat.NewVecDense(n, s.Values)

	// Least-squares solve (QR under the hood).
	var beta mat.VecDense
	if err := beta.SolveVec(X, y); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
	}

	params := make([]float64, p)
	copy(params, beta.RawVector().Data)

	names := make([]string, p)
	names[0] = "intercept"
	if p > 1 {
		names[1] = "slope"
	}
	for j := 2; j < p; j++ {
		names[j] = fmt.Sprintf("c%d", j)
	}

	kind := KindLinear
	if degree > 1 {
		kind = KindPolynomial
	}
	m := &Model{
		Kind:       kind,
		Country:    s.Country,
		Indicator:  s.Indicator,
		Params:     params,
		ParamNames: names,
		T0:         t0,
		fn:         polyEval,
	}
	m.finish(years, s.Values)

	// Cov = (XᵀX)⁻¹ σ².
	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		// An ill-conditioned (but solvable) system still yields a
		// usable covariance; only outright singularity is fatal.
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
	m.cov = cov

	return m, nil
}

// polyEval evaluates a polynomial with coefficients in ascending order.
func polyEval(params []float64, t float64) float64 {
	v, pow := 0.0, 1.0
	for _, c := range params {
		v += c * pow
		pow *= t
	}
	return v
}

// Slope returns the linear trend per year. Only meaningful for
// KindLinear models.
func (m *Model) Slope() float64 {
	if len(m.Params) > 1 {
		return m.Params[1]
	}
	return math.NaN()
}
