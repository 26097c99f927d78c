package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================================
// FIT MODELS — Per-Country Trend Curves with Confidence Bands
// ============================================================================
// A Model is any fitted curve value = f(params, year). All fits share:
//   - parameter covariance (exact for OLS, Jacobian-based for curves)
//   - confidence bands by first-order error propagation through the
//     parameter gradient
//   - projections: evaluation + band on future years
//
// Years are conditioned as t = year − T0 before fitting so exponentials
// on 19xx year numbers do not overflow.
// ============================================================================

var (
	// ErrTooFewPoints is returned when a series has fewer points than
	// the model needs (#params + 2).
	ErrTooFewPoints = errors.New("fit: too few points")
	// ErrSingular is returned when the design or Jacobian matrix is
	// rank deficient.
	ErrSingular = errors.New("fit: singular system")
	// ErrNoConverge is returned when the optimizer fails to find a
	// finite minimum.
	ErrNoConverge = errors.New("fit: did not converge")
)

// Kind names a model family.
type Kind string

const (
	KindLinear     Kind = "linear"
	KindPolynomial Kind = "polynomial"
	KindExpGrowth  Kind = "exp_growth"
	KindLogistic   Kind = "logistic"
)

// Model is a fitted curve over one country's indicator series.
type Model struct {
	Kind       Kind      `json:"kind"`
	Country    string    `json:"country"`
	Indicator  string    `json:"indicator"`
	Params     []float64 `json:"params"`
	ParamNames []string  `json:"paramNames"`
	Sigma      float64   `json:"sigma"` // residual standard error
	R2         float64   `json:"r2"`
	N          int       `json:"n"`
	DOF        int       `json:"dof"`
	T0         float64   `json:"t0"` // year offset: t = year − T0

	cov *mat.SymDense
	fn  func(params []float64, t float64) float64
}

// Eval evaluates the fitted curve at a calendar year.
func (m *Model) Eval(year float64) float64 {
	return m.fn(m.Params, year-m.T0)
}

// Stderr returns the standard error of each parameter.
func (m *Model) Stderr() []float64 {
	out := make([]float64, len(m.Params))
	for i := range out {
		out[i] = math.Sqrt(m.cov.At(i, i))
	}
	return out
}

// Cov returns the parameter covariance matrix.
func (m *Model) Cov() *mat.SymDense { return m.cov }

// ============================================================================
// CONFIDENCE BANDS — error propagation from parameter covariance
// ============================================================================

// Band computes the confidence band of the fitted curve at the given
// calendar years. level is the two-sided confidence level, e.g. 0.95.
// The half-width at year t is tcrit·sqrt(gᵀ·Cov·g) with g = ∂f/∂θ.
func (m *Model) Band(years []float64, level float64) (lower, upper []float64) {
	tcrit := m.tCritical(level)

	lower = make([]float64, len(years))
	upper = make([]float64, len(years))
	grad := make([]float64, len(m.Params))

	for i, year := range years {
		t := year - m.T0
		fd.Gradient(grad, func(p []float64) float64 { return m.fn(p, t) }, m.Params, nil)

		// var f ≈ gᵀ Cov g
		var v float64
		for a := range grad {
			for b := range grad {
				v += grad[a] * m.cov.At(a, b) * grad[b]
			}
		}
		if v < 0 {
			v = 0
		}

		half := tcrit * math.Sqrt(v)
		center := m.fn(m.Params, t)
		lower[i] = center - half
		upper[i] = center + half
	}
	return lower, upper
}

func (m *Model) tCritical(level float64) float64 {
	if level <= 0 || level >= 1 {
		level = 0.95
	}
	dof := float64(m.DOF)
	if dof < 1 {
		dof = 1
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}
	return t.Quantile(0.5 + level/2)
}

// ============================================================================
// PROJECTIONS
// ============================================================================

// Projection is the fitted curve evaluated on future years with its
// confidence band.
type Projection struct {
	Country   string    `json:"country"`
	Indicator string    `json:"indicator"`
	Kind      Kind      `json:"kind"`
	Years     []int     `json:"years"`
	Values    []float64 `json:"values"`
	Lower     []float64 `json:"lower"`
	Upper     []float64 `json:"upper"`
	Level     float64   `json:"level"`
}

// Project evaluates the model on fromYear..toYear inclusive with a
// confidence band. The model itself is never mutated.
func (m *Model) Project(fromYear, toYear int, level float64) (*Projection, error) {
	if toYear < fromYear {
		return nil, fmt.Errorf("fit: projection range %d-%d is empty", fromYear, toYear)
	}

	n := toYear - fromYear + 1
	years := make([]int, n)
	fyears := make([]float64, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		years[i] = fromYear + i
		fyears[i] = float64(fromYear + i)
		values[i] = m.Eval(fyears[i])
	}
	lower, upper := m.Band(fyears, level)

	return &Projection{
		Country:   m.Country,
		Indicator: m.Indicator,
		Kind:      m.Kind,
		Years:     years,
		Values:    values,
		Lower:     lower,
		Upper:     upper,
		Level:     level,
	}, nil
}

// ============================================================================
// SHARED FIT STATISTICS
// ============================================================================

// finish fills the goodness-of-fit fields common to every model family.
func (m *Model) finish(years, values []float64) {
	n := len(values)
	p := len(m.Params)
	m.N = n
	m.DOF = n - p

	var rss, tss, mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)
	for i := range values {
		r := values[i] - m.fn(m.Params, years[i]-m.T0)
		rss += r * r
		d := values[i] - mean
		tss += d * d
	}

	if m.DOF > 0 {
		m.Sigma = math.Sqrt(rss / float64(m.DOF))
	}
	if tss > 0 {
		m.R2 = 1 - rss/tss
	}
}
