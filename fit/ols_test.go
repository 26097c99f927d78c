package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdilens-org/wdilens/dataset"
)

func lineSeries(noise []float64) dataset.Series {
	// y = 100 + 5·t with optional per-point noise.
	s := dataset.Series{Country: "Testland", Indicator: "gdp"}
	for i := 0; i < 10; i++ {
		y := 100 + 5*float64(i)
		if noise != nil {
			y += noise[i]
		}
		s.Years = append(s.Years, 1990+i)
		s.Values = append(s.Values, y)
	}
	return s
}

func TestLinearExact(t *testing.T) {
	m, err := Linear(lineSeries(nil))
	require.NoError(t, err)

	assert.Equal(t, KindLinear, m.Kind)
	assert.InDelta(t, 100, m.Params[0], 1e-6)
	assert.InDelta(t, 5, m.Slope(), 1e-6)
	assert.InDelta(t, 1.0, m.R2, 1e-9)
	assert.Equal(t, 10, m.N)
	assert.Equal(t, 8, m.DOF)

	// Eval works in calendar years.
	assert.InDelta(t, 100, m.Eval(1990), 1e-6)
	assert.InDelta(t, 145, m.Eval(1999), 1e-6)
}

func TestLinearNoisy(t *testing.T) {
	noise := []float64{0.3, -0.5, 0.1, 0.4, -0.2, -0.3, 0.5, -0.1, 0.2, -0.4}
	m, err := Linear(lineSeries(noise))
	require.NoError(t, err)

	assert.InDelta(t, 5, m.Slope(), 0.2)
	assert.Greater(t, m.R2, 0.99)
	assert.Greater(t, m.Sigma, 0.0)

	// Both parameters carry positive standard errors.
	for _, se := range m.Stderr() {
		assert.Greater(t, se, 0.0)
	}
}

func TestPolynomial(t *testing.T) {
	// y = 2 + 3·t + 0.5·t²
	s := dataset.Series{Country: "Testland", Indicator: "co2"}
	for i := 0; i < 8; i++ {
		ti := float64(i)
		s.Years = append(s.Years, 2000+i)
		s.Values = append(s.Values, 2+3*ti+0.5*ti*ti)
	}

	m, err := Polynomial(s, 2)
	require.NoError(t, err)

	assert.Equal(t, KindPolynomial, m.Kind)
	require.Len(t, m.Params, 3)
	assert.InDelta(t, 2, m.Params[0], 1e-6)
	assert.InDelta(t, 3, m.Params[1], 1e-6)
	assert.InDelta(t, 0.5, m.Params[2], 1e-6)
}

func TestLinearTooFewPoints(t *testing.T) {
	s := dataset.Series{
		Years:  []int{1990, 1991, 1992},
		Values: []float64{1, 2, 3},
	}
	_, err := Linear(s)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestBandWidensAwayFromData(t *testing.T) {
	noise := []float64{0.3, -0.5, 0.1, 0.4, -0.2, -0.3, 0.5, -0.1, 0.2, -0.4}
	m, err := Linear(lineSeries(noise))
	require.NoError(t, err)

	years := []float64{1994.5, 1999, 2010, 2030}
	lower, upper := m.Band(years, 0.95)

	widths := make([]float64, len(years))
	for i := range years {
		widths[i] = upper[i] - lower[i]
		// The band always contains the fitted curve.
		v := m.Eval(years[i])
		assert.LessOrEqual(t, lower[i], v)
		assert.GreaterOrEqual(t, upper[i], v)
	}

	// Width grows with distance from the data centroid (t̄ ≈ 1994.5).
	assert.Less(t, widths[0], widths[1])
	assert.Less(t, widths[1], widths[2])
	assert.Less(t, widths[2], widths[3])
}

func TestProjection(t *testing.T) {
	noise := []float64{0.3, -0.5, 0.1, 0.4, -0.2, -0.3, 0.5, -0.1, 0.2, -0.4}
	m, err := Linear(lineSeries(noise))
	require.NoError(t, err)

	before := append([]float64(nil), m.Params...)

	proj, err := m.Project(2000, 2005, 0.95)
	require.NoError(t, err)

	assert.Equal(t, []int{2000, 2001, 2002, 2003, 2004, 2005}, proj.Years)
	require.Len(t, proj.Values, 6)
	for i := range proj.Years {
		assert.False(t, math.IsNaN(proj.Values[i]))
		assert.Less(t, proj.Lower[i], proj.Values[i])
		assert.Greater(t, proj.Upper[i], proj.Values[i])
	}

	// Projections never mutate the fitted model.
	assert.Equal(t, before, m.Params)

	_, err = m.Project(2010, 2005, 0.95)
	assert.Error(t, err)
}
