package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdilens-org/wdilens/dataset"
)

func expSeries() dataset.Series {
	// y = 50·exp(0.08·t): steady growth over 20 years.
	s := dataset.Series{Country: "Testland", Indicator: "gdp"}
	for i := 0; i < 20; i++ {
		s.Years = append(s.Years, 1995+i)
		s.Values = append(s.Values, 50*math.Exp(0.08*float64(i)))
	}
	return s
}

func logisticSeries() dataset.Series {
	// y = 100 / (1 + exp(−0.5·(t−10))): saturating adoption curve.
	s := dataset.Series{Country: "Testland", Indicator: "urban"}
	for i := 0; i < 20; i++ {
		s.Years = append(s.Years, 1990+i)
		s.Values = append(s.Values, 100/(1+math.Exp(-0.5*(float64(i)-10))))
	}
	return s
}

func TestExpGrowth(t *testing.T) {
	m, err := ExpGrowth(expSeries())
	require.NoError(t, err)

	assert.Equal(t, KindExpGrowth, m.Kind)
	require.Len(t, m.Params, 2)
	assert.InDelta(t, 50, m.Params[0], 0.5)
	assert.InDelta(t, 0.08, m.Params[1], 0.005)
	assert.Greater(t, m.R2, 0.999)

	// Forward evaluation keeps growing.
	assert.Greater(t, m.Eval(2020), m.Eval(2014))
}

func TestLogistic(t *testing.T) {
	m, err := Logistic(logisticSeries())
	require.NoError(t, err)

	assert.Equal(t, KindLogistic, m.Kind)
	require.Len(t, m.Params, 3)
	assert.InDelta(t, 100, m.Params[0], 10)  // ceiling
	assert.InDelta(t, 0.5, m.Params[1], 0.1) // rate
	assert.InDelta(t, 10, m.Params[2], 1)    // midpoint (t-space)
	assert.Greater(t, m.R2, 0.99)

	// The curve saturates: far-future values approach the ceiling.
	assert.InDelta(t, m.Params[0], m.Eval(2100), 1)
}

func TestCurveProjectionBands(t *testing.T) {
	// Mild noise so the covariance is non-degenerate.
	s := expSeries()
	noise := []float64{0.2, -0.3, 0.1, 0.4, -0.2, 0.3, -0.1, 0.2, -0.4, 0.1,
		0.3, -0.2, 0.1, -0.3, 0.2, 0.4, -0.1, 0.3, -0.2, 0.1}
	for i := range s.Values {
		s.Values[i] += noise[i]
	}

	m, err := ExpGrowth(s)
	require.NoError(t, err)

	proj, err := m.Project(2015, 2030, 0.95)
	require.NoError(t, err)

	for i := range proj.Years {
		assert.Less(t, proj.Lower[i], proj.Values[i])
		assert.Greater(t, proj.Upper[i], proj.Values[i])
	}

	// Uncertainty compounds with the horizon for a growth curve.
	firstWidth := proj.Upper[0] - proj.Lower[0]
	lastWidth := proj.Upper[len(proj.Upper)-1] - proj.Lower[len(proj.Lower)-1]
	assert.Greater(t, lastWidth, firstWidth)
}

func TestCurveTooFewPoints(t *testing.T) {
	s := dataset.Series{
		Years:  []int{1990, 1991, 1992},
		Values: []float64{1, 2, 4},
	}
	_, err := ExpGrowth(s)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = Logistic(s)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestForKind(t *testing.T) {
	s := expSeries()

	for _, kind := range []Kind{KindLinear, KindPolynomial, KindExpGrowth, KindLogistic} {
		m, err := ForKind(kind, s)
		require.NoError(t, err, "kind=%s", kind)
		assert.Equal(t, kind, m.Kind)
	}

	_, err := ForKind(Kind("arima"), s)
	assert.Error(t, err)
}
