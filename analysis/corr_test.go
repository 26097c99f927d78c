package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdilens-org/wdilens/dataset"
)

func corrPanel(t *testing.T) *dataset.Panel {
	t.Helper()

	// gdp and co2 move together; urban moves against both.
	var obs []dataset.Observation
	gdp := []float64{1000, 2000, 3000, 4000, 5000}
	co2 := []float64{1.0, 2.1, 2.9, 4.2, 5.1}
	urban := []float64{90, 80, 70, 60, 50}
	for i, y := range []int{1990, 1991, 1992, 1993, 1994} {
		obs = append(obs,
			dataset.Observation{Country: "Testland", Indicator: "gdp", Year: y, Value: gdp[i]},
			dataset.Observation{Country: "Testland", Indicator: "co2", Year: y, Value: co2[i]},
			dataset.Observation{Country: "Testland", Indicator: "urban", Year: y, Value: urban[i]},
		)
	}

	p, err := dataset.Pivot(obs, "gdp", "co2", "urban")
	require.NoError(t, err)
	return p
}

func TestCorrelation(t *testing.T) {
	c, err := Correlation(corrPanel(t))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 5, c.N)

	// Diagonal is exactly 1.
	for i := 0; i < c.Len(); i++ {
		assert.InDelta(t, 1.0, c.At(i, i), 1e-9)
	}

	// Symmetry.
	assert.InDelta(t, c.At(0, 1), c.At(1, 0), 1e-12)

	gdpCo2, err := c.Pair("gdp", "co2")
	require.NoError(t, err)
	assert.Greater(t, gdpCo2, 0.99)

	gdpUrban, err := c.Pair("gdp", "urban")
	require.NoError(t, err)
	assert.Less(t, gdpUrban, -0.99)
}

func TestCorrelationStrongest(t *testing.T) {
	c, err := Correlation(corrPanel(t))
	require.NoError(t, err)

	a, b, v := c.Strongest()
	assert.NotEmpty(t, a)
	assert.NotEmpty(t, b)
	assert.NotEqual(t, a, b)
	assert.Greater(t, abs(v), 0.99)
}

func TestCorrelationUnknownPair(t *testing.T) {
	c, err := Correlation(corrPanel(t))
	require.NoError(t, err)

	_, err = c.Pair("gdp", "life_expectancy")
	assert.ErrorIs(t, err, dataset.ErrUnknownIndicator)
}

func TestCorrelationTooFewRows(t *testing.T) {
	obs := []dataset.Observation{
		{Country: "Solo", Indicator: "gdp", Year: 1990, Value: 1},
		{Country: "Solo", Indicator: "co2", Year: 1990, Value: 2},
	}
	p, err := dataset.Pivot(obs, "gdp", "co2")
	require.NoError(t, err)

	_, err = Correlation(p)
	assert.ErrorIs(t, err, ErrTooFewRows)
}
