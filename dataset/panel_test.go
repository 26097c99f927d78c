package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testObservations() []Observation {
	return []Observation{
		{Country: "Germany", CountryCode: "DEU", Indicator: "co2", IndicatorCode: "EN.ATM.CO2E.PC", Year: 1990, Value: 11.45},
		{Country: "Germany", CountryCode: "DEU", Indicator: "co2", IndicatorCode: "EN.ATM.CO2E.PC", Year: 1991, Value: 11.05},
		{Country: "Germany", CountryCode: "DEU", Indicator: "gdp", IndicatorCode: "NY.GDP.PCAP.CD", Year: 1990, Value: 22219.58},
		{Country: "India", CountryCode: "IND", Indicator: "co2", IndicatorCode: "EN.ATM.CO2E.PC", Year: 1990, Value: 0.71},
		{Country: "India", CountryCode: "IND", Indicator: "gdp", IndicatorCode: "NY.GDP.PCAP.CD", Year: 1990, Value: 367.56},
		{Country: "India", CountryCode: "IND", Indicator: "gdp", IndicatorCode: "NY.GDP.PCAP.CD", Year: 1991, Value: 303.05},
	}
}

func TestPivotShape(t *testing.T) {
	p, err := Pivot(testObservations(), "co2", "gdp")
	require.NoError(t, err)

	// Rows sorted by country then year.
	require.Equal(t, 4, p.Rows())
	assert.Equal(t, "Germany", p.RowCountry(0))
	assert.Equal(t, 1990, p.RowYear(0))
	assert.Equal(t, "Germany", p.RowCountry(1))
	assert.Equal(t, 1991, p.RowYear(1))
	assert.Equal(t, "India", p.RowCountry(2))

	// Column order is the requested order.
	assert.Equal(t, []string{"co2", "gdp"}, p.Indicators())

	// Missing cells are NaN, not zero.
	v, err := p.Value(1, "gdp") // Germany 1991 has no gdp
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))

	v, err = p.Value(0, "co2")
	require.NoError(t, err)
	assert.InDelta(t, 11.45, v, 1e-9)

	minY, maxY := p.YearRange()
	assert.Equal(t, 1990, minY)
	assert.Equal(t, 1991, maxY)
}

func TestPivotUnknownIndicator(t *testing.T) {
	p, err := Pivot(testObservations())
	require.NoError(t, err)

	_, err = p.Column("life_expectancy")
	assert.ErrorIs(t, err, ErrUnknownIndicator)

	_, err = p.Series("Germany", "life_expectancy")
	assert.ErrorIs(t, err, ErrUnknownIndicator)
}

func TestPivotEmpty(t *testing.T) {
	_, err := Pivot(nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	// Observations exist but none match the requested indicator.
	_, err = Pivot(testObservations(), "life_expectancy")
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestSeries(t *testing.T) {
	p, err := Pivot(testObservations())
	require.NoError(t, err)

	s, err := p.Series("India", "gdp")
	require.NoError(t, err)
	assert.Equal(t, []int{1990, 1991}, s.Years)
	assert.Equal(t, []float64{367.56, 303.05}, s.Values)

	// Germany has gdp only in 1990 — the 1991 gap is absent, not zero.
	s, err = p.Series("Germany", "gdp")
	require.NoError(t, err)
	assert.Equal(t, []int{1990}, s.Years)
}

func TestMeltRoundTrip(t *testing.T) {
	obs := testObservations()
	p, err := Pivot(obs, "co2", "gdp")
	require.NoError(t, err)

	melted := p.Melt()
	assert.ElementsMatch(t, obs, melted)
}

func TestDropIncomplete(t *testing.T) {
	p, err := Pivot(testObservations(), "co2", "gdp")
	require.NoError(t, err)

	complete := p.DropIncomplete()
	// Germany 1991 (no gdp) and India 1991 (no co2) drop out.
	require.Equal(t, 2, complete.Rows())
	assert.Equal(t, "Germany", complete.RowCountry(0))
	assert.Equal(t, "India", complete.RowCountry(1))

	// Restricting to one indicator keeps rows complete for it.
	gdpOnly := p.DropIncomplete("gdp")
	assert.Equal(t, 3, gdpOnly.Rows())

	// The source panel is untouched.
	assert.Equal(t, 4, p.Rows())
}
