package dataset

import "errors"

// ============================================================================
// DATASET TYPES — Tidy observations and per-country time series
// ============================================================================
// Observation is the long-form row every loader normalizes to.
// Series is the per-country, per-indicator view the fit package consumes.
// ============================================================================

var (
	// ErrEmptyDataset is returned when parsing yields no observations.
	ErrEmptyDataset = errors.New("dataset: no observations")
	// ErrUnknownIndicator is returned when a panel lookup names an
	// indicator the panel does not carry.
	ErrUnknownIndicator = errors.New("dataset: unknown indicator")
)

// Observation is a single tidy data point: one country, one indicator,
// one year, one value.
type Observation struct {
	Country       string  `json:"country"`
	CountryCode   string  `json:"countryCode,omitempty"`
	Indicator     string  `json:"indicator"`
	IndicatorCode string  `json:"indicatorCode,omitempty"`
	Year          int     `json:"year"`
	Value         float64 `json:"value"`
}

// Series is a single country's time series for one indicator.
// Years are ascending and Values[i] pairs with Years[i]; missing cells
// are simply absent.
type Series struct {
	Country   string    `json:"country"`
	Indicator string    `json:"indicator"`
	Years     []int     `json:"years"`
	Values    []float64 `json:"values"`
}

// Len returns the number of points in the series.
func (s Series) Len() int { return len(s.Years) }

// IsMissing reports whether a raw CSV cell denotes a missing value.
// World Bank exports use ".." and leave cells empty.
func IsMissing(val string) bool {
	switch val {
	case "", "..", "NA", "N/A", "na", "n/a":
		return true
	}
	return false
}
