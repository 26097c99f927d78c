package schema

// ============================================================================
// SCHEMA — Describes the shape of a WDI-style dataset for the pipeline
// ============================================================================
// Auto-detected from raw CSV bytes (Detect) or built by consumer apps.
// The dataset package uses the Info to parse observations; the CLI uses it
// to report what the file contains before any analysis runs.
// ============================================================================

// Layout identifies how a WDI-style CSV arranges its year axis.
type Layout int

const (
	// LayoutUnknown means detection could not classify the file.
	LayoutUnknown Layout = iota
	// LayoutLong is tidy data: one row per country+indicator+year.
	LayoutLong
	// LayoutWide is the World Bank export format: one row per
	// country+indicator, one column per year.
	LayoutWide
)

func (l Layout) String() string {
	switch l {
	case LayoutLong:
		return "long"
	case LayoutWide:
		return "wide"
	default:
		return "unknown"
	}
}

// Info describes the detected shape of a dataset.
type Info struct {
	Name   string `json:"name"`
	Layout Layout `json:"-"`

	// Column indices into the CSV header row. -1 means absent.
	CountryCol       int `json:"countryCol"`
	CountryCodeCol   int `json:"countryCodeCol"`
	IndicatorCol     int `json:"indicatorCol"`
	IndicatorCodeCol int `json:"indicatorCodeCol"`

	// Long layout only.
	YearCol  int `json:"yearCol"`
	ValueCol int `json:"valueCol"`

	// Wide layout only: column index → calendar year.
	YearCols map[int]int `json:"yearCols,omitempty"`

	// Sampled content metadata.
	Countries  []string `json:"countries"`
	Indicators []string `json:"indicators"`
	YearMin    int      `json:"yearMin"`
	YearMax    int      `json:"yearMax"`

	// Columns excluded during detection.
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`

	DetectedAt string `json:"detectedAt,omitempty"`
}

// SkippedColumn records why a column was excluded during detection.
type SkippedColumn struct {
	Column      string `json:"column"`
	Reason      string `json:"reason"`
	Recoverable bool   `json:"recoverable"`
}

// LayoutName is the JSON-friendly layout name.
func (i Info) LayoutName() string { return i.Layout.String() }

// HasCountryCodes reports whether a country-code column was found.
func (i Info) HasCountryCodes() bool { return i.CountryCodeCol >= 0 }

// HasIndicatorCodes reports whether an indicator-code column was found.
func (i Info) HasIndicatorCodes() bool { return i.IndicatorCodeCol >= 0 }

// Years returns the detected year span as (min, max).
func (i Info) Years() (int, int) { return i.YearMin, i.YearMax }
