package dataset

import "strings"

// ============================================================================
// FILTER — Observation selection before pivoting
// ============================================================================
// Fields are AND-combined; values within a field are OR-combined.
// Matching is case-insensitive. A zero Filter selects everything.
// ============================================================================

// Filter restricts observations by country, indicator, and year range.
type Filter struct {
	Countries  []string `json:"countries,omitempty"`
	Indicators []string `json:"indicators,omitempty"`
	YearMin    int      `json:"yearMin,omitempty"`
	YearMax    int      `json:"yearMax,omitempty"`
}

// IsEmpty reports whether the filter imposes no restriction.
func (f Filter) IsEmpty() bool {
	return len(f.Countries) == 0 && len(f.Indicators) == 0 &&
		f.YearMin == 0 && f.YearMax == 0
}

// Apply returns the observations matching all filter fields.
func (f Filter) Apply(obs []Observation) []Observation {
	if f.IsEmpty() {
		return obs
	}

	countrySet := toLowerSet(f.Countries)
	indicatorSet := toLowerSet(f.Indicators)

	// Single pass — an observation passes if it matches every field.
	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if len(countrySet) > 0 && !matches(countrySet, o.Country, o.CountryCode) {
			continue
		}
		if len(indicatorSet) > 0 && !matches(indicatorSet, o.Indicator, o.IndicatorCode) {
			continue
		}
		if f.YearMin != 0 && o.Year < f.YearMin {
			continue
		}
		if f.YearMax != 0 && o.Year > f.YearMax {
			continue
		}
		out = append(out, o)
	}
	return out
}

// matches accepts either the display name or the code.
func matches(set map[string]bool, name, code string) bool {
	return set[strings.ToLower(name)] || (code != "" && set[strings.ToLower(code)])
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
