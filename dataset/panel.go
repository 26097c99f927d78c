package dataset

import (
	"fmt"
	"math"
	"sort"
)

// ============================================================================
// PANEL — Country-Year × Indicator Wide Table
// ============================================================================
// The pivoted shape every analysis stage consumes:
//   rows    = (country, year) pairs, sorted by country then year
//   columns = indicators, in requested order
//   cells   = float64, NaN for missing
//
// Pivot builds a Panel from tidy observations; Melt reverses it.
// Missing cells never materialize as zeros in either direction.
// ============================================================================

// Panel is a wide country-year table of indicator values.
type Panel struct {
	countries  []string // row-aligned
	years      []int    // row-aligned
	indicators []string // column order
	cols       map[string][]float64

	countryCodes   map[string]string
	indicatorCodes map[string]string
}

// Pivot reshapes tidy observations into a Panel. When indicators are
// given, columns follow that order and rows carrying none of them are
// dropped; otherwise all indicators appear in sorted order.
func Pivot(obs []Observation, indicators ...string) (*Panel, error) {
	if len(obs) == 0 {
		return nil, ErrEmptyDataset
	}

	if len(indicators) == 0 {
		seen := make(map[string]bool)
		for _, o := range obs {
			if o.Indicator != "" && !seen[o.Indicator] {
				seen[o.Indicator] = true
				indicators = append(indicators, o.Indicator)
			}
		}
		sort.Strings(indicators)
	}

	wanted := make(map[string]bool, len(indicators))
	for _, ind := range indicators {
		wanted[ind] = true
	}

	// Collect row keys and code lookups in one pass.
	type rowKey struct {
		country string
		year    int
	}
	rowSet := make(map[rowKey]bool)
	countryCodes := make(map[string]string)
	indicatorCodes := make(map[string]string)

	for _, o := range obs {
		if !wanted[o.Indicator] {
			continue
		}
		rowSet[rowKey{o.Country, o.Year}] = true
		if o.CountryCode != "" {
			countryCodes[o.Country] = o.CountryCode
		}
		if o.IndicatorCode != "" {
			indicatorCodes[o.Indicator] = o.IndicatorCode
		}
	}
	if len(rowSet) == 0 {
		return nil, ErrEmptyDataset
	}

	keys := make([]rowKey, 0, len(rowSet))
	for k := range rowSet {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].country != keys[j].country {
			return keys[i].country < keys[j].country
		}
		return keys[i].year < keys[j].year
	})

	rowIdx := make(map[rowKey]int, len(keys))
	p := &Panel{
		countries:      make([]string, len(keys)),
		years:          make([]int, len(keys)),
		indicators:     indicators,
		cols:           make(map[string][]float64, len(indicators)),
		countryCodes:   countryCodes,
		indicatorCodes: indicatorCodes,
	}
	for i, k := range keys {
		rowIdx[k] = i
		p.countries[i] = k.country
		p.years[i] = k.year
	}
	for _, ind := range indicators {
		col := make([]float64, len(keys))
		for i := range col {
			col[i] = math.NaN()
		}
		p.cols[ind] = col
	}

	for _, o := range obs {
		if !wanted[o.Indicator] {
			continue
		}
		p.cols[o.Indicator][rowIdx[rowKey{o.Country, o.Year}]] = o.Value
	}

	return p, nil
}

// ============================================================================
// ACCESSORS
// ============================================================================

// Rows returns the number of country-year rows.
func (p *Panel) Rows() int { return len(p.countries) }

// Indicators returns the column order.
func (p *Panel) Indicators() []string { return p.indicators }

// RowCountry returns the country of row i.
func (p *Panel) RowCountry(i int) string { return p.countries[i] }

// RowYear returns the year of row i.
func (p *Panel) RowYear(i int) int { return p.years[i] }

// RowLabel returns a display label for row i, e.g. "Germany 1990".
func (p *Panel) RowLabel(i int) string {
	return fmt.Sprintf("%s %d", p.countries[i], p.years[i])
}

// Value returns the cell at (row, indicator). NaN means missing.
func (p *Panel) Value(i int, indicator string) (float64, error) {
	col, ok := p.cols[indicator]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownIndicator, indicator)
	}
	return col[i], nil
}

// Column returns a copy of an indicator column, row-aligned.
func (p *Panel) Column(indicator string) ([]float64, error) {
	col, ok := p.cols[indicator]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndicator, indicator)
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, nil
}

// Countries returns the distinct countries in row order.
func (p *Panel) Countries() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range p.countries {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// YearRange returns the minimum and maximum year across rows.
func (p *Panel) YearRange() (int, int) {
	if len(p.years) == 0 {
		return 0, 0
	}
	minY, maxY := p.years[0], p.years[0]
	for _, y := range p.years[1:] {
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return minY, maxY
}

// ============================================================================
// RESHAPE OPERATIONS
// ============================================================================

// Series extracts one country's time series for one indicator.
// Missing cells are omitted; years stay ascending (row order).
func (p *Panel) Series(country, indicator string) (Series, error) {
	col, ok := p.cols[indicator]
	if !ok {
		return Series{}, fmt.Errorf("%w: %q", ErrUnknownIndicator, indicator)
	}

	s := Series{Country: country, Indicator: indicator}
	for i := range p.countries {
		if p.countries[i] != country || math.IsNaN(col[i]) {
			continue
		}
		s.Years = append(s.Years, p.years[i])
		s.Values = append(s.Values, col[i])
	}
	return s, nil
}

// Melt converts the panel back to tidy observations. Only cells that
// carry a value are emitted, so Pivot→Melt round-trips observations.
func (p *Panel) Melt() []Observation {
	var obs []Observation
	for i := range p.countries {
		for _, ind := range p.indicators {
			v := p.cols[ind][i]
			if math.IsNaN(v) {
				continue
			}
			obs = append(obs, Observation{
				Country:       p.countries[i],
				CountryCode:   p.countryCodes[p.countries[i]],
				Indicator:     ind,
				IndicatorCode: p.indicatorCodes[ind],
				Year:          p.years[i],
				Value:         v,
			})
		}
	}
	return obs
}

// DropIncomplete returns a new panel keeping only rows where every
// listed indicator (default: all) carries a value. Clustering needs
// complete cases.
func (p *Panel) DropIncomplete(indicators ...string) *Panel {
	if len(indicators) == 0 {
		indicators = p.indicators
	}

	var keep []int
	for i := range p.countries {
		complete := true
		for _, ind := range indicators {
			col, ok := p.cols[ind]
			if !ok || math.IsNaN(col[i]) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}

	out := &Panel{
		countries:      make([]string, len(keep)),
		years:          make([]int, len(keep)),
		indicators:     p.indicators,
		cols:           make(map[string][]float64, len(p.indicators)),
		countryCodes:   p.countryCodes,
		indicatorCodes: p.indicatorCodes,
	}
	for _, ind := range p.indicators {
		out.cols[ind] = make([]float64, len(keep))
	}
	for j, i := range keep {
		out.countries[j] = p.countries[i]
		out.years[j] = p.years[i]
		for _, ind := range p.indicators {
			out.cols[ind][j] = p.cols[ind][i]
		}
	}
	return out
}
