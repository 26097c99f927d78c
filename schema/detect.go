package schema

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ============================================================================
// AUTO-DETECTION — Heuristic Layout Classification
// ============================================================================
// Inspects raw CSV bytes and generates a schema.Info automatically.
// No configuration needed for well-formed WDI exports.
//
// Classification pipeline:
//   1. Header scan → year-named columns ("1990", "1990 [YR1990]")
//   2. Header patterns → country / country code / indicator / indicator code
//   3. ≥3 year columns → wide layout; otherwise look for year+value → long
//   4. Sample rows → distinct countries, indicators, year span
//   5. Unclassified columns recorded as skipped, with reason
// ============================================================================

var (
	// ErrNoColumns is returned for a CSV without a header row.
	ErrNoColumns = errors.New("schema: csv has no columns")
	// ErrNoRows is returned for a CSV with a header but no data rows.
	ErrNoRows = errors.New("schema: csv has no data rows")
	// ErrUnknownLayout is returned when neither long nor wide layout fits.
	ErrUnknownLayout = errors.New("schema: could not classify csv layout")
)

// DetectOptions controls detection behavior.
type DetectOptions struct {
	SampleSize int    // Max rows to inspect (0 = default 1000)
	Name       string // Dataset name override (otherwise a generic name)
}

// DefaultDetectOptions returns sensible defaults.
func DefaultDetectOptions() DetectOptions {
	return DetectOptions{SampleSize: 1000}
}

// Detect generates a schema.Info by inspecting CSV data.
// It classifies the file as long (tidy) or wide (World Bank export)
// and locates the country, indicator, year, and value columns.
func Detect(data []byte, opts ...DetectOptions) (*Info, error) {
	opt := DefaultDetectOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, ErrNoColumns
	}

	limit := opt.SampleSize
	if limit <= 0 {
		limit = 1000
	}

	var rows [][]string
	for i := 0; i < limit; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	info := &Info{
		Name:             opt.Name,
		CountryCol:       -1,
		CountryCodeCol:   -1,
		IndicatorCol:     -1,
		IndicatorCodeCol: -1,
		YearCol:          -1,
		ValueCol:         -1,
	}
	if info.Name == "" {
		info.Name = "WDI dataset"
	}

	// 1. Classify each header.
	yearCols := make(map[int]int)
	var unclassified []int

	for i, h := range headers {
		key := ToSnakeCase(strings.TrimSpace(h))

		if year, ok := parseYearHeader(h); ok {
			yearCols[i] = year
			continue
		}

		switch {
		case isCountryCodeKey(key):
			info.CountryCodeCol = i
		case isCountryKey(key):
			info.CountryCol = i
		case isIndicatorCodeKey(key):
			info.IndicatorCodeCol = i
		case isIndicatorKey(key):
			info.IndicatorCol = i
		case key == "year" || key == "date" || key == "time":
			info.YearCol = i
		case key == "value" || key == "amount" || key == "obs_value":
			info.ValueCol = i
		default:
			unclassified = append(unclassified, i)
		}
	}

	// 2. Decide layout.
	switch {
	case len(yearCols) >= 3:
		info.Layout = LayoutWide
		info.YearCols = yearCols
	case info.YearCol >= 0:
		info.Layout = LayoutLong
		if info.ValueCol < 0 {
			// Fall back to the first unclassified numeric column.
			info.ValueCol = firstNumericColumn(rows, unclassified)
		}
		if info.ValueCol < 0 {
			return nil, ErrUnknownLayout
		}
	default:
		return nil, ErrUnknownLayout
	}

	// 3. Fall back on positional guesses for unnamed name columns.
	if info.CountryCol < 0 {
		info.CountryCol = firstStringColumn(rows, unclassified, info)
	}
	if info.CountryCol < 0 {
		return nil, ErrUnknownLayout
	}
	if info.IndicatorCol < 0 && info.Layout == LayoutWide {
		// Wide WDI exports always carry an indicator name column;
		// without one every observation would be nameless.
		info.IndicatorCol = secondStringColumn(rows, unclassified, info)
		if info.IndicatorCol < 0 {
			return nil, fmt.Errorf("%w: wide layout without an indicator column", ErrUnknownLayout)
		}
	}

	// 4. Record leftover columns as skipped.
	used := map[int]bool{
		info.CountryCol: true, info.CountryCodeCol: true,
		info.IndicatorCol: true, info.IndicatorCodeCol: true,
		info.YearCol: true, info.ValueCol: true,
	}
	for _, i := range unclassified {
		if used[i] {
			continue
		}
		info.SkippedColumns = append(info.SkippedColumns, SkippedColumn{
			Column:      headers[i],
			Reason:      "no role in " + info.Layout.String() + " layout",
			Recoverable: !looksUnique(rows, i),
		})
	}

	// 5. Sample content metadata.
	info.Countries = distinctValues(rows, info.CountryCol)
	if info.IndicatorCol >= 0 {
		info.Indicators = distinctValues(rows, info.IndicatorCol)
	}
	info.YearMin, info.YearMax = yearSpan(info, rows)
	info.DetectedAt = time.Now().Format(time.RFC3339)

	return info, nil
}

// ============================================================================
// HEADER CLASSIFIERS
// ============================================================================

func isCountryKey(key string) bool {
	return key == "country" || key == "country_name" || key == "economy" ||
		key == "country_area" || (strings.Contains(key, "country") && !strings.Contains(key, "code"))
}

func isCountryCodeKey(key string) bool {
	if key == "iso3" || key == "iso_code" {
		return true
	}
	return strings.Contains(key, "country") && strings.Contains(key, "code")
}

func isIndicatorKey(key string) bool {
	return key == "indicator" || key == "indicator_name" || key == "series" ||
		key == "series_name" ||
		((strings.Contains(key, "indicator") || strings.Contains(key, "series")) &&
			!strings.Contains(key, "code"))
}

func isIndicatorCodeKey(key string) bool {
	return (strings.Contains(key, "indicator") || strings.Contains(key, "series")) &&
		strings.Contains(key, "code")
}

// parseYearHeader recognizes "1990" and World Bank "1990 [YR1990]" headers.
func parseYearHeader(h string) (int, bool) {
	h = strings.TrimSpace(h)
	if idx := strings.IndexByte(h, ' '); idx > 0 {
		h = h[:idx]
	}
	if len(h) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(h)
	if err != nil || year < 1700 || year > 2200 {
		return 0, false
	}
	return year, true
}

// ============================================================================
// VALUE-BASED FALLBACKS
// ============================================================================

func firstNumericColumn(rows [][]string, candidates []int) int {
	for _, i := range candidates {
		if columnIsNumeric(rows, i) {
			return i
		}
	}
	return -1
}

func firstStringColumn(rows [][]string, candidates []int, info *Info) int {
	for _, i := range candidates {
		if i == info.ValueCol || i == info.YearCol {
			continue
		}
		if !columnIsNumeric(rows, i) {
			return i
		}
	}
	return -1
}

func secondStringColumn(rows [][]string, candidates []int, info *Info) int {
	seenFirst := false
	for _, i := range candidates {
		if i == info.CountryCol || i == info.ValueCol || i == info.YearCol {
			continue
		}
		if columnIsNumeric(rows, i) {
			continue
		}
		if !seenFirst {
			seenFirst = true
			continue
		}
		return i
	}
	return -1
}

func columnIsNumeric(rows [][]string, col int) bool {
	numeric, total := 0, 0
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[col])
		if val == "" || val == ".." {
			continue
		}
		total++
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			numeric++
		}
	}
	return total > 0 && numeric*10 >= total*9 // ≥90% numeric
}

func looksUnique(rows [][]string, col int) bool {
	seen := make(map[string]bool)
	total := 0
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[col])
		if val == "" {
			continue
		}
		total++
		seen[val] = true
	}
	return total > 3 && len(seen) == total
}

func distinctValues(rows [][]string, col int) []string {
	if col < 0 {
		return nil
	}
	seen := make(map[string]bool)
	var vals []string
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[col])
		if val != "" && !seen[val] {
			seen[val] = true
			vals = append(vals, val)
		}
	}
	sort.Strings(vals)
	return vals
}

func yearSpan(info *Info, rows [][]string) (int, int) {
	minYear, maxYear := 0, 0
	record := func(y int) {
		if y == 0 {
			return
		}
		if minYear == 0 || y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}

	if info.Layout == LayoutWide {
		for _, year := range info.YearCols {
			record(year)
		}
		return minYear, maxYear
	}

	for _, row := range rows {
		if info.YearCol >= len(row) {
			continue
		}
		if y, err := strconv.Atoi(strings.TrimSpace(row[info.YearCol])); err == nil {
			record(y)
		}
	}
	return minYear, maxYear
}

// ============================================================================
// KEY NORMALIZATION
// ============================================================================

// ToSnakeCase converts "Country Name" → "country_name" and
// "IndicatorCode" → "indicator_code".
func ToSnakeCase(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '.':
			if s := b.String(); len(s) > 0 && s[len(s)-1] != '_' {
				b.WriteByte('_')
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return strings.Trim(b.String(), "_")
}
