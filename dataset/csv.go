package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wdilens-org/wdilens/schema"
)

// ============================================================================
// CSV LOADER — Parses WDI-style CSV data into []Observation
// ============================================================================
// Consumers read the CSV from wherever it lives (file, S3, stdin).
// This loader converts raw bytes into tidy observations using a
// schema.Info, either supplied or auto-detected.
// ============================================================================

// ParseCSV parses CSV bytes into observations using a detected schema.
// Malformed rows and missing cells (".." / empty) are skipped.
func ParseCSV(data []byte, info *schema.Info) ([]Observation, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var obs []Observation
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		switch info.Layout {
		case schema.LayoutLong:
			obs = appendLongRow(obs, row, info)
		case schema.LayoutWide:
			obs = appendWideRow(obs, row, info)
		}
	}

	if len(obs) == 0 {
		return nil, ErrEmptyDataset
	}
	return obs, nil
}

// ParseCSVAuto detects the layout and parses in one call.
// Returns the observations plus the detected schema for inspection.
func ParseCSVAuto(data []byte) ([]Observation, *schema.Info, error) {
	info, err := schema.Detect(data)
	if err != nil {
		return nil, nil, err
	}
	obs, err := ParseCSV(data, info)
	if err != nil {
		return nil, info, err
	}
	return obs, info, nil
}

// ============================================================================
// ROW PARSERS
// ============================================================================

func appendLongRow(obs []Observation, row []string, info *schema.Info) []Observation {
	year, ok := cellInt(row, info.YearCol)
	if !ok {
		return obs
	}
	value, ok := cellFloat(row, info.ValueCol)
	if !ok {
		return obs
	}
	country := cell(row, info.CountryCol)
	if country == "" {
		return obs
	}

	return append(obs, Observation{
		Country:       country,
		CountryCode:   cell(row, info.CountryCodeCol),
		Indicator:     cell(row, info.IndicatorCol),
		IndicatorCode: cell(row, info.IndicatorCodeCol),
		Year:          year,
		Value:         value,
	})
}

func appendWideRow(obs []Observation, row []string, info *schema.Info) []Observation {
	country := cell(row, info.CountryCol)
	if country == "" {
		return obs
	}
	indicator := cell(row, info.IndicatorCol)

	for col, year := range info.YearCols {
		value, ok := cellFloat(row, col)
		if !ok {
			continue // missing cell, never materialized as zero
		}
		obs = append(obs, Observation{
			Country:       country,
			CountryCode:   cell(row, info.CountryCodeCol),
			Indicator:     indicator,
			IndicatorCode: cell(row, info.IndicatorCodeCol),
			Year:          year,
			Value:         value,
		})
	}
	return obs
}

// ============================================================================
// CELL HELPERS
// ============================================================================

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func cellFloat(row []string, col int) (float64, bool) {
	val := cell(row, col)
	if IsMissing(val) {
		return 0, false
	}
	// World Bank exports occasionally carry thousands separators.
	val = strings.ReplaceAll(val, ",", "")
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func cellInt(row []string, col int) (int, bool) {
	val := cell(row, col)
	if IsMissing(val) {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}
