// Package wdilens provides country-level exploratory analysis for
// World-Development-Indicators-style datasets.
//
// Usage:
//
//	import (
//	    "github.com/wdilens-org/wdilens/analysis"
//	    "github.com/wdilens-org/wdilens/dataset"
//	)
//
//	obs, _, _ := dataset.ParseCSVAuto(raw)
//	panel, _ := dataset.Pivot(obs, "gdp_per_capita", "co2_per_capita")
//	clustering, _ := analysis.KMeans(panel, []string{"gdp_per_capita", "co2_per_capita"}, 3)
//
// The pipeline is: load CSV → reshape into a country-year panel →
// correlate → cluster → fit per-country trend curves with confidence
// bands and projections → render PNG charts and an XLSX workbook.
//
// Every stage is a local computation — the toolkit never calls any
// external service. Schema detection is handled by the schema package,
// curve fitting by the fit package, and rendering by the report package.
package wdilens
