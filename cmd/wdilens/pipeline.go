package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/wdilens-org/wdilens/dataset"
	"github.com/wdilens-org/wdilens/schema"
)

// loadObservations runs the ingest stages shared by every subcommand:
// read the CSV, detect (or force) the layout, parse, and filter.
func (a *app) loadObservations() ([]dataset.Observation, *schema.Info, error) {
	if err := a.cfg.RequireInput(); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	data, err := os.ReadFile(a.cfg.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("reading input: %w", err)
	}

	info, err := schema.Detect(data)
	if err != nil {
		return nil, nil, err
	}
	if err := forceLayout(info, a.cfg.Layout); err != nil {
		return nil, nil, err
	}

	obs, err := dataset.ParseCSV(data, info)
	if err != nil {
		return nil, nil, err
	}
	parsed := len(obs)

	filter := dataset.Filter{
		Countries:  a.cfg.Countries,
		Indicators: a.cfg.Indicators,
		YearMin:    a.cfg.YearMin,
		YearMax:    a.cfg.YearMax,
	}
	if !filter.IsEmpty() {
		obs = filter.Apply(obs)
	}

	a.log.Info("loaded dataset",
		zap.String("input", a.cfg.Input),
		zap.String("layout", info.LayoutName()),
		zap.Int("parsed", parsed),
		zap.Int("kept", len(obs)),
		zap.Duration("took", time.Since(start)))

	if len(obs) == 0 {
		return nil, nil, fmt.Errorf("%w: nothing left after filtering", dataset.ErrEmptyDataset)
	}
	return obs, info, nil
}

// loadPanel pivots the filtered observations into a panel. The filter
// already restricted indicators (by name or code), so the pivot takes
// whatever survived rather than re-matching configured names.
func (a *app) loadPanel() (*dataset.Panel, *schema.Info, error) {
	obs, info, err := a.loadObservations()
	if err != nil {
		return nil, nil, err
	}
	p, err := dataset.Pivot(obs)
	if err != nil {
		return nil, nil, err
	}
	return p, info, nil
}

// forceLayout overrides the detected layout when the configuration asks
// for one, provided the detected columns can support it.
func forceLayout(info *schema.Info, want string) error {
	switch want {
	case "", info.LayoutName():
		return nil
	case "long":
		if info.YearCol < 0 || info.ValueCol < 0 {
			return fmt.Errorf("layout forced to long but no year/value columns were detected")
		}
		info.Layout = schema.LayoutLong
	case "wide":
		if len(info.YearCols) == 0 {
			return fmt.Errorf("layout forced to wide but no year columns were detected")
		}
		info.Layout = schema.LayoutWide
	}
	return nil
}
