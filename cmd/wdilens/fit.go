package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wdilens-org/wdilens/dataset"
	"github.com/wdilens-org/wdilens/fit"
	"github.com/wdilens-org/wdilens/report"
)

func newFitCmd(a *app) *cobra.Command {
	var (
		kind   string
		toYear int
		charts bool
	)
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit growth models to the selected series",
		Long: `Fit estimates a model (linear, polynomial, exp_growth, or logistic)
for every selected country and indicator series, prints parameters with
standard errors, and optionally projects each series to a future year
with confidence bounds. Each fitted series gets a chart PNG unless
--charts=false, in which case projections appear in the table only;
the report subcommand always renders charts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("kind") {
				a.cfg.FitKind = kind
			}
			if cmd.Flags().Changed("to-year") {
				a.cfg.ProjectToYear = toYear
			}
			p, _, err := a.loadPanel()
			if err != nil {
				return err
			}
			models, projs, err := a.runFit(p, charts)
			if err != nil {
				return err
			}
			report.WriteFitTable(os.Stdout, models)
			report.WriteProjectionTable(os.Stdout, projs)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Model kind: linear, polynomial, exp_growth, logistic")
	cmd.Flags().IntVar(&toYear, "to-year", 0, "Project each series to this year")
	cmd.Flags().BoolVar(&charts, "charts", true, "Render a PNG per fitted series")
	return cmd
}

// runFit fits one model per selected (country, indicator) series.
// Series that are too short or fail to converge are logged and skipped,
// not fatal; the run fails only if nothing could be fitted.
func (a *app) runFit(p *dataset.Panel, charts bool) ([]*fit.Model, []*fit.Projection, error) {
	// The filter already restricted the panel to the configured
	// countries (matched by name or code, case-insensitively), so the
	// panel's own display names are the right iteration set. Configured
	// strings may be codes and would never match Series lookups.
	countries := p.Countries()
	kind := fit.Kind(a.cfg.FitKind)

	var (
		models []*fit.Model
		projs  []*fit.Projection
	)
	start := time.Now()
	for _, country := range countries {
		for _, indicator := range p.Indicators() {
			s, err := p.Series(country, indicator)
			if err != nil {
				return nil, nil, err
			}

			m, err := fit.ForKind(kind, s)
			switch {
			case errors.Is(err, fit.ErrTooFewPoints), errors.Is(err, fit.ErrNoConverge):
				a.log.Warn("skipping series",
					zap.String("country", country),
					zap.String("indicator", indicator),
					zap.Error(err))
				continue
			case err != nil:
				return nil, nil, err
			}
			models = append(models, m)

			var proj *fit.Projection
			lastYear := s.Years[len(s.Years)-1]
			if a.cfg.ProjectToYear > lastYear {
				proj, err = m.Project(lastYear+1, a.cfg.ProjectToYear, a.cfg.Confidence)
				if err != nil {
					return nil, nil, err
				}
				projs = append(projs, proj)
			}

			if charts {
				name := fmt.Sprintf("fit_%s_%s.png", slug(country), slug(indicator))
				path, err := a.outPath(name)
				if err != nil {
					return nil, nil, err
				}
				if err := report.FitCurve(s, m, proj, a.cfg.Confidence, path); err != nil {
					return nil, nil, err
				}
				color.Green("Wrote %s", path)
			}
		}
	}
	if len(models) == 0 {
		return nil, nil, fmt.Errorf("%w: no series could be fitted", dataset.ErrEmptyDataset)
	}

	a.log.Info("fitted models",
		zap.String("kind", string(kind)),
		zap.Int("models", len(models)),
		zap.Int("projections", len(projs)),
		zap.Duration("took", time.Since(start)))
	return models, projs, nil
}

// slug makes a country or indicator name safe for a file name.
func slug(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			if len(out) > 0 && out[len(out)-1] != '_' {
				out = append(out, '_')
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '_' {
		out = out[:len(out)-1]
	}
	return string(out)
}
