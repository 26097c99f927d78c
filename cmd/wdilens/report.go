package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wdilens-org/wdilens/analysis"
	"github.com/wdilens-org/wdilens/report"
)

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Run the full pipeline and export every artifact",
		Long: `Report runs correlation, clustering, fitting, and projection over
the selected data, prints the terminal summaries, renders every chart,
and saves an XLSX workbook with one sheet per result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReport()
		},
	}
}

func (a *app) runReport() error {
	p, _, err := a.loadPanel()
	if err != nil {
		return err
	}

	// Correlation needs at least two indicators; fitting works without.
	var corr *analysis.CorrMatrix
	if len(p.Indicators()) >= 2 {
		corr, err = analysis.Correlation(p)
		if err != nil {
			return err
		}
		report.WriteCorrelationTable(os.Stdout, corr)

		path, err := a.outPath("correlation.png")
		if err != nil {
			return err
		}
		if err := report.CorrelationHeatmap(corr, path); err != nil {
			return err
		}
		color.Green("Wrote %s", path)

		x, y, r := corr.Strongest()
		if x != "" {
			color.Cyan("Strongest correlation: %s vs %s (r=%+.2f)", x, y, r)
		}
	} else {
		a.log.Warn("correlation needs two indicators, skipping")
	}

	c, err := a.runCluster(p)
	if err != nil {
		return err
	}
	if err := a.clusterOutputs(c, "", ""); err != nil {
		return err
	}

	models, projs, err := a.runFit(p, true)
	if err != nil {
		return err
	}
	report.WriteFitTable(os.Stdout, models)
	report.WriteProjectionTable(os.Stdout, projs)

	path, err := a.outPath("wdilens.xlsx")
	if err != nil {
		return err
	}
	if err := report.WriteWorkbook(path, c, corr, models, projs); err != nil {
		return err
	}
	color.Green("Wrote %s", path)

	a.log.Info("report complete", zap.String("out", a.cfg.OutDir))
	return nil
}
