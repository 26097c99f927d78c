package main

import (
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wdilens-org/wdilens/analysis"
	"github.com/wdilens-org/wdilens/dataset"
	"github.com/wdilens-org/wdilens/report"
)

func newClusterCmd(a *app) *cobra.Command {
	var (
		k     int
		xAxis string
		yAxis string
	)
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster countries over the selected indicators",
		Long: `Cluster runs KMeans over the complete-case country-year rows of the
selected indicators. With --k it uses a fixed cluster count; otherwise
it scans the configured k range and keeps the best silhouette score.
Results go to the terminal and a scatter chart PNG.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("k") {
				a.cfg.K = k
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			p, _, err := a.loadPanel()
			if err != nil {
				return err
			}
			c, err := a.runCluster(p)
			if err != nil {
				return err
			}
			return a.clusterOutputs(c, xAxis, yAxis)
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 0, "Fixed cluster count (default: scan the configured range)")
	cmd.Flags().StringVar(&xAxis, "x", "", "Indicator for the scatter x axis (default: first)")
	cmd.Flags().StringVar(&yAxis, "y", "", "Indicator for the scatter y axis (default: second)")
	return cmd
}

// runCluster clusters the panel per the configuration.
func (a *app) runCluster(p *dataset.Panel) (*analysis.Clustering, error) {
	start := time.Now()
	var (
		c   *analysis.Clustering
		err error
	)
	if a.cfg.K > 0 {
		c, err = analysis.KMeans(p, p.Indicators(), a.cfg.K)
	} else {
		var scores map[int]float64
		c, scores, err = analysis.PickK(p, p.Indicators(), a.cfg.KMin, a.cfg.KMax)
		if err == nil {
			for k, s := range scores {
				a.log.Debug("silhouette scan", zap.Int("k", k), zap.Float64("score", s))
			}
		}
	}
	if err != nil {
		return nil, err
	}

	a.log.Info("clustered",
		zap.Int("k", c.K),
		zap.Int("rows", len(c.Rows)),
		zap.Float64("silhouette", c.Silhouette),
		zap.Duration("took", time.Since(start)))
	return c, nil
}

// clusterOutputs writes the terminal table and the scatter PNG.
func (a *app) clusterOutputs(c *analysis.Clustering, xAxis, yAxis string) error {
	report.WriteClusterTable(os.Stdout, c)

	if len(c.Indicators) < 2 {
		a.log.Warn("scatter chart needs two indicators, skipping")
		return nil
	}
	if xAxis == "" {
		xAxis = c.Indicators[0]
	}
	if yAxis == "" {
		yAxis = c.Indicators[1]
	}

	path, err := a.outPath("clusters.png")
	if err != nil {
		return err
	}
	if err := report.ClusterScatter(c, xAxis, yAxis, path); err != nil {
		return err
	}
	color.Green("Wrote %s", path)
	return nil
}
