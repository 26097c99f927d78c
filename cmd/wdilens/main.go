package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wdilens-org/wdilens/config"
)

// ============================================================================
// WDILENS CLI — Country clustering and trend projection over WDI CSVs
// ============================================================================

const version = "0.1.0"

// app carries the resolved configuration and logger into subcommands.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

// Persistent flag targets; layered over the loaded config in preRun.
var (
	flagConfig  string
	flagInput   string
	flagOut     string
	flagVerbose bool
)

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "wdilens",
		Short: "Cluster countries and project indicator trends from WDI data",
		Long: `wdilens reads a World Development Indicators CSV export (long or
wide layout), clusters countries over selected indicators with KMeans,
fits growth models per series, and writes PNG charts plus an XLSX
workbook of the results.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&flagInput, "input", "i", "", "Path to the WDI CSV export")
	rootCmd.PersistentFlags().StringVarP(&flagOut, "out", "o", "", "Output directory for charts and workbook")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose (development) logging")

	rootCmd.AddCommand(
		newDiscoverCmd(a),
		newClusterCmd(a),
		newFitCmd(a),
		newReportCmd(a),
	)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration, layers flag overrides on top, and
// builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("input") || cmd.Root().PersistentFlags().Changed("input") {
		cfg.Input = flagInput
	}
	if cmd.Flags().Changed("out") || cmd.Root().PersistentFlags().Changed("out") {
		cfg.OutDir = flagOut
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.Verbose {
		a.log, err = zap.NewDevelopment()
	} else {
		a.log, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("logger setup: %w", err)
	}
	return nil
}

// outPath joins the output directory with a file name, creating the
// directory on first use.
func (a *app) outPath(name string) (string, error) {
	if err := os.MkdirAll(a.cfg.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	return filepath.Join(a.cfg.OutDir, name), nil
}
