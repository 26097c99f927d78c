package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newDiscoverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Detect and print the input CSV's schema",
		Long: `Discover reads the input CSV, detects its layout (long or wide),
and prints the countries, indicators, and year span it found, along
with any columns that were skipped during detection.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDiscover()
		},
	}
}

func (a *app) runDiscover() error {
	obs, info, err := a.loadObservations()
	if err != nil {
		return err
	}

	title := color.New(color.FgCyan, color.Bold)
	title.Printf("%s\n", info.Name)
	fmt.Printf("Layout: %s\n", info.LayoutName())
	min, max := info.Years()
	fmt.Printf("Years: %d-%d\n", min, max)
	fmt.Printf("Observations after filtering: %d\n\n", len(obs))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Detected"})
	table.Append([]string{"Countries", fmt.Sprintf("%d sampled", len(info.Countries))})
	table.Append([]string{"Indicators", fmt.Sprintf("%d sampled", len(info.Indicators))})
	table.Append([]string{"Country codes", yesNo(info.HasCountryCodes())})
	table.Append([]string{"Indicator codes", yesNo(info.HasIndicatorCodes())})
	table.Render()

	if len(info.Indicators) > 0 {
		fmt.Println()
		title.Println("Indicators")
		for _, ind := range info.Indicators {
			fmt.Printf("  %s\n", ind)
		}
	}

	if len(info.SkippedColumns) > 0 {
		fmt.Println()
		title.Println("Skipped columns")
		skipped := tablewriter.NewWriter(os.Stdout)
		skipped.SetHeader([]string{"Column", "Reason"})
		for _, sc := range info.SkippedColumns {
			skipped.Append([]string{sc.Column, sc.Reason})
		}
		skipped.Render()
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
