package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/wdilens-org/wdilens/analysis"
	"github.com/wdilens-org/wdilens/fit"
)

// ============================================================================
// TERMINAL TABLES — Human-readable summaries via tablewriter
// ============================================================================

var sectionHeader = color.New(color.FgCyan, color.Bold)

// WriteClusterTable prints per-country cluster membership and the
// centroid coordinates in original data units.
func WriteClusterTable(w io.Writer, c *analysis.Clustering) {
	sectionHeader.Fprintf(w, "Clusters (k=%d, silhouette %.3f)\n", c.K, c.Silhouette)

	byCountry := c.CountryClusters()
	countries := make([]string, 0, len(byCountry))
	for country := range byCountry {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Country", "Cluster"})
	for _, country := range countries {
		table.Append([]string{country, fmt.Sprintf("%d", byCountry[country])})
	}
	table.Render()

	sectionHeader.Fprintln(w, "Centroids")
	centroidTable := tablewriter.NewWriter(w)
	centroidTable.SetHeader(append([]string{"Cluster", "Size"}, c.Indicators...))
	for i, centroid := range c.Centroids {
		row := []string{fmt.Sprintf("%d", i), fmt.Sprintf("%d", c.Sizes[i])}
		for _, v := range centroid {
			row = append(row, fmt.Sprintf("%.2f", v))
		}
		centroidTable.Append(row)
	}
	centroidTable.Render()
}

// WriteCorrelationTable prints the correlation matrix.
func WriteCorrelationTable(w io.Writer, c *analysis.CorrMatrix) {
	sectionHeader.Fprintf(w, "Correlation (%d complete cases)\n", c.N)

	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{""}, c.Indicators...))
	for i, ind := range c.Indicators {
		row := []string{ind}
		for j := range c.Indicators {
			row = append(row, fmt.Sprintf("%+.2f", c.At(i, j)))
		}
		table.Append(row)
	}
	table.Render()
}

// WriteFitTable prints fitted model parameters and goodness of fit.
func WriteFitTable(w io.Writer, models []*fit.Model) {
	sectionHeader.Fprintln(w, "Fitted models")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Country", "Indicator", "Model", "Params", "R²", "Sigma"})
	for _, m := range models {
		params := ""
		stderr := m.Stderr()
		for i, name := range m.ParamNames {
			if i > 0 {
				params += ", "
			}
			params += fmt.Sprintf("%s=%.4g±%.2g", name, m.Params[i], stderr[i])
		}
		table.Append([]string{
			m.Country,
			m.Indicator,
			string(m.Kind),
			params,
			fmt.Sprintf("%.3f", m.R2),
			fmt.Sprintf("%.3g", m.Sigma),
		})
	}
	table.Render()
}

// WriteProjectionTable prints projected values with confidence bounds.
func WriteProjectionTable(w io.Writer, projs []*fit.Projection) {
	if len(projs) == 0 {
		return
	}
	sectionHeader.Fprintf(w, "Projections (%.0f%% confidence)\n", projs[0].Level*100)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Country", "Indicator", "Year", "Value", "Lower", "Upper"})
	for _, proj := range projs {
		for i, year := range proj.Years {
			table.Append([]string{
				proj.Country,
				proj.Indicator,
				fmt.Sprintf("%d", year),
				fmt.Sprintf("%.2f", proj.Values[i]),
				fmt.Sprintf("%.2f", proj.Lower[i]),
				fmt.Sprintf("%.2f", proj.Upper[i]),
			})
		}
	}
	table.Render()
}
