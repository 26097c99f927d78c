package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wdilens-org/wdilens/analysis"
	"github.com/wdilens-org/wdilens/fit"
)

// ============================================================================
// XLSX WORKBOOK — Analysis export via excelize
// ============================================================================
// One workbook with a sheet per pipeline stage: cluster membership,
// centroids, fit parameters, projections. Nil sections are skipped.
// ============================================================================

// WriteWorkbook saves the analysis results as an XLSX workbook.
func WriteWorkbook(path string, c *analysis.Clustering, corr *analysis.CorrMatrix, models []*fit.Model, projs []*fit.Projection) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	sheet := func(name string) string {
		if first {
			f.SetSheetName("Sheet1", name)
			first = false
		} else {
			f.NewSheet(name)
		}
		return name
	}

	if c != nil {
		writeClusterSheets(f, sheet, c)
	}
	if corr != nil {
		writeCorrelationSheet(f, sheet, corr)
	}
	if len(models) > 0 {
		writeFitSheet(f, sheet, models)
	}
	if len(projs) > 0 {
		writeProjectionSheet(f, sheet, projs)
	}
	if first {
		return fmt.Errorf("report: nothing to export")
	}

	return f.SaveAs(path)
}

func writeClusterSheets(f *excelize.File, sheet func(string) string, c *analysis.Clustering) {
	name := sheet("Clusters")
	setHeaderRow(f, name, append([]string{"Country", "Year", "Cluster"}, c.Indicators...))
	for i, ref := range c.Rows {
		row := i + 2
		f.SetCellValue(name, cellName(1, row), ref.Country)
		f.SetCellValue(name, cellName(2, row), ref.Year)
		f.SetCellValue(name, cellName(3, row), c.Assignments[i])
		for j, v := range c.Points[i] {
			f.SetCellValue(name, cellName(4+j, row), v)
		}
	}

	name = sheet("Centroids")
	setHeaderRow(f, name, append([]string{"Cluster", "Size"}, c.Indicators...))
	for i, centroid := range c.Centroids {
		row := i + 2
		f.SetCellValue(name, cellName(1, row), i)
		f.SetCellValue(name, cellName(2, row), c.Sizes[i])
		for j, v := range centroid {
			f.SetCellValue(name, cellName(3+j, row), v)
		}
	}
}

func writeCorrelationSheet(f *excelize.File, sheet func(string) string, corr *analysis.CorrMatrix) {
	name := sheet("Correlation")
	setHeaderRow(f, name, append([]string{""}, corr.Indicators...))
	for i, ind := range corr.Indicators {
		row := i + 2
		f.SetCellValue(name, cellName(1, row), ind)
		for j := range corr.Indicators {
			f.SetCellValue(name, cellName(2+j, row), corr.At(i, j))
		}
	}
}

func writeFitSheet(f *excelize.File, sheet func(string) string, models []*fit.Model) {
	name := sheet("Fits")
	setHeaderRow(f, name, []string{"Country", "Indicator", "Model", "Parameter", "Value", "Stderr", "R2", "Sigma", "N"})
	row := 2
	for _, m := range models {
		stderr := m.Stderr()
		for i, pname := range m.ParamNames {
			f.SetCellValue(name, cellName(1, row), m.Country)
			f.SetCellValue(name, cellName(2, row), m.Indicator)
			f.SetCellValue(name, cellName(3, row), string(m.Kind))
			f.SetCellValue(name, cellName(4, row), pname)
			f.SetCellValue(name, cellName(5, row), m.Params[i])
			f.SetCellValue(name, cellName(6, row), stderr[i])
			f.SetCellValue(name, cellName(7, row), m.R2)
			f.SetCellValue(name, cellName(8, row), m.Sigma)
			f.SetCellValue(name, cellName(9, row), m.N)
			row++
		}
	}
}

func writeProjectionSheet(f *excelize.File, sheet func(string) string, projs []*fit.Projection) {
	name := sheet("Projections")
	setHeaderRow(f, name, []string{"Country", "Indicator", "Model", "Year", "Value", "Lower", "Upper", "Level"})
	row := 2
	for _, proj := range projs {
		for i, year := range proj.Years {
			f.SetCellValue(name, cellName(1, row), proj.Country)
			f.SetCellValue(name, cellName(2, row), proj.Indicator)
			f.SetCellValue(name, cellName(3, row), string(proj.Kind))
			f.SetCellValue(name, cellName(4, row), year)
			f.SetCellValue(name, cellName(5, row), proj.Values[i])
			f.SetCellValue(name, cellName(6, row), proj.Lower[i])
			f.SetCellValue(name, cellName(7, row), proj.Upper[i])
			f.SetCellValue(name, cellName(8, row), proj.Level)
			row++
		}
	}
}

func setHeaderRow(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), h)
		if name, err := excelize.CoordinatesToCellName(i+1, 1); err == nil {
			f.SetColWidth(sheet, columnOf(name), columnOf(name), 18)
		}
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// columnOf strips the row digits from a cell name ("C5" → "C").
func columnOf(cell string) string {
	for i, r := range cell {
		if r >= '0' && r <= '9' {
			return cell[:i]
		}
	}
	return cell
}
