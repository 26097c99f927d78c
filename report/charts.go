package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/wdilens-org/wdilens/analysis"
	"github.com/wdilens-org/wdilens/dataset"
	"github.com/wdilens-org/wdilens/fit"
)

// ============================================================================
// CHART RENDERERS — PNG output via gonum/plot
// ============================================================================
// Three chart families cover the pipeline:
//   ClusterScatter      — two indicators, points colored by cluster,
//                         centroid markers
//   FitCurve            — observed series + fitted curve + confidence
//                         band + dashed projection
//   CorrelationHeatmap  — indicator × indicator Pearson matrix
// ============================================================================

// Cluster color cycle.
var clusterColors = []color.RGBA{
	{R: 79, G: 70, B: 229, A: 255},  // indigo
	{R: 16, G: 185, B: 129, A: 255}, // emerald
	{R: 245, G: 158, B: 11, A: 255}, // amber
	{R: 239, G: 68, B: 68, A: 255},  // red
	{R: 139, G: 92, B: 246, A: 255}, // violet
	{R: 6, G: 182, B: 212, A: 255},  // cyan
	{R: 236, G: 72, B: 153, A: 255}, // pink
	{R: 132, G: 204, B: 22, A: 255}, // lime
}

// ClusterScatter renders cluster membership over two indicator axes.
func ClusterScatter(c *analysis.Clustering, xInd, yInd, path string) error {
	xi, yi := indexOf(c.Indicators, xInd), indexOf(c.Indicators, yInd)
	if xi < 0 {
		return fmt.Errorf("%w: %q", dataset.ErrUnknownIndicator, xInd)
	}
	if yi < 0 {
		return fmt.Errorf("%w: %q", dataset.ErrUnknownIndicator, yInd)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Country clusters (k=%d, silhouette %.2f)", c.K, c.Silhouette)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xInd
	p.Y.Label.Text = yInd
	p.Legend.Top = true

	// One scatter per cluster so each gets its own color and legend entry.
	for cluster := 0; cluster < c.K; cluster++ {
		var pts plotter.XYs
		for i, a := range c.Assignments {
			if a != cluster {
				continue
			}
			pts = append(pts, plotter.XY{X: c.Points[i][xi], Y: c.Points[i][yi]})
		}
		if len(pts) == 0 {
			continue
		}

		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("cluster scatter: %w", err)
		}
		sc.GlyphStyle.Color = clusterColors[cluster%len(clusterColors)]
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("cluster %d (n=%d)", cluster, c.Sizes[cluster]), sc)
	}

	// Centroid markers.
	var centers plotter.XYs
	for _, centroid := range c.Centroids {
		centers = append(centers, plotter.XY{X: centroid[xi], Y: centroid[yi]})
	}
	cs, err := plotter.NewScatter(centers)
	if err != nil {
		return fmt.Errorf("centroid scatter: %w", err)
	}
	cs.GlyphStyle.Color = color.RGBA{A: 255}
	cs.GlyphStyle.Radius = vg.Points(6)
	cs.GlyphStyle.Shape = draw.PyramidGlyph{}
	p.Add(cs)
	p.Legend.Add("centroids", cs)

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// FitCurve renders an observed series with its fitted curve, confidence
// band, and (optionally) a dashed projection beyond the data.
func FitCurve(s dataset.Series, m *fit.Model, proj *fit.Projection, level float64, path string) error {
	if s.Len() == 0 {
		return dataset.ErrEmptyDataset
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s — %s (%s fit, R²=%.3f)", s.Country, s.Indicator, m.Kind, m.R2)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = s.Indicator
	p.Legend.Top = true

	firstYear := float64(s.Years[0])
	lastYear := float64(s.Years[len(s.Years)-1])
	bandEnd := lastYear
	if proj != nil && len(proj.Years) > 0 {
		bandEnd = float64(proj.Years[len(proj.Years)-1])
	}

	// Confidence band polygon across data + projection range.
	grid := yearGrid(firstYear, bandEnd)
	lower, upper := m.Band(grid, level)
	band := make(plotter.XYs, 0, 2*len(grid))
	for i := range grid {
		band = append(band, plotter.XY{X: grid[i], Y: upper[i]})
	}
	for i := len(grid) - 1; i >= 0; i-- {
		band = append(band, plotter.XY{X: grid[i], Y: lower[i]})
	}
	poly, err := plotter.NewPolygon(band)
	if err != nil {
		return fmt.Errorf("confidence band: %w", err)
	}
	poly.Color = color.RGBA{R: 79, G: 70, B: 229, A: 40}
	poly.LineStyle.Width = 0
	p.Add(poly)
	p.Legend.Add(fmt.Sprintf("%.0f%% confidence", level*100), poly)

	// Fitted curve over the observed range.
	fitted := make(plotter.XYs, 0, len(grid))
	for _, year := range grid {
		if year > lastYear {
			break
		}
		fitted = append(fitted, plotter.XY{X: year, Y: m.Eval(year)})
	}
	fitLine, err := plotter.NewLine(fitted)
	if err != nil {
		return fmt.Errorf("fit line: %w", err)
	}
	fitLine.Color = color.RGBA{R: 79, G: 70, B: 229, A: 255}
	fitLine.Width = vg.Points(1.5)
	p.Add(fitLine)
	p.Legend.Add(string(m.Kind)+" fit", fitLine)

	// Dashed projection beyond the data.
	if proj != nil && len(proj.Years) > 0 {
		future := make(plotter.XYs, len(proj.Years))
		for i, year := range proj.Years {
			future[i] = plotter.XY{X: float64(year), Y: proj.Values[i]}
		}
		projLine, err := plotter.NewLine(future)
		if err != nil {
			return fmt.Errorf("projection line: %w", err)
		}
		projLine.Color = color.RGBA{R: 239, G: 68, B: 68, A: 255}
		projLine.Width = vg.Points(1.5)
		projLine.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(projLine)
		p.Legend.Add("projection", projLine)
	}

	// Observed points on top.
	obs := make(plotter.XYs, s.Len())
	for i := range s.Years {
		obs[i] = plotter.XY{X: float64(s.Years[i]), Y: s.Values[i]}
	}
	sc, err := plotter.NewScatter(obs)
	if err != nil {
		return fmt.Errorf("observed scatter: %w", err)
	}
	sc.GlyphStyle.Color = color.RGBA{A: 255}
	sc.GlyphStyle.Radius = vg.Points(2.5)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(sc)
	p.Legend.Add("observed", sc)

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// CorrelationHeatmap renders the indicator correlation matrix.
func CorrelationHeatmap(c *analysis.CorrMatrix, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Indicator correlation (n=%d)", c.N)
	p.Title.TextStyle.Font.Size = vg.Points(14)

	pal := moreland.SmoothBlueRed().Palette(255)
	h := plotter.NewHeatMap(corrGrid{c}, pal)
	h.Min, h.Max = -1, 1
	p.Add(h)

	ticks := make([]plot.Tick, c.Len())
	for i, ind := range c.Indicators {
		ticks[i] = plot.Tick{Value: float64(i), Label: ind}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)

	return p.Save(7*vg.Inch, 6*vg.Inch, path)
}

// corrGrid adapts a CorrMatrix to plotter.GridXYZ.
type corrGrid struct {
	c *analysis.CorrMatrix
}

func (g corrGrid) Dims() (int, int)       { return g.c.Len(), g.c.Len() }
func (g corrGrid) Z(col, row int) float64 { return g.c.At(row, col) }
func (g corrGrid) X(col int) float64      { return float64(col) }
func (g corrGrid) Y(row int) float64      { return float64(row) }

// yearGrid produces a half-year-step grid for smooth curves and bands.
func yearGrid(from, to float64) []float64 {
	var grid []float64
	for y := from; y <= to; y += 0.5 {
		grid = append(grid, y)
	}
	if len(grid) == 0 || grid[len(grid)-1] < to {
		grid = append(grid, to)
	}
	return grid
}

func indexOf(items []string, want string) int {
	for i, item := range items {
		if item == want {
			return i
		}
	}
	return -1
}
