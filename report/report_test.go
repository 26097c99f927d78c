package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wdilens-org/wdilens/analysis"
	"github.com/wdilens-org/wdilens/dataset"
	"github.com/wdilens-org/wdilens/fit"
)

func fixturePanel(t *testing.T) *dataset.Panel {
	t.Helper()

	var obs []dataset.Observation
	add := func(country string, year int, gdp, co2 float64) {
		obs = append(obs,
			dataset.Observation{Country: country, Indicator: "gdp", Year: year, Value: gdp},
			dataset.Observation{Country: country, Indicator: "co2", Year: year, Value: co2},
		)
	}
	for y := 1990; y <= 1999; y++ {
		i := float64(y - 1990)
		add("Richland", y, 30000+500*i, 10+0.2*i)
		add("Growland", y, 1000+150*i, 1+0.1*i)
	}

	p, err := dataset.Pivot(obs, "gdp", "co2")
	require.NoError(t, err)
	return p
}

func fixtureClustering(t *testing.T) *analysis.Clustering {
	t.Helper()
	c, err := analysis.KMeans(fixturePanel(t), []string{"gdp", "co2"}, 2)
	require.NoError(t, err)
	return c
}

func fixtureModel(t *testing.T) (*fit.Model, dataset.Series) {
	t.Helper()
	s, err := fixturePanel(t).Series("Growland", "gdp")
	require.NoError(t, err)
	m, err := fit.Linear(s)
	require.NoError(t, err)
	return m, s
}

func TestClusterScatterRendersPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.png")
	err := ClusterScatter(fixtureClustering(t), "gdp", "co2", path)
	require.NoError(t, err)
	assertNonEmptyFile(t, path)
}

func TestClusterScatterUnknownAxis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.png")
	err := ClusterScatter(fixtureClustering(t), "gdp", "life_expectancy", path)
	assert.ErrorIs(t, err, dataset.ErrUnknownIndicator)
}

func TestFitCurveRendersPNG(t *testing.T) {
	m, s := fixtureModel(t)
	proj, err := m.Project(2000, 2010, 0.95)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "fit.png")
	require.NoError(t, FitCurve(s, m, proj, 0.95, path))
	assertNonEmptyFile(t, path)

	// Projection is optional.
	path2 := filepath.Join(t.TempDir(), "fit_noproj.png")
	require.NoError(t, FitCurve(s, m, nil, 0.95, path2))
	assertNonEmptyFile(t, path2)
}

func TestCorrelationHeatmapRendersPNG(t *testing.T) {
	corr, err := analysis.Correlation(fixturePanel(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "corr.png")
	require.NoError(t, CorrelationHeatmap(corr, path))
	assertNonEmptyFile(t, path)
}

func TestTables(t *testing.T) {
	var buf bytes.Buffer

	WriteClusterTable(&buf, fixtureClustering(t))
	out := buf.String()
	assert.Contains(t, out, "Richland")
	assert.Contains(t, out, "Growland")
	assert.Contains(t, out, "Centroids")

	buf.Reset()
	corr, err := analysis.Correlation(fixturePanel(t))
	require.NoError(t, err)
	WriteCorrelationTable(&buf, corr)
	assert.Contains(t, buf.String(), "gdp")

	buf.Reset()
	m, _ := fixtureModel(t)
	WriteFitTable(&buf, []*fit.Model{m})
	out = buf.String()
	assert.Contains(t, out, "Growland")
	assert.Contains(t, out, "linear")

	buf.Reset()
	proj, err := m.Project(2000, 2002, 0.95)
	require.NoError(t, err)
	WriteProjectionTable(&buf, []*fit.Projection{proj})
	assert.Contains(t, buf.String(), "2001")
}

func TestWriteWorkbook(t *testing.T) {
	c := fixtureClustering(t)
	corr, err := analysis.Correlation(fixturePanel(t))
	require.NoError(t, err)
	m, _ := fixtureModel(t)
	proj, err := m.Project(2000, 2005, 0.95)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "analysis.xlsx")
	require.NoError(t, WriteWorkbook(path, c, corr, []*fit.Model{m}, []*fit.Projection{proj}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{"Clusters", "Centroids", "Correlation", "Fits", "Projections"}, sheets)

	val, err := f.GetCellValue("Centroids", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Cluster", val)
}

func TestWriteWorkbookEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	err := WriteWorkbook(path, nil, nil, nil, nil)
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
