package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/mat"

	"github.com/wdilens-org/wdilens/dataset"
)

// ============================================================================
// CLUSTERING — KMeans over Normalized Indicator Columns
// ============================================================================
// Pipeline:
//   1. Extract complete-case matrix for the selected indicators
//   2. Normalize columns (min-max by default)
//   3. Partition with KMeans (github.com/muesli/kmeans)
//   4. Map assignments back to country-year rows
//   5. Report centroids in original data units + silhouette score
// ============================================================================

// ErrBadK is returned for a cluster count below 2.
var ErrBadK = errors.New("analysis: cluster count must be at least 2")

// Clustering is the result of a KMeans run.
type Clustering struct {
	Indicators []string `json:"indicators"`
	K          int      `json:"k"`

	// Row-aligned: Assignments[i] is the cluster of Rows[i], and
	// Points[i] holds its indicator values in original data units.
	Rows        []RowRef    `json:"rows"`
	Assignments []int       `json:"assignments"`
	Points      [][]float64 `json:"points"`

	// Centroids in original data units, one row per cluster.
	Centroids [][]float64 `json:"centroids"`
	Sizes     []int       `json:"sizes"`

	Silhouette float64 `json:"silhouette"`
}

// Option configures a KMeans run via functional options.
type Option func(*config)

type config struct {
	scale          ScaleKind
	deltaThreshold float64
}

// WithScale selects the column normalization (default min-max).
func WithScale(kind ScaleKind) Option {
	return func(c *config) { c.scale = kind }
}

// WithDeltaThreshold sets the convergence threshold passed to the
// KMeans partitioner.
func WithDeltaThreshold(d float64) Option {
	return func(c *config) { c.deltaThreshold = d }
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		scale:          ScaleMinMax,
		deltaThreshold: 0.01,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// KMeans clusters the panel's complete-case country-year rows over the
// given indicators.
func KMeans(p *dataset.Panel, indicators []string, k int, opts ...Option) (*Clustering, error) {
	cfg := applyOptions(opts)

	if k < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrBadK, k)
	}

	m, refs, err := Matrix(p, indicators)
	if err != nil {
		return nil, err
	}
	rows, _ := m.Dims()
	if rows < k {
		return nil, fmt.Errorf("%w: %d rows for k=%d", ErrTooFewRows, rows, k)
	}

	scaler := FitScaler(m, cfg.scale)
	scaled := scaler.Transform(m)

	// Hand the scaled rows to the partitioner.
	points := make(clusters.Observations, rows)
	for i := 0; i < rows; i++ {
		points[i] = clusters.Coordinates(scaled.RawRowView(i))
	}

	km, err := kmeans.NewWithOptions(cfg.deltaThreshold, nil)
	if err != nil {
		return nil, fmt.Errorf("kmeans setup failed: %w", err)
	}
	partition, err := km.Partition(points, k)
	if err != nil {
		return nil, fmt.Errorf("kmeans partition failed: %w", err)
	}

	// Map every row to its nearest center — Partition reorders its
	// observation lists, so assignment goes through Nearest.
	assignments := make([]int, rows)
	sizes := make([]int, len(partition))
	for i, pt := range points {
		c := partition.Nearest(pt)
		assignments[i] = c
		sizes[c]++
	}

	centroids := make([][]float64, len(partition))
	for c, cluster := range partition {
		centroids[c] = scaler.Inverse(cluster.Center)
	}

	raw := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		raw[i] = append([]float64(nil), m.RawRowView(i)...)
	}

	return &Clustering{
		Indicators:  indicators,
		K:           len(partition),
		Rows:        refs,
		Assignments: assignments,
		Points:      raw,
		Centroids:   centroids,
		Sizes:       sizes,
		Silhouette:  silhouette(scaled, assignments, len(partition)),
	}, nil
}

// PickK runs KMeans across [kMin, kMax] and returns the clustering with
// the best silhouette score, plus the per-k scores.
func PickK(p *dataset.Panel, indicators []string, kMin, kMax int, opts ...Option) (*Clustering, map[int]float64, error) {
	if kMin < 2 {
		kMin = 2
	}
	if kMax < kMin {
		return nil, nil, fmt.Errorf("%w: range %d-%d", ErrBadK, kMin, kMax)
	}

	scores := make(map[int]float64)
	var best *Clustering
	for k := kMin; k <= kMax; k++ {
		c, err := KMeans(p, indicators, k, opts...)
		if err != nil {
			if errors.Is(err, ErrTooFewRows) {
				break // larger k cannot succeed either
			}
			return nil, nil, err
		}
		scores[k] = c.Silhouette
		if best == nil || c.Silhouette > best.Silhouette {
			best = c
		}
	}
	if best == nil {
		return nil, nil, ErrTooFewRows
	}
	return best, scores, nil
}

// CountryClusters summarizes assignments per country: the cluster each
// country lands in most often across its years.
func (c *Clustering) CountryClusters() map[string]int {
	votes := make(map[string]map[int]int)
	for i, ref := range c.Rows {
		if votes[ref.Country] == nil {
			votes[ref.Country] = make(map[int]int)
		}
		votes[ref.Country][c.Assignments[i]]++
	}

	out := make(map[string]int, len(votes))
	for country, counts := range votes {
		bestCluster, bestCount := 0, -1
		for cluster, n := range counts {
			if n > bestCount || (n == bestCount && cluster < bestCluster) {
				bestCluster, bestCount = cluster, n
			}
		}
		out[country] = bestCluster
	}
	return out
}

// ============================================================================
// SILHOUETTE
// ============================================================================

// silhouette computes the mean silhouette coefficient over all points.
// a(i) = mean distance to points in the same cluster,
// b(i) = mean distance to points in the nearest other cluster.
func silhouette(m *mat.Dense, assignments []int, k int) float64 {
	n, _ := m.Dims()
	if n <= k || k < 2 {
		return 0
	}

	var total float64
	counted := 0
	for i := 0; i < n; i++ {
		a, b := meanDistances(m, assignments, i, k)
		if a < 0 || b < 0 {
			continue // singleton cluster or no other cluster
		}
		if s := math.Max(a, b); s > 0 {
			total += (b - a) / s
		}
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

func meanDistances(m *mat.Dense, assignments []int, i, k int) (own, nearest float64) {
	sums := make([]float64, k)
	counts := make([]int, k)
	n, _ := m.Dims()

	for j := 0; j < n; j++ {
		if j == i {
			continue
		}
		d := euclidean(m.RawRowView(i), m.RawRowView(j))
		sums[assignments[j]] += d
		counts[assignments[j]]++
	}

	self := assignments[i]
	if counts[self] == 0 {
		return -1, -1 // singleton
	}
	own = sums[self] / float64(counts[self])

	nearest = -1
	for c := 0; c < k; c++ {
		if c == self || counts[c] == 0 {
			continue
		}
		d := sums[c] / float64(counts[c])
		if nearest < 0 || d < nearest {
			nearest = d
		}
	}
	return own, nearest
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
