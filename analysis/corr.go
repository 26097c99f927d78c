package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/wdilens-org/wdilens/dataset"
)

// ============================================================================
// CORRELATION — Pearson Matrix Across Indicator Columns
// ============================================================================
// Computed over complete cases only, so every pairwise coefficient is
// backed by the same row set.
// ============================================================================

// CorrMatrix is a symmetric Pearson correlation matrix over indicators.
type CorrMatrix struct {
	Indicators []string
	N          int // complete cases behind every coefficient

	m *mat.SymDense
}

// Correlation computes the Pearson correlation matrix over the panel's
// indicator columns (default: all of them).
func Correlation(p *dataset.Panel, indicators ...string) (*CorrMatrix, error) {
	if len(indicators) == 0 {
		indicators = p.Indicators()
	}

	m, _, err := Matrix(p, indicators)
	if err != nil {
		return nil, err
	}
	rows, _ := m.Dims()
	if rows < 2 {
		return nil, fmt.Errorf("%w: correlation needs at least 2 rows, have %d", ErrTooFewRows, rows)
	}

	sym := mat.NewSymDense(len(indicators), nil)
	stat.CorrelationMatrix(sym, m, nil)

	return &CorrMatrix{Indicators: indicators, N: rows, m: sym}, nil
}

// At returns the coefficient between indicator columns i and j.
func (c *CorrMatrix) At(i, j int) float64 { return c.m.At(i, j) }

// Len returns the number of indicators.
func (c *CorrMatrix) Len() int { return len(c.Indicators) }

// Pair returns the coefficient between two indicators by name.
func (c *CorrMatrix) Pair(a, b string) (float64, error) {
	ia, ib := c.index(a), c.index(b)
	if ia < 0 {
		return 0, fmt.Errorf("%w: %q", dataset.ErrUnknownIndicator, a)
	}
	if ib < 0 {
		return 0, fmt.Errorf("%w: %q", dataset.ErrUnknownIndicator, b)
	}
	return c.m.At(ia, ib), nil
}

// Strongest returns the most correlated indicator pair (by absolute
// coefficient), useful for picking cluster axes.
func (c *CorrMatrix) Strongest() (string, string, float64) {
	var bestA, bestB string
	var best float64
	for i := 0; i < c.Len(); i++ {
		for j := i + 1; j < c.Len(); j++ {
			v := c.m.At(i, j)
			if abs(v) > abs(best) || bestA == "" {
				best = v
				bestA, bestB = c.Indicators[i], c.Indicators[j]
			}
		}
	}
	return bestA, bestB, best
}

func (c *CorrMatrix) index(name string) int {
	for i, ind := range c.Indicators {
		if ind == name {
			return i
		}
	}
	return -1
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
