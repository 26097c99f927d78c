package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// SCALING — Column Normalization with Inverse Transform
// ============================================================================
// Indicators live on wildly different scales (GDP in dollars, CO2 in
// tons per head), so clustering distances need normalized columns.
// The fitted Scaler keeps the inverse so centroids can be reported in
// original data units.
// ============================================================================

// ScaleKind selects the normalization applied to each column.
type ScaleKind int

const (
	// ScaleMinMax maps each column to [0, 1].
	ScaleMinMax ScaleKind = iota
	// ScaleZScore standardizes each column to mean 0, stddev 1.
	ScaleZScore
	// ScaleNone leaves columns untouched.
	ScaleNone
)

func (k ScaleKind) String() string {
	switch k {
	case ScaleMinMax:
		return "minmax"
	case ScaleZScore:
		return "zscore"
	default:
		return "none"
	}
}

// Scaler holds per-column statistics fitted from a matrix.
type Scaler struct {
	Kind ScaleKind

	Min  []float64
	Max  []float64
	Mean []float64
	Std  []float64
}

// FitScaler computes per-column statistics for the given matrix.
func FitScaler(m mat.Matrix, kind ScaleKind) *Scaler {
	rows, cols := m.Dims()
	s := &Scaler{
		Kind: kind,
		Min:  make([]float64, cols),
		Max:  make([]float64, cols),
		Mean: make([]float64, cols),
		Std:  make([]float64, cols),
	}

	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		s.Min[j], s.Max[j] = floats.Min(col), floats.Max(col)
		s.Mean[j], s.Std[j] = stat.MeanStdDev(col, nil)
	}
	return s
}

// Transform returns a new matrix with each column normalized.
// A constant column maps to zero rather than dividing by zero.
func (s *Scaler) Transform(m mat.Matrix) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, s.scale(m.At(i, j), j))
		}
	}
	return out
}

// Inverse maps a point in scaled space back to original units.
func (s *Scaler) Inverse(coords []float64) []float64 {
	out := make([]float64, len(coords))
	for j, v := range coords {
		out[j] = s.unscale(v, j)
	}
	return out
}

func (s *Scaler) scale(v float64, j int) float64 {
	switch s.Kind {
	case ScaleMinMax:
		span := s.Max[j] - s.Min[j]
		if span == 0 {
			return 0
		}
		return (v - s.Min[j]) / span
	case ScaleZScore:
		if s.Std[j] == 0 {
			return 0
		}
		return (v - s.Mean[j]) / s.Std[j]
	default:
		return v
	}
}

func (s *Scaler) unscale(v float64, j int) float64 {
	switch s.Kind {
	case ScaleMinMax:
		return s.Min[j] + v*(s.Max[j]-s.Min[j])
	case ScaleZScore:
		return s.Mean[j] + v*s.Std[j]
	default:
		return v
	}
}
