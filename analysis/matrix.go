package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/wdilens-org/wdilens/dataset"
)

// ============================================================================
// MATRIX EXTRACTION — Panel → gonum mat.Dense
// ============================================================================
// Numeric stages (correlation, clustering) need a dense matrix of
// complete cases. Matrix restricts the panel to rows where every
// requested indicator carries a value and keeps row provenance so
// results can be mapped back to countries.
// ============================================================================

var (
	// ErrNoIndicators is returned when no indicator columns are requested.
	ErrNoIndicators = errors.New("analysis: no indicators selected")
	// ErrTooFewRows is returned when complete cases are insufficient
	// for the requested computation.
	ErrTooFewRows = errors.New("analysis: too few complete rows")
)

// RowRef identifies the panel row behind a matrix row.
type RowRef struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
}

func (r RowRef) String() string { return fmt.Sprintf("%s %d", r.Country, r.Year) }

// Matrix extracts complete-case rows for the given indicators as a
// rows×len(indicators) dense matrix, plus per-row provenance.
func Matrix(p *dataset.Panel, indicators []string) (*mat.Dense, []RowRef, error) {
	if len(indicators) == 0 {
		return nil, nil, ErrNoIndicators
	}

	complete := p.DropIncomplete(indicators...)
	n := complete.Rows()
	if n == 0 {
		return nil, nil, ErrTooFewRows
	}

	m := mat.NewDense(n, len(indicators), nil)
	refs := make([]RowRef, n)
	for i := 0; i < n; i++ {
		refs[i] = RowRef{Country: complete.RowCountry(i), Year: complete.RowYear(i)}
		for j, ind := range indicators {
			v, err := complete.Value(i, ind)
			if err != nil {
				return nil, nil, err
			}
			m.Set(i, j, v)
		}
	}
	return m, refs, nil
}
