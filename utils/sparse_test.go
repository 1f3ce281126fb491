package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparse(t *testing.T) {
	// Sdiag builds the diagonal
	{
		W := Sdiag([]float64{2, 3, 4})
		nr, nc := W.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 3, nc)
		assert.Equal(t, 3., W.At(1, 1))
		assert.Equal(t, 0., W.At(0, 1))
	}
	// MulVec against a hand-computed product
	{
		dok := NewDOK(2, 3)
		dok.Set(0, 0, 1)
		dok.Set(0, 2, 2)
		dok.Set(1, 1, -1)
		A := dok.ToCSR()
		y := A.MulVec([]float64{1, 2, 3})
		assert.Equal(t, []float64{7, -2}, y)
	}
	// MulVecT equals the transpose product
	{
		dok := NewDOK(2, 3)
		dok.Set(0, 0, 1)
		dok.Set(0, 2, 2)
		dok.Set(1, 1, -1)
		A := dok.ToCSR()
		y := A.MulVecT([]float64{1, 2})
		assert.Equal(t, []float64{1, -2, 2}, y)
	}
	// dimension mismatches fail loudly
	{
		A := Sdiag([]float64{1, 2})
		assert.Panics(t, func() { A.MulVec([]float64{1, 2, 3}) })
		assert.Panics(t, func() { A.MulVecT([]float64{1}) })
	}
	// read only DOK rejects writes
	{
		dok := NewDOK(2, 2)
		dok.Set(0, 0, 1)
		dok.SetReadOnly("locked")
		assert.Panics(t, func() { dok.Set(1, 1, 2) })
	}
	// Accumulate sums into an entry
	{
		dok := NewDOK(1, 1)
		dok.Accumulate(0, 0, 1)
		dok.Accumulate(0, 0, 2)
		assert.Equal(t, 3., dok.At(0, 0))
	}
}
