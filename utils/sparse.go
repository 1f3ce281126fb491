package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m DOK) Set(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, val)
}

func (m DOK) Accumulate(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

type CSR struct {
	M    *sparse.CSR
	name string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }

// Sdiag builds a sparse diagonal matrix from the entries of d.
func Sdiag(d []float64) (R CSR) {
	var (
		n   = len(d)
		dok = NewDOK(n, n)
	)
	for i, val := range d {
		dok.Set(i, i, val)
	}
	R = dok.ToCSR()
	return
}

// MulVec computes y = M*x over the nonzero pattern only.
func (m CSR) MulVec(x []float64) (y []float64) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		err := fmt.Errorf("dimension mismatch in MulVec: matrix is %dx%d, len(x) = %d", nr, nc, len(x))
		panic(err)
	}
	y = make([]float64, nr)
	m.M.DoNonZero(func(i, j int, val float64) {
		y[i] += val * x[j]
	})
	return
}

// MulVecT computes y = Mᵀ*x without forming the transpose.
func (m CSR) MulVecT(x []float64) (y []float64) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nr {
		err := fmt.Errorf("dimension mismatch in MulVecT: matrix is %dx%d, len(x) = %d", nr, nc, len(x))
		panic(err)
	}
	y = make([]float64, nc)
	m.M.DoNonZero(func(i, j int, val float64) {
		y[j] += val * x[i]
	})
	return
}
