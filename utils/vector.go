package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v", n, len(dataO[0]))
			panic(err)
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	R = Vector{v}
	return
}

func (v Vector) Len() int         { return v.V.Len() }
func (v Vector) DataP() []float64 { return v.V.RawVector().Data }

// Chainable (extended) methods
func (v Vector) Copy() (R Vector) {
	var (
		data  = v.DataP()
		dataR = make([]float64, len(data))
	)
	copy(dataR, data)
	R = NewVector(len(dataR), dataR)
	return
}

func (v Vector) Scale(a float64) Vector {
	var (
		data = v.DataP()
	)
	for i := range data {
		data[i] *= a
	}
	return v
}

func (v Vector) Add(a Vector) Vector {
	v.V.AddVec(v.V, a.V)
	return v
}

func (v Vector) Subtract(a Vector) Vector {
	v.V.SubVec(v.V, a.V)
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector {
	var (
		data = v.DataP()
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

func (v Vector) Dot(a Vector) (d float64) {
	d = mat.Dot(v.V, a.V)
	return
}

func (v Vector) Norm2() (n float64) {
	n = mat.Norm(v.V, 2)
	return
}

func VecConcat(vs ...Vector) (R Vector) {
	var (
		N int
	)
	for _, v := range vs {
		N += v.Len()
	}
	var (
		data   = make([]float64, N)
		offset int
	)
	for _, v := range vs {
		copy(data[offset:], v.DataP())
		offset += v.Len()
	}
	R = NewVector(N, data)
	return
}

func VecNorm2(data []float64) (n float64) {
	for _, val := range data {
		n += val * val
	}
	n = math.Sqrt(n)
	return
}
