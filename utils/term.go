package utils

import "fmt"

// Term is a source contribution: either a concrete vector or the additive
// identity. The identity form lets "no initial field" propagate through sums
// and scalings without allocating zero-filled vectors.
type Term struct {
	data []float64
}

func Zero() (t Term) {
	return
}

func NewTerm(data []float64) (t Term) {
	if data == nil {
		panic("NewTerm requires a concrete vector, use Zero() for the identity")
	}
	t = Term{data}
	return
}

func (t Term) IsZero() bool { return t.data == nil }

func (t Term) Data() []float64 { return t.data }

// Len returns -1 for the identity, which has no fixed dimension.
func (t Term) Len() int {
	if t.IsZero() {
		return -1
	}
	return len(t.data)
}

// Add combines two contributions, short-circuiting on the identity.
func (t Term) Add(u Term) (r Term) {
	switch {
	case t.IsZero():
		r = u
	case u.IsZero():
		r = t
	default:
		if len(t.data) != len(u.data) {
			err := fmt.Errorf("term length mismatch in Add: %d vs %d", len(t.data), len(u.data))
			panic(err)
		}
		data := make([]float64, len(t.data))
		for i, val := range t.data {
			data[i] = val + u.data[i]
		}
		r = NewTerm(data)
	}
	return
}

// Scale multiplies a concrete contribution; the identity absorbs any factor.
func (t Term) Scale(a float64) (r Term) {
	if t.IsZero() {
		return t
	}
	data := make([]float64, len(t.data))
	for i, val := range t.data {
		data[i] = a * val
	}
	r = NewTerm(data)
	return
}

// AddTo accumulates the contribution into dst, a no-op for the identity.
func (t Term) AddTo(dst []float64) {
	if t.IsZero() {
		return
	}
	if len(dst) != len(t.data) {
		err := fmt.Errorf("term length mismatch in AddTo: %d vs %d", len(t.data), len(dst))
		panic(err)
	}
	for i, val := range t.data {
		dst[i] += val
	}
}
