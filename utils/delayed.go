package utils

// Future is a deferred vector computation. Stages are launched eagerly on
// goroutines but joined lazily, so independent products (across sources or
// misfit terms) overlap while dependent stages chain through Then.
type Future struct {
	done chan struct{}
	val  []float64
}

func Go(f func() []float64) (r *Future) {
	r = &Future{done: make(chan struct{})}
	go func() {
		r.val = f()
		close(r.done)
	}()
	return
}

// Resolved wraps an already-computed vector so it can enter a deferred chain.
func Resolved(val []float64) (r *Future) {
	r = &Future{done: make(chan struct{}), val: val}
	close(r.done)
	return
}

// Value joins the computation. Safe to call repeatedly and from multiple
// goroutines.
func (f *Future) Value() []float64 {
	<-f.done
	return f.val
}

// Then chains a dependent stage, producing a new Future.
func (f *Future) Then(g func([]float64) []float64) (r *Future) {
	r = Go(func() []float64 {
		return g(f.Value())
	})
	return
}

// WaitAll joins a set of independent futures.
func WaitAll(fs ...*Future) (vals [][]float64) {
	vals = make([][]float64, len(fs))
	for i, f := range fs {
		vals[i] = f.Value()
	}
	return
}
