package misfit

import (
	"fmt"
	"math"
	"sync"

	"github.com/geoscale/gotdem/forward"
	"github.com/geoscale/gotdem/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// DefaultEpsFactor scales the data norm into the default noise floor.
const DefaultEpsFactor = 1e-5

// L2DataMisfit is the weighted least squares objective
//
//	phi_d(m) = 1/2 || W (dpred(m) - dobs) ||^2
//
// over an adjoint-capable forward simulation. The weighting products run as
// deferred stages so independent evaluations overlap.
type L2DataMisfit struct {
	survey  forward.Survey
	sim     forward.Simulation
	mapping forward.Mapping
	logger  *zap.Logger

	Std   float64
	Eps   float64
	Scale float64

	mu   sync.Mutex
	w    utils.CSR
	wSet bool
}

type Option func(*L2DataMisfit)

func WithLogger(l *zap.Logger) Option      { return func(d *L2DataMisfit) { d.logger = l } }
func WithMapping(m forward.Mapping) Option { return func(d *L2DataMisfit) { d.mapping = m } }
func WithStd(std float64) Option           { return func(d *L2DataMisfit) { d.Std = std } }
func WithEps(eps float64) Option           { return func(d *L2DataMisfit) { d.Eps = eps } }
func WithScale(scale float64) Option       { return func(d *L2DataMisfit) { d.Scale = scale } }

// NewL2DataMisfit builds the objective for a survey that is already paired
// to its simulation. Missing std/eps fall back to safe defaults with a
// warning, since the choice materially changes inversion results.
func NewL2DataMisfit(survey forward.Survey, opts ...Option) (d *L2DataMisfit, err error) {
	if survey == nil {
		err = fmt.Errorf("survey must not be nil")
		return
	}
	if !survey.IsPaired() {
		err = fmt.Errorf("the survey must be paired to a simulation before building a data misfit")
		return
	}
	d = &L2DataMisfit{
		survey: survey,
		sim:    survey.Simulation(),
		Scale:  1,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}

	if d.Std == 0 {
		if std, ok := survey.Std(); ok {
			d.Std = std
		} else {
			d.Std = 0.05
			d.logger.Warn("assigning default relative data error",
				zap.Float64("std", d.Std))
		}
	}
	if d.Eps == 0 {
		if eps, ok := survey.Eps(); ok {
			d.Eps = eps
		} else {
			d.Eps = DefaultEpsFactor * floats.Norm(survey.Dobs(), 2)
			d.logger.Warn("assigning default noise floor of 1e-5 * ||dobs||",
				zap.Float64("eps", d.Eps))
		}
	}
	return
}

// W is the data weighting matrix, built lazily as the diagonal
// 1/(|dobs|*std + eps) unless one was assigned.
func (d *L2DataMisfit) W() utils.CSR {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.wSet {
		dobs := d.survey.Dobs()
		diag := utils.NewVector(len(dobs), dobs).Copy().
			Apply(func(val float64) float64 { return 1 / (math.Abs(val)*d.Std + d.Eps) })
		d.w = utils.Sdiag(diag.DataP())
		d.wSet = true
	}
	return d.w
}

// SetW assigns an explicit nD x nD weighting matrix.
func (d *L2DataMisfit) SetW(w utils.CSR) (err error) {
	var (
		nD     = d.survey.ND()
		nr, nc = w.Dims()
	)
	if nr != nD || nc != nD {
		err = fmt.Errorf("W must have shape (%d,%d), not (%d,%d)", nD, nD, nr, nc)
		return
	}
	d.mu.Lock()
	d.w = w
	d.wSet = true
	d.mu.Unlock()
	return
}

// SetWVec promotes a weight vector to the diagonal weighting matrix.
func (d *L2DataMisfit) SetWVec(w []float64) (err error) {
	if len(w) != d.survey.ND() {
		err = fmt.Errorf("W must have shape (%d,%d), not (%d,1)", d.survey.ND(), d.survey.ND(), len(w))
		return
	}
	err = d.SetW(utils.Sdiag(w))
	return
}

// NP reports the number of inversion parameters, or -1 when it cannot be
// derived yet.
func (d *L2DataMisfit) NP() int {
	if d.mapping != nil {
		return d.mapping.NP()
	}
	if m := d.sim.Model(); m != nil {
		return len(m)
	}
	return -1
}

func (d *L2DataMisfit) fields(m []float64, f forward.Fields) forward.Fields {
	if f == nil {
		f = d.sim.Fields(m)
	}
	return f
}

// Value evaluates the objective at model m, reusing fields f when supplied.
func (d *L2DataMisfit) Value(m []float64, f forward.Fields) float64 {
	f = d.fields(m, f)
	var (
		W  = d.W()
		r  = d.survey.Residual(m, f)
		wr = utils.Go(func() []float64 { return W.MulVec(r) })
	)
	v := wr.Value()
	return 0.5 * floats.Dot(v, v)
}

// Deriv is the gradient J^T W^T W r, exact for fixed W by the adjoint-state
// chain rule.
func (d *L2DataMisfit) Deriv(m []float64, f forward.Fields) []float64 {
	f = d.fields(m, f)
	var (
		W  = d.W()
		r  = d.survey.Residual(m, f)
		wr = utils.Go(func() []float64 { return W.MulVec(r) })
		wtwr = wr.Then(func(v []float64) []float64 {
			if d.Scale != 1 {
				scaled := make([]float64, len(v))
				for i, val := range v {
					scaled[i] = d.Scale * val
				}
				v = scaled
			}
			return W.MulVecT(v)
		})
	)
	return d.sim.Jtvec(m, wtwr.Value(), f)
}

// Deriv2 is the Gauss-Newton Hessian product J^T W^T W J v, assembled from
// the approximate Jacobian products without materializing J.
func (d *L2DataMisfit) Deriv2(m, v []float64, f forward.Fields) []float64 {
	f = d.fields(m, f)
	var (
		W   = d.W()
		jv  = d.sim.JvecApprox(m, v, f)
		wjv = utils.Go(func() []float64 { return W.MulVec(jv) })
		wtwjv = wjv.Then(func(u []float64) []float64 {
			return W.MulVecT(u)
		})
	)
	return d.sim.JtvecApprox(m, wtwjv.Value(), f)
}
