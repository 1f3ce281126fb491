package forward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestLinearSimulation(t *testing.T) {
	G := mat.NewDense(2, 3, []float64{
		1, 2, 0,
		0, 1, -1,
	})
	sim := NewLinearSimulation(G)

	// forward apply
	{
		d := sim.Dpred([]float64{1, 1, 1})
		assert.Equal(t, []float64{3, 0}, d)
		assert.Equal(t, 2, sim.ND())
		assert.Equal(t, 3, sim.NP())
	}
	// Jvec is G, Jtvec is G transpose
	{
		assert.Equal(t, []float64{3, 0}, sim.JvecApprox(nil, []float64{1, 1, 1}, nil))
		assert.Equal(t, []float64{1, 3, -1}, sim.Jtvec(nil, []float64{1, 1}, nil))
		assert.Equal(t, sim.Jtvec(nil, []float64{1, 1}, nil), sim.JtvecApprox(nil, []float64{1, 1}, nil))
	}
	// adjoint identity: (G v).w == v.(G^T w)
	{
		v := []float64{0.5, -1, 2}
		w := []float64{3, -2}
		gv := sim.JvecApprox(nil, v, nil)
		gtw := sim.Jtvec(nil, w, nil)
		var lhs, rhs float64
		for i := range gv {
			lhs += gv[i] * w[i]
		}
		for i := range v {
			rhs += v[i] * gtw[i]
		}
		assert.InDelta(t, lhs, rhs, 1e-12)
	}
	// shape violations fail loudly
	{
		assert.Panics(t, func() { sim.Dpred([]float64{1, 2}) })
		assert.Panics(t, func() { sim.Jtvec(nil, []float64{1, 2, 3}, nil) })
	}
	// fields solve records the model
	{
		assert.Nil(t, sim.Model())
		sim.Fields([]float64{1, 2, 3})
		assert.Equal(t, []float64{1, 2, 3}, sim.Model())
	}
}

func TestLinearSurvey(t *testing.T) {
	G := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	sim := NewLinearSimulation(G)

	// pairing requires matching data counts
	{
		s := NewLinearSurvey([]float64{1, 2, 3})
		assert.Error(t, s.Pair(sim))
		assert.False(t, s.IsPaired())
	}
	// residual is predicted minus observed
	{
		s := NewLinearSurvey([]float64{1, 2})
		assert.NoError(t, s.Pair(sim))
		assert.True(t, s.IsPaired())
		r := s.Residual([]float64{1.5, 1.5}, nil)
		assert.Equal(t, []float64{0.5, -0.5}, r)
		// supplied fields bypass the solve
		r = s.Residual(nil, []float64{2, 2})
		assert.Equal(t, []float64{1, 0}, r)
	}
	// residual works on a copy; caller-owned fields and dobs stay intact
	{
		s := NewLinearSurvey([]float64{1, 2})
		assert.NoError(t, s.Pair(sim))
		f := []float64{2, 2}
		_ = s.Residual(nil, f)
		assert.Equal(t, []float64{2, 2}, f)
		assert.Equal(t, []float64{1, 2}, s.Dobs())
	}
	// noise model is optional
	{
		s := NewLinearSurvey([]float64{1, 2})
		_, ok := s.Std()
		assert.False(t, ok)
		std := 0.02
		s.StdV = &std
		v, ok := s.Std()
		assert.True(t, ok)
		assert.Equal(t, 0.02, v)
	}
}
