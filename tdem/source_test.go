package tdem

import (
	"testing"

	"github.com/geoscale/gotdem/forward"
	"github.com/geoscale/gotdem/mesh"
	"github.com/geoscale/gotdem/utils"
	"github.com/stretchr/testify/assert"
)

// testProblem is a minimal discretization context for source term tests.
type testProblem struct {
	msh         mesh.Mesh
	formulation forward.Formulation
	fieldType   forward.FieldType
	timeSteps   []float64
}

func (p *testProblem) Mesh() mesh.Mesh                  { return p.msh }
func (p *testProblem) Formulation() forward.Formulation { return p.formulation }
func (p *testProblem) FieldType() forward.FieldType     { return p.fieldType }
func (p *testProblem) TimeSteps() []float64             { return p.timeSteps }

func (p *testProblem) MfMui() utils.CSR {
	ones := make([]float64, p.msh.NumFaces())
	for i := range ones {
		ones[i] = 1
	}
	return utils.Sdiag(ones)
}

func newTestProblem(formulation forward.Formulation, fieldType forward.FieldType) *testProblem {
	h := []float64{1, 1}
	m, err := mesh.NewTensorMesh(h, h, h, mesh.Point{-1, -1, -1})
	if err != nil {
		panic(err)
	}
	return &testProblem{
		msh:         m,
		formulation: formulation,
		fieldType:   fieldType,
		timeSteps:   []float64{0, 1e-5, 2e-5, 4e-5},
	}
}

// cylStub mimics a cylindrical mesh for the not-implemented branch.
type cylStub struct {
	*mesh.TensorMesh
}

func (c cylStub) MeshType() mesh.Type { return mesh.TypeCylindrical }
func (c cylStub) IsSymmetric() bool   { return false }

func TestMagDipole(t *testing.T) {
	cfg := MagDipoleConfig{Location: mesh.Point{0.1, 0.05, 0.2}}

	// config defaults
	{
		s, err := NewMagDipole(nil, NewStepOffWaveform(0), cfg)
		assert.NoError(t, err)
		assert.Equal(t, 1., *s.Cfg.Moment)
		assert.Equal(t, Mu0, s.Cfg.Mu)
		assert.Equal(t, [3]float64{0, 0, 1}, s.Cfg.Orientation)
	}
	// an explicit zero moment is honored, not promoted to the unit default
	{
		moment := 0.
		cfgZero := cfg
		cfgZero.Moment = &moment
		s, err := NewMagDipole(nil, NewStepOffWaveform(0), cfgZero)
		assert.NoError(t, err)
		assert.Equal(t, 0., *s.Cfg.Moment)
		b := s.BInitial(newTestProblem(forward.EB, forward.FieldB))
		assert.InDelta(t, 0, utils.VecNorm2(b.Data()), 1e-18)
	}
	// invalid configs are rejected
	{
		moment := -1.
		_, err := NewMagDipole(nil, NewStepOffWaveform(0), MagDipoleConfig{Moment: &moment})
		assert.Error(t, err)
		_, err = NewMagDipole(nil, nil, cfg)
		assert.Error(t, err)
	}
	// waveform reassignment wraps into step-off semantics instead of
	// replacing; second assignment keeps only the off-time
	{
		s, _ := NewMagDipole(nil, NewStepOffWaveform(0), cfg)
		raw := NewRawWaveform(1e-3, func(time float64) float64 { return 5 })
		assert.NoError(t, s.SetWaveform(raw))
		w, ok := s.Waveform().(*StepOffWaveform)
		assert.True(t, ok)
		assert.Equal(t, 1e-3, w.OffTime())
		assert.True(t, w.HasInitialFields())
		assert.Equal(t, 0., w.Eval(1e-4))
	}
	// without initial fields everything initial is the additive identity
	{
		raw := NewRawWaveform(0, func(time float64) float64 { return 1 })
		s, _ := NewMagDipole(nil, raw, cfg)
		prob := newTestProblem(forward.EB, forward.FieldB)
		assert.True(t, s.BInitial(prob).IsZero())
		assert.True(t, s.HInitial(prob).IsZero())
		assert.True(t, s.EInitial(prob).IsZero())
		assert.True(t, s.JInitial(prob).IsZero())
		assert.True(t, s.SM(prob, 0).IsZero())
		// additive identity check against a concrete vector
		v := []float64{1, 2, 3}
		assert.Equal(t, []float64{1, 2, 3}, s.BInitial(prob).Add(utils.NewTerm(v)).Data())
	}
	// EB initial field lives on faces, HJ on edges
	{
		s, _ := NewMagDipole(nil, NewStepOffWaveform(0), cfg)
		probEB := newTestProblem(forward.EB, forward.FieldB)
		b := s.BInitial(probEB)
		assert.False(t, b.IsZero())
		assert.Equal(t, probEB.Mesh().NumFaces(), b.Len())
		assert.True(t, utils.VecNorm2(b.Data()) > 0)

		probHJ := newTestProblem(forward.HJ, forward.FieldH)
		bh := s.BInitial(probHJ)
		assert.Equal(t, probHJ.Mesh().NumEdges(), bh.Len())

		// hInitial = bInitial / mu
		h := s.HInitial(probEB)
		assert.InDelta(t, utils.VecNorm2(b.Data())/s.Cfg.Mu, utils.VecNorm2(h.Data()), 1e-12)
	}
	// first-step forcing: the stepped unknown carries nothing, the
	// companion unknown is seeded from the vector potential
	{
		s, _ := NewMagDipole(nil, NewStepOffWaveform(0), cfg)
		probB := newTestProblem(forward.EB, forward.FieldB)
		assert.True(t, s.SE(probB, 0).IsZero())

		probE := newTestProblem(forward.EB, forward.FieldE)
		se := s.SE(probE, 0)
		assert.False(t, se.IsZero())
		assert.Equal(t, probE.Mesh().NumEdges(), se.Len())

		probH := newTestProblem(forward.HJ, forward.FieldH)
		assert.True(t, s.SE(probH, 0).IsZero())
		probJ := newTestProblem(forward.HJ, forward.FieldJ)
		assert.False(t, s.SE(probJ, 0).IsZero())
	}
	// past the first step the forcing is amplitude scaled; step-off
	// amplitude is zero so the term is a concrete zero vector
	{
		s, _ := NewMagDipole(nil, NewStepOffWaveform(0), cfg)
		prob := newTestProblem(forward.EB, forward.FieldE)
		se := s.SE(prob, 3e-5)
		assert.False(t, se.IsZero())
		assert.InDelta(t, 0, utils.VecNorm2(se.Data()), 1e-18)
	}
	// all derivative paths are model independent
	{
		s, _ := NewMagDipole(nil, NewStepOffWaveform(0), cfg)
		prob := newTestProblem(forward.EB, forward.FieldE)
		v := []float64{1, 2}
		smD, seD := EvalDeriv(s, prob, 0, v, false)
		assert.True(t, smD.IsZero())
		assert.True(t, seD.IsZero())
		smF, seF := EvalDerivFuncs(s, prob, 0, true)
		assert.True(t, smF(v).IsZero())
		assert.True(t, seF(v).IsZero())
		assert.True(t, s.BInitialDeriv(prob, v, false).IsZero())
		assert.True(t, s.EInitialDeriv(prob, v, true).IsZero())
	}
	// non-symmetric cylindrical meshes are not implemented
	{
		s, _ := NewMagDipole(nil, NewStepOffWaveform(0), cfg)
		h := []float64{1, 1}
		tm, _ := mesh.NewTensorMesh(h, h, h, mesh.Point{-1, -1, -1})
		prob := &testProblem{
			msh:         cylStub{tm},
			formulation: forward.EB,
			fieldType:   forward.FieldB,
			timeSteps:   []float64{0, 1e-5},
		}
		assert.Panics(t, func() { s.BInitial(prob) })
	}
}

func TestCircularLoop(t *testing.T) {
	cfg := MagDipoleConfig{Location: mesh.Point{0.1, 0.05, 0.2}}

	// radius must be positive
	{
		_, err := NewCircularLoop(nil, NewStepOffWaveform(0), cfg, 0)
		assert.Error(t, err)
	}
	// loop initial field is nonzero and formulation-shaped like the dipole
	{
		s, err := NewCircularLoop(nil, NewStepOffWaveform(0), cfg, 0.5)
		assert.NoError(t, err)
		prob := newTestProblem(forward.EB, forward.FieldB)
		b := s.BInitial(prob)
		assert.Equal(t, prob.Mesh().NumFaces(), b.Len())
		assert.True(t, utils.VecNorm2(b.Data()) > 0)
	}
	// only z-oriented loops are implemented
	{
		s, _ := NewCircularLoop(nil, NewStepOffWaveform(0),
			MagDipoleConfig{Orientation: [3]float64{1, 0, 0}}, 0.5)
		prob := newTestProblem(forward.EB, forward.FieldB)
		assert.Panics(t, func() { s.BInitial(prob) })
	}
	// the source eval pair is (s_m, s_e)
	{
		s, _ := NewCircularLoop(nil, NewStepOffWaveform(0), cfg, 0.5)
		prob := newTestProblem(forward.EB, forward.FieldE)
		sm, se := Eval(s, prob, 0)
		assert.True(t, sm.IsZero())
		assert.False(t, se.IsZero())
	}
}
