package tdem

import (
	"fmt"

	"github.com/geoscale/gotdem/forward"
	"github.com/geoscale/gotdem/mesh"
	"github.com/geoscale/gotdem/utils"
)

// Mu0 is the permeability of free space.
const Mu0 = 4e-7 * 3.141592653589793

// Receiver ties measurement locations to a source.
type Receiver struct {
	Locations []mesh.Point
	Times     []float64
}

func (r *Receiver) ND() int { return len(r.Locations) * len(r.Times) }

// Source produces the forcing terms and initial condition contributions a
// transmitter injects into the time stepper. Methods return the additive
// identity where a variant makes no contribution.
type Source interface {
	Receivers() []*Receiver
	Waveform() Waveform
	SetWaveform(w Waveform) error

	BInitial(prob forward.Problem) utils.Term
	BInitialDeriv(prob forward.Problem, v []float64, adjoint bool) utils.Term
	EInitial(prob forward.Problem) utils.Term
	EInitialDeriv(prob forward.Problem, v []float64, adjoint bool) utils.Term
	HInitial(prob forward.Problem) utils.Term
	HInitialDeriv(prob forward.Problem, v []float64, adjoint bool) utils.Term
	JInitial(prob forward.Problem) utils.Term
	JInitialDeriv(prob forward.Problem, v []float64, adjoint bool) utils.Term

	SM(prob forward.Problem, time float64) utils.Term
	SE(prob forward.Problem, time float64) utils.Term
	SMDeriv(prob forward.Problem, time float64, v []float64, adjoint bool) utils.Term
	SEDeriv(prob forward.Problem, time float64, v []float64, adjoint bool) utils.Term
}

// Eval returns the pair of magnetic and electric forcing terms at time.
func Eval(s Source, prob forward.Problem, time float64) (sm, se utils.Term) {
	sm = s.SM(prob, time)
	se = s.SE(prob, time)
	return
}

// EvalDeriv returns the directional derivatives of both forcing terms along v.
func EvalDeriv(s Source, prob forward.Problem, time float64, v []float64, adjoint bool) (smDeriv, seDeriv utils.Term) {
	smDeriv = s.SMDeriv(prob, time, v, adjoint)
	seDeriv = s.SEDeriv(prob, time, v, adjoint)
	return
}

// EvalDerivFuncs returns the derivative operators as closures, for callers
// that apply them to many directions.
func EvalDerivFuncs(s Source, prob forward.Problem, time float64, adjoint bool) (smDeriv, seDeriv func(v []float64) utils.Term) {
	smDeriv = func(v []float64) utils.Term { return s.SMDeriv(prob, time, v, adjoint) }
	seDeriv = func(v []float64) utils.Term { return s.SEDeriv(prob, time, v, adjoint) }
	return
}

// SrcBase carries the receiver list and the waveform binding shared by all
// source variants. The zero contribution defaults live here so variants only
// override what they produce.
type SrcBase struct {
	rxList   []*Receiver
	waveform Waveform
}

func (s *SrcBase) Receivers() []*Receiver { return s.rxList }
func (s *SrcBase) Waveform() Waveform     { return s.waveform }

// SetWaveform binds a waveform to the source. The first assignment validates
// and stores the value. A second assignment does NOT replace it: the incoming
// waveform is wrapped in step-off semantics, keeping only its off-time. This
// surprising behavior is kept for compatibility with existing surveys that
// depend on it.
func (s *SrcBase) SetWaveform(w Waveform) (err error) {
	if w == nil {
		err = fmt.Errorf("source waveform must not be nil")
		return
	}
	if w.OffTime() < 0 {
		err = fmt.Errorf("waveform off-time must be non-negative, got %v", w.OffTime())
		return
	}
	if s.waveform == nil {
		s.waveform = w
		return
	}
	s.waveform = NewStepOffWaveform(w.OffTime())
	return
}

func (s *SrcBase) BInitial(prob forward.Problem) utils.Term { return utils.Zero() }
func (s *SrcBase) BInitialDeriv(prob forward.Problem, v []float64, adjoint bool) utils.Term {
	return utils.Zero()
}
func (s *SrcBase) EInitial(prob forward.Problem) utils.Term { return utils.Zero() }
func (s *SrcBase) EInitialDeriv(prob forward.Problem, v []float64, adjoint bool) utils.Term {
	return utils.Zero()
}
func (s *SrcBase) HInitial(prob forward.Problem) utils.Term { return utils.Zero() }
func (s *SrcBase) HInitialDeriv(prob forward.Problem, v []float64, adjoint bool) utils.Term {
	return utils.Zero()
}
func (s *SrcBase) JInitial(prob forward.Problem) utils.Term { return utils.Zero() }
func (s *SrcBase) JInitialDeriv(prob forward.Problem, v []float64, adjoint bool) utils.Term {
	return utils.Zero()
}

func (s *SrcBase) SM(prob forward.Problem, time float64) utils.Term { return utils.Zero() }
func (s *SrcBase) SE(prob forward.Problem, time float64) utils.Term { return utils.Zero() }
func (s *SrcBase) SMDeriv(prob forward.Problem, time float64, v []float64, adjoint bool) utils.Term {
	return utils.Zero()
}
func (s *SrcBase) SEDeriv(prob forward.Problem, time float64, v []float64, adjoint bool) utils.Term {
	return utils.Zero()
}
