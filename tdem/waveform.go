package tdem

import "fmt"

// Waveform is the time dependent amplitude of a transmitter. StepOff and
// Triangular carry their energy in the initial conditions; Raw injects it
// through the forcing term over time.
type Waveform interface {
	// Eval returns the source amplitude at time.
	Eval(time float64) float64
	HasInitialFields() bool
	OffTime() float64

	isTDEMWaveform()
}

type StepOffWaveform struct {
	offTime float64
}

func NewStepOffWaveform(offTime float64) *StepOffWaveform {
	return &StepOffWaveform{offTime: offTime}
}

// Eval is identically zero: the step-off field is carried entirely by the
// initial conditions.
func (w *StepOffWaveform) Eval(time float64) float64 { return 0 }
func (w *StepOffWaveform) HasInitialFields() bool    { return true }
func (w *StepOffWaveform) OffTime() float64          { return w.offTime }
func (w *StepOffWaveform) isTDEMWaveform()           {}

// RawWaveform delegates to a user supplied amplitude function of time.
type RawWaveform struct {
	offTime          float64
	waveFct          func(time float64) float64
	hasInitialFields bool
}

func NewRawWaveform(offTime float64, waveFct func(time float64) float64, hasInitialFieldsO ...bool) *RawWaveform {
	w := &RawWaveform{offTime: offTime, waveFct: waveFct}
	if len(hasInitialFieldsO) != 0 {
		w.hasInitialFields = hasInitialFieldsO[0]
	}
	return w
}

func (w *RawWaveform) Eval(time float64) float64 {
	if w.waveFct == nil {
		panic(fmt.Errorf("RawWaveform has no amplitude function assigned"))
	}
	return w.waveFct(time)
}

func (w *RawWaveform) HasInitialFields() bool { return w.hasInitialFields }
func (w *RawWaveform) OffTime() float64       { return w.offTime }
func (w *RawWaveform) isTDEMWaveform()        {}

// TriangularWaveform is an intentional stub: constructing one is allowed so
// configurations can be staged, but evaluation fails loudly.
type TriangularWaveform struct {
	offTime float64
}

func NewTriangularWaveform(offTime float64) *TriangularWaveform {
	return &TriangularWaveform{offTime: offTime}
}

func (w *TriangularWaveform) Eval(time float64) float64 {
	panic(fmt.Errorf("TriangularWaveform eval is not implemented"))
}

func (w *TriangularWaveform) HasInitialFields() bool { return true }
func (w *TriangularWaveform) OffTime() float64       { return w.offTime }
func (w *TriangularWaveform) isTDEMWaveform()        {}
