package forward

import (
	"fmt"

	"github.com/geoscale/gotdem/mesh"
	"github.com/geoscale/gotdem/utils"
)

// Formulation selects the field pair the PDE is discretized in.
type Formulation uint8

const (
	EB Formulation = iota // electric field / magnetic flux
	HJ                    // magnetic field / current density
)

func (f Formulation) String() string {
	switch f {
	case EB:
		return "EB"
	case HJ:
		return "HJ"
	}
	return "UNKNOWN"
}

// ParseFormulation maps the input file spelling onto the enum. Empty input
// takes the EB default.
func ParseFormulation(s string) (Formulation, error) {
	switch s {
	case "", "EB":
		return EB, nil
	case "HJ":
		return HJ, nil
	}
	return EB, fmt.Errorf("unknown formulation %q, want EB or HJ", s)
}

// FieldType names the solution variable of the time stepper.
type FieldType uint8

const (
	FieldE FieldType = iota
	FieldB
	FieldH
	FieldJ
)

func (ft FieldType) String() string {
	switch ft {
	case FieldE:
		return "e"
	case FieldB:
		return "b"
	case FieldH:
		return "h"
	case FieldJ:
		return "j"
	}
	return "UNKNOWN"
}

// ParseFieldType maps the input file spelling onto the enum. Empty input
// takes the formulation's primary unknown.
func ParseFieldType(s string, f Formulation) (FieldType, error) {
	switch s {
	case "":
		if f == HJ {
			return FieldJ, nil
		}
		return FieldE, nil
	case "e":
		return FieldE, nil
	case "b":
		return FieldB, nil
	case "h":
		return FieldH, nil
	case "j":
		return FieldJ, nil
	}
	return FieldE, fmt.Errorf("unknown field type %q, want e, b, h or j", s)
}

// Fields is the opaque solution container handed back by a simulation.
type Fields interface{}

// Simulation is the adjoint-capable forward operator the misfit composes
// with. Jacobian products are matrix-free.
type Simulation interface {
	Fields(m []float64) Fields
	JvecApprox(m, v []float64, f Fields) []float64
	Jtvec(m, w []float64, f Fields) []float64
	JtvecApprox(m, w []float64, f Fields) []float64

	// Model returns the most recent model vector, or nil before any solve.
	Model() []float64
}

// Problem is the discretization context a source builds its forcing terms
// against.
type Problem interface {
	Mesh() mesh.Mesh
	Formulation() Formulation
	FieldType() FieldType
	TimeSteps() []float64

	// MfMui is the face inner-product matrix weighted by 1/mu.
	MfMui() utils.CSR
}

// Survey holds observed data and its noise model.
type Survey interface {
	Dobs() []float64
	ND() int
	Residual(m []float64, f Fields) []float64

	// Std and Eps report the survey noise model when one was assigned.
	Std() (float64, bool)
	Eps() (float64, bool)

	IsPaired() bool
	Simulation() Simulation
}

// Mapping relates inversion parameters to the simulation model.
type Mapping interface {
	NP() int
}
