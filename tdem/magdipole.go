package tdem

import (
	"fmt"
	"math"

	"github.com/geoscale/gotdem/forward"
	"github.com/geoscale/gotdem/mesh"
	"github.com/geoscale/gotdem/utils"
)

// MagDipoleConfig is the immutable configuration of a magnetic dipole
// transmitter. Unset values take the conventional defaults: unit moment,
// free-space permeability, z orientation. Moment is a pointer so an explicit
// zero moment stays zero instead of being promoted to the default.
type MagDipoleConfig struct {
	Location    mesh.Point
	Orientation [3]float64
	Moment      *float64
	Mu          float64
}

func (c MagDipoleConfig) withDefaults() (MagDipoleConfig, error) {
	if c.Moment != nil && *c.Moment < 0 {
		return c, fmt.Errorf("dipole moment must be non-negative, got %v", *c.Moment)
	}
	if c.Moment == nil {
		moment := 1.
		c.Moment = &moment
	}
	if c.Mu < 0 {
		return c, fmt.Errorf("permeability must be non-negative, got %v", c.Mu)
	}
	if c.Mu == 0 {
		c.Mu = Mu0
	}
	norm := math.Sqrt(c.Orientation[0]*c.Orientation[0] +
		c.Orientation[1]*c.Orientation[1] + c.Orientation[2]*c.Orientation[2])
	if norm == 0 {
		c.Orientation = [3]float64{0, 0, 1}
	} else {
		for i := range c.Orientation {
			c.Orientation[i] /= norm
		}
	}
	return c, nil
}

// MagDipole is a magnetic dipole transmitter. The initial fields are the
// curl of an analytic vector potential evaluated on the mesh.
type MagDipole struct {
	SrcBase
	Cfg MagDipoleConfig

	// aFct evaluates one component of the vector potential on a grid;
	// CircularLoop swaps in the loop potential here.
	aFct func(obs []mesh.Point, comp int) []float64
}

func NewMagDipole(rxList []*Receiver, waveform Waveform, cfg MagDipoleConfig) (s *MagDipole, err error) {
	if cfg, err = cfg.withDefaults(); err != nil {
		return
	}
	s = &MagDipole{Cfg: cfg}
	s.rxList = rxList
	s.aFct = func(obs []mesh.Point, comp int) []float64 {
		return magneticDipoleVectorPotential(cfg.Location, obs, comp, cfg.Orientation, *cfg.Moment, cfg.Mu)
	}
	if err = s.SetWaveform(waveform); err != nil {
		s = nil
	}
	return
}

// bSrc evaluates the vector potential on the grid the formulation calls for
// and applies the discrete curl. EB works on edges with C, HJ on faces with
// C transpose.
func (s *MagDipole) bSrc(prob forward.Problem) (b []float64) {
	var (
		msh                 = prob.Mesh()
		C                   = msh.EdgeCurl()
		gridX, gridY, gridZ []mesh.Point
		transposed          bool
	)
	switch prob.Formulation() {
	case forward.EB:
		gridX, gridY, gridZ = msh.GridEx(), msh.GridEy(), msh.GridEz()
	case forward.HJ:
		gridX, gridY, gridZ = msh.GridFx(), msh.GridFy(), msh.GridFz()
		transposed = true
	default:
		panic(fmt.Errorf("unsupported formulation %v for magnetic dipole source", prob.Formulation()))
	}

	var a []float64
	if msh.MeshType() == mesh.TypeCylindrical {
		if !msh.IsSymmetric() {
			panic(fmt.Errorf("magnetic dipole source on a non-symmetric cylindrical mesh is not implemented"))
		}
		// symmetric cyl meshes carry only the azimuthal component
		a = s.aFct(gridY, 1)
	} else {
		ax := s.aFct(gridX, 0)
		ay := s.aFct(gridY, 1)
		az := s.aFct(gridZ, 2)
		a = utils.VecConcat(
			utils.NewVector(len(ax), ax),
			utils.NewVector(len(ay), ay),
			utils.NewVector(len(az), az),
		).DataP()
	}

	if transposed {
		b = C.MulVecT(a)
		return
	}
	b = C.MulVec(a)
	return
}

func (s *MagDipole) BInitial(prob forward.Problem) utils.Term {
	if !s.Waveform().HasInitialFields() {
		return utils.Zero()
	}
	return utils.NewTerm(s.bSrc(prob))
}

func (s *MagDipole) HInitial(prob forward.Problem) utils.Term {
	return s.BInitial(prob).Scale(1 / s.Cfg.Mu)
}

// SE is the electric/current forcing term. At the first post-initial step of
// a source with initial fields, the b/h unknowns carry the energy already, so
// only the companion e/j unknowns get seeded from the vector potential.
func (s *MagDipole) SE(prob forward.Problem, time float64) utils.Term {
	var (
		C         = prob.Mesh().EdgeCurl()
		b         = s.bSrc(prob)
		ts        = prob.TimeSteps()
		firstStep = s.Waveform().HasInitialFields() && len(ts) > 1 && time < ts[1]
	)
	switch prob.Formulation() {
	case forward.EB:
		mfb := prob.MfMui().MulVec(b)
		if firstStep {
			switch prob.FieldType() {
			case forward.FieldB:
				return utils.Zero()
			case forward.FieldE:
				return utils.NewTerm(C.MulVecT(mfb))
			default:
				panic(fmt.Errorf("field type %v is not part of the EB formulation", prob.FieldType()))
			}
		}
		return utils.NewTerm(C.MulVecT(mfb)).Scale(s.Waveform().Eval(time))

	case forward.HJ:
		h := utils.NewVector(len(b), b).Copy().Scale(1 / s.Cfg.Mu).DataP()
		if firstStep {
			switch prob.FieldType() {
			case forward.FieldH:
				return utils.Zero()
			case forward.FieldJ:
				return utils.NewTerm(C.MulVec(h))
			default:
				panic(fmt.Errorf("field type %v is not part of the HJ formulation", prob.FieldType()))
			}
		}
		return utils.NewTerm(C.MulVec(h)).Scale(s.Waveform().Eval(time))
	}
	panic(fmt.Errorf("unsupported formulation %v for magnetic dipole source", prob.Formulation()))
}

// CircularLoop is a horizontal loop transmitter. It shares the dipole's
// machinery and differs only in the vector potential it integrates.
type CircularLoop struct {
	MagDipole
	Radius float64
}

func NewCircularLoop(rxList []*Receiver, waveform Waveform, cfg MagDipoleConfig, radius float64) (s *CircularLoop, err error) {
	if radius <= 0 {
		err = fmt.Errorf("loop radius must be positive, got %v", radius)
		return
	}
	if cfg, err = cfg.withDefaults(); err != nil {
		return
	}
	s = &CircularLoop{Radius: radius}
	s.Cfg = cfg
	s.rxList = rxList
	s.aFct = func(obs []mesh.Point, comp int) []float64 {
		return magneticLoopVectorPotential(cfg.Location, obs, comp, cfg.Orientation, radius, cfg.Mu)
	}
	if err = s.SetWaveform(waveform); err != nil {
		s = nil
	}
	return
}
