package forward

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/geoscale/gotdem/utils"
)

// LinearSimulation is a dense reference collaborator: d = G·m. Its Jacobian
// is G itself, so the adjoint products are exact and cheap. It backs the CLI
// diagnostics and the misfit tests.
type LinearSimulation struct {
	G     *mat.Dense
	model []float64
}

func NewLinearSimulation(G *mat.Dense) (s *LinearSimulation) {
	s = &LinearSimulation{G: G}
	return
}

func (s *LinearSimulation) ND() (n int) {
	n, _ = s.G.Dims()
	return
}

func (s *LinearSimulation) NP() (n int) {
	_, n = s.G.Dims()
	return
}

func (s *LinearSimulation) Fields(m []float64) Fields {
	s.model = m
	return s.Dpred(m)
}

func (s *LinearSimulation) Dpred(m []float64) (d []float64) {
	var (
		nd, np = s.G.Dims()
	)
	if len(m) != np {
		err := fmt.Errorf("model length %d does not match operator columns %d", len(m), np)
		panic(err)
	}
	out := utils.NewVector(nd)
	out.V.MulVec(s.G, mat.NewVecDense(np, m))
	d = out.DataP()
	return
}

func (s *LinearSimulation) JvecApprox(m, v []float64, f Fields) []float64 {
	return s.Dpred(v)
}

func (s *LinearSimulation) Jtvec(m, w []float64, f Fields) (r []float64) {
	var (
		nd, np = s.G.Dims()
	)
	if len(w) != nd {
		err := fmt.Errorf("adjoint vector length %d does not match operator rows %d", len(w), nd)
		panic(err)
	}
	out := utils.NewVector(np)
	out.V.MulVec(s.G.T(), mat.NewVecDense(nd, w))
	r = out.DataP()
	return
}

func (s *LinearSimulation) JtvecApprox(m, w []float64, f Fields) []float64 {
	return s.Jtvec(m, w, f)
}

func (s *LinearSimulation) Model() []float64 { return s.model }

// LinearSurvey pairs observed data with a LinearSimulation.
type LinearSurvey struct {
	DobsV []float64
	StdV  *float64
	EpsV  *float64

	sim *LinearSimulation
}

func NewLinearSurvey(dobs []float64) (s *LinearSurvey) {
	s = &LinearSurvey{DobsV: dobs}
	return
}

// Pair binds the survey to its simulation. The data count must match the
// operator rows.
func (s *LinearSurvey) Pair(sim *LinearSimulation) (err error) {
	if sim.ND() != len(s.DobsV) {
		err = fmt.Errorf("cannot pair: survey has %d data, simulation predicts %d", len(s.DobsV), sim.ND())
		return
	}
	s.sim = sim
	return
}

func (s *LinearSurvey) Dobs() []float64 { return s.DobsV }
func (s *LinearSurvey) ND() int         { return len(s.DobsV) }

func (s *LinearSurvey) Residual(m []float64, f Fields) (r []float64) {
	var (
		dpred []float64
	)
	if d, ok := f.([]float64); ok && d != nil {
		dpred = d
	} else {
		dpred = s.sim.Dpred(m)
	}
	r = utils.NewVector(len(dpred), dpred).Copy().
		Subtract(utils.NewVector(len(s.DobsV), s.DobsV)).DataP()
	return
}

func (s *LinearSurvey) Std() (v float64, ok bool) {
	if s.StdV != nil {
		v, ok = *s.StdV, true
	}
	return
}

func (s *LinearSurvey) Eps() (v float64, ok bool) {
	if s.EpsV != nil {
		v, ok = *s.EpsV, true
	}
	return
}

func (s *LinearSurvey) IsPaired() bool         { return s.sim != nil }
func (s *LinearSurvey) Simulation() Simulation { return s.sim }
