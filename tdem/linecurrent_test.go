package tdem

import (
	"testing"

	"github.com/geoscale/gotdem/forward"
	"github.com/geoscale/gotdem/mesh"
	"github.com/stretchr/testify/assert"
)

func lineTestProblem() *testProblem {
	h := []float64{1, 1}
	m, err := mesh.NewTensorMesh(h, h, h, mesh.Point{0, 0, 0})
	if err != nil {
		panic(err)
	}
	return &testProblem{
		msh:         m,
		formulation: forward.EB,
		fieldType:   forward.FieldE,
		timeSteps:   []float64{0, 1e-5, 2e-5},
	}
}

func TestLineCurrent(t *testing.T) {
	// path validation
	{
		_, err := NewLineCurrent(nil, NewRawWaveform(0, func(time float64) float64 { return 1 }),
			[]mesh.Point{{0, 0, 0}})
		assert.Error(t, err)
	}
	// a wire along a grid edge line lands entirely on x-edges and
	// integrates to the wire length
	{
		w := NewRawWaveform(0, func(time float64) float64 { return 1 })
		s, err := NewLineCurrent(nil, w, []mesh.Point{{0, 1, 1}, {2, 1, 1}})
		assert.NoError(t, err)
		prob := lineTestProblem()
		mejs := s.Mejs(prob)
		assert.Equal(t, prob.Mesh().NumEdges(), len(mejs))

		var total float64
		for _, val := range mejs {
			total += val
		}
		assert.InDelta(t, 2, total, 1e-12)

		// x-edge block only
		nx, ny, nz := 2, 2, 2
		nEx := nx * (ny + 1) * (nz + 1)
		for i := nEx; i < len(mejs); i++ {
			assert.Equal(t, 0., mejs[i])
		}
		// both cells along the wire see unit contributions on the edge
		// at y=1, z=1
		ex := func(i, j, k int) int { return i + j*nx + k*nx*(ny+1) }
		assert.InDelta(t, 1, mejs[ex(0, 1, 1)], 1e-12)
		assert.InDelta(t, 1, mejs[ex(1, 1, 1)], 1e-12)
	}
	// the operator is built once and cached
	{
		w := NewRawWaveform(0, func(time float64) float64 { return 1 })
		s, _ := NewLineCurrent(nil, w, []mesh.Point{{0, 1, 1}, {2, 1, 1}})
		prob := lineTestProblem()
		a := s.Mejs(prob)
		b := s.Mejs(prob)
		assert.Equal(t, &a[0], &b[0])
	}
	// s_e is the cached operator scaled by the waveform amplitude
	{
		w := NewRawWaveform(0, func(time float64) float64 { return 3 })
		s, _ := NewLineCurrent(nil, w, []mesh.Point{{0, 1, 1}, {2, 1, 1}})
		prob := lineTestProblem()
		mejs := s.Mejs(prob)
		se := s.SE(prob, 1e-5)
		assert.False(t, se.IsZero())
		for i, val := range se.Data() {
			assert.InDelta(t, 3*mejs[i], val, 1e-12)
		}
		// and all other contributions stay the additive identity
		assert.True(t, s.SM(prob, 1e-5).IsZero())
		assert.True(t, s.BInitial(prob).IsZero())
		assert.True(t, s.EInitial(prob).IsZero())
		assert.True(t, s.EInitialDeriv(prob, nil, false).IsZero())
	}
	// a diagonal wire distributes onto multiple edge components but
	// conserves the path integral per component
	{
		w := NewRawWaveform(0, func(time float64) float64 { return 1 })
		s, _ := NewLineCurrent(nil, w, []mesh.Point{{0.25, 0.25, 0.5}, {1.75, 1.25, 0.5}})
		prob := lineTestProblem()
		mejs := s.Mejs(prob)

		nx, ny, nz := 2, 2, 2
		nEx := nx * (ny + 1) * (nz + 1)
		nEy := (nx + 1) * ny * (nz + 1)
		var sumX, sumY, sumZ float64
		for i, val := range mejs {
			switch {
			case i < nEx:
				sumX += val
			case i < nEx+nEy:
				sumY += val
			default:
				sumZ += val
			}
		}
		assert.InDelta(t, 1.5, sumX, 1e-12)
		assert.InDelta(t, 1.0, sumY, 1e-12)
		assert.InDelta(t, 0.0, sumZ, 1e-12)
	}
	// wire vertices must lie inside the mesh
	{
		w := NewRawWaveform(0, func(time float64) float64 { return 1 })
		s, _ := NewLineCurrent(nil, w, []mesh.Point{{-1, 0, 0}, {1, 0, 0}})
		prob := lineTestProblem()
		assert.Panics(t, func() { s.Mejs(prob) })
	}
}
