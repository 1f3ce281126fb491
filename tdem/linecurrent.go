package tdem

import (
	"fmt"
	"sort"
	"sync"

	"github.com/geoscale/gotdem/forward"
	"github.com/geoscale/gotdem/mesh"
	"github.com/geoscale/gotdem/utils"
)

// LineCurrent is a grounded or closed wire path carrying unit current. Its
// electric forcing term is a fixed geometric operator scaled by the waveform.
type LineCurrent struct {
	SrcBase
	Loc []mesh.Point

	mejsOnce sync.Once
	mejs     []float64
}

func NewLineCurrent(rxList []*Receiver, waveform Waveform, loc []mesh.Point) (s *LineCurrent, err error) {
	if len(loc) < 2 {
		err = fmt.Errorf("line current path needs at least 2 vertices, got %d", len(loc))
		return
	}
	s = &LineCurrent{Loc: loc}
	s.rxList = rxList
	if err = s.SetWaveform(waveform); err != nil {
		s = nil
	}
	return
}

// Mejs is the discretized wire forcing operator on mesh edges. It depends
// only on the wire geometry and the mesh, so it is built once per source.
func (s *LineCurrent) Mejs(prob forward.Problem) []float64 {
	s.mejsOnce.Do(func() {
		var (
			msh        = prob.Mesh()
			hx, hy, hz = msh.CellWidths()
		)
		s.mejs = lineCurrentSourceTerm(msh.Origin(), hx, hy, hz, s.Loc)
	})
	return s.mejs
}

func (s *LineCurrent) SE(prob forward.Problem, time float64) utils.Term {
	return utils.NewTerm(s.Mejs(prob)).Scale(s.Waveform().Eval(time))
}

// lineCurrentSourceTerm distributes the wire polygon onto the x, y, z edges
// of a tensor mesh. Each segment is split at cell boundaries and every
// sub-segment's directional components are spread over the four surrounding
// edges of its cell with bilinear weights of the sub-segment midpoint.
func lineCurrentSourceTerm(x0 mesh.Point, hx, hy, hz []float64, loc []mesh.Point) (mejs []float64) {
	var (
		nodesX     = nodeCoords(x0[0], hx)
		nodesY     = nodeCoords(x0[1], hy)
		nodesZ     = nodeCoords(x0[2], hz)
		nx, ny, nz = len(hx), len(hy), len(hz)
		nEx        = nx * (ny + 1) * (nz + 1)
		nEy        = (nx + 1) * ny * (nz + 1)
		nEz        = (nx + 1) * (ny + 1) * nz
	)
	mejs = make([]float64, nEx+nEy+nEz)

	ex := func(i, j, k int) int { return i + j*nx + k*nx*(ny+1) }
	ey := func(i, j, k int) int { return nEx + i + j*(nx+1) + k*(nx+1)*ny }
	ez := func(i, j, k int) int { return nEx + nEy + i + j*(nx+1) + k*(nx+1)*(ny+1) }

	for n := 0; n < len(loc)-1; n++ {
		var (
			p, q = loc[n], loc[n+1]
		)
		checkInside(p, nodesX, nodesY, nodesZ)
		checkInside(q, nodesX, nodesY, nodesZ)
		for _, span := range splitAtCellBoundaries(p, q, nodesX, nodesY, nodesZ) {
			var (
				ta, tb = span[0], span[1]
				tm     = 0.5 * (ta + tb)
				mid    = mesh.Point{
					p[0] + tm*(q[0]-p[0]),
					p[1] + tm*(q[1]-p[1]),
					p[2] + tm*(q[2]-p[2]),
				}
				i  = cellIndex(mid[0], nodesX)
				j  = cellIndex(mid[1], nodesY)
				k  = cellIndex(mid[2], nodesZ)
				dx = (tb - ta) * (q[0] - p[0])
				dy = (tb - ta) * (q[1] - p[1])
				dz = (tb - ta) * (q[2] - p[2])
				ax = (mid[0] - nodesX[i]) / hx[i]
				ay = (mid[1] - nodesY[j]) / hy[j]
				az = (mid[2] - nodesZ[k]) / hz[k]
			)
			if dx != 0 {
				mejs[ex(i, j, k)] += dx * (1 - ay) * (1 - az)
				mejs[ex(i, j+1, k)] += dx * ay * (1 - az)
				mejs[ex(i, j, k+1)] += dx * (1 - ay) * az
				mejs[ex(i, j+1, k+1)] += dx * ay * az
			}
			if dy != 0 {
				mejs[ey(i, j, k)] += dy * (1 - ax) * (1 - az)
				mejs[ey(i+1, j, k)] += dy * ax * (1 - az)
				mejs[ey(i, j, k+1)] += dy * (1 - ax) * az
				mejs[ey(i+1, j, k+1)] += dy * ax * az
			}
			if dz != 0 {
				mejs[ez(i, j, k)] += dz * (1 - ax) * (1 - ay)
				mejs[ez(i+1, j, k)] += dz * ax * (1 - ay)
				mejs[ez(i, j+1, k)] += dz * (1 - ax) * ay
				mejs[ez(i+1, j+1, k)] += dz * ax * ay
			}
		}
	}
	return
}

func nodeCoords(x0 float64, h []float64) (n []float64) {
	n = make([]float64, len(h)+1)
	n[0] = x0
	for i, val := range h {
		n[i+1] = n[i] + val
	}
	return
}

func checkInside(p mesh.Point, nodesX, nodesY, nodesZ []float64) {
	inside := func(x float64, nodes []float64) bool {
		return x >= nodes[0] && x <= nodes[len(nodes)-1]
	}
	if !inside(p[0], nodesX) || !inside(p[1], nodesY) || !inside(p[2], nodesZ) {
		panic(fmt.Errorf("line current vertex %v lies outside the mesh", p))
	}
}

// cellIndex locates the cell containing x, clamping onto the boundary cells.
func cellIndex(x float64, nodes []float64) (i int) {
	i = sort.SearchFloat64s(nodes, x) - 1
	if i < 0 {
		i = 0
	}
	if i > len(nodes)-2 {
		i = len(nodes) - 2
	}
	return
}

// splitAtCellBoundaries returns the parameter intervals of segment p->q that
// each lie within a single cell.
func splitAtCellBoundaries(p, q mesh.Point, nodesX, nodesY, nodesZ []float64) (spans [][2]float64) {
	var (
		ts = []float64{0, 1}
	)
	for d, nodes := range [][]float64{nodesX, nodesY, nodesZ} {
		if q[d] == p[d] {
			continue
		}
		for _, node := range nodes {
			t := (node - p[d]) / (q[d] - p[d])
			if t > 0 && t < 1 {
				ts = append(ts, t)
			}
		}
	}
	sort.Float64s(ts)
	for i := 0; i < len(ts)-1; i++ {
		if ts[i+1]-ts[i] > 1e-14 {
			spans = append(spans, [2]float64{ts[i], ts[i+1]})
		}
	}
	return
}
