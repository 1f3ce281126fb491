package mesh

import (
	"fmt"
	"sync"

	"github.com/geoscale/gotdem/utils"
)

// TensorMesh is a 3D tensor product mesh with cell widths hx, hy, hz and
// origin x0. Edge and face quantities use x-fastest ordering within each
// component block, with blocks ordered x, y, z.
type TensorMesh struct {
	Hx, Hy, Hz []float64
	X0         Point

	curlOnce sync.Once
	curl     utils.CSR
}

func NewTensorMesh(hx, hy, hz []float64, x0 Point) (m *TensorMesh, err error) {
	if len(hx) == 0 || len(hy) == 0 || len(hz) == 0 {
		err = fmt.Errorf("tensor mesh requires cell widths in all three dimensions, got (%d,%d,%d)",
			len(hx), len(hy), len(hz))
		return
	}
	for _, h := range [][]float64{hx, hy, hz} {
		for _, val := range h {
			if val <= 0 {
				err = fmt.Errorf("tensor mesh cell widths must be positive, got %v", val)
				return
			}
		}
	}
	m = &TensorMesh{Hx: hx, Hy: hy, Hz: hz, X0: x0}
	return
}

func (m *TensorMesh) MeshType() Type    { return TypeTensor }
func (m *TensorMesh) IsSymmetric() bool { return false }

func (m *TensorMesh) CellWidths() (hx, hy, hz []float64) { return m.Hx, m.Hy, m.Hz }
func (m *TensorMesh) Origin() Point                      { return m.X0 }

func nodes(x0 float64, h []float64) (n []float64) {
	n = make([]float64, len(h)+1)
	n[0] = x0
	for i, val := range h {
		n[i+1] = n[i] + val
	}
	return
}

func centers(x0 float64, h []float64) (c []float64) {
	var (
		n = nodes(x0, h)
	)
	c = make([]float64, len(h))
	for i := range h {
		c[i] = 0.5 * (n[i] + n[i+1])
	}
	return
}

func tensorGrid(xs, ys, zs []float64) (g []Point) {
	g = make([]Point, 0, len(xs)*len(ys)*len(zs))
	for _, z := range zs {
		for _, y := range ys {
			for _, x := range xs {
				g = append(g, Point{x, y, z})
			}
		}
	}
	return
}

func (m *TensorMesh) GridEx() []Point {
	return tensorGrid(centers(m.X0[0], m.Hx), nodes(m.X0[1], m.Hy), nodes(m.X0[2], m.Hz))
}

func (m *TensorMesh) GridEy() []Point {
	return tensorGrid(nodes(m.X0[0], m.Hx), centers(m.X0[1], m.Hy), nodes(m.X0[2], m.Hz))
}

func (m *TensorMesh) GridEz() []Point {
	return tensorGrid(nodes(m.X0[0], m.Hx), nodes(m.X0[1], m.Hy), centers(m.X0[2], m.Hz))
}

func (m *TensorMesh) GridFx() []Point {
	return tensorGrid(nodes(m.X0[0], m.Hx), centers(m.X0[1], m.Hy), centers(m.X0[2], m.Hz))
}

func (m *TensorMesh) GridFy() []Point {
	return tensorGrid(centers(m.X0[0], m.Hx), nodes(m.X0[1], m.Hy), centers(m.X0[2], m.Hz))
}

func (m *TensorMesh) GridFz() []Point {
	return tensorGrid(centers(m.X0[0], m.Hx), centers(m.X0[1], m.Hy), nodes(m.X0[2], m.Hz))
}

func (m *TensorMesh) counts() (nx, ny, nz int) {
	return len(m.Hx), len(m.Hy), len(m.Hz)
}

func (m *TensorMesh) NumEdges() int {
	var (
		nx, ny, nz = m.counts()
	)
	return nx*(ny+1)*(nz+1) + (nx+1)*ny*(nz+1) + (nx+1)*(ny+1)*nz
}

func (m *TensorMesh) NumFaces() int {
	var (
		nx, ny, nz = m.counts()
	)
	return (nx+1)*ny*nz + nx*(ny+1)*nz + nx*ny*(nz+1)
}

// block index helpers, x-fastest within each component block
func idx3(i, j, k, ni, nj int) int { return i + j*ni + k*ni*nj }

func (m *TensorMesh) edgeIndex() (ex, ey, ez func(i, j, k int) int) {
	var (
		nx, ny, nz = m.counts()
		nEx        = nx * (ny + 1) * (nz + 1)
		nEy        = (nx + 1) * ny * (nz + 1)
	)
	ex = func(i, j, k int) int { return idx3(i, j, k, nx, ny+1) }
	ey = func(i, j, k int) int { return nEx + idx3(i, j, k, nx+1, ny) }
	ez = func(i, j, k int) int { return nEx + nEy + idx3(i, j, k, nx+1, ny+1) }
	return
}

// EdgeCurl assembles the discrete curl operator (faces x edges) once and
// caches it.
func (m *TensorMesh) EdgeCurl() utils.CSR {
	m.curlOnce.Do(func() {
		m.curl = m.assembleEdgeCurl()
	})
	return m.curl
}

func (m *TensorMesh) assembleEdgeCurl() (C utils.CSR) {
	var (
		nx, ny, nz = m.counts()
		nFx        = (nx + 1) * ny * nz
		nFy        = nx * (ny + 1) * nz
		ex, ey, ez = m.edgeIndex()
		dok        = utils.NewDOK(m.NumFaces(), m.NumEdges())
	)
	// x-faces: (curl a)_x = dAz/dy - dAy/dz
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i <= nx; i++ {
				f := idx3(i, j, k, nx+1, ny)
				dok.Set(f, ez(i, j+1, k), 1/m.Hy[j])
				dok.Set(f, ez(i, j, k), -1/m.Hy[j])
				dok.Set(f, ey(i, j, k+1), -1/m.Hz[k])
				dok.Set(f, ey(i, j, k), 1/m.Hz[k])
			}
		}
	}
	// y-faces: (curl a)_y = dAx/dz - dAz/dx
	for k := 0; k < nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i < nx; i++ {
				f := nFx + idx3(i, j, k, nx, ny+1)
				dok.Set(f, ex(i, j, k+1), 1/m.Hz[k])
				dok.Set(f, ex(i, j, k), -1/m.Hz[k])
				dok.Set(f, ez(i+1, j, k), -1/m.Hx[i])
				dok.Set(f, ez(i, j, k), 1/m.Hx[i])
			}
		}
	}
	// z-faces: (curl a)_z = dAy/dx - dAx/dy
	for k := 0; k <= nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				f := nFx + nFy + idx3(i, j, k, nx, ny)
				dok.Set(f, ey(i+1, j, k), 1/m.Hx[i])
				dok.Set(f, ey(i, j, k), -1/m.Hx[i])
				dok.Set(f, ex(i, j+1, k), -1/m.Hy[j])
				dok.Set(f, ex(i, j, k), 1/m.Hy[j])
			}
		}
	}
	C = dok.ToCSR()
	return
}
