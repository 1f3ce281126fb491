package mesh

import "github.com/geoscale/gotdem/utils"

type Type uint8

const (
	TypeTensor Type = iota
	TypeCylindrical
)

func (t Type) String() string {
	switch t {
	case TypeTensor:
		return "TENSOR"
	case TypeCylindrical:
		return "CYL"
	}
	return "UNKNOWN"
}

// Point is a location in 3D space.
type Point [3]float64

// Mesh is the discretization contract the source terms are built against.
// Grid accessors return the edge or face center coordinates of the staggered
// grid; EdgeCurl is the discrete curl mapping edge values to face values.
type Mesh interface {
	MeshType() Type
	IsSymmetric() bool

	GridEx() []Point
	GridEy() []Point
	GridEz() []Point
	GridFx() []Point
	GridFy() []Point
	GridFz() []Point

	EdgeCurl() utils.CSR

	CellWidths() (hx, hy, hz []float64)
	Origin() Point

	NumEdges() int
	NumFaces() int
}
