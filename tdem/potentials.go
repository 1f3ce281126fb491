package tdem

import (
	"fmt"
	"math"

	"github.com/geoscale/gotdem/mesh"
	"gonum.org/v1/gonum/mathext"
)

// magneticDipoleVectorPotential evaluates component comp (0,1,2 = x,y,z) of
// the vector potential of a magnetic dipole at loc, on the grid points obs.
//
//	A = mu/(4 pi) * (m x d) / |d|^3
func magneticDipoleVectorPotential(loc mesh.Point, obs []mesh.Point, comp int, orientation [3]float64, moment, mu float64) (a []float64) {
	var (
		mx = moment * orientation[0]
		my = moment * orientation[1]
		mz = moment * orientation[2]
	)
	a = make([]float64, len(obs))
	for n, p := range obs {
		var (
			dx = p[0] - loc[0]
			dy = p[1] - loc[1]
			dz = p[2] - loc[2]
			r  = math.Sqrt(dx*dx + dy*dy + dz*dz)
		)
		if r == 0 {
			// singular at the dipole location, no contribution
			continue
		}
		scale := mu / (4 * math.Pi * r * r * r)
		switch comp {
		case 0:
			a[n] = scale * (my*dz - mz*dy)
		case 1:
			a[n] = scale * (mz*dx - mx*dz)
		case 2:
			a[n] = scale * (mx*dy - my*dx)
		default:
			panic(fmt.Errorf("invalid vector potential component %d", comp))
		}
	}
	return
}

// magneticLoopVectorPotential evaluates component comp of the vector
// potential of a unit-current circular loop of the given radius centered at
// loc. Only z-oriented loops are supported; the azimuthal potential uses the
// complete elliptic integrals.
func magneticLoopVectorPotential(loc mesh.Point, obs []mesh.Point, comp int, orientation [3]float64, radius, mu float64) (a []float64) {
	if orientation[0] != 0 || orientation[1] != 0 {
		panic(fmt.Errorf("loop vector potential only implemented for z-oriented loops, got orientation %v", orientation))
	}
	a = make([]float64, len(obs))
	if comp == 2 {
		// A_z vanishes for a z-oriented loop
		return
	}
	for n, p := range obs {
		var (
			dx  = p[0] - loc[0]
			dy  = p[1] - loc[1]
			dz  = p[2] - loc[2]
			rho = math.Sqrt(dx*dx + dy*dy)
		)
		if rho < 1e-12 {
			continue
		}
		var (
			m    = 4 * radius * rho / ((radius+rho)*(radius+rho) + dz*dz)
			k    = math.Sqrt(m)
			K, E = mathext.CompleteK(m), mathext.CompleteE(m)
			aphi = mu / (math.Pi * k) * math.Sqrt(radius/rho) * ((1-m/2)*K - E)
		)
		switch comp {
		case 0:
			a[n] = -aphi * dy / rho
		case 1:
			a[n] = aphi * dx / rho
		default:
			panic(fmt.Errorf("invalid vector potential component %d", comp))
		}
	}
	return
}
