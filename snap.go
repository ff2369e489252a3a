package minicube

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LatticeStep is the spacing of valid cubelet coordinates.
const LatticeStep = 0.5

// Snap rounds each coordinate to the nearest multiple of LatticeStep.
func Snap(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{snapScalar(p.X()), snapScalar(p.Y()), snapScalar(p.Z())}
}

func snapScalar(v float64) float64 {
	return math.Round(v/LatticeStep) * LatticeStep
}

// SnapAll snaps every cubelet onto the lattice and refreshes transforms.
func (s *Store) SnapAll() {
	for i := range s.cubelets {
		s.cubelets[i].SetPosition(Snap(s.cubelets[i].Position))
	}
}
