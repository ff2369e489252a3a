package minicube

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// QuarterTurn is the angle of one face turn in radians.
const QuarterTurn = math.Pi / 2

// Centroid returns the arithmetic mean of four positions.
func Centroid(ps [4]mgl64.Vec3) mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, p := range ps {
		sum = sum.Add(p)
	}
	return sum.Mul(0.25)
}

// RotationAbout returns the homogeneous matrix rotating by angle radians
// about axis through centroid.
func RotationAbout(axis mgl64.Vec3, angle float64, centroid mgl64.Vec3) mgl64.Mat4 {
	to := mgl64.Translate3D(centroid.X(), centroid.Y(), centroid.Z())
	from := mgl64.Translate3D(-centroid.X(), -centroid.Y(), -centroid.Z())
	return to.Mul4(mgl64.HomogRotate3D(angle, axis)).Mul4(from)
}

// Rotate rotates four positions by angle radians about axis through
// centroid. The direction follows the right-hand rule on axis.
func Rotate(ps [4]mgl64.Vec3, axis mgl64.Vec3, angle float64, centroid mgl64.Vec3) [4]mgl64.Vec3 {
	rot := mgl64.HomogRotate3D(angle, axis)
	var out [4]mgl64.Vec3
	for i, p := range ps {
		local := p.Sub(centroid)
		out[i] = centroid.Add(rot.Mul4x1(local.Vec4(1)).Vec3())
	}
	return out
}
