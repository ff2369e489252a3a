// Package render projects the cube for terminal and remote renderers.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// OrbitSensitivity converts pointer travel to radians.
	OrbitSensitivity = 0.003

	minPhi    = 0.1
	maxPhi    = math.Pi - 0.1
	minRadius = 3.0
	maxRadius = 40.0

	fovY = math.Pi / 4
	near = 0.1
	far  = 100.0
)

// Camera orbits the origin on a sphere.
type Camera struct {
	Theta  float64 // azimuth
	Phi    float64 // polar angle from +Y
	Radius float64
}

// DefaultCamera returns the starting camera.
func DefaultCamera() Camera {
	return Camera{Theta: math.Pi / 4, Phi: math.Pi / 4, Radius: 11}
}

// Orbit moves the camera by a pointer delta. Phi is clamped away from
// the poles.
func (c *Camera) Orbit(dx, dy float64) {
	c.Theta -= dx * OrbitSensitivity
	c.Phi = mgl64.Clamp(c.Phi-dy*OrbitSensitivity, minPhi, maxPhi)
}

// Zoom changes the orbit radius within fixed bounds.
func (c *Camera) Zoom(delta float64) {
	c.Radius = mgl64.Clamp(c.Radius+delta, minRadius, maxRadius)
}

// Eye returns the camera position.
func (c Camera) Eye() mgl64.Vec3 {
	return mgl64.Vec3{
		c.Radius * math.Sin(c.Phi) * math.Cos(c.Theta),
		c.Radius * math.Cos(c.Phi),
		c.Radius * math.Sin(c.Phi) * math.Sin(c.Theta),
	}
}

// View returns the view matrix looking at the origin with +Y up.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye(), mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for an aspect ratio.
func Projection(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(fovY, aspect, near, far)
}
