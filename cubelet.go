package minicube

import "github.com/go-gl/mathgl/mgl64"

// Color is the cosmetic colour of a cubelet.
type Color byte

const (
	Red    Color = 0
	Green  Color = 1
	Blue   Color = 2
	Yellow Color = 3
)

func (c Color) String() string {
	switch c {
	case Red:
		return "R"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Yellow:
		return "Y"
	default:
		return "?"
	}
}

// Name returns the lowercase colour name.
func (c Color) Name() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Yellow:
		return "yellow"
	default:
		return "unknown"
	}
}

// RGB returns the colour as a linear RGB triple in [0,1].
func (c Color) RGB() mgl64.Vec3 {
	switch c {
	case Red:
		return mgl64.Vec3{1, 0, 0}
	case Green:
		return mgl64.Vec3{0, 1, 0}
	case Blue:
		return mgl64.Vec3{0, 0, 1}
	case Yellow:
		return mgl64.Vec3{1, 1, 0}
	default:
		return mgl64.Vec3{1, 1, 1}
	}
}

// palette is the multiset shuffled onto the eight cubelets.
var palette = [SlotCount]Color{Red, Red, Green, Green, Blue, Blue, Yellow, Yellow}

// Cubelet is one of the eight corner pieces.
type Cubelet struct {
	Position mgl64.Vec3
	Color    Color
	Tag      string

	// Orientation is an euler rotation in degrees applied on top of the
	// translation. It is cosmetic and never read by the turn logic.
	Orientation mgl64.Vec3

	// Transform is derived from Position and Orientation. While a turn
	// is animating it also carries the residual rotation about the face
	// centroid.
	Transform mgl64.Mat4
}

// SetPosition moves the cubelet and refreshes its transform.
func (c *Cubelet) SetPosition(p mgl64.Vec3) {
	c.Position = p
	c.UpdateTransform()
}

// UpdateTransform recomputes Transform from Position and Orientation.
func (c *Cubelet) UpdateTransform() {
	c.Transform = c.baseTransform()
}

// baseTransform is translate(Position), then any non-zero euler
// components in X, Y, Z order.
func (c *Cubelet) baseTransform() mgl64.Mat4 {
	m := mgl64.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z())
	if c.Orientation.X() != 0 {
		m = m.Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(c.Orientation.X())))
	}
	if c.Orientation.Y() != 0 {
		m = m.Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(c.Orientation.Y())))
	}
	if c.Orientation.Z() != 0 {
		m = m.Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(c.Orientation.Z())))
	}
	return m
}

// Center returns the point the cubelet is drawn around, including any
// in-flight rotation carried by Transform.
func (c *Cubelet) Center() mgl64.Vec3 {
	return c.Transform.Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
}
