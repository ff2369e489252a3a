package minicube

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Face identifies one of the six turnable faces.
type Face int

const (
	FaceTop Face = iota + 1
	FaceBottom
	FaceFront
	FaceBack
	FaceLeft
	FaceRight
)

func (f Face) String() string {
	switch f {
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	default:
		return fmt.Sprintf("face(%d)", int(f))
	}
}

// FaceDescriptor describes the cubelets a face turn moves.
//
// Slots is ordered: a quarter turn carries the occupant of Slots[i] to
// the corner of Slots[i+1], and Axis is signed so that a positive
// rotation about it produces exactly that cycle.
type FaceDescriptor struct {
	Face  Face
	Slots [4]int
	Axis  mgl64.Vec3
	ID    int
}

var faceTable = map[Face]FaceDescriptor{
	FaceTop:    {Face: FaceTop, Slots: [4]int{0, 1, 3, 2}, Axis: mgl64.Vec3{0, 0, 1}, ID: 1},
	FaceBottom: {Face: FaceBottom, Slots: [4]int{5, 4, 6, 7}, Axis: mgl64.Vec3{0, 0, -1}, ID: 2},
	FaceFront:  {Face: FaceFront, Slots: [4]int{4, 5, 1, 0}, Axis: mgl64.Vec3{0, -1, 0}, ID: 3},
	FaceBack:   {Face: FaceBack, Slots: [4]int{2, 3, 7, 6}, Axis: mgl64.Vec3{0, 1, 0}, ID: 4},
	FaceLeft:   {Face: FaceLeft, Slots: [4]int{4, 0, 2, 6}, Axis: mgl64.Vec3{-1, 0, 0}, ID: 5},
	FaceRight:  {Face: FaceRight, Slots: [4]int{1, 5, 7, 3}, Axis: mgl64.Vec3{1, 0, 0}, ID: 6},
}

// Resolve returns the descriptor for a face.
func Resolve(f Face) (FaceDescriptor, error) {
	d, ok := faceTable[f]
	if !ok {
		return FaceDescriptor{}, fmt.Errorf("%w: %v", ErrUnknownFace, f)
	}
	return d, nil
}

// Faces returns the six faces in id order.
func Faces() []Face {
	return []Face{FaceTop, FaceBottom, FaceFront, FaceBack, FaceLeft, FaceRight}
}

// FaceByName maps a lowercase face name ("top", "left", ...) to a Face.
func FaceByName(name string) (Face, error) {
	for _, f := range Faces() {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFace, name)
}

// FaceByKey maps the number keys 1-6 to faces in id order.
func FaceByKey(key string) (Face, error) {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '6' {
		return Face(key[0] - '0'), nil
	}
	return 0, fmt.Errorf("%w: key %q", ErrUnknownFace, key)
}
