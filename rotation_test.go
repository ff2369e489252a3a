package minicube

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func facePositions(d FaceDescriptor) [4]mgl64.Vec3 {
	var ps [4]mgl64.Vec3
	for i, slot := range d.Slots {
		ps[i] = corners[slot]
	}
	return ps
}

func TestCentroid(t *testing.T) {
	d, _ := Resolve(FaceTop)
	got := Centroid(facePositions(d))
	if !got.ApproxEqual(mgl64.Vec3{0, 0, 0.5}) {
		t.Errorf("Centroid = %v", got)
	}
}

// A quarter turn carries the corner of Slots[i] onto the corner of
// Slots[i+1] for every face.
func TestRotate_QuarterTurnCyclesCorners(t *testing.T) {
	for _, f := range Faces() {
		d, _ := Resolve(f)
		ps := facePositions(d)
		out := Rotate(ps, d.Axis, QuarterTurn, Centroid(ps))
		for i := range out {
			want := corners[d.Slots[(i+1)%4]]
			if !out[i].ApproxEqualThreshold(want, 1e-9) {
				t.Errorf("%v: slot %d -> %v, want %v", f, d.Slots[i], out[i], want)
			}
		}
	}
}

func TestRotate_NegativeAngleReverses(t *testing.T) {
	d, _ := Resolve(FaceRight)
	ps := facePositions(d)
	c := Centroid(ps)
	back := Rotate(Rotate(ps, d.Axis, QuarterTurn, c), d.Axis, -QuarterTurn, c)
	for i := range ps {
		if !back[i].ApproxEqualThreshold(ps[i], 1e-9) {
			t.Errorf("round trip %d = %v, want %v", i, back[i], ps[i])
		}
	}
}

func TestRotate_DoesNotMutateInput(t *testing.T) {
	d, _ := Resolve(FaceFront)
	ps := facePositions(d)
	orig := ps
	Rotate(ps, d.Axis, QuarterTurn, Centroid(ps))
	if ps != orig {
		t.Error("Rotate modified its input")
	}
}

func TestRotationAbout_MatchesRotate(t *testing.T) {
	d, _ := Resolve(FaceBack)
	ps := facePositions(d)
	c := Centroid(ps)
	angle := math.Pi / 7
	m := RotationAbout(d.Axis, angle, c)
	out := Rotate(ps, d.Axis, angle, c)
	for i, p := range ps {
		got := m.Mul4x1(p.Vec4(1)).Vec3()
		if !got.ApproxEqualThreshold(out[i], 1e-9) {
			t.Errorf("matrix %v, Rotate %v", got, out[i])
		}
	}
}
