package minicube

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func newTestMachine(t *testing.T, opts ...Option) *Machine {
	t.Helper()
	m, err := NewMachine(append([]Option{WithSeed(42)}, opts...)...)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return m
}

func TestMachine_StartsIdle(t *testing.T) {
	m := newTestMachine(t)
	if m.State() != StateIdle {
		t.Errorf("state = %v", m.State())
	}
	if _, ok := m.ActiveTurn(); ok {
		t.Error("idle machine reports an active turn")
	}
	m.Tick()
	if m.State() != StateIdle || m.Turns() != 0 {
		t.Error("idle tick changed state")
	}
}

func TestMachine_TopTurnScenario(t *testing.T) {
	m := newTestMachine(t)
	if err := m.Submit(FaceTop); err != nil {
		t.Fatal(err)
	}
	if m.State() != StateRotating {
		t.Fatalf("state = %v, want rotating", m.State())
	}
	m.Tick()
	if m.State() != StateIdle {
		t.Fatalf("state = %v, want idle after one tick", m.State())
	}

	// A2 -> slot 0, A0 -> slot 1, A1 -> slot 3, A3 -> slot 2.
	want := map[int]string{0: "A2", 1: "A0", 3: "A1", 2: "A3"}
	for slot, tag := range want {
		c, _ := m.Store().Get(slot)
		if c.Tag != tag {
			t.Errorf("slot %d holds %s, want %s", slot, c.Tag, tag)
		}
		if c.Position != corners[slot] {
			t.Errorf("slot %d at %v, want %v", slot, c.Position, corners[slot])
		}
	}
	for slot := 4; slot < SlotCount; slot++ {
		c, _ := m.Store().Get(slot)
		if c.Tag != "A"+string(rune('0'+slot)) {
			t.Errorf("bottom slot %d disturbed: %s", slot, c.Tag)
		}
	}
	if err := m.Store().Validate(); err != nil {
		t.Error(err)
		t.Log(m.Store().String())
	}
}

func TestMachine_SubmitWhileRotatingIsIgnored(t *testing.T) {
	m := newTestMachine(t, WithAnimationSteps(4))
	if err := m.Submit(FaceLeft); err != nil {
		t.Fatal(err)
	}
	m.Tick()
	before, _ := m.ActiveTurn()

	if err := m.Submit(FaceRight); !errors.Is(err, ErrTurnInProgress) {
		t.Errorf("error = %v, want ErrTurnInProgress", err)
	}
	after, ok := m.ActiveTurn()
	if !ok || after != before {
		t.Errorf("pending turn changed: %+v -> %+v", before, after)
	}

	for m.State() == StateRotating {
		m.Tick()
	}
	if m.Turns() != 1 {
		t.Errorf("turns = %d, want 1 (second command must not queue)", m.Turns())
	}
	m.Tick()
	if m.Turns() != 1 {
		t.Error("dropped command ran later")
	}
}

func TestMachine_UnknownFaceIsNoop(t *testing.T) {
	m := newTestMachine(t)
	if err := m.Submit(Face(99)); !errors.Is(err, ErrUnknownFace) {
		t.Errorf("error = %v", err)
	}
	if m.State() != StateIdle {
		t.Error("unknown face started a turn")
	}
}

func TestMachine_FourTurnsIsIdentity(t *testing.T) {
	for _, f := range Faces() {
		m := newTestMachine(t)
		orig := m.Cubelets()
		if err := m.Apply(f, f, f, f); err != nil {
			t.Fatal(err)
		}
		if m.Cubelets() != orig {
			t.Errorf("%v x 4 should return every cubelet", f)
			t.Log(m.Store().String())
		}
	}
}

func TestMachine_DisjointFacesCommute(t *testing.T) {
	a := newTestMachine(t)
	b := newTestMachine(t)
	a.Apply(FaceTop, FaceBottom)
	b.Apply(FaceBottom, FaceTop)
	if a.Cubelets() != b.Cubelets() {
		t.Error("top/bottom should commute")
		t.Log(a.Store().String())
		t.Log(b.Store().String())
	}
}

func TestMachine_InvariantsHoldOverRandomTurns(t *testing.T) {
	m := newTestMachine(t)
	rng := rand.New(rand.NewPCG(1, 2))
	faces := Faces()
	for i := 0; i < 500; i++ {
		f := faces[rng.IntN(len(faces))]
		if err := m.Apply(f); err != nil {
			t.Fatal(err)
		}
		if err := m.Store().Validate(); err != nil {
			t.Fatalf("after turn %d (%v): %v\n%s", i+1, f, err, m.Store().String())
		}
		for slot, c := range m.Cubelets() {
			if c.Position != corners[slot] {
				t.Fatalf("turn %d: slot %d occupant at %v", i+1, slot, c.Position)
			}
		}
	}
	if m.Turns() != 500 {
		t.Errorf("turns = %d", m.Turns())
	}
}

func TestMachine_AnimationIsVisualOnly(t *testing.T) {
	m := newTestMachine(t, WithAnimationSteps(3))
	orig := m.Cubelets()
	m.Submit(FaceRight)
	m.Tick()

	turn, ok := m.ActiveTurn()
	if !ok {
		t.Fatal("turn finished after one of three ticks")
	}
	if f := turn.Fraction(); f < 0.33 || f > 0.34 {
		t.Errorf("fraction = %v, want 1/3", f)
	}

	moved := false
	for slot, c := range m.Cubelets() {
		if c.Position != orig[slot].Position || c.Tag != orig[slot].Tag {
			t.Errorf("slot %d changed logically mid-turn", slot)
		}
		if !c.Center().ApproxEqualThreshold(c.Position, 1e-9) {
			moved = true
		}
	}
	if !moved {
		t.Error("no cubelet carries a residual rotation mid-turn")
	}

	m.Tick()
	m.Tick()
	if m.State() != StateIdle {
		t.Fatalf("state = %v after three ticks", m.State())
	}
	for slot, c := range m.Cubelets() {
		if c.Center() != c.Position {
			t.Errorf("slot %d keeps a residual rotation after the turn", slot)
		}
	}
}

func TestMachine_OnTurnEvent(t *testing.T) {
	m := newTestMachine(t)
	var events []TurnEvent
	m.OnTurn(func(e TurnEvent) { events = append(events, e) })
	m.Apply(FaceFront, FaceBack)

	if len(events) != 2 {
		t.Fatalf("got %d events", len(events))
	}
	e := events[0]
	if e.Seq != 1 || e.Face != FaceFront || e.Slots != [4]int{4, 5, 1, 0} {
		t.Errorf("event = %+v", e)
	}
	// front: A0 -> 4, A4 -> 5, A5 -> 1, A1 -> 0
	if e.Tags != [4]string{"A0", "A4", "A5", "A1"} {
		t.Errorf("tags = %v", e.Tags)
	}
	if events[1].Seq != 2 {
		t.Errorf("second seq = %d", events[1].Seq)
	}
}

func TestMachine_ApplyStopsOnUnknownFace(t *testing.T) {
	m := newTestMachine(t)
	err := m.Apply(FaceTop, Face(0), FaceBottom)
	if !errors.Is(err, ErrUnknownFace) {
		t.Errorf("error = %v", err)
	}
	if m.Turns() != 1 {
		t.Errorf("turns = %d, want 1", m.Turns())
	}
}
