package minicube

import "github.com/go-gl/mathgl/mgl64"

// TurnState is the state of the turn state machine.
type TurnState int

const (
	StateIdle TurnState = iota
	StateRotating
)

// String returns the string representation of the turn state.
func (s TurnState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRotating:
		return "rotating"
	default:
		return "unknown"
	}
}

// Turn is the transient record of a face turn in progress.
type Turn struct {
	Face     FaceDescriptor
	Progress float64 // radians accumulated so far
	Target   float64 // radians, always QuarterTurn

	centroid mgl64.Vec3
}

// Fraction returns how far the turn has progressed, in [0,1].
func (t Turn) Fraction() float64 {
	if t.Target == 0 {
		return 0
	}
	f := t.Progress / t.Target
	if f > 1 {
		return 1
	}
	return f
}

// TurnEvent describes a completed turn.
type TurnEvent struct {
	Seq   int    // 1-based count of completed turns
	Face  Face   // face that was turned
	Slots [4]int // slots of the face, in cycle order

	// Tags holds the occupants of Slots after the permutation commit.
	Tags [4]string
}

// Machine sequences face turns over a Store: Idle -> Rotating -> Idle,
// advanced by external ticks. It is not safe for concurrent use; one
// owner submits commands and ticks.
type Machine struct {
	store *Store
	state TurnState
	turn  Turn
	steps int
	turns int

	onTurn []func(TurnEvent)
}

// NewMachine creates a machine over a freshly initialised store.
func NewMachine(opts ...Option) (*Machine, error) {
	store, err := NewStore(opts...)
	if err != nil {
		return nil, err
	}
	return NewMachineWithStore(store, opts...), nil
}

// NewMachineWithStore creates a machine driving an existing store.
func NewMachineWithStore(store *Store, opts ...Option) *Machine {
	cfg := applyOptions(opts)
	return &Machine{
		store: store,
		state: StateIdle,
		steps: cfg.animationSteps,
	}
}

// OnTurn registers a callback fired after each completed turn.
func (m *Machine) OnTurn(cb func(TurnEvent)) {
	m.onTurn = append(m.onTurn, cb)
}

// State returns the current state.
func (m *Machine) State() TurnState {
	return m.state
}

// ActiveTurn returns the turn in progress, if any.
func (m *Machine) ActiveTurn() (Turn, bool) {
	if m.state != StateRotating {
		return Turn{}, false
	}
	return m.turn, true
}

// Turns returns the number of completed turns.
func (m *Machine) Turns() int {
	return m.turns
}

// Store returns the underlying store. Renderers must treat it as
// read-only.
func (m *Machine) Store() *Store {
	return m.store
}

// Cubelets returns a copy of the cubelets in slot order.
func (m *Machine) Cubelets() [SlotCount]Cubelet {
	return m.store.Cubelets()
}

// Submit starts a turn of face f. While a turn is rotating the command
// is dropped with ErrTurnInProgress; an unrecognised face yields
// ErrUnknownFace. Neither changes any state.
func (m *Machine) Submit(f Face) error {
	desc, err := Resolve(f)
	if err != nil {
		return err
	}
	if m.state == StateRotating {
		return ErrTurnInProgress
	}

	var ps [4]mgl64.Vec3
	for i, slot := range desc.Slots {
		ps[i] = m.store.at(slot).Position
	}

	m.turn = Turn{
		Face:     desc,
		Progress: 0,
		Target:   QuarterTurn,
		centroid: Centroid(ps),
	}
	m.state = StateRotating
	return nil
}

// Tick advances the active turn by one step. Idle ticks do nothing.
func (m *Machine) Tick() {
	if m.state != StateRotating {
		return
	}

	m.turn.Progress += m.turn.Target / float64(m.steps)
	if m.turn.Progress < m.turn.Target-1e-9 {
		m.animate()
		return
	}
	m.complete()
}

// animate applies the residual rotation to the moving cubelets'
// transforms. Positions stay put until the turn completes.
func (m *Machine) animate() {
	rot := RotationAbout(m.turn.Face.Axis, m.turn.Progress, m.turn.centroid)
	for _, slot := range m.turn.Face.Slots {
		c := m.store.at(slot)
		c.Transform = rot.Mul4(c.baseTransform())
	}
}

// complete rotates the face geometry by the full quarter turn, snaps
// every cubelet to the lattice and only then commits the permutation.
func (m *Machine) complete() {
	desc := m.turn.Face

	var ps [4]mgl64.Vec3
	for i, slot := range desc.Slots {
		ps[i] = m.store.at(slot).Position
	}
	centroid := Centroid(ps)
	rotated := Rotate(ps, desc.Axis, QuarterTurn, centroid)
	for i, slot := range desc.Slots {
		m.store.at(slot).SetPosition(rotated[i])
	}
	m.store.SnapAll()

	// Slots come from the static face table, so Commit cannot fail here.
	_ = Commit(m.store, desc.Slots)

	m.turn = Turn{}
	m.state = StateIdle
	m.turns++

	event := TurnEvent{Seq: m.turns, Face: desc.Face, Slots: desc.Slots}
	for i, slot := range desc.Slots {
		event.Tags[i] = m.store.at(slot).Tag
	}
	for _, cb := range m.onTurn {
		cb(event)
	}
}

// Apply turns each face in order, ticking until every turn completes.
// It fails with ErrTurnInProgress if a turn is already rotating.
func (m *Machine) Apply(faces ...Face) error {
	for _, f := range faces {
		if err := m.Submit(f); err != nil {
			return err
		}
		for m.state == StateRotating {
			m.Tick()
		}
	}
	return nil
}
