package minicube

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// SlotCount is the number of logical slots (and cubelets).
const SlotCount = 8

// Store holds the eight cubelets indexed by logical slot.
//
// A slot is a fixed corner of the lattice. Which cubelet sits in a slot
// changes with every turn; the corner bound to the slot does not.
type Store struct {
	cubelets [SlotCount]Cubelet
	seed     uint64
}

// SlotPosition pairs a slot with the position of its current occupant.
type SlotPosition struct {
	Slot     int
	Position mgl64.Vec3
}

// corners maps each slot to its canonical corner of the unit cube
// centred at the origin.
var corners = [SlotCount]mgl64.Vec3{
	{-0.5, -0.5, 0.5},
	{0.5, -0.5, 0.5},
	{-0.5, 0.5, 0.5},
	{0.5, 0.5, 0.5},
	{-0.5, -0.5, -0.5},
	{0.5, -0.5, -0.5},
	{-0.5, 0.5, -0.5},
	{0.5, 0.5, -0.5},
}

// Corner returns the canonical corner bound to a slot.
func Corner(slot int) (mgl64.Vec3, error) {
	if err := checkSlot(slot); err != nil {
		return mgl64.Vec3{}, err
	}
	return corners[slot], nil
}

// NewStore creates a store with the eight cubelets on their canonical
// corners, colours shuffled from the palette and tags A0..A7.
func NewStore(opts ...Option) (*Store, error) {
	cfg := applyOptions(opts)

	seed := cfg.seed
	if !cfg.seeded {
		var err error
		seed, err = randomSeed()
		if err != nil {
			return nil, err
		}
	}

	colors := palette
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(colors), func(i, j int) {
		colors[i], colors[j] = colors[j], colors[i]
	})

	s := &Store{seed: seed}
	for slot := 0; slot < SlotCount; slot++ {
		s.cubelets[slot] = Cubelet{
			Color: colors[slot],
			Tag:   fmt.Sprintf("A%d", slot),
		}
		s.cubelets[slot].SetPosition(corners[slot])
	}
	return s, nil
}

func randomSeed() (uint64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoEntropy, err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func checkSlot(slot int) error {
	if slot < 0 || slot >= SlotCount {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return nil
}

// Seed returns the seed used for the colour shuffle.
func (s *Store) Seed() uint64 {
	return s.seed
}

// Get returns a copy of the cubelet in a slot.
func (s *Store) Get(slot int) (Cubelet, error) {
	if err := checkSlot(slot); err != nil {
		return Cubelet{}, err
	}
	return s.cubelets[slot], nil
}

// Set overwrites the cubelet in a slot. Callers keep the slot mapping a
// permutation; Set does not check it.
func (s *Store) Set(slot int, c Cubelet) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	s.cubelets[slot] = c
	return nil
}

// at returns a pointer for in-place mutation. slot must be valid.
func (s *Store) at(slot int) *Cubelet {
	return &s.cubelets[slot]
}

// Positions returns the position of every slot's occupant in slot order.
func (s *Store) Positions() []SlotPosition {
	out := make([]SlotPosition, SlotCount)
	for i := range s.cubelets {
		out[i] = SlotPosition{Slot: i, Position: s.cubelets[i].Position}
	}
	return out
}

// Cubelets returns a copy of all cubelets in slot order.
func (s *Store) Cubelets() [SlotCount]Cubelet {
	return s.cubelets
}

// Clone creates a deep copy of the store.
func (s *Store) Clone() *Store {
	clone := *s
	return &clone
}

// Validate checks that every original tag occupies exactly one slot and
// that the cubelets cover the eight corners exactly once.
func (s *Store) Validate() error {
	seenTag := make(map[string]int, SlotCount)
	seenCorner := make(map[mgl64.Vec3]int, SlotCount)
	for slot, c := range s.cubelets {
		if prev, ok := seenTag[c.Tag]; ok {
			return fmt.Errorf("%w: tag %s in slots %d and %d", ErrInvariant, c.Tag, prev, slot)
		}
		seenTag[c.Tag] = slot

		if !isCorner(c.Position) {
			return fmt.Errorf("%w: slot %d at %s is off the lattice", ErrInvariant, slot, formatVec(c.Position))
		}
		if prev, ok := seenCorner[c.Position]; ok {
			return fmt.Errorf("%w: slots %d and %d share corner %s", ErrInvariant, prev, slot, formatVec(c.Position))
		}
		seenCorner[c.Position] = slot
	}
	for i := 0; i < SlotCount; i++ {
		tag := fmt.Sprintf("A%d", i)
		if _, ok := seenTag[tag]; !ok {
			return fmt.Errorf("%w: tag %s missing", ErrInvariant, tag)
		}
	}
	return nil
}

func isCorner(p mgl64.Vec3) bool {
	for _, c := range corners {
		if p == c {
			return true
		}
	}
	return false
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X(), v.Y(), v.Z())
}

// String returns a slot table of the store.
func (s *Store) String() string {
	var b strings.Builder
	b.WriteString("slot tag color position\n")
	for slot, c := range s.cubelets {
		fmt.Fprintf(&b, "%4d %3s %5s %s\n", slot, c.Tag, c.Color, formatVec(c.Position))
	}
	return b.String()
}
