package recorder

import (
	"errors"
	"fmt"

	"github.com/SeamusWaldron/minicube"
	"github.com/SeamusWaldron/minicube/internal/storage"
)

// ErrDiverged means a journal does not reproduce when replayed.
var ErrDiverged = errors.New("recorder: journal diverged on replay")

// Replay rebuilds a cube from its seed and re-applies the journaled
// turns in order. Each turn's recorded occupants are checked against the
// rebuilt cube.
func Replay(seed uint64, animationSteps int, turns []storage.TurnRecord) (*minicube.Machine, error) {
	m, err := minicube.NewMachine(minicube.WithSeed(seed), minicube.WithAnimationSteps(animationSteps))
	if err != nil {
		return nil, err
	}

	for i, t := range turns {
		if t.Seq != i+1 {
			return nil, fmt.Errorf("%w: turn %d has seq %d", ErrDiverged, i+1, t.Seq)
		}
		face := minicube.Face(t.FaceID)
		if err := m.Apply(face); err != nil {
			return nil, fmt.Errorf("turn %d (%s): %w", t.Seq, t.Face, err)
		}

		for j, slot := range t.Slots {
			c, err := m.Store().Get(slot)
			if err != nil {
				return nil, fmt.Errorf("turn %d: %w", t.Seq, err)
			}
			if c.Tag != t.Tags[j] {
				return nil, fmt.Errorf("%w: turn %d slot %d holds %s, journal says %s",
					ErrDiverged, t.Seq, slot, c.Tag, t.Tags[j])
			}
		}
	}

	return m, nil
}

// ReplaySession loads a session and its turns and replays them.
func ReplaySession(db *storage.DB, sessionID string) (*storage.Session, *minicube.Machine, error) {
	session, err := storage.NewSessionRepository(db).Get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, fmt.Errorf("session not found: %s", sessionID)
	}

	turns, err := storage.NewTurnRepository(db).GetBySession(sessionID)
	if err != nil {
		return nil, nil, err
	}

	m, err := Replay(session.Seed, session.AnimationSteps, turns)
	if err != nil {
		return nil, nil, err
	}
	return session, m, nil
}
