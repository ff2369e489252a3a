package recorder

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/minicube"
	"github.com/SeamusWaldron/minicube/internal/storage"
)

// SessionState represents the current state of a journal session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session journals the completed turns of one play session.
type Session struct {
	stateFile *StateFile

	mu        sync.Mutex
	state     SessionState
	sessionID string
	startTime time.Time
	turnCount int
	lastErr   error

	sessionRepo *storage.SessionRepository
	turnRepo    *storage.TurnRepository
}

// NewSession creates a new session journal. stateFile may be nil.
func NewSession(db *storage.DB, stateFile *StateFile) *Session {
	return &Session{
		stateFile:   stateFile,
		state:       StateIdle,
		sessionRepo: storage.NewSessionRepository(db),
		turnRepo:    storage.NewTurnRepository(db),
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// TurnCount returns the number of turns journaled so far.
func (s *Session) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turnCount
}

// LastError returns the most recent journal write failure, if any.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Start opens a new journal session for a cube built from seed.
func (s *Session) Start(seed uint64, animationSteps int, notes, appVersion string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", fmt.Errorf("session already in progress")
	}

	id, err := s.sessionRepo.Create(seed, animationSteps, notes, appVersion)
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}

	s.sessionID = id
	s.startTime = time.Now()
	s.turnCount = 0
	s.lastErr = nil
	s.state = StateRecording

	if s.stateFile != nil {
		if err := s.stateFile.SetActiveSession(id); err != nil {
			logrus.WithError(err).Warn("failed to update state file")
		}
	}

	logrus.WithFields(logrus.Fields{
		"session": id,
		"seed":    seed,
	}).Info("journal session started")

	return id, nil
}

// Record journals a completed turn. Turns outside a session are ignored.
func (s *Session) Record(e minicube.TurnEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return nil
	}

	tsMs := time.Since(s.startTime).Milliseconds()
	if _, err := s.turnRepo.Create(s.sessionID, tsMs, e); err != nil {
		s.lastErr = err
		return fmt.Errorf("failed to record turn %d: %w", e.Seq, err)
	}
	s.turnCount++

	logrus.WithFields(logrus.Fields{
		"session": s.sessionID,
		"seq":     e.Seq,
		"face":    e.Face.String(),
	}).Debug("turn journaled")

	return nil
}

// Attach journals every turn the machine completes. Write failures are
// logged and kept in LastError; they never interrupt the machine.
func (s *Session) Attach(m *minicube.Machine) {
	m.OnTurn(func(e minicube.TurnEvent) {
		if err := s.Record(e); err != nil {
			logrus.WithError(err).Error("journal write failed")
		}
	})
}

// End closes the current session.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return fmt.Errorf("no session in progress")
	}

	if err := s.sessionRepo.End(s.sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	s.state = StateEnded

	if s.stateFile != nil {
		if err := s.stateFile.ClearActiveSession(); err != nil {
			logrus.WithError(err).Warn("failed to update state file")
		}
	}

	logrus.WithFields(logrus.Fields{
		"session": s.sessionID,
		"turns":   s.turnCount,
	}).Info("journal session ended")

	return nil
}

// Resume continues journaling an interrupted session. Rebuild the cube
// with ReplaySession first so the machine's turn numbers continue from
// the last stored turn.
func (s *Session) Resume(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	if session.EndedAt != nil {
		return fmt.Errorf("session already ended")
	}

	s.sessionID = sessionID
	s.startTime = session.StartedAt
	s.turnCount = session.TurnCount
	s.state = StateRecording
	return nil
}
