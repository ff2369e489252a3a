package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/minicube"
	"github.com/SeamusWaldron/minicube/internal/config"
	"github.com/SeamusWaldron/minicube/internal/recorder"
	"github.com/SeamusWaldron/minicube/internal/storage"
)

// newMachine builds a machine from a seed (0 = random) and step count.
func newMachine(seed uint64, steps int) (*minicube.Machine, error) {
	opts := []minicube.Option{minicube.WithAnimationSteps(steps)}
	if seed != 0 {
		opts = append(opts, minicube.WithSeed(seed))
	}
	m, err := minicube.NewMachine(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise cube: %w", err)
	}
	return m, nil
}

// resolveDBPath picks the journal path: flag, config, state file, default.
func resolveDBPath(stateFile *recorder.StateFile) (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	if stateFile != nil && stateFile.DBPath() != "" {
		return stateFile.DBPath(), nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "minicube.db"), nil
}

// openDB opens the journal database and applies migrations.
func openDB() (*storage.DB, error) {
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	path, err := resolveDBPath(stateFile)
	if err != nil {
		return nil, err
	}
	db, err := storage.OpenMigrated(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	if dbPath != "" && stateFile.DBPath() != dbPath {
		if err := stateFile.SetDBPath(dbPath); err != nil {
			logrus.WithError(err).Warn("failed to remember database path")
		}
	}
	return db, nil
}

// journal bundles an open database with a recording session.
type journal struct {
	db      *storage.DB
	session *recorder.Session
}

// startJournal opens the database and starts journaling m.
func startJournal(m *minicube.Machine, steps int, notes string) (*journal, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	session := recorder.NewSession(db, stateFile)
	if _, err := session.Start(m.Store().Seed(), steps, notes, version); err != nil {
		db.Close()
		return nil, err
	}
	session.Attach(m)
	return &journal{db: db, session: session}, nil
}

// resumeJournal continues journaling an existing session on m.
func resumeJournal(db *storage.DB, m *minicube.Machine, sessionID string) (*journal, error) {
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	session := recorder.NewSession(db, stateFile)
	if err := session.Resume(sessionID); err != nil {
		return nil, err
	}
	session.Attach(m)
	return &journal{db: db, session: session}, nil
}

// Close ends the session and closes the database.
func (j *journal) Close() {
	if j == nil {
		return
	}
	if j.session.State() == recorder.StateRecording {
		if err := j.session.End(); err != nil {
			logrus.WithError(err).Warn("failed to end journal session")
		}
	}
	j.db.Close()
}

// logToFile sends logrus output to <config dir>/minicube.log so a
// full-screen view is not disturbed. The returned func restores stderr.
func logToFile() (func(), error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "minicube.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logrus.SetOutput(f)
	return func() {
		logrus.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// resolveSessionID returns the explicit id, or the last one with --last.
func resolveSessionID(db *storage.DB, args []string, last bool) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !last {
		return "", fmt.Errorf("specify a session id or --last")
	}

	repo := storage.NewSessionRepository(db)
	if stateFile, err := recorder.NewDefaultStateFile(); err == nil && stateFile.LastSessionID() != "" {
		if s, err := repo.Get(stateFile.LastSessionID()); err == nil && s != nil {
			return s.SessionID, nil
		}
	}

	session, err := repo.GetLast()
	if err != nil {
		return "", fmt.Errorf("failed to get last session: %w", err)
	}
	if session == nil {
		return "", fmt.Errorf("no sessions found")
	}
	return session.SessionID, nil
}
