package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/SeamusWaldron/minicube"
)

// TurnRecord represents a completed face turn in the database.
type TurnRecord struct {
	TurnID    int64
	SessionID string
	Seq       int
	TsMs      int64
	Face      string
	FaceID    int
	Slots     [4]int
	Tags      [4]string
}

// TurnRepository provides CRUD operations for turns.
type TurnRepository struct {
	db *DB
}

// NewTurnRepository creates a new turn repository.
func NewTurnRepository(db *DB) *TurnRepository {
	return &TurnRepository{db: db}
}

const insertTurn = `
	INSERT INTO turns (session_id, seq, ts_ms, face, face_id, slots, tags)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

func turnArgs(sessionID string, tsMs int64, e minicube.TurnEvent) []any {
	return []any{sessionID, e.Seq, tsMs, e.Face.String(), int(e.Face), joinSlots(e.Slots), strings.Join(e.Tags[:], ",")}
}

// Create stores a completed turn and returns its ID.
func (r *TurnRepository) Create(sessionID string, tsMs int64, e minicube.TurnEvent) (int64, error) {
	result, err := r.db.Exec(insertTurn, turnArgs(sessionID, tsMs, e)...)
	if err != nil {
		return 0, fmt.Errorf("failed to create turn: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get turn ID: %w", err)
	}

	return id, nil
}

// CreateBatch stores several turns in a single transaction.
func (r *TurnRepository) CreateBatch(sessionID string, tsMs int64, events []minicube.TurnEvent) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for _, e := range events {
			if _, err := tx.Exec(insertTurn, turnArgs(sessionID, tsMs, e)...); err != nil {
				return fmt.Errorf("failed to create turn %d: %w", e.Seq, err)
			}
		}
		return nil
	})
}

// GetBySession retrieves all turns for a session in order.
func (r *TurnRepository) GetBySession(sessionID string) ([]TurnRecord, error) {
	rows, err := r.db.Query(`
		SELECT turn_id, session_id, seq, ts_ms, face, face_id, slots, tags
		FROM turns
		WHERE session_id = ?
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get turns: %w", err)
	}
	defer rows.Close()

	var turns []TurnRecord
	for rows.Next() {
		var t TurnRecord
		var slots, tags string
		if err := rows.Scan(&t.TurnID, &t.SessionID, &t.Seq, &t.TsMs, &t.Face, &t.FaceID, &slots, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		if t.Slots, err = splitSlots(slots); err != nil {
			return nil, fmt.Errorf("turn %d: %w", t.Seq, err)
		}
		copy(t.Tags[:], strings.Split(tags, ","))
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get turns: %w", err)
	}

	return turns, nil
}

// Count returns the number of turns in a session.
func (r *TurnRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM turns WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count turns: %w", err)
	}
	return count, nil
}

// NextSeq returns the sequence number the next turn of a session gets.
func (r *TurnRepository) NextSeq(sessionID string) (int, error) {
	var seq int
	err := r.db.QueryRow("SELECT COALESCE(MAX(seq), 0) + 1 FROM turns WHERE session_id = ?", sessionID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to get next turn seq: %w", err)
	}
	return seq, nil
}

func joinSlots(slots [4]int) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

func splitSlots(s string) ([4]int, error) {
	var out [4]int
	parts := strings.Split(s, ",")
	if len(parts) != len(out) {
		return out, fmt.Errorf("malformed slots %q", s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return out, fmt.Errorf("malformed slots %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
