package storage

import (
	"path/filepath"
	"testing"

	"github.com/SeamusWaldron/minicube"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMigrated(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("OpenMigrated: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.MigrateUp(); err != nil {
		t.Fatalf("second MigrateUp: %v", err)
	}
	v, err := db.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != len(migrations) {
		t.Errorf("version = %d, want %d", v, len(migrations))
	}
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	id, err := repo.Create(18446744073709551615, 3, "warmup", "0.1.0")
	if err != nil {
		t.Fatal(err)
	}

	s, err := repo.Get(id)
	if err != nil || s == nil {
		t.Fatalf("Get: %v, %v", s, err)
	}
	if s.Seed != 18446744073709551615 || s.AnimationSteps != 3 {
		t.Errorf("got %+v", s)
	}
	if s.Notes == nil || *s.Notes != "warmup" {
		t.Errorf("notes = %v", s.Notes)
	}
	if s.EndedAt != nil {
		t.Error("new session already ended")
	}

	if err := repo.End(id); err != nil {
		t.Fatal(err)
	}
	if err := repo.End(id); err == nil {
		t.Error("ending twice should fail")
	}
	s, _ = repo.Get(id)
	if s.EndedAt == nil {
		t.Error("EndedAt not set")
	}
}

func TestSessionRepository_GetMissing(t *testing.T) {
	db := openTestDB(t)
	s, err := NewSessionRepository(db).Get("does-not-exist")
	if err != nil || s != nil {
		t.Errorf("Get = %v, %v; want nil, nil", s, err)
	}
}

func TestSessionRepository_ListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)
	first, _ := repo.Create(1, 1, "", "")
	second, _ := repo.Create(2, 1, "", "")

	sessions, err := repo.List(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 || sessions[0].SessionID != second || sessions[1].SessionID != first {
		t.Errorf("order = %+v", sessions)
	}

	last, err := repo.GetLast()
	if err != nil || last == nil || last.SessionID != second {
		t.Errorf("GetLast = %+v, %v", last, err)
	}
}

func TestTurnRepository_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	turns := NewTurnRepository(db)
	id, _ := sessions.Create(42, 1, "", "")

	m, err := minicube.NewMachine(minicube.WithSeed(42))
	if err != nil {
		t.Fatal(err)
	}
	var events []minicube.TurnEvent
	m.OnTurn(func(e minicube.TurnEvent) { events = append(events, e) })
	m.Apply(minicube.FaceTop, minicube.FaceRight)

	if _, err := turns.Create(id, 10, events[0]); err != nil {
		t.Fatal(err)
	}
	if err := turns.CreateBatch(id, 20, events[1:]); err != nil {
		t.Fatal(err)
	}

	got, err := turns.GetBySession(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d turns", len(got))
	}
	if got[0].Face != "top" || got[0].FaceID != 1 || got[0].Slots != events[0].Slots || got[0].Tags != events[0].Tags {
		t.Errorf("turn 1 = %+v", got[0])
	}
	if got[1].Seq != 2 || got[1].Face != "right" || got[1].TsMs != 20 {
		t.Errorf("turn 2 = %+v", got[1])
	}

	n, _ := turns.Count(id)
	next, _ := turns.NextSeq(id)
	if n != 2 || next != 3 {
		t.Errorf("count = %d, next = %d", n, next)
	}

	s, _ := sessions.Get(id)
	if s.TurnCount != 2 {
		t.Errorf("TurnCount = %d", s.TurnCount)
	}
}

func TestTurnRepository_DuplicateSeqRejected(t *testing.T) {
	db := openTestDB(t)
	id, _ := NewSessionRepository(db).Create(1, 1, "", "")
	turns := NewTurnRepository(db)
	e := minicube.TurnEvent{Seq: 1, Face: minicube.FaceTop, Slots: [4]int{0, 1, 3, 2}}
	if _, err := turns.Create(id, 0, e); err != nil {
		t.Fatal(err)
	}
	if _, err := turns.Create(id, 0, e); err == nil {
		t.Error("duplicate seq should be rejected")
	}
}

func TestSessionRepository_DeleteCascades(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	turns := NewTurnRepository(db)
	id, _ := sessions.Create(1, 1, "", "")
	turns.Create(id, 0, minicube.TurnEvent{Seq: 1, Face: minicube.FaceLeft, Slots: [4]int{4, 0, 2, 6}})

	if err := sessions.Delete(id); err != nil {
		t.Fatal(err)
	}
	if n, _ := turns.Count(id); n != 0 {
		t.Errorf("%d turns survived delete", n)
	}
}
