package analysis

import (
	"testing"

	"github.com/SeamusWaldron/minicube/internal/storage"
)

func turnsOf(ts []int64, faces ...string) []storage.TurnRecord {
	ids := map[string]int{"top": 1, "bottom": 2, "front": 3, "back": 4, "left": 5, "right": 6}
	turns := make([]storage.TurnRecord, len(faces))
	for i, f := range faces {
		turns[i] = storage.TurnRecord{Seq: i + 1, Face: f, FaceID: ids[f], TsMs: ts[i]}
	}
	return turns
}

func TestSummarize(t *testing.T) {
	turns := turnsOf([]int64{100, 300, 2300, 2500, 3000},
		"top", "top", "right", "top", "front")

	s := Summarize("s1", turns)

	if s.TurnCount != 5 {
		t.Errorf("TurnCount = %d, want 5", s.TurnCount)
	}
	if s.DurationMs != 3000 {
		t.Errorf("DurationMs = %d, want 3000", s.DurationMs)
	}
	if s.LongestPauseMs != 2000 {
		t.Errorf("LongestPauseMs = %d, want 2000", s.LongestPauseMs)
	}
	if s.PauseCount != 1 {
		t.Errorf("PauseCount = %d, want 1", s.PauseCount)
	}
	if s.MostUsedFace != "top" {
		t.Errorf("MostUsedFace = %q, want top", s.MostUsedFace)
	}
	if s.FaceCounts["top"] != 3 || s.NetQuarterTurns["top"] != 3 {
		t.Errorf("top counts = %d/%d, want 3/3", s.FaceCounts["top"], s.NetQuarterTurns["top"])
	}
	if s.AvgTurnGapMs != 725 {
		t.Errorf("AvgTurnGapMs = %v, want 725", s.AvgTurnGapMs)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize("empty", nil)
	if s.TurnCount != 0 || s.TPS != 0 || s.MostUsedFace != "" {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestCountIdentityRuns(t *testing.T) {
	ts := make([]int64, 10)
	turns := turnsOf(ts, "left", "left", "left", "left", "left", "top", "top", "top", "top", "top")

	if got := CountIdentityRuns(turns); got != 2 {
		t.Errorf("CountIdentityRuns = %d, want 2", got)
	}
}

func TestTopNGrams(t *testing.T) {
	ts := make([]int64, 7)
	turns := turnsOf(ts, "right", "top", "right", "top", "front", "right", "top")

	grams := TopNGrams(turns, 2, 3)
	if len(grams) == 0 {
		t.Fatal("expected repeated pairs")
	}
	if got := grams[0]; got.Sequence[0] != "right" || got.Sequence[1] != "top" || got.Count != 3 {
		t.Errorf("top gram = %+v, want right top x3", got)
	}
	if grams[0].FirstSeq != 1 {
		t.Errorf("FirstSeq = %d, want 1", grams[0].FirstSeq)
	}

	if got := TopNGrams(turns, 8, 3); got != nil {
		t.Errorf("n larger than input gave %v", got)
	}
}
