// Package analysis derives statistics from journaled turns.
package analysis

import (
	"github.com/SeamusWaldron/minicube"
	"github.com/SeamusWaldron/minicube/internal/storage"
)

// DefaultPauseMs is the gap after which a pause is counted.
const DefaultPauseMs = 1500

// SessionSummary contains statistics for a single session.
type SessionSummary struct {
	SessionID       string         `json:"session_id"`
	TurnCount       int            `json:"turn_count"`
	DurationMs      int64          `json:"duration_ms"`
	TPS             float64        `json:"tps"`
	AvgTurnGapMs    float64        `json:"avg_turn_gap_ms"`
	LongestPauseMs  int64          `json:"longest_pause_ms"`
	PauseCount      int            `json:"pause_count"`
	FaceCounts      map[string]int `json:"face_counts"`
	MostUsedFace    string         `json:"most_used_face,omitempty"`
	NetQuarterTurns map[string]int `json:"net_quarter_turns"`
	IdentityRuns    int            `json:"identity_runs"`
}

// Pause is a gap between two consecutive turns.
type Pause struct {
	AfterSeq   int   `json:"after_seq"`
	DurationMs int64 `json:"duration_ms"`
	TsMs       int64 `json:"ts_ms"`
}

// Summarize computes the summary of a session's turns.
func Summarize(sessionID string, turns []storage.TurnRecord) *SessionSummary {
	s := &SessionSummary{
		SessionID:       sessionID,
		TurnCount:       len(turns),
		FaceCounts:      make(map[string]int),
		NetQuarterTurns: make(map[string]int),
	}
	if len(turns) == 0 {
		return s
	}

	s.DurationMs = turns[len(turns)-1].TsMs
	s.TPS = CalculateTPS(len(turns), s.DurationMs)
	s.AvgTurnGapMs = AvgTurnGap(turns)
	s.LongestPauseMs = LongestPause(turns)
	s.PauseCount = len(FindPauses(turns, DefaultPauseMs))
	s.IdentityRuns = CountIdentityRuns(turns)

	for _, t := range turns {
		s.FaceCounts[t.Face]++
	}
	best := 0
	// Faces() is in id order, so ties go to the lower id.
	for _, f := range minicube.Faces() {
		name := f.String()
		if n := s.FaceCounts[name]; n > best {
			best = n
			s.MostUsedFace = name
		}
		s.NetQuarterTurns[name] = s.FaceCounts[name] % 4
	}

	return s
}

// CalculateTPS returns turns per second.
func CalculateTPS(turns int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(turns) / (float64(durationMs) / 1000.0)
}

// AvgTurnGap returns the mean time between consecutive turns.
func AvgTurnGap(turns []storage.TurnRecord) float64 {
	if len(turns) < 2 {
		return 0
	}
	total := turns[len(turns)-1].TsMs - turns[0].TsMs
	return float64(total) / float64(len(turns)-1)
}

// FindPauses returns every gap of at least thresholdMs.
func FindPauses(turns []storage.TurnRecord, thresholdMs int64) []Pause {
	var pauses []Pause
	for i := 1; i < len(turns); i++ {
		gap := turns[i].TsMs - turns[i-1].TsMs
		if gap >= thresholdMs {
			pauses = append(pauses, Pause{
				AfterSeq:   turns[i-1].Seq,
				DurationMs: gap,
				TsMs:       turns[i-1].TsMs,
			})
		}
	}
	return pauses
}

// LongestPause returns the longest gap between consecutive turns.
func LongestPause(turns []storage.TurnRecord) int64 {
	var longest int64
	for i := 1; i < len(turns); i++ {
		if gap := turns[i].TsMs - turns[i-1].TsMs; gap > longest {
			longest = gap
		}
	}
	return longest
}

// CountIdentityRuns counts non-overlapping runs of four consecutive
// turns of the same face. Each such run leaves the cube unchanged.
func CountIdentityRuns(turns []storage.TurnRecord) int {
	runs := 0
	streak := 0
	for i, t := range turns {
		if i > 0 && t.FaceID == turns[i-1].FaceID {
			streak++
		} else {
			streak = 1
		}
		if streak == 4 {
			runs++
			streak = 0
		}
	}
	return runs
}
