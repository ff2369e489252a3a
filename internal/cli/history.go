package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/minicube"
	"github.com/SeamusWaldron/minicube/internal/analysis"
	"github.com/SeamusWaldron/minicube/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled sessions",
	RunE:  runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show [session_id]",
	Short: "Show the turns of a journaled session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

var (
	historyLimit int
	showLast     bool
)

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of sessions to list")
	showCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent session")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-19s  %-8s  %6s  %s\n", "SESSION", "STARTED", "STATUS", "TURNS", "SEED")
	for _, s := range sessions {
		status := "ended"
		if s.EndedAt == nil {
			status = "open"
		}
		fmt.Fprintf(w, "%-36s  %-19s  %-8s  %6d  %d\n",
			s.SessionID, s.StartedAt.Local().Format("2006-01-02 15:04:05"), status, s.TurnCount, s.Seed)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessionID, err := resolveSessionID(db, args, showLast)
	if err != nil {
		return err
	}

	session, err := storage.NewSessionRepository(db).Get(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	turns, err := storage.NewTurnRepository(db).GetBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get turns: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, titleStyle.Render("Session "+session.SessionID))
	fmt.Fprintf(w, "Started: %s\n", session.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if session.EndedAt != nil {
		fmt.Fprintf(w, "Ended:   %s\n", session.EndedAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "Seed:    %d\n", session.Seed)
	fmt.Fprintf(w, "Steps:   %d\n", session.AnimationSteps)
	if session.Notes != nil && *session.Notes != "" {
		fmt.Fprintf(w, "Notes:   %s\n", *session.Notes)
	}
	fmt.Fprintf(w, "Turns:   %d\n\n", len(turns))

	for _, t := range turns {
		fmt.Fprintf(w, "%4d  %-6s  slots %v  %s\n", t.Seq, t.Face, t.Slots, strings.Join(t.Tags[:], " "))
	}

	if len(turns) > 0 {
		printSummary(w, analysis.Summarize(session.SessionID, turns), analysis.TopNGrams(turns, 2, 3))
	}
	return nil
}

func printSummary(w io.Writer, s *analysis.SessionSummary, pairs []analysis.NGram) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, faceStyle.Render("Summary"))
	fmt.Fprintf(w, "  Duration:      %.1fs (%.2f turns/s)\n", float64(s.DurationMs)/1000, s.TPS)
	fmt.Fprintf(w, "  Longest pause: %dms (%d over %dms)\n", s.LongestPauseMs, s.PauseCount, analysis.DefaultPauseMs)
	fmt.Fprintf(w, "  Identity runs: %d\n", s.IdentityRuns)
	fmt.Fprint(w, "  Faces:        ")
	for _, f := range minicube.Faces() {
		fmt.Fprintf(w, " %s=%d", f, s.FaceCounts[f.String()])
	}
	fmt.Fprintln(w)
	for _, g := range pairs {
		fmt.Fprintf(w, "  Repeated:      %s x%d\n", strings.Join(g.Sequence, " "), g.Count)
	}
}
