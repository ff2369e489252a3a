package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/minicube/internal/recorder"
)

var replayCmd = &cobra.Command{
	Use:   "replay [session_id]",
	Short: "Rebuild a journaled session and verify it",
	Long: `Rebuild a session from its seed, re-apply every journaled turn and
check that each turn lands the same cubelets the journal recorded.

With --resume an interrupted session (one that was never ended) opens
in the interactive view and new turns are appended to it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

var (
	replayLast   bool
	replayResume bool
)

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayLast, "last", false, "Replay the most recent session")
	replayCmd.Flags().BoolVar(&replayResume, "resume", false, "Continue the session in the interactive view")
}

func runReplay(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}

	sessionID, err := resolveSessionID(db, args, replayLast)
	if err != nil {
		db.Close()
		return err
	}

	session, m, err := recorder.ReplaySession(db, sessionID)
	if err != nil {
		db.Close()
		return err
	}

	if !replayResume {
		defer db.Close()
		fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Session "+session.SessionID))
		return printCube(cmd.OutOrStdout(), m)
	}

	j, err := resumeJournal(db, m, sessionID)
	if err != nil {
		db.Close()
		return err
	}
	return runView(m, j)
}
