package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/minicube/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream cube snapshots over a websocket",
	Long: `Run the cube on a server loop and stream JSON snapshots to
websocket clients at /ws. Clients turn faces by sending {"face":"top"}.
The current snapshot is also served at /snapshot.`,
	RunE: runServe,
}

var (
	serveAddr      string
	serveNoJournal bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: config server.addr)")
	serveCmd.Flags().BoolVar(&serveNoJournal, "no-journal", false, "Do not journal this session")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	m, err := newMachine(cfg.Seed, cfg.AnimationSteps)
	if err != nil {
		return err
	}

	var j *journal
	if cfg.Journal && !serveNoJournal {
		j, err = startJournal(m, cfg.AnimationSteps, "serve")
		if err != nil {
			return err
		}
		defer j.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.WithFields(logrus.Fields{
		"addr": addr,
		"seed": m.Store().Seed(),
	}).Info("starting cube server")

	s := server.New(m, server.WithTick(time.Duration(cfg.Server.TickMs)*time.Millisecond))
	return server.ListenAndServe(ctx, addr, s)
}
