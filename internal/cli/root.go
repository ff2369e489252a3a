// Package cli implements the command-line interface for minicube.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/minicube/internal/config"
)

const version = "0.1.0"

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool

	// cfg is loaded before any subcommand runs.
	cfg = config.Default()
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "minicube",
	Short: "2x2x2 cube simulator",
	Long: `minicube - a 2x2x2 Rubik's-style cube simulator.

Turn the six faces of the cube from an interactive terminal view, orbit
the camera around it, and keep a journal of every session so it can be
replayed later. The cube state can also be streamed to external
renderers over a websocket.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.minicube/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Journal database path (default: ~/.minicube/minicube.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// loadSettings configures logging and reads the config file.
func loadSettings(cmd *cobra.Command, args []string) error {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(logrus.InfoLevel)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded
	logrus.WithField("path", path).Debug("config loaded")
	return nil
}
