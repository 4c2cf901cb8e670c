// codespire is a terminal shoot-'em-up where every collision is a question.
//
// Usage:
//
//	codespire list               - List the available starting levels
//	codespire play [game]        - Play in the terminal
//	codespire simulate [game]    - Run the game headless with an autopilot
//	codespire scores [game]      - Show high scores and answer accuracy
//	codespire serve              - Start an SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.codespire/scores.db)
//	--log-file <path>   - Write logs to a file (the terminal belongs to the game)
//	--log-level <level> - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/codespire/internal/games/codespire"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string

	// Shared by play and simulate
	flagConfig     string
	flagDifficulty string
	flagQuestions  string
)

// logger is configured by the root command before any subcommand runs.
var logger = log.New(io.Discard)

// logFile is closed when the command returns.
var logFile *os.File

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "codespire",
	Short: "CodeSpire - climb the spire, answer to survive",
	Long: `CodeSpire is a terminal shoot-'em-up. Your ship climbs through waves of
bugs and scripted bosses, and every collision stops the game until you
answer a question. Answer right and the bug is squashed; answer wrong and
your hull takes the hit.

Available commands:
  list      - Show the available starting levels
  play      - Play in the terminal
  simulate  - Run headless with an autopilot (and optionally answer yourself)
  scores    - View high scores and answer accuracy
  serve     - Start SSH server for remote play

Examples:
  codespire play
  codespire play codespire_l2 --difficulty hard
  codespire simulate --answers auto --accuracy 0.8
  codespire scores
  codespire serve --ssh :2222`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.codespire/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// setupLogging points the shared logger at --log-file.
// Without a file, logs are discarded so they never corrupt the game screen.
func setupLogging(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		logger = log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			Prefix:          "codespire",
		})
	}
	logger.SetLevel(level)
	codespire.SetLogger(logger)
	return nil
}

// gameArg returns the game ID from args, defaulting to the first level.
func gameArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "codespire"
}
