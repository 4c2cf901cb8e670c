package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/codespire/internal/audio"
	"github.com/vovakirdan/codespire/internal/core"
	"github.com/vovakirdan/codespire/internal/games/codespire"
	"github.com/vovakirdan/codespire/internal/platform/tui"
	"github.com/vovakirdan/codespire/internal/registry"
	"github.com/vovakirdan/codespire/internal/storage"
)

var flagMute bool

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play in the terminal",
	Long: `Start climbing the spire. The game defaults to the first level.

Controls:
  Arrows/WASD  - Move
  Space        - Fire (too many shots in a row overheats the gun)
  P/Esc        - Pause
  R            - Restart (after game over)
  Ctrl+S       - Save a screenshot to ~/.codespire/screenshots
  Q/Ctrl+C     - Quit

When something hits, the game stops and asks a question. Type the answer
(or the number of a choice) and press Enter. Ctrl+C at a question counts
as a wrong answer and quits.

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  codespire play
  codespire play codespire_l3
  codespire play --difficulty hard --mute
  codespire play --config ./my-spire.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagQuestions, "questions", "", "Question bank YAML used instead of the built-in banks")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound effects")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := gameArg(args)
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("%w (run 'codespire list' to see available games)", err)
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	codespire.SetConfigPath(flagConfig)
	codespire.SetDifficultyPreset(flagDifficulty)
	if err := codespire.SetQuestionsFile(flagQuestions); err != nil {
		return err
	}

	if !flagMute {
		player := audio.NewPlayer(logger)
		if err := player.Init(); err == nil {
			codespire.SetSoundPlayer(player)
			defer player.Close()
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, cfg, tui.Options{Logger: logger}); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
