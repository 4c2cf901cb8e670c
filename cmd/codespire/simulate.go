package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/codespire/internal/core"
	"github.com/vovakirdan/codespire/internal/games/codespire"
	"github.com/vovakirdan/codespire/internal/registry"
	"github.com/vovakirdan/codespire/internal/storage"
)

var (
	flagTicks     int
	flagAnswers   string
	flagAccuracy  float64
	flagFireEvery int
	flagRecord    bool
	flagEvents    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [game]",
	Short: "Run the game headless with an autopilot",
	Long: `Fly the ship with a simple autopilot and no screen. Every encounter is
still gated by a question, answered according to --answers:

  stdin  - print the question and read your answer from standard input
  auto   - answer correctly with probability --accuracy
  right  - always answer correctly
  wrong  - always answer wrong

Without --answers, stdin is used when it is a terminal and auto otherwise.
A fixed --seed makes the run reproducible; the final state hash is printed
so two runs can be compared. Ctrl+C or end of input gives up the pending
question and ends the run.

Examples:
  codespire simulate
  codespire simulate --answers auto --accuracy 0.5 --seed 42
  codespire simulate codespire_l2 --answers right --ticks 20000 --events
  codespire simulate --answers auto --record`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 60*60*10, "Stop after this many ticks (0 = until the run ends)")
	simulateCmd.Flags().StringVar(&flagAnswers, "answers", "", "How questions are answered: stdin, auto, right, wrong")
	simulateCmd.Flags().Float64Var(&flagAccuracy, "accuracy", 0.7, "Share of correct answers for --answers auto")
	simulateCmd.Flags().IntVar(&flagFireEvery, "fire-every", 8, "Autopilot ticks between shots")
	simulateCmd.Flags().BoolVar(&flagRecord, "record", false, "Record the run in the scores database")
	simulateCmd.Flags().BoolVar(&flagEvents, "events", false, "Print game events as they happen")
	simulateCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	simulateCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	simulateCmd.Flags().StringVar(&flagQuestions, "questions", "", "Question bank YAML used instead of the built-in banks")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	gameID := gameArg(args)
	created, err := registry.Create(gameID)
	if err != nil {
		return err
	}
	game, ok := created.(*codespire.Game)
	if !ok {
		return fmt.Errorf("game %q cannot run headless", gameID)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	codespire.SetConfigPath(flagConfig)
	codespire.SetDifficultyPreset(flagDifficulty)
	if err := codespire.SetQuestionsFile(flagQuestions); err != nil {
		return err
	}
	game.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: flagFPS, Seed: seed})
	if game.Err() != nil {
		return fmt.Errorf("cannot start game: %w", game.Err())
	}
	engine := game.Engine()

	resolver, err := pickResolver(cmd, seed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := newRecorder(gameID)
	defer rec.close()

	out := cmd.OutOrStdout()
	opts := codespire.HeadlessOptions{
		MaxTicks: flagTicks,
		Pilot:    codespire.NewAutopilot(flagFireEvery).Input,
		OnOutcome: func(o codespire.Outcome) {
			rec.encounter(o, engine)
			if flagEvents {
				fmt.Fprintf(out, "[t=%d] encounter %d %s correct=%v health=%d\n",
					engine.Ticks(), o.Encounter.ID, o.Encounter.Kind, o.Correct, engine.Player().Health)
			}
		},
	}
	if flagEvents {
		opts.OnEvent = func(ev codespire.Event) {
			if ev.Kind != codespire.EventEncounter {
				fmt.Fprintf(out, "[t=%d] %s (level %d)\n", engine.Ticks(), ev.Kind, ev.Level)
			}
		}
	}

	logger.Info("simulation started", "game", gameID, "seed", seed)
	res, runErr := codespire.RunHeadless(ctx, engine, resolver, opts)
	rec.finish(res)
	logger.Info("simulation finished", "phase", res.Phase, "score", res.Score, "ticks", res.Ticks)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Seed:       %d\n", seed)
	fmt.Fprint(out, res.Summary())

	switch {
	case runErr == nil:
		return nil
	case errors.Is(runErr, codespire.ErrQuit), errors.Is(runErr, context.Canceled):
		fmt.Fprintln(out, "Run abandoned.")
		return nil
	default:
		return runErr
	}
}

func pickResolver(cmd *cobra.Command, seed int64) (codespire.Resolver, error) {
	mode := flagAnswers
	if mode == "" {
		mode = "auto"
		if term.IsTerminal(int(os.Stdin.Fd())) {
			mode = "stdin"
		}
	}

	switch mode {
	case "stdin":
		return codespire.LineResolver(cmd.InOrStdin(), cmd.OutOrStdout()), nil
	case "auto":
		if flagAccuracy < 0 || flagAccuracy > 1 {
			return nil, fmt.Errorf("--accuracy must be within [0, 1], got %v", flagAccuracy)
		}
		return codespire.ChanceResolver(seed, flagAccuracy), nil
	case "right":
		return codespire.ChanceResolver(seed, 1), nil
	case "wrong":
		return codespire.ChanceResolver(seed, 0), nil
	default:
		return nil, fmt.Errorf("unknown --answers mode %q", mode)
	}
}

// recorder stores a simulated run when --record is set.
type recorder struct {
	store *storage.Store
	runID string
}

func newRecorder(gameID string) *recorder {
	r := &recorder{}
	if !flagRecord {
		return r
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return r
	}
	runID, err := store.StartRun(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run will not be recorded: %v\n", err)
		store.Close()
		return r
	}
	r.store, r.runID = store, runID
	return r
}

func (r *recorder) encounter(o codespire.Outcome, e *codespire.Engine) {
	if r.store == nil {
		return
	}
	err := r.store.LogEncounter(storage.EncounterRecord{
		RunID:       r.runID,
		EncounterID: o.Encounter.ID,
		Kind:        o.Encounter.Kind.String(),
		Level:       e.Level(),
		Question:    o.Encounter.Question.Prompt,
		Correct:     o.Correct,
		HealthAfter: e.Player().Health,
	})
	if err != nil {
		logger.Warn("cannot record encounter", "err", err)
	}
}

func (r *recorder) finish(res codespire.HeadlessResult) {
	if r.store == nil {
		return
	}
	if err := r.store.FinishRun(r.runID, res.Score, res.Level, res.Phase == codespire.PhaseWon); err != nil {
		logger.Warn("cannot record run", "err", err)
	}
}

func (r *recorder) close() {
	if r.store != nil {
		r.store.Close()
	}
}
