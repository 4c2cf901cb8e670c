package codespire

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/codespire/internal/config"
	"github.com/vovakirdan/codespire/internal/core"
	"github.com/vovakirdan/codespire/internal/questions"
	"github.com/vovakirdan/codespire/internal/registry"
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// logger and sound are shared by all instances created through the registry.
var (
	logger *log.Logger
	sound  SoundPlayer
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// customQuestions replaces every level's bank when set via CLI.
var customQuestions []questions.Question

// SetQuestionsFile loads a question bank from disk for all levels of new
// games. An empty path restores the embedded banks.
func SetQuestionsFile(path string) error {
	if path == "" {
		customQuestions = nil
		return nil
	}
	qs, err := questions.LoadFile(path)
	if err != nil {
		return err
	}
	if len(qs) == 0 {
		return fmt.Errorf("codespire: no usable questions in %s", path)
	}
	customQuestions = qs
	return nil
}

// SetLogger sets the logger used by new engines.
func SetLogger(l *log.Logger) {
	logger = l
}

// SetSoundPlayer sets the sound player used by new engines.
func SetSoundPlayer(p SoundPlayer) {
	sound = p
}

// Minimum terminal size for a playable view.
const (
	minScreenW = 40
	minScreenH = 16
)

// Game adapts the Engine to the registry.Game interface.
type Game struct {
	startLevel int
	runtime    core.RuntimeConfig
	engine     *Engine
	err        error

	// Last outcome shown in the HUD
	message     string
	messageTill int64

	screenTooSmall bool
}

// New creates a game starting at the first level.
func New() *Game {
	return &Game{}
}

// NewAt creates a game starting at the given 0-based level.
func NewAt(level int) *Game {
	return &Game{startLevel: level}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.startLevel == 0 {
		return "codespire"
	}
	return fmt.Sprintf("codespire_l%d", g.startLevel+1)
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.startLevel == 0 {
		return "CodeSpire"
	}
	return fmt.Sprintf("CodeSpire (Level %d)", g.startLevel+1)
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.message = ""
	g.screenTooSmall = runtime.ScreenW < minScreenW || runtime.ScreenH < minScreenH

	cfg, err := config.Load(configPath)
	if err != nil {
		if logger != nil {
			logger.Warn("using default config", "err", err)
		}
		cfg = config.DefaultConfig()
	}
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}

	opts := Options{
		Logger:     logger,
		Sound:      sound,
		Seed:       runtime.Seed,
		TickRate:   runtime.TickRate,
		StartLevel: min(g.startLevel, len(cfg.Levels)-1),
	}
	if customQuestions != nil {
		pool := questions.NewPool(customQuestions, runtime.Seed)
		opts.Questions = func(string) QuestionSource { return pool }
	}
	g.engine, g.err = NewEngine(cfg, opts)
}

// Resize adapts to a new terminal size without restarting the run.
// The playfield is scaled, so only the minimum size matters.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	g.screenTooSmall = w < minScreenW || h < minScreenH
}

// Engine returns the underlying simulation, or nil if Reset failed.
func (g *Game) Engine() *Engine {
	return g.engine
}

// Err returns the error from the last Reset, if any.
func (g *Game) Err() error {
	return g.err
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.engine == nil || g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	phase := g.engine.Phase()
	if in.Has(core.ActionRestart) && (phase == PhaseGameOver || phase == PhaseWon) {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}

	for _, ev := range g.engine.Step(in) {
		switch ev.Kind {
		case EventBossSpawned:
			if b := g.engine.Boss(); b != nil {
				g.flash(b.Name + " approaches!")
			}
		case EventBossDefeated:
			g.flash("Boss defeated! Find the portal.")
		case EventPortalOpened:
			g.flash("A portal opened.")
		case EventLevelComplete:
			g.flash(fmt.Sprintf("Level %d: %s", g.engine.Level(), g.engine.LevelName()))
		}
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) flash(msg string) {
	g.message = msg
	g.messageTill = g.engine.Now() + 2500
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.engine == nil {
		return core.GameState{GameOver: true}
	}
	phase := g.engine.Phase()
	return core.GameState{
		Score:     g.engine.Score(),
		Level:     g.engine.Level(),
		Health:    g.engine.Player().Health,
		GameOver:  phase == PhaseGameOver || phase == PhaseWon,
		Won:       phase == PhaseWon,
		Paused:    phase == PhasePaused,
		Suspended: phase == PhaseEncounter,
	}
}

// Prompt returns the pending encounter question.
func (g *Game) Prompt() (registry.Prompt, bool) {
	if g.engine == nil {
		return registry.Prompt{}, false
	}
	enc, ok := g.engine.PendingEncounter()
	if !ok {
		return registry.Prompt{}, false
	}
	return registry.Prompt{
		ID:       enc.ID,
		Kind:     enc.Kind.String(),
		Title:    encounterTitle(enc.Kind),
		Question: enc.Question.Prompt,
		Choices:  enc.Question.Choices,
	}, true
}

// Answer checks input and resolves the pending encounter.
func (g *Game) Answer(input string) (bool, error) {
	if g.engine == nil {
		return false, ErrNoEncounter
	}
	enc, ok := g.engine.PendingEncounter()
	if !ok {
		return false, ErrNoEncounter
	}
	correct := questions.Check(enc.Question, input)
	out, err := g.engine.Resolve(correct)
	if err != nil {
		return false, err
	}
	g.flash(outcomeMessage(out))
	return correct, nil
}

// Forfeit resolves the pending encounter as a loss.
func (g *Game) Forfeit() error {
	if g.engine == nil {
		return ErrNoEncounter
	}
	_, err := g.engine.Resolve(false)
	return err
}

func encounterTitle(k EncounterKind) string {
	switch k {
	case EncounterPlayerEnemy:
		return "A bug rammed your ship!"
	case EncounterPlayerBulletEnemy:
		return "Your shot hit a bug!"
	case EncounterEnemyBullet:
		return "Incoming bug fire!"
	case EncounterPlayerBulletBoss:
		return "Direct hit on the boss!"
	case EncounterBossBullet:
		return "The boss hit you!"
	default:
		return "Encounter"
	}
}

func outcomeMessage(out Outcome) string {
	switch {
	case out.GameOver:
		return "Wrong! Your ship is lost."
	case out.BossDying:
		return "Correct! The boss is going down!"
	case out.BossHit:
		return "Correct! The boss takes a hit."
	case out.ShieldGranted:
		return "Correct! Shield acquired."
	case out.Correct:
		return "Correct!"
	case out.ShieldUsed:
		return "Wrong! Your shield absorbed the damage."
	default:
		return "Wrong! Hull damaged."
	}
}

func init() {
	registry.Register("codespire", func() registry.Game {
		return New()
	})
	registry.Register("codespire_l2", func() registry.Game {
		return NewAt(1)
	})
	registry.Register("codespire_l3", func() registry.Game {
		return NewAt(2)
	})
}
