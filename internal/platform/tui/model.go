package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/codespire/internal/core"
	"github.com/vovakirdan/codespire/internal/registry"
	"github.com/vovakirdan/codespire/internal/storage"
)

// moveHold is how long a direction stays held after its last key event.
// It must cover the terminal's auto-repeat interval.
const moveHold = 120 * time.Millisecond

// Options tune a Model beyond the runtime config.
type Options struct {
	// Logger receives run and encounter events. Nil discards them.
	Logger *log.Logger

	// Embedded models hand control back to a menu on Back instead of
	// ignoring it. Used by SSH sessions.
	Embedded bool
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	prompter   registry.Prompter // nil when the game never asks questions
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	logger     *log.Logger
	embedded   bool
	inputFrame core.InputFrame
	latch      *KeyLatch
	keys       KeyMap
	promptKeys PromptKeyMap
	help       help.Model
	input      textinput.Model
	prompt     *registry.Prompt // Question being shown, nil while playing
	gameState  core.GameState
	ticks      int
	runID      string
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether the run has been recorded for the current game over
}

// NewModel creates a new Bubble Tea model for the given game.
// A nil store disables score and encounter recording.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ti := textinput.New()
	ti.Placeholder = "your answer"
	ti.Prompt = "> "
	ti.CharLimit = 64

	prompter, _ := game.(registry.Prompter)

	m := Model{
		game:       game,
		prompter:   prompter,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		logger:     logger,
		embedded:   opts.Embedded,
		inputFrame: core.NewInputFrame(),
		latch:      NewKeyLatch(holdTicks(moveHold, cfg.TickRate)),
		keys:       DefaultKeyMap(),
		promptKeys: DefaultPromptKeyMap(),
		help:       help.New(),
		input:      ti,
	}
	m.runID = m.startRun()
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// gameState is set on the first tick (value receiver)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	// Cursor blink and friends
	if m.prompt != nil {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != nil {
		return m.handlePromptKey(msg)
	}

	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		if m.embedded && (m.gameState.GameOver || m.gameState.Paused) {
			m.backToMenu = true
		}
	case action == core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(action)
		}
	case IsMovement(action):
		m.latch.Press(action, m.ticks)
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handlePromptKey routes keys to the answer field.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.promptKeys.Forfeit):
		m.forfeit()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.promptKeys.Submit):
		m.submit()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.help.Width = msg.Width

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}

	// Games without Resize restart with the new dimensions
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.ticks++

	// The simulation is suspended until the question is answered
	if m.prompt != nil {
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.restart()
		return m, tickCmd(m.config.TickRate)
	}

	m.latch.Apply(&m.inputFrame, m.ticks)
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	var focus tea.Cmd
	if m.prompter != nil {
		if p, ok := m.prompter.Prompt(); ok {
			focus = m.openPrompt(p)
		}
	}
	m.finishIfOver()

	return m, tea.Batch(tickCmd(m.config.TickRate), focus)
}

// restart begins a new run with a fresh seed.
func (m *Model) restart() {
	m.config.Seed = time.Now().UnixNano()
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.scoreSaved = false
	m.inputFrame.Clear()
	m.latch.Release()
	m.runID = m.startRun()
}

func (m *Model) openPrompt(p registry.Prompt) tea.Cmd {
	m.prompt = &p
	m.latch.Release()
	m.input.Reset()
	m.logger.Debug("encounter", "run", m.runID, "id", p.ID, "kind", p.Kind)
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = nil
	m.input.Blur()
	m.input.Reset()
}

// submit answers the open prompt with the typed text.
func (m *Model) submit() {
	p := *m.prompt
	answer := m.input.Value()

	correct, err := m.prompter.Answer(answer)
	m.closePrompt()
	if err != nil {
		m.logger.Warn("answer rejected", "run", m.runID, "err", err)
		return
	}
	m.gameState = m.game.State()
	m.recordEncounter(p, answer, correct)
	m.finishIfOver()
}

// forfeit resolves the open prompt as a wrong answer.
func (m *Model) forfeit() {
	p := *m.prompt

	err := m.prompter.Forfeit()
	m.closePrompt()
	if err != nil {
		m.logger.Warn("forfeit rejected", "run", m.runID, "err", err)
		return
	}
	m.gameState = m.game.State()
	m.recordEncounter(p, "", false)
	m.finishIfOver()
}

func (m *Model) startRun() string {
	if m.store == nil {
		return ""
	}
	id, err := m.store.StartRun(m.game.ID())
	if err != nil {
		m.logger.Warn("run will not be recorded", "err", err)
		return ""
	}
	m.logger.Info("run started", "run", id, "game", m.game.ID())
	return id
}

// recordEncounter logs an answered question. Best effort.
func (m *Model) recordEncounter(p registry.Prompt, answer string, correct bool) {
	m.logger.Debug("encounter resolved", "run", m.runID, "id", p.ID, "correct", correct, "health", m.gameState.Health)
	if m.store == nil || m.runID == "" {
		return
	}
	err := m.store.LogEncounter(storage.EncounterRecord{
		RunID:       m.runID,
		EncounterID: p.ID,
		Kind:        p.Kind,
		Level:       m.gameState.Level,
		Question:    p.Question,
		Answer:      answer,
		Correct:     correct,
		HealthAfter: m.gameState.Health,
	})
	if err != nil {
		m.logger.Warn("cannot record encounter", "err", err)
	}
}

// finishIfOver records the run once the game has ended.
func (m *Model) finishIfOver() {
	if !m.gameState.GameOver || m.scoreSaved {
		return
	}
	m.scoreSaved = true
	st := m.gameState
	m.logger.Info("run finished", "run", m.runID, "score", st.Score, "level", st.Level, "won", st.Won)

	if m.store == nil {
		return
	}
	if m.runID == "" {
		if st.Score > 0 {
			//nolint:errcheck // Best-effort save, game continues regardless
			m.store.SaveScore(m.game.ID(), st.Score)
		}
		return
	}
	if err := m.store.FinishRun(m.runID, st.Score, st.Level, st.Won); err != nil {
		m.logger.Warn("cannot record run", "err", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("no home directory for screenshots", "err", err)
		return
	}
	dir := filepath.Join(home, ".codespire", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.prompt == nil {
		return RenderScreen(m.screen)
	}

	// The question box covers the bottom of the playfield
	box := renderPrompt(*m.prompt, m.input.View(), m.help.View(m.promptKeys), m.config.ScreenW)
	rows := m.screen.Height() - strings.Count(box, "\n") - 1
	return strings.Join(append(renderRows(m.screen, rows), box), "\n")
}

// Prompting reports whether a question is waiting for an answer.
func (m Model) Prompting() bool {
	return m.prompt != nil
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// RunID returns the storage ID of the current run, empty when not recorded.
func (m Model) RunID() string {
	return m.runID
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
