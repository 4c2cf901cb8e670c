package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/codespire/internal/core"
	"github.com/vovakirdan/codespire/internal/registry"
	"github.com/vovakirdan/codespire/internal/storage"
)

// fakeGame asks one question after askAfter steps and ends the run when
// the answer is wrong.
type fakeGame struct {
	askAfter int
	steps    []core.InputFrame
	resets   int
	resized  [2]int
	state    core.GameState
	pending  *registry.Prompt
	asked    bool
	answers  []string
	forfeits int
}

func (g *fakeGame) ID() string    { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = nil
	g.asked = false
	g.pending = nil
	g.state = core.GameState{Level: 1, Health: 3}
}

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.steps = append(g.steps, in.Clone())
	g.state.Score += 10
	if !g.asked && len(g.steps) >= g.askAfter {
		g.asked = true
		g.pending = &registry.Prompt{ID: 1, Kind: "player-enemy", Title: "Hit!", Question: "2 + 2 = ?"}
		g.state.Suspended = true
	}
	return core.StepResult{State: g.state}
}

func (g *fakeGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawTextColor(0, 0, "FAKE", core.ColorGreen)
}

func (g *fakeGame) State() core.GameState { return g.state }

func (g *fakeGame) Prompt() (registry.Prompt, bool) {
	if g.pending == nil {
		return registry.Prompt{}, false
	}
	return *g.pending, true
}

func (g *fakeGame) Answer(input string) (bool, error) {
	g.answers = append(g.answers, input)
	g.pending = nil
	g.state.Suspended = false
	if strings.TrimSpace(input) == "4" {
		return true, nil
	}
	g.state.Health = 0
	g.state.GameOver = true
	return false, nil
}

func (g *fakeGame) Forfeit() error {
	g.forfeits++
	g.pending = nil
	g.state.Suspended = false
	g.state.Health--
	return nil
}

func (g *fakeGame) Resize(w, h int) { g.resized = [2]int{w, h} }

func newTestModel(t *testing.T, g *fakeGame, store *storage.Store) Model {
	t.Helper()
	m := NewModel(g, store, core.RuntimeConfig{ScreenW: 60, ScreenH: 20, TickRate: 60, Seed: 1}, Options{})
	m.Init()
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{runes("s"), core.ActionDown, false},
		{runes("a"), core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionFire, false},
		{runes("p"), core.ActionPause, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause, false},
		{runes("r"), core.ActionRestart, false},
		{runes("b"), core.ActionBack, false},
		{runes("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runes("x"), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			action, quit := keys.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestKeyLatchHoldsMovement(t *testing.T) {
	l := NewKeyLatch(3)
	l.Press(core.ActionLeft, 10)

	for tick := 10; tick < 13; tick++ {
		f := core.NewInputFrame()
		l.Apply(&f, tick)
		if !f.Has(core.ActionLeft) {
			t.Errorf("tick %d: left should still be held", tick)
		}
	}

	f := core.NewInputFrame()
	l.Apply(&f, 13)
	if f.Has(core.ActionLeft) {
		t.Error("left should be released after the hold expires")
	}
}

func TestKeyLatchOpposite(t *testing.T) {
	l := NewKeyLatch(5)
	l.Press(core.ActionLeft, 0)
	l.Press(core.ActionUp, 0)
	l.Press(core.ActionRight, 1)

	f := core.NewInputFrame()
	l.Apply(&f, 2)
	if f.Has(core.ActionLeft) || !f.Has(core.ActionRight) || !f.Has(core.ActionUp) {
		t.Errorf("unexpected held actions %v", f.Actions)
	}

	l.Release()
	f = core.NewInputFrame()
	l.Apply(&f, 2)
	if len(f.Actions) != 0 {
		t.Errorf("Release should drop everything, got %v", f.Actions)
	}
}

func TestHoldTicks(t *testing.T) {
	if got := holdTicks(moveHold, 60); got != 7 {
		t.Errorf("holdTicks(120ms, 60) = %d, want 7", got)
	}
	if got := holdTicks(0, 60); got != 1 {
		t.Errorf("holdTicks(0, 60) = %d, want 1", got)
	}
}

func TestModelMovementIsHeld(t *testing.T) {
	g := &fakeGame{askAfter: 100}
	m := newTestModel(t, g, nil)

	m, _ = send(t, m, runes("d"))
	m, _ = send(t, m, TickMsg{})
	m, _ = send(t, m, TickMsg{})

	if len(g.steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(g.steps))
	}
	for i, in := range g.steps {
		if !in.Has(core.ActionRight) {
			t.Errorf("step %d: right should be held", i)
		}
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = send(t, m, TickMsg{})
	send(t, m, TickMsg{})
	if !g.steps[2].Has(core.ActionFire) || g.steps[3].Has(core.ActionFire) {
		t.Error("fire should last exactly one tick per press")
	}
}

func TestModelPromptSuspendsSimulation(t *testing.T) {
	g := &fakeGame{askAfter: 1}
	m := newTestModel(t, g, nil)

	m, cmd := send(t, m, TickMsg{})
	if !m.Prompting() {
		t.Fatal("prompt should open after the encounter step")
	}
	if cmd == nil {
		t.Error("expected tick and focus commands")
	}
	if !strings.Contains(m.View(), "2 + 2 = ?") {
		t.Error("view should show the question")
	}

	for range 5 {
		m, _ = send(t, m, TickMsg{})
	}
	if len(g.steps) != 1 {
		t.Errorf("simulation advanced during the prompt: %d steps", len(g.steps))
	}

	// Game keys are typed into the answer while prompting
	m, _ = send(t, m, runes("p"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = send(t, m, runes("4"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Prompting() {
		t.Error("prompt should close after Enter")
	}
	if len(g.answers) != 1 || g.answers[0] != "4" {
		t.Errorf("answers = %q, want [4]", g.answers)
	}

	send(t, m, TickMsg{})
	if len(g.steps) != 2 {
		t.Errorf("simulation should resume, got %d steps", len(g.steps))
	}
}

func TestModelForfeitQuits(t *testing.T) {
	g := &fakeGame{askAfter: 1}
	m := newTestModel(t, g, nil)

	m, _ = send(t, m, TickMsg{})
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	if g.forfeits != 1 {
		t.Errorf("expected one forfeit, got %d", g.forfeits)
	}
	if !m.IsQuitting() || cmd == nil {
		t.Error("ctrl+c during a prompt should quit")
	}
	if m.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestModelRecordsRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	g := &fakeGame{askAfter: 2}
	m := newTestModel(t, g, store)
	runID := m.RunID()
	if runID == "" {
		t.Fatal("model should start a run")
	}

	m, _ = send(t, m, TickMsg{})
	m, _ = send(t, m, TickMsg{})
	m, _ = send(t, m, runes("5"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.State().GameOver {
		t.Fatal("wrong answer should end the fake run")
	}

	run, err := store.GetRun(runID)
	if err != nil || run == nil {
		t.Fatalf("GetRun() = %v, %v", run, err)
	}
	if !run.Finished || run.Score != 20 || run.Level != 1 {
		t.Errorf("unexpected run %+v", run)
	}

	encs, err := store.RunEncounters(runID)
	if err != nil {
		t.Fatalf("RunEncounters() failed: %v", err)
	}
	if len(encs) != 1 || encs[0].Answer != "5" || encs[0].Correct || encs[0].Kind != "player-enemy" {
		t.Errorf("unexpected encounters %+v", encs)
	}

	// Extra ticks must not record the run twice
	m, _ = send(t, m, TickMsg{})

	// Restart starts a fresh run
	m, _ = send(t, m, runes("r"))
	m, _ = send(t, m, TickMsg{})
	if m.RunID() == runID || m.RunID() == "" {
		t.Errorf("restart should start a new run, got %q", m.RunID())
	}
	if m.State().GameOver {
		t.Error("restart should clear game over")
	}
}

func TestModelResizeKeepsRun(t *testing.T) {
	g := &fakeGame{askAfter: 100}
	m := newTestModel(t, g, nil)
	resets := g.resets

	send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if g.resized != [2]int{100, 30} {
		t.Errorf("Resize not forwarded, got %v", g.resized)
	}
	if g.resets != resets {
		t.Error("resizable games must not be reset")
	}
}

func TestModelBackOnlyWhenEmbedded(t *testing.T) {
	g := &fakeGame{askAfter: 100}
	m := newTestModel(t, g, nil)
	m, _ = send(t, m, runes("p"))
	m.gameState.Paused = true

	m, _ = send(t, m, runes("b"))
	if m.BackToMenu() {
		t.Error("standalone model has no menu to return to")
	}

	m.embedded = true
	m, _ = send(t, m, runes("b"))
	if !m.BackToMenu() {
		t.Error("embedded model should return to the menu when paused")
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(10, 3)
	s.DrawTextColor(1, 1, "hi", core.ColorRed)

	out := RenderScreen(s)
	if strings.Count(out, "\n") != 2 {
		t.Errorf("expected 3 rows, got %q", out)
	}
	if !strings.Contains(out, "hi") {
		t.Errorf("text missing from %q", out)
	}
	if rows := renderRows(s, 10); len(rows) != 3 {
		t.Errorf("renderRows should clamp to the screen, got %d rows", len(rows))
	}
}
