// Package registry lets game packages announce themselves from init so the
// CLI, menu and SSH server can list and start them by ID.
package registry

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/codespire/internal/core"
)

// Game is a pure simulation driven one tick at a time. Input mapping,
// timing and terminal output belong to the platform.
type Game interface {
	// ID names the game on the command line and in the scores database.
	ID() string
	Title() string

	// Reset starts a new run. Called on start and on every restart.
	Reset(cfg core.RuntimeConfig)

	Step(in core.InputFrame) core.StepResult

	// Render draws into dst, which has been cleared.
	Render(dst *core.Screen)

	State() core.GameState
}

// Prompt is a question the platform must show before the game can continue.
type Prompt struct {
	ID       int
	Kind     string // Game-specific category, used when recording answers
	Title    string
	Question string
	Choices  []string
}

// Prompter is implemented by games that suspend for a typed answer.
// While a prompt is pending, Step does not advance the simulation.
type Prompter interface {
	// Prompt returns the pending prompt, if any.
	Prompt() (Prompt, bool)

	// Answer checks input against the pending prompt and resumes the game.
	Answer(input string) (correct bool, err error)

	// Forfeit resolves the pending prompt as a wrong answer.
	Forfeit() error
}

// Resizer is implemented by games that keep their state across terminal resizes.
// The platform resets games that do not implement it.
type Resizer interface {
	Resize(w, h int)
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh game instance.
type Factory func() Game

// ErrUnknownGame is returned by Create for IDs nobody registered.
var ErrUnknownGame = errors.New("registry: unknown game")

type entry struct {
	factory Factory
	title   string
}

var (
	mu      sync.RWMutex
	entries = map[string]entry{}
)

// Register adds a factory under id. Registering an ID twice is a
// programming error and panics.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := entries[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	entries[id] = entry{factory: f, title: f().Title()}
}

// List returns every registered game sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	games := make([]GameInfo, 0, len(entries))
	for id, e := range entries {
		games = append(games, GameInfo{ID: id, Title: e.title})
	}
	slices.SortFunc(games, func(a, b GameInfo) int { return cmp.Compare(a.ID, b.ID) })
	return games
}

// Create returns a new instance of the game registered as id.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := entries[id]
	return ok
}
