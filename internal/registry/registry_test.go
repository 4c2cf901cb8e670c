package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/codespire/internal/core"
)

type stubGame struct{ id string }

func (g stubGame) ID() string { return g.id }
func (g stubGame) Title() string { return "Stub " + g.id }
func (stubGame) Reset(core.RuntimeConfig) {}
func (stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (stubGame) Render(*core.Screen) {}
func (stubGame) State() core.GameState { return core.GameState{} }

func TestRegisterListCreate(t *testing.T) {
	Register("zz_stub", func() Game { return stubGame{"zz_stub"} })
	Register("aa_stub", func() Game { return stubGame{"aa_stub"} })

	if !Exists("zz_stub") || Exists("missing") {
		t.Error("Exists() disagrees with registrations")
	}

	var ids []string
	for _, g := range List() {
		ids = append(ids, g.ID)
		if g.ID == "aa_stub" && g.Title != "Stub aa_stub" {
			t.Errorf("title = %q", g.Title)
		}
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("List() not sorted: %v", ids)
		}
	}

	g, err := Create("aa_stub")
	if err != nil || g.ID() != "aa_stub" {
		t.Errorf("Create() = %v, %v", g, err)
	}
	if _, err := Create("missing"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("expected ErrUnknownGame, got %v", err)
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	Register("dup_stub", func() Game { return stubGame{"dup_stub"} })
	defer func() {
		if recover() == nil {
			t.Error("second Register should panic")
		}
	}()
	Register("dup_stub", func() Game { return stubGame{"dup_stub"} })
}
