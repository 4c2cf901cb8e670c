package main

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/codespire/internal/games/codespire"
	"github.com/vovakirdan/codespire/internal/registry"
)

func TestGameArg(t *testing.T) {
	if got := gameArg(nil); got != "codespire" {
		t.Errorf("gameArg(nil) = %q", got)
	}
	if got := gameArg([]string{"codespire_l2"}); got != "codespire_l2" {
		t.Errorf("gameArg = %q", got)
	}
}

func TestRunPlayUnknownGame(t *testing.T) {
	err := runPlay(nil, []string{"no_such_level"})
	if !errors.Is(err, registry.ErrUnknownGame) {
		t.Errorf("runPlay() = %v, want ErrUnknownGame", err)
	}
}

func TestPickResolver(t *testing.T) {
	defer func(a string, acc float64) { flagAnswers, flagAccuracy = a, acc }(flagAnswers, flagAccuracy)
	cmd := &cobra.Command{}
	ctx := context.Background()

	tests := []struct {
		mode    string
		want    bool
		wantErr bool
	}{
		{"right", true, false},
		{"wrong", false, false},
		{"sometimes", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			flagAnswers = tt.mode
			r, err := pickResolver(cmd, 1)
			if (err != nil) != tt.wantErr {
				t.Fatalf("pickResolver(%q) error = %v", tt.mode, err)
			}
			if err != nil {
				return
			}
			got, err := r.Resolve(ctx, codespire.Encounter{})
			if err != nil || got != tt.want {
				t.Errorf("Resolve() = %v, %v; want %v", got, err, tt.want)
			}
		})
	}

	flagAnswers = "auto"
	flagAccuracy = 1.5
	if _, err := pickResolver(cmd, 1); err == nil {
		t.Error("accuracy above 1 should be rejected")
	}
}
