package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded defaults failed to parse: %v", err)
	}
	def := DefaultConfig()

	if cfg.Playfield != def.Playfield {
		t.Errorf("Playfield = %+v, expected %+v", cfg.Playfield, def.Playfield)
	}
	if cfg.Player != def.Player {
		t.Errorf("Player = %+v, expected %+v", cfg.Player, def.Player)
	}
	if cfg.Hitbox != def.Hitbox {
		t.Errorf("Hitbox = %+v, expected %+v", cfg.Hitbox, def.Hitbox)
	}
	if len(cfg.Levels) != len(def.Levels) {
		t.Fatalf("got %d levels, expected %d", len(cfg.Levels), len(def.Levels))
	}
	for i := range cfg.Levels {
		if cfg.Levels[i] != def.Levels[i] {
			t.Errorf("Levels[%d] = %+v, expected %+v", i, cfg.Levels[i], def.Levels[i])
		}
	}
	for name, boss := range def.Bosses {
		got, ok := cfg.Bosses[name]
		if !ok {
			t.Errorf("boss %q missing from embedded defaults", name)
			continue
		}
		if got.MaxHealth != boss.MaxHealth || got.ShootCooldownMs != boss.ShootCooldownMs ||
			len(got.Patterns) != len(boss.Patterns) {
			t.Errorf("boss %q differs from hardcoded defaults", name)
		}
	}
}

func TestParsePartialOverride(t *testing.T) {
	cfg, err := Parse([]byte("player:\n  max_health: 5\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Player.MaxHealth != 5 {
		t.Errorf("MaxHealth = %d, expected 5", cfg.Player.MaxHealth)
	}
	if cfg.Player.Speed != 5 || cfg.Playfield.Width != 800 {
		t.Error("fields not named in the file should keep their defaults")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GameConfig)
		want   string
	}{
		{"zero playfield", func(c *GameConfig) { c.Playfield.Width = 0 }, "playfield"},
		{"no levels", func(c *GameConfig) { c.Levels = nil }, "at least one level"},
		{"unknown enemy", func(c *GameConfig) { c.Levels[0].Enemy = "zigzag" }, "zigzag"},
		{"unknown boss", func(c *GameConfig) { c.Levels[0].Boss = "kernel" }, "kernel"},
		{"hitbox fraction", func(c *GameConfig) { c.Hitbox.Enemy = 1.2 }, "hitbox"},
		{"no patterns", func(c *GameConfig) {
			b := c.Bosses["compiler"]
			b.Patterns = nil
			c.Bosses["compiler"] = b
		}, "pattern"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateSortsPatterns(t *testing.T) {
	cfg := DefaultConfig()
	b := cfg.Bosses["runtime"]
	b.Patterns[0], b.Patterns[2] = b.Patterns[2], b.Patterns[0]
	cfg.Bosses["runtime"] = b

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	p := cfg.Bosses["runtime"].Patterns
	for i := 1; i < len(p); i++ {
		if p[i].AtFraction > p[i-1].AtFraction {
			t.Fatalf("patterns not sorted descending: %v then %v", p[i-1].AtFraction, p[i].AtFraction)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("playfield:\n  width: 640\n  height: 480\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Playfield.Width != 640 || cfg.Playfield.Height != 480 {
		t.Errorf("Playfield = %+v, expected 640x480", cfg.Playfield)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom path should fail")
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	ApplyPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset gave %+v", cfg.Difficulty)
	}
	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}
}

func TestParsePreset(t *testing.T) {
	if ParsePreset("easy") != DifficultyEasy {
		t.Error("easy should parse")
	}
	if ParsePreset("nightmare") != "" {
		t.Error("unknown preset should parse to empty")
	}
}

func TestDifficultyManager(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:      ScalingConfig{SpeedMultiplier: 1.0, CooldownReduction: 0.3},
	})

	tests := []struct {
		score    int
		level    float64
		speed    float64
		cooldown int64
	}{
		{0, 0, 2, 1000},
		{50, 0.5, 3, 850},
		{100, 1, 4, 700},
		{500, 1, 4, 700},
	}
	for _, tc := range tests {
		if got := d.Level(tc.score, 0); got != tc.level {
			t.Errorf("Level(%d) = %v, expected %v", tc.score, got, tc.level)
		}
		if got := d.Speed(2, tc.score, 0); got != tc.speed {
			t.Errorf("Speed(2, %d) = %v, expected %v", tc.score, got, tc.speed)
		}
		if got := d.Cooldown(1000, tc.score, 0); got != tc.cooldown {
			t.Errorf("Cooldown(1000, %d) = %d, expected %d", tc.score, got, tc.cooldown)
		}
	}

	d.SetEnabled(false)
	if d.Level(100, 0) != 0 {
		t.Error("disabled manager should stay at the initial level")
	}
}
