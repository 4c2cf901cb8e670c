package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the config directories.
const FileName = "codespire.yaml"

// Load loads the CodeSpire configuration.
// Search order: customPath -> ~/.codespire/configs/codespire.yaml -> ./configs/codespire.yaml -> embedded default.
// Files are decoded on top of the defaults, so a partial file only overrides what it names.
func Load(customPath string) (GameConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return GameConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return GameConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if cfg, err := Parse(defaultYAML); err == nil {
		return cfg, nil
	}
	return DefaultConfig(), nil // Fallback to hardcoded if embed fails
}

// Parse decodes YAML on top of DefaultConfig and validates the result.
func Parse(data []byte) (GameConfig, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GameConfig{}, fmt.Errorf("failed to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return GameConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".codespire", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}

// Validate checks the configuration for values the simulation cannot run with.
// Boss patterns are sorted by descending threshold as a side effect.
func (c *GameConfig) Validate() error {
	var errs []error

	if c.Playfield.Width <= 0 || c.Playfield.Height <= 0 {
		errs = append(errs, fmt.Errorf("playfield must be positive, got %vx%v", c.Playfield.Width, c.Playfield.Height))
	}
	if c.Player.MaxHealth <= 0 {
		errs = append(errs, errors.New("player.max_health must be positive"))
	}
	if c.Player.OverheatShots <= 0 {
		errs = append(errs, errors.New("player.overheat_shots must be positive"))
	}
	for _, f := range []float64{c.Hitbox.Player, c.Hitbox.Enemy, c.Hitbox.Boss, c.Hitbox.Bullet} {
		if f < 0 || f >= 1 {
			errs = append(errs, fmt.Errorf("hitbox fractions must be in [0, 1), got %v", f))
			break
		}
	}
	if len(c.Levels) == 0 {
		errs = append(errs, errors.New("at least one level is required"))
	}

	for i, lvl := range c.Levels {
		if _, err := c.EnemyByName(lvl.Enemy); err != nil {
			errs = append(errs, fmt.Errorf("levels[%d]: %w", i, err))
		}
		if lvl.EnemyCount <= 0 {
			errs = append(errs, fmt.Errorf("levels[%d]: enemy_count must be positive", i))
		}
		if lvl.Boss != "" {
			if _, ok := c.Bosses[lvl.Boss]; !ok {
				errs = append(errs, fmt.Errorf("levels[%d]: unknown boss %q", i, lvl.Boss))
			}
			if lvl.BossAfterKills > lvl.EnemyCount {
				errs = append(errs, fmt.Errorf("levels[%d]: boss_after_kills exceeds enemy_count", i))
			}
		}
	}

	for name, boss := range c.Bosses {
		if boss.MaxHealth <= 0 {
			errs = append(errs, fmt.Errorf("bosses.%s: max_health must be positive", name))
		}
		if len(boss.Patterns) == 0 {
			errs = append(errs, fmt.Errorf("bosses.%s: at least one pattern is required", name))
			continue
		}
		sort.SliceStable(boss.Patterns, func(i, j int) bool {
			return boss.Patterns[i].AtFraction > boss.Patterns[j].AtFraction
		})
		if boss.Patterns[0].AtFraction < 1.0 {
			errs = append(errs, fmt.Errorf("bosses.%s: first pattern must apply at full health", name))
		}
		if boss.Minions.Enabled && boss.Minions.Min > boss.Minions.Max {
			errs = append(errs, fmt.Errorf("bosses.%s: minions.min exceeds minions.max", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// EnemyByName returns the enemy block for a variant name.
func (c *GameConfig) EnemyByName(name string) (EnemyConfig, error) {
	switch name {
	case "straight":
		return c.Enemies.Straight, nil
	case "drift":
		return c.Enemies.Drift, nil
	case "roaming":
		return c.Enemies.Roaming, nil
	default:
		return EnemyConfig{}, fmt.Errorf("unknown enemy variant %q", name)
	}
}
