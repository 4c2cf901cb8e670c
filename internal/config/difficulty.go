package config

import "math"

// DifficultyManager turns run progress into a difficulty level in [0, 1]
// and scales enemy speeds and shot cooldowns by it.
type DifficultyManager struct {
	cfg     DifficultyConfig
	initial float64
}

// NewDifficultyManager creates a manager for cfg.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg, initial: unit(cfg.InitialLevel)}
}

// SetEnabled switches progression on or off. A disabled manager stays at
// the initial level.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// progress reports how far the run is toward MaxAt, and false when
// progression is off.
func (d *DifficultyManager) progress(score, ticks int) (float64, bool) {
	if !d.cfg.Enabled {
		return 0, false
	}
	var done int
	switch d.cfg.Progression.Type {
	case "score":
		done = score
	case "time":
		done = ticks
	default:
		return 0, false
	}
	return unit(float64(done) / float64(max(d.cfg.Progression.MaxAt, 1))), true
}

// Level interpolates from the initial level to 1 as the run progresses.
func (d *DifficultyManager) Level(score, ticks int) float64 {
	p, ok := d.progress(score, ticks)
	if !ok {
		return d.initial
	}
	return d.initial + p*(1-d.initial)
}

// Speed scales base by up to 1 + SpeedMultiplier.
func (d *DifficultyManager) Speed(base float64, score, ticks int) float64 {
	return base * (1 + d.Level(score, ticks)*d.cfg.Scaling.SpeedMultiplier)
}

// Cooldown shortens baseMs by at most half.
func (d *DifficultyManager) Cooldown(baseMs int64, score, ticks int) int64 {
	cut := math.Min(d.Level(score, ticks)*d.cfg.Scaling.CooldownReduction, 0.5)
	return int64(math.Round(float64(baseMs) * (1 - math.Max(cut, 0))))
}

func unit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
