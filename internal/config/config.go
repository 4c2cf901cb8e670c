// Package config provides YAML-based game configuration loading and
// difficulty management for CodeSpire.
package config

// GameConfig contains all tunables for the simulation.
type GameConfig struct {
	Playfield  PlayfieldConfig       `yaml:"playfield"`
	Hitbox     HitboxConfig          `yaml:"hitbox"`
	Player     PlayerConfig          `yaml:"player"`
	Enemies    EnemiesConfig         `yaml:"enemies"`
	Bosses     map[string]BossConfig `yaml:"bosses"`
	Levels     []LevelConfig         `yaml:"levels"`
	Scoring    ScoringConfig         `yaml:"scoring"`
	Effects    EffectsConfig         `yaml:"effects"`
	Difficulty DifficultyConfig      `yaml:"difficulty"`
}

// PlayfieldConfig defines the world bounds in playfield units.
type PlayfieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// HitboxConfig defines how much each hitbox is deflated relative to its visual
// size, as a fraction of its own width and height.
type HitboxConfig struct {
	Player float64 `yaml:"player"`
	Enemy  float64 `yaml:"enemy"`
	Boss   float64 `yaml:"boss"`
	Bullet float64 `yaml:"bullet"`
}

// PlayerConfig defines the player ship.
type PlayerConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	Speed           float64 `yaml:"speed"`
	MaxHealth       int     `yaml:"max_health"`
	ShootCooldownMs int64   `yaml:"shoot_cooldown_ms"`
	BulletSpeed     float64 `yaml:"bullet_speed"`
	BulletWidth     float64 `yaml:"bullet_width"`
	BulletHeight    float64 `yaml:"bullet_height"`
	OverheatShots   int     `yaml:"overheat_shots"`
	OverheatMs      int64   `yaml:"overheat_ms"`
	ReloadFrames    int     `yaml:"reload_frames"`
	ShieldChance    float64 `yaml:"shield_chance"`
}

// Range is an inclusive millisecond range.
type Range struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

// FloatRange is a half-open float range.
type FloatRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// EnemiesConfig holds one block per enemy variant.
type EnemiesConfig struct {
	Straight EnemyConfig `yaml:"straight"`
	Drift    EnemyConfig `yaml:"drift"`
	Roaming  EnemyConfig `yaml:"roaming"`
}

// EnemyConfig defines movement and shooting for an enemy variant.
// Fields a variant does not use are ignored.
type EnemyConfig struct {
	Width             float64    `yaml:"width"`
	Height            float64    `yaml:"height"`
	SpeedY            FloatRange `yaml:"speed_y"`
	SpeedX            FloatRange `yaml:"speed_x"`
	DirectionChangeMs Range      `yaml:"direction_change_ms"`
	ExitMargin        float64    `yaml:"exit_margin"` // How far past the bottom before wrapping
	RespawnY          FloatRange `yaml:"respawn_y"`
	RespawnMarginX    float64    `yaml:"respawn_margin_x"`
	ShooterChance     float64    `yaml:"shooter_chance"` // Chance the shooting flag is set at spawn
	FirstShotMs       Range      `yaml:"first_shot_ms"`
	ShotMs            Range      `yaml:"shot_ms"`
	BulletSpeed       float64    `yaml:"bullet_speed"`
	BulletWidth       float64    `yaml:"bullet_width"`
	BulletHeight      float64    `yaml:"bullet_height"`
	SpreadChance      float64    `yaml:"spread_chance"`
	SpreadOffset      float64    `yaml:"spread_offset"`
}

// BossConfig defines a scripted boss.
type BossConfig struct {
	Name            string          `yaml:"name"`
	Width           float64         `yaml:"width"`
	Height          float64         `yaml:"height"`
	MaxHealth       int             `yaml:"max_health"`
	SpawnY          float64         `yaml:"spawn_y"`
	TargetY         float64         `yaml:"target_y"`
	DescentSpeed    float64         `yaml:"descent_speed"`
	FollowMs        int64           `yaml:"follow_ms"`
	TrackFactor     float64         `yaml:"track_factor"`
	ReturnFactor    float64         `yaml:"return_factor"`
	SwayAmplitude   float64         `yaml:"sway_amplitude"`
	SwaySpeed       float64         `yaml:"sway_speed"`
	ShootCooldownMs int64           `yaml:"shoot_cooldown_ms"`
	CooldownStepMs  int64           `yaml:"cooldown_step_ms"`
	CooldownFloorMs int64           `yaml:"cooldown_floor_ms"`
	ResetCooldownMs int64           `yaml:"reset_cooldown_ms"` // 0 keeps the ramped cooldown
	PauseMs         int64           `yaml:"pause_ms"`
	BulletWidth     float64         `yaml:"bullet_width"`
	BulletHeight    float64         `yaml:"bullet_height"`
	Patterns        []PatternConfig `yaml:"patterns"`
	Minions         MinionConfig    `yaml:"minions"`
	DeathFrames     int             `yaml:"death_frames"`
	DeathFrameMs    int64           `yaml:"death_frame_ms"`
	VictoryDelayMs  int64           `yaml:"victory_delay_ms"`
}

// PatternConfig is one attack tier. The tier applies once
// health <= max_health * at_fraction.
type PatternConfig struct {
	AtFraction float64      `yaml:"at_fraction"`
	Shots      []ShotConfig `yaml:"shots"`
}

// ShotConfig is a single bullet of a volley, relative to the boss's bottom center.
type ShotConfig struct {
	OffsetX float64 `yaml:"offset_x"`
	DX      float64 `yaml:"dx"`
	DY      float64 `yaml:"dy"`
}

// MinionConfig defines minion waves spawned by a boss.
type MinionConfig struct {
	Enabled    bool       `yaml:"enabled"`
	Min        int        `yaml:"min"`
	Max        int        `yaml:"max"`
	CooldownMs int64      `yaml:"cooldown_ms"`
	HalfMs     int64      `yaml:"half_ms"`  // Cooldown once health <= max/2
	ThirdMs    int64      `yaml:"third_ms"` // Cooldown once health <= max/3
	MarginX    float64    `yaml:"margin_x"`
	SpawnY     FloatRange `yaml:"spawn_y"`
}

// LevelConfig describes one level of the campaign.
type LevelConfig struct {
	Name           string  `yaml:"name"`
	Enemy          string  `yaml:"enemy"` // straight, drift or roaming
	EnemyCount     int     `yaml:"enemy_count"`
	SpawnSpacing   float64 `yaml:"spawn_spacing"`
	Boss           string  `yaml:"boss"` // Key into bosses, empty for none
	BossAfterKills int     `yaml:"boss_after_kills"`
	QuestionBank   string  `yaml:"question_bank"`
}

// ScoringConfig defines points per event.
type ScoringConfig struct {
	Enemy      int `yaml:"enemy"`
	BossHit    int `yaml:"boss_hit"`
	BossDefeat int `yaml:"boss_defeat"`
	LevelClear int `yaml:"level_clear"`
}

// EffectsConfig defines presentational effects.
type EffectsConfig struct {
	Stars           int   `yaml:"stars"`
	ExplosionFrames int   `yaml:"explosion_frames"`
	ExplosionMs     int64 `yaml:"explosion_frame_ms"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`   // Added to enemy speed at max difficulty
	CooldownReduction float64 `yaml:"cooldown_reduction"` // Fraction removed from enemy shot cooldowns at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset. Unknown strings yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
