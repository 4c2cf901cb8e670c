package config

import (
	_ "embed"
)

//go:embed defaults/codespire.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// DefaultConfig returns the hard-coded CodeSpire configuration.
// It mirrors defaults/codespire.yaml and is used when the embedded file cannot be parsed.
func DefaultConfig() GameConfig {
	return GameConfig{
		Playfield: PlayfieldConfig{Width: 800, Height: 600},
		Hitbox: HitboxConfig{
			Player: 0.4,
			Enemy:  0.4,
			Boss:   0.2,
			Bullet: 0,
		},
		Player: PlayerConfig{
			Width:           100,
			Height:          100,
			Speed:           5,
			MaxHealth:       3,
			ShootCooldownMs: 300,
			BulletSpeed:     7,
			BulletWidth:     10,
			BulletHeight:    20,
			OverheatShots:   5,
			OverheatMs:      3000,
			ReloadFrames:    6,
			ShieldChance:    0.2,
		},
		Enemies: EnemiesConfig{
			Straight: EnemyConfig{
				Width:          100,
				Height:         100,
				SpeedY:         FloatRange{2, 2},
				RespawnY:       FloatRange{-50, -50},
				RespawnMarginX: 50,
				ShooterChance:  0.4,
				FirstShotMs:    Range{1000, 3000},
				ShotMs:         Range{1000, 3000},
				BulletSpeed:    5,
				BulletWidth:    10,
				BulletHeight:   20,
			},
			Drift: EnemyConfig{
				Width:          100,
				Height:         100,
				SpeedY:         FloatRange{2, 2},
				SpeedX:         FloatRange{1.5, 1.5},
				RespawnY:       FloatRange{-50, -50},
				RespawnMarginX: 50,
				ShooterChance:  0.4,
				FirstShotMs:    Range{1000, 2500},
				ShotMs:         Range{1000, 2500},
				BulletSpeed:    5,
				BulletWidth:    10,
				BulletHeight:   20,
			},
			Roaming: EnemyConfig{
				Width:             90,
				Height:            90,
				SpeedY:            FloatRange{1.5, 2.5},
				SpeedX:            FloatRange{0.7, 1.2},
				DirectionChangeMs: Range{500, 1500},
				ExitMargin:        20,
				RespawnY:          FloatRange{-200, -50},
				RespawnMarginX:    50,
				ShooterChance:     1.0,
				FirstShotMs:       Range{500, 1500},
				ShotMs:            Range{1000, 2500},
				BulletSpeed:       6,
				BulletWidth:       28,
				BulletHeight:      28,
				SpreadChance:      0.2,
				SpreadOffset:      20,
			},
		},
		Bosses: map[string]BossConfig{
			"compiler": {
				Name:            "The Compiler",
				Width:           200,
				Height:          200,
				MaxHealth:       4,
				SpawnY:          -250,
				TargetY:         100,
				DescentSpeed:    3,
				FollowMs:        4000,
				TrackFactor:     0.05,
				ReturnFactor:    0.03,
				ShootCooldownMs: 2500,
				CooldownStepMs:  100,
				CooldownFloorMs: 800,
				ResetCooldownMs: 2000,
				PauseMs:         3000,
				BulletWidth:     20,
				BulletHeight:    30,
				Patterns: []PatternConfig{
					{AtFraction: 1.0, Shots: []ShotConfig{{DY: 10}}},
					{AtFraction: 0.5, Shots: []ShotConfig{
						{OffsetX: -40, DX: -4, DY: 10},
						{OffsetX: 40, DX: 4, DY: 10},
					}},
				},
				DeathFrames:    10,
				DeathFrameMs:   100,
				VictoryDelayMs: 3000,
			},
			"runtime": {
				Name:            "The Runtime",
				Width:           200,
				Height:          200,
				MaxHealth:       8,
				SpawnY:          -250,
				TargetY:         120,
				DescentSpeed:    3,
				FollowMs:        4000,
				TrackFactor:     0.05,
				ReturnFactor:    0.03,
				SwayAmplitude:   5,
				SwaySpeed:       0.005,
				ShootCooldownMs: 2200,
				CooldownStepMs:  50,
				CooldownFloorMs: 600,
				PauseMs:         3000,
				BulletWidth:     20,
				BulletHeight:    30,
				Patterns: []PatternConfig{
					{AtFraction: 1.0, Shots: []ShotConfig{{DY: 9}}},
					{AtFraction: 0.5, Shots: []ShotConfig{
						{DX: -5, DY: 10}, {DX: 0, DY: 10}, {DX: 5, DY: 10},
					}},
					{AtFraction: 0.3334, Shots: []ShotConfig{
						{DX: -5, DY: 12}, {DX: -1.67, DY: 12}, {DX: 1.67, DY: 12}, {DX: 5, DY: 12},
					}},
				},
				Minions: MinionConfig{
					Enabled:    true,
					Min:        2,
					Max:        4,
					CooldownMs: 10000,
					HalfMs:     8000,
					ThirdMs:    6000,
					MarginX:    150,
					SpawnY:     FloatRange{-150, -50},
				},
				DeathFrames:    10,
				DeathFrameMs:   100,
				VictoryDelayMs: 3000,
			},
		},
		Levels: []LevelConfig{
			{Name: "Syntax Swamp", Enemy: "straight", EnemyCount: 5, SpawnSpacing: 120,
				Boss: "compiler", BossAfterKills: 5, QuestionBank: "general"},
			{Name: "Framework Forest", Enemy: "drift", EnemyCount: 6, SpawnSpacing: 120,
				Boss: "runtime", BossAfterKills: 6, QuestionBank: "dotnet"},
			{Name: "Web Wastes", Enemy: "roaming", EnemyCount: 8, SpawnSpacing: 100,
				QuestionBank: "web"},
		},
		Scoring: ScoringConfig{
			Enemy:      10,
			BossHit:    100,
			BossDefeat: 500,
			LevelClear: 250,
		},
		Effects: EffectsConfig{
			Stars:           100,
			ExplosionFrames: 11,
			ExplosionMs:     50,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 2000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:   0.5,
				CooldownReduction: 0.3,
			},
		},
	}
}
