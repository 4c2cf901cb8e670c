package codespire

import (
	"fmt"

	"github.com/vovakirdan/codespire/internal/config"
	"github.com/vovakirdan/codespire/internal/core"
)

// EnemyKind selects an enemy movement model.
type EnemyKind int

const (
	EnemyStraight EnemyKind = iota // Constant descent, wraps to the top
	EnemyDrift                     // Descent plus horizontal drift bouncing off the edges
	EnemyRoaming                   // Random speeds with periodic direction reversal
)

func (k EnemyKind) String() string {
	switch k {
	case EnemyStraight:
		return "straight"
	case EnemyDrift:
		return "drift"
	case EnemyRoaming:
		return "roaming"
	default:
		return "unknown"
	}
}

// ParseEnemyKind maps a config name to a kind.
func ParseEnemyKind(s string) (EnemyKind, error) {
	switch s {
	case "straight":
		return EnemyStraight, nil
	case "drift":
		return EnemyDrift, nil
	case "roaming":
		return EnemyRoaming, nil
	default:
		return 0, fmt.Errorf("codespire: unknown enemy kind %q", s)
	}
}

// field is what an update needs to know about the world.
type field struct {
	W, H         float64
	Now          int64
	RNG          *core.SimpleRNG
	SpeedScale   float64              // Difficulty multiplier for speeds
	Cooldown     func(ms int64) int64 // Difficulty adjustment for shot cooldowns
	BulletShrink float64
}

func (f field) scale(v float64) float64 {
	if f.SpeedScale <= 0 {
		return v
	}
	return v * f.SpeedScale
}

func (f field) cooldown(r config.Range) int64 {
	ms := int64(f.RNG.IntRange(int(r.Min), int(r.Max)))
	if f.Cooldown != nil {
		ms = f.Cooldown(ms)
	}
	return ms
}

// Enemy is a "bug" descending through the playfield.
type Enemy struct {
	Entity
	Shooter

	Kind     EnemyKind
	VX, VY   float64
	CanShoot bool // Decided at spawn
	Retiring bool // Removed instead of wrapped once past the bottom

	cfg      config.EnemyConfig
	nextTurn int64
}

// NewEnemy spawns an enemy with its top-left corner at (x, y).
func NewEnemy(kind EnemyKind, cfg config.EnemyConfig, shrink, x, y float64, f field) *Enemy {
	e := &Enemy{
		Entity: NewEntity(x, y, cfg.Width, cfg.Height, shrink),
		Kind:   kind,
		cfg:    cfg,
	}
	e.VY = f.scale(f.RNG.FloatRange(cfg.SpeedY.Min, cfg.SpeedY.Max))
	if kind != EnemyStraight {
		e.VX = f.RNG.Sign() * f.scale(f.RNG.FloatRange(cfg.SpeedX.Min, cfg.SpeedX.Max))
	}
	if kind == EnemyRoaming {
		e.nextTurn = f.Now + int64(f.RNG.IntRange(int(cfg.DirectionChangeMs.Min), int(cfg.DirectionChangeMs.Max)))
	}
	e.CanShoot = f.RNG.Chance(cfg.ShooterChance)
	e.Gate = core.NewCooldown(f.cooldown(cfg.FirstShotMs), f.Now)
	return e
}

// Update advances movement and shooting for one frame. It reports whether
// the enemy fired.
func (e *Enemy) Update(f field) bool {
	if e.Kind == EnemyRoaming && f.Now >= e.nextTurn {
		e.VX = -e.VX
		e.nextTurn = f.Now + int64(f.RNG.IntRange(int(e.cfg.DirectionChangeMs.Min), int(e.cfg.DirectionChangeMs.Max)))
	}

	e.X += e.VX
	e.Y += e.VY

	if e.Kind != EnemyStraight && (e.X < 0 || e.X+e.W > f.W) {
		e.VX = -e.VX
		e.X = core.ClampF(e.X, 0, f.W-e.W)
	}

	if e.Y > f.H+e.cfg.ExitMargin {
		if e.Retiring {
			e.Alive = false
		} else {
			e.respawn(f)
		}
	}

	fired := false
	if e.Alive && e.CanShoot && e.CooldownReady(f.Now) {
		fired = e.fire(f)
	}

	e.Shooter.Update(f.W, f.H)
	return fired
}

// respawn moves the enemy back above the playfield.
func (e *Enemy) respawn(f field) {
	e.Y = f.RNG.FloatRange(e.cfg.RespawnY.Min, e.cfg.RespawnY.Max)
	margin := int(e.cfg.RespawnMarginX)
	e.X = float64(f.RNG.IntRange(margin, int(f.W)-margin))
}

func (e *Enemy) fire(f field) bool {
	y := e.Y + e.H
	cx := e.CenterX()
	bw, bh, vy := e.cfg.BulletWidth, e.cfg.BulletHeight, e.cfg.BulletSpeed

	volley := []Bullet{newBullet(cx, y, bw, bh, 0, vy, f.BulletShrink, FactionEnemy)}
	if e.cfg.SpreadChance > 0 && f.RNG.Chance(e.cfg.SpreadChance) {
		off := e.cfg.SpreadOffset
		volley = append(volley,
			newBullet(cx-off, y, bw, bh, 0, vy, f.BulletShrink, FactionEnemy),
			newBullet(cx+off, y, bw, bh, 0, vy, f.BulletShrink, FactionEnemy),
		)
	}
	fired := e.Shoot(f.Now, volley...)
	e.Gate.SetInterval(f.cooldown(e.cfg.ShotMs))
	return fired
}
