package codespire

import (
	"github.com/vovakirdan/codespire/internal/config"
	"github.com/vovakirdan/codespire/internal/core"
)

// PlayerStatus is the controller state derived from the last update.
type PlayerStatus int

const (
	PlayerIdle PlayerStatus = iota
	PlayerMoving
	PlayerShooting
	PlayerOverheated
)

func (s PlayerStatus) String() string {
	switch s {
	case PlayerIdle:
		return "idle"
	case PlayerMoving:
		return "moving"
	case PlayerShooting:
		return "shooting"
	case PlayerOverheated:
		return "overheated"
	default:
		return "unknown"
	}
}

// Player is the ship controlled by the user.
// Health and shield change only through encounter outcomes.
type Player struct {
	Entity
	Shooter

	Health    int
	MaxHealth int
	Shield    bool

	cfg          config.PlayerConfig
	bulletShrink float64

	shotCount     int
	overheated    bool
	overheatStart int64
	prevFire      bool
	moved         bool
	shot          bool
}

// NewPlayer creates a player centered horizontally near the bottom of the playfield.
func NewPlayer(cfg config.PlayerConfig, hb config.HitboxConfig, fieldW, fieldH float64) *Player {
	p := &Player{
		cfg:          cfg,
		bulletShrink: hb.Bullet,
		MaxHealth:    cfg.MaxHealth,
		Health:       cfg.MaxHealth,
	}
	p.Entity = NewEntity(0, 0, cfg.Width, cfg.Height, hb.Player)
	p.Shooter = Shooter{Gate: core.NewReadyCooldown(cfg.ShootCooldownMs)}
	p.Place(fieldW, fieldH)
	return p
}

// Place puts the ship at its starting position and clears its bullets.
func (p *Player) Place(fieldW, fieldH float64) {
	p.X = fieldW/2 - p.W/2
	p.Y = fieldH - 80 - p.H/2
	p.ClearBullets()
	p.prevFire = false
}

// Update applies one frame of input.
func (p *Player) Update(in core.InputFrame, now int64, fieldW, fieldH float64) {
	p.moved = false
	p.shot = false

	if p.overheated && now-p.overheatStart >= p.cfg.OverheatMs {
		p.overheated = false
		p.shotCount = 0
	}

	// Movement is independent of shooting
	dx, dy := 0.0, 0.0
	if in.Has(core.ActionLeft) {
		dx -= p.cfg.Speed
	}
	if in.Has(core.ActionRight) {
		dx += p.cfg.Speed
	}
	if in.Has(core.ActionUp) {
		dy -= p.cfg.Speed
	}
	if in.Has(core.ActionDown) {
		dy += p.cfg.Speed
	}
	if dx != 0 || dy != 0 {
		p.X = core.ClampF(p.X+dx, 0, fieldW-p.W)
		p.Y = core.ClampF(p.Y+dy, 0, fieldH-p.H)
		p.moved = true
	}

	fire := in.Has(core.ActionFire)
	if fire && !p.prevFire && !p.overheated {
		b := newBullet(p.CenterX(), p.Y-p.cfg.BulletHeight/2, p.cfg.BulletWidth, p.cfg.BulletHeight,
			0, -p.cfg.BulletSpeed, p.bulletShrink, FactionPlayer)
		if p.Shoot(now, b) {
			p.shot = true
			p.shotCount++
			if p.shotCount >= p.cfg.OverheatShots {
				p.overheated = true
				p.overheatStart = now
			}
		}
	}
	p.prevFire = fire

	p.Shooter.Update(fieldW, fieldH)
}

// Status returns the controller state.
func (p *Player) Status() PlayerStatus {
	switch {
	case p.overheated:
		return PlayerOverheated
	case p.shot:
		return PlayerShooting
	case p.moved:
		return PlayerMoving
	default:
		return PlayerIdle
	}
}

// Fired reports whether the last update shot a bullet. Unlike Status it
// also holds on the shot that causes overheating.
func (p *Player) Fired() bool {
	return p.shot
}

// Overheated reports whether shooting is disabled.
func (p *Player) Overheated() bool {
	return p.overheated
}

// ShotCount returns shots fired since the last overheat.
func (p *Player) ShotCount() int {
	return p.shotCount
}

// ReloadFrame returns the reload progress index while overheated, or -1.
func (p *Player) ReloadFrame(now int64) int {
	if !p.overheated || p.cfg.ReloadFrames <= 0 {
		return -1
	}
	step := p.cfg.OverheatMs / int64(p.cfg.ReloadFrames)
	if step <= 0 {
		return p.cfg.ReloadFrames - 1
	}
	return min(int((now-p.overheatStart)/step), p.cfg.ReloadFrames-1)
}

// TakeDamage applies one lost encounter. A shield absorbs it instead of health.
// It returns true if the shield was consumed.
func (p *Player) TakeDamage() bool {
	if p.Shield {
		p.Shield = false
		return true
	}
	if p.Health > 0 {
		p.Health--
	}
	return false
}

// RollShield grants a shield with the configured probability.
// It returns true if a shield was granted.
func (p *Player) RollShield(rng *core.SimpleRNG) bool {
	if rng.Chance(p.cfg.ShieldChance) {
		p.Shield = true
		return true
	}
	return false
}

// Dead reports whether the run is over.
func (p *Player) Dead() bool {
	return p.Health <= 0
}
