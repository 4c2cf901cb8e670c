package codespire

import (
	"math"

	"github.com/vovakirdan/codespire/internal/config"
	"github.com/vovakirdan/codespire/internal/core"
)

// BossState is the boss lifecycle. Transitions only move forward.
type BossState int

const (
	BossEntering BossState = iota
	BossFighting
	BossDying
	BossVictory
)

func (s BossState) String() string {
	switch s {
	case BossEntering:
		return "entering"
	case BossFighting:
		return "fighting"
	case BossDying:
		return "dying"
	case BossVictory:
		return "victory"
	default:
		return "unknown"
	}
}

// MoveMode is the movement sub-mode while fighting.
type MoveMode int

const (
	MoveFollowPlayer MoveMode = iota
	MoveReturnToOrigin
)

func (m MoveMode) String() string {
	if m == MoveReturnToOrigin {
		return "return"
	}
	return "follow"
}

// Boss is a scripted enemy with phased attack patterns.
type Boss struct {
	Entity
	Shooter

	Name      string
	Health    int
	MaxHealth int
	State     BossState
	Mode      MoveMode

	cfg          config.BossConfig
	bulletShrink float64
	originX      float64 // Center x to return to
	modeSince    int64
	fightStart   int64
	pausedUntil  int64
	minionGate   core.Cooldown

	deathFrame  int
	deathSince  int64
	deathDoneAt int64
	deathDone   bool
}

// NewBoss spawns a boss above the playfield, horizontally centered.
func NewBoss(cfg config.BossConfig, hb config.HitboxConfig, fieldW float64, now int64) *Boss {
	b := &Boss{
		Entity:       NewEntity(fieldW/2-cfg.Width/2, cfg.SpawnY, cfg.Width, cfg.Height, hb.Boss),
		Name:         cfg.Name,
		Health:       cfg.MaxHealth,
		MaxHealth:    cfg.MaxHealth,
		cfg:          cfg,
		bulletShrink: hb.Bullet,
		originX:      fieldW / 2,
	}
	b.Gate = core.NewCooldown(cfg.ShootCooldownMs, now)
	b.minionGate = core.NewCooldown(cfg.Minions.CooldownMs, now)
	return b
}

// Update advances the boss by one frame. It returns the number of minions
// to spawn this frame.
func (b *Boss) Update(f field, playerCX float64) int {
	minions := 0

	switch b.State {
	case BossEntering:
		b.Y += b.cfg.DescentSpeed
		if b.Y >= b.cfg.TargetY {
			b.Y = b.cfg.TargetY
			b.startFight(f.Now)
		}

	case BossFighting:
		b.move(f, playerCX)
		b.shoot(f.Now)
		minions = b.spawnMinions(f)

	case BossDying:
		b.updateDeath(f.Now)

	case BossVictory:
		return 0
	}

	b.Shooter.Update(f.W, f.H)
	return minions
}

func (b *Boss) startFight(now int64) {
	b.State = BossFighting
	b.Mode = MoveFollowPlayer
	b.modeSince = now
	b.fightStart = now
	b.Gate = core.NewCooldown(b.Gate.Interval, now)
	b.minionGate = core.NewCooldown(b.minionGate.Interval, now)
}

func (b *Boss) move(f field, playerCX float64) {
	if f.Now-b.modeSince >= b.cfg.FollowMs {
		if b.Mode == MoveFollowPlayer {
			b.Mode = MoveReturnToOrigin
		} else {
			b.Mode = MoveFollowPlayer
		}
		b.modeSince = f.Now
	}

	if b.Mode == MoveFollowPlayer {
		b.X += (playerCX - b.CenterX()) * b.cfg.TrackFactor
	} else {
		b.X += (b.originX - b.CenterX()) * b.cfg.ReturnFactor
	}
	b.X = core.ClampF(b.X, 0, f.W-b.W)

	if b.cfg.SwayAmplitude != 0 {
		t := float64(f.Now - b.fightStart)
		b.Y = b.cfg.TargetY + b.cfg.SwayAmplitude*math.Sin(t*b.cfg.SwaySpeed)
	}
}

func (b *Boss) shoot(now int64) {
	if now < b.pausedUntil || !b.CooldownReady(now) {
		return
	}
	pattern := b.cfg.Patterns[b.Tier()]
	cx := b.CenterX()
	y := b.Y + b.H
	volley := make([]Bullet, 0, len(pattern.Shots))
	for _, s := range pattern.Shots {
		volley = append(volley, newBullet(cx+s.OffsetX, y, b.cfg.BulletWidth, b.cfg.BulletHeight,
			s.DX, s.DY, b.bulletShrink, FactionBoss))
	}
	if b.Shoot(now, volley...) {
		b.Gate.Ramp(b.cfg.CooldownStepMs, b.cfg.CooldownFloorMs)
	}
}

func (b *Boss) spawnMinions(f field) int {
	m := b.cfg.Minions
	if !m.Enabled {
		return 0
	}
	switch {
	case b.Health*3 <= b.MaxHealth && m.ThirdMs > 0:
		b.minionGate.SetInterval(m.ThirdMs)
	case b.Health*2 <= b.MaxHealth && m.HalfMs > 0:
		b.minionGate.SetInterval(m.HalfMs)
	default:
		b.minionGate.SetInterval(m.CooldownMs)
	}
	if !b.minionGate.TryFire(f.Now) {
		return 0
	}
	return f.RNG.IntRange(m.Min, m.Max)
}

func (b *Boss) updateDeath(now int64) {
	if !b.deathDone {
		if now-b.deathSince >= b.cfg.DeathFrameMs {
			b.deathFrame++
			b.deathSince = now
		}
		if b.deathFrame >= b.cfg.DeathFrames {
			b.deathDone = true
			b.deathDoneAt = now
		}
		return
	}
	if now-b.deathDoneAt >= b.cfg.VictoryDelayMs {
		b.State = BossVictory
	}
}

// Tier returns the attack pattern index for the current health: the last
// pattern whose threshold the health has dropped to.
func (b *Boss) Tier() int {
	tier := 0
	for i, p := range b.cfg.Patterns {
		if float64(b.Health) <= float64(b.MaxHealth)*p.AtFraction {
			tier = i
		}
	}
	return tier
}

// Hit lands one won encounter on the boss. It is a no-op unless the boss is
// fighting. Reaching zero health starts the death sequence.
func (b *Boss) Hit(now int64) bool {
	if b.State != BossFighting || b.Health <= 0 {
		return false
	}
	b.Health--
	if b.Health == 0 {
		b.State = BossDying
		b.deathFrame = 0
		b.deathSince = now
		b.deathDone = b.cfg.DeathFrames <= 0
		b.deathDoneAt = now
		b.ClearBullets()
	}
	return true
}

// ResetShootingRate is applied after every encounter against the boss. It
// optionally resets the ramped cooldown and suppresses shooting for a while.
func (b *Boss) ResetShootingRate(now int64) {
	if b.cfg.ResetCooldownMs > 0 {
		b.Gate.SetInterval(b.cfg.ResetCooldownMs)
	}
	b.pausedUntil = now + b.cfg.PauseMs
}

// Combatant reports whether collisions against the boss are tested.
func (b *Boss) Combatant() bool {
	return b.State == BossFighting
}

// PausedUntil returns the end of the current shooting pause.
func (b *Boss) PausedUntil() int64 {
	return b.pausedUntil
}

// DeathFrame returns the death animation index.
func (b *Boss) DeathFrame() int {
	return b.deathFrame
}
