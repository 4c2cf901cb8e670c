package codespire

import "github.com/vovakirdan/codespire/internal/core"

// Shooter is the shooting capability shared by the player, enemies and bosses:
// a cooldown gate plus the bullets it has fired.
type Shooter struct {
	Bullets []Bullet
	Gate    core.Cooldown
}

// CooldownReady reports whether the gate allows a shot at now.
func (s *Shooter) CooldownReady(now int64) bool {
	return s.Gate.Ready(now)
}

// Shoot fires a volley if the gate is ready. It returns false when gated.
func (s *Shooter) Shoot(now int64, volley ...Bullet) bool {
	if !s.Gate.TryFire(now) {
		return false
	}
	s.Bullets = append(s.Bullets, volley...)
	return true
}

// Update moves every bullet and drops the ones that left the playfield.
func (s *Shooter) Update(w, h float64) {
	for i := range s.Bullets {
		s.Bullets[i].move(w, h)
	}
	s.Bullets = compactBullets(s.Bullets)
}

// Compact drops bullets deactivated by collisions.
func (s *Shooter) Compact() {
	s.Bullets = compactBullets(s.Bullets)
}

// ClearBullets removes every bullet in flight.
func (s *Shooter) ClearBullets() {
	s.Bullets = s.Bullets[:0]
}

// newBullet creates a bullet centered horizontally on cx with its top at y.
func newBullet(cx, y, w, h, dx, dy, shrink float64, owner Faction) Bullet {
	return Bullet{
		Entity: NewEntity(cx-w/2, y, w, h, shrink),
		DX:     dx,
		DY:     dy,
		Owner:  owner,
	}
}
