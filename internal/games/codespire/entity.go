package codespire

import "github.com/vovakirdan/codespire/internal/core"

// Entity is the shared base of everything that moves on the playfield.
// X and Y are the top-left corner in playfield units.
type Entity struct {
	X, Y   float64
	W, H   float64
	Shrink float64 // Fraction of the size removed from the hitbox
	Alive  bool
}

// NewEntity creates a live entity.
func NewEntity(x, y, w, h, shrink float64) Entity {
	return Entity{X: x, Y: y, W: w, H: h, Shrink: shrink, Alive: true}
}

// Rect returns the visual bounds.
func (e Entity) Rect() core.RectF {
	return core.NewRectF(e.X, e.Y, e.W, e.H)
}

// Hitbox returns the bounds used for collision tests.
func (e Entity) Hitbox() core.RectF {
	return e.Rect().Shrink(e.Shrink, e.Shrink)
}

// CenterX returns the horizontal center.
func (e Entity) CenterX() float64 {
	return e.X + e.W/2
}

// CenterY returns the vertical center.
func (e Entity) CenterY() float64 {
	return e.Y + e.H/2
}

// Collides tests the hitboxes of two entities.
func Collides(a, b Entity) bool {
	return a.Hitbox().Intersects(b.Hitbox())
}

// Faction identifies who fired a bullet.
type Faction int

const (
	FactionPlayer Faction = iota
	FactionEnemy
	FactionBoss
)

func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionEnemy:
		return "enemy"
	case FactionBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Bullet carries its own velocity, so spread shots need no side tables.
// Inactive bullets are dropped by the next compaction.
type Bullet struct {
	Entity
	DX, DY float64
	Owner  Faction
}

// Active reports whether the bullet still takes part in collision tests.
func (b *Bullet) Active() bool {
	return b.Alive
}

// Deactivate removes the bullet from further collision tests.
func (b *Bullet) Deactivate() {
	b.Alive = false
}

// move advances the bullet and deactivates it once it leaves the playfield.
func (b *Bullet) move(w, h float64) {
	b.X += b.DX
	b.Y += b.DY
	if b.Y+b.H < 0 || b.Y > h || b.X+b.W < 0 || b.X > w {
		b.Alive = false
	}
}

// compactBullets filters inactive bullets in place.
func compactBullets(bs []Bullet) []Bullet {
	out := bs[:0]
	for _, b := range bs {
		if b.Alive {
			out = append(out, b)
		}
	}
	return out
}
