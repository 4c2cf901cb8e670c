package codespire

import "github.com/vovakirdan/codespire/internal/core"

// Explosion is a short-lived effect left where an enemy died. No gameplay effect.
type Explosion struct {
	X, Y  float64 // Center
	Frame int
	since int64
}

// Star is one point of the scrolling background.
type Star struct {
	X, Y  float64
	Speed float64
	Big   bool
}

// effects owns the presentational state. It draws from its own RNG so the
// gameplay sequence does not depend on how many stars are configured.
type effects struct {
	rng        *core.SimpleRNG
	stars      []Star
	explosions []Explosion
	frames     int
	frameMs    int64
}

func newEffects(seed int64, stars, frames int, frameMs int64, w, h float64) *effects {
	fx := &effects{
		rng:     core.NewSimpleRNG(seed ^ 0x5eed),
		frames:  frames,
		frameMs: frameMs,
	}
	fx.stars = make([]Star, stars)
	for i := range fx.stars {
		fx.stars[i] = Star{
			X:     fx.rng.FloatRange(0, w),
			Y:     fx.rng.FloatRange(0, h),
			Speed: fx.rng.FloatRange(0.5, 2),
			Big:   fx.rng.Intn(2) == 1,
		}
	}
	return fx
}

func (fx *effects) explode(cx, cy float64, now int64) {
	fx.explosions = append(fx.explosions, Explosion{X: cx, Y: cy, since: now})
}

func (fx *effects) update(now int64, w, h float64) {
	for i := range fx.stars {
		s := &fx.stars[i]
		s.Y += s.Speed
		if s.Y > h {
			s.Y = 0
			s.X = fx.rng.FloatRange(0, w)
		}
	}

	alive := fx.explosions[:0]
	for _, ex := range fx.explosions {
		if now-ex.since >= fx.frameMs {
			ex.Frame++
			ex.since = now
		}
		if ex.Frame < fx.frames {
			alive = append(alive, ex)
		}
	}
	fx.explosions = alive
}
