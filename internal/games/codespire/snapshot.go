package codespire

import "math"

// Snapshot contains the gameplay state for replay comparison and determinism tests.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick   uint64
	Now    int64
	Phase  string
	Level  int
	Score  int
	Kills  int
	Health int
	Shield bool

	PlayerX, PlayerY float64
	ShotCount        int
	Overheated       bool

	// Each enemy is 5 values: Kind, X, Y, VX, VY
	EnemyCount int
	EnemyData  []float64

	// Each bullet is 3 values: Owner, X, Y
	BulletCount int
	BulletData  []float64

	// Boss state, zero when absent
	BossState  int
	BossHealth int
	BossX      float64
	BossY      float64

	PortalOpen bool
	PendingID  int

	RNGState uint64
}

// Snapshot returns the current gameplay state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:       uint64(e.ticks), //#nosec G115 -- tick count is always positive
		Now:        e.clock.Now(),
		Phase:      e.phase.String(),
		Level:      e.Level(),
		Score:      e.score,
		Kills:      e.kills,
		Health:     e.player.Health,
		Shield:     e.player.Shield,
		PlayerX:    e.player.X,
		PlayerY:    e.player.Y,
		ShotCount:  e.player.ShotCount(),
		Overheated: e.player.Overheated(),
		EnemyCount: len(e.enemies),
		PortalOpen: e.portal != nil,
		RNGState:   e.rng.State(),
	}
	if e.pending != nil {
		snap.PendingID = e.pending.ID
	}

	snap.EnemyData = make([]float64, 0, len(e.enemies)*5)
	for _, en := range e.enemies {
		snap.EnemyData = append(snap.EnemyData, float64(en.Kind), en.X, en.Y, en.VX, en.VY)
	}

	addBullets := func(bs []Bullet) {
		for _, b := range bs {
			snap.BulletData = append(snap.BulletData, float64(b.Owner), b.X, b.Y)
			snap.BulletCount++
		}
	}
	addBullets(e.player.Bullets)
	for _, en := range e.enemies {
		addBullets(en.Bullets)
	}

	if e.boss != nil {
		snap.BossState = int(e.boss.State) + 1
		snap.BossHealth = e.boss.Health
		snap.BossX = e.boss.X
		snap.BossY = e.boss.Y
		addBullets(e.boss.Bullets)
	}
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.Now)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Level)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Kills)       //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Health)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.ShotCount)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.EnemyCount)  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BulletCount) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BossState)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.BossHealth)  //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.PendingID)   //#nosec G115 -- hash computation
	h = h*31 + math.Float64bits(snap.PlayerX)
	h = h*31 + math.Float64bits(snap.PlayerY)
	h = h*31 + math.Float64bits(snap.BossX)
	h = h*31 + math.Float64bits(snap.BossY)

	for _, b := range []bool{snap.Shield, snap.Overheated, snap.PortalOpen} {
		h *= 31
		if b {
			h++
		}
	}
	for _, c := range snap.Phase {
		h = h*31 + uint64(c) //#nosec G115 -- hash computation
	}

	for _, v := range snap.EnemyData {
		h = h*31 + math.Float64bits(v)
	}

	for _, v := range snap.BulletData {
		h = h*31 + math.Float64bits(v)
	}

	h = h*31 + snap.RNGState

	return h
}
