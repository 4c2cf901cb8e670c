package codespire

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/codespire/internal/config"
	"github.com/vovakirdan/codespire/internal/core"
	"github.com/vovakirdan/codespire/internal/questions"
)

// Phase is the engine's top-level state.
type Phase int

const (
	PhaseRunning Phase = iota
	PhasePaused
	PhaseEncounter // Frozen until Resolve is called
	PhaseGameOver
	PhaseWon
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseEncounter:
		return "encounter"
	case PhaseGameOver:
		return "gameover"
	case PhaseWon:
		return "won"
	default:
		return "unknown"
	}
}

// EventKind identifies something the caller may react to.
type EventKind int

const (
	EventEncounter     EventKind = iota // A collision needs a verdict
	EventBossSpawned                    // The level boss entered
	EventBossDefeated                   // The boss reached Victory
	EventPortalOpened                   // The way to the next level is open
	EventLevelComplete                  // The player used the portal
	EventRunWon                         // The last level was completed
)

func (k EventKind) String() string {
	switch k {
	case EventEncounter:
		return "encounter"
	case EventBossSpawned:
		return "boss-spawned"
	case EventBossDefeated:
		return "boss-defeated"
	case EventPortalOpened:
		return "portal-opened"
	case EventLevelComplete:
		return "level-complete"
	case EventRunWon:
		return "run-won"
	default:
		return "unknown"
	}
}

// Event is emitted by Step.
type Event struct {
	Kind      EventKind
	Level     int // 1-based level the event happened on
	Encounter Encounter
}

// QuestionSource supplies questions for encounters. *questions.Pool implements it.
type QuestionSource interface {
	Next() (questions.Question, bool)
}

// Options configures an Engine. The zero value is usable.
type Options struct {
	Logger     *log.Logger
	Sound      SoundPlayer
	Questions  func(bank string) QuestionSource // nil loads the embedded banks
	Seed       int64
	TickRate   int
	StartLevel int // 0-based
}

// Engine runs the simulation. It is single-threaded: all methods must be
// called from the goroutine that owns the game loop.
type Engine struct {
	cfg        config.GameConfig
	log        *log.Logger
	sound      SoundPlayer
	source     func(bank string) QuestionSource
	rng        *core.SimpleRNG
	clock      core.FrameClock
	difficulty *config.DifficultyManager
	fx         *effects
	ticks      int

	phase   Phase
	player  *Player
	enemies []*Enemy
	boss    *Boss
	portal  *Entity

	pending   *Encounter
	nextEncID int
	questions QuestionSource

	level       int
	levelCfg    config.LevelConfig
	kills       int
	bossSpawned bool
	score       int

	events []Event
}

// NewEngine creates an engine positioned at the start of opts.StartLevel.
func NewEngine(cfg config.GameConfig, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.StartLevel < 0 || opts.StartLevel >= len(cfg.Levels) {
		return nil, fmt.Errorf("codespire: start level %d out of range [0, %d)", opts.StartLevel, len(cfg.Levels))
	}

	e := &Engine{
		cfg:        cfg,
		log:        opts.Logger,
		sound:      opts.Sound,
		source:     opts.Questions,
		rng:        core.NewSimpleRNG(opts.Seed),
		clock:      core.NewFrameClock(opts.TickRate),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
	}
	if e.log == nil {
		e.log = log.New(io.Discard)
	}
	if e.sound == nil {
		e.sound = NopSound{}
	}
	if e.source == nil {
		e.source = embeddedBanks(opts.Seed, e.log)
	}

	w, h := cfg.Playfield.Width, cfg.Playfield.Height
	e.fx = newEffects(opts.Seed, cfg.Effects.Stars, cfg.Effects.ExplosionFrames, cfg.Effects.ExplosionMs, w, h)
	e.player = NewPlayer(cfg.Player, cfg.Hitbox, w, h)

	if err := e.loadLevel(opts.StartLevel); err != nil {
		return nil, err
	}
	return e, nil
}

// embeddedBanks returns a source that keeps one pool per bank for the whole run.
func embeddedBanks(seed int64, logger *log.Logger) func(string) QuestionSource {
	pools := make(map[string]*questions.Pool)
	return func(bank string) QuestionSource {
		if p, ok := pools[bank]; ok {
			return p
		}
		qs, err := questions.LoadBank(bank)
		if err != nil {
			logger.Warn("question bank unavailable, using fallback", "bank", bank, "err", err)
		}
		p := questions.NewPool(qs, seed+int64(len(pools)))
		pools[bank] = p
		return p
	}
}

// Step advances the simulation by one frame. While an encounter is pending,
// or the game is paused or over, nothing moves and the clock stands still.
// The returned slice is reused by the next call.
func (e *Engine) Step(in core.InputFrame) []Event {
	e.events = e.events[:0]

	switch e.phase {
	case PhaseEncounter, PhaseGameOver, PhaseWon:
		return nil
	}

	if in.Has(core.ActionPause) {
		if e.phase == PhasePaused {
			e.phase = PhaseRunning
		} else {
			e.phase = PhasePaused
		}
	}
	if e.phase == PhasePaused {
		return nil
	}

	now := e.clock.Tick()
	e.ticks++
	f := e.field()
	w, h := f.W, f.H

	wasOverheated := e.player.Overheated()
	e.player.Update(in, now, w, h)
	if e.player.Fired() {
		e.sound.Play(SoundShoot)
	}
	if e.player.Overheated() && !wasOverheated {
		e.sound.Play(SoundOverheat)
	}

	e.fx.update(now, w, h)

	enemyFired := false
	for _, en := range e.enemies {
		if en.Update(f) {
			enemyFired = true
		}
	}
	if enemyFired {
		e.sound.Play(SoundEnemyShoot)
	}
	e.compactEnemies()

	if e.boss != nil {
		e.updateBoss(f)
	}

	e.progressLevel()
	if e.phase != PhaseRunning {
		return e.events
	}

	e.detectCollision()
	return e.events
}

func (e *Engine) field() field {
	score, ticks := e.score, e.ticks
	return field{
		W:            e.cfg.Playfield.Width,
		H:            e.cfg.Playfield.Height,
		Now:          e.clock.Now(),
		RNG:          e.rng,
		SpeedScale:   e.difficulty.Speed(1, score, ticks),
		Cooldown:     func(ms int64) int64 { return e.difficulty.Cooldown(ms, score, ticks) },
		BulletShrink: e.cfg.Hitbox.Bullet,
	}
}

func (e *Engine) updateBoss(f field) {
	n := e.boss.Update(f, e.player.CenterX())
	if n > 0 {
		e.spawnMinions(n, f)
	}
	if e.boss.State == BossVictory {
		e.log.Debug("boss defeated", "boss", e.boss.Name, "level", e.level+1)
		e.score += e.cfg.Scoring.BossDefeat
		e.sound.Play(SoundBossDefeated)
		e.boss = nil
		e.emit(Event{Kind: EventBossDefeated})
		e.openPortal()
	}
}

func (e *Engine) spawnMinions(n int, f field) {
	m := e.boss.cfg.Minions
	margin := int(m.MarginX)
	for range n {
		x := float64(f.RNG.IntRange(margin, int(f.W)-margin))
		y := f.RNG.FloatRange(m.SpawnY.Min, m.SpawnY.Max)
		minion := NewEnemy(EnemyDrift, e.cfg.Enemies.Drift, e.cfg.Hitbox.Enemy, x-e.cfg.Enemies.Drift.Width/2, y, f)
		minion.Retiring = true
		e.enemies = append(e.enemies, minion)
	}
	e.log.Debug("minions spawned", "count", n)
}

// detectCollision finds at most one collision per frame and suspends the
// simulation on it. The triggering bullet is deactivated immediately.
func (e *Engine) detectCollision() {
	p := e.player

	for i, en := range e.enemies {
		if Collides(p.Entity, en.Entity) {
			e.suspend(EncounterPlayerEnemy, i)
			return
		}
	}

	for i, en := range e.enemies {
		for j := range p.Bullets {
			b := &p.Bullets[j]
			if b.Active() && Collides(b.Entity, en.Entity) {
				b.Deactivate()
				p.Compact()
				e.suspend(EncounterPlayerBulletEnemy, i)
				return
			}
		}
	}

	for _, en := range e.enemies {
		for j := range en.Bullets {
			b := &en.Bullets[j]
			if b.Active() && Collides(b.Entity, p.Entity) {
				b.Deactivate()
				en.Compact()
				e.suspend(EncounterEnemyBullet, -1)
				return
			}
		}
	}

	if e.boss == nil {
		return
	}
	if e.boss.Combatant() {
		for j := range p.Bullets {
			b := &p.Bullets[j]
			if b.Active() && Collides(b.Entity, e.boss.Entity) {
				b.Deactivate()
				p.Compact()
				e.suspend(EncounterPlayerBulletBoss, -1)
				return
			}
		}
	}
	for j := range e.boss.Bullets {
		b := &e.boss.Bullets[j]
		if b.Active() && Collides(b.Entity, p.Entity) {
			b.Deactivate()
			e.boss.Compact()
			e.suspend(EncounterBossBullet, -1)
			return
		}
	}
}

func (e *Engine) suspend(kind EncounterKind, enemy int) {
	q, ok := e.questions.Next()
	if !ok {
		q = questions.Fallback
	}
	e.nextEncID++
	enc := Encounter{
		ID:         e.nextEncID,
		Kind:       kind,
		EnemyIndex: enemy,
		Question:   q,
	}
	e.pending = &enc
	e.phase = PhaseEncounter
	e.log.Debug("encounter", "id", enc.ID, "kind", kind, "enemy", enemy)
	e.emit(Event{Kind: EventEncounter, Encounter: enc})
}

// PendingEncounter returns the encounter awaiting a verdict.
func (e *Engine) PendingEncounter() (Encounter, bool) {
	if e.pending == nil {
		return Encounter{}, false
	}
	return *e.pending, true
}

// Resolve applies the verdict for the pending encounter exactly once and
// resumes the simulation.
func (e *Engine) Resolve(correct bool) (Outcome, error) {
	if e.pending == nil {
		return Outcome{}, ErrNoEncounter
	}
	enc := *e.pending
	e.pending = nil

	now := e.clock.Now()
	out := Outcome{Encounter: enc, Correct: correct}

	switch enc.Kind {
	case EncounterPlayerEnemy, EncounterPlayerBulletEnemy:
		if enc.EnemyIndex >= 0 && enc.EnemyIndex < len(e.enemies) {
			en := e.enemies[enc.EnemyIndex]
			e.dropBulletsOn(en.Entity)
			if correct {
				out.ShieldGranted = e.player.RollShield(e.rng)
				e.score += e.cfg.Scoring.Enemy
			} else {
				e.damage(&out)
			}
			en.Alive = false
			e.kills++
			out.EnemyDestroyed = true
			e.fx.explode(en.CenterX(), en.CenterY(), now)
			e.sound.Play(SoundExplosion)
			e.compactEnemies()
		}

	case EncounterEnemyBullet:
		if correct {
			out.ShieldGranted = e.player.RollShield(e.rng)
		} else {
			e.damage(&out)
		}

	case EncounterPlayerBulletBoss:
		if correct {
			if e.boss != nil && e.boss.Hit(now) {
				out.BossHit = true
				out.BossDying = e.boss.State == BossDying
				e.score += e.cfg.Scoring.BossHit
				e.sound.Play(SoundBossHit)
				if out.BossDying {
					e.fx.explode(e.boss.CenterX(), e.boss.CenterY(), now)
					e.log.Debug("boss dying", "boss", e.boss.Name)
				}
			}
		} else {
			e.damage(&out)
		}
		if e.boss != nil {
			e.boss.ResetShootingRate(now)
		}

	case EncounterBossBullet:
		if correct {
			out.ShieldGranted = e.player.RollShield(e.rng)
		} else {
			e.damage(&out)
		}
		if e.boss != nil {
			e.boss.ResetShootingRate(now)
		}
	}

	if correct {
		e.sound.Play(SoundCorrect)
	} else {
		e.sound.Play(SoundIncorrect)
	}
	if out.ShieldGranted {
		e.sound.Play(SoundShield)
	}

	if e.player.Dead() {
		e.phase = PhaseGameOver
		out.GameOver = true
		e.sound.Play(SoundGameOver)
	} else {
		e.phase = PhaseRunning
	}

	e.log.Debug("encounter resolved",
		"id", enc.ID,
		"kind", enc.Kind,
		"correct", correct,
		"health", e.player.Health,
		"shield", e.player.Shield,
		"gameover", out.GameOver,
	)
	return out, nil
}

func (e *Engine) damage(out *Outcome) {
	if e.player.TakeDamage() {
		out.ShieldUsed = true
		return
	}
	out.Damaged = true
}

// dropBulletsOn removes player bullets overlapping a destroyed target.
func (e *Engine) dropBulletsOn(target Entity) {
	for i := range e.player.Bullets {
		b := &e.player.Bullets[i]
		if b.Active() && Collides(b.Entity, target) {
			b.Deactivate()
		}
	}
	e.player.Compact()
}

func (e *Engine) compactEnemies() {
	alive := e.enemies[:0]
	for _, en := range e.enemies {
		if en.Alive {
			alive = append(alive, en)
		}
	}
	for i := len(alive); i < len(e.enemies); i++ {
		e.enemies[i] = nil
	}
	e.enemies = alive
}

func (e *Engine) emit(ev Event) {
	ev.Level = e.level + 1
	e.events = append(e.events, ev)
}

// Phase returns the engine phase.
func (e *Engine) Phase() Phase { return e.phase }

// Player returns the player ship.
func (e *Engine) Player() *Player { return e.player }

// Enemies returns the live enemies. The slice is owned by the engine.
func (e *Engine) Enemies() []*Enemy { return e.enemies }

// Boss returns the active boss, or nil.
func (e *Engine) Boss() *Boss { return e.boss }

// Portal returns the open portal, or nil.
func (e *Engine) Portal() *Entity { return e.portal }

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// Level returns the 1-based level number.
func (e *Engine) Level() int { return e.level + 1 }

// LevelName returns the configured name of the current level.
func (e *Engine) LevelName() string { return e.levelCfg.Name }

// Kills returns enemies destroyed on the current level.
func (e *Engine) Kills() int { return e.kills }

// Now returns the simulation clock in milliseconds.
func (e *Engine) Now() int64 { return e.clock.Now() }

// Ticks returns the number of frames simulated.
func (e *Engine) Ticks() int { return e.ticks }

// Stars returns the background stars.
func (e *Engine) Stars() []Star { return e.fx.stars }

// Explosions returns the running explosion effects.
func (e *Engine) Explosions() []Explosion { return e.fx.explosions }

// Config returns the configuration the engine runs with.
func (e *Engine) Config() config.GameConfig { return e.cfg }
