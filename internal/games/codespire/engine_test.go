package codespire

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/codespire/internal/config"
	"github.com/vovakirdan/codespire/internal/core"
	"github.com/vovakirdan/codespire/internal/questions"
)

var testQuestion = questions.Question{Prompt: "2 + 2 = ?", Answer: "4"}

type fixedQuestions struct{}

func (fixedQuestions) Next() (questions.Question, bool) { return testQuestion, true }

// newTestEngine creates an engine with no initial wave, so each test places
// exactly the entities it needs.
func newTestEngine(t *testing.T, startLevel int) *Engine {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Difficulty.Enabled = false
	cfg.Effects.Stars = 0

	e, err := NewEngine(cfg, Options{
		Seed:       7,
		TickRate:   60,
		StartLevel: startLevel,
		Questions:  func(string) QuestionSource { return fixedQuestions{} },
	})
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	e.enemies = nil
	return e
}

// placeEnemy adds a non-shooting straight enemy centered at (cx, cy).
func placeEnemy(e *Engine, cx, cy float64) *Enemy {
	ecfg := e.cfg.Enemies.Straight
	en := NewEnemy(EnemyStraight, ecfg, e.cfg.Hitbox.Enemy, cx-ecfg.Width/2, cy-ecfg.Height/2, e.field())
	en.CanShoot = false
	e.enemies = append(e.enemies, en)
	return en
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

func TestNewEngineStartLevelRange(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, lvl := range []int{-1, len(cfg.Levels)} {
		if _, err := NewEngine(cfg, Options{StartLevel: lvl}); err == nil {
			t.Errorf("NewEngine(StartLevel=%d) should fail", lvl)
		}
	}
}

func TestNewEngineInitialWave(t *testing.T) {
	cfg := config.DefaultConfig()
	e, err := NewEngine(cfg, Options{Seed: 3, Questions: func(string) QuestionSource { return fixedQuestions{} }})
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}

	if len(e.Enemies()) != cfg.Levels[0].EnemyCount {
		t.Fatalf("expected %d enemies, got %d", cfg.Levels[0].EnemyCount, len(e.Enemies()))
	}
	for i, en := range e.Enemies() {
		if en.CenterY() >= -50 {
			t.Errorf("enemy %d should spawn above the playfield, center y=%v", i, en.CenterY())
		}
		if en.CenterX() < 50 || en.CenterX() > 750 {
			t.Errorf("enemy %d center x=%v outside [50, 750]", i, en.CenterX())
		}
	}
	if e.Phase() != PhaseRunning {
		t.Errorf("expected running phase, got %s", e.Phase())
	}
	if e.Player().Health != 3 {
		t.Errorf("expected health 3, got %d", e.Player().Health)
	}
}

func TestPlayerLosesAgainstEnemy(t *testing.T) {
	e := newTestEngine(t, 0)
	placeEnemy(e, 400, 500)

	events := e.Step(core.NewInputFrame())
	if !hasEvent(events, EventEncounter) {
		t.Fatal("expected an encounter event")
	}
	enc, ok := e.PendingEncounter()
	if !ok || enc.Kind != EncounterPlayerEnemy {
		t.Fatalf("expected pending player-enemy encounter, got %+v (ok=%v)", enc, ok)
	}
	if enc.Question.Prompt != testQuestion.Prompt {
		t.Errorf("encounter question = %q, expected %q", enc.Question.Prompt, testQuestion.Prompt)
	}

	out, err := e.Resolve(false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !out.Damaged || out.ShieldUsed {
		t.Errorf("expected plain damage, got %+v", out)
	}
	if e.Player().Health != 2 {
		t.Errorf("expected health 2, got %d", e.Player().Health)
	}
	if e.Player().Shield {
		t.Error("a lost encounter must not grant a shield")
	}
	if len(e.Enemies()) != 0 || !out.EnemyDestroyed {
		t.Errorf("enemy should be destroyed, %d remain", len(e.Enemies()))
	}
	if e.Kills() != 1 {
		t.Errorf("expected 1 kill, got %d", e.Kills())
	}
	if e.Score() != 0 {
		t.Errorf("a lost encounter must not score, got %d", e.Score())
	}
	if e.Phase() != PhaseRunning {
		t.Errorf("expected running phase, got %s", e.Phase())
	}
}

func TestPlayerWinsAgainstEnemy(t *testing.T) {
	e := newTestEngine(t, 0)
	placeEnemy(e, 400, 500)
	e.Step(core.NewInputFrame())

	out, err := e.Resolve(true)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if out.Damaged {
		t.Error("a won encounter must not damage the player")
	}
	if e.Player().Health != 3 {
		t.Errorf("expected health 3, got %d", e.Player().Health)
	}
	if e.Score() != e.cfg.Scoring.Enemy {
		t.Errorf("expected score %d, got %d", e.cfg.Scoring.Enemy, e.Score())
	}
	if len(e.Enemies()) != 0 {
		t.Error("enemy should be destroyed")
	}
	if len(e.Explosions()) != 1 {
		t.Errorf("expected 1 explosion, got %d", len(e.Explosions()))
	}
}

func TestShieldAbsorbsLostEncounter(t *testing.T) {
	e := newTestEngine(t, 0)
	e.Player().Shield = true
	placeEnemy(e, 400, 500)
	e.Step(core.NewInputFrame())

	out, err := e.Resolve(false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !out.ShieldUsed || out.Damaged {
		t.Errorf("expected shield to absorb the hit, got %+v", out)
	}
	if e.Player().Health != 3 {
		t.Errorf("expected health 3, got %d", e.Player().Health)
	}
	if e.Player().Shield {
		t.Error("shield should be consumed")
	}

	// The next loss in a row has no shield left
	placeEnemy(e, 400, 500)
	e.Step(core.NewInputFrame())
	out, err = e.Resolve(false)
	if err != nil {
		t.Fatalf("second Resolve() error: %v", err)
	}
	if out.ShieldUsed || !out.Damaged {
		t.Errorf("second loss should damage, got %+v", out)
	}
	if e.Player().Health != 2 {
		t.Errorf("expected health 2 after the second loss, got %d", e.Player().Health)
	}
}

func TestLastHealthEndsRun(t *testing.T) {
	e := newTestEngine(t, 0)
	e.Player().Health = 1
	placeEnemy(e, 400, 500)
	e.Step(core.NewInputFrame())

	out, err := e.Resolve(false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !out.GameOver || e.Phase() != PhaseGameOver {
		t.Fatalf("expected game over, got phase %s", e.Phase())
	}

	now := e.Now()
	if events := e.Step(core.InputOf(core.ActionLeft)); len(events) != 0 {
		t.Errorf("Step after game over should emit nothing, got %v", events)
	}
	if e.Now() != now {
		t.Error("clock should not advance after game over")
	}
}

func TestResolveExactlyOnce(t *testing.T) {
	e := newTestEngine(t, 0)

	if _, err := e.Resolve(true); !errors.Is(err, ErrNoEncounter) {
		t.Fatalf("Resolve() with nothing pending = %v, expected ErrNoEncounter", err)
	}

	placeEnemy(e, 400, 500)
	e.Step(core.NewInputFrame())
	if _, err := e.Resolve(false); err != nil {
		t.Fatalf("first Resolve() error: %v", err)
	}
	if _, err := e.Resolve(false); !errors.Is(err, ErrNoEncounter) {
		t.Errorf("second Resolve() = %v, expected ErrNoEncounter", err)
	}
	if e.Player().Health != 2 {
		t.Errorf("outcome applied more than once, health %d", e.Player().Health)
	}
}

func TestClockFrozenDuringEncounter(t *testing.T) {
	e := newTestEngine(t, 0)
	en := placeEnemy(e, 400, 500)
	e.Step(core.NewInputFrame())

	if e.Phase() != PhaseEncounter {
		t.Fatalf("expected encounter phase, got %s", e.Phase())
	}
	now, ticks := e.Now(), e.Ticks()
	px, ey := e.Player().X, en.Y

	for range 30 {
		e.Step(core.InputOf(core.ActionLeft, core.ActionFire))
	}

	if e.Now() != now || e.Ticks() != ticks {
		t.Errorf("clock moved during encounter: now %d -> %d, ticks %d -> %d", now, e.Now(), ticks, e.Ticks())
	}
	if e.Player().X != px || en.Y != ey {
		t.Error("entities moved during encounter")
	}
	if len(e.Player().Bullets) != 0 {
		t.Error("player fired during encounter")
	}
}

func TestEnemyBulletEncounter(t *testing.T) {
	e := newTestEngine(t, 0)
	en := placeEnemy(e, 100, 100)
	p := e.Player()
	en.Bullets = append(en.Bullets, newBullet(p.CenterX(), p.CenterY()-10, 10, 20, 0, 5, 0, FactionEnemy))

	e.Step(core.NewInputFrame())

	enc, ok := e.PendingEncounter()
	if !ok || enc.Kind != EncounterEnemyBullet {
		t.Fatalf("expected enemy-bullet encounter, got %+v (ok=%v)", enc, ok)
	}
	if enc.EnemyIndex != -1 {
		t.Errorf("bullet encounter should not reference an enemy, got %d", enc.EnemyIndex)
	}
	if len(en.Bullets) != 0 {
		t.Error("triggering bullet should be removed at detection")
	}

	if _, err := e.Resolve(false); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(e.Enemies()) != 1 {
		t.Error("a bullet encounter must not destroy the shooter")
	}
	if p.Health != 2 {
		t.Errorf("expected health 2, got %d", p.Health)
	}
}

func TestPlayerBulletHitsEnemy(t *testing.T) {
	e := newTestEngine(t, 0)
	placeEnemy(e, 400, 200)
	p := e.Player()
	p.Bullets = append(p.Bullets, newBullet(400, 230, 10, 20, 0, -7, 0, FactionPlayer))

	e.Step(core.NewInputFrame())

	enc, ok := e.PendingEncounter()
	if !ok || enc.Kind != EncounterPlayerBulletEnemy {
		t.Fatalf("expected bullet-enemy encounter, got %+v (ok=%v)", enc, ok)
	}
	if enc.EnemyIndex != 0 {
		t.Errorf("expected enemy index 0, got %d", enc.EnemyIndex)
	}
	if len(p.Bullets) != 0 {
		t.Error("triggering bullet should be removed at detection")
	}

	out, err := e.Resolve(true)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !out.EnemyDestroyed || e.Score() != e.cfg.Scoring.Enemy {
		t.Errorf("expected enemy destroyed and scored, got %+v score=%d", out, e.Score())
	}
}

func TestOneEncounterPerStep(t *testing.T) {
	e := newTestEngine(t, 0)
	en := placeEnemy(e, 400, 500)
	p := e.Player()
	en.Bullets = append(en.Bullets, newBullet(p.CenterX(), p.CenterY()-10, 10, 20, 0, 5, 0, FactionEnemy))

	events := e.Step(core.NewInputFrame())

	n := 0
	for _, ev := range events {
		if ev.Kind == EventEncounter {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 encounter, got %d", n)
	}
	if enc, _ := e.PendingEncounter(); enc.Kind != EncounterPlayerEnemy {
		t.Errorf("body contact should be detected first, got %s", enc.Kind)
	}
	if len(en.Bullets) != 1 {
		t.Error("bullets not involved in the encounter must stay in flight")
	}
}

func TestResolvePendingQuit(t *testing.T) {
	e := newTestEngine(t, 0)
	placeEnemy(e, 400, 500)
	e.Step(core.NewInputFrame())

	quit := ResolverFunc(func(context.Context, Encounter) (bool, error) {
		return false, ErrQuit
	})
	out, err := ResolvePending(context.Background(), e, quit)
	if !errors.Is(err, ErrQuit) {
		t.Fatalf("ResolvePending() error = %v, expected ErrQuit", err)
	}
	if !out.Damaged {
		t.Error("quitting should resolve as a loss")
	}
	if _, ok := e.PendingEncounter(); ok {
		t.Error("encounter should be resolved after quitting")
	}
	if e.Player().Health != 2 {
		t.Errorf("expected health 2, got %d", e.Player().Health)
	}
}

func TestResolvePendingCanceledContext(t *testing.T) {
	e := newTestEngine(t, 0)
	placeEnemy(e, 400, 500)
	e.Step(core.NewInputFrame())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	wait := ResolverFunc(func(ctx context.Context, _ Encounter) (bool, error) {
		<-ctx.Done()
		return false, ctx.Err()
	})

	if _, err := ResolvePending(ctx, e, wait); !errors.Is(err, context.Canceled) {
		t.Fatalf("ResolvePending() error = %v, expected context.Canceled", err)
	}
	if e.Phase() != PhaseRunning {
		t.Errorf("expected running phase, got %s", e.Phase())
	}
	if _, err := ResolvePending(ctx, e, wait); !errors.Is(err, ErrNoEncounter) {
		t.Errorf("second ResolvePending() = %v, expected ErrNoEncounter", err)
	}
}

func TestResolvePendingVerdict(t *testing.T) {
	e := newTestEngine(t, 0)
	placeEnemy(e, 400, 500)
	e.Step(core.NewInputFrame())

	var got Encounter
	right := ResolverFunc(func(_ context.Context, enc Encounter) (bool, error) {
		got = enc
		return questions.Check(enc.Question, "4"), nil
	})
	out, err := ResolvePending(context.Background(), e, right)
	if err != nil {
		t.Fatalf("ResolvePending() error: %v", err)
	}
	if !out.Correct || got.ID != out.Encounter.ID {
		t.Errorf("unexpected outcome %+v", out)
	}
}

func TestPauseToggle(t *testing.T) {
	e := newTestEngine(t, 0)

	e.Step(core.InputOf(core.ActionPause))
	if e.Phase() != PhasePaused {
		t.Fatalf("expected paused, got %s", e.Phase())
	}
	if e.Now() != 0 {
		t.Errorf("clock should not move while paused, got %d", e.Now())
	}

	e.Step(core.NewInputFrame())
	if e.Now() != 0 {
		t.Error("clock should not move while paused")
	}

	e.Step(core.InputOf(core.ActionPause))
	if e.Phase() != PhaseRunning {
		t.Fatalf("expected running, got %s", e.Phase())
	}
	if e.Now() != 16 {
		t.Errorf("expected one frame after resume, now=%d", e.Now())
	}
}

func TestBossSpawnsAfterKills(t *testing.T) {
	e := newTestEngine(t, 0)
	wave := placeEnemy(e, 100, 50)
	e.kills = e.cfg.Levels[0].BossAfterKills

	events := e.Step(core.NewInputFrame())

	if !hasEvent(events, EventBossSpawned) {
		t.Fatal("expected boss spawn event")
	}
	b := e.Boss()
	if b == nil {
		t.Fatal("boss should be active")
	}
	if b.Name != "The Compiler" || b.State != BossEntering {
		t.Errorf("unexpected boss %q in state %s", b.Name, b.State)
	}
	if !wave.Retiring {
		t.Error("remaining wave enemies should retire once the boss spawns")
	}

	e.Step(core.NewInputFrame())
	if e.Boss() != b {
		t.Error("boss should spawn only once")
	}
}

func TestPlayerBulletIgnoresEnteringBoss(t *testing.T) {
	e := newTestEngine(t, 0)
	e.kills = e.cfg.Levels[0].BossAfterKills
	e.Step(core.NewInputFrame())

	b := e.Boss()
	b.Y = -100
	p := e.Player()
	p.Bullets = append(p.Bullets, newBullet(b.CenterX(), b.CenterY(), 10, 20, 0, -7, 0, FactionPlayer))

	e.Step(core.NewInputFrame())
	if _, ok := e.PendingEncounter(); ok {
		t.Error("a boss that is not fighting must not collide")
	}
}

func TestBossEncounterResetsShooting(t *testing.T) {
	e := newTestEngine(t, 0)
	e.kills = e.cfg.Levels[0].BossAfterKills
	e.Step(core.NewInputFrame())

	b := e.Boss()
	b.Y = 100
	b.startFight(e.Now())
	b.Gate.SetInterval(900)
	p := e.Player()
	p.Bullets = append(p.Bullets, newBullet(b.CenterX(), b.CenterY(), 10, 20, 0, -7, 0, FactionPlayer))

	e.Step(core.NewInputFrame())
	enc, ok := e.PendingEncounter()
	if !ok || enc.Kind != EncounterPlayerBulletBoss {
		t.Fatalf("expected bullet-boss encounter, got %+v (ok=%v)", enc, ok)
	}

	out, err := e.Resolve(false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if out.BossHit || b.Health != b.MaxHealth {
		t.Error("a lost boss encounter must not damage the boss")
	}
	if b.Gate.Interval != e.cfg.Bosses["compiler"].ResetCooldownMs {
		t.Errorf("expected cooldown reset to %d, got %d", e.cfg.Bosses["compiler"].ResetCooldownMs, b.Gate.Interval)
	}
	if b.PausedUntil() != e.Now()+e.cfg.Bosses["compiler"].PauseMs {
		t.Errorf("expected shooting paused until %d, got %d", e.Now()+3000, b.PausedUntil())
	}
}

func TestBossHitScores(t *testing.T) {
	e := newTestEngine(t, 0)
	e.kills = e.cfg.Levels[0].BossAfterKills
	e.Step(core.NewInputFrame())

	b := e.Boss()
	b.Y = 100
	b.startFight(e.Now())
	p := e.Player()
	p.Bullets = append(p.Bullets, newBullet(b.CenterX(), b.CenterY(), 10, 20, 0, -7, 0, FactionPlayer))
	e.Step(core.NewInputFrame())

	out, err := e.Resolve(true)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !out.BossHit || b.Health != b.MaxHealth-1 {
		t.Errorf("expected boss hit, health %d", b.Health)
	}
	if e.Score() != e.cfg.Scoring.BossHit {
		t.Errorf("expected score %d, got %d", e.cfg.Scoring.BossHit, e.Score())
	}
}

func TestBossDefeatOpensPortal(t *testing.T) {
	e := newTestEngine(t, 0)
	e.kills = e.cfg.Levels[0].BossAfterKills
	e.Step(core.NewInputFrame())

	e.Boss().State = BossVictory
	events := e.Step(core.NewInputFrame())

	if !hasEvent(events, EventBossDefeated) || !hasEvent(events, EventPortalOpened) {
		t.Fatalf("expected boss-defeated and portal-opened events, got %v", events)
	}
	if e.Boss() != nil {
		t.Error("defeated boss should be removed")
	}
	if e.Portal() == nil {
		t.Fatal("portal should be open")
	}
	if e.Score() != e.cfg.Scoring.BossDefeat {
		t.Errorf("expected score %d, got %d", e.cfg.Scoring.BossDefeat, e.Score())
	}

	// Walk into the portal
	e.Player().Health = 2
	e.portal.X, e.portal.Y = e.Player().X, e.Player().Y
	events = e.Step(core.NewInputFrame())

	if !hasEvent(events, EventLevelComplete) {
		t.Fatal("expected level-complete event")
	}
	if e.Level() != 2 || e.LevelName() != "Framework Forest" {
		t.Errorf("expected level 2, got %d (%s)", e.Level(), e.LevelName())
	}
	if want := e.cfg.Scoring.BossDefeat + e.cfg.Scoring.LevelClear; e.Score() != want {
		t.Errorf("expected score %d, got %d", want, e.Score())
	}
	if e.Player().Health != 2 {
		t.Errorf("health should carry over, got %d", e.Player().Health)
	}
	if e.Kills() != 0 || e.Portal() != nil || e.Boss() != nil {
		t.Error("level state should reset on transition")
	}
	if len(e.Enemies()) != e.cfg.Levels[1].EnemyCount {
		t.Errorf("expected %d enemies, got %d", e.cfg.Levels[1].EnemyCount, len(e.Enemies()))
	}
}

func TestLastLevelWinsRun(t *testing.T) {
	e := newTestEngine(t, 2)
	e.kills = e.cfg.Levels[2].EnemyCount

	events := e.Step(core.NewInputFrame())
	if !hasEvent(events, EventPortalOpened) {
		t.Fatal("a level without a boss should open the portal once the wave is cleared")
	}

	e.portal.X, e.portal.Y = e.Player().X, e.Player().Y
	events = e.Step(core.NewInputFrame())

	if !hasEvent(events, EventRunWon) {
		t.Fatalf("expected run-won event, got %v", events)
	}
	if e.Phase() != PhaseWon {
		t.Errorf("expected won phase, got %s", e.Phase())
	}
	if e.Score() != e.cfg.Scoring.LevelClear {
		t.Errorf("expected score %d, got %d", e.cfg.Scoring.LevelClear, e.Score())
	}
}

func TestPortalWaitsForWave(t *testing.T) {
	e := newTestEngine(t, 2)
	e.kills = e.cfg.Levels[2].EnemyCount
	placeEnemy(e, 100, 50)

	e.Step(core.NewInputFrame())
	if e.Portal() != nil {
		t.Error("portal should stay closed while enemies remain")
	}
}

type countingSound struct {
	played map[SoundID]int
}

func (s *countingSound) Play(id SoundID) {
	s.played[id]++
}

func TestSoundCues(t *testing.T) {
	snd := &countingSound{played: make(map[SoundID]int)}
	cfg := config.DefaultConfig()
	e, err := NewEngine(cfg, Options{
		Sound:     snd,
		Questions: func(string) QuestionSource { return fixedQuestions{} },
	})
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	e.enemies = nil

	e.Step(core.InputOf(core.ActionFire))
	if snd.played[SoundShoot] != 1 {
		t.Errorf("expected 1 shoot sound, got %d", snd.played[SoundShoot])
	}

	placeEnemy(e, 400, 500)
	e.Step(core.NewInputFrame())
	if _, err := e.Resolve(false); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if snd.played[SoundIncorrect] != 1 || snd.played[SoundExplosion] != 1 {
		t.Errorf("unexpected sounds %v", snd.played)
	}
}

func TestOverheatingShotStillSounds(t *testing.T) {
	snd := &countingSound{played: make(map[SoundID]int)}
	cfg := config.DefaultConfig()
	cfg.Player.OverheatShots = 1
	e, err := NewEngine(cfg, Options{
		Sound:     snd,
		Questions: func(string) QuestionSource { return fixedQuestions{} },
	})
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	e.enemies = nil

	e.Step(core.InputOf(core.ActionFire))
	if !e.Player().Overheated() {
		t.Fatal("a single allowed shot should overheat the gun")
	}
	if snd.played[SoundShoot] != 1 || snd.played[SoundOverheat] != 1 {
		t.Errorf("expected shoot and overheat sounds, got %v", snd.played)
	}
}
