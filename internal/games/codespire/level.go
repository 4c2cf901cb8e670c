package codespire

import "github.com/vovakirdan/codespire/internal/questions"

// Portal size in playfield units.
const (
	portalW = 80
	portalH = 80
)

// loadLevel resets the playfield for level idx. Player health and shield carry over.
func (e *Engine) loadLevel(idx int) error {
	lvl := e.cfg.Levels[idx]
	kind, err := ParseEnemyKind(lvl.Enemy)
	if err != nil {
		return err
	}
	ecfg, err := e.cfg.EnemyByName(lvl.Enemy)
	if err != nil {
		return err
	}

	e.level = idx
	e.levelCfg = lvl
	e.kills = 0
	e.boss = nil
	e.bossSpawned = false
	e.portal = nil
	e.pending = nil
	e.questions = e.source(lvl.QuestionBank)
	if e.questions == nil {
		e.questions = questionsNone{}
	}

	w, h := e.cfg.Playfield.Width, e.cfg.Playfield.Height
	e.player.Place(w, h)

	e.enemies = e.enemies[:0]
	f := e.field()
	margin := int(ecfg.RespawnMarginX)
	for i := range lvl.EnemyCount {
		cx := float64(f.RNG.IntRange(margin, int(w)-margin))
		cy := f.RNG.FloatRange(-300, -50) - float64(i)*lvl.SpawnSpacing
		e.enemies = append(e.enemies, NewEnemy(kind, ecfg, e.cfg.Hitbox.Enemy, cx-ecfg.Width/2, cy-ecfg.Height/2, f))
	}

	e.log.Debug("level loaded", "level", idx+1, "name", lvl.Name, "enemy", lvl.Enemy, "count", lvl.EnemyCount)
	return nil
}

// progressLevel spawns the boss, opens the portal and handles the portal touch.
func (e *Engine) progressLevel() {
	lvl := e.levelCfg

	if lvl.Boss != "" && !e.bossSpawned && e.kills >= lvl.BossAfterKills {
		e.spawnBoss()
	}

	if lvl.Boss == "" && e.portal == nil && e.kills >= lvl.EnemyCount && len(e.enemies) == 0 {
		e.openPortal()
	}

	if e.portal != nil && e.player.Rect().Intersects(e.portal.Rect()) {
		e.completeLevel()
	}
}

func (e *Engine) spawnBoss() {
	bcfg := e.cfg.Bosses[e.levelCfg.Boss]
	e.boss = NewBoss(bcfg, e.cfg.Hitbox, e.cfg.Playfield.Width, e.clock.Now())
	e.bossSpawned = true
	// The wave leaves the field instead of wrapping while the boss fights.
	for _, en := range e.enemies {
		en.Retiring = true
	}
	e.log.Debug("boss spawned", "boss", bcfg.Name, "level", e.level+1)
	e.emit(Event{Kind: EventBossSpawned})
}

func (e *Engine) openPortal() {
	p := NewEntity(e.cfg.Playfield.Width/2-portalW/2, e.cfg.Playfield.Height/3, portalW, portalH, 0)
	e.portal = &p
	e.emit(Event{Kind: EventPortalOpened})
}

func (e *Engine) completeLevel() {
	e.score += e.cfg.Scoring.LevelClear
	e.sound.Play(SoundLevelComplete)
	e.emit(Event{Kind: EventLevelComplete})
	e.log.Debug("level complete", "level", e.level+1, "score", e.score)

	next := e.level + 1
	if next >= len(e.cfg.Levels) {
		e.portal = nil
		e.phase = PhaseWon
		e.emit(Event{Kind: EventRunWon})
		return
	}
	if err := e.loadLevel(next); err != nil {
		// Levels are validated up front; treat a failure as the end of the run.
		e.log.Error("failed to load level", "level", next+1, "err", err)
		e.phase = PhaseWon
	}
}

// questionsNone is used when a source has no pool for a bank.
type questionsNone struct{}

func (questionsNone) Next() (questions.Question, bool) { return questions.Question{}, false }
