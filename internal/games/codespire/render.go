package codespire

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/codespire/internal/core"
)

// Visual characters for rendering
const (
	StarChar         = '·'
	BigStarChar      = '+'
	PlayerChar       = '▲'
	ShieldChar       = '◇'
	PlayerBulletChar = '|'
	EnemyBulletChar  = '•'
	BossBulletChar   = '◆'
	BossChar         = '█'
	PortalChar       = '@'
	HeartFull        = '♥'
	HeartEmpty       = '♡'
	BarFull          = '■'
	BarEmpty         = '□'
)

// Enemy glyphs by kind
var enemyGlyphs = map[EnemyKind]rune{
	EnemyStraight: 'W',
	EnemyDrift:    'M',
	EnemyRoaming:  'X',
}

// Explosion glyphs by animation progress
var explosionGlyphs = []rune{'*', '✶', '✷', '✸', '·'}

// viewport maps playfield units onto the screen area inside the border.
type viewport struct {
	x, y, w, h int
	fw, fh     float64
}

func newViewport(dst *core.Screen, fw, fh float64) viewport {
	return viewport{
		x:  1,
		y:  2,
		w:  dst.Width() - 2,
		h:  dst.Height() - 3,
		fw: fw,
		fh: fh,
	}
}

func (v viewport) point(px, py float64) (int, int) {
	return v.x + int(px/v.fw*float64(v.w)), v.y + int(py/v.fh*float64(v.h))
}

// rect projects a playfield rectangle. Every visible entity covers at least one cell.
func (v viewport) rect(r core.RectF) core.Rect {
	x0, y0 := v.point(r.X, r.Y)
	x1, y1 := v.point(r.Right(), r.Bottom())
	return core.NewRect(x0, y0, max(1, x1-x0), max(1, y1-y0))
}

func (v viewport) clip(r core.Rect) core.Rect {
	x0 := max(r.X, v.x)
	y0 := max(r.Y, v.y)
	x1 := min(r.Right(), v.x+v.w)
	y1 := min(r.Bottom(), v.y+v.h)
	if x1 <= x0 || y1 <= y0 {
		return core.Rect{}
	}
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

func (v viewport) fill(dst *core.Screen, r core.RectF, ch rune, c core.Color) {
	dst.DrawRect(v.clip(v.rect(r)), ch, c)
}

func (v viewport) dot(dst *core.Screen, px, py float64, ch rune, c core.Color) {
	x, y := v.point(px, py)
	if x >= v.x && x < v.x+v.w && y >= v.y && y < v.y+v.h {
		dst.SetColor(x, y, ch, c)
	}
}

// Render draws the current game state into the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.screenTooSmall {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", core.ColorYellow)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH), core.ColorGray)
		return
	}
	if g.engine == nil {
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("Failed to start: %v", g.err), core.ColorRed)
		return
	}

	e := g.engine
	pf := e.cfg.Playfield
	v := newViewport(dst, pf.Width, pf.Height)

	g.renderHUD(dst)
	dst.DrawBox(core.NewRect(0, 1, dst.Width(), dst.Height()-1), core.ColorBlue)

	for _, s := range e.Stars() {
		ch := StarChar
		if s.Big {
			ch = BigStarChar
		}
		v.dot(dst, s.X, s.Y, ch, core.ColorGray)
	}

	if p := e.Portal(); p != nil {
		v.fill(dst, p.Rect(), PortalChar, core.ColorBrightMagenta)
	}

	for _, en := range e.Enemies() {
		c := core.ColorRed
		if en.Retiring {
			c = core.ColorMagenta
		}
		v.fill(dst, en.Rect(), enemyGlyphs[en.Kind], c)
		for i := range en.Bullets {
			b := &en.Bullets[i]
			v.dot(dst, b.CenterX(), b.CenterY(), EnemyBulletChar, core.ColorBrightRed)
		}
	}

	if b := e.Boss(); b != nil {
		g.renderBoss(dst, v, b)
	}

	p := e.Player()
	pc := core.ColorBrightCyan
	if p.Overheated() {
		pc = core.ColorOrange
	}
	if p.Shield {
		dst.DrawBox(v.clip(v.rect(p.Rect())), core.ColorBrightGreen)
		v.dot(dst, p.CenterX(), p.CenterY(), PlayerChar, pc)
	} else {
		v.fill(dst, p.Hitbox(), PlayerChar, pc)
	}
	for i := range p.Bullets {
		b := &p.Bullets[i]
		v.dot(dst, b.CenterX(), b.CenterY(), PlayerBulletChar, core.ColorBrightYellow)
	}

	for _, ex := range e.Explosions() {
		idx := min(ex.Frame*len(explosionGlyphs)/max(1, e.cfg.Effects.ExplosionFrames), len(explosionGlyphs)-1)
		v.dot(dst, ex.X, ex.Y, explosionGlyphs[idx], core.ColorOrange)
	}

	g.renderOverlay(dst)
}

func (g *Game) renderBoss(dst *core.Screen, v viewport, b *Boss) {
	c := core.ColorBrightMagenta
	ch := BossChar
	if b.State == BossDying {
		c = core.ColorOrange
		ch = explosionGlyphs[b.DeathFrame()%len(explosionGlyphs)]
	}
	v.fill(dst, b.Rect(), ch, c)
	for i := range b.Bullets {
		bl := &b.Bullets[i]
		v.dot(dst, bl.CenterX(), bl.CenterY(), BossBulletChar, core.ColorMagenta)
	}

	// Boss name and health in the top border
	if b.State == BossEntering {
		return
	}
	label := fmt.Sprintf(" %s %s ", b.Name, bar(b.Health, b.MaxHealth))
	dst.DrawTextColor((dst.Width()-len([]rune(label)))/2, 1, label, c)
}

// renderHUD draws health, shield, heat, level and score.
func (g *Game) renderHUD(dst *core.Screen) {
	e := g.engine
	p := e.Player()

	var sb strings.Builder
	for i := range p.MaxHealth {
		if i < p.Health {
			sb.WriteRune(HeartFull)
		} else {
			sb.WriteRune(HeartEmpty)
		}
	}
	dst.DrawTextColor(1, 0, sb.String(), core.ColorBrightRed)
	x := 2 + p.MaxHealth

	if p.Shield {
		dst.DrawTextColor(x, 0, string(ShieldChar)+"SHIELD", core.ColorBrightGreen)
		x += 8
	}

	if frame := p.ReloadFrame(e.Now()); frame >= 0 {
		dst.DrawTextColor(x, 0, "RELOAD "+bar(frame+1, e.cfg.Player.ReloadFrames), core.ColorOrange)
	} else {
		dst.DrawTextColor(x, 0, "HEAT "+bar(p.ShotCount(), e.cfg.Player.OverheatShots), core.ColorYellow)
	}

	level := fmt.Sprintf("L%d %s", e.Level(), e.LevelName())
	score := fmt.Sprintf("Score: %d", e.Score())
	dst.DrawTextColor(dst.Width()-len(score)-1, 0, score, core.ColorWhite)
	dst.DrawTextColor(dst.Width()-len(score)-len([]rune(level))-3, 0, level, core.ColorCyan)
}

// renderOverlay draws status messages over the playfield.
func (g *Game) renderOverlay(dst *core.Screen) {
	e := g.engine
	mid := dst.Height() / 2

	if g.message != "" && e.Now() < g.messageTill {
		dst.DrawTextCentered(dst.Height()-1, " "+g.message+" ", core.ColorBrightYellow)
	}

	switch e.Phase() {
	case PhasePaused:
		dst.DrawTextCentered(mid, " PAUSED ", core.ColorBrightWhite)
		dst.DrawTextCentered(mid+1, " Press P to resume ", core.ColorGray)
	case PhaseEncounter:
		dst.DrawTextCentered(mid, " ENCOUNTER ", core.ColorBrightYellow)
	case PhaseGameOver:
		dst.DrawTextCentered(mid-1, " GAME OVER ", core.ColorBrightRed)
		dst.DrawTextCentered(mid, fmt.Sprintf(" Final score: %d ", e.Score()), core.ColorWhite)
		dst.DrawTextCentered(mid+1, " Press R to restart ", core.ColorGray)
	case PhaseWon:
		dst.DrawTextCentered(mid-1, " YOU CONQUERED THE SPIRE ", core.ColorBrightGreen)
		dst.DrawTextCentered(mid, fmt.Sprintf(" Final score: %d ", e.Score()), core.ColorWhite)
		dst.DrawTextCentered(mid+1, " Press R to play again ", core.ColorGray)
	}
}

// bar renders n of total as filled blocks.
func bar(n, total int) string {
	n = core.Clamp(n, 0, total)
	return strings.Repeat(string(BarFull), n) + strings.Repeat(string(BarEmpty), total-n)
}
