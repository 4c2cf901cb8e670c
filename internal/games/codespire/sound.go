package codespire

// SoundID names a sound effect.
type SoundID int

const (
	SoundShoot SoundID = iota
	SoundEnemyShoot
	SoundCorrect
	SoundIncorrect
	SoundExplosion
	SoundShield
	SoundBossHit
	SoundBossDefeated
	SoundLevelComplete
	SoundGameOver
	SoundOverheat
)

func (s SoundID) String() string {
	switch s {
	case SoundShoot:
		return "shoot"
	case SoundEnemyShoot:
		return "enemy-shoot"
	case SoundCorrect:
		return "correct"
	case SoundIncorrect:
		return "incorrect"
	case SoundExplosion:
		return "explosion"
	case SoundShield:
		return "shield"
	case SoundBossHit:
		return "boss-hit"
	case SoundBossDefeated:
		return "boss-defeated"
	case SoundLevelComplete:
		return "level-complete"
	case SoundGameOver:
		return "game-over"
	case SoundOverheat:
		return "overheat"
	default:
		return "unknown"
	}
}

// SoundPlayer plays effects fire-and-forget. Implementations must not block
// and must swallow their own failures.
type SoundPlayer interface {
	Play(id SoundID)
}

// NopSound discards every effect.
type NopSound struct{}

// Play does nothing.
func (NopSound) Play(SoundID) {}
