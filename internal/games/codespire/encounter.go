package codespire

import (
	"context"
	"errors"

	"github.com/vovakirdan/codespire/internal/questions"
)

var (
	// ErrNoEncounter is returned when resolving while nothing is pending.
	ErrNoEncounter = errors.New("codespire: no pending encounter")

	// ErrQuit is returned by a Resolver when the user quits mid-prompt.
	ErrQuit = errors.New("codespire: quit during encounter")
)

// EncounterKind identifies the colliding pair.
type EncounterKind int

const (
	EncounterPlayerEnemy       EncounterKind = iota // Player ship touched an enemy
	EncounterPlayerBulletEnemy                      // Player bullet hit an enemy
	EncounterEnemyBullet                            // Enemy bullet hit the player
	EncounterPlayerBulletBoss                       // Player bullet hit the boss
	EncounterBossBullet                             // Boss bullet hit the player
)

func (k EncounterKind) String() string {
	switch k {
	case EncounterPlayerEnemy:
		return "player-enemy"
	case EncounterPlayerBulletEnemy:
		return "bullet-enemy"
	case EncounterEnemyBullet:
		return "enemy-bullet"
	case EncounterPlayerBulletBoss:
		return "bullet-boss"
	case EncounterBossBullet:
		return "boss-bullet"
	default:
		return "unknown"
	}
}

// AgainstBoss reports whether the encounter involves the boss.
func (k EncounterKind) AgainstBoss() bool {
	return k == EncounterPlayerBulletBoss || k == EncounterBossBullet
}

// Encounter is a detected collision awaiting a verdict.
type Encounter struct {
	ID         int
	Kind       EncounterKind
	EnemyIndex int // Index into the enemy list, -1 when no enemy is involved
	Question   questions.Question
}

// Outcome describes what resolving an encounter changed.
type Outcome struct {
	Encounter      Encounter
	Correct        bool
	Damaged        bool // Player lost health
	ShieldUsed     bool
	ShieldGranted  bool
	EnemyDestroyed bool
	BossHit        bool
	BossDying      bool
	GameOver       bool
}

// Resolver obtains a verdict for an encounter. Implementations block until an
// answer is available and return ErrQuit or a context error on cancellation.
type Resolver interface {
	Resolve(ctx context.Context, enc Encounter) (bool, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, enc Encounter) (bool, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, enc Encounter) (bool, error) {
	return f(ctx, enc)
}

// ResolvePending runs r against the engine's pending encounter.
// Cancellation resolves the encounter as a loss and still returns the error,
// so the caller can exit after the outcome has been applied.
func ResolvePending(ctx context.Context, e *Engine, r Resolver) (Outcome, error) {
	enc, ok := e.PendingEncounter()
	if !ok {
		return Outcome{}, ErrNoEncounter
	}

	correct, err := false, ctx.Err()
	if err == nil {
		correct, err = r.Resolve(ctx, enc)
	}
	if err != nil {
		out, rerr := e.Resolve(false)
		if rerr != nil {
			return out, errors.Join(err, rerr)
		}
		return out, err
	}
	return e.Resolve(correct)
}
