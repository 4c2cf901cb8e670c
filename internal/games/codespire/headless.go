package codespire

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/vovakirdan/codespire/internal/core"
	"github.com/vovakirdan/codespire/internal/questions"
)

// Autopilot flies the ship without a human: it lines up under the nearest
// target, fires at a steady rhythm and heads for an open portal.
type Autopilot struct {
	FireEvery int // Ticks between trigger pulls
	tick      int
}

// NewAutopilot creates an autopilot that fires every fireEvery ticks.
func NewAutopilot(fireEvery int) *Autopilot {
	return &Autopilot{FireEvery: max(fireEvery, 2)}
}

// Input returns the actions for the next frame of e.
func (a *Autopilot) Input(e *Engine) core.InputFrame {
	a.tick++
	in := core.NewInputFrame()
	p := e.Player()

	targetX, targetY, ok := a.target(e)
	if ok {
		const deadZone = 6
		switch dx := targetX - p.CenterX(); {
		case dx < -deadZone:
			in.Set(core.ActionLeft)
		case dx > deadZone:
			in.Set(core.ActionRight)
		}
		if e.Portal() != nil {
			switch dy := targetY - p.CenterY(); {
			case dy < -deadZone:
				in.Set(core.ActionUp)
			case dy > deadZone:
				in.Set(core.ActionDown)
			}
		}
	}

	// Alternate presses so every pull is a fresh press
	if e.Portal() == nil && !p.Overheated() && a.tick%a.FireEvery == 0 {
		in.Set(core.ActionFire)
	}
	return in
}

// target picks the portal, then the fighting boss, then the nearest enemy.
func (a *Autopilot) target(e *Engine) (x, y float64, ok bool) {
	if portal := e.Portal(); portal != nil {
		return portal.CenterX(), portal.CenterY(), true
	}
	if b := e.Boss(); b != nil && b.Combatant() {
		return b.CenterX(), b.CenterY(), true
	}

	p := e.Player()
	best := math.Inf(1)
	for _, en := range e.Enemies() {
		if !en.Alive {
			continue
		}
		if d := math.Abs(en.CenterX() - p.CenterX()); d < best {
			best, x, y, ok = d, en.CenterX(), en.CenterY(), true
		}
	}
	return x, y, ok
}

// ChanceResolver answers correctly with the given probability.
// It never blocks and only fails when ctx is done.
func ChanceResolver(seed int64, accuracy float64) Resolver {
	rng := core.NewSimpleRNG(seed)
	return ResolverFunc(func(ctx context.Context, _ Encounter) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return rng.Chance(accuracy), nil
	})
}

// LineResolver asks each question on w and reads one answer line from r.
// Nothing is read before a question is asked. End of input counts as
// quitting. The resolver is not safe for concurrent use.
func LineResolver(r io.Reader, w io.Writer) Resolver {
	return &lineResolver{in: bufio.NewReader(r), out: w}
}

type lineResult struct {
	line string
	err  error
}

type lineResolver struct {
	in  *bufio.Reader
	out io.Writer

	// pending carries the answer of a read abandoned by cancellation.
	// Each read goroutine delivers exactly one result and exits.
	pending chan lineResult
}

func (l *lineResolver) Resolve(ctx context.Context, enc Encounter) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(l.out, "\n[%s] %s\n", enc.Kind, enc.Question.Prompt)
	for i, c := range enc.Question.Choices {
		fmt.Fprintf(l.out, "  %d) %s\n", i+1, c)
	}
	fmt.Fprint(l.out, "> ")

	if l.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := l.in.ReadString('\n')
			if errors.Is(err, io.EOF) && line != "" {
				err = nil
			}
			ch <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
		}()
		l.pending = ch
	}

	select {
	case res := <-l.pending:
		l.pending = nil
		switch {
		case errors.Is(res.err, io.EOF):
			return false, ErrQuit
		case res.err != nil:
			return false, fmt.Errorf("codespire: reading answer: %w", res.err)
		}
		return questions.Check(enc.Question, res.line), nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// HeadlessResult summarizes a headless run.
type HeadlessResult struct {
	Ticks      int
	Encounters int
	Correct    int
	Phase      Phase
	Level      int
	Score      int
	Kills      int
	Hash       uint64
}

// HeadlessOptions configures RunHeadless.
type HeadlessOptions struct {
	MaxTicks  int                           // 0 runs until the game ends
	Pilot     func(*Engine) core.InputFrame // nil stands still
	OnOutcome func(Outcome)                 // Called after every resolved encounter
	OnEvent   func(Event)
}

// RunHeadless drives e until the run is over, MaxTicks have been simulated
// or the resolver gives up. Resolver errors end the run after the
// encounter has been resolved as a loss, and are returned.
func RunHeadless(ctx context.Context, e *Engine, r Resolver, opts HeadlessOptions) (HeadlessResult, error) {
	var res HeadlessResult
	finish := func(err error) (HeadlessResult, error) {
		snap := e.Snapshot()
		res.Ticks = e.Ticks()
		res.Phase = e.Phase()
		res.Level = e.Level()
		res.Score = e.Score()
		res.Kills = e.Kills()
		res.Hash = snap.Hash()
		return res, err
	}

	for {
		// Pending encounters are resolved before cancellation is honoured
		switch e.Phase() {
		case PhaseGameOver, PhaseWon:
			return finish(nil)
		case PhaseEncounter:
			out, err := ResolvePending(ctx, e, r)
			res.Encounters++
			if out.Correct {
				res.Correct++
			}
			if opts.OnOutcome != nil {
				opts.OnOutcome(out)
			}
			if err != nil {
				return finish(err)
			}
			continue
		}
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		if opts.MaxTicks > 0 && e.Ticks() >= opts.MaxTicks {
			return finish(nil)
		}

		in := core.NewInputFrame()
		if opts.Pilot != nil {
			in = opts.Pilot(e)
		}
		if e.Phase() == PhasePaused {
			in.Set(core.ActionPause) // nobody is watching
		}
		for _, ev := range e.Step(in) {
			if opts.OnEvent != nil {
				opts.OnEvent(ev)
			}
		}
	}
}

// Summary formats r for a terminal.
func (r HeadlessResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Result:     %s\n", r.Phase)
	fmt.Fprintf(&b, "Level:      %d\n", r.Level)
	fmt.Fprintf(&b, "Score:      %d\n", r.Score)
	fmt.Fprintf(&b, "Kills:      %d\n", r.Kills)
	fmt.Fprintf(&b, "Answered:   %d/%d\n", r.Correct, r.Encounters)
	fmt.Fprintf(&b, "Ticks:      %d\n", r.Ticks)
	fmt.Fprintf(&b, "State hash: %016x\n", r.Hash)
	return b.String()
}
