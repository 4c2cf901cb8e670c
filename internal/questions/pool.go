package questions

import "github.com/vovakirdan/codespire/internal/core"

// Pool hands out questions without replacement. When every question has been
// drawn it reshuffles and starts over. A Pool is owned by one caller and is not
// safe for concurrent use.
type Pool struct {
	items []Question
	order []int
	pos   int
	rng   *core.SimpleRNG
}

// NewPool creates a pool over a copy of qs, shuffled with seed.
func NewPool(qs []Question, seed int64) *Pool {
	p := &Pool{
		items: append([]Question(nil), qs...),
		rng:   core.NewSimpleRNG(seed),
	}
	p.order = make([]int, len(p.items))
	p.reshuffle()
	return p
}

// Next draws the next question. It returns false only for an empty pool.
func (p *Pool) Next() (Question, bool) {
	if p == nil || len(p.items) == 0 {
		return Question{}, false
	}
	if p.pos >= len(p.order) {
		p.reshuffle()
	}
	q := p.items[p.order[p.pos]]
	p.pos++
	return q, true
}

// Len returns the number of distinct questions in the pool.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}

// Remaining returns how many questions are left before the next reshuffle.
func (p *Pool) Remaining() int {
	if p == nil {
		return 0
	}
	return len(p.order) - p.pos
}

func (p *Pool) reshuffle() {
	for i := range p.order {
		p.order[i] = i
	}
	// Fisher-Yates
	for i := len(p.order) - 1; i > 0; i-- {
		j := p.rng.Intn(i + 1)
		p.order[i], p.order[j] = p.order[j], p.order[i]
	}
	p.pos = 0
}
