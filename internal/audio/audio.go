// Package audio synthesizes the CodeSpire sound effects with beep.
// Every effect is a short generated tone, so no asset files are needed.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/codespire/internal/games/codespire"
)

const sampleRate = beep.SampleRate(44100)

// Wave selects an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveNoise
)

// note is one segment of an effect.
type note struct {
	freq float64
	dur  time.Duration
	wave Wave
}

// effects maps each sound to the notes played in sequence.
var effects = map[codespire.SoundID][]note{
	codespire.SoundShoot:         {{880, 40 * time.Millisecond, WaveSquare}},
	codespire.SoundEnemyShoot:    {{330, 40 * time.Millisecond, WaveSquare}},
	codespire.SoundCorrect:       {{660, 80 * time.Millisecond, WaveSine}, {990, 120 * time.Millisecond, WaveSine}},
	codespire.SoundIncorrect:     {{220, 120 * time.Millisecond, WaveSquare}, {160, 180 * time.Millisecond, WaveSquare}},
	codespire.SoundExplosion:     {{0, 200 * time.Millisecond, WaveNoise}},
	codespire.SoundShield:        {{520, 60 * time.Millisecond, WaveSine}, {780, 60 * time.Millisecond, WaveSine}, {1040, 90 * time.Millisecond, WaveSine}},
	codespire.SoundBossHit:       {{140, 100 * time.Millisecond, WaveSquare}, {0, 80 * time.Millisecond, WaveNoise}},
	codespire.SoundBossDefeated:  {{0, 400 * time.Millisecond, WaveNoise}, {440, 150 * time.Millisecond, WaveSine}, {660, 250 * time.Millisecond, WaveSine}},
	codespire.SoundLevelComplete: {{523, 100 * time.Millisecond, WaveSine}, {659, 100 * time.Millisecond, WaveSine}, {784, 200 * time.Millisecond, WaveSine}},
	codespire.SoundGameOver:      {{392, 200 * time.Millisecond, WaveSquare}, {330, 200 * time.Millisecond, WaveSquare}, {262, 400 * time.Millisecond, WaveSquare}},
	codespire.SoundOverheat:      {{180, 250 * time.Millisecond, WaveSquare}},
}

// Player plays effects through the system speaker.
// It is safe for concurrent use. A Player whose speaker failed to
// initialize silently drops every effect.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	logger      *log.Logger
}

// NewPlayer creates a player. Call Init before playing.
func NewPlayer(logger *log.Logger) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		volume: 0.25,
		logger: logger,
	}
}

// Init opens the speaker. On failure the player stays silent and the error is returned.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		if p.logger != nil {
			p.logger.Warn("audio unavailable", "err", err)
		}
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops all sounds.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// Play queues an effect. It never blocks on playback.
func (p *Player) Play(id codespire.SoundID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s := Effect(id, p.volume)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Effect builds the streamer for an effect, or nil for an unknown id.
func Effect(id codespire.SoundID, volume float64) beep.Streamer {
	notes, ok := effects[id]
	if !ok {
		return nil
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for i, n := range notes {
		osc := NewOscillator(n.freq, n.wave, volume, uint64(id)<<8|uint64(i)) //#nosec G115 -- sound ids are small
		parts = append(parts, beep.Take(sampleRate.N(n.dur), osc))
	}
	return beep.Seq(parts...)
}

// Oscillator is an endless tone generator with a short attack.
type Oscillator struct {
	freq   float64
	wave   Wave
	volume float64
	pos    int
	noise  uint64
}

// NewOscillator creates a generator. seed only affects WaveNoise.
func NewOscillator(freq float64, wave Wave, volume float64, seed uint64) *Oscillator {
	return &Oscillator{
		freq:   freq,
		wave:   wave,
		volume: volume,
		noise:  seed | 1,
	}
}

// Stream fills samples with the waveform.
func (o *Oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	attack := float64(sampleRate.N(5 * time.Millisecond))
	for i := range samples {
		t := float64(o.pos) / float64(sampleRate)

		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.freq * t)
		case WaveSquare:
			v = 1
			if math.Sin(2*math.Pi*o.freq*t) < 0 {
				v = -1
			}
		case WaveNoise:
			// xorshift
			o.noise ^= o.noise << 13
			o.noise ^= o.noise >> 7
			o.noise ^= o.noise << 17
			v = float64(o.noise%2000)/1000 - 1
		}

		env := math.Min(float64(o.pos)/attack, 1)
		v *= env * o.volume

		samples[i][0] = v
		samples[i][1] = v
		o.pos++
	}
	return len(samples), true
}

// Err always returns nil.
func (o *Oscillator) Err() error {
	return nil
}

var _ codespire.SoundPlayer = (*Player)(nil)
