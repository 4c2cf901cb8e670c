package audio

import (
	"testing"

	"github.com/vovakirdan/codespire/internal/games/codespire"
)

func TestOscillatorRange(t *testing.T) {
	for _, wave := range []Wave{WaveSine, WaveSquare, WaveNoise} {
		osc := NewOscillator(440, wave, 0.5, 7)

		samples := make([][2]float64, 2000)
		n, ok := osc.Stream(samples)
		if !ok || n != len(samples) {
			t.Fatalf("wave %d: Stream() = %d, %v", wave, n, ok)
		}
		for i := range n {
			if samples[i][0] < -0.5 || samples[i][0] > 0.5 {
				t.Fatalf("wave %d: sample %d out of range: %f", wave, i, samples[i][0])
			}
			if samples[i][0] != samples[i][1] {
				t.Fatalf("wave %d: channels differ at %d", wave, i)
			}
		}
		if osc.Err() != nil {
			t.Errorf("wave %d: unexpected error %v", wave, osc.Err())
		}
	}
}

func TestOscillatorAttack(t *testing.T) {
	osc := NewOscillator(440, WaveSquare, 1, 1)
	samples := make([][2]float64, 1)
	osc.Stream(samples)
	if samples[0][0] != 0 {
		t.Errorf("first sample should be silent, got %f", samples[0][0])
	}
}

func TestEffectsAreFinite(t *testing.T) {
	for id := codespire.SoundShoot; id <= codespire.SoundOverheat; id++ {
		s := Effect(id, 0.25)
		if s == nil {
			t.Errorf("%s: missing effect", id)
			continue
		}

		total := 0
		buf := make([][2]float64, 512)
		for {
			n, ok := s.Stream(buf)
			total += n
			if !ok || total > sampleRate.N(5e9) {
				break
			}
		}
		if total == 0 || total > sampleRate.N(5e9) {
			t.Errorf("%s: effect length %d samples", id, total)
		}
	}
}

func TestUnknownEffect(t *testing.T) {
	if Effect(codespire.SoundID(999), 1) != nil {
		t.Error("unknown effect should be nil")
	}
}

func TestPlayBeforeInit(t *testing.T) {
	p := NewPlayer(nil)
	// Must not panic or block without a speaker
	p.Play(codespire.SoundShoot)
	p.Close()
}
