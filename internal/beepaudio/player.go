// Package beepaudio plays cue tones through the system speaker with beep.
package beepaudio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gonewx/linepull/internal/audio"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// ToneStreamer builds a beep streamer playing tones in sequence.
// Zero-frequency tones become silence.
func ToneStreamer(rate beep.SampleRate, tones []audio.Tone) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		n := rate.N(t.Duration)
		if n <= 0 {
			continue
		}
		if t.Frequency <= 0 {
			parts = append(parts, beep.Silence(n))
			continue
		}
		sine, err := generators.SineTone(rate, t.Frequency)
		if err != nil {
			return nil, fmt.Errorf("failed to create %.0fHz tone: %w", t.Frequency, err)
		}
		parts = append(parts, withVolume(beep.Take(n, sine), t.Volume))
	}
	return beep.Seq(parts...), nil
}

// withVolume scales s linearly; zero volume is silent since log2(0) is -Inf
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(min(vol, 1))}
}

// BeepPlayer plays tone sequences through the system speaker.
// Sounds are mixed, so overlapping cues do not cut each other off.
type BeepPlayer struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
}

// NewBeepPlayer creates a player; call Initialize before use.
func NewBeepPlayer() *BeepPlayer {
	return &BeepPlayer{
		rate:  beep.SampleRate(audio.DefaultSampleRate),
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker. Safe to call more than once.
func (p *BeepPlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// IsInitialized reports whether the speaker is open.
func (p *BeepPlayer) IsInitialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Play mixes tones in at the given master volume.
// Returns false when the speaker is not open or the tones are invalid.
func (p *BeepPlayer) Play(tones []audio.Tone, volume float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return false
	}
	streamer, err := ToneStreamer(p.rate, tones)
	if err != nil {
		return false
	}
	speaker.Lock()
	p.mixer.Add(withVolume(streamer, volume))
	speaker.Unlock()
	return true
}

// Close stops all sounds.
func (p *BeepPlayer) Close() {
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
