// Package audio plays the game's sound effects with beep.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Tone lengths and pitches.
const (
	hitFreq     = 880.0
	hitLength   = 50 * time.Millisecond
	noteLength  = 120 * time.Millisecond
	lowNoteFreq = 440.0
	topNoteFreq = 660.0
)

// Player reacts to game events with sound.
type Player interface {
	// Hit is called once for every target punched.
	Hit()
	// RoundOver is called once when the round ends.
	RoundOver(win bool)
}

// Nop is a Player that stays silent.
type Nop struct{}

func (Nop) Hit()           {}
func (Nop) RoundOver(bool) {}

// BeepPlayer plays synthesized tones through the system speaker.
type BeepPlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewBeepPlayer creates a BeepPlayer. Call Initialize before use.
func NewBeepPlayer() *BeepPlayer {
	return &BeepPlayer{
		mixer: &beep.Mixer{},
	}
}

// Initialize sets up the speaker. It is safe to call more than once.
func (p *BeepPlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Hit plays a short high blip.
func (p *BeepPlayer) Hit() {
	p.play(hitSound())
}

// RoundOver plays a rising pair on a win and a falling pair on a loss.
func (p *BeepPlayer) RoundOver(win bool) {
	p.play(roundOverSound(win))
}

func (p *BeepPlayer) play(s beep.Streamer) {
	if s == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close stops every playing sound.
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

func tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil
	}
	return beep.Take(sampleRate.N(d), sine)
}

func hitSound() beep.Streamer {
	return tone(hitFreq, hitLength)
}

func roundOverSound(win bool) beep.Streamer {
	first, second := lowNoteFreq, topNoteFreq
	if !win {
		first, second = second, first
	}
	return beep.Seq(tone(first, noteLength), tone(second, noteLength))
}
