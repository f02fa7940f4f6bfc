package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// Cue identifies a short feedback sound
type Cue int

const (
	CueNone Cue = iota
	CueSteal
	CueStealRevealed
	CueWarning
	CueCritical
	CueSpawn
	CueEscape
	CuePowerUp
	CueRemoved
)

var cueNames = [...]string{
	CueNone:          "none",
	CueSteal:         "steal",
	CueStealRevealed: "steal-revealed",
	CueWarning:       "warning",
	CueCritical:      "critical",
	CueSpawn:         "spawn",
	CueEscape:        "escape",
	CuePowerUp:       "power-up",
	CueRemoved:       "removed",
}

func (c Cue) String() string {
	if c < 0 || int(c) >= len(cueNames) {
		return "unknown"
	}
	return cueNames[c]
}

// Duration is the playback length of a cue
func (c Cue) Duration() time.Duration {
	switch c {
	case CueSteal, CueStealRevealed:
		return 220 * time.Millisecond
	case CueWarning:
		return 90 * time.Millisecond
	case CueCritical:
		return 150 * time.Millisecond
	case CueSpawn:
		return 120 * time.Millisecond
	case CueEscape:
		return 180 * time.Millisecond
	case CuePowerUp:
		return 350 * time.Millisecond
	case CueRemoved:
		return 260 * time.Millisecond
	}
	return 0
}

// Streamer builds a finite generator for the cue, nil for CueNone
func (c Cue) Streamer(sr beep.SampleRate) beep.Streamer {
	var g beep.Streamer
	switch c {
	case CueSteal:
		g = NewSweepGenerator(sr, 660, 220, c.Duration())
	case CueStealRevealed:
		g = NewSweepGenerator(sr, 880, 165, c.Duration())
	case CueWarning:
		g = NewBuzzGenerator(sr, 320)
	case CueCritical:
		g = NewBuzzGenerator(sr, 520)
	case CueSpawn:
		g = NewSweepGenerator(sr, 180, 360, c.Duration())
	case CueEscape:
		g = NewSweepGenerator(sr, 300, 900, c.Duration())
	case CuePowerUp:
		g = NewSweepGenerator(sr, 440, 1320, c.Duration())
	case CueRemoved:
		g = NewDecayGenerator(sr, 1)
	default:
		return nil
	}
	return beep.Take(sr.N(c.Duration()), g)
}

// SweepGenerator glides a sine between two pitches over a fixed span
type SweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	span     int
	pos      int
	phase    float64
}

// NewSweepGenerator creates a pitch glide generator
func NewSweepGenerator(sr beep.SampleRate, from, to float64, d time.Duration) *SweepGenerator {
	span := sr.N(d)
	if span < 1 {
		span = 1
	}
	return &SweepGenerator{sr: sr, from: from, to: to, span: span}
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		p := math.Min(float64(g.pos)/float64(g.span), 1)
		freq := g.from + (g.to-g.from)*p
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		if g.phase > 2*math.Pi {
			g.phase -= 2 * math.Pi
		}

		// Short attack then linear release
		envelope := math.Min(float64(g.pos)/float64(g.sr)/0.005, 1.0) * (1 - p)
		sample := 0.3 * envelope * math.Sin(g.phase)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error {
	return nil
}

// BuzzGenerator generates a harsh harmonic buzz
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBuzzGenerator creates a buzz sound generator
func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{
		sr:   sr,
		freq: freq,
	}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.3 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.15 * math.Sin(2*math.Pi*g.freq*2*t)
		sample += 0.075 * math.Sin(2*math.Pi*g.freq*3*t)

		envelope := math.Min(t/0.02, 1.0)
		sample *= envelope * 0.2

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error {
	return nil
}

// DecayGenerator generates a crackling burst with an exponential tail
type DecayGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
}

// NewDecayGenerator creates a decay sound generator, seed 0 is replaced by 1
func NewDecayGenerator(sr beep.SampleRate, seed int64) *DecayGenerator {
	if seed == 0 {
		seed = 1
	}
	return &DecayGenerator{sr: sr, seed: seed}
}

func (g *DecayGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * 12)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		rumble := 0.3 * math.Sin(2*math.Pi*80*t)

		sample := envelope * (0.25*noise + rumble)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *DecayGenerator) Err() error {
	return nil
}
