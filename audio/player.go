// Package audio turns simulation events into short synthesized cues
package audio

import (
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/algebra-worms/config"
	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/event"
	"github.com/lixenwraith/algebra-worms/status"
)

// Sink receives finished cue streamers
type Sink interface {
	Play(s beep.Streamer)
	Close()
}

// SpeakerSink mixes cues into the system speaker
type SpeakerSink struct {
	mixer *beep.Mixer
}

// NewSpeakerSink initializes the speaker, failing when no audio device is available
func NewSpeakerSink(sr beep.SampleRate) (*SpeakerSink, error) {
	if err := speaker.Init(sr, sr.N(time.Millisecond*100)); err != nil {
		return nil, err
	}
	s := &SpeakerSink{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

func (s *SpeakerSink) Play(st beep.Streamer) {
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

func (s *SpeakerSink) Close() {
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}

// minCueGap suppresses the same cue retriggering within a burst of events
const minCueGap = 60 * time.Millisecond

// Player maps routed events to cues
// A player without a sink is a silent no-op, so headless runs need no special casing
type Player struct {
	mu     sync.Mutex
	cfg    config.Audio
	sink   Sink
	clock  core.Clock
	logger *log.Logger
	last   map[Cue]time.Time

	statPlayed     *atomic.Int64
	statSuppressed *atomic.Int64
}

// NewPlayer creates a player; sink may be nil
func NewPlayer(cfg config.Audio, sink Sink, clock core.Clock, logger *log.Logger, reg *status.Registry) *Player {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Player{
		cfg:            cfg,
		sink:           sink,
		clock:          clock,
		logger:         logger,
		last:           make(map[Cue]time.Time),
		statPlayed:     reg.Ints.Get("audio.played"),
		statSuppressed: reg.Ints.Get("audio.suppressed"),
	}
}

// Open builds a speaker-backed player, degrading to silence when the device is missing
func Open(cfg config.Audio, clock core.Clock, logger *log.Logger, reg *status.Registry) *Player {
	p := NewPlayer(cfg, nil, clock, logger, reg)
	if !cfg.Enabled {
		return p
	}
	sink, err := NewSpeakerSink(sampleRate)
	if err != nil {
		p.logger.Printf("audio: speaker unavailable, cues disabled: %v", err)
		return p
	}
	p.sink = sink
	return p
}

// EventTypes implements event.Handler
func (p *Player) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventSymbolStolen,
		event.EventNearMissWarning,
		event.EventWormSpawned,
		event.EventWormEscaped,
		event.EventWormRemoved,
		event.EventPowerUpUsed,
	}
}

// HandleEvent implements event.Handler
func (p *Player) HandleEvent(ev event.GameEvent) {
	p.Play(CueFor(ev))
}

// CueFor selects the cue an event sounds, CueNone when it stays silent
func CueFor(ev event.GameEvent) Cue {
	switch ev.Type {
	case event.EventSymbolStolen:
		if pl, ok := ev.Payload.(*event.SymbolStolenPayload); ok && pl.WasRevealed {
			return CueStealRevealed
		}
		return CueSteal
	case event.EventNearMissWarning:
		pl, ok := ev.Payload.(*event.NearMissPayload)
		if !ok {
			return CueNone
		}
		if pl.Urgency >= 3 {
			return CueCritical
		}
		if pl.Urgency == 2 {
			return CueWarning
		}
		return CueNone
	case event.EventWormSpawned:
		return CueSpawn
	case event.EventWormEscaped:
		return CueEscape
	case event.EventWormRemoved:
		if pl, ok := ev.Payload.(*event.WormRemovedPayload); ok && pl.Reason == event.RemovalLevelClear {
			return CueNone
		}
		return CueRemoved
	case event.EventPowerUpUsed:
		return CuePowerUp
	}
	return CueNone
}

// Play sends a cue to the sink at its configured volume
func (p *Player) Play(c Cue) {
	if c == CueNone {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sink == nil || !p.cfg.Enabled {
		return
	}
	now := p.clock.Now()
	if last, ok := p.last[c]; ok && now.Sub(last) < minCueGap {
		p.statSuppressed.Add(1)
		return
	}
	p.last[c] = now

	vol := p.Volume(c)
	if vol <= 0 {
		return
	}
	p.sink.Play(newVolume(c.Streamer(sampleRate), vol))
	p.statPlayed.Add(1)
}

// Volume is the master volume scaled by the per-cue override, if any
func (p *Player) Volume(c Cue) float64 {
	vol := p.cfg.MasterVolume
	if v, ok := p.cfg.CueVolumes[c.String()]; ok {
		vol *= v
	}
	return vol
}

// Close releases the sink
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sink != nil {
		p.sink.Close()
		p.sink = nil
	}
}

// Log2(0) is -Inf, so zero volume maps to a silent stage
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
