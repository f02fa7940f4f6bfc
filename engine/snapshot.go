package engine

import (
	"github.com/lixenwraith/algebra-worms/symbol"
	"github.com/lixenwraith/algebra-worms/worm"
)

// WormView is the render-facing projection of a worm
type WormView struct {
	ID         string  `json:"id" msgpack:"id"`
	Kind       string  `json:"kind" msgpack:"kind"`
	X          float64 `json:"x" msgpack:"x"`
	Y          float64 `json:"y" msgpack:"y"`
	VX         float64 `json:"vx" msgpack:"vx"`
	VY         float64 `json:"vy" msgpack:"vy"`
	Heading    float64 `json:"heading" msgpack:"heading"`
	CrawlPhase float64 `json:"crawlPhase" msgpack:"crawlPhase"`
	Purple     bool    `json:"purple" msgpack:"purple"`
	State      string  `json:"state" msgpack:"state"`
	Aggression float64 `json:"aggression" msgpack:"aggression"`
	TargetID   int     `json:"targetId,omitempty" msgpack:"targetId"`
	Escaping   bool    `json:"escaping,omitempty" msgpack:"escaping"`
	HasStolen  bool    `json:"hasStolen,omitempty" msgpack:"hasStolen"`
}

// Snapshot is a full simulation frame for renderers and remote clients
type Snapshot struct {
	Frame       uint64          `json:"frame" msgpack:"frame"`
	TimeMillis  int64           `json:"time" msgpack:"time"`
	Worms       []WormView      `json:"worms" msgpack:"worms"`
	Symbols     []symbol.Symbol `json:"symbols" msgpack:"symbols"`
	SymbolsRev  uint64          `json:"symbolsRev" msgpack:"symbolsRev"` // changes whenever Symbols does
	QueueDepth  int             `json:"queueDepth" msgpack:"queueDepth"`
	Spawning    bool            `json:"spawning" msgpack:"spawning"`
	LockedSlots []int           `json:"lockedSlots" msgpack:"lockedSlots"`
	Armed       string          `json:"armed,omitempty" msgpack:"armed"`
	Metrics     map[string]any  `json:"metrics,omitempty" msgpack:"metrics"`
}

// Snapshot copies the current state; safe to hand to another goroutine
func (e *Engine) Snapshot() Snapshot {
	now := e.sched.Now()
	worms := e.worms.Active()
	views := make([]WormView, len(worms))
	for i, w := range worms {
		views[i] = view(w, w.Escaping(now))
	}

	qs := e.queue.Status()
	return Snapshot{
		Frame:       e.frames,
		TimeMillis:  now.UnixMilli(),
		Worms:       views,
		Symbols:     append([]symbol.Symbol(nil), e.pool.All()...),
		SymbolsRev:  e.pool.Version(),
		QueueDepth:  qs.Depth,
		Spawning:    qs.Processing,
		LockedSlots: e.coord.LockedSlots(),
		Armed:       string(e.armed),
		Metrics:     e.status.Snapshot(),
	}
}

func view(w *worm.Worm, escaping bool) WormView {
	return WormView{
		ID:         w.ID,
		Kind:       w.Kind,
		X:          w.X,
		Y:          w.Y,
		VX:         w.VX,
		VY:         w.VY,
		Heading:    w.Heading,
		CrawlPhase: w.CrawlPhase,
		Purple:     w.Purple,
		State:      w.State.String(),
		Aggression: w.Aggression.Level,
		TargetID:   w.TargetID,
		Escaping:   escaping,
		HasStolen:  w.HasStolen,
	}
}
