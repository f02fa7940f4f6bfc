// Package proto defines the websocket messages exchanged with browser clients
package proto

import (
	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/engine"
	"github.com/lixenwraith/algebra-worms/symbol"
)

// Version is bumped on any incompatible message change
const Version = 1

// Client message types
const (
	TypePointer     = "pointer"
	TypeTap         = "tap"
	TypeLeave       = "leave"
	TypeLayout      = "layout"
	TypeObstacles   = "obstacles"
	TypeSpawn       = "spawn"
	TypeArm         = "arm"
	TypePowerUp     = "powerup"
	TypeReveal      = "reveal"
	TypeSteal       = "steal"
	TypeCompleteRow = "complete-row"
	TypeMoveSymbol  = "move-symbol"
	TypeCapture     = "capture"
	TypeExplode     = "explode"
	TypeClear       = "clear"
)

// Server message types
const (
	TypeSnapshot      = "snapshot"
	TypeEvent         = "event"
	TypeCommandAck    = "commandAck"
	TypeCommandReject = "commandReject"
)

// Rect is a client-side bounding box
type Rect struct {
	Left   float64 `json:"left" msgpack:"left"`
	Top    float64 `json:"top" msgpack:"top"`
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

// Core converts to the simulation rect
func (r Rect) Core() core.Rect {
	return core.NewRect(r.Left, r.Top, r.Width, r.Height)
}

// Rects converts a slice
func Rects(in []Rect) []core.Rect {
	out := make([]core.Rect, len(in))
	for i, r := range in {
		out[i] = r.Core()
	}
	return out
}

// Symbol is one arena record as the client lays it out
type Symbol struct {
	ID    int     `json:"id" msgpack:"id"`
	Text  string  `json:"text" msgpack:"text"`
	Class string  `json:"class" msgpack:"class" jsonschema:"enum=hidden,enum=revealed,enum=stolen,enum=space,enum=completed-row"`
	Rect  Rect    `json:"rect" msgpack:"rect"`
	Row   int     `json:"row" msgpack:"row"`
	VX    float64 `json:"vx,omitempty" msgpack:"vx"`
	VY    float64 `json:"vy,omitempty" msgpack:"vy"`
}

// Record converts to a pool record, ok false on an unknown class
func (s Symbol) Record() (symbol.Symbol, bool) {
	class, ok := symbol.ParseClass(s.Class)
	if !ok {
		return symbol.Symbol{}, false
	}
	return symbol.Symbol{
		ID:    s.ID,
		Text:  s.Text,
		Class: class,
		Rect:  s.Rect.Core(),
		Row:   s.Row,
		VX:    s.VX,
		VY:    s.VY,
	}, true
}

// ClientMessage is the single envelope every client command arrives in
// Fields not used by Type are ignored
type ClientMessage struct {
	Ver  int    `json:"ver,omitempty" msgpack:"ver"`
	Type string `json:"type" msgpack:"type"`
	Seq  uint64 `json:"seq,omitempty" msgpack:"seq"` // non-zero requests an ack

	// pointer, tap, powerup, spawn position
	X           float64 `json:"x,omitempty" msgpack:"x"`
	Y           float64 `json:"y,omitempty" msgpack:"y"`
	PointerType string  `json:"pointerType,omitempty" msgpack:"pointerType"`

	// layout
	Bounds  *Rect    `json:"bounds,omitempty" msgpack:"bounds"`
	Symbols []Symbol `json:"symbols,omitempty" msgpack:"symbols"`

	// obstacles, keyed by selector
	Obstacles map[string][]Rect `json:"obstacles,omitempty" msgpack:"obstacles"`

	// spawn
	Kind         string `json:"kind,omitempty" msgpack:"kind"` // worm kind for spawn, power-up kind for arm/powerup
	Purple       bool   `json:"purple,omitempty" msgpack:"purple"`
	CanStealBlue bool   `json:"canStealBlue,omitempty" msgpack:"canStealBlue"`
	Slot         *int   `json:"slot,omitempty" msgpack:"slot"`
	HasPosition  bool   `json:"hasPosition,omitempty" msgpack:"hasPosition"`

	// reveal, steal, move-symbol, complete-row, capture, explode
	SymbolID int    `json:"symbolId,omitempty" msgpack:"symbolId"`
	Row      int    `json:"row,omitempty" msgpack:"row"`
	Rect     *Rect  `json:"rect,omitempty" msgpack:"rect"`
	DTMillis int64  `json:"dtMillis,omitempty" msgpack:"dtMillis"`
	WormID   string `json:"wormId,omitempty" msgpack:"wormId"`
}

// SpawnRequest extracts the spawn fields; a missing slot means no console slot
func (m ClientMessage) SpawnRequest() engine.SpawnRequest {
	slot := -1
	if m.Slot != nil {
		slot = *m.Slot
	}
	return engine.SpawnRequest{
		Purple:       m.Purple,
		CanStealBlue: m.CanStealBlue,
		Slot:         slot,
		X:            m.X,
		Y:            m.Y,
		HasPosition:  m.HasPosition,
	}
}

// SnapshotMessage carries a full simulation frame
type SnapshotMessage struct {
	Ver      int             `json:"ver" msgpack:"ver"`
	Type     string          `json:"type" msgpack:"type"`
	Seq      uint64          `json:"seq" msgpack:"seq"`
	Snapshot engine.Snapshot `json:"snapshot" msgpack:"snapshot"`
}

// EventMessage carries one routed simulation event
type EventMessage struct {
	Ver     int    `json:"ver" msgpack:"ver"`
	Type    string `json:"type" msgpack:"type"`
	Event   string `json:"event" msgpack:"event"`
	Frame   int64  `json:"frame" msgpack:"frame"`
	Payload any    `json:"payload,omitempty" msgpack:"payload"`
}

// CommandAckMessage confirms a sequenced command was applied
type CommandAckMessage struct {
	Ver     int      `json:"ver" msgpack:"ver"`
	Type    string   `json:"type" msgpack:"type"`
	Seq     uint64   `json:"seq" msgpack:"seq"`
	Targets []string `json:"targets,omitempty" msgpack:"targets"` // affected worm ids for power-ups
}

// CommandRejectMessage reports a sequenced command that failed
type CommandRejectMessage struct {
	Ver    int    `json:"ver" msgpack:"ver"`
	Type   string `json:"type" msgpack:"type"`
	Seq    uint64 `json:"seq" msgpack:"seq"`
	Reason string `json:"reason" msgpack:"reason"`
	Retry  bool   `json:"retry,omitempty" msgpack:"retry"`
}

// NewSnapshot wraps a snapshot
func NewSnapshot(seq uint64, snap engine.Snapshot) SnapshotMessage {
	return SnapshotMessage{Ver: Version, Type: TypeSnapshot, Seq: seq, Snapshot: snap}
}

// NewEvent wraps an event
func NewEvent(name string, frame int64, payload any) EventMessage {
	return EventMessage{Ver: Version, Type: TypeEvent, Event: name, Frame: frame, Payload: payload}
}

// NewAck acknowledges seq
func NewAck(seq uint64, targets []string) CommandAckMessage {
	return CommandAckMessage{Ver: Version, Type: TypeCommandAck, Seq: seq, Targets: targets}
}

// NewReject rejects seq
func NewReject(seq uint64, reason string, retry bool) CommandRejectMessage {
	return CommandRejectMessage{Ver: Version, Type: TypeCommandReject, Seq: seq, Reason: reason, Retry: retry}
}
