package network

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/algebra-worms/config"
	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/cursor"
	"github.com/lixenwraith/algebra-worms/engine"
	"github.com/lixenwraith/algebra-worms/event"
	"github.com/lixenwraith/algebra-worms/network/proto"
	"github.com/lixenwraith/algebra-worms/obstacle"
	"github.com/lixenwraith/algebra-worms/parameter"
	"github.com/lixenwraith/algebra-worms/powerup"
	"github.com/lixenwraith/algebra-worms/spawn"
	"github.com/lixenwraith/algebra-worms/status"
	"github.com/lixenwraith/algebra-worms/symbol"
)

var (
	ErrClosed         = errors.New("network: session closed")
	ErrUnknownMessage = errors.New("network: unknown message type")
	ErrBadMessage     = errors.New("network: malformed message")
)

// SessionID uniquely identifies a connected client
type SessionID uint32

// Session binds one websocket client to its own engine
// Commands are applied on the engine goroutine; pointer input goes straight to the tracker
type Session struct {
	ID       SessionID
	Addr     string
	LastSeen atomic.Int64 // UnixNano
	OutSeq   atomic.Uint64

	conn         *websocket.Conn
	codec        Codec
	engine       *engine.Engine
	layout       *obstacle.LayoutSource
	logger       *log.Logger
	writeTimeout time.Duration
	interval     time.Duration

	sendCh    chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once
	unsub     func()

	statDropped   *atomic.Int64
	statMalformed *atomic.Int64
}

func newSession(id SessionID, conn *websocket.Conn, codec Codec, cfg config.Config, logger *log.Logger, reg *status.Registry) (*Session, error) {
	layout := obstacle.NewLayoutSource()
	eng, err := engine.New(cfg, engine.Deps{Logger: logger, Obstacles: layout})
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:            id,
		Addr:          conn.RemoteAddr().String(),
		conn:          conn,
		codec:         codec,
		engine:        eng,
		layout:        layout,
		logger:        logger,
		writeTimeout:  cfg.Network.WriteTimeout,
		interval:      cfg.Network.SnapshotInterval,
		sendCh:        make(chan []byte, parameter.SendQueueSize),
		closeCh:       make(chan struct{}),
		statDropped:   reg.Ints.Get("network.dropped"),
		statMalformed: reg.Ints.Get("network.malformed"),
	}
	s.LastSeen.Store(time.Now().UnixNano())
	s.unsub = eng.Subscribe(s.forward, outboundEvents()...)
	return s, nil
}

// outboundEvents is every event except cursor echoes, which the client already knows
func outboundEvents() []event.EventType {
	var out []event.EventType
	for _, et := range event.Types() {
		if et == event.EventCursorUpdate || et == event.EventCursorTap {
			continue
		}
		out = append(out, et)
	}
	return out
}

// Engine exposes the session's simulation
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// run starts the engine and I/O loops and blocks until the client goes away
func (s *Session) run() {
	s.engine.Start()
	core.Go(s.writeLoop)
	core.Go(s.snapshotLoop)
	s.readLoop()
}

// Close stops the engine and drops the connection
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
		// The router is owned by the loop goroutine, detach only once it has exited
		s.engine.Stop()
		if s.unsub != nil {
			s.unsub()
		}
		s.conn.Close()
	})
}

// Done is closed once the session has shut down
func (s *Session) Done() <-chan struct{} {
	return s.closeCh
}

func (s *Session) readLoop() {
	defer s.Close()
	s.conn.SetReadLimit(parameter.ReadLimit)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		s.LastSeen.Store(time.Now().UnixNano())

		var msg proto.ClientMessage
		if err := s.codec.Unmarshal(data, &msg); err != nil {
			s.statMalformed.Add(1)
			s.logger.Printf("network: discarding malformed message from session %d: %v", s.ID, err)
			continue
		}
		s.dispatch(msg)
	}
}

func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case <-s.closeCh:
			return
		case data := <-s.sendCh:
			if s.writeTimeout > 0 {
				s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			}
			if err := s.conn.WriteMessage(s.codec.FrameType(), data); err != nil {
				return
			}
		}
	}
}

// snapshotLoop requests a snapshot per interval; capture happens on the engine goroutine
func (s *Session) snapshotLoop() {
	s.engine.Post(s.sendSnapshot)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.closeCh:
			return
		case <-ticker.C:
			s.engine.Post(s.sendSnapshot)
		}
	}
}

func (s *Session) sendSnapshot() {
	s.send(proto.NewSnapshot(s.OutSeq.Add(1), s.engine.Snapshot()))
}

func (s *Session) forward(ev event.GameEvent) {
	s.send(proto.NewEvent(event.Name(ev.Type), ev.Frame, ev.Payload))
}

// send encodes and queues a message, dropping it when the writer is backed up
func (s *Session) send(v any) {
	data, err := s.codec.Marshal(v)
	if err != nil {
		s.logger.Printf("network: encode for session %d: %v", s.ID, err)
		return
	}
	select {
	case <-s.closeCh:
	case s.sendCh <- data:
	default:
		s.statDropped.Add(1)
	}
}

// dispatch routes a decoded message
func (s *Session) dispatch(msg proto.ClientMessage) {
	if ev, ok := pointerEvent(msg); ok {
		s.engine.HandlePointer(ev)
		if msg.Seq > 0 {
			s.send(proto.NewAck(msg.Seq, nil))
		}
		return
	}
	s.engine.Post(func() {
		targets, err := s.apply(msg)
		s.reply(msg, targets, err)
	})
}

func pointerEvent(msg proto.ClientMessage) (cursor.PointerEvent, bool) {
	ev := cursor.PointerEvent{X: msg.X, Y: msg.Y, PointerType: msg.PointerType}
	switch msg.Type {
	case proto.TypePointer:
		ev.Kind = cursor.KindMove
	case proto.TypeTap:
		ev.Kind = cursor.KindDown
	case proto.TypeLeave:
		ev.Kind = cursor.KindLeave
	default:
		return ev, false
	}
	return ev, true
}

// apply runs a command against the engine, on the engine goroutine
func (s *Session) apply(msg proto.ClientMessage) ([]string, error) {
	e := s.engine
	switch msg.Type {
	case proto.TypeLayout:
		if msg.Bounds != nil {
			e.SetBounds(msg.Bounds.Core())
		}
		if msg.Symbols != nil {
			records := make([]symbol.Symbol, 0, len(msg.Symbols))
			for _, sym := range msg.Symbols {
				rec, ok := sym.Record()
				if !ok {
					return nil, fmt.Errorf("%w: symbol %d class %q", ErrBadMessage, sym.ID, sym.Class)
				}
				records = append(records, rec)
			}
			e.LoadSymbols(records)
		}
		return nil, nil

	case proto.TypeObstacles:
		layout := make(map[string][]core.Rect, len(msg.Obstacles))
		for sel, rects := range msg.Obstacles {
			layout[sel] = proto.Rects(rects)
		}
		s.layout.Replace(layout)
		e.InvalidateObstacles()
		return nil, nil

	case proto.TypeSpawn:
		kind := msg.Kind
		if kind == "" {
			kind = engine.KindBasic
			if msg.Purple {
				kind = engine.KindPurple
			}
		}
		return nil, e.RequestSpawn(kind, msg.SpawnRequest())

	case proto.TypeArm:
		return nil, e.ArmPowerUp(powerup.Kind(msg.Kind))

	case proto.TypePowerUp:
		return e.UsePowerUp(powerup.Kind(msg.Kind), msg.X, msg.Y)

	case proto.TypeReveal:
		return nil, e.RevealSymbol(msg.SymbolID)

	case proto.TypeSteal:
		return nil, e.StealSymbol(msg.SymbolID)

	case proto.TypeCompleteRow:
		e.CompleteRow(msg.Row)
		return nil, nil

	case proto.TypeMoveSymbol:
		if msg.Rect == nil {
			return nil, fmt.Errorf("%w: move-symbol without rect", ErrBadMessage)
		}
		return nil, e.MoveSymbol(msg.SymbolID, msg.Rect.Core(), time.Duration(msg.DTMillis)*time.Millisecond)

	case proto.TypeCapture:
		return nil, e.CaptureWorm(msg.WormID)

	case proto.TypeExplode:
		return nil, e.ExplodeWorm(msg.WormID)

	case proto.TypeClear:
		e.ClearLevel()
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
}

// reply acks sequenced commands; unsequenced failures are only logged
func (s *Session) reply(msg proto.ClientMessage, targets []string, err error) {
	if msg.Seq == 0 {
		if err != nil {
			s.logger.Printf("network: session %d %s rejected: %v", s.ID, msg.Type, err)
		}
		return
	}
	if err != nil {
		retry := errors.Is(err, spawn.ErrCapacity) || errors.Is(err, engine.ErrSlotBusy)
		s.send(proto.NewReject(msg.Seq, err.Error(), retry))
		return
	}
	s.send(proto.NewAck(msg.Seq, targets))
}
