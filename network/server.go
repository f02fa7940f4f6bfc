// Package network serves the simulation to browser clients over websockets
// Every connection owns an independent engine; the server only multiplexes sessions
package network

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/algebra-worms/config"
	"github.com/lixenwraith/algebra-worms/parameter"
	"github.com/lixenwraith/algebra-worms/status"
)

//go:embed static/index.html
var indexPage []byte

// ServerConfig carries the optional collaborators
type ServerConfig struct {
	Logger *log.Logger
	Status *status.Registry
}

// Server accepts websocket clients and runs one session per connection
type Server struct {
	cfg      config.Config
	logger   *log.Logger
	status   *status.Registry
	upgrader websocket.Upgrader
	http     *http.Server

	mu       sync.RWMutex
	sessions map[SessionID]*Session
	nextID   atomic.Uint32
	closed   atomic.Bool
	wg       sync.WaitGroup

	statSessions *atomic.Int64
	statRejected *atomic.Int64
}

// NewServer validates cfg once; sessions reuse it unchanged
func NewServer(cfg config.Config, opts ServerConfig) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	reg := opts.Status
	if reg == nil {
		reg = status.NewRegistry()
	}

	return &Server{
		cfg:    cfg,
		logger: logger,
		status: reg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  parameter.SocketBufferSize,
			WriteBufferSize: parameter.SocketBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions:     make(map[SessionID]*Session),
		statSessions: reg.Ints.Get("network.sessions"),
		statRejected: reg.Ints.Get("network.rejected"),
	}, nil
}

// Handler routes /ws to the websocket endpoint and / to the demo page
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexPage)
	})
	return mux
}

// HandleWS upgrades the request and blocks for the session lifetime
// The codec is negotiated with ?codec=json|msgpack, falling back to the configured default
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	if s.closed.Load() {
		http.Error(w, ErrClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	name := r.URL.Query().Get("codec")
	if name == "" {
		name = s.cfg.Network.Codec
	}
	codec, err := CodecByName(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if s.SessionCount() >= s.cfg.Network.MaxSessions {
		s.statRejected.Add(1)
		http.Error(w, "session limit reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("network: upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	id := SessionID(s.nextID.Add(1))
	sess, err := newSession(id, conn, codec, s.cfg, s.logger, s.status)
	if err != nil {
		s.logger.Printf("network: session %d: %v", id, err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "engine unavailable")
		conn.WriteMessage(websocket.CloseMessage, msg)
		conn.Close()
		return
	}

	if !s.register(sess) {
		sess.Close()
		return
	}
	defer s.unregister(sess)

	s.logger.Printf("network: session %d connected from %s (%s)", id, sess.Addr, codec.Name())
	sess.run()
	s.logger.Printf("network: session %d closed", id)
}

func (s *Server) register(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return false
	}
	s.sessions[sess.ID] = sess
	s.wg.Add(1)
	s.statSessions.Store(int64(len(s.sessions)))
	return true
}

func (s *Server) unregister(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.statSessions.Store(int64(len(s.sessions)))
	s.mu.Unlock()
	s.wg.Done()
}

// Session looks up a live session
func (s *Server) Session(id SessionID) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// SessionCount returns the number of connected clients
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ListenAndServe blocks serving on the configured address
// Returns nil after Shutdown
func (s *Server) ListenAndServe() error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return nil
	}
	s.http = &http.Server{Addr: s.cfg.Network.Addr, Handler: s.Handler()}
	srv := s.http
	s.mu.Unlock()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown refuses new clients, closes every session and waits for them to drain
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	srv := s.http
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	for _, sess := range sessions {
		sess.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		err = errors.Join(err, ctx.Err())
	}
	return err
}
