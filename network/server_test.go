package network

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/algebra-worms/config"
	"github.com/lixenwraith/algebra-worms/network/proto"
)

type inbound struct {
	Type   string `json:"type"`
	Seq    uint64 `json:"seq"`
	Event  string `json:"event"`
	Reason string `json:"reason"`
}

func newTestServer(t *testing.T, tweak func(*config.Config)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default()
	cfg.Tier = config.TierHigh
	cfg.Engine.Seed = 1
	cfg.Network.SnapshotInterval = 20 * time.Millisecond
	if tweak != nil {
		tweak(&cfg)
	}

	srv, err := NewServer(cfg, ServerConfig{Logger: log.New(io.Discard, "", 0)})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func writeJSON(t *testing.T, conn *websocket.Conn, msg proto.ClientMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

// readUntil skips messages until match accepts one
func readUntil(t *testing.T, conn *websocket.Conn, match func(inbound) bool) inbound {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg inbound
		require.NoError(t, json.Unmarshal(data, &msg))
		if match(msg) {
			return msg
		}
	}
}

func TestSnapshotOnConnect(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	conn, _, err := dial(t, ts, "")
	require.NoError(t, err)

	msg := readUntil(t, conn, func(m inbound) bool { return true })
	assert.Equal(t, proto.TypeSnapshot, msg.Type)
	assert.Equal(t, 1, srv.SessionCount())
}

func TestSpawnIsAcknowledgedAndAnnounced(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn, _, err := dial(t, ts, "?codec=json")
	require.NoError(t, err)

	writeJSON(t, conn, proto.ClientMessage{
		Type:   proto.TypeLayout,
		Bounds: &proto.Rect{Width: 800, Height: 600},
		Symbols: []proto.Symbol{
			{ID: 1, Text: "x", Class: "hidden", Rect: proto.Rect{Left: 400, Top: 300, Width: 20, Height: 20}},
		},
	})
	writeJSON(t, conn, proto.ClientMessage{Type: proto.TypeSpawn, Seq: 1})

	ack := readUntil(t, conn, func(m inbound) bool { return m.Seq == 1 && m.Type != proto.TypeSnapshot })
	assert.Equal(t, proto.TypeCommandAck, ack.Type)

	ev := readUntil(t, conn, func(m inbound) bool { return m.Type == proto.TypeEvent })
	assert.Equal(t, "worm-spawned", ev.Event)
}

func TestFailedCommandIsRejected(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn, _, err := dial(t, ts, "")
	require.NoError(t, err)

	writeJSON(t, conn, proto.ClientMessage{Type: proto.TypePowerUp, Kind: "spider", X: 10, Y: 10, Seq: 7})
	msg := readUntil(t, conn, func(m inbound) bool { return m.Seq == 7 && m.Type != proto.TypeSnapshot })
	assert.Equal(t, proto.TypeCommandReject, msg.Type)
	assert.NotEmpty(t, msg.Reason)

	writeJSON(t, conn, proto.ClientMessage{Type: "dance", Seq: 8})
	msg = readUntil(t, conn, func(m inbound) bool { return m.Seq == 8 && m.Type != proto.TypeSnapshot })
	assert.Equal(t, proto.TypeCommandReject, msg.Type)
	assert.Contains(t, msg.Reason, "unknown message type")
}

func TestMalformedMessageKeepsSession(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn, _, err := dial(t, ts, "")
	require.NoError(t, err)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	writeJSON(t, conn, proto.ClientMessage{Type: proto.TypeClear, Seq: 3})

	msg := readUntil(t, conn, func(m inbound) bool { return m.Seq == 3 && m.Type != proto.TypeSnapshot })
	assert.Equal(t, proto.TypeCommandAck, msg.Type)
}

func TestMsgpackCodec(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn, _, err := dial(t, ts, "?codec=msgpack")
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	frameType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, frameType)

	var msg map[string]any
	require.NoError(t, msgpack.Unmarshal(data, &msg))
	assert.Equal(t, proto.TypeSnapshot, msg["type"])
}

func TestUnknownCodecRejected(t *testing.T) {
	_, ts := newTestServer(t, nil)
	_, resp, err := dial(t, ts, "?codec=xml")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionLimit(t *testing.T) {
	srv, ts := newTestServer(t, func(c *config.Config) { c.Network.MaxSessions = 1 })
	_, _, err := dial(t, ts, "")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return srv.SessionCount() == 1 }, time.Second, 5*time.Millisecond)

	_, resp, err := dial(t, ts, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestShutdownClosesSessions(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	conn, _, err := dial(t, ts, "")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return srv.SessionCount() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.Zero(t, srv.SessionCount())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	_, resp, err := dial(t, ts, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestTapReachesTrackerAndFiresArmedPowerUp(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn, _, err := dial(t, ts, "")
	require.NoError(t, err)

	writeJSON(t, conn, proto.ClientMessage{
		Type:   proto.TypeLayout,
		Bounds: &proto.Rect{Width: 800, Height: 600},
		Symbols: []proto.Symbol{
			{ID: 1, Text: "x", Class: "hidden", Rect: proto.Rect{Left: 700, Top: 500, Width: 20, Height: 20}},
		},
	})
	writeJSON(t, conn, proto.ClientMessage{Type: proto.TypeSpawn, Seq: 1})
	readUntil(t, conn, func(m inbound) bool { return m.Type == proto.TypeEvent && m.Event == "worm-spawned" })

	writeJSON(t, conn, proto.ClientMessage{Type: proto.TypeArm, Kind: "devil", Seq: 2})
	ack := readUntil(t, conn, func(m inbound) bool { return m.Seq == 2 && m.Type != proto.TypeSnapshot })
	require.Equal(t, proto.TypeCommandAck, ack.Type)

	writeJSON(t, conn, proto.ClientMessage{Type: proto.TypeTap, X: 400, Y: 300, PointerType: "mouse"})
	ev := readUntil(t, conn, func(m inbound) bool { return m.Type == proto.TypeEvent && m.Event == "power-up-used" })
	assert.Equal(t, "power-up-used", ev.Event)
}

func TestAbruptDisconnectsMidStream(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	const clients = 20
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		conn, _, err := dial(t, ts, "")
		require.NoError(t, err)

		wg.Add(1)
		go func(conn *websocket.Conn) {
			defer wg.Done()
			send := func(msg proto.ClientMessage) {
				data, _ := json.Marshal(msg)
				conn.WriteMessage(websocket.TextMessage, data)
			}
			send(proto.ClientMessage{
				Type:   proto.TypeLayout,
				Bounds: &proto.Rect{Width: 800, Height: 600},
				Symbols: []proto.Symbol{
					{ID: 1, Text: "x", Class: "hidden", Rect: proto.Rect{Left: 400, Top: 300, Width: 20, Height: 20}},
				},
			})
			for j := 0; j < 5; j++ {
				send(proto.ClientMessage{Type: proto.TypeSpawn, Seq: uint64(j + 1)})
			}
			for j := 0; j < 50; j++ {
				send(proto.ClientMessage{Type: proto.TypeTap, X: float64(j * 10), Y: 300})
			}
			conn.Close()
		}(conn)
	}
	wg.Wait()

	require.Eventually(t, func() bool { return srv.SessionCount() == 0 }, 3*time.Second, 10*time.Millisecond)
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Network.Codec = "xml"
	_, err := NewServer(cfg, ServerConfig{})
	assert.ErrorIs(t, err, config.ErrInvalidCodec)
}
