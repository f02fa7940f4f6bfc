package parameter

import "time"

// Network
const (
	// MaxSessions caps concurrent websocket clients, each owns an engine
	MaxSessions = 64

	// SendQueueSize bounds encoded frames waiting for the writer
	SendQueueSize = 256

	// ReadLimit is the largest accepted client frame (layout messages carry every symbol)
	ReadLimit = 1 << 20

	// SocketBufferSize sizes the upgrader read and write buffers
	SocketBufferSize = 4096

	SnapshotInterval = 50 * time.Millisecond
	WriteTimeout     = 5 * time.Second
)
