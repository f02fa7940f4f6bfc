package proto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/algebra-worms/symbol"
)

func TestSymbolRecord(t *testing.T) {
	rec, ok := Symbol{ID: 4, Text: "x", Class: "revealed", Rect: Rect{Left: 10, Top: 20, Width: 30, Height: 40}, Row: 2}.Record()
	require.True(t, ok)
	assert.Equal(t, symbol.Revealed, rec.Class)
	assert.Equal(t, 40.0, rec.Rect.Right)
	assert.Equal(t, 60.0, rec.Rect.Bottom)
	assert.Equal(t, 2, rec.Row)

	_, ok = Symbol{Class: "glowing"}.Record()
	assert.False(t, ok)
}

func TestSpawnRequestSlot(t *testing.T) {
	var msg ClientMessage
	require.NoError(t, json.Unmarshal([]byte(`{"type":"spawn","purple":true}`), &msg))
	req := msg.SpawnRequest()
	assert.Equal(t, -1, req.Slot)
	assert.True(t, req.Purple)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"spawn","slot":0,"x":5,"y":6,"hasPosition":true}`), &msg))
	req = msg.SpawnRequest()
	assert.Equal(t, 0, req.Slot)
	assert.True(t, req.HasPosition)
	assert.Equal(t, 5.0, req.X)
}
