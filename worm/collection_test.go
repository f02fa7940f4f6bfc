package worm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionKeepsSpawnOrder(t *testing.T) {
	c := NewCollection()
	for _, id := range []string{"w-1", "w-2", "w-3"} {
		c.Add(&Worm{ID: id, Active: true})
	}

	removed, ok := c.Remove("w-2")
	require.True(t, ok)
	assert.False(t, removed.Active)

	ids := []string{}
	for _, w := range c.All() {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"w-1", "w-3"}, ids)

	w3, ok := c.Get("w-3")
	require.True(t, ok)
	assert.Equal(t, "w-3", w3.ID)

	_, ok = c.Remove("w-2")
	assert.False(t, ok)
}

func TestCollectionActiveAndClear(t *testing.T) {
	c := NewCollection()
	c.Add(&Worm{ID: "a", Active: true})
	c.Add(&Worm{ID: "b"})
	assert.Equal(t, 1, c.ActiveCount())
	assert.Len(t, c.Active(), 1)

	cleared := c.Clear()
	assert.Len(t, cleared, 2)
	assert.Zero(t, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestWormEscapeWindow(t *testing.T) {
	now := time.Unix(100, 0)
	w := &Worm{}
	assert.False(t, w.Escaping(now))

	w.StartEscape(now, time.Second, 1, 0)
	assert.True(t, w.Escaping(now.Add(999*time.Millisecond)))
	assert.False(t, w.Escaping(now.Add(time.Second)))
}
