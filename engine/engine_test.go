package engine

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/lixenwraith/algebra-worms/config"
	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/cursor"
	"github.com/lixenwraith/algebra-worms/event"
	"github.com/lixenwraith/algebra-worms/powerup"
	"github.com/lixenwraith/algebra-worms/scheduler"
	"github.com/lixenwraith/algebra-worms/spawn"
	"github.com/lixenwraith/algebra-worms/symbol"
	"github.com/lixenwraith/algebra-worms/worm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	e      *Engine
	sched  *scheduler.Manual
	events []event.GameEvent
}

func newHarness(t *testing.T, tweak func(*config.Config)) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Tier = config.TierHigh
	cfg.Engine.Seed = 1
	if tweak != nil {
		tweak(&cfg)
	}

	sched := scheduler.NewManual(core.NewManualClock(time.Unix(1_700_000_000, 0)))
	e, err := New(cfg, Deps{Scheduler: sched, Poster: sched, Logger: log.New(io.Discard, "", 0)})
	require.NoError(t, err)
	e.SetBounds(core.NewRect(0, 0, 1000, 800))

	h := &harness{e: e, sched: sched}
	e.Subscribe(func(ev event.GameEvent) { h.events = append(h.events, ev) }, event.Types()...)
	return h
}

// spawnAt queues a worm at a fixed point and runs the frame that creates it
func (h *harness) spawnAt(t *testing.T, x, y float64) *worm.Worm {
	t.Helper()
	require.NoError(t, h.e.RequestSpawn(KindBasic, SpawnRequest{Slot: -1, X: x, Y: y, HasPosition: true}))
	h.sched.Frame()
	ws := h.e.Worms()
	require.NotEmpty(t, ws)
	return ws[len(ws)-1]
}

func (h *harness) ofType(t event.EventType) []event.GameEvent {
	var out []event.GameEvent
	for _, ev := range h.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func TestSpawnQueueOnePerFrameWithDelay(t *testing.T) {
	h := newHarness(t, nil)
	req := SpawnRequest{Slot: -1, X: 10, Y: 10, HasPosition: true}
	require.NoError(t, h.e.RequestSpawn(KindBasic, req))
	require.NoError(t, h.e.RequestSpawn(KindBasic, req))
	assert.Empty(t, h.e.Worms(), "nothing spawns synchronously")

	h.sched.Frame()
	assert.Len(t, h.e.Worms(), 1)

	h.sched.Step(16 * time.Millisecond)
	assert.Len(t, h.e.Worms(), 1, "second entry waits out the delay")

	h.sched.Step(34 * time.Millisecond)
	assert.Len(t, h.e.Worms(), 2)
	h.e.DispatchEvents()
	assert.Len(t, h.ofType(event.EventWormSpawned), 2)
}

func TestRemovingLastWormCancelsFrame(t *testing.T) {
	h := newHarness(t, nil)
	w := h.spawnAt(t, 100, 100)
	require.True(t, h.e.FramePending())

	h.sched.Frame()
	require.True(t, h.e.FramePending(), "frames continue while worms live")

	require.NoError(t, h.e.CaptureWorm(w.ID))
	assert.False(t, h.e.FramePending())
	assert.Zero(t, h.sched.PendingFrames())

	assert.Zero(t, h.sched.Frame())
	assert.ErrorIs(t, h.e.CaptureWorm(w.ID), ErrUnknownWorm)
}

func TestWormStealsTargetOnContact(t *testing.T) {
	h := newHarness(t, nil)
	h.e.LoadSymbols([]symbol.Symbol{
		{Text: "x", Class: symbol.Hidden, Rect: core.NewRect(105, 95, 10, 10)},
	})
	w := h.spawnAt(t, 100, 100)

	h.sched.Step(16 * time.Millisecond)

	stolen := h.ofType(event.EventSymbolStolen)
	require.Len(t, stolen, 1)
	p := stolen[0].Payload.(*event.SymbolStolenPayload)
	assert.Equal(t, w.ID, p.WormID)
	assert.Equal(t, "x", p.Text)
	assert.False(t, p.WasRevealed)

	s, _ := h.e.Symbol(p.SymbolID)
	assert.Equal(t, symbol.Stolen, s.Class)
	assert.True(t, w.HasStolen)
	assert.Empty(t, w.TargetText)
}

func TestNearMissWarningAndClear(t *testing.T) {
	h := newHarness(t, nil)
	h.e.LoadSymbols([]symbol.Symbol{
		{Text: "7", Class: symbol.Hidden, Rect: core.NewRect(175, 95, 10, 10)},
	})
	w := h.spawnAt(t, 100, 100)
	h.sched.Step(16 * time.Millisecond)

	warnings := h.ofType(event.EventNearMissWarning)
	require.Len(t, warnings, 1)
	p := warnings[0].Payload.(*event.NearMissPayload)
	assert.Equal(t, w.ID, p.WormID)
	assert.Equal(t, 1, p.Urgency)
	assert.Less(t, p.Distance, 80.0)

	require.NoError(t, h.e.CaptureWorm(w.ID))
	h.e.DispatchEvents()
	assert.Len(t, h.ofType(event.EventNearMissCleared), 1)
}

func TestTapStartsEscapeBurst(t *testing.T) {
	h := newHarness(t, nil)
	h.e.Start()
	defer h.e.Stop()

	w := h.spawnAt(t, 100, 100)
	h.e.HandlePointer(cursor.PointerEvent{Kind: cursor.KindDown, X: 110, Y: 100, PointerType: "mouse"})
	h.sched.RunPosted()

	require.Len(t, h.ofType(event.EventCursorTap), 1)
	require.Len(t, h.ofType(event.EventWormEscaped), 1)
	assert.True(t, w.Escaping(h.sched.Now()))
	assert.Less(t, w.EscapeVX, 0.0, "flees away from the tap")

	h.sched.Step(16 * time.Millisecond)
	assert.Equal(t, worm.StateEscape, w.State, "escape outranks evasion from the nearby cursor")
}

func TestArmedPowerUpFiresOnTap(t *testing.T) {
	h := newHarness(t, nil)
	h.e.Start()
	defer h.e.Stop()

	w := h.spawnAt(t, 200, 200)
	require.NoError(t, h.e.ArmPowerUp(powerup.KindSpider))
	assert.ErrorIs(t, h.e.ArmPowerUp("laser"), ErrUnknownPowerUp)

	h.e.HandlePointer(cursor.PointerEvent{Kind: cursor.KindDown, X: 210, Y: 200})
	h.sched.RunPosted()
	h.e.DispatchEvents()

	_, alive := h.e.Worm(w.ID)
	assert.False(t, alive)
	assert.Empty(t, h.e.Armed())

	removed := h.ofType(event.EventWormRemoved)
	require.Len(t, removed, 1)
	assert.Equal(t, event.RemovalPowerUp, removed[0].Payload.(*event.WormRemovedPayload).Reason)
}

func TestChainLightningCountsOrigin(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.PowerUp.ChainKillCount = 2 })
	a := h.spawnAt(t, 0, 0)
	b := h.spawnAt(t, 10, 0)
	c := h.spawnAt(t, 500, 0)

	ids, err := h.e.UsePowerUp(powerup.KindChain, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids)

	left := h.e.Worms()
	require.Len(t, left, 1)
	assert.Equal(t, c.ID, left[0].ID)
}

func TestDevilLuresEveryWorm(t *testing.T) {
	h := newHarness(t, nil)
	h.spawnAt(t, 100, 100)
	h.spawnAt(t, 600, 600)

	ids, err := h.e.UsePowerUp(powerup.KindDevil, 300, 300)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	h.sched.Step(16 * time.Millisecond)
	for _, w := range h.e.Worms() {
		assert.Equal(t, worm.StateDevilRush, w.State)
	}

	_, err = h.e.UsePowerUp(powerup.KindSpider, 900, 10)
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestSpawnGating(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Spawn.MaxWorms = 1 })
	require.NoError(t, h.e.RequestSpawn(KindBasic, SpawnRequest{Slot: -1}))
	assert.ErrorIs(t, h.e.RequestSpawn(KindBasic, SpawnRequest{Slot: -1}), spawn.ErrCapacity)
}

func TestConsoleSlotReservedUntilSpawned(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.e.RequestSpawn(KindPurple, SpawnRequest{Slot: 3}))
	assert.ErrorIs(t, h.e.RequestSpawn(KindBasic, SpawnRequest{Slot: 3}), ErrSlotBusy)

	h.sched.Frame()
	ws := h.e.Worms()
	require.Len(t, ws, 1)
	assert.True(t, ws[0].FromConsole)
	assert.True(t, ws[0].Purple)
	assert.True(t, ws[0].CanStealBlue)
	assert.Equal(t, 800.0, ws[0].Y, "console slots sit on the bottom edge")

	assert.NoError(t, h.e.RequestSpawn(KindBasic, SpawnRequest{Slot: 3}))
}

func TestClearLevel(t *testing.T) {
	h := newHarness(t, nil)
	h.spawnAt(t, 100, 100)
	require.NoError(t, h.e.RequestSpawn(KindBasic, SpawnRequest{Slot: 2}))
	require.NoError(t, h.e.RequestSpawn(KindBasic, SpawnRequest{Slot: 4}))

	h.e.ClearLevel()
	assert.Empty(t, h.e.Worms())
	assert.False(t, h.e.FramePending())
	assert.Equal(t, spawn.Status{}, h.e.SpawnStatus())
	assert.Empty(t, h.e.Snapshot().LockedSlots)
	assert.Len(t, h.ofType(event.EventLevelCleared), 1)

	h.sched.Advance(time.Second)
	h.sched.Frame()
	assert.Empty(t, h.e.Worms(), "abandoned spawns never land")
}

func TestRevealInvalidatesCandidates(t *testing.T) {
	h := newHarness(t, nil)
	h.e.LoadSymbols([]symbol.Symbol{
		{Text: "4", Class: symbol.Hidden, Rect: core.NewRect(500, 500, 10, 10)},
	})
	w := h.spawnAt(t, 100, 100)
	h.sched.Step(16 * time.Millisecond)
	require.NotZero(t, w.TargetID)

	require.NoError(t, h.e.RevealSymbol(w.TargetID))
	h.sched.Step(16 * time.Millisecond)
	assert.Zero(t, w.TargetID, "revealed symbols are off limits to basic worms")
	assert.Equal(t, worm.StateWander, w.State)
}

func TestSnapshot(t *testing.T) {
	h := newHarness(t, nil)
	h.e.LoadSymbols([]symbol.Symbol{{Text: "=", Class: symbol.Space}})
	h.spawnAt(t, 50, 50)

	snap := h.e.Snapshot()
	require.Len(t, snap.Worms, 1)
	assert.Equal(t, 50.0, snap.Worms[0].X)
	assert.Len(t, snap.Symbols, 1)
	assert.Contains(t, snap.Metrics, "worm.active")
	assert.Equal(t, snap.SymbolsRev, h.e.Snapshot().SymbolsRev, "unchanged arena keeps its revision")

	h.e.LoadSymbols([]symbol.Symbol{{Text: "x", Class: symbol.Hidden}})
	assert.NotEqual(t, snap.SymbolsRev, h.e.Snapshot().SymbolsRev)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Aggression.MaxDistance = 0
	_, err := New(cfg, Deps{})
	assert.ErrorIs(t, err, config.ErrInvalidAggression)
}
