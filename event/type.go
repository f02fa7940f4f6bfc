package event

// EventType identifies a simulation event
type EventType int

const (
	// EventNone is the zero value and never published
	EventNone EventType = iota

	// EventCursorUpdate signals an accepted pointer move, a pointer-down or a pointer-leave
	// Trigger: cursor.Tracker
	// Consumer: network broadcaster, sandbox renderer | Payload: *CursorPayload
	EventCursorUpdate

	// EventCursorTap signals a pointer-down, never throttled
	// Trigger: cursor.Tracker
	// Consumer: engine (escape burst, click power-ups) | Payload: *CursorPayload
	EventCursorTap

	// EventSymbolStolen signals a worm reached its target and took the symbol
	// Trigger: engine contact check
	// Consumer: UI, audio | Payload: *SymbolStolenPayload
	EventSymbolStolen

	// EventSymbolRevealed signals a hidden symbol became revealed
	// Trigger: engine.RevealSymbol | Payload: *SymbolRevealedPayload
	EventSymbolRevealed

	// EventNearMissWarning signals a worm closing on its target
	// Re-emitted only when urgency changes
	// Consumer: UI, audio | Payload: *NearMissPayload
	EventNearMissWarning

	// EventNearMissCleared signals a previously warned worm moved away or lost its target
	// Payload: *NearMissClearedPayload
	EventNearMissCleared

	// EventWormSpawned signals a worm entered the live set
	// Trigger: spawn queue callback | Payload: *WormSpawnedPayload
	EventWormSpawned

	// EventWormRemoved signals a worm left the live set
	// Trigger: capture, explosion, level transition | Payload: *WormRemovedPayload
	EventWormRemoved

	// EventWormEscaped signals a worm entered its flee burst after a click
	// Payload: *WormEscapedPayload
	EventWormEscaped

	// EventPowerUpUsed signals a power-up resolved its targets
	// Payload: *PowerUpPayload
	EventPowerUpUsed

	// EventLevelCleared signals all worms and pending spawns were discarded
	// Payload: nil
	EventLevelCleared

	eventTypeCount
)

// GameEvent is one published occurrence
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64
}
