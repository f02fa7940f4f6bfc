package event

import "reflect"

// Wire names follow the DOM custom-event names the browser client listens for
var (
	typeToName    = make(map[EventType]string, eventTypeCount)
	nameToType    = make(map[string]EventType, eventTypeCount)
	typeToPayload = make(map[EventType]reflect.Type, eventTypeCount)
)

func register(name string, et EventType, payloadInstance any) {
	typeToName[et] = name
	nameToType[name] = et
	if payloadInstance != nil {
		t := reflect.TypeOf(payloadInstance)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		typeToPayload[et] = t
	}
}

func init() {
	register("cursor-update", EventCursorUpdate, &CursorPayload{})
	register("cursor-tap", EventCursorTap, &CursorPayload{})
	register("symbol-stolen", EventSymbolStolen, &SymbolStolenPayload{})
	register("symbol-revealed", EventSymbolRevealed, &SymbolRevealedPayload{})
	register("near-miss-warning", EventNearMissWarning, &NearMissPayload{})
	register("near-miss-cleared", EventNearMissCleared, &NearMissClearedPayload{})
	register("worm-spawned", EventWormSpawned, &WormSpawnedPayload{})
	register("worm-removed", EventWormRemoved, &WormRemovedPayload{})
	register("worm-escaped", EventWormEscaped, &WormEscapedPayload{})
	register("power-up-used", EventPowerUpUsed, &PowerUpPayload{})
	register("level-cleared", EventLevelCleared, nil)
}

// Name returns the wire name of an event type, "" if unregistered
func Name(et EventType) string {
	return typeToName[et]
}

// TypeByName resolves a wire name
func TypeByName(name string) (EventType, bool) {
	et, ok := nameToType[name]
	return et, ok
}

// NewPayload returns a pointer to a zero payload for et, nil when the event carries none
func NewPayload(et EventType) any {
	t, ok := typeToPayload[et]
	if !ok {
		return nil
	}
	return reflect.New(t).Interface()
}

// Types lists every registered event type in declaration order
func Types() []EventType {
	out := make([]EventType, 0, eventTypeCount)
	for et := EventNone + 1; et < eventTypeCount; et++ {
		if _, ok := typeToName[et]; ok {
			out = append(out, et)
		}
	}
	return out
}
