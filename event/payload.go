package event

// CursorPayload mirrors the tracker state at broadcast time
type CursorPayload struct {
	X           float64 `json:"x" msgpack:"x"`
	Y           float64 `json:"y" msgpack:"y"`
	IsActive    bool    `json:"isActive" msgpack:"isActive"`
	PointerType string  `json:"pointerType" msgpack:"pointerType"`
}

// SymbolStolenPayload identifies the thief and the taken symbol
type SymbolStolenPayload struct {
	WormID      string `json:"wormId" msgpack:"wormId"`
	SymbolID    int    `json:"symbolId" msgpack:"symbolId"`
	Text        string `json:"text" msgpack:"text"`
	WasRevealed bool   `json:"wasRevealed" msgpack:"wasRevealed"`
}

// SymbolRevealedPayload identifies a newly revealed symbol
type SymbolRevealedPayload struct {
	SymbolID int    `json:"symbolId" msgpack:"symbolId"`
	Text     string `json:"text" msgpack:"text"`
}

// NearMissPayload carries the warning band a worm is in
// Urgency: 1 = approaching, 2 = urgent, 3 = critical
type NearMissPayload struct {
	WormID   string  `json:"wormId" msgpack:"wormId"`
	SymbolID int     `json:"symbolId" msgpack:"symbolId"`
	Urgency  int     `json:"urgencyLevel" msgpack:"urgencyLevel"`
	Distance float64 `json:"distance" msgpack:"distance"`
}

// NearMissClearedPayload ends a warning
type NearMissClearedPayload struct {
	WormID   string `json:"wormId" msgpack:"wormId"`
	SymbolID int    `json:"symbolId" msgpack:"symbolId"`
}

// WormSpawnedPayload describes a new worm
type WormSpawnedPayload struct {
	WormID      string  `json:"wormId" msgpack:"wormId"`
	Kind        string  `json:"kind" msgpack:"kind"`
	X           float64 `json:"x" msgpack:"x"`
	Y           float64 `json:"y" msgpack:"y"`
	Purple      bool    `json:"purple" msgpack:"purple"`
	FromConsole bool    `json:"fromConsole" msgpack:"fromConsole"`
	Slot        int     `json:"slot" msgpack:"slot"`
}

// RemovalReason explains why a worm left the live set
type RemovalReason string

const (
	RemovalCaptured   RemovalReason = "captured"
	RemovalExploded   RemovalReason = "exploded"
	RemovalLevelClear RemovalReason = "level-clear"
	RemovalPowerUp    RemovalReason = "power-up"
)

// WormRemovedPayload describes a removed worm
type WormRemovedPayload struct {
	WormID string        `json:"wormId" msgpack:"wormId"`
	Reason RemovalReason `json:"reason" msgpack:"reason"`
	X      float64       `json:"x" msgpack:"x"`
	Y      float64       `json:"y" msgpack:"y"`
}

// WormEscapedPayload describes a started flee burst
type WormEscapedPayload struct {
	WormID string  `json:"wormId" msgpack:"wormId"`
	VX     float64 `json:"vx" msgpack:"vx"`
	VY     float64 `json:"vy" msgpack:"vy"`
}

// PowerUpPayload lists the worms a power-up resolved to
type PowerUpPayload struct {
	Kind    string   `json:"kind" msgpack:"kind"`
	X       float64  `json:"x" msgpack:"x"`
	Y       float64  `json:"y" msgpack:"y"`
	Targets []string `json:"targets" msgpack:"targets"`
}
