// Package symbol holds the equation symbol arena worms target and steal from
package symbol

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/algebra-worms/core"
)

// Class is the mutually exclusive classification of a symbol
type Class uint8

const (
	Hidden Class = iota
	Revealed
	Stolen
	Space
	CompletedRow
)

var classNames = [...]string{
	Hidden:       "hidden",
	Revealed:     "revealed",
	Stolen:       "stolen",
	Space:        "space",
	CompletedRow: "completed-row",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// ParseClass maps a wire name back to its Class
func ParseClass(s string) (Class, bool) {
	for i, name := range classNames {
		if name == s {
			return Class(i), true
		}
	}
	return Hidden, false
}

// MarshalText encodes the class by wire name
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a wire name, rejecting unknown classes
func (c *Class) UnmarshalText(b []byte) error {
	v, ok := ParseClass(string(b))
	if !ok {
		return fmt.Errorf("symbol: unknown class %q", b)
	}
	*c = v
	return nil
}

// Targetable reports whether a worm may ever target this class
func (c Class) Targetable() bool {
	return c == Hidden || c == Revealed
}

// Symbol is one arena record
// ID is assigned by the pool and stays stable for the symbol's lifetime
type Symbol struct {
	ID    int       `json:"id" msgpack:"id"`
	Text  string    `json:"text" msgpack:"text"`
	Class Class     `json:"class" msgpack:"class"`
	Rect  core.Rect `json:"rect" msgpack:"rect"`
	Row   int       `json:"row" msgpack:"row"`

	// Screen velocity while the UI animates the symbol, px/sec
	VX float64 `json:"vx" msgpack:"vx"`
	VY float64 `json:"vy" msgpack:"vy"`
}

// Center returns the rect midpoint worms steer toward
func (s Symbol) Center() core.Point {
	return s.Rect.Center()
}

// Normalize folds symbol text for sticky target matching
// Case-folds everything, then any "x" becomes "X" so the variable compares equal in either case
func Normalize(text string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), "x", "X")
}
