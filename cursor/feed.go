package cursor

import "sync"

// Kind is the pointer event category
type Kind uint8

const (
	KindMove Kind = iota
	KindDown
	KindLeave
)

// PointerEvent is one raw pointer sample from the host
type PointerEvent struct {
	Kind        Kind
	X, Y        float64
	PointerType string // "mouse", "touch", "pen"
}

// Feed delivers pointer events to subscribers
type Feed interface {
	// Subscribe registers fn, the returned func detaches it
	Subscribe(fn func(PointerEvent)) (unsubscribe func())
}

type listener struct {
	id uint64
	fn func(PointerEvent)
}

// Broadcaster is an in-process Feed, hosts call Emit for each raw event
// Listeners run in subscription order
type Broadcaster struct {
	mu     sync.RWMutex
	subs   []listener
	nextID uint64
}

// NewBroadcaster creates a feed with no listeners
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

func (b *Broadcaster) Subscribe(fn func(PointerEvent)) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, listener{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, l := range b.subs {
			if l.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers ev to every listener on the caller's goroutine
func (b *Broadcaster) Emit(ev PointerEvent) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, l := range subs {
		l.fn(ev)
	}
}

// Listeners returns the subscriber count
func (b *Broadcaster) Listeners() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
