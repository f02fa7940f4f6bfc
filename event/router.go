package event

// Handler processes routed events
// Components implement this to receive events without knowing the publisher
type Handler interface {
	// HandleEvent processes a single event, called synchronously during dispatch
	HandleEvent(ev GameEvent)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// HandlerFunc adapts a function subscribed to fixed types
type HandlerFunc struct {
	Types []EventType
	Fn    func(ev GameEvent)
}

func (h HandlerFunc) HandleEvent(ev GameEvent) { h.Fn(ev) }
func (h HandlerFunc) EventTypes() []EventType  { return h.Types }

type subscription struct {
	id      uint64
	handler Handler
}

// Router dispatches queued events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch from the frame loop
//   - Multiple handlers per type, invoked in registration order
//   - Registration is not safe concurrently with DispatchAll
type Router struct {
	handlers map[EventType][]subscription
	queue    *EventQueue
	nextID   uint64
}

// NewRouter creates a router attached to the given queue
func NewRouter(queue *EventQueue) *Router {
	return &Router{
		handlers: make(map[EventType][]subscription),
		queue:    queue,
	}
}

// Queue exposes the attached queue for publishers
func (r *Router) Queue() *EventQueue {
	return r.queue
}

// Register adds a handler for its declared event types
// The returned func removes it again
func (r *Router) Register(handler Handler) (unregister func()) {
	r.nextID++
	id := r.nextID
	types := handler.EventTypes()
	for _, t := range types {
		r.handlers[t] = append(r.handlers[t], subscription{id: id, handler: handler})
	}
	return func() {
		for _, t := range types {
			subs := r.handlers[t]
			for i, s := range subs {
				if s.id == id {
					r.handlers[t] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		}
	}
}

// Subscribe registers fn for the given types
func (r *Router) Subscribe(fn func(ev GameEvent), types ...EventType) (unsubscribe func()) {
	return r.Register(HandlerFunc{Types: types, Fn: fn})
}

// DispatchAll consumes pending events and routes them in FIFO order
// Returns the number of events consumed
func (r *Router) DispatchAll() int {
	events := r.queue.Consume()
	for _, ev := range events {
		for _, s := range r.handlers[ev.Type] {
			s.handler.HandleEvent(ev)
		}
	}
	return len(events)
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
