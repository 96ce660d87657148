package fuzzer

// Events is the per-fuzzer listener registry, encapsulated in a Fuzzer
// context object owned by the top-level driver rather than a process-wide
// singleton. It is owned exclusively by one Fuzzer and fires handlers
// synchronously, inline, on that Fuzzer's own serial queue.
type Events struct {
	handlers map[EventKind][]EventHandler
}

// NewEvents returns an empty registry.
func NewEvents() *Events {
	return &Events{handlers: map[EventKind][]EventHandler{}}
}

// On registers h to run every time kind fires, in registration order.
func (e *Events) On(kind EventKind, h EventHandler) {
	e.handlers[kind] = append(e.handlers[kind], h)
}

// Fire runs every handler registered for kind, in order, synchronously.
func (e *Events) Fire(kind EventKind, payload EventPayload) {
	for _, h := range e.handlers[kind] {
		h(payload)
	}
}
