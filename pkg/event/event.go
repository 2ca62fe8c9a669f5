// Package event is a minimal in-process event dispatcher. Services fire
// domain events ("sale.created", "stock.updated", ...) and listeners are
// registered once at boot.
package event

import "sync"

// Handler receives the event payload.
type Handler func(payload any)

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(name string, h Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], h)
}

// Fire dispatches the event synchronously to every registered listener, in
// registration order.
func Fire(name string, payload any) {
	for _, h := range snapshot(name) {
		h(payload)
	}
}

// FireAsync dispatches the event to every listener in its own goroutine and
// returns immediately.
func FireAsync(name string, payload any) {
	for _, h := range snapshot(name) {
		go h(payload)
	}
}

func snapshot(name string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[name]))
	copy(hs, handlers[name])
	return hs
}

// ListenerCount returns how many handlers are registered for name.
func ListenerCount(name string) int {
	mu.RLock()
	defer mu.RUnlock()
	return len(handlers[name])
}

// Flush removes all listeners. Used by tests.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
