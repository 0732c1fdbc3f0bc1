// Package events carries in-process notifications between the transport
// layer and the session guard. Keeping the unauthorized signal as an explicit
// event avoids hiding de-authentication control flow inside HTTP plumbing.
package events

import "sync"

// Unsubscribe removes a previously registered subscriber.
type Unsubscribe func()

// Hub fans out unauthorized notifications to subscribers. Emission is
// synchronous: EmitUnauthorized returns after every subscriber has run.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]func())}
}

// SubscribeUnauthorized registers fn to run on every unauthorized response.
func (h *Hub) SubscribeUnauthorized(fn func()) Unsubscribe {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// EmitUnauthorized notifies all subscribers of a 401 response. Subscribers
// run outside the hub lock so they may subscribe or unsubscribe reentrantly.
func (h *Hub) EmitUnauthorized() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
