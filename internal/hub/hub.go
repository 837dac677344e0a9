// Package hub implements the in-process fan-out of newly created
// activities to live subscribers. Delivery is at-most-once: late
// joiners never see past events and nothing is buffered for
// disconnected subscribers.
package hub

import (
	"log/slog"
	"sync"

	"github.com/kolapsis/crier/internal/activity"
	"github.com/kolapsis/crier/internal/observability"
)

// DefaultBuffer is the per-subscriber event buffer size.
const DefaultBuffer = 16

// Hub fans out published activities to all registered subscribers.
// Subscribe, Unsubscribe and Publish are safe for concurrent use.
type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	buffer int
}

// Subscription is one live subscriber's view of the event stream.
// Events are delivered in publish order. The channel is closed when
// the subscription ends, whether by Close or by eviction.
type Subscription struct {
	hub *Hub
	ch  chan activity.Activity
}

// New creates a Hub. buffer is the per-subscriber queue depth; values
// below 1 fall back to DefaultBuffer.
func New(buffer int) *Hub {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber. The subscriber receives every
// activity published after this call, until it calls Close or falls
// too far behind.
func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{
		hub: h,
		ch:  make(chan activity.Activity, h.buffer),
	}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	observability.HubSubscribed()
	return s
}

// Publish delivers a to every subscriber registered at the moment of
// the call. It never blocks on a subscriber: the send goes to the
// subscriber's buffer, and a subscriber whose buffer is full is
// evicted so one stalled consumer cannot hold up the rest. With zero
// subscribers the event is dropped.
func (h *Hub) Publish(a activity.Activity) {
	h.mu.Lock()
	for s := range h.subs {
		select {
		case s.ch <- a:
			observability.HubDelivered()
		default:
			// Buffer full: the consumer stopped draining. Evict it.
			delete(h.subs, s)
			close(s.ch)
			observability.HubUnsubscribed()
			observability.HubDropped()
			slog.Warn("evicting slow subscriber", "activity_id", a.ID)
		}
	}
	h.mu.Unlock()
}

// Subscribers returns the number of currently registered subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// remove deregisters s. Close wins over a concurrent Publish: both
// membership changes and channel sends happen under the same lock, so
// once removal commits no further delivery can reach s, and the
// channel is closed exactly once by whichever side removes it first.
func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.ch)
	observability.HubUnsubscribed()
}

// Events returns the subscriber's event channel. It is closed when
// the subscription ends; events queued before the close may still be
// drained from the buffer.
func (s *Subscription) Events() <-chan activity.Activity {
	return s.ch
}

// Close deregisters the subscription. Safe to call concurrently with
// Publish and idempotent: closing twice is a no-op.
func (s *Subscription) Close() {
	s.hub.remove(s)
}
