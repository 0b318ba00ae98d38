package realtime

import (
	"sort"
	"sync"

	"github.com/cs2stats/cs2stats/internal/logging"
)

// Hub maintains the set of active subscribers and fans messages out to them.
// Register, Unregister and Broadcast are all safe for concurrent use; the
// subscriber set is guarded by a single mutex and Broadcast iterates over a
// sorted snapshot while holding it. Removal never closes the send channel,
// only signals the subscriber's done channel, so a reply racing a removal
// cannot panic.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]bool
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Subscriber]bool)}
}

// Register adds a subscriber. Registration takes effect for the next
// Broadcast; in-flight broadcasts do not see it.
func (h *Hub) Register(s *Subscriber) {
	h.mu.Lock()
	h.subscribers[s] = true
	total := len(h.subscribers)
	h.mu.Unlock()
	logging.Info().Int("total_subscribers", total).Msg("websocket subscriber connected")
}

// Unregister removes a subscriber and signals it to shut down. Safe to call
// more than once.
func (h *Hub) Unregister(s *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[s]; ok {
		delete(h.subscribers, s)
		s.shutdown()
	}
	total := len(h.subscribers)
	h.mu.Unlock()
	logging.Info().Int("total_subscribers", total).Msg("websocket subscriber disconnected")
}

// Broadcast delivers msg to every registered subscriber at most once. The
// send is non-blocking: a subscriber whose buffer is full is dropped rather
// than allowed to stall the rest.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers := make([]*Subscriber, 0, len(h.subscribers))
	for s := range h.subscribers {
		subscribers = append(subscribers, s)
	}
	sort.Slice(subscribers, func(i, j int) bool { return subscribers[i].id < subscribers[j].id })

	var toRemove []*Subscriber
	for _, s := range subscribers {
		select {
		case s.send <- msg:
		default:
			toRemove = append(toRemove, s)
		}
	}

	for _, s := range toRemove {
		s.shutdown()
		delete(h.subscribers, s)
		logging.Warn().Uint64("subscriber_id", s.id).Msg("dropping slow websocket subscriber")
	}
}

// CloseAll disconnects every subscriber. Called during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subscribers {
		s.shutdown()
		delete(h.subscribers, s)
	}
}

// SubscriberCount returns the number of registered subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
