// Package realtime fans out template events (new comments) to live
// WebSocket subscribers.
package realtime

import (
	"strings"
	"sync"
)

const DefaultBuffer = 16

// Hub is a registry of subscribers keyed by template ID.
type Hub struct {
	mu      sync.Mutex
	topics  map[uint]map[*Subscription]struct{}
	buffer  int
	origins map[string]struct{}
}

type Subscription struct {
	C     <-chan []byte
	ch    chan []byte
	topic uint
	hub   *Hub
}

// NewHub creates a hub whose sockets accept browser connections from the
// given origins and from the API's own host.
func NewHub(buffer int, origins ...string) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	return &Hub{topics: make(map[uint]map[*Subscription]struct{}), buffer: buffer, origins: allowed}
}

func (h *Hub) Subscribe(topic uint) *Subscription {
	ch := make(chan []byte, h.buffer)
	sub := &Subscription{C: ch, ch: ch, topic: topic, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Close unsubscribes and closes C. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.hub.removeLocked(s)
}

func (h *Hub) removeLocked(s *Subscription) {
	subs, ok := h.topics[s.topic]
	if !ok {
		return
	}
	if _, ok := subs[s]; !ok {
		return
	}
	delete(subs, s)
	close(s.ch)
	if len(subs) == 0 {
		delete(h.topics, s.topic)
	}
}

// Publish delivers msg to every subscriber of topic without blocking.
// Subscribers whose buffer is full are dropped. It returns the number of
// subscribers that received the message.
func (h *Hub) Publish(topic uint, msg []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for sub := range h.topics[topic] {
		select {
		case sub.ch <- msg:
			delivered++
		default:
			h.removeLocked(sub)
		}
	}
	return delivered
}

func (h *Hub) Subscribers(topic uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}
