package store

import (
	"sync"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/google/uuid"
)

// Hub fans snapshots out to subscribers. Each subscriber channel holds at
// most one snapshot: a newer one replaces an unread older one, and
// revisions never go backwards for a given subscriber.
type Hub struct {
	mu        sync.Mutex
	subs      map[string]map[string]*subscriber
	published map[string]int64
}

type subscriber struct {
	mu        sync.Mutex
	ch        chan domain.Timeline
	last      int64
	delivered bool
	closed    bool
}

func NewHub() *Hub {
	return &Hub{
		subs:      make(map[string]map[string]*subscriber),
		published: make(map[string]int64),
	}
}

// add registers a subscriber and returns its id and channel.
func (h *Hub) add(timelineID string) (string, *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := uuid.New().String()
	sub := &subscriber{ch: make(chan domain.Timeline, 1)}
	if h.subs[timelineID] == nil {
		h.subs[timelineID] = make(map[string]*subscriber)
	}
	h.subs[timelineID][id] = sub
	return id, sub
}

// remove unregisters and closes a subscriber.
func (h *Hub) remove(timelineID, subID string) {
	h.mu.Lock()
	sub, ok := h.subs[timelineID][subID]
	delete(h.subs[timelineID], subID)
	if len(h.subs[timelineID]) == 0 {
		delete(h.subs, timelineID)
	}
	h.mu.Unlock()
	if ok {
		sub.close()
	}
}

// Publish delivers t to every subscriber of t.ID.
func (h *Hub) Publish(t domain.Timeline) {
	h.mu.Lock()
	if t.Revision > h.published[t.ID] {
		h.published[t.ID] = t.Revision
	}
	subs := make([]*subscriber, 0, len(h.subs[t.ID]))
	for _, s := range h.subs[t.ID] {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.offer(t.Clone())
	}
}

// Published returns the highest revision published for a timeline.
func (h *Hub) Published(timelineID string) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.published[timelineID]
}

// Subscribed lists timeline ids with at least one subscriber.
func (h *Hub) Subscribed() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	return ids
}

// SubscriberCount is the number of open subscriptions to a timeline.
func (h *Hub) SubscriberCount(timelineID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[timelineID])
}

func (s *subscriber) offer(t domain.Timeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || (s.delivered && t.Revision <= s.last) {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- t
	s.last, s.delivered = t.Revision, true
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
