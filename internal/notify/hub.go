// Package notify delivers realtime events to connected users over websocket
// subscriptions. A subscription is tied to one connection and must be closed
// when the connection goes away; Close is idempotent and publishing to a
// closed subscription is a no-op.
package notify

import (
	"sync"

	"helphub-backend/internal/utils"
)

// Conn is the write side of a websocket connection.
type Conn interface {
	WriteJSON(v interface{}) error
}

type Hub struct {
	mu sync.RWMutex
	// userID -> subscriptionID -> subscription
	subs map[string]map[string]*Subscription
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[string]*Subscription)}
}

// Subscription is a cancellable handle for one user's connection.
type Subscription struct {
	ID     string
	UserID string

	hub  *Hub
	conn Conn

	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
}

// Subscribe registers a connection for userID under the given subscription ID
// and returns its handle.
func (h *Hub) Subscribe(userID, subID string, conn Conn) *Subscription {
	sub := &Subscription{ID: subID, UserID: userID, hub: h, conn: conn}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[userID]; !ok {
		h.subs[userID] = make(map[string]*Subscription)
	}
	h.subs[userID][subID] = sub
	return sub
}

// Close tears the subscription down and unregisters it from the hub. Safe to
// call multiple times and from deferred teardown paths.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		if conns, ok := s.hub.subs[s.UserID]; ok {
			delete(conns, s.ID)
			if len(conns) == 0 {
				delete(s.hub.subs, s.UserID)
			}
		}
	})
}

// Send writes an event to the subscription's connection. After Close it does
// nothing and reports no error. Writes are serialized; the underlying
// websocket connection is not safe for concurrent writes.
func (s *Subscription) Send(event interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.conn.WriteJSON(event)
}

// Publish sends an event to every active subscription of userID. Write
// failures are logged; the read loop owns disconnect handling.
func (h *Hub) Publish(userID string, event interface{}) {
	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.subs[userID]))
	for _, sub := range h.subs[userID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		utils.LogError(sub.Send(event), "notify.Publish")
	}
}

// IsOnline reports whether userID has at least one active subscription.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID]) > 0
}

// CountSubscriptions returns the number of active subscriptions for userID.
func (h *Hub) CountSubscriptions(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
