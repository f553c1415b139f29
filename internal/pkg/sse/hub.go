package sse

import (
	"sync"
	"time"
)

// Event types pushed to connected clients
const (
	EventAdminRequestSubmitted = "admin_request.submitted"
	EventAdminRequestApproved  = "admin_request.approved"
	EventAdminRequestRejected  = "admin_request.rejected"
)

// Event represents an SSE event to be sent to subscribers
type Event struct {
	ProfileID string      `json:"-"`
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	SentAt    time.Time   `json:"sent_at"`
}

// Publisher is the write side of the hub used by services.
type Publisher interface {
	Publish(profileID string, event Event)
	PublishToMany(profileIDs []string, event Event)
}

// Hub manages SSE subscribers keyed by profile id
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber for a profile and returns the event channel and cleanup function
func (h *Hub) Subscribe(profileID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[profileID] == nil {
		h.subscribers[profileID] = make(map[chan Event]struct{})
	}
	h.subscribers[profileID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[profileID], ch)
			close(ch)
			if len(h.subscribers[profileID]) == 0 {
				delete(h.subscribers, profileID)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of a specific profile
func (h *Hub) Publish(profileID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.ProfileID = profileID
	if event.SentAt.IsZero() {
		event.SentAt = time.Now()
	}

	for ch := range h.subscribers[profileID] {
		select {
		case ch <- event:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
}

// PublishToMany sends an event to multiple profiles
func (h *Hub) PublishToMany(profileIDs []string, event Event) {
	for _, profileID := range profileIDs {
		h.Publish(profileID, event)
	}
}

// SubscriberCount returns the number of active subscribers for a profile
func (h *Hub) SubscriberCount(profileID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[profileID])
}

// TotalSubscribers returns the total number of active subscribers across all profiles
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
