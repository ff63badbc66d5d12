package api

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yourusername/splitsight/internal/metrics"
)

// SubscribeService fans event-updated notifications out to connected
// websocket clients. It implements service.UpdateNotifier.
type SubscribeService struct {
	mu          sync.Mutex
	subscribers map[int]chan uuid.UUID
	lastID      int
	closed      bool
	control     chan uuid.UUID
	done        chan struct{}
}

// NewSubscribeService creates a subscription service and starts its fan-out
// loop.
func NewSubscribeService() *SubscribeService {
	s := &SubscribeService{
		subscribers: make(map[int]chan uuid.UUID),
		control:     make(chan uuid.UUID),
		done:        make(chan struct{}),
	}
	go s.service()
	return s
}

func (s *SubscribeService) service() {
	for {
		select {
		case eventID := <-s.control:
			s.mu.Lock()
			for _, sub := range s.subscribers {
				// Drop the notification rather than block the loop on a
				// slow client; the next update will reach it.
				select {
				case sub <- eventID:
				default:
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// Subscribe registers a client and returns its id and the channel updates
// arrive on.
func (s *SubscribeService) Subscribe() (id int, c chan uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	c = make(chan uuid.UUID, 8)
	if s.closed {
		close(c)
		return s.lastID, c
	}
	s.subscribers[s.lastID] = c
	metrics.WebsocketSubscribers.Set(float64(len(s.subscribers)))

	return s.lastID, c
}

// Unsubscribe removes the client with the given id.
func (s *SubscribeService) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.subscribers, id)
	metrics.WebsocketSubscribers.Set(float64(len(s.subscribers)))
}

// NotifyEventUpdated tells every subscriber that an event's results changed.
// Notifications arriving after Close are discarded.
func (s *SubscribeService) NotifyEventUpdated(eventID uuid.UUID) {
	select {
	case s.control <- eventID:
	case <-s.done:
	}
}

// Close stops the fan-out loop and closes every subscriber channel so
// clients ranging over them terminate.
func (s *SubscribeService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	for id, sub := range s.subscribers {
		close(sub)
		delete(s.subscribers, id)
	}
	metrics.WebsocketSubscribers.Set(0)
}
