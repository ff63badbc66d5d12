package api

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesUpdates(t *testing.T) {
	s := NewSubscribeService()
	defer s.Close()

	id, sub := s.Subscribe()
	defer s.Unsubscribe(id)

	eventID := uuid.New()
	s.NotifyEventUpdated(eventID)

	select {
	case got := <-sub:
		assert.Equal(t, eventID, got)
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := NewSubscribeService()
	defer s.Close()

	id, sub := s.Subscribe()
	s.Unsubscribe(id)

	s.NotifyEventUpdated(uuid.New())

	select {
	case _, ok := <-sub:
		require.False(t, ok, "unexpected update after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotifyReachesEverySubscriber(t *testing.T) {
	s := NewSubscribeService()
	defer s.Close()

	id1, sub1 := s.Subscribe()
	id2, sub2 := s.Subscribe()
	defer s.Unsubscribe(id1)
	defer s.Unsubscribe(id2)

	eventID := uuid.New()
	s.NotifyEventUpdated(eventID)

	for _, sub := range []chan uuid.UUID{sub1, sub2} {
		select {
		case got := <-sub:
			assert.Equal(t, eventID, got)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed update")
		}
	}
}

func TestNotifyAfterCloseDoesNotBlock(t *testing.T) {
	s := NewSubscribeService()
	s.Close()

	returned := make(chan struct{})
	go func() {
		s.NotifyEventUpdated(uuid.New())
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("NotifyEventUpdated blocked after Close")
	}
}

func TestCloseClosesSubscriberChannels(t *testing.T) {
	s := NewSubscribeService()

	_, sub1 := s.Subscribe()
	_, sub2 := s.Subscribe()

	s.Close()

	for _, sub := range []chan uuid.UUID{sub1, sub2} {
		select {
		case _, ok := <-sub:
			require.False(t, ok, "channel should be closed, not delivering")
		case <-time.After(time.Second):
			t.Fatal("subscriber channel still open after Close")
		}
	}

	// A second Close is a no-op rather than a double close.
	s.Close()
}

func TestSubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	s := NewSubscribeService()
	s.Close()

	_, sub := s.Subscribe()

	select {
	case _, ok := <-sub:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel from post-Close Subscribe should be closed")
	}
}
