package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyCompanySubscribers(t *testing.T) {
	hub := NewHub()

	chA, cleanupA := hub.Subscribe("company-a")
	defer cleanupA()
	chB, cleanupB := hub.Subscribe("company-b")
	defer cleanupB()

	hub.Publish("company-a", Event{Event: EventPayrollProcessed, Data: map[string]int{"count": 3}})

	select {
	case ev := <-chA:
		assert.Equal(t, EventPayrollProcessed, ev.Event)
		assert.Equal(t, "company-a", ev.CompanyID)
	default:
		t.Fatal("expected event for company-a")
	}

	select {
	case ev := <-chB:
		t.Fatalf("company-b received foreign event %v", ev)
	default:
	}
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe("company-a")
	require.Equal(t, 1, hub.SubscriberCount("company-a"))
	require.Equal(t, 1, hub.TotalSubscribers())

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("company-a"))
	assert.Equal(t, 0, hub.TotalSubscribers())
}

func TestHub_PublishDoesNotBlockOnFullChannel(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("company-a")
	defer cleanup()

	for i := 0; i < 50; i++ {
		hub.Publish("company-a", Event{Event: EventTransactionCompleted})
	}
}
