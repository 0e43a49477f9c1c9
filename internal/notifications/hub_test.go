package notifications

import (
	"testing"
	"time"
)

// TestHubPublishSubscribe проверяет доставку событий подписчику.
func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	hub.Publish(Event{Type: EventDayUpdated, Date: "2024-05-01"})

	select {
	case event := <-ch:
		if event.Type != EventDayUpdated {
			t.Fatalf("expected day_updated, got %s", event.Type)
		}
		if event.Date != "2024-05-01" {
			t.Fatalf("expected date, got %s", event.Date)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event to be delivered")
	}
}

// TestHubUnsubscribe проверяет закрытие канала после отписки.
func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe()
	unsubscribe()
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}

	// Публикация без подписчиков не должна паниковать.
	hub.Publish(Event{Type: EventDayCleared})
}
