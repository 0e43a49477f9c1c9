package notifications

import (
	"sync"
	"time"
)

const (
	EventDayUpdated     = "day_updated"
	EventDayCleared     = "day_cleared"
	EventProfileUpdated = "profile_updated"
	EventDishesUpdated  = "dishes_updated"
)

type Event struct {
	Type      string    `json:"type"`
	Date      string    `json:"date,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub рассылает события об изменениях дневника SSE-подписчикам.
// Приложение однопользовательское, поэтому подписки не разделяются по
// пользователям: каждое событие получают все открытые вкладки интерфейса.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe возвращает канал событий и функцию отписки.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 10)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
}

// Publish отправляет событие всем подписчикам. Медленный подписчик событие
// теряет, но не блокирует остальных.
func (h *Hub) Publish(event Event) {
	event.Timestamp = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
