package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventEligibilityChecked = "eligibility_checked"
	EventBookingSubmitted   = "booking_submitted"
	EventBookingConfirmed   = "booking_confirmed"
	EventBookingFailed      = "booking_failed"
)

// BookingEventPayload describes the minimal draft snapshot for event
// consumers (history log, notifier, report worker).
type BookingEventPayload struct {
	DraftID    string    `json:"draft_id"`
	BookingID  int64     `json:"booking_id,omitempty"`
	TenantID   int64     `json:"tenant_id"`
	RoomID     int64     `json:"room_id"`
	RoomName   string    `json:"room_name"`
	RentalType string    `json:"rental_type"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
	Processed bool
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
