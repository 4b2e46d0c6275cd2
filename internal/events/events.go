package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated        = "booking_created"
	EventBookingStatusChanged  = "booking_status_changed"
	EventBookingServiceChanged = "booking_service_changed"
)

// AllEventTypes lists every event the ledger publishes.
var AllEventTypes = []string{EventBookingCreated, EventBookingStatusChanged, EventBookingServiceChanged}

// BookingEventPayload describes the booking snapshot for event consumers.
type BookingEventPayload struct {
	BookingID   int64  `json:"booking_id"`
	UserID      int64  `json:"user_id"`
	RoomID      int64  `json:"room_id"`
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
	Status      string `json:"status"`
	PrevStatus  string `json:"prev_status,omitempty"`
	ChangedBy   string `json:"changed_by,omitempty"`
	ChangedByID int64  `json:"changed_by_id,omitempty"`
}

// ServiceEventPayload is published when a service is attached, re-quantified or detached.
type ServiceEventPayload struct {
	BookingID   int64  `json:"booking_id"`
	ServiceID   int64  `json:"service_id"`
	Quantity    int    `json:"quantity"`
	Op          string `json:"op"`
	ChangedBy   string `json:"changed_by,omitempty"`
	ChangedByID int64  `json:"changed_by_id,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
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

// Publish notifies subscribers of the event type. Handler errors are not propagated.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
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
