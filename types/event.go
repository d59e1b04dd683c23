package types

import (
	"fmt"
	"time"
)

type EventAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is an attribute list emitted by a state-changing operation.
// Attribute order is preserved.
type Event struct {
	Type       string           `json:"type"`
	Attributes []EventAttribute `json:"attributes"`
}

func NewEvent(eventType string) *Event {
	return &Event{Type: eventType}
}

func (e *Event) Add(key, value string) *Event {
	e.Attributes = append(e.Attributes, EventAttribute{Key: key, Value: value})
	return e
}

func (e *Event) Get(key string) (string, bool) {
	for _, attr := range e.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// EventRecord is a persisted event history row.
type EventRecord struct {
	ID         uint64
	Type       string
	Attributes []EventAttribute
	Time       time.Time
}

func (e *EventRecord) Key() string {
	return fmt.Sprintf("EventRecord_%020d", e.ID)
}

func (e *EventRecord) Prefix() string {
	return "EventRecord"
}

func (e *EventRecord) SetId(id uint64) {
	e.ID = id
}
