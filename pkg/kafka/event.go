package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope published to Kafka for every storefront event.
type Event struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EntityID      string          `json:"entity_id"`
	EntityType    string          `json:"entity_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEvent builds an event with a generated ID and the current UTC timestamp.
func NewEvent(eventType, entityID, entityType, source string, payload any) (*Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		EntityID:   entityID,
		EntityType: entityType,
		OccurredAt: time.Now().UTC(),
		Source:     source,
		Payload:    body,
	}, nil
}

// WithCorrelationID sets the correlation ID on the event.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// Marshal serializes the event envelope to JSON.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalPayload decodes the event payload into target.
func (e *Event) UnmarshalPayload(target any) error {
	return json.Unmarshal(e.Payload, target)
}

// UnmarshalEvent decodes an event envelope from JSON.
func UnmarshalEvent(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
