package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventProjectCreated       = "project.created"
	EventProjectDeleted       = "project.deleted"
	EventProjectUnitsAdjusted = "project.units.adjusted"
	EventUnitUpdated          = "project.unit.updated"

	EventUserCreated = "user.created"
	EventUserDeleted = "user.deleted"
)

// Exchange names
const (
	ExchangeProjectEvents = "project.events"
	ExchangeUserEvents    = "user.events"
)

// Event is the base event structure
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      dataBytes,
	}, nil
}
