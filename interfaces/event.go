package interfaces

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	// Transaction events
	EventTypeTransactionCreated EventType = "ledger.transaction.created"
	EventTypeTransactionUpdated EventType = "ledger.transaction.updated"
	EventTypeTransactionDeleted EventType = "ledger.transaction.deleted"

	// Transfer events
	EventTypeTransferCompleted EventType = "ledger.transfer.completed"

	// Wallet events
	EventTypeWalletBalance EventType = "ledger.wallet.balance"
)

// Event is a ledger change announced after its unit of work committed.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	UserID    string                 `json:"user_id"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

func (e *Event) String() string {
	// Serialize the entire event structure to JSON
	jsonData, err := json.Marshal(e)
	if err != nil {
		return "Error serializing event"
	}
	return string(jsonData)
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, source, userID string) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Data:      make(map[string]interface{}),
	}
}

// WithData adds data to the event
func (e *Event) WithData(key string, value interface{}) *Event {
	e.Data[key] = value
	return e
}
