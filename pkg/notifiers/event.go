package notifiers

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the SDK.
const (
	EventTransactionCreated = "transaction.created"
	EventNetworkStatus      = "network.status"
)

// Event represents the payload published downstream.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Payload   any       `json:"payload"`
	EmittedAt time.Time `json:"emitted_at"`
}

// NewEvent constructs an Event of the given type. Source identifies the API the payload came from.
func NewEvent(typ, source string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Source:    source,
		Payload:   payload,
		EmittedAt: time.Now().UTC(),
	}
}
