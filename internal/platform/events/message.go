// Package events defines the operation notifications PermitDesk emits to
// the event stream. Every completed handler invocation publishes one
// OperationMessage so downstream consumers can audit record activity.
package events

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Operation names carried by OperationMessage
const (
	OperationRequest = "Request"
	OperationModify  = "Modify"
	OperationGet     = "Get"
)

// OperationMessage is the wire payload published per handled operation.
// The ID is fresh per emission, not the entity id.
type OperationMessage struct {
	ID            uuid.UUID `json:"id"`
	OperationName string    `json:"operationName"`
}

// NewOperationMessage creates a message with a fresh unique id
func NewOperationMessage(operationName string) OperationMessage {
	return OperationMessage{
		ID:            uuid.New(),
		OperationName: operationName,
	}
}

// Encode serializes the message to JSON
func (m OperationMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeOperationMessage decodes a message from JSON
func DecodeOperationMessage(data []byte) (OperationMessage, error) {
	var msg OperationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return OperationMessage{}, err
	}
	return msg, nil
}
