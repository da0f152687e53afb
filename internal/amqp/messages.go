package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"caisse/internal/core"
)

const (
	TypeRecorded = "transaction.recorded"
	TypeDeleted  = "transaction.deleted"
)

var ErrUnknownMessageType = errors.New("unknown archive message type")

// ArchiveMessage mirrors a ledger mutation to the archive worker. The
// web process keeps the ledger in memory, so recorded messages carry the
// full record; the worker has nothing to re-fetch it from.
type ArchiveMessage struct {
	Type        string            `json:"type"`
	Transaction *core.Transaction `json:"transaction,omitempty"`
	ID          string            `json:"id,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// NewRecordedMessage builds the message for an accepted add or update.
func NewRecordedMessage(tx core.Transaction) *ArchiveMessage {
	return &ArchiveMessage{
		Type:        TypeRecorded,
		Transaction: &tx,
		Timestamp:   time.Now(),
	}
}

// NewDeletedMessage builds the message for a removal.
func NewDeletedMessage(id string) *ArchiveMessage {
	return &ArchiveMessage{
		Type:      TypeDeleted,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ArchiveMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Validate checks that the payload matches the declared type.
func (m *ArchiveMessage) Validate() error {
	switch m.Type {
	case TypeRecorded:
		if m.Transaction == nil {
			return errors.New("recorded message without transaction payload")
		}
		return nil
	case TypeDeleted:
		if m.ID == "" {
			return errors.New("deleted message without id")
		}
		return nil
	default:
		return ErrUnknownMessageType
	}
}

// ArchiveMessageFromJSON parses and validates a message from JSON bytes.
func ArchiveMessageFromJSON(data []byte) (*ArchiveMessage, error) {
	var msg ArchiveMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
