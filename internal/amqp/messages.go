package amqp

import (
	"encoding/json"
	"time"
)

// RecordExportMessage is a lightweight message for exporting a ledger record.
// It carries only the ID and kind; the worker fetches the full record from
// the database so the queue never holds financial data.
type RecordExportMessage struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordExportMessage creates an export message for the given record.
func NewRecordExportMessage(id, kind string, version int64) *RecordExportMessage {
	return &RecordExportMessage{
		ID:        id,
		Kind:      kind,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordExportMessageFromJSON creates a message from JSON bytes
func RecordExportMessageFromJSON(data []byte) (*RecordExportMessage, error) {
	var msg RecordExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
