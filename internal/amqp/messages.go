package amqp

import (
	"encoding/json"
	"time"
)

// SyncRequestMessage asks the worker to run a cloud sync for a user. It
// carries only the user id; the worker loads the snapshot itself.
type SyncRequestMessage struct {
	UserID    string    `json:"userId"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// Reasons carried on sync request messages.
const (
	ReasonManual      = "manual"
	ReasonDataChanged = "data_changed"
	ReasonScheduled   = "scheduled"
)

func NewSyncRequestMessage(userID, reason string) *SyncRequestMessage {
	return &SyncRequestMessage{
		UserID:    userID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *SyncRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SyncRequestMessageFromJSON(data []byte) (*SyncRequestMessage, error) {
	var msg SyncRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
