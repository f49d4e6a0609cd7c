package amqp

import (
	"encoding/json"
	"time"
)

// Entity kinds carried by LedgerChangedMessage.
const (
	KindTransaction = "transaction"
	KindBudget      = "budget"
)

// LedgerChangedMessage announces one ledger mutation. It only names the
// affected record and month; consumers reload whatever they need.
type LedgerChangedMessage struct {
	Kind      string    `json:"kind"`
	Op        string    `json:"op"`
	ID        string    `json:"id"`
	Month     string    `json:"month"`
	Revision  uint64    `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(kind, op, id, month string, revision uint64) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Kind:      kind,
		Op:        op,
		ID:        id,
		Month:     month,
		Revision:  revision,
		Timestamp: time.Now().UTC(),
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
