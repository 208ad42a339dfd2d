package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"paydash/internal/core"
)

// ChangeOp names the mutation a ChangeMessage reports.
type ChangeOp string

const (
	OpCreated ChangeOp = "created"
	OpUpdated ChangeOp = "updated"
	OpDeleted ChangeOp = "deleted"
)

func (o ChangeOp) Valid() bool {
	switch o {
	case OpCreated, OpUpdated, OpDeleted:
		return true
	}
	return false
}

// ChangeMessage announces one committed mutation of the payment ledger.
// Amount is a decimal string to avoid float rounding on the wire.
type ChangeMessage struct {
	ID         string    `json:"id"`
	Op         ChangeOp  `json:"op"`
	PaymentID  string    `json:"paymentId"`
	VendorName string    `json:"vendorName,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	Status     string    `json:"status,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewChangeMessage describes a mutation of rec. For deletes only the ID
// of rec is required.
func NewChangeMessage(op ChangeOp, rec core.PaymentRecord) *ChangeMessage {
	msg := &ChangeMessage{
		ID:        uuid.NewString(),
		Op:        op,
		PaymentID: rec.ID,
		Timestamp: time.Now().UTC(),
	}
	if op != OpDeleted {
		msg.VendorName = rec.VendorName
		msg.Amount = rec.Amount.String()
		msg.Status = rec.Status.String()
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON parses and checks a message body.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Op.Valid() {
		return nil, fmt.Errorf("unknown op %q", msg.Op)
	}
	if msg.PaymentID == "" {
		return nil, fmt.Errorf("missing paymentId")
	}
	return &msg, nil
}
