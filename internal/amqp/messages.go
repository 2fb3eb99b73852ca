package amqp

import (
	"encoding/json"
	"time"
)

// Ledger event names carried in LedgerEvent.Event.
const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
)

// LedgerEvent describes one mutation of the transactions table. The audit
// worker consumes these; the payload is self-contained so the worker never
// has to read back a row that may already be gone.
type LedgerEvent struct {
	Event         string    `json:"event"`
	TransactionID int64     `json:"transaction_id"`
	OwnerID       int64     `json:"owner_id"`
	AmountCents   int64     `json:"amount_cents"`
	Kind          string    `json:"kind"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time.
func NewLedgerEvent(event string, transactionID, ownerID, amountCents int64, kind string) *LedgerEvent {
	return &LedgerEvent{
		Event:         event,
		TransactionID: transactionID,
		OwnerID:       ownerID,
		AmountCents:   amountCents,
		Kind:          kind,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON creates an event from JSON bytes
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
