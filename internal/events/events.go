// Package events publishes ledger change notifications for external
// analytics consumers. The core engine never depends on a broker being
// present: when AMQP is not configured a no-op publisher is wired instead.
package events

import (
	"context"
	"encoding/json"
	"time"

	"splitbook/internal/models"
)

// TransactionAppendedEvent notifies consumers that a transaction became
// visible in the ledger. It carries identifiers only; consumers fetch the
// full record through the query interface.
type TransactionAppendedEvent struct {
	TransactionID string    `json:"transaction_id"`
	PayerID       string    `json:"payer_id"`
	GroupID       string    `json:"group_id,omitempty"`
	AmountCents   int64     `json:"amount_cents"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionAppendedEvent builds an event from an appended transaction.
func NewTransactionAppendedEvent(tx *models.Transaction) *TransactionAppendedEvent {
	return &TransactionAppendedEvent{
		TransactionID: tx.ID,
		PayerID:       tx.PayerID,
		GroupID:       tx.GroupID,
		AmountCents:   tx.Amount.Cents,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionAppendedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionAppendedEventFromJSON decodes an event from JSON bytes.
func TransactionAppendedEventFromJSON(data []byte) (*TransactionAppendedEvent, error) {
	var e TransactionAppendedEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Publisher emits ledger events. Implementations must be safe for concurrent
// use.
type Publisher interface {
	TransactionAppended(ctx context.Context, event *TransactionAppendedEvent) error
	Close() error
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) TransactionAppended(context.Context, *TransactionAppendedEvent) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
