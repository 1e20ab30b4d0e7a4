package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"finsight/internal/core"
)

// EventKind names what happened to a transaction.
type EventKind string

const (
	TransactionCreated EventKind = "transaction.created"
	TransactionDeleted EventKind = "transaction.deleted"
)

// TransactionEvent is published after every successful ledger mutation.
// Deleted events carry only the transaction id.
type TransactionEvent struct {
	Kind        EventKind          `json:"kind"`
	UserID      string             `json:"user_id"`
	Transaction TransactionPayload `json:"transaction"`
	Timestamp   time.Time          `json:"timestamp"`
}

type TransactionPayload struct {
	ID          string    `json:"id"`
	Type        string    `json:"type,omitempty"`
	Category    string    `json:"category,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Date        string    `json:"date,omitempty"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewCreatedEvent(tx core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Kind:   TransactionCreated,
		UserID: tx.UserID,
		Transaction: TransactionPayload{
			ID:          tx.ID,
			Type:        string(tx.Type),
			Category:    tx.Category,
			AmountCents: tx.Amount.Cents,
			Date:        tx.Date.String(),
			Note:        tx.Note,
			CreatedAt:   tx.CreatedAt,
		},
		Timestamp: time.Now().UTC(),
	}
}

func NewDeletedEvent(userID, id string) *TransactionEvent {
	return &TransactionEvent{
		Kind:        TransactionDeleted,
		UserID:      userID,
		Transaction: TransactionPayload{ID: id},
		Timestamp:   time.Now().UTC(),
	}
}

// ToTransaction rebuilds the domain transaction carried by a created event.
func (e *TransactionEvent) ToTransaction() (core.Transaction, error) {
	date, err := core.ParseDate(e.Transaction.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("event date %q: %w", e.Transaction.Date, err)
	}
	typ, err := core.ParseTxType(e.Transaction.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:        e.Transaction.ID,
		UserID:    e.UserID,
		Type:      typ,
		Category:  e.Transaction.Category,
		Amount:    core.Money{Cents: e.Transaction.AmountCents},
		Date:      date,
		Note:      e.Transaction.Note,
		CreatedAt: e.Transaction.CreatedAt,
	}, nil
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes and checks an event body.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Kind {
	case TransactionCreated, TransactionDeleted:
	default:
		return nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	if ev.UserID == "" || ev.Transaction.ID == "" {
		return nil, fmt.Errorf("event %s is missing user or transaction id", ev.Kind)
	}
	return &ev, nil
}
