package ledger

import (
	"context"

	"finsight/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionLister returns the full snapshot of one user's transactions.
	TransactionLister interface {
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	}

	// TransactionWriter persists a new transaction and returns it as stored.
	TransactionWriter interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	}

	// TransactionDeleter removes a transaction. Returns core.ErrNotFound when
	// the user owns no transaction with that id.
	TransactionDeleter interface {
		DeleteTransaction(ctx context.Context, userID, id string) error
	}

	Pinger interface {
		Ping(ctx context.Context) error
	}

	// Store is what a complete ledger backend provides.
	Store interface {
		TransactionLister
		TransactionWriter
		TransactionDeleter
		Pinger
	}
)
