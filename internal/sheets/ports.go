package sheets

import (
	"context"

	"finsight/internal/core"
)

// Ports implemented by spreadsheet mirrors.
type (
	// TransactionAppender writes one row per transaction. Appending an id
	// that is already present is a no-op.
	TransactionAppender interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) error
	}

	// TransactionRemover drops the row holding the user's transaction id.
	// Missing rows are not an error.
	TransactionRemover interface {
		RemoveTransaction(ctx context.Context, userID, id string) error
	}

	Mirror interface {
		TransactionAppender
		TransactionRemover
	}
)

// Header is the first row of a mirror sheet.
var Header = []string{"ID", "User", "Date", "Type", "Category", "Amount", "Note"}
