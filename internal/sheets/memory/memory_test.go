package memory

import (
	"context"
	"testing"

	"finsight/internal/core"
)

func TestMirrorIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := New()
	tx := core.Transaction{ID: "t1", UserID: "u1", Type: core.Income, Category: "Gift", Amount: core.Money{Cents: 1}}

	_ = m.AppendTransaction(ctx, tx)
	_ = m.AppendTransaction(ctx, tx)
	if got := len(m.Rows()); got != 1 {
		t.Fatalf("duplicate append produced %d rows", got)
	}

	if err := m.RemoveTransaction(ctx, "u2", "t1"); err != nil || len(m.Rows()) != 1 {
		t.Fatalf("foreign remove must not drop the row: %v", err)
	}
	if err := m.RemoveTransaction(ctx, "u1", "t1"); err != nil || len(m.Rows()) != 0 {
		t.Fatalf("remove failed: %v", err)
	}
	if err := m.RemoveTransaction(ctx, "u1", "t1"); err != nil {
		t.Fatalf("removing a missing row should be a no-op: %v", err)
	}
}
