package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"finsight/internal/core"
)

func validTx(user string) core.Transaction {
	return core.Transaction{
		UserID:   user,
		Type:     core.Expense,
		Category: "Shopping",
		Amount:   core.Money{Cents: 123},
		Date:     core.NewDate(2025, 1, 1),
	}
}

func TestMemoryStoreCreateListDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateTransaction(ctx, validTx("alice"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at to be set: %+v", created)
	}
	if _, err := s.CreateTransaction(ctx, validTx("bob")); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	list, err := s.ListTransactions(ctx, "alice")
	if err != nil || len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected list: %v err=%v", list, err)
	}

	if err := s.DeleteTransaction(ctx, "bob", created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("other users must not delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "alice", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "alice", created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
	list, _ = s.ListTransactions(ctx, "alice")
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %v", list)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := New()

	bad := validTx("alice")
	bad.Amount = core.Money{}
	if _, err := s.CreateTransaction(ctx, bad); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := s.CreateTransaction(ctx, validTx("")); !errors.Is(err, core.ErrEmptyUser) {
		t.Fatalf("expected missing user error, got %v", err)
	}

	dup := validTx("alice")
	dup.ID = "fixed"
	if _, err := s.CreateTransaction(ctx, dup); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateTransaction(ctx, dup); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected duplicate id to fail, got %v", err)
	}
	list, _ := s.ListTransactions(ctx, "alice")
	if len(list) != 1 {
		t.Fatalf("failed writes must not change the snapshot, got %d rows", len(list))
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	// No file -> empty store
	s := NewFromFiles(dir)
	if list, _ := s.ListTransactions(context.Background(), "u1"); len(list) != 0 {
		t.Fatalf("expected empty store when seed missing")
	}

	content := "# user,date,type,category,amount,note\n" +
		"u1,2025-06-01,income,Salary,1000.00,June pay\n" +
		"u1,2025-06-02,expense,Food & Dining,12.50\n" +
		"u1,2025-06-03,expense,Salary,5\n" + // category of the wrong type
		"u1,not-a-date,expense,Travel,5\n" +
		"u2,2025-06-02,expense,Travel,99\n"
	if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s = NewFromFiles(dir)
	list, _ := s.ListTransactions(context.Background(), "u1")
	if len(list) != 2 {
		t.Fatalf("expected 2 valid seed rows for u1, got %d: %v", len(list), list)
	}
	if list[0].Note != "June pay" || list[1].Amount.Cents != 1250 {
		t.Fatalf("unexpected seeded rows: %+v", list)
	}
	other, _ := s.ListTransactions(context.Background(), "u2")
	if len(other) != 1 {
		t.Fatalf("expected 1 row for u2, got %d", len(other))
	}
}
