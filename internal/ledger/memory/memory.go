package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"finsight/internal/core"
	"finsight/internal/ledger"
)

var _ ledger.Store = (*Store)(nil)

// SeedFile is read by NewFromFiles from the data directory.
const SeedFile = "seed_transactions.csv"

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
	now   func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// NewFromFiles creates a store seeded from <base>/seed_transactions.csv when
// the file exists. Each record is: user_id,date,type,category,amount[,note].
// Blank lines and lines starting with '#' are skipped; invalid rows are logged
// and ignored.
func NewFromFiles(base string) *Store {
	s := New()
	path := filepath.Join(base, SeedFile)
	f, err := os.Open(path)
	if err != nil {
		return s
	}
	defer f.Close()

	seeded, err := readSeed(f)
	if err != nil {
		slog.Warn("Failed reading seed transactions", "path", path, "error", err)
	}
	for _, tx := range seeded {
		if _, err := s.CreateTransaction(context.Background(), tx); err != nil {
			slog.Warn("Skipping invalid seed transaction", "path", path, "error", err)
		}
	}
	return s
}

// CreateTransaction validates and stores tx, assigning an id when missing.
func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if strings.TrimSpace(tx.UserID) == "" {
		return core.Transaction{}, core.ErrEmptyUser
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	for _, existing := range s.items {
		if existing.ID == tx.ID {
			return core.Transaction{}, fmt.Errorf("%w: duplicate id %s", core.ErrValidation, tx.ID)
		}
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.now().UTC()
	}
	s.items = append(s.items, tx)
	return tx, nil
}

// ListTransactions returns a copy of the user's transactions in insertion order.
func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, tx := range s.items {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.items {
		if tx.ID == id && tx.UserID == userID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func readSeed(r io.Reader) ([]core.Transaction, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []core.Transaction
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if len(rec) < 5 {
			continue
		}
		tx, err := parseRecord(rec)
		if err != nil {
			slog.Warn("Skipping malformed seed row", "row", strings.Join(rec, ","), "error", err)
			continue
		}
		out = append(out, tx)
	}
}

func parseRecord(rec []string) (core.Transaction, error) {
	date, err := core.ParseDate(rec[1])
	if err != nil {
		return core.Transaction{}, err
	}
	typ, err := core.ParseTxType(rec[2])
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(rec[4])
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		UserID:   strings.TrimSpace(rec[0]),
		Date:     date,
		Type:     typ,
		Category: strings.TrimSpace(rec[3]),
		Amount:   amount,
	}
	if len(rec) > 5 {
		tx.Note = strings.TrimSpace(rec[5])
	}
	return tx, nil
}
