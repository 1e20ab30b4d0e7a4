// Package postgres stores transactions in a hosted Postgres database through
// a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"finsight/internal/core"
	"finsight/internal/ledger"
)

var _ ledger.Store = (*Repo)(nil)

const schema = `CREATE TABLE IF NOT EXISTS transactions (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	type        TEXT NOT NULL CHECK (type IN ('income', 'expense')),
	category    TEXT NOT NULL,
	amount      BIGINT NOT NULL CHECK (amount > 0),
	date        DATE NOT NULL,
	note        TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions (user_id, date);`

// uniqueViolation is the SQLSTATE Postgres reports for duplicate keys.
const uniqueViolation = "23505"

type Repo struct {
	Pool *pgxpool.Pool
	now  func() time.Time
}

// Open connects to databaseURL and ensures the transactions table exists.
func Open(ctx context.Context, databaseURL string) (*Repo, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	repo := NewRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool, now: time.Now}
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *Repo) Close() {
	r.Pool.Close()
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.Pool.Ping(ctx)
}

func (r *Repo) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if strings.TrimSpace(tx.UserID) == "" {
		return core.Transaction{}, core.ErrEmptyUser
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = r.now().UTC()
	}

	_, err := r.Pool.Exec(ctx,
		`INSERT INTO transactions (id, user_id, type, category, amount, date, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.UserID, string(tx.Type), tx.Category, tx.Amount.Cents, tx.Date.Time, tx.Note, tx.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return core.Transaction{}, fmt.Errorf("%w: duplicate id %s", core.ErrValidation, tx.ID)
		}
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to Postgres", "id", tx.ID, "type", tx.Type, "amount_cents", tx.Amount.Cents)
	return tx, nil
}

func (r *Repo) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, user_id, type, category, amount, date, note, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY date, created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Transaction, error) {
		var (
			tx   core.Transaction
			typ  string
			date time.Time
		)
		if err := row.Scan(&tx.ID, &tx.UserID, &typ, &tx.Category, &tx.Amount.Cents, &date, &tx.Note, &tx.CreatedAt); err != nil {
			return core.Transaction{}, err
		}
		tx.Type = core.TxType(typ)
		tx.Date = core.DateOf(date)
		return tx, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan transactions: %w", err)
	}
	return out, nil
}

func (r *Repo) DeleteTransaction(ctx context.Context, userID, id string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
