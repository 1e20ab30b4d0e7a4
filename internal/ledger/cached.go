package ledger

import (
	"context"
	"sync"

	"finsight/internal/cache"
	"finsight/internal/core"
)

// Cached serves repeated snapshot reads from a per-user cache. Every
// successful write or delete drops that user's entry and bumps the user's
// generation, so a read that raced the write cannot store its older snapshot.
type Cached struct {
	Store
	snapshots cache.Cache[[]core.Transaction]

	mu          sync.Mutex
	generations map[string]uint64
}

func NewCached(store Store, snapshots cache.Cache[[]core.Transaction]) *Cached {
	return &Cached{
		Store:       store,
		snapshots:   snapshots,
		generations: make(map[string]uint64),
	}
}

// ListTransactions returns a copy so callers cannot alter the cached slice.
func (c *Cached) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	if txs, ok := c.snapshots.Get(userID); ok {
		return append([]core.Transaction(nil), txs...), nil
	}

	c.mu.Lock()
	gen := c.generations[userID]
	c.mu.Unlock()

	txs, err := c.Store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generations[userID] == gen {
		c.snapshots.Set(userID, append([]core.Transaction(nil), txs...))
	}
	c.mu.Unlock()
	return txs, nil
}

func (c *Cached) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	created, err := c.Store.CreateTransaction(ctx, tx)
	if err != nil {
		return created, err
	}
	c.invalidate(created.UserID)
	return created, nil
}

func (c *Cached) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := c.Store.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	c.invalidate(userID)
	return nil
}

func (c *Cached) invalidate(userID string) {
	c.mu.Lock()
	c.generations[userID]++
	c.snapshots.Delete(userID)
	c.mu.Unlock()
}
