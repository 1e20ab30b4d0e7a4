package services

import (
	"context"
	"time"

	"finsight/internal/core"
)

// Dashboard is one user's aggregated view plus the rows it was computed from,
// newest first.
type Dashboard struct {
	UserID      string
	GeneratedAt time.Time
	Summary     core.Summary
	Recent      []core.Transaction
}

// DashboardOptions controls the engine parameters. Zero values fall back to
// the engine defaults.
type DashboardOptions struct {
	TopCategories int
	WindowDays    int
}

// BuildDashboard fetches one snapshot and runs the engine over it once.
func (s *TransactionService) BuildDashboard(ctx context.Context, userID string, now time.Time, opts DashboardOptions) (Dashboard, error) {
	txs, err := s.ListTransactions(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		UserID:      userID,
		GeneratedAt: now,
		Summary:     core.Summarize(txs, now, opts.TopCategories, opts.WindowDays),
		Recent:      core.SortRecent(txs),
	}, nil
}
