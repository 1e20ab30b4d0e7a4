// Package worker replays ledger events onto a spreadsheet mirror.
package worker

import (
	"context"
	"fmt"
	"time"

	"finsight/internal/amqp"
	"finsight/internal/log"
	"finsight/internal/sheets"
)

// EventSource is satisfied by *amqp.Client.
type EventSource interface {
	ConsumeTransactionEvents(ctx context.Context, handler amqp.Handler) error
}

type MirrorWorker struct {
	mirror  sheets.Mirror
	logger  *log.Logger
	timeout time.Duration
}

func NewMirrorWorker(mirror sheets.Mirror, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &MirrorWorker{
		mirror:  mirror,
		logger:  logger.WithComponent(log.ComponentWorker),
		timeout: 30 * time.Second,
	}
}

// Run consumes events until ctx is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, source EventSource) error {
	w.logger.InfoContext(ctx, "Mirror worker started")
	err := source.ConsumeTransactionEvents(ctx, w.HandleEvent)
	if ctx.Err() != nil {
		w.logger.InfoContext(ctx, "Mirror worker stopped")
		return nil
	}
	return err
}

// HandleEvent applies one event to the mirror. Errors cause redelivery, so
// both operations are idempotent on the mirror side.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	fields := log.NewFields().
		WithOperation(log.OpMirror).
		WithUser(ev.UserID).
		Args()
	fields = append(fields, log.FieldEventKind, string(ev.Kind), log.FieldTxID, ev.Transaction.ID)

	switch ev.Kind {
	case amqp.TransactionCreated:
		tx, err := ev.ToTransaction()
		if err != nil {
			// A payload that cannot be decoded will never succeed; drop it.
			w.logger.ErrorContext(ctx, "Discarding undecodable event", append(fields, log.FieldError, err.Error())...)
			return nil
		}
		if err := w.mirror.AppendTransaction(ctx, tx); err != nil {
			return fmt.Errorf("append transaction %s: %w", tx.ID, err)
		}
	case amqp.TransactionDeleted:
		if err := w.mirror.RemoveTransaction(ctx, ev.UserID, ev.Transaction.ID); err != nil {
			return fmt.Errorf("remove transaction %s: %w", ev.Transaction.ID, err)
		}
	default:
		w.logger.WarnContext(ctx, "Ignoring unknown event kind", fields...)
		return nil
	}

	w.logger.InfoContext(ctx, "Event mirrored", fields...)
	return nil
}
