package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"finsight/internal/amqp"
	"finsight/internal/core"
	"finsight/internal/ledger"
	"finsight/internal/log"
)

// EventPublisher is satisfied by *amqp.Client.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error
}

// TransactionService validates and writes transactions, then announces the
// change. A nil publisher disables events.
type TransactionService struct {
	store     ledger.Store
	publisher EventPublisher
	logger    *log.Logger
}

func NewTransactionService(store ledger.Store, publisher EventPublisher, logger *log.Logger) *TransactionService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &TransactionService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentService),
	}
}

// CreateTransaction stores tx for its user. Validation failures wrap
// core.ErrValidation and leave the ledger unchanged.
func (s *TransactionService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if strings.TrimSpace(tx.UserID) == "" {
		return core.Transaction{}, core.ErrEmptyUser
	}
	tx.Category = strings.TrimSpace(tx.Category)
	tx.Note = strings.TrimSpace(tx.Note)
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		if errors.Is(err, core.ErrValidation) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction created",
		log.NewFields().WithOperation(log.OpCreate).WithUser(created.UserID).WithTransaction(created).Args()...)

	s.publish(ctx, amqp.NewCreatedEvent(created))
	return created, nil
}

// DeleteTransaction removes one of the user's transactions. Unknown ids
// return core.ErrNotFound.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return core.ErrNotFound
	}
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction deleted",
		log.NewFields().WithOperation(log.OpDelete).WithUser(userID).Args()...,
	)

	s.publish(ctx, amqp.NewDeletedEvent(userID, id))
	return nil
}

// ListTransactions returns the user's snapshot as stored.
func (s *TransactionService) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *TransactionService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// publish never fails the caller; the ledger write already succeeded.
func (s *TransactionService) publish(ctx context.Context, ev *amqp.TransactionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			log.NewFields().WithOperation(log.OpPublish).WithError(err).Args()...,
		)
	}
}
