// Package services holds the domain services the API server and the schedule
// worker share: ledger writes with change-event publication, monthly salary
// posting, and recurring-investment accrual.
package services

import (
	"context"
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// TransactionRepository is the slice of storage the ledger service needs.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, tx core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// EventPublisher publishes a transaction change notification.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, id int64, action string) error
}

// LedgerService persists transaction writes and notifies the export pipeline.
// Storage failures fail the call; publish failures only log, the record is
// already durable.
type LedgerService struct {
	repo      TransactionRepository
	publisher EventPublisher
	logger    *log.Logger
}

func NewLedgerService(repo TransactionRepository, publisher EventPublisher, logger *log.Logger) *LedgerService {
	return &LedgerService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	created, err := s.repo.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.publish(ctx, created.ID, amqp.ActionCreated)
	return created, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, id int64, tx core.Transaction) (core.Transaction, error) {
	updated, err := s.repo.UpdateTransaction(ctx, id, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, id, amqp.ActionUpdated)
	return updated, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

func (s *LedgerService) publish(ctx context.Context, id int64, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, id, action); err != nil {
		s.logger.ErrorContext(ctx, "publish ledger event failed",
			log.FieldEntityID, id,
			log.FieldOperation, action,
			log.FieldError, err)
	}
}
