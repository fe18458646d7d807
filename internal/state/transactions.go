package state

import (
	"context"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// TransactionAPI is the slice of the REST client the transaction store needs.
type TransactionAPI interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, skip, limit int) ([]core.Transaction, error)
	TransactionsByMonth(ctx context.Context, year, month int) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, tx core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

type TransactionStore struct {
	collection[core.Transaction]
	life   *lifecycle
	api    TransactionAPI
	logger *log.Logger
}

func NewTransactionStore(parent context.Context, api TransactionAPI, logger *log.Logger) *TransactionStore {
	return &TransactionStore{
		life:   newLifecycle(parent),
		api:    api,
		logger: logger.WithComponent(log.ComponentState),
	}
}

func (s *TransactionStore) Snapshot() Snapshot[core.Transaction] { return s.snapshot() }

func (s *TransactionStore) Close() { s.life.close() }

// Refresh replaces the cached collection with the server's list.
func (s *TransactionStore) Refresh(ctx context.Context, skip, limit int) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	s.begin()
	items, err := s.api.ListTransactions(ctx, skip, limit)
	if err != nil {
		s.fail(err)
		s.logger.Error("list transactions failed", log.FieldError, err)
		return err
	}
	s.set(items)
	return nil
}

// RefreshMonth loads one calendar month into the store.
func (s *TransactionStore) RefreshMonth(ctx context.Context, year, month int) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	s.begin()
	items, err := s.api.TransactionsByMonth(ctx, year, month)
	if err != nil {
		s.fail(err)
		s.logger.Error("list monthly transactions failed", log.FieldError, err)
		return err
	}
	s.set(items)
	return nil
}

// Create validates locally, posts the transaction and appends the server's
// canonical record. The returned record carries the server-assigned id.
func (s *TransactionStore) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	created, err := s.api.CreateTransaction(ctx, tx)
	if err != nil {
		s.fail(err)
		return core.Transaction{}, err
	}
	s.add(created)
	s.logger.Info("transaction created", log.FieldOperation, log.OpCreate, log.FieldEntityID, created.ID)
	return created, nil
}

// Update replaces the cached entry with the server's response.
func (s *TransactionStore) Update(ctx context.Context, id int64, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	updated, err := s.api.UpdateTransaction(ctx, id, tx)
	if err != nil {
		s.fail(err)
		return core.Transaction{}, err
	}
	s.replace(func(t core.Transaction) bool { return t.ID == id }, updated)
	return updated, nil
}

// Delete removes the entry only after the server confirms. On failure the
// collection is left untouched and the error is retained.
func (s *TransactionStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	if err := s.api.DeleteTransaction(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.remove(func(t core.Transaction) bool { return t.ID == id })
	s.logger.Info("transaction deleted", log.FieldOperation, log.OpDelete, log.FieldEntityID, id)
	return nil
}
