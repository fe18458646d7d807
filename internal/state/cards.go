package state

import (
	"context"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type CardAPI interface {
	CreateCard(ctx context.Context, card core.CreditCard) (core.CreditCard, error)
	ListCards(ctx context.Context) ([]core.CreditCard, error)
	UpdateCard(ctx context.Context, id int64, card core.CreditCard) (core.CreditCard, error)
	DeleteCard(ctx context.Context, id int64) error
	CardUtilization(ctx context.Context, id int64) (core.CardUtilization, error)
}

type CardStore struct {
	collection[core.CreditCard]
	life   *lifecycle
	api    CardAPI
	logger *log.Logger
}

func NewCardStore(parent context.Context, api CardAPI, logger *log.Logger) *CardStore {
	return &CardStore{
		life:   newLifecycle(parent),
		api:    api,
		logger: logger.WithComponent(log.ComponentState),
	}
}

func (s *CardStore) Snapshot() Snapshot[core.CreditCard] { return s.snapshot() }

func (s *CardStore) Close() { s.life.close() }

func (s *CardStore) Refresh(ctx context.Context) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	s.begin()
	items, err := s.api.ListCards(ctx)
	if err != nil {
		s.fail(err)
		s.logger.Error("list cards failed", log.FieldError, err)
		return err
	}
	s.set(items)
	return nil
}

func (s *CardStore) Create(ctx context.Context, card core.CreditCard) (core.CreditCard, error) {
	if err := card.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	created, err := s.api.CreateCard(ctx, card)
	if err != nil {
		s.fail(err)
		return core.CreditCard{}, err
	}
	s.add(created)
	s.logger.Info("card created", log.FieldOperation, log.OpCreate, log.FieldCardID, created.ID)
	return created, nil
}

func (s *CardStore) Update(ctx context.Context, id int64, card core.CreditCard) (core.CreditCard, error) {
	if err := card.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	updated, err := s.api.UpdateCard(ctx, id, card)
	if err != nil {
		s.fail(err)
		return core.CreditCard{}, err
	}
	s.replace(func(c core.CreditCard) bool { return c.ID == id }, updated)
	return updated, nil
}

func (s *CardStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	if err := s.api.DeleteCard(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.remove(func(c core.CreditCard) bool { return c.ID == id })
	s.logger.Info("card deleted", log.FieldOperation, log.OpDelete, log.FieldCardID, id)
	return nil
}

// Utilization is a pass-through; utilization is never cached because it
// shifts with every card transaction.
func (s *CardStore) Utilization(ctx context.Context, id int64) (core.CardUtilization, error) {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()
	return s.api.CardUtilization(ctx, id)
}
