package state

import (
	"context"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type PaymentAPI interface {
	CreatePayment(ctx context.Context, p core.CreditCardPayment) (core.CreditCardPayment, error)
	ListPayments(ctx context.Context) ([]core.CreditCardPayment, error)
	PaymentsByCard(ctx context.Context, cardID int64) ([]core.CreditCardPayment, error)
	UpdatePayment(ctx context.Context, id int64, p core.CreditCardPayment) (core.CreditCardPayment, error)
	DeletePayment(ctx context.Context, id int64) error
}

type PaymentStore struct {
	collection[core.CreditCardPayment]
	life   *lifecycle
	api    PaymentAPI
	logger *log.Logger
}

func NewPaymentStore(parent context.Context, api PaymentAPI, logger *log.Logger) *PaymentStore {
	return &PaymentStore{
		life:   newLifecycle(parent),
		api:    api,
		logger: logger.WithComponent(log.ComponentState),
	}
}

func (s *PaymentStore) Snapshot() Snapshot[core.CreditCardPayment] { return s.snapshot() }

func (s *PaymentStore) Close() { s.life.close() }

func (s *PaymentStore) Refresh(ctx context.Context) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	s.begin()
	items, err := s.api.ListPayments(ctx)
	if err != nil {
		s.fail(err)
		s.logger.Error("list payments failed", log.FieldError, err)
		return err
	}
	s.set(items)
	return nil
}

// RefreshForCard narrows the store to a single card's payment history.
func (s *PaymentStore) RefreshForCard(ctx context.Context, cardID int64) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	s.begin()
	items, err := s.api.PaymentsByCard(ctx, cardID)
	if err != nil {
		s.fail(err)
		s.logger.Error("list card payments failed", log.FieldError, err, log.FieldCardID, cardID)
		return err
	}
	s.set(items)
	return nil
}

func (s *PaymentStore) Create(ctx context.Context, p core.CreditCardPayment) (core.CreditCardPayment, error) {
	if err := p.Validate(); err != nil {
		return core.CreditCardPayment{}, err
	}
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	created, err := s.api.CreatePayment(ctx, p)
	if err != nil {
		s.fail(err)
		return core.CreditCardPayment{}, err
	}
	s.add(created)
	s.logger.Info("payment created", log.FieldOperation, log.OpCreate, log.FieldEntityID, created.ID)
	return created, nil
}

func (s *PaymentStore) Update(ctx context.Context, id int64, p core.CreditCardPayment) (core.CreditCardPayment, error) {
	if err := p.Validate(); err != nil {
		return core.CreditCardPayment{}, err
	}
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	updated, err := s.api.UpdatePayment(ctx, id, p)
	if err != nil {
		s.fail(err)
		return core.CreditCardPayment{}, err
	}
	s.replace(func(v core.CreditCardPayment) bool { return v.ID == id }, updated)
	return updated, nil
}

func (s *PaymentStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	if err := s.api.DeletePayment(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.remove(func(v core.CreditCardPayment) bool { return v.ID == id })
	s.logger.Info("payment deleted", log.FieldOperation, log.OpDelete, log.FieldEntityID, id)
	return nil
}
