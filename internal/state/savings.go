package state

import (
	"context"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type SavingsAPI interface {
	CreateInvestment(ctx context.Context, inv core.SavingsInvestment) (core.SavingsInvestment, error)
	ListInvestments(ctx context.Context) ([]core.SavingsInvestment, error)
	UpdateInvestment(ctx context.Context, id int64, inv core.SavingsInvestment) (core.SavingsInvestment, error)
	DeleteInvestment(ctx context.Context, id int64) error
	SavingsComparison(ctx context.Context) (core.SavingsComparison, error)
}

// SavingsStore additionally caches the cash-vs-investments comparison. The
// comparison is derived server-side from the whole investment set, so every
// mutation is followed by an explicit RefreshDependentAggregates call.
type SavingsStore struct {
	collection[core.SavingsInvestment]
	life   *lifecycle
	api    SavingsAPI
	logger *log.Logger

	cmpMu      sync.RWMutex
	comparison core.SavingsComparison
	cmpLoaded  bool
}

func NewSavingsStore(parent context.Context, api SavingsAPI, logger *log.Logger) *SavingsStore {
	return &SavingsStore{
		life:   newLifecycle(parent),
		api:    api,
		logger: logger.WithComponent(log.ComponentState),
	}
}

func (s *SavingsStore) Snapshot() Snapshot[core.SavingsInvestment] { return s.snapshot() }

func (s *SavingsStore) Close() { s.life.close() }

// Comparison returns the cached aggregate and whether it has been loaded.
func (s *SavingsStore) Comparison() (core.SavingsComparison, bool) {
	s.cmpMu.RLock()
	defer s.cmpMu.RUnlock()
	return s.comparison, s.cmpLoaded
}

func (s *SavingsStore) Refresh(ctx context.Context) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	s.begin()
	items, err := s.api.ListInvestments(ctx)
	if err != nil {
		s.fail(err)
		s.logger.Error("list investments failed", log.FieldError, err)
		return err
	}
	s.set(items)
	return nil
}

// RefreshDependentAggregates re-fetches the savings comparison. Callers
// invoke it after every create, update or delete; a failure here does not
// roll back the mutation that preceded it.
func (s *SavingsStore) RefreshDependentAggregates(ctx context.Context) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	cmp, err := s.api.SavingsComparison(ctx)
	if err != nil {
		s.logger.Error("refresh savings comparison failed", log.FieldError, err)
		return err
	}
	s.cmpMu.Lock()
	s.comparison = cmp
	s.cmpLoaded = true
	s.cmpMu.Unlock()
	return nil
}

func (s *SavingsStore) Create(ctx context.Context, inv core.SavingsInvestment) (core.SavingsInvestment, error) {
	inv.Normalize()
	if err := inv.Validate(); err != nil {
		return core.SavingsInvestment{}, err
	}
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	created, err := s.api.CreateInvestment(ctx, inv)
	if err != nil {
		s.fail(err)
		return core.SavingsInvestment{}, err
	}
	s.add(created)
	s.logger.Info("investment created", log.FieldOperation, log.OpCreate, log.FieldEntityID, created.ID)
	return created, nil
}

func (s *SavingsStore) Update(ctx context.Context, id int64, inv core.SavingsInvestment) (core.SavingsInvestment, error) {
	inv.Normalize()
	if err := inv.Validate(); err != nil {
		return core.SavingsInvestment{}, err
	}
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	updated, err := s.api.UpdateInvestment(ctx, id, inv)
	if err != nil {
		s.fail(err)
		return core.SavingsInvestment{}, err
	}
	s.replace(func(v core.SavingsInvestment) bool { return v.ID == id }, updated)
	return updated, nil
}

func (s *SavingsStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	if err := s.api.DeleteInvestment(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.remove(func(v core.SavingsInvestment) bool { return v.ID == id })
	s.logger.Info("investment deleted", log.FieldOperation, log.OpDelete, log.FieldEntityID, id)
	return nil
}
