package state

import (
	"context"

	"fintrack/internal/api"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

type SalaryAPI interface {
	CreateSalary(ctx context.Context, s core.Salary) (core.Salary, error)
	ListSalaries(ctx context.Context) ([]core.Salary, error)
	ActiveSalaries(ctx context.Context) ([]core.Salary, error)
	UpdateSalary(ctx context.Context, id int64, s core.Salary) (core.Salary, error)
	DeleteSalary(ctx context.Context, id int64) error
	ProcessMonthlySalaries(ctx context.Context) (api.ProcessResult, error)
}

type SalaryStore struct {
	collection[core.Salary]
	life   *lifecycle
	api    SalaryAPI
	logger *log.Logger
}

func NewSalaryStore(parent context.Context, api SalaryAPI, logger *log.Logger) *SalaryStore {
	return &SalaryStore{
		life:   newLifecycle(parent),
		api:    api,
		logger: logger.WithComponent(log.ComponentState),
	}
}

func (s *SalaryStore) Snapshot() Snapshot[core.Salary] { return s.snapshot() }

func (s *SalaryStore) Close() { s.life.close() }

func (s *SalaryStore) Refresh(ctx context.Context) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	s.begin()
	items, err := s.api.ListSalaries(ctx)
	if err != nil {
		s.fail(err)
		s.logger.Error("list salaries failed", log.FieldError, err)
		return err
	}
	s.set(items)
	return nil
}

func (s *SalaryStore) Create(ctx context.Context, sal core.Salary) (core.Salary, error) {
	if err := sal.Validate(); err != nil {
		return core.Salary{}, err
	}
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	created, err := s.api.CreateSalary(ctx, sal)
	if err != nil {
		s.fail(err)
		return core.Salary{}, err
	}
	s.add(created)
	s.logger.Info("salary created", log.FieldOperation, log.OpCreate, log.FieldEntityID, created.ID)
	return created, nil
}

func (s *SalaryStore) Update(ctx context.Context, id int64, sal core.Salary) (core.Salary, error) {
	if err := sal.Validate(); err != nil {
		return core.Salary{}, err
	}
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	updated, err := s.api.UpdateSalary(ctx, id, sal)
	if err != nil {
		s.fail(err)
		return core.Salary{}, err
	}
	s.replace(func(v core.Salary) bool { return v.ID == id }, updated)
	return updated, nil
}

func (s *SalaryStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	if err := s.api.DeleteSalary(ctx, id); err != nil {
		s.fail(err)
		return err
	}
	s.remove(func(v core.Salary) bool { return v.ID == id })
	s.logger.Info("salary deleted", log.FieldOperation, log.OpDelete, log.FieldEntityID, id)
	return nil
}

// ProcessMonthly triggers server-side salary processing and refreshes the
// list so last_added_date updates become visible.
func (s *SalaryStore) ProcessMonthly(ctx context.Context) (api.ProcessResult, error) {
	bctx, cancel := s.life.bind(ctx)
	defer cancel()

	res, err := s.api.ProcessMonthlySalaries(bctx)
	if err != nil {
		s.fail(err)
		return api.ProcessResult{}, err
	}
	s.logger.Info("salaries processed", log.FieldOperation, log.OpProcess, "processed", res.Processed)
	if err := s.Refresh(ctx); err != nil {
		return res, err
	}
	return res, nil
}
