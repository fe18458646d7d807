package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func ptr[T any](v T) *T { return &v }

type fakeTransactionRepo struct {
	nextID  int64
	created []core.Transaction
	deleted []int64
	fail    bool
}

func (f *fakeTransactionRepo) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if f.fail {
		return core.Transaction{}, errors.New("storage down")
	}
	f.nextID++
	tx.ID = f.nextID
	f.created = append(f.created, tx)
	return tx, nil
}

func (f *fakeTransactionRepo) UpdateTransaction(_ context.Context, id int64, tx core.Transaction) (core.Transaction, error) {
	if f.fail {
		return core.Transaction{}, errors.New("storage down")
	}
	tx.ID = id
	return tx, nil
}

func (f *fakeTransactionRepo) DeleteTransaction(_ context.Context, id int64) error {
	if f.fail {
		return errors.New("storage down")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePublisher struct {
	events []string
	err    error
}

func (f *fakePublisher) PublishLedgerEvent(_ context.Context, id int64, action string) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, action)
	return nil
}

func validTx() core.Transaction {
	return core.Transaction{
		Date:          core.NewDate(2026, 4, 10),
		Amount:        500,
		Type:          core.Expense,
		Category:      "Food",
		PaymentMethod: core.PayCash,
	}
}

func TestLedgerServicePublishesOnCreate(t *testing.T) {
	repo := &fakeTransactionRepo{}
	pub := &fakePublisher{}
	svc := NewLedgerService(repo, pub, testLogger())

	created, err := svc.CreateTransaction(context.Background(), validTx())
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("ID = %d, want 1", created.ID)
	}
	if len(pub.events) != 1 || pub.events[0] != "created" {
		t.Errorf("events = %v, want [created]", pub.events)
	}
}

func TestLedgerServicePublishFailureDoesNotFailWrite(t *testing.T) {
	repo := &fakeTransactionRepo{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewLedgerService(repo, pub, testLogger())

	if _, err := svc.CreateTransaction(context.Background(), validTx()); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if len(repo.created) != 1 {
		t.Errorf("created = %d, want 1", len(repo.created))
	}
}

func TestLedgerServiceStorageFailureFails(t *testing.T) {
	repo := &fakeTransactionRepo{fail: true}
	pub := &fakePublisher{}
	svc := NewLedgerService(repo, pub, testLogger())

	if _, err := svc.CreateTransaction(context.Background(), validTx()); err == nil {
		t.Fatal("expected error")
	}
	if len(pub.events) != 0 {
		t.Errorf("events = %v, want none", pub.events)
	}
}

func TestLedgerServiceNilPublisher(t *testing.T) {
	repo := &fakeTransactionRepo{}
	svc := NewLedgerService(repo, nil, testLogger())

	if err := svc.DeleteTransaction(context.Background(), 7); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 7 {
		t.Errorf("deleted = %v, want [7]", repo.deleted)
	}
}

type fakeSalaryRepo struct {
	salaries []core.Salary
	marked   map[int64]core.Date
}

func (f *fakeSalaryRepo) ListActiveSalaries(_ context.Context) ([]core.Salary, error) {
	return f.salaries, nil
}

func (f *fakeSalaryRepo) MarkSalaryProcessed(_ context.Context, id int64, d core.Date) error {
	if f.marked == nil {
		f.marked = map[int64]core.Date{}
	}
	f.marked[id] = d
	return nil
}

func TestSalaryProcessorPostsDueSalaries(t *testing.T) {
	today := core.NewDate(2026, 5, 1)
	lastMonth := core.NewDate(2026, 4, 1)
	thisMonth := core.NewDate(2026, 5, 1)

	repo := &fakeSalaryRepo{salaries: []core.Salary{
		{ID: 1, Name: "Main job", Amount: 90000, StartDate: core.NewDate(2025, 1, 1), IsActive: true},
		{ID: 2, Name: "Side gig", Amount: 10000, StartDate: core.NewDate(2025, 1, 1), IsActive: true, LastAddedDate: &lastMonth},
		{ID: 3, Name: "Already run", Amount: 5000, StartDate: core.NewDate(2025, 1, 1), IsActive: true, LastAddedDate: &thisMonth},
		{ID: 4, Name: "Future", Amount: 20000, StartDate: core.NewDate(2027, 1, 1), IsActive: true},
	}}
	txRepo := &fakeTransactionRepo{}
	ledger := NewLedgerService(txRepo, nil, testLogger())
	proc := NewSalaryProcessor(repo, ledger, testLogger())

	n, err := proc.ProcessMonthly(context.Background(), today)
	if err != nil {
		t.Fatalf("ProcessMonthly: %v", err)
	}
	if n != 2 {
		t.Fatalf("processed = %d, want 2", n)
	}
	if len(txRepo.created) != 2 {
		t.Fatalf("created = %d, want 2", len(txRepo.created))
	}

	first := txRepo.created[0]
	if first.Type != core.Income || first.Category != "Salary" || first.PaymentMethod != core.PayBank {
		t.Errorf("unexpected income transaction: %+v", first)
	}
	if first.Amount != 90000 {
		t.Errorf("amount = %v, want 90000", first.Amount)
	}
	if _, ok := repo.marked[1]; !ok {
		t.Error("salary 1 not marked processed")
	}
	if _, ok := repo.marked[3]; ok {
		t.Error("salary 3 should have been skipped")
	}
}

func TestSalaryProcessorRepeatRunIsNoop(t *testing.T) {
	today := core.NewDate(2026, 5, 15)
	repo := &fakeSalaryRepo{salaries: []core.Salary{
		{ID: 1, Name: "Main job", Amount: 90000, StartDate: core.NewDate(2025, 1, 1), IsActive: true, LastAddedDate: &today},
	}}
	proc := NewSalaryProcessor(repo, NewLedgerService(&fakeTransactionRepo{}, nil, testLogger()), testLogger())

	n, err := proc.ProcessMonthly(context.Background(), today)
	if err != nil {
		t.Fatalf("ProcessMonthly: %v", err)
	}
	if n != 0 {
		t.Errorf("processed = %d, want 0", n)
	}
}

type fakeInvestmentRepo struct {
	investments []core.SavingsInvestment
	updated     []core.SavingsInvestment
}

func (f *fakeInvestmentRepo) ListInvestments(_ context.Context) ([]core.SavingsInvestment, error) {
	return f.investments, nil
}

func (f *fakeInvestmentRepo) UpdateInvestment(_ context.Context, id int64, inv core.SavingsInvestment) (core.SavingsInvestment, error) {
	inv.ID = id
	f.updated = append(f.updated, inv)
	return inv, nil
}

func TestRecurringProcessorAccruesDuePositions(t *testing.T) {
	today := core.NewDate(2026, 6, 10)
	dueDate := core.NewDate(2026, 5, 10)
	notDue := core.NewDate(2026, 5, 20)
	lastYear := core.NewDate(2025, 6, 1)

	repo := &fakeInvestmentRepo{investments: []core.SavingsInvestment{
		{ID: 1, Name: "SIP", InvestmentType: core.MutualFund, PurchaseDate: core.NewDate(2025, 1, 10),
			InitialAmount: 1000, CurrentValue: 1100, IsRecurring: true,
			RecurringType: ptr(core.RecurMonthly), RecurringAmount: ptr(500.0), LastRecurringDate: &dueDate},
		{ID: 2, Name: "Not due yet", InvestmentType: core.MutualFund, PurchaseDate: core.NewDate(2025, 1, 20),
			InitialAmount: 1000, CurrentValue: 1000, IsRecurring: true,
			RecurringType: ptr(core.RecurMonthly), RecurringAmount: ptr(500.0), LastRecurringDate: &notDue},
		{ID: 3, Name: "Annual premium", InvestmentType: core.LifeInsurance, PurchaseDate: core.NewDate(2024, 6, 1),
			InitialAmount: 12000, CurrentValue: 12000, IsRecurring: true,
			RecurringType: ptr(core.RecurYearly), RecurringAmount: ptr(12000.0), LastRecurringDate: &lastYear},
		{ID: 4, Name: "One-off", InvestmentType: core.Stock, PurchaseDate: core.NewDate(2025, 3, 1),
			InitialAmount: 5000, CurrentValue: 5200, IsRecurring: false},
	}}
	proc := NewRecurringInvestmentProcessor(repo, testLogger())

	n, err := proc.Process(context.Background(), today)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if n != 2 {
		t.Fatalf("processed = %d, want 2", n)
	}

	sip := repo.updated[0]
	if sip.InitialAmount != 1500 || sip.CurrentValue != 1600 {
		t.Errorf("SIP amounts = %v/%v, want 1500/1600", sip.InitialAmount, sip.CurrentValue)
	}
	if sip.LastRecurringDate == nil || sip.LastRecurringDate.String() != today.String() {
		t.Errorf("SIP last recurring date = %v, want %v", sip.LastRecurringDate, today)
	}

	annual := repo.updated[1]
	if annual.ID != 3 || annual.InitialAmount != 24000 {
		t.Errorf("annual accrual = %+v", annual)
	}
}

func TestRecurringProcessorInitializesCycle(t *testing.T) {
	today := core.NewDate(2026, 6, 10)
	repo := &fakeInvestmentRepo{investments: []core.SavingsInvestment{
		{ID: 1, Name: "Fresh SIP", InvestmentType: core.MutualFund, PurchaseDate: today,
			InitialAmount: 0, CurrentValue: 0, IsRecurring: true,
			RecurringType: ptr(core.RecurMonthly), RecurringAmount: ptr(500.0)},
	}}
	proc := NewRecurringInvestmentProcessor(repo, testLogger())

	n, err := proc.Process(context.Background(), today)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if n != 1 {
		t.Fatalf("processed = %d, want 1", n)
	}
	got := repo.updated[0]
	if got.InitialAmount != 500 || got.CurrentValue != 500 {
		t.Errorf("amounts = %v/%v, want 500/500", got.InitialAmount, got.CurrentValue)
	}
	if got.LastRecurringDate == nil {
		t.Error("last recurring date not set")
	}
}
