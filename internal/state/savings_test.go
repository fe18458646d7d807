package state

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
)

type fakeSavingsAPI struct {
	nextID     int64
	comparison core.SavingsComparison
	cmpCalls   int
	cmpErr     error
	lastCreate core.SavingsInvestment
}

func (f *fakeSavingsAPI) CreateInvestment(ctx context.Context, inv core.SavingsInvestment) (core.SavingsInvestment, error) {
	f.nextID++
	inv.ID = f.nextID
	f.lastCreate = inv
	return inv, nil
}

func (f *fakeSavingsAPI) ListInvestments(ctx context.Context) ([]core.SavingsInvestment, error) {
	return nil, nil
}

func (f *fakeSavingsAPI) UpdateInvestment(ctx context.Context, id int64, inv core.SavingsInvestment) (core.SavingsInvestment, error) {
	inv.ID = id
	return inv, nil
}

func (f *fakeSavingsAPI) DeleteInvestment(ctx context.Context, id int64) error { return nil }

func (f *fakeSavingsAPI) SavingsComparison(ctx context.Context) (core.SavingsComparison, error) {
	f.cmpCalls++
	if f.cmpErr != nil {
		return core.SavingsComparison{}, f.cmpErr
	}
	return f.comparison, nil
}

func validInvestment() core.SavingsInvestment {
	return core.SavingsInvestment{
		Name:           "index fund",
		InvestmentType: core.MutualFund,
		PurchaseDate:   core.Today(),
		InitialAmount:  10000,
		CurrentValue:   10500,
	}
}

func TestSavingsStoreRefreshDependentAggregates(t *testing.T) {
	api := &fakeSavingsAPI{comparison: core.SavingsComparison{CashSavings: 5000, TotalInvested: 20000}}
	s := NewSavingsStore(context.Background(), api, testLogger())
	defer s.Close()

	if _, loaded := s.Comparison(); loaded {
		t.Fatal("comparison reported loaded before first fetch")
	}

	if _, err := s.Create(context.Background(), validInvestment()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.RefreshDependentAggregates(context.Background()); err != nil {
		t.Fatalf("RefreshDependentAggregates: %v", err)
	}

	cmp, loaded := s.Comparison()
	if !loaded {
		t.Fatal("comparison not loaded")
	}
	if cmp.CashSavings != 5000 || cmp.TotalInvested != 20000 {
		t.Fatalf("comparison = %+v", cmp)
	}
	if api.cmpCalls != 1 {
		t.Fatalf("comparison fetched %d times, want 1", api.cmpCalls)
	}
}

func TestSavingsStoreComparisonFailureKeepsMutation(t *testing.T) {
	api := &fakeSavingsAPI{cmpErr: errors.New("boom")}
	s := NewSavingsStore(context.Background(), api, testLogger())
	defer s.Close()

	created, err := s.Create(context.Background(), validInvestment())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.RefreshDependentAggregates(context.Background()); err == nil {
		t.Fatal("expected comparison error")
	}

	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != created.ID {
		t.Fatalf("mutation rolled back by aggregate failure: %+v", snap.Items)
	}
	if _, loaded := s.Comparison(); loaded {
		t.Fatal("failed comparison marked loaded")
	}
}

func TestSavingsStoreCreateNormalizesRecurringFields(t *testing.T) {
	api := &fakeSavingsAPI{}
	s := NewSavingsStore(context.Background(), api, testLogger())
	defer s.Close()

	inv := validInvestment()
	inv.IsRecurring = false
	inv.RecurringType = ptr(core.RecurMonthly)
	inv.RecurringAmount = ptr(500.0)

	if _, err := s.Create(context.Background(), inv); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if api.lastCreate.RecurringType != nil || api.lastCreate.RecurringAmount != nil {
		t.Fatalf("recurring fields not cleared: %+v", api.lastCreate)
	}
}

func TestSavingsStoreCreateRejectsRecurringWithoutFields(t *testing.T) {
	api := &fakeSavingsAPI{}
	s := NewSavingsStore(context.Background(), api, testLogger())
	defer s.Close()

	inv := validInvestment()
	inv.IsRecurring = true
	if _, err := s.Create(context.Background(), inv); !errors.Is(err, core.ErrRecurringFields) {
		t.Fatalf("err = %v, want ErrRecurringFields", err)
	}
	if api.nextID != 0 {
		t.Fatal("invalid investment reached the API")
	}
}
