package state

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"fintrack/internal/core"
)

type fakeDashboardAPI struct {
	inFlight  atomic.Int32
	maxFlight atomic.Int32
	gate      chan struct{}

	summaryErr error
	cards      []core.CreditCard
}

func (f *fakeDashboardAPI) track() func() {
	n := f.inFlight.Add(1)
	for {
		peak := f.maxFlight.Load()
		if n <= peak || f.maxFlight.CompareAndSwap(peak, n) {
			break
		}
	}
	if f.gate != nil {
		<-f.gate
	}
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeDashboardAPI) CurrentSummary(ctx context.Context) (core.Analytics, error) {
	defer f.track()()
	if f.summaryErr != nil {
		return core.Analytics{}, f.summaryErr
	}
	return core.Analytics{MonthlySummary: core.MonthlySummary{TotalIncome: 50000}}, nil
}

func (f *fakeDashboardAPI) SavingsComparison(ctx context.Context) (core.SavingsComparison, error) {
	defer f.track()()
	return core.SavingsComparison{CashSavings: 1000}, nil
}

func (f *fakeDashboardAPI) ListCards(ctx context.Context) ([]core.CreditCard, error) {
	defer f.track()()
	return f.cards, nil
}

func (f *fakeDashboardAPI) CardUtilization(ctx context.Context, id int64) (core.CardUtilization, error) {
	defer f.track()()
	return core.CardUtilization{CardID: id, UtilizationPercent: 42}, nil
}

func (f *fakeDashboardAPI) SpendingTrends(ctx context.Context, months, year int) ([]core.TrendPoint, error) {
	defer f.track()()
	return []core.TrendPoint{{Month: "2026-08", Expense: 1200}}, nil
}

func TestDashboardLoadFetchesConcurrently(t *testing.T) {
	api := &fakeDashboardAPI{
		gate: make(chan struct{}),
		cards: []core.CreditCard{
			{ID: 1, Name: "visa"},
			{ID: 2, Name: "amex"},
		},
	}
	d := NewDashboardLoader(context.Background(), api, testLogger())
	defer d.Close()

	done := make(chan struct{})
	go func() {
		// The four top-level fetches start together; release them once
		// all are in flight.
		for api.inFlight.Load() < 4 {
		}
		close(api.gate)
		close(done)
	}()

	dash, err := d.Load(context.Background(), 6)
	<-done
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if api.maxFlight.Load() < 4 {
		t.Fatalf("max concurrent fetches = %d, want >= 4", api.maxFlight.Load())
	}
	if dash.Summary.MonthlySummary.TotalIncome != 50000 {
		t.Fatalf("summary = %+v", dash.Summary)
	}
	if len(dash.Cards) != 2 || len(dash.Utilizations) != 2 {
		t.Fatalf("cards=%d utilizations=%d", len(dash.Cards), len(dash.Utilizations))
	}
	if dash.Utilizations[0].CardID != 1 || dash.Utilizations[1].CardID != 2 {
		t.Fatalf("utilizations out of order: %+v", dash.Utilizations)
	}
	if len(dash.Trends) != 1 {
		t.Fatalf("trends = %+v", dash.Trends)
	}
}

func TestDashboardLoadPropagatesFirstError(t *testing.T) {
	wantErr := errors.New("summary down")
	api := &fakeDashboardAPI{summaryErr: wantErr}
	d := NewDashboardLoader(context.Background(), api, testLogger())
	defer d.Close()

	_, err := d.Load(context.Background(), 6)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
