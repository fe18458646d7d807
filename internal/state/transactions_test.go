package state

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

type fakeTransactionAPI struct {
	nextID    int64
	listErr   error
	createErr error
	updateErr error
	deleteErr error
	blocked   chan struct{} // when set, List blocks until ctx is done
}

func (f *fakeTransactionAPI) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if f.createErr != nil {
		return core.Transaction{}, f.createErr
	}
	f.nextID++
	tx.ID = f.nextID
	return tx, nil
}

func (f *fakeTransactionAPI) ListTransactions(ctx context.Context, skip, limit int) ([]core.Transaction, error) {
	if f.blocked != nil {
		close(f.blocked)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []core.Transaction{{ID: 1, Amount: 100, Type: core.Expense, Category: "food", PaymentMethod: core.PayCash}}, nil
}

func (f *fakeTransactionAPI) TransactionsByMonth(ctx context.Context, year, month int) ([]core.Transaction, error) {
	return nil, nil
}

func (f *fakeTransactionAPI) UpdateTransaction(ctx context.Context, id int64, tx core.Transaction) (core.Transaction, error) {
	if f.updateErr != nil {
		return core.Transaction{}, f.updateErr
	}
	tx.ID = id
	tx.Description = "server canonical"
	return tx, nil
}

func (f *fakeTransactionAPI) DeleteTransaction(ctx context.Context, id int64) error {
	return f.deleteErr
}

func validExpense() core.Transaction {
	return core.Transaction{
		Date:          core.Today(),
		Amount:        250,
		Type:          core.Expense,
		Category:      "groceries",
		PaymentMethod: core.PayUPI,
	}
}

func TestTransactionStoreCreateAppendsServerRecord(t *testing.T) {
	api := &fakeTransactionAPI{nextID: 10}
	s := NewTransactionStore(context.Background(), api, testLogger())
	defer s.Close()

	created, err := s.Create(context.Background(), validExpense())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 11 {
		t.Fatalf("ID = %d, want server-assigned 11", created.ID)
	}
	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != 11 {
		t.Fatalf("snapshot = %+v", snap.Items)
	}
}

func TestTransactionStoreCreateRejectsCardWithoutID(t *testing.T) {
	api := &fakeTransactionAPI{}
	s := NewTransactionStore(context.Background(), api, testLogger())
	defer s.Close()

	tx := validExpense()
	tx.PaymentMethod = core.PayCard
	if _, err := s.Create(context.Background(), tx); !errors.Is(err, core.ErrCardRequired) {
		t.Fatalf("err = %v, want ErrCardRequired", err)
	}
	if api.nextID != 0 {
		t.Fatal("invalid transaction reached the API")
	}
	if len(s.Snapshot().Items) != 0 {
		t.Fatal("invalid transaction was cached")
	}
}

func TestTransactionStoreUpdateReplacesWithServerResponse(t *testing.T) {
	api := &fakeTransactionAPI{}
	s := NewTransactionStore(context.Background(), api, testLogger())
	defer s.Close()

	created, err := s.Create(context.Background(), validExpense())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	upd := validExpense()
	upd.Amount = 999
	got, err := s.Update(context.Background(), created.ID, upd)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Description != "server canonical" {
		t.Fatalf("local record was not replaced by the server response: %+v", got)
	}
	snap := s.Snapshot()
	if snap.Items[0].Amount != 999 || snap.Items[0].Description != "server canonical" {
		t.Fatalf("snapshot = %+v", snap.Items[0])
	}
}

func TestTransactionStoreDeleteKeepsItemOnFailure(t *testing.T) {
	api := &fakeTransactionAPI{}
	s := NewTransactionStore(context.Background(), api, testLogger())
	defer s.Close()

	created, _ := s.Create(context.Background(), validExpense())

	api.deleteErr = errors.New("server unavailable")
	if err := s.Delete(context.Background(), created.ID); err == nil {
		t.Fatal("expected delete error")
	}
	snap := s.Snapshot()
	if len(snap.Items) != 1 {
		t.Fatalf("item removed despite failed delete: %+v", snap.Items)
	}
	if snap.Err == nil {
		t.Fatal("error not retained in snapshot")
	}

	api.deleteErr = nil
	if err := s.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	snap = s.Snapshot()
	if len(snap.Items) != 0 {
		t.Fatalf("item not removed after confirmed delete: %+v", snap.Items)
	}
	if snap.Err != nil {
		t.Fatalf("stale error after successful delete: %v", snap.Err)
	}
}

func TestTransactionStoreRefreshRetainsError(t *testing.T) {
	api := &fakeTransactionAPI{listErr: errors.New("boom")}
	s := NewTransactionStore(context.Background(), api, testLogger())
	defer s.Close()

	if err := s.Refresh(context.Background(), 0, 0); err == nil {
		t.Fatal("expected refresh error")
	}
	snap := s.Snapshot()
	if snap.Err == nil || snap.Loading {
		t.Fatalf("snapshot after failure: loading=%v err=%v", snap.Loading, snap.Err)
	}

	api.listErr = nil
	if err := s.Refresh(context.Background(), 0, 0); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snap = s.Snapshot()
	if snap.Err != nil || len(snap.Items) != 1 {
		t.Fatalf("snapshot after recovery: %+v", snap)
	}
}

func TestTransactionStoreCloseCancelsInFlight(t *testing.T) {
	api := &fakeTransactionAPI{blocked: make(chan struct{})}
	s := NewTransactionStore(context.Background(), api, testLogger())

	done := make(chan error, 1)
	go func() {
		done <- s.Refresh(context.Background(), 0, 0)
	}()
	<-api.blocked
	s.Close()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
