package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export/memory"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

type fakeReader struct {
	transactions map[int64]core.Transaction
	err          error
}

func (f *fakeReader) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	tx, ok := f.transactions[id]
	if !ok {
		return core.Transaction{}, storage.ErrNotFound
	}
	return tx, nil
}

func sampleTx(id int64) core.Transaction {
	return core.Transaction{
		ID:            id,
		Date:          core.NewDate(2026, 2, 5),
		Amount:        1200,
		Type:          core.Expense,
		Category:      "Rent",
		PaymentMethod: core.PayBank,
	}
}

func TestHandleEventCreateExports(t *testing.T) {
	reader := &fakeReader{transactions: map[int64]core.Transaction{1: sampleTx(1)}}
	store := memory.New()
	w := NewExportWorker(reader, store, store, testLogger())

	err := w.HandleEvent(context.Background(), amqp.NewLedgerEventMessage(1, amqp.ActionCreated))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if got := len(store.Items()); got != 1 {
		t.Errorf("exported = %d, want 1", got)
	}
}

func TestHandleEventMissingTransactionIsDropped(t *testing.T) {
	reader := &fakeReader{transactions: map[int64]core.Transaction{}}
	store := memory.New()
	w := NewExportWorker(reader, store, store, testLogger())

	err := w.HandleEvent(context.Background(), amqp.NewLedgerEventMessage(9, amqp.ActionCreated))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if got := len(store.Items()); got != 0 {
		t.Errorf("exported = %d, want 0", got)
	}
}

func TestHandleEventStorageErrorRequeues(t *testing.T) {
	reader := &fakeReader{err: errors.New("db locked")}
	store := memory.New()
	w := NewExportWorker(reader, store, store, testLogger())

	err := w.HandleEvent(context.Background(), amqp.NewLedgerEventMessage(1, amqp.ActionCreated))
	if err == nil {
		t.Fatal("expected error for requeue")
	}
}

func TestHandleEventDeleteRemovesRow(t *testing.T) {
	reader := &fakeReader{transactions: map[int64]core.Transaction{1: sampleTx(1)}}
	store := memory.New()
	w := NewExportWorker(reader, store, store, testLogger())

	if err := w.HandleEvent(context.Background(), amqp.NewLedgerEventMessage(1, amqp.ActionCreated)); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := w.HandleEvent(context.Background(), amqp.NewLedgerEventMessage(1, amqp.ActionDeleted)); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if got := len(store.Items()); got != 0 {
		t.Errorf("items = %d, want 0", got)
	}
}

func TestHandleEventUnknownActionIsDropped(t *testing.T) {
	reader := &fakeReader{transactions: map[int64]core.Transaction{}}
	store := memory.New()
	w := NewExportWorker(reader, store, store, testLogger())

	err := w.HandleEvent(context.Background(), amqp.NewLedgerEventMessage(1, "compacted"))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
}
