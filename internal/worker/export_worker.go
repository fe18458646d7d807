// Package worker consumes ledger change events and mirrors them to the
// spreadsheet ledger.
package worker

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// TransactionReader loads transactions for export.
type TransactionReader interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
}

// ExportWorker applies ledger events to the spreadsheet. Create and update
// events re-read the record from storage; the message only names it.
type ExportWorker struct {
	storage  TransactionReader
	appender export.LedgerAppender
	remover  export.LedgerRemover
	logger   *log.Logger
}

func NewExportWorker(storage TransactionReader, appender export.LedgerAppender, remover export.LedgerRemover, logger *log.Logger) *ExportWorker {
	return &ExportWorker{
		storage:  storage,
		appender: appender,
		remover:  remover,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent processes one ledger event. Returning an error requeues it.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	switch msg.Action {
	case amqp.ActionCreated, amqp.ActionUpdated:
		return w.exportTransaction(ctx, msg.ID)
	case amqp.ActionDeleted:
		return w.removeTransaction(ctx, msg.ID)
	default:
		// Unknown actions are dropped, requeueing cannot fix them.
		w.logger.WarnContext(ctx, "unknown ledger event action",
			log.FieldEntityID, msg.ID,
			log.FieldOperation, msg.Action)
		return nil
	}
}

func (w *ExportWorker) exportTransaction(ctx context.Context, id int64) error {
	tx, err := w.storage.GetTransaction(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted before the event was consumed; nothing to export.
		w.logger.WarnContext(ctx, "transaction gone before export",
			log.FieldEntityID, id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", id, err)
	}

	ref, err := w.appender.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append transaction %d: %w", id, err)
	}

	w.logger.InfoContext(ctx, "exported transaction",
		log.FieldEntityID, id,
		log.FieldSheetsRef, ref)
	return nil
}

func (w *ExportWorker) removeTransaction(ctx context.Context, id int64) error {
	if w.remover == nil {
		w.logger.WarnContext(ctx, "no ledger remover configured",
			log.FieldEntityID, id)
		return nil
	}
	if err := w.remover.Remove(ctx, core.Transaction{ID: id}); err != nil {
		// The row may never have been exported; log and move on.
		w.logger.WarnContext(ctx, "remove exported row failed",
			log.FieldEntityID, id,
			log.FieldError, err)
	}
	return nil
}
