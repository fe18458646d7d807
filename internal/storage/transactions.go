package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"
)

// ErrNotFound is returned when a row lookup matches nothing.
var ErrNotFound = errors.New("not found")

const timeLayout = time.RFC3339

func nowString() string {
	return time.Now().UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseDate(s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}
	}
	return d
}

const transactionColumns = "id, date, amount, type, category, description, payment_method, credit_card_id, created_at"

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		tx        core.Transaction
		date      string
		cardID    sql.NullInt64
		createdAt string
	)
	err := row.Scan(&tx.ID, &date, &tx.Amount, &tx.Type, &tx.Category, &tx.Description, &tx.PaymentMethod, &cardID, &createdAt)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Date = parseDate(date)
	if cardID.Valid {
		tx.CreditCardID = &cardID.Int64
	}
	tx.CreatedAt = parseTime(createdAt)
	return tx, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	var cardID sql.NullInt64
	if tx.CreditCardID != nil {
		cardID = sql.NullInt64{Int64: *tx.CreditCardID, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, amount, type, category, description, payment_method, credit_card_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.Date.String(), tx.Amount, tx.Type, tx.Category, tx.Description, tx.PaymentMethod, cardID, nowString())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	return r.GetTransaction(ctx, id)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, skip, limit int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC, id DESC LIMIT ? OFFSET ?",
		limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListTransactionsByRange lists transactions with start <= date <= end.
func (r *SQLiteRepository) ListTransactionsByRange(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE date >= ? AND date <= ? ORDER BY date DESC, id DESC",
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions by range: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id int64, tx core.Transaction) (core.Transaction, error) {
	var cardID sql.NullInt64
	if tx.CreditCardID != nil {
		cardID = sql.NullInt64{Int64: *tx.CreditCardID, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET date = ?, amount = ?, type = ?, category = ?, description = ?, payment_method = ?, credit_card_id = ?
		 WHERE id = ?`,
		tx.Date.String(), tx.Amount, tx.Type, tx.Category, tx.Description, tx.PaymentMethod, cardID, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Transaction{}, ErrNotFound
	}
	return r.GetTransaction(ctx, id)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CardSpend sums card expenses for one card inside a date window.
func (r *SQLiteRepository) CardSpend(ctx context.Context, cardID int64, start, end core.Date) (float64, error) {
	var total sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM transactions
		 WHERE credit_card_id = ? AND type = 'expense' AND date >= ? AND date <= ?`,
		cardID, start.String(), end.String()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("card spend: %w", err)
	}
	return total.Float64, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
