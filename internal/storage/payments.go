package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

const paymentColumns = "id, credit_card_id, amount, payment_date, description, created_at"

func scanPayment(row interface{ Scan(...any) error }) (core.CreditCardPayment, error) {
	var (
		p           core.CreditCardPayment
		paymentDate string
		createdAt   string
	)
	err := row.Scan(&p.ID, &p.CreditCardID, &p.Amount, &paymentDate, &p.Description, &createdAt)
	if err != nil {
		return core.CreditCardPayment{}, err
	}
	p.PaymentDate = parseDate(paymentDate)
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

func (r *SQLiteRepository) CreatePayment(ctx context.Context, p core.CreditCardPayment) (core.CreditCardPayment, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO credit_card_payments (credit_card_id, amount, payment_date, description, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.CreditCardID, p.Amount, p.PaymentDate.String(), p.Description, nowString())
	if err != nil {
		return core.CreditCardPayment{}, fmt.Errorf("create payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.CreditCardPayment{}, fmt.Errorf("payment id: %w", err)
	}
	return r.GetPayment(ctx, id)
}

func (r *SQLiteRepository) GetPayment(ctx context.Context, id int64) (core.CreditCardPayment, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM credit_card_payments WHERE id = ?", id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CreditCardPayment{}, ErrNotFound
	}
	if err != nil {
		return core.CreditCardPayment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListPayments(ctx context.Context) ([]core.CreditCardPayment, error) {
	return r.listPayments(ctx,
		"SELECT "+paymentColumns+" FROM credit_card_payments ORDER BY payment_date DESC, id DESC")
}

func (r *SQLiteRepository) ListPaymentsByCard(ctx context.Context, cardID int64) ([]core.CreditCardPayment, error) {
	return r.listPayments(ctx,
		"SELECT "+paymentColumns+" FROM credit_card_payments WHERE credit_card_id = ? ORDER BY payment_date DESC, id DESC",
		cardID)
}

func (r *SQLiteRepository) ListPaymentsByRange(ctx context.Context, start, end core.Date) ([]core.CreditCardPayment, error) {
	return r.listPayments(ctx,
		"SELECT "+paymentColumns+" FROM credit_card_payments WHERE payment_date >= ? AND payment_date <= ? ORDER BY payment_date DESC, id DESC",
		start.String(), end.String())
}

func (r *SQLiteRepository) listPayments(ctx context.Context, query string, args ...any) ([]core.CreditCardPayment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []core.CreditCardPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdatePayment(ctx context.Context, id int64, p core.CreditCardPayment) (core.CreditCardPayment, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE credit_card_payments SET credit_card_id = ?, amount = ?, payment_date = ?, description = ?
		 WHERE id = ?`,
		p.CreditCardID, p.Amount, p.PaymentDate.String(), p.Description, id)
	if err != nil {
		return core.CreditCardPayment{}, fmt.Errorf("update payment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.CreditCardPayment{}, ErrNotFound
	}
	return r.GetPayment(ctx, id)
}

func (r *SQLiteRepository) DeletePayment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM credit_card_payments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
