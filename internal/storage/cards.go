package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

const cardColumns = "id, name, bank_name, billing_cycle_start, billing_cycle_end, due_date, credit_limit, created_at"

func scanCard(row interface{ Scan(...any) error }) (core.CreditCard, error) {
	var (
		card      core.CreditCard
		createdAt string
	)
	err := row.Scan(&card.ID, &card.Name, &card.BankName, &card.BillingCycleStart,
		&card.BillingCycleEnd, &card.DueDate, &card.CreditLimit, &createdAt)
	if err != nil {
		return core.CreditCard{}, err
	}
	card.CreatedAt = parseTime(createdAt)
	return card, nil
}

func (r *SQLiteRepository) CreateCard(ctx context.Context, card core.CreditCard) (core.CreditCard, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO credit_cards (name, bank_name, billing_cycle_start, billing_cycle_end, due_date, credit_limit, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		card.Name, card.BankName, card.BillingCycleStart, card.BillingCycleEnd, card.DueDate, card.CreditLimit, nowString())
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("create card: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("card id: %w", err)
	}
	return r.GetCard(ctx, id)
}

func (r *SQLiteRepository) GetCard(ctx context.Context, id int64) (core.CreditCard, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+cardColumns+" FROM credit_cards WHERE id = ?", id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CreditCard{}, ErrNotFound
	}
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("get card: %w", err)
	}
	return card, nil
}

func (r *SQLiteRepository) ListCards(ctx context.Context) ([]core.CreditCard, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+cardColumns+" FROM credit_cards ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var out []core.CreditCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateCard(ctx context.Context, id int64, card core.CreditCard) (core.CreditCard, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE credit_cards SET name = ?, bank_name = ?, billing_cycle_start = ?, billing_cycle_end = ?, due_date = ?, credit_limit = ?
		 WHERE id = ?`,
		card.Name, card.BankName, card.BillingCycleStart, card.BillingCycleEnd, card.DueDate, card.CreditLimit, id)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("update card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.CreditCard{}, ErrNotFound
	}
	return r.GetCard(ctx, id)
}

func (r *SQLiteRepository) DeleteCard(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM credit_cards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
