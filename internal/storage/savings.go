package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

const investmentColumns = `id, name, investment_type, purchase_date, initial_amount, current_value,
	description, is_recurring, recurring_type, recurring_amount, last_recurring_date, created_at, updated_at`

func scanInvestment(row interface{ Scan(...any) error }) (core.SavingsInvestment, error) {
	var (
		inv           core.SavingsInvestment
		purchaseDate  string
		recurringType sql.NullString
		recurringAmt  sql.NullFloat64
		lastRecurring sql.NullString
		createdAt     string
		updatedAt     string
	)
	err := row.Scan(&inv.ID, &inv.Name, &inv.InvestmentType, &purchaseDate, &inv.InitialAmount,
		&inv.CurrentValue, &inv.Description, &inv.IsRecurring, &recurringType, &recurringAmt,
		&lastRecurring, &createdAt, &updatedAt)
	if err != nil {
		return core.SavingsInvestment{}, err
	}
	inv.PurchaseDate = parseDate(purchaseDate)
	if recurringType.Valid {
		rt := core.RecurringType(recurringType.String)
		inv.RecurringType = &rt
	}
	if recurringAmt.Valid {
		inv.RecurringAmount = &recurringAmt.Float64
	}
	if lastRecurring.Valid {
		d := parseDate(lastRecurring.String)
		inv.LastRecurringDate = &d
	}
	inv.CreatedAt = parseTime(createdAt)
	inv.UpdatedAt = parseTime(updatedAt)
	return inv, nil
}

func investmentArgs(inv core.SavingsInvestment) (recurringType sql.NullString, recurringAmt sql.NullFloat64, lastRecurring sql.NullString) {
	if inv.RecurringType != nil {
		recurringType = sql.NullString{String: string(*inv.RecurringType), Valid: true}
	}
	if inv.RecurringAmount != nil {
		recurringAmt = sql.NullFloat64{Float64: *inv.RecurringAmount, Valid: true}
	}
	if inv.LastRecurringDate != nil {
		lastRecurring = sql.NullString{String: inv.LastRecurringDate.String(), Valid: true}
	}
	return
}

func (r *SQLiteRepository) CreateInvestment(ctx context.Context, inv core.SavingsInvestment) (core.SavingsInvestment, error) {
	recurringType, recurringAmt, lastRecurring := investmentArgs(inv)
	now := nowString()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO savings_investments (name, investment_type, purchase_date, initial_amount, current_value,
		 description, is_recurring, recurring_type, recurring_amount, last_recurring_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.Name, inv.InvestmentType, inv.PurchaseDate.String(), inv.InitialAmount, inv.CurrentValue,
		inv.Description, inv.IsRecurring, recurringType, recurringAmt, lastRecurring, now, now)
	if err != nil {
		return core.SavingsInvestment{}, fmt.Errorf("create investment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.SavingsInvestment{}, fmt.Errorf("investment id: %w", err)
	}
	return r.GetInvestment(ctx, id)
}

func (r *SQLiteRepository) GetInvestment(ctx context.Context, id int64) (core.SavingsInvestment, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+investmentColumns+" FROM savings_investments WHERE id = ?", id)
	inv, err := scanInvestment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsInvestment{}, ErrNotFound
	}
	if err != nil {
		return core.SavingsInvestment{}, fmt.Errorf("get investment: %w", err)
	}
	return inv, nil
}

func (r *SQLiteRepository) ListInvestments(ctx context.Context) ([]core.SavingsInvestment, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+investmentColumns+" FROM savings_investments ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsInvestment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateInvestment(ctx context.Context, id int64, inv core.SavingsInvestment) (core.SavingsInvestment, error) {
	recurringType, recurringAmt, lastRecurring := investmentArgs(inv)
	res, err := r.db.ExecContext(ctx,
		`UPDATE savings_investments SET name = ?, investment_type = ?, purchase_date = ?, initial_amount = ?,
		 current_value = ?, description = ?, is_recurring = ?, recurring_type = ?, recurring_amount = ?,
		 last_recurring_date = ?, updated_at = ?
		 WHERE id = ?`,
		inv.Name, inv.InvestmentType, inv.PurchaseDate.String(), inv.InitialAmount, inv.CurrentValue,
		inv.Description, inv.IsRecurring, recurringType, recurringAmt, lastRecurring, nowString(), id)
	if err != nil {
		return core.SavingsInvestment{}, fmt.Errorf("update investment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.SavingsInvestment{}, ErrNotFound
	}
	return r.GetInvestment(ctx, id)
}

func (r *SQLiteRepository) DeleteInvestment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM savings_investments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
