package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

const salaryColumns = "id, name, amount, start_date, is_active, last_added_date, description, created_at"

func scanSalary(row interface{ Scan(...any) error }) (core.Salary, error) {
	var (
		sal       core.Salary
		startDate string
		lastAdded sql.NullString
		createdAt string
	)
	err := row.Scan(&sal.ID, &sal.Name, &sal.Amount, &startDate, &sal.IsActive, &lastAdded, &sal.Description, &createdAt)
	if err != nil {
		return core.Salary{}, err
	}
	sal.StartDate = parseDate(startDate)
	if lastAdded.Valid {
		d := parseDate(lastAdded.String)
		sal.LastAddedDate = &d
	}
	sal.CreatedAt = parseTime(createdAt)
	return sal, nil
}

func (r *SQLiteRepository) CreateSalary(ctx context.Context, sal core.Salary) (core.Salary, error) {
	var lastAdded sql.NullString
	if sal.LastAddedDate != nil {
		lastAdded = sql.NullString{String: sal.LastAddedDate.String(), Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO salaries (name, amount, start_date, is_active, last_added_date, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sal.Name, sal.Amount, sal.StartDate.String(), sal.IsActive, lastAdded, sal.Description, nowString())
	if err != nil {
		return core.Salary{}, fmt.Errorf("create salary: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Salary{}, fmt.Errorf("salary id: %w", err)
	}
	return r.GetSalary(ctx, id)
}

func (r *SQLiteRepository) GetSalary(ctx context.Context, id int64) (core.Salary, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+salaryColumns+" FROM salaries WHERE id = ?", id)
	sal, err := scanSalary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Salary{}, ErrNotFound
	}
	if err != nil {
		return core.Salary{}, fmt.Errorf("get salary: %w", err)
	}
	return sal, nil
}

func (r *SQLiteRepository) ListSalaries(ctx context.Context) ([]core.Salary, error) {
	return r.listSalaries(ctx, "SELECT "+salaryColumns+" FROM salaries ORDER BY id")
}

func (r *SQLiteRepository) ListActiveSalaries(ctx context.Context) ([]core.Salary, error) {
	return r.listSalaries(ctx, "SELECT "+salaryColumns+" FROM salaries WHERE is_active = 1 ORDER BY id")
}

func (r *SQLiteRepository) listSalaries(ctx context.Context, query string) ([]core.Salary, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list salaries: %w", err)
	}
	defer rows.Close()

	var out []core.Salary
	for rows.Next() {
		sal, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan salary: %w", err)
		}
		out = append(out, sal)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateSalary(ctx context.Context, id int64, sal core.Salary) (core.Salary, error) {
	var lastAdded sql.NullString
	if sal.LastAddedDate != nil {
		lastAdded = sql.NullString{String: sal.LastAddedDate.String(), Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE salaries SET name = ?, amount = ?, start_date = ?, is_active = ?, last_added_date = ?, description = ?
		 WHERE id = ?`,
		sal.Name, sal.Amount, sal.StartDate.String(), sal.IsActive, lastAdded, sal.Description, id)
	if err != nil {
		return core.Salary{}, fmt.Errorf("update salary: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Salary{}, ErrNotFound
	}
	return r.GetSalary(ctx, id)
}

// MarkSalaryProcessed records the date a salary was last posted as income.
func (r *SQLiteRepository) MarkSalaryProcessed(ctx context.Context, id int64, date core.Date) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE salaries SET last_added_date = ? WHERE id = ?", date.String(), id)
	if err != nil {
		return fmt.Errorf("mark salary processed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteSalary(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM salaries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete salary: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
