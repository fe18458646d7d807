package api

import (
	"context"
	"fmt"
	"net/http"

	"fintrack/internal/core"
)

func (c *Client) CreateSalary(ctx context.Context, s core.Salary) (core.Salary, error) {
	var out core.Salary
	err := c.do(ctx, http.MethodPost, "/salaries/", nil, s, &out)
	return out, err
}

func (c *Client) ListSalaries(ctx context.Context) ([]core.Salary, error) {
	var out []core.Salary
	err := c.do(ctx, http.MethodGet, "/salaries/", nil, nil, &out)
	return out, err
}

func (c *Client) ActiveSalaries(ctx context.Context) ([]core.Salary, error) {
	var out []core.Salary
	err := c.do(ctx, http.MethodGet, "/salaries/active", nil, nil, &out)
	return out, err
}

func (c *Client) GetSalary(ctx context.Context, id int64) (core.Salary, error) {
	var out core.Salary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/salaries/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) UpdateSalary(ctx context.Context, id int64, s core.Salary) (core.Salary, error) {
	var out core.Salary
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/salaries/%d", id), nil, s, &out)
	return out, err
}

func (c *Client) DeleteSalary(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/salaries/%d", id), nil, nil, nil)
}

// ProcessResult reports how many income transactions a manual salary run
// created.
type ProcessResult struct {
	Processed int    `json:"processed"`
	Message   string `json:"message"`
}

// ProcessMonthlySalaries asks the server to post income transactions for all
// active salaries due this month. Already-processed salaries are skipped.
func (c *Client) ProcessMonthlySalaries(ctx context.Context) (ProcessResult, error) {
	var out ProcessResult
	err := c.do(ctx, http.MethodPost, "/salaries/process/monthly", nil, nil, &out)
	return out, err
}
