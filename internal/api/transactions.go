package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"fintrack/internal/core"
)

// CreateTransaction posts a new transaction and returns the server's
// canonical record, including the assigned id.
func (c *Client) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	var out core.Transaction
	err := c.do(ctx, http.MethodPost, "/transactions/", nil, tx, &out)
	return out, err
}

func (c *Client) ListTransactions(ctx context.Context, skip, limit int) ([]core.Transaction, error) {
	var out []core.Transaction
	err := c.do(ctx, http.MethodGet, "/transactions/", pageQuery(skip, limit), nil, &out)
	return out, err
}

// TransactionsByMonth lists the transactions of one calendar month.
func (c *Client) TransactionsByMonth(ctx context.Context, year, month int) ([]core.Transaction, error) {
	var out []core.Transaction
	path := fmt.Sprintf("/transactions/monthly/%d/%d", year, month)
	err := c.do(ctx, http.MethodGet, path, nil, nil, &out)
	return out, err
}

func (c *Client) TransactionsByRange(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	q := url.Values{}
	q.Set("start_date", start.String())
	q.Set("end_date", end.String())
	var out []core.Transaction
	err := c.do(ctx, http.MethodGet, "/transactions/range/", q, nil, &out)
	return out, err
}

func (c *Client) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	var out core.Transaction
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/transactions/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) UpdateTransaction(ctx context.Context, id int64, tx core.Transaction) (core.Transaction, error) {
	var out core.Transaction
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/transactions/%d", id), nil, tx, &out)
	return out, err
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, nil, nil)
}
