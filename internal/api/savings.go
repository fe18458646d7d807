package api

import (
	"context"
	"fmt"
	"net/http"

	"fintrack/internal/core"
)

func (c *Client) CreateInvestment(ctx context.Context, inv core.SavingsInvestment) (core.SavingsInvestment, error) {
	var out core.SavingsInvestment
	err := c.do(ctx, http.MethodPost, "/savings/", nil, inv, &out)
	return out, err
}

func (c *Client) ListInvestments(ctx context.Context) ([]core.SavingsInvestment, error) {
	var out []core.SavingsInvestment
	err := c.do(ctx, http.MethodGet, "/savings/", nil, nil, &out)
	return out, err
}

func (c *Client) GetInvestment(ctx context.Context, id int64) (core.SavingsInvestment, error) {
	var out core.SavingsInvestment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/savings/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) UpdateInvestment(ctx context.Context, id int64, inv core.SavingsInvestment) (core.SavingsInvestment, error) {
	var out core.SavingsInvestment
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/savings/%d", id), nil, inv, &out)
	return out, err
}

func (c *Client) DeleteInvestment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/savings/%d", id), nil, nil, nil)
}

// SavingsComparison fetches the current cash-vs-investments aggregate. It is
// computed server-side from the full investment set, so callers re-fetch it
// after any savings mutation.
func (c *Client) SavingsComparison(ctx context.Context) (core.SavingsComparison, error) {
	var out core.SavingsComparison
	err := c.do(ctx, http.MethodGet, "/savings/comparison/current", nil, nil, &out)
	return out, err
}
