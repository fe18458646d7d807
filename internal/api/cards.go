package api

import (
	"context"
	"fmt"
	"net/http"

	"fintrack/internal/core"
)

func (c *Client) CreateCard(ctx context.Context, card core.CreditCard) (core.CreditCard, error) {
	var out core.CreditCard
	err := c.do(ctx, http.MethodPost, "/cards/", nil, card, &out)
	return out, err
}

func (c *Client) ListCards(ctx context.Context) ([]core.CreditCard, error) {
	var out []core.CreditCard
	err := c.do(ctx, http.MethodGet, "/cards/", nil, nil, &out)
	return out, err
}

func (c *Client) GetCard(ctx context.Context, id int64) (core.CreditCard, error) {
	var out core.CreditCard
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/cards/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) UpdateCard(ctx context.Context, id int64, card core.CreditCard) (core.CreditCard, error) {
	var out core.CreditCard
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cards/%d", id), nil, card, &out)
	return out, err
}

func (c *Client) DeleteCard(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cards/%d", id), nil, nil, nil)
}

// CardUtilization fetches the server-computed spend for the card's current
// billing cycle. The client displays the percentage as-is.
func (c *Client) CardUtilization(ctx context.Context, id int64) (core.CardUtilization, error) {
	var out core.CardUtilization
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/cards/%d/utilization", id), nil, nil, &out)
	return out, err
}
