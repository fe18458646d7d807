package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"fintrack/internal/core"
)

func (c *Client) CreatePayment(ctx context.Context, p core.CreditCardPayment) (core.CreditCardPayment, error) {
	var out core.CreditCardPayment
	err := c.do(ctx, http.MethodPost, "/payments/", nil, p, &out)
	return out, err
}

func (c *Client) ListPayments(ctx context.Context) ([]core.CreditCardPayment, error) {
	var out []core.CreditCardPayment
	err := c.do(ctx, http.MethodGet, "/payments/", nil, nil, &out)
	return out, err
}

func (c *Client) PaymentsByCard(ctx context.Context, cardID int64) ([]core.CreditCardPayment, error) {
	var out []core.CreditCardPayment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/payments/card/%d", cardID), nil, nil, &out)
	return out, err
}

func (c *Client) PaymentsByRange(ctx context.Context, start, end core.Date) ([]core.CreditCardPayment, error) {
	q := url.Values{}
	q.Set("start_date", start.String())
	q.Set("end_date", end.String())
	var out []core.CreditCardPayment
	err := c.do(ctx, http.MethodGet, "/payments/range/", q, nil, &out)
	return out, err
}

func (c *Client) GetPayment(ctx context.Context, id int64) (core.CreditCardPayment, error) {
	var out core.CreditCardPayment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/payments/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) UpdatePayment(ctx context.Context, id int64, p core.CreditCardPayment) (core.CreditCardPayment, error) {
	var out core.CreditCardPayment
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/payments/%d", id), nil, p, &out)
	return out, err
}

func (c *Client) DeletePayment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/payments/%d", id), nil, nil, nil)
}
