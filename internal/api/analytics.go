package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"fintrack/internal/core"
)

// MonthlyAnalytics returns the summary for a given month. When
// includeInvestments is true the server folds the monthly share of recurring
// investments into the expense side.
func (c *Client) MonthlyAnalytics(ctx context.Context, year, month int, includeInvestments bool) (core.MonthlySummary, error) {
	q := url.Values{}
	q.Set("include_investments", strconv.FormatBool(includeInvestments))
	var out core.MonthlySummary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/analytics/monthly/%d/%d", year, month), q, nil, &out)
	return out, err
}

func (c *Client) YearlyAnalytics(ctx context.Context, year int) (core.YearlySummary, error) {
	var out core.YearlySummary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/analytics/yearly/%d", year), nil, nil, &out)
	return out, err
}

func (c *Client) YearlyCategories(ctx context.Context, year int) ([]core.CategoryAmount, error) {
	var out []core.CategoryAmount
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/analytics/yearly/%d/categories", year), nil, nil, &out)
	return out, err
}

func (c *Client) Insights(ctx context.Context, year, month int) ([]core.Insight, error) {
	var out []core.Insight
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/analytics/insights/%d/%d", year, month), nil, nil, &out)
	return out, err
}

// SpendingTrends returns per-month expense totals for the trailing window.
func (c *Client) SpendingTrends(ctx context.Context, months, year int) ([]core.TrendPoint, error) {
	q := url.Values{}
	q.Set("months", strconv.Itoa(months))
	q.Set("year", strconv.Itoa(year))
	var out []core.TrendPoint
	err := c.do(ctx, http.MethodGet, "/analytics/trends/spending", q, nil, &out)
	return out, err
}

// CurrentSummary is the dashboard snapshot for the current calendar month.
func (c *Client) CurrentSummary(ctx context.Context) (core.Analytics, error) {
	var out core.Analytics
	err := c.do(ctx, http.MethodGet, "/analytics/summary/current", nil, nil, &out)
	return out, err
}
