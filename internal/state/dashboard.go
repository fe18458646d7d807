package state

import (
	"context"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// DashboardAPI is the slice of the REST client the dashboard composition
// needs. The aggregates are independent, so they are fetched concurrently.
type DashboardAPI interface {
	CurrentSummary(ctx context.Context) (core.Analytics, error)
	SavingsComparison(ctx context.Context) (core.SavingsComparison, error)
	ListCards(ctx context.Context) ([]core.CreditCard, error)
	CardUtilization(ctx context.Context, id int64) (core.CardUtilization, error)
	SpendingTrends(ctx context.Context, months, year int) ([]core.TrendPoint, error)
}

// Dashboard is everything the landing page renders in one pass.
type Dashboard struct {
	Summary      core.Analytics
	Comparison   core.SavingsComparison
	Cards        []core.CreditCard
	Utilizations []core.CardUtilization
	Trends       []core.TrendPoint
}

type DashboardLoader struct {
	life   *lifecycle
	api    DashboardAPI
	logger *log.Logger
}

func NewDashboardLoader(parent context.Context, api DashboardAPI, logger *log.Logger) *DashboardLoader {
	return &DashboardLoader{
		life:   newLifecycle(parent),
		api:    api,
		logger: logger.WithComponent(log.ComponentState),
	}
}

func (d *DashboardLoader) Close() { d.life.close() }

// Load fetches the dashboard aggregates concurrently. Any failure cancels
// the remaining fetches and is returned as-is.
func (d *DashboardLoader) Load(ctx context.Context, trendMonths int) (Dashboard, error) {
	ctx, cancel := d.life.bind(ctx)
	defer cancel()

	var dash Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := d.api.CurrentSummary(gctx)
		if err != nil {
			return err
		}
		dash.Summary = summary
		return nil
	})
	g.Go(func() error {
		cmp, err := d.api.SavingsComparison(gctx)
		if err != nil {
			return err
		}
		dash.Comparison = cmp
		return nil
	})
	g.Go(func() error {
		trends, err := d.api.SpendingTrends(gctx, trendMonths, 0)
		if err != nil {
			return err
		}
		dash.Trends = trends
		return nil
	})
	g.Go(func() error {
		cards, err := d.api.ListCards(gctx)
		if err != nil {
			return err
		}
		dash.Cards = cards
		dash.Utilizations = make([]core.CardUtilization, len(cards))

		ug, uctx := errgroup.WithContext(gctx)
		for i, card := range cards {
			ug.Go(func() error {
				u, err := d.api.CardUtilization(uctx, card.ID)
				if err != nil {
					return err
				}
				dash.Utilizations[i] = u
				return nil
			})
		}
		return ug.Wait()
	})

	if err := g.Wait(); err != nil {
		d.logger.Error("dashboard load failed", log.FieldError, err)
		return Dashboard{}, err
	}
	return dash, nil
}
