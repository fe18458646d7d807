package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"fintrack/internal/api"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/session"
	"fintrack/internal/state"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

// fakeBackend serves the analytics endpoints the partials fetch. The monthly
// summary includes an Investments category only when the flag asks for it,
// and trends answer one point per requested month.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/analytics/monthly/"):
			summary := core.MonthlySummary{
				Month:        "2026-03",
				TotalIncome:  5000,
				TotalExpense: 2000,
				Investments:  500,
				Savings:      2500,
				TopCategories: []core.CategoryAmount{
					{Name: "Rent", Amount: 1500},
				},
			}
			if r.URL.Query().Get("include_investments") == "true" {
				summary.TopCategories = append(summary.TopCategories,
					core.CategoryAmount{Name: "Investments", Amount: 500})
			}
			_ = json.NewEncoder(w).Encode(summary)
		case r.URL.Path == "/api/analytics/trends/spending":
			months, _ := strconv.Atoi(r.URL.Query().Get("months"))
			points := make([]core.TrendPoint, months)
			for i := range points {
				points[i] = core.TrendPoint{Month: fmt.Sprintf("2026-%02d", i+1), Expense: 100}
			}
			_ = json.NewEncoder(w).Encode(points)
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestWebServer(t *testing.T, backendURL string) *Server {
	t.Helper()

	sessions := session.NewStore(filepath.Join(t.TempDir(), "token.json"))
	if err := sessions.Save("test-token"); err != nil {
		t.Fatalf("save session: %v", err)
	}

	logger := testLogger()
	client := api.NewClient(backendURL+"/api", sessions, 5*time.Second)
	ctx := context.Background()

	srv := NewServer(":0", Deps{
		Logger:       logger,
		Sessions:     sessions,
		Client:       client,
		Transactions: state.NewTransactionStore(ctx, client, logger),
		Cards:        state.NewCardStore(ctx, client, logger),
		Savings:      state.NewSavingsStore(ctx, client, logger),
		Salaries:     state.NewSalaryStore(ctx, client, logger),
		Payments:     state.NewPaymentStore(ctx, client, logger),
		Dashboard:    state.NewDashboardLoader(ctx, client, logger),
	})
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
	return srv
}

func getPartial(t *testing.T, srv *Server, path string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d, want 200", path, rec.Code)
	}
	return rec.Body.String()
}

func TestMonthSummaryCacheSeparatesInvestmentVariants(t *testing.T) {
	backend := fakeBackend(t)
	defer backend.Close()
	srv := newTestWebServer(t, backend.URL)

	const investmentsRow = `<span class="name">Investments</span>`

	body := getPartial(t, srv, "/ui/month-summary?year=2026&month=3&include_investments=true")
	if !strings.Contains(body, investmentsRow) {
		t.Fatalf("include_investments=true missing Investments category:\n%s", body)
	}

	// A cached render with the flag on must not answer a request with it off.
	body = getPartial(t, srv, "/ui/month-summary?year=2026&month=3&include_investments=false")
	if strings.Contains(body, investmentsRow) {
		t.Fatalf("include_investments=false served the cached variant with Investments:\n%s", body)
	}

	body = getPartial(t, srv, "/ui/month-summary?year=2026&month=3&include_investments=true")
	if !strings.Contains(body, investmentsRow) {
		t.Fatal("flag=true variant lost after caching the flag=false variant")
	}
}

func TestTrendsCacheSeparatesWindows(t *testing.T) {
	backend := fakeBackend(t)
	defer backend.Close()
	srv := newTestWebServer(t, backend.URL)

	six := getPartial(t, srv, "/ui/trends?months=6")
	three := getPartial(t, srv, "/ui/trends?months=3")

	if n := strings.Count(six, `class="trend"`); n != 6 {
		t.Fatalf("months=6 rendered %d points, want 6", n)
	}
	if n := strings.Count(three, `class="trend"`); n != 3 {
		t.Fatalf("months=3 rendered %d points, want 3 (cached window reused?)", n)
	}
}

func TestInvalidateMonthDropsBothSummaryVariants(t *testing.T) {
	backend := fakeBackend(t)
	defer backend.Close()
	srv := newTestWebServer(t, backend.URL)

	getPartial(t, srv, "/ui/month-summary?year=2026&month=3&include_investments=true")
	getPartial(t, srv, "/ui/month-summary?year=2026&month=3&include_investments=false")
	if srv.summaryCache.Size() != 2 {
		t.Fatalf("summary cache size = %d, want 2", srv.summaryCache.Size())
	}

	srv.invalidateMonth(2026, 3)
	if srv.summaryCache.Size() != 0 {
		t.Fatalf("summary cache size = %d after invalidation", srv.summaryCache.Size())
	}
}
