package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

const (
	testUsername = "admin"
	testPassword = "correct horse battery staple"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func newTestServer(t *testing.T) (*Server, *storage.SQLiteRepository) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	logger := testLogger()
	ledger := services.NewLedgerService(repo, nil, logger)
	srv := NewServer(":0", Deps{
		Repo:             repo,
		Ledger:           ledger,
		SalaryProcessor:  services.NewSalaryProcessor(repo, ledger, logger),
		Logger:           logger,
		JWTSecret:        testSecret,
		AuthUsername:     testUsername,
		AuthPasswordHash: string(hash),
		TokenTTL:         time.Hour,
	})
	return srv, repo
}

func loginToken(t *testing.T, srv *Server) string {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": testUsername, "password": testPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body)
	}
	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return resp.AccessToken
}

func doRequest(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": testUsername, "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/transactions/", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions/", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", rec.Code)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	token := loginToken(t, srv)

	tx := core.Transaction{
		Date:          core.NewDate(2026, 5, 10),
		Amount:        2500,
		Type:          core.Expense,
		Category:      "Groceries",
		Description:   "weekly shop",
		PaymentMethod: core.PayUPI,
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/transactions/", token, tx)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created transaction has no ID")
	}

	rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/transactions/%d", created.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions/monthly/2026/5", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("monthly status = %d", rec.Code)
	}
	var monthly []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &monthly); err != nil {
		t.Fatalf("decode monthly: %v", err)
	}
	if len(monthly) != 1 {
		t.Errorf("monthly = %d transactions, want 1", len(monthly))
	}

	rec = doRequest(t, srv, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", created.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/transactions/%d", created.ID), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateTransactionValidatesCardRule(t *testing.T) {
	srv, _ := newTestServer(t)
	token := loginToken(t, srv)

	tx := core.Transaction{
		Date:          core.NewDate(2026, 5, 10),
		Amount:        900,
		Type:          core.Expense,
		Category:      "Shopping",
		PaymentMethod: core.PayCard, // no credit_card_id
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/transactions/", token, tx)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestMonthlyAnalyticsArithmetic(t *testing.T) {
	srv, repo := newTestServer(t)
	token := loginToken(t, srv)
	ctx := context.Background()

	seed := []core.Transaction{
		{Date: core.NewDate(2026, 5, 1), Amount: 90000, Type: core.Income, Category: "Salary", PaymentMethod: core.PayBank},
		{Date: core.NewDate(2026, 5, 8), Amount: 20000, Type: core.Expense, Category: "Rent", PaymentMethod: core.PayBank},
		{Date: core.NewDate(2026, 5, 12), Amount: 4000, Type: core.Expense, Category: "Food", PaymentMethod: core.PayUPI},
		// Outside the month, must not count.
		{Date: core.NewDate(2026, 4, 30), Amount: 999, Type: core.Expense, Category: "Food", PaymentMethod: core.PayCash},
	}
	for _, tx := range seed {
		if _, err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}
	inv := core.SavingsInvestment{
		Name: "SIP", InvestmentType: core.MutualFund, PurchaseDate: core.NewDate(2025, 1, 1),
		InitialAmount: 1000, CurrentValue: 1000, IsRecurring: true,
		RecurringType:   func() *core.RecurringType { v := core.RecurMonthly; return &v }(),
		RecurringAmount: func() *float64 { v := 2000.0; return &v }(),
	}
	if _, err := repo.CreateInvestment(ctx, inv); err != nil {
		t.Fatalf("seed investment: %v", err)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/analytics/monthly/2026/5?include_investments=true", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var summary core.MonthlySummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}

	if summary.TotalIncome != 90000 {
		t.Errorf("income = %v, want 90000", summary.TotalIncome)
	}
	if summary.TotalExpense != 24000 {
		t.Errorf("expense = %v, want 24000", summary.TotalExpense)
	}
	if summary.Investments != 2000 {
		t.Errorf("investments = %v, want 2000", summary.Investments)
	}
	if summary.Savings != 64000 {
		t.Errorf("savings = %v, want 64000", summary.Savings)
	}
	if len(summary.TopCategories) == 0 || summary.TopCategories[0].Name != "Rent" {
		t.Errorf("top categories = %+v, want Rent first", summary.TopCategories)
	}
}

func TestMonthlyAnalyticsRejectsBadMonth(t *testing.T) {
	srv, _ := newTestServer(t)
	token := loginToken(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/analytics/monthly/2026/13", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCardUtilizationEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	token := loginToken(t, srv)
	ctx := context.Background()

	card, err := repo.CreateCard(ctx, core.CreditCard{
		Name: "Platinum", BankName: "HDFC",
		BillingCycleStart: 1, BillingCycleEnd: 28, DueDate: 15, CreditLimit: 100000,
	})
	if err != nil {
		t.Fatalf("seed card: %v", err)
	}

	today := core.Today()
	if _, err := repo.CreateTransaction(ctx, core.Transaction{
		Date: today, Amount: 30000, Type: core.Expense, Category: "Shopping",
		PaymentMethod: core.PayCard, CreditCardID: &card.ID,
	}); err != nil {
		t.Fatalf("seed card spend: %v", err)
	}

	rec := doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/cards/%d/utilization", card.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var util core.CardUtilization
	if err := json.Unmarshal(rec.Body.Bytes(), &util); err != nil {
		t.Fatalf("decode utilization: %v", err)
	}
	if util.CardID != card.ID || util.CardName != "Platinum" {
		t.Errorf("identity = %d/%q", util.CardID, util.CardName)
	}
	// The seeded spend falls in the current cycle only when today is within
	// the 1-28 window; days 29-31 land outside it.
	if today.Day() <= 28 {
		if util.AmountSpent != 30000 {
			t.Errorf("spent = %v, want 30000", util.AmountSpent)
		}
		if util.UtilizationPercent != 30 {
			t.Errorf("percent = %v, want 30", util.UtilizationPercent)
		}
	}
}

func TestProcessSalariesEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	token := loginToken(t, srv)
	ctx := context.Background()

	if _, err := repo.CreateSalary(ctx, core.Salary{
		Name: "Main job", Amount: 80000, StartDate: core.NewDate(2025, 1, 1), IsActive: true,
	}); err != nil {
		t.Fatalf("seed salary: %v", err)
	}

	rec := doRequest(t, srv, http.MethodPost, "/api/salaries/process/monthly", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var result struct {
		Processed int `json:"processed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Processed != 1 {
		t.Errorf("processed = %d, want 1", result.Processed)
	}

	// Second run in the same month posts nothing.
	rec = doRequest(t, srv, http.MethodPost, "/api/salaries/process/monthly", token, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode second result: %v", err)
	}
	if result.Processed != 0 {
		t.Errorf("second run processed = %d, want 0", result.Processed)
	}

	txs, err := repo.ListTransactions(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != core.Income || txs[0].Category != "Salary" {
		t.Errorf("transactions = %+v, want one salary income", txs)
	}
}

func TestSavingsComparisonEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	token := loginToken(t, srv)
	ctx := context.Background()

	if _, err := repo.CreateInvestment(ctx, core.SavingsInvestment{
		Name: "FD", InvestmentType: core.FixedDeposit, PurchaseDate: core.NewDate(2025, 6, 1),
		InitialAmount: 50000, CurrentValue: 53000,
	}); err != nil {
		t.Fatalf("seed investment: %v", err)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/savings/comparison/current", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var cmp core.SavingsComparison
	if err := json.Unmarshal(rec.Body.Bytes(), &cmp); err != nil {
		t.Fatalf("decode comparison: %v", err)
	}
	if cmp.TotalInvested != 50000 || cmp.TotalCurrentInvestmentValue != 53000 {
		t.Errorf("invested = %v/%v, want 50000/53000", cmp.TotalInvested, cmp.TotalCurrentInvestmentValue)
	}
	if cmp.InvestmentProfitLoss != 3000 {
		t.Errorf("pl = %v, want 3000", cmp.InvestmentProfitLoss)
	}
}

func TestPaymentRequiresExistingCard(t *testing.T) {
	srv, _ := newTestServer(t)
	token := loginToken(t, srv)

	p := core.CreditCardPayment{
		CreditCardID: 42, Amount: 5000, PaymentDate: core.NewDate(2026, 5, 15),
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/payments/", token, p)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
