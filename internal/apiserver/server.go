// Package apiserver is the JSON REST backend: CRUD over SQLite, JWT auth,
// and the derived-analytics endpoints the web client consumes.
package apiserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type Server struct {
	http.Server
	repo      *storage.SQLiteRepository
	ledger    *services.LedgerService
	salaries  *services.SalaryProcessor
	logger    *log.Logger
	analytics *gocache.Cache
	limiter   *rate.Limiter

	jwtSecret        []byte
	authUsername     string
	authPasswordHash string
	tokenTTL         time.Duration
}

// Deps carries everything the server needs; all fields are required.
type Deps struct {
	Repo             *storage.SQLiteRepository
	Ledger           *services.LedgerService
	SalaryProcessor  *services.SalaryProcessor
	Logger           *log.Logger
	JWTSecret        string
	AuthUsername     string
	AuthPasswordHash string
	TokenTTL         time.Duration
}

// NewServer configures the router and returns a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		repo:             deps.Repo,
		ledger:           deps.Ledger,
		salaries:         deps.SalaryProcessor,
		logger:           deps.Logger.WithComponent(log.ComponentAPIServer),
		analytics:        gocache.New(2*time.Minute, 5*time.Minute),
		limiter:          rate.NewLimiter(rate.Limit(100), 200),
		jwtSecret:        []byte(deps.JWTSecret),
		authUsername:     deps.AuthUsername,
		authPasswordHash: deps.AuthPasswordHash,
		tokenTTL:         deps.TokenTTL,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(s.requestLogger)
	r.Use(s.rateLimit)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", s.handleCreateTransaction)
				r.Get("/", s.handleListTransactions)
				r.Get("/monthly/{year}/{month}", s.handleTransactionsByMonth)
				r.Get("/range", s.handleTransactionsByRange)
				r.Get("/{id}", s.handleGetTransaction)
				r.Put("/{id}", s.handleUpdateTransaction)
				r.Delete("/{id}", s.handleDeleteTransaction)
			})

			r.Route("/cards", func(r chi.Router) {
				r.Post("/", s.handleCreateCard)
				r.Get("/", s.handleListCards)
				r.Get("/{id}", s.handleGetCard)
				r.Put("/{id}", s.handleUpdateCard)
				r.Delete("/{id}", s.handleDeleteCard)
				r.Get("/{id}/utilization", s.handleCardUtilization)
			})

			r.Route("/savings", func(r chi.Router) {
				r.Post("/", s.handleCreateInvestment)
				r.Get("/", s.handleListInvestments)
				r.Get("/comparison/current", s.handleSavingsComparison)
				r.Get("/{id}", s.handleGetInvestment)
				r.Put("/{id}", s.handleUpdateInvestment)
				r.Delete("/{id}", s.handleDeleteInvestment)
			})

			r.Route("/salaries", func(r chi.Router) {
				r.Post("/", s.handleCreateSalary)
				r.Get("/", s.handleListSalaries)
				r.Get("/active", s.handleActiveSalaries)
				r.Post("/process/monthly", s.handleProcessSalaries)
				r.Get("/{id}", s.handleGetSalary)
				r.Put("/{id}", s.handleUpdateSalary)
				r.Delete("/{id}", s.handleDeleteSalary)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", s.handleCreatePayment)
				r.Get("/", s.handleListPayments)
				r.Get("/card/{id}", s.handlePaymentsByCard)
				r.Get("/range", s.handlePaymentsByRange)
				r.Get("/{id}", s.handleGetPayment)
				r.Put("/{id}", s.handleUpdatePayment)
				r.Delete("/{id}", s.handleDeletePayment)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/monthly/{year}/{month}", s.handleMonthlyAnalytics)
				r.Get("/yearly/{year}", s.handleYearlyAnalytics)
				r.Get("/yearly/{year}/categories", s.handleYearlyCategories)
				r.Get("/insights/{year}/{month}", s.handleInsights)
				r.Get("/trends/spending", s.handleSpendingTrends)
				r.Get("/summary/current", s.handleCurrentSummary)
			})
		})
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// invalidateAnalytics drops all cached analytics after a write.
func (s *Server) invalidateAnalytics() {
	s.analytics.Flush()
}
