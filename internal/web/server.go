// Package web is the server-rendered HTMX frontend. Pages are composed from
// embedded templates; mutations answer with HX-Trigger headers so dependent
// partials refresh themselves.
package web

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"time"

	"fintrack/internal/api"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/session"
	"fintrack/internal/state"
	appweb "fintrack/web"
)

type Server struct {
	http.Server
	templates *template.Template
	logger    *log.Logger
	sessions  *session.Store
	client    *api.Client

	transactions *state.TransactionStore
	cards        *state.CardStore
	savings      *state.SavingsStore
	salaries     *state.SalaryStore
	payments     *state.PaymentStore
	dashboard    *state.DashboardLoader

	limiters *clientLimiters

	// Analytics partials are cached briefly; writes invalidate by month key.
	summaryCache *cache.LRU[core.MonthlySummary]
	trendsCache  *cache.LRU[[]core.TrendPoint]
	caches       *cache.Manager

	shutdownOnce sync.Once
}

// Deps carries everything the server needs; all fields are required.
type Deps struct {
	Logger       *log.Logger
	Sessions     *session.Store
	Client       *api.Client
	Transactions *state.TransactionStore
	Cards        *state.CardStore
	Savings      *state.SavingsStore
	Salaries     *state.SalaryStore
	Payments     *state.PaymentStore
	Dashboard    *state.DashboardLoader
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:       deps.Logger.WithComponent(log.ComponentWeb),
		sessions:     deps.Sessions,
		client:       deps.Client,
		transactions: deps.Transactions,
		cards:        deps.Cards,
		savings:      deps.Savings,
		salaries:     deps.Salaries,
		payments:     deps.Payments,
		dashboard:    deps.Dashboard,
		limiters:     newClientLimiters(60, 10),
		summaryCache: cache.NewLRU[core.MonthlySummary](100, 5*time.Minute),
		trendsCache:  cache.NewLRU[[]core.TrendPoint](50, 5*time.Minute),
		caches:       cache.NewManager(),
	}
	s.caches.Register(s.summaryCache)
	s.caches.Register(s.trendsCache)
	s.caches.StartCleanup(10 * time.Minute)

	t, err := template.New("").Funcs(template.FuncMap{
		"amount":   core.FormatAmount,
		"barWidth": core.UtilizationBarWidth,
		"highUtil": core.HighUtilization,
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Error("template parse failed", log.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Error("embedded static FS unavailable", log.FieldError, err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/login", s.withMiddleware(s.handleLogin))
	mux.HandleFunc("/logout", s.withMiddleware(s.handleLogout))

	mux.HandleFunc("/", s.withMiddleware(s.requireSession(s.handleIndex)))
	mux.HandleFunc("/transactions", s.withMiddleware(s.requireSession(s.handleTransactions)))
	mux.HandleFunc("/transactions/delete", s.withMiddleware(s.requireSession(s.handleDeleteTransaction)))
	mux.HandleFunc("/cards", s.withMiddleware(s.requireSession(s.handleCards)))
	mux.HandleFunc("/cards/delete", s.withMiddleware(s.requireSession(s.handleDeleteCard)))
	mux.HandleFunc("/savings", s.withMiddleware(s.requireSession(s.handleSavings)))
	mux.HandleFunc("/savings/delete", s.withMiddleware(s.requireSession(s.handleDeleteInvestment)))
	mux.HandleFunc("/salaries", s.withMiddleware(s.requireSession(s.handleSalaries)))
	mux.HandleFunc("/salaries/delete", s.withMiddleware(s.requireSession(s.handleDeleteSalary)))
	mux.HandleFunc("/salaries/process", s.withMiddleware(s.requireSession(s.handleProcessSalaries)))
	mux.HandleFunc("/payments", s.withMiddleware(s.requireSession(s.handlePayments)))
	mux.HandleFunc("/payments/delete", s.withMiddleware(s.requireSession(s.handleDeletePayment)))
	mux.HandleFunc("/analytics", s.withMiddleware(s.requireSession(s.handleAnalyticsPage)))

	// UI partials
	mux.HandleFunc("/ui/dashboard", s.withMiddleware(s.requireSession(s.handleDashboardPartial)))
	mux.HandleFunc("/ui/month-summary", s.withMiddleware(s.requireSession(s.handleMonthSummary)))
	mux.HandleFunc("/ui/trends", s.withMiddleware(s.requireSession(s.handleTrends)))
	mux.HandleFunc("/ui/insights", s.withMiddleware(s.requireSession(s.handleInsights)))
	mux.HandleFunc("/ui/card-utilization", s.withMiddleware(s.requireSession(s.handleCardUtilization)))
	mux.HandleFunc("/ui/savings-comparison", s.withMiddleware(s.requireSession(s.handleSavingsComparison)))

	return s
}

// Shutdown stops background goroutines before closing the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.limiters.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds request logging, rate limiting on mutations and
// security headers.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()
		r = r.WithContext(withRequestID(r.Context(), requestID))

		if r.Method != http.MethodGet && !s.limiters.allow(clientIP) {
			s.logger.WarnContext(r.Context(), "rate limit exceeded",
				log.FieldRequestID, requestID,
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		setSecurityHeaders(w)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(r.Context(), "request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

// requireSession redirects unauthenticated page loads to the login form.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.sessions.Authenticated() {
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "template execution failed",
			log.FieldError, err, "template", name, log.FieldPath, r.URL.Path)
	}
}

// monthCacheKey identifies a cached summary variant. The investments flag is
// part of the key because the response differs with it.
func monthCacheKey(year, month int, includeInvestments bool) string {
	return core.NewDate(year, month, 1).String()[:7] + ":" + strconv.FormatBool(includeInvestments)
}

func trendsCacheKey(months, year int) string {
	return strconv.Itoa(months) + ":" + strconv.Itoa(year)
}

func (s *Server) invalidateMonth(year, month int) {
	s.summaryCache.Delete(monthCacheKey(year, month, true))
	s.summaryCache.Delete(monthCacheKey(year, month, false))
	// Every trend window can include the written month.
	s.trendsCache.Purge()
}
