// Package httpapi wires the HTTP surface of the ledger service.
// It keeps handlers thin, delegating business rules to the service layer.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/tinoosan/hacc/internal/notify"
	"github.com/tinoosan/hacc/internal/service/account"
	"github.com/tinoosan/hacc/internal/service/accounttype"
	"github.com/tinoosan/hacc/internal/service/journal"
	"github.com/tinoosan/hacc/internal/service/reconcile"
	reportsvc "github.com/tinoosan/hacc/internal/service/report"
	"github.com/tinoosan/hacc/internal/service/transaction"
)

// Options tunes the server. Zero values disable the rate limit and the
// request timeout.
type Options struct {
	Currency           string
	Channel            string
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	// Production turns on HTTPS redirects in the security headers.
	Production bool
	// Now overrides the clock used for default dates.
	Now   func() time.Time
	Ready []ReadyChecker
}

// Server wires handlers and middleware using Chi.
// It composes read (repo) and write (writer) dependencies through services.
type Server struct {
	journals     journal.Service
	accountTypes accounttype.Service
	accounts     account.Service
	transactions transaction.Service
	reconcile    reconcile.Service
	reports      reportsvc.Service
	ready        []ReadyChecker
	currency     string
	validate     *validator.Validate
	log          *slog.Logger
	rt           *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
// The logger is used by request logging, panic recovery and 500 responses.
func New(store Store, n transaction.Notifier, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	if opts.Channel == "" {
		opts.Channel = notify.DefaultChannel
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if n == nil {
		n = notify.New(nil, opts.Channel, logger)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)
	r.Use(secureHeaders(opts.Production))
	if opts.RateLimitPerMinute > 0 {
		r.Use(rateLimit(opts.RateLimitPerMinute))
	}

	ready := opts.Ready
	if rc, ok := store.(ReadyChecker); ok {
		ready = append([]ReadyChecker{rc}, ready...)
	}

	s := &Server{
		journals:     journal.New(store, store),
		accountTypes: accounttype.New(store, store),
		accounts:     account.New(store, store),
		transactions: transaction.New(store, store, n, transaction.WithClock(opts.Now)),
		reconcile:    reconcile.New(store, store),
		reports: reportsvc.New(store,
			reportsvc.WithClock(opts.Now),
			reportsvc.WithCurrency(opts.Currency),
			reportsvc.WithChannel(opts.Channel)),
		ready:    ready,
		currency: opts.Currency,
		validate: newValidator(),
		log:      logger,
		rt:       r,
	}
	s.routes(opts.RequestTimeout)
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints. Health and metrics stay
// outside the request timeout.
func (s *Server) routes(timeout time.Duration) {
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())

	s.rt.Route("/api", func(r chi.Router) {
		if timeout > 0 {
			r.Use(chimw.Timeout(timeout))
		}

		r.Get("/accounts/list", s.listAccounts)
		r.Get("/accounts/by-reference", s.accountsByReference)
		r.Get("/accounts/completions", s.accountCompletions)
		r.Get("/account/new", s.newAccount)
		r.Get("/account/{id}", s.getAccount)
		r.With(requireJSON).Put("/account/{id}", s.putAccount)
		r.Delete("/account/{id}", s.deleteAccount)

		r.Get("/accounttypes/list", s.listAccountTypes)
		r.Get("/accounttype/new", s.newAccountType)
		r.Get("/accounttype/{id}", s.getAccountType)
		r.With(requireJSON).Put("/accounttype/{id}", s.putAccountType)

		r.Get("/journals/list", s.listJournals)
		r.Get("/journal/new", s.newJournal)
		r.Get("/journal/{id}", s.getJournal)
		r.With(requireJSON).Put("/journal/{id}", s.putJournal)

		r.Get("/static_settings", s.staticSettings)

		r.Get("/transaction/new", s.newTransaction)
		r.Get("/transaction/{id}", s.getTransaction)
		r.Get("/transaction/{id}/copy", s.copyTransaction)
		r.With(requireJSON).Put("/transaction/{id}", s.putTransaction)
		r.Delete("/transaction/{id}", s.deleteTransaction)

		r.Get("/transactions/years", s.transactionYears)
		r.Get("/transactions/list", s.transactionList)
		r.Get("/transactions/tran-detail", s.tranDetail)
		r.Get("/transactions/reconcile", s.getReconcile)
		r.With(requireJSON).Put("/transactions/reconcile", s.putReconcile)

		r.Route("/gledger", func(r chi.Router) {
			r.Get("/balance-sheet", s.balanceSheet)
			r.Get("/balance-sheet-summary", s.balanceSheetSummary)
			r.Get("/current-balance-accounts", s.currentBalanceAccounts)
			r.Get("/multi-balance-sheet", s.multiBalanceSheet)
			r.Get("/profit-and-loss", s.profitAndLoss)
			r.Get("/interval-p-and-l", s.intervalPL)
			r.Get("/detailed-pl", s.detailedPL)
			r.Get("/unbalanced-trans", s.unbalancedTransactions)
		})
	})
}
