package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gosettle/internal/adapter/http/handler"
	"github.com/iho/gosettle/internal/adapter/http/middleware"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/auth"
	"github.com/iho/gosettle/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	GroupHandler          *handler.GroupHandler
	ExpenseHandler        *handler.ExpenseHandler
	SettlementHandler     *handler.SettlementHandler
	BalanceHandler        *handler.BalanceHandler
	ReconciliationHandler *handler.ReconciliationHandler
	AuthHandler           *handler.AuthHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	JWTManager            *auth.JWTManager
	RateLimiter           *middleware.RateLimiter
	Logger                zerolog.Logger
}

// NewRouter creates a new HTTP router. Auth and role gates are active
// only when a JWTManager is configured; without one every route is open,
// which is the development mode.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		if cfg.AuthHandler != nil {
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		r.Group(func(r chi.Router) {
			authenticated := cfg.JWTManager != nil
			if authenticated {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			}

			requireRole := func(role domain.Role) func(http.Handler) http.Handler {
				if !authenticated {
					return passthrough
				}
				return middleware.RequireRole(role)
			}

			if cfg.AuthHandler != nil && authenticated {
				r.Get("/auth/me", cfg.AuthHandler.GetCurrentUser)
			}

			// Groups and their histories
			r.Route("/groups", func(r chi.Router) {
				r.With(requireRole(domain.RoleOperator)).Post("/", cfg.GroupHandler.Create)
				r.Get("/", cfg.GroupHandler.List)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", cfg.GroupHandler.Get)

					r.With(requireRole(domain.RoleOperator)).Post("/members", cfg.GroupHandler.AddMember)
					r.With(requireRole(domain.RoleOperator)).Delete("/members/{member}", cfg.GroupHandler.RemoveMember)

					r.Get("/expenses", cfg.ExpenseHandler.ListByGroup)
					r.With(requireRole(domain.RoleOperator)).Post("/expenses", cfg.ExpenseHandler.Record)

					r.Get("/settlements", cfg.SettlementHandler.ListByGroup)
					r.With(requireRole(domain.RoleOperator)).Post("/settlements", cfg.SettlementHandler.Record)

					r.Get("/balances", cfg.BalanceHandler.GetBalances)
					r.Get("/balances/{member}", cfg.BalanceHandler.GetMemberBalance)
					r.Get("/simplify", cfg.BalanceHandler.SimplifyDebts)

					r.With(requireRole(domain.RoleAdmin)).Post("/reconcile", cfg.ReconciliationHandler.Reconcile)
				})
			})

			// Direct lookups
			r.Get("/expenses/{expenseID}", cfg.ExpenseHandler.Get)
			r.Get("/settlements/{settlementID}", cfg.SettlementHandler.Get)
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
