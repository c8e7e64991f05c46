package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	mW "github.com/ruralpay/accounts/internal/middleware"
	"github.com/ruralpay/accounts/internal/services"
	httpSwagger "github.com/swaggo/http-swagger"
)

// HealthCheck reports whether one dependency is reachable
type HealthCheck func(ctx context.Context) error

type RouterConfig struct {
	Transactions   *TransactionHandler
	Accounts       *AccountHandler
	RequireAuth    bool
	AllowedOrigins []string
	RequestTimeout time.Duration
	HealthChecks   map[string]HealthCheck
	// ServeDocs mounts the Swagger UI at /swagger/
	ServeDocs      bool
}

// NewRouter wires the middleware stack and every route
func NewRouter(cfg RouterConfig) http.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"https://*", "http://*"}
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mW.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", healthHandler(cfg.HealthChecks))

	// Swagger documentation
	if cfg.ServeDocs {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RequireAuth {
			r.Use(mW.AuthMiddleware)
		}

		r.Post("/accounts", cfg.Accounts.CreateAccount)
		r.Delete("/accounts", cfg.Accounts.CloseAccount)
		r.Get("/accounts", cfg.Accounts.GetAccounts)

		r.Post("/transactions/use", cfg.Transactions.UseBalance)
		r.Post("/transactions/cancel", cfg.Transactions.CancelBalance)
		r.Get("/transactions/{transactionId}", cfg.Transactions.QueryTransaction)
	})

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "healthy"}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body[name] = err.Error()
				continue
			}
			body[name] = "ok"
		}

		services.SendJSON(w, status, body)
	}
}
