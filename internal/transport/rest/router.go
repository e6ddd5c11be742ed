package rest

import (
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/auth"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/transport/middleware"
	"github.com/frahmantamala/expense-tracker/internal/transport/openapi"
	"github.com/frahmantamala/expense-tracker/internal/transport/swagger"
	"github.com/frahmantamala/expense-tracker/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

const (
	APIPrefix   = "/api/v1"
	OpenAPIPath = "/openapi.yml"
)

// Handlers groups the module handlers mounted under the API prefix. A nil handler
// leaves its routes unmounted.
type Handlers struct {
	Auth     *auth.Handler
	User     *user.Handler
	Expense  *expense.Handler
	Category *category.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg *internal.Config, doc *openapi.Document, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, cfg.Database.Driver)

	// Apply global middleware
	router.Use(middleware.CORS(cfg.Server.Origins()))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	// API document and its UI live outside the API prefix
	if doc != nil {
		router.Group(func(r chi.Router) {
			r.Use(middleware.AccessLog(logger))
			r.Method("GET", OpenAPIPath, doc)
			r.Handle("/swagger/*", swagger.Handler(OpenAPIPath))
		})
	}

	router.Route(APIPrefix, func(r chi.Router) {
		r.Use(middleware.LoggingMiddleware(logger))
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Public categories route (no auth required)
		if h.Category != nil {
			r.Get("/categories", h.Category.GetCategories)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
			if h.User != nil {
				sr.With(h.Auth.AuthMiddleware).Get("/me", h.User.GetCurrentUser)
			}
		})

		// Protected routes that require authentication
		if h.Expense != nil {
			r.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)

				pr.Route("/expenses", func(er chi.Router) {
					er.Get("/", h.Expense.ListExpenses)
					er.Post("/", h.Expense.CreateExpense)
					er.Get("/summary", h.Expense.GetSummary)
					er.Get("/{id}", h.Expense.GetExpense)
					er.Put("/{id}", h.Expense.UpdateExpense)
					er.Delete("/{id}", h.Expense.DeleteExpense)
				})
			})
		}
	})
}
