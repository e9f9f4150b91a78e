package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/account"
	"github.com/frahmantamala/finance-tracker/internal/auth"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/institution"
	"github.com/frahmantamala/finance-tracker/internal/paycheck"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/frahmantamala/finance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/finance-tracker/internal/transport/swagger"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

// Handlers groups everything the router mounts. Nil handlers leave their routes out.
type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Institution *institution.Handler
	Account     *account.Handler
	Category    *category.Handler
	Transaction *transaction.Handler
	Paycheck    *paycheck.Handler
}

// RouterOptions carries the config-driven pieces of the middleware chain.
type RouterOptions struct {
	Server        internal.ServerConfig
	Tracing       internal.TracingConfig
	MaxUpload     int64
	OpenAPI       *openapi3.T
	OpenAPISource string
}

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, h Handlers, opts RouterOptions, logger *slog.Logger) error {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(opts.Server.AllowedOrigins))
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	if opts.Tracing.Enabled {
		router.Use(middleware.Tracing(opts.Tracing.ServiceName))
	}
	if opts.Server.ValidateRequests && opts.OpenAPI != nil {
		validator, err := middleware.OpenAPIValidator(opts.OpenAPI, logger)
		if err != nil {
			return err
		}
		router.Use(validator)
	}

	// Serve OpenAPI spec at root (outside API prefix)
	if opts.OpenAPISource != "" {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, opts.OpenAPISource)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	uploadLimit := middleware.MaxBodyBytes(opts.MaxUpload)

	router.Route("/api/v1", func(r chi.Router) {
		if opts.Server.WriteTimeout > 0 {
			r.Use(chiMiddleware.Timeout(opts.Server.WriteTimeout))
		}

		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			if h.User != nil {
				sr.Post("/signup", h.User.Signup)
			}
			if h.Auth != nil {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
			}
		})

		if h.Auth == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)

			pr.Post("/auth/logout", h.Auth.Logout)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.Post("/users/me/api-key", h.User.RegenerateAPIKey)
			}

			if h.Institution != nil {
				pr.Get("/institution", h.Institution.ListInstitutions)
				pr.Post("/institution", h.Institution.CreateInstitution)
			}

			if h.Account != nil {
				pr.Route("/institution/account", func(ar chi.Router) {
					ar.Get("/", h.Account.ListAccounts)
					ar.Post("/", h.Account.CreateAccount)
					ar.Get("/update_balance", h.Account.RecomputeBalances)
					ar.Get("/{id}", h.Account.GetAccount)
					ar.Put("/{id}", h.Account.UpdateAccount)
					ar.Delete("/{id}", h.Account.DeleteAccount)
				})
				pr.Post("/accounts/recompute", h.Account.RecomputeBalances)
			}

			if h.Institution != nil {
				pr.Get("/institution/{id}", h.Institution.GetInstitution)
				pr.Put("/institution/{id}", h.Institution.UpdateInstitution)
				pr.Delete("/institution/{id}", h.Institution.DeleteInstitution)
			}

			if h.Category != nil {
				pr.Route("/categories_type", func(cr chi.Router) {
					cr.Get("/", h.Category.ListTypes)
					cr.Post("/", h.Category.CreateType)
					cr.Delete("/{id}", h.Category.DeleteType)
				})
				pr.Route("/categories_group", func(cr chi.Router) {
					cr.Get("/", h.Category.ListGroups)
					cr.Post("/", h.Category.CreateGroup)
					cr.Delete("/{id}", h.Category.DeleteGroup)
				})
				pr.Route("/categories", func(cr chi.Router) {
					cr.Get("/", h.Category.ListCategories)
					cr.Post("/", h.Category.CreateCategory)
					cr.With(uploadLimit).Post("/csv_import", h.Category.ImportCSV)
					cr.Delete("/{id}", h.Category.DeleteCategory)
				})
			}

			if h.Transaction != nil {
				pr.Route("/transaction", func(tr chi.Router) {
					tr.Get("/", h.Transaction.ListTransactions)
					tr.Post("/", h.Transaction.CreateTransaction)
					tr.With(uploadLimit).Post("/csv_import", h.Transaction.ImportCSV)
					tr.Get("/{id}", h.Transaction.GetTransaction)
					tr.Put("/{id}", h.Transaction.UpdateTransaction)
					tr.Delete("/{id}", h.Transaction.DeleteTransaction)
				})
			}

			if h.Paycheck != nil {
				pr.Route("/paycheck", func(pc chi.Router) {
					pc.Get("/", h.Paycheck.ListPaychecks)
					pc.Post("/", h.Paycheck.CreatePaycheck)

					// reports name the user in the path; it has to be the caller
					pc.Group(func(rr chi.Router) {
						rr.Use(middleware.RequireSelf("user_id", logger))
						rr.Get("/analytics/{user_id}", h.Paycheck.Analytics)
						rr.Get("/trends/{user_id}", h.Paycheck.Trends)
						rr.Get("/trends/{user_id}/chart", h.Paycheck.TrendsChart)
						rr.Get("/compare/{user_id}", h.Paycheck.Compare)
					})

					pc.Get("/{id}", h.Paycheck.GetPaycheck)
					pc.Put("/{id}", h.Paycheck.UpdatePaycheck)
					pc.Delete("/{id}", h.Paycheck.DeletePaycheck)
				})
			}
		})
	})

	return nil
}
