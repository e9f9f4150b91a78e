package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/account"
	"github.com/frahmantamala/finance-tracker/internal/auth"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/institution"
	"github.com/frahmantamala/finance-tracker/internal/paycheck"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/transport/rest"
	"github.com/frahmantamala/finance-tracker/internal/transport/swagger"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer()
	},
}

func startHTTPServer() error {
	a, err := bootstrap()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer a.Close()

	svc := a.services()
	pool := a.balancePool(svc.account)

	router, err := newRouter(a, svc)
	if err != nil {
		pool.Shutdown()
		return err
	}

	addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       a.cfg.Server.ReadTimeout,
		WriteTimeout:      a.cfg.Server.WriteTimeout,
		IdleTimeout:       a.cfg.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		a.logger.Info("received signal, shutting down", "signal", sig)
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			pool.Shutdown()
			return fmt.Errorf("server failed to start: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		a.logger.Error("server shutdown error", "error", err)
	}
	if err := a.bus.Wait(ctx); err != nil {
		a.logger.Warn("event handlers still running at shutdown", "error", err)
	}
	pool.Shutdown()

	a.logger.Info("server stopped")
	return nil
}

func newRouter(a *app, svc *services) (*chi.Mux, error) {
	base := transport.NewBaseHandler(a.logger)
	importCfg := a.cfg.Import.WithDefaults()

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(base, svc.auth, a.cfg.Security.APIKeyHeader),
		User:        user.NewHandler(base, svc.user),
		Institution: institution.NewHandler(base, svc.institution),
		Account:     account.NewHandler(base, svc.account),
		Category:    category.NewHandler(base, svc.category, importCfg),
		Transaction: transaction.NewHandler(base, svc.transaction, importCfg),
		Paycheck:    paycheck.NewHandler(base, svc.paycheck),
	}

	opts := rest.RouterOptions{
		Server:    a.cfg.Server,
		Tracing:   a.cfg.Observability.Tracing,
		MaxUpload: importCfg.MaxUploadBytes,
	}

	if path := a.cfg.Server.OpenAPIPath; path != "" {
		doc, err := loadOpenAPI(path)
		if err != nil {
			if a.cfg.Server.ValidateRequests {
				return nil, err
			}
			a.logger.Warn("openapi document unavailable, swagger disabled", "path", path, "error", err)
		} else {
			opts.OpenAPI = doc
			opts.OpenAPISource = path
		}
	}

	router := chi.NewRouter()
	if err := rest.RegisterAllRoutes(router, a.db.SQLX, handlers, opts, a.logger); err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}
	return router, nil
}

func loadOpenAPI(path string) (*openapi3.T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return swagger.LoadDocument(ctx, path)
}
