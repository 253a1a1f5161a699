package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/order-admin/internal/auth"
	"github.com/frahmantamala/order-admin/internal/lookup"
	"github.com/frahmantamala/order-admin/internal/order"
	"github.com/frahmantamala/order-admin/internal/transport"
	"github.com/frahmantamala/order-admin/internal/transport/rest"
	"github.com/frahmantamala/order-admin/internal/transport/swagger"
	"github.com/frahmantamala/order-admin/internal/upload"
	"github.com/frahmantamala/order-admin/internal/user"
	"github.com/frahmantamala/order-admin/pkg/logger"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	App    *App
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	cfg := deps.App.Config
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "storage", cfg.Storage.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.App.Close()
			os.Exit(1)
		}
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelDrain()
	if err := deps.App.EventBus.Drain(drainCtx); err != nil {
		deps.Logger.Warn("event handlers still running at shutdown", "error", err)
	}
	if err := deps.App.Close(); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}
	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	app, err := newApp(config, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var doc *openapi3.T
	if config.Server.OpenAPIPath != "" {
		doc, err = swagger.Load(context.Background(), config.Server.OpenAPIPath)
		if err != nil {
			// the API works without docs
			lg.Warn("openapi document not served", "error", err)
			doc = nil
		}
	}

	router := chi.NewRouter()
	setupRoutes(router, app, doc, lg)

	return &Dependencies{
		App:    app,
		Router: router,
		Logger: lg,
	}, nil
}

func setupRoutes(router *chi.Mux, app *App, doc *openapi3.T, lg *slog.Logger) {
	cfg := app.Config
	base := transport.NewBaseHandler(lg)

	checks := map[string]rest.Pinger{
		cfg.Storage.Users:  app.Users,
		cfg.Storage.Orders: app.Orders,
	}
	if app.DB != nil {
		checks[cfg.Storage.Driver] = gormPinger{db: app.DB}
	}

	storage := upload.NewStorage(cfg.Upload.Dir, cfg.Upload.PublicPrefix, cfg.Upload.MaxBytes, lg)

	rest.RegisterAllRoutes(router, rest.Handlers{
		Auth:   auth.NewHandler(base, app.AuthService, auth.CookieOptions{Secure: cfg.Security.CookieSecure}),
		User:   user.NewHandler(base, app.UserService),
		Order:  order.NewHandler(base, app.OrderService),
		Lookup: lookup.NewHandler(base, app.LookupService),
		Upload: upload.NewHandler(base, storage),
		Health: rest.NewHealthHandler(checks),
	}, rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		UploadDir:      storage.Dir(),
		UploadPrefix:   storage.PublicPrefix(),
		OpenAPI:        doc,
	}, lg)
}

type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
