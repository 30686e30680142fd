package app

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

	httpapi "github.com/aussiebroadwan/accounts/internal/accounts/http"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/dynamodb"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application holds the accounts service and everything it depends on.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	accounts *service.AccountService

	server *http.Server
	router *httpapi.Router
}

// New builds an Application from cfg. The store is opened and migrated here
// so a misconfigured backend stops the process before it listens.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "accounts-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, mostly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("accounts service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests then closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down accounts service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("accounts service stopped")
	return nil
}

func (app *Application) initStore(ctx context.Context) error {
	attrs := []any{"driver", app.cfg.StoreDriver}

	switch app.cfg.StoreDriver {
	case DriverDynamoDB:
		db, err := dynamodb.NewStore(ctx, dynamodb.Options{
			Table:       app.cfg.UsersTable,
			Region:      app.cfg.AWSRegion,
			Endpoint:    app.cfg.DynamoDBEndpoint,
			CreateTable: app.cfg.DynamoDBCreateTable,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize dynamodb store: %w", err)
		}
		app.db = db
		attrs = append(attrs, "table", app.cfg.UsersTable)

	default:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db
		attrs = append(attrs, "file", app.cfg.DatabaseFile)
	}

	if err := app.db.ApplyMigrations(); err != nil {
		_ = app.db.Close()
		return fmt.Errorf("failed to prepare user store: %w", err)
	}

	app.logger.Info("user store ready", attrs...)
	return nil
}

func (app *Application) initServices() error {
	secret := []byte(app.cfg.JWTSecret)

	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}

	var verifierOpts []jwtx.VerifierOption
	if app.cfg.Issuer != "" {
		verifierOpts = append(verifierOpts, jwtx.WithIssuer(app.cfg.Issuer))
	}
	verifier, err := jwtx.NewVerifierHS256(secret, verifierOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	app.accounts = &service.AccountService{
		Store:    app.db,
		Hasher:   cryptox.Hasher{Cost: app.cfg.BcryptCost},
		Signer:   signer,
		Verifier: verifier,
		TokenTTL: app.cfg.TokenTTL,
		Issuer:   app.cfg.Issuer,
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.accounts, app.db, BuildVersion, app.logger)
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
