// Package server initializes and runs the application: it opens the
// database, applies migrations, wires services, and starts the HTTP server
// with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/skycover/skycover/internal/logging"
	"github.com/skycover/skycover/internal/server/auth"
	"github.com/skycover/skycover/internal/server/blockchain"
	"github.com/skycover/skycover/internal/server/config"
	"github.com/skycover/skycover/internal/server/httpapi"
	"github.com/skycover/skycover/internal/server/repositories/repomanager"
	"github.com/skycover/skycover/internal/server/services"
	"github.com/skycover/skycover/internal/weatherxm"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token service init error: %w", err)
	}

	verifier, err := blockchain.NewVerifier(blockchain.Config{
		RPCURL:          cfg.EthereumRPCURL,
		ContractAddress: cfg.ContractAddress,
		Enabled:         cfg.VerificationEnabled,
		Timeout:         cfg.VerificationTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("verifier init error: %w", err)
	}
	if !verifier.Enabled() {
		logger.Warn(ctx, "blockchain verification is DISABLED, policies will not be checked on chain")
	}

	weather := weatherxm.NewClient(cfg.WeatherAPIBaseURL)

	us := services.NewUserService(db, rm, tokens)
	ps := services.NewPolicyService(db, rm, verifier)

	srv := httpapi.NewServer(cfg.EndpointAddrHTTP, logger, tokens, us, ps, verifier, weather)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
