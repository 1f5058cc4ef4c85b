// Package server wires the vault together: in-memory credential store,
// identity/session/vault services, the access gate, the gRPC endpoint and the
// Prometheus metrics endpoint. It also handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/server/config"
	"github.com/dmitrijs2005/gophvault/internal/server/gate"
	"github.com/dmitrijs2005/gophvault/internal/server/metrics"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophvault/internal/server/services"

	gs "github.com/dmitrijs2005/gophvault/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   *repomanager.InMemoryRepositoryManager
	metrics *metrics.Metrics
	grpc    *gs.GRPCServer
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo, "gophvault")

	repos := repomanager.NewInMemoryRepositoryManager()

	identity := services.NewIdentityService(repos.Accounts())
	sessions := services.NewSessionService(repos.Bindings(), c)
	vault, err := services.NewVaultService(repos.Files(), c.EncryptionSecret, c.MaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("vault init error: %w", err)
	}

	m := metrics.New(repos)

	srv := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, gs.Services{
		Identity: identity,
		Sessions: sessions,
		Vault:    vault,
		Gate:     gate.New(sessions),
	}, m, c.MaxUploadBytes)

	return &App{config: c, logger: logger, repos: repos, metrics: m, grpc: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpc.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.metrics.Serve(ctx, app.config.MetricsAddr, app.logger.With("module", "metrics")); err != nil {
		app.logger.Error(ctx, "metrics server failed", "error", err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or one of
// the servers fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"token_validity", app.config.TokenValidityDuration.String(),
		"key_validity", app.config.KeyValidityDuration.String(),
		"max_upload_bytes", app.config.MaxUploadBytes)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	stats := app.repos.Stats()
	app.logger.Info(context.Background(), "App stopped",
		"accounts", stats.Accounts, "bindings", stats.Bindings, "files", stats.Files)
}
