package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tokenart/tokenart-backend/internal/adapter/horizon"
	"github.com/tokenart/tokenart-backend/internal/adapter/httpapi"
	"github.com/tokenart/tokenart-backend/internal/adapter/repository/jsonstore"
	"github.com/tokenart/tokenart-backend/internal/adapter/repository/postgres"
	"github.com/tokenart/tokenart-backend/internal/adapter/stellar"
	"github.com/tokenart/tokenart-backend/internal/config"
	"github.com/tokenart/tokenart-backend/internal/domain"
	"github.com/tokenart/tokenart-backend/internal/usecase/invest"
	"github.com/tokenart/tokenart-backend/internal/usecase/portfolio"
	"github.com/tokenart/tokenart-backend/internal/usecase/purchase"
	"github.com/tokenart/tokenart-backend/internal/usecase/reconcile"
	"github.com/tokenart/tokenart-backend/internal/usecase/seeder"
)

const probeTimeout = 5 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	treasury := domain.AccountIdentity(cfg.Treasury)
	if err := domain.ValidateIdentity(treasury); err != nil {
		return fmt.Errorf("treasury account: %w", err)
	}

	// 1. Horizon transport
	endpoints := config.LoadEndpointsOrDefault(cfg.EndpointsPath)
	selector, err := horizon.NewSelector(endpoints.Horizon, probeTimeout, log)
	if err != nil {
		return err
	}
	client, err := horizon.NewClient(horizon.Config{
		Selector: selector,
		Timeout:  cfg.HTTPTimeout,
		Log:      log,
	})
	if err != nil {
		return err
	}
	// The server still starts when every endpoint is down; the selector is
	// probed again before each retry.
	if err := selector.EnsureReady(ctx); err != nil {
		log.Warn().Err(err).Msg("no horizon endpoint answered the startup probe")
	}

	// 2. Ledger cache
	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// 3. Wallet
	wallet, err := newWallet(cfg)
	if err != nil {
		return err
	}

	// 4. Usecase services
	builder := stellar.NewBuilder(client, cfg.NetworkPassphrase)
	investService := invest.NewService(wallet, client, builder, client, selector, store, treasury, log)
	portfolioService := portfolio.NewService(store)
	purchaseService := purchase.NewService(investService, portfolioService, store, log)
	reconcileService := reconcile.NewService(client, store, treasury, log)

	// 5. Seed catalog baselines
	if err := seeder.NewCatalogSeeder(store, treasury, log).Seed(ctx); err != nil {
		return fmt.Errorf("seed catalog baselines: %w", err)
	}

	// 6. Background reconciliation against the chain
	go reconcileService.RunPeriodically(ctx, cfg.ReconcileInterval)

	// 7. HTTP API
	api := &httpapi.Server{
		Invest:    investService,
		Purchase:  purchaseService,
		Portfolio: portfolioService,
		Reconcile: reconcileService,
		Wallet:    wallet,
		Balances:  client,
		Status:    client,
		Funder:    horizon.NewFriendbot(cfg.FriendbotURL),
		AuthToken: cfg.AuthToken,
		Log:       log,
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Str("endpoint", selector.Current()).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newStore builds the configured ledger cache backend.
func newStore(ctx context.Context, cfg *config.Config) (domain.LedgerStore, func(), error) {
	switch cfg.StorageBackend {
	case "postgres":
		db, err := postgres.NewDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewLedgerRepository(db), func() { db.Close() }, nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create store directory: %w", err)
		}
		return jsonstore.NewStore(cfg.StorePath), func() {}, nil
	}
}

// newWallet builds the in-process signing wallet. Without a configured seed
// a throwaway keypair is generated; it still needs faucet funding before it
// can pay.
func newWallet(cfg *config.Config) (*stellar.LocalWallet, error) {
	if cfg.WalletSeed != "" {
		return stellar.NewLocalWallet(cfg.WalletSeed, cfg.NetworkPassphrase)
	}
	return stellar.NewRandomWallet(cfg.NetworkPassphrase)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
