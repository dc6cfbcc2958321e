// Command walletrack tracks the combined value of Binance accounts across
// multiple credential sets, records periodic snapshots and serves them over
// HTTP.
//
// Usage:
//
//	walletrack setup --config walletrack.yaml   (interactive credential setup)
//	walletrack --config walletrack.yaml         (run the tracker)
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/walletrack/config"
	"github.com/vadiminshakov/walletrack/internal"
	"github.com/vadiminshakov/walletrack/internal/clients"
	"github.com/vadiminshakov/walletrack/internal/domain"
	"github.com/vadiminshakov/walletrack/internal/events"
	"github.com/vadiminshakov/walletrack/internal/services/portfolio"
	"github.com/vadiminshakov/walletrack/internal/services/pricer"
	"github.com/vadiminshakov/walletrack/internal/services/wallet"
	"github.com/vadiminshakov/walletrack/internal/setup"
	"github.com/vadiminshakov/walletrack/internal/storage/credentials"
	"github.com/vadiminshakov/walletrack/internal/storage/snapshots"
	"github.com/vadiminshakov/walletrack/internal/web"
)

func main() {
	// flag.Parse stops at the first non-flag argument, so the setup
	// subcommand gets its own flag set; otherwise "setup --config foo.yaml"
	// would silently keep the default path
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		path, err := parseSetupFlags(os.Args[2:])
		if err != nil {
			log.Fatal(err)
		}
		if err := setup.RunTUI(path); err != nil {
			log.Fatal(err)
		}
		return
	}

	configPath := flag.String("config", "walletrack.yaml", "path to yaml config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	credStore, err := credentials.NewFileStore(cfg.CredentialsFile)
	if err != nil {
		logger.Fatal("failed to open credential store", zap.Error(err))
	}

	store, err := newSnapshotStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	defer store.Close()

	priceService := pricer.New(clients.NewPublicClient(), logger)
	newWallet := func(cred domain.Credential) portfolio.WalletAggregator {
		return wallet.New(clients.NewBinanceClient(cred), cfg.QuoteCurrency, cfg.RequestTimeout, logger)
	}
	aggregator := portfolio.New(priceService, newWallet, logger)

	broadcaster := events.NewPortfolioBroadcaster(16)
	tracker := internal.NewTracker(cfg.Session, credStore, store, aggregator, broadcaster, cfg.PollInterval, logger)
	server := web.NewServer(cfg.ListenAddr, tracker, broadcaster, logger)

	logger.Info("started",
		zap.String("session", cfg.Session),
		zap.String("listen", cfg.ListenAddr),
		zap.Duration("poll_interval", cfg.PollInterval))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return tracker.Run(gctx) })
	g.Go(func() error { return server.Start(gctx) })

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error(err.Error())
	}
}

func parseSetupFlags(args []string) (string, error) {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	configPath := fs.String("config", "walletrack.yaml", "path to yaml config")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return *configPath, nil
}

func newSnapshotStore(ctx context.Context, cfg config.StorageConfig) (snapshots.Store, error) {
	switch cfg.Backend {
	case config.StorageBackendPostgres:
		return snapshots.NewPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return snapshots.NewWALStore(cfg.WALDir)
	}
}
