package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	chadapter "zoracoin/internal/adapters/clickhouse"
	"zoracoin/internal/adapters/config"
	"zoracoin/internal/adapters/errors/noop"
	"zoracoin/internal/adapters/errors/sentry"
	"zoracoin/internal/adapters/kafka"
	"zoracoin/internal/adapters/zora"
	"zoracoin/internal/api"
	"zoracoin/internal/api/health"
	"zoracoin/internal/chain"
	"zoracoin/internal/domain/stats"
	"zoracoin/internal/events"
	"zoracoin/internal/gateway"
	"zoracoin/internal/metrics"
	chrepo "zoracoin/internal/repository/clickhouse"
	"zoracoin/internal/tools/middleware"
	chbatch "zoracoin/pkg/clickhouse"
	"zoracoin/pkg/errors"
	"zoracoin/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		fatal(errors.Wrap(err, "init logger"))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s %s in %s mode (transport=%s)", cfg.App.Name, cfg.App.Version, cfg.App.Env, cfg.Server.Transport)

	// fails fast on a bad key before any client is dialed; gateway.New checks it again
	identity, err := chain.NewIdentity(cfg.Chain.PrivateKey)
	if err != nil {
		fatal(err)
	}

	errorTracker := initErrorTracker(cfg, identity.Address().Hex(), log)
	logger.SetErrorTracker(errorTracker)

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	publisher, producer := initEvents(cfg, log)
	journal := initJournal(ctx, cfg, log)

	var sink middleware.JournalSink
	if journal != nil {
		sink = journal.writer
	}

	gw, err := gateway.New(ctx,
		gateway.Config{
			PrivateKey: cfg.Chain.PrivateKey,
			RPCURL:     cfg.Chain.RPCURL,
			ChainID:    cfg.Chain.ChainID,
		},
		gateway.WithSDK(zora.New(zora.Config{
			APIURL:            cfg.Zora.APIURL,
			APIKey:            cfg.Zora.APIKey,
			RequestsPerMinute: cfg.Zora.APIRatePerMinute,
		}, log), zora.Describe),
		gateway.WithPublisher(publisher),
		gateway.WithLogger(log),
		gateway.WithMiddleware(
			middleware.NewInvocationMiddleware(log, errorTracker),
			middleware.NewMetricsMiddleware(),
			middleware.NewStatsMiddleware(sink, identity.Address().Hex(), cfg.Chain.ChainID, log),
		),
	)
	if err != nil {
		fatal(err)
	}
	log.Infow("Signer ready", "address", gw.Signer().Hex(), "chain_id", cfg.Chain.ChainID)

	var journalRepo stats.Repository
	if journal != nil {
		journalRepo = journal.repo
	}
	metrics.RegisterCustomCollector(metrics.NewCustomCollector(log, gw.Public(), gw.Signer(), journalRepo))

	healthHandler := initHealth(cfg, gw, journal, log)

	var httpServer *api.Server
	switch cfg.Server.Transport {
	case "http":
		httpServer = api.NewServer(api.ServerConfig{
			Addr:        cfg.Server.HTTPAddr,
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			MCP:         gw.HTTPHandler(),
		}, healthHandler, log)
		go serveHTTP(httpServer, stop, log)
		<-ctx.Done()

	default:
		if cfg.Server.MetricsAddr != "" {
			httpServer = api.NewServer(api.ServerConfig{
				Addr:        cfg.Server.MetricsAddr,
				ServiceName: cfg.App.Name,
				Version:     cfg.App.Version,
			}, healthHandler, log)
			go serveHTTP(httpServer, stop, log)
		}
		if err := gw.ServeStdio(ctx, os.Stdin, os.Stdout); err != nil {
			log.Errorf("Stdio transport stopped: %v", err)
		}
	}

	shutdown(gw, httpServer, journal, producer, errorTracker, log)
}

// exitConfig is returned for configuration failures, 1 for anything else
const exitConfig = 2

// fatal reports a startup failure on stderr and exits before serving
func fatal(err error) {
	fmt.Fprintln(os.Stderr, startupMessage(err))
	os.Exit(exitCode(err))
}

// startupMessage renders a startup failure. Configuration errors carry their
// own prefix and are printed alone.
func startupMessage(err error) string {
	var cfgErr *errors.ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Error()
	}
	return "startup failed: " + err.Error()
}

func exitCode(err error) int {
	if errors.IsConfigurationError(err) {
		return exitConfig
	}
	return 1
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, signer string, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New(log)
	}

	tracker, err := sentry.New(sentry.Options{
		DSN:         cfg.ErrorTracking.SentryDSN,
		Environment: cfg.ErrorTracking.Environment,
		Release:     cfg.App.Name + "@" + cfg.App.Version,
		Signer:      signer,
		Secrets:     []string{cfg.Chain.PrivateKey},
	})
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New(log)
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initEvents wires the Kafka coin event stream when brokers are configured
func initEvents(cfg *config.Config, log *logger.Logger) (events.CoinPublisher, *kafka.Producer) {
	if !cfg.Kafka.Enabled() {
		log.Info("Coin events disabled (no KAFKA_BROKERS)")
		return events.NoopPublisher{}, nil
	}

	producer := kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers}, log)
	log.Infow("Coin events enabled", "brokers", cfg.Kafka.Brokers)
	return events.NewPublisher(producer, log), producer
}

type journal struct {
	client *chadapter.Client
	repo   *chrepo.StatsRepository
	writer *chbatch.BatchWriter[stats.ToolInvocation]
}

// initJournal connects the ClickHouse invocation journal. It is optional:
// any failure is logged and the gateway runs without it.
func initJournal(ctx context.Context, cfg *config.Config, log *logger.Logger) *journal {
	if !cfg.ClickHouse.Enabled() {
		log.Info("Invocation journal disabled (no CLICKHOUSE_HOST)")
		return nil
	}

	client, err := chadapter.NewClient(ctx, cfg.ClickHouse)
	if err != nil {
		log.Warnf("Invocation journal unavailable: %v", err)
		return nil
	}

	repo := chrepo.NewStatsRepository(client.Conn())
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Warnf("Invocation journal schema failed: %v", err)
		_ = client.Close()
		return nil
	}

	writer := chbatch.NewBatchWriter(chbatch.BatchWriterConfig[stats.ToolInvocation]{
		FlushFunc:    repo.InsertInvocationBatch,
		Observer:     metrics.RecordJournalFlush,
		TableName:    "tool_invocations",
		MaxBatchSize: 200,
		MaxAge:       5 * time.Second,
		Log:          log,
	})
	writer.Start(ctx)

	log.Infow("Invocation journal enabled", "addr", cfg.ClickHouse.Addr(), "database", client.Database())
	return &journal{client: client, repo: repo, writer: writer}
}

func initHealth(cfg *config.Config, gw *gateway.Gateway, j *journal, log *logger.Logger) *health.Handler {
	checks := []health.Check{
		{Name: "rpc", Required: true, Ping: gw.Public().Ping},
	}
	var buffer health.JournalStats
	if j != nil {
		checks = append(checks, health.Check{Name: "clickhouse", Ping: j.client.Ping})
		buffer = j.writer
	}
	catalog := gw.Catalog()
	served := make([]health.Tool, 0, len(catalog))
	for _, def := range catalog {
		served = append(served, health.Tool{Name: def.Name, Risk: string(def.RiskLevel), Signs: def.Signs})
	}
	return health.New(log, cfg.App.Name, cfg.App.Version, gw.Signer().Hex(), buffer, checks...).WithTools(served)
}

func serveHTTP(s *api.Server, stop context.CancelFunc, log *logger.Logger) {
	if err := s.Start(); err != nil {
		log.Errorf("HTTP server error: %v", err)
		stop()
	}
}

// shutdown stops transports first, then flushes the journal, events and tracker
func shutdown(gw *gateway.Gateway, httpServer *api.Server, j *journal, producer *kafka.Producer, tracker errors.Tracker, log *logger.Logger) {
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Warnf("HTTP shutdown: %v", err)
		}
	}
	if err := gw.Shutdown(ctx); err != nil {
		log.Warnf("MCP transport shutdown: %v", err)
	}

	if j != nil {
		if err := j.writer.Stop(ctx); err != nil {
			log.Warnf("Journal flush: %v", err)
		}
		if err := j.client.Close(); err != nil {
			log.Warnf("ClickHouse close: %v", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Warnf("Kafka close: %v", err)
		}
	}

	if err := tracker.Flush(ctx); err != nil {
		log.Warnf("Failed to flush error tracker: %v", err)
	}

	log.Info("Shutdown complete")
}
