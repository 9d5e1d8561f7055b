// cmd/capmatch-server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"capital-match/internal/api"
	"capital-match/internal/app"
	"capital-match/internal/common/aws"
	"capital-match/internal/common/camunda"
	"capital-match/internal/common/config"
	"capital-match/internal/common/database"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/observability"
	"capital-match/internal/dashboard"
	"capital-match/internal/matching"
	"capital-match/internal/simulation"
	"capital-match/internal/visualizer"
	san "capital-match/internal/workers/alerts/send-alert-notification"
	"capital-match/pkg/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zapLog := logger.New("info", "console")
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting capital match server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("engine", cfg.Matching.Engine),
		zap.String("fixtures", cfg.Fixtures.Source),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	// --- Backends ---
	clients, err := database.Open(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("database init failed", zap.Error(err))
	}
	defer clients.Close()

	catalog, err := app.LoadCatalog(ctx, cfg, clients, log)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	dash := dashboard.New(catalog)
	searcher := app.NewSearcher(ctx, cfg, clients, catalog, log)

	var rdb redis.Cmdable
	if clients.Redis != nil {
		rdb = clients.Redis.Client
	}
	engine := matching.Build(cfg.Matching, rdb, obs, log)

	// --- Sessions ---
	bounds := simulation.DefaultBounds()
	sessions := api.NewSessionStore(config.GetDuration(cfg.Server.SessionTTL), func(id string) (*visualizer.View, *simulation.State) {
		sessionLog := log.WithFields(map[string]interface{}{"sessionId": id})
		view := visualizer.NewView(engine,
			visualizer.WithLogger(sessionLog),
			visualizer.WithObservability(obs),
			visualizer.WithFactorClick(func(factor string) {
				sessionLog.Info("factor clicked", map[string]interface{}{"factor": factor})
			}),
		)
		return view, simulation.New(bounds, sessionLog, obs)
	}, log)

	// --- Workflow workers ---
	health := app.Health{Clients: clients}
	var zeebe *camunda.Client
	var pool *camunda.Pool
	if cfg.Camunda.BrokerAddress != "" {
		zeebe, err = camunda.Dial(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		}, log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")
		health.Zeebe = zeebe

		deps := app.WorkerDeps{Catalog: dash, Engine: engine, Logger: log}
		if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
			awsCfg, err := aws.LoadConfig(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Fatal("aws config load failed", zap.Error(err))
			}
			var mailer san.Mailer
			var sms san.SMSSender
			if cfg.Notifications.Email.Enabled {
				mailer = aws.NewSESClient(awsCfg)
			}
			if cfg.Notifications.SMS.Enabled {
				sms = aws.NewSNSClient(awsCfg)
			}
			deps.Mailer, deps.SMS = mailer, sms
		}

		handlers, err := app.Handlers(cfg, registry.Default(), deps)
		if err != nil {
			zapLog.Fatal("worker setup failed", zap.Error(err))
		}
		pool = camunda.NewPool(zeebe.GetClient(), obs, log)
		started := app.StartWorkers(pool, cfg, handlers)
		zapLog.Info("Workers registered", zap.Int("count", started))
	} else {
		zapLog.Info("camunda.broker_address not set, job workers disabled")
	}

	// --- HTTP ---
	router := api.NewRouter(api.Deps{
		Dashboard:      dash,
		Searcher:       searcher,
		Engine:         engine,
		Sessions:       sessions,
		Health:         health,
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	server := api.NewServer(cfg.Server, router, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		return sessions.Run(gctx, time.Minute)
	})
	g.Go(func() error {
		<-gctx.Done()
		zapLog.Info("Shutdown signal received, stopping...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()

		if pool != nil {
			pool.Close()
		}
		if zeebe != nil {
			if err := zeebe.Close(); err != nil {
				zapLog.Error("Error closing Zeebe client", zap.Error(err))
			}
		}
		if err := obs.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error flushing telemetry", zap.Error(err))
		}
		return server.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
	zapLog.Info("Capital match server stopped gracefully")
}
