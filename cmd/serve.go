package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/mint/config"
	"github.com/Ramsey-B/mint/internal/repositories/cocktail"
	"github.com/Ramsey-B/mint/internal/repositories/garnish"
	"github.com/Ramsey-B/mint/internal/repositories/glass"
	"github.com/Ramsey-B/mint/internal/repositories/ice"
	"github.com/Ramsey-B/mint/internal/repositories/ingredient"
	"github.com/Ramsey-B/mint/internal/repositories/stepaction"
	"github.com/Ramsey-B/mint/internal/repositories/unit"
	"github.com/Ramsey-B/mint/internal/repositories/workspace"
	"github.com/Ramsey-B/mint/pkg/bundle"
	"github.com/Ramsey-B/mint/pkg/database"
	"github.com/Ramsey-B/mint/pkg/events"
	"github.com/Ramsey-B/mint/pkg/exchange"
	"github.com/Ramsey-B/mint/pkg/kafka"
	"github.com/Ramsey-B/mint/pkg/middleware"
	"github.com/Ramsey-B/mint/pkg/reconcile"
	"github.com/Ramsey-B/mint/pkg/redis"
	exchangeroutes "github.com/Ramsey-B/mint/pkg/routes/exchange"
	"github.com/Ramsey-B/mint/pkg/routes/health"
	"github.com/Ramsey-B/mint/pkg/startup"
	"github.com/Ramsey-B/mint/pkg/tracing"
	"github.com/Ramsey-B/mint/pkg/tracing/exporters"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, flush, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer flush()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

// infra holds the connections opened at startup.
type infra struct {
	db       *database.DatabaseInstance
	redis    *redis.Client
	producer *kafka.Producer
}

func startInfra(ctx context.Context, cfg *config.Config, logger ectologger.Logger) (*infra, *startup.Startup, error) {
	deps := &infra{}
	s := startup.NewStartup(logger, cfg.StartupMaxAttempts)

	s.AddDependency(startup.Func{
		Name: "database",
		OnStart: func(ctx context.Context) (err error) {
			deps.db, err = database.Connect(ctx, cfg.Database(), logger)
			return err
		},
		OnStop: func(context.Context) error {
			return deps.db.Close()
		},
	})

	s.AddDependency(startup.Func{
		Name:     "migrations",
		Requires: []string{"database"},
		OnStart: func(context.Context) error {
			return database.NewMigrationService(logger, cfg.Migration()).MigratePostgres(deps.db.DB.DB, cfg.DatabaseName)
		},
	})

	if cfg.RedisHost != "" {
		s.AddDependency(startup.Func{
			Name: "redis",
			OnStart: func(ctx context.Context) (err error) {
				deps.redis, err = redis.NewClient(ctx, redis.Config{
					Addr:     cfg.RedisAddr(),
					Password: cfg.RedisPassword,
					DB:       cfg.RedisDB,
				}, logger)
				return err
			},
			OnStop: func(context.Context) error {
				return deps.redis.Close()
			},
		})
	}

	if cfg.KafkaEnabled {
		s.AddDependency(startup.Func{
			Name: "kafka",
			OnStart: func(context.Context) error {
				deps.producer = kafka.NewProducer(kafka.ProducerConfig{
					Brokers:      cfg.KafkaBrokers,
					Topic:        cfg.KafkaTopic,
					BatchSize:    cfg.KafkaBatchSize,
					BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
					RequiredAcks: cfg.KafkaRequiredAcks,
					Compression:  cfg.KafkaCompression,
				}, logger)
				return nil
			},
			OnStop: func(context.Context) error {
				return deps.producer.Close()
			},
		})
	}

	if err := s.Start(ctx); err != nil {
		return nil, s, err
	}
	return deps, s, nil
}

func newExchangeService(cfg *config.Config, deps *infra, logger ectologger.Logger) *exchange.Service {
	units := unit.NewRepository(deps.db, logger)
	iceRepo := ice.NewRepository(deps.db, logger)
	stepActions := stepaction.NewRepository(deps.db, logger)
	glasses := glass.NewRepository(deps.db, logger)
	garnishes := garnish.NewRepository(deps.db, logger)
	ingredients := ingredient.NewRepository(deps.db, logger)
	cocktails := cocktail.NewRepository(deps.db, logger)
	workspaces := workspace.NewRepository(deps.db, logger)

	serializer := bundle.NewSerializer(bundle.Sources{
		Cocktails:   cocktails,
		Glasses:     glasses,
		Garnishes:   garnishes,
		Ingredients: ingredients,
		Units:       units,
		Ice:         iceRepo,
		StepActions: stepActions,
		Workspaces:  workspaces,
	}, cfg.ExportVersion, logger)

	repos := reconcile.Repositories{
		Units:        units,
		Ice:          iceRepo,
		StepActions:  stepActions,
		Glasses:      glasses,
		Garnishes:    garnishes,
		Ingredients:  ingredients,
		Cocktails:    cocktails,
		Translations: workspaces,
	}

	var shares exchange.ShareStore
	if deps.redis != nil {
		shares = redis.NewShareStore(deps.redis, cfg.SharedExportTTL, logger)
	}

	var publisher events.Publisher
	if deps.producer != nil {
		publisher = deps.producer
	}

	return exchange.NewService(
		serializer,
		reconcile.NewProposer(repos, logger),
		reconcile.NewExecutor(deps.db, repos, logger, reconcile.WithStrictConflicts(cfg.ReconcileStrictConflicts)),
		shares,
		events.NewEmitter(publisher, logger),
		logger,
	)
}

func newServer(cfg *config.Config, service *exchange.Service, checker *health.Checker, logger ectologger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomiddleware.Recover())
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	checker.RegisterRoutes(e)
	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	exchangeroutes.NewHandler(service, cfg.MaxBundleBytes).Register(e.Group("/api/v1"))

	return e
}

func serve(ctx context.Context, cfg *config.Config, logger ectologger.Logger) error {
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		ServiceName: cfg.AppName,
		Enabled:     cfg.TracingEnabled,
		Exporter: exporters.OTLPConfig{
			Endpoint: cfg.TracingEndpoint,
			Protocol: cfg.TracingProtocol,
			Insecure: cfg.TracingInsecure,
		},
	})
	if err != nil {
		return err
	}

	deps, dependencies, err := startInfra(ctx, cfg, logger)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = dependencies.Stop(stopCtx)
		_ = shutdownTracing(stopCtx)
	}()
	if err != nil {
		return err
	}

	var redisCheck health.Pinger
	if deps.redis != nil {
		redisCheck = deps.redis
	}
	checker := health.NewChecker(deps.db, redisCheck, cfg.ExportVersion)

	e := newServer(cfg, newExchangeService(cfg, deps, logger), checker, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           e,
		ReadTimeout:       time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", server.Addr)
		serveErr <- server.ListenAndServe()
	}()
	checker.SetReady(true)

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	checker.SetReady(false)
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
