// Package app wires configuration into the engine, catalog adapters,
// workers and HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/akkash/bizsearch-new-sub002/internal/catalog"
	"github.com/akkash/bizsearch-new-sub002/internal/common/camunda"
	"github.com/akkash/bizsearch-new-sub002/internal/common/config"
	"github.com/akkash/bizsearch-new-sub002/internal/common/database"
	"github.com/akkash/bizsearch-new-sub002/internal/common/logger"
	"github.com/akkash/bizsearch-new-sub002/internal/common/observability"
	"github.com/akkash/bizsearch-new-sub002/internal/common/validation"
	"github.com/akkash/bizsearch-new-sub002/internal/httpapi"
	"github.com/akkash/bizsearch-new-sub002/internal/matching"
	"github.com/akkash/bizsearch-new-sub002/internal/projection"
	buildroiscenarios "github.com/akkash/bizsearch-new-sub002/internal/workers/franchise/build-roi-scenarios"
	calculatematchscore "github.com/akkash/bizsearch-new-sub002/internal/workers/franchise/calculate-match-score"
	rankopportunities "github.com/akkash/bizsearch-new-sub002/internal/workers/franchise/rank-opportunities"
	"github.com/akkash/bizsearch-new-sub002/pkg/registry"
)

// Options tune construction. The zero value connects with retries and
// registers metrics on the default Prometheus registry.
type Options struct {
	Registry        *prometheus.Registry
	ConnectAttempts int
	ConnectDelay    time.Duration
}

// App holds every long-lived component of the process.
type App struct {
	Config        *config.Config
	Engine        *matching.Engine
	Builder       *projection.Builder
	Registry      *registry.ActivityRegistry
	Validator     *validation.Validator
	Repository    *catalog.Repository
	Observability *observability.Observability

	Score     *calculatematchscore.Handler
	Rank      *rankopportunities.Handler
	Scenarios *buildroiscenarios.Handler

	opts    Options
	zap     *zap.Logger
	log     logger.Logger
	checks  map[string]httpapi.Pinger
	closers []func() error
	workers []*camunda.CamundaWorker
}

// New builds the engine and connects to the configured backends. Postgres
// is optional; without it requests must carry inline profiles and catalogs.
func New(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, opts Options) (*App, error) {
	if opts.ConnectAttempts <= 0 {
		opts.ConnectAttempts = 10
	}
	if opts.ConnectDelay <= 0 {
		opts.ConnectDelay = 2 * time.Second
	}

	a := &App{
		Config: cfg,
		opts:   opts,
		zap:    zapLog,
		log:    logger.NewZapAdapter(zapLog),
		checks: make(map[string]httpapi.Pinger),
	}

	if err := a.buildEngine(); err != nil {
		return nil, err
	}
	if err := a.buildObservability(); err != nil {
		return nil, err
	}
	if err := a.connectCatalog(ctx); err != nil {
		a.Close()
		return nil, err
	}
	a.buildHandlers()

	return a, nil
}

// NewEngine builds the matching engine and scenario builder from config.
// It touches no backends, so offline tools can use it directly.
func NewEngine(cfg *config.Config) (*matching.Engine, *projection.Builder, error) {
	table := projection.DefaultBenchmarks()
	if cfg.Projection.BenchmarksPath != "" {
		loaded, err := projection.LoadBenchmarks(cfg.Projection.BenchmarksPath)
		if err != nil {
			return nil, nil, err
		}
		table = loaded
	}
	builder := projection.NewBuilder(table, projection.WithDefaultHorizon(cfg.Projection.HorizonYears))

	engine, err := matching.NewEngine(
		matching.WithWeights(cfg.EngineWeights()),
		matching.WithStrengthThreshold(cfg.Engine.StrengthThreshold),
		matching.WithDefaultTopN(cfg.Engine.TopN),
		matching.WithBreakEvenLookup(table),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("engine: %w", err)
	}
	return engine, builder, nil
}

func (a *App) buildEngine() error {
	engine, builder, err := NewEngine(a.Config)
	if err != nil {
		return err
	}
	a.Engine, a.Builder = engine, builder

	reg, err := registry.Load(a.Config.App.RegistryPath)
	if err != nil {
		return err
	}
	a.Registry = reg

	validator, err := validation.NewValidator(reg)
	if err != nil {
		return err
	}
	a.Validator = validator
	return nil
}

func (a *App) buildObservability() error {
	var (
		obs *observability.Observability
		err error
	)
	if a.opts.Registry != nil {
		obs, err = observability.NewWithRegisterer(a.Config.App.Name, a.opts.Registry)
	} else {
		obs, err = observability.New(a.Config.App.Name)
	}
	if err != nil {
		return err
	}
	a.Observability = obs
	return nil
}

func (a *App) connectCatalog(ctx context.Context) error {
	cfg := a.Config
	if !cfg.Database.Postgres.Configured() {
		a.zap.Info("postgres not configured, catalog lookups disabled")
		return nil
	}

	var pg *database.PostgresClient
	err := a.retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return err
		}
		return nil
	}, "PostgreSQL connection")
	if err != nil {
		return err
	}
	a.closers = append(a.closers, pg.Close)
	a.checks["postgres"] = pg
	a.zap.Info("PostgreSQL connected successfully")

	repoOpts := []catalog.Option{catalog.WithMaxCandidates(cfg.Catalog.MaxCandidates)}

	if cfg.Database.Redis.Address != "" {
		rdb := database.NewRedis(cfg.Database.Redis)
		if err := a.retryWithBackoff(func() error { return rdb.Ping(ctx) }, "Redis connection"); err != nil {
			rdb.Close()
			return err
		}
		a.closers = append(a.closers, rdb.Close)
		a.checks["redis"] = rdb
		repoOpts = append(repoOpts, catalog.WithCache(catalog.NewCache(rdb.Client, cfg.CacheTTL())))
		a.zap.Info("Redis connected successfully")
	}

	if cfg.Catalog.UseSearch {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		if err := a.retryWithBackoff(func() error { return es.Ping(ctx) }, "Elasticsearch connection"); err != nil {
			return err
		}
		a.checks["elasticsearch"] = es
		repoOpts = append(repoOpts, catalog.WithSearch(catalog.NewSearchIndex(es.Client, cfg.Catalog.SearchIndex)))
		a.zap.Info("Elasticsearch connected successfully")
	}

	a.Repository = catalog.NewRepository(catalog.NewPostgresStore(pg.DB), a.log, repoOpts...)
	return nil
}

func (a *App) buildHandlers() {
	cfg := a.Config

	// Handlers take interfaces; a nil *Repository must not leak in as a
	// non-nil interface value.
	var (
		profiles catalog.ProfileSource
		store    rankopportunities.Store
	)
	if a.Repository != nil {
		profiles, store = a.Repository, a.Repository
	}

	scoreCfg := calculatematchscore.LoadConfig()
	scoreCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, calculatematchscore.TaskType).Timeout)
	a.Score = calculatematchscore.NewHandler(scoreCfg, a.Engine, profiles, a.Validator, a.log)

	rankCfg := rankopportunities.LoadConfig()
	rankCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, rankopportunities.TaskType).Timeout)
	a.Rank = rankopportunities.NewHandler(rankCfg, a.Engine, store, a.Validator, a.log)

	scenarioCfg := buildroiscenarios.LoadConfig()
	scenarioCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, buildroiscenarios.TaskType).Timeout)
	a.Scenarios = buildroiscenarios.NewHandler(scenarioCfg, a.Builder, a.Validator, a.log)
}

// HTTPServer returns the API over the app's handlers.
func (a *App) HTTPServer() *httpapi.Server {
	var gatherer prometheus.Gatherer
	if a.opts.Registry != nil {
		gatherer = a.opts.Registry
	}
	return httpapi.New(httpapi.Deps{
		Ranker:         a.Rank,
		Projector:      a.Scenarios,
		Benchmarks:     a.Builder.Benchmarks(),
		Validator:      a.Validator,
		Observability:  a.Observability,
		Checks:         a.checks,
		Gatherer:       gatherer,
		AllowedOrigins: a.Config.HTTP.AllowedOrigins,
		Logger:         a.log,
	})
}

// ConnectZeebe dials the broker and adds it to the readiness checks.
func (a *App) ConnectZeebe(ctx context.Context) (*camunda.Client, error) {
	client, err := camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(a.Config.Camunda))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	a.checks["zeebe"] = pingFunc(client.HealthCheck)
	a.zap.Info("Zeebe client connected successfully")
	return client, nil
}

// WorkerTaskTypes lists the task types this process can serve.
func WorkerTaskTypes() []string {
	return []string{calculatematchscore.TaskType, rankopportunities.TaskType, buildroiscenarios.TaskType}
}

// StartWorkers opens one job worker per enabled task type and returns how
// many were opened.
func (a *App) StartWorkers(client zbc.Client) int {
	handlers := []struct {
		taskType string
		handler  worker.JobHandler
	}{
		{calculatematchscore.TaskType, a.Score.Handle},
		{rankopportunities.TaskType, a.Rank.Handle},
		{buildroiscenarios.TaskType, a.Scenarios.Handle},
	}

	for _, h := range handlers {
		wcfg := config.GetWorkerConfig(a.Config, h.taskType)
		if w := camunda.StartWorker(client, h.taskType, wcfg, h.handler, a.zap); w != nil {
			a.workers = append(a.workers, w)
		}
	}
	return len(a.workers)
}

// StopWorkers closes every job worker, waiting for in-flight jobs.
func (a *App) StopWorkers(ctx context.Context) {
	for _, w := range a.workers {
		w.Stop(ctx)
	}
	a.workers = nil
}

// Close releases backend connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Observability.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// retryWithBackoff attempts operation with exponential backoff.
func (a *App) retryWithBackoff(operation func() error, operationName string) error {
	var err error
	delay := a.opts.ConnectDelay

	for i := 0; i < a.opts.ConnectAttempts; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < a.opts.ConnectAttempts-1 {
			a.zap.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", a.opts.ConnectAttempts),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, a.opts.ConnectAttempts, err)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
