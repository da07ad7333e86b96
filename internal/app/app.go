package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ninja0404/old-runners/internal/api"
	"github.com/ninja0404/old-runners/internal/config"
	"github.com/ninja0404/old-runners/internal/detector"
	"github.com/ninja0404/old-runners/internal/metrics"
	"github.com/ninja0404/old-runners/internal/model"
	"github.com/ninja0404/old-runners/internal/pipeline"
	"github.com/ninja0404/old-runners/internal/source"
	"github.com/ninja0404/old-runners/internal/source/dexscreener"
	"github.com/ninja0404/old-runners/internal/source/geckoterminal"
	"github.com/ninja0404/old-runners/pkg/cache"
	"github.com/ninja0404/old-runners/pkg/httpclient"
	"github.com/ninja0404/old-runners/pkg/logger"
	"github.com/ninja0404/old-runners/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

// Application old runner radar service
type Application struct {
	configManager *config.Manager
	cache         cache.Cache
	metrics       *metrics.Registry
	pipeline      *pipeline.Pipeline
	server        *api.Server
	sentry        bool
}

func New() *Application {
	return &Application{
		configManager: config.NewManager(),
	}
}

// Initialize loads config, logger and builds the scan pipeline.
func (app *Application) Initialize(configPath string) error {
	if err := app.configManager.Load(configPath); err != nil {
		return err
	}
	cfg := app.configManager.GetAppConfig()

	if err := app.initSentry(cfg.Sentry); err != nil {
		return err
	}
	if err := app.configManager.InitLogger(); err != nil {
		return err
	}
	logger.Info("old runner radar initializing",
		logger.String("config_path", configPath),
		logger.Strings("networks", cfg.Radar.NetworkList()),
		logger.Int("ttl", cfg.Radar.TTLSec),
		logger.String("cache", cfg.Cache.Kind))

	app.metrics = metrics.NewRegistry()
	app.cache = cache.New(cfg.Cache)
	app.pipeline = app.buildPipeline(cfg)
	return nil
}

func (app *Application) initSentry(cfg config.SentryConfig) error {
	if cfg.DSN == "" {
		return nil
	}
	env := cfg.Environment
	if env == "" {
		env = utils.GetEnv()
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: env,
	}); err != nil {
		return errors.Wrap(err, "init sentry")
	}
	app.sentry = true
	return nil
}

func (app *Application) buildPipeline(cfg *config.AppConfig) *pipeline.Pipeline {
	ttl := cfg.Radar.TTL()

	gtClient := httpclient.New("geckoterminal", cfg.Upstream.GeckoTerminal)
	dsClient := httpclient.New("dexscreener", cfg.Upstream.DexScreener)

	discoverer := geckoterminal.NewSource(
		gtClient.BaseURL(),
		source.NewCachedFetcher(gtClient, app.cache, ttl, "gt:"),
		geckoterminal.WithMaxPages(cfg.Radar.MaxPages),
		geckoterminal.WithCategories(cfg.Radar.CategoryList()...),
	)
	enricher := dexscreener.NewSource(
		dsClient.BaseURL(),
		source.NewCachedFetcher(dsClient, app.cache, ttl, "ds:"),
		cfg.Radar.ChunkSize,
	)

	return pipeline.NewPipeline(discoverer, enricher,
		pipeline.WithFilter(detector.NewFilter()),
		pipeline.WithMetrics(app.metrics),
		pipeline.WithConfig(pipeline.Config{
			MaxCandidates:  cfg.Radar.MaxCandidates,
			Concurrency:    cfg.Radar.Concurrency,
			NetworkTimeout: cfg.Radar.NetworkTimeout(),
			ScanTimeout:    cfg.Radar.ScanTimeout(),
		}),
	)
}

// Run serves HTTP until SIGINT/SIGTERM.
func (app *Application) Run() error {
	cfg := app.configManager.GetAppConfig()
	var opts []api.HandlerOption
	if p, ok := app.cache.(api.Pinger); ok {
		opts = append(opts, api.WithCachePinger(p))
	}
	handler := api.NewHandler(app.pipeline, cfg.Radar.NetworkList(), cfg.Radar.TTL(), opts...)
	app.server = api.NewServer(cfg.HTTPServer(), handler, app.metrics)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("received signal, shutting down", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			app.Shutdown()
			return err
		}
	}
	return app.Shutdown()
}

// Scan runs one pass over networks without starting the server.
func (app *Application) Scan(ctx context.Context, networks []string, filter model.FilterConfig) *api.Response {
	cfg := app.configManager.GetAppConfig()
	if len(networks) == 0 {
		networks = cfg.Radar.NetworkList()
	}
	res := app.pipeline.Run(ctx, networks, filter)
	if err := res.Err(); err != nil {
		logger.Warn("scan finished with failed networks", logger.FieldErr(err))
	}
	return api.BuildResponse(res, filter, cfg.Radar.TTLSec)
}

// Shutdown stops the server and releases the cache
func (app *Application) Shutdown() error {
	var merr *multierror.Error

	if app.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.server.Shutdown(ctx); err != nil {
			merr = multierror.Append(merr, errors.Wrap(err, "shutdown server"))
		}
	}
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			merr = multierror.Append(merr, errors.Wrap(err, "close cache"))
		}
	}
	if app.sentry {
		sentry.Flush(2 * time.Second)
	}

	logger.Info("old runner radar stopped")
	logger.Close()
	return merr.ErrorOrNil()
}

// Start initializes and runs the service
func (app *Application) Start(configPath string) error {
	if err := app.Initialize(configPath); err != nil {
		logger.Error("initialize failed", logger.FieldErr(err))
		return err
	}
	if err := app.Run(); err != nil {
		logger.Error("run failed", logger.FieldErr(err))
		return err
	}
	return nil
}
