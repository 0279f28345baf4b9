package di

import (
	"context"
	"fmt"

	"SalesCast/internal/domain/repository"
	"SalesCast/internal/handler/api"
	internalrepo "SalesCast/internal/repository"
	svcmetrics "SalesCast/internal/service/metrics"
	"SalesCast/internal/service/ratelimit"
	"SalesCast/internal/usecase"
	"SalesCast/pkg/cache"
	pkgch "SalesCast/pkg/clickhouse"
	"SalesCast/pkg/config"
	xhttp "SalesCast/pkg/http"
	applogger "SalesCast/pkg/logger"
	"SalesCast/pkg/metrics"
	"SalesCast/pkg/server"
)

// ProvideLogger builds the process logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideArtifactStore opens the configured artifact backend.
func ProvideArtifactStore(cfg *config.Config, l *applogger.Logger) (repository.ArtifactStore, error) {
	var store repository.ArtifactStore
	switch cfg.Artifacts.Backend {
	case "redis":
		rc := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Redis.Addr),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
			cache.WithRedisPool(cfg.Redis.PoolSize, 1, cfg.Artifacts.LoadTimeout),
			cache.WithRedisPrefix(cfg.Redis.Prefix),
		)
		pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Artifacts.LoadTimeout)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			l.Error("artifact store: redis unreachable", applogger.String("addr", cfg.Redis.Addr), applogger.Error(err))
		}
		store = internalrepo.NewRedisArtifactStore(rc)
		l.Info("artifact store: redis", applogger.String("addr", cfg.Redis.Addr))
	case "file":
		store = internalrepo.NewFileArtifactStore(cfg.Artifacts.Dir)
		l.Info("artifact store: file", applogger.String("dir", cfg.Artifacts.Dir))
	default:
		return nil, fmt.Errorf("unknown artifact backend %q", cfg.Artifacts.Backend)
	}
	return svcmetrics.InstrumentStore(store), nil
}

// ArtifactNames maps config onto the loader's names.
func ArtifactNames(cfg *config.Config) usecase.ArtifactNames {
	return usecase.ArtifactNames{
		Preprocessor: cfg.Artifacts.Preprocessor,
		TimeSeries:   cfg.Artifacts.TimeSeries,
		Tabular:      cfg.Artifacts.Tabular,
		Residual:     cfg.Artifacts.Residual,
	}
}

// ProvideModelState loads every artifact. A failure is logged and yields a
// nil state so the server still starts and reports itself degraded.
func ProvideModelState(cfg *config.Config, store repository.ArtifactStore, l *applogger.Logger) *usecase.ModelState {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Artifacts.LoadTimeout)
	defer cancel()

	state, err := usecase.LoadModelState(ctx, store, ArtifactNames(cfg))
	if err != nil {
		l.Error("error loading models/preprocessor, serving degraded", applogger.Error(err))
		return nil
	}
	l.Info("models and preprocessor loaded successfully",
		applogger.Float64("residual_std", state.Residual.ResidualStd),
	)
	return state
}

// ProvideForecastRouter builds the inference router.
func ProvideForecastRouter(cfg *config.Config, state *usecase.ModelState, m repository.Metrics) *usecase.ForecastRouter {
	return usecase.NewForecastRouter(state,
		usecase.WithAlpha(cfg.Forecast.Alpha),
		usecase.WithZ(cfg.Forecast.Z),
		usecase.WithMetrics(m),
	)
}

// ProvideHandler exposes the router over HTTP.
func ProvideHandler(l *applogger.Logger, router *usecase.ForecastRouter) xhttp.Handler {
	return api.NewForecastEchoHandler(l, router)
}

// ProvideHTTPServer builds the Echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS, cfg.Server.CORSOrigins...),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithLogger(l),
	}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		opts = append(opts, xhttp.WithRateLimit(ratelimit.New(rl.Burst, rl.RPS).Allow))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideApp assembles the application.
func ProvideApp(srv *xhttp.Server, store repository.ArtifactStore, l *applogger.Logger) *server.App {
	return server.New(srv, store, l)
}

// ProvideClickHouseClient creates a ClickHouse client for the fitting pass.
func ProvideClickHouseClient(ctx context.Context, cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		pkgch.WithMaxConnections(cfg.ClickHouse.MaxOpenConns, cfg.ClickHouse.MaxIdleConns),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}
