// Command contentapi serves the content API pipeline.
//
// Configuration is read from the YAML file named by -config (default
// contentapi.yaml, optional), then CONTENTAPI_* environment variables. A
// .env file in the working directory is loaded first if present.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/penwright/contentapi"
	"github.com/penwright/contentapi/middlewares"
	"github.com/penwright/contentapi/pkg/cache"
	"github.com/penwright/contentapi/pkg/config"
	"github.com/penwright/contentapi/pkg/logger"
	"github.com/penwright/contentapi/pkg/ratelimit"
	"github.com/penwright/contentapi/pkg/redis"
	"github.com/penwright/contentapi/pkg/telemetry"
)

func main() {
	configPath := flag.String("config", "contentapi.yaml", "path to the YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(context.Background(), cfg); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Sentry: logger.SentryConfig{DSN: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment},
	})

	runOpts := []contentapi.RunOption{
		contentapi.Logger(log),
		contentapi.ShutdownTimeout(cfg.Server.ShutdownTimeout),
	}
	appOpts := []contentapi.Option{
		contentapi.WithLogger(log),
		contentapi.WithTrustProxy(cfg.Server.TrustProxy),
		contentapi.WithRouteIntrospection(),
		contentapi.WithMiddleware(
			middlewares.CORS(),
			middlewares.RequestID(),
			middlewares.Timeout(cfg.Server.RequestTimeout),
		),
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(cfg.Telemetry.ServiceName, log)
		if err != nil {
			return err
		}
		appOpts = append(appOpts, contentapi.WithTracing(cfg.Telemetry.ServiceName))
		runOpts = append(runOpts, contentapi.ShutdownHook(shutdown))
	}

	var (
		client   goredis.UniversalClient
		subjects cache.Store[contentapi.Subject]
		limiter  ratelimit.Limiter
		checks   []contentapi.HealthOption
	)
	if cfg.Redis.URL != "" {
		var err error
		client, err = redis.Open(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		subjects = cache.NewRedis[contentapi.Subject](client, nil, cache.WithPrefix("contentapi:subject:"))
		if cfg.RateLimit.Requests > 0 {
			limiter = ratelimit.NewRedis(client, cfg.RateLimit.Requests, cfg.RateLimit.Window, ratelimit.WithPrefix("contentapi:rl:"))
		}
		checks = append(checks, contentapi.WithReadinessCheck("redis", redis.Ping(client)))
		runOpts = append(runOpts, contentapi.ShutdownHook(redis.Shutdown(client)))
		log.Info("using redis for credential cache and rate limits")
	} else {
		mem := cache.NewMemory[contentapi.Subject](cache.WithMaxEntries(10_000))
		subjects = mem
		runOpts = append(runOpts, contentapi.ShutdownHook(func(context.Context) error { return mem.Close() }))
		if cfg.RateLimit.Requests > 0 {
			ml := ratelimit.NewMemory(cfg.RateLimit.Requests, cfg.RateLimit.Window)
			limiter = ml
			runOpts = append(runOpts, contentapi.ShutdownHook(func(context.Context) error { return ml.Close() }))
		}
	}

	tokens, err := newTokenResolver(cfg.Auth.Tokens)
	if err != nil {
		return err
	}
	resolver := contentapi.NewCachedResolver(tokens, subjects, cfg.Auth.CacheTTL)

	appOpts = append(appOpts,
		contentapi.WithCredentialResolver(resolver),
		contentapi.WithHealthChecks(checks...),
		contentapi.WithHandlers(newAdminHandler(resolver)),
	)
	if limiter != nil {
		appOpts = append(appOpts, contentapi.WithQuotaChecker(quotaChecker(limiter)))
	}

	// Sentry flush runs last so shutdown errors from earlier hooks are delivered.
	runOpts = append(runOpts, contentapi.ShutdownHook(logger.Flush(2*time.Second)))

	app := contentapi.New(appOpts...)
	return app.Run(cfg.Server.Addr, runOpts...)
}

// quotaChecker adapts a limiter to the rate-limit gate.
func quotaChecker(l ratelimit.Limiter) contentapi.QuotaChecker {
	return contentapi.QuotaCheckerFunc(func(ctx context.Context, key contentapi.QuotaKey) (contentapi.Quota, error) {
		res, err := l.Allow(ctx, key.String())
		if err != nil {
			return contentapi.Quota{}, err
		}
		return contentapi.Quota{
			RetryAfter: res.RetryAfter,
			Limit:      res.Limit,
			Remaining:  res.Remaining,
			Allowed:    res.Allowed,
		}, nil
	})
}
