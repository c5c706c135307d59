package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	cephandler "brasilsearch/internal/cep/handler"
	cepmetrics "brasilsearch/internal/cep/metrics"
	"brasilsearch/internal/cep/providers"
	"brasilsearch/internal/cep/resolver"
	"brasilsearch/internal/platform/config"
	"brasilsearch/internal/platform/httpserver"
	"brasilsearch/internal/platform/logger"
	"brasilsearch/internal/platform/metrics"
	"brasilsearch/internal/platform/redis"
	"brasilsearch/internal/platform/tracing"
	rlmetrics "brasilsearch/internal/ratelimit/metrics"
	ratelimitmw "brasilsearch/internal/ratelimit/middleware"
	"brasilsearch/internal/ratelimit/store/bucket"
	httptransport "brasilsearch/internal/transport/http"
	"brasilsearch/pkg/platform/circuit"
)

// sweepInterval is how often idle in-memory rate limit buckets are dropped.
const sweepInterval = time.Minute

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Lookup logic lives in internal/cep.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("failed to flush traces", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	res, err := resolver.New(providers.Defaults(),
		resolver.WithDelay(cfg.CEP.AttemptDelay),
		resolver.WithUserAgent(cfg.CEP.UserAgent),
		resolver.WithLogger(log),
		resolver.WithMetrics(cepmetrics.New(reg)),
	)
	if err != nil {
		return fmt.Errorf("build resolver: %w", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	memStore := bucket.NewInMemoryBucketStore()
	rlm := rlmetrics.New(reg)
	limiter := newLimiter(cfg.RateLimit, redisClient, memStore, log, rlm)
	rateLimit := ratelimitmw.New(limiter, log,
		ratelimitmw.WithDisabled(cfg.RateLimit.Disabled),
		ratelimitmw.WithMetrics(rlm),
		ratelimitmw.WithCost(cephandler.RequestCost),
	)

	deps := httptransport.Deps{
		Logger:         log,
		CEP:            cephandler.New(res, log, cfg.CEP.BatchConcurrency),
		RateLimit:      rateLimit,
		HTTPMetrics:    metrics.New(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}
	if redisClient != nil {
		deps.Redis = redisClient
	}

	srv := httpserver.New(cfg.Server.Addr, httptransport.NewRouter(deps), log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting brasilsearch",
			"addr", cfg.Server.Addr,
			"providers", res.Providers(),
			"redis", redisClient != nil,
			"tracing", cfg.Tracing.ZipkinURL != "",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		memStore.RunSweeper(gctx, sweepInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// newLimiter uses redis as the primary store when configured, with the
// in-memory store behind a circuit breaker. Without redis the in-memory
// store is the only store.
func newLimiter(cfg config.RateLimit, client *redis.Client, memStore *bucket.InMemoryBucketStore, log *slog.Logger, m *rlmetrics.Metrics) *ratelimitmw.Limiter {
	opts := []ratelimitmw.LimiterOption{
		ratelimitmw.WithLimiterLogger(log),
		ratelimitmw.WithLimiterMetrics(m),
	}
	if client == nil {
		return ratelimitmw.NewLimiter(memStore, cfg.Requests, cfg.Window, opts...)
	}
	opts = append(opts, ratelimitmw.WithFallback(memStore, circuit.New("redis-ratelimit")))
	return ratelimitmw.NewLimiter(bucket.NewRedisBucketStore(client.Client), cfg.Requests, cfg.Window, opts...)
}
