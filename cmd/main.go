package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/llmrouter/internal/cache/memory"
	"github.com/davidbz/llmrouter/internal/cache/redis"
	"github.com/davidbz/llmrouter/internal/config"
	"github.com/davidbz/llmrouter/internal/domain"
	"github.com/davidbz/llmrouter/internal/httpclient"
	"github.com/davidbz/llmrouter/internal/httpserver"
	"github.com/davidbz/llmrouter/internal/metrics"
	"github.com/davidbz/llmrouter/internal/observability"
	"github.com/davidbz/llmrouter/internal/provider/factory"
	"github.com/davidbz/llmrouter/internal/provider/registry"
	"github.com/davidbz/llmrouter/internal/routing"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(
		server *httpserver.Server,
		serverCfg *config.ServerConfig,
		store domain.CacheStore,
	) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(serverCfg.ShutdownTimeout)*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if closer, ok := store.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				observability.FromContext(shutdownCtx).Warn("failed to close cache store", observability.Error(err))
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}
	if err := container.Provide(func(cfg *config.ModelsConfig) (*config.Tree, error) {
		return config.LoadTree(cfg.Path)
	}); err != nil {
		log.Fatalf("Failed to provide models config: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Invoke(observability.SetLogger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	if err := container.Provide(func() *prometheus.Registry {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		return reg
	}); err != nil {
		log.Fatalf("Failed to provide metrics registry: %v", err)
	}
	if err := container.Provide(func(reg *prometheus.Registry) prometheus.Gatherer {
		return reg
	}); err != nil {
		log.Fatalf("Failed to provide metrics gatherer: %v", err)
	}
	if err := container.Provide(func(reg *prometheus.Registry) (domain.MetricsSink, error) {
		return metrics.New(reg)
	}); err != nil {
		log.Fatalf("Failed to provide metrics: %v", err)
	}

	// Cache
	if err := container.Provide(newCacheStore); err != nil {
		log.Fatalf("Failed to provide cache store: %v", err)
	}
	if err := container.Provide(func(store domain.CacheStore, cfg *config.CacheConfig) *domain.ResponseCache {
		return domain.NewResponseCache(store, cfg.TTL)
	}); err != nil {
		log.Fatalf("Failed to provide response cache: %v", err)
	}

	// Pricing
	if err := container.Provide(func(tree *config.Tree) (domain.PricingRegistry, error) {
		reg := domain.NewInMemoryPricingRegistry()
		if err := factory.RegisterPricing(context.Background(), tree, reg); err != nil {
			return nil, err
		}
		observability.FromContext(context.Background()).Info("pricing loaded",
			observability.Strings("models", reg.Models()))
		return reg, nil
	}); err != nil {
		log.Fatalf("Failed to provide pricing registry: %v", err)
	}
	if err := container.Provide(func(reg domain.PricingRegistry) domain.CostCalculator {
		return domain.NewStandardCostCalculator(reg)
	}); err != nil {
		log.Fatalf("Failed to provide cost calculator: %v", err)
	}

	// Providers
	if err := container.Provide(func(cfg *config.RetryConfig) domain.RetryPolicy {
		return domain.RetryPolicy{
			MaxAttempts:    cfg.MaxAttempts,
			InitialBackoff: cfg.InitialBackoff,
			MaxBackoff:     cfg.MaxBackoff,
			Multiplier:     cfg.Multiplier,
		}
	}); err != nil {
		log.Fatalf("Failed to provide retry policy: %v", err)
	}
	if err := container.Provide(func(cfg *config.HTTPClientConfig) *http.Client {
		return httpclient.New(cfg)
	}); err != nil {
		log.Fatalf("Failed to provide HTTP client: %v", err)
	}
	if err := container.Provide(func(
		cache *domain.ResponseCache,
		sink domain.MetricsSink,
		retry domain.RetryPolicy,
		costs domain.CostCalculator,
	) domain.ProviderDeps {
		return domain.ProviderDeps{Cache: cache, Metrics: sink, Retry: retry, Costs: costs}
	}); err != nil {
		log.Fatalf("Failed to provide provider dependencies: %v", err)
	}
	if err := container.Provide(factory.NewFactory); err != nil {
		log.Fatalf("Failed to provide provider factory: %v", err)
	}
	if err := container.Provide(func(f *factory.Factory) domain.ProviderResolver {
		return registry.NewRegistry(f)
	}); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}
	if err := container.Provide(func(tree *config.Tree) domain.Router {
		return routing.NewRouter(tree)
	}); err != nil {
		log.Fatalf("Failed to provide router: %v", err)
	}

	// Domain Services
	if err := container.Provide(domain.NewGatewayService); err != nil {
		log.Fatalf("Failed to provide gateway service: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(httpserver.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(httpserver.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}

// newCacheStore uses Redis when REDIS_URL is set and an in-process store otherwise.
// An unreachable Redis at startup is fatal rather than silently degraded.
func newCacheStore(cfg *config.CacheConfig, logger *zap.Logger) (domain.CacheStore, error) {
	if cfg.RedisURL == "" {
		logger.Info("using in-memory response cache", zap.Duration("ttl", cfg.TTL))
		return memory.NewStore(cfg.TTL, cfg.CleanupInterval), nil
	}

	store, err := redis.NewStore(context.Background(), redis.Config{
		URL:       cfg.RedisURL,
		KeyPrefix: cfg.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis cache: %w", err)
	}

	logger.Info("using redis response cache", zap.Duration("ttl", cfg.TTL))
	return store, nil
}
