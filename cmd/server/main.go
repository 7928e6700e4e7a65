// Command server wires the judgment gateway and serves it over HTTP, or
// over MCP stdio when started with -mcp. Business logic lives in the
// internal packages; main only assembles them.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexgate/internal/audit"
	"lexgate/internal/cache"
	"lexgate/internal/judgments/providers"
	"lexgate/internal/judgments/providers/portal"
	"lexgate/internal/judgments/providers/saos"
	"lexgate/internal/judgments/transport"
	"lexgate/internal/orchestrator"
	"lexgate/internal/platform/config"
	"lexgate/internal/platform/httpserver"
	"lexgate/internal/platform/logger"
	"lexgate/internal/platform/metrics"
	platformredis "lexgate/internal/platform/redis"
	"lexgate/internal/ratelimit"
	httpapi "lexgate/internal/transport/http"
	mcpserver "lexgate/internal/transport/mcp"
)

const version = "1.0.0"

func main() {
	mcpMode := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	flag.Parse()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, sweeper, err := buildCache(cfg)
	if err != nil {
		log.Error("cache backend init failed", "backend", cfg.CacheBackend, "error", err)
		os.Exit(1)
	}
	if sweeper != nil {
		go sweeper.RunSweeper(ctx, cfg.SweepInterval)
	}

	trailOpts := []audit.Option{}
	if cfg.AuditIncludeText {
		trailOpts = append(trailOpts, audit.IncludeQueryText())
	}
	trail := audit.NewTrail(cfg.AuditCapacity, trailOpts...)

	client := transport.NewClient(cfg.UpstreamTimeout, cfg.AllowedHosts)
	registry := providers.NewRegistry()
	if err := registry.Register(saos.New(cfg.SAOSBaseURL, client)); err != nil {
		log.Error("provider registration failed", "error", err)
		os.Exit(1)
	}
	if err := registry.Register(portal.New(cfg.PortalBaseURL, client)); err != nil {
		log.Error("provider registration failed", "error", err)
		os.Exit(1)
	}

	orch := orchestrator.New(registry, store, trail, metrics.New(), log,
		orchestrator.Limiters{
			Search: ratelimit.New(cfg.SearchLimit, time.Minute),
			Detail: ratelimit.New(cfg.DetailLimit, time.Minute),
			Health: ratelimit.New(cfg.HealthLimit, time.Minute),
		},
		orchestrator.TTLs{
			Search: cfg.SearchTTL,
			Detail: cfg.DetailTTL,
			Health: cfg.HealthTTL,
		})

	if *mcpMode {
		log.Info("starting lexgate MCP server on stdio", "version", version)
		if err := mcpserver.RunStdio(ctx, mcpserver.NewServer(orch, version)); err != nil {
			log.Error("mcp server stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	handler := httpapi.NewHandler(orch, trail, store, log)
	srv := httpserver.New(cfg.Addr, httpapi.NewRouter(handler))

	log.Info("starting lexgate", "addr", cfg.Addr, "cacheBackend", cfg.CacheBackend, "providers", registry.Names())
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// buildCache selects the cache backend from configuration. The memory
// backend also returns the sweeper main runs in the background.
func buildCache(cfg config.Config) (cache.Store, *cache.Memory, error) {
	if cfg.CacheBackend == config.CacheBackendRedis {
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		if client == nil {
			return nil, nil, errors.New("redis backend selected but LEXGATE_REDIS_URL is empty")
		}
		return cache.NewRedis(client.Client, cfg.CacheNamespace), nil, nil
	}
	mem := cache.NewMemory(cfg.CacheCapacity)
	return mem, mem, nil
}
