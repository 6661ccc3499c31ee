package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"solar-valuation/config"
	httpLayer "solar-valuation/http"
	"solar-valuation/logger"
	"solar-valuation/repository"
	"solar-valuation/service"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the valuation API server",
	Long: `Start the HTTP API.

Endpoints:
  GET  /health
  POST /valuation/evaluate
  POST /valuation/breakdown
  POST /valuation/sensitivity
  POST /valuation/debt-schedule`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	log := logger.New(cfg)

	assumptions, err := loadAssumptions(cfg.AssumptionsPath)
	if err != nil {
		return fmt.Errorf("load assumptions: %w", err)
	}

	cache, closeCache := newCache(cfg, log)
	defer closeCache()

	engine := service.NewValuationEngine(assumptions)
	valuationService := service.NewValuationService(engine, cache, log, cfg.CacheTTL)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.Handlers{
		Valuation:    httpLayer.NewValuationHandler(valuationService, log),
		Sensitivity:  httpLayer.NewSensitivityHandler(service.NewSensitivityService(valuationService), log),
		DebtSchedule: httpLayer.NewDebtScheduleHandler(service.NewDebtScheduleService(valuationService), log),
	}, rateLimiter, log)

	server := httpLayer.NewServer(":"+cfg.Port, router, log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server exited")
	return nil
}

// newCache returns Redis when enabled and reachable, else an in-memory cache.
// An unreachable Redis is logged as a warning, not treated as fatal.
func newCache(cfg *config.Config, log *logger.Logger) (repository.CacheRepository, func()) {
	if !cfg.Redis.Enabled {
		log.Info("redis disabled, using in-memory cache")
		return newMemoryCache()
	}

	cache := repository.NewRedisCache(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		_ = cache.Close()
		log.WithError(err).WithField("addr", cfg.Redis.Addr).Warn("redis unreachable, using in-memory cache")
		return newMemoryCache()
	}

	log.WithField("addr", cfg.Redis.Addr).Info("connected to redis")
	return cache, func() {
		if err := cache.Close(); err != nil {
			log.WithError(err).Warn("error closing redis")
		}
	}
}

func newMemoryCache() (repository.CacheRepository, func()) {
	cache := repository.NewMemoryCache()
	return cache, cache.Stop
}
