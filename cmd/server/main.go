package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"restaurant-analytics/internal/api"
	"restaurant-analytics/internal/cache"
	"restaurant-analytics/internal/config"
	"restaurant-analytics/internal/engine"
	"restaurant-analytics/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	loc, _ := cfg.Location()
	defaultDate, _ := cfg.DefaultDate()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Initialize Echo (Starts Instantly)
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.App.LogLevel))
	e.Logger.SetPrefix(cfg.App.Name)
	e.JSONSerializer = api.JSONSerializer{}
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())
	if cfg.RateLimit.RPS > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit.RPS))))
	}

	// 2. Initialize Handler with no data
	// The API is "live" but answers 503 until the store is set.
	h := api.NewHandler(newReportCache(ctx, cfg, e.Logger), api.Options{
		Location:    loc,
		DefaultDate: defaultDate,
		Thresholds:  engine.Thresholds{A: cfg.Report.ThresholdA, B: cfg.Report.ThresholdB},
		Hours:       engine.BusinessHours{Open: cfg.Report.OpenHour, Close: cfg.Report.CloseHour},
	})
	h.RegisterRoutes(e)

	// 3. Load in background
	go func() {
		e.Logger.Infof("BACKGROUND: loading sales data from %s...", cfg.Data.Source)
		t0 := time.Now()

		store, err := loadStore(ctx, cfg)
		if err != nil {
			e.Logger.Errorf("BACKGROUND: load failed: %v", err)
			return
		}
		if d := store.Dangling(); d != (engine.DanglingRefs{}) {
			e.Logger.Warnf("BACKGROUND: unresolved references skipped by reports: %+v", d)
		}

		h.SetStore(store)
		e.Logger.Infof("BACKGROUND: loaded %d orders, %d items, %d products, %d payments in %v",
			len(store.Orders), len(store.OrderItems), len(store.Products), len(store.Payments), time.Since(t0))
	}()

	// 4. Start Server (immediately)
	go func() {
		e.Logger.Infof("Server ready on port %s (data loading in background...)", cfg.App.Port)
		if err := e.Start(":" + cfg.App.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}

func loadStore(ctx context.Context, cfg *config.Config) (*engine.Store, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if cfg.Data.Source == "postgres" {
		db, err := storage.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return storage.Load(ctx, db, loc)
	}
	return engine.LoadCSV(ctx, cfg.Data.Dir, loc)
}

// newReportCache connects to Redis when configured. An unreachable Redis
// disables caching instead of failing startup.
func newReportCache(ctx context.Context, cfg *config.Config, logger echo.Logger) *cache.Reports {
	if cfg.Cache.Addr == "" {
		return cache.New(cache.Noop{})
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Cache.Addr, DB: cfg.Cache.DB})
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		logger.Warnf("redis at %s unavailable, caching disabled: %v", cfg.Cache.Addr, err)
		_ = client.Close()
		return cache.New(cache.Noop{})
	}
	logger.Infof("caching reports in redis at %s (ttl %v)", cfg.Cache.Addr, cfg.Cache.TTL)
	return cache.New(cache.NewRedisBackend(client, cfg.Cache.TTL))
}

func logLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
