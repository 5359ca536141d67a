package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Sternrassler/weather-pipeline/internal/config"
	"github.com/Sternrassler/weather-pipeline/pkg/cache"
	"github.com/Sternrassler/weather-pipeline/pkg/client"
	"github.com/Sternrassler/weather-pipeline/pkg/controller"
	"github.com/Sternrassler/weather-pipeline/pkg/location"
	"github.com/Sternrassler/weather-pipeline/pkg/logging"
	"github.com/Sternrassler/weather-pipeline/pkg/prefs"
	"github.com/Sternrassler/weather-pipeline/pkg/ratelimit"
	"github.com/Sternrassler/weather-pipeline/pkg/weather"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.Config{
		Level:   logging.ParseLevel(cfg.Log.Level),
		Pretty:  cfg.Log.Pretty,
		Output:  os.Stderr,
		Service: "weather-pipeline",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Pipeline failed")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.controller.Start(ctx); err != nil {
		return fmt.Errorf("start controller: %w", err)
	}
	defer a.controller.Stop()

	go a.logNotifications(ctx)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", server.Addr).Msg("Starting weather pipeline server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// app wires the pipeline components.
type app struct {
	controller *controller.Controller
	gateway    *client.Gateway
	prefs      *prefs.Store
	db         *gorm.DB
	redis      *redis.Client
	logger     zerolog.Logger
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{logger: logging.NewLogger("weather-pipeline")}

	db, err := location.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	a.db = db

	cities := location.NewStore(db)
	if err := cities.Migrate(); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrate cities: %w", err)
	}
	seeded, err := cities.Seed(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.logger.Info().Int("seeded", seeded).Str("driver", cfg.Database.Driver).Msg("City store ready")

	if cfg.Redis.Enabled() {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := prefs.NewStore(a.redis)
		if err := store.Ping(ctx); err != nil {
			a.logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Preference store unavailable, using default units")
		} else {
			a.prefs = store
			a.logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to preference store")
		}
	}

	store, err := cache.NewStore(cache.Config{
		Capacity: cfg.Cache.Capacity,
		Clock:    time.Now,
		Logger:   logging.NewLogger("cache"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	fetchCfg := client.DefaultConfig(cfg.Provider.UserAgent)
	fetchCfg.Timeout = cfg.Fetch.Timeout()
	fetchCfg.Retry = client.RetryPolicy{MaxRetries: cfg.Fetch.MaxRetries, BaseDelay: cfg.Fetch.BaseDelay()}
	fetchCfg.Breaker = client.BreakerConfig{
		Enabled:             cfg.Fetch.BreakerEnabled,
		ConsecutiveFailures: cfg.Fetch.BreakerFailures,
		OpenTimeout:         cfg.Fetch.BreakerOpen(),
	}
	if cfg.Fetch.RateLimitRPS > 0 {
		fetchCfg.Limiter = ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerSecond: cfg.Fetch.RateLimitRPS,
			Burst:             cfg.Fetch.RateLimitBurst,
		}, logging.NewLogger("ratelimit"))
	}
	fetcher, err := client.NewFetcher(fetchCfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	gwCfg := client.DefaultGatewayConfig()
	gwCfg.SingleFlight = cfg.Cache.SingleFlight
	a.gateway, err = client.NewGateway(store, fetcher, gwCfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	provider, err := weather.NewProvider(weather.Config{
		BaseURL:     cfg.Provider.BaseURL,
		AdvisoryURL: cfg.Provider.AdvisoryURL,
		TTL: weather.TTLs{
			Current: time.Duration(cfg.Cache.TTLCurrentSeconds) * time.Second,
			Hourly:  time.Duration(cfg.Cache.TTLHourlySeconds) * time.Second,
			Daily:   time.Duration(cfg.Cache.TTLDailySeconds) * time.Second,
		},
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.controller, err = controller.New(controller.Config{
		Provider:            provider,
		Gateway:             a.gateway,
		Resolver:            location.NewResolver(cities, location.DefaultLocation, logging.NewLogger("location")),
		MaintenanceInterval: cfg.Controller.MaintenanceInterval(),
		NotificationBuffer:  cfg.Controller.NotificationBuffer,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// Close releases the database and Redis connections.
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
	if a.db != nil {
		if err := location.Close(a.db); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to close database")
		}
	}
}

// units returns the display units of subjectID.
func (a *app) units(ctx context.Context, subjectID string) prefs.Units {
	if a.prefs == nil || subjectID == "" {
		return prefs.DefaultUnits()
	}
	return a.prefs.Units(ctx, subjectID)
}

func (a *app) logNotifications(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-a.controller.Notifications():
			a.logNotification(n, a.units(ctx, n.SubjectID))
		}
	}
}

func (a *app) logNotification(n controller.Notification, units prefs.Units) {
	event := a.logger.Info()
	switch n.Kind {
	case controller.TaskStarted, controller.TaskFinished:
		event = a.logger.Debug()
	case controller.Error:
		event = a.logger.Warn().Str("kind", string(n.ErrorKind))
	}

	event.
		Str("notification", n.Kind.String()).
		Str("subject_id", n.SubjectID).
		Bool("from_cache", n.FromCache).
		Msg(summarize(n, units))
}
