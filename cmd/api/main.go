package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/restaurant-backend/api/routes"
	"github.com/angelmondragon/restaurant-backend/internal/cart"
	"github.com/angelmondragon/restaurant-backend/internal/checkout"
	"github.com/angelmondragon/restaurant-backend/internal/cron"
	"github.com/angelmondragon/restaurant-backend/internal/menu"
	"github.com/angelmondragon/restaurant-backend/internal/reservations"
	"github.com/angelmondragon/restaurant-backend/internal/slots"
	"github.com/angelmondragon/restaurant-backend/pkg/config"
	"github.com/angelmondragon/restaurant-backend/pkg/db"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
	"github.com/angelmondragon/restaurant-backend/pkg/metrics"
	"github.com/angelmondragon/restaurant-backend/pkg/migrate"
	"github.com/angelmondragon/restaurant-backend/pkg/payment"
	"github.com/angelmondragon/restaurant-backend/pkg/redis"
	"github.com/angelmondragon/restaurant-backend/pkg/storage"
	"github.com/angelmondragon/restaurant-backend/pkg/storage/memorydriver"
	"github.com/angelmondragon/restaurant-backend/pkg/storage/redisdriver"
	"github.com/angelmondragon/restaurant-backend/pkg/storage/sqldriver"
)

const shutdownTimeout = 10 * time.Second

type kvBackend interface {
	storage.KV
	storage.Pinger
}

// resources collects the connections opened at startup so they can be closed together.
type resources struct {
	db    *db.Client
	redis *redis.Client
}

func (r *resources) Close() error {
	var err error
	if r.redis != nil {
		err = multierr.Append(err, r.redis.Close())
	}
	if r.db != nil {
		err = multierr.Append(err, r.db.Close())
	}
	return err
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
		Fields:      map[string]string{"env": cfg.App.Env},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api stopped with error", err)
		stop()
		os.Exit(1)
	}
}

// run wires the services and serves until ctx is cancelled. Opened connections
// are closed on every return path.
func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	res := &resources{}
	defer func() {
		err = multierr.Append(err, res.Close())
	}()

	kv, err := openStorage(ctx, cfg, logg, res)
	if err != nil {
		return fmt.Errorf("bootstrap cart storage: %w", err)
	}

	// Redis also backs checkout idempotency whenever it is configured.
	if res.redis == nil && cfg.Redis.Enabled() {
		if res.redis, err = redis.New(ctx, cfg.Redis, logg); err != nil {
			return fmt.Errorf("bootstrap redis: %w", err)
		}
	}
	var idempotency redis.IdempotencyStore
	if res.redis != nil {
		idempotency = res.redis
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	loader, err := buildSlotLoader(cfg.Slots, registry, logg)
	if err != nil {
		return fmt.Errorf("build slot loader: %w", err)
	}
	cartService, err := cart.NewService(kv, cfg.Storage.CartKey, logg)
	if err != nil {
		return fmt.Errorf("create cart service: %w", err)
	}
	processor := payment.NewStubProcessor(cfg.Checkout.PaymentDelay, cfg.Checkout.PaymentDecline)
	checkoutService, err := checkout.NewService(cartService, processor, checkoutMetrics, logg)
	if err != nil {
		return fmt.Errorf("create checkout service: %w", err)
	}
	reservationService, err := reservations.NewService(cfg.Reservations, loader, checkoutMetrics, logg)
	if err != nil {
		return fmt.Errorf("create reservation service: %w", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"addr":    addr,
		"storage": cfg.Storage.Driver,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			kv,
			idempotency,
			registry,
			metrics.NewHTTPMetrics(registry),
			menu.Sample(),
			cartService,
			checkoutService,
			loader,
			reservationService,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// only the sql driver needs pruning; redis expires carts by TTL
	var scheduler *cron.Service
	if sqlStore, ok := kv.(*sqldriver.Store); ok {
		if scheduler, err = buildCartExpiry(cfg.Storage, sqlStore, res.redis, registry, logg); err != nil {
			return fmt.Errorf("build cart expiry scheduler: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	if scheduler != nil {
		g.Go(func() error {
			if err := scheduler.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("cart expiry scheduler: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStorage selects the cart KV driver named by the configuration.
func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger, res *resources) (kvBackend, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		res.redis = client
		return redisdriver.New(client, cfg.Storage.CartRetention)

	case config.StorageDriverSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		res.db = client
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			return nil, fmt.Errorf("running dev migrations: %w", err)
		}
		return sqldriver.New(client.DB())
	}
	return memorydriver.New(), nil
}

func buildSlotLoader(cfg config.SlotsConfig, reg prometheus.Registerer, logg *logger.Logger) (*slots.Loader, error) {
	endpoint, err := cfg.Endpoint()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	fetcher, err := slots.NewFetcher(
		endpoint,
		slots.NewCache(cfg.CacheTTL),
		slots.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		slots.WithMetrics(metrics.NewSlotMetrics(reg)),
		slots.WithLogger(logg),
	)
	if err != nil {
		return nil, err
	}
	return slots.NewLoader(fetcher, slots.NewNormalizer(loc))
}

// buildCartExpiry schedules pruning of stale SQL carts. With Redis available the
// cycle lock is shared so only one instance prunes at a time.
func buildCartExpiry(cfg config.StorageConfig, store *sqldriver.Store, redisClient *redis.Client, reg prometheus.Registerer, logg *logger.Logger) (*cron.Service, error) {
	job, err := cron.NewCartExpiryJob(cron.CartExpiryJobParams{
		Logger:    logg,
		Store:     store,
		KeyPrefix: cfg.CartKey,
		Retention: cfg.CartRetention,
	})
	if err != nil {
		return nil, err
	}
	var lock cron.Lock = &cron.LocalLock{}
	if redisClient != nil {
		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey(cron.CartExpiryJobName), cfg.CleanupInterval)
		if err != nil {
			return nil, err
		}
	}
	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(reg),
		Interval: cfg.CleanupInterval,
	})
}
