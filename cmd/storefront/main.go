package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	cartapp "github.com/dwikikusuma/flowmazon/internal/cart/app"
	carthttp "github.com/dwikikusuma/flowmazon/internal/cart/http"
	cartadapter "github.com/dwikikusuma/flowmazon/internal/cart/infra/adapter"
	"github.com/dwikikusuma/flowmazon/internal/cart/infra/notify"
	cartpg "github.com/dwikikusuma/flowmazon/internal/cart/infra/postgres"
	"github.com/dwikikusuma/flowmazon/internal/cart/infra/redisstore"

	catalogapp "github.com/dwikikusuma/flowmazon/internal/catalog/app"
	cataloghttp "github.com/dwikikusuma/flowmazon/internal/catalog/http"
	catalogpg "github.com/dwikikusuma/flowmazon/internal/catalog/infra/postgres"

	"github.com/dwikikusuma/flowmazon/pkg/config"
	"github.com/dwikikusuma/flowmazon/pkg/httpserver"
	"github.com/dwikikusuma/flowmazon/pkg/logger"
	"github.com/dwikikusuma/flowmazon/pkg/postgres"
	"github.com/dwikikusuma/flowmazon/pkg/redisclient"
	"github.com/dwikikusuma/flowmazon/pkg/shutdown"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "storefront", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := shutdown.WithSignals(context.Background(), log)
	defer cancel()

	pool := mustPool(ctx, log, cfg)
	defer pool.Close()
	db := mustGorm(log, cfg, pool)

	if cfg.AutoMigrate {
		mustMigrate(ctx, log, db, cfg)
	}

	// Redis backs the cart store and/or the refresh signal when either asks for it.
	var rdb *redis.Client
	if cfg.CartStore == "redis" || cfg.UsesSignal("redis") {
		rdb = mustRedis(ctx, log, cfg)
		defer rdb.Close()
	}

	// Catalog
	catalogRepo := catalogpg.NewProductRepo(db)
	catalogSvc := catalogapp.NewService(catalogRepo)

	// Cart
	var cartStore cartapp.CartStore
	switch cfg.CartStore {
	case "redis":
		cartStore = redisstore.NewCartRepo(rdb)
	default:
		cartStore = cartpg.NewCartRepo(db)
	}
	signal, closeSignal := newSignal(log, cfg, rdb)
	defer closeSignal()

	catalogReader := cartadapter.NewCatalogServiceReader(catalogSvc, cfg.CatalogFanout)
	cartSvc := cartapp.NewService(cartStore, catalogReader,
		cartapp.WithRefreshSignal(signal),
		cartapp.WithLogger(log.With("component", "cart")),
	)

	engine := httpserver.NewEngine(log, httpserver.Options{
		AllowOrigins: cfg.AllowOrigins(),
		AllowHeaders: []string{cfg.AuthUserHeader},
		Ready:        pool.Ping,
	})
	cataloghttp.NewHandler(catalogSvc).Register(engine)
	carthttp.NewHandler(cartSvc, carthttp.IdentityConfig{
		UserHeader:   cfg.AuthUserHeader,
		CookieName:   cfg.CartCookieName,
		CookieSecure: cfg.CartCookieSecure,
	}, cfg.MaxQuantity).Register(engine)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := httpserver.New(addr, engine)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting",
			slog.String("addr", addr),
			slog.String("cart_store", cfg.CartStore),
			slog.String("signal_backend", cfg.SignalBackend),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

func mustPool(ctx context.Context, log *slog.Logger, cfg config.Config) *pgxpool.Pool {
	pool, err := postgres.OpenPool(ctx, postgres.Config{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Pass:     cfg.PostgresPassword,
		DB:       cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSLMode,
		MaxConns: cfg.PostgresMaxConns,
	})
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}
	return pool
}

func mustGorm(log *slog.Logger, cfg config.Config, pool *pgxpool.Pool) *gorm.DB {
	level := gormlogger.Warn
	if logger.ParseLevel(cfg.LogLevel) <= slog.LevelDebug {
		level = gormlogger.Info
	}
	db, err := postgres.Gorm(pool, level)
	if err != nil {
		log.Error("gorm open failed", slog.Any("err", err))
		os.Exit(1)
	}
	return db
}

func mustMigrate(ctx context.Context, log *slog.Logger, db *gorm.DB, cfg config.Config) {
	if err := catalogpg.Migrate(ctx, db); err != nil {
		log.Error("catalog migrate failed", slog.Any("err", err))
		os.Exit(1)
	}
	if cfg.CartStore != "postgres" {
		return
	}
	if err := cartpg.Migrate(ctx, db); err != nil {
		log.Error("cart migrate failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func mustRedis(ctx context.Context, log *slog.Logger, cfg config.Config) *redis.Client {
	rdb, err := redisclient.New(ctx, cfg.RedisAddr,
		redisclient.WithPassword(cfg.RedisPassword),
		redisclient.WithDB(cfg.RedisDB),
	)
	if err != nil {
		log.Error("redis open failed", slog.Any("err", err), slog.String("addr", cfg.RedisAddr))
		os.Exit(1)
	}
	return rdb
}

// newSignal builds the refresh signal from every configured backend. The
// returned func releases whatever the backends hold open.
func newSignal(log *slog.Logger, cfg config.Config, rdb *redis.Client) (cartapp.RefreshSignal, func()) {
	var (
		signals notify.Multi
		closers []func()
	)
	for _, backend := range cfg.SignalBackends() {
		switch backend {
		case "redis":
			signals = append(signals, notify.NewRedisPublisher(rdb, cfg.SignalTopic))
		case "kafka":
			w := notify.NewKafkaWriter(cfg.Brokers(), cfg.SignalTopic)
			signals = append(signals, notify.NewKafkaPublisher(w))
			closers = append(closers, func() {
				if err := w.Close(); err != nil {
					log.Warn("kafka writer close failed", slog.Any("err", err))
				}
			})
		}
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	switch len(signals) {
	case 0:
		return nil, closeAll
	case 1:
		return signals[0], closeAll
	default:
		return signals, closeAll
	}
}
