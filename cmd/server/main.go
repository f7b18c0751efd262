package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/internal/cache"
	"github.com/fekuna/omnipos-inventory-service/internal/catalog"
	"github.com/fekuna/omnipos-inventory-service/internal/database"
	"github.com/fekuna/omnipos-inventory-service/internal/event"
	"github.com/fekuna/omnipos-inventory-service/internal/health"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/fekuna/omnipos-inventory-service/internal/metrics"
	"github.com/fekuna/omnipos-inventory-service/internal/middleware"
	"github.com/fekuna/omnipos-inventory-service/internal/observability"
	"github.com/fekuna/omnipos-inventory-service/internal/search"

	catH "github.com/fekuna/omnipos-inventory-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-inventory-service/internal/category/usecase"

	"github.com/fekuna/omnipos-inventory-service/internal/category"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	invH "github.com/fekuna/omnipos-inventory-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/usecase"

	"github.com/fekuna/omnipos-inventory-service/internal/product"
	prodH "github.com/fekuna/omnipos-inventory-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-inventory-service/internal/product/usecase"

	"github.com/fekuna/omnipos-inventory-service/internal/store"
	storeH "github.com/fekuna/omnipos-inventory-service/internal/store/handler"
	storeRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/store/repository"
	storeUCPkg "github.com/fekuna/omnipos-inventory-service/internal/store/usecase"

	"github.com/fekuna/omnipos-inventory-service/internal/transaction"
	txH "github.com/fekuna/omnipos-inventory-service/internal/transaction/handler"
	txRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/transaction/repository"
	txUCPkg "github.com/fekuna/omnipos-inventory-service/internal/transaction/usecase"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type repositories struct {
	stores       store.Repository
	products     product.Repository
	categories   category.Repository
	transactions transaction.Repository
	inventory    inventory.Repository
}

func main() {
	// 1. Load Configuration
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Telemetry
	shutdownTracing, err := observability.SetupTracing(ctx, &observability.TracingConfig{
		ServiceName:  cfg.Telemetry.ServiceName,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Insecure:     true,
	})
	if err != nil {
		appLogger.Fatal("Could not set up tracing", zap.Error(err))
	}
	appMetrics := metrics.New(metrics.DefaultConfig())

	var checks []health.Check

	// 4. Initialize Repositories
	var repos repositories
	switch cfg.Storage.Driver {
	case "memory":
		repos = memoryRepositories()
		appLogger.Info("Using in-memory storage with seed catalog")
	default:
		db, err := database.NewPostgres(ctx, &database.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		defer db.Close()
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

		if cfg.Postgres.AutoMigrate {
			if err := database.RunMigrations(db); err != nil {
				appLogger.Fatal("Could not apply migrations", zap.Error(err))
			}
			appLogger.Info("Database migrations applied")
		}

		repos = postgresRepositories(db)
		checks = append(checks, health.Check{Name: "postgres", Ping: db.PingContext})
	}

	// 5. Initialize Cache and Deduplication
	var (
		cacheStore  cache.Store
		dedup       event.Deduplicator
		redisClient *redis.Client
	)
	if cfg.Storage.CacheDriver == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// The breaker keeps the service serving from the source of truth.
			appLogger.Warn("Redis not reachable at startup", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
		cacheStore = cache.NewRedisStore(redisClient)
		dedup = event.NewRedisDeduplicator(redisClient, "inventory:dedup:", cfg.Redis.DedupTTL)
		checks = append(checks, health.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	} else {
		cacheStore = cache.NewMemoryStore()
		dedup = event.NewMemoryDeduplicator()
	}

	breakerConfig := cache.DefaultBreakerConfig()
	breakerConfig.Timeout = cfg.Cache.BreakerTimeout
	breakerConfig.ConsecutiveFailures = uint32(cfg.Cache.BreakerFailures)

	cacheLayer := cache.NewLayer(cache.NewBreakerStore(cacheStore, breakerConfig, appLogger), &cache.LayerConfig{
		TTLs: cache.TTLs{
			Catalog:    cfg.Cache.CatalogTTL,
			Categories: cfg.Cache.CategoriesTTL,
			Inventory:  cfg.Cache.InventoryTTL,
			LowStock:   cfg.Cache.LowStockTTL,
		},
		PopulateWorkers:  cfg.Cache.PopulateWorkers,
		OperationTimeout: cfg.Cache.OperationTimeout,
	}, appLogger, appMetrics)

	// 6. Initialize Event Publisher
	publisher := event.NewPublisher(&event.PublisherConfig{
		MaxRetries:     cfg.Publisher.MaxRetries,
		InitialBackoff: cfg.Publisher.InitialBackoff,
		MaxBackoff:     cfg.Publisher.MaxBackoff,
		HandleTimeout:  event.DefaultPublisherConfig().HandleTimeout,
	}, appLogger, appMetrics)

	if err := publisher.Subscribe(cache.NewInvalidator(cacheLayer)); err != nil {
		appLogger.Fatal("Could not subscribe cache invalidator", zap.Error(err))
	}

	if cfg.Kafka.Enabled {
		writer := event.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.InventoryTopic)
		defer writer.Close()
		if err := publisher.Subscribe(event.NewKafkaSink(writer)); err != nil {
			appLogger.Fatal("Could not subscribe kafka sink", zap.Error(err))
		}
		appLogger.Info("Publishing inventory events to Kafka", zap.String("topic", cfg.Kafka.InventoryTopic))
	}

	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Fatal("Could not create Elasticsearch client", zap.Error(err))
		}
		indexer := search.NewAuditIndexer(esClient, cfg.Elastic.AuditIndex)
		if err := indexer.EnsureIndex(ctx); err != nil {
			appLogger.Warn("Could not ensure audit index, indexing will retry per event", zap.Error(err))
		}
		if err := publisher.Subscribe(indexer); err != nil {
			appLogger.Fatal("Could not subscribe audit indexer", zap.Error(err))
		}
		checks = append(checks, health.Check{Name: "elasticsearch", Ping: esClient.Ping})
		appLogger.Info("Indexing transactions to Elasticsearch", zap.String("index", cfg.Elastic.AuditIndex))
	}

	// Stop owns the worker lifetime so queues still drain after intake is cancelled.
	if err := publisher.Start(context.WithoutCancel(ctx)); err != nil {
		appLogger.Fatal("Could not start event publisher", zap.Error(err))
	}

	// 7. Initialize UseCases
	storeUC := storeUCPkg.NewStoreUseCase(repos.stores, cacheLayer, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(repos.products, cacheLayer, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(repos.categories, cacheLayer, appLogger)
	txUC := txUCPkg.NewTransactionUseCase(repos.transactions, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(
		repos.inventory,
		catalog.New(storeUC, prodUC),
		publisher,
		cacheLayer,
		&invUCPkg.Config{
			MaxAttempts:              cfg.Movement.MaxAttempts,
			RetryBackoff:             cfg.Movement.RetryBackoff,
			LowStockThreshold:        cfg.Movement.LowStockThreshold,
			CompensationMaxAttempts:  cfg.Movement.CompensationMaxAttempts,
			CompensationRetryBackoff: cfg.Movement.CompensationRetryBackoff,
		},
		appLogger,
		appMetrics,
	)

	// 8. Initialize Listeners
	var invListener *invListenerPkg.InventoryListener
	if cfg.Kafka.Enabled {
		reader := invListenerPkg.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
		invListener = invListenerPkg.NewInventoryListener(reader, invUC, dedup, appLogger, appMetrics)
		go invListener.Start(ctx)
		appLogger.Info("Consuming order events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 9. Health
	healthServer := grpchealth.NewServer()
	checker := health.NewChecker(healthServer, 15*time.Second, appLogger, checks...)
	go checker.Run(ctx)

	// 10. HTTP Server
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer(appLogger))
	r.Use(middleware.RequestLogger(appLogger))
	r.Use(middleware.Metrics(appMetrics))

	r.Route("/api", func(r chi.Router) {
		invH.NewInventoryHandler(invUC, appLogger).Register(r)
		txH.NewTransactionHandler(txUC, appLogger).Register(r)
		storeH.NewStoreHandler(storeUC, appLogger).Register(r)
		prodH.NewProductHandler(prodUC, appLogger).Register(r)
		catH.NewCategoryHandler(catUC, appLogger).Register(r)
	})
	r.Get("/health", checker.Handler())
	r.Method(http.MethodGet, "/metrics", appMetrics.Handler())

	httpServer := &http.Server{
		Addr:              withColon(cfg.Server.HTTPPort),
		Handler:           otelhttp.NewHandler(r, cfg.Telemetry.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 11. gRPC Server (health and reflection)
	lis, err := net.Listen("tcp", withColon(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(middleware.UnaryLogger(appLogger)),
	)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	// Stop consuming before the publisher drains so no new movements arrive.
	cancel()
	if invListener != nil {
		if err := invListener.Close(); err != nil {
			appLogger.Warn("Closing order reader", zap.Error(err))
		}
	}

	drainCtx, stopDrain := context.WithTimeout(context.Background(), cfg.Publisher.DrainTimeout)
	defer stopDrain()
	if err := publisher.Stop(drainCtx); err != nil {
		appLogger.Warn("Publisher stopped with undelivered events", zap.Error(err))
	}
	cacheLayer.Wait()

	if err := shutdownTracing(shutdownCtx); err != nil {
		appLogger.Warn("Tracing shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

func memoryRepositories() repositories {
	products := prodRepoPkg.NewMemoryRepository(catalog.SeedProducts()...)
	ledger := txRepoPkg.NewMemoryRepository()
	return repositories{
		stores:       storeRepoPkg.NewMemoryRepository(catalog.SeedStores()...),
		products:     products,
		categories:   catRepoPkg.NewMemoryRepository(products),
		transactions: ledger,
		inventory:    invRepoPkg.NewMemoryRepository(ledger),
	}
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		stores:       storeRepoPkg.NewPGRepository(db),
		products:     prodRepoPkg.NewPGRepository(db),
		categories:   catRepoPkg.NewPGRepository(db),
		transactions: txRepoPkg.NewPGRepository(db),
		inventory:    invRepoPkg.NewPGRepository(db),
	}
}

func withColon(port string) string {
	if !strings.HasPrefix(port, ":") {
		return ":" + port
	}
	return port
}
