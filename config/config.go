package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Storage   StorageConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Elastic   ElasticsearchConfig
	Cache     CacheConfig
	Movement  MovementConfig
	Publisher PublisherConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	AppEnv          string
	HTTPPort        string
	GRPCPort        string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type StorageConfig struct {
	// Driver is "postgres" or "memory".
	Driver string
	// CacheDriver is "redis" or "memory".
	CacheDriver string
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	AutoMigrate     bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	DedupTTL time.Duration
}

type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	Topic          string
	GroupID        string
	InventoryTopic string
}

type ElasticsearchConfig struct {
	Enabled    bool
	Addresses  []string
	Username   string
	Password   string
	AuditIndex string
}

type CacheConfig struct {
	CatalogTTL       time.Duration
	CategoriesTTL    time.Duration
	InventoryTTL     time.Duration
	LowStockTTL      time.Duration
	PopulateWorkers  int
	OperationTimeout time.Duration
	BreakerTimeout   time.Duration
	BreakerFailures  int
}

type MovementConfig struct {
	MaxAttempts              int
	RetryBackoff             time.Duration
	LowStockThreshold        int64
	CompensationMaxAttempts  int
	CompensationRetryBackoff time.Duration
}

type PublisherConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	DrainTimeout   time.Duration
}

type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

func LoadEnv() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			AppEnv:          getEnv("APP_ENV", "dev"),
			HTTPPort:        getEnv("HTTP_PORT", ":8080"),
			GRPCPort:        getEnv("GRPC_PORT", ":8082"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", "postgres"),
			CacheDriver: getEnv("CACHE_DRIVER", "redis"),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5433"),
			User:            getEnv("POSTGRES_USER", "omnipos"),
			Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
			DBName:          getEnv("POSTGRES_DB", "omnipos_inventory"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
			AutoMigrate:     getEnvBool("POSTGRES_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			DedupTTL: getEnvDuration("REDIS_DEDUP_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Enabled:        getEnvBool("KAFKA_ENABLED", true),
			Brokers:        getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:          getEnv("KAFKA_TOPIC_ORDERS", "orders.events"),
			GroupID:        getEnv("KAFKA_GROUP_INVENTORY", "inventory"),
			InventoryTopic: getEnv("KAFKA_TOPIC_INVENTORY", "inventory.events"),
		},
		Elastic: ElasticsearchConfig{
			Enabled:    getEnvBool("ELASTICSEARCH_ENABLED", false),
			Addresses:  getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			AuditIndex: getEnv("ELASTICSEARCH_AUDIT_INDEX", "inventory-transactions"),
		},
		Cache: CacheConfig{
			CatalogTTL:       getEnvDuration("CACHE_TTL_CATALOG", 60*time.Minute),
			CategoriesTTL:    getEnvDuration("CACHE_TTL_CATEGORIES", 30*time.Minute),
			InventoryTTL:     getEnvDuration("CACHE_TTL_INVENTORY", 5*time.Minute),
			LowStockTTL:      getEnvDuration("CACHE_TTL_LOW_STOCK", 2*time.Minute),
			PopulateWorkers:  getEnvInt("CACHE_POPULATE_WORKERS", 16),
			OperationTimeout: getEnvDuration("CACHE_OPERATION_TIMEOUT", 200*time.Millisecond),
			BreakerTimeout:   getEnvDuration("CACHE_BREAKER_TIMEOUT", 30*time.Second),
			BreakerFailures:  getEnvInt("CACHE_BREAKER_FAILURES", 5),
		},
		Movement: MovementConfig{
			MaxAttempts:              getEnvInt("MOVEMENT_MAX_ATTEMPTS", 3),
			RetryBackoff:             getEnvDuration("MOVEMENT_RETRY_BACKOFF", 20*time.Millisecond),
			LowStockThreshold:        int64(getEnvInt("LOW_STOCK_THRESHOLD", 10)),
			CompensationMaxAttempts:  getEnvInt("COMPENSATION_MAX_ATTEMPTS", 5),
			CompensationRetryBackoff: getEnvDuration("COMPENSATION_RETRY_BACKOFF", 50*time.Millisecond),
		},
		Publisher: PublisherConfig{
			MaxRetries:     getEnvInt("PUBLISHER_MAX_RETRIES", 5),
			InitialBackoff: getEnvDuration("PUBLISHER_INITIAL_BACKOFF", 100*time.Millisecond),
			MaxBackoff:     getEnvDuration("PUBLISHER_MAX_BACKOFF", 5*time.Second),
			DrainTimeout:   getEnvDuration("PUBLISHER_DRAIN_TIMEOUT", 10*time.Second),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "omnipos-inventory-service"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.AppEnv == "dev"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
