package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	StockPolicyWarn  = "warn"
	StockPolicyBlock = "block"
)

type Config struct {
	HTTPAddr string
	Storage  string

	StockPolicy             string
	ExcludeCancelledRevenue bool
	ReorderLookaheadDays    int
	ReorderHistoryDays      int
	LowStockDays            int

	CatalogCacheTTL time.Duration
	PublicBaseURL   string
	Timezone        string

	OrderSvcURL    string
	DisplaySvcURL  string
	ResyncInterval time.Duration
	FrontendDir    string
}

func Load() Config {
	return Config{
		HTTPAddr: ListenAddr(":8081"),
		Storage:  strings.ToLower(getEnv("STORAGE", StoragePostgres)),

		StockPolicy:             strings.ToLower(getEnv("STOCK_POLICY", StockPolicyWarn)),
		ExcludeCancelledRevenue: getEnvBool("EXCLUDE_CANCELLED_REVENUE", false),
		ReorderLookaheadDays:    getEnvInt("REORDER_LOOKAHEAD_DAYS", 3),
		ReorderHistoryDays:      getEnvInt("REORDER_HISTORY_DAYS", 7),
		LowStockDays:            getEnvInt("LOW_STOCK_DAYS", 3),

		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 10*time.Minute),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		Timezone:        getEnv("TIMEZONE", "Local"),

		OrderSvcURL:    getEnv("ORDER_SVC_URL", "http://localhost:8081"),
		DisplaySvcURL:  getEnv("DISPLAY_SVC_URL", "http://localhost:8082"),
		ResyncInterval: getEnvDuration("RESYNC_INTERVAL", 5*time.Second),
		FrontendDir:    getEnv("FRONTEND_DIR", "./frontend"),
	}
}

// Validate rejects settings that would otherwise be silently misread.
func (c Config) Validate() error {
	switch c.StockPolicy {
	case StockPolicyWarn, StockPolicyBlock:
	default:
		return fmt.Errorf("invalid STOCK_POLICY %q: want %q or %q", c.StockPolicy, StockPolicyWarn, StockPolicyBlock)
	}
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("invalid STORAGE %q: want %q or %q", c.Storage, StoragePostgres, StorageMemory)
	}
	return nil
}

// ListenAddr returns HTTP_ADDR, or fallback when it is unset. Services that
// share one environment use it to pick distinct default ports.
func ListenAddr(fallback string) string {
	return getEnv("HTTP_ADDR", fallback)
}

// Location resolves the configured business timezone. Orders and stock
// entries are bucketed by calendar day in this zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("unknown TIMEZONE %q, falling back to local: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

func MustInitPostgres() *sql.DB {
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "hotel")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := os.Getenv("DB_PASSWORD")

	connStr := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser +
		" password=" + dbPassword + " dbname=" + dbName + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

// KafkaEnabled reports whether a broker is configured. Without one the
// services fall back to the in-process hub.
func KafkaEnabled() bool {
	return os.Getenv("KAFKA_BROKER") != ""
}

func NewKafkaReader(topics []string, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{os.Getenv("KAFKA_BROKER")},
		GroupTopics: topics,
		GroupID:     groupID,
	})
}

// NewKafkaWriter returns a writer without a fixed topic; each message
// carries its own. Hash balancing keeps one order's events on one partition.
func NewKafkaWriter() *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		log.Printf("invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
