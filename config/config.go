package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tablebook/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

type Settings struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	RedisHost string
	RedisPort string

	KafkaBroker string
	ReviewTopic string

	HTTPAddr      string
	PublicBaseURL string

	GuestCartTTL    time.Duration
	RatingCacheTTL  time.Duration
	AllocateRetries int
	BookingStore    string

	OrderSvcURL   string
	BookingSvcURL string
	RateSvcURL    string
}

// Load reads settings from the environment. Every key can be overridden by the
// upper-case env var of the same name (DB_HOST, GUEST_CART_TTL, ...).
func Load(defaultAddr string) Settings {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_name", "tablebook")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("kafka_broker", "localhost:9092")
	v.SetDefault("review_topic", "review-events")
	v.SetDefault("http_addr", defaultAddr)
	v.SetDefault("public_base_url", "http://localhost:8080")
	v.SetDefault("guest_cart_ttl", 72*time.Hour)
	v.SetDefault("rating_cache_ttl", 24*time.Hour)
	v.SetDefault("allocate_retries", 3)
	v.SetDefault("booking_store", "postgres")
	v.SetDefault("order_svc_url", "http://localhost:8081")
	v.SetDefault("booking_svc_url", "http://localhost:8082")
	v.SetDefault("rate_svc_url", "http://localhost:8083")

	return Settings{
		DBHost:          v.GetString("db_host"),
		DBPort:          v.GetString("db_port"),
		DBName:          v.GetString("db_name"),
		DBUser:          v.GetString("db_user"),
		DBPassword:      v.GetString("db_password"),
		RedisHost:       v.GetString("redis_host"),
		RedisPort:       v.GetString("redis_port"),
		KafkaBroker:     v.GetString("kafka_broker"),
		ReviewTopic:     v.GetString("review_topic"),
		HTTPAddr:        v.GetString("http_addr"),
		PublicBaseURL:   strings.TrimRight(v.GetString("public_base_url"), "/"),
		GuestCartTTL:    v.GetDuration("guest_cart_ttl"),
		RatingCacheTTL:  v.GetDuration("rating_cache_ttl"),
		AllocateRetries: v.GetInt("allocate_retries"),
		BookingStore:    strings.ToLower(v.GetString("booking_store")),
		OrderSvcURL:     v.GetString("order_svc_url"),
		BookingSvcURL:   v.GetString("booking_svc_url"),
		RateSvcURL:      v.GetString("rate_svc_url"),
	}
}

func (s Settings) PostgresDSN() string {
	return "host=" + s.DBHost + " port=" + s.DBPort + " user=" + s.DBUser +
		" password=" + s.DBPassword + " dbname=" + s.DBName + " sslmode=disable"
}

func (s Settings) RedisAddr() string {
	return s.RedisHost + ":" + s.RedisPort
}

func MustInitPostgres(s Settings) *sql.DB {
	db, err := sql.Open("postgres", s.PostgresDSN())
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

// MustMigrate applies the embedded schema. Every service calls it on startup;
// golang-migrate serialises concurrent runs with an advisory lock.
func MustMigrate(db *sql.DB) {
	if err := Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
}

func Migrate(db *sql.DB) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "tablebook_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func MustInitRedis(s Settings) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: s.RedisAddr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(s Settings, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{s.KafkaBroker},
		Topic:   s.ReviewTopic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(s Settings) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(s.KafkaBroker),
		Topic:    s.ReviewTopic,
		Balancer: &kafka.Hash{},
	}
}
