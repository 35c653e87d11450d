package config

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

const (
	OrderEventsTopic = "order-events"
	AggGroupID       = "agg-svc"
)

// Load reads an optional .env file and binds configuration to the environment.
func Load() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env", slog.String("error", err.Error()))
	}

	viper.AutomaticEnv()

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "tablebite")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("KAFKA_BROKER", "localhost:9092")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_TTL", 30*24*time.Hour)
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("TENANT_CACHE_TTL", 10*time.Minute)
	viper.SetDefault("IDEMPOTENCY_TTL", 24*time.Hour)
	viper.SetDefault("ANALYTICS_CACHE_TTL", time.Minute)
	viper.SetDefault("COUNTER_TTL", 7*24*time.Hour)
	viper.SetDefault("RESTAURANT_SVC_URL", "http://localhost:8081")
	viper.SetDefault("ANALYTICS_SVC_URL", "http://localhost:8082")
	viper.SetDefault("LOG_LEVEL", "info")
}

func String(key string) string {
	return viper.GetString(key)
}

func Duration(key string) time.Duration {
	return viper.GetDuration(key)
}

// HTTPAddr returns HTTP_ADDR or def when unset.
func HTTPAddr(def string) string {
	if addr := viper.GetString("HTTP_ADDR"); addr != "" {
		return addr
	}
	return def
}

// MustJWTSecret exits when JWT_SECRET is empty.
func MustJWTSecret() string {
	secret := viper.GetString("JWT_SECRET")
	if secret == "" {
		fatal("JWT_SECRET is not set", nil)
	}
	return secret
}

// SetupLogger installs a JSON slog logger tagged with the service name as the default logger.
func SetupLogger(service string) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("LOG_LEVEL"))); err != nil {
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("service", service))
	slog.SetDefault(logger)
	return logger
}

func PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		viper.GetString("DB_HOST"),
		viper.GetString("DB_PORT"),
		viper.GetString("DB_USER"),
		viper.GetString("DB_PASSWORD"),
		viper.GetString("DB_NAME"),
		viper.GetString("DB_SSLMODE"),
	)
}

func MustInitPostgres() *sql.DB {
	db, err := sql.Open("postgres", PostgresDSN())
	if err != nil {
		fatal("failed to connect to database", err)
	}

	if err = db.Ping(); err != nil {
		fatal("failed to ping database", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func RedisAddr() string {
	return viper.GetString("REDIS_HOST") + ":" + viper.GetString("REDIS_PORT")
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     RedisAddr(),
		Password: viper.GetString("REDIS_PASSWORD"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		fatal("failed to connect to redis", err)
	}

	return client
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{viper.GetString("KAFKA_BROKER")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(viper.GetString("KAFKA_BROKER")),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func fatal(msg string, err error) {
	if err != nil {
		slog.Error(msg, slog.String("error", err.Error()))
	} else {
		slog.Error(msg)
	}
	os.Exit(1)
}
