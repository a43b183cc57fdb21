package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит все настройки Catalog Service
// Значения читаются из окружения, .env файл подхватывается если существует
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig `envconfig:"DB"`
	Storage  StorageConfig  `envconfig:"SUPABASE"`
	Breaker  BreakerConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Cascade  CascadeConfig

	// UpstreamTimeout - дедлайн на каждый вызов БД и blob storage
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s"`

	// EmptyCategoryAsNotFound - пустой список товаров категории отдаётся как 404
	EmptyCategoryAsNotFound bool `envconfig:"EMPTY_CATEGORY_AS_NOT_FOUND" default:"true"`

	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogstashAddr string `envconfig:"LOGSTASH_ADDR"`
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host            string        `split_words:"true" default:"0.0.0.0"`
	Port            string        `split_words:"true" default:"4000"`
	ReadTimeout     time.Duration `split_words:"true" default:"30s"` // multipart с 11 изображениями
	WriteTimeout    time.Duration `split_words:"true" default:"60s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"30s"`
}

// DatabaseConfig - подключение к PostgreSQL (таблицы category, product, wishlist, review)
type DatabaseConfig struct {
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"5432"`
	User     string `split_words:"true" default:"postgres"`
	Password string `split_words:"true" default:"postgres"`
	Name     string `split_words:"true" default:"bazaar"`
	SSLMode  string `split_words:"true" default:"disable"`
}

// StorageConfig - Supabase Storage для изображений
type StorageConfig struct {
	URL    string `split_words:"true" default:"http://localhost:54321"`
	Key    string `split_words:"true"`
	Bucket string `split_words:"true" default:"images"`
}

// BreakerConfig - circuit breaker вокруг загрузок в storage
type BreakerConfig struct {
	MaxRequests  uint32        `split_words:"true" default:"3"`
	Interval     time.Duration `split_words:"true" default:"30s"`
	Timeout      time.Duration `split_words:"true" default:"15s"`
	MinRequests  uint32        `split_words:"true" default:"5"`
	FailureRatio float64       `split_words:"true" default:"0.6"`
}

// RedisConfig - Redis хранит незавершённые каскадные удаления
type RedisConfig struct {
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"6379"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
}

// KafkaConfig - события каталога (CATEGORY_CREATED, PRODUCT_DELETED, ...)
type KafkaConfig struct {
	Enabled bool     `split_words:"true" default:"false"`
	Brokers []string `split_words:"true" default:"localhost:9092"`
	Topic   string   `split_words:"true" default:"catalog_events"`
}

// CascadeConfig - forward recovery для удаления категорий
type CascadeConfig struct {
	LedgerEnabled bool   `split_words:"true" default:"true"`
	SweepSchedule string `split_words:"true" default:"@every 1m"`
}

// Load загружает конфигурацию из .env (если есть) и переменных окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.Storage.URL = strings.TrimRight(cfg.Storage.URL, "/")

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Storage.URL == "" {
		return errors.New("SUPABASE_URL is required")
	}
	if c.Storage.Bucket == "" {
		return errors.New("SUPABASE_BUCKET is required")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("invalid UPSTREAM_TIMEOUT value: %s", c.UpstreamTimeout)
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("invalid BREAKER_FAILURE_RATIO value: %v", c.Breaker.FailureRatio)
	}
	return nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// PublicBase - префикс публичных URL объектов: <url>/storage/v1/object/public
func (c *StorageConfig) PublicBase() string {
	return strings.TrimRight(c.URL, "/") + "/storage/v1/object/public"
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}
