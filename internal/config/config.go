package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "RENTAL"

// Config holds all configuration for the rental service.
type Config struct {
	App   AppConfig
	Store StoreConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	Kafka KafkaConfig
}

// Load reads configuration from the environment, seeding it from a .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env  string `envconfig:"RENTAL_APP_ENV" default:"development"`
	Port string `envconfig:"RENTAL_APP_PORT" default:"8080"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "development")
}

// StoreConfig selects the persistence backend. The memory store keeps all
// state in process and snapshots it to a JSON file; the postgres store
// persists through GORM.
type StoreConfig struct {
	Mode         string `envconfig:"RENTAL_STORE_MODE" default:"memory"`
	SnapshotPath string `envconfig:"RENTAL_STORE_SNAPSHOT_PATH" default:"data/store.json"`
}

const (
	StoreModeMemory   = "memory"
	StoreModePostgres = "postgres"
)

func (s StoreConfig) validate() error {
	switch s.Mode {
	case StoreModeMemory, StoreModePostgres:
		return nil
	default:
		return fmt.Errorf("unknown store mode %q", s.Mode)
	}
}

type DBConfig struct {
	Host     string `envconfig:"RENTAL_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"RENTAL_DB_PORT" default:"5432"`
	User     string `envconfig:"RENTAL_DB_USER" default:"postgres"`
	Password string `envconfig:"RENTAL_DB_PASSWORD"`
	Name     string `envconfig:"RENTAL_DB_NAME" default:"rental"`
	SSLMode  string `envconfig:"RENTAL_DB_SSLMODE" default:"disable"`
}

// DSN builds the postgres connection URL.
func (db DBConfig) DSN() string {
	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     db.Name,
		RawQuery: "sslmode=" + db.SSLMode,
	}
	return u.String()
}

type RedisConfig struct {
	Enabled bool   `envconfig:"RENTAL_REDIS_ENABLED" default:"false"`
	URL     string `envconfig:"RENTAL_REDIS_URL" default:"redis://localhost:6379/0"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"RENTAL_JWT_SECRET" default:"dev-secret-change-me"`
	TokenTTL time.Duration `envconfig:"RENTAL_JWT_TOKEN_TTL" default:"24h"`
}

type KafkaConfig struct {
	Enabled     bool     `envconfig:"RENTAL_KAFKA_ENABLED" default:"false"`
	Brokers     []string `envconfig:"RENTAL_KAFKA_BROKERS" default:"localhost:9092"`
	GroupPrefix string   `envconfig:"RENTAL_KAFKA_GROUP_PREFIX" default:"rental-"`
}
