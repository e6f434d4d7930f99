// Package config loads service settings from defaults, an optional config
// file and the environment.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP      HTTPConfig
	Log       LogConfig
	Store     StoreConfig
	SheetDB   SheetDBConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Redis     RedisConfig
	Pebble    PebbleConfig
	JWT       JWTConfig
	Sync      SyncConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
}

type HTTPConfig struct {
	Addr string
}

type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig selects the tabular backend: sheetdb, postgres or memory.
type StoreConfig struct {
	Backend string
}

type SheetDBConfig struct {
	UsersURL string
	PartsURL string
	Token    string
	RPS      float64
	Timeout  time.Duration
}

type DatabaseConfig struct {
	URL string
}

// SessionConfig selects the session backend: memory, redis or pebble.
type SessionConfig struct {
	Backend string
	TTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PebbleConfig struct {
	Dir string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type SyncConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.backend", "sheetdb")
	v.SetDefault("sheetdb.users_url", "https://sheetdb.io/api/v1/2h9lh0lt9x8j7")
	v.SetDefault("sheetdb.parts_url", "https://sheetdb.io/api/v1/b32howf8952yl")
	v.SetDefault("sheetdb.token", "")
	v.SetDefault("sheetdb.rps", 2.0)
	v.SetDefault("sheetdb.timeout", 15*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("session.backend", "redis")
	v.SetDefault("session.ttl", time.Duration(0))
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("pebble.dir", "data/sessions")
	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.ttl", 7*24*time.Hour)
	v.SetDefault("sync.max_attempts", 3)
	v.SetDefault("sync.initial_backoff", 500*time.Millisecond)
	v.SetDefault("sync.max_backoff", 5*time.Second)
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "stock.parts.synced")
	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 3)
}

// Load reads .env (if present), config.yaml (if present) and the environment.
// Keys map to env vars by upper-casing and replacing dots, e.g. SHEETDB_PARTS_URL.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTPConfig{Addr: v.GetString("http.addr")},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Store: StoreConfig{Backend: strings.ToLower(v.GetString("store.backend"))},
		SheetDB: SheetDBConfig{
			UsersURL: v.GetString("sheetdb.users_url"),
			PartsURL: v.GetString("sheetdb.parts_url"),
			Token:    v.GetString("sheetdb.token"),
			RPS:      v.GetFloat64("sheetdb.rps"),
			Timeout:  v.GetDuration("sheetdb.timeout"),
		},
		Database: DatabaseConfig{URL: v.GetString("database.url")},
		Session: SessionConfig{
			Backend: strings.ToLower(v.GetString("session.backend")),
			TTL:     v.GetDuration("session.ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Pebble: PebbleConfig{Dir: v.GetString("pebble.dir")},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
		Sync: SyncConfig{
			MaxAttempts:    v.GetInt("sync.max_attempts"),
			InitialBackoff: v.GetDuration("sync.initial_backoff"),
			MaxBackoff:     v.GetDuration("sync.max_backoff"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("kafka.brokers")),
			Topic:   v.GetString("kafka.topic"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("ratelimit.rps"),
			Burst: v.GetInt("ratelimit.burst"),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
