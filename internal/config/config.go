package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Host string
	Port int
}

func (s ServerConfig) Addr() string {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MySQLConfig database settings.
type MySQLConfig struct {
	DSN string
}

// RedisConfig optional catalog cache. Empty Addr disables it.
type RedisConfig struct {
	Addr     string
	PoolSize int
	// CacheTTLSeconds bounds staleness of cached catalog entries.
	CacheTTLSeconds int
}

// RabbitMQConfig optional order-placed event publishing. Empty URL disables it.
type RabbitMQConfig struct {
	URL   string
	Queue string
}

// RateLimitConfig token bucket in front of the webhook.
type RateLimitConfig struct {
	Capacity   int64
	RefillRate int64
}

// Config application configuration.
type Config struct {
	Server    ServerConfig
	MySQL     MySQLConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	RateLimit RateLimitConfig
}

// DefaultConfig returns settings that run against a local MySQL with no
// optional infrastructure.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		MySQL: MySQLConfig{
			DSN: "root:theo@tcp(127.0.0.1:3306)/theo_eat?charset=utf8mb4&parseTime=True&loc=Local",
		},
		Redis: RedisConfig{
			Addr:            "",
			PoolSize:        10,
			CacheTTLSeconds: 3600,
		},
		RabbitMQ: RabbitMQConfig{
			URL:   "",
			Queue: "orders.placed",
		},
		RateLimit: RateLimitConfig{
			Capacity:   100,
			RefillRate: 50,
		},
	}
}

// Load reads config.yaml from path (if present) over the defaults, with
// THEOEATS_* environment variables taking precedence over both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvPrefix("THEOEATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("mysql.dsn", cfg.MySQL.DSN)
	v.SetDefault("redis.addr", cfg.Redis.Addr)
	v.SetDefault("redis.pool_size", cfg.Redis.PoolSize)
	v.SetDefault("redis.cache_ttl_seconds", cfg.Redis.CacheTTLSeconds)
	v.SetDefault("rabbitmq.url", cfg.RabbitMQ.URL)
	v.SetDefault("rabbitmq.queue", cfg.RabbitMQ.Queue)
	v.SetDefault("rate_limit.capacity", cfg.RateLimit.Capacity)
	v.SetDefault("rate_limit.refill_rate", cfg.RateLimit.RefillRate)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.Server.Host = v.GetString("server.host")
	cfg.Server.Port = v.GetInt("server.port")
	cfg.MySQL.DSN = v.GetString("mysql.dsn")
	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.PoolSize = v.GetInt("redis.pool_size")
	cfg.Redis.CacheTTLSeconds = v.GetInt("redis.cache_ttl_seconds")
	cfg.RabbitMQ.URL = v.GetString("rabbitmq.url")
	cfg.RabbitMQ.Queue = v.GetString("rabbitmq.queue")
	cfg.RateLimit.Capacity = v.GetInt64("rate_limit.capacity")
	cfg.RateLimit.RefillRate = v.GetInt64("rate_limit.refill_rate")

	return cfg, nil
}
