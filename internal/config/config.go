package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP listener settings.
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

// MySQLConfig holds the database settings.
type MySQLConfig struct {
	DSN string
}

// RedisConfig holds the Redis settings. An empty Addr disables Redis
// and the API falls back to the in-process rate limiter.
type RedisConfig struct {
	Addr string
}

// RabbitMQConfig holds the broker settings. An empty URL disables
// low-stock alert publishing.
type RabbitMQConfig struct {
	URL string
}

// CatalogConfig holds catalog listing and stock-threshold settings.
type CatalogConfig struct {
	LowStockThreshold int64
	DefaultPageSize   int
	MaxPageSize       int
}

// RateLimitConfig holds the API rate limiter settings.
type RateLimitConfig struct {
	Capacity        int64
	RefillPerSecond int64
	WindowSeconds   int
}

// Config is the application configuration.
type Config struct {
	Server    ServerConfig
	MySQL     MySQLConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
}

// DefaultConfig returns a configuration that works against a local stack.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		MySQL: MySQLConfig{
			DSN: "storefront:storefront123@tcp(127.0.0.1:3306)/storefront?charset=utf8mb4&parseTime=True&loc=Local",
		},
		Catalog: CatalogConfig{
			LowStockThreshold: 10,
			DefaultPageSize:   50,
			MaxPageSize:       200,
		},
		RateLimit: RateLimitConfig{
			Capacity:        100,
			RefillPerSecond: 50,
			WindowSeconds:   1,
		},
	}
}

// Load layers a config file (path/config.yaml, optional) and environment
// overrides (STOREFRONT_SERVER_PORT, STOREFRONT_CATALOG_LOWSTOCKTHRESHOLD,
// ...) on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("mysql.dsn", cfg.MySQL.DSN)
	v.SetDefault("redis.addr", cfg.Redis.Addr)
	v.SetDefault("rabbitmq.url", cfg.RabbitMQ.URL)
	v.SetDefault("catalog.lowstockthreshold", cfg.Catalog.LowStockThreshold)
	v.SetDefault("catalog.defaultpagesize", cfg.Catalog.DefaultPageSize)
	v.SetDefault("catalog.maxpagesize", cfg.Catalog.MaxPageSize)
	v.SetDefault("ratelimit.capacity", cfg.RateLimit.Capacity)
	v.SetDefault("ratelimit.refillpersecond", cfg.RateLimit.RefillPerSecond)
	v.SetDefault("ratelimit.windowseconds", cfg.RateLimit.WindowSeconds)

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine, defaults + env carry the run
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
