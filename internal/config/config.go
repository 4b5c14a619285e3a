package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Metrics  MetricsConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Events   EventsConfig
	Resolver ResolverConfig
	Rewards  RewardsConfig
	Admin    AdminConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    int
	RateLimitBurst  int
}

// MetricsConfig holds the Prometheus metrics server configuration
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// StoreConfig selects the record store backend
type StoreConfig struct {
	Driver string // file, postgres, memory
	Dir    string // data directory for the file driver
}

// DatabaseConfig holds Postgres configuration for the postgres driver
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds read-path cache configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// EventsConfig holds RabbitMQ event publishing configuration
type EventsConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Vhost    string
	Exchange string
}

// ResolverConfig holds the external metadata resolver endpoint
type ResolverConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// RewardsConfig holds coin economy limits and amounts
type RewardsConfig struct {
	DailyCoinLimit    int
	DailyBonusAmount  int
	WatchRewardAmount int
	SubmissionLimit   int
	SubmissionCost    int
}

// AdminConfig identifies the operator account
type AdminConfig struct {
	Username string
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.readTimeout", "30s")
	viper.SetDefault("server.writeTimeout", "30s")
	viper.SetDefault("server.shutdownTimeout", "10s")
	viper.SetDefault("server.rateLimitRPS", 20)
	viper.SetDefault("server.rateLimitBurst", 40)

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9091)

	// Store defaults
	viper.SetDefault("store.driver", "file")
	viper.SetDefault("store.dir", "data")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "watchplatform")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxConns", 25)
	viper.SetDefault("database.minConns", 5)

	// Redis defaults
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", "5m")

	// Events defaults
	viper.SetDefault("events.enabled", false)
	viper.SetDefault("events.host", "localhost")
	viper.SetDefault("events.port", 5672)
	viper.SetDefault("events.user", "guest")
	viper.SetDefault("events.password", "guest")
	viper.SetDefault("events.vhost", "/")
	viper.SetDefault("events.exchange", "platform.events")

	// Resolver defaults
	viper.SetDefault("resolver.endpoint", "http://localhost:8090/resolve")
	viper.SetDefault("resolver.timeout", "15s")

	// Rewards defaults
	viper.SetDefault("rewards.dailyCoinLimit", 1500)
	viper.SetDefault("rewards.dailyBonusAmount", 10)
	viper.SetDefault("rewards.watchRewardAmount", 30)
	viper.SetDefault("rewards.submissionLimit", 3)
	viper.SetDefault("rewards.submissionCost", 1280)

	// Admin defaults
	viper.SetDefault("admin.username", "admin")
}
