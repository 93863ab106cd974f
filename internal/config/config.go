package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
const EnvPrefix = "SCHEDULING"

var (
	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

type Config struct {
	Server      ServerConfig      `toml:"server" envconfig:"server"`
	Database    DatabaseConfig    `toml:"database" envconfig:"database"`
	Logs        LogsConfig        `toml:"logs" envconfig:"logs"`
	Metrics     MetricsConfig     `toml:"metrics" envconfig:"metrics"`
	Redis       RedisConfig       `toml:"redis" envconfig:"redis"`
	UserService UserServiceConfig `toml:"user_service" envconfig:"user_service"`
	Scheduling  SchedulingConfig  `toml:"scheduling" envconfig:"scheduling"`
	Booking     BookingConfig     `toml:"booking" envconfig:"booking"`
	Lifecycle   LifecycleConfig   `toml:"lifecycle" envconfig:"lifecycle"`
	Cache       CacheConfig       `toml:"cache" envconfig:"cache"`
	RateLimit   RateLimitConfig   `toml:"rate_limit" envconfig:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" envconfig:"http_port"`
	ReadTimeout     int `toml:"read_timeout" envconfig:"read_timeout"`         // секунды
	WriteTimeout    int `toml:"write_timeout" envconfig:"write_timeout"`       // секунды
	IdleTimeout     int `toml:"idle_timeout" envconfig:"idle_timeout"`         // секунды
	ShutdownTimeout int `toml:"shutdown_timeout" envconfig:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host" envconfig:"host"`
	Port            int    `toml:"port" envconfig:"port"`
	User            string `toml:"user" envconfig:"user"`
	Password        string `toml:"password" envconfig:"password"`
	DBName          string `toml:"dbname" envconfig:"dbname"`
	SSLMode         string `toml:"sslmode" envconfig:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns" envconfig:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns" envconfig:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" envconfig:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level" envconfig:"level"`
	File  string `toml:"file" envconfig:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" envconfig:"enabled"`
	Path        string `toml:"path" envconfig:"path"`
	ServiceName string `toml:"service_name" envconfig:"service_name"`
}

type RedisConfig struct {
	Enabled       bool   `toml:"enabled" envconfig:"enabled"`
	Addr          string `toml:"addr" envconfig:"addr"`
	Password      string `toml:"password" envconfig:"password"`
	DB            int    `toml:"db" envconfig:"db"`
	ChannelPrefix string `toml:"channel_prefix" envconfig:"channel_prefix"`
}

type UserServiceConfig struct {
	URL     string `toml:"url" envconfig:"url"`
	Timeout int    `toml:"timeout" envconfig:"timeout"` // секунды
}

type SchedulingConfig struct {
	Timezone                string `toml:"timezone" envconfig:"timezone"`
	PendingBlocksReserve    bool   `toml:"pending_blocks_reserve" envconfig:"pending_blocks_reserve"`
	MinBookingNoticeMinutes int    `toml:"min_booking_notice_minutes" envconfig:"min_booking_notice_minutes"`
}

// Location часовой пояс, в котором трактуются все даты и время расписаний
func (c SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

type BookingConfig struct {
	LockBackend           string `toml:"lock_backend" envconfig:"lock_backend"` // local | redis
	LockTimeoutMs         int    `toml:"lock_timeout_ms" envconfig:"lock_timeout_ms"`
	LockTTLSeconds        int    `toml:"lock_ttl_seconds" envconfig:"lock_ttl_seconds"`
	MaxRetries            int    `toml:"max_retries" envconfig:"max_retries"`
	CollaboratorTimeoutMs int    `toml:"collaborator_timeout_ms" envconfig:"collaborator_timeout_ms"`
}

func (c BookingConfig) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutMs) * time.Millisecond
}

func (c BookingConfig) CollaboratorTimeout() time.Duration {
	return time.Duration(c.CollaboratorTimeoutMs) * time.Millisecond
}

type LifecycleConfig struct {
	AllowEarlyStart bool `toml:"allow_early_start" envconfig:"allow_early_start"`
}

type CacheConfig struct {
	TemplateTTLSeconds     int `toml:"template_ttl_seconds" envconfig:"template_ttl_seconds"`
	CleanupIntervalSeconds int `toml:"cleanup_interval_seconds" envconfig:"cleanup_interval_seconds"`
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled" envconfig:"enabled"`
	RPS     float64 `toml:"rps" envconfig:"rps"`
	Burst   int     `toml:"burst" envconfig:"burst"`
}

// Load читает TOML-файл, подгружает .env (если есть) и применяет переменные окружения SCHEDULING_*
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	// .env необязателен
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "scheduling",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "scheduling-service",
		},
		Redis: RedisConfig{
			Addr:          "localhost:6379",
			ChannelPrefix: "scheduling",
		},
		UserService: UserServiceConfig{
			URL:     "http://localhost:8081",
			Timeout: 5,
		},
		Scheduling: SchedulingConfig{
			Timezone: "UTC",
		},
		Booking: BookingConfig{
			LockBackend:           "local",
			LockTimeoutMs:         2000,
			LockTTLSeconds:        10,
			MaxRetries:            3,
			CollaboratorTimeoutMs: 2000,
		},
		Lifecycle: LifecycleConfig{
			AllowEarlyStart: true,
		},
		Cache: CacheConfig{
			TemplateTTLSeconds:     30,
			CleanupIntervalSeconds: 60,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     20,
			Burst:   40,
		},
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("%w: scheduling.timezone=%q: %v", ErrInvalidConfig, c.Scheduling.Timezone, err)
	}
	if c.Scheduling.MinBookingNoticeMinutes < 0 {
		return fmt.Errorf("%w: scheduling.min_booking_notice_minutes must be >= 0", ErrInvalidConfig)
	}
	if c.Booking.LockTimeoutMs <= 0 {
		return fmt.Errorf("%w: booking.lock_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.Booking.MaxRetries < 0 {
		return fmt.Errorf("%w: booking.max_retries must be >= 0", ErrInvalidConfig)
	}
	switch c.Booking.LockBackend {
	case "local":
	case "redis":
		if !c.Redis.Enabled {
			return fmt.Errorf("%w: booking.lock_backend=redis requires redis.enabled", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: booking.lock_backend=%q", ErrInvalidConfig, c.Booking.LockBackend)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit requires positive rps and burst", ErrInvalidConfig)
	}
	return nil
}
