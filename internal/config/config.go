package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Business      BusinessConfig      `toml:"business"`
	Cache         CacheConfig         `toml:"cache"`
	UserService   UserServiceConfig   `toml:"user_service"`
	Notifications NotificationsConfig `toml:"notifications"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// BusinessConfig бизнес-время точек обслуживания
type BusinessConfig struct {
	// UTCOffsetHours смещение гражданского времени точек от UTC (например, -3)
	UTCOffsetHours int `toml:"utc_offset_hours"`
}

// CacheConfig настройки Redis кеша точек
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// UserServiceConfig настройки клиента UserService
type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// NotificationsConfig настройки уведомлений участникам
type NotificationsConfig struct {
	Enabled  bool           `toml:"enabled"`
	Timeout  int            `toml:"timeout"` // секунды на одно уведомление
	WhatsApp WhatsAppConfig `toml:"whatsapp"`
	FCM      FCMConfig      `toml:"fcm"`
}

// WhatsAppConfig HTTP шлюз WhatsApp
type WhatsAppConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Token   string `toml:"token"`
}

// FCMConfig Firebase Cloud Messaging
type FCMConfig struct {
	Enabled         bool   `toml:"enabled"`
	CredentialsFile string `toml:"credentials_file"`
}

// RateLimitConfig ограничение запросов с одного IP
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// Load читает конфигурацию из TOML файла
// Переменная CONFIG_PATH переопределяет путь, DB_PASSWORD - пароль базы
func Load(path string) (*Config, error) {
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		path = envPath
	}

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Business.UTCOffsetHours < -12 || c.Business.UTCOffsetHours > 14 {
		return fmt.Errorf("%w: business.utc_offset_hours=%d", ErrInvalidConfig, c.Business.UTCOffsetHours)
	}
	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("%w: cache.addr is required when cache is enabled", ErrInvalidConfig)
	}
	if c.Notifications.WhatsApp.Enabled && c.Notifications.WhatsApp.URL == "" {
		return fmt.Errorf("%w: notifications.whatsapp.url is required", ErrInvalidConfig)
	}
	if c.Notifications.FCM.Enabled && c.Notifications.FCM.CredentialsFile == "" {
		return fmt.Errorf("%w: notifications.fcm.credentials_file is required", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit.rps and rate_limit.burst must be positive", ErrInvalidConfig)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "bay-scheduler",
			Path:        "/metrics",
		},
		Business: BusinessConfig{
			UTCOffsetHours: -3,
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
		UserService: UserServiceConfig{
			Timeout: 5,
		},
		Notifications: NotificationsConfig{
			Timeout: 10,
		},
		RateLimit: RateLimitConfig{
			RPS:   20,
			Burst: 40,
		},
	}
}
