package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Auth           AuthConfig           `toml:"auth"`
	CatalogService CatalogServiceConfig `toml:"catalog_service"`
	Redis          RedisConfig          `toml:"redis"`
	Kafka          KafkaConfig          `toml:"kafka"`
	Booking        BookingConfig        `toml:"booking"`
	Sweeper        SweeperConfig        `toml:"sweeper"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки аутентификации.
// Если JWTSecret пуст, пользователь берётся из заголовков X-User-ID / X-User-Role (режим за API-шлюзом).
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// CatalogServiceConfig настройки клиента каталога услуг
type CatalogServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// RedisConfig настройки кэша каталога
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"`
}

// KafkaConfig настройки публикации событий
type KafkaConfig struct {
	Enabled            bool     `toml:"enabled"`
	Brokers            []string `toml:"brokers"`
	NotificationsTopic string   `toml:"notifications_topic"`
	PaymentsTopic      string   `toml:"payments_topic"`
	WriteTimeout       int      `toml:"write_timeout"`
}

// BookingConfig бизнес-настройки бронирований
type BookingConfig struct {
	DefaultPlatformFeePercent  float64 `toml:"default_platform_fee_percent"`
	DefaultAlternativeTTLHours int     `toml:"default_alternative_ttl_hours"`
	DefaultSlotDurationMinutes int     `toml:"default_slot_duration_minutes"`
}

// SweeperConfig настройки фонового истечения альтернатив
type SweeperConfig struct {
	Interval int `toml:"interval"`
}

// Load читает конфигурацию из TOML файла и заполняет значения по умолчанию
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse разбирает конфигурацию из строки TOML
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "scheduling_service"
	}

	if c.CatalogService.Timeout == 0 {
		c.CatalogService.Timeout = 5
	}

	if c.Redis.TTL == 0 {
		c.Redis.TTL = 60
	}

	if c.Kafka.NotificationsTopic == "" {
		c.Kafka.NotificationsTopic = "booking.notifications"
	}
	if c.Kafka.PaymentsTopic == "" {
		c.Kafka.PaymentsTopic = "booking.payments"
	}
	if c.Kafka.WriteTimeout == 0 {
		c.Kafka.WriteTimeout = 5
	}

	if c.Booking.DefaultAlternativeTTLHours == 0 {
		c.Booking.DefaultAlternativeTTLHours = 24
	}
	if c.Booking.DefaultSlotDurationMinutes == 0 {
		c.Booking.DefaultSlotDurationMinutes = 60
	}

	if c.Sweeper.Interval == 0 {
		c.Sweeper.Interval = 60
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.CatalogService.URL == "" {
		return fmt.Errorf("config: catalog_service.url is required")
	}
	if c.Booking.DefaultPlatformFeePercent < 0 || c.Booking.DefaultPlatformFeePercent > 100 {
		return fmt.Errorf("config: booking.default_platform_fee_percent must be within [0, 100]")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers is required when kafka is enabled")
	}
	if c.Kafka.WriteTimeout <= 0 {
		return fmt.Errorf("config: kafka.write_timeout must be positive")
	}
	if c.Sweeper.Interval <= 0 {
		return fmt.Errorf("config: sweeper.interval must be positive")
	}
	if c.Booking.DefaultAlternativeTTLHours <= 0 {
		return fmt.Errorf("config: booking.default_alternative_ttl_hours must be positive")
	}
	return nil
}
