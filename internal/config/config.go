package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из TOML файла
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Booking        BookingConfig        `toml:"booking"`
	PaymentGateway PaymentGatewayConfig `toml:"payment_gateway"`
	Auth           AuthConfig           `toml:"auth"`
	Scheduler      SchedulerConfig      `toml:"scheduler"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig правила бронирования по умолчанию.
// Отдельные корты могут переопределять лимиты
type BookingConfig struct {
	MaxDurationHours  float64 `toml:"max_duration_hours"`  // максимальная длительность
	AdvanceDays       int     `toml:"advance_days"`        // окно предварительной записи
	LockTimeoutMs     int     `toml:"lock_timeout_ms"`     // бюджет ожидания блокировки корта
	PendingTTLMinutes int     `toml:"pending_ttl_minutes"` // окно оплаты pending-бронирования
}

// PaymentGatewayConfig настройки клиента платежного шлюза
type PaymentGatewayConfig struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	Timeout        int    `toml:"timeout"` // секунды
	CallbackSecret string `toml:"callback_secret"`
}

// AuthConfig настройки аутентификации
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// SchedulerConfig расписания фоновых задач (формат cron)
type SchedulerConfig struct {
	Enabled      bool   `toml:"enabled"`
	ExpireSpec   string `toml:"expire_spec"`   // отмена неоплаченных pending
	CompleteSpec string `toml:"complete_spec"` // завершение прошедших confirmed
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("config: database.host and database.dbname are required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret is required")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Booking.MaxDurationHours == 0 {
		c.Booking.MaxDurationHours = 8
	}
	if c.Booking.AdvanceDays == 0 {
		c.Booking.AdvanceDays = 14
	}
	if c.Booking.LockTimeoutMs == 0 {
		c.Booking.LockTimeoutMs = 500
	}
	if c.Booking.PendingTTLMinutes == 0 {
		c.Booking.PendingTTLMinutes = 15
	}
	if c.Scheduler.ExpireSpec == "" {
		c.Scheduler.ExpireSpec = "@every 1m"
	}
	if c.Scheduler.CompleteSpec == "" {
		c.Scheduler.CompleteSpec = "@every 5m"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}
