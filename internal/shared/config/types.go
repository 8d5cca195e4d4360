package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the GORM driver. Driver is "mysql" (default) or "sqlite";
// for sqlite, Database holds the file path.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
	// CasbinModelPath is optional; the built-in RBAC model is used when empty.
	CasbinModelPath string `mapstructure:"casbin_model_path"`
}

// AccessConfig tunes the access decision engine.
type AccessConfig struct {
	CacheEnabled    bool `mapstructure:"cache_enabled"`
	CacheTTLSeconds int  `mapstructure:"cache_ttl_seconds"`
}

func (a *AccessConfig) CacheTTL() time.Duration {
	if a.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.CacheTTLSeconds) * time.Second
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	BaseURL      string `mapstructure:"base_url"`
}

type SchedulerConfig struct {
	ExpiryIntervalMinutes int `mapstructure:"expiry_interval_minutes"`
}

func (s *SchedulerConfig) ExpiryInterval() time.Duration {
	if s.ExpiryIntervalMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(s.ExpiryIntervalMinutes) * time.Minute
}

type WebhookConfig struct {
	PaymentSecret string `mapstructure:"payment_secret"`
}

// RateLimitConfig caps requests per minute on the access check and the payment webhook.
// Limits need redis; without it requests are not throttled.
type RateLimitConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	AccessPerMinute  int  `mapstructure:"access_per_minute"`
	WebhookPerMinute int  `mapstructure:"webhook_per_minute"`
}
