package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`

	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`
	DBConnectAttempts uint64        `mapstructure:"DB_CONNECT_ATTEMPTS"`
	DBConnectBackoff  time.Duration `mapstructure:"DB_CONNECT_BACKOFF"`

	AllowedOrigins     []string `mapstructure:"APP_ALLOWED_ORIGINS"`
	Timezone           string   `mapstructure:"APP_TIMEZONE"`
	AuthUserHeader     string   `mapstructure:"AUTH_USER_HEADER"`
	RateLimitPerMinute int      `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	MailHost string `mapstructure:"MAIL_HOST"`
	MailPort int    `mapstructure:"MAIL_PORT"`
	MailUser string `mapstructure:"MAIL_USER"`
	MailPass string `mapstructure:"MAIL_PASS"`
	MailFrom string `mapstructure:"MAIL_FROM"`
}

var defaults = map[string]any{
	"HTTP_PORT":             "8080",
	"DATABASE_URL":          "",
	"DB_MAX_OPEN_CONNS":     10,
	"DB_MAX_IDLE_CONNS":     5,
	"DB_CONN_MAX_LIFETIME":  "5m",
	"DB_CONNECT_ATTEMPTS":   5,
	"DB_CONNECT_BACKOFF":    "1s",
	"APP_ALLOWED_ORIGINS":   "http://localhost:5173,http://127.0.0.1:5173,http://localhost",
	"APP_TIMEZONE":          "UTC",
	"AUTH_USER_HEADER":      "X-User-ID",
	"RATE_LIMIT_PER_MINUTE": 120,
	"RABBITMQ_URL":          "",
	"MAIL_HOST":             "",
	"MAIL_PORT":             587,
	"MAIL_USER":             "",
	"MAIL_PASS":             "",
	"MAIL_FROM":             "nao-responda@mariacrm.local",
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}
	return FromViper(viper.New())
}

// FromViper resolves the configuration from v's environment bindings.
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	origins := cfg.AllowedOrigins[:0]
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.AllowedOrigins = origins

	return &cfg, nil
}

// Validate checks every setting except DATABASE_URL, which RequireDatabase
// covers for the commands that open the database.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.HTTPPort); err != nil || port <= 0 || port > 65535 {
		problems = append(problems, "HTTP_PORT must be a valid port")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("APP_TIMEZONE %q is unknown", c.Timezone))
	}
	if strings.TrimSpace(c.AuthUserHeader) == "" {
		problems = append(problems, "AUTH_USER_HEADER is required")
	}
	if c.DBConnectAttempts == 0 {
		problems = append(problems, "DB_CONNECT_ATTEMPTS must be at least 1")
	}
	if c.RateLimitPerMinute <= 0 {
		problems = append(problems, "RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.MailHost != "" && (c.MailPort <= 0 || strings.TrimSpace(c.MailFrom) == "") {
		problems = append(problems, "MAIL_PORT and MAIL_FROM are required when MAIL_HOST is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) RequireDatabase() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("invalid configuration: DATABASE_URL is required")
	}
	return nil
}

func (c *Config) MessagingEnabled() bool {
	return strings.TrimSpace(c.RabbitMQURL) != ""
}

func (c *Config) MailEnabled() bool {
	return strings.TrimSpace(c.MailHost) != ""
}

// Location falls back to UTC when APP_TIMEZONE is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
