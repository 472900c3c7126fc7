package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Booking       BookingConfig       `mapstructure:"booking"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Broker        BrokerConfig        `mapstructure:"broker"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	JWTAccessSecret      string        `mapstructure:"jwt_access_secret" validate:"required,min=32"`
	JWTRefreshSecret     string        `mapstructure:"jwt_refresh_secret" validate:"required,min=32"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" validate:"required,min=1m,max=1h"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" validate:"required,min=1h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" validate:"required,min=4,max=15"`
}

// BookingConfig tunes the booking ledger.
type BookingConfig struct {
	// Timezone is the IANA zone booking dates and slot times are interpreted in.
	Timezone string `mapstructure:"timezone"`
	// MonthlyLimit caps active employee bookings per calendar month. 0 disables the cap.
	MonthlyLimit  int           `mapstructure:"monthly_limit"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type BrokerConfig struct {
	URL   string `mapstructure:"url"`
	Queue string `mapstructure:"queue"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ----------------- ENV LOADING -----------------

// LoadConfigFromEnv builds the configuration from plain environment variables,
// used for container deployments where no config.yml is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Security: SecurityConfig{
			JWTAccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
			JWTRefreshSecret:     getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 7*24*time.Hour),
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 10),
		},
		Booking: BookingConfig{
			Timezone:      getEnv("BOOKING_TIMEZONE", "UTC"),
			MonthlyLimit:  getEnvAsInt("BOOKING_MONTHLY_LIMIT", 0),
			SweepInterval: getEnvAsDuration("BOOKING_SWEEP_INTERVAL", 30*time.Second),
			CacheTTL:      getEnvAsDuration("BOOKING_CACHE_TTL", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Broker: BrokerConfig{
			URL:   getEnv("AMQP_URL", ""),
			Queue: getEnv("AMQP_QUEUE", "booking.events"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Booking.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("booking config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTAccessSecret) < 32 {
		return errors.New("jwt_access_secret must be at least 32 characters")
	}
	if len(c.JWTRefreshSecret) < 32 {
		return errors.New("jwt_refresh_secret must be at least 32 characters")
	}
	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return errors.New("access and refresh secrets must differ")
	}
	return nil
}

func (c *BookingConfig) Validate() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.MonthlyLimit < 0 {
		return errors.New("monthly_limit cannot be negative")
	}
	if c.SweepInterval < 0 {
		return errors.New("sweep_interval cannot be negative")
	}
	return nil
}

// Location resolves Timezone, defaulting to UTC when unset.
func (c *BookingConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Enabled reports whether a Redis address is configured.
func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// Enabled reports whether an AMQP url is configured.
func (c *BrokerConfig) Enabled() bool {
	return c.URL != ""
}
