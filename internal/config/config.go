// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Backend  BackendConfig
	Stripe   StripeConfig
	Checkout CheckoutConfig
	Session  SessionConfig
	Redis    RedisConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// BackendConfig points at the storefront REST backend
type BackendConfig struct {
	BaseURL string
}

// StripeConfig contains the publishable side of the payment gateway
type StripeConfig struct {
	PublishableKey string
	APIBase        string
}

// CheckoutConfig contains payment page behaviour
type CheckoutConfig struct {
	Currency       string
	SuccessURL     string
	SuccessDelay   time.Duration
	PaymentElement string
	AttemptTTL     time.Duration
}

// SessionConfig contains session credential storage configuration
type SessionConfig struct {
	Driver       string // memory or redis
	CookieName   string
	TTL          time.Duration
	SecureCookie bool
	CartCacheTTL time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "5173"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 0),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("BACKEND_API_URL", "http://localhost:8000"), "/"),
		},
		Stripe: StripeConfig{
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			APIBase:        strings.TrimRight(getEnv("STRIPE_API_BASE", "https://api.stripe.com"), "/"),
		},
		Checkout: CheckoutConfig{
			Currency:       strings.ToLower(getEnv("CHECKOUT_CURRENCY", "brl")),
			SuccessURL:     getEnv("CHECKOUT_SUCCESS_URL", "/pagamento-success"),
			SuccessDelay:   getEnvAsDuration("CHECKOUT_SUCCESS_DELAY", 1200*time.Millisecond),
			PaymentElement: getEnv("CHECKOUT_PAYMENT_ELEMENT", "#payment-element"),
			AttemptTTL:     getEnvAsDuration("CHECKOUT_ATTEMPT_TTL", 30*time.Minute),
		},
		Session: SessionConfig{
			Driver:       strings.ToLower(getEnv("SESSION_DRIVER", "memory")),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "storefront_sid"),
			TTL:          getEnvAsDuration("SESSION_TTL", 12*time.Hour),
			SecureCookie: getEnvAsBool("SESSION_SECURE_COOKIE", false),
			CartCacheTTL: getEnvAsDuration("CART_CACHE_TTL", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration. A missing publishable key is not an
// error here: the payment page reports it instead.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_API_URL is required")
	}
	if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("BACKEND_API_URL is not a valid URL: %w", err)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	switch c.Session.Driver {
	case "memory":
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required when SESSION_DRIVER=redis")
		}
	default:
		return fmt.Errorf("SESSION_DRIVER must be memory or redis, got %q", c.Session.Driver)
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME is required")
	}

	if c.Checkout.Currency == "" {
		return fmt.Errorf("CHECKOUT_CURRENCY is required")
	}
	if c.Checkout.SuccessDelay < 0 {
		return fmt.Errorf("CHECKOUT_SUCCESS_DELAY cannot be negative")
	}
	if c.Checkout.AttemptTTL < 0 {
		return fmt.Errorf("CHECKOUT_ATTEMPT_TTL cannot be negative")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesRedis reports whether sessions and the cart cache live in Redis
func (c *Config) UsesRedis() bool {
	return c.Session.Driver == "redis"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
