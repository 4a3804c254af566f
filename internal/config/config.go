// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Payment providers supported by the gateway adapter
const (
	ProviderRazorpay = "razorpay"
	ProviderCashfree = "cashfree"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	Delivery DeliveryConfig
	Payment  PaymentConfig
	OrderAPI OrderAPIConfig
	Checkout CheckoutConfig
	Receipt  ReceiptConfig
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

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	StateTTL     time.Duration
}

// JWTConfig contains JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	SecureCookies      bool
}

// DeliveryConfig contains the delivery fee rule
type DeliveryConfig struct {
	FreeThreshold decimal.Decimal
	FlatFee       decimal.Decimal
}

// PaymentConfig selects and configures the hosted payment gateway
type PaymentConfig struct {
	Provider      string
	Currency      string
	WidgetTimeout time.Duration
	Razorpay      RazorpayConfig
	Cashfree      CashfreeConfig
}

// RazorpayConfig contains Razorpay credentials
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// CashfreeConfig contains Cashfree credentials
type CashfreeConfig struct {
	AppID        string
	SecretKey    string
	BaseURL      string
	APIVersion   string
	DefaultPhone string
	DefaultEmail string
}

// OrderAPIConfig points at the remote order service
type OrderAPIConfig struct {
	BaseURL      string
	CreatePath   string
	DetailedPath string
	Timeout      time.Duration
}

// CheckoutConfig contains checkout flow limits
type CheckoutConfig struct {
	FlowTimeout       time.Duration
	SubmissionTimeout time.Duration
	SessionTTL        time.Duration // Idle sessions and last orders are evicted after this
}

// ReceiptConfig contains the store details printed on receipts
type ReceiptConfig struct {
	StoreName    string
	SupportEmail string
	SupportPhone string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "MediCare Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "storefront_db"),
			User:         getEnv("DB_USER", "storefront_user"),
			Password:     getEnv("DB_PASSWORD", "storefront_password"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			StateTTL:     getEnvAsDuration("REDIS_STATE_TTL", 30*24*time.Hour),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-in-production"),
			AccessTokenExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRE", 24*time.Hour),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			SecureCookies:      getEnvAsBool("SECURE_COOKIES", false),
		},
		Delivery: DeliveryConfig{
			FreeThreshold: getEnvAsDecimal("DELIVERY_FREE_THRESHOLD", decimal.NewFromInt(499)),
			FlatFee:       getEnvAsDecimal("DELIVERY_FLAT_FEE", decimal.NewFromInt(40)),
		},
		Payment: PaymentConfig{
			Provider:      strings.ToLower(getEnv("PAYMENT_PROVIDER", ProviderCashfree)),
			Currency:      getEnv("PAYMENT_CURRENCY", "INR"),
			WidgetTimeout: getEnvAsDuration("PAYMENT_WIDGET_TIMEOUT", 15*time.Minute),
			Razorpay: RazorpayConfig{
				KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
				KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
				BaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
			},
			Cashfree: CashfreeConfig{
				AppID:        getEnv("CASHFREE_APP_ID", ""),
				SecretKey:    getEnv("CASHFREE_SECRET_KEY", ""),
				BaseURL:      getEnv("CASHFREE_BASE_URL", "https://sandbox.cashfree.com/pg"),
				APIVersion:   getEnv("CASHFREE_API_VERSION", "2023-08-01"),
				DefaultPhone: getEnv("CASHFREE_DEFAULT_PHONE", "9999999999"),
				DefaultEmail: getEnv("CASHFREE_DEFAULT_EMAIL", "customer@medicare.in"),
			},
		},
		OrderAPI: OrderAPIConfig{
			BaseURL:      strings.TrimRight(getEnv("ORDER_API_BASE_URL", "https://conversion-engine-api.onrender.com"), "/"),
			CreatePath:   getEnv("ORDER_API_CREATE_PATH", "/create-order"),
			DetailedPath: getEnv("ORDER_API_DETAILED_PATH", "/orders-detailed"),
			Timeout:      getEnvAsDuration("ORDER_API_TIMEOUT", 30*time.Second),
		},
		Checkout: CheckoutConfig{
			FlowTimeout:       getEnvAsDuration("CHECKOUT_FLOW_TIMEOUT", 20*time.Minute),
			SubmissionTimeout: getEnvAsDuration("CHECKOUT_SUBMISSION_TIMEOUT", 45*time.Second),
			SessionTTL:        getEnvAsDuration("CHECKOUT_SESSION_TTL", 2*time.Hour),
		},
		Receipt: ReceiptConfig{
			StoreName:    getEnv("RECEIPT_STORE_NAME", "MediCare"),
			SupportEmail: getEnv("RECEIPT_SUPPORT_EMAIL", "support@medicare.in"),
			SupportPhone: getEnv("RECEIPT_SUPPORT_PHONE", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.OrderAPI.BaseURL == "" {
		return fmt.Errorf("ORDER_API_BASE_URL is required")
	}

	if c.Checkout.SessionTTL <= c.Checkout.FlowTimeout {
		return fmt.Errorf("CHECKOUT_SESSION_TTL must be longer than CHECKOUT_FLOW_TIMEOUT")
	}

	if c.Delivery.FreeThreshold.IsNegative() || c.Delivery.FlatFee.IsNegative() {
		return fmt.Errorf("delivery threshold and fee must not be negative")
	}

	switch c.Payment.Provider {
	case ProviderRazorpay:
		if c.IsProduction() && (c.Payment.Razorpay.KeyID == "" || c.Payment.Razorpay.KeySecret == "") {
			return fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required in production")
		}
	case ProviderCashfree:
		if c.IsProduction() && (c.Payment.Cashfree.AppID == "" || c.Payment.Cashfree.SecretKey == "") {
			return fmt.Errorf("CASHFREE_APP_ID and CASHFREE_SECRET_KEY are required in production")
		}
	default:
		return fmt.Errorf("unknown PAYMENT_PROVIDER %q", c.Payment.Provider)
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

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
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

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
