package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ordermenu/utils"
)

const devJWTSecret = "ordermenu-development-secret"

type Config struct {
	AppEnv   string
	Port     string
	GinMode  string
	LogLevel string

	DBDriver string
	DBDSN    string

	JWTSecret string
	JWTTTL    time.Duration

	PaymentServerKey string
	PaymentExpiry    time.Duration

	KitchenRatePerMinute     int
	OrderStatusRatePerMinute int
	CORSAllowedOrigin        string
	Location                 *time.Location

	AdminName     string
	AdminEmail    string
	AdminPassword string

	RestaurantName    string
	RestaurantAddress string
	RestaurantPhone   string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.Info(logrus.Fields{"error": err}).Warn("Warning: .env file not found")
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBDSN:    getEnv("DB_DSN", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    time.Duration(getEnvAsInt("JWT_TTL_HOURS", 24)) * time.Hour,

		PaymentServerKey: getEnv("PAYMENT_SERVER_KEY", ""),
		PaymentExpiry:    time.Duration(getEnvAsInt("PAYMENT_EXPIRY_MINUTES", 60)) * time.Minute,

		KitchenRatePerMinute:     getEnvAsInt("KITCHEN_RATE_PER_MINUTE", 120),
		OrderStatusRatePerMinute: getEnvAsInt("ORDER_STATUS_RATE_PER_MINUTE", 60),
		CORSAllowedOrigin:        getEnv("CORS_ALLOWED_ORIGIN", "*"),

		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		RestaurantName:    getEnv("RESTAURANT_NAME", "OrderMenu"),
		RestaurantAddress: getEnv("RESTAURANT_ADDRESS", ""),
		RestaurantPhone:   getEnv("RESTAURANT_PHONE", ""),
	}

	if cfg.DBDSN == "" && cfg.DBDriver == "sqlite" {
		cfg.DBDSN = "ordermenu.db"
	}

	cfg.Location = time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = devJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is required")
	}
	if c.JWTSecret == "" || (c.IsProduction() && c.JWTSecret == devJWTSecret) {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.KitchenRatePerMinute <= 0 || c.OrderStatusRatePerMinute <= 0 {
		return errors.New("rate limits must be positive")
	}
	return nil
}

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
