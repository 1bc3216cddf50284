package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	AllowedOrigin string
	FrontendURL   string // Used to build gateway return URLs for redirect-back
	// Session
	SessionSecret string
	SessionTTL    time.Duration
	// DB Config (optional: empty DB_DSN falls back to the in-memory session store)
	DBUrl             string
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Cart Source
	CartSourceURL string
	CartSourceTTL time.Duration
	CartUserID    int64
	// Payment Gateway
	PaymentProvider    string
	GatewayTimeout     time.Duration
	CashfreeAPIURL     string
	CashfreeAppID      string
	CashfreeSecretKey  string
	CashfreeAPIVersion string
	RazorpayAPIURL     string
	RazorpayKeyID      string
	RazorpayKeySecret  string
	StripeAPIURL       string
	StripeSecretKey    string
	// Business Rules
	MaxCartQuantity int
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev)
		// We don't error here because in pure docker/prod envs, .env might not exist,
		// and we rely on system env vars.
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:3000"),

		SessionSecret: getEnv("SESSION_SECRET", "default_secret_CHANGE_ME"),
		SessionTTL:    getDurationEnv("SESSION_TTL", 24*time.Hour),

		DBUrl:             getEnv("DB_DSN", ""),
		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		// Cart source defaults match the upstream demo API: one cart per user,
		// responses cached for an hour.
		CartSourceURL: getEnv("CART_SOURCE_URL", "https://dummyjson.com"),
		CartSourceTTL: getDurationEnv("CART_SOURCE_TTL", time.Hour),
		CartUserID:    getInt64Env("CART_USER_ID", 1),

		PaymentProvider:    getEnv("PAYMENT_PROVIDER", "cashfree"),
		GatewayTimeout:     getDurationEnv("GATEWAY_TIMEOUT", 15*time.Second),
		CashfreeAPIURL:     getEnv("CASHFREE_API_URL", "https://sandbox.cashfree.com/pg"),
		CashfreeAppID:      getEnv("CASHFREE_APP_ID", ""),
		CashfreeSecretKey:  getEnv("CASHFREE_SECRET_KEY", ""),
		CashfreeAPIVersion: getEnv("CASHFREE_API_VERSION", "2023-08-01"),
		RazorpayAPIURL:     getEnv("RAZORPAY_API_URL", "https://api.razorpay.com/v1"),
		RazorpayKeyID:      getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:  getEnv("RAZORPAY_KEY_SECRET", ""),
		StripeAPIURL:       getEnv("STRIPE_API_URL", "https://api.stripe.com/v1"),
		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),

		// Business rules: 1000 max cart quantity
		MaxCartQuantity: getIntEnv("MAX_CART_QUANTITY", 1000),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	switch c.PaymentProvider {
	case "cashfree", "razorpay", "stripe":
	default:
		log.Fatalf("CRITICAL: Unknown PAYMENT_PROVIDER %q (want cashfree, razorpay or stripe)", c.PaymentProvider)
	}
	if c.SessionSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default session secret. Setting up for failure in production.")
	}
	if c.DBUrl == "" {
		log.Println("WARNING: DB_DSN not set, checkout sessions are stored in memory only")
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
		log.Printf("Invalid int64 for %s, using fallback", key)
	}
	return fallback
}
