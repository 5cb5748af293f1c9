package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env            string
	Port           string
	DatabaseURL    string
	RedisURL       string
	AllowedOrigin  string
	HealthAdminKey string

	// Upstream commodity-price feed (RapidAPI-style).
	MarketDataAPI   string
	RapidAPIKey     string
	RapidAPIHost    string
	APITimeout      time.Duration
	PriceCacheTTL   time.Duration
	RefreshInterval time.Duration

	// Identity provider (Clerk-style backend API).
	IdentityAPIURL    string
	IdentitySecretKey string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "5000"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	apiTimeout := 10 * time.Second
	if ms := viper.GetInt("API_TIMEOUT"); ms > 0 {
		apiTimeout = time.Duration(ms) * time.Millisecond
	}
	cacheTTL := 5 * time.Minute
	if d := viper.GetDuration("PRICE_CACHE_TTL"); d > 0 {
		cacheTTL = d
	}
	refresh := 15 * time.Minute
	if d := viper.GetDuration("PRICE_REFRESH_INTERVAL"); d > 0 {
		refresh = d
	}

	return &Config{
		Env:               env,
		Port:              port,
		DatabaseURL:       viper.GetString("DATABASE_URL"),
		RedisURL:          viper.GetString("REDIS_URL"),
		AllowedOrigin:     viper.GetString("ALLOWED_ORIGIN"),
		HealthAdminKey:    viper.GetString("HEALTH_ADMIN_KEY"),
		MarketDataAPI:     viper.GetString("MARKET_DATA_API"),
		RapidAPIKey:       viper.GetString("RAPIDAPI_KEY"),
		RapidAPIHost:      viper.GetString("RAPIDAPI_HOST"),
		APITimeout:        apiTimeout,
		PriceCacheTTL:     cacheTTL,
		RefreshInterval:   refresh,
		IdentityAPIURL:    viper.GetString("CLERK_API_URL"),
		IdentitySecretKey: viper.GetString("CLERK_SECRET_KEY"),
	}, nil
}
