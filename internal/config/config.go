package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	DatabaseURL string
	RedisURL    string
	NATSURL     string
	JWTSecret   string

	DeepSeekAPIKey      string
	DeepSeekBaseURL     string
	DeepSeekModel       string
	DeepSeekMaxTokens   int
	DeepSeekTemperature float32

	RegistryAddress string
	ChainRPCURL     string
	ChainID         int64
	OperatorKey     string

	ListCacheTTL     time.Duration
	ListPageSize     int
	WatchTimeout     time.Duration
	EvidenceMaxMB    int
	CloudinaryName   string
	CloudinaryKey    string
	CloudinarySecret string
	CloudinaryFolder string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// RegistryConfigured reports whether a usable registry address is present.
// The original frontend shipped with a "0x..." placeholder, so that value
// counts as unset.
func (c Config) RegistryConfigured() bool {
	addr := strings.TrimSpace(c.RegistryAddress)
	return addr != "" && addr != "0x..."
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("POL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "PoL Contribution API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("deepseek.base_url", "https://api.deepseek.com")
	v.SetDefault("deepseek.model", "deepseek-chat")
	v.SetDefault("deepseek.max_tokens", 700)
	v.SetDefault("deepseek.temperature", 0.2)
	v.SetDefault("list.cache_ttl", "15s")
	v.SetDefault("list.page_size", 50)
	v.SetDefault("watch_timeout", "3m")
	v.SetDefault("evidence.max_mb", 10)
	v.SetDefault("cloudinary.folder", "pol/evidence")

	ttl, err := time.ParseDuration(v.GetString("list.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid list cache ttl: %w", err)
	}

	watchTimeout, err := time.ParseDuration(v.GetString("watch_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid watch timeout: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		DeepSeekAPIKey:      v.GetString("deepseek.api_key"),
		DeepSeekBaseURL:     v.GetString("deepseek.base_url"),
		DeepSeekModel:       v.GetString("deepseek.model"),
		DeepSeekMaxTokens:   v.GetInt("deepseek.max_tokens"),
		DeepSeekTemperature: float32(v.GetFloat64("deepseek.temperature")),
		RegistryAddress:     v.GetString("registry.address"),
		ChainRPCURL:         v.GetString("chain.rpc_url"),
		ChainID:             v.GetInt64("chain.id"),
		OperatorKey:         v.GetString("operator.key"),
		ListCacheTTL:        ttl,
		ListPageSize:        v.GetInt("list.page_size"),
		WatchTimeout:        watchTimeout,
		EvidenceMaxMB:       v.GetInt("evidence.max_mb"),
		CloudinaryName:      v.GetString("cloudinary.cloud_name"),
		CloudinaryKey:       v.GetString("cloudinary.api_key"),
		CloudinarySecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryFolder:    v.GetString("cloudinary.folder"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.ListPageSize <= 0 {
		cfg.ListPageSize = 50
	}

	if cfg.DeepSeekMaxTokens <= 0 {
		cfg.DeepSeekMaxTokens = 700
	}

	return cfg, nil
}
