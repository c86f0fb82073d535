// Package config handles application configuration using Viper.
// Viper merges defaults, a YAML file and environment variables, in that
// priority order, and the result is unmarshaled into typed structs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration struct. Nested structs organize related settings.
// `mapstructure` tags tell Viper how to map YAML/env keys to struct fields.
type Config struct {
	Server         ServerConfig     `mapstructure:"server"`
	Storage        StorageConfig    `mapstructure:"storage"`
	Auth           AuthConfig       `mapstructure:"auth"`
	CORS           CORSConfig       `mapstructure:"cors"`
	Generation     GenerationConfig `mapstructure:"generation"`
	Images         ImagesConfig     `mapstructure:"images"`
	RateLimit      RateLimitConfig  `mapstructure:"rate_limit"`
	FeaturedPlaces []string         `mapstructure:"featured_places"`
	Log            LogConfig        `mapstructure:"log"`
	Tracing        TracingConfig    `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	// Backend selects the cache store: "sqlite", "valkey" or "memory".
	// The generation call log always lives in SQLite.
	Backend      string        `mapstructure:"backend"`
	DatabasePath string        `mapstructure:"database_path"`
	TTL          time.Duration `mapstructure:"ttl"` // 0 keeps entries forever
	Valkey       ValkeyConfig  `mapstructure:"valkey"`
}

type ValkeyConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Password  string   `mapstructure:"password"`
	DB        int      `mapstructure:"db"`
	KeyPrefix string   `mapstructure:"key_prefix"`
}

type AuthConfig struct {
	APIKeys   []string `mapstructure:"api_keys"`
	AdminKeys []string `mapstructure:"admin_keys"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type GenerationConfig struct {
	// ProviderOrder controls which backends are used and in what order.
	// First provider is primary, rest are fallbacks. Example: ["gemini", "anthropic"]
	ProviderOrder  []string      `mapstructure:"provider_order"`
	Language       string        `mapstructure:"language"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RatePerMinute  int           `mapstructure:"rate_per_minute"`
	DedupeInFlight bool          `mapstructure:"dedupe_in_flight"`
	FailureMessage string        `mapstructure:"failure_message"`
	Gemini         BackendConfig `mapstructure:"gemini"`
	Anthropic      BackendConfig `mapstructure:"anthropic"`
	OpenAI         BackendConfig `mapstructure:"openai"`
}

// BackendConfig holds the credentials of one generation backend.
// BaseURL is optional and points the client at a proxy or a test server.
type BackendConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type ImagesConfig struct {
	ProviderOrder []string      `mapstructure:"provider_order"`
	DefaultURL    string        `mapstructure:"default_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Unsplash      KeyConfig     `mapstructure:"unsplash"`
	Pexels        KeyConfig     `mapstructure:"pexels"`
}

type KeyConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// TracingConfig names the service on exported spans. Spans are logged at
// debug level.
type TracingConfig struct {
	ServiceName string `mapstructure:"service_name"`
}

// DefaultFeaturedPlaces are pre-generated by the warm-up jobs and listed by
// discovery surfaces.
var DefaultFeaturedPlaces = []string{
	"東京", "大阪", "京都", "札幌", "福岡", "那覇", "横浜", "名古屋", "金沢", "広島", "仙台",
	"ソウル", "台北", "香港", "バンコク", "シンガポール",
	"パリ", "ロンドン", "ローマ", "ニューヨーク", "ロサンゼルス", "ドバイ",
	"東京タワー", "東京スカイツリー", "USJ", "清水寺", "富士山",
	"エッフェル塔", "サグラダ・ファミリア", "自由の女神", "マチュピチュ",
}

// Load reads configuration from a YAML file and environment variables.
// An empty configPath searches ./config.yaml and ./config/config.yaml; a
// missing file is fine there, but an explicit path must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults: these apply when neither file nor env provides a value
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.database_path", "./storage/location-service.db")
	v.SetDefault("storage.ttl", "0s")
	v.SetDefault("storage.valkey.addresses", []string{"127.0.0.1:6379"})
	v.SetDefault("storage.valkey.key_prefix", "location")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("generation.provider_order", []string{"gemini"})
	v.SetDefault("generation.language", "Japanese")
	v.SetDefault("generation.timeout", "60s")
	v.SetDefault("generation.rate_per_minute", 10)
	v.SetDefault("generation.dedupe_in_flight", true)
	v.SetDefault("generation.gemini.model", "gemini-2.5-flash-lite")
	v.SetDefault("generation.anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("generation.openai.model", "gpt-4o")
	v.SetDefault("images.provider_order", []string{"unsplash", "pexels"})
	v.SetDefault("images.timeout", "10s")
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("featured_places", DefaultFeaturedPlaces)
	v.SetDefault("log.level", "info")
	v.SetDefault("tracing.service_name", "location-service")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Environment variables override everything.
	// LOCATION_ prefix + nested keys: LOCATION_SERVER_PORT=9090 → server.port=9090
	v.SetEnvPrefix("LOCATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only sees keys Viper already knows; bind the secrets that
	// have no default so they can come from the environment alone.
	for _, key := range []string{
		"generation.gemini.api_key",
		"generation.anthropic.api_key",
		"generation.openai.api_key",
		"images.unsplash.api_key",
		"images.pexels.api_key",
		"storage.valkey.password",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Address returns the listen address string like "0.0.0.0:8080".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
