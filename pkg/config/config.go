package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL  string `mapstructure:"api_base_url"`
	Environment string `mapstructure:"environment"`

	Payment PaymentConfig `mapstructure:"payment"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Search  SearchConfig  `mapstructure:"search"`
	Retry   RetryConfig   `mapstructure:"retry"`

	// Free shipping kicks in at FreeShippingAbove; below it the flat
	// ShippingFee applies.
	FreeShippingAbove float64 `mapstructure:"free_shipping_above"`
	ShippingFee       float64 `mapstructure:"shipping_fee"`

	// StateDir holds the persisted session and cart snapshot files.
	StateDir string `mapstructure:"state_dir"`
}

type PaymentConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	PublishableKey string `mapstructure:"publishable_key"`
}

type CacheConfig struct {
	StaleAfter    time.Duration `mapstructure:"stale_after"`
	TaxonomyStale time.Duration `mapstructure:"taxonomy_stale"`
	GCAfter       time.Duration `mapstructure:"gc_after"`
}

type SearchConfig struct {
	Debounce  time.Duration `mapstructure:"debounce"`
	MinLength int           `mapstructure:"min_length"`
	MaxHits   int           `mapstructure:"max_hits"`
}

type RetryConfig struct {
	Reads int `mapstructure:"reads"`
}

// Load reads config.yaml plus MERCADILLO_-prefixed environment overrides.
// A local .env file is loaded first so overrides work in development.
func Load() (*Config, error) {
	godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.mercadillo/")

	v.SetEnvPrefix("MERCADILLO")
	v.AutomaticEnv()

	v.SetDefault("api_base_url", "http://localhost:8000")
	v.SetDefault("environment", "development")
	v.SetDefault("payment.base_url", "https://api.stripe.com/v1")
	v.SetDefault("payment.publishable_key", "")
	v.SetDefault("cache.stale_after", 5*time.Minute)
	v.SetDefault("cache.taxonomy_stale", time.Hour)
	v.SetDefault("cache.gc_after", 10*time.Minute)
	v.SetDefault("search.debounce", 300*time.Millisecond)
	v.SetDefault("search.min_length", 2)
	v.SetDefault("search.max_hits", 5)
	v.SetDefault("retry.reads", 1)
	v.SetDefault("free_shipping_above", 1000)
	v.SetDefault("shipping_fee", 10)
	v.SetDefault("state_dir", ".mercadillo")

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults and env cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
