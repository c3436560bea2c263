// Package config loads runtime settings from environment variables and an
// optional config file.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr        string `mapstructure:"addr"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`

	// Store selects the snapshot backend: memory, redis or postgres.
	Store        string `mapstructure:"store"`
	RedisAddr    string `mapstructure:"redis_addr"`
	DatabaseURL  string `mapstructure:"database_url"`
	InventoryKey string `mapstructure:"inventory_key"`

	JWTSecret string `mapstructure:"jwt_secret"`

	SaleCooldown    time.Duration `mapstructure:"sale_cooldown"`
	FailureCooldown time.Duration `mapstructure:"failure_cooldown"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// Load reads lot-tracker.yaml from the working directory when present and
// overlays LOTTRACKER_* environment variables.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("store", "memory")
	v.SetDefault("redis_addr", "localhost:6379")
	// Every key needs a default (even an empty one): AutomaticEnv only
	// binds env vars for keys viper already knows about.
	v.SetDefault("database_url", "")
	v.SetDefault("inventory_key", "lot-tracker:inventory")
	v.SetDefault("jwt_secret", "change-me-in-prod")
	v.SetDefault("sale_cooldown", 2*time.Second)
	v.SetDefault("failure_cooldown", time.Second)
	v.SetDefault("refresh_interval", 5*time.Second)

	v.SetConfigName("lot-tracker")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LOTTRACKER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
