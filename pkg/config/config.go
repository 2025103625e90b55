package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the contract stub server settings
type Config struct {
	Port    string
	Env     string
	Verbose bool
}

// Load reads the server settings from the environment, after .env if present
func Load() *Config {
	LoadDotEnv()
	return &Config{
		Port:    getEnv("PORT", "8080"),
		Env:     getEnv("ENV", "development"),
		Verbose: getEnv("VERBOSE", "") != "",
	}
}

// LoadDotEnv loads .env into the process environment. A missing file is fine;
// variables that are already set win.
func LoadDotEnv(filenames ...string) bool {
	return godotenv.Load(filenames...) == nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// EnvPrefix namespaces the client environment variables, e.g. CAFELIKE_CAFE_ID.
const EnvPrefix = "CAFELIKE"

// ClientConfig holds the settings of the like toggle client
type ClientConfig struct {
	BaseURL    string        `mapstructure:"base_url" validate:"required,url"`
	CafeID     int64         `mapstructure:"cafe_id" validate:"required,gt=0"`
	UserID     string        `mapstructure:"user_id" validate:"max=64"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Optimistic bool          `mapstructure:"optimistic"`
	Env        string        `mapstructure:"env"`
	Verbose    bool          `mapstructure:"verbose"`
}

// NewClientViper returns a viper instance with the client defaults and
// CAFELIKE_* environment binding. Callers bind their flags on top.
func NewClientViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("cafe_id", 0)
	v.SetDefault("user_id", "")
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("optimistic", false)
	v.SetDefault("env", "production")
	v.SetDefault("verbose", false)
	return v
}

// LoadClient decodes and validates the client settings held by v
func LoadClient(v *viper.Viper) (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode client config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	return cfg, nil
}
