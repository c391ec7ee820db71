package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const minShareSecretLength = 32

var insecureShareSecrets = map[string]struct{}{
	"change_me_in_production": {},
	"changeme":                {},
	"secret":                  {},
}

type Config struct {
	Port            string        `mapstructure:"PORT"`
	Timezone        string        `mapstructure:"TZ"`
	DefaultLanguage string        `mapstructure:"DEFAULT_LANGUAGE"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	LogPretty       bool          `mapstructure:"LOG_PRETTY"`
	ReferenceDBPath string        `mapstructure:"REFERENCE_DB_PATH"`
	ShareSecret     string        `mapstructure:"SHARE_SECRET"`
	ShareTokenTTL   time.Duration `mapstructure:"SHARE_TOKEN_TTL"`
}

// Load reads configuration from the environment, falling back to an optional
// .env file in the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("TZ", "UTC")
	v.SetDefault("DEFAULT_LANGUAGE", "ru")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("REFERENCE_DB_PATH", "")
	v.SetDefault("SHARE_SECRET", "")
	v.SetDefault("SHARE_TOKEN_TTL", "720h")

	for _, key := range []string{
		"PORT",
		"TZ",
		"DEFAULT_LANGUAGE",
		"LOG_LEVEL",
		"LOG_PRETTY",
		"REFERENCE_DB_PATH",
		"SHARE_SECRET",
		"SHARE_TOKEN_TTL",
	} {
		_ = v.BindEnv(key)
	}

	// A missing .env is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ShareSecret = strings.TrimSpace(cfg.ShareSecret)
	cfg.ReferenceDBPath = strings.TrimSpace(cfg.ReferenceDBPath)
	return cfg, nil
}

func (c *Config) SharingEnabled() bool {
	return c.ShareSecret != ""
}

// Location resolves TZ; an unknown zone is a configuration error.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", name, err)
	}
	return location, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if !c.SharingEnabled() {
		return nil
	}
	if _, insecure := insecureShareSecrets[strings.ToLower(c.ShareSecret)]; insecure {
		return fmt.Errorf("SHARE_SECRET uses an insecure placeholder value")
	}
	if len(c.ShareSecret) < minShareSecretLength {
		return fmt.Errorf("SHARE_SECRET must be at least %d characters", minShareSecretLength)
	}
	if c.ShareTokenTTL <= 0 {
		return fmt.Errorf("SHARE_TOKEN_TTL must be positive, got %s", c.ShareTokenTTL)
	}
	return nil
}
