package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigName is the base name of the config file looked up in the home
// directory (~/.toolgen.yaml).
const ConfigName = ".toolgen"

// Config holds CLI preferences.
type Config struct {
	Format    string        `mapstructure:"format"`
	CodeStyle string        `mapstructure:"code_style"`
	TermStyle string        `mapstructure:"term_style"`
	Width     int           `mapstructure:"width"`
	MinDelay  time.Duration `mapstructure:"min_delay"`
	MaxDelay  time.Duration `mapstructure:"max_delay"`
	Seed      uint64        `mapstructure:"seed"`
	Store     string        `mapstructure:"store"`
	BaseURL   string        `mapstructure:"base_url"`
}

// LoadConfig reads path, or ~/.toolgen.yaml when path is empty. A missing
// default file is not an error. TOOLGEN_* variables override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(home)
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	v.SetDefault("format", "terminal")
	v.SetDefault("code_style", "dracula")
	v.SetDefault("term_style", "auto")
	v.SetDefault("width", 100)
	v.SetDefault("min_delay", 2*time.Second)
	v.SetDefault("max_delay", 4*time.Second)
	v.SetDefault("seed", 0)
	v.SetDefault("store", filepath.Join(home, ".toolgen-links.db"))
	v.SetDefault("base_url", "http://localhost:8080")

	v.SetEnvPrefix("TOOLGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.MaxDelay < cfg.MinDelay {
		return nil, fmt.Errorf("max_delay (%s) cannot be less than min_delay (%s)", cfg.MaxDelay, cfg.MinDelay)
	}
	return &cfg, nil
}
