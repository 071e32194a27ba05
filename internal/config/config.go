package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorageBunt     = "buntdb"
	StoragePostgres = "postgres"

	AlphabetBase36 = "base36"
	AlphabetBase62 = "base62"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Shortener  ShortenerConfig
	Database   DatabaseConfig
	App        AppConfig
	Generation GenerationConfig
	Media      MediaConfig
	Render     RenderConfig
	Service    ServiceConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true"`
	Host            string        `envconfig:"SERVER_HOST" required:"true"`
	BaseURL         string        `envconfig:"SERVER_BASE_URL" required:"true"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" required:"true"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" required:"true"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" required:"true"`
	AllowedOrigins  []string      `envconfig:"SERVER_ALLOWED_ORIGINS"` // empty allows all
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// StorageConfig selects the link store.
type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"buntdb"`   // buntdb, postgres
	Path   string `envconfig:"STORAGE_PATH" default:":memory:"` // buntdb file, or :memory:
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageBunt:
		if c.Path == "" {
			return fmt.Errorf("path cannot be empty for the %s driver", StorageBunt)
		}
	case StoragePostgres:
	default:
		return fmt.Errorf("invalid storage driver: %s (must be one of: %s, %s)", c.Driver, StorageBunt, StoragePostgres)
	}
	return nil
}

// ShortenerConfig tunes generated short codes.
type ShortenerConfig struct {
	CodeLength int    `envconfig:"SHORTENER_CODE_LENGTH" default:"6"`
	Alphabet   string `envconfig:"SHORTENER_CODE_ALPHABET" default:"base36"` // base36, base62
}

// Validate validates the shortener configuration.
func (c *ShortenerConfig) Validate() error {
	if c.CodeLength < 3 || c.CodeLength > 64 {
		return fmt.Errorf("code length must be between 3 and 64, got %d", c.CodeLength)
	}
	if c.Alphabet != AlphabetBase36 && c.Alphabet != AlphabetBase62 {
		return fmt.Errorf("invalid code alphabet: %s (must be one of: %s, %s)", c.Alphabet, AlphabetBase36, AlphabetBase62)
	}
	return nil
}

// DatabaseConfig holds database connection configuration. It is only read
// and validated when the postgres storage driver is selected.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.User == "" {
		return fmt.Errorf("user cannot be empty")
	}
	if c.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("max connections must be positive")
	}
	if c.MinConns <= 0 {
		return fmt.Errorf("min connections must be positive")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min connections (%d) cannot be greater than max connections (%d)", c.MinConns, c.MaxConns)
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s (must be one of: disable, require, verify-ca, verify-full)", c.SSLMode)
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" required:"true"`   // development, staging, production, test
	LogLevel    string `envconfig:"LOG_LEVEL" required:"true"` // debug, info, warn, error
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Environment)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// GenerationConfig tunes the simulated generation delay and session expiry.
type GenerationConfig struct {
	MinDelay   time.Duration `envconfig:"GENERATION_MIN_DELAY" default:"2s"`
	MaxDelay   time.Duration `envconfig:"GENERATION_MAX_DELAY" default:"4s"`
	SessionTTL time.Duration `envconfig:"GENERATION_SESSION_TTL" default:"30m"`
	Seed       uint64        `envconfig:"GENERATION_SEED"` // 0 draws a random seed
}

// Validate validates the generation configuration.
func (c *GenerationConfig) Validate() error {
	if c.MinDelay < 0 {
		return fmt.Errorf("min delay cannot be negative")
	}
	if c.MaxDelay < c.MinDelay {
		return fmt.Errorf("max delay (%s) cannot be less than min delay (%s)", c.MaxDelay, c.MinDelay)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	return nil
}

// MediaConfig holds media library and downloader configuration.
type MediaConfig struct {
	MaxUploadBytes int64         `envconfig:"MEDIA_MAX_UPLOAD_BYTES" default:"104857600"`
	DownloadTick   time.Duration `envconfig:"MEDIA_DOWNLOAD_TICK" default:"500ms"`
	DownloadTTL    time.Duration `envconfig:"MEDIA_DOWNLOAD_TTL" default:"30m"`
}

// Validate validates the media configuration.
func (c *MediaConfig) Validate() error {
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}
	if c.DownloadTick <= 0 {
		return fmt.Errorf("download tick must be positive")
	}
	if c.DownloadTTL <= 0 {
		return fmt.Errorf("download ttl must be positive")
	}
	return nil
}

// RenderConfig holds result rendering options.
type RenderConfig struct {
	CodeStyle string `envconfig:"RENDER_CODE_STYLE" default:"dracula"`
	TermStyle string `envconfig:"RENDER_TERM_STYLE" default:"dark"`
	Width     int    `envconfig:"RENDER_WIDTH" default:"80"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	if c.Width < 20 {
		return fmt.Errorf("render width must be at least 20, got %d", c.Width)
	}
	return nil
}

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name    string `envconfig:"SERVICE_NAME" default:"toolbench"`
	Version string `envconfig:"SERVICE_VERSION" default:"dev"`
}

// Validate validates the service configuration.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	return nil
}

type section interface {
	Validate() error
}

// Load loads configuration from environment variables only.
// (Do .env loading in the app for dev, not here.)
func Load() (*Config, error) {
	cfg := &Config{}

	sections := []struct {
		name string
		target section
	}{
		{"Server", &cfg.Server},
		{"Storage", &cfg.Storage},
		{"Shortener", &cfg.Shortener},
		{"App", &cfg.App},
		{"Generation", &cfg.Generation},
		{"Media", &cfg.Media},
		{"Render", &cfg.Render},
		{"Service", &cfg.Service},
	}
	for _, s := range sections {
		if err := envconfig.Process("", s.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", s.name, err)
		}
		if err := s.target.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s config: %w", s.name, err)
		}
	}

	if cfg.Storage.Driver == StoragePostgres {
		if err := envconfig.Process("", &cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to load Database config: %w", err)
		}
		if err := cfg.Database.Validate(); err != nil {
			return nil, fmt.Errorf("invalid Database config: %w", err)
		}
	}

	return cfg, nil
}
