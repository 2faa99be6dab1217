package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrBaseURLRequired        = errors.New("contentblocks config: base url is required")
	ErrWebsiteRootRequired    = errors.New("contentblocks config: frontend website root is required outside development")
	ErrOriginPatternRequired  = errors.New("contentblocks config: frontend app origin pattern is required in development")
	ErrStorageProviderUnknown = errors.New("contentblocks config: storage provider is invalid")
	ErrStorageDriverUnknown   = errors.New("contentblocks config: storage driver is invalid")
	ErrLoggingLevelInvalid    = errors.New("contentblocks config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("contentblocks config: logging format is invalid")
)

// Config is the root runtime configuration for the content-blocks module.
type Config struct {
	// BaseURL is the host application's externally visible base URL.
	// Rewritten preview links and relay redirects are rooted here.
	BaseURL string
	// DefaultLocale scopes rendering when the caller supplies none.
	DefaultLocale string
	Storage       StorageConfig
	Cache         CacheConfig
	Frontend      FrontendConfig
	Relay         RelayConfig
	HTTP          HTTPConfig
	Logging       LoggingConfig
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Provider is "memory" or "bun".
	Provider string
	// Driver is the database/sql driver used when Provider is "bun",
	// either "sqlite3" or "postgres". Ignored when a *bun.DB is injected.
	Driver string
	// DSN is the connection string handed to the driver.
	DSN string
}

// CacheConfig toggles read caching on the bun repositories. Disabled by
// default since preview correctness depends on fresh lifecycle state.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// FrontendConfig drives origin resolution for page fetches.
type FrontendConfig struct {
	WebsiteRoot      string
	Development      bool
	AppOriginPattern string
	FetchTimeout     time.Duration
}

// RelayConfig bounds the form relay.
type RelayConfig struct {
	AllowedSuffix string
	Timeout       time.Duration
}

// HTTPConfig shapes the mounted endpoints.
type HTTPConfig struct {
	BasePath string
}

// LoggingConfig captures options for the go-logger provider.
type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns a runnable development configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:8080",
		DefaultLocale: "en",
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Minute,
		},
		Frontend: FrontendConfig{
			WebsiteRoot:      "https://www.gov.uk",
			Development:      false,
			AppOriginPattern: "http://%s.dev.gov.uk",
			FetchTimeout:     10 * time.Second,
		},
		Relay: RelayConfig{
			AllowedSuffix: "gov.uk",
			Timeout:       10 * time.Second,
		},
		HTTP: HTTPConfig{
			BasePath: "/",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

var validLogLevels = map[string]struct{}{
	"": {}, "trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {},
}

var validLogFormats = map[string]struct{}{
	"": {}, "json": {}, "console": {}, "pretty": {},
}

// Validate reports the first configuration problem found.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return ErrBaseURLRequired
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)) {
	case "", "memory", "bun":
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case "", "sqlite3", "postgres":
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}

	if cfg.Frontend.Development {
		if strings.TrimSpace(cfg.Frontend.AppOriginPattern) == "" {
			return ErrOriginPatternRequired
		}
	} else if strings.TrimSpace(cfg.Frontend.WebsiteRoot) == "" {
		return ErrWebsiteRootRequired
	}

	if _, ok := validLogLevels[strings.ToLower(strings.TrimSpace(cfg.Logging.Level))]; !ok {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, cfg.Logging.Level)
	}
	if _, ok := validLogFormats[strings.ToLower(strings.TrimSpace(cfg.Logging.Format))]; !ok {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, cfg.Logging.Format)
	}

	return nil
}
