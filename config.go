package contentblocks

import "github.com/goliatone/go-content-blocks/internal/runtimeconfig"

var (
	ErrBaseURLRequired        = runtimeconfig.ErrBaseURLRequired
	ErrWebsiteRootRequired    = runtimeconfig.ErrWebsiteRootRequired
	ErrOriginPatternRequired  = runtimeconfig.ErrOriginPatternRequired
	ErrStorageProviderUnknown = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	FrontendConfig = runtimeconfig.FrontendConfig
	RelayConfig    = runtimeconfig.RelayConfig
	HTTPConfig     = runtimeconfig.HTTPConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

// DefaultConfig returns a runnable development configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
