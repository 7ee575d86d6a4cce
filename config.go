package translations

import "github.com/goliatone/go-translations/internal/runtimeconfig"

type (
	Config        = runtimeconfig.Config
	LoggingConfig = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the starting configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
