package runtimeconfig

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config aggregates the static language tables and ambient options for the
// translations module. Fields use simple types so host applications can load
// them from their own configuration layer.
type Config struct {
	// DefaultLanguage is the canonical code whose values live in the
	// canonical columns. It terminates every fallback chain.
	DefaultLanguage string
	// Aliases maps raw short codes to canonical codes, e.g. "en" -> "en_us".
	Aliases map[string]string
	// Fallbacks maps canonical codes to the ordered codes tried when a
	// translation is missing, e.g. "fr_ca" -> ["fr_fr"].
	Fallbacks map[string][]string
	// OverrideHeader names the HTTP header carrying an ambient language
	// override. Empty selects the built-in default.
	OverrideHeader string
	// Logging configures the optional go-logger provider.
	Logging LoggingConfig
}

// LoggingConfig mirrors the go-logger adapter options.
type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
}

// DefaultConfig returns the starting configuration: English (US) canonical
// columns with a single short-code alias and no fallbacks.
func DefaultConfig() Config {
	return Config{
		DefaultLanguage: "en_us",
		Aliases:         map[string]string{"en": "en_us"},
		Fallbacks:       map[string][]string{},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the language tables before the module boots. A malformed
// fallback table is a fatal configuration error.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DefaultLanguage, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("translations.config.default_language_required", "default language is required")
			}
			return nil
		})),
		validation.Field(&c.Aliases, validation.By(func(any) error {
			for raw, canonical := range c.Aliases {
				if strings.TrimSpace(raw) == "" || strings.TrimSpace(canonical) == "" {
					return validation.NewError("translations.config.alias_invalid", "alias table codes must be non-blank")
				}
			}
			return nil
		})),
		validation.Field(&c.Fallbacks, validation.By(func(any) error {
			for code, chain := range c.Fallbacks {
				if strings.TrimSpace(code) == "" {
					return validation.NewError("translations.config.fallback_code_invalid", "fallback table keys must be non-blank")
				}
				if len(chain) == 0 {
					return validation.NewError("translations.config.fallback_list_empty", "fallback table entries must be non-empty lists of codes")
				}
				for _, fb := range chain {
					if strings.TrimSpace(fb) == "" {
						return validation.NewError("translations.config.fallback_entry_invalid", "fallback table lists must contain non-blank codes")
					}
				}
			}
			return nil
		})),
	)
}
