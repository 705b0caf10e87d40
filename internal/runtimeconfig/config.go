package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDefaultLocaleRequired indicates the locale list lost its default entry.
var ErrDefaultLocaleRequired = errors.New("profiles config: default locale must be present in the locale list")

// ErrSearchRequiresOLAP ensures search indexing stays behind a reachable cube server.
var ErrSearchRequiresOLAP = errors.New("profiles config: search feature requires an OLAP base URL")

// ErrCommandsCronRequiresScheduling ensures automatic cron wiring only runs when scheduling is enabled.
var ErrCommandsCronRequiresScheduling = errors.New("profiles config: command cron auto-registration requires scheduling to be enabled")

var ErrOLAPFlavorUnknown = errors.New("profiles config: olap flavor is invalid")
var ErrLoggingProviderRequired = errors.New("profiles config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("profiles config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("profiles config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("profiles config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the profiles module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled       bool
	DefaultLocale string
	Locales       []string
	Storage       StorageConfig
	OLAP          OLAPConfig
	Jobs          JobsConfig
	Commands      CommandsConfig
	Logging       LoggingConfig
	Features      Features
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
	DSN      string
}

// OLAPConfig points the search indexer at the cube server.
type OLAPConfig struct {
	BaseURL string
	// Flavor pins the server dialect. Empty means probe once at startup.
	Flavor  string
	Timeout time.Duration
}

// JobsConfig controls the background runner used for ordering repairs and reindexing.
type JobsConfig struct {
	// Synchronous runs dispatched tasks inline. Tests and one-shot CLIs want this.
	Synchronous bool
	Timeout     time.Duration
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled          bool
	AutoRegisterCron bool
	RepopulateCron   string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Search     bool
	Stories    bool
	Scheduling bool
	Logger     bool
}

// DefaultConfig returns opinionated defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		DefaultLocale: "en",
		Locales:       []string{"en"},
		Storage: StorageConfig{
			Provider: "bun",
		},
		OLAP: OLAPConfig{
			Timeout: 30 * time.Second,
		},
		Jobs: JobsConfig{
			Timeout: 30 * time.Second,
		},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
		Features: Features{
			Search:  true,
			Stories: true,
		},
	}
}

// OrderedLocales returns the locale list with the default locale first. The
// indexer relies on the default locale being processed before translations so
// slugs derive from default-locale names.
func (cfg Config) OrderedLocales() []string {
	def := strings.TrimSpace(cfg.DefaultLocale)
	ordered := make([]string, 0, len(cfg.Locales))
	if def != "" {
		ordered = append(ordered, def)
	}
	for _, locale := range cfg.Locales {
		if locale == def {
			continue
		}
		ordered = append(ordered, locale)
	}
	return ordered
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLocale) != "" && !containsLocale(cfg.Locales, cfg.DefaultLocale) {
		return ErrDefaultLocaleRequired
	}
	if cfg.Features.Search && strings.TrimSpace(cfg.OLAP.BaseURL) == "" {
		return ErrSearchRequiresOLAP
	}
	if flavor := normalizeToken(cfg.OLAP.Flavor); flavor != "" && !isSupportedFlavor(flavor) {
		return fmt.Errorf("%w: %s", ErrOLAPFlavorUnknown, flavor)
	}
	if cfg.Commands.AutoRegisterCron && !cfg.Features.Scheduling {
		return ErrCommandsCronRequiresScheduling
	}
	if cfg.Features.Logger {
		provider := normalizeToken(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func containsLocale(locales []string, locale string) bool {
	for _, candidate := range locales {
		if candidate == locale {
			return true
		}
	}
	return false
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedFlavor(flavor string) bool {
	switch flavor {
	case "tesseract", "mondrian":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
