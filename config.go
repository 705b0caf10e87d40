package profiles

import "github.com/goliatone/go-profiles/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired          = runtimeconfig.ErrDefaultLocaleRequired
	ErrSearchRequiresOLAP             = runtimeconfig.ErrSearchRequiresOLAP
	ErrCommandsCronRequiresScheduling = runtimeconfig.ErrCommandsCronRequiresScheduling
	ErrOLAPFlavorUnknown              = runtimeconfig.ErrOLAPFlavorUnknown
	ErrLoggingProviderRequired        = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown         = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid            = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid           = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	StorageConfig  = runtimeconfig.StorageConfig
	OLAPConfig     = runtimeconfig.OLAPConfig
	JobsConfig     = runtimeconfig.JobsConfig
	CommandsConfig = runtimeconfig.CommandsConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
	Features       = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
