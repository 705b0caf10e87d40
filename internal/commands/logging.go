package commands

import (
	"strings"

	"github.com/goliatone/go-profiles/internal/logging"
	"github.com/goliatone/go-profiles/pkg/interfaces"
)

const commandModuleRoot = "profiles.commands"

// CommandLogger returns a module-scoped logger for command handlers, enriching it with
// consistent structured fields across command executions.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
