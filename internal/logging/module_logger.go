package logging

import (
	"context"

	"github.com/goliatone/go-profiles/pkg/interfaces"
)

const (
	rootModule     = "profiles"
	nodesModule    = "profiles.nodes"
	treeModule     = "profiles.tree"
	searchModule   = "profiles.search"
	olapModule     = "profiles.olap"
	jobsModule     = "profiles.jobs"
	orderingModule = "profiles.ordering"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// NodesLogger returns the logger namespace reserved for node mutations.
func NodesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, nodesModule)
}

// TreeLogger returns the logger namespace reserved for tree assembly.
func TreeLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, treeModule)
}

// SearchLogger returns the logger namespace reserved for search indexing.
func SearchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, searchModule)
}

// OLAPLogger returns the logger namespace reserved for the OLAP client.
func OLAPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, olapModule)
}

// JobsLogger returns the logger namespace reserved for background jobs.
func JobsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, jobsModule)
}

// OrderingLogger returns the logger namespace reserved for ordering repairs.
func OrderingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, orderingModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
