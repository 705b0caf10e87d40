package searchcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-profiles/internal/commands"
	"github.com/goliatone/go-profiles/internal/nodes"
	"github.com/goliatone/go-profiles/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the search command handlers produced by RegisterSearchCommands.
type HandlerSet struct {
	Repopulate *RepopulateSearchHandler
	Prune      *PruneSearchHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	repopulateHandlerOpts []commands.HandlerOption[RepopulateSearchCommand]
	pruneHandlerOpts      []commands.HandlerOption[PruneSearchCommand]
}

// WithRepopulateHandlerOptions forwards options to the RepopulateSearchHandler constructor.
func WithRepopulateHandlerOptions(opts ...commands.HandlerOption[RepopulateSearchCommand]) Option {
	return func(cfg *options) {
		cfg.repopulateHandlerOpts = append(cfg.repopulateHandlerOpts, opts...)
	}
}

// WithPruneHandlerOptions forwards options to the PruneSearchHandler constructor.
func WithPruneHandlerOptions(opts ...commands.HandlerOption[PruneSearchCommand]) Option {
	return func(cfg *options) {
		cfg.pruneHandlerOpts = append(cfg.pruneHandlerOpts, opts...)
	}
}

// RegisterSearchCommands builds the search command handlers and registers them with the
// provided registry. The constructed HandlerSet is returned so callers can wire additional
// integrations (dispatcher, cron) as needed.
func RegisterSearchCommands(reg CommandRegistry, bindings BindingReader, indexer nodes.SearchTrigger, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if bindings == nil {
		return nil, errors.New("search command registration: binding reader is nil")
	}
	if indexer == nil {
		return nil, errors.New("search command registration: indexer is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "search")

	repopulateHandler := NewRepopulateSearchHandler(bindings, indexer, logger, cfg.repopulateHandlerOpts...)
	pruneHandler := NewPruneSearchHandler(indexer, logger, cfg.pruneHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(repopulateHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(pruneHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Repopulate: repopulateHandler,
		Prune:      pruneHandler,
	}, nil
}

// RegisterSearchCron wires the repopulate handler into a cron registrar using the supplied
// command configuration and message payload. The handler runs with a background context.
func RegisterSearchCron(reg CronRegistrar, handler *RepopulateSearchHandler, cfg command.HandlerConfig, msg RepopulateSearchCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
