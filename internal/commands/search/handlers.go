package searchcmd

import (
	"context"
	"fmt"

	"github.com/goliatone/go-profiles/internal/commands"
	"github.com/goliatone/go-profiles/internal/logging"
	"github.com/goliatone/go-profiles/internal/nodes"
	"github.com/goliatone/go-profiles/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	repopulateOperation = "search.repopulate"
	pruneOperation      = "search.prune"
)

// BindingReader loads dimension bindings for reindex commands. The nodes
// store satisfies it.
type BindingReader interface {
	GetBinding(ctx context.Context, id int64) (*nodes.DimensionBinding, error)
}

var (
	_ command.Commander[RepopulateSearchCommand] = (*RepopulateSearchHandler)(nil)
	_ command.Commander[PruneSearchCommand]      = (*PruneSearchHandler)(nil)
)

// RepopulateSearchHandler rebuilds search rows for a binding via the shared command foundation.
type RepopulateSearchHandler struct {
	inner *commands.Handler[RepopulateSearchCommand]
}

// NewRepopulateSearchHandler creates a handler bound to the supplied binding reader and indexer.
func NewRepopulateSearchHandler(bindings BindingReader, indexer nodes.SearchTrigger, logger interfaces.Logger, opts ...commands.HandlerOption[RepopulateSearchCommand]) *RepopulateSearchHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RepopulateSearchCommand) error {
		binding, err := bindings.GetBinding(ctx, msg.BindingID)
		if err != nil {
			return fmt.Errorf("load binding %d: %w", msg.BindingID, err)
		}
		if err := indexer.PopulateDimension(ctx, *binding); err != nil {
			return fmt.Errorf("repopulate %s: %w", binding.Dimension, err)
		}
		logging.WithFields(baseLogger, map[string]any{
			"binding_id": msg.BindingID,
			"dimension":  binding.Dimension,
		}).Info("search.command.repopulate.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RepopulateSearchCommand]{
		commands.WithLogger[RepopulateSearchCommand](baseLogger),
		commands.WithOperation[RepopulateSearchCommand](repopulateOperation),
		commands.WithMessageFields(func(msg RepopulateSearchCommand) map[string]any {
			return map[string]any{"binding_id": msg.BindingID}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RepopulateSearchCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RepopulateSearchHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RepopulateSearchCommand].
func (h *RepopulateSearchHandler) Execute(ctx context.Context, msg RepopulateSearchCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PruneSearchHandler removes orphaned dimension rows via the shared command foundation.
type PruneSearchHandler struct {
	inner *commands.Handler[PruneSearchCommand]
}

// NewPruneSearchHandler creates a handler bound to the supplied indexer.
func NewPruneSearchHandler(indexer nodes.SearchTrigger, logger interfaces.Logger, opts ...commands.HandlerOption[PruneSearchCommand]) *PruneSearchHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg PruneSearchCommand) error {
		if err := indexer.PruneDimension(ctx, msg.Dimension); err != nil {
			return fmt.Errorf("prune %s: %w", msg.Dimension, err)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[PruneSearchCommand]{
		commands.WithLogger[PruneSearchCommand](baseLogger),
		commands.WithOperation[PruneSearchCommand](pruneOperation),
		commands.WithMessageFields(func(msg PruneSearchCommand) map[string]any {
			return map[string]any{"dimension": msg.Dimension}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[PruneSearchCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PruneSearchHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PruneSearchCommand].
func (h *PruneSearchHandler) Execute(ctx context.Context, msg PruneSearchCommand) error {
	return h.inner.Execute(ctx, msg)
}
