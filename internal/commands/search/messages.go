package searchcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	repopulateMessageType = "profiles.search.repopulate"
	pruneMessageType      = "profiles.search.prune"
)

// RepopulateSearchCommand rebuilds the search rows for one dimension binding.
// The binding's cube, hierarchy levels, and measure are re-read from storage
// so the command payload stays a plain identifier.
type RepopulateSearchCommand struct {
	// BindingID selects the profile_meta row whose dimension gets reindexed.
	BindingID int64 `json:"binding_id"`
}

// Type implements command.Message.
func (RepopulateSearchCommand) Type() string { return repopulateMessageType }

// Validate ensures a binding is addressed before handlers execute.
func (cmd RepopulateSearchCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.BindingID, validation.Required, validation.Min(int64(1))),
	)
}

// PruneSearchCommand removes a dimension's search rows when no profile still
// references it. The handler re-checks the reference count so a stale prune
// request never deletes rows a profile depends on.
type PruneSearchCommand struct {
	// Dimension names the OLAP dimension whose rows are candidates for removal.
	Dimension string `json:"dimension"`
}

// Type implements command.Message.
func (PruneSearchCommand) Type() string { return pruneMessageType }

// Validate ensures a dimension name is present before handlers execute.
func (cmd PruneSearchCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Dimension, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("profiles.search.prune.dimension_required", "dimension is required")
			}
			return nil
		})),
	)
}
