package search

import (
	"context"
	"errors"
	"fmt"
)

var ErrMemberNotFound = errors.New("search: member not found")

// NotFoundError is returned when a search row cannot be located.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("search: member %s not found", e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrMemberNotFound }

// IsNotFound reports whether err represents a missing search member.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound)
}

// Store is the persistence boundary for the search index.
type Store interface {
	// Get loads a member by its composite identity.
	Get(ctx context.Context, memberID, dimension, hierarchy string) (*Member, error)
	// Insert writes a new member and assigns its ContentID.
	Insert(ctx context.Context, member *Member) error
	// Update rewrites a member's mutable columns. The slug column is never
	// touched; it is fixed at insert.
	Update(ctx context.Context, member *Member) error
	// Slugs returns every slug currently in the index.
	Slugs(ctx context.Context) ([]string, error)
	// DeleteByDimension removes a dimension's members and their content
	// rows, returning how many members went away.
	DeleteByDimension(ctx context.Context, dimension string) (int, error)
	// TopByDimension returns the member with the highest z-value for the
	// dimension, or nil when the dimension has no rows.
	TopByDimension(ctx context.Context, dimension string) (*Member, error)
	// FindMember locates a member by id, optionally restricted to a set of
	// hierarchy levels.
	FindMember(ctx context.Context, memberID string, levels []string) (*Member, error)
	// FindBySlug locates a member by its slug.
	FindBySlug(ctx context.Context, slug string) (*Member, error)

	UpsertContent(ctx context.Context, contentID int64, locale, name string) error
	ListContent(ctx context.Context, contentID int64) ([]*MemberContent, error)
}
