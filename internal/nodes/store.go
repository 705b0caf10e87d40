package nodes

import "context"

// Store is the persistence boundary for node rows. Entity rows travel as raw
// column maps so one implementation serves every kind; the kind's metadata
// decides table, parent column, and content mirror.
//
// ListSiblings and SiblingAt scope by the kind's parent column; root-ordered
// kinds pass a nil parent and the scope is the whole table. Sibling listings
// are ordered by the ordering column ascending with ties broken by id.
type Store interface {
	// InTx runs fn against a transactional view of the store. The callback's
	// store must be used for every access inside the transaction.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	Get(ctx context.Context, kind Kind, id int64) (map[string]any, error)
	ListSiblings(ctx context.Context, kind Kind, parentID *int64) ([]map[string]any, error)
	SiblingAt(ctx context.Context, kind Kind, parentID *int64, ordering int) (map[string]any, error)
	MaxOrdering(ctx context.Context, kind Kind, parentID *int64) (int, bool, error)

	Insert(ctx context.Context, kind Kind, fields map[string]any) (int64, error)
	Update(ctx context.Context, kind Kind, id int64, fields map[string]any) error
	SetOrdering(ctx context.Context, kind Kind, id int64, ordering int) error
	// ShiftOrderings adds delta to the ordering of every sibling whose
	// ordering is strictly greater than above, in one statement.
	ShiftOrderings(ctx context.Context, kind Kind, parentID *int64, above int, delta int) error
	// Delete removes the entity row, its content mirror, and its descendants.
	Delete(ctx context.Context, kind Kind, id int64) error

	ListContent(ctx context.Context, kind Kind, id int64) ([]ContentRow, error)
	UpsertContent(ctx context.Context, kind Kind, id int64, locale string, fields map[string]any) error

	// FindSectionSelector locates a selector binding by its composite
	// (selector, section) key.
	FindSectionSelector(ctx context.Context, selectorID, sectionID int64) (map[string]any, error)

	ListBindings(ctx context.Context) ([]DimensionBinding, error)
	GetBinding(ctx context.Context, id int64) (*DimensionBinding, error)
	// CountBindingsByDimension reports how many profile_meta rows still
	// reference the dimension, across every profile.
	CountBindingsByDimension(ctx context.Context, dimension string) (int, error)
}
