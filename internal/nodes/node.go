package nodes

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Node is the generic read model for any entity row. Fields holds the raw
// column values minus the identity columns lifted into the struct; Content
// holds the per-locale mirror rows for translatable kinds.
type Node struct {
	ID       int64          `json:"id"`
	Kind     Kind           `json:"kind"`
	ParentID *int64         `json:"parent_id,omitempty"`
	Ordering int            `json:"ordering"`
	Fields   map[string]any `json:"fields,omitempty"`
	Content  []ContentRow   `json:"content,omitempty"`
}

// ContentRow is one locale's slice of a translatable node.
type ContentRow struct {
	Locale string         `json:"locale"`
	Fields map[string]any `json:"fields"`
}

// ContentFor returns the content row for the locale, falling back to the first
// available row when the locale is absent.
func (n *Node) ContentFor(locale string) (ContentRow, bool) {
	for _, row := range n.Content {
		if row.Locale == locale {
			return row, true
		}
	}
	if len(n.Content) > 0 {
		return n.Content[0], true
	}
	return ContentRow{}, false
}

// CreateNodeInput carries a mixed payload the way callers submit it: entity
// and content fields together. The service splits them by the kind's content
// column set; content fields seed the default locale row.
type CreateNodeInput struct {
	Kind     Kind
	ParentID *int64
	Payload  map[string]any
}

func (i CreateNodeInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Kind, validation.Required, validation.By(validKind)),
		validation.Field(&i.ParentID, validation.By(func(any) error {
			if i.Kind.ParentColumn() != "" && i.ParentID == nil {
				return ErrMissingParent
			}
			return nil
		})),
	)
}

// UpdateNodeInput updates entity fields and upserts content rows per locale.
type UpdateNodeInput struct {
	Kind    Kind
	ID      int64
	Payload map[string]any
	Content []ContentRow
}

func (i UpdateNodeInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Kind, validation.Required, validation.By(validKind)),
		validation.Field(&i.ID, validation.Required),
	)
}

// DimensionBinding mirrors one profile_meta row: the attachment of an OLAP
// dimension to a profile, with the levels and measure the search indexer
// walks when it populates the index.
type DimensionBinding struct {
	ID        int64    `json:"id"`
	ProfileID int64    `json:"profile_id"`
	Ordering  int      `json:"ordering"`
	Slug      string   `json:"slug"`
	Dimension string   `json:"dimension"`
	Hierarchy string   `json:"hierarchy"`
	Levels    []string `json:"levels"`
	Measure   string   `json:"measure"`
	CubeName  string   `json:"cube_name"`
	Visible   bool     `json:"visible"`
}

// UpsertDimensionInput creates a new binding when ID is zero, otherwise
// updates the existing one.
type UpsertDimensionInput struct {
	ID        int64
	ProfileID int64
	Slug      string
	Dimension string
	Hierarchy string
	Levels    []string
	Measure   string
	CubeName  string
	Visible   *bool
}

func (i UpsertDimensionInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ProfileID, validation.Required),
		validation.Field(&i.Dimension, validation.Required),
		validation.Field(&i.Levels, validation.Required, validation.Length(1, 0)),
		validation.Field(&i.Measure, validation.Required),
		validation.Field(&i.CubeName, validation.Required),
	)
}

// MetaTopEntry pairs a dimension binding with the highest z-value search
// member indexed for its dimension, for binding listings.
type MetaTopEntry struct {
	Binding DimensionBinding `json:"binding"`
	Top     *TopMember       `json:"top,omitempty"`
}

// TopMember is the search projection attached to MetaTopEntry.
type TopMember struct {
	MemberID  string  `json:"id"`
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	ZValue    float64 `json:"zvalue"`
	Dimension string  `json:"dimension"`
	Hierarchy string  `json:"hierarchy"`
}

func validKind(value any) error {
	kind, ok := value.(Kind)
	if !ok || !kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}
