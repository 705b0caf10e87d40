package search

import "github.com/uptrace/bun"

// Member is one indexed dimension member. The composite key matches the
// find-or-create identity: the same OLAP member indexed under two dimensions
// stays two rows. Hierarchy stores the level name the member was fetched at.
//
// Slug is written once at creation and never updated; public URLs depend on
// it staying put even when the member is reindexed.
type Member struct {
	bun.BaseModel `bun:"table:search"`

	MemberID  string  `bun:"id,pk" json:"id"`
	Dimension string  `bun:"dimension,pk" json:"dimension"`
	Hierarchy string  `bun:"hierarchy,pk" json:"hierarchy"`
	ZValue    float64 `bun:"zvalue" json:"zvalue"`
	Stem      int     `bun:"stem" json:"stem"`
	Slug      string  `bun:"slug" json:"slug"`
	ContentID int64   `bun:"content_id" json:"content_id"`

	Content []*MemberContent `bun:"rel:has-many,join:content_id=id" json:"content,omitempty"`
}

// MemberContent is a member's display data in one locale.
type MemberContent struct {
	bun.BaseModel `bun:"table:search_content"`

	ContentID int64          `bun:"id,pk" json:"id"`
	Locale    string         `bun:"locale,pk" json:"locale"`
	Name      string         `bun:"name" json:"name"`
	Keywords  []string       `bun:"keywords" json:"keywords,omitempty"`
	Attr      map[string]any `bun:"attr" json:"attr,omitempty"`
}
