package nodes

import "fmt"

// Kind identifies one of the closed set of node types making up a profile or
// story tree. Every structural question (table, parent column, whether the
// kind carries locale content or a dense ordering) is answered by exhaustive
// switches here rather than by inspecting table names at runtime.
type Kind string

const (
	KindProfile                   Kind = "profile"
	KindProfileMeta               Kind = "profile_meta"
	KindSection                   Kind = "section"
	KindSectionSubtitle           Kind = "section_subtitle"
	KindSectionDescription        Kind = "section_description"
	KindSectionStat               Kind = "section_stat"
	KindSectionVisualization      Kind = "section_visualization"
	KindSelector                  Kind = "selector"
	KindSectionSelector           Kind = "section_selector"
	KindStory                     Kind = "story"
	KindAuthor                    Kind = "author"
	KindStoryDescription          Kind = "story_description"
	KindStoryFootnote             Kind = "story_footnote"
	KindStorySection              Kind = "storysection"
	KindStorySectionSubtitle      Kind = "storysection_subtitle"
	KindStorySectionDescription   Kind = "storysection_description"
	KindStorySectionStat          Kind = "storysection_stat"
	KindStorySectionVisualization Kind = "storysection_visualization"
)

var allKinds = []Kind{
	KindProfile,
	KindProfileMeta,
	KindSection,
	KindSectionSubtitle,
	KindSectionDescription,
	KindSectionStat,
	KindSectionVisualization,
	KindSelector,
	KindSectionSelector,
	KindStory,
	KindAuthor,
	KindStoryDescription,
	KindStoryFootnote,
	KindStorySection,
	KindStorySectionSubtitle,
	KindStorySectionDescription,
	KindStorySectionStat,
	KindStorySectionVisualization,
}

// Kinds returns every registered kind.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind resolves a raw string to a registered Kind.
func ParseKind(raw string) (Kind, error) {
	k := Kind(raw)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, raw)
	}
	return k, nil
}

func (k Kind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Table is the entity table backing the kind.
func (k Kind) Table() string { return string(k) }

// ContentTable is the per-locale content table paired with the kind, or ""
// for kinds that carry no translatable fields.
func (k Kind) ContentTable() string {
	if !k.Translatable() {
		return ""
	}
	return string(k) + "_content"
}

// Translatable reports whether the kind mirrors a per-locale content table.
func (k Kind) Translatable() bool {
	switch k {
	case KindProfile, KindSection, KindSectionSubtitle, KindSectionDescription,
		KindSectionStat, KindStory, KindAuthor, KindStoryDescription,
		KindStoryFootnote, KindStorySection, KindStorySectionSubtitle,
		KindStorySectionDescription, KindStorySectionStat:
		return true
	default:
		return false
	}
}

// ParentColumn is the FK column scoping a sibling group, or "" for
// root-ordered kinds whose siblings span the whole table.
func (k Kind) ParentColumn() string {
	switch k {
	case KindProfile, KindStory:
		return ""
	case KindProfileMeta, KindSection, KindSelector:
		return "profile_id"
	case KindSectionSubtitle, KindSectionDescription, KindSectionStat,
		KindSectionVisualization, KindSectionSelector:
		return "section_id"
	case KindAuthor, KindStoryDescription, KindStoryFootnote, KindStorySection:
		return "story_id"
	case KindStorySectionSubtitle, KindStorySectionDescription,
		KindStorySectionStat, KindStorySectionVisualization:
		return "storysection_id"
	default:
		return ""
	}
}

// Ordered reports whether the kind participates in dense sibling ordering.
// Selectors are ordered through their section bindings, not on the entity.
func (k Kind) Ordered() bool {
	return k != KindSelector
}

// RootOrdered reports whether the kind's sibling group is the whole table.
func (k Kind) RootOrdered() bool {
	return k.Ordered() && k.ParentColumn() == ""
}

// ContentColumns lists the payload keys that belong to the kind's content
// table. Create and Update split mixed payloads with this set; the default
// locale row is built from whichever of these the caller supplied.
func (k Kind) ContentColumns() []string {
	switch k {
	case KindProfile, KindStory:
		return []string{"title", "subtitle", "label"}
	case KindSection, KindStorySection:
		return []string{"title", "short"}
	case KindSectionSubtitle, KindStorySectionSubtitle:
		return []string{"subtitle"}
	case KindSectionDescription, KindStoryDescription, KindStoryFootnote,
		KindStorySectionDescription:
		return []string{"description"}
	case KindSectionStat, KindStorySectionStat:
		return []string{"title", "subtitle", "value", "tooltip"}
	case KindAuthor:
		return []string{"name", "title", "bio"}
	default:
		return nil
	}
}

// ChildKinds lists the kinds whose parent column points at this kind.
// Deleting a node removes its descendants; the database enforces this with
// cascading foreign keys and the memory store walks this mapping.
func (k Kind) ChildKinds() []Kind {
	switch k {
	case KindProfile:
		return []Kind{KindProfileMeta, KindSection, KindSelector}
	case KindSection:
		return []Kind{KindSectionSubtitle, KindSectionDescription,
			KindSectionStat, KindSectionVisualization, KindSectionSelector}
	case KindStory:
		return []Kind{KindAuthor, KindStoryDescription, KindStoryFootnote,
			KindStorySection}
	case KindStorySection:
		return []Kind{KindStorySectionSubtitle, KindStorySectionDescription,
			KindStorySectionStat, KindStorySectionVisualization}
	default:
		return nil
	}
}

func (k Kind) isContentColumn(name string) bool {
	for _, col := range k.ContentColumns() {
		if col == name {
			return true
		}
	}
	return false
}
