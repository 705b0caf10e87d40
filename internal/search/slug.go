package search

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// slugTracker assigns collision-safe slugs across one indexing pass. It is
// seeded with every slug already in the index; a name that normalizes to a
// taken slug gets the member id appended instead of colliding.
type slugTracker struct {
	seen map[string]struct{}
}

func newSlugTracker(existing []string) *slugTracker {
	seen := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		seen[s] = struct{}{}
	}
	return &slugTracker{seen: seen}
}

func (t *slugTracker) assign(name, memberID string) string {
	candidate := normalizeSlug(name)
	if _, taken := t.seen[candidate]; taken {
		candidate += "-" + memberID
	}
	t.seen[candidate] = struct{}{}
	return candidate
}

func normalizeSlug(name string) string {
	normalized, err := slug.Normalize(name)
	if err != nil || normalized == "" {
		normalized = strings.ToLower(strings.TrimSpace(name))
		normalized = strings.ReplaceAll(normalized, " ", "-")
	}
	normalized = collapseHyphens(normalized)
	return strings.Trim(normalized, "-")
}

func collapseHyphens(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}
