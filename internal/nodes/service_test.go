package nodes_test

import (
	"context"
	"sync"
	"testing"

	"github.com/goliatone/go-profiles/internal/nodes"
)

type recordingTrigger struct {
	mu        sync.Mutex
	populated []string
	pruned    []string
}

func (r *recordingTrigger) PopulateDimension(ctx context.Context, binding nodes.DimensionBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.populated = append(r.populated, binding.Dimension)
	return nil
}

func (r *recordingTrigger) PruneDimension(ctx context.Context, dimension string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruned = append(r.pruned, dimension)
	return nil
}

func newFixture(t *testing.T) (*nodes.MemoryStore, nodes.Service, *recordingTrigger) {
	t.Helper()
	store := nodes.NewMemoryStore()
	trigger := &recordingTrigger{}
	svc := nodes.NewService(store, nodes.WithSearchTrigger(trigger))
	return store, svc, trigger
}

func createProfile(t *testing.T, svc nodes.Service) *nodes.Node {
	t.Helper()
	profile, err := svc.Create(context.Background(), nodes.CreateNodeInput{
		Kind:    nodes.KindProfile,
		Payload: map[string]any{"title": "Places"},
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return profile
}

func createSection(t *testing.T, svc nodes.Service, profileID int64, title string) *nodes.Node {
	t.Helper()
	section, err := svc.Create(context.Background(), nodes.CreateNodeInput{
		Kind:     nodes.KindSection,
		ParentID: &profileID,
		Payload:  map[string]any{"title": title},
	})
	if err != nil {
		t.Fatalf("create section %q: %v", title, err)
	}
	return section
}

func sectionOrderings(t *testing.T, svc nodes.Service, profileID int64) []int64 {
	t.Helper()
	list, err := svc.GetSlim(context.Background(), nodes.KindSection, &profileID)
	if err != nil {
		t.Fatalf("list sections: %v", err)
	}
	ids := make([]int64, len(list))
	for i, node := range list {
		if node.Ordering != i {
			t.Fatalf("ordering not dense at index %d: %d", i, node.Ordering)
		}
		ids[i] = node.ID
	}
	return ids
}

func TestCreate_AssignsNextOrdering(t *testing.T) {
	_, svc, _ := newFixture(t)
	profile := createProfile(t, svc)

	first := createSection(t, svc, profile.ID, "One")
	second := createSection(t, svc, profile.ID, "Two")

	if first.Ordering != 0 {
		t.Fatalf("first section ordering = %d, want 0", first.Ordering)
	}
	if second.Ordering != 1 {
		t.Fatalf("second section ordering = %d, want 1", second.Ordering)
	}
}

func TestCreate_DefaultLocaleContentRow(t *testing.T) {
	_, svc, _ := newFixture(t)
	profile := createProfile(t, svc)

	section := createSection(t, svc, profile.ID, "X")
	if len(section.Content) != 1 {
		t.Fatalf("expected one content row, got %d", len(section.Content))
	}
	row := section.Content[0]
	if row.Locale != "en" {
		t.Fatalf("content locale = %q, want en", row.Locale)
	}
	if row.Fields["title"] != "X" {
		t.Fatalf("content title = %v, want X", row.Fields["title"])
	}
}

func TestCreate_MissingParentRejected(t *testing.T) {
	_, svc, _ := newFixture(t)

	_, err := svc.Create(context.Background(), nodes.CreateNodeInput{
		Kind:    nodes.KindSection,
		Payload: map[string]any{"title": "orphan"},
	})
	if err == nil {
		t.Fatal("expected validation error for missing parent")
	}
}

func TestGetSlim_RepairsDrift(t *testing.T) {
	store, svc, _ := newFixture(t)
	profile := createProfile(t, svc)

	ctx := context.Background()
	for _, position := range []int{4, 0, 9} {
		_, err := store.Insert(ctx, nodes.KindSection, map[string]any{
			"profile_id": profile.ID,
			"ordering":   position,
		})
		if err != nil {
			t.Fatalf("seed section: %v", err)
		}
	}

	list, err := svc.GetSlim(ctx, nodes.KindSection, &profile.ID)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	for i, node := range list {
		if node.Ordering != i {
			t.Fatalf("index %d not repaired: ordering %d", i, node.Ordering)
		}
	}

	// Repairs are persisted inline without a runner, so the stored rows are
	// dense on the second read.
	again, err := store.ListSiblings(ctx, nodes.KindSection, &profile.ID)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	for i, row := range again {
		if row["ordering"] != i {
			t.Fatalf("stored ordering at %d = %v, want %d", i, row["ordering"], i)
		}
	}
}

func TestSwap_ExchangesAdjacentSiblings(t *testing.T) {
	_, svc, _ := newFixture(t)
	profile := createProfile(t, svc)

	var ids []int64
	for _, title := range []string{"a", "b", "c", "d"} {
		ids = append(ids, createSection(t, svc, profile.ID, title).ID)
	}

	list, err := svc.Swap(context.Background(), nodes.KindSection, ids[1])
	if err != nil {
		t.Fatalf("swap: %v", err)
	}

	want := []int64{ids[0], ids[2], ids[1], ids[3]}
	for i, node := range list {
		if node.ID != want[i] {
			t.Fatalf("after swap index %d = id %d, want %d", i, node.ID, want[i])
		}
		if node.Ordering != i {
			t.Fatalf("after swap index %d ordering = %d", i, node.Ordering)
		}
	}
}

func TestSwap_LastSiblingIsNoOp(t *testing.T) {
	_, svc, _ := newFixture(t)
	profile := createProfile(t, svc)

	first := createSection(t, svc, profile.ID, "a")
	last := createSection(t, svc, profile.ID, "b")

	list, err := svc.Swap(context.Background(), nodes.KindSection, last.ID)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if list[0].ID != first.ID || list[1].ID != last.ID {
		t.Fatal("swap of last sibling should leave order unchanged")
	}
}

func TestSwap_MissingNode(t *testing.T) {
	_, svc, _ := newFixture(t)

	_, err := svc.Swap(context.Background(), nodes.KindSection, 999)
	if !nodes.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete_RenumbersLaterSiblings(t *testing.T) {
	store, svc, _ := newFixture(t)
	profile := createProfile(t, svc)

	var ids []int64
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		ids = append(ids, createSection(t, svc, profile.ID, title).ID)
	}

	// Remove the section at ordering 2.
	list, err := svc.Delete(context.Background(), nodes.KindSection, ids[2])
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("expected 4 remaining sections, got %d", len(list))
	}
	want := []int64{ids[0], ids[1], ids[3], ids[4]}
	for i, node := range list {
		if node.ID != want[i] || node.Ordering != i {
			t.Fatalf("index %d: id %d ordering %d, want id %d ordering %d",
				i, node.ID, node.Ordering, want[i], i)
		}
	}

	// The content mirror goes with the row.
	content, err := store.ListContent(context.Background(), nodes.KindSection, ids[2])
	if err != nil {
		t.Fatalf("list content: %v", err)
	}
	if len(content) != 0 {
		t.Fatalf("content rows survived delete: %v", content)
	}
}

func TestDelete_MissingNodeFailsFast(t *testing.T) {
	_, svc, _ := newFixture(t)

	_, err := svc.Delete(context.Background(), nodes.KindProfile, 42)
	if !nodes.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdate_UpsertsContentPerLocale(t *testing.T) {
	_, svc, _ := newFixture(t)
	profile := createProfile(t, svc)
	section := createSection(t, svc, profile.ID, "Hello")

	updated, err := svc.Update(context.Background(), nodes.UpdateNodeInput{
		Kind:    nodes.KindSection,
		ID:      section.ID,
		Payload: map[string]any{"title": "Hola", "slug": "greeting"},
		Content: []nodes.ContentRow{
			{Locale: "es", Fields: map[string]any{"title": "Hola"}},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Fields["slug"] != "greeting" {
		t.Fatalf("entity field not updated: %v", updated.Fields["slug"])
	}
	if len(updated.Content) != 2 {
		t.Fatalf("expected en and es content rows, got %d", len(updated.Content))
	}
	for _, row := range updated.Content {
		want := map[string]string{"en": "Hola", "es": "Hola"}[row.Locale]
		if row.Fields["title"] != want {
			t.Fatalf("locale %s title = %v, want %s", row.Locale, row.Fields["title"], want)
		}
	}
}

func TestNewProfileScaffold(t *testing.T) {
	_, svc, _ := newFixture(t)

	profile, err := svc.NewProfileScaffold(context.Background())
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if len(profile.Content) != 1 || profile.Content[0].Locale != "en" {
		t.Fatalf("scaffold should create one default locale content row, got %v", profile.Content)
	}

	sections, err := svc.GetSlim(context.Background(), nodes.KindSection, &profile.ID)
	if err != nil {
		t.Fatalf("list sections: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("scaffold should create one section, got %d", len(sections))
	}
	if sections[0].Fields["type"] != "Hero" || sections[0].Ordering != 0 {
		t.Fatalf("unexpected hero section: %+v", sections[0])
	}
}

func TestUpsertDimension_InsertPopulates(t *testing.T) {
	_, svc, trigger := newFixture(t)
	profile := createProfile(t, svc)

	binding, err := svc.UpsertDimension(context.Background(), nodes.UpsertDimensionInput{
		ProfileID: profile.ID,
		Slug:      "geo",
		Dimension: "Geography",
		Levels:    []string{"State", "County"},
		Measure:   "Population",
		CubeName:  "acs",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if binding.ID == 0 || binding.Ordering != 0 {
		t.Fatalf("unexpected binding: %+v", binding)
	}
	if len(trigger.populated) != 1 || trigger.populated[0] != "Geography" {
		t.Fatalf("expected populate for Geography, got %v", trigger.populated)
	}
	if len(trigger.pruned) != 0 {
		t.Fatalf("insert should not prune, got %v", trigger.pruned)
	}
}

func TestUpsertDimension_ChangedDimensionPrunesOld(t *testing.T) {
	_, svc, trigger := newFixture(t)
	profile := createProfile(t, svc)

	binding, err := svc.UpsertDimension(context.Background(), nodes.UpsertDimensionInput{
		ProfileID: profile.ID,
		Dimension: "Geography",
		Levels:    []string{"State"},
		Measure:   "Population",
		CubeName:  "acs",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = svc.UpsertDimension(context.Background(), nodes.UpsertDimensionInput{
		ID:        binding.ID,
		ProfileID: profile.ID,
		Dimension: "Industry",
		Levels:    []string{"Sector"},
		Measure:   "Employment",
		CubeName:  "bls",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(trigger.pruned) != 1 || trigger.pruned[0] != "Geography" {
		t.Fatalf("expected prune of old dimension, got %v", trigger.pruned)
	}
	if len(trigger.populated) != 2 || trigger.populated[1] != "Industry" {
		t.Fatalf("expected repopulate of new dimension, got %v", trigger.populated)
	}
}

func TestUpsertDimension_UnchangedLevelsSkipReindex(t *testing.T) {
	_, svc, trigger := newFixture(t)
	profile := createProfile(t, svc)

	binding, err := svc.UpsertDimension(context.Background(), nodes.UpsertDimensionInput{
		ProfileID: profile.ID,
		Dimension: "Geography",
		Levels:    []string{"State"},
		Measure:   "Population",
		CubeName:  "acs",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = svc.UpsertDimension(context.Background(), nodes.UpsertDimensionInput{
		ID:        binding.ID,
		ProfileID: profile.ID,
		Dimension: "Geography",
		Levels:    []string{"State"},
		Measure:   "Median Income",
		CubeName:  "acs",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(trigger.pruned) != 0 {
		t.Fatalf("measure change alone should not prune, got %v", trigger.pruned)
	}
	if len(trigger.populated) != 1 {
		t.Fatalf("measure change alone should not repopulate, got %v", trigger.populated)
	}
}

func TestDelete_ProfileMetaPrunes(t *testing.T) {
	_, svc, trigger := newFixture(t)
	profile := createProfile(t, svc)

	binding, err := svc.UpsertDimension(context.Background(), nodes.UpsertDimensionInput{
		ProfileID: profile.ID,
		Dimension: "Geography",
		Levels:    []string{"State"},
		Measure:   "Population",
		CubeName:  "acs",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := svc.Delete(context.Background(), nodes.KindProfileMeta, binding.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(trigger.pruned) != 1 || trigger.pruned[0] != "Geography" {
		t.Fatalf("expected prune after binding delete, got %v", trigger.pruned)
	}
}

func seedSelectorBindings(t *testing.T, store *nodes.MemoryStore, svc nodes.Service) (sectionID int64, selectorIDs, bindingIDs []int64) {
	t.Helper()
	ctx := context.Background()
	profile := createProfile(t, svc)
	section := createSection(t, svc, profile.ID, "With selectors")

	for i, name := range []string{"year", "gender", "race"} {
		selector, err := svc.Create(ctx, nodes.CreateNodeInput{
			Kind:     nodes.KindSelector,
			ParentID: &profile.ID,
			Payload:  map[string]any{"name": name},
		})
		if err != nil {
			t.Fatalf("create selector %q: %v", name, err)
		}
		bindingID, err := store.Insert(ctx, nodes.KindSectionSelector, map[string]any{
			"section_id":  section.ID,
			"selector_id": selector.ID,
			"ordering":    i,
		})
		if err != nil {
			t.Fatalf("bind selector %q: %v", name, err)
		}
		selectorIDs = append(selectorIDs, selector.ID)
		bindingIDs = append(bindingIDs, bindingID)
	}
	return section.ID, selectorIDs, bindingIDs
}

func TestSwapSelector(t *testing.T) {
	store, svc, _ := newFixture(t)
	sectionID, selectorIDs, bindingIDs := seedSelectorBindings(t, store, svc)

	list, err := svc.SwapSelector(context.Background(), bindingIDs[0])
	if err != nil {
		t.Fatalf("swap selector: %v", err)
	}

	want := []int64{selectorIDs[1], selectorIDs[0], selectorIDs[2]}
	for i, node := range list {
		if node.ID != want[i] {
			t.Fatalf("index %d = selector %d, want %d", i, node.ID, want[i])
		}
		if node.Ordering != i {
			t.Fatalf("index %d ordering = %d", i, node.Ordering)
		}
	}

	again, err := svc.SectionSelectors(context.Background(), sectionID)
	if err != nil {
		t.Fatalf("reread selectors: %v", err)
	}
	for i, node := range again {
		if node.ID != want[i] {
			t.Fatalf("swap did not persist at index %d", i)
		}
	}
}

func TestDeleteSelectorBinding(t *testing.T) {
	store, svc, _ := newFixture(t)
	sectionID, selectorIDs, _ := seedSelectorBindings(t, store, svc)

	list, err := svc.DeleteSelectorBinding(context.Background(), selectorIDs[0], sectionID)
	if err != nil {
		t.Fatalf("delete binding: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 remaining selectors, got %d", len(list))
	}
	want := []int64{selectorIDs[1], selectorIDs[2]}
	for i, node := range list {
		if node.ID != want[i] || node.Ordering != i {
			t.Fatalf("index %d: selector %d ordering %d", i, node.ID, node.Ordering)
		}
	}

	// The selector entity itself survives; only the binding goes.
	if _, err := svc.Get(context.Background(), nodes.KindSelector, selectorIDs[0]); err != nil {
		t.Fatalf("selector should survive binding delete: %v", err)
	}
}

func TestSectionSelectors_RepairsJoinDrift(t *testing.T) {
	store, svc, _ := newFixture(t)
	sectionID, _, bindingIDs := seedSelectorBindings(t, store, svc)

	ctx := context.Background()
	if err := store.SetOrdering(ctx, nodes.KindSectionSelector, bindingIDs[0], 7); err != nil {
		t.Fatalf("seed drift: %v", err)
	}

	list, err := svc.SectionSelectors(ctx, sectionID)
	if err != nil {
		t.Fatalf("list selectors: %v", err)
	}
	for i, node := range list {
		if node.Ordering != i {
			t.Fatalf("index %d not repaired: %d", i, node.Ordering)
		}
	}

	// The repair lands on the join row, not the selector.
	binding, err := store.Get(ctx, nodes.KindSectionSelector, bindingIDs[0])
	if err != nil {
		t.Fatalf("get binding: %v", err)
	}
	if binding["ordering"] != 2 {
		t.Fatalf("join ordering = %v, want 2", binding["ordering"])
	}
}
