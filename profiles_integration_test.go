package profiles_test

import (
	"context"
	"testing"

	profiles "github.com/goliatone/go-profiles"
	"github.com/goliatone/go-profiles/internal/nodes"
	"github.com/goliatone/go-profiles/pkg/interfaces"
	"github.com/goliatone/go-profiles/pkg/testsupport"
	"github.com/uptrace/bun"
)

func newTestModule(t *testing.T, opts ...profiles.Option) (*profiles.Module, *bun.DB) {
	t.Helper()

	db, err := testsupport.NewBunSQLiteDB()
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := testsupport.ApplyMigrations(ctx, db, profiles.GetMigrationsFS()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	cfg := profiles.DefaultConfig()
	cfg.Features.Search = true
	cfg.OLAP.BaseURL = "http://olap.test"
	cfg.Jobs.Synchronous = true

	opts = append([]profiles.Option{profiles.WithOLAPClient(&fakeOLAP{})}, opts...)
	module, err := profiles.New(ctx, db, cfg, opts...)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(module.Close)

	return module, db
}

// fakeOLAP serves a single Geography dimension with a State level.
type fakeOLAP struct{}

func (f *fakeOLAP) GetCube(ctx context.Context, name string) (*interfaces.Cube, error) {
	return &interfaces.Cube{
		Name: name,
		Dimensions: []interfaces.CubeDimension{{
			Name: "Geography",
			Hierarchies: []interfaces.CubeHierarchy{{
				Name: "Geography",
				Levels: []interfaces.CubeLevel{
					{Name: "(All)", Hierarchy: "Geography", Dimension: "Geography", Cube: name},
					{Name: "State", Hierarchy: "Geography", Dimension: "Geography", Cube: name},
				},
			}},
		}},
	}, nil
}

func (f *fakeOLAP) GetMembers(ctx context.Context, level interfaces.CubeLevel, q interfaces.MemberQuery) ([]interfaces.Member, error) {
	return []interfaces.Member{
		{Key: "01", Name: "Alabama"},
		{Key: "02", Name: "Alaska"},
	}, nil
}

func (f *fakeOLAP) ExecQuery(ctx context.Context, q interfaces.AggregateQuery) ([]map[string]any, error) {
	return []map[string]any{
		{"ID State": "01", "State": "Alabama", "Population": 250.0},
		{"ID State": "02", "State": "Alaska", "Population": 750.0},
	}, nil
}

func TestModuleScaffoldBuildsProfileTree(t *testing.T) {
	module, _ := newTestModule(t)
	ctx := context.Background()

	profile, err := module.Nodes().NewProfileScaffold(ctx)
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if profile.Ordering != 0 {
		t.Fatalf("first profile ordering = %d, want 0", profile.Ordering)
	}
	if len(profile.Content) != 1 || profile.Content[0].Locale != "en" {
		t.Fatalf("scaffold content = %+v, want one en row", profile.Content)
	}

	tree, err := module.Tree().ProfileTree(ctx)
	if err != nil {
		t.Fatalf("profile tree: %v", err)
	}
	if len(tree) != 1 {
		t.Fatalf("tree profiles = %d, want 1", len(tree))
	}
	sections := tree[0].Sections
	if len(sections) != 1 || sections[0].Type != "Hero" || sections[0].Ordering != 0 {
		t.Fatalf("scaffold sections = %+v, want one Hero at 0", sections)
	}
}

func TestModuleSwapAndDeleteRenumber(t *testing.T) {
	module, _ := newTestModule(t)
	ctx := context.Background()

	profile, err := module.Nodes().NewProfileScaffold(ctx)
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}

	var sectionIDs []int64
	for _, typ := range []string{"TextViz", "SingleColumn"} {
		section, err := module.Nodes().Create(ctx, profiles.CreateNodeInput{
			Kind:     nodes.KindSection,
			ParentID: &profile.ID,
			Payload:  map[string]any{"type": typ},
		})
		if err != nil {
			t.Fatalf("create section %s: %v", typ, err)
		}
		sectionIDs = append(sectionIDs, section.ID)
	}

	// Hero, TextViz, SingleColumn. Swap TextViz with its successor.
	siblings, err := module.Nodes().Swap(ctx, nodes.KindSection, sectionIDs[0])
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if len(siblings) != 3 {
		t.Fatalf("siblings = %d, want 3", len(siblings))
	}
	if siblings[1].ID != sectionIDs[1] || siblings[2].ID != sectionIDs[0] {
		t.Fatalf("swap order = [%d %d %d]", siblings[0].ID, siblings[1].ID, siblings[2].ID)
	}

	remaining, err := module.Nodes().Delete(ctx, nodes.KindSection, sectionIDs[1])
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("remaining = %d, want 2", len(remaining))
	}
	for i, sibling := range remaining {
		if sibling.Ordering != i {
			t.Fatalf("sibling %d ordering = %d after delete", sibling.ID, sibling.Ordering)
		}
	}
}

func TestModuleDimensionIndexingEndToEnd(t *testing.T) {
	module, _ := newTestModule(t)
	ctx := context.Background()

	profile, err := module.Nodes().NewProfileScaffold(ctx)
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}

	binding, err := module.Nodes().UpsertDimension(ctx, profiles.UpsertDimensionInput{
		ProfileID: profile.ID,
		Slug:      "geo",
		Dimension: "Geography",
		Hierarchy: "Geography",
		Levels:    []string{"State"},
		Measure:   "Population",
		CubeName:  "acs_population",
	})
	if err != nil {
		t.Fatalf("upsert dimension: %v", err)
	}
	if binding.Ordering != 0 {
		t.Fatalf("binding ordering = %d, want 0", binding.Ordering)
	}

	entries, err := module.MetaWithTop(ctx)
	if err != nil {
		t.Fatalf("meta with top: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("meta entries = %d, want 1", len(entries))
	}
	top := entries[0].Top
	if top == nil {
		t.Fatal("expected top member for indexed dimension")
	}
	if top.MemberID != "02" || top.Name != "Alaska" {
		t.Fatalf("top member = %+v, want Alaska (02)", top)
	}
	if top.ZValue <= 0 {
		t.Fatalf("top zvalue = %f, want positive", top.ZValue)
	}

	attr, err := module.ProfileAttr(ctx, profile.ID, []profiles.DimensionSelection{
		{Slug: "geo", MemberID: "01"},
	})
	if err != nil {
		t.Fatalf("profile attr: %v", err)
	}
	if attr["id"] != "01" || attr["id1"] != "01" {
		t.Fatalf("attr ids = %v / %v, want 01 for both", attr["id"], attr["id1"])
	}
	if attr["slug"] != "alabama" {
		t.Fatalf("attr slug = %v, want alabama", attr["slug"])
	}

	// Removing the only binding prunes the dimension's search rows.
	if _, err := module.Nodes().Delete(ctx, nodes.KindProfileMeta, binding.ID); err != nil {
		t.Fatalf("delete binding: %v", err)
	}

	entries, err = module.MetaWithTop(ctx)
	if err != nil {
		t.Fatalf("meta after delete: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("meta entries after delete = %d, want 0", len(entries))
	}

	attr, err = module.ProfileAttr(ctx, profile.ID, []profiles.DimensionSelection{
		{Slug: "geo", MemberID: "01"},
	})
	if err != nil {
		t.Fatalf("profile attr after prune: %v", err)
	}
	if len(attr) != 0 {
		t.Fatalf("attr after prune = %v, want empty", attr)
	}
}
