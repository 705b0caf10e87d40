package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"os"

	profiles "github.com/goliatone/go-profiles"
	"github.com/goliatone/go-profiles/internal/nodes"
	"github.com/goliatone/go-profiles/pkg/testsupport"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	ctx := context.Background()

	dsn := os.Getenv("PROFILES_DB")
	if dsn == "" {
		dsn = "file:profiles.db?_foreign_keys=on"
	}

	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer sqldb.Close()
	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := testsupport.ApplyMigrations(ctx, db, profiles.GetMigrationsFS()); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	cfg := profiles.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "pretty"

	olapURL := os.Getenv("PROFILES_OLAP_URL")
	if olapURL == "" {
		cfg.Features.Search = false
	}
	cfg.OLAP.BaseURL = olapURL

	module, err := profiles.New(ctx, db, cfg)
	if err != nil {
		log.Fatalf("initialise profiles: %v", err)
	}
	defer module.Close()

	svc := module.Nodes()

	profile, err := svc.NewProfileScaffold(ctx)
	if err != nil {
		log.Fatalf("scaffold profile: %v", err)
	}
	log.Printf("created profile %d with a Hero section", profile.ID)

	if _, err := svc.Update(ctx, profiles.UpdateNodeInput{
		Kind:    nodes.KindProfile,
		ID:      profile.ID,
		Payload: map[string]any{"slug": "geo", "title": "Geographic Profiles"},
	}); err != nil {
		log.Fatalf("update profile: %v", err)
	}

	for _, typ := range []string{"TextViz", "SingleColumn"} {
		if _, err := svc.Create(ctx, profiles.CreateNodeInput{
			Kind:     nodes.KindSection,
			ParentID: &profile.ID,
			Payload:  map[string]any{"type": typ},
		}); err != nil {
			log.Fatalf("create %s section: %v", typ, err)
		}
	}

	if cfg.Features.Search {
		binding, err := svc.UpsertDimension(ctx, profiles.UpsertDimensionInput{
			ProfileID: profile.ID,
			Slug:      "geo",
			Dimension: "Geography",
			Hierarchy: "Geography",
			Levels:    []string{"State"},
			Measure:   "Population",
			CubeName:  os.Getenv("PROFILES_CUBE"),
		})
		if err != nil {
			log.Fatalf("bind dimension: %v", err)
		}
		log.Printf("bound dimension %s, search index populated", binding.Dimension)

		entries, err := module.MetaWithTop(ctx)
		if err != nil {
			log.Fatalf("meta listing: %v", err)
		}
		for _, entry := range entries {
			if entry.Top != nil {
				log.Printf("dimension %s top member: %s (z=%.2f)",
					entry.Binding.Dimension, entry.Top.Name, entry.Top.ZValue)
			}
		}
	}

	tree, err := module.Tree().ProfileTree(ctx)
	if err != nil {
		log.Fatalf("assemble tree: %v", err)
	}

	encoded, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		log.Fatalf("encode tree: %v", err)
	}
	os.Stdout.Write(encoded)
	os.Stdout.Write([]byte("\n"))
}
