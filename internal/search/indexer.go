package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/goliatone/go-profiles/internal/logging"
	"github.com/goliatone/go-profiles/internal/nodes"
	"github.com/goliatone/go-profiles/pkg/interfaces"
)

// BindingCounter answers whether any profile still references a dimension.
// The nodes store satisfies it.
type BindingCounter interface {
	CountBindingsByDimension(ctx context.Context, dimension string) (int, error)
}

// Indexer maintains the search index from OLAP dimension members. It
// implements nodes.SearchTrigger so binding changes drive it directly.
//
// Passes over the same dimension are serialized; a reindex racing a prune
// would otherwise interleave deletes with inserts.
type Indexer struct {
	olap     interfaces.OLAPClient
	store    Store
	bindings BindingCounter
	locales  []string
	logger   interfaces.Logger

	mu   sync.Mutex
	dims map[string]*sync.Mutex
}

type IndexerOption func(*Indexer)

func WithIndexerLogger(logger interfaces.Logger) IndexerOption {
	return func(ix *Indexer) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// WithLocales sets the locales indexed per pass. The first locale is the
// default one; slugs are minted from its member names because it runs first.
func WithLocales(locales []string) IndexerOption {
	return func(ix *Indexer) {
		if len(locales) > 0 {
			ix.locales = locales
		}
	}
}

func NewIndexer(olap interfaces.OLAPClient, store Store, bindings BindingCounter, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		olap:     olap,
		store:    store,
		bindings: bindings,
		locales:  []string{"en"},
		logger:   logging.NoOp(),
		dims:     make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

type indexEntry struct {
	memberID  string
	name      string
	hierarchy string
	zvalue    float64
}

// PopulateDimension indexes every configured level of the binding's
// dimension, one pass per locale. Remote failures on a single level degrade
// to an empty member set for that level; the pass continues.
func (ix *Indexer) PopulateDimension(ctx context.Context, binding nodes.DimensionBinding) error {
	lock := ix.dimLock(binding.Dimension)
	lock.Lock()
	defer lock.Unlock()

	cube, err := ix.olap.GetCube(ctx, binding.CubeName)
	if err != nil {
		return fmt.Errorf("search: get cube %q: %w", binding.CubeName, err)
	}
	dimension := cube.Dimension(binding.Dimension)
	if dimension == nil || len(dimension.Hierarchies) == 0 {
		return fmt.Errorf("search: dimension %q not found in cube %q", binding.Dimension, binding.CubeName)
	}

	levels := configuredLevels(dimension.Hierarchies[0], binding.Levels)

	for _, locale := range ix.locales {
		entries := ix.collectEntries(ctx, cube, binding, levels, locale)
		if err := ix.upsertEntries(ctx, binding.Dimension, locale, entries); err != nil {
			return err
		}
	}

	ix.logger.Info("search index populated",
		"dimension", binding.Dimension,
		"levels", len(levels),
		"locales", len(ix.locales),
	)
	return nil
}

// PruneDimension clears a dimension's search rows, but only when no
// remaining binding on any profile still uses the dimension. Levels need no
// separate pruning; queries filter them out.
func (ix *Indexer) PruneDimension(ctx context.Context, dimension string) error {
	lock := ix.dimLock(dimension)
	lock.Lock()
	defer lock.Unlock()

	count, err := ix.bindings.CountBindingsByDimension(ctx, dimension)
	if err != nil {
		return fmt.Errorf("search: count bindings for %q: %w", dimension, err)
	}
	if count > 0 {
		ix.logger.Info("skipped search cleanup, dimension still in use",
			"dimension", dimension, "bindings", count)
		return nil
	}

	affected, err := ix.store.DeleteByDimension(ctx, dimension)
	if err != nil {
		return fmt.Errorf("search: prune %q: %w", dimension, err)
	}
	ix.logger.Info("cleaned up search data", "dimension", dimension, "rows", affected)
	return nil
}

func (ix *Indexer) collectEntries(ctx context.Context, cube *interfaces.Cube, binding nodes.DimensionBinding, levels []interfaces.CubeLevel, locale string) []indexEntry {
	var entries []indexEntry
	for _, level := range levels {
		members, err := ix.olap.GetMembers(ctx, level, interfaces.MemberQuery{Locale: locale})
		if err != nil {
			ix.logger.Warn("member fetch failed, indexing level as empty",
				"level", level.Name, "locale", locale, "error", err)
			continue
		}

		data := map[string]float64{}
		rows, err := ix.olap.ExecQuery(ctx, interfaces.AggregateQuery{
			Cube:    cube.Name,
			Level:   level,
			Measure: binding.Measure,
			Locale:  locale,
		})
		if err != nil {
			ix.logger.Warn("measure query failed, scoring level from empty data",
				"level", level.Name, "measure", binding.Measure, "error", err)
		} else {
			data = measureByMember(rows, level.Name, binding.Measure)
		}

		raw := make([]float64, len(members))
		for i, member := range members {
			raw[i] = data[member.Key]
		}
		scores := zscores(raw)

		for i, member := range members {
			name := member.Caption
			if name == "" {
				name = member.Name
			}
			entries = append(entries, indexEntry{
				memberID:  member.Key,
				name:      name,
				hierarchy: level.Name,
				zvalue:    scores[i],
			})
		}
	}
	return entries
}

func (ix *Indexer) upsertEntries(ctx context.Context, dimension, locale string, entries []indexEntry) error {
	existingSlugs, err := ix.store.Slugs(ctx)
	if err != nil {
		return err
	}
	tracker := newSlugTracker(existingSlugs)

	for _, entry := range entries {
		slug := tracker.assign(entry.name, entry.memberID)

		member, err := ix.store.Get(ctx, entry.memberID, dimension, entry.hierarchy)
		if err != nil {
			if !errors.Is(err, ErrMemberNotFound) {
				return err
			}
			member = &Member{
				MemberID:  entry.memberID,
				Dimension: dimension,
				Hierarchy: entry.hierarchy,
				ZValue:    entry.zvalue,
				Stem:      -1,
				Slug:      slug,
			}
			if err := ix.store.Insert(ctx, member); err != nil {
				return err
			}
			if err := ix.store.UpsertContent(ctx, member.ContentID, locale, entry.name); err != nil {
				return err
			}
			continue
		}

		member.ZValue = entry.zvalue
		member.Stem = -1
		if err := ix.store.Update(ctx, member); err != nil {
			return err
		}
		if err := ix.store.UpsertContent(ctx, member.ContentID, locale, entry.name); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Indexer) dimLock(dimension string) *sync.Mutex {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	lock, ok := ix.dims[dimension]
	if !ok {
		lock = &sync.Mutex{}
		ix.dims[dimension] = lock
	}
	return lock
}

func configuredLevels(hierarchy interfaces.CubeHierarchy, configured []string) []interfaces.CubeLevel {
	out := make([]interfaces.CubeLevel, 0, len(configured))
	for _, level := range hierarchy.Levels {
		if level.Name == "(All)" {
			continue
		}
		if !containsString(configured, level.Name) {
			continue
		}
		out = append(out, level)
	}
	return out
}

// measureByMember folds aggregate rows into member id to measure value.
// Data sources disagree on the id column convention, so both "ID <level>"
// and "<level> ID" are honored.
func measureByMember(rows []map[string]any, levelName, measure string) map[string]float64 {
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		key, ok := row["ID "+levelName]
		if !ok || key == nil {
			key = row[levelName+" ID"]
		}
		id := stringifyKey(key)
		if id == "" {
			continue
		}
		out[id] = asFloat(row[measure])
	}
	return out
}

func stringifyKey(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}
