package profiles

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-profiles/internal/jobs"
	"github.com/goliatone/go-profiles/internal/logging"
	"github.com/goliatone/go-profiles/internal/logging/gologger"
	"github.com/goliatone/go-profiles/internal/nodes"
	"github.com/goliatone/go-profiles/internal/olap"
	"github.com/goliatone/go-profiles/internal/search"
	"github.com/goliatone/go-profiles/internal/tree"
	"github.com/goliatone/go-profiles/pkg/interfaces"
)

// NodeService exports the node service contract for consumers of the profiles package.
type NodeService = nodes.Service

// Node exports the generic node DTO.
type Node = nodes.Node

// Kind exports the node kind enum.
type Kind = nodes.Kind

// CreateNodeInput exports the node creation input.
type CreateNodeInput = nodes.CreateNodeInput

// UpdateNodeInput exports the node update input.
type UpdateNodeInput = nodes.UpdateNodeInput

// UpsertDimensionInput exports the dimension binding input.
type UpsertDimensionInput = nodes.UpsertDimensionInput

// DimensionBinding exports the dimension binding DTO.
type DimensionBinding = nodes.DimensionBinding

// MetaTopEntry exports the meta listing DTO with its top search member.
type MetaTopEntry = nodes.MetaTopEntry

// TreeAssembler exports the nested tree assembly service.
type TreeAssembler = tree.Assembler

// Profile exports the typed profile tree model.
type Profile = tree.Profile

// Story exports the typed story tree model.
type Story = tree.Story

// OLAPClient exports the analytics client contract.
type OLAPClient = interfaces.OLAPClient

// DimensionSelection addresses one search member through the slug of the
// profile binding it belongs to. Profile attribute lookups take one
// selection per bound dimension, in binding order.
type DimensionSelection struct {
	Slug     string
	MemberID string
}

// Module represents the top level profiles runtime façade.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider

	runner    *jobs.Runner
	nodeStore *nodes.BunStore
	nodeSvc   nodes.Service

	searchStore search.Store
	indexer     *search.Indexer
	olapClient  interfaces.OLAPClient

	assembler *tree.Assembler
}

// Option overrides module wiring during construction.
type Option func(*Module)

// WithLoggerProvider injects the logger provider used for module loggers.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		m.provider = provider
	}
}

// WithOLAPClient injects a pre-built analytics client, skipping the HTTP
// client construction and flavor probe.
func WithOLAPClient(client interfaces.OLAPClient) Option {
	return func(m *Module) {
		m.olapClient = client
	}
}

// WithSearchStore overrides the search persistence layer. Tests use the
// memory store.
func WithSearchStore(store search.Store) Option {
	return func(m *Module) {
		m.searchStore = store
	}
}

// New constructs a profiles module over the provided database handle.
func New(ctx context.Context, db *bun.DB, cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if m.provider == nil && cfg.Features.Logger {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	m.runner = jobs.NewRunner(
		jobs.WithLogger(logging.JobsLogger(m.provider)),
		jobs.WithTimeout(cfg.Jobs.Timeout),
		jobs.WithSynchronous(cfg.Jobs.Synchronous),
	)

	m.nodeStore = nodes.NewBunStore(db)

	if cfg.Features.Search {
		if m.olapClient == nil {
			clientOpts := []olap.Option{
				olap.WithLogger(logging.OLAPLogger(m.provider)),
			}
			if cfg.OLAP.Timeout > 0 {
				clientOpts = append(clientOpts, olap.WithHTTPClient(&http.Client{Timeout: cfg.OLAP.Timeout}))
			}
			if flavor := strings.TrimSpace(cfg.OLAP.Flavor); flavor != "" {
				clientOpts = append(clientOpts, olap.WithFlavor(olap.Flavor(flavor)))
			}
			client, err := olap.New(ctx, cfg.OLAP.BaseURL, clientOpts...)
			if err != nil {
				return nil, fmt.Errorf("profiles: olap client: %w", err)
			}
			m.olapClient = client
		}
		if m.searchStore == nil {
			m.searchStore = search.NewBunStore(db)
		}
		m.indexer = search.NewIndexer(m.olapClient, m.searchStore, m.nodeStore,
			search.WithIndexerLogger(logging.SearchLogger(m.provider)),
			search.WithLocales(cfg.OrderedLocales()),
		)
	}

	serviceOpts := []nodes.ServiceOption{
		nodes.WithLogger(logging.NodesLogger(m.provider)),
		nodes.WithRunner(m.runner),
		nodes.WithDefaultLocale(cfg.DefaultLocale),
	}
	if m.indexer != nil {
		serviceOpts = append(serviceOpts, nodes.WithSearchTrigger(m.indexer))
	}
	m.nodeSvc = nodes.NewService(m.nodeStore, serviceOpts...)

	m.assembler = tree.NewAssembler(tree.NewBunLoader(db), m.nodeStore,
		tree.WithLogger(logging.TreeLogger(m.provider)),
		tree.WithRunner(m.runner),
	)

	return m, nil
}

// Nodes returns the configured node service.
func (m *Module) Nodes() NodeService {
	return m.nodeSvc
}

// Tree returns the configured tree assembler.
func (m *Module) Tree() *TreeAssembler {
	return m.assembler
}

// Indexer returns the search indexer, or nil when search is disabled.
func (m *Module) Indexer() *search.Indexer {
	if m == nil {
		return nil
	}
	return m.indexer
}

// OLAP returns the analytics client, or nil when search is disabled.
func (m *Module) OLAP() OLAPClient {
	if m == nil {
		return nil
	}
	return m.olapClient
}

// Runner returns the background job runner used for repairs and reindexing.
func (m *Module) Runner() *jobs.Runner {
	return m.runner
}

// Close stops the background runner after draining in-flight tasks.
func (m *Module) Close() {
	if m == nil || m.runner == nil {
		return
	}
	m.runner.Close()
	m.runner.Wait()
}

// MetaWithTop lists every dimension binding with the top search member of its
// dimension attached. A binding whose dimension has no indexed rows, or whose
// lookup fails, carries a nil Top rather than failing the listing.
func (m *Module) MetaWithTop(ctx context.Context) ([]MetaTopEntry, error) {
	bindings, err := m.nodeStore.ListBindings(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]MetaTopEntry, 0, len(bindings))
	for _, binding := range bindings {
		entry := MetaTopEntry{Binding: binding}
		if m.searchStore != nil {
			top, err := m.searchStore.TopByDimension(ctx, binding.Dimension)
			if err != nil {
				logging.SearchLogger(m.provider).Warn("top member lookup failed",
					"dimension", binding.Dimension, "error", err)
			} else if top != nil {
				entry.Top = m.topMember(ctx, top)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ProfileAttr resolves the search attributes for a profile under the given
// dimension selections. The first selection's attributes form the base map;
// every selection additionally contributes its attributes under keys with a
// 1-based position suffix, so single-dimension profiles can read both "name"
// and "name1". Selections that match no indexed member contribute nothing.
func (m *Module) ProfileAttr(ctx context.Context, profileID int64, selections []DimensionSelection) (map[string]any, error) {
	if m.searchStore == nil || len(selections) == 0 {
		return map[string]any{}, nil
	}

	bindings, err := m.nodeStore.ListBindings(ctx)
	if err != nil {
		return nil, err
	}
	levelsBySlug := make(map[string][]string)
	for _, binding := range bindings {
		if binding.ProfileID == profileID {
			levelsBySlug[binding.Slug] = binding.Levels
		}
	}

	attr := map[string]any{}
	for i, selection := range selections {
		member, err := m.searchStore.FindMember(ctx, selection.MemberID, levelsBySlug[selection.Slug])
		if err != nil {
			if search.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		fields := memberAttr(member)
		if i == 0 {
			for key, value := range fields {
				attr[key] = value
			}
		}
		suffix := strconv.Itoa(i + 1)
		for key, value := range fields {
			attr[key+suffix] = value
		}
	}
	return attr, nil
}

func (m *Module) topMember(ctx context.Context, member *search.Member) *nodes.TopMember {
	top := &nodes.TopMember{
		MemberID:  member.MemberID,
		Slug:      member.Slug,
		ZValue:    member.ZValue,
		Dimension: member.Dimension,
		Hierarchy: member.Hierarchy,
	}
	content, err := m.searchStore.ListContent(ctx, member.ContentID)
	if err != nil {
		return top
	}
	for _, row := range content {
		if row.Locale == m.cfg.DefaultLocale || top.Name == "" {
			top.Name = row.Name
		}
	}
	return top
}

func memberAttr(member *search.Member) map[string]any {
	return map[string]any{
		"id":         member.MemberID,
		"dimension":  member.Dimension,
		"hierarchy":  member.Hierarchy,
		"zvalue":     member.ZValue,
		"stem":       member.Stem,
		"slug":       member.Slug,
		"content_id": member.ContentID,
	}
}
