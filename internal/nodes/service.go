package nodes

import (
	"context"
	"fmt"

	"github.com/goliatone/go-profiles/internal/jobs"
	"github.com/goliatone/go-profiles/internal/logging"
	"github.com/goliatone/go-profiles/internal/ordering"
	"github.com/goliatone/go-profiles/pkg/interfaces"
)

// Service exposes the node engine: generic CRUD over the closed kind set,
// dense-ordering maintenance (swap, delete-renumber, repair-on-read), the
// per-locale content mirror, and dimension binding upserts that drive the
// search indexer.
type Service interface {
	// Get loads a node with its content rows for translatable kinds.
	Get(ctx context.Context, kind Kind, id int64) (*Node, error)
	// GetSlim lists a sibling group without content, collated dense.
	GetSlim(ctx context.Context, kind Kind, parentID *int64) ([]*Node, error)
	// Create inserts a node at the end of its sibling group. For
	// translatable kinds the default locale content row is written in the
	// same transaction, seeded from the payload's content fields.
	Create(ctx context.Context, input CreateNodeInput) (*Node, error)
	// Update writes entity fields and upserts content rows per locale.
	// Content fields found in the payload go to the default locale.
	Update(ctx context.Context, input UpdateNodeInput) (*Node, error)
	// Swap exchanges the node with its next sibling and returns the
	// resulting sibling list. A node without a successor is a no-op.
	Swap(ctx context.Context, kind Kind, id int64) ([]*Node, error)
	// SwapSelector is the join-row variant: it swaps a section_selector
	// binding with its successor and returns the section's selector list.
	SwapSelector(ctx context.Context, sectionSelectorID int64) ([]*Node, error)
	// Delete removes the node, renumbers later siblings down by one, and
	// returns the remaining sibling list ascending.
	Delete(ctx context.Context, kind Kind, id int64) ([]*Node, error)
	// DeleteSelectorBinding removes a selector binding by its composite
	// key, renumbers the section's remaining bindings, and returns them.
	DeleteSelectorBinding(ctx context.Context, selectorID, sectionID int64) ([]*Node, error)
	// NewProfileScaffold creates an empty profile with a default locale
	// content row and one Hero section, and returns the profile node.
	NewProfileScaffold(ctx context.Context) (*Node, error)
	// UpsertDimension inserts or updates a profile_meta binding and
	// triggers the search passes the change calls for.
	UpsertDimension(ctx context.Context, input UpsertDimensionInput) (*DimensionBinding, error)
	// SectionSelectors returns a section's selectors ordered by their
	// binding, repaired through the indirect collation.
	SectionSelectors(ctx context.Context, sectionID int64) ([]*Node, error)
}

// SearchTrigger receives dimension change notifications. The search indexer
// implements it; tests plug in fakes.
type SearchTrigger interface {
	PopulateDimension(ctx context.Context, binding DimensionBinding) error
	PruneDimension(ctx context.Context, dimension string) error
}

type service struct {
	store         Store
	logger        interfaces.Logger
	runner        *jobs.Runner
	search        SearchTrigger
	defaultLocale string
}

type ServiceOption func(*service)

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRunner hands repair writes and search passes to a background runner.
// Without one, both run inline before the call returns.
func WithRunner(runner *jobs.Runner) ServiceOption {
	return func(s *service) {
		s.runner = runner
	}
}

func WithSearchTrigger(trigger SearchTrigger) ServiceOption {
	return func(s *service) {
		s.search = trigger
	}
}

func WithDefaultLocale(locale string) ServiceOption {
	return func(s *service) {
		if locale != "" {
			s.defaultLocale = locale
		}
	}
}

func NewService(store Store, opts ...ServiceOption) Service {
	svc := &service{
		store:         store,
		logger:        logging.NoOp(),
		defaultLocale: "en",
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) Get(ctx context.Context, kind Kind, id int64) (*Node, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	row, err := s.store.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	node := nodeFromRow(kind, row)
	if kind.Translatable() {
		content, err := s.store.ListContent(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		node.Content = content
	}
	return node, nil
}

func (s *service) GetSlim(ctx context.Context, kind Kind, parentID *int64) ([]*Node, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	rows, err := s.store.ListSiblings(ctx, kind, parentID)
	if err != nil {
		return nil, err
	}
	if kind.Ordered() {
		var repairs []ordering.Repair
		rows, repairs = collateRows(rows)
		s.resolveRepairs(ctx, kind, repairs)
	}
	return nodesFromRows(kind, rows), nil
}

func (s *service) Create(ctx context.Context, input CreateNodeInput) (*Node, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var id int64
	err := s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		created, err := s.create(ctx, tx, input)
		if err != nil {
			return err
		}
		id = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, input.Kind, id)
}

func (s *service) create(ctx context.Context, tx Store, input CreateNodeInput) (int64, error) {
	kind := input.Kind
	entity, content := splitPayload(kind, input.Payload)

	if col := kind.ParentColumn(); col != "" {
		entity[col] = *input.ParentID
	}
	if kind.Ordered() {
		max, found, err := tx.MaxOrdering(ctx, kind, input.ParentID)
		if err != nil {
			return 0, err
		}
		next := 0
		if found {
			next = max + 1
		}
		entity["ordering"] = next
	}

	id, err := tx.Insert(ctx, kind, entity)
	if err != nil {
		return 0, err
	}
	if kind.Translatable() {
		if err := tx.UpsertContent(ctx, kind, id, s.defaultLocale, content); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (s *service) Update(ctx context.Context, input UpdateNodeInput) (*Node, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	kind := input.Kind
	entity, content := splitPayload(kind, input.Payload)
	if len(entity) == 0 && len(content) == 0 && len(input.Content) == 0 {
		return nil, ErrEmptyUpdatePayload
	}

	err := s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		if _, err := tx.Get(ctx, kind, input.ID); err != nil {
			return err
		}
		if len(entity) > 0 {
			if err := tx.Update(ctx, kind, input.ID, entity); err != nil {
				return err
			}
		}
		if len(content) > 0 {
			if err := tx.UpsertContent(ctx, kind, input.ID, s.defaultLocale, content); err != nil {
				return err
			}
		}
		for _, row := range input.Content {
			if err := tx.UpsertContent(ctx, kind, input.ID, row.Locale, row.Fields); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, kind, input.ID)
}

func (s *service) Swap(ctx context.Context, kind Kind, id int64) ([]*Node, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if !kind.Ordered() {
		return nil, fmt.Errorf("%w: %s", ErrNotOrdered, kind)
	}

	row, err := s.store.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	parentID := parentOf(kind, row)
	position := int(asInt64(row["ordering"]))

	err = s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		successor, err := tx.SiblingAt(ctx, kind, parentID, position+1)
		if err != nil {
			return err
		}
		if successor == nil {
			s.logger.Debug("swap skipped, node is last among siblings",
				"kind", kind, "id", id, "ordering", position)
			return nil
		}
		if err := tx.SetOrdering(ctx, kind, id, position+1); err != nil {
			return err
		}
		return tx.SetOrdering(ctx, kind, asInt64(successor["id"]), position)
	})
	if err != nil {
		return nil, err
	}
	return s.GetSlim(ctx, kind, parentID)
}

func (s *service) SwapSelector(ctx context.Context, sectionSelectorID int64) ([]*Node, error) {
	binding, err := s.store.Get(ctx, KindSectionSelector, sectionSelectorID)
	if err != nil {
		return nil, err
	}
	sectionID := asInt64(binding["section_id"])
	position := int(asInt64(binding["ordering"]))

	err = s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		successor, err := tx.SiblingAt(ctx, KindSectionSelector, &sectionID, position+1)
		if err != nil {
			return err
		}
		if successor == nil {
			s.logger.Debug("selector swap skipped, binding is last in section",
				"section_selector_id", sectionSelectorID, "ordering", position)
			return nil
		}
		if err := tx.SetOrdering(ctx, KindSectionSelector, sectionSelectorID, position+1); err != nil {
			return err
		}
		return tx.SetOrdering(ctx, KindSectionSelector, asInt64(successor["id"]), position)
	})
	if err != nil {
		return nil, err
	}
	return s.SectionSelectors(ctx, sectionID)
}

func (s *service) Delete(ctx context.Context, kind Kind, id int64) ([]*Node, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	row, err := s.store.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	parentID := parentOf(kind, row)
	position := int(asInt64(row["ordering"]))

	prune, err := s.dimensionsToPrune(ctx, kind, id, row)
	if err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		if kind.Ordered() {
			if err := tx.ShiftOrderings(ctx, kind, parentID, position, -1); err != nil {
				return err
			}
		}
		return tx.Delete(ctx, kind, id)
	})
	if err != nil {
		return nil, err
	}

	for _, dimension := range prune {
		s.triggerPrune(ctx, dimension)
	}

	return s.GetSlim(ctx, kind, parentID)
}

func (s *service) DeleteSelectorBinding(ctx context.Context, selectorID, sectionID int64) ([]*Node, error) {
	binding, err := s.store.FindSectionSelector(ctx, selectorID, sectionID)
	if err != nil {
		return nil, err
	}
	bindingID := asInt64(binding["id"])
	position := int(asInt64(binding["ordering"]))

	err = s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.ShiftOrderings(ctx, KindSectionSelector, &sectionID, position, -1); err != nil {
			return err
		}
		return tx.Delete(ctx, KindSectionSelector, bindingID)
	})
	if err != nil {
		return nil, err
	}
	return s.SectionSelectors(ctx, sectionID)
}

func (s *service) NewProfileScaffold(ctx context.Context) (*Node, error) {
	var profileID int64
	err := s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
		id, err := s.create(ctx, tx, CreateNodeInput{Kind: KindProfile, Payload: map[string]any{}})
		if err != nil {
			return err
		}
		profileID = id

		_, err = s.create(ctx, tx, CreateNodeInput{
			Kind:     KindSection,
			ParentID: &id,
			Payload:  map[string]any{"type": "Hero"},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, KindProfile, profileID)
}

func (s *service) UpsertDimension(ctx context.Context, input UpsertDimensionInput) (*DimensionBinding, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	visible := true
	if input.Visible != nil {
		visible = *input.Visible
	}
	binding := DimensionBinding{
		ID:        input.ID,
		ProfileID: input.ProfileID,
		Slug:      input.Slug,
		Dimension: input.Dimension,
		Hierarchy: input.Hierarchy,
		Levels:    input.Levels,
		Measure:   input.Measure,
		CubeName:  input.CubeName,
		Visible:   visible,
	}

	if input.ID == 0 {
		err := s.store.InTx(ctx, func(ctx context.Context, tx Store) error {
			max, found, err := tx.MaxOrdering(ctx, KindProfileMeta, &input.ProfileID)
			if err != nil {
				return err
			}
			if found {
				binding.Ordering = max + 1
			}
			id, err := tx.Insert(ctx, KindProfileMeta, bindingRow(binding))
			if err != nil {
				return err
			}
			binding.ID = id
			return nil
		})
		if err != nil {
			return nil, err
		}
		s.triggerPopulate(ctx, binding)
		return &binding, nil
	}

	previous, err := s.store.GetBinding(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	binding.Ordering = previous.Ordering
	if err := s.store.Update(ctx, KindProfileMeta, input.ID, bindingRow(binding)); err != nil {
		return nil, err
	}
	if dimensionChanged(previous, &binding) {
		s.triggerPrune(ctx, previous.Dimension)
		s.triggerPopulate(ctx, binding)
	}
	return &binding, nil
}

func (s *service) SectionSelectors(ctx context.Context, sectionID int64) ([]*Node, error) {
	bindings, err := s.store.ListSiblings(ctx, KindSectionSelector, &sectionID)
	if err != nil {
		return nil, err
	}

	items := make([]*selectorItem, 0, len(bindings))
	for _, binding := range bindings {
		selector, err := s.store.Get(ctx, KindSelector, asInt64(binding["selector_id"]))
		if err != nil {
			return nil, err
		}
		items = append(items, &selectorItem{
			selector:  selector,
			bindingID: asInt64(binding["id"]),
			position:  int(asInt64(binding["ordering"])),
		})
	}

	sorted, repairs := ordering.CollateIndirect(items)
	s.resolveRepairs(ctx, KindSectionSelector, repairs)

	out := make([]*Node, len(sorted))
	for i, item := range sorted {
		node := nodeFromRow(KindSelector, item.selector)
		node.Ordering = item.position
		node.Fields["section_selector_id"] = item.bindingID
		out[i] = node
	}
	return out, nil
}

// resolveRepairs persists collation corrections. With a runner the writes
// happen in the background and the corrected in-memory list is returned
// immediately; without one they are awaited. Failures are logged, the read
// result stands either way and the next pass repairs again.
func (s *service) resolveRepairs(ctx context.Context, kind Kind, repairs []ordering.Repair) {
	if len(repairs) == 0 {
		return
	}

	apply := func(ctx context.Context) error {
		for _, repair := range repairs {
			if err := s.store.SetOrdering(ctx, kind, repair.ID, repair.Position); err != nil {
				return fmt.Errorf("repair %s %d to %d: %w", kind, repair.ID, repair.Position, err)
			}
		}
		return nil
	}

	if s.runner != nil {
		if err := s.runner.Dispatch(ctx, jobs.Task{
			Name: "nodes.repair." + kind.String(),
			Run:  apply,
		}); err != nil {
			s.logger.Warn("ordering repair dispatch failed", "kind", kind, "error", err)
		}
		return
	}
	if err := apply(ctx); err != nil {
		s.logger.Warn("ordering repair failed", "kind", kind, "error", err)
	}
}

// dimensionsToPrune captures the dimensions a delete detaches before the
// rows disappear.
func (s *service) dimensionsToPrune(ctx context.Context, kind Kind, id int64, row map[string]any) ([]string, error) {
	switch kind {
	case KindProfileMeta:
		return []string{asString(row["dimension"])}, nil
	case KindProfile:
		bindings, err := s.store.ListBindings(ctx)
		if err != nil {
			return nil, err
		}
		var out []string
		for _, binding := range bindings {
			if binding.ProfileID == id {
				out = append(out, binding.Dimension)
			}
		}
		return out, nil
	default:
		return nil, nil
	}
}

func (s *service) triggerPopulate(ctx context.Context, binding DimensionBinding) {
	if s.search == nil {
		return
	}
	run := func(ctx context.Context) error {
		return s.search.PopulateDimension(ctx, binding)
	}
	if s.runner != nil {
		if err := s.runner.Dispatch(ctx, jobs.Task{Name: "search.populate." + binding.Dimension, Run: run}); err != nil {
			s.logger.Warn("search populate dispatch failed", "dimension", binding.Dimension, "error", err)
		}
		return
	}
	if err := run(ctx); err != nil {
		s.logger.Warn("search populate failed", "dimension", binding.Dimension, "error", err)
	}
}

func (s *service) triggerPrune(ctx context.Context, dimension string) {
	if s.search == nil || dimension == "" {
		return
	}
	run := func(ctx context.Context) error {
		return s.search.PruneDimension(ctx, dimension)
	}
	if s.runner != nil {
		if err := s.runner.Dispatch(ctx, jobs.Task{Name: "search.prune." + dimension, Run: run}); err != nil {
			s.logger.Warn("search prune dispatch failed", "dimension", dimension, "error", err)
		}
		return
	}
	if err := run(ctx); err != nil {
		s.logger.Warn("search prune failed", "dimension", dimension, "error", err)
	}
}

func dimensionChanged(previous, next *DimensionBinding) bool {
	if previous.Dimension != next.Dimension {
		return true
	}
	if len(previous.Levels) != len(next.Levels) {
		return true
	}
	for i := range previous.Levels {
		if previous.Levels[i] != next.Levels[i] {
			return true
		}
	}
	return false
}

func splitPayload(kind Kind, payload map[string]any) (entity, content map[string]any) {
	entity = make(map[string]any)
	content = make(map[string]any)
	for key, value := range payload {
		if key == "id" || key == "ordering" {
			continue
		}
		if kind.Translatable() && kind.isContentColumn(key) {
			content[key] = value
			continue
		}
		entity[key] = value
	}
	return entity, content
}

func nodeFromRow(kind Kind, row map[string]any) *Node {
	node := &Node{
		ID:     asInt64(row["id"]),
		Kind:   kind,
		Fields: make(map[string]any, len(row)),
	}
	if kind.Ordered() {
		node.Ordering = int(asInt64(row["ordering"]))
	}
	parentCol := kind.ParentColumn()
	for key, value := range row {
		switch key {
		case "id", "ordering":
			continue
		case parentCol:
			parent := asInt64(value)
			node.ParentID = &parent
			continue
		}
		node.Fields[key] = value
	}
	return node
}

func nodesFromRows(kind Kind, rows []map[string]any) []*Node {
	out := make([]*Node, len(rows))
	for i, row := range rows {
		out[i] = nodeFromRow(kind, row)
	}
	return out
}

func parentOf(kind Kind, row map[string]any) *int64 {
	if kind.ParentColumn() == "" {
		return nil
	}
	parent := asInt64(row[kind.ParentColumn()])
	return &parent
}
