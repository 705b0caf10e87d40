package nodes

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

type contentKey struct {
	id     int64
	locale string
}

// MemoryStore is an in-memory Store used by service tests and lightweight
// setups. Semantics mirror BunStore, including descendant cascade on delete.
type MemoryStore struct {
	mu      sync.Mutex
	seq     int64
	rows    map[Kind]map[int64]map[string]any
	content map[Kind]map[contentKey]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:    make(map[Kind]map[int64]map[string]any),
		content: make(map[Kind]map[contentKey]map[string]any),
	}
}

// InTx runs fn against the store directly. The memory store has no real
// transactions; tests rely on single-goroutine access for atomicity.
func (s *MemoryStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return fn(ctx, s)
}

func (s *MemoryStore) Get(ctx context.Context, kind Kind, id int64) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[kind][id]
	if !ok {
		return nil, &NotFoundError{Kind: kind, Key: strconv.FormatInt(id, 10)}
	}
	return cloneRow(row), nil
}

func (s *MemoryStore) ListSiblings(ctx context.Context, kind Kind, parentID *int64) ([]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.siblingsLocked(kind, parentID)
}

func (s *MemoryStore) SiblingAt(ctx context.Context, kind Kind, parentID *int64, ordering int) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	siblings, err := s.siblingsLocked(kind, parentID)
	if err != nil {
		return nil, err
	}
	for _, row := range siblings {
		if int(asInt64(row["ordering"])) == ordering {
			return row, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) MaxOrdering(ctx context.Context, kind Kind, parentID *int64) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	siblings, err := s.siblingsLocked(kind, parentID)
	if err != nil {
		return 0, false, err
	}
	if len(siblings) == 0 {
		return 0, false, nil
	}

	max := 0
	for _, row := range siblings {
		if o := int(asInt64(row["ordering"])); o > max {
			max = o
		}
	}
	return max, true, nil
}

func (s *MemoryStore) Insert(ctx context.Context, kind Kind, fields map[string]any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	id := s.seq
	row := cloneRow(fields)
	row["id"] = id
	if s.rows[kind] == nil {
		s.rows[kind] = make(map[int64]map[string]any)
	}
	s.rows[kind][id] = row
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, kind Kind, id int64, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[kind][id]
	if !ok {
		return &NotFoundError{Kind: kind, Key: strconv.FormatInt(id, 10)}
	}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		row[k] = v
	}
	return nil
}

func (s *MemoryStore) SetOrdering(ctx context.Context, kind Kind, id int64, ordering int) error {
	return s.Update(ctx, kind, id, map[string]any{"ordering": ordering})
}

func (s *MemoryStore) ShiftOrderings(ctx context.Context, kind Kind, parentID *int64, above int, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	siblings, err := s.siblingsLocked(kind, parentID)
	if err != nil {
		return err
	}
	for _, clone := range siblings {
		if o := int(asInt64(clone["ordering"])); o > above {
			s.rows[kind][asInt64(clone["id"])]["ordering"] = o + delta
		}
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, kind Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(kind, id)
}

func (s *MemoryStore) deleteLocked(kind Kind, id int64) error {
	if _, ok := s.rows[kind][id]; !ok {
		return &NotFoundError{Kind: kind, Key: strconv.FormatInt(id, 10)}
	}

	for _, child := range kind.ChildKinds() {
		col := child.ParentColumn()
		for childID, row := range s.rows[child] {
			if asInt64(row[col]) == id {
				_ = s.deleteLocked(child, childID)
			}
		}
	}
	// Selector bindings reference selectors outside the parent-column chain.
	if kind == KindSelector {
		for bindingID, row := range s.rows[KindSectionSelector] {
			if asInt64(row["selector_id"]) == id {
				delete(s.rows[KindSectionSelector], bindingID)
			}
		}
	}

	for key := range s.content[kind] {
		if key.id == id {
			delete(s.content[kind], key)
		}
	}
	delete(s.rows[kind], id)
	return nil
}

func (s *MemoryStore) ListContent(ctx context.Context, kind Kind, id int64) ([]ContentRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !kind.Translatable() {
		return nil, nil
	}

	out := []ContentRow{}
	for key, fields := range s.content[kind] {
		if key.id != id {
			continue
		}
		out = append(out, ContentRow{Locale: key.locale, Fields: cloneRow(fields)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Locale < out[j].Locale })
	return out, nil
}

func (s *MemoryStore) UpsertContent(ctx context.Context, kind Kind, id int64, locale string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !kind.Translatable() {
		return fmt.Errorf("%w: %s", ErrNotTranslatable, kind)
	}
	if locale == "" {
		return fmt.Errorf("nodes: content locale is required")
	}

	if s.content[kind] == nil {
		s.content[kind] = make(map[contentKey]map[string]any)
	}
	key := contentKey{id: id, locale: locale}
	existing, ok := s.content[kind][key]
	if !ok {
		s.content[kind][key] = cloneRow(fields)
		return nil
	}
	for k, v := range fields {
		existing[k] = v
	}
	return nil
}

func (s *MemoryStore) FindSectionSelector(ctx context.Context, selectorID, sectionID int64) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows[KindSectionSelector] {
		if asInt64(row["selector_id"]) == selectorID && asInt64(row["section_id"]) == sectionID {
			return cloneRow(row), nil
		}
	}
	return nil, &NotFoundError{
		Kind: KindSectionSelector,
		Key:  fmt.Sprintf("%d:%d", selectorID, sectionID),
	}
}

func (s *MemoryStore) ListBindings(ctx context.Context) ([]DimensionBinding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []DimensionBinding{}
	for _, row := range s.rows[KindProfileMeta] {
		binding, err := bindingFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *binding)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProfileID != out[j].ProfileID {
			return out[i].ProfileID < out[j].ProfileID
		}
		if out[i].Ordering != out[j].Ordering {
			return out[i].Ordering < out[j].Ordering
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) GetBinding(ctx context.Context, id int64) (*DimensionBinding, error) {
	row, err := s.Get(ctx, KindProfileMeta, id)
	if err != nil {
		return nil, err
	}
	return bindingFromRow(row)
}

func (s *MemoryStore) CountBindingsByDimension(ctx context.Context, dimension string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, row := range s.rows[KindProfileMeta] {
		if asString(row["dimension"]) == dimension {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) siblingsLocked(kind Kind, parentID *int64) ([]map[string]any, error) {
	col := kind.ParentColumn()
	if col != "" && parentID == nil {
		return nil, ErrMissingParent
	}

	out := []map[string]any{}
	for _, row := range s.rows[kind] {
		if col != "" && asInt64(row[col]) != *parentID {
			continue
		}
		out = append(out, cloneRow(row))
	}
	sort.Slice(out, func(i, j int) bool {
		if kind.Ordered() {
			oi, oj := asInt64(out[i]["ordering"]), asInt64(out[j]["ordering"])
			if oi != oj {
				return oi < oj
			}
		}
		return asInt64(out[i]["id"]) < asInt64(out[j]["id"])
	})
	return out, nil
}

func cloneRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
