package nodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/uptrace/bun"
)

// BunStore persists node rows through bun. It accepts bun.IDB so the same
// store runs statements against the root connection or a transaction.
type BunStore struct {
	db bun.IDB
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

func (s *BunStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if db, ok := s.db.(*bun.DB); ok {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return fn(ctx, &BunStore{db: tx})
		})
	}
	// Already transactional; nested calls share the outer transaction.
	return fn(ctx, s)
}

func (s *BunStore) Get(ctx context.Context, kind Kind, id int64) (map[string]any, error) {
	row := map[string]any{}
	err := s.db.NewSelect().
		Table(kind.Table()).
		Where("id = ?", id).
		Scan(ctx, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Kind: kind, Key: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}
	return row, nil
}

func (s *BunStore) ListSiblings(ctx context.Context, kind Kind, parentID *int64) ([]map[string]any, error) {
	q := s.db.NewSelect().Table(kind.Table())
	q, err := scopeSiblings(q, kind, parentID)
	if err != nil {
		return nil, err
	}
	if kind.Ordered() {
		q = q.OrderExpr("ordering ASC, id ASC")
	} else {
		q = q.Order("id ASC")
	}

	rows := []map[string]any{}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SiblingAt returns nil without error when no sibling holds the ordering;
// swap treats a missing successor as a no-op, not a failure.
func (s *BunStore) SiblingAt(ctx context.Context, kind Kind, parentID *int64, ordering int) (map[string]any, error) {
	q := s.db.NewSelect().Table(kind.Table()).Where("ordering = ?", ordering)
	q, err := scopeSiblings(q, kind, parentID)
	if err != nil {
		return nil, err
	}

	row := map[string]any{}
	if err := q.OrderExpr("id ASC").Limit(1).Scan(ctx, &row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

func (s *BunStore) MaxOrdering(ctx context.Context, kind Kind, parentID *int64) (int, bool, error) {
	q := s.db.NewSelect().Table(kind.Table()).ColumnExpr("MAX(ordering)")
	q, err := scopeSiblings(q, kind, parentID)
	if err != nil {
		return 0, false, err
	}

	var max sql.NullInt64
	if err := q.Scan(ctx, &max); err != nil {
		return 0, false, err
	}
	return int(max.Int64), max.Valid, nil
}

func (s *BunStore) Insert(ctx context.Context, kind Kind, fields map[string]any) (int64, error) {
	res, err := s.db.NewInsert().
		Model(&fields).
		TableExpr(kind.Table()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *BunStore) Update(ctx context.Context, kind Kind, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res, err := s.db.NewUpdate().
		Model(&fields).
		TableExpr(kind.Table()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res, kind, strconv.FormatInt(id, 10))
}

func (s *BunStore) SetOrdering(ctx context.Context, kind Kind, id int64, ordering int) error {
	return s.Update(ctx, kind, id, map[string]any{"ordering": ordering})
}

func (s *BunStore) ShiftOrderings(ctx context.Context, kind Kind, parentID *int64, above int, delta int) error {
	q := s.db.NewUpdate().
		Table(kind.Table()).
		Set("ordering = ordering + ?", delta).
		Where("ordering > ?", above)
	if col := kind.ParentColumn(); col != "" {
		if parentID == nil {
			return ErrMissingParent
		}
		q = q.Where("? = ?", bun.Ident(col), *parentID)
	}
	_, err := q.Exec(ctx)
	return err
}

func (s *BunStore) Delete(ctx context.Context, kind Kind, id int64) error {
	if ct := kind.ContentTable(); ct != "" {
		if _, err := s.db.NewDelete().Table(ct).Where("id = ?", id).Exec(ctx); err != nil {
			return err
		}
	}
	res, err := s.db.NewDelete().Table(kind.Table()).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res, kind, strconv.FormatInt(id, 10))
}

func (s *BunStore) ListContent(ctx context.Context, kind Kind, id int64) ([]ContentRow, error) {
	ct := kind.ContentTable()
	if ct == "" {
		return nil, nil
	}
	raw := []map[string]any{}
	err := s.db.NewSelect().
		Table(ct).
		Where("id = ?", id).
		Order("locale ASC").
		Scan(ctx, &raw)
	if err != nil {
		return nil, err
	}

	out := make([]ContentRow, 0, len(raw))
	for _, row := range raw {
		out = append(out, contentRowFromRaw(row))
	}
	return out, nil
}

func (s *BunStore) UpsertContent(ctx context.Context, kind Kind, id int64, locale string, fields map[string]any) error {
	ct := kind.ContentTable()
	if ct == "" {
		return fmt.Errorf("%w: %s", ErrNotTranslatable, kind)
	}
	if locale == "" {
		return fmt.Errorf("nodes: content locale is required")
	}

	if len(fields) > 0 {
		update := make(map[string]any, len(fields))
		for k, v := range fields {
			update[k] = v
		}
		res, err := s.db.NewUpdate().
			Model(&update).
			TableExpr(ct).
			Where("id = ?", id).
			Where("locale = ?", locale).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err == nil && affected > 0 {
			return nil
		}
	} else if existing, err := s.hasContent(ctx, ct, id, locale); err != nil || existing {
		return err
	}

	insert := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		insert[k] = v
	}
	insert["id"] = id
	insert["locale"] = locale
	_, err := s.db.NewInsert().Model(&insert).TableExpr(ct).Exec(ctx)
	return err
}

func (s *BunStore) FindSectionSelector(ctx context.Context, selectorID, sectionID int64) (map[string]any, error) {
	row := map[string]any{}
	err := s.db.NewSelect().
		Table(KindSectionSelector.Table()).
		Where("selector_id = ?", selectorID).
		Where("section_id = ?", sectionID).
		Scan(ctx, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{
				Kind: KindSectionSelector,
				Key:  fmt.Sprintf("%d:%d", selectorID, sectionID),
			}
		}
		return nil, err
	}
	return row, nil
}

func (s *BunStore) ListBindings(ctx context.Context) ([]DimensionBinding, error) {
	raw := []map[string]any{}
	err := s.db.NewSelect().
		Table(KindProfileMeta.Table()).
		OrderExpr("profile_id ASC, ordering ASC, id ASC").
		Scan(ctx, &raw)
	if err != nil {
		return nil, err
	}

	out := make([]DimensionBinding, 0, len(raw))
	for _, row := range raw {
		binding, err := bindingFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *binding)
	}
	return out, nil
}

func (s *BunStore) GetBinding(ctx context.Context, id int64) (*DimensionBinding, error) {
	row, err := s.Get(ctx, KindProfileMeta, id)
	if err != nil {
		return nil, err
	}
	return bindingFromRow(row)
}

func (s *BunStore) CountBindingsByDimension(ctx context.Context, dimension string) (int, error) {
	return s.db.NewSelect().
		Table(KindProfileMeta.Table()).
		Where("dimension = ?", dimension).
		Count(ctx)
}

func (s *BunStore) hasContent(ctx context.Context, table string, id int64, locale string) (bool, error) {
	count, err := s.db.NewSelect().
		Table(table).
		Where("id = ?", id).
		Where("locale = ?", locale).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scopeSiblings(q *bun.SelectQuery, kind Kind, parentID *int64) (*bun.SelectQuery, error) {
	col := kind.ParentColumn()
	if col == "" {
		return q, nil
	}
	if parentID == nil {
		return nil, ErrMissingParent
	}
	return q.Where("? = ?", bun.Ident(col), *parentID), nil
}

func contentRowFromRaw(row map[string]any) ContentRow {
	fields := make(map[string]any, len(row))
	for k, v := range row {
		if k == "id" || k == "locale" {
			continue
		}
		fields[k] = v
	}
	return ContentRow{Locale: asString(row["locale"]), Fields: fields}
}
