package search

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/uptrace/bun"
)

// BunStore persists the search index through bun.
type BunStore struct {
	db bun.IDB

	// mintMu serializes content_id minting; the indexer only serializes
	// passes over the same dimension, so concurrent passes over different
	// dimensions could otherwise read the same MAX(content_id).
	mintMu sync.Mutex
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

func (s *BunStore) Get(ctx context.Context, memberID, dimension, hierarchy string) (*Member, error) {
	member := new(Member)
	err := s.db.NewSelect().
		Model(member).
		Where("id = ?", memberID).
		Where("dimension = ?", dimension).
		Where("hierarchy = ?", hierarchy).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Key: memberKey(memberID, dimension, hierarchy)}
		}
		return nil, err
	}
	return member, nil
}

func (s *BunStore) Insert(ctx context.Context, member *Member) error {
	if member.ContentID == 0 {
		s.mintMu.Lock()
		defer s.mintMu.Unlock()

		var max sql.NullInt64
		err := s.db.NewSelect().
			Model((*Member)(nil)).
			ColumnExpr("MAX(content_id)").
			Scan(ctx, &max)
		if err != nil {
			return err
		}
		member.ContentID = max.Int64 + 1
	}
	_, err := s.db.NewInsert().Model(member).Exec(ctx)
	return err
}

func (s *BunStore) Update(ctx context.Context, member *Member) error {
	res, err := s.db.NewUpdate().
		Model(member).
		Column("zvalue", "stem").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{Key: memberKey(member.MemberID, member.Dimension, member.Hierarchy)}
	}
	return nil
}

func (s *BunStore) Slugs(ctx context.Context) ([]string, error) {
	var slugs []string
	err := s.db.NewSelect().
		Model((*Member)(nil)).
		Column("slug").
		Where("slug IS NOT NULL AND slug != ''").
		Scan(ctx, &slugs)
	if err != nil {
		return nil, err
	}
	return slugs, nil
}

func (s *BunStore) DeleteByDimension(ctx context.Context, dimension string) (int, error) {
	var contentIDs []int64
	err := s.db.NewSelect().
		Model((*Member)(nil)).
		Column("content_id").
		Where("dimension = ?", dimension).
		Scan(ctx, &contentIDs)
	if err != nil {
		return 0, err
	}
	if len(contentIDs) > 0 {
		_, err = s.db.NewDelete().
			Model((*MemberContent)(nil)).
			Where("id IN (?)", bun.In(contentIDs)).
			Exec(ctx)
		if err != nil {
			return 0, err
		}
	}

	res, err := s.db.NewDelete().
		Model((*Member)(nil)).
		Where("dimension = ?", dimension).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (s *BunStore) TopByDimension(ctx context.Context, dimension string) (*Member, error) {
	member := new(Member)
	err := s.db.NewSelect().
		Model(member).
		Where("dimension = ?", dimension).
		Order("zvalue DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

func (s *BunStore) FindMember(ctx context.Context, memberID string, levels []string) (*Member, error) {
	member := new(Member)
	q := s.db.NewSelect().Model(member).Where("id = ?", memberID)
	if len(levels) > 0 {
		q = q.Where("hierarchy IN (?)", bun.In(levels))
	}
	if err := q.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Key: memberID}
		}
		return nil, err
	}
	return member, nil
}

func (s *BunStore) FindBySlug(ctx context.Context, slug string) (*Member, error) {
	member := new(Member)
	err := s.db.NewSelect().
		Model(member).
		Where("slug = ?", slug).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Key: slug}
		}
		return nil, err
	}
	return member, nil
}

func (s *BunStore) UpsertContent(ctx context.Context, contentID int64, locale, name string) error {
	res, err := s.db.NewUpdate().
		Model((*MemberContent)(nil)).
		Set("name = ?", name).
		Where("id = ?", contentID).
		Where("locale = ?", locale).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected > 0 {
		return nil
	}

	_, err = s.db.NewInsert().Model(&MemberContent{
		ContentID: contentID,
		Locale:    locale,
		Name:      name,
	}).Exec(ctx)
	return err
}

func (s *BunStore) ListContent(ctx context.Context, contentID int64) ([]*MemberContent, error) {
	var rows []*MemberContent
	err := s.db.NewSelect().
		Model(&rows).
		Where("id = ?", contentID).
		Order("locale ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func memberKey(memberID, dimension, hierarchy string) string {
	return fmt.Sprintf("%s:%s:%s", memberID, dimension, hierarchy)
}
