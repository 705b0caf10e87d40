package tree

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/goliatone/go-profiles/internal/nodes"
	"github.com/uptrace/bun"
)

// BunLoader fetches model graphs through bun relation queries.
type BunLoader struct {
	db bun.IDB
}

func NewBunLoader(db *bun.DB) *BunLoader {
	return &BunLoader{db: db}
}

func (l *BunLoader) Profiles(ctx context.Context) ([]*Profile, error) {
	var profiles []*Profile
	err := l.profileQuery(&profiles).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (l *BunLoader) Profile(ctx context.Context, id int64) (*Profile, error) {
	profile := new(Profile)
	err := l.profileQuery(profile).Where("p.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &nodes.NotFoundError{Kind: nodes.KindProfile, Key: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}
	return profile, nil
}

func (l *BunLoader) Section(ctx context.Context, id int64) (*Section, error) {
	section := new(Section)
	err := l.db.NewSelect().
		Model(section).
		Relation("Content").
		Relation("Subtitles").
		Relation("Subtitles.Content").
		Relation("Descriptions").
		Relation("Descriptions.Content").
		Relation("Stats").
		Relation("Stats.Content").
		Relation("Visualizations").
		Relation("Bindings").
		Relation("Bindings.Selector").
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &nodes.NotFoundError{Kind: nodes.KindSection, Key: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}
	return section, nil
}

// Stories loads the slim tree projection: identity and title content only,
// with story sections one level down.
func (l *BunLoader) Stories(ctx context.Context) ([]*Story, error) {
	var stories []*Story
	err := l.db.NewSelect().
		Model(&stories).
		Column("st.id", "st.slug", "st.ordering").
		Relation("Content", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "locale", "title")
		}).
		Relation("StorySections", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "slug", "ordering", "story_id", "type")
		}).
		Relation("StorySections.Content", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "locale", "title")
		}).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return stories, nil
}

func (l *BunLoader) Story(ctx context.Context, id int64) (*Story, error) {
	story := new(Story)
	err := l.db.NewSelect().
		Model(story).
		Relation("Content").
		Relation("Authors").
		Relation("Authors.Content").
		Relation("Descriptions").
		Relation("Descriptions.Content").
		Relation("Footnotes").
		Relation("Footnotes.Content").
		Relation("StorySections").
		Relation("StorySections.Content").
		Where("st.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &nodes.NotFoundError{Kind: nodes.KindStory, Key: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}
	return story, nil
}

func (l *BunLoader) StorySection(ctx context.Context, id int64) (*StorySection, error) {
	section := new(StorySection)
	err := l.db.NewSelect().
		Model(section).
		Relation("Content").
		Relation("Subtitles").
		Relation("Subtitles.Content").
		Relation("Descriptions").
		Relation("Descriptions.Content").
		Relation("Stats").
		Relation("Stats.Content").
		Relation("Visualizations").
		Where("ss.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &nodes.NotFoundError{Kind: nodes.KindStorySection, Key: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}
	return section, nil
}

func (l *BunLoader) profileQuery(model any) *bun.SelectQuery {
	return l.db.NewSelect().
		Model(model).
		Relation("Content").
		Relation("Meta").
		Relation("Selectors").
		Relation("Sections").
		Relation("Sections.Content").
		Relation("Sections.Subtitles").
		Relation("Sections.Subtitles.Content").
		Relation("Sections.Descriptions").
		Relation("Sections.Descriptions.Content").
		Relation("Sections.Stats").
		Relation("Sections.Stats.Content").
		Relation("Sections.Visualizations").
		Relation("Sections.Bindings").
		Relation("Sections.Bindings.Selector")
}
