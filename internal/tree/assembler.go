package tree

import (
	"context"
	"fmt"

	"github.com/goliatone/go-profiles/internal/jobs"
	"github.com/goliatone/go-profiles/internal/logging"
	"github.com/goliatone/go-profiles/internal/nodes"
	"github.com/goliatone/go-profiles/internal/ordering"
	"github.com/goliatone/go-profiles/pkg/interfaces"
)

// Loader fetches eager-loaded model graphs. The bun implementation issues
// relation queries; tests plug in a fixture loader.
type Loader interface {
	Profiles(ctx context.Context) ([]*Profile, error)
	Profile(ctx context.Context, id int64) (*Profile, error)
	Section(ctx context.Context, id int64) (*Section, error)
	Stories(ctx context.Context) ([]*Story, error)
	Story(ctx context.Context, id int64) (*Story, error)
	StorySection(ctx context.Context, id int64) (*StorySection, error)
}

// RepairStore persists ordering corrections discovered during assembly. The
// nodes store satisfies it.
type RepairStore interface {
	SetOrdering(ctx context.Context, kind nodes.Kind, id int64, position int) error
}

// Assembler produces nested content trees with every ordered level collated
// dense. Eager relation loads cannot cheaply guarantee sibling order at
// every depth, so each level is sorted and repaired after the fetch.
type Assembler struct {
	loader Loader
	store  RepairStore
	runner *jobs.Runner
	logger interfaces.Logger
}

type Option func(*Assembler)

func WithLogger(logger interfaces.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRunner moves repair writes off the read path.
func WithRunner(runner *jobs.Runner) Option {
	return func(a *Assembler) {
		a.runner = runner
	}
}

func NewAssembler(loader Loader, store RepairStore, opts ...Option) *Assembler {
	a := &Assembler{
		loader: loader,
		store:  store,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ProfileTree returns every profile with its full nested graph.
func (a *Assembler) ProfileTree(ctx context.Context) ([]*Profile, error) {
	profiles, err := a.loader.Profiles(ctx)
	if err != nil {
		return nil, err
	}
	profiles = collateLevel(ctx, a, nodes.KindProfile, profiles)
	for _, profile := range profiles {
		a.sortProfile(ctx, profile)
	}
	return profiles, nil
}

// Profile returns one profile's nested graph.
func (a *Assembler) Profile(ctx context.Context, id int64) (*Profile, error) {
	profile, err := a.loader.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	a.sortProfile(ctx, profile)
	return profile, nil
}

// Section returns one section with its ordered children.
func (a *Assembler) Section(ctx context.Context, id int64) (*Section, error) {
	section, err := a.loader.Section(ctx, id)
	if err != nil {
		return nil, err
	}
	a.sortSection(ctx, section)
	return section, nil
}

// StoryTree returns every story in its slim tree projection.
func (a *Assembler) StoryTree(ctx context.Context) ([]*Story, error) {
	stories, err := a.loader.Stories(ctx)
	if err != nil {
		return nil, err
	}
	stories = collateLevel(ctx, a, nodes.KindStory, stories)
	for _, story := range stories {
		story.StorySections = collateLevel(ctx, a, nodes.KindStorySection, story.StorySections)
	}
	return stories, nil
}

// Story returns one story with its ordered children.
func (a *Assembler) Story(ctx context.Context, id int64) (*Story, error) {
	story, err := a.loader.Story(ctx, id)
	if err != nil {
		return nil, err
	}
	story.Authors = collateLevel(ctx, a, nodes.KindAuthor, story.Authors)
	story.Descriptions = collateLevel(ctx, a, nodes.KindStoryDescription, story.Descriptions)
	story.Footnotes = collateLevel(ctx, a, nodes.KindStoryFootnote, story.Footnotes)
	story.StorySections = collateLevel(ctx, a, nodes.KindStorySection, story.StorySections)
	return story, nil
}

// StorySection returns one story section with its ordered children.
func (a *Assembler) StorySection(ctx context.Context, id int64) (*StorySection, error) {
	section, err := a.loader.StorySection(ctx, id)
	if err != nil {
		return nil, err
	}
	a.sortStorySection(ctx, section)
	return section, nil
}

func (a *Assembler) sortProfile(ctx context.Context, profile *Profile) {
	profile.Meta = collateLevel(ctx, a, nodes.KindProfileMeta, profile.Meta)
	profile.Sections = collateLevel(ctx, a, nodes.KindSection, profile.Sections)
	for _, section := range profile.Sections {
		a.sortSection(ctx, section)
	}
}

func (a *Assembler) sortSection(ctx context.Context, section *Section) {
	section.Subtitles = collateLevel(ctx, a, nodes.KindSectionSubtitle, section.Subtitles)
	section.Descriptions = collateLevel(ctx, a, nodes.KindSectionDescription, section.Descriptions)
	section.Stats = collateLevel(ctx, a, nodes.KindSectionStat, section.Stats)
	section.Visualizations = collateLevel(ctx, a, nodes.KindSectionVisualization, section.Visualizations)
	section.Bindings = collateJoinLevel(ctx, a, nodes.KindSectionSelector, section.Bindings)
}

func (a *Assembler) sortStorySection(ctx context.Context, section *StorySection) {
	section.Subtitles = collateLevel(ctx, a, nodes.KindStorySectionSubtitle, section.Subtitles)
	section.Descriptions = collateLevel(ctx, a, nodes.KindStorySectionDescription, section.Descriptions)
	section.Stats = collateLevel(ctx, a, nodes.KindStorySectionStat, section.Stats)
	section.Visualizations = collateLevel(ctx, a, nodes.KindStorySectionVisualization, section.Visualizations)
}

func collateLevel[T ordering.Item](ctx context.Context, a *Assembler, kind nodes.Kind, items []T) []T {
	sorted, repairs := ordering.Collate(items)
	a.resolveRepairs(ctx, kind, repairs)
	return sorted
}

func collateJoinLevel[T ordering.JoinItem](ctx context.Context, a *Assembler, kind nodes.Kind, items []T) []T {
	sorted, repairs := ordering.CollateIndirect(items)
	a.resolveRepairs(ctx, kind, repairs)
	return sorted
}

func (a *Assembler) resolveRepairs(ctx context.Context, kind nodes.Kind, repairs []ordering.Repair) {
	if len(repairs) == 0 {
		return
	}

	apply := func(ctx context.Context) error {
		for _, repair := range repairs {
			if err := a.store.SetOrdering(ctx, kind, repair.ID, repair.Position); err != nil {
				return fmt.Errorf("repair %s %d to %d: %w", kind, repair.ID, repair.Position, err)
			}
		}
		return nil
	}

	if a.runner != nil {
		if err := a.runner.Dispatch(ctx, jobs.Task{
			Name: "tree.repair." + kind.String(),
			Run:  apply,
		}); err != nil {
			a.logger.Warn("tree repair dispatch failed", "kind", kind, "error", err)
		}
		return
	}
	if err := apply(ctx); err != nil {
		a.logger.Warn("tree repair failed", "kind", kind, "error", err)
	}
}
