package tree

import "github.com/uptrace/bun"

// Typed read models for tree assembly. The generic node engine works on raw
// column maps; eager-loading nested trees wants concrete relations, so the
// same tables get typed projections here. Ordered models implement the
// collation interface so each level can be repaired in place.

type Profile struct {
	bun.BaseModel `bun:"table:profile,alias:p"`

	ID       int64 `bun:"id,pk,autoincrement" json:"id"`
	Ordering int   `bun:"ordering" json:"ordering"`

	Content   []*ProfileContent `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
	Meta      []*Meta           `bun:"rel:has-many,join:id=profile_id" json:"meta,omitempty"`
	Selectors []*Selector       `bun:"rel:has-many,join:id=profile_id" json:"selectors,omitempty"`
	Sections  []*Section        `bun:"rel:has-many,join:id=profile_id" json:"sections,omitempty"`
}

func (p *Profile) OrderingID() int64 { return p.ID }
func (p *Profile) Position() int     { return p.Ordering }
func (p *Profile) SetPosition(n int) { p.Ordering = n }

type ProfileContent struct {
	bun.BaseModel `bun:"table:profile_content"`

	ID       int64  `bun:"id,pk" json:"id"`
	Locale   string `bun:"locale,pk" json:"locale"`
	Title    string `bun:"title" json:"title"`
	Subtitle string `bun:"subtitle" json:"subtitle"`
	Label    string `bun:"label" json:"label"`
}

type Meta struct {
	bun.BaseModel `bun:"table:profile_meta"`

	ID        int64    `bun:"id,pk,autoincrement" json:"id"`
	ProfileID int64    `bun:"profile_id" json:"profile_id"`
	Ordering  int      `bun:"ordering" json:"ordering"`
	Slug      string   `bun:"slug" json:"slug"`
	Dimension string   `bun:"dimension" json:"dimension"`
	Hierarchy string   `bun:"hierarchy" json:"hierarchy"`
	Levels    []string `bun:"levels" json:"levels"`
	Measure   string   `bun:"measure" json:"measure"`
	CubeName  string   `bun:"cube_name" json:"cube_name"`
	Visible   bool     `bun:"visible" json:"visible"`
}

func (m *Meta) OrderingID() int64 { return m.ID }
func (m *Meta) Position() int     { return m.Ordering }
func (m *Meta) SetPosition(n int) { m.Ordering = n }

type Selector struct {
	bun.BaseModel `bun:"table:selector"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	ProfileID int64  `bun:"profile_id" json:"profile_id"`
	Name      string `bun:"name" json:"name"`
	Title     string `bun:"title" json:"title"`
	Options   string `bun:"options" json:"options"`
	Default   string `bun:"default" json:"default"`
	Type      string `bun:"type" json:"type"`
}

type Section struct {
	bun.BaseModel `bun:"table:section,alias:s"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	ProfileID int64  `bun:"profile_id" json:"profile_id"`
	Ordering  int    `bun:"ordering" json:"ordering"`
	Slug      string `bun:"slug" json:"slug"`
	Type      string `bun:"type" json:"type"`
	Allowed   string `bun:"allowed" json:"allowed"`

	Content        []*SectionContent       `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
	Subtitles      []*SectionSubtitle      `bun:"rel:has-many,join:id=section_id" json:"subtitles,omitempty"`
	Descriptions   []*SectionDescription   `bun:"rel:has-many,join:id=section_id" json:"descriptions,omitempty"`
	Stats          []*SectionStat          `bun:"rel:has-many,join:id=section_id" json:"stats,omitempty"`
	Visualizations []*SectionVisualization `bun:"rel:has-many,join:id=section_id" json:"visualizations,omitempty"`
	Bindings       []*SectionSelector      `bun:"rel:has-many,join:id=section_id" json:"selectors,omitempty"`
}

func (s *Section) OrderingID() int64 { return s.ID }
func (s *Section) Position() int     { return s.Ordering }
func (s *Section) SetPosition(n int) { s.Ordering = n }

type SectionContent struct {
	bun.BaseModel `bun:"table:section_content"`

	ID     int64  `bun:"id,pk" json:"id"`
	Locale string `bun:"locale,pk" json:"locale"`
	Title  string `bun:"title" json:"title"`
	Short  string `bun:"short" json:"short"`
}

type SectionSubtitle struct {
	bun.BaseModel `bun:"table:section_subtitle"`

	ID        int64 `bun:"id,pk,autoincrement" json:"id"`
	SectionID int64 `bun:"section_id" json:"section_id"`
	Ordering  int   `bun:"ordering" json:"ordering"`

	Content []*SectionSubtitleContent `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
}

func (s *SectionSubtitle) OrderingID() int64 { return s.ID }
func (s *SectionSubtitle) Position() int     { return s.Ordering }
func (s *SectionSubtitle) SetPosition(n int) { s.Ordering = n }

type SectionSubtitleContent struct {
	bun.BaseModel `bun:"table:section_subtitle_content"`

	ID       int64  `bun:"id,pk" json:"id"`
	Locale   string `bun:"locale,pk" json:"locale"`
	Subtitle string `bun:"subtitle" json:"subtitle"`
}

type SectionDescription struct {
	bun.BaseModel `bun:"table:section_description"`

	ID        int64 `bun:"id,pk,autoincrement" json:"id"`
	SectionID int64 `bun:"section_id" json:"section_id"`
	Ordering  int   `bun:"ordering" json:"ordering"`

	Content []*SectionDescriptionContent `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
}

func (s *SectionDescription) OrderingID() int64 { return s.ID }
func (s *SectionDescription) Position() int     { return s.Ordering }
func (s *SectionDescription) SetPosition(n int) { s.Ordering = n }

type SectionDescriptionContent struct {
	bun.BaseModel `bun:"table:section_description_content"`

	ID          int64  `bun:"id,pk" json:"id"`
	Locale      string `bun:"locale,pk" json:"locale"`
	Description string `bun:"description" json:"description"`
}

type SectionStat struct {
	bun.BaseModel `bun:"table:section_stat"`

	ID        int64 `bun:"id,pk,autoincrement" json:"id"`
	SectionID int64 `bun:"section_id" json:"section_id"`
	Ordering  int   `bun:"ordering" json:"ordering"`

	Content []*SectionStatContent `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
}

func (s *SectionStat) OrderingID() int64 { return s.ID }
func (s *SectionStat) Position() int     { return s.Ordering }
func (s *SectionStat) SetPosition(n int) { s.Ordering = n }

type SectionStatContent struct {
	bun.BaseModel `bun:"table:section_stat_content"`

	ID       int64  `bun:"id,pk" json:"id"`
	Locale   string `bun:"locale,pk" json:"locale"`
	Title    string `bun:"title" json:"title"`
	Subtitle string `bun:"subtitle" json:"subtitle"`
	Value    string `bun:"value" json:"value"`
	Tooltip  string `bun:"tooltip" json:"tooltip"`
}

type SectionVisualization struct {
	bun.BaseModel `bun:"table:section_visualization"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	SectionID int64  `bun:"section_id" json:"section_id"`
	Ordering  int    `bun:"ordering" json:"ordering"`
	Logic     string `bun:"logic" json:"logic"`
	Allowed   string `bun:"allowed" json:"allowed"`
}

func (s *SectionVisualization) OrderingID() int64 { return s.ID }
func (s *SectionVisualization) Position() int     { return s.Ordering }
func (s *SectionVisualization) SetPosition(n int) { s.Ordering = n }

// SectionSelector is the binding carrying a selector's ordering within one
// section.
type SectionSelector struct {
	bun.BaseModel `bun:"table:section_selector"`

	ID         int64 `bun:"id,pk,autoincrement" json:"id"`
	SectionID  int64 `bun:"section_id" json:"section_id"`
	SelectorID int64 `bun:"selector_id" json:"selector_id"`
	Ordering   int   `bun:"ordering" json:"ordering"`

	Selector *Selector `bun:"rel:belongs-to,join:selector_id=id" json:"selector,omitempty"`
}

func (s *SectionSelector) OrderingID() int64 { return s.SelectorID }
func (s *SectionSelector) Position() int     { return s.Ordering }
func (s *SectionSelector) SetPosition(n int) { s.Ordering = n }
func (s *SectionSelector) JoinID() int64     { return s.ID }

type Story struct {
	bun.BaseModel `bun:"table:story,alias:st"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Ordering int    `bun:"ordering" json:"ordering"`
	Slug     string `bun:"slug" json:"slug"`
	Image    string `bun:"image" json:"image"`
	Date     string `bun:"date" json:"date"`

	Content       []*StoryContent     `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
	Authors       []*Author           `bun:"rel:has-many,join:id=story_id" json:"authors,omitempty"`
	Descriptions  []*StoryDescription `bun:"rel:has-many,join:id=story_id" json:"descriptions,omitempty"`
	Footnotes     []*StoryFootnote    `bun:"rel:has-many,join:id=story_id" json:"footnotes,omitempty"`
	StorySections []*StorySection     `bun:"rel:has-many,join:id=story_id" json:"storysections,omitempty"`
}

func (s *Story) OrderingID() int64 { return s.ID }
func (s *Story) Position() int     { return s.Ordering }
func (s *Story) SetPosition(n int) { s.Ordering = n }

type StoryContent struct {
	bun.BaseModel `bun:"table:story_content"`

	ID       int64  `bun:"id,pk" json:"id"`
	Locale   string `bun:"locale,pk" json:"locale"`
	Title    string `bun:"title" json:"title"`
	Subtitle string `bun:"subtitle" json:"subtitle"`
	Label    string `bun:"label" json:"label"`
}

type Author struct {
	bun.BaseModel `bun:"table:author"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	StoryID  int64  `bun:"story_id" json:"story_id"`
	Ordering int    `bun:"ordering" json:"ordering"`
	Image    string `bun:"image" json:"image"`

	Content []*AuthorContent `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
}

func (a *Author) OrderingID() int64 { return a.ID }
func (a *Author) Position() int     { return a.Ordering }
func (a *Author) SetPosition(n int) { a.Ordering = n }

type AuthorContent struct {
	bun.BaseModel `bun:"table:author_content"`

	ID     int64  `bun:"id,pk" json:"id"`
	Locale string `bun:"locale,pk" json:"locale"`
	Name   string `bun:"name" json:"name"`
	Title  string `bun:"title" json:"title"`
	Bio    string `bun:"bio" json:"bio"`
}

type StoryDescription struct {
	bun.BaseModel `bun:"table:story_description"`

	ID       int64 `bun:"id,pk,autoincrement" json:"id"`
	StoryID  int64 `bun:"story_id" json:"story_id"`
	Ordering int   `bun:"ordering" json:"ordering"`

	Content []*StoryDescriptionContent `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
}

func (s *StoryDescription) OrderingID() int64 { return s.ID }
func (s *StoryDescription) Position() int     { return s.Ordering }
func (s *StoryDescription) SetPosition(n int) { s.Ordering = n }

type StoryDescriptionContent struct {
	bun.BaseModel `bun:"table:story_description_content"`

	ID          int64  `bun:"id,pk" json:"id"`
	Locale      string `bun:"locale,pk" json:"locale"`
	Description string `bun:"description" json:"description"`
}

type StoryFootnote struct {
	bun.BaseModel `bun:"table:story_footnote"`

	ID       int64 `bun:"id,pk,autoincrement" json:"id"`
	StoryID  int64 `bun:"story_id" json:"story_id"`
	Ordering int   `bun:"ordering" json:"ordering"`

	Content []*StoryFootnoteContent `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
}

func (s *StoryFootnote) OrderingID() int64 { return s.ID }
func (s *StoryFootnote) Position() int     { return s.Ordering }
func (s *StoryFootnote) SetPosition(n int) { s.Ordering = n }

type StoryFootnoteContent struct {
	bun.BaseModel `bun:"table:story_footnote_content"`

	ID          int64  `bun:"id,pk" json:"id"`
	Locale      string `bun:"locale,pk" json:"locale"`
	Description string `bun:"description" json:"description"`
}

type StorySection struct {
	bun.BaseModel `bun:"table:storysection,alias:ss"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	StoryID  int64  `bun:"story_id" json:"story_id"`
	Ordering int    `bun:"ordering" json:"ordering"`
	Slug     string `bun:"slug" json:"slug"`
	Type     string `bun:"type" json:"type"`

	Content        []*StorySectionContent       `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
	Subtitles      []*StorySectionSubtitle      `bun:"rel:has-many,join:id=storysection_id" json:"subtitles,omitempty"`
	Descriptions   []*StorySectionDescription   `bun:"rel:has-many,join:id=storysection_id" json:"descriptions,omitempty"`
	Stats          []*StorySectionStat          `bun:"rel:has-many,join:id=storysection_id" json:"stats,omitempty"`
	Visualizations []*StorySectionVisualization `bun:"rel:has-many,join:id=storysection_id" json:"visualizations,omitempty"`
}

func (s *StorySection) OrderingID() int64 { return s.ID }
func (s *StorySection) Position() int     { return s.Ordering }
func (s *StorySection) SetPosition(n int) { s.Ordering = n }

type StorySectionContent struct {
	bun.BaseModel `bun:"table:storysection_content"`

	ID     int64  `bun:"id,pk" json:"id"`
	Locale string `bun:"locale,pk" json:"locale"`
	Title  string `bun:"title" json:"title"`
	Short  string `bun:"short" json:"short"`
}

type StorySectionSubtitle struct {
	bun.BaseModel `bun:"table:storysection_subtitle"`

	ID             int64 `bun:"id,pk,autoincrement" json:"id"`
	StorySectionID int64 `bun:"storysection_id" json:"storysection_id"`
	Ordering       int   `bun:"ordering" json:"ordering"`

	Content []*StorySectionSubtitleContent `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
}

func (s *StorySectionSubtitle) OrderingID() int64 { return s.ID }
func (s *StorySectionSubtitle) Position() int     { return s.Ordering }
func (s *StorySectionSubtitle) SetPosition(n int) { s.Ordering = n }

type StorySectionSubtitleContent struct {
	bun.BaseModel `bun:"table:storysection_subtitle_content"`

	ID       int64  `bun:"id,pk" json:"id"`
	Locale   string `bun:"locale,pk" json:"locale"`
	Subtitle string `bun:"subtitle" json:"subtitle"`
}

type StorySectionDescription struct {
	bun.BaseModel `bun:"table:storysection_description"`

	ID             int64 `bun:"id,pk,autoincrement" json:"id"`
	StorySectionID int64 `bun:"storysection_id" json:"storysection_id"`
	Ordering       int   `bun:"ordering" json:"ordering"`

	Content []*StorySectionDescriptionContent `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
}

func (s *StorySectionDescription) OrderingID() int64 { return s.ID }
func (s *StorySectionDescription) Position() int     { return s.Ordering }
func (s *StorySectionDescription) SetPosition(n int) { s.Ordering = n }

type StorySectionDescriptionContent struct {
	bun.BaseModel `bun:"table:storysection_description_content"`

	ID          int64  `bun:"id,pk" json:"id"`
	Locale      string `bun:"locale,pk" json:"locale"`
	Description string `bun:"description" json:"description"`
}

type StorySectionStat struct {
	bun.BaseModel `bun:"table:storysection_stat"`

	ID             int64 `bun:"id,pk,autoincrement" json:"id"`
	StorySectionID int64 `bun:"storysection_id" json:"storysection_id"`
	Ordering       int   `bun:"ordering" json:"ordering"`

	Content []*StorySectionStatContent `bun:"rel:has-many,join:id=id" json:"content,omitempty"`
}

func (s *StorySectionStat) OrderingID() int64 { return s.ID }
func (s *StorySectionStat) Position() int     { return s.Ordering }
func (s *StorySectionStat) SetPosition(n int) { s.Ordering = n }

type StorySectionStatContent struct {
	bun.BaseModel `bun:"table:storysection_stat_content"`

	ID       int64  `bun:"id,pk" json:"id"`
	Locale   string `bun:"locale,pk" json:"locale"`
	Title    string `bun:"title" json:"title"`
	Subtitle string `bun:"subtitle" json:"subtitle"`
	Value    string `bun:"value" json:"value"`
	Tooltip  string `bun:"tooltip" json:"tooltip"`
}

type StorySectionVisualization struct {
	bun.BaseModel `bun:"table:storysection_visualization"`

	ID             int64  `bun:"id,pk,autoincrement" json:"id"`
	StorySectionID int64  `bun:"storysection_id" json:"storysection_id"`
	Ordering       int    `bun:"ordering" json:"ordering"`
	Logic          string `bun:"logic" json:"logic"`
	Allowed        string `bun:"allowed" json:"allowed"`
}

func (s *StorySectionVisualization) OrderingID() int64 { return s.ID }
func (s *StorySectionVisualization) Position() int     { return s.Ordering }
func (s *StorySectionVisualization) SetPosition(n int) { s.Ordering = n }
