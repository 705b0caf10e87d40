package search

import (
	"context"
	"sort"
	"sync"
)

type memberIdentity struct {
	id        string
	dimension string
	hierarchy string
}

type localeKey struct {
	contentID int64
	locale    string
}

// MemoryStore is an in-memory Store for indexer tests.
type MemoryStore struct {
	mu      sync.Mutex
	seq     int64
	members map[memberIdentity]*Member
	content map[localeKey]*MemberContent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		members: make(map[memberIdentity]*Member),
		content: make(map[localeKey]*MemberContent),
	}
}

func (s *MemoryStore) Get(ctx context.Context, memberID, dimension, hierarchy string) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[memberIdentity{memberID, dimension, hierarchy}]
	if !ok {
		return nil, &NotFoundError{Key: memberKey(memberID, dimension, hierarchy)}
	}
	clone := *member
	return &clone, nil
}

func (s *MemoryStore) Insert(ctx context.Context, member *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if member.ContentID == 0 {
		s.seq++
		member.ContentID = s.seq
	} else if member.ContentID > s.seq {
		s.seq = member.ContentID
	}
	clone := *member
	s.members[memberIdentity{member.MemberID, member.Dimension, member.Hierarchy}] = &clone
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, member *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.members[memberIdentity{member.MemberID, member.Dimension, member.Hierarchy}]
	if !ok {
		return &NotFoundError{Key: memberKey(member.MemberID, member.Dimension, member.Hierarchy)}
	}
	// Slug stays as written at insert.
	existing.ZValue = member.ZValue
	existing.Stem = member.Stem
	return nil
}

func (s *MemoryStore) Slugs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []string{}
	for _, member := range s.members {
		if member.Slug != "" {
			out = append(out, member.Slug)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) DeleteByDimension(ctx context.Context, dimension string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	affected := 0
	for identity, member := range s.members {
		if identity.dimension != dimension {
			continue
		}
		for key := range s.content {
			if key.contentID == member.ContentID {
				delete(s.content, key)
			}
		}
		delete(s.members, identity)
		affected++
	}
	return affected, nil
}

func (s *MemoryStore) TopByDimension(ctx context.Context, dimension string) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var top *Member
	for identity, member := range s.members {
		if identity.dimension != dimension {
			continue
		}
		if top == nil || member.ZValue > top.ZValue {
			top = member
		}
	}
	if top == nil {
		return nil, nil
	}
	clone := *top
	return &clone, nil
}

func (s *MemoryStore) FindMember(ctx context.Context, memberID string, levels []string) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for identity, member := range s.members {
		if identity.id != memberID {
			continue
		}
		if len(levels) > 0 && !containsString(levels, identity.hierarchy) {
			continue
		}
		clone := *member
		return &clone, nil
	}
	return nil, &NotFoundError{Key: memberID}
}

func (s *MemoryStore) FindBySlug(ctx context.Context, slug string) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, member := range s.members {
		if member.Slug == slug {
			clone := *member
			return &clone, nil
		}
	}
	return nil, &NotFoundError{Key: slug}
}

func (s *MemoryStore) UpsertContent(ctx context.Context, contentID int64, locale, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := localeKey{contentID: contentID, locale: locale}
	if row, ok := s.content[key]; ok {
		row.Name = name
		return nil
	}
	s.content[key] = &MemberContent{ContentID: contentID, Locale: locale, Name: name}
	return nil
}

func (s *MemoryStore) ListContent(ctx context.Context, contentID int64) ([]*MemberContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*MemberContent{}
	for key, row := range s.content {
		if key.contentID != contentID {
			continue
		}
		clone := *row
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Locale < out[j].Locale })
	return out, nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
