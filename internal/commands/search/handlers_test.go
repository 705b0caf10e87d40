package searchcmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-profiles/internal/nodes"
)

type stubBindingReader struct {
	binding *nodes.DimensionBinding
	err     error

	requested []int64
}

func (s *stubBindingReader) GetBinding(ctx context.Context, id int64) (*nodes.DimensionBinding, error) {
	s.requested = append(s.requested, id)
	if s.err != nil {
		return nil, s.err
	}
	return s.binding, nil
}

type stubIndexer struct {
	populated []nodes.DimensionBinding
	pruned    []string
	err       error
}

func (s *stubIndexer) PopulateDimension(ctx context.Context, binding nodes.DimensionBinding) error {
	if s.err != nil {
		return s.err
	}
	s.populated = append(s.populated, binding)
	return nil
}

func (s *stubIndexer) PruneDimension(ctx context.Context, dimension string) error {
	if s.err != nil {
		return s.err
	}
	s.pruned = append(s.pruned, dimension)
	return nil
}

func geoBinding() *nodes.DimensionBinding {
	return &nodes.DimensionBinding{
		ID:        7,
		ProfileID: 1,
		Dimension: "Geography",
		Hierarchy: "Geography",
		Levels:    []string{"State"},
		Measure:   "Population",
		CubeName:  "acs_population",
	}
}

func TestRepopulateSearchLoadsBindingAndPopulates(t *testing.T) {
	reader := &stubBindingReader{binding: geoBinding()}
	indexer := &stubIndexer{}
	handler := NewRepopulateSearchHandler(reader, indexer, nil)

	err := handler.Execute(context.Background(), RepopulateSearchCommand{BindingID: 7})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if len(reader.requested) != 1 || reader.requested[0] != 7 {
		t.Fatalf("binding lookups = %v, want [7]", reader.requested)
	}
	if len(indexer.populated) != 1 || indexer.populated[0].Dimension != "Geography" {
		t.Fatalf("populated = %+v", indexer.populated)
	}
}

func TestRepopulateSearchRejectsMissingBindingID(t *testing.T) {
	reader := &stubBindingReader{binding: geoBinding()}
	indexer := &stubIndexer{}
	handler := NewRepopulateSearchHandler(reader, indexer, nil)

	if err := handler.Execute(context.Background(), RepopulateSearchCommand{}); err == nil {
		t.Fatal("expected validation error for zero binding id")
	}
	if len(reader.requested) != 0 {
		t.Fatalf("expected no lookup on invalid message, got %v", reader.requested)
	}
}

func TestRepopulateSearchPropagatesLookupFailure(t *testing.T) {
	reader := &stubBindingReader{err: &nodes.NotFoundError{Kind: nodes.KindProfileMeta, Key: "9"}}
	indexer := &stubIndexer{}
	handler := NewRepopulateSearchHandler(reader, indexer, nil)

	err := handler.Execute(context.Background(), RepopulateSearchCommand{BindingID: 9})
	if err == nil {
		t.Fatal("expected error for missing binding")
	}
	if len(indexer.populated) != 0 {
		t.Fatalf("indexer should not run on lookup failure, got %+v", indexer.populated)
	}
}

func TestRepopulateSearchPropagatesIndexerFailure(t *testing.T) {
	reader := &stubBindingReader{binding: geoBinding()}
	indexer := &stubIndexer{err: errors.New("cube unavailable")}
	handler := NewRepopulateSearchHandler(reader, indexer, nil)

	if err := handler.Execute(context.Background(), RepopulateSearchCommand{BindingID: 7}); err == nil {
		t.Fatal("expected indexer failure to surface")
	}
}

func TestPruneSearchForwardsDimension(t *testing.T) {
	indexer := &stubIndexer{}
	handler := NewPruneSearchHandler(indexer, nil)

	if err := handler.Execute(context.Background(), PruneSearchCommand{Dimension: "Geography"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(indexer.pruned) != 1 || indexer.pruned[0] != "Geography" {
		t.Fatalf("pruned = %v, want [Geography]", indexer.pruned)
	}
}

func TestPruneSearchRequiresDimension(t *testing.T) {
	indexer := &stubIndexer{}
	handler := NewPruneSearchHandler(indexer, nil)

	if err := handler.Execute(context.Background(), PruneSearchCommand{Dimension: "   "}); err == nil {
		t.Fatal("expected validation error for blank dimension")
	}
	if len(indexer.pruned) != 0 {
		t.Fatalf("expected no prune on invalid message, got %v", indexer.pruned)
	}
}
