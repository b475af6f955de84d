package document

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/asaidimu/go-griot/core/query"
)

// memStore is the in-memory Store and Graph used by the engine tests.
type memStore struct {
	mu    sync.Mutex
	docs  []*Document
	edges []Edge
}

func newMemStore() *memStore { return &memStore{} }

var (
	_ Store = (*memStore)(nil)
	_ Graph = (*memStore)(nil)
)

func (s *memStore) Get(ctx context.Context, contentTypeID, documentID string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.ContentTypeID == contentTypeID && d.DocumentID == documentID {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) GetByID(ctx context.Context, id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) First(ctx context.Context, contentTypeID string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.ContentTypeID == contentTypeID {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func matchesPublication(d *Document, pub PublicationFilter, now time.Time) bool {
	switch pub {
	case PubPublished:
		return d.PublishedAt != nil && !d.PublishedAt.After(now)
	case PubDraft:
		return d.PublishedAt == nil
	case PubScheduled:
		return d.PublishedAt != nil && d.PublishedAt.After(now)
	}
	return true
}

func compareSystem(a, b *Document, field string) int {
	switch field {
	case "documentId":
		switch {
		case a.DocumentID < b.DocumentID:
			return -1
		case a.DocumentID > b.DocumentID:
			return 1
		}
		return 0
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "publishedAt":
		var ta, tb time.Time
		if a.PublishedAt != nil {
			ta = *a.PublishedAt
		}
		if b.PublishedAt != nil {
			tb = *b.PublishedAt
		}
		return ta.Compare(tb)
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

func (s *memStore) List(ctx context.Context, params ListParams) ([]*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var out []*Document
	for _, d := range s.docs {
		if d.ContentTypeID == params.ContentTypeID && matchesPublication(d, params.Publication, now) {
			out = append(out, d)
		}
	}
	keys := params.Sort
	if len(keys) == 0 {
		keys = []query.SortKey{{Field: "createdAt", Direction: query.SortDesc}}
	}
	sort.SliceStable(out, func(i, j int) bool {
		for _, key := range keys {
			cmp := compareSystem(out[i], out[j], key.Field)
			if cmp == 0 {
				continue
			}
			if key.Direction == query.SortDesc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	if params.Offset > 0 {
		if params.Offset >= len(out) {
			return nil, nil
		}
		out = out[params.Offset:]
	}
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (s *memStore) Count(ctx context.Context, contentTypeID string, pub PublicationFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	count := 0
	for _, d := range s.docs {
		if d.ContentTypeID == contentTypeID && matchesPublication(d, pub, now) {
			count++
		}
	}
	return count, nil
}

func (s *memStore) ResolveDocumentIDs(ctx context.Context, documentIDs []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string)
	for _, want := range documentIDs {
		for _, d := range s.docs {
			if d.DocumentID == want {
				out[want] = d.ID
				break
			}
		}
	}
	return out, nil
}

func (s *memStore) Insert(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	return nil
}

func (s *memStore) ReplacePayload(ctx context.Context, id string, data map[string]any, publishedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.ID == id {
			d.Data = data
			d.PublishedAt = publishedAt
			d.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.docs {
		if d.ID == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *memStore) ReplaceEdges(ctx context.Context, fromID string, edges []Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.FromID != fromID {
			kept = append(kept, e)
		}
	}
	s.edges = append(kept, edges...)
	return nil
}

func (s *memStore) EdgesFrom(ctx context.Context, fromID, field string) ([]Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Edge
	for _, e := range s.edges {
		if e.FromID == fromID && e.Field == field {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *memStore) DeleteAllFor(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.FromID != id && e.ToID != id {
			kept = append(kept, e)
		}
	}
	s.edges = kept
	return nil
}

// memMedia resolves media ids from a fixed set.
type memMedia struct {
	records map[string]MediaRecord
}

var _ MediaResolver = (*memMedia)(nil)

func (m *memMedia) ResolveMedia(ctx context.Context, ids []string) ([]MediaRecord, error) {
	var out []MediaRecord
	for _, id := range ids {
		if rec, ok := m.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}
