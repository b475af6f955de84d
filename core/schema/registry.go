package schema

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrTypeNotFound is returned when no content type matches the requested id.
var ErrTypeNotFound = errors.New("content type not found")

// ContentTypeResolver resolves a content-type identifier to its definition.
// The engine consumes this interface only; the backing source (in-memory set,
// database table, config file) is the caller's concern.
type ContentTypeResolver interface {
	ResolveByPlural(ctx context.Context, pluralID string) (*ContentType, error)
	ResolveBySingular(ctx context.Context, singularID string) (*ContentType, error)
}

// Registry is an in-memory ContentTypeResolver, safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	byPlural   map[string]*ContentType
	bySingular map[string]*ContentType
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byPlural:   make(map[string]*ContentType),
		bySingular: make(map[string]*ContentType),
	}
}

var _ ContentTypeResolver = (*Registry)(nil)

// Register validates and adds a content type. Identifiers are matched
// case-insensitively; registering a type under an already-registered plural id
// replaces the previous definition.
func (r *Registry) Register(ct *ContentType) error {
	if err := ct.Validate(); err != nil {
		return err
	}
	if ct.ID == "" {
		ct.ID = strings.ToLower(ct.PluralID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPlural[strings.ToLower(ct.PluralID)] = ct
	r.bySingular[strings.ToLower(ct.SingularID)] = ct
	return nil
}

// ResolveByPlural looks up a content type by its plural id.
func (r *Registry) ResolveByPlural(ctx context.Context, pluralID string) (*ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.byPlural[strings.ToLower(pluralID)]
	if !ok {
		return nil, ErrTypeNotFound
	}
	return ct, nil
}

// ResolveBySingular looks up a content type by its singular id.
func (r *Registry) ResolveBySingular(ctx context.Context, singularID string) (*ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.bySingular[strings.ToLower(singularID)]
	if !ok {
		return nil, ErrTypeNotFound
	}
	return ct, nil
}

// ContentTypes returns all registered definitions, keyed by plural id.
func (r *Registry) ContentTypes() []*ContentType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ContentType, 0, len(r.byPlural))
	for _, ct := range r.byPlural {
		out = append(out, ct)
	}
	return out
}
