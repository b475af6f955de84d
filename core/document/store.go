package document

import (
	"context"
	"time"

	"github.com/asaidimu/go-griot/core/query"
)

// PublicationFilter restricts storage reads to one publication status. It is
// applied by the store on both execution paths, so publication visibility
// never depends on which path served a request.
type PublicationFilter string

const (
	// PubAny applies no publication filtering.
	PubAny PublicationFilter = ""
	// PubPublished selects documents published on or before now.
	PubPublished PublicationFilter = "published"
	// PubDraft selects documents with no publication timestamp.
	PubDraft PublicationFilter = "draft"
	// PubScheduled selects documents published after now.
	PubScheduled PublicationFilter = "scheduled"
)

// ListParams shapes a storage-level listing. Sort may only name
// system-indexed document fields; payload sorts belong to the in-memory path.
type ListParams struct {
	ContentTypeID string
	Publication   PublicationFilter
	Sort          []query.SortKey
	// Limit <= 0 means unbounded.
	Limit  int
	Offset int
}

// Store is the durable home of Document records. Implementations never
// interpret attribute semantics; the payload is an opaque blob to them.
// Lookups that find nothing return ErrNotFound.
type Store interface {
	// Get loads a document by its public id within a content type.
	Get(ctx context.Context, contentTypeID, documentID string) (*Document, error)
	// GetByID loads a document by its internal storage key.
	GetByID(ctx context.Context, id string) (*Document, error)
	// First returns any one document of the content type, used to enforce
	// single-type exclusivity.
	First(ctx context.Context, contentTypeID string) (*Document, error)
	// List returns documents matching the params, ordered and paginated
	// natively by the store.
	List(ctx context.Context, params ListParams) ([]*Document, error)
	// Count counts documents of a content type under a publication filter.
	Count(ctx context.Context, contentTypeID string, pub PublicationFilter) (int, error)
	// ResolveDocumentIDs maps public document ids to internal ids. Unknown
	// ids are absent from the result rather than an error.
	ResolveDocumentIDs(ctx context.Context, documentIDs []string) (map[string]string, error)
	// Insert persists a new document.
	Insert(ctx context.Context, doc *Document) error
	// ReplacePayload overwrites a document's payload and publication
	// timestamp, bumping its update time.
	ReplacePayload(ctx context.Context, id string, data map[string]any, publishedAt *time.Time) error
	// Delete removes a document by internal id.
	Delete(ctx context.Context, id string) error
}

// Edge is one directed, field-scoped, ordered link between two documents.
// Endpoints are internal ids; order is dense per (from, field).
type Edge struct {
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
	Field  string `json:"field"`
	Order  int    `json:"order"`
}

// Graph maintains relation edges alongside the document store.
type Graph interface {
	// ReplaceEdges atomically removes every edge originating at fromID and
	// inserts the given ordered set. A failure must leave the previous edge
	// set intact, never a half-replaced one.
	ReplaceEdges(ctx context.Context, fromID string, edges []Edge) error
	// EdgesFrom returns the ordered edges for one originating field.
	EdgesFrom(ctx context.Context, fromID, field string) ([]Edge, error)
	// DeleteAllFor removes every edge where the document is either endpoint.
	DeleteAllFor(ctx context.Context, id string) error
}

// MediaRecord is the externally-owned description of an uploaded file. The
// engine only ever resolves ids to records; upload and storage mechanics live
// with the media collaborator.
type MediaRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Mime string `json:"mime,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// MediaResolver resolves stored media ids to their records. Unknown ids are
// omitted from the result.
type MediaResolver interface {
	ResolveMedia(ctx context.Context, ids []string) ([]MediaRecord, error)
}
