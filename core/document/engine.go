package document

import (
	"context"
	"fmt"

	"github.com/asaidimu/go-events"
	"go.uber.org/zap"

	"github.com/asaidimu/go-griot/core/query"
	"github.com/asaidimu/go-griot/core/schema"
)

// DefaultCandidateCap bounds the number of documents the in-memory execution
// path will fetch as candidates. Filtered or searched queries over more
// documents than this see approximate totals: matches beyond the cap are not
// considered. This is a deliberate cost bound, not a bug.
const DefaultCandidateCap = 2000

// Pagination describes the page window of a list result.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Meta carries result metadata.
type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Result is a single-document response.
type Result struct {
	Data map[string]any `json:"data"`
	Meta Meta           `json:"meta"`
}

// ListResult is a multi-document response with pagination metadata.
type ListResult struct {
	Data []map[string]any `json:"data"`
	Meta Meta             `json:"meta"`
}

// Engine evaluates document queries and drives the write path. All
// collaborators are explicit dependencies; the engine holds no ambient state.
type Engine struct {
	registry  schema.ContentTypeResolver
	store     Store
	graph     Graph
	eval      *query.Evaluator
	formatter *Formatter
	logger    *zap.Logger
	bus       *events.TypedEventBus[Event]
	cap       int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCandidateCap overrides the in-memory candidate cap.
func WithCandidateCap(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cap = n
		}
	}
}

// WithMediaResolver wires the media collaborator used to hydrate media
// attributes. Without one, media attributes format as their stored ids.
func WithMediaResolver(media MediaResolver) Option {
	return func(e *Engine) {
		e.formatter.media = media
	}
}

// NewEngine creates a document engine over the given collaborators.
func NewEngine(registry schema.ContentTypeResolver, store Store, graph Graph, opts ...Option) (*Engine, error) {
	bus, err := events.NewTypedEventBus[Event](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}
	e := &Engine{
		registry: registry,
		store:    store,
		graph:    graph,
		logger:   zap.NewNop(),
		bus:      bus,
		cap:      DefaultCandidateCap,
	}
	e.formatter = NewFormatter(store, graph, nil, e.logger)
	for _, opt := range opts {
		opt(e)
	}
	e.eval = query.NewEvaluator(e.logger)
	e.formatter.logger = e.logger
	return e, nil
}

// publicationFilter translates the query-time lens into the storage-level
// publication filter. Live sees only currently published documents; preview
// sees everything unless narrowed by a status.
func publicationFilter(opts *query.Options) PublicationFilter {
	if opts.PublicationState == query.PublicationLive {
		return PubPublished
	}
	switch opts.Status {
	case query.StatusDraft:
		return PubDraft
	case query.StatusPublished:
		return PubPublished
	case query.StatusScheduled:
		return PubScheduled
	}
	return PubAny
}

// allowedFilterKeys is the set of field names a filter may reference: the
// type's attributes plus the filterable document-level fields.
func allowedFilterKeys(ct *schema.ContentType) map[string]struct{} {
	allowed := ct.AttributeNames()
	for _, f := range []string{"documentId", "createdAt", "updatedAt", "publishedAt"} {
		allowed[f] = struct{}{}
	}
	return allowed
}

// canPushDown is the execution-path predicate: storage handles the request
// natively only when there is nothing to filter, nothing to search, and every
// sort key is a system-indexed field.
func canPushDown(filter *query.Filter, search string, sortKeys []query.SortKey) bool {
	return filter == nil && search == "" && query.IsSystemSort(sortKeys)
}

// systemSortOrDefault keeps only the sort keys the store can order on,
// falling back to newest-first.
func systemSortOrDefault(sortKeys []query.SortKey) []query.SortKey {
	if query.IsSystemSort(sortKeys) && len(sortKeys) > 0 {
		return sortKeys
	}
	return []query.SortKey{{Field: "createdAt", Direction: query.SortDesc}}
}

// Find evaluates a filter/sort/search/pagination request over one content
// type and returns the formatted page with pagination metadata.
func (e *Engine) Find(ctx context.Context, pluralID string, opts query.Options) (*ListResult, error) {
	ct, err := e.registry.ResolveByPlural(ctx, pluralID)
	if err != nil {
		return nil, err
	}
	opts.Normalize()

	pub := publicationFilter(&opts)
	filter := query.ParseFilters(opts.Filters, allowedFilterKeys(ct))
	sortKeys := query.ParseSort(opts.Sort)

	if canPushDown(filter, opts.Search, sortKeys) {
		return e.findPushDown(ctx, ct, &opts, pub, sortKeys)
	}
	return e.findInMemory(ctx, ct, &opts, pub, filter, sortKeys)
}

// findPushDown delegates ordering and pagination to the document store.
func (e *Engine) findPushDown(ctx context.Context, ct *schema.ContentType, opts *query.Options, pub PublicationFilter, sortKeys []query.SortKey) (*ListResult, error) {
	total, err := e.store.Count(ctx, ct.ID, pub)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents of %q: %w", ct.PluralID, err)
	}
	docs, err := e.store.List(ctx, ListParams{
		ContentTypeID: ct.ID,
		Publication:   pub,
		Sort:          systemSortOrDefault(sortKeys),
		Limit:         opts.PageSize,
		Offset:        (opts.Page - 1) * opts.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents of %q: %w", ct.PluralID, err)
	}
	e.logger.Debug("Query served by storage push-down",
		zap.String("contentType", ct.PluralID),
		zap.Int("total", total),
		zap.Int("page", opts.Page))
	return e.formatPage(ctx, ct, docs, opts, total)
}

// findInMemory fetches a bounded candidate set and filters, searches, sorts
// and paginates it in process memory. Totals are computed over the candidate
// set, so they are capped approximations for very large types.
func (e *Engine) findInMemory(ctx context.Context, ct *schema.ContentType, opts *query.Options, pub PublicationFilter, filter *query.Filter, sortKeys []query.SortKey) (*ListResult, error) {
	docs, err := e.store.List(ctx, ListParams{
		ContentTypeID: ct.ID,
		Publication:   pub,
		Sort:          systemSortOrDefault(sortKeys),
		Limit:         e.cap,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates for %q: %w", ct.PluralID, err)
	}

	if filter != nil {
		filtered := docs[:0]
		for _, doc := range docs {
			if e.eval.Match(doc.Field, filter) {
				filtered = append(filtered, doc)
			}
		}
		docs = filtered
	}
	if opts.Search != "" {
		docs = applySearch(docs, opts.Search, ct, opts.SearchField)
	}
	if len(sortKeys) > 0 && !query.IsSystemSort(sortKeys) {
		docs = sortDocuments(docs, sortKeys, ct)
	}

	total := len(docs)
	start := (opts.Page - 1) * opts.PageSize
	if start > total {
		start = total
	}
	end := start + opts.PageSize
	if end > total {
		end = total
	}
	e.logger.Debug("Query served in memory",
		zap.String("contentType", ct.PluralID),
		zap.Int("candidates", total),
		zap.Int("page", opts.Page))
	return e.formatPage(ctx, ct, docs[start:end], opts, total)
}

// formatPage formats a page of documents and attaches pagination metadata.
func (e *Engine) formatPage(ctx context.Context, ct *schema.ContentType, docs []*Document, opts *query.Options, total int) (*ListResult, error) {
	data := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		formatted, err := e.formatter.Format(ctx, doc, ct, opts.Populate, opts.Fields)
		if err != nil {
			return nil, err
		}
		data = append(data, formatted)
	}
	pageCount := 0
	if opts.PageSize > 0 {
		pageCount = (total + opts.PageSize - 1) / opts.PageSize
	}
	return &ListResult{
		Data: data,
		Meta: Meta{Pagination: &Pagination{
			Page:      opts.Page,
			PageSize:  opts.PageSize,
			PageCount: pageCount,
			Total:     total,
		}},
	}, nil
}

// FindOne loads and formats a single document by its public id.
func (e *Engine) FindOne(ctx context.Context, pluralID, documentID string, opts query.Options) (*Result, error) {
	ct, err := e.registry.ResolveByPlural(ctx, pluralID)
	if err != nil {
		return nil, err
	}
	doc, err := e.store.Get(ctx, ct.ID, documentID)
	if err != nil {
		return nil, err
	}
	formatted, err := e.formatter.Format(ctx, doc, ct, opts.Populate, opts.Fields)
	if err != nil {
		return nil, err
	}
	return &Result{Data: formatted}, nil
}
