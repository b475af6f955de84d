package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/asaidimu/go-griot/core/schema"
)

// Formatter assembles the outward representation of a document: system
// fields, payload, hydrated relations and media, and field projection.
type Formatter struct {
	store  Store
	graph  Graph
	media  MediaResolver
	logger *zap.Logger
}

// NewFormatter creates a formatter over the given collaborators. media may be
// nil, in which case media attributes pass through as their stored ids.
func NewFormatter(store Store, graph Graph, media MediaResolver, logger *zap.Logger) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{store: store, graph: graph, media: media, logger: logger}
}

// Format renders a document. populate is "*" or a list of attribute names;
// relation attributes hydrate at depth one only, which bounds response size
// and cuts relation cycles. fields projects the payload but always preserves
// the system fields.
func (f *Formatter) Format(ctx context.Context, doc *Document, ct *schema.ContentType, populate any, fields []string) (map[string]any, error) {
	out := make(map[string]any, len(doc.Data)+8)
	for k, v := range doc.Data {
		out[k] = v
	}
	out["id"] = doc.ID
	out["documentId"] = doc.DocumentID
	out["createdAt"] = doc.CreatedAt.UTC().Format(time.RFC3339)
	out["updatedAt"] = doc.UpdatedAt.UTC().Format(time.RFC3339)
	out["locale"] = doc.Locale
	if doc.PublishedAt != nil {
		out["publishedAt"] = doc.PublishedAt.UTC().Format(time.RFC3339)
	} else {
		out["publishedAt"] = nil
	}

	opts := populateOptions(populate)
	if opts != nil {
		if err := f.hydrate(ctx, doc, ct, opts, out); err != nil {
			return nil, err
		}
	}

	if len(fields) > 0 {
		allowed := map[string]struct{}{
			"id": {}, "documentId": {}, "createdAt": {}, "updatedAt": {},
			"publishedAt": {}, "locale": {},
		}
		for _, name := range fields {
			allowed[name] = struct{}{}
		}
		for key := range out {
			if _, ok := allowed[key]; !ok {
				delete(out, key)
			}
		}
	}
	return out, nil
}

// populateOptions normalizes the populate parameter: nil means no population,
// an empty map means populate everything, otherwise only the named attributes.
func populateOptions(populate any) map[string]struct{} {
	switch p := populate.(type) {
	case string:
		if p == "*" {
			return map[string]struct{}{}
		}
	case []string:
		if len(p) == 0 {
			return nil
		}
		set := make(map[string]struct{}, len(p))
		for _, name := range p {
			set[name] = struct{}{}
		}
		return set
	case []any:
		if len(p) == 0 {
			return nil
		}
		set := make(map[string]struct{}, len(p))
		for _, name := range p {
			if s, ok := name.(string); ok {
				set[s] = struct{}{}
			}
		}
		return set
	}
	return nil
}

// hydrate fills relation and media attributes into the output map.
func (f *Formatter) hydrate(ctx context.Context, doc *Document, ct *schema.ContentType, requested map[string]struct{}, out map[string]any) error {
	wanted := func(name string) bool {
		if len(requested) == 0 {
			return true
		}
		_, ok := requested[name]
		return ok
	}

	for _, attr := range ct.Attributes {
		switch attr.Type {
		case schema.FieldTypeRelation:
			if !wanted(attr.Name) {
				continue
			}
			resolved, err := f.resolveRelation(ctx, doc, &attr)
			if err != nil {
				return err
			}
			if attr.Relation.IsMulti() {
				out[attr.Name] = resolved
			} else if len(resolved) > 0 {
				out[attr.Name] = resolved[0]
			} else {
				out[attr.Name] = nil
			}
		case schema.FieldTypeMedia:
			if !wanted(attr.Name) || f.media == nil {
				continue
			}
			if err := f.resolveMedia(ctx, doc, &attr, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveRelation loads the ordered targets of one relation field, formatted
// at depth one: public id plus payload, no further population. Edges whose
// target no longer exists are dropped; a dangling edge is tolerated data, not
// an error.
func (f *Formatter) resolveRelation(ctx context.Context, doc *Document, attr *schema.Attribute) ([]map[string]any, error) {
	edges, err := f.graph.EdgesFrom(ctx, doc.ID, attr.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load edges for %q: %w", attr.Name, err)
	}
	resolved := make([]map[string]any, 0, len(edges))
	for _, edge := range edges {
		target, err := f.store.GetByID(ctx, edge.ToID)
		if errors.Is(err, ErrNotFound) {
			f.logger.Debug("Dropping dangling relation edge",
				zap.String("field", attr.Name),
				zap.String("from", edge.FromID),
				zap.String("to", edge.ToID))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load relation target %q: %w", edge.ToID, err)
		}
		entry := make(map[string]any, len(target.Data)+1)
		for k, v := range target.Data {
			entry[k] = v
		}
		entry["documentId"] = target.DocumentID
		resolved = append(resolved, entry)
	}
	return resolved, nil
}

// resolveMedia swaps stored media id(s) for their records via the media
// collaborator, honoring the attribute's multiplicity.
func (f *Formatter) resolveMedia(ctx context.Context, doc *Document, attr *schema.Attribute, out map[string]any) error {
	raw := doc.Data[attr.Name]
	if raw == nil {
		return nil
	}
	var ids []string
	switch v := raw.(type) {
	case string:
		ids = []string{v}
	case []string:
		ids = v
	case []any:
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				ids = append(ids, s)
			}
		}
	default:
		return nil
	}

	records, err := f.media.ResolveMedia(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve media for %q: %w", attr.Name, err)
	}
	if attr.Multiple {
		out[attr.Name] = records
	} else if len(records) > 0 {
		out[attr.Name] = records[0]
	} else {
		out[attr.Name] = nil
	}
	return nil
}
