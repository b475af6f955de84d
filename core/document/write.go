package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asaidimu/go-griot/core/schema"
)

// DefaultLocale applies when a create carries no locale.
const DefaultLocale = "en"

// CreateOptions shapes a createDocument call.
type CreateOptions struct {
	Locale string
	// PublishedAt, when non-nil, is the explicit publication timestamp.
	PublishedAt *time.Time
	// Draft forces the document to start unpublished, overriding the content
	// type's default publication state. Ignored when PublishedAt is set.
	Draft bool
}

// UpdateOptions shapes an updateDocument call.
type UpdateOptions struct {
	// PublishedAt, when non-nil, overwrites the publication timestamp.
	PublishedAt *time.Time
	// Unpublish clears the publication timestamp. Ignored when PublishedAt
	// is set.
	Unpublish bool
}

// Create validates and persists a new document, replaces its relation edges
// and returns the formatted result. A second create on a single content type
// is rejected with ErrSingleTypeExists: single types are updated, not
// duplicated.
func (e *Engine) Create(ctx context.Context, pluralID string, body map[string]any, opts CreateOptions) (*Result, error) {
	ct, err := e.registry.ResolveByPlural(ctx, pluralID)
	if err != nil {
		return nil, err
	}
	return e.withEvents("create", DocumentCreateStart, DocumentCreateSuccess, DocumentCreateFailed,
		ct.PluralID, "", body, func() (*Result, error) {
			return e.create(ctx, ct, body, opts)
		})
}

func (e *Engine) create(ctx context.Context, ct *schema.ContentType, body map[string]any, opts CreateOptions) (*Result, error) {
	if ct.Kind == schema.KindSingle {
		_, err := e.store.First(ctx, ct.ID)
		switch {
		case err == nil:
			return nil, ErrSingleTypeExists
		case !errors.Is(err, ErrNotFound):
			return nil, fmt.Errorf("failed to check single type %q: %w", ct.PluralID, err)
		}
	}

	data, relations, err := splitPayload(ct, body)
	if err != nil {
		return nil, err
	}
	if err := e.checkUniqueConstraints(ctx, ct, data, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &Document{
		ID:            uuid.NewString(),
		DocumentID:    NewDocumentID(),
		ContentTypeID: ct.ID,
		Data:          data,
		Locale:        opts.Locale,
		PublishedAt:   resolveCreatePublishedAt(ct, opts, now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if doc.Locale == "" {
		doc.Locale = DefaultLocale
	}

	if err := e.store.Insert(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert document into %q: %w", ct.PluralID, err)
	}
	if err := e.replaceRelationEdges(ctx, ct, doc, relations); err != nil {
		return nil, err
	}

	e.logger.Debug("Document created",
		zap.String("contentType", ct.PluralID),
		zap.String("documentId", doc.DocumentID))

	formatted, err := e.formatter.Format(ctx, doc, ct, "*", nil)
	if err != nil {
		return nil, err
	}
	return &Result{Data: formatted}, nil
}

// resolveCreatePublishedAt applies the precedence: explicit caller timestamp,
// explicit draft, then the content type's default publication state.
func resolveCreatePublishedAt(ct *schema.ContentType, opts CreateOptions, now time.Time) *time.Time {
	if opts.PublishedAt != nil {
		t := opts.PublishedAt.UTC()
		return &t
	}
	if opts.Draft {
		return nil
	}
	if ct.DefaultPublicationState == schema.PublicationPublished {
		return &now
	}
	return nil
}

// Update shallow-merges the body over the stored payload, re-validates
// uniqueness excluding the document itself, persists, and fully replaces the
// relation edges. Payload keys absent from the body are preserved.
func (e *Engine) Update(ctx context.Context, pluralID, documentID string, body map[string]any, opts UpdateOptions) (*Result, error) {
	ct, err := e.registry.ResolveByPlural(ctx, pluralID)
	if err != nil {
		return nil, err
	}
	return e.withEvents("update", DocumentUpdateStart, DocumentUpdateSuccess, DocumentUpdateFailed,
		ct.PluralID, documentID, body, func() (*Result, error) {
			return e.update(ctx, ct, documentID, body, opts)
		})
}

func (e *Engine) update(ctx context.Context, ct *schema.ContentType, documentID string, body map[string]any, opts UpdateOptions) (*Result, error) {
	doc, err := e.store.Get(ctx, ct.ID, documentID)
	if err != nil {
		return nil, err
	}

	data, relations, err := splitPayload(ct, body)
	if err != nil {
		return nil, err
	}
	merged := make(map[string]any, len(doc.Data)+len(data))
	for k, v := range doc.Data {
		merged[k] = v
	}
	for k, v := range data {
		merged[k] = v
	}

	if err := e.checkUniqueConstraints(ctx, ct, merged, doc.ID); err != nil {
		return nil, err
	}

	publishedAt := doc.PublishedAt
	if opts.PublishedAt != nil {
		t := opts.PublishedAt.UTC()
		publishedAt = &t
	} else if opts.Unpublish {
		publishedAt = nil
	}

	if err := e.store.ReplacePayload(ctx, doc.ID, merged, publishedAt); err != nil {
		return nil, fmt.Errorf("failed to update document %q: %w", documentID, err)
	}
	if err := e.replaceRelationEdges(ctx, ct, doc, relations); err != nil {
		return nil, err
	}

	updated, err := e.store.GetByID(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Document updated",
		zap.String("contentType", ct.PluralID),
		zap.String("documentId", documentID))

	formatted, err := e.formatter.Format(ctx, updated, ct, "*", nil)
	if err != nil {
		return nil, err
	}
	return &Result{Data: formatted}, nil
}

// Delete removes the document's relation edges on both endpoints, then the
// document itself. A missing document reports ErrNotFound.
func (e *Engine) Delete(ctx context.Context, pluralID, documentID string) error {
	ct, err := e.registry.ResolveByPlural(ctx, pluralID)
	if err != nil {
		return err
	}
	_, err = e.withEvents("delete", DocumentDeleteStart, DocumentDeleteSuccess, DocumentDeleteFailed,
		ct.PluralID, documentID, nil, func() (*Result, error) {
			doc, err := e.store.Get(ctx, ct.ID, documentID)
			if err != nil {
				return nil, err
			}
			if err := e.graph.DeleteAllFor(ctx, doc.ID); err != nil {
				return nil, fmt.Errorf("failed to delete relation edges of %q: %w", documentID, err)
			}
			if err := e.store.Delete(ctx, doc.ID); err != nil {
				return nil, fmt.Errorf("failed to delete document %q: %w", documentID, err)
			}
			e.logger.Debug("Document deleted",
				zap.String("contentType", ct.PluralID),
				zap.String("documentId", documentID))
			return &Result{}, nil
		})
	return err
}

// replaceRelationEdges rebuilds the document's outgoing edge set from the
// relation fields of a write. The full set is replaced in one atomic storage
// operation; targets that resolve to no existing document are skipped, and
// edge order stays dense per field.
func (e *Engine) replaceRelationEdges(ctx context.Context, ct *schema.ContentType, doc *Document, relations map[string]any) error {
	var edges []Edge
	for _, attr := range ct.RelationAttributes() {
		value, present := relations[attr.Name]
		if !present {
			continue
		}
		targetIDs := relationTargetIDs(value)
		if len(targetIDs) == 0 {
			continue
		}
		resolved, err := e.store.ResolveDocumentIDs(ctx, targetIDs)
		if err != nil {
			return fmt.Errorf("failed to resolve relation targets for %q: %w", attr.Name, err)
		}
		order := 0
		for _, targetID := range targetIDs {
			internalID, ok := resolved[targetID]
			if !ok {
				e.logger.Debug("Skipping unknown relation target",
					zap.String("field", attr.Name),
					zap.String("target", targetID))
				continue
			}
			edges = append(edges, Edge{FromID: doc.ID, ToID: internalID, Field: attr.Name, Order: order})
			order++
		}
	}
	if err := e.graph.ReplaceEdges(ctx, doc.ID, edges); err != nil {
		return fmt.Errorf("failed to replace relation edges of %q: %w", doc.DocumentID, err)
	}
	return nil
}
