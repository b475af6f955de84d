// Package sqlite provides the SQLite-backed implementation of the document
// store and relation graph. Payloads are stored as opaque JSON blobs; the
// package never interprets attribute semantics.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/asaidimu/go-griot/core/document"
	"github.com/asaidimu/go-griot/core/query"
)

// timeLayout is a fixed-width UTC form so that lexical ordering of stored
// timestamps matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const migration = `
CREATE TABLE IF NOT EXISTS documents (
	id              TEXT PRIMARY KEY,
	document_id     TEXT NOT NULL UNIQUE,
	content_type_id TEXT NOT NULL,
	data            TEXT NOT NULL,
	locale          TEXT NOT NULL DEFAULT 'en',
	published_at    TEXT,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(content_type_id);
CREATE INDEX IF NOT EXISTS idx_documents_type_created ON documents(content_type_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_documents_type_published ON documents(content_type_id, published_at);

CREATE TABLE IF NOT EXISTS document_relations (
	from_document_id TEXT NOT NULL,
	to_document_id   TEXT NOT NULL,
	field_name       TEXT NOT NULL,
	ord              INTEGER NOT NULL,
	PRIMARY KEY (from_document_id, field_name, ord)
);
CREATE INDEX IF NOT EXISTS idx_relations_to ON document_relations(to_document_id);
`

// Store implements document.Store and document.Graph over one SQLite
// database. Relation-edge replacement runs inside a transaction, so a failed
// replace leaves the previous edge set intact.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

var (
	_ document.Store = (*Store)(nil)
	_ document.Graph = (*Store)(nil)
)

// NewStore prepares the schema and returns a store over the given database.
func NewStore(db *sql.DB, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := db.Exec(migration); err != nil {
		return nil, fmt.Errorf("failed to migrate document tables: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

const documentColumns = "id, document_id, content_type_id, data, locale, published_at, created_at, updated_at"

// scanDocument reads one document row. A payload blob that fails to decode
// degrades to an empty record: reads must stay resilient to historical
// corruption, so the error is logged, not propagated.
func (s *Store) scanDocument(scan func(dest ...any) error) (*document.Document, error) {
	var doc document.Document
	var data string
	var publishedAt sql.NullString
	var createdAt, updatedAt string

	if err := scan(&doc.ID, &doc.DocumentID, &doc.ContentTypeID, &data, &doc.Locale, &publishedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	doc.Data = make(map[string]any)
	if err := json.Unmarshal([]byte(data), &doc.Data); err != nil {
		s.logger.Warn("Malformed document payload, substituting empty record",
			zap.String("documentId", doc.DocumentID),
			zap.Error(err))
		doc.Data = make(map[string]any)
	}
	if publishedAt.Valid {
		t := parseTime(publishedAt.String)
		doc.PublishedAt = &t
	}
	doc.CreatedAt = parseTime(createdAt)
	doc.UpdatedAt = parseTime(updatedAt)
	return &doc, nil
}

// publicationClause renders one publication filter as SQL. Timestamps are
// stored in a fixed-width UTC form, so string comparison against now is a
// correct time comparison.
func publicationClause(pub document.PublicationFilter, args *[]any) string {
	switch pub {
	case document.PubPublished:
		*args = append(*args, formatTime(time.Now()))
		return " AND published_at IS NOT NULL AND published_at <= ?"
	case document.PubDraft:
		return " AND published_at IS NULL"
	case document.PubScheduled:
		*args = append(*args, formatTime(time.Now()))
		return " AND published_at IS NOT NULL AND published_at > ?"
	}
	return ""
}

// sortColumns whitelists the system fields storage can order on.
var sortColumns = map[string]string{
	"documentId":  "document_id",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"publishedAt": "published_at",
}

func orderByClause(keys []query.SortKey) string {
	var clauses []string
	for _, key := range keys {
		col, ok := sortColumns[key.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if key.Direction == query.SortDesc {
			dir = "DESC"
		}
		clauses = append(clauses, col+" "+dir)
	}
	if len(clauses) == 0 {
		return " ORDER BY created_at DESC"
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

// Get loads a document by its public id within a content type.
func (s *Store) Get(ctx context.Context, contentTypeID, documentID string) (*document.Document, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE content_type_id = ? AND document_id = ?",
		contentTypeID, documentID)
	doc, err := s.scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, document.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %q: %w", documentID, err)
	}
	return doc, nil
}

// GetByID loads a document by its internal id.
func (s *Store) GetByID(ctx context.Context, id string) (*document.Document, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	doc, err := s.scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, document.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document by id: %w", err)
	}
	return doc, nil
}

// First returns any one document of the content type.
func (s *Store) First(ctx context.Context, contentTypeID string) (*document.Document, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE content_type_id = ? LIMIT 1", contentTypeID)
	doc, err := s.scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, document.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load first document: %w", err)
	}
	return doc, nil
}

// List returns documents natively filtered, ordered and paginated by SQLite.
func (s *Store) List(ctx context.Context, params document.ListParams) ([]*document.Document, error) {
	args := []any{params.ContentTypeID}
	sqlQuery := "SELECT " + documentColumns + " FROM documents WHERE content_type_id = ?"
	sqlQuery += publicationClause(params.Publication, &args)
	sqlQuery += orderByClause(params.Sort)
	if params.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", params.Limit)
		if params.Offset > 0 {
			sqlQuery += fmt.Sprintf(" OFFSET %d", params.Offset)
		}
	}

	s.logger.Debug("Executing document list", zap.String("sql", sqlQuery))

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		doc, err := s.scanDocument(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning documents: %w", err)
	}
	return docs, nil
}

// Count counts documents of a content type under a publication filter.
func (s *Store) Count(ctx context.Context, contentTypeID string, pub document.PublicationFilter) (int, error) {
	args := []any{contentTypeID}
	sqlQuery := "SELECT COUNT(*) FROM documents WHERE content_type_id = ?"
	sqlQuery += publicationClause(pub, &args)

	var count int
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// ResolveDocumentIDs maps public ids to internal ids; unknown ids are absent.
func (s *Store) ResolveDocumentIDs(ctx context.Context, documentIDs []string) (map[string]string, error) {
	if len(documentIDs) == 0 {
		return map[string]string{}, nil
	}
	placeholders := strings.Repeat("?,", len(documentIDs)-1) + "?"
	args := make([]any, len(documentIDs))
	for i, id := range documentIDs {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT document_id, id FROM documents WHERE document_id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve document ids: %w", err)
	}
	defer rows.Close()

	resolved := make(map[string]string, len(documentIDs))
	for rows.Next() {
		var documentID, id string
		if err := rows.Scan(&documentID, &id); err != nil {
			return nil, fmt.Errorf("failed to scan id row: %w", err)
		}
		resolved[documentID] = id
	}
	return resolved, rows.Err()
}

// Insert persists a new document.
func (s *Store) Insert(ctx context.Context, doc *document.Document) error {
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("failed to serialize payload: %w", err)
	}
	var publishedAt any
	if doc.PublishedAt != nil {
		publishedAt = formatTime(*doc.PublishedAt)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents ("+documentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		doc.ID, doc.DocumentID, doc.ContentTypeID, string(data), doc.Locale,
		publishedAt, formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// ReplacePayload overwrites a document's payload and publication timestamp
// and bumps its update time.
func (s *Store) ReplacePayload(ctx context.Context, id string, data map[string]any, publishedAt *time.Time) error {
	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize payload: %w", err)
	}
	var published any
	if publishedAt != nil {
		published = formatTime(*publishedAt)
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE documents SET data = ?, published_at = ?, updated_at = ? WHERE id = ?",
		string(blob), published, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return document.ErrNotFound
	}
	return nil
}

// Delete removes a document by internal id.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return document.ErrNotFound
	}
	return nil
}
