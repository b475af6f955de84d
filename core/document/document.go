// Package document implements the content engine: schemaless document CRUD,
// uniqueness validation, relation-edge maintenance, query evaluation with a
// dual execution strategy, and outward-facing formatting with relation and
// media hydration. Content-type shapes are resolved at request time through a
// schema.ContentTypeResolver; the engine never interprets a payload beyond
// what the resolved attribute list tells it.
package document

import (
	"crypto/rand"
	"time"
)

// Document is the stored representation of one content entry. Data holds the
// attribute values, excluding relation fields, which live as edges in the
// relation graph. A nil PublishedAt marks a draft; a future timestamp marks a
// scheduled document.
type Document struct {
	// ID is the internal storage key.
	ID string `json:"id"`
	// DocumentID is the public stable identifier: 25 lowercase alphanumeric
	// characters, generated at creation.
	DocumentID    string         `json:"documentId"`
	ContentTypeID string         `json:"contentTypeId"`
	Data          map[string]any `json:"data"`
	Locale        string         `json:"locale"`
	PublishedAt   *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// docLevelFields are the fields resolved from the document record itself
// rather than from the payload.
var docLevelFields = map[string]struct{}{
	"id":          {},
	"documentId":  {},
	"createdAt":   {},
	"updatedAt":   {},
	"publishedAt": {},
	"locale":      {},
}

// IsDocLevelField reports whether a field name refers to system metadata.
func IsDocLevelField(name string) bool {
	_, ok := docLevelFields[name]
	return ok
}

// Field resolves a field name against the document: system metadata first,
// then the payload. Missing fields and a nil PublishedAt resolve to nil.
func (d *Document) Field(name string) any {
	switch name {
	case "id":
		return d.ID
	case "documentId":
		return d.DocumentID
	case "createdAt":
		return d.CreatedAt
	case "updatedAt":
		return d.UpdatedAt
	case "publishedAt":
		if d.PublishedAt == nil {
			return nil
		}
		return *d.PublishedAt
	case "locale":
		return d.Locale
	}
	return d.Data[name]
}

const documentIDLength = 25

const documentIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewDocumentID generates a fresh public document identifier.
func NewDocumentID() string {
	buf := make([]byte, documentIDLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = documentIDAlphabet[int(b)%len(documentIDAlphabet)]
	}
	return string(buf)
}
