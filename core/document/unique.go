package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/asaidimu/go-griot/core/query"
	"github.com/asaidimu/go-griot/core/schema"
)

// checkUniqueConstraints scans the content type's documents and rejects the
// candidate payload if any unique-flagged attribute value collides with
// another document. Values compare after trimming, case-sensitively for
// strings and numerically for numbers; null and empty values never collide.
// excludeID exempts the document being updated from colliding with itself.
//
// The scan is a full O(n) pass over the type per unique attribute. That cost
// is accepted for correctness on moderate-cardinality document sets; a type
// holding very many documents will feel it on every write.
func (e *Engine) checkUniqueConstraints(ctx context.Context, ct *schema.ContentType, candidate map[string]any, excludeID string) error {
	uniqueAttrs := ct.UniqueAttributes()
	if len(uniqueAttrs) == 0 {
		return nil
	}

	docs, err := e.store.List(ctx, ListParams{ContentTypeID: ct.ID})
	if err != nil {
		return fmt.Errorf("failed to scan %q for unique values: %w", ct.PluralID, err)
	}

	for _, attr := range uniqueAttrs {
		value := candidate[attr.Name]
		if value == nil || value == "" {
			continue
		}
		for _, doc := range docs {
			if excludeID != "" && doc.ID == excludeID {
				continue
			}
			if sameUniqueValue(value, doc.Data[attr.Name]) {
				return &UniqueConstraintError{Field: attr.Name}
			}
		}
	}
	return nil
}

// sameUniqueValue compares two attribute values for uniqueness purposes.
// Multiple documents may share "no value", so empties never match.
func sameUniqueValue(a, b any) bool {
	if a == nil || a == "" || b == nil || b == "" {
		return false
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		return ok && strings.TrimSpace(sa) == strings.TrimSpace(sb)
	}
	if fa, ok := numeric(a); ok {
		fb, ok := numeric(b)
		return ok && fa == fb
	}
	return a == b
}

func numeric(v any) (float64, bool) {
	switch v.(type) {
	case string, bool:
		return 0, false
	}
	return query.ToComparable(v)
}
