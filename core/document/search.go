package document

import (
	"sort"
	"strings"

	"github.com/asaidimu/go-griot/core/query"
	"github.com/asaidimu/go-griot/core/schema"
)

// applySearch keeps the documents containing the search term as a
// case-insensitive substring. With a search field the match is restricted to
// that field; otherwise every text-like attribute participates. A type with
// no text-like attributes falls back to matching the public document id.
func applySearch(docs []*Document, term string, ct *schema.ContentType, searchField string) []*Document {
	needle := strings.ToLower(term)

	fields := make(map[string]struct{})
	if searchField != "" {
		fields[searchField] = struct{}{}
	} else {
		for _, attr := range ct.Attributes {
			if attr.Type.IsTextLike() {
				fields[attr.Name] = struct{}{}
			}
		}
		if len(fields) == 0 {
			fields["documentId"] = struct{}{}
		}
	}

	var out []*Document
	for _, doc := range docs {
		for field := range fields {
			val := doc.Field(field)
			if val == nil {
				continue
			}
			if strings.Contains(strings.ToLower(query.SortString(val)), needle) {
				out = append(out, doc)
				break
			}
		}
	}
	return out
}

// sortDocuments orders documents by the given keys with a stable,
// numeric-aware comparison: ties on one key fall through to the next, final
// ties keep their incoming order. Keys naming neither an attribute nor a
// system field are skipped.
func sortDocuments(docs []*Document, keys []query.SortKey, ct *schema.ContentType) []*Document {
	attrNames := ct.AttributeNames()
	sortable := make([]query.SortKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := attrNames[k.Field]; ok || IsDocLevelField(k.Field) {
			sortable = append(sortable, k)
		}
	}
	if len(sortable) == 0 {
		return docs
	}

	sorted := make([]*Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		for _, key := range sortable {
			a := query.SortString(sorted[i].Field(key.Field))
			b := query.SortString(sorted[j].Field(key.Field))
			cmp := query.CompareNatural(a, b)
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
	return sorted
}
