package query

import "strings"

// knownOperators guards parsing: an operator key outside this set is ignored,
// matching the engine's permissive treatment of unknown filter input.
var knownOperators = map[ComparisonOperator]struct{}{
	OpEq: {}, OpNe: {}, OpLt: {}, OpLte: {}, OpGt: {}, OpGte: {},
	OpIn: {}, OpNotIn: {}, OpContains: {}, OpContainsI: {},
	OpStartsWith: {}, OpStartsWithI: {}, OpEndsWith: {}, OpEndsWithI: {},
	OpNull: {}, OpEmpty: {}, OpNotEmpty: {}, OpBetween: {},
}

// IsKnown reports whether the operator is part of the supported set.
func (op ComparisonOperator) IsKnown() bool {
	_, ok := knownOperators[op]
	return ok
}

// ParseFilters converts the map form of a filter tree into the tagged-union
// AST. allowed restricts the filterable field names (attribute names plus the
// document-level fields); a nil set allows any field. Keys outside the allowed
// set and unknown operators are dropped rather than erroring, so a stray query
// parameter never fails the request. A nil result means "match everything".
func ParseFilters(filters map[string]any, allowed map[string]struct{}) *Filter {
	if len(filters) == 0 {
		return nil
	}
	group := Group{Operator: LogicalAnd}
	for key, value := range filters {
		switch key {
		case string(LogicalAnd), string(LogicalOr):
			members, ok := value.([]any)
			if !ok {
				continue
			}
			sub := Group{Operator: LogicalOperator(key)}
			for _, member := range members {
				m, ok := member.(map[string]any)
				if !ok {
					continue
				}
				if f := ParseFilters(m, allowed); f != nil {
					sub.Filters = append(sub.Filters, *f)
				}
			}
			if len(sub.Filters) > 0 {
				group.Filters = append(group.Filters, Filter{Group: &sub})
			}
		default:
			if allowed != nil {
				if _, ok := allowed[key]; !ok {
					continue
				}
			}
			for _, f := range parseFieldFilter(key, value) {
				group.Filters = append(group.Filters, f)
			}
		}
	}
	if len(group.Filters) == 0 {
		return nil
	}
	if len(group.Filters) == 1 {
		return &group.Filters[0]
	}
	return &Filter{Group: &group}
}

// parseFieldFilter turns one field's filter value into leaf conditions. A bare
// value is shorthand for $eq; an operator map may carry several operators,
// which combine conjunctively.
func parseFieldFilter(field string, value any) []Filter {
	opMap, ok := value.(map[string]any)
	if !ok {
		return []Filter{{Condition: &Condition{Field: field, Operator: OpEq, Value: value}}}
	}
	var out []Filter
	for opKey, operand := range opMap {
		op := ComparisonOperator(opKey)
		if !op.IsKnown() {
			continue
		}
		out = append(out, Filter{Condition: &Condition{Field: field, Operator: op, Value: operand}})
	}
	return out
}

// ParseSort converts "field:direction" entries into sort keys. The direction
// defaults to ascending; the alias "id" resolves to creation time, which is
// the engine's stand-in for insertion order.
func ParseSort(sort []string) []SortKey {
	keys := make([]SortKey, 0, len(sort))
	for _, entry := range sort {
		field, dir, _ := strings.Cut(entry, ":")
		if field == "id" {
			field = "createdAt"
		}
		direction := SortAsc
		if SortDirection(dir) == SortDesc {
			direction = SortDesc
		}
		keys = append(keys, SortKey{Field: field, Direction: direction})
	}
	return keys
}

// systemSortFields are the document-level fields the storage layer indexes and
// can therefore sort on natively.
var systemSortFields = map[string]struct{}{
	"documentId":  {},
	"createdAt":   {},
	"updatedAt":   {},
	"publishedAt": {},
}

// IsSystemSort reports whether every sort key targets a storage-indexed
// document-level field, making the sort eligible for push-down.
func IsSystemSort(keys []SortKey) bool {
	for _, k := range keys {
		if _, ok := systemSortFields[k.Field]; !ok {
			return false
		}
	}
	return true
}
