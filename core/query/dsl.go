// Package query defines the filter DSL used to select documents: a
// tagged-union filter tree composable with $and/$or, sort configurations,
// pagination, publication lenses and free-text search. The same tree is
// evaluated by one shared evaluator regardless of whether candidates come
// from storage push-down or an in-memory scan, so the two execution paths
// cannot diverge in semantics.
package query

// ComparisonOperator defines the set of operators usable in a filter condition.
type ComparisonOperator string

// Supported comparison operators.
const (
	OpEq          ComparisonOperator = "$eq"
	OpNe          ComparisonOperator = "$ne"
	OpLt          ComparisonOperator = "$lt"
	OpLte         ComparisonOperator = "$lte"
	OpGt          ComparisonOperator = "$gt"
	OpGte         ComparisonOperator = "$gte"
	OpIn          ComparisonOperator = "$in"
	OpNotIn       ComparisonOperator = "$notIn"
	OpContains    ComparisonOperator = "$contains"
	OpContainsI   ComparisonOperator = "$containsi"
	OpStartsWith  ComparisonOperator = "$startsWith"
	OpStartsWithI ComparisonOperator = "$startsWithi"
	OpEndsWith    ComparisonOperator = "$endsWith"
	OpEndsWithI   ComparisonOperator = "$endsWithi"
	OpNull        ComparisonOperator = "$null"
	OpEmpty       ComparisonOperator = "$empty"
	OpNotEmpty    ComparisonOperator = "$notEmpty"
	OpBetween     ComparisonOperator = "$between"
)

// LogicalOperator combines the members of a filter group.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "$and"
	LogicalOr  LogicalOperator = "$or"
)

// Condition is a single leaf filter: field, operator, operand.
type Condition struct {
	Field    string             `json:"field"`
	Operator ComparisonOperator `json:"operator"`
	Value    any                `json:"value"`
}

// Group combines nested filters under a logical operator.
type Group struct {
	Operator LogicalOperator `json:"operator"`
	Filters  []Filter        `json:"filters"`
}

// Filter is a union type holding either a single condition or a group.
type Filter struct {
	Condition *Condition `json:",omitempty"`
	Group     *Group     `json:",omitempty"`
}

// SortDirection specifies the direction for sorting.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortKey defines the sort order for one field.
type SortKey struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// PublicationState is the query-time lens controlling which publication
// statuses are visible.
type PublicationState string

const (
	// PublicationLive restricts results to documents published on or before now.
	PublicationLive PublicationState = "live"
	// PublicationPreview exposes every document; combine with a Status to
	// narrow to one publication status.
	PublicationPreview PublicationState = "preview"
)

// Status narrows a preview query to a single publication status.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusScheduled Status = "scheduled"
)

// MaxPageSize caps the number of documents returned per page.
const MaxPageSize = 100

// DefaultPageSize applies when a request does not specify a page size.
const DefaultPageSize = 25

// Options is the full request surface of a document query.
type Options struct {
	// Filters is the operator tree in its map form; a bare value for a field
	// is shorthand for $eq. Parsed against a content type's attribute set.
	Filters map[string]any `json:"filters,omitempty"`
	// Sort is an ordered list of "field" or "field:direction" entries.
	Sort []string `json:"sort,omitempty"`
	// Page is 1-indexed.
	Page     int `json:"page,omitempty"`
	PageSize int `json:"pageSize,omitempty"`
	// Populate is "*" or a list of relation/media attribute names.
	Populate any `json:"populate,omitempty"`
	// Fields projects the response to the named payload attributes; system
	// fields are always preserved.
	Fields []string `json:"fields,omitempty"`

	PublicationState PublicationState `json:"publicationState,omitempty"`
	Status           Status           `json:"status,omitempty"`

	// Search is a case-insensitive substring match across text-like
	// attributes, or only SearchField when given.
	Search      string `json:"search,omitempty"`
	SearchField string `json:"searchField,omitempty"`
}

// Normalize clamps pagination to sane bounds and applies defaults.
func (o *Options) Normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	if o.PublicationState == "" {
		o.PublicationState = PublicationLive
	}
}

// WantsPopulate reports whether any population was requested.
func (o *Options) WantsPopulate() bool {
	switch p := o.Populate.(type) {
	case string:
		return p == "*"
	case []string:
		return len(p) > 0
	case []any:
		return len(p) > 0
	}
	return false
}

// PopulateSet returns the requested attribute names, or nil for "all".
func (o *Options) PopulateSet() map[string]struct{} {
	switch p := o.Populate.(type) {
	case string:
		return nil
	case []string:
		set := make(map[string]struct{}, len(p))
		for _, name := range p {
			set[name] = struct{}{}
		}
		return set
	case []any:
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
