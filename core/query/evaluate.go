package query

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// FieldLookup resolves a field name to its value for one document. A missing
// field resolves to nil; the evaluator treats nil and "no value" identically,
// the way the filter operators define null.
type FieldLookup func(field string) any

// Evaluator applies a filter tree to in-memory documents. It is the single
// filter interpreter in the engine: the storage push-down path only ever
// bypasses it for requests with no filters at all, so there is no second set
// of operator semantics to keep in sync.
type Evaluator struct {
	logger *zap.Logger
}

// NewEvaluator creates a new Evaluator instance.
func NewEvaluator(logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger}
}

// Match evaluates a filter tree against one document. A nil filter matches
// everything.
func (e *Evaluator) Match(get FieldLookup, filter *Filter) bool {
	if filter == nil {
		return true
	}
	if filter.Condition != nil {
		return e.matchCondition(get(filter.Condition.Field), filter.Condition)
	}
	if filter.Group != nil {
		switch filter.Group.Operator {
		case LogicalAnd:
			for i := range filter.Group.Filters {
				if !e.Match(get, &filter.Group.Filters[i]) {
					return false
				}
			}
			return true
		case LogicalOr:
			for i := range filter.Group.Filters {
				if e.Match(get, &filter.Group.Filters[i]) {
					return true
				}
			}
			return false
		}
		e.logger.Warn("Unsupported logical operator", zap.String("operator", string(filter.Group.Operator)))
		return false
	}
	return true
}

// matchCondition evaluates one leaf condition. Comparisons that cannot be
// coerced to a common form evaluate false rather than erroring.
func (e *Evaluator) matchCondition(fieldVal any, cond *Condition) bool {
	switch cond.Operator {
	case OpEq:
		return equalValues(fieldVal, cond.Value)
	case OpNe:
		return !equalValues(fieldVal, cond.Value)
	case OpLt, OpLte, OpGt, OpGte:
		f, okF := ToComparable(fieldVal)
		o, okO := ToComparable(cond.Value)
		if !okF || !okO {
			return false
		}
		switch cond.Operator {
		case OpLt:
			return f < o
		case OpLte:
			return f <= o
		case OpGt:
			return f > o
		default:
			return f >= o
		}
	case OpIn:
		members, ok := cond.Value.([]any)
		if !ok {
			return false
		}
		for _, m := range members {
			if equalValues(fieldVal, m) {
				return true
			}
		}
		return false
	case OpNotIn:
		members, ok := cond.Value.([]any)
		if !ok {
			return false
		}
		for _, m := range members {
			if equalValues(fieldVal, m) {
				return false
			}
		}
		return true
	case OpContains, OpContainsI, OpStartsWith, OpStartsWithI, OpEndsWith, OpEndsWithI:
		s, ok := fieldVal.(string)
		if !ok {
			return false
		}
		operand := stringOperand(cond.Value)
		switch cond.Operator {
		case OpContains:
			return strings.Contains(s, operand)
		case OpContainsI:
			return strings.Contains(strings.ToLower(s), strings.ToLower(operand))
		case OpStartsWith:
			return strings.HasPrefix(s, operand)
		case OpStartsWithI:
			return strings.HasPrefix(strings.ToLower(s), strings.ToLower(operand))
		case OpEndsWith:
			return strings.HasSuffix(s, operand)
		default:
			return strings.HasSuffix(strings.ToLower(s), strings.ToLower(operand))
		}
	case OpNull:
		want, ok := boolOperand(cond.Value)
		if !ok {
			return false
		}
		if want {
			return isNoValue(fieldVal)
		}
		return !isNoValue(fieldVal)
	case OpEmpty:
		want, ok := boolOperand(cond.Value)
		return ok && want && isEmptyValue(fieldVal)
	case OpNotEmpty:
		want, ok := boolOperand(cond.Value)
		return ok && want && !isEmptyValue(fieldVal)
	case OpBetween:
		bounds, ok := cond.Value.([]any)
		if !ok || len(bounds) < 2 {
			return false
		}
		f, okF := ToComparable(fieldVal)
		lo, okLo := ToComparable(bounds[0])
		hi, okHi := ToComparable(bounds[1])
		// Inclusive at both ends.
		return okF && okLo && okHi && f >= lo && f <= hi
	}
	e.logger.Warn("Unknown comparison operator", zap.String("operator", string(cond.Operator)))
	return false
}

// equalValues compares two values for filter equality: numeric values compare
// numerically regardless of concrete type, everything else compares by exact
// type and value.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, aNum := asNumber(a); aNum {
		if bf, bNum := asNumber(b); bNum {
			return af == bf
		}
		return false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	}
	return a == b
}

// asNumber narrows strictly numeric Go types to float64. Strings are not
// numbers here; coercion of numeric strings belongs to the ordering operators.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// dateLayouts are the accepted textual date forms, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToComparable coerces a value into the numeric-or-epoch form the ordering
// operators compare on: numbers stay numbers, numeric strings become numbers,
// date-like strings and time values become epoch milliseconds.
func ToComparable(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if f, ok := asNumber(v); ok {
		return f, true
	}
	switch val := v.(type) {
	case time.Time:
		return float64(val.UnixMilli()), true
	case *time.Time:
		if val == nil {
			return 0, false
		}
		return float64(val.UnixMilli()), true
	case string:
		if f, ok := parseFloat(val); ok {
			return f, true
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return float64(t.UnixMilli()), true
			}
		}
	}
	return 0, false
}

// isNoValue implements the $null notion of "no value": nil or empty string.
func isNoValue(v any) bool {
	return v == nil || v == ""
}

// isEmptyValue extends isNoValue with empty lists, for $empty/$notEmpty.
func isEmptyValue(v any) bool {
	if isNoValue(v) {
		return true
	}
	if list, ok := v.([]any); ok {
		return len(list) == 0
	}
	return false
}

func boolOperand(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		// Tolerate the stringly form URL-decoded filters arrive in.
		switch strings.ToLower(b) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}
