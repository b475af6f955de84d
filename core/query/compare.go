package query

import (
	"fmt"
	"strconv"
	"time"
)

// parseFloat is strconv.ParseFloat with the ok-bool shape used throughout the
// evaluator.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// stringOperand renders a filter operand for the string operators.
func stringOperand(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// SortString renders an arbitrary field value into the string form the
// multi-key sort compares on. Times render in RFC3339 so their lexical order
// matches their chronological order; nil renders empty and therefore sorts
// first ascending.
func SortString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.UTC().Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	}
	return fmt.Sprintf("%v", v)
}

// CompareNatural compares two strings with embedded digit runs compared
// numerically, so "9" sorts before "10" and "item2" before "item10".
func CompareNatural(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			// Compare the full digit runs as numbers: skip leading zeros,
			// longer run wins, equal-length runs compare lexically.
			ia, ja := i, j
			for ia < len(a) && a[ia] == '0' {
				ia++
			}
			for ja < len(b) && b[ja] == '0' {
				ja++
			}
			ea, eb := ia, ja
			for ea < len(a) && isDigit(a[ea]) {
				ea++
			}
			for eb < len(b) && isDigit(b[eb]) {
				eb++
			}
			la, lb := ea-ia, eb-ja
			if la != lb {
				if la < lb {
					return -1
				}
				return 1
			}
			for k := 0; k < la; k++ {
				if a[ia+k] != b[ja+k] {
					if a[ia+k] < b[ja+k] {
						return -1
					}
					return 1
				}
			}
			i, j = ea, eb
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
