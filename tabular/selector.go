package tabular

import (
	"fmt"
	"strconv"
	"strings"
)

// The backends in this package evaluate selectors locally. The only filter
// form the core issues is a single-column equality test, so that is the only
// grammar supported: an empty expression matches everything, otherwise
// `Column = "value"`.
type selector struct {
	column string
	value  string
	all    bool
}

func parseSelector(expr string) (selector, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return selector{all: true}, nil
	}

	idx := strings.Index(expr, "=")
	if idx < 0 {
		return selector{}, fmt.Errorf("tabular: unsupported selector %q", expr)
	}

	column := strings.TrimSpace(expr[:idx])
	if column == "" {
		return selector{}, fmt.Errorf("tabular: unsupported selector %q", expr)
	}

	raw := strings.TrimSpace(expr[idx+1:])
	value, err := strconv.Unquote(raw)
	if err != nil {
		return selector{}, fmt.Errorf("tabular: unsupported selector value in %q", expr)
	}

	return selector{column: column, value: value}, nil
}

func (s selector) matches(row map[string]any) bool {
	if s.all {
		return true
	}
	v, ok := row[s.column]
	if !ok {
		return false
	}
	return valueString(v) == s.value
}

// valueString renders a row value for comparison. JSON numbers arrive as
// float64; integral values must compare without a trailing ".0".
func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
