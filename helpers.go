package storesync

import (
	"fmt"
	"strconv"
	"unicode"
)

// lowerCamel converts a remote table name (UpperCamelCase) to the document
// key convention (lowerCamelCase).
func lowerCamel(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// stringValue renders a row value as a string. JSON numbers arrive as
// float64; integral values must not pick up a trailing ".0".
func stringValue(v any) string {
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

// EqSelector builds an equality filter expression over a single column, the
// only selector form this core issues.
func EqSelector(column, value string) string {
	return fmt.Sprintf("%s = %s", column, strconv.Quote(value))
}
