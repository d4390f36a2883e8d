package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StringArg returns args[key] as a string. Missing and non-string values
// yield "".
func StringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// OptionalIntArg returns args[key] as an int. JSON numbers arrive as float64;
// numeric strings are accepted too. Missing, fractional and unparsable
// values yield nil.
func OptionalIntArg(args map[string]any, key string) *int {
	n, ok := toInt(args[key])
	if !ok {
		return nil
	}
	return &n
}

// IntListArg returns args[key] as a list of ints. Elements that are not
// integral numbers are skipped.
func IntListArg(args map[string]any, key string) []int {
	raw, ok := args[key].([]any)
	if !ok {
		if n, ok := toInt(args[key]); ok {
			return []int{n}
		}
		return nil
	}

	out := make([]int, 0, len(raw))
	for _, v := range raw {
		if n, ok := toInt(v); ok {
			out = append(out, n)
		}
	}
	return out
}

// StringListArg returns args[key] as a list of strings. Both a JSON array
// and a single comma-separated string are accepted. Entries are trimmed and
// empty entries dropped.
func StringListArg(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case string:
		return ParseCommaSeparatedList(v)
	case []string:
		return trimAll(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			} else if item != nil {
				items = append(items, fmt.Sprint(item))
			}
		}
		return trimAll(items)
	}
	return nil
}

// ParseCommaSeparatedList splits s on commas, trimming each entry and
// dropping empty ones.
func ParseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	return trimAll(strings.Split(s, ","))
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}
