// Package template provides the {{logicalId.field}} interpolation used to
// preview and run node templates against upstream values.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Interpolate replaces every {{key}} occurrence whose key is present in
// values. A present key with a nil value substitutes the empty string. Keys
// absent from values are left as literal {{key}} text so partially-filled
// templates stay previewable; that is intentional, not an error.
//
// Substituted values are never re-scanned, so a value containing {{...}}
// does not expand further. There is no escape syntax for a literal {{...}}.
func Interpolate(input string, values map[string]any) string {
	if input == "" || !strings.Contains(input, "{{") {
		return input
	}

	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		key := strings.TrimSpace(match[2 : len(match)-2])

		value, ok := values[key]
		if !ok {
			return match
		}

		return stringify(value)
	})
}

// Keys returns the distinct placeholder names referenced by input, in order
// of first appearance.
func Keys(input string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(input, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	keys := make([]string, 0, len(matches))

	for _, match := range matches {
		key := strings.TrimSpace(match[1])
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	return keys
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
