// Package headers parses "Key: Value" header strings from CLI flags.
package headers

import (
	"fmt"
	"strings"
)

// Parse converts header flag values ("Key: Value") into a map. Malformed
// entries are an error rather than silently dropped.
func Parse(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	m := make(map[string]string, len(values))
	for _, v := range values {
		key, val, ok := strings.Cut(v, ":")
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed header %q, want \"Key: Value\"", v)
		}
		m[key] = val
	}
	return m, nil
}
