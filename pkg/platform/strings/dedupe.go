// Package strings provides string slice utilities shared across the module.
package strings

import "strings"

// DedupeAndTrim removes duplicates and blank entries from a slice, trimming
// whitespace from each element. First-seen order is preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}
	return result
}

// Union merges extra into base, deduplicating while keeping base's order
// first and extra's additions in their own order.
func Union(base, extra []string) []string {
	if len(extra) == 0 {
		return DedupeAndTrim(base)
	}
	merged := make([]string, 0, len(base)+len(extra))
	merged = append(merged, base...)
	merged = append(merged, extra...)
	return DedupeAndTrim(merged)
}
