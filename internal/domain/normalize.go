package domain

import "strings"

// NormalizeTag prepares a raw tag name for storage and comparison:
// trims surrounding whitespace and lowercases. Returns "" for
// whitespace-only input.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeTags normalizes a list of raw tag names, dropping empties and
// duplicates. Order of first appearance is preserved.
func NormalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		norm := NormalizeTag(n)
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}
