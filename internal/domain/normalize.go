package domain

import (
	"strings"
)

// NormalizeList prepares a tag or people list for storage:
//   - trims leading/trailing whitespace of every item
//   - drops empty items
//   - drops repeated items, keeping the first occurrence
//
// The result is never nil.
func NormalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// CompactList trims items and drops empty ones, keeping repeats and order.
// Image lists use it since the same picture may legitimately appear twice.
func CompactList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
