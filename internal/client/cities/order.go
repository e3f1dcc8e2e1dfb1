package cities

import (
	"slices"
	"strings"
)

// Normalize lowercases and trims names, drops empty ones and duplicates, and
// returns them in canonical order.
func Normalize(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	Sort(out)
	return out
}

// Sort orders names case-insensitively ascending in place. Names that only
// differ in case are ordered by their raw bytes so the result is total.
func Sort(names []string) {
	slices.SortFunc(names, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
}

// Promote returns a new list with city first and every other occurrence of
// it removed. The remaining names keep their order.
func Promote(list []string, city string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, city)
	for _, n := range list {
		if n != city {
			out = append(out, n)
		}
	}
	return out
}
