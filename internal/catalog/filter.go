package catalog

import (
	"sort"
	"strings"
)

// SortKey selects the ordering applied by FilterAndSort.
type SortKey string

const (
	SortNone            SortKey = ""
	SortPriceAscending  SortKey = "price-asc"
	SortPriceDescending SortKey = "price-desc"
	// SortPopularity orders by SoldCount descending. The shipped catalog
	// data never populates SoldCount, so until an external source supplies
	// it this sort is a stable pass-through, which is the documented
	// behavior rather than an invented popularity metric.
	SortPopularity SortKey = "popularity"
)

// ParseSortKey maps a user-supplied sort parameter onto a SortKey. Unknown
// values fall back to SortNone; this is user-facing filter UI input, so
// malformed values are not an error.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceAscending, SortPriceDescending, SortPopularity:
		return SortKey(s)
	default:
		return SortNone
	}
}

// FilterAndSort selects and orders the visible subset of the catalog.
//
// A tour is included iff its title contains query case-insensitively (empty
// query matches all) and its region equals region exactly (empty region
// matches all). Matching is exact-substring on the raw Vietnamese text; no
// diacritic folding beyond Unicode case folding.
//
// All orderings are stable: ties and SortNone preserve the original relative
// order. The input slice is never mutated.
func FilterAndSort(tours []Tour, query, region string, key SortKey) []Tour {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]Tour, 0, len(tours))
	for _, t := range tours {
		if q != "" && !strings.Contains(strings.ToLower(t.Title), q) {
			continue
		}
		if region != "" && t.Region != region {
			continue
		}
		out = append(out, t)
	}

	switch key {
	case SortPriceAscending:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].BasePrice < out[j].BasePrice
		})
	case SortPriceDescending:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].BasePrice > out[j].BasePrice
		})
	case SortPopularity:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].SoldCount > out[j].SoldCount
		})
	}
	return out
}
