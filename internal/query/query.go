// Package query provides pure functions over validated content entries.
// No function modifies its input slice.
package query

import (
	"slices"

	"git.home.luguber.info/inful/docsite/internal/content"
)

// SortByDateDescending returns a new slice ordered newest first. The sort is
// stable: entries with equal dates keep their input order. Entries without a
// date sort after every dated entry.
func SortByDateDescending(entries []content.Entry) []content.Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b content.Entry) int {
		switch {
		case a.HasDate != b.HasDate:
			if a.HasDate {
				return -1
			}
			return 1
		default:
			return b.Date.Compare(a.Date)
		}
	})
	return out
}

// FilterByTag returns the entries carrying tag, in input order.
func FilterByTag(entries []content.Entry, tag string) []content.Entry {
	return filter(entries, func(e content.Entry) bool { return e.HasTag(tag) })
}

// FilterByCollection returns the entries belonging to ct, in input order.
func FilterByCollection(entries []content.Entry, ct content.CollectionType) []content.Entry {
	return filter(entries, func(e content.Entry) bool { return e.Collection == ct })
}

// Featured returns the entries marked featured, in input order.
func Featured(entries []content.Entry) []content.Entry {
	return filter(entries, func(e content.Entry) bool { return e.Featured })
}

// Limit returns at most n entries from the front of entries. n <= 0 means no limit.
func Limit(entries []content.Entry, n int) []content.Entry {
	if n <= 0 || n >= len(entries) {
		return slices.Clone(entries)
	}
	return slices.Clone(entries[:n])
}

func filter(entries []content.Entry, keep func(content.Entry) bool) []content.Entry {
	out := make([]content.Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
