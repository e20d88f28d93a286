package common

import (
	"sort"
	"time"
)

// SortByTimeRelativeToNow orders items so that upcoming ones (at >= now)
// come first, soonest first, followed by past ones, most recent first.
// Items with equal times keep their input order.
func SortByTimeRelativeToNow[T any](items []T, now time.Time, at func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := at(items[i]), at(items[j])
		futureI, futureJ := !ti.Before(now), !tj.Before(now)

		switch {
		case futureI && !futureJ:
			return true
		case !futureI && futureJ:
			return false
		case futureI:
			return ti.Before(tj)
		default:
			return ti.After(tj)
		}
	})
}
