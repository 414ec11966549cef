package catalog

import (
	"sort"
	"time"
)

// Ordered is implemented by entities displayed in sibling order.
// The key sorts by order, then creation time, then id so ties are stable.
type Ordered interface {
	SiblingKey() (order int, createdAt time.Time, id string)
}

// SortSiblings sorts entities ascending by display order in place
func SortSiblings[T Ordered](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return SiblingLess(items[i], items[j])
	})
}

// SiblingLess reports whether a displays before b
func SiblingLess(a, b Ordered) bool {
	ao, ac, aid := a.SiblingKey()
	bo, bc, bid := b.SiblingKey()
	if ao != bo {
		return ao < bo
	}
	if !ac.Equal(bc) {
		return ac.Before(bc)
	}
	return aid < bid
}
