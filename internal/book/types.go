package book

import (
	"container/list"

	"pillarbook/internal/message"
)

// Order is a resting order, addressed by a stable handle (its order_id)
// rather than any pointer into the ordered price map's internals.
type Order struct {
	ID     uint64
	Price  int64
	Volume uint32
	Side   message.Side
	FirmID [5]byte
}

// location is what order_index stores for each resting order: enough
// to find and remove it without scanning a level. elem points into the
// level's own linked list, not into the ordered price map, so deleting
// or inserting other price levels never invalidates it.
type location struct {
	side  message.Side
	price int64
	elem  *list.Element
}

// PriceLevel is one entry in a rendered top-10 view: a price and the
// orders resting there, oldest first.
type PriceLevel struct {
	Price  int64
	Orders []Order
}

// levelsEqual reports whether two top-10 views hold the same prices in
// the same order. The orders resting at each level are not compared, so
// a partial execution that leaves every price level in place is not a
// top-10 change.
func levelsEqual(a, b []PriceLevel) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Price != b[i].Price {
			return false
		}
	}
	return true
}
