// Package book implements the per-symbol limit order book: add, modify,
// delete, execute, and replace operations over two price-ordered
// containers, plus top-10 change detection after every mutation.
package book

import (
	"container/list"

	"github.com/tidwall/btree"

	"pillarbook/internal/message"
)

const topDepth = 10

// Book is one symbol's order book. bids and asks are ordered maps
// (github.com/tidwall/btree) keyed by int64 price, giving O(log N)
// insert/delete/lookup and bounded in-order traversal for the top-10
// walk. Each level's resting orders live in a container/list queue in
// arrival order; order_index holds a *list.Element into that queue, a
// handle that survives price-map rebalancing because it never points
// into the btree's own nodes.
type Book struct {
	bids *btree.Map[int64, *list.List]
	asks *btree.Map[int64, *list.List]

	index map[uint64]location

	top10Bids []PriceLevel
	top10Asks []PriceLevel
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{
		bids:  btree.NewMap[int64, *list.List](32),
		asks:  btree.NewMap[int64, *list.List](32),
		index: make(map[uint64]location),
	}
}

func (b *Book) sideMap(side message.Side) *btree.Map[int64, *list.List] {
	if side == message.SideBuy {
		return b.bids
	}
	return b.asks
}

// AddOrder appends a new resting order to the tail of its (side, price)
// level, preserving time priority. Reports ErrDuplicateOrderID (and
// leaves the book unmutated) if orderID already rests somewhere.
func (b *Book) AddOrder(orderID uint64, price int64, volume uint32, side message.Side, firmID [5]byte) (changed bool, err error) {
	if _, exists := b.index[orderID]; exists {
		return false, ErrDuplicateOrderID
	}
	b.insert(orderID, price, volume, side, firmID)
	return b.recompute(), nil
}

func (b *Book) insert(orderID uint64, price int64, volume uint32, side message.Side, firmID [5]byte) {
	levels := b.sideMap(side)
	lvl, ok := levels.Get(price)
	if !ok {
		lvl = list.New()
		levels.Set(price, lvl)
	}
	elem := lvl.PushBack(&Order{ID: orderID, Price: price, Volume: volume, Side: side, FirmID: firmID})
	b.index[orderID] = location{side: side, price: price, elem: elem}
}

// ModifyOrder updates a resting order in place when only its volume
// changes, or re-keys it to the tail of a new level (losing time
// priority) when price or side materially changes.
func (b *Book) ModifyOrder(orderID uint64, newPrice int64, newVolume uint32, newSide message.Side) (changed bool, err error) {
	loc, ok := b.index[orderID]
	if !ok {
		return false, ErrUnknownOrderID
	}
	if newPrice == loc.price && newSide == loc.side {
		ord, ok := loc.elem.Value.(*Order)
		if !ok {
			return false, ErrLevelMissing
		}
		ord.Volume = newVolume
		return b.recompute(), nil
	}

	firmID := [5]byte{}
	if ord, ok := loc.elem.Value.(*Order); ok {
		firmID = ord.FirmID
	}
	if err := b.remove(orderID); err != nil {
		return false, err
	}
	b.insert(orderID, newPrice, newVolume, newSide, firmID)
	return b.recompute(), nil
}

// DeleteOrder removes a resting order, removing its level too if it
// becomes empty. Reports ErrUnknownOrderID for a missing id.
func (b *Book) DeleteOrder(orderID uint64) (changed bool, err error) {
	if _, ok := b.index[orderID]; !ok {
		return false, ErrUnknownOrderID
	}
	if err := b.remove(orderID); err != nil {
		return false, err
	}
	return b.recompute(), nil
}

func (b *Book) remove(orderID uint64) error {
	loc, ok := b.index[orderID]
	if !ok {
		return ErrUnknownOrderID
	}
	levels := b.sideMap(loc.side)
	lvl, ok := levels.Get(loc.price)
	if !ok {
		return ErrLevelMissing
	}
	lvl.Remove(loc.elem)
	if lvl.Len() == 0 {
		levels.Delete(loc.price)
	}
	delete(b.index, orderID)
	return nil
}

// OrderExecution reduces a resting order's volume by volume, deleting
// it if that brings resting volume to zero. Reports ErrOverExecute
// (unmutated) if volume exceeds what is resting.
func (b *Book) OrderExecution(orderID uint64, volume uint32) (changed bool, err error) {
	loc, ok := b.index[orderID]
	if !ok {
		return false, ErrUnknownOrderID
	}
	ord, ok := loc.elem.Value.(*Order)
	if !ok {
		return false, ErrLevelMissing
	}
	if volume > ord.Volume {
		return false, ErrOverExecute
	}
	ord.Volume -= volume
	if ord.Volume == 0 {
		if err := b.remove(orderID); err != nil {
			return false, err
		}
	}
	return b.recompute(), nil
}

// ReplaceOrder is equivalent to DeleteOrder(oldOrderID) followed by
// AddOrder(newOrderID, ...) with an empty firm id: the new leg is
// rejected as a duplicate under the same rule AddOrder enforces, and
// the old leg stays resting (the book left unmutated) when it is.
func (b *Book) ReplaceOrder(oldOrderID, newOrderID uint64, price int64, volume uint32, side message.Side) (changed bool, err error) {
	if _, ok := b.index[oldOrderID]; !ok {
		return false, ErrUnknownOrderID
	}
	if _, exists := b.index[newOrderID]; exists {
		return false, ErrDuplicateOrderID
	}
	if err := b.remove(oldOrderID); err != nil {
		return false, err
	}
	b.insert(newOrderID, price, volume, side, [5]byte{})
	return b.recompute(), nil
}

// Clear drops every order, level, and top-10 cache for this book.
func (b *Book) Clear() {
	b.bids = btree.NewMap[int64, *list.List](32)
	b.asks = btree.NewMap[int64, *list.List](32)
	b.index = make(map[uint64]location)
	b.top10Bids = nil
	b.top10Asks = nil
}

// Top10Bids returns the cached top ten bid levels, highest price first.
func (b *Book) Top10Bids() []PriceLevel { return b.top10Bids }

// Top10Asks returns the cached top ten ask levels, lowest price first.
func (b *Book) Top10Asks() []PriceLevel { return b.top10Asks }

func (b *Book) recompute() (changed bool) {
	bids := collectTop(b.bids, true)
	asks := collectTop(b.asks, false)
	changed = !levelsEqual(bids, b.top10Bids) || !levelsEqual(asks, b.top10Asks)
	b.top10Bids = bids
	b.top10Asks = asks
	return changed
}

func collectTop(levels *btree.Map[int64, *list.List], descending bool) []PriceLevel {
	out := make([]PriceLevel, 0, topDepth)
	visit := func(price int64, lvl *list.List) bool {
		pl := PriceLevel{Price: price, Orders: make([]Order, 0, lvl.Len())}
		for e := lvl.Front(); e != nil; e = e.Next() {
			pl.Orders = append(pl.Orders, *e.Value.(*Order))
		}
		out = append(out, pl)
		return len(out) < topDepth
	}
	if descending {
		levels.Reverse(visit)
	} else {
		levels.Scan(visit)
	}
	return out
}
