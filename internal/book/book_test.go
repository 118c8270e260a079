package book

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pillarbook/internal/message"
)

func firm(s string) [5]byte {
	var f [5]byte
	copy(f[:], s)
	return f
}

func buildS1() *Book {
	b := NewBook()
	b.AddOrder(1, 100, 10, message.SideBuy, firm(""))
	b.AddOrder(2, 101, 5, message.SideBuy, firm(""))
	b.AddOrder(3, 102, 7, message.SideSell, firm(""))
	b.AddOrder(4, 103, 9, message.SideSell, firm(""))
	return b
}

func wantPrices(t *testing.T, got []PriceLevel, want []int64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, p := range want {
		assert.Equalf(t, p, got[i].Price, "level %d", i)
	}
}

func TestS1TwoSidedBook(t *testing.T) {
	b := buildS1()
	wantPrices(t, b.Top10Bids(), []int64{101, 100})
	wantPrices(t, b.Top10Asks(), []int64{102, 103})
	assert.EqualValues(t, 2, b.Top10Bids()[0].Orders[0].ID)
	assert.EqualValues(t, 5, b.Top10Bids()[0].Orders[0].Volume)
}

func TestS2ExecutionToZero(t *testing.T) {
	b := buildS1()
	changed, err := b.OrderExecution(2, 5)
	require.NoError(t, err)
	assert.True(t, changed, "expected top10_changed=true")
	wantPrices(t, b.Top10Bids(), []int64{100})
	_, ok := b.index[2]
	assert.False(t, ok, "order 2 should be gone from the index")
}

func TestS3PartialExecution(t *testing.T) {
	b := buildS1()
	changed, err := b.OrderExecution(1, 4)
	require.NoError(t, err)
	assert.False(t, changed, "expected top10_changed=false: price set unchanged")
	wantPrices(t, b.Top10Bids(), []int64{101, 100})
	assert.EqualValues(t, 6, b.Top10Bids()[1].Orders[0].Volume)
}

func TestS4ReplaceChangesLevel(t *testing.T) {
	b := buildS1()
	changed, err := b.ReplaceOrder(3, 30, 104, 7, message.SideSell)
	require.NoError(t, err)
	assert.True(t, changed, "expected top10_changed=true")
	wantPrices(t, b.Top10Asks(), []int64{103, 104})
	_, ok := b.index[3]
	assert.False(t, ok, "old order id should be gone")
	loc, ok := b.index[30]
	require.True(t, ok)
	assert.EqualValues(t, 104, loc.price)
}

func TestReplaceIntoExistingOrderIDRejected(t *testing.T) {
	b := buildS1()
	_, ok := b.index[3]
	require.True(t, ok, "fixture should already rest order 3")
	changed, err := b.ReplaceOrder(1, 3, 104, 7, message.SideSell)
	assert.True(t, errors.Is(err, ErrDuplicateOrderID))
	assert.False(t, changed)
	_, ok = b.index[1]
	assert.True(t, ok, "old leg must stay resting when the new leg is rejected")
	loc, ok := b.index[3]
	require.True(t, ok, "existing order 3 must be untouched")
	assert.EqualValues(t, 102, loc.price)
}

func TestS5SymbolClear(t *testing.T) {
	b := buildS1()
	b.Clear()
	assert.Empty(t, b.Top10Bids())
	assert.Empty(t, b.Top10Asks())
	_, err := b.AddOrder(1, 50, 1, message.SideBuy, firm(""))
	require.NoError(t, err)
	wantPrices(t, b.Top10Bids(), []int64{50})
}

func TestModifyVolumeOnlyKeepsPosition(t *testing.T) {
	b := buildS1()
	locBefore := b.index[1].elem
	_, err := b.ModifyOrder(1, 100, 20, message.SideBuy)
	require.NoError(t, err)
	assert.Same(t, locBefore, b.index[1].elem, "volume-only modify should keep the order's position in its level")
	assert.EqualValues(t, 20, b.Top10Bids()[1].Orders[0].Volume)
}

func TestModifyPriceChangeReKeys(t *testing.T) {
	b := buildS1()
	changed, err := b.ModifyOrder(1, 105, 10, message.SideBuy)
	require.NoError(t, err)
	assert.True(t, changed, "expected top10_changed=true")
	wantPrices(t, b.Top10Bids(), []int64{105, 101})
}

func TestAddDuplicateRejected(t *testing.T) {
	b := NewBook()
	b.AddOrder(1, 10, 1, message.SideBuy, firm(""))
	_, err := b.AddOrder(1, 20, 1, message.SideBuy, firm(""))
	assert.True(t, errors.Is(err, ErrDuplicateOrderID))
}

func TestDeleteUnknownRejected(t *testing.T) {
	b := NewBook()
	_, err := b.DeleteOrder(99)
	assert.True(t, errors.Is(err, ErrUnknownOrderID))
}

func TestOverExecuteRejected(t *testing.T) {
	b := NewBook()
	b.AddOrder(1, 10, 5, message.SideBuy, firm(""))
	_, err := b.OrderExecution(1, 6)
	assert.True(t, errors.Is(err, ErrOverExecute))
	assert.EqualValues(t, 5, b.index[1].elem.Value.(*Order).Volume, "over-execute must not mutate the order")
}

func TestAddDeleteRestoresEmptyBook(t *testing.T) {
	b := NewBook()
	b.AddOrder(1, 10, 5, message.SideBuy, firm(""))
	b.DeleteOrder(1)
	assert.Empty(t, b.Top10Bids())
	assert.Empty(t, b.index)
}

func TestAddExecuteFullRestoresEmptyBook(t *testing.T) {
	b := NewBook()
	b.AddOrder(1, 10, 5, message.SideBuy, firm(""))
	b.OrderExecution(1, 5)
	assert.Empty(t, b.Top10Bids())
	assert.Empty(t, b.index)
}
