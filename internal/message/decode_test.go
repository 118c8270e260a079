package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrderRoundTrip(t *testing.T) {
	want := AddOrder{
		SourceTimeNS: 123456,
		SymbolIndex:  7,
		SymbolSeqNum: 42,
		OrderID:      0x0102030405060708,
		Price:        10050,
		Volume:       300,
		Side:         SideBuy,
		FirmID:       [5]byte{'A', 'B', 'C', ' ', ' '},
	}
	body := EncodeAddOrder(nil, want)
	assert.Len(t, body, sizeAddOrder)

	got, err := Decode(TagAddOrder, body)
	require.NoError(t, err)
	assert.Equal(t, want, got.(AddOrder))
}

func TestOrderExecutionRoundTrip(t *testing.T) {
	want := OrderExecution{
		SourceTimeNS:  1,
		SymbolIndex:   2,
		OrderID:       0xAABBCCDDEE001122,
		TradeID:       0x1122334455667788,
		Price:         500,
		Volume:        10,
		PrintableFlag: 'Y',
		TradeConds:    [4]byte{'A', 'B', ' ', ' '},
	}
	body := EncodeOrderExecution(nil, want)
	got, err := Decode(TagOrderExecution, body)
	require.NoError(t, err)
	assert.Equal(t, want, got.(OrderExecution))
}

func TestSwapped64RoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	const v = uint64(0x0102030405060708)
	putSwapped64(buf, v)
	assert.Equal(t, v, swapped64(buf))
}

func TestSymbolIndexMappingTrimsPadding(t *testing.T) {
	want := SymbolIndexMapping{
		SourceTimeNS:   99,
		SymbolIndex:    5,
		SymbolText:     "AAPL",
		PriceScaleCode: 2,
		RoundLotSize:   100,
	}
	body := EncodeSymbolIndexMapping(nil, want)
	got, err := Decode(TagSymbolIndexMapping, body)
	require.NoError(t, err)
	sim := got.(SymbolIndexMapping)
	assert.Equal(t, "AAPL", sim.SymbolText)
	assert.Equal(t, want, sim)
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode(TagAddOrder, make([]byte, sizeAddOrder-1))
	assert.Error(t, err)
}

func TestDecodeUnknownTag(t *testing.T) {
	_, err := Decode(Tag(9999), []byte{})
	assert.Error(t, err)
}

func TestAddOrderRefreshSharesAddOrderLayout(t *testing.T) {
	want := AddOrderRefresh{
		SourceTimeNS: 1,
		SymbolIndex:  2,
		OrderID:      99,
		Price:        10,
		Volume:       1,
		Side:         SideSell,
	}
	body := EncodeAddOrderRefresh(nil, want)
	got, err := Decode(TagAddOrderRefresh, body)
	require.NoError(t, err)
	assert.Equal(t, want, got.(AddOrderRefresh))
}

func TestPeekSymbolIndexReadsBeforeFullDecode(t *testing.T) {
	body := EncodeAddOrder(nil, AddOrder{SymbolIndex: 42, OrderID: 1, Side: SideBuy})
	idx, ok := PeekSymbolIndex(TagAddOrder, body)
	require.True(t, ok)
	assert.EqualValues(t, 42, idx)
}

func TestPeekSymbolIndexRejectsSequenceNumberReset(t *testing.T) {
	_, ok := PeekSymbolIndex(TagSequenceNumberReset, make([]byte, 16))
	assert.False(t, ok, "sequence_number_reset has no symbol_index")
}

func TestPeekSymbolIndexRejectsShortBody(t *testing.T) {
	_, ok := PeekSymbolIndex(TagAddOrder, make([]byte, 4))
	assert.False(t, ok)
}
