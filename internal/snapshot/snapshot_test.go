package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pillarbook/internal/book"
	"pillarbook/internal/metadata"
)

func TestAppendScaledIntVariousScales(t *testing.T) {
	cases := []struct {
		value int64
		scale int
		want  string
	}{
		{10050, 2, "100.50"},
		{5, 2, "0.05"},
		{100, 0, "100"},
		{-250, 2, "-2.50"},
		{1, 9, "0.000000001"},
	}
	for _, c := range cases {
		got := string(appendScaledInt(nil, c.value, c.scale))
		assert.Equalf(t, c.want, got, "appendScaledInt(%d, %d)", c.value, c.scale)
	}
}

func TestFormatUnknownSymbol(t *testing.T) {
	out := Format(42, metadata.Info{}, false, nil, nil)
	require.Contains(t, out, "SYMBOL=Unknown idx=42\n")
}

func TestFormatWithLevels(t *testing.T) {
	bids := []book.PriceLevel{
		{Price: 10050, Orders: []book.Order{{ID: 1, Volume: 5}, {ID: 2, Volume: 3}}},
	}
	asks := []book.PriceLevel{
		{Price: 10100, Orders: []book.Order{{ID: 3, Volume: 7}}},
	}
	out := Format(7, metadata.Info{SymbolText: "AAPL", Scale: 2}, true, bids, asks)
	want := "SYMBOL=AAPL idx=7\nBID 100.50 [1/5] [2/3]\nASK 101.00 [3/7]\n"
	assert.Equal(t, want, out)
}
