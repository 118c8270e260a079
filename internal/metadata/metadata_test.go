package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateAndLookup(t *testing.T) {
	tbl := NewSymbolTable()
	_, ok := tbl.Lookup(5)
	require.False(t, ok, "expected miss on empty table")

	tbl.Update(5, "AAPL", 2, 100)
	info, ok := tbl.Lookup(5)
	require.True(t, ok, "expected hit after Update")
	assert.Equal(t, "AAPL", info.SymbolText)
	assert.EqualValues(t, 2, info.Scale)
	assert.EqualValues(t, 100, info.RoundLot)
	assert.Equal(t, 1, tbl.Len())
}

func TestUpdateOverwritesExisting(t *testing.T) {
	tbl := NewSymbolTable()
	tbl.Update(1, "AAPL", 2, 100)
	tbl.Update(1, "AAPL", 4, 50)
	info, ok := tbl.Lookup(1)
	require.True(t, ok)
	assert.EqualValues(t, 4, info.Scale)
	assert.EqualValues(t, 50, info.RoundLot)
}
