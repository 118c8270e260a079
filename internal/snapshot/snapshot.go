// Package snapshot renders a book's top-10 view into a human-readable
// text snapshot, converting integer prices to decimal strings with no
// floating point.
package snapshot

import (
	"strconv"

	"pillarbook/internal/book"
	"pillarbook/internal/metadata"
)

// Format renders symbolIndex's header line followed by its bid levels
// (descending) and ask levels (ascending), each order shown as
// [id/volume] in time-priority order.
func Format(symbolIndex uint32, info metadata.Info, hasInfo bool, bids, asks []book.PriceLevel) string {
	buf := make([]byte, 0, 256)

	symbolText := "Unknown"
	scale := metadata.Scale(0)
	if hasInfo {
		symbolText = info.SymbolText
		scale = info.Scale
	}
	buf = append(buf, "SYMBOL="...)
	buf = append(buf, symbolText...)
	buf = append(buf, " idx="...)
	buf = strconv.AppendUint(buf, uint64(symbolIndex), 10)
	buf = append(buf, '\n')

	for _, lvl := range bids {
		buf = appendLevel(buf, "BID", lvl, scale)
	}
	for _, lvl := range asks {
		buf = appendLevel(buf, "ASK", lvl, scale)
	}
	return string(buf)
}

func appendLevel(buf []byte, side string, lvl book.PriceLevel, scale metadata.Scale) []byte {
	buf = append(buf, side...)
	buf = append(buf, ' ')
	buf = appendScaledInt(buf, lvl.Price, int(scale))
	for _, ord := range lvl.Orders {
		buf = append(buf, " ["...)
		buf = strconv.AppendUint(buf, ord.ID, 10)
		buf = append(buf, '/')
		buf = strconv.AppendUint(buf, uint64(ord.Volume), 10)
		buf = append(buf, ']')
	}
	buf = append(buf, '\n')
	return buf
}

// appendScaledInt writes value / 10^scale as a decimal string, without
// ever converting through a float: it splits value's digits and
// inserts the decimal point scale places from the right, zero-padding
// the fractional part if value has fewer digits than scale.
func appendScaledInt(buf []byte, value int64, scale int) []byte {
	if scale <= 0 {
		return strconv.AppendInt(buf, value, 10)
	}
	neg := value < 0
	if neg {
		value = -value
	}
	digits := strconv.AppendInt(nil, value, 10)
	for len(digits) <= scale {
		digits = append([]byte{'0'}, digits...)
	}
	split := len(digits) - scale
	if neg {
		buf = append(buf, '-')
	}
	buf = append(buf, digits[:split]...)
	buf = append(buf, '.')
	buf = append(buf, digits[split:]...)
	return buf
}
