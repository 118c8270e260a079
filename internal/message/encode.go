package message

import "encoding/binary"

// putSwapped64 writes v as a little-endian field with its byte order
// reversed, undoing swapped64 so Encode/Decode round-trip exactly.
func putSwapped64(b []byte, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	for i := 0; i < 4; i++ {
		tmp[i], tmp[7-i] = tmp[7-i], tmp[i]
	}
	copy(b, tmp[:])
}

func putText(b []byte, s string) {
	for i := range b {
		b[i] = ' '
	}
	copy(b, s)
}

func grow(dst []byte, size int) []byte {
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	return dst[:size]
}

func EncodeSequenceNumberReset(dst []byte, v SequenceNumberReset) []byte {
	dst = grow(dst, sizeSequenceNumberReset)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.NewSequenceNumber)
	return dst
}

func EncodeSourceTimeReference(dst []byte, v SourceTimeReference) []byte {
	dst = grow(dst, sizeSourceTimeReference)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeSeconds)
	binary.LittleEndian.PutUint32(dst[4:8], v.SourceTimeNSOffset)
	binary.LittleEndian.PutUint32(dst[8:12], 0)
	return dst
}

func EncodeSymbolIndexMapping(dst []byte, v SymbolIndexMapping) []byte {
	dst = grow(dst, sizeSymbolIndexMapping)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	putText(dst[8:18], v.SymbolText)
	dst[18] = v.PriceScaleCode
	binary.LittleEndian.PutUint32(dst[19:23], v.RoundLotSize)
	dst[23] = 0
	return dst
}

func EncodeSymbolClear(dst []byte, v SymbolClear) []byte {
	dst = grow(dst, sizeSymbolClear)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	return dst
}

func EncodeSecurityStatus(dst []byte, v SecurityStatus) []byte {
	dst = grow(dst, sizeSecurityStatus)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	dst[8] = v.TradingStatus
	dst[9] = v.HaltReason
	binary.LittleEndian.PutUint16(dst[10:12], 0)
	return dst
}

func EncodeAddOrder(dst []byte, v AddOrder) []byte {
	dst = grow(dst, sizeAddOrder)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	binary.LittleEndian.PutUint32(dst[8:12], v.SymbolSeqNum)
	putSwapped64(dst[12:20], v.OrderID)
	binary.LittleEndian.PutUint32(dst[20:24], v.Price)
	binary.LittleEndian.PutUint32(dst[24:28], v.Volume)
	dst[28] = byte(v.Side)
	copy(dst[29:34], v.FirmID[:])
	dst[34] = 0
	return dst
}

func EncodeModifyOrder(dst []byte, v ModifyOrder) []byte {
	dst = grow(dst, sizeModifyOrder)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	putSwapped64(dst[8:16], v.OrderID)
	binary.LittleEndian.PutUint32(dst[16:20], v.Price)
	binary.LittleEndian.PutUint32(dst[20:24], v.Volume)
	dst[24] = byte(v.Side)
	dst[25], dst[26], dst[27] = 0, 0, 0
	return dst
}

func EncodeDeleteOrder(dst []byte, v DeleteOrder) []byte {
	dst = grow(dst, sizeDeleteOrder)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	putSwapped64(dst[8:16], v.OrderID)
	return dst
}

func EncodeOrderExecution(dst []byte, v OrderExecution) []byte {
	dst = grow(dst, sizeOrderExecution)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	putSwapped64(dst[8:16], v.OrderID)
	putSwapped64(dst[16:24], v.TradeID)
	binary.LittleEndian.PutUint32(dst[24:28], v.Price)
	binary.LittleEndian.PutUint32(dst[28:32], v.Volume)
	dst[32] = v.PrintableFlag
	copy(dst[33:37], v.TradeConds[:])
	return dst
}

func EncodeReplaceOrder(dst []byte, v ReplaceOrder) []byte {
	dst = grow(dst, sizeReplaceOrder)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	putSwapped64(dst[8:16], v.OldOrderID)
	putSwapped64(dst[16:24], v.NewOrderID)
	binary.LittleEndian.PutUint32(dst[24:28], v.Price)
	binary.LittleEndian.PutUint32(dst[28:32], v.Volume)
	dst[32] = byte(v.Side)
	dst[33], dst[34], dst[35] = 0, 0, 0
	return dst
}

func EncodeImbalance(dst []byte, v Imbalance) []byte {
	dst = grow(dst, sizeImbalance)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	binary.LittleEndian.PutUint32(dst[8:12], v.ReferencePrice)
	binary.LittleEndian.PutUint32(dst[12:16], v.PairedQty)
	binary.LittleEndian.PutUint32(dst[16:20], v.ImbalanceQty)
	dst[20] = byte(v.ImbalanceSide)
	dst[21], dst[22], dst[23] = 0, 0, 0
	return dst
}

func EncodeAddOrderRefresh(dst []byte, v AddOrderRefresh) []byte {
	return EncodeAddOrder(dst, AddOrder(v))
}

func EncodeNonDisplayedTrade(dst []byte, v NonDisplayedTrade) []byte {
	dst = grow(dst, sizeNonDisplayedTrade)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	putSwapped64(dst[8:16], v.TradeID)
	binary.LittleEndian.PutUint32(dst[16:20], v.Price)
	binary.LittleEndian.PutUint32(dst[20:24], v.Volume)
	dst[24] = v.TradeCond
	dst[25], dst[26], dst[27] = 0, 0, 0
	return dst
}

func EncodeCrossTrade(dst []byte, v CrossTrade) []byte {
	dst = grow(dst, sizeCrossTrade)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	putSwapped64(dst[8:16], v.TradeID)
	binary.LittleEndian.PutUint32(dst[16:20], v.Price)
	binary.LittleEndian.PutUint32(dst[20:24], v.Volume)
	dst[24] = v.CrossType
	dst[25], dst[26], dst[27] = 0, 0, 0
	return dst
}

func EncodeTradeCancel(dst []byte, v TradeCancel) []byte {
	dst = grow(dst, sizeTradeCancel)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	putSwapped64(dst[8:16], v.TradeID)
	return dst
}

func EncodeCrossCorrection(dst []byte, v CrossCorrection) []byte {
	dst = grow(dst, sizeCrossCorrection)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	putSwapped64(dst[8:16], v.TradeID)
	binary.LittleEndian.PutUint32(dst[16:20], v.CorrectedVolume)
	return dst
}

func EncodeRetailPriceImprovement(dst []byte, v RetailPriceImprovement) []byte {
	dst = grow(dst, sizeRetailPriceImprovement)
	binary.LittleEndian.PutUint32(dst[0:4], v.SourceTimeNS)
	binary.LittleEndian.PutUint32(dst[4:8], v.SymbolIndex)
	dst[8] = byte(v.RPISide)
	dst[9], dst[10], dst[11] = 0, 0, 0
	return dst
}

// Encode dispatches to the matching EncodeX function by the payload's
// own Tag, mirroring Decode's dispatch. Used by the capture generator.
func Encode(dst []byte, p Payload) []byte {
	switch v := p.(type) {
	case SequenceNumberReset:
		return EncodeSequenceNumberReset(dst, v)
	case SourceTimeReference:
		return EncodeSourceTimeReference(dst, v)
	case SymbolIndexMapping:
		return EncodeSymbolIndexMapping(dst, v)
	case SymbolClear:
		return EncodeSymbolClear(dst, v)
	case SecurityStatus:
		return EncodeSecurityStatus(dst, v)
	case AddOrder:
		return EncodeAddOrder(dst, v)
	case ModifyOrder:
		return EncodeModifyOrder(dst, v)
	case DeleteOrder:
		return EncodeDeleteOrder(dst, v)
	case OrderExecution:
		return EncodeOrderExecution(dst, v)
	case ReplaceOrder:
		return EncodeReplaceOrder(dst, v)
	case Imbalance:
		return EncodeImbalance(dst, v)
	case AddOrderRefresh:
		return EncodeAddOrderRefresh(dst, v)
	case NonDisplayedTrade:
		return EncodeNonDisplayedTrade(dst, v)
	case CrossTrade:
		return EncodeCrossTrade(dst, v)
	case TradeCancel:
		return EncodeTradeCancel(dst, v)
	case CrossCorrection:
		return EncodeCrossCorrection(dst, v)
	case RetailPriceImprovement:
		return EncodeRetailPriceImprovement(dst, v)
	default:
		panic("message: Encode called with unknown payload type")
	}
}
