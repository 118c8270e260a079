package message

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"strings"
)

// swapped64 reads a little-endian 64-bit field and reverses its byte
// order, matching the source feed's byte-swap of order_id and trade_id.
func swapped64(b []byte) uint64 {
	return bits.ReverseBytes64(binary.LittleEndian.Uint64(b))
}

func trimText(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}

// Decode parses body according to tag, returning a concrete Payload.
// Unknown tags yield ErrUnknownMessageType; short bodies for a known
// tag yield ErrMessageTruncated wrapped with the tag's required length.
func Decode(tag Tag, body []byte) (Payload, error) {
	switch tag {
	case TagSequenceNumberReset:
		return decodeSequenceNumberReset(body)
	case TagSourceTimeReference:
		return decodeSourceTimeReference(body)
	case TagSymbolIndexMapping:
		return decodeSymbolIndexMapping(body)
	case TagSymbolClear:
		return decodeSymbolClear(body)
	case TagSecurityStatus:
		return decodeSecurityStatus(body)
	case TagAddOrder:
		return decodeAddOrder(body)
	case TagModifyOrder:
		return decodeModifyOrder(body)
	case TagDeleteOrder:
		return decodeDeleteOrder(body)
	case TagOrderExecution:
		return decodeOrderExecution(body)
	case TagReplaceOrder:
		return decodeReplaceOrder(body)
	case TagImbalance:
		return decodeImbalance(body)
	case TagAddOrderRefresh:
		return decodeAddOrderRefresh(body)
	case TagNonDisplayedTrade:
		return decodeNonDisplayedTrade(body)
	case TagCrossTrade:
		return decodeCrossTrade(body)
	case TagTradeCancel:
		return decodeTradeCancel(body)
	case TagCrossCorrection:
		return decodeCrossCorrection(body)
	case TagRetailPriceImprovement:
		return decodeRetailPriceImprovement(body)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMessageType, uint16(tag))
	}
}

func truncated(tag Tag, want, got int) error {
	return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrMessageTruncated, tag, want, got)
}

// PeekSymbolIndex reads just the symbol_index field without decoding
// the rest of the body, for dispatchers (e.g. symbol-sharded ingestion)
// that need to route a message before paying for a full Decode. Every
// message type places symbol_index at bytes[4:8] except Sequence
// Number Reset and Source Time Reference, which are channel-wide rather
// than per-symbol.
func PeekSymbolIndex(tag Tag, body []byte) (uint32, bool) {
	if tag == TagSequenceNumberReset || tag == TagSourceTimeReference || len(body) < 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(body[4:8]), true
}

const (
	sizeSequenceNumberReset    = 8
	sizeSourceTimeReference    = 12
	sizeSymbolIndexMapping     = 24
	sizeSymbolClear            = 8
	sizeSecurityStatus         = 12
	sizeAddOrder               = 35
	sizeModifyOrder            = 28
	sizeDeleteOrder            = 16
	sizeOrderExecution         = 37
	sizeReplaceOrder           = 36
	sizeImbalance              = 24
	sizeAddOrderRefresh        = sizeAddOrder
	sizeNonDisplayedTrade      = 28
	sizeCrossTrade             = 28
	sizeTradeCancel            = 16
	sizeCrossCorrection        = 20
	sizeRetailPriceImprovement = 12
)

func decodeSequenceNumberReset(b []byte) (Payload, error) {
	if len(b) < sizeSequenceNumberReset {
		return nil, truncated(TagSequenceNumberReset, sizeSequenceNumberReset, len(b))
	}
	return SequenceNumberReset{
		SourceTimeNS:      binary.LittleEndian.Uint32(b[0:4]),
		NewSequenceNumber: binary.LittleEndian.Uint32(b[4:8]),
	}, nil
}

func decodeSourceTimeReference(b []byte) (Payload, error) {
	if len(b) < sizeSourceTimeReference {
		return nil, truncated(TagSourceTimeReference, sizeSourceTimeReference, len(b))
	}
	return SourceTimeReference{
		SourceTimeSeconds:  binary.LittleEndian.Uint32(b[0:4]),
		SourceTimeNSOffset: binary.LittleEndian.Uint32(b[4:8]),
	}, nil
}

func decodeSymbolIndexMapping(b []byte) (Payload, error) {
	if len(b) < sizeSymbolIndexMapping {
		return nil, truncated(TagSymbolIndexMapping, sizeSymbolIndexMapping, len(b))
	}
	return SymbolIndexMapping{
		SourceTimeNS:   binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:    binary.LittleEndian.Uint32(b[4:8]),
		SymbolText:     trimText(b[8:18]),
		PriceScaleCode: b[18],
		RoundLotSize:   binary.LittleEndian.Uint32(b[19:23]),
	}, nil
}

func decodeSymbolClear(b []byte) (Payload, error) {
	if len(b) < sizeSymbolClear {
		return nil, truncated(TagSymbolClear, sizeSymbolClear, len(b))
	}
	return SymbolClear{
		SourceTimeNS: binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:  binary.LittleEndian.Uint32(b[4:8]),
	}, nil
}

func decodeSecurityStatus(b []byte) (Payload, error) {
	if len(b) < sizeSecurityStatus {
		return nil, truncated(TagSecurityStatus, sizeSecurityStatus, len(b))
	}
	return SecurityStatus{
		SourceTimeNS:  binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:   binary.LittleEndian.Uint32(b[4:8]),
		TradingStatus: b[8],
		HaltReason:    b[9],
	}, nil
}

func decodeAddOrder(b []byte) (Payload, error) {
	if len(b) < sizeAddOrder {
		return nil, truncated(TagAddOrder, sizeAddOrder, len(b))
	}
	a := AddOrder{
		SourceTimeNS: binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:  binary.LittleEndian.Uint32(b[4:8]),
		SymbolSeqNum: binary.LittleEndian.Uint32(b[8:12]),
		OrderID:      swapped64(b[12:20]),
		Price:        binary.LittleEndian.Uint32(b[20:24]),
		Volume:       binary.LittleEndian.Uint32(b[24:28]),
		Side:         Side(b[28]),
	}
	copy(a.FirmID[:], b[29:34])
	return a, nil
}

func decodeModifyOrder(b []byte) (Payload, error) {
	if len(b) < sizeModifyOrder {
		return nil, truncated(TagModifyOrder, sizeModifyOrder, len(b))
	}
	return ModifyOrder{
		SourceTimeNS: binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:  binary.LittleEndian.Uint32(b[4:8]),
		OrderID:      swapped64(b[8:16]),
		Price:        binary.LittleEndian.Uint32(b[16:20]),
		Volume:       binary.LittleEndian.Uint32(b[20:24]),
		Side:         Side(b[24]),
	}, nil
}

func decodeDeleteOrder(b []byte) (Payload, error) {
	if len(b) < sizeDeleteOrder {
		return nil, truncated(TagDeleteOrder, sizeDeleteOrder, len(b))
	}
	return DeleteOrder{
		SourceTimeNS: binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:  binary.LittleEndian.Uint32(b[4:8]),
		OrderID:      swapped64(b[8:16]),
	}, nil
}

func decodeOrderExecution(b []byte) (Payload, error) {
	if len(b) < sizeOrderExecution {
		return nil, truncated(TagOrderExecution, sizeOrderExecution, len(b))
	}
	e := OrderExecution{
		SourceTimeNS:  binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:   binary.LittleEndian.Uint32(b[4:8]),
		OrderID:       swapped64(b[8:16]),
		TradeID:       swapped64(b[16:24]),
		Price:         binary.LittleEndian.Uint32(b[24:28]),
		Volume:        binary.LittleEndian.Uint32(b[28:32]),
		PrintableFlag: b[32],
	}
	copy(e.TradeConds[:], b[33:37])
	return e, nil
}

func decodeReplaceOrder(b []byte) (Payload, error) {
	if len(b) < sizeReplaceOrder {
		return nil, truncated(TagReplaceOrder, sizeReplaceOrder, len(b))
	}
	return ReplaceOrder{
		SourceTimeNS: binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:  binary.LittleEndian.Uint32(b[4:8]),
		OldOrderID:   swapped64(b[8:16]),
		NewOrderID:   swapped64(b[16:24]),
		Price:        binary.LittleEndian.Uint32(b[24:28]),
		Volume:       binary.LittleEndian.Uint32(b[28:32]),
		Side:         Side(b[32]),
	}, nil
}

func decodeImbalance(b []byte) (Payload, error) {
	if len(b) < sizeImbalance {
		return nil, truncated(TagImbalance, sizeImbalance, len(b))
	}
	return Imbalance{
		SourceTimeNS:   binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:    binary.LittleEndian.Uint32(b[4:8]),
		ReferencePrice: binary.LittleEndian.Uint32(b[8:12]),
		PairedQty:      binary.LittleEndian.Uint32(b[12:16]),
		ImbalanceQty:   binary.LittleEndian.Uint32(b[16:20]),
		ImbalanceSide:  Side(b[20]),
	}, nil
}

func decodeAddOrderRefresh(b []byte) (Payload, error) {
	if len(b) < sizeAddOrderRefresh {
		return nil, truncated(TagAddOrderRefresh, sizeAddOrderRefresh, len(b))
	}
	p, err := decodeAddOrder(b)
	if err != nil {
		return nil, err
	}
	return AddOrderRefresh(p.(AddOrder)), nil
}

func decodeNonDisplayedTrade(b []byte) (Payload, error) {
	if len(b) < sizeNonDisplayedTrade {
		return nil, truncated(TagNonDisplayedTrade, sizeNonDisplayedTrade, len(b))
	}
	return NonDisplayedTrade{
		SourceTimeNS: binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:  binary.LittleEndian.Uint32(b[4:8]),
		TradeID:      swapped64(b[8:16]),
		Price:        binary.LittleEndian.Uint32(b[16:20]),
		Volume:       binary.LittleEndian.Uint32(b[20:24]),
		TradeCond:    b[24],
	}, nil
}

func decodeCrossTrade(b []byte) (Payload, error) {
	if len(b) < sizeCrossTrade {
		return nil, truncated(TagCrossTrade, sizeCrossTrade, len(b))
	}
	return CrossTrade{
		SourceTimeNS: binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:  binary.LittleEndian.Uint32(b[4:8]),
		TradeID:      swapped64(b[8:16]),
		Price:        binary.LittleEndian.Uint32(b[16:20]),
		Volume:       binary.LittleEndian.Uint32(b[20:24]),
		CrossType:    b[24],
	}, nil
}

func decodeTradeCancel(b []byte) (Payload, error) {
	if len(b) < sizeTradeCancel {
		return nil, truncated(TagTradeCancel, sizeTradeCancel, len(b))
	}
	return TradeCancel{
		SourceTimeNS: binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:  binary.LittleEndian.Uint32(b[4:8]),
		TradeID:      swapped64(b[8:16]),
	}, nil
}

func decodeCrossCorrection(b []byte) (Payload, error) {
	if len(b) < sizeCrossCorrection {
		return nil, truncated(TagCrossCorrection, sizeCrossCorrection, len(b))
	}
	return CrossCorrection{
		SourceTimeNS:    binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:     binary.LittleEndian.Uint32(b[4:8]),
		TradeID:         swapped64(b[8:16]),
		CorrectedVolume: binary.LittleEndian.Uint32(b[16:20]),
	}, nil
}

func decodeRetailPriceImprovement(b []byte) (Payload, error) {
	if len(b) < sizeRetailPriceImprovement {
		return nil, truncated(TagRetailPriceImprovement, sizeRetailPriceImprovement, len(b))
	}
	return RetailPriceImprovement{
		SourceTimeNS: binary.LittleEndian.Uint32(b[0:4]),
		SymbolIndex:  binary.LittleEndian.Uint32(b[4:8]),
		RPISide:      Side(b[8]),
	}, nil
}
