// Package message decodes individual feed messages from the body slices
// the packet framer hands it, and re-encodes synthetic bodies for tests
// and the capture generator tool.
package message

import "fmt"

// Tag is the numeric message type carried in the 4-byte message header.
type Tag uint16

const (
	TagSequenceNumberReset    Tag = 1
	TagSourceTimeReference    Tag = 2
	TagSymbolIndexMapping     Tag = 3
	TagSymbolClear            Tag = 32
	TagSecurityStatus         Tag = 34
	TagAddOrder               Tag = 100
	TagModifyOrder            Tag = 101
	TagDeleteOrder            Tag = 102
	TagOrderExecution         Tag = 103
	TagReplaceOrder           Tag = 104
	TagImbalance              Tag = 105
	TagAddOrderRefresh        Tag = 106
	TagNonDisplayedTrade      Tag = 110
	TagCrossTrade             Tag = 111
	TagTradeCancel            Tag = 112
	TagCrossCorrection        Tag = 113
	TagRetailPriceImprovement Tag = 114
)

func (t Tag) String() string {
	switch t {
	case TagSequenceNumberReset:
		return "SequenceNumberReset"
	case TagSourceTimeReference:
		return "SourceTimeReference"
	case TagSymbolIndexMapping:
		return "SymbolIndexMapping"
	case TagSymbolClear:
		return "SymbolClear"
	case TagSecurityStatus:
		return "SecurityStatus"
	case TagAddOrder:
		return "AddOrder"
	case TagModifyOrder:
		return "ModifyOrder"
	case TagDeleteOrder:
		return "DeleteOrder"
	case TagOrderExecution:
		return "OrderExecution"
	case TagReplaceOrder:
		return "ReplaceOrder"
	case TagImbalance:
		return "Imbalance"
	case TagAddOrderRefresh:
		return "AddOrderRefresh"
	case TagNonDisplayedTrade:
		return "NonDisplayedTrade"
	case TagCrossTrade:
		return "CrossTrade"
	case TagTradeCancel:
		return "TradeCancel"
	case TagCrossCorrection:
		return "CrossCorrection"
	case TagRetailPriceImprovement:
		return "RetailPriceImprovement"
	default:
		return fmt.Sprintf("Tag(%d)", uint16(t))
	}
}

// IsBookMutating reports whether messages of this tag can mutate a book.
func (t Tag) IsBookMutating() bool {
	switch t {
	case TagSymbolClear, TagAddOrder, TagModifyOrder, TagDeleteOrder,
		TagOrderExecution, TagReplaceOrder, TagAddOrderRefresh:
		return true
	default:
		return false
	}
}
