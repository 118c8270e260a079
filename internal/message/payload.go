package message

// Side is the resting side of an order or the side an informational
// message refers to.
type Side byte

const (
	SideUnknown Side = 0
	SideBuy     Side = 'B'
	SideSell    Side = 'S'
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// Payload is implemented by every decoded message body. Tag identifies
// which of the concrete types below a Payload actually is, so callers
// can switch on it without a type assertion chain.
type Payload interface {
	Tag() Tag
}

type SequenceNumberReset struct {
	SourceTimeNS      uint32
	NewSequenceNumber uint32
}

func (SequenceNumberReset) Tag() Tag { return TagSequenceNumberReset }

type SourceTimeReference struct {
	SourceTimeSeconds  uint32
	SourceTimeNSOffset uint32
}

func (SourceTimeReference) Tag() Tag { return TagSourceTimeReference }

type SymbolIndexMapping struct {
	SourceTimeNS   uint32
	SymbolIndex    uint32
	SymbolText     string
	PriceScaleCode uint8
	RoundLotSize   uint32
}

func (SymbolIndexMapping) Tag() Tag { return TagSymbolIndexMapping }

type SymbolClear struct {
	SourceTimeNS uint32
	SymbolIndex  uint32
}

func (SymbolClear) Tag() Tag { return TagSymbolClear }

type SecurityStatus struct {
	SourceTimeNS  uint32
	SymbolIndex   uint32
	TradingStatus byte
	HaltReason    byte
}

func (SecurityStatus) Tag() Tag { return TagSecurityStatus }

type AddOrder struct {
	SourceTimeNS  uint32
	SymbolIndex   uint32
	SymbolSeqNum  uint32
	OrderID       uint64
	Price         uint32
	Volume        uint32
	Side          Side
	FirmID        [5]byte
}

func (AddOrder) Tag() Tag { return TagAddOrder }

type ModifyOrder struct {
	SourceTimeNS uint32
	SymbolIndex  uint32
	OrderID      uint64
	Price        uint32
	Volume       uint32
	Side         Side
}

func (ModifyOrder) Tag() Tag { return TagModifyOrder }

type DeleteOrder struct {
	SourceTimeNS uint32
	SymbolIndex  uint32
	OrderID      uint64
}

func (DeleteOrder) Tag() Tag { return TagDeleteOrder }

type OrderExecution struct {
	SourceTimeNS  uint32
	SymbolIndex   uint32
	OrderID       uint64
	TradeID       uint64
	Price         uint32
	Volume        uint32
	PrintableFlag byte
	TradeConds    [4]byte
}

func (OrderExecution) Tag() Tag { return TagOrderExecution }

type ReplaceOrder struct {
	SourceTimeNS uint32
	SymbolIndex  uint32
	OldOrderID   uint64
	NewOrderID   uint64
	Price        uint32
	Volume       uint32
	Side         Side
}

func (ReplaceOrder) Tag() Tag { return TagReplaceOrder }

type Imbalance struct {
	SourceTimeNS   uint32
	SymbolIndex    uint32
	ReferencePrice uint32
	PairedQty      uint32
	ImbalanceQty   uint32
	ImbalanceSide  Side
}

func (Imbalance) Tag() Tag { return TagImbalance }

// AddOrderRefresh shares AddOrder's wire layout; it is a distinct Go type
// so dispatch and tests can tell a refresh apart from a fresh add.
type AddOrderRefresh AddOrder

func (AddOrderRefresh) Tag() Tag { return TagAddOrderRefresh }

type NonDisplayedTrade struct {
	SourceTimeNS uint32
	SymbolIndex  uint32
	TradeID      uint64
	Price        uint32
	Volume       uint32
	TradeCond    byte
}

func (NonDisplayedTrade) Tag() Tag { return TagNonDisplayedTrade }

type CrossTrade struct {
	SourceTimeNS uint32
	SymbolIndex  uint32
	TradeID      uint64
	Price        uint32
	Volume       uint32
	CrossType    byte
}

func (CrossTrade) Tag() Tag { return TagCrossTrade }

type TradeCancel struct {
	SourceTimeNS uint32
	SymbolIndex  uint32
	TradeID      uint64
}

func (TradeCancel) Tag() Tag { return TagTradeCancel }

type CrossCorrection struct {
	SourceTimeNS    uint32
	SymbolIndex     uint32
	TradeID         uint64
	CorrectedVolume uint32
}

func (CrossCorrection) Tag() Tag { return TagCrossCorrection }

type RetailPriceImprovement struct {
	SourceTimeNS uint32
	SymbolIndex  uint32
	RPISide      Side
}

func (RetailPriceImprovement) Tag() Tag { return TagRetailPriceImprovement }
