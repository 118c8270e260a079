// Package feed wires the frame extractor, packet framer, message
// decoder, book engine, and snapshot formatter into the single
// stateful object a process constructs once per run.
package feed

import (
	"errors"
	"io"
	"time"

	"pillarbook/internal/book"
	"pillarbook/internal/diag"
	"pillarbook/internal/message"
	"pillarbook/internal/metadata"
	"pillarbook/internal/metrics"
	"pillarbook/internal/packet"
	"pillarbook/internal/snapshot"
	"pillarbook/internal/wireframe"
)

// CaptureReader is the external collaborator: a lazy sequence of raw
// captured frames. Next returns io.EOF once exhausted.
type CaptureReader interface {
	Next() (frame []byte, capturedLen int, err error)
}

// SnapshotEvent is one rendered top-10 view emitted after a mutation
// that changed the visible book or moved to a new symbol.
type SnapshotEvent struct {
	SymbolIndex uint32
	Text        string
}

// session is the per-channel cursor threaded through ProcessFrame. This
// Feed represents a single channel; a multi-channel deployment runs one
// Feed per channel, each with its own Session but sharing nothing.
type session struct {
	lastSequenceNumber uint32
	currentSymbolIndex uint32
	hasSymbol          bool
	journalSeq         uint64
}

// JournalOutcome mirrors journal.Outcome without importing the journal
// package: the optional journal is a pluggable observer of decode
// results, not a dependency the core decoder carries.
type JournalOutcome uint8

const (
	JournalOutcomeOK JournalOutcome = iota
	JournalOutcomeTruncated
	JournalOutcomeUnknownType
)

// JournalAppender receives one record per decode attempt, successful or
// not. A Feed with a nil Journal skips this entirely.
type JournalAppender interface {
	Append(tag uint16, bodyLen uint32, outcome JournalOutcome, symbolIndex uint32, seq uint64) error
}

// Feed is the process-owned object holding the symbol table, books
// registry, and channel session state for one run. No package-level
// mutable state exists anywhere in this module: every mutation happens
// through a *Feed passed explicitly.
type Feed struct {
	Symbols *metadata.SymbolTable
	Books   *book.Registry
	Metrics *metrics.Metrics
	Journal JournalAppender

	sink    diag.Sink
	session session
}

// New returns an empty Feed. A nil sink is replaced with diag.NoopSink.
func New(sink diag.Sink) *Feed {
	if sink == nil {
		sink = diag.NoopSink{}
	}
	return &Feed{
		Symbols: metadata.NewSymbolTable(),
		Books:   book.NewRegistry(),
		Metrics: metrics.NewMetrics(),
		sink:    sink,
	}
}

func (f *Feed) observe(kind diag.Kind, stage diag.Stage, symbolIndex uint32, orderID uint64, err error) {
	f.sink.Observe(diag.Diagnostic{Kind: kind, Stage: stage, SymbolIndex: symbolIndex, OrderID: orderID, Err: err})
	f.Metrics.IncDiagnostic(kind)
}

// ProcessFrame runs one raw captured frame through extract, frame,
// decode, and apply, returning zero or more snapshot events in the
// order their triggering messages were applied.
func (f *Feed) ProcessFrame(raw []byte) []SnapshotEvent {
	start := time.Now()
	defer func() { f.Metrics.ObserveProcessFrame(time.Since(start)) }()

	payload, err := wireframe.Extract(raw)
	if err != nil {
		if errors.Is(err, wireframe.ErrSkip) {
			f.Metrics.IncFrameSkipped()
			f.observe(diag.FrameSkip, diag.StageFrame, 0, 0, err)
		} else {
			f.observe(diag.FrameMalformed, diag.StageFrame, 0, 0, err)
		}
		return nil
	}

	var events []SnapshotEvent
	iterErr := packet.Iterate(payload, func(rec packet.Record, recErr error) error {
		if recErr != nil {
			f.observe(diag.MessageTruncated, diag.StagePacket, 0, 0, recErr)
			return nil
		}
		events = append(events, f.ApplyMessage(rec.Type, rec.Body)...)
		return nil
	})
	if iterErr != nil {
		kind := diag.PacketSizeMismatch
		if errors.Is(iterErr, packet.ErrInsufficientData) {
			kind = diag.FrameMalformed
		}
		f.observe(kind, diag.StagePacket, 0, 0, iterErr)
		return events
	}
	f.Metrics.IncPacketProcessed()
	return events
}

// Stats summarizes one ProcessCapture run.
type Stats struct {
	FramesRead int
	metrics.Snapshot
}

// ProcessCapture drives ProcessFrame over every frame r yields until
// io.EOF, discarding the emitted SnapshotEvents (callers that need them
// should drive ProcessFrame themselves, e.g. to print each snapshot).
func (f *Feed) ProcessCapture(r CaptureReader) (Stats, error) {
	var stats Stats
	for {
		frame, _, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		stats.FramesRead++
		f.ProcessFrame(frame)
	}
	stats.Snapshot = f.Metrics.Snapshot()
	return stats, nil
}

// ApplyMessage decodes one message record and applies it to the owning
// book, returning any snapshot events it triggers. It is the unit a
// symbol-sharded dispatcher (§5a) hands to a per-shard Feed once it has
// routed the record by symbol_index; ProcessFrame calls it once per
// record found by packet.Iterate.
func (f *Feed) ApplyMessage(tag message.Tag, body []byte) []SnapshotEvent {
	payload, err := message.Decode(tag, body)
	if err != nil {
		kind := diag.MessageTruncated
		outcome := JournalOutcomeTruncated
		if errors.Is(err, message.ErrUnknownMessageType) {
			kind = diag.UnknownMessageType
			outcome = JournalOutcomeUnknownType
		}
		f.observe(kind, diag.StageMessage, 0, 0, err)
		f.journal(tag, len(body), outcome, 0)
		return nil
	}
	f.Metrics.IncMessage(tag)
	f.journal(tag, len(body), JournalOutcomeOK, payloadSymbolIndex(payload))

	switch p := payload.(type) {
	case message.SequenceNumberReset:
		f.session.lastSequenceNumber = p.NewSequenceNumber
		return nil
	case message.SymbolIndexMapping:
		f.Symbols.Update(p.SymbolIndex, p.SymbolText, metadata.Scale(p.PriceScaleCode), p.RoundLotSize)
		return nil
	case message.SymbolClear:
		f.Books.Get(p.SymbolIndex).Clear()
		return f.maybeSnapshot(p.SymbolIndex, true)
	case message.AddOrder:
		changed, err := f.Books.Get(p.SymbolIndex).AddOrder(p.OrderID, int64(p.Price), p.Volume, p.Side, p.FirmID)
		return f.handleBookResult(p.SymbolIndex, p.OrderID, changed, err)
	case message.AddOrderRefresh:
		changed, err := f.Books.Get(p.SymbolIndex).AddOrder(p.OrderID, int64(p.Price), p.Volume, p.Side, p.FirmID)
		return f.handleBookResult(p.SymbolIndex, p.OrderID, changed, err)
	case message.ModifyOrder:
		changed, err := f.Books.Get(p.SymbolIndex).ModifyOrder(p.OrderID, int64(p.Price), p.Volume, p.Side)
		return f.handleBookResult(p.SymbolIndex, p.OrderID, changed, err)
	case message.DeleteOrder:
		changed, err := f.Books.Get(p.SymbolIndex).DeleteOrder(p.OrderID)
		return f.handleBookResult(p.SymbolIndex, p.OrderID, changed, err)
	case message.OrderExecution:
		changed, err := f.Books.Get(p.SymbolIndex).OrderExecution(p.OrderID, p.Volume)
		return f.handleBookResult(p.SymbolIndex, p.OrderID, changed, err)
	case message.ReplaceOrder:
		changed, err := f.Books.Get(p.SymbolIndex).ReplaceOrder(p.OldOrderID, p.NewOrderID, int64(p.Price), p.Volume, p.Side)
		return f.handleBookResult(p.SymbolIndex, p.OldOrderID, changed, err)
	default:
		// Source Time Reference, Security Status, Imbalance, Non-Displayed
		// Trade, Cross Trade, Trade Cancel, Cross Correction, and Retail
		// Price Improvement are informational only: no book effect.
		return nil
	}
}

func (f *Feed) journal(tag message.Tag, bodyLen int, outcome JournalOutcome, symbolIndex uint32) {
	if f.Journal == nil {
		return
	}
	f.session.journalSeq++
	if err := f.Journal.Append(uint16(tag), uint32(bodyLen), outcome, symbolIndex, f.session.journalSeq); err != nil {
		f.observe(diag.FrameMalformed, diag.StageMessage, symbolIndex, 0, err)
	}
}

// payloadSymbolIndex extracts the symbol_index every message carries
// except Sequence Number Reset and Source Time Reference, which are
// channel-wide rather than per-symbol and yield 0.
func payloadSymbolIndex(p message.Payload) uint32 {
	switch v := p.(type) {
	case message.SourceTimeReference:
		return 0
	case message.SymbolIndexMapping:
		return v.SymbolIndex
	case message.SymbolClear:
		return v.SymbolIndex
	case message.SecurityStatus:
		return v.SymbolIndex
	case message.AddOrder:
		return v.SymbolIndex
	case message.AddOrderRefresh:
		return v.SymbolIndex
	case message.ModifyOrder:
		return v.SymbolIndex
	case message.DeleteOrder:
		return v.SymbolIndex
	case message.OrderExecution:
		return v.SymbolIndex
	case message.ReplaceOrder:
		return v.SymbolIndex
	case message.Imbalance:
		return v.SymbolIndex
	case message.NonDisplayedTrade:
		return v.SymbolIndex
	case message.CrossTrade:
		return v.SymbolIndex
	case message.TradeCancel:
		return v.SymbolIndex
	case message.CrossCorrection:
		return v.SymbolIndex
	case message.RetailPriceImprovement:
		return v.SymbolIndex
	default:
		return 0
	}
}

func (f *Feed) handleBookResult(symbolIndex uint32, orderID uint64, changed bool, err error) []SnapshotEvent {
	if err != nil {
		f.observe(bookErrKind(err), diag.StageBook, symbolIndex, orderID, err)
		return nil
	}
	return f.maybeSnapshot(symbolIndex, changed)
}

func bookErrKind(err error) diag.Kind {
	switch {
	case errors.Is(err, book.ErrDuplicateOrderID):
		return diag.DuplicateOrderID
	case errors.Is(err, book.ErrUnknownOrderID):
		return diag.UnknownOrderID
	case errors.Is(err, book.ErrOverExecute):
		return diag.OverExecute
	default:
		return diag.LevelMissing
	}
}

// maybeSnapshot applies the §4.4 emission policy: emit whenever
// symbol_index differs from the previously mutated symbol, OR the
// top-10 view changed.
func (f *Feed) maybeSnapshot(symbolIndex uint32, top10Changed bool) []SnapshotEvent {
	symbolChanged := !f.session.hasSymbol || f.session.currentSymbolIndex != symbolIndex
	f.session.currentSymbolIndex = symbolIndex
	f.session.hasSymbol = true
	if top10Changed {
		f.Metrics.IncTop10Changed()
	}
	if !symbolChanged && !top10Changed {
		return nil
	}
	b := f.Books.Get(symbolIndex)
	info, ok := f.Symbols.Lookup(symbolIndex)
	text := snapshot.Format(symbolIndex, info, ok, b.Top10Bids(), b.Top10Asks())
	return []SnapshotEvent{{SymbolIndex: symbolIndex, Text: text}}
}
