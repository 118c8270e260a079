// Package diag replaces ad hoc stderr prints with a structured
// diagnostics sink: every reported condition in the pipeline is a typed
// Diagnostic handed to a Sink, never a direct log call from deep inside
// a component.
package diag

import "fmt"

// Kind enumerates every condition the pipeline can report. None of
// these are fatal to the run; they are all handled by continuing with
// the next frame or message.
type Kind int

const (
	FrameMalformed Kind = iota
	FrameSkip
	PacketSizeMismatch
	MessageTruncated
	UnknownMessageType
	DuplicateOrderID
	UnknownOrderID
	OverExecute
	LevelMissing
)

func (k Kind) String() string {
	switch k {
	case FrameMalformed:
		return "frame_malformed"
	case FrameSkip:
		return "frame_skip"
	case PacketSizeMismatch:
		return "packet_size_mismatch"
	case MessageTruncated:
		return "message_truncated"
	case UnknownMessageType:
		return "unknown_message_type"
	case DuplicateOrderID:
		return "duplicate_order_id"
	case UnknownOrderID:
		return "unknown_order_id"
	case OverExecute:
		return "over_execute"
	case LevelMissing:
		return "level_missing"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Stage names the pipeline stage a Diagnostic originated from, purely
// for grouping in logs and metrics.
type Stage int

const (
	StageFrame Stage = iota
	StagePacket
	StageMessage
	StageBook
)

func (s Stage) String() string {
	switch s {
	case StageFrame:
		return "frame"
	case StagePacket:
		return "packet"
	case StageMessage:
		return "message"
	case StageBook:
		return "book"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Diagnostic is one reported condition, carrying enough context to log
// or count it without the sink needing to know pipeline internals.
type Diagnostic struct {
	Kind        Kind
	Stage       Stage
	SymbolIndex uint32
	OrderID     uint64
	Err         error
}

// Sink receives every Diagnostic the pipeline produces.
type Sink interface {
	Observe(Diagnostic)
}

// NoopSink discards every Diagnostic. Useful for tests that only want
// to assert on returned errors or snapshot events, not on logging.
type NoopSink struct{}

func (NoopSink) Observe(Diagnostic) {}

// CollectingSink accumulates every Diagnostic it sees, in order. Useful
// for tests that want to assert on exactly what was reported.
type CollectingSink struct {
	Diagnostics []Diagnostic
}

func (s *CollectingSink) Observe(d Diagnostic) {
	s.Diagnostics = append(s.Diagnostics, d)
}
