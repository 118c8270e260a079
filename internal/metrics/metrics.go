// Package metrics accumulates atomic counters and latency stats for a
// running Feed, so a long process can expose a periodic summary without
// scraping logs.
package metrics

import (
	"sync/atomic"
	"time"

	"pillarbook/internal/diag"
	"pillarbook/internal/message"
)

const maxTag = int(message.TagRetailPriceImprovement)
const maxKind = int(diag.LevelMissing)

// Metrics collects lightweight counters and ProcessFrame latency.
type Metrics struct {
	messageCounts [maxTag + 1]uint64
	kindCounts    [maxKind + 1]uint64

	packetsProcessed uint64
	framesSkipped    uint64
	top10Changed     uint64

	processFrame LatencyStats
}

// NewMetrics allocates an empty metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncMessage counts one successfully decoded message of the given tag.
// Tags outside the known range (never produced by message.Decode) are
// silently dropped rather than panicking a hot ingestion path.
func (m *Metrics) IncMessage(tag message.Tag) {
	if m == nil {
		return
	}
	idx := int(tag)
	if idx >= 0 && idx < len(m.messageCounts) {
		atomic.AddUint64(&m.messageCounts[idx], 1)
	}
}

// IncDiagnostic counts one reported diagnostic of the given kind.
func (m *Metrics) IncDiagnostic(kind diag.Kind) {
	if m == nil {
		return
	}
	idx := int(kind)
	if idx >= 0 && idx < len(m.kindCounts) {
		atomic.AddUint64(&m.kindCounts[idx], 1)
	}
}

// IncPacketProcessed counts one feed packet that the framer iterated
// without a packet-level error.
func (m *Metrics) IncPacketProcessed() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.packetsProcessed, 1)
}

// IncFrameSkipped counts one captured frame that the frame extractor
// rejected as not carrying a feed packet.
func (m *Metrics) IncFrameSkipped() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.framesSkipped, 1)
}

// IncTop10Changed counts one book mutation whose top-10 view changed.
func (m *Metrics) IncTop10Changed() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.top10Changed, 1)
}

// ObserveProcessFrame records how long one ProcessFrame call took.
func (m *Metrics) ObserveProcessFrame(d time.Duration) {
	if m == nil {
		return
	}
	m.processFrame.Observe(d)
}

// Snapshot is a point-in-time copy of every counter and latency stat.
type Snapshot struct {
	MessageCounts    map[message.Tag]uint64
	DiagnosticCounts map[diag.Kind]uint64
	PacketsProcessed uint64
	FramesSkipped    uint64
	Top10Changed     uint64
	ProcessFrame     LatencySnapshot
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	messageCounts := make(map[message.Tag]uint64)
	for i := range m.messageCounts {
		if v := atomic.LoadUint64(&m.messageCounts[i]); v > 0 {
			messageCounts[message.Tag(i)] = v
		}
	}
	kindCounts := make(map[diag.Kind]uint64)
	for i := range m.kindCounts {
		if v := atomic.LoadUint64(&m.kindCounts[i]); v > 0 {
			kindCounts[diag.Kind(i)] = v
		}
	}
	return Snapshot{
		MessageCounts:    messageCounts,
		DiagnosticCounts: kindCounts,
		PacketsProcessed: atomic.LoadUint64(&m.packetsProcessed),
		FramesSkipped:    atomic.LoadUint64(&m.framesSkipped),
		Top10Changed:     atomic.LoadUint64(&m.top10Changed),
		ProcessFrame:     m.processFrame.Snapshot(),
	}
}
