package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pillarbook/internal/diag"
	"pillarbook/internal/message"
)

func TestCountersAccumulate(t *testing.T) {
	m := NewMetrics()
	m.IncMessage(message.TagAddOrder)
	m.IncMessage(message.TagAddOrder)
	m.IncDiagnostic(diag.DuplicateOrderID)
	m.IncPacketProcessed()
	m.IncFrameSkipped()
	m.IncTop10Changed()
	m.ObserveProcessFrame(5 * time.Millisecond)

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.MessageCounts[message.TagAddOrder])
	assert.EqualValues(t, 1, snap.DiagnosticCounts[diag.DuplicateOrderID])
	assert.EqualValues(t, 1, snap.PacketsProcessed)
	assert.EqualValues(t, 1, snap.FramesSkipped)
	assert.EqualValues(t, 1, snap.Top10Changed)
	assert.EqualValues(t, 1, snap.ProcessFrame.Count)
	assert.Equal(t, 5*time.Millisecond, snap.ProcessFrame.Avg)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncMessage(message.TagAddOrder)
	m.ObserveProcessFrame(time.Second)
	assert.Zero(t, m.Snapshot().PacketsProcessed)
}
