package diag

import "github.com/yanun0323/logs"

// LoggingSink is the default Sink: it logs each Diagnostic at a level
// matched to its severity. FrameSkip is expected traffic (a non-feed
// frame on the capture), so it logs at info level; every other kind
// logs at error level.
type LoggingSink struct{}

func (LoggingSink) Observe(d Diagnostic) {
	if d.Kind == FrameSkip {
		logs.Infof("%s: %s symbol=%d", d.Stage, d.Kind, d.SymbolIndex)
		return
	}
	logs.Errorf("%s: %s symbol=%d order=%d err=%v", d.Stage, d.Kind, d.SymbolIndex, d.OrderID, d.Err)
}
