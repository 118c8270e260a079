package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	pyroscope "github.com/grafana/pyroscope-go"

	"pillarbook/internal/diag"
	"pillarbook/internal/feed"
	"pillarbook/internal/journal"
	"pillarbook/internal/message"
	"pillarbook/internal/packet"
	"pillarbook/internal/shard"
	"pillarbook/internal/wireframe"
	"pillarbook/pkg/capture"
)

func main() {
	if err := run(); err != nil {
		log.Printf("pillarbook: %v", err)
		os.Exit(1)
	}
}

func run() error {
	journalDir := flag.String("journal", "", "directory to journal decoded message headers into (disabled if empty)")
	shards := flag.Int("shards", 1, "number of symbol shards for ingestion (1 disables sharding)")
	quiet := flag.Bool("quiet", false, "suppress printed snapshot lines")
	flag.Parse()

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: pillarbook [-journal dir] [-shards n] <capture-file>")
	}
	capturePath := flag.Arg(0)

	if false {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "pillarbook",
			ServerAddress:   "http://localhost:4040",
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileInuseObjects,
			},
		})
		if err != nil {
			return fmt.Errorf("pyroscope start failed: %w", err)
		}
		defer func() { _ = profiler.Stop() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	file, err := os.Open(capturePath)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer file.Close()

	reader, err := capture.NewReader(file)
	if err != nil {
		return fmt.Errorf("read capture header: %w", err)
	}

	var jw *journal.Writer
	if *journalDir != "" {
		jw, err = journal.NewWriter(journal.DefaultConfig(*journalDir))
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer jw.Close()
	}

	print := func(events []feed.SnapshotEvent) {
		if *quiet {
			return
		}
		for _, e := range events {
			fmt.Println(e.Text)
		}
	}

	if *shards <= 1 {
		f := feed.New(diag.LoggingSink{})
		if jw != nil {
			f.Journal = journalAppender{jw}
		}
		return runSingleThreaded(reader, f, print)
	}
	return runSharded(ctx, reader, jw, *shards, print)
}

// runSingleThreaded drives every frame through one Feed in capture
// order, matching the core's single-threaded, strictly sequential
// processing model.
func runSingleThreaded(reader *capture.Reader, f *feed.Feed, print func([]feed.SnapshotEvent)) error {
	for {
		raw, _, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		print(f.ProcessFrame(raw))
	}
	dumpMetrics(f)
	return nil
}

// runSharded implements §5a: a single dispatcher goroutine extracts
// and frames every captured frame, then routes each decoded message
// record to the shard owning its symbol_index. Each shard drains its
// queue sequentially through its own Feed, preserving per-symbol feed
// order while distinct symbols apply concurrently. Symbol Index
// Mapping and Sequence Number Reset are channel-wide rather than
// per-symbol, so they broadcast to every shard instead of routing to
// one.
func runSharded(ctx context.Context, reader *capture.Reader, jw *journal.Writer, n int, print func([]feed.SnapshotEvent)) error {
	sink := diag.LoggingSink{}
	router := shard.NewRouter(n, 1024)
	feeds := make([]*feed.Feed, n)
	for i := range feeds {
		feeds[i] = feed.New(diag.LoggingSink{})
		if jw != nil {
			feeds[i].Journal = journalAppender{jw}
		}
	}

	done := make(chan struct{}, n)
	for i, q := range router.Shards() {
		f := feeds[i]
		go func(q *shard.Queue, f *feed.Feed) {
			q.Run(ctx, func(task shard.Task) {
				print(f.ApplyMessage(task.Tag, task.Body))
			})
			done <- struct{}{}
		}(q, f)
	}

	for {
		raw, _, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			for _, q := range router.Shards() {
				q.Close()
			}
			for range feeds {
				<-done
			}
			return err
		}
		dispatchFrame(router, sink, raw)
	}

	for _, q := range router.Shards() {
		q.Close()
	}
	for range feeds {
		<-done
	}
	for _, f := range feeds {
		dumpMetrics(f)
	}
	return nil
}

func dispatchFrame(router *shard.Router, sink diag.Sink, raw []byte) {
	payload, err := wireframe.Extract(raw)
	if err != nil {
		kind := diag.FrameMalformed
		if errors.Is(err, wireframe.ErrSkip) {
			kind = diag.FrameSkip
		}
		sink.Observe(diag.Diagnostic{Kind: kind, Stage: diag.StageFrame, Err: err})
		return
	}
	iterErr := packet.Iterate(payload, func(rec packet.Record, recErr error) error {
		if recErr != nil {
			sink.Observe(diag.Diagnostic{Kind: diag.MessageTruncated, Stage: diag.StagePacket, Err: recErr})
			return nil
		}
		task := shard.Task{Tag: rec.Type, Body: rec.Body}
		if rec.Type == message.TagSymbolIndexMapping || rec.Type == message.TagSequenceNumberReset {
			router.Broadcast(task)
			return nil
		}
		symbolIndex, ok := message.PeekSymbolIndex(rec.Type, rec.Body)
		if !ok {
			router.Broadcast(task)
			return nil
		}
		task.SymbolIndex = symbolIndex
		router.Shard(symbolIndex).TryPublish(task)
		return nil
	})
	if iterErr != nil {
		kind := diag.PacketSizeMismatch
		if errors.Is(iterErr, packet.ErrInsufficientData) {
			kind = diag.FrameMalformed
		}
		sink.Observe(diag.Diagnostic{Kind: kind, Stage: diag.StagePacket, Err: iterErr})
	}
}

func dumpMetrics(f *feed.Feed) {
	snap := f.Metrics.Snapshot()
	log.Printf("packets=%d frames_skipped=%d top10_changed=%d process_frame=%+v messages=%v diagnostics=%v",
		snap.PacketsProcessed, snap.FramesSkipped, snap.Top10Changed, snap.ProcessFrame, snap.MessageCounts, snap.DiagnosticCounts)
}

// journalAppender adapts a *journal.Writer to feed.JournalAppender so
// the feed package never imports the journal package directly.
type journalAppender struct {
	w *journal.Writer
}

func (j journalAppender) Append(tag uint16, bodyLen uint32, outcome feed.JournalOutcome, symbolIndex uint32, seq uint64) error {
	return j.w.Append(journal.Entry{
		Tag:         tag,
		BodyLen:     bodyLen,
		Outcome:     journalOutcome(outcome),
		SymbolIndex: symbolIndex,
		Seq:         seq,
	})
}

func journalOutcome(o feed.JournalOutcome) journal.Outcome {
	switch o {
	case feed.JournalOutcomeTruncated:
		return journal.OutcomeTruncated
	case feed.JournalOutcomeUnknownType:
		return journal.OutcomeUnknownType
	default:
		return journal.OutcomeOK
	}
}
