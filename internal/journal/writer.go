// Package journal implements the optional message journal (§6b): a
// segment-rotated, checksummed log of fixed-size records holding
// decoded message headers, never book state, for replay and offline
// debugging.
package journal

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var ErrClosed = errors.New("journal: writer closed")

// Writer appends Entry records to rotating segment files. The core is
// single-threaded and strictly sequential (§5), so unlike a live
// exchange's WAL, Append runs synchronously on the caller's goroutine —
// there is no buffered queue or background flush loop to coordinate.
type Writer struct {
	cfg    Config
	seg    *segment
	segID  uint64
	closed bool
}

type segment struct {
	file     *os.File
	buf      *bufio.Writer
	size     int64
	openedAt time.Time
}

// NewWriter creates a journal writer and ensures the target directory
// exists.
func NewWriter(cfg Config) (*Writer, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	return &Writer{cfg: cfg}, nil
}

// Append writes one Entry, swapping in a fresh segment file first if
// the open one has outgrown SegmentMaxBytes or SegmentMaxDuration.
func (w *Writer) Append(e Entry) error {
	if w.closed {
		return ErrClosed
	}
	now := time.Now().UTC()
	recordSize := int64(entryHeaderSize + checksumSize)
	if err := w.ensureSegment(now, recordSize); err != nil {
		return err
	}

	var record [entryHeaderSize + checksumSize]byte
	encodeEntry(record[:entryHeaderSize], e)
	binary.LittleEndian.PutUint32(record[entryHeaderSize:], checksum(record[:entryHeaderSize]))

	if _, err := w.seg.buf.Write(record[:]); err != nil {
		return err
	}
	w.seg.size += recordSize
	return nil
}

// Close flushes and closes the current segment, if any.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.seg == nil {
		return nil
	}
	return w.seg.finish()
}

// ensureSegment swaps in a newly opened segment when none is open yet
// or the current one no longer has room for nextSize bytes, under the
// directory's byte and duration limits. The call path is synchronous,
// so there is never more than one segment open at a time to coordinate
// against.
func (w *Writer) ensureSegment(now time.Time, nextSize int64) error {
	if w.seg != nil {
		overBytes := w.cfg.SegmentMaxBytes > 0 && w.seg.size+nextSize > w.cfg.SegmentMaxBytes
		overAge := w.cfg.SegmentMaxDuration > 0 && now.Sub(w.seg.openedAt) >= w.cfg.SegmentMaxDuration
		if !overBytes && !overAge {
			return nil
		}
		if err := w.seg.finish(); err != nil {
			return err
		}
		w.seg = nil
	}
	seg, err := w.createSegment(now)
	if err != nil {
		return err
	}
	w.seg = seg
	return nil
}

// createSegment claims the next sequential segment file name under a
// timestamped prefix, retrying past names already taken by a prior run
// sharing the same second.
func (w *Writer) createSegment(now time.Time) (*segment, error) {
	ts := now.Format("20060102-150405")
	for {
		w.segID++
		name := fmt.Sprintf("%s-%s-%06d.jrn", w.cfg.FilePrefix, ts, w.segID)
		file, err := os.OpenFile(filepath.Join(w.cfg.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
		if err == nil {
			return &segment{file: file, buf: bufio.NewWriterSize(file, w.cfg.BufferSize), openedAt: now}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
}

// finish flushes, syncs, and closes the segment's file.
func (seg *segment) finish() error {
	if err := seg.buf.Flush(); err != nil {
		_ = seg.file.Close()
		return err
	}
	if err := seg.file.Sync(); err != nil {
		_ = seg.file.Close()
		return err
	}
	return seg.file.Close()
}
