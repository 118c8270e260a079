package journal

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(DefaultConfig(dir))
	require.NoError(t, err)

	entries := []Entry{
		{Tag: 100, BodyLen: 35, Outcome: OutcomeOK, SymbolIndex: 1, Seq: 1},
		{Tag: 103, BodyLen: 37, Outcome: OutcomeOK, SymbolIndex: 1, Seq: 2},
		{Tag: 999, BodyLen: 0, Outcome: OutcomeUnknownType, SymbolIndex: 1, Seq: 3},
	}
	for _, e := range entries {
		require.NoError(t, w.Append(e))
	}
	require.NoError(t, w.Close())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	f, err := os.Open(filepath.Join(dir, files[0].Name()))
	require.NoError(t, err)
	defer f.Close()

	r := NewReader(f)
	for i, want := range entries {
		got, err := r.Next()
		require.NoErrorf(t, err, "Next(%d)", i)
		assert.Equal(t, want, got)
	}
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderDetectsChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, w.Append(Entry{Tag: 100, BodyLen: 35, Outcome: OutcomeOK, SymbolIndex: 1, Seq: 1}))
	require.NoError(t, w.Close())

	files, _ := os.ReadDir(dir)
	path := filepath.Join(dir, files[0].Name())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// Flip a byte inside the header so the checksum no longer matches.
	raw[6] ^= 0xFF
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := NewReader(f)
	_, err = r.Next()
	assert.Equal(t, ErrChecksumMismatch, err)
}

func TestWriterRotatesOnSegmentMaxBytes(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	cfg.SegmentMaxBytes = entryHeaderSize + checksumSize // exactly one record fits per segment
	w, err := NewWriter(cfg)
	require.NoError(t, err)
	for i := uint64(0); i < 3; i++ {
		require.NoErrorf(t, w.Append(Entry{Tag: 100, Seq: i}), "Append(%d)", i)
	}
	require.NoError(t, w.Close())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 3, "expected 3 rotated segments")
}

func TestAppendAfterCloseFails(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, ErrClosed, w.Append(Entry{Tag: 100}))
}

func TestPlaybackReplaysSegmentsInOrder(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	cfg.SegmentMaxDuration = time.Hour
	w, err := NewWriter(cfg)
	require.NoError(t, err)

	var want []Entry
	for i := uint64(0); i < 5; i++ {
		e := Entry{Tag: 100, Seq: i, SymbolIndex: 1}
		want = append(want, e)
		require.NoError(t, w.Append(e))
	}
	require.NoError(t, w.Close())

	p := NewPlayback(dir, "")
	var got []Entry
	require.NoError(t, p.Run(func(e Entry) error {
		got = append(got, e)
		return nil
	}))
	assert.Equal(t, want, got)
}

func TestDecodeEntryRejectsBadMagic(t *testing.T) {
	buf := make([]byte, entryHeaderSize)
	encodeEntry(buf, Entry{Tag: 1})
	buf[0] = 'X'
	_, err := decodeEntry(buf)
	assert.Equal(t, ErrInvalidMagic, err)
}

func TestDecodeEntryRejectsBadVersion(t *testing.T) {
	buf := make([]byte, entryHeaderSize)
	encodeEntry(buf, Entry{Tag: 1})
	binary.LittleEndian.PutUint16(buf[4:6], 99)
	_, err := decodeEntry(buf)
	assert.Equal(t, ErrUnsupportedVer, err)
}
