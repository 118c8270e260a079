package capture

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGlobalHeader(buf *bytes.Buffer, order binary.ByteOrder, magic uint32) {
	var hdr [globalHeaderLen]byte
	binary.LittleEndian.PutUint32(hdr[0:4], magic)
	order.PutUint16(hdr[4:6], 2)
	order.PutUint16(hdr[6:8], 4)
	order.PutUint32(hdr[16:20], 65535)
	order.PutUint32(hdr[20:24], 1)
	buf.Write(hdr[:])
}

func writeRecord(buf *bytes.Buffer, order binary.ByteOrder, frame []byte, origLen uint32) {
	var hdr [recordHeaderLen]byte
	order.PutUint32(hdr[8:12], uint32(len(frame)))
	order.PutUint32(hdr[12:16], origLen)
	buf.Write(hdr[:])
	buf.Write(frame)
}

func TestReadsLittleEndianCapture(t *testing.T) {
	var buf bytes.Buffer
	writeGlobalHeader(&buf, binary.LittleEndian, magicLittleEndian)
	writeRecord(&buf, binary.LittleEndian, []byte{1, 2, 3}, 3)

	r, err := NewReader(&buf)
	require.NoError(t, err)

	frame, orig, err := r.Next()
	require.NoError(t, err)
	assert.EqualValues(t, 3, orig)
	assert.Equal(t, "\x01\x02\x03", string(frame))

	_, _, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReadsSwappedEndianCapture(t *testing.T) {
	var buf bytes.Buffer
	writeGlobalHeader(&buf, binary.BigEndian, magicSwapped)
	writeRecord(&buf, binary.BigEndian, []byte{9, 9}, 2)

	r, err := NewReader(&buf)
	require.NoError(t, err)

	frame, _, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "\x09\x09", string(frame))
}

func TestTruncatedFrameReportsOrigLargerThanCaptured(t *testing.T) {
	var buf bytes.Buffer
	writeGlobalHeader(&buf, binary.LittleEndian, magicLittleEndian)
	writeRecord(&buf, binary.LittleEndian, []byte{1, 2}, 100)

	r, err := NewReader(&buf)
	require.NoError(t, err)

	frame, orig, err := r.Next()
	require.NoError(t, err)
	assert.Len(t, frame, 2)
	assert.EqualValues(t, 100, orig)
}

func TestBadMagicRejected(t *testing.T) {
	var buf bytes.Buffer
	writeGlobalHeader(&buf, binary.LittleEndian, 0xdeadbeef)
	_, err := NewReader(&buf)
	assert.Error(t, err)
}
