package journal

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/yanun0323/errors"
)

var ErrChecksumMismatch = errors.New("journal: checksum mismatch")

// Reader decodes journal records sequentially from an io.Reader.
type Reader struct {
	r         *bufio.Reader
	headerBuf []byte
}

// NewReader wraps r with journal decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r), headerBuf: make([]byte, entryHeaderSize)}
}

// Next returns the next Entry, or io.EOF once the stream is exhausted.
func (r *Reader) Next() (Entry, error) {
	n, err := io.ReadFull(r.r, r.headerBuf)
	if err != nil {
		if err == io.EOF && n == 0 {
			return Entry{}, io.EOF
		}
		return Entry{}, err
	}
	entry, err := decodeEntry(r.headerBuf)
	if err != nil {
		return Entry{}, err
	}

	var checksumBuf [checksumSize]byte
	if _, err := io.ReadFull(r.r, checksumBuf[:]); err != nil {
		return Entry{}, err
	}
	if expected := binary.LittleEndian.Uint32(checksumBuf[:]); expected != checksum(r.headerBuf) {
		return Entry{}, ErrChecksumMismatch
	}
	return entry, nil
}
