// Package capture is the default, file-backed implementation of
// feed.CaptureReader: a classic libpcap capture file reader. It is a
// thin, replaceable adapter, not part of the decoder's tested core.
package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	globalHeaderLen = 24
	recordHeaderLen = 16

	magicLittleEndian = 0xa1b2c3d4
	magicSwapped      = 0xd4c3b2a1
)

// ErrBadMagic reports a global header whose magic number matches
// neither known byte order.
var ErrBadMagic = errors.New("capture: unrecognized magic number")

// Reader decodes a libpcap capture stream, yielding one raw frame per
// record. The endianness of every subsequent field is fixed by the
// magic number in the 24-byte global header, read once at construction.
type Reader struct {
	r      io.Reader
	order  binary.ByteOrder
	header globalHeader
}

type globalHeader struct {
	VersionMajor uint16
	VersionMinor uint16
	ThisZone     int32
	SigFigs      uint32
	SnapLen      uint32
	Network      uint32
}

// NewReader parses the global header from r and returns a Reader
// positioned at the first record.
func NewReader(r io.Reader) (*Reader, error) {
	var buf [globalHeaderLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("capture: reading global header: %w", err)
	}
	magicLE := binary.LittleEndian.Uint32(buf[0:4])

	var order binary.ByteOrder
	switch magicLE {
	case magicLittleEndian:
		order = binary.LittleEndian
	case magicSwapped:
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: %#08x", ErrBadMagic, magicLE)
	}

	return &Reader{
		r:     r,
		order: order,
		header: globalHeader{
			VersionMajor: order.Uint16(buf[4:6]),
			VersionMinor: order.Uint16(buf[6:8]),
			ThisZone:     int32(order.Uint32(buf[8:12])),
			SigFigs:      order.Uint32(buf[12:16]),
			SnapLen:      order.Uint32(buf[16:20]),
			Network:      order.Uint32(buf[20:24]),
		},
	}, nil
}

// SnapLen is the capture's configured per-record snapshot length.
func (cr *Reader) SnapLen() uint32 { return cr.header.SnapLen }

// Next reads one record and returns its captured frame bytes and its
// original (possibly larger, if the capture truncated the frame)
// length. It returns io.EOF when the stream is exhausted.
func (cr *Reader) Next() (frame []byte, capturedLen int, err error) {
	var hdr [recordHeaderLen]byte
	if _, err := io.ReadFull(cr.r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, 0, io.EOF
		}
		return nil, 0, fmt.Errorf("capture: reading record header: %w", err)
	}
	inclLen := cr.order.Uint32(hdr[8:12])
	origLen := cr.order.Uint32(hdr[12:16])

	buf := make([]byte, inclLen)
	if _, err := io.ReadFull(cr.r, buf); err != nil {
		return nil, 0, fmt.Errorf("capture: reading frame data: %w", err)
	}
	return buf, int(origLen), nil
}
