// Package packet parses the fixed feed-packet header produced by
// wireframe.Extract and iterates the length-prefixed message records
// inside it.
package packet

import (
	"encoding/binary"
	"fmt"

	"github.com/yanun0323/errors"

	"pillarbook/internal/message"
)

const (
	headerLen          = 16
	msgHeaderLen       = 4
	offPacketSize      = 0
	offDeliveryFlag    = 2
	offNumMessages     = 3
	offSequenceNumber  = 4
	offSendTime        = 8
)

// ErrSizeMismatch reports a packet header whose declared size disagrees
// with the number of bytes actually available.
var ErrSizeMismatch = errors.New("packet: packet size mismatch")

// ErrInsufficientData reports a message record whose declared size is
// too small to hold its own header, or that runs past the packet end.
var ErrInsufficientData = errors.New("packet: insufficient data for message record")

// Header is the 16-byte feed packet header.
type Header struct {
	PacketSize      uint16
	DeliveryFlag    uint8
	NumMessages     uint8
	SequenceNumber  uint32
	SendTime        uint64
}

// Record is one decoded-or-skipped message slot: its type tag and the
// body slice the message package should decode.
type Record struct {
	Type message.Tag
	Body []byte
}

// ParseHeader reads the 16-byte packet header. It does not validate
// PacketSize against len(raw); callers combine it with Iterate.
func ParseHeader(raw []byte) (Header, error) {
	if len(raw) < headerLen {
		return Header{}, fmt.Errorf("%w: packet shorter than header (%d bytes)", ErrInsufficientData, len(raw))
	}
	return Header{
		PacketSize:     binary.LittleEndian.Uint16(raw[offPacketSize : offPacketSize+2]),
		DeliveryFlag:   raw[offDeliveryFlag],
		NumMessages:    raw[offNumMessages],
		SequenceNumber: binary.LittleEndian.Uint32(raw[offSequenceNumber : offSequenceNumber+4]),
		SendTime:       binary.LittleEndian.Uint64(raw[offSendTime : offSendTime+8]),
	}, nil
}

// Iterate parses the header, checks PacketSize against len(raw), and
// invokes fn once per message record found within NumMessages. fn
// returning a non-nil error stops iteration early and the error is
// returned from Iterate. A record-level error (a record header that
// does not fit, or a msg_size below 4 or past the packet end) is
// handed to fn and then ends iteration, since the cursor cannot
// advance past it; Iterate returns nil in that case unless fn returns
// an error.
func Iterate(raw []byte, fn func(Record, error) error) error {
	hdr, err := ParseHeader(raw)
	if err != nil {
		return err
	}
	if int(hdr.PacketSize) != len(raw) {
		return fmt.Errorf("%w: header says %d, got %d bytes", ErrSizeMismatch, hdr.PacketSize, len(raw))
	}

	cursor := headerLen
	for i := 0; i < int(hdr.NumMessages); i++ {
		if len(raw)-cursor < msgHeaderLen {
			if err := fn(Record{}, fmt.Errorf("%w: no room for message header at offset %d", ErrInsufficientData, cursor)); err != nil {
				return err
			}
			return nil
		}
		msgSize := binary.LittleEndian.Uint16(raw[cursor : cursor+2])
		msgType := binary.LittleEndian.Uint16(raw[cursor+2 : cursor+4])
		if msgSize < msgHeaderLen || cursor+int(msgSize) > len(raw) {
			if err := fn(Record{}, fmt.Errorf("%w: msg_size %d at offset %d", ErrInsufficientData, msgSize, cursor)); err != nil {
				return err
			}
			return nil
		}
		body := raw[cursor+msgHeaderLen : cursor+int(msgSize)]
		if err := fn(Record{Type: message.Tag(msgType), Body: body}, nil); err != nil {
			return err
		}
		cursor += int(msgSize)
	}
	return nil
}
