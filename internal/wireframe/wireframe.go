// Package wireframe peels the link, network, and datagram headers off a
// raw captured frame and hands back the feed packet payload underneath.
package wireframe

import (
	"encoding/binary"
	"fmt"

	"github.com/yanun0323/errors"
)

const (
	linkHeaderLen     = 14
	linkTypeOffset    = 12
	acceptedLinkType  = 0x0800
	networkProtoOff   = 9
	acceptedProtocol  = 17
	datagramHeaderLen = 8
	datagramLenOffset = 4
)

// ErrSkip wraps a non-matching link or network type: expected, not a
// decoding failure. Callers should drop the frame and move on.
var ErrSkip = errors.New("wireframe: frame does not carry a feed packet")

// ErrMalformed wraps a truncated header or an impossible length.
var ErrMalformed = errors.New("wireframe: malformed frame")

// Extract validates a captured frame's link, network, and datagram
// headers and returns the feed packet payload underneath. It never
// copies: the returned slice aliases raw.
func Extract(raw []byte) ([]byte, error) {
	if len(raw) < linkHeaderLen {
		return nil, fmt.Errorf("%w: frame shorter than link header (%d bytes)", ErrMalformed, len(raw))
	}
	linkType := binary.BigEndian.Uint16(raw[linkTypeOffset : linkTypeOffset+2])
	if linkType != acceptedLinkType {
		return nil, fmt.Errorf("%w: link type %#04x", ErrSkip, linkType)
	}

	netStart := linkHeaderLen
	if len(raw) < netStart+1 {
		return nil, fmt.Errorf("%w: frame too short for network header", ErrMalformed)
	}
	ihl := raw[netStart] & 0x0F
	netHdrLen := int(ihl) * 4
	if netHdrLen < 20 || len(raw) < netStart+netHdrLen {
		return nil, fmt.Errorf("%w: network header length %d out of range", ErrMalformed, netHdrLen)
	}
	protoOff := netStart + networkProtoOff
	if len(raw) <= protoOff {
		return nil, fmt.Errorf("%w: frame too short for network protocol byte", ErrMalformed)
	}
	proto := raw[protoOff]
	if proto != acceptedProtocol {
		return nil, fmt.Errorf("%w: network protocol %d", ErrSkip, proto)
	}

	datagramStart := netStart + netHdrLen
	if len(raw) < datagramStart+datagramHeaderLen {
		return nil, fmt.Errorf("%w: frame too short for datagram header", ErrMalformed)
	}
	dgramLen := binary.BigEndian.Uint16(raw[datagramStart+datagramLenOffset : datagramStart+datagramLenOffset+2])
	if int(dgramLen) < datagramHeaderLen {
		return nil, fmt.Errorf("%w: datagram length %d shorter than its own header", ErrMalformed, dgramLen)
	}
	payloadLen := int(dgramLen) - datagramHeaderLen
	payloadStart := datagramStart + datagramHeaderLen
	payloadEnd := payloadStart + payloadLen
	if payloadEnd > len(raw) {
		return nil, fmt.Errorf("%w: payload exceeds frame (need %d, have %d)", ErrMalformed, payloadEnd, len(raw))
	}
	return raw[payloadStart:payloadEnd], nil
}
