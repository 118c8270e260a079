package packet

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pillarbook/internal/message"
)

func buildPacket(msgs [][]byte) []byte {
	total := headerLen
	for _, m := range msgs {
		total += len(m)
	}
	buf := make([]byte, total)
	binary.LittleEndian.PutUint16(buf[offPacketSize:], uint16(total))
	buf[offDeliveryFlag] = 0
	buf[offNumMessages] = uint8(len(msgs))
	binary.LittleEndian.PutUint32(buf[offSequenceNumber:], 7)
	binary.LittleEndian.PutUint64(buf[offSendTime:], 123)
	cursor := headerLen
	for _, m := range msgs {
		copy(buf[cursor:], m)
		cursor += len(m)
	}
	return buf
}

func buildMessage(tag message.Tag, body []byte) []byte {
	m := make([]byte, msgHeaderLen+len(body))
	binary.LittleEndian.PutUint16(m[0:], uint16(len(m)))
	binary.LittleEndian.PutUint16(m[2:], uint16(tag))
	copy(m[msgHeaderLen:], body)
	return m
}

func TestIterateZeroMessages(t *testing.T) {
	pkt := buildPacket(nil)
	count := 0
	err := Iterate(pkt, func(r Record, recErr error) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIterateTwoMessages(t *testing.T) {
	pkt := buildPacket([][]byte{
		buildMessage(message.TagSequenceNumberReset, []byte{1, 2, 3, 4, 5, 6, 7, 8}),
		buildMessage(message.TagDeleteOrder, make([]byte, 16)),
	})
	var got []message.Tag
	err := Iterate(pkt, func(r Record, recErr error) error {
		require.NoError(t, recErr)
		got = append(got, r.Type)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []message.Tag{message.TagSequenceNumberReset, message.TagDeleteOrder}, got)
}

func TestIteratePacketSizeMismatch(t *testing.T) {
	pkt := buildPacket(nil)
	binary.LittleEndian.PutUint16(pkt[offPacketSize:], uint16(len(pkt)+1))
	err := Iterate(pkt, func(Record, error) error { return nil })
	assert.True(t, errors.Is(err, ErrSizeMismatch))
}

func TestIterateMsgSizeTooSmall(t *testing.T) {
	bad := buildMessage(message.TagDeleteOrder, nil)
	binary.LittleEndian.PutUint16(bad[0:], 3) // below the 4-byte header floor
	pkt := buildPacket([][]byte{bad})
	var recErr error
	err := Iterate(pkt, func(r Record, e error) error {
		recErr = e
		return nil
	})
	require.NoError(t, err)
	assert.True(t, errors.Is(recErr, ErrInsufficientData))
}

func TestIterateOverrunRejected(t *testing.T) {
	pkt := buildPacket([][]byte{
		buildMessage(message.TagDeleteOrder, make([]byte, 16)),
	})
	// Claim two messages when only one fits.
	pkt[offNumMessages] = 2
	var recErr error
	calls := 0
	err := Iterate(pkt, func(r Record, e error) error {
		calls++
		if e != nil {
			recErr = e
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, errors.Is(recErr, ErrInsufficientData))
}
