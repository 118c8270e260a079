package journal

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/yanun0323/errors"
)

// Outcome is what happened to a decoded message, recorded alongside
// its header so a journal reader can tell a clean decode from a
// truncated or unrecognized one without re-parsing the original
// capture.
type Outcome uint8

const (
	OutcomeOK Outcome = iota
	OutcomeTruncated
	OutcomeUnknownType
)

const (
	entryVersion    uint16 = 1
	entryHeaderSize        = 28
	checksumSize           = 4
)

var (
	entryMagic = [4]byte{'J', 'R', 'N', '1'}
	crcTable   = crc32.MakeTable(crc32.Castagnoli)
)

var (
	ErrInvalidMagic   = errors.New("journal: invalid magic")
	ErrUnsupportedVer = errors.New("journal: unsupported entry version")
)

// Entry is one journaled record: a decoded message's header and how it
// was handled, never its body and never book state.
type Entry struct {
	Tag         uint16
	BodyLen     uint32
	Outcome     Outcome
	SymbolIndex uint32
	Seq         uint64
}

func encodeEntry(dst []byte, e Entry) {
	_ = dst[entryHeaderSize-1]
	copy(dst[0:4], entryMagic[:])
	binary.LittleEndian.PutUint16(dst[4:6], entryVersion)
	binary.LittleEndian.PutUint16(dst[6:8], e.Tag)
	binary.LittleEndian.PutUint32(dst[8:12], e.BodyLen)
	dst[12] = byte(e.Outcome)
	dst[13], dst[14], dst[15] = 0, 0, 0
	binary.LittleEndian.PutUint32(dst[16:20], e.SymbolIndex)
	binary.LittleEndian.PutUint64(dst[20:28], e.Seq)
}

func decodeEntry(src []byte) (Entry, error) {
	if len(src) < entryHeaderSize {
		return Entry{}, ErrUnsupportedVer
	}
	if !bytes.Equal(src[0:4], entryMagic[:]) {
		return Entry{}, ErrInvalidMagic
	}
	if ver := binary.LittleEndian.Uint16(src[4:6]); ver != entryVersion {
		return Entry{}, ErrUnsupportedVer
	}
	return Entry{
		Tag:         binary.LittleEndian.Uint16(src[6:8]),
		BodyLen:     binary.LittleEndian.Uint32(src[8:12]),
		Outcome:     Outcome(src[12]),
		SymbolIndex: binary.LittleEndian.Uint32(src[16:20]),
		Seq:         binary.LittleEndian.Uint64(src[20:28]),
	}, nil
}

func checksum(header []byte) uint32 {
	return crc32.Checksum(header, crcTable)
}
