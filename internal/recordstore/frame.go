package recordstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/inoxlang/recordkit/internal/codec"
)

// Layout of a snapshot frame:
//
//	magic       4 bytes  "RKS1"
//	flags       1 byte
//	value count uvarint
//	codec name  1 byte length + name
//	label       uvarint length + label
//	checksum    4 bytes, little endian CRC32-C of the payload as stored
//	payload     encoded values, zstd compressed if FLAG_ZSTD is set

const (
	FLAG_ZSTD byte = 1 << iota
)

const (
	MAX_LABEL_LENGTH = 1 << 10
)

var (
	FRAME_MAGIC = [4]byte{'R', 'K', 'S', '1'}

	crc32cTable = crc32.MakeTable(crc32.Castagnoli)
)

type frame struct {
	flags      byte
	valueCount uint64
	codecName  string
	label      string
	payload    []byte
}

func (f frame) compressed() bool {
	return f.flags&FLAG_ZSTD != 0
}

func (f frame) encode() ([]byte, error) {
	if len(f.codecName) == 0 || len(f.codecName) > codec.MAX_NAME_LENGTH {
		return nil, fmt.Errorf("invalid codec name %q", f.codecName)
	}
	if len(f.label) > MAX_LABEL_LENGTH {
		return nil, fmt.Errorf("label is too long (%d bytes), max is %d", len(f.label), MAX_LABEL_LENGTH)
	}

	buf := make([]byte, 0, len(FRAME_MAGIC)+16+len(f.codecName)+len(f.label)+len(f.payload))
	buf = append(buf, FRAME_MAGIC[:]...)
	buf = append(buf, f.flags)
	buf = binary.AppendUvarint(buf, f.valueCount)
	buf = append(buf, byte(len(f.codecName)))
	buf = append(buf, f.codecName...)
	buf = binary.AppendUvarint(buf, uint64(len(f.label)))
	buf = append(buf, f.label...)
	buf = binary.LittleEndian.AppendUint32(buf, crc32.Checksum(f.payload, crc32cTable))
	buf = append(buf, f.payload...)
	return buf, nil
}

// decodeFrame parses a frame and verifies the checksum of its payload, the payload is not copied.
func decodeFrame(data []byte) (frame, error) {
	var f frame

	corrupt := func(reason string) (frame, error) {
		return frame{}, fmt.Errorf("%w: %s", ErrCorruptSnapshot, reason)
	}

	if len(data) < len(FRAME_MAGIC)+1 || !bytes.Equal(data[:len(FRAME_MAGIC)], FRAME_MAGIC[:]) {
		return corrupt("bad magic")
	}
	data = data[len(FRAME_MAGIC):]

	f.flags = data[0]
	data = data[1:]

	count, n := binary.Uvarint(data)
	if n <= 0 {
		return corrupt("bad value count")
	}
	f.valueCount = count
	data = data[n:]

	if len(data) < 1 || len(data) < 1+int(data[0]) {
		return corrupt("truncated codec name")
	}
	nameLen := int(data[0])
	f.codecName = string(data[1 : 1+nameLen])
	data = data[1+nameLen:]

	labelLen, n := binary.Uvarint(data)
	if n <= 0 || labelLen > MAX_LABEL_LENGTH || uint64(len(data)-n) < labelLen {
		return corrupt("bad label")
	}
	data = data[n:]
	f.label = string(data[:labelLen])
	data = data[labelLen:]

	if len(data) < 4 {
		return corrupt("truncated checksum")
	}
	checksum := binary.LittleEndian.Uint32(data)
	f.payload = data[4:]

	if crc32.Checksum(f.payload, crc32cTable) != checksum {
		return corrupt("checksum mismatch")
	}
	return f, nil
}
