package tlv

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderLen is [len][id_hi][id_lo].
const HeaderLen = 3

const (
	MaxID       = 0xFFFF
	MaxValueLen = 0xFF
)

var (
	ErrOutOfRange       = errors.New("tlv: out of range")
	ErrShortBlockHeader = errors.New("tlv: short block header")
	ErrShortBlockValue  = errors.New("tlv: short block value")
)

// Block is one parameter block.
type Block struct {
	ID    uint16
	Value []byte
}

// EncodeBlock returns [len(value), id>>8, id&0xFF, value...].
// Either a complete block or an error is returned, never both.
func EncodeBlock(id uint32, value []byte) ([]byte, error) {
	if id > MaxID {
		return nil, fmt.Errorf("%w: id 0x%x exceeds 0x%04x", ErrOutOfRange, id, MaxID)
	}
	if len(value) > MaxValueLen {
		return nil, fmt.Errorf("%w: value length %d exceeds %d", ErrOutOfRange, len(value), MaxValueLen)
	}
	buf := make([]byte, HeaderLen+len(value))
	buf[0] = byte(len(value))
	binary.BigEndian.PutUint16(buf[1:3], uint16(id))
	copy(buf[HeaderLen:], value)
	return buf, nil
}

// AppendBlock encodes b onto dst. dst is returned unchanged on error.
func AppendBlock(dst []byte, b Block) ([]byte, error) {
	enc, err := EncodeBlock(uint32(b.ID), b.Value)
	if err != nil {
		return dst, err
	}
	return append(dst, enc...), nil
}

// ReadBlock decodes the block at the start of b and reports how many
// bytes it consumed.
func ReadBlock(b []byte) (Block, int, error) {
	if len(b) < HeaderLen {
		return Block{}, 0, ErrShortBlockHeader
	}
	l := int(b[0])
	id := binary.BigEndian.Uint16(b[1:3])
	if len(b)-HeaderLen < l {
		return Block{ID: id}, 0, fmt.Errorf("%w: id 0x%04x wants %d bytes, %d left", ErrShortBlockValue, id, l, len(b)-HeaderLen)
	}
	val := make([]byte, l)
	copy(val, b[HeaderLen:HeaderLen+l])
	return Block{ID: id, Value: val}, HeaderLen + l, nil
}

func DecodeBlocks(payload []byte) ([]Block, error) {
	blocks := make([]Block, 0)
	for i := 0; i < len(payload); {
		blk, n, err := ReadBlock(payload[i:])
		if err != nil {
			return nil, err
		}
		i += n
		blocks = append(blocks, blk)
	}
	return blocks, nil
}

func U32LE(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}

func U32FromLE(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("tlv: invalid u32 length: %d", len(b))
	}
	return binary.LittleEndian.Uint32(b), nil
}

func U16FromLE(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, fmt.Errorf("tlv: invalid u16 length: %d", len(b))
	}
	return binary.LittleEndian.Uint16(b), nil
}
