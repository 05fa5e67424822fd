package protocol

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/danmuck/tekctl/internal/protocol/schema"
	"github.com/danmuck/tekctl/internal/protocol/tlv"
)

// Message is a parsed parameter write request or read response.
type Message struct {
	Header Header
	Blocks []tlv.Block
}

// Value is a known parameter block converted back into its unit.
type Value struct {
	Name  string
	ID    uint16
	Unit  schema.Unit
	Value int
}

// ParsePayload parses a 0x42 write request or a 0x43 read response.
func ParsePayload(b []byte) (*Message, error) {
	if len(b) < HeaderSize {
		return nil, ErrTruncated
	}
	head := Header{MessageType: b[0], ProductID: b[1], Reserved: b[2]}
	switch head.MessageType {
	case MsgParameterWrite, MsgParameterReadResponse:
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrMessageTypeMismatch, head.MessageType)
	}
	blocks, err := tlv.DecodeBlocks(b[HeaderSize:])
	if err != nil {
		return nil, err
	}
	return &Message{Header: head, Blocks: blocks}, nil
}

// ParseHex accepts hex with optional whitespace or a 0x prefix.
func ParseHex(s string) (*Message, error) {
	b, err := DecodeHex(s)
	if err != nil {
		return nil, err
	}
	return ParsePayload(b)
}

func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.Join(strings.Fields(s), "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("protocol: invalid hex: %w", err)
	}
	return b, nil
}

// Values decodes every writable parameter present in the message, in
// block order. Blocks with unknown ids are skipped; use Blocks for those.
func (m *Message) Values() ([]Value, error) {
	out := make([]Value, 0, len(m.Blocks))
	for _, blk := range m.Blocks {
		spec, ok := schema.ByID(blk.ID)
		if !ok {
			continue
		}
		v, err := spec.Decode(blk.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Value{Name: spec.Name, ID: spec.ID, Unit: spec.Unit, Value: v})
	}
	return out, nil
}
