package protocol

import "encoding/hex"

// Message types carried in the first payload byte.
const (
	MsgParameterWrite        byte = 0x42
	MsgParameterReadResponse byte = 0x43
)

const (
	ProductTEK766 byte = 0x00
	Reserved      byte = 0x00

	HeaderSize = 3

	// FPort is the LoRaWAN application port for parameter downlinks.
	FPort = 42
)

// Header is the fixed 3-byte payload header.
type Header struct {
	MessageType byte
	ProductID   byte
	Reserved    byte
}

func WriteRequestHeader() Header {
	return Header{MessageType: MsgParameterWrite, ProductID: ProductTEK766, Reserved: Reserved}
}

func (h Header) Bytes() []byte {
	return []byte{h.MessageType, h.ProductID, h.Reserved}
}

// Payload is an assembled downlink. It is immutable once built.
type Payload struct {
	raw    []byte
	blocks int
}

// Bytes returns a copy of the payload bytes.
func (p Payload) Bytes() []byte {
	out := make([]byte, len(p.raw))
	copy(out, p.raw)
	return out
}

// Hex renders the payload as lowercase hex without separators.
func (p Payload) Hex() string {
	return hex.EncodeToString(p.raw)
}

func (p Payload) Len() int { return len(p.raw) }

// Blocks is the number of parameter blocks after the header.
func (p Payload) Blocks() int { return p.blocks }

// Empty reports a header-only payload: every parameter was skipped.
func (p Payload) Empty() bool { return p.blocks == 0 }
