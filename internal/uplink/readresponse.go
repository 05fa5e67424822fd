package uplink

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/danmuck/tekctl/internal/protocol/schema"
	"github.com/danmuck/tekctl/internal/protocol/tlv"
)

const readResponseType byte = 0x43

// Read-only parameter ids reported in read responses.
const (
	IDAlarmLimit1   uint16 = 0x4001
	IDAlarmLimit2   uint16 = 0x4002
	IDAlarmLimit3   uint16 = 0x4003
	IDRSSIThreshold uint16 = 0x4006
)

type Parameter struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Unit    string  `json:"unit"`
	Seconds uint32  `json:"seconds,omitempty"`
	Value   float64 `json:"value"`
}

// AlarmLimit is a static alarm threshold packed into a u16 LE:
// threshold bits 0-9, tolerance bits 10-13, enable bit 14, polarity bit 15.
type AlarmLimit struct {
	Name        string `json:"name"`
	ThresholdCM int    `json:"threshold_cm"`
	ToleranceCM int    `json:"tolerance_cm"`
	Enabled     bool   `json:"enabled"`
	Polarity    string `json:"polarity"`
}

type RawParam struct {
	ID    string `json:"id"`
	Len   int    `json:"len"`
	Error string `json:"error,omitempty"`
	At    int    `json:"at,omitempty"`
}

type ReadResponse struct {
	MessageType      string            `json:"msg_type"`
	ProductID        string            `json:"product_id"`
	Reserved         string            `json:"reserved"`
	Parameters       []Parameter       `json:"parameters"`
	Limits           []AlarmLimit      `json:"limits,omitempty"`
	RSSIThresholdDBm *int              `json:"rf_rssi_threshold_dbm,omitempty"`
	Unknown          map[string]string `json:"unknown,omitempty"`
	Raw              []RawParam        `json:"raw_params"`
}

// DecodeReadResponse parses the header and every complete block. A
// truncated trailing block is recorded in Raw and ends parsing.
func DecodeReadResponse(b []byte) (ReadResponse, error) {
	if err := need(b, 3, "read response header"); err != nil {
		return ReadResponse{}, err
	}
	out := ReadResponse{
		MessageType: fmt.Sprintf("0x%x", b[0]),
		ProductID:   fmt.Sprintf("0x%x", b[1]),
		Reserved:    fmt.Sprintf("0x%x", b[2]),
		Parameters:  make([]Parameter, 0),
		Raw:         make([]RawParam, 0),
	}

	for i := 3; i < len(b); {
		blk, n, err := tlv.ReadBlock(b[i:])
		if errors.Is(err, tlv.ErrShortBlockHeader) {
			break
		}
		if err != nil {
			out.Raw = append(out.Raw, RawParam{ID: idHex(blk.ID), Len: int(b[i]), Error: "truncated", At: i})
			break
		}
		out.Raw = append(out.Raw, RawParam{ID: idHex(blk.ID), Len: len(blk.Value)})
		out.decodeBlock(blk)
		i += n
	}
	return out, nil
}

func (r *ReadResponse) decodeBlock(blk tlv.Block) {
	switch {
	case blk.ID == IDRSSIThreshold && len(blk.Value) == 1:
		v := int(int8(blk.Value[0]))
		r.RSSIThresholdDBm = &v
		return
	case isAlarmLimit(blk.ID) && len(blk.Value) == 2:
		u, _ := tlv.U16FromLE(blk.Value)
		r.Limits = append(r.Limits, decodeAlarmLimit(blk.ID, u))
		return
	}

	if spec, ok := schema.ByID(blk.ID); ok {
		if p, ok := decodeParameter(spec, blk.Value); ok {
			r.Parameters = append(r.Parameters, p)
			return
		}
	}

	if r.Unknown == nil {
		r.Unknown = make(map[string]string)
	}
	r.Unknown[fmt.Sprintf("param_%04x", blk.ID)] = hex.EncodeToString(blk.Value)
}

// decodeParameter reports fractional units as-is.
func decodeParameter(spec schema.Spec, value []byte) (Parameter, bool) {
	p := Parameter{ID: idHex(spec.ID), Name: spec.Name, Unit: string(spec.Unit)}
	if spec.ID == schema.IDPingRate {
		if len(value) != 1 {
			return Parameter{}, false
		}
		p.Value = float64(value[0])
		return p, true
	}
	secs, err := tlv.U32FromLE(value)
	if err != nil {
		return Parameter{}, false
	}
	p.Seconds = secs
	p.Value = float64(secs) / float64(spec.Unit.Seconds())
	return p, true
}

func isAlarmLimit(id uint16) bool {
	return id == IDAlarmLimit1 || id == IDAlarmLimit2 || id == IDAlarmLimit3
}

func decodeAlarmLimit(id uint16, u uint16) AlarmLimit {
	polarity := "lower_than_threshold"
	if (u>>15)&0x01 == 1 {
		polarity = "higher_than_threshold"
	}
	return AlarmLimit{
		Name:        fmt.Sprintf("limit%d", id-IDAlarmLimit1+1),
		ThresholdCM: int(u & 0x03FF),
		ToleranceCM: int((u >> 10) & 0x0F),
		Enabled:     (u>>14)&0x01 == 1,
		Polarity:    polarity,
	}
}

func idHex(id uint16) string {
	return fmt.Sprintf("0x%04x", id)
}
