// Package uplink decodes TEK-766 uplinks: measurements (FPort 16),
// status reports (FPort 48) and parameter read responses (0x43).
package uplink

import (
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	FPortMeasurement  = 16
	FPortStatus       = 48
	FPortReadResponse = 67
)

type Kind string

const (
	KindMeasurement  Kind = "measurement"
	KindStatus       Kind = "status"
	KindReadResponse Kind = "read_response"
	KindRaw          Kind = "raw"
)

var ErrTruncated = errors.New("uplink: truncated payload")

// Uplink holds exactly one decoded body, selected by Kind.
type Uplink struct {
	Kind         Kind          `json:"kind"`
	FPort        int           `json:"fport"`
	Measurement  *Measurement  `json:"measurement,omitempty"`
	Status       *Status       `json:"status,omitempty"`
	ReadResponse *ReadResponse `json:"read_response,omitempty"`
	Raw          string        `json:"raw,omitempty"`
}

// Decode dispatches on fport. A payload starting with 0x43 is treated as
// a read response on any port other than 16 and 48. Anything else is
// returned undecoded as hex.
func Decode(fport int, b []byte) (Uplink, error) {
	switch {
	case fport == FPortMeasurement:
		m, err := DecodeMeasurement(b)
		if err != nil {
			return Uplink{}, err
		}
		return Uplink{Kind: KindMeasurement, FPort: fport, Measurement: &m}, nil
	case fport == FPortStatus:
		s, err := DecodeStatus(b)
		if err != nil {
			return Uplink{}, err
		}
		return Uplink{Kind: KindStatus, FPort: fport, Status: &s}, nil
	case fport == FPortReadResponse || (len(b) > 0 && b[0] == readResponseType):
		r, err := DecodeReadResponse(b)
		if err != nil {
			return Uplink{}, err
		}
		return Uplink{Kind: KindReadResponse, FPort: fport, ReadResponse: &r}, nil
	default:
		return Uplink{Kind: KindRaw, FPort: fport, Raw: hex.EncodeToString(b)}, nil
	}
}

func need(b []byte, n int, what string) error {
	if len(b) < n {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrTruncated, what, n, len(b))
	}
	return nil
}

// temperature reads the sensor's temperature byte: values above 50 are
// below zero (two's complement).
func temperature(b byte) int {
	if b > 50 {
		return int(b) - 256
	}
	return int(b)
}
