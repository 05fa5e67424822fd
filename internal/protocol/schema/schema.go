package schema

import (
	"fmt"

	"github.com/danmuck/tekctl/internal/protocol/tlv"
)

// Parameter IDs writable with a Parameter Write Request.
const (
	IDTxPeriod        uint16 = 0x0500
	IDTxRandomization uint16 = 0x0502
	IDLoggerInterval  uint16 = 0x0503
	IDStatusPeriod    uint16 = 0x0505
	IDPingRate        uint16 = 0x4005
)

const (
	NameTxPeriod        = "tx_period"
	NameTxRandomization = "tx_randomization"
	NameLoggerInterval  = "logger_interval"
	NameStatusPeriod    = "status_period"
	NamePingRate        = "ping_rate"
)

type Unit string

const (
	UnitHours   Unit = "hours"
	UnitMinutes Unit = "minutes"
	UnitDays    Unit = "days"
)

// Seconds returns the number of seconds in one unit.
func (u Unit) Seconds() uint32 {
	switch u {
	case UnitHours:
		return 3600
	case UnitMinutes:
		return 60
	case UnitDays:
		return 86400
	default:
		return 0
	}
}

// Spec describes one writable parameter. Entries are immutable.
type Spec struct {
	ID      uint16
	Name    string
	Label   string
	Unit    Unit
	Default int
	Min     int
	Max     int

	encode func(int) []byte
	decode func([]byte) (int, error)
}

// RangeError reports a value outside a parameter's inclusive range.
type RangeError struct {
	Name  string
	Value int
	Min   int
	Max   int
}

func (e RangeError) Error() string {
	return fmt.Sprintf("schema: %s=%d outside [%d,%d]", e.Name, e.Value, e.Min, e.Max)
}

func (e RangeError) Unwrap() error { return tlv.ErrOutOfRange }

// Validate checks v against the inclusive [Min, Max] range.
func (s Spec) Validate(v int) error {
	if v < s.Min || v > s.Max {
		return RangeError{Name: s.Name, Value: v, Min: s.Min, Max: s.Max}
	}
	return nil
}

// Encode validates v and returns its value bytes.
func (s Spec) Encode(v int) ([]byte, error) {
	if err := s.Validate(v); err != nil {
		return nil, err
	}
	return s.encode(v), nil
}

// Decode converts value bytes back into the parameter's unit.
func (s Spec) Decode(b []byte) (int, error) {
	return s.decode(b)
}

// Block validates v and builds the parameter block for it.
func (s Spec) Block(v int) (tlv.Block, error) {
	value, err := s.Encode(v)
	if err != nil {
		return tlv.Block{}, err
	}
	return tlv.Block{ID: s.ID, Value: value}, nil
}

func durationSpec(id uint16, name, label string, unit Unit, def, min, max int) Spec {
	factor := unit.Seconds()
	return Spec{
		ID:      id,
		Name:    name,
		Label:   label,
		Unit:    unit,
		Default: def,
		Min:     min,
		Max:     max,
		encode: func(v int) []byte {
			return tlv.U32LE(uint32(v) * factor)
		},
		decode: func(b []byte) (int, error) {
			secs, err := tlv.U32FromLE(b)
			if err != nil {
				return 0, err
			}
			if secs%factor != 0 {
				return 0, fmt.Errorf("schema: %s: %d seconds is not a whole number of %s", name, secs, unit)
			}
			return int(secs / factor), nil
		},
	}
}

func byteSpec(id uint16, name, label string, unit Unit, def, min, max int) Spec {
	return Spec{
		ID:      id,
		Name:    name,
		Label:   label,
		Unit:    unit,
		Default: def,
		Min:     min,
		Max:     max,
		encode: func(v int) []byte {
			return []byte{byte(v)}
		},
		decode: func(b []byte) (int, error) {
			if len(b) != 1 {
				return 0, fmt.Errorf("schema: %s: invalid u8 length: %d", name, len(b))
			}
			return int(b[0]), nil
		},
	}
}

// Ranges bound every duration so seconds fit in 32 bits (720h = 2592000s).
var table = []Spec{
	durationSpec(IDTxPeriod, NameTxPeriod, "TX period", UnitHours, 6, 1, 720),
	durationSpec(IDTxRandomization, NameTxRandomization, "TX randomization", UnitMinutes, 60, 1, 240),
	durationSpec(IDLoggerInterval, NameLoggerInterval, "Logger interval", UnitMinutes, 360, 2, 1440),
	durationSpec(IDStatusPeriod, NameStatusPeriod, "Status period", UnitDays, 7, 1, 30),
	byteSpec(IDPingRate, NamePingRate, "Ping rate", UnitMinutes, 15, 1, 240),
}

var (
	byName = make(map[string]int, len(table))
	byID   = make(map[uint16]int, len(table))
)

func init() {
	for i, s := range table {
		byName[s.Name] = i
		byID[s.ID] = i
	}
}

// All returns the parameter table in wire order.
func All() []Spec {
	out := make([]Spec, len(table))
	copy(out, table)
	return out
}

// Lookup returns the parameter with the given name.
func Lookup(name string) (Spec, bool) {
	i, ok := byName[name]
	if !ok {
		return Spec{}, false
	}
	return table[i], true
}

// ByID returns the parameter with the given wire id.
func ByID(id uint16) (Spec, bool) {
	i, ok := byID[id]
	if !ok {
		return Spec{}, false
	}
	return table[i], true
}

// Order returns the wire position of name, or -1.
func Order(name string) int {
	i, ok := byName[name]
	if !ok {
		return -1
	}
	return i
}

func Names() []string {
	out := make([]string, 0, len(table))
	for _, s := range table {
		out = append(out, s.Name)
	}
	return out
}
