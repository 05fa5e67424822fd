package schema

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/tekctl/internal/protocol/tlv"
	"github.com/danmuck/tekctl/internal/testutil/testlog"
)

func TestTableOrderAndIDs(t *testing.T) {
	testlog.Start(t)
	want := []struct {
		name string
		id   uint16
	}{
		{NameTxPeriod, 0x0500},
		{NameTxRandomization, 0x0502},
		{NameLoggerInterval, 0x0503},
		{NameStatusPeriod, 0x0505},
		{NamePingRate, 0x4005},
	}
	all := All()
	if len(all) != len(want) {
		t.Fatalf("expected %d parameters, got %d", len(want), len(all))
	}
	for i, w := range want {
		if all[i].Name != w.name || all[i].ID != w.id {
			t.Fatalf("row %d: got %s/0x%04x want %s/0x%04x", i, all[i].Name, all[i].ID, w.name, w.id)
		}
		if Order(w.name) != i {
			t.Fatalf("order of %s: got %d want %d", w.name, Order(w.name), i)
		}
	}
	if Order("nope") != -1 {
		t.Fatalf("expected -1 for unknown name")
	}
}

func TestRangesAndDefaults(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name          string
		def, min, max int
	}{
		{NameTxPeriod, 6, 1, 720},
		{NameTxRandomization, 60, 1, 240},
		{NameLoggerInterval, 360, 2, 1440},
		{NameStatusPeriod, 7, 1, 30},
		{NamePingRate, 15, 1, 240},
	}
	for _, tc := range cases {
		s, ok := Lookup(tc.name)
		if !ok {
			t.Fatalf("missing %s", tc.name)
		}
		if s.Default != tc.def || s.Min != tc.min || s.Max != tc.max {
			t.Fatalf("%s: got def=%d range=[%d,%d]", tc.name, s.Default, s.Min, s.Max)
		}
		if err := s.Validate(s.Default); err != nil {
			t.Fatalf("%s: default rejected: %v", tc.name, err)
		}
		if err := s.Validate(tc.min - 1); !errors.Is(err, tlv.ErrOutOfRange) {
			t.Fatalf("%s: expected ErrOutOfRange below min, got %v", tc.name, err)
		}
		if err := s.Validate(tc.max + 1); !errors.Is(err, tlv.ErrOutOfRange) {
			t.Fatalf("%s: expected ErrOutOfRange above max, got %v", tc.name, err)
		}
	}
}

func TestDurationTransformsAreExact(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name  string
		value int
		want  []byte
	}{
		{NameTxPeriod, 6, []byte{0x60, 0x54, 0x00, 0x00}},         // 21600
		{NameTxRandomization, 60, []byte{0x10, 0x0e, 0x00, 0x00}}, // 3600
		{NameLoggerInterval, 360, []byte{0x60, 0x54, 0x00, 0x00}}, // 21600
		{NameStatusPeriod, 7, []byte{0x80, 0x3a, 0x09, 0x00}},     // 604800
		{NameTxPeriod, 720, []byte{0x00, 0x8d, 0x27, 0x00}},       // 2592000
	}
	for _, tc := range cases {
		s, _ := Lookup(tc.name)
		got, err := s.Encode(tc.value)
		if err != nil {
			t.Fatalf("%s=%d: %v", tc.name, tc.value, err)
		}
		if !bytes.Equal(got, tc.want) {
			t.Fatalf("%s=%d: got % x want % x", tc.name, tc.value, got, tc.want)
		}
		back, err := s.Decode(got)
		if err != nil || back != tc.value {
			t.Fatalf("%s decode: got %d err=%v", tc.name, back, err)
		}
	}
}

func TestPingRateSingleByte(t *testing.T) {
	testlog.Start(t)
	s, _ := Lookup(NamePingRate)
	for v, want := range map[int]byte{1: 0x01, 15: 0x0f, 240: 0xf0} {
		got, err := s.Encode(v)
		if err != nil {
			t.Fatalf("ping %d: %v", v, err)
		}
		if len(got) != 1 || got[0] != want {
			t.Fatalf("ping %d: got % x", v, got)
		}
	}
	for _, v := range []int{0, 241, 255, -1} {
		if _, err := s.Encode(v); !errors.Is(err, tlv.ErrOutOfRange) {
			t.Fatalf("ping %d: expected ErrOutOfRange, got %v", v, err)
		}
	}
}

func TestRangeErrorDetails(t *testing.T) {
	testlog.Start(t)
	s, _ := Lookup(NameStatusPeriod)
	_, err := s.Block(31)
	var re RangeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RangeError, got %T", err)
	}
	if re.Name != NameStatusPeriod || re.Value != 31 || re.Max != 30 {
		t.Fatalf("unexpected range error: %+v", re)
	}
}

func TestDecodeRejectsPartialUnits(t *testing.T) {
	testlog.Start(t)
	s, _ := ByID(IDTxPeriod)
	if _, err := s.Decode(tlv.U32LE(3601)); err == nil {
		t.Fatalf("expected error for non-whole hours")
	}
	if _, err := s.Decode([]byte{1, 2}); err == nil {
		t.Fatalf("expected length error")
	}
	p, _ := ByID(IDPingRate)
	if _, err := p.Decode([]byte{1, 2}); err == nil {
		t.Fatalf("expected u8 length error")
	}
	if _, ok := ByID(0x4006); ok {
		t.Fatalf("read-only id must not be writable")
	}
}
