package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/tekctl/internal/protocol"
	"github.com/danmuck/tekctl/internal/protocol/schema"
	"github.com/danmuck/tekctl/internal/testutil/testlog"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRequestTOMLTemplateAssembles(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "request.toml")
	if err := WriteTemplate(path, "request", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := LoadRequest(path)
	if err != nil {
		t.Fatalf("load request: %v", err)
	}
	if cfg.Device != "tek766" {
		t.Fatalf("unexpected device: %q", cfg.Device)
	}
	sels, err := cfg.Selections()
	if err != nil {
		t.Fatalf("selections: %v", err)
	}
	p, err := protocol.Assemble(sels)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	want := "420000" + "04050060540000" + "040502100e0000" + "040505803a0900" + "0140050f"
	if p.Hex() != want {
		t.Fatalf("got %s want %s", p.Hex(), want)
	}
}

func TestLoadRequestYAMLMatchesTOML(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "request.toml")
	yamlPath := filepath.Join(dir, "request.yaml")
	if err := WriteTemplate(tomlPath, "request", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(yamlPath, "request-yaml", false); err != nil {
		t.Fatalf("write template: %v", err)
	}

	hexOf := func(path string) string {
		cfg, err := LoadRequest(path)
		if err != nil {
			t.Fatalf("load %s: %v", path, err)
		}
		sels, err := cfg.Selections()
		if err != nil {
			t.Fatalf("selections %s: %v", path, err)
		}
		p, err := protocol.Assemble(sels)
		if err != nil {
			t.Fatalf("assemble %s: %v", path, err)
		}
		return p.Hex()
	}
	if a, b := hexOf(tomlPath), hexOf(yamlPath); a != b {
		t.Fatalf("toml and yaml differ: %s vs %s", a, b)
	}
}

func TestLoadRequestAbsentParametersSkipped(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "empty.toml", "device = \"x\"\n")
	cfg, err := LoadRequest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sels, err := cfg.Selections()
	if err != nil {
		t.Fatalf("selections: %v", err)
	}
	p, err := protocol.Assemble(sels)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !p.Empty() || p.Hex() != "420000" {
		t.Fatalf("expected header-only payload, got %s", p.Hex())
	}
}

func TestLoadRequestRejectsOutOfRange(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "bad.toml", "[parameters]\nping_rate = 241\n")
	_, err := LoadRequest(path)
	if !errors.Is(err, protocol.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestLoadRequestRejectsUnknownParameter(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "bad.yml", "parameters:\n  rf_rssi_threshold: -60\n")
	_, err := LoadRequest(path)
	if !errors.Is(err, protocol.ErrUnknownParameter) {
		t.Fatalf("expected ErrUnknownParameter, got %v", err)
	}
}

func TestLoadRequestRejectsUnknownTopLevelKey(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name    string
		content string
	}{
		{"bad.toml", "fport = 42\n"},
		{"typo.toml", "[parameter]\ntx_period = 9999\n"},
		{"bad.yaml", "fport: 42\n"},
		{"typo.yaml", "parameter:\n  tx_period: 9999\n"},
		{"typo.yml", "device: tek766\nparamters:\n  ping_rate: 5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, tc.name, tc.content)
			cfg, err := LoadRequest(path)
			if err == nil {
				t.Fatalf("expected unknown key error, got %+v", cfg)
			}
		})
	}
}

func TestLoadRequestEmptyYAMLIsHeaderOnly(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "empty.yaml", "")
	cfg, err := LoadRequest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sels, err := cfg.Selections()
	if err != nil || len(sels) != 0 {
		t.Fatalf("expected no selections: %+v err=%v", sels, err)
	}
}

func TestParseSelectionForms(t *testing.T) {
	testlog.Start(t)
	spec, _ := schema.Lookup(schema.NameLoggerInterval)
	cases := []struct {
		raw     any
		skipped bool
		value   int
	}{
		{nil, true, 0},
		{"skip", true, 0},
		{"", true, 0},
		{"default", false, 360},
		{"D", false, 360},
		{"90", false, 90},
		{int64(1440), false, 1440},
		{2, false, 2},
		{float64(30), false, 30},
	}
	for _, tc := range cases {
		sel, err := ParseSelection(spec, tc.raw)
		if err != nil {
			t.Fatalf("%v: %v", tc.raw, err)
		}
		if sel.Skipped() != tc.skipped {
			t.Fatalf("%v: skipped=%v", tc.raw, sel.Skipped())
		}
		if !tc.skipped && *sel.Value != tc.value {
			t.Fatalf("%v: value=%d want %d", tc.raw, *sel.Value, tc.value)
		}
	}

	for _, raw := range []any{"abc", 1.5, true, int64(1) << 40, 1441} {
		if _, err := ParseSelection(spec, raw); err == nil {
			t.Fatalf("%v: expected error", raw)
		}
	}
}

func TestLoadServerConfigDefaultsAndOverrides(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "server.toml", "cors_origins = [\" http://a \", \"\"]\n")
	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "tekctl" || cfg.Addr != ":8042" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.CorsOrigins) != 1 || cfg.CorsOrigins[0] != "http://a" {
		t.Fatalf("unexpected origins: %+v", cfg.CorsOrigins)
	}

	path = writeFile(t, "server.toml", "token = \" abc \"\n")
	cfg, err = LoadServerConfig(path)
	if err != nil || cfg.Token != "abc" {
		t.Fatalf("unexpected token: %+v err=%v", cfg, err)
	}

	path = writeFile(t, "server.toml", "addr = \"  \"\n")
	if _, err := LoadServerConfig(path); err == nil {
		t.Fatalf("expected missing addr error")
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "server.toml")
	if err := WriteTemplate(path, "server", false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteTemplate(path, "server", false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if err := WriteTemplate(path, "server", true); err != nil {
		t.Fatalf("forced write: %v", err)
	}
	if _, err := Template("firmware"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
	cfg, err := LoadServerConfig(path)
	if err != nil || cfg.Addr != ":8042" {
		t.Fatalf("template did not load: %+v err=%v", cfg, err)
	}
}

func TestDecodeRequestJSON(t *testing.T) {
	testlog.Start(t)
	cfg, err := DecodeRequestJSON(strings.NewReader(`{"device":"tank-7","tx_period":6,"ping_rate":"default"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Device != "tank-7" || len(cfg.Parameters) != 2 {
		t.Fatalf("unexpected request: %+v", cfg)
	}
	sels, err := cfg.Selections()
	if err != nil {
		t.Fatalf("selections: %v", err)
	}
	p, err := protocol.Assemble(sels)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if p.Hex() != "420000040500605400000140050f" {
		t.Fatalf("unexpected hex: %s", p.Hex())
	}

	for _, body := range []string{`{"parameters":{"tx_period":6}}`, `{"tx_perod":6}`} {
		if _, err := DecodeRequestJSON(strings.NewReader(body)); !errors.Is(err, protocol.ErrUnknownParameter) {
			t.Fatalf("%s: expected ErrUnknownParameter, got %v", body, err)
		}
	}
	for _, body := range []string{``, `null`, `[]`, `{"device":1}`, `{} {}`} {
		if _, err := DecodeRequestJSON(strings.NewReader(body)); err == nil {
			t.Fatalf("%q: expected parse error", body)
		}
	}
}
