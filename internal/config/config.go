package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/tekctl/internal/protocol"
	"github.com/danmuck/tekctl/internal/protocol/schema"
	"gopkg.in/yaml.v3"
)

// Keywords accepted in place of an integer parameter value.
const (
	KeywordDefault = "default"
	KeywordSkip    = "skip"
)

// RequestConfig is a downlink request read from a file.
// Device is free-form metadata, logged and echoed but never encoded.
// Parameters map a table name to an integer, "default" or "skip";
// absent parameters are skipped.
type RequestConfig struct {
	Device     string         `toml:"device" yaml:"device"`
	Parameters map[string]any `toml:"parameters" yaml:"parameters"`
}

// ServerConfig configures the HTTP service. A non-empty Token requires
// "Authorization: Bearer <token>" on /v1 routes.
type ServerConfig struct {
	Name        string   `toml:"name"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
	Token       string   `toml:"token"`
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Name: "tekctl",
		Addr: ":8042",
	}
}

// LoadRequest reads a request file; .yaml/.yml use YAML, anything else TOML.
func LoadRequest(path string) (RequestConfig, error) {
	var cfg RequestConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := loadYAML(path, &cfg); err != nil {
			return RequestConfig{}, err
		}
	default:
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return RequestConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return RequestConfig{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
		}
	}
	if err := ValidateRequest(cfg); err != nil {
		return RequestConfig{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	var raw ServerConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if meta.IsDefined("name") {
		if name := strings.TrimSpace(raw.Name); name != "" {
			cfg.Name = name
		}
	}
	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}
	if meta.IsDefined("token") {
		cfg.Token = strings.TrimSpace(raw.Token)
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// loadYAML rejects keys that do not map to a field; an empty file
// decodes to the zero value.
func loadYAML(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

// DecodeRequestJSON reads a flat JSON request: parameter names at the
// top level next to an optional "device" string. Any other key fails
// with protocol.ErrUnknownParameter.
func DecodeRequestJSON(r io.Reader) (RequestConfig, error) {
	var fields map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&fields); err != nil {
		return RequestConfig{}, fmt.Errorf("request parse failed: %w", err)
	}
	if fields == nil {
		return RequestConfig{}, fmt.Errorf("request parse failed: body must be a JSON object")
	}
	if dec.More() {
		return RequestConfig{}, fmt.Errorf("request parse failed: trailing data after object")
	}

	cfg := RequestConfig{Parameters: make(map[string]any, len(fields))}
	for key, raw := range fields {
		if key == "device" {
			device, ok := raw.(string)
			if !ok {
				return RequestConfig{}, fmt.Errorf("request parse failed: device must be a string")
			}
			cfg.Device = device
			continue
		}
		if _, ok := schema.Lookup(key); !ok {
			return RequestConfig{}, fmt.Errorf("%w: %q", protocol.ErrUnknownParameter, key)
		}
		cfg.Parameters[key] = raw
	}
	return cfg, nil
}

func ValidateRequest(cfg RequestConfig) error {
	_, err := cfg.Selections()
	return err
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("server config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	return nil
}

// Selections converts the file into assembler input in table order.
func (r RequestConfig) Selections() ([]protocol.Selection, error) {
	for name := range r.Parameters {
		if _, ok := schema.Lookup(name); !ok {
			return nil, fmt.Errorf("%w: %q", protocol.ErrUnknownParameter, name)
		}
	}
	out := make([]protocol.Selection, 0, len(r.Parameters))
	for _, spec := range schema.All() {
		raw, ok := r.Parameters[spec.Name]
		if !ok {
			continue
		}
		sel, err := ParseSelection(spec, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

// ParseSelection converts one decoded value into a Selection and checks
// explicit values against the parameter range.
func ParseSelection(spec schema.Spec, raw any) (protocol.Selection, error) {
	var v int
	switch x := raw.(type) {
	case nil:
		return protocol.Skip(spec.Name), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case KeywordSkip, "", "unchanged":
			return protocol.Skip(spec.Name), nil
		case KeywordDefault, "d":
			return protocol.UseDefault(spec.Name), nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return protocol.Selection{}, fmt.Errorf("%s: expected integer, %q or %q, got %q", spec.Name, KeywordDefault, KeywordSkip, x)
		}
		v = n
	case int:
		v = x
	case int64:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return protocol.Selection{}, fmt.Errorf("%s: %w: %d", spec.Name, protocol.ErrOutOfRange, x)
		}
		v = int(x)
	case float64:
		if x != math.Trunc(x) || x < math.MinInt32 || x > math.MaxInt32 {
			return protocol.Selection{}, fmt.Errorf("%s: expected whole number, got %v", spec.Name, x)
		}
		v = int(x)
	default:
		return protocol.Selection{}, fmt.Errorf("%s: unsupported value type %T", spec.Name, raw)
	}
	if err := spec.Validate(v); err != nil {
		return protocol.Selection{}, err
	}
	return protocol.Use(spec.Name, v), nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		if v := strings.TrimSpace(o); v != "" {
			out = append(out, v)
		}
	}
	return out
}
