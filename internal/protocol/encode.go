package protocol

import (
	"fmt"

	"github.com/danmuck/tekctl/internal/protocol/schema"
	"github.com/danmuck/tekctl/internal/protocol/tlv"
)

// Selection is the input contract for one parameter.
// A nil Value leaves the parameter unchanged on the device.
type Selection struct {
	Name  string
	Value *int
}

func Use(name string, v int) Selection {
	return Selection{Name: name, Value: &v}
}

// UseDefault resolves name to its table default. Unknown names are
// passed through so Assemble can reject them.
func UseDefault(name string) Selection {
	s, ok := schema.Lookup(name)
	if !ok {
		return Selection{Name: name}
	}
	return Use(name, s.Default)
}

func Skip(name string) Selection {
	return Selection{Name: name}
}

// Skipped reports whether the selection leaves the parameter unchanged.
func (s Selection) Skipped() bool { return s.Value == nil }

// Assemble builds a Parameter Write Request. Blocks are emitted in table
// order regardless of the order of selections. Every value is range
// checked before encoding; on error no payload is returned.
func Assemble(selections []Selection) (Payload, error) {
	specs := schema.All()
	values := make([]*int, len(specs))
	seen := make(map[string]struct{}, len(selections))
	for _, sel := range selections {
		pos := schema.Order(sel.Name)
		if pos < 0 {
			return Payload{}, fmt.Errorf("%w: %q", ErrUnknownParameter, sel.Name)
		}
		if _, dup := seen[sel.Name]; dup {
			return Payload{}, fmt.Errorf("%w: %q", ErrDuplicateParameter, sel.Name)
		}
		seen[sel.Name] = struct{}{}
		if sel.Value != nil {
			v := *sel.Value
			values[pos] = &v
		}
	}

	buf := WriteRequestHeader().Bytes()
	blocks := 0
	for i, spec := range specs {
		if values[i] == nil {
			continue
		}
		blk, err := spec.Block(*values[i])
		if err != nil {
			return Payload{}, fmt.Errorf("protocol: assemble %s: %w", spec.Name, err)
		}
		buf, err = tlv.AppendBlock(buf, blk)
		if err != nil {
			return Payload{}, fmt.Errorf("protocol: assemble %s: %w", spec.Name, err)
		}
		blocks++
	}
	return Payload{raw: buf, blocks: blocks}, nil
}
