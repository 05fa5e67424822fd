// Package prompt acquires parameter values from a human: ENTER skips a
// parameter, "d" takes its default and a number sets it explicitly.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danmuck/tekctl/internal/protocol"
	"github.com/danmuck/tekctl/internal/protocol/schema"
)

var ErrInvalidInput = errors.New("prompt: invalid input")

type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// ParseAnswer interprets one line for spec. Explicit values are range
// checked so the caller can re-prompt.
func ParseAnswer(spec schema.Spec, line string) (protocol.Selection, error) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return protocol.Skip(spec.Name), nil
	case "d":
		return protocol.UseDefault(spec.Name), nil
	}
	v, err := strconv.Atoi(line)
	if err != nil {
		return protocol.Selection{}, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, line)
	}
	if err := spec.Validate(v); err != nil {
		return protocol.Selection{}, err
	}
	return protocol.Use(spec.Name, v), nil
}

// Ask re-prompts until the answer is valid. io.EOF is returned when
// input ends before an answer.
func (p *Prompter) Ask(spec schema.Spec) (protocol.Selection, error) {
	for {
		fmt.Fprintf(p.out, "%s (%s) [%d-%d, d=%d]: ", spec.Label, spec.Unit, spec.Min, spec.Max, spec.Default)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return protocol.Selection{}, err
			}
			return protocol.Selection{}, io.EOF
		}
		sel, err := ParseAnswer(spec, p.in.Text())
		if err == nil {
			return sel, nil
		}
		if errors.Is(err, ErrInvalidInput) {
			fmt.Fprintln(p.out, "  Enter a number, 'd' for default, or ENTER to skip.")
			continue
		}
		if errors.Is(err, protocol.ErrOutOfRange) {
			fmt.Fprintf(p.out, "  Value must be between %d and %d.\n", spec.Min, spec.Max)
			continue
		}
		return protocol.Selection{}, err
	}
}

// AskAll walks the parameter table in wire order.
func (p *Prompter) AskAll() ([]protocol.Selection, error) {
	specs := schema.All()
	out := make([]protocol.Selection, 0, len(specs))
	for _, spec := range specs {
		sel, err := p.Ask(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

func (p *Prompter) Intro() {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "TEK-766 Parameter Write Request builder")
	fmt.Fprintln(p.out, "Press ENTER to skip a parameter, 'd' to use its default.")
	fmt.Fprintln(p.out)
}
