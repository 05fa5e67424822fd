package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/tekctl/internal/protocol"
	"github.com/danmuck/tekctl/internal/uplink"
)

// runDecode prints a write request as parameter values, or an uplink as
// JSON when -fport is set.
func runDecode(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fport := fs.Int("fport", 0, "uplink fport (16, 48, 67); 0 decodes a downlink")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("decode: hex payload required")
	}
	hexPayload := strings.Join(fs.Args(), "")

	if *fport != 0 {
		raw, err := protocol.DecodeHex(hexPayload)
		if err != nil {
			return err
		}
		up, err := uplink.Decode(*fport, raw)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(up)
	}

	msg, err := protocol.ParseHex(hexPayload)
	if err != nil {
		return err
	}
	values, err := msg.Values()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "type=0x%02x product=0x%02x blocks=%d\n", msg.Header.MessageType, msg.Header.ProductID, len(msg.Blocks))
	for _, v := range values {
		fmt.Fprintf(stdout, "  %-17s 0x%04x %d %s\n", v.Name, v.ID, v.Value, v.Unit)
	}
	return nil
}
