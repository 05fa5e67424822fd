package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/danmuck/tekctl/internal/config"
	"github.com/danmuck/tekctl/internal/observability"
	"github.com/danmuck/tekctl/internal/prompt"
	"github.com/danmuck/tekctl/internal/protocol"
	"github.com/rs/zerolog/log"
)

func runBuild(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "request file (.toml, .yaml); prompts interactively when empty")
	quiet := fs.Bool("q", false, "print only the hex payload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	observability.InitLogger("tekctl")

	var (
		sels []protocol.Selection
		err  error
	)
	if *cfgPath != "" {
		sels, err = selectionsFromFile(*cfgPath)
	} else {
		p := prompt.New(stdin, stdout)
		if !*quiet {
			p.Intro()
		}
		sels, err = p.AskAll()
	}
	if err != nil {
		return err
	}

	payload, err := protocol.Assemble(sels)
	if err != nil {
		return err
	}
	log.Debug().Int("blocks", payload.Blocks()).Int("bytes", payload.Len()).Msg("payload assembled")

	if *quiet {
		fmt.Fprintln(stdout, payload.Hex())
		return nil
	}
	printPayload(stdout, payload)
	return nil
}

func selectionsFromFile(path string) ([]protocol.Selection, error) {
	cfg, err := config.LoadRequest(path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Str("device", cfg.Device).Msg("loaded request config")
	return cfg.Selections()
}

func printPayload(w io.Writer, p protocol.Payload) {
	if p.Empty() {
		fmt.Fprintln(w, "\nNo parameters selected; the payload carries the header only.")
	}
	fmt.Fprintln(w, "\nDownlink payload (HEX):")
	fmt.Fprintln(w, p.Hex())
	fmt.Fprintf(w, "\nSend this as a Parameter Write Request (0x%02x).\n", protocol.MsgParameterWrite)
	fmt.Fprintf(w, "FPort: %d\n", protocol.FPort)
}
