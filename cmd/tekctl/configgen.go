package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/danmuck/tekctl/internal/config"
)

func runConfigGen(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("configgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	kind := fs.String("kind", "request", "config kind: request|request-yaml|server")
	output := fs.String("output", "", "output path for config template")
	validate := fs.Bool("validate", false, "validate an existing config file at -output")
	force := fs.Bool("force", false, "overwrite existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	target := *output
	if target == "" {
		switch *kind {
		case "request":
			target = "request.toml"
		case "request-yaml":
			target = "request.yaml"
		case "server":
			target = "server.toml"
		default:
			return fmt.Errorf("unknown kind: %s", *kind)
		}
	}

	if *validate {
		var err error
		switch *kind {
		case "request", "request-yaml":
			_, err = config.LoadRequest(target)
		case "server":
			_, err = config.LoadServerConfig(target)
		default:
			err = fmt.Errorf("unknown kind: %s", *kind)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Validated %s config at %s\n", *kind, target)
		return nil
	}

	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s config template to %s\n", *kind, target)
	return nil
}
