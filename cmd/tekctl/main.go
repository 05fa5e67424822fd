package main

import (
	"fmt"
	"io"
	"os"
)

const usage = `usage: tekctl <command> [flags]

commands:
  build      build a Parameter Write Request (interactive, or -config file)
  decode     decode a downlink or uplink payload from hex
  serve      run the HTTP encoding service
  configgen  write a request or server config template
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "tekctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return runBuild(nil, stdin, stdout, stderr)
	}
	switch args[0] {
	case "build":
		return runBuild(args[1:], stdin, stdout, stderr)
	case "decode":
		return runDecode(args[1:], stdout, stderr)
	case "serve":
		return runServe(args[1:], stderr)
	case "configgen":
		return runConfigGen(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}
