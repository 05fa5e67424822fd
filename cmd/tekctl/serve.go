package main

import (
	"flag"
	"io"

	"github.com/danmuck/tekctl/internal/config"
	"github.com/danmuck/tekctl/internal/observability"
	"github.com/danmuck/tekctl/internal/server"
	"github.com/rs/zerolog/log"
)

func runServe(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "server config (.toml)")
	addr := fs.String("addr", "", "listen address, overrides config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	observability.InitLogger("tekctl")

	cfg, err := loadServerConfig(*cfgPath, *addr)
	if err != nil {
		return err
	}
	log.Info().Str("name", cfg.Name).Str("addr", cfg.Addr).Msg("loaded server config")
	return server.New(cfg).Serve()
}

func loadServerConfig(path, addr string) (config.ServerConfig, error) {
	cfg := config.DefaultServerConfig()
	if path != "" {
		loaded, err := config.LoadServerConfig(path)
		if err != nil {
			return config.ServerConfig{}, err
		}
		cfg = loaded
	}
	if addr != "" {
		cfg.Addr = addr
	}
	return cfg, config.ValidateServerConfig(cfg)
}
