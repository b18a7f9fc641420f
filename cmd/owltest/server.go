package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/izzyreal/owltest/internal/config"
	"github.com/izzyreal/owltest/internal/server"
)

func runServer(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to owltest.yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadServerConfig(*configPath)
	if err != nil {
		return err
	}
	return server.Run(ctx, cfg)
}

func loadServerConfig(path string) (config.File, error) {
	cfg := config.Default()
	if strings.TrimSpace(path) != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.File{}, err
		}
		cfg = loaded
	}
	cfg = cfg.ApplyEnv()
	if errs := cfg.Validate(); len(errs) > 0 {
		return config.File{}, fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}
