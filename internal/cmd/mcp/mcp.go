// Package mcp parses MCP command flags and serves game-state tools over
// stdio.
package mcp

import (
	"context"
	"flag"

	"github.com/sgb-io/back-of-the-neural-net/internal/cmd/runtime"
	"github.com/sgb-io/back-of-the-neural-net/internal/mcptools"
	entrypoint "github.com/sgb-io/back-of-the-neural-net/internal/platform/cmd"
)

// Config holds MCP command configuration.
type Config struct {
	runtime.Config
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.BindFlags(fs)
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the MCP tools until the context ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		orch, closeStore, err := runtime.Bootstrap(ctx, cfg.Config)
		if err != nil {
			return err
		}
		defer closeStore()
		return mcptools.Run(ctx, orch)
	})
}
