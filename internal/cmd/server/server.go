// Package server parses server command flags and runs the HTTP API.
package server

import (
	"context"
	"flag"
	"fmt"

	api "github.com/sgb-io/back-of-the-neural-net/internal/api/http"
	"github.com/sgb-io/back-of-the-neural-net/internal/cmd/runtime"
	entrypoint "github.com/sgb-io/back-of-the-neural-net/internal/platform/cmd"
)

// Config holds server command configuration.
type Config struct {
	runtime.Config
	Port int    `env:"NEURALNET_PORT" envDefault:"8000"`
	Addr string `env:"NEURALNET_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.BindFlags(fs)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The API server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The API listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		orch, closeStore, err := runtime.Bootstrap(ctx, cfg.Config)
		if err != nil {
			return err
		}
		defer closeStore()

		addr := cfg.Addr
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.Port)
		}
		return api.New(orch).Run(ctx, addr)
	})
}
