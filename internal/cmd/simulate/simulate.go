// Package simulate parses simulate command flags and runs matchdays from the
// command line.
package simulate

import (
	"context"
	"flag"
	"log"

	"github.com/sgb-io/back-of-the-neural-net/internal/cmd/runtime"
	"github.com/sgb-io/back-of-the-neural-net/internal/orchestrator"
	entrypoint "github.com/sgb-io/back-of-the-neural-net/internal/platform/cmd"
)

// Config holds simulate command configuration.
type Config struct {
	runtime.Config
	Matchdays int `env:"NEURALNET_MATCHDAYS" envDefault:"1"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.BindFlags(fs)
	fs.IntVar(&cfg.Matchdays, "matchdays", cfg.Matchdays, "Number of advance steps to run")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run advances the world the requested number of steps.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSimulate, func(ctx context.Context) error {
		orch, closeStore, err := runtime.Bootstrap(ctx, cfg.Config)
		if err != nil {
			return err
		}
		defer closeStore()

		for i := 0; i < cfg.Matchdays; i++ {
			summary, err := orch.Advance(ctx)
			if err != nil {
				return err
			}
			log.Printf("advance %d/%d: %s, %d matches, %d events",
				i+1, cfg.Matchdays, summary.Status, summary.MatchesPlayed, summary.Events)
			if summary.Status == orchestrator.StatusIdle {
				break
			}
		}
		return nil
	})
}
