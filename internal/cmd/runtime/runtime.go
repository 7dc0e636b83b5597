// Package runtime wires the shared pieces every command needs: store,
// collaborator and orchestrator, configured from environment and flags.
package runtime

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sgb-io/back-of-the-neural-net/internal/orchestrator"
	"github.com/sgb-io/back-of-the-neural-net/internal/softstate"
	"github.com/sgb-io/back-of-the-neural-net/internal/storage/sqlite"
)

// Config holds the world-level configuration shared by every command.
type Config struct {
	DBPath       string `env:"NEURALNET_DB_PATH" envDefault:"data/world.db"`
	Seed         int64  `env:"NEURALNET_SEED"`
	Reset        bool   `env:"NEURALNET_RESET_DB"`
	StrictReplay bool   `env:"NEURALNET_STRICT_REPLAY" envDefault:"true"`

	LLMProvider    string        `env:"LLM_PROVIDER" envDefault:"mock"`
	LLMBaseURL     string        `env:"LLM_BASE_URL"`
	LLMModel       string        `env:"LLM_MODEL"`
	LLMAPIKey      string        `env:"LLM_API_KEY"`
	LLMTemperature float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMMaxTokens   int           `env:"LLM_MAX_TOKENS" envDefault:"1000"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
}

// BindFlags layers the common flags over env-provided defaults.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DBPath, "db", c.DBPath, "The event store SQLite database path")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "World seed override (0 draws a random seed)")
	fs.BoolVar(&c.Reset, "reset", c.Reset, "Clear the event store before starting")
}

// Collaborator builds the configured soft-state collaborator. Unknown
// providers fall back to the deterministic mock with a warning, matching the
// forgiving startup the simulator has always had.
func (c Config) Collaborator() softstate.Collaborator {
	switch strings.ToLower(strings.TrimSpace(c.LLMProvider)) {
	case "", "mock":
		return softstate.MockCollaborator{}
	case "openai", "lmstudio":
		collab, err := softstate.NewOpenAICollaborator(softstate.ProviderConfig{
			BaseURL:     c.LLMBaseURL,
			APIKey:      c.LLMAPIKey,
			Model:       c.LLMModel,
			Temperature: c.LLMTemperature,
			MaxTokens:   c.LLMMaxTokens,
		})
		if err != nil {
			log.Printf("llm provider %q unusable (%v), falling back to mock", c.LLMProvider, err)
			return softstate.MockCollaborator{}
		}
		return collab
	default:
		log.Printf("unknown llm provider %q, falling back to mock", c.LLMProvider)
		return softstate.MockCollaborator{}
	}
}

// Bootstrap opens the store and returns a ready orchestrator plus a close
// function for the store.
func Bootstrap(ctx context.Context, cfg Config) (*orchestrator.Orchestrator, func() error, error) {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	if cfg.Reset {
		log.Printf("resetting event store at %s", cfg.DBPath)
		if err := store.Reset(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("reset store: %w", err)
		}
	}

	ocfg := orchestrator.DefaultConfig()
	ocfg.Seed = cfg.Seed
	ocfg.SoftStateTimeout = cfg.LLMTimeout
	ocfg.StrictReplay = cfg.StrictReplay

	orch := orchestrator.New(store, cfg.Collaborator(), ocfg)
	if err := orch.Bootstrap(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("bootstrap world: %w", err)
	}
	return orch, store.Close, nil
}
