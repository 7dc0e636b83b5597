package server

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8000 {
		t.Fatalf("expected default port 8000, got %d", cfg.Port)
	}
	if cfg.DBPath != "data/world.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.LLMProvider != "mock" {
		t.Fatalf("expected mock provider default, got %q", cfg.LLMProvider)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9001", "-db", "/tmp/x.db", "-seed", "42", "-reset"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 || cfg.DBPath != "/tmp/x.db" || cfg.Seed != 42 || !cfg.Reset {
		t.Fatalf("flag overrides not applied: %+v", cfg)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("NEURALNET_PORT", "8123")
	t.Setenv("LLM_PROVIDER", "lmstudio")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8123 {
		t.Fatalf("expected env port, got %d", cfg.Port)
	}
	if cfg.LLMProvider != "lmstudio" {
		t.Fatalf("expected env provider, got %q", cfg.LLMProvider)
	}
}
