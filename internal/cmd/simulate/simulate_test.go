package simulate

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Matchdays != 1 {
		t.Fatalf("expected default of one matchday, got %d", cfg.Matchdays)
	}
}

func TestParseConfigMatchdaysFlag(t *testing.T) {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-matchdays", "18", "-seed", "7"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Matchdays != 18 {
		t.Fatalf("expected 18 matchdays, got %d", cfg.Matchdays)
	}
	if cfg.Seed != 7 {
		t.Fatalf("expected seed 7, got %d", cfg.Seed)
	}
}
