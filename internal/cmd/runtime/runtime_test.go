package runtime

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sgb-io/back-of-the-neural-net/internal/softstate"
)

func TestCollaboratorSelection(t *testing.T) {
	cases := []struct {
		provider string
		model    string
		wantMock bool
	}{
		{"mock", "", true},
		{"", "", true},
		{"something-else", "", true},
		{"lmstudio", "", true}, // no model configured falls back
		{"openai", "gpt-test", false},
	}
	for _, tc := range cases {
		cfg := Config{LLMProvider: tc.provider, LLMModel: tc.model}
		_, isMock := cfg.Collaborator().(softstate.MockCollaborator)
		if isMock != tc.wantMock {
			t.Fatalf("provider %q model %q: mock=%v, want %v", tc.provider, tc.model, isMock, tc.wantMock)
		}
	}
}

func TestBootstrapAndReset(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		DBPath:      filepath.Join(t.TempDir(), "world.db"),
		Seed:        42,
		LLMProvider: "mock",
	}

	orch, closeStore, err := Bootstrap(ctx, cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if orch == nil {
		t.Fatal("expected orchestrator")
	}
	if err := closeStore(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening with reset starts a fresh log in the same file.
	cfg.Reset = true
	orch, closeStore, err = Bootstrap(ctx, cfg)
	if err != nil {
		t.Fatalf("bootstrap after reset: %v", err)
	}
	if orch == nil {
		t.Fatal("expected orchestrator after reset")
	}
	_ = closeStore()
}
