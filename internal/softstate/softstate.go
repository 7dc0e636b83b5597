// Package softstate integrates the external collaborator that proposes
// narrative-driven adjustments (form, morale, fitness, approval).
//
// Proposals are the only doorway nondeterministic output has into the world,
// and every one of them passes through the validator: clamped, ordered,
// or rejected with a validation event. The collaborator itself is a narrow
// capability so offline and live implementations are interchangeable.
package softstate

import (
	"context"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
)

// Phase tells the collaborator where in the matchday cycle it is invoked.
type Phase string

const (
	// PhasePreMatch runs before the matchday's fixtures are simulated.
	PhasePreMatch Phase = "pre_match"
	// PhasePostMatch runs after results are applied.
	PhasePostMatch Phase = "post_match"
)

// Proposal is one suggested soft-state adjustment.
type Proposal struct {
	// TargetKind is "player", "team", "owner" or "staff".
	TargetKind string `json:"target_kind"`
	TargetID   string `json:"target_id"`
	Field      string `json:"field"`
	Value      int    `json:"value"`
	Reason     string `json:"reason,omitempty"`
}

// MatchdayContext summarizes the matchday for the collaborator.
type MatchdayContext struct {
	// Matchdays maps league id to the matchday being played.
	Matchdays map[string]int
	// Results carries the finished matches, empty in the pre-match phase.
	Results []*event.MatchEndedPayload
}

// Collaborator proposes soft-state updates from a read-only world snapshot.
//
// Implementations must be pure-output: no hidden state between calls, no
// writes anywhere. Responses are validated before anything reaches the log.
type Collaborator interface {
	Propose(ctx context.Context, snapshot *domain.World, phase Phase, matchday MatchdayContext) ([]Proposal, error)
}
