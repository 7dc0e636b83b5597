package softstate

import (
	"context"
	"testing"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
)

func validatorWorld() *domain.World {
	world := domain.NewWorld()
	world.Teams["t1"] = &domain.Team{ID: "t1", Name: "United Dragons", Morale: 50, Reputation: 50}
	world.Players["p1"] = &domain.Player{ID: "p1", Name: "Pat", TeamID: "t1", Form: 50, Morale: 50, Fitness: 80, Reputation: 50}
	world.Owners["o1"] = &domain.Owner{ID: "o1", TeamID: "t1", PublicApproval: 50}
	world.Staff["s1"] = &domain.StaffMember{ID: "s1", TeamID: "t1", TeamRapport: 50}
	return world
}

func TestValidateClampsOutOfRange(t *testing.T) {
	world := validatorWorld()
	accepted, rejected := Validate(world, PhasePostMatch, []Proposal{
		{TargetKind: "player", TargetID: "p1", Field: "form", Value: 999},
	})
	if len(rejected) != 1 {
		t.Fatalf("expected a validation record for the clamp, got %+v", rejected)
	}
	if len(accepted) != 1 {
		t.Fatalf("expected one accepted proposal, got %d", len(accepted))
	}
	if accepted[0].Value != 100 || accepted[0].Proposed != 999 {
		t.Fatalf("expected clamp to 100 preserving proposal, got %+v", accepted[0])
	}
}

func TestValidateReputationDeltaCap(t *testing.T) {
	world := validatorWorld()
	accepted, _ := Validate(world, PhasePostMatch, []Proposal{
		{TargetKind: "team", TargetID: "t1", Field: "reputation", Value: 90},
		{TargetKind: "player", TargetID: "p1", Field: "reputation", Value: 10},
	})
	if len(accepted) != 2 {
		t.Fatalf("expected two accepted, got %d", len(accepted))
	}
	for _, a := range accepted {
		switch a.TargetID {
		case "t1":
			if a.Value != 55 {
				t.Fatalf("team reputation should cap at +5, got %d", a.Value)
			}
		case "p1":
			if a.Value != 45 {
				t.Fatalf("player reputation should cap at -5, got %d", a.Value)
			}
		}
	}
}

func TestValidateRejectsDerivedFields(t *testing.T) {
	world := validatorWorld()
	accepted, rejected := Validate(world, PhasePostMatch, []Proposal{
		{TargetKind: "team", TargetID: "t1", Field: "recent_form", Value: 1},
		{TargetKind: "team", TargetID: "t1", Field: "head_to_head", Value: 1},
	})
	if len(accepted) != 0 {
		t.Fatalf("derived fields must not be writable: %+v", accepted)
	}
	if len(rejected) != 2 {
		t.Fatalf("expected two rejections, got %d", len(rejected))
	}
}

func TestValidateRejectsUnknownTargets(t *testing.T) {
	world := validatorWorld()
	accepted, rejected := Validate(world, PhasePostMatch, []Proposal{
		{TargetKind: "player", TargetID: "ghost", Field: "form", Value: 60},
		{TargetKind: "planet", TargetID: "p1", Field: "form", Value: 60},
		{TargetKind: "player", TargetID: "p1", Field: "goals", Value: 60},
	})
	if len(accepted) != 0 {
		t.Fatalf("expected no accepted proposals, got %+v", accepted)
	}
	if len(rejected) != 3 {
		t.Fatalf("expected three rejections, got %d", len(rejected))
	}
}

func TestValidateStableOrder(t *testing.T) {
	world := validatorWorld()
	world.Players["p2"] = &domain.Player{ID: "p2", Form: 50, Reputation: 50}

	accepted, _ := Validate(world, PhasePostMatch, []Proposal{
		{TargetKind: "player", TargetID: "p2", Field: "morale", Value: 60},
		{TargetKind: "player", TargetID: "p1", Field: "morale", Value: 60},
		{TargetKind: "player", TargetID: "p1", Field: "form", Value: 60},
	})
	if len(accepted) != 3 {
		t.Fatalf("expected three accepted, got %d", len(accepted))
	}
	order := []string{accepted[0].TargetID + "/" + accepted[0].Field,
		accepted[1].TargetID + "/" + accepted[1].Field,
		accepted[2].TargetID + "/" + accepted[2].Field}
	want := []string{"p1/form", "p1/morale", "p2/morale"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order %v, want %v", order, want)
		}
	}
}

func TestValidateOwnerAndStaffFields(t *testing.T) {
	world := validatorWorld()
	accepted, rejected := Validate(world, PhasePostMatch, []Proposal{
		{TargetKind: "owner", TargetID: "o1", Field: "public_approval", Value: -10},
		{TargetKind: "staff", TargetID: "s1", Field: "team_rapport", Value: 70},
	})
	if len(rejected) != 1 {
		t.Fatalf("expected one clamp record for the owner proposal, got %+v", rejected)
	}
	if accepted[0].Value != 0 {
		t.Fatalf("owner approval should clamp to 0, got %d", accepted[0].Value)
	}
	if accepted[1].Value != 70 {
		t.Fatalf("staff rapport should pass through, got %d", accepted[1].Value)
	}
}

func TestMockCollaboratorDeterministic(t *testing.T) {
	world := validatorWorld()
	matchday := MatchdayContext{
		Results: []*event.MatchEndedPayload{{
			HomeTeam: "t1", AwayTeam: "t2", HomeScore: 2, AwayScore: 0,
			PlayerRatings: map[string]float64{"p1": 8.5},
		}},
	}

	first, err := MockCollaborator{}.Propose(context.Background(), world, PhasePostMatch, matchday)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	second, err := MockCollaborator{}.Propose(context.Background(), world, PhasePostMatch, matchday)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected proposals for a standout performance")
	}
	if len(first) != len(second) {
		t.Fatalf("mock collaborator not deterministic: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("proposal %d differs between runs", i)
		}
	}
}

func TestMockCollaboratorPreMatchSilent(t *testing.T) {
	proposals, err := MockCollaborator{}.Propose(context.Background(), validatorWorld(), PhasePreMatch, MatchdayContext{})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if len(proposals) != 0 {
		t.Fatalf("pre-match mock should stay silent, got %d", len(proposals))
	}
}

func TestParseProposalsFencedResponse(t *testing.T) {
	text := "Here are my suggestions:\n```json\n[{\"target_kind\":\"player\",\"target_id\":\"p1\",\"field\":\"form\",\"value\":62,\"reason\":\"scored twice\"}]\n```"
	proposals, err := ParseProposals(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(proposals) != 1 {
		t.Fatalf("expected one proposal, got %d", len(proposals))
	}
	if proposals[0].TargetID != "p1" || proposals[0].Value != 62 {
		t.Fatalf("unexpected proposal %+v", proposals[0])
	}
}

func TestParseProposalsRejectsProse(t *testing.T) {
	if _, err := ParseProposals("I have no suggestions today."); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}
