package worldgen

import (
	"testing"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
)

func TestBuildShape(t *testing.T) {
	world := Build(42)

	if len(world.Leagues) != 2 {
		t.Fatalf("expected 2 leagues, got %d", len(world.Leagues))
	}
	if len(world.Teams) != 20 {
		t.Fatalf("expected 20 teams, got %d", len(world.Teams))
	}
	if len(world.Players) != 20*len(squadTemplate) {
		t.Fatalf("expected %d players, got %d", 20*len(squadTemplate), len(world.Players))
	}
	if len(world.Owners) != 20 {
		t.Fatalf("expected one owner per team, got %d", len(world.Owners))
	}
	if len(world.Staff) != 40 {
		t.Fatalf("expected two staff per team, got %d", len(world.Staff))
	}
	if len(world.MediaOutlets) == 0 {
		t.Fatal("expected media outlets")
	}

	for _, league := range world.Leagues {
		if len(league.TeamIDs) != 10 {
			t.Fatalf("league %s has %d teams", league.ID, len(league.TeamIDs))
		}
		if league.TotalMatchdays != 18 {
			t.Fatalf("league %s has %d matchdays", league.ID, league.TotalMatchdays)
		}
	}

	if err := world.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestBuildDeterministic(t *testing.T) {
	first, err := Build(42).Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	second, err := Build(42).Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("same seed produced different worlds")
	}

	other, err := Build(7).Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if string(first) == string(other) {
		t.Fatal("different seeds produced identical worlds")
	}
}

func TestBuildPlayerBounds(t *testing.T) {
	world := Build(99)
	for id, player := range world.Players {
		for name, value := range map[string]int{
			"pace": player.Pace, "shooting": player.Shooting,
			"passing": player.Passing, "defending": player.Defending,
			"physicality": player.Physicality,
		} {
			if value < 1 || value > 99 {
				t.Fatalf("player %s %s=%d out of range", id, name, value)
			}
		}
		if player.Potential < player.OverallRating() {
			t.Fatalf("player %s potential %d below overall %d", id, player.Potential, player.OverallRating())
		}
		if player.Age < 16 || player.Age > 45 {
			t.Fatalf("player %s age %d out of range", id, player.Age)
		}
		if !player.Position.IsValid() {
			t.Fatalf("player %s has invalid position %s", id, player.Position)
		}
	}
}

func TestBuildSquadsAreLineupFeasible(t *testing.T) {
	world := Build(3)
	for _, teamID := range world.TeamIDs() {
		var keepers, defenders, forwards int
		for _, p := range world.SquadPlayers(teamID) {
			switch {
			case p.Position == domain.PositionGK:
				keepers++
			case p.Position.IsDefender():
				defenders++
			case p.Position.IsForward():
				forwards++
			}
		}
		if keepers < 1 || defenders < 3 || forwards < 1 {
			t.Fatalf("team %s cannot form an eleven: %d GK, %d DEF, %d FWD",
				teamID, keepers, defenders, forwards)
		}
	}
}

func TestBuildRivalriesResolve(t *testing.T) {
	world := Build(1)
	for _, r := range world.Rivalries {
		if _, ok := world.Team(r.TeamA); !ok {
			t.Fatalf("rivalry references missing team %s", r.TeamA)
		}
		if _, ok := world.Team(r.TeamB); !ok {
			t.Fatalf("rivalry references missing team %s", r.TeamB)
		}
	}
}
