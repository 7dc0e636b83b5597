package projection

import (
	"testing"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
)

func projectionWorld() *domain.World {
	world := domain.NewWorld()
	world.Season = 2025
	league := &domain.League{ID: "l1", Name: "Premier Fantasy", Season: 2025,
		TeamIDs: []string{"alpha", "beta", "gamma"}}
	world.Leagues["l1"] = league

	world.Teams["alpha"] = &domain.Team{
		ID: "alpha", Name: "Alpha", LeagueID: "l1",
		MatchesPlayed: 2, Wins: 2, GoalsFor: 5, GoalsAgainst: 1, CleanSheets: 1,
		Squad:      []string{"a1", "a2"},
		HeadToHead: map[string]domain.Record{"beta": {Wins: 1}, "gamma": {Wins: 1}},
	}
	world.Teams["beta"] = &domain.Team{
		ID: "beta", Name: "Beta", LeagueID: "l1",
		MatchesPlayed: 2, Wins: 1, Losses: 1, GoalsFor: 3, GoalsAgainst: 3,
		Squad: []string{"b1"},
	}
	world.Teams["gamma"] = &domain.Team{
		ID: "gamma", Name: "Gamma", LeagueID: "l1",
		MatchesPlayed: 2, Losses: 2, GoalsFor: 1, GoalsAgainst: 5, CleanSheets: 0,
		Squad: []string{"g1"},
	}

	world.Players["a1"] = &domain.Player{ID: "a1", Name: "Ada", TeamID: "alpha",
		SeasonStats: map[int]*domain.PlayerSeasonStats{2025: {Goals: 3, Assists: 1, Appearances: 2}}}
	world.Players["a2"] = &domain.Player{ID: "a2", Name: "Abe", TeamID: "alpha",
		SeasonStats: map[int]*domain.PlayerSeasonStats{2025: {Goals: 1, Assists: 3, Appearances: 2}}}
	world.Players["b1"] = &domain.Player{ID: "b1", Name: "Bea", TeamID: "beta",
		SeasonStats: map[int]*domain.PlayerSeasonStats{2025: {Goals: 3, Assists: 0, Appearances: 2}}}
	world.Players["g1"] = &domain.Player{ID: "g1", Name: "Gus", TeamID: "gamma",
		SeasonStats: map[int]*domain.PlayerSeasonStats{2025: {}}}
	return world
}

func TestLeagueTableOrdering(t *testing.T) {
	world := projectionWorld()
	table := LeagueTable(world, "l1")
	if len(table) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table))
	}
	if table[0].TeamID != "alpha" || table[1].TeamID != "beta" || table[2].TeamID != "gamma" {
		t.Fatalf("unexpected order: %v %v %v", table[0].TeamID, table[1].TeamID, table[2].TeamID)
	}
	if table[0].Position != 1 || table[0].Points != 6 {
		t.Fatalf("unexpected leader row: %+v", table[0])
	}
}

func TestLeagueTableTieBreakByName(t *testing.T) {
	world := projectionWorld()
	// Make beta and gamma identical on every metric.
	world.Teams["beta"].Wins, world.Teams["beta"].Losses = 0, 0
	world.Teams["beta"].GoalsFor, world.Teams["beta"].GoalsAgainst = 2, 2
	world.Teams["gamma"].Losses = 0
	world.Teams["gamma"].GoalsFor, world.Teams["gamma"].GoalsAgainst = 2, 2

	table := LeagueTable(world, "l1")
	if table[1].Team != "Beta" || table[2].Team != "Gamma" {
		t.Fatalf("expected name ascending tie-break, got %s then %s", table[1].Team, table[2].Team)
	}
}

func TestTopScorersAndAssisters(t *testing.T) {
	world := projectionWorld()

	scorers := TopScorers(world, "l1", 2025, 10)
	if len(scorers) != 3 {
		t.Fatalf("expected 3 scorers, got %d", len(scorers))
	}
	// Ada and Bea tie on 3 goals; Ada's assist breaks the tie.
	if scorers[0].PlayerID != "a1" || scorers[1].PlayerID != "b1" {
		t.Fatalf("unexpected scorer order: %+v", scorers)
	}

	assisters := TopAssisters(world, "l1", 2025, 10)
	if assisters[0].PlayerID != "a2" || assisters[0].Assists != 3 {
		t.Fatalf("unexpected assister order: %+v", assisters)
	}
}

func TestBestDefense(t *testing.T) {
	world := projectionWorld()
	rows := BestDefense(world, "l1")
	if rows[0].TeamID != "alpha" {
		t.Fatalf("expected alpha first, got %s", rows[0].TeamID)
	}
	teamID, cleanSheets := MostCleanSheets(world, "l1")
	if teamID != "alpha" || cleanSheets != 1 {
		t.Fatalf("unexpected clean-sheet leader: %s %d", teamID, cleanSheets)
	}
}

func TestHeadToHeadFor(t *testing.T) {
	world := projectionWorld()
	rows := HeadToHeadFor(world, "alpha")
	if len(rows) != 2 {
		t.Fatalf("expected 2 opponents, got %d", len(rows))
	}
	if rows[0].OpponentID != "beta" || rows[1].OpponentID != "gamma" {
		t.Fatalf("expected sorted opponents, got %+v", rows)
	}
	if rows[0].Wins != 1 {
		t.Fatalf("unexpected record: %+v", rows[0])
	}
}

func TestPlayerSeasonStatsMissingSeason(t *testing.T) {
	world := projectionWorld()
	line, ok := PlayerSeasonStats(world, "a1", 2030)
	if !ok {
		t.Fatal("player exists; expected ok")
	}
	if line.Goals != 0 || line.Appearances != 0 {
		t.Fatalf("expected zeroed line for unseen season, got %+v", line)
	}
	if _, ok := PlayerSeasonStats(world, "ghost", 2025); ok {
		t.Fatal("expected missing player to report not found")
	}
}

func TestUnknownLeagueProjections(t *testing.T) {
	world := projectionWorld()
	if rows := LeagueTable(world, "nope"); rows != nil {
		t.Fatalf("expected nil for unknown league, got %v", rows)
	}
	if rows := TopScorers(world, "nope", 2025, 5); rows != nil {
		t.Fatalf("expected nil scorers, got %v", rows)
	}
}
