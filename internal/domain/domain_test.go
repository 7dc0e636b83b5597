package domain

import (
	"testing"
)

func TestTeamArithmetic(t *testing.T) {
	team := &Team{ID: "a", Reputation: 50}
	team.RecordResult("W", true, 3, 1, "b")
	team.RecordResult("D", false, 0, 0, "c")
	team.RecordResult("L", true, 1, 2, "b")

	if got := team.Points(); got != 4 {
		t.Fatalf("expected 4 points, got %d", got)
	}
	if team.MatchesPlayed != team.Wins+team.Draws+team.Losses {
		t.Fatalf("matches played %d != W+D+L %d", team.MatchesPlayed, team.Wins+team.Draws+team.Losses)
	}
	if got := team.GoalDifference(); got != 1 {
		t.Fatalf("expected goal difference 1, got %d", got)
	}
	if team.CleanSheets != 1 {
		t.Fatalf("expected 1 clean sheet, got %d", team.CleanSheets)
	}
	if team.HomeRecord.Wins != 1 || team.HomeRecord.Losses != 1 || team.AwayRecord.Draws != 1 {
		t.Fatalf("unexpected home/away split: %+v %+v", team.HomeRecord, team.AwayRecord)
	}
}

func TestTeamRecentFormCap(t *testing.T) {
	team := &Team{ID: "a"}
	results := []string{"W", "W", "D", "L", "W", "L", "D"}
	for _, r := range results {
		team.RecordResult(r, true, 1, 1, "b")
	}
	if len(team.RecentForm) != 5 {
		t.Fatalf("expected recent form capped at 5, got %d", len(team.RecentForm))
	}
	want := []string{"D", "L", "W", "L", "D"}
	for i, r := range want {
		if team.RecentForm[i] != r {
			t.Fatalf("recent form[%d] = %s, want %s", i, team.RecentForm[i], r)
		}
	}
}

func TestTeamStreaks(t *testing.T) {
	team := &Team{ID: "a"}
	for _, r := range []string{"W", "W", "W", "L", "L", "D", "W"} {
		team.RecordResult(r, true, 0, 0, "b")
	}
	if team.LongestWinningStreak != 3 {
		t.Fatalf("expected longest winning streak 3, got %d", team.LongestWinningStreak)
	}
	if team.LongestLosingStreak != 2 {
		t.Fatalf("expected longest losing streak 2, got %d", team.LongestLosingStreak)
	}
	if team.CurrentStreak != 1 {
		t.Fatalf("expected current streak 1, got %d", team.CurrentStreak)
	}
}

func TestHeadToHeadLedger(t *testing.T) {
	team := &Team{ID: "a"}
	team.RecordResult("W", true, 2, 0, "b")
	team.RecordResult("L", false, 0, 1, "b")
	team.RecordResult("D", true, 1, 1, "c")

	if got := team.HeadToHead["b"]; got.Wins != 1 || got.Losses != 1 {
		t.Fatalf("unexpected h2h vs b: %+v", got)
	}
	if got := team.HeadToHead["c"]; got.Draws != 1 {
		t.Fatalf("unexpected h2h vs c: %+v", got)
	}
}

func TestPlayerClampAndPotential(t *testing.T) {
	player := &Player{
		ID: "p1", Position: PositionST, Age: 24,
		Pace: 90, Shooting: 92, Passing: 70, Defending: 30, Physicality: 75,
		Form: 150, Morale: -5, Fitness: 101, Reputation: 0,
		WeakFoot: 9, SkillMoves: 0, Potential: 10,
	}
	player.ClampSoftState()

	if player.Form != 100 || player.Morale != 0 || player.Fitness != 100 {
		t.Fatalf("soft state not clamped: form=%d morale=%d fitness=%d", player.Form, player.Morale, player.Fitness)
	}
	if player.Reputation != 1 {
		t.Fatalf("reputation not clamped: %d", player.Reputation)
	}
	if player.WeakFoot != 5 || player.SkillMoves != 1 {
		t.Fatalf("star ratings not clamped: weak=%d skill=%d", player.WeakFoot, player.SkillMoves)
	}
	if player.Potential < player.OverallRating() {
		t.Fatalf("potential %d below overall %d", player.Potential, player.OverallRating())
	}
}

func TestAgeModifiedAttributes(t *testing.T) {
	young := &Player{Age: 18}
	prime := &Player{Age: 26}
	veteran := &Player{Age: 36}

	if got := prime.AgeModifiedAttribute(80); got != 80 {
		t.Fatalf("prime age should not modify: got %d", got)
	}
	if got := young.AgeModifiedAttribute(80); got >= 80 {
		t.Fatalf("young modifier should reduce: got %d", got)
	}
	if got := veteran.AgeModifiedAttribute(80); got >= 75 {
		t.Fatalf("veteran modifier should reduce clearly: got %d", got)
	}
}

func TestResetSeasonCountersKeepsHistory(t *testing.T) {
	team := &Team{ID: "a", LongestWinningStreak: 4}
	team.RecordResult("W", true, 2, 1, "b")
	team.ResetSeasonCounters()

	if team.MatchesPlayed != 0 || team.Points() != 0 || len(team.RecentForm) != 0 {
		t.Fatalf("season counters not reset: %+v", team)
	}
	if team.LongestWinningStreak != 4 {
		t.Fatalf("longest streak should survive reset, got %d", team.LongestWinningStreak)
	}
	if team.HeadToHead["b"].Wins != 1 {
		t.Fatalf("head-to-head should survive reset: %+v", team.HeadToHead)
	}
}

func TestMediaOutletStoryCap(t *testing.T) {
	outlet := &MediaOutlet{ID: "o1"}
	for i := 0; i < 15; i++ {
		outlet.PushStory("headline")
	}
	if len(outlet.ActiveStories) != maxActiveStories {
		t.Fatalf("expected %d stories, got %d", maxActiveStories, len(outlet.ActiveStories))
	}
}

func TestWorldCheckInvariants(t *testing.T) {
	world := NewWorld()
	world.Leagues["l1"] = &League{ID: "l1", TeamIDs: []string{"t1"}}
	world.Teams["t1"] = &Team{ID: "t1", LeagueID: "l1", Squad: []string{"p1"}}

	if err := world.CheckInvariants(); err == nil {
		t.Fatal("expected missing player to fail invariants")
	}
	world.Players["p1"] = &Player{ID: "p1", TeamID: "t1"}
	if err := world.CheckInvariants(); err != nil {
		t.Fatalf("expected invariants to hold: %v", err)
	}
}

func TestWorldSnapshotRoundTrip(t *testing.T) {
	world := NewWorld()
	world.Season = 2025
	world.Leagues["l1"] = &League{ID: "l1", Name: "Premier Fantasy", TeamIDs: []string{"t1"}}
	world.Teams["t1"] = &Team{ID: "t1", Name: "United Dragons", LeagueID: "l1"}

	blob, err := world.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	restored, err := WorldFromSnapshot(blob)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Season != 2025 {
		t.Fatalf("season lost: %d", restored.Season)
	}
	if restored.Teams["t1"].Name != "United Dragons" {
		t.Fatalf("team lost: %+v", restored.Teams["t1"])
	}
}
