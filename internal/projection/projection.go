// Package projection computes read-only views of the world.
//
// Every view is a pure fold: equal whether computed from the in-memory world
// or by replaying the event log, because the world itself is the fold of the
// log.
package projection

import (
	"sort"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
)

// TableRow is one league-table line.
type TableRow struct {
	Position       int    `json:"position"`
	TeamID         string `json:"team_id"`
	Team           string `json:"team"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
	RecentForm     []string `json:"recent_form"`
}

// LeagueTable computes the standings with the canonical ordering: points,
// goal difference, goals for, then name ascending.
func LeagueTable(world *domain.World, leagueID string) []TableRow {
	league, ok := world.League(leagueID)
	if !ok {
		return nil
	}

	teams := make([]*domain.Team, 0, len(league.TeamIDs))
	for _, id := range league.TeamIDs {
		if team, ok := world.Team(id); ok {
			teams = append(teams, team)
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		a, b := teams[i], teams[j]
		if a.Points() != b.Points() {
			return a.Points() > b.Points()
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Name < b.Name
	})

	rows := make([]TableRow, 0, len(teams))
	for i, team := range teams {
		rows = append(rows, TableRow{
			Position:       i + 1,
			TeamID:         team.ID,
			Team:           team.Name,
			Played:         team.MatchesPlayed,
			Won:            team.Wins,
			Drawn:          team.Draws,
			Lost:           team.Losses,
			GoalsFor:       team.GoalsFor,
			GoalsAgainst:   team.GoalsAgainst,
			GoalDifference: team.GoalDifference(),
			Points:         team.Points(),
			RecentForm:     append([]string(nil), team.RecentForm...),
		})
	}
	return rows
}

// ScorerRow is one line of the top-scorer or top-assister chart.
type ScorerRow struct {
	PlayerID string `json:"player_id"`
	Player   string `json:"player"`
	TeamID   string `json:"team_id"`
	Team     string `json:"team"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
}

// TopScorers ranks a league's players by goals for a season, assists and
// name breaking ties.
func TopScorers(world *domain.World, leagueID string, season, limit int) []ScorerRow {
	rows := scorerRows(world, leagueID, season)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Goals != rows[j].Goals {
			return rows[i].Goals > rows[j].Goals
		}
		if rows[i].Assists != rows[j].Assists {
			return rows[i].Assists > rows[j].Assists
		}
		return rows[i].Player < rows[j].Player
	})
	return trimScorers(rows, limit, func(r ScorerRow) int { return r.Goals })
}

// TopAssisters ranks a league's players by assists for a season.
func TopAssisters(world *domain.World, leagueID string, season, limit int) []ScorerRow {
	rows := scorerRows(world, leagueID, season)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Assists != rows[j].Assists {
			return rows[i].Assists > rows[j].Assists
		}
		if rows[i].Goals != rows[j].Goals {
			return rows[i].Goals > rows[j].Goals
		}
		return rows[i].Player < rows[j].Player
	})
	return trimScorers(rows, limit, func(r ScorerRow) int { return r.Assists })
}

func scorerRows(world *domain.World, leagueID string, season int) []ScorerRow {
	league, ok := world.League(leagueID)
	if !ok {
		return nil
	}
	inLeague := make(map[string]bool, len(league.TeamIDs))
	for _, id := range league.TeamIDs {
		inLeague[id] = true
	}

	var rows []ScorerRow
	for _, teamID := range world.TeamIDs() {
		if !inLeague[teamID] {
			continue
		}
		team, _ := world.Team(teamID)
		for _, player := range world.SquadPlayers(teamID) {
			stats, ok := player.SeasonStats[season]
			if !ok || (stats.Goals == 0 && stats.Assists == 0) {
				continue
			}
			rows = append(rows, ScorerRow{
				PlayerID: player.ID,
				Player:   player.Name,
				TeamID:   teamID,
				Team:     team.Name,
				Goals:    stats.Goals,
				Assists:  stats.Assists,
			})
		}
	}
	return rows
}

func trimScorers(rows []ScorerRow, limit int, metric func(ScorerRow) int) []ScorerRow {
	filtered := rows[:0]
	for _, r := range rows {
		if metric(r) > 0 {
			filtered = append(filtered, r)
		}
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// DefenseRow is one line of the best-defense chart.
type DefenseRow struct {
	TeamID       string `json:"team_id"`
	Team         string `json:"team"`
	GoalsAgainst int    `json:"goals_against"`
	CleanSheets  int    `json:"clean_sheets"`
}

// BestDefense ranks a league's teams by goals conceded ascending, clean
// sheets descending.
func BestDefense(world *domain.World, leagueID string) []DefenseRow {
	league, ok := world.League(leagueID)
	if !ok {
		return nil
	}
	rows := make([]DefenseRow, 0, len(league.TeamIDs))
	for _, id := range league.TeamIDs {
		team, ok := world.Team(id)
		if !ok {
			continue
		}
		rows = append(rows, DefenseRow{
			TeamID:       team.ID,
			Team:         team.Name,
			GoalsAgainst: team.GoalsAgainst,
			CleanSheets:  team.CleanSheets,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].GoalsAgainst != rows[j].GoalsAgainst {
			return rows[i].GoalsAgainst < rows[j].GoalsAgainst
		}
		if rows[i].CleanSheets != rows[j].CleanSheets {
			return rows[i].CleanSheets > rows[j].CleanSheets
		}
		return rows[i].Team < rows[j].Team
	})
	return rows
}

// MostCleanSheets returns the league's clean-sheet leader.
func MostCleanSheets(world *domain.World, leagueID string) (string, int) {
	rows := BestDefense(world, leagueID)
	if len(rows) == 0 {
		return "", 0
	}
	best := rows[0]
	for _, r := range rows[1:] {
		if r.CleanSheets > best.CleanSheets {
			best = r
		}
	}
	return best.TeamID, best.CleanSheets
}

// HeadToHead returns a team's ledger against every opponent, sorted by
// opponent id.
type HeadToHeadRow struct {
	OpponentID string `json:"opponent_id"`
	Opponent   string `json:"opponent"`
	Wins       int    `json:"wins"`
	Draws      int    `json:"draws"`
	Losses     int    `json:"losses"`
}

// HeadToHeadFor lists a team's record against each opponent it has faced.
func HeadToHeadFor(world *domain.World, teamID string) []HeadToHeadRow {
	team, ok := world.Team(teamID)
	if !ok {
		return nil
	}
	opponents := make([]string, 0, len(team.HeadToHead))
	for id := range team.HeadToHead {
		opponents = append(opponents, id)
	}
	sort.Strings(opponents)

	rows := make([]HeadToHeadRow, 0, len(opponents))
	for _, id := range opponents {
		record := team.HeadToHead[id]
		name := id
		if opponent, ok := world.Team(id); ok {
			name = opponent.Name
		}
		rows = append(rows, HeadToHeadRow{
			OpponentID: id,
			Opponent:   name,
			Wins:       record.Wins,
			Draws:      record.Draws,
			Losses:     record.Losses,
		})
	}
	return rows
}

// PlayerSeason is a player's aggregate line for one season.
type PlayerSeason struct {
	PlayerID    string  `json:"player_id"`
	Player      string  `json:"player"`
	Season      int     `json:"season"`
	Appearances int     `json:"appearances"`
	Goals       int     `json:"goals"`
	Assists     int     `json:"assists"`
	YellowCards int     `json:"yellow_cards"`
	RedCards    int     `json:"red_cards"`
	Minutes     int     `json:"minutes"`
	AvgRating   float64 `json:"avg_rating"`
}

// PlayerSeasonStats returns a player's line for the season, zeroed when the
// player has no recorded appearances.
func PlayerSeasonStats(world *domain.World, playerID string, season int) (PlayerSeason, bool) {
	player, ok := world.Player(playerID)
	if !ok {
		return PlayerSeason{}, false
	}
	line := PlayerSeason{PlayerID: player.ID, Player: player.Name, Season: season}
	if stats, ok := player.SeasonStats[season]; ok {
		line.Appearances = stats.Appearances
		line.Goals = stats.Goals
		line.Assists = stats.Assists
		line.YellowCards = stats.YellowCards
		line.RedCards = stats.RedCards
		line.Minutes = stats.Minutes
		line.AvgRating = stats.AvgRating
	}
	return line, true
}
