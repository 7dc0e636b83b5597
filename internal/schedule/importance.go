package schedule

import (
	"sort"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
)

// Classify tags a pairing by stakes. Derbies come from the configured
// rivalry set; a title race needs both sides in the top three within three
// points; a relegation battle needs both in the bottom three. Derby wins
// over the positional tags.
func Classify(world *domain.World, homeID, awayID string) domain.Importance {
	if _, ok := world.RivalryBetween(homeID, awayID); ok {
		return domain.ImportanceDerby
	}

	home, okHome := world.Team(homeID)
	away, okAway := world.Team(awayID)
	if !okHome || !okAway || home.LeagueID != away.LeagueID {
		return domain.ImportanceNormal
	}
	league, ok := world.League(home.LeagueID)
	if !ok {
		return domain.ImportanceNormal
	}

	position := standingsPositions(world, league)
	homePos, awayPos := position[homeID], position[awayID]
	if homePos == 0 || awayPos == 0 {
		return domain.ImportanceNormal
	}

	pointsGap := home.Points() - away.Points()
	if pointsGap < 0 {
		pointsGap = -pointsGap
	}
	if homePos <= 3 && awayPos <= 3 && pointsGap <= 3 {
		return domain.ImportanceTitleRace
	}

	teamCount := len(league.TeamIDs)
	if homePos > teamCount-3 && awayPos > teamCount-3 {
		return domain.ImportanceRelegation
	}
	return domain.ImportanceNormal
}

// standingsPositions computes 1-based table positions with the canonical
// ordering: points, goal difference, goals for, then name.
func standingsPositions(world *domain.World, league *domain.League) map[string]int {
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

	positions := make(map[string]int, len(teams))
	for i, team := range teams {
		positions[team.ID] = i + 1
	}
	return positions
}
