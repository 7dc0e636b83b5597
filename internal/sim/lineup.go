package sim

import (
	"fmt"
	"sort"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	apperrors "github.com/sgb-io/back-of-the-neural-net/internal/errors"
)

// Lineup is a team's selection for one match.
type Lineup struct {
	Starters []*domain.Player
	Bench    []*domain.Player
}

// SelectStartingEleven picks the strongest legal eleven from available
// players: exactly one goalkeeper, at least three defenders, at least one
// forward, the rest by overall rating. Injured and suspended players are
// unavailable.
func SelectStartingEleven(squad []*domain.Player) (Lineup, error) {
	available := make([]*domain.Player, 0, len(squad))
	for _, p := range squad {
		if p.Injured || p.Suspended {
			continue
		}
		available = append(available, p)
	}

	// Rating order with id tie-break keeps selection deterministic.
	byRating := func(players []*domain.Player) {
		sort.Slice(players, func(i, j int) bool {
			ri, rj := players[i].OverallRating(), players[j].OverallRating()
			if ri != rj {
				return ri > rj
			}
			return players[i].ID < players[j].ID
		})
	}

	var keepers, defenders, forwards, rest []*domain.Player
	for _, p := range available {
		switch {
		case p.Position == domain.PositionGK:
			keepers = append(keepers, p)
		case p.Position.IsDefender():
			defenders = append(defenders, p)
		case p.Position.IsForward():
			forwards = append(forwards, p)
		default:
			rest = append(rest, p)
		}
	}
	byRating(keepers)
	byRating(defenders)
	byRating(forwards)
	byRating(rest)

	if len(keepers) < 1 || len(defenders) < 3 || len(forwards) < 1 || len(available) < 11 {
		return Lineup{}, apperrors.New(apperrors.CodeLineupInfeasible,
			fmt.Sprintf("cannot form eleven: %d available, %d keepers, %d defenders, %d forwards",
				len(available), len(keepers), len(defenders), len(forwards)))
	}

	starters := make([]*domain.Player, 0, 11)
	taken := make(map[string]bool)
	take := func(p *domain.Player) {
		starters = append(starters, p)
		taken[p.ID] = true
	}

	take(keepers[0])
	for i := 0; i < 3; i++ {
		take(defenders[i])
	}
	take(forwards[0])

	// Fill the remaining six slots by rating across every outfield group.
	pool := make([]*domain.Player, 0, len(defenders)+len(forwards)+len(rest))
	pool = append(pool, defenders[3:]...)
	pool = append(pool, forwards[1:]...)
	pool = append(pool, rest...)
	byRating(pool)
	for _, p := range pool {
		if len(starters) == 11 {
			break
		}
		if !taken[p.ID] {
			take(p)
		}
	}
	if len(starters) != 11 {
		return Lineup{}, apperrors.New(apperrors.CodeLineupInfeasible,
			fmt.Sprintf("cannot fill eleven: only %d selected", len(starters)))
	}

	bench := make([]*domain.Player, 0, len(available)-11)
	for _, p := range available {
		if !taken[p.ID] {
			bench = append(bench, p)
		}
	}
	byRating(bench)

	return Lineup{Starters: starters, Bench: bench}, nil
}
