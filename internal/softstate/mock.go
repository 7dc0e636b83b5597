package softstate

import (
	"context"
	"sort"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
)

// MockCollaborator is a deterministic offline collaborator: simple heuristics
// over the matchday results, no model behind it. It satisfies the same
// contract as a live provider, which keeps tests and offline runs honest.
type MockCollaborator struct{}

// Propose implements Collaborator.
func (MockCollaborator) Propose(ctx context.Context, snapshot *domain.World, phase Phase, matchday MatchdayContext) ([]Proposal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if phase == PhasePreMatch {
		return nil, nil
	}

	var proposals []Proposal

	for _, result := range matchday.Results {
		for _, playerID := range sortedRatingKeys(result.PlayerRatings) {
			rating := result.PlayerRatings[playerID]
			player, ok := snapshot.Player(playerID)
			if !ok {
				continue
			}
			switch {
			case rating >= 8.0:
				proposals = append(proposals, Proposal{
					TargetKind: "player", TargetID: playerID, Field: "form",
					Value:  player.Form + 5,
					Reason: "standout performance",
				})
			case rating <= 4.0:
				proposals = append(proposals, Proposal{
					TargetKind: "player", TargetID: playerID, Field: "form",
					Value:  player.Form - 5,
					Reason: "poor performance",
				})
			}
		}

		// Winners feel better, losers worse.
		if result.HomeScore != result.AwayScore {
			winner, loser := result.HomeTeam, result.AwayTeam
			if result.AwayScore > result.HomeScore {
				winner, loser = loser, winner
			}
			if team, ok := snapshot.Team(winner); ok {
				proposals = append(proposals, Proposal{
					TargetKind: "team", TargetID: winner, Field: "morale",
					Value: team.Morale + 3, Reason: "victory",
				})
			}
			if team, ok := snapshot.Team(loser); ok {
				proposals = append(proposals, Proposal{
					TargetKind: "team", TargetID: loser, Field: "morale",
					Value: team.Morale - 3, Reason: "defeat",
				})
			}
		}
	}

	return proposals, nil
}

func sortedRatingKeys(ratings map[string]float64) []string {
	keys := make([]string, 0, len(ratings))
	for k := range ratings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
