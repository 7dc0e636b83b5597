package orchestrator

import (
	"fmt"
	"sort"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
	"github.com/sgb-io/back-of-the-neural-net/internal/platform/random"
)

// narrativeEvents turns important results into media stories and owner
// statements. Generation is deterministic: a stream derived from the match id
// picks the outlet and the angle, so replayed logs carry the same press.
func (o *Orchestrator) narrativeEvents(outcome matchOutcome) ([]event.Event, error) {
	match := outcome.job.match
	if match.Importance == domain.ImportanceNormal {
		return nil, nil
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	stream := random.Derive(o.world.Seed, "narrative", match.ID)

	outletIDs := make([]string, 0, len(o.world.MediaOutlets))
	for id := range o.world.MediaOutlets {
		outletIDs = append(outletIDs, id)
	}
	sort.Strings(outletIDs)
	if len(outletIDs) == 0 {
		return nil, nil
	}
	outletID := outletIDs[stream.Intn(len(outletIDs))]

	homeName, awayName := match.HomeTeamID, match.AwayTeamID
	if team, ok := o.world.Team(match.HomeTeamID); ok {
		homeName = team.Name
	}
	if team, ok := o.world.Team(match.AwayTeamID); ok {
		awayName = team.Name
	}

	result := outcome.result
	winnerName, loserID, loserName := homeName, match.AwayTeamID, awayName
	if result.AwayScore > result.HomeScore {
		winnerName, loserID, loserName = awayName, match.HomeTeamID, homeName
	}
	draw := result.HomeScore == result.AwayScore

	var headline, sentiment string
	switch match.Importance {
	case domain.ImportanceDerby:
		if draw {
			headline = fmt.Sprintf("Honours even as %s and %s share derby spoils", homeName, awayName)
			sentiment = "neutral"
		} else {
			headline = fmt.Sprintf("%s claim derby bragging rights over %s", winnerName, loserName)
			sentiment = "positive"
		}
	case domain.ImportanceTitleRace:
		if draw {
			headline = fmt.Sprintf("Title rivals %s and %s cancel each other out", homeName, awayName)
			sentiment = "neutral"
		} else {
			headline = fmt.Sprintf("%s strike title statement against %s", winnerName, loserName)
			sentiment = "positive"
		}
	case domain.ImportanceRelegation:
		if draw {
			headline = fmt.Sprintf("Relegation nerves linger as %s hold %s", awayName, homeName)
			sentiment = "negative"
		} else {
			headline = fmt.Sprintf("%s breathe easier after vital win over %s", winnerName, loserName)
			sentiment = "positive"
		}
	default:
		return nil, nil
	}

	events := make([]event.Event, 0, 2)
	story, err := event.Encode(event.KindMediaStoryPublished, match.Date, &event.MediaStoryPublishedPayload{
		OutletID:  outletID,
		Headline:  headline,
		StoryType: string(match.Importance),
		Entities:  []string{match.HomeTeamID, match.AwayTeamID},
		Sentiment: sentiment,
	})
	if err != nil {
		return nil, err
	}
	events = append(events, story)

	// A heavy defeat in a big match draws the owner out.
	margin := result.HomeScore - result.AwayScore
	if margin < 0 {
		margin = -margin
	}
	if !draw && margin >= 3 {
		ownerID := "owner-" + loserID
		if owner, ok := o.world.Owners[ownerID]; ok {
			statement, err := event.Encode(event.KindOwnerStatementIssued, match.Date, &event.OwnerStatementIssuedPayload{
				OwnerID:   owner.ID,
				TeamID:    loserID,
				Statement: fmt.Sprintf("Today's performance against %s was not acceptable. We expect a response.", winnerName),
				Sentiment: "negative",
			})
			if err != nil {
				return nil, err
			}
			events = append(events, statement)
		}
	}

	return events, nil
}
