// Package schedule builds league calendars.
//
// Each season is a double round-robin produced by the circle method,
// anchored on sorted team ids so the rotation is canonical: the same world
// seed always yields the same fixture list.
package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
	apperrors "github.com/sgb-io/back-of-the-neural-net/internal/errors"
	"github.com/sgb-io/back-of-the-neural-net/internal/platform/random"
)

// MatchID builds the deterministic id for a fixture.
func MatchID(leagueID string, season, matchday int, homeID, awayID string) string {
	return fmt.Sprintf("%s-s%d-md%02d-%s-%s", leagueID, season, matchday, homeID, awayID)
}

// GenerateSeason produces the full fixture list for one league season as
// match.scheduled payloads in matchday order. Weather, attendance and
// atmosphere come from a stream derived from (seed, season, league), so
// scheduling is reproducible independently of match simulation.
func GenerateSeason(world *domain.World, league *domain.League, season int, genesis time.Time, seed int64) ([]*event.MatchScheduledPayload, error) {
	teams := append([]string(nil), league.TeamIDs...)
	sort.Strings(teams)
	n := len(teams)
	if n < 2 || n%2 != 0 {
		return nil, apperrors.New(apperrors.CodeScheduleInfeasible,
			fmt.Sprintf("league %s has %d teams; an even count of at least two is required", league.ID, n))
	}

	stream := random.Derive(seed, "schedule", strconv.Itoa(season), league.ID)

	rounds := n - 1
	var payloads []*event.MatchScheduledPayload

	appendFixture := func(matchday int, homeID, awayID string) {
		date := genesis.AddDate(0, 0, 7*(matchday-1))
		weather := pickWeather(stream)
		attendance, atmosphere := gateAndAtmosphere(stream, world, homeID, awayID, weather)
		payloads = append(payloads, &event.MatchScheduledPayload{
			MatchID:    MatchID(league.ID, season, matchday, homeID, awayID),
			LeagueID:   league.ID,
			HomeTeam:   homeID,
			AwayTeam:   awayID,
			Matchday:   matchday,
			Season:     season,
			Date:       date.Format("2006-01-02"),
			Weather:    string(weather),
			Attendance: attendance,
			Atmosphere: atmosphere,
			Importance: string(Classify(world, homeID, awayID)),
		})
	}

	for round := 0; round < rounds; round++ {
		// Circle rotation: the first team stays fixed, the rest rotate.
		rotated := make([]string, n)
		rotated[0] = teams[0]
		for i := 1; i < n; i++ {
			rotated[i] = teams[1+((i-1+round)%(n-1))]
		}

		for i := 0; i < n/2; i++ {
			a, b := rotated[i], rotated[n-1-i]
			// Alternate the anchor pairing so no team hosts every round.
			home, away := a, b
			if (round+i)%2 == 1 {
				home, away = b, a
			}
			appendFixture(round+1, home, away)
			// The mirror fixture swaps venues in the second half.
			appendFixture(round+1+rounds, away, home)
		}
	}

	sort.SliceStable(payloads, func(i, j int) bool {
		if payloads[i].Matchday != payloads[j].Matchday {
			return payloads[i].Matchday < payloads[j].Matchday
		}
		return payloads[i].MatchID < payloads[j].MatchID
	})
	return payloads, nil
}

// pickWeather samples the match-day conditions from the fixed distribution.
func pickWeather(stream *random.Stream) domain.Weather {
	roll := stream.Float64()
	switch {
	case roll < 0.30:
		return domain.WeatherSunny
	case roll < 0.55:
		return domain.WeatherCloudy
	case roll < 0.75:
		return domain.WeatherRainy
	case roll < 0.85:
		return domain.WeatherWindy
	case roll < 0.95:
		return domain.WeatherFoggy
	default:
		return domain.WeatherSnowy
	}
}

// gateAndAtmosphere derives attendance and atmosphere from stadium capacity,
// reputation and weather.
func gateAndAtmosphere(stream *random.Stream, world *domain.World, homeID, awayID string, weather domain.Weather) (int, int) {
	home, ok := world.Team(homeID)
	if !ok {
		return 15000, 50
	}
	capacity := home.Stadium.Capacity
	if capacity < 1000 {
		capacity = 1000
	}

	base := float64(capacity) * 0.75
	repModifier := 1.0 + float64(home.Reputation-50)/100

	weatherModifier := 1.0
	switch weather {
	case domain.WeatherRainy:
		weatherModifier = 0.85
	case domain.WeatherSnowy:
		weatherModifier = 0.70
	case domain.WeatherFoggy:
		weatherModifier = 0.90
	case domain.WeatherSunny:
		weatherModifier = 1.10
	}

	randomModifier := 0.90 + stream.Float64()*0.20

	attendance := int(base * repModifier * weatherModifier * randomModifier)
	if attendance < 1000 {
		attendance = 1000
	}
	if attendance > capacity {
		attendance = capacity
	}

	ratio := float64(attendance) / float64(capacity)
	atmosphere := 30 + int(ratio*60)
	if away, ok := world.Team(awayID); ok && away.Reputation >= 60 && home.Reputation >= 60 {
		atmosphere += 10
	}
	if atmosphere > 90 {
		atmosphere = 90
	}
	if atmosphere < 30 {
		atmosphere = 30
	}
	return attendance, atmosphere
}

// FixturesFor returns the match ids scheduled for a league matchday.
func FixturesFor(world *domain.World, leagueID string, matchday int) []string {
	league, ok := world.League(leagueID)
	if !ok || league.Fixtures == nil {
		return nil
	}
	return league.Fixtures[matchday]
}

// NextMatchday returns the first matchday with unfinished fixtures, or zero
// when the season is fully played.
func NextMatchday(world *domain.World, leagueID string) int {
	league, ok := world.League(leagueID)
	if !ok {
		return 0
	}
	for matchday := league.CurrentMatchday; matchday <= league.TotalMatchdays; matchday++ {
		for _, matchID := range league.Fixtures[matchday] {
			if match, ok := world.Match(matchID); ok && !match.Finished {
				return matchday
			}
		}
	}
	return 0
}
