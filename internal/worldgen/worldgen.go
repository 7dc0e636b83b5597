// Package worldgen builds the genesis world from a seed.
//
// Generation is fully deterministic: the same seed always produces the same
// leagues, squads and collateral cast, which is what lets replay rebuild the
// world from nothing but the event log.
package worldgen

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	"github.com/sgb-io/back-of-the-neural-net/internal/platform/random"
)

// GenesisSeason is the first simulated season.
const GenesisSeason = 2025

// GenesisDate is the calendar start of the first season.
var GenesisDate = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

// squadTemplate is the position spread every generated squad follows: two
// keepers, six defenders, six midfielders, four forwards.
var squadTemplate = []domain.Position{
	domain.PositionGK, domain.PositionGK,
	domain.PositionCB, domain.PositionCB, domain.PositionCB,
	domain.PositionLB, domain.PositionRB, domain.PositionCB,
	domain.PositionCM, domain.PositionCM, domain.PositionCAM,
	domain.PositionLM, domain.PositionRM, domain.PositionCM,
	domain.PositionST, domain.PositionST, domain.PositionLW, domain.PositionRW,
}

var traitPool = []string{
	"Clutch Finisher", "Engine", "Set Piece Specialist", "Leader",
	"Speedster", "Maestro", "Wall", "Poacher",
}

// Build generates the full genesis world for a seed.
func Build(seed int64) *domain.World {
	world := domain.NewWorld()
	world.Season = GenesisSeason
	world.CurrentDate = GenesisDate
	world.Seed = seed

	buildLeague(world, seed, "Premier Fantasy League", premierTeams)
	buildLeague(world, seed, "La Fantasia League", laTeams)
	buildMedia(world)
	buildRivalries(world)

	return world
}

func buildLeague(world *domain.World, seed int64, leagueName string, seeds []teamSeed) {
	leagueID := slug.Make(leagueName)
	league := &domain.League{
		ID:              leagueID,
		Name:            leagueName,
		Season:          GenesisSeason,
		CurrentMatchday: 1,
		TotalMatchdays:  2 * (len(seeds) - 1),
		Fixtures:        make(map[int][]string),
	}
	world.Leagues[leagueID] = league

	for _, ts := range seeds {
		teamID := slug.Make(ts.name)
		stream := random.Derive(seed, "worldgen", "team", teamID)

		baseSkill := stream.IntBetween(58, 78)
		team := &domain.Team{
			ID:                  teamID,
			Name:                ts.name,
			LeagueID:            leagueID,
			TacticalFamiliarity: stream.IntBetween(40, 70),
			Morale:              stream.IntBetween(45, 65),
			Reputation:          stream.IntBetween(40, 75),
			Stadium: domain.Stadium{
				Name:            ts.stadium,
				Capacity:        stream.IntBetween(20, 60) * 1000,
				TrainingQuality: stream.IntBetween(40, 90),
			},
			Finances: domain.Finances{
				Balance:        int64(stream.IntBetween(10, 50)) * 1_000_000,
				MonthlyCosts:   int64(baseSkill) * 40_000,
				MonthlyRevenue: int64(stream.IntBetween(55, 80)) * 40_000,
			},
			HeadToHead: make(map[string]domain.Record),
		}
		world.Teams[teamID] = team
		league.TeamIDs = append(league.TeamIDs, teamID)

		for i, position := range squadTemplate {
			player := buildPlayer(stream, teamID, i, position, baseSkill)
			world.Players[player.ID] = player
			team.Squad = append(team.Squad, player.ID)
		}

		buildOwner(world, stream, team)
		buildStaff(world, stream, team)
	}
}

func buildPlayer(stream *random.Stream, teamID string, index int, position domain.Position, baseSkill int) *domain.Player {
	name := fmt.Sprintf("%s %s",
		firstNames[stream.Intn(len(firstNames))],
		lastNames[stream.Intn(len(lastNames))])
	playerID := fmt.Sprintf("%s-%s-%02d", teamID, slug.Make(name), index)

	attr := func() int {
		return clamp(baseSkill+stream.IntBetween(-10, 10), 30, 95)
	}

	player := &domain.Player{
		ID:          playerID,
		Name:        name,
		Position:    position,
		TeamID:      teamID,
		Age:         stream.IntBetween(17, 35),
		Pace:        attr(),
		Shooting:    attr(),
		Passing:     attr(),
		Defending:   attr(),
		Physicality: attr(),
		Form:        stream.IntBetween(40, 60),
		Morale:      stream.IntBetween(40, 60),
		Fitness:     100,
		Reputation:  clamp(baseSkill+stream.IntBetween(-15, 15), 20, 90),
		WeakFoot:    stream.IntBetween(1, 5),
		SkillMoves:  stream.IntBetween(1, 5),
		WorkRateAtt: pickWorkRate(stream),
		WorkRateDef: pickWorkRate(stream),
		SeasonStats: make(map[int]*domain.PlayerSeasonStats),
	}

	// Position shaping: keepers and defenders defend, forwards finish.
	switch {
	case position == domain.PositionGK:
		player.Defending = clamp(player.Defending+15, 30, 97)
		player.Shooting = clamp(player.Shooting-25, 5, 95)
	case position.IsDefender():
		player.Defending = clamp(player.Defending+10, 30, 97)
		player.Shooting = clamp(player.Shooting-10, 10, 95)
	case position.IsForward():
		player.Shooting = clamp(player.Shooting+10, 30, 97)
		player.Defending = clamp(player.Defending-10, 10, 95)
	}

	switch stream.Intn(3) {
	case 0:
		player.PreferredFoot = domain.FootLeft
	case 1:
		player.PreferredFoot = domain.FootRight
	default:
		player.PreferredFoot = domain.FootBoth
	}

	if stream.Chance(0.3) {
		player.Traits = []string{traitPool[stream.Intn(len(traitPool))]}
	}

	// Headroom shrinks with age.
	headroom := 20 - (player.Age - 17)
	if headroom < 0 {
		headroom = 0
	}
	player.Potential = clamp(player.OverallRating()+stream.IntBetween(0, headroom), 1, 99)
	player.ClampSoftState()
	return player
}

func pickWorkRate(stream *random.Stream) domain.WorkRate {
	switch stream.Intn(3) {
	case 0:
		return domain.WorkRateLow
	case 1:
		return domain.WorkRateMedium
	default:
		return domain.WorkRateHigh
	}
}

func buildOwner(world *domain.World, stream *random.Stream, team *domain.Team) {
	name := fmt.Sprintf("%s %s",
		ownerFirstNames[stream.Intn(len(ownerFirstNames))],
		lastNames[stream.Intn(len(lastNames))])
	owner := &domain.Owner{
		ID:             fmt.Sprintf("owner-%s", team.ID),
		Name:           name,
		Role:           "Chairperson",
		TeamID:         team.ID,
		PublicApproval: stream.IntBetween(40, 70),
	}
	world.Owners[owner.ID] = owner
}

func buildStaff(world *domain.World, stream *random.Stream, team *domain.Team) {
	for _, role := range staffRoles {
		name := fmt.Sprintf("%s %s",
			firstNames[stream.Intn(len(firstNames))],
			lastNames[stream.Intn(len(lastNames))])
		member := &domain.StaffMember{
			ID:          fmt.Sprintf("staff-%s-%s", team.ID, slug.Make(role)),
			Name:        name,
			Role:        role,
			TeamID:      team.ID,
			TeamRapport: stream.IntBetween(40, 70),
		}
		world.Staff[member.ID] = member
	}
}

func buildMedia(world *domain.World) {
	for _, seed := range outletSeeds {
		outlet := &domain.MediaOutlet{
			ID:   slug.Make(seed.name),
			Name: seed.name,
			Type: seed.kind,
		}
		world.MediaOutlets[outlet.ID] = outlet
	}
}

// buildRivalries pairs the sharing-a-theme clubs as fixed derbies.
func buildRivalries(world *domain.World) {
	world.Rivalries = []domain.Rivalry{
		{TeamA: slug.Make("United Dragons"), TeamB: slug.Make("United Sharks"), Intensity: 90},
		{TeamA: slug.Make("City Phoenix"), TeamB: slug.Make("Athletic Eagles"), Intensity: 75},
		{TeamA: slug.Make("Real Dragones"), TeamB: slug.Make("Barcelona Soles"), Intensity: 95},
		{TeamA: slug.Make("Atletico Tormentas"), TeamB: slug.Make("Athletic Truenos"), Intensity: 70},
	}
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
