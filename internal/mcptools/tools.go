// Package mcptools exposes read-only game-state tools over the Model Context
// Protocol, so LLM clients can query the world while reasoning about
// soft-state proposals.
package mcptools

import (
	"context"
	"fmt"
	"math"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	"github.com/sgb-io/back-of-the-neural-net/internal/orchestrator"
	"github.com/sgb-io/back-of-the-neural-net/internal/projection"
)

const serverVersion = "0.1.0"

// LeagueTableInput requests a league's standings.
type LeagueTableInput struct {
	LeagueID string `json:"league_id"`
}

// LeagueTableResult carries the standings.
type LeagueTableResult struct {
	League string                `json:"league"`
	Table  []projection.TableRow `json:"table"`
}

// TeamInput requests one team.
type TeamInput struct {
	TeamID string `json:"team_id"`
}

// TeamResult summarizes a team.
type TeamResult struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	League     string   `json:"league"`
	Played     int      `json:"played"`
	Points     int      `json:"points"`
	Morale     int      `json:"morale"`
	Reputation int      `json:"reputation"`
	RecentForm []string `json:"recent_form"`
}

// PlayerInput requests one player.
type PlayerInput struct {
	PlayerID string `json:"player_id"`
}

// PlayerResult summarizes a player.
type PlayerResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	Position string `json:"position"`
	Overall  int    `json:"overall"`
	Form     int    `json:"form"`
	Morale   int    `json:"morale"`
	Fitness  int    `json:"fitness"`
	Injured  bool   `json:"injured"`
}

// HeadToHeadInput requests one pairing's ledger.
type HeadToHeadInput struct {
	TeamID     string `json:"team_id"`
	OpponentID string `json:"opponent_id"`
}

// HeadToHeadResult carries the ledger from TeamID's perspective.
type HeadToHeadResult struct {
	TeamID     string `json:"team_id"`
	OpponentID string `json:"opponent_id"`
	Wins       int    `json:"wins"`
	Draws      int    `json:"draws"`
	Losses     int    `json:"losses"`
}

// PredictionInput requests a match prediction.
type PredictionInput struct {
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
}

// PredictionResult carries win probabilities derived from current squads.
type PredictionResult struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// NewServer builds the MCP server with every tool registered.
func NewServer(orch *orchestrator.Orchestrator) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "back-of-the-neural-net", Version: serverVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_league_table",
		Description: "Current standings for a league.",
	}, leagueTableHandler(orch))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_team",
		Description: "Summary of one team.",
	}, teamHandler(orch))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_player",
		Description: "Summary of one player.",
	}, playerHandler(orch))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_head_to_head",
		Description: "Historical record between two teams.",
	}, headToHeadHandler(orch))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_match_predictions",
		Description: "Win/draw probabilities for a pairing based on current squads.",
	}, predictionHandler(orch))

	return server
}

// Run serves the tools over stdio until the context ends.
func Run(ctx context.Context, orch *orchestrator.Orchestrator) error {
	return NewServer(orch).Run(ctx, &mcp.StdioTransport{})
}

func leagueTableHandler(orch *orchestrator.Orchestrator) mcp.ToolHandlerFor[LeagueTableInput, LeagueTableResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LeagueTableInput) (*mcp.CallToolResult, LeagueTableResult, error) {
		var (
			result LeagueTableResult
			found  bool
		)
		orch.Read(func(world *domain.World) {
			if _, ok := world.League(input.LeagueID); ok {
				found = true
				result = LeagueTableResult{
					League: input.LeagueID,
					Table:  projection.LeagueTable(world, input.LeagueID),
				}
			}
		})
		if !found {
			return nil, LeagueTableResult{}, fmt.Errorf("league %q not found", input.LeagueID)
		}
		return nil, result, nil
	}
}

func teamHandler(orch *orchestrator.Orchestrator) mcp.ToolHandlerFor[TeamInput, TeamResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TeamInput) (*mcp.CallToolResult, TeamResult, error) {
		var (
			result TeamResult
			found  bool
		)
		orch.Read(func(world *domain.World) {
			team, ok := world.Team(input.TeamID)
			if !ok {
				return
			}
			found = true
			result = TeamResult{
				ID:         team.ID,
				Name:       team.Name,
				League:     team.LeagueID,
				Played:     team.MatchesPlayed,
				Points:     team.Points(),
				Morale:     team.Morale,
				Reputation: team.Reputation,
				RecentForm: append([]string(nil), team.RecentForm...),
			}
		})
		if !found {
			return nil, TeamResult{}, fmt.Errorf("team %q not found", input.TeamID)
		}
		return nil, result, nil
	}
}

func playerHandler(orch *orchestrator.Orchestrator) mcp.ToolHandlerFor[PlayerInput, PlayerResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlayerInput) (*mcp.CallToolResult, PlayerResult, error) {
		var (
			result PlayerResult
			found  bool
		)
		orch.Read(func(world *domain.World) {
			player, ok := world.Player(input.PlayerID)
			if !ok {
				return
			}
			found = true
			result = PlayerResult{
				ID:       player.ID,
				Name:     player.Name,
				Team:     player.TeamID,
				Position: string(player.Position),
				Overall:  player.OverallRating(),
				Form:     player.Form,
				Morale:   player.Morale,
				Fitness:  player.Fitness,
				Injured:  player.Injured,
			}
		})
		if !found {
			return nil, PlayerResult{}, fmt.Errorf("player %q not found", input.PlayerID)
		}
		return nil, result, nil
	}
}

func headToHeadHandler(orch *orchestrator.Orchestrator) mcp.ToolHandlerFor[HeadToHeadInput, HeadToHeadResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input HeadToHeadInput) (*mcp.CallToolResult, HeadToHeadResult, error) {
		var (
			result HeadToHeadResult
			found  bool
		)
		orch.Read(func(world *domain.World) {
			team, ok := world.Team(input.TeamID)
			if !ok {
				return
			}
			found = true
			record := team.HeadToHead[input.OpponentID]
			result = HeadToHeadResult{
				TeamID:     input.TeamID,
				OpponentID: input.OpponentID,
				Wins:       record.Wins,
				Draws:      record.Draws,
				Losses:     record.Losses,
			}
		})
		if !found {
			return nil, HeadToHeadResult{}, fmt.Errorf("team %q not found", input.TeamID)
		}
		return nil, result, nil
	}
}

func predictionHandler(orch *orchestrator.Orchestrator) mcp.ToolHandlerFor[PredictionInput, PredictionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PredictionInput) (*mcp.CallToolResult, PredictionResult, error) {
		var (
			homeStrength, awayStrength float64
			found                      bool
		)
		orch.Read(func(world *domain.World) {
			_, okHome := world.Team(input.HomeTeamID)
			_, okAway := world.Team(input.AwayTeamID)
			if !okHome || !okAway {
				return
			}
			found = true
			homeStrength = squadStrength(world, input.HomeTeamID) * 1.1
			awayStrength = squadStrength(world, input.AwayTeamID)
		})
		if !found {
			return nil, PredictionResult{}, fmt.Errorf("unknown pairing %q vs %q", input.HomeTeamID, input.AwayTeamID)
		}

		// A fixed draw share plus win shares proportional to squared strength
		// keeps the prediction simple and deterministic.
		const drawShare = 0.24
		ratio := math.Pow(homeStrength, 2) / (math.Pow(homeStrength, 2) + math.Pow(awayStrength, 2))
		result := PredictionResult{
			Draw:    drawShare,
			HomeWin: round2((1 - drawShare) * ratio),
			AwayWin: round2((1 - drawShare) * (1 - ratio)),
		}
		result.Draw = round2(1 - result.HomeWin - result.AwayWin)
		return nil, result, nil
	}
}

func squadStrength(world *domain.World, teamID string) float64 {
	players := world.SquadPlayers(teamID)
	if len(players) == 0 {
		return 1
	}
	total := 0.0
	for _, p := range players {
		total += float64(p.OverallRating()) + float64(p.Form)*0.1
	}
	return total / float64(len(players))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
