package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
	apperrors "github.com/sgb-io/back-of-the-neural-net/internal/errors"
	"github.com/sgb-io/back-of-the-neural-net/internal/projection"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	type leagueView struct {
		Name            string               `json:"name"`
		CurrentMatchday int                  `json:"current_matchday"`
		Table           []projection.TableRow `json:"table"`
	}
	type fixtureView struct {
		ID       string `json:"id"`
		HomeTeam string `json:"home_team"`
		AwayTeam string `json:"away_team"`
		League   string `json:"league"`
		Matchday int    `json:"matchday"`
	}

	body := struct {
		Season      int                    `json:"season"`
		CurrentDate string                 `json:"current_date"`
		Leagues     map[string]leagueView  `json:"leagues"`
		NextFixtures []fixtureView         `json:"next_fixtures"`
		Entities    map[string]int         `json:"entities_summary"`
	}{
		Leagues:  make(map[string]leagueView),
		Entities: make(map[string]int),
	}

	s.orch.Read(func(world *domain.World) {
		body.Season = world.Season
		body.CurrentDate = world.CurrentDate.Format("2006-01-02")
		for _, leagueID := range world.LeagueIDs() {
			league := world.Leagues[leagueID]
			body.Leagues[leagueID] = leagueView{
				Name:            league.Name,
				CurrentMatchday: league.CurrentMatchday,
				Table:           projection.LeagueTable(world, leagueID),
			}
			for _, matchID := range league.Fixtures[league.CurrentMatchday] {
				if len(body.NextFixtures) >= 10 {
					break
				}
				match, ok := world.Match(matchID)
				if !ok || match.Finished {
					continue
				}
				home, away := match.HomeTeamID, match.AwayTeamID
				if team, ok := world.Team(home); ok {
					home = team.Name
				}
				if team, ok := world.Team(away); ok {
					away = team.Name
				}
				body.NextFixtures = append(body.NextFixtures, fixtureView{
					ID: match.ID, HomeTeam: home, AwayTeam: away,
					League: match.LeagueID, Matchday: match.Matchday,
				})
			}
		}
		body.Entities["players"] = len(world.Players)
		body.Entities["teams"] = len(world.Teams)
		body.Entities["owners"] = len(world.Owners)
		body.Entities["staff"] = len(world.Staff)
		body.Entities["media_outlets"] = len(world.MediaOutlets)
	})

	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleLeagueTable(w http.ResponseWriter, r *http.Request) {
	leagueID := mux.Vars(r)["id"]

	var (
		table []projection.TableRow
		found bool
	)
	s.orch.Read(func(world *domain.World) {
		if _, ok := world.League(leagueID); ok {
			found = true
			table = projection.LeagueTable(world, leagueID)
		}
	})
	if !found {
		writeError(w, apperrors.New(apperrors.CodeLeagueNotFound, fmt.Sprintf("league %q not found", leagueID)))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"league": leagueID, "table": table})
}

func (s *Server) handleTopScorers(w http.ResponseWriter, r *http.Request) {
	leagueID := mux.Vars(r)["id"]
	limit := queryInt(r, "limit", 10)

	var (
		scorers, assisters []projection.ScorerRow
		season             int
		found              bool
	)
	s.orch.Read(func(world *domain.World) {
		league, ok := world.League(leagueID)
		if !ok {
			return
		}
		found = true
		season = queryInt(r, "season", league.Season)
		scorers = projection.TopScorers(world, leagueID, season, limit)
		assisters = projection.TopAssisters(world, leagueID, season, limit)
	})
	if !found {
		writeError(w, apperrors.New(apperrors.CodeLeagueNotFound, fmt.Sprintf("league %q not found", leagueID)))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"league": leagueID, "season": season,
		"top_scorers": scorers, "top_assisters": assisters,
	})
}

func (s *Server) handleBestDefense(w http.ResponseWriter, r *http.Request) {
	leagueID := mux.Vars(r)["id"]

	var (
		rows  []projection.DefenseRow
		found bool
	)
	s.orch.Read(func(world *domain.World) {
		if _, ok := world.League(leagueID); ok {
			found = true
			rows = projection.BestDefense(world, leagueID)
		}
	})
	if !found {
		writeError(w, apperrors.New(apperrors.CodeLeagueNotFound, fmt.Sprintf("league %q not found", leagueID)))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"league": leagueID, "best_defense": rows})
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["id"]

	type playerView struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Position string `json:"position"`
		Overall  int    `json:"overall"`
		Form     int    `json:"form"`
		Fitness  int    `json:"fitness"`
		Injured  bool   `json:"injured"`
	}

	var (
		team  *domain.Team
		squad []playerView
	)
	s.orch.Read(func(world *domain.World) {
		found, ok := world.Team(teamID)
		if !ok {
			return
		}
		team = found.Clone()
		for _, p := range world.SquadPlayers(teamID) {
			squad = append(squad, playerView{
				ID: p.ID, Name: p.Name, Position: string(p.Position),
				Overall: p.OverallRating(), Form: p.Form, Fitness: p.Fitness,
				Injured: p.Injured,
			})
		}
	})
	if team == nil {
		writeError(w, apperrors.New(apperrors.CodeTeamNotFound, fmt.Sprintf("team %q not found", teamID)))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"team": team, "squad": squad})
}

func (s *Server) handleHeadToHead(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["id"]

	var (
		rows  []projection.HeadToHeadRow
		found bool
	)
	s.orch.Read(func(world *domain.World) {
		if _, ok := world.Team(teamID); ok {
			found = true
			rows = projection.HeadToHeadFor(world, teamID)
		}
	})
	if !found {
		writeError(w, apperrors.New(apperrors.CodeTeamNotFound, fmt.Sprintf("team %q not found", teamID)))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"team": teamID, "head_to_head": rows})
}

func (s *Server) handleMatchEvents(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	var exists bool
	s.orch.Read(func(world *domain.World) {
		_, exists = world.Match(matchID)
	})
	if !exists {
		writeError(w, apperrors.New(apperrors.CodeMatchNotFound, fmt.Sprintf("match %q not found", matchID)))
		return
	}

	type eventView struct {
		Seq     uint64 `json:"seq"`
		Kind    string `json:"kind"`
		Payload any    `json:"payload"`
	}
	var views []eventView

	var after uint64
	for {
		events, err := s.orch.EventsFrom(r.Context(), after, 1000)
		if err != nil {
			writeError(w, err)
			return
		}
		if len(events) == 0 {
			break
		}
		for _, evt := range events {
			after = evt.Seq
			payload, err := event.Decode(evt)
			if err != nil {
				continue
			}
			if payloadMatchID(payload) != matchID {
				continue
			}
			views = append(views, eventView{Seq: evt.Seq, Kind: string(evt.Kind), Payload: payload})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"match": matchID, "events": views})
}

// payloadMatchID extracts the match id from match-scoped payloads.
func payloadMatchID(payload any) string {
	switch p := payload.(type) {
	case *event.MatchScheduledPayload:
		return p.MatchID
	case *event.MatchStartedPayload:
		return p.MatchID
	case *event.MatchAbortedPayload:
		return p.MatchID
	case *event.KickOffPayload:
		return p.MatchID
	case *event.GoalPayload:
		return p.MatchID
	case *event.YellowCardPayload:
		return p.MatchID
	case *event.RedCardPayload:
		return p.MatchID
	case *event.SubstitutionPayload:
		return p.MatchID
	case *event.InjuryPayload:
		return p.MatchID
	case *event.CornerKickPayload:
		return p.MatchID
	case *event.FoulPayload:
		return p.MatchID
	case *event.FreeKickPayload:
		return p.MatchID
	case *event.PenaltyAwardedPayload:
		return p.MatchID
	case *event.OffsidePayload:
		return p.MatchID
	case *event.MatchEndedPayload:
		return p.MatchID
	default:
		return ""
	}
}

func (s *Server) handlePlayerSeasonStats(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["id"]

	var (
		line  projection.PlayerSeason
		found bool
	)
	s.orch.Read(func(world *domain.World) {
		season := queryInt(r, "season", world.Season)
		line, found = projection.PlayerSeasonStats(world, playerID, season)
	})
	if !found {
		writeError(w, apperrors.New(apperrors.CodePlayerNotFound, fmt.Sprintf("player %q not found", playerID)))
		return
	}
	writeJSON(w, http.StatusOK, line)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	summary, err := s.orch.Advance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, apperrors.New(apperrors.CodeResetRefused, "reset requires confirm=true"))
		return
	}
	if err := s.orch.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
