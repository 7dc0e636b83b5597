package domain

import (
	"fmt"
	"time"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
	apperrors "github.com/sgb-io/back-of-the-neural-net/internal/errors"
)

// Apply folds one event into the world. It is the single mutating pathway:
// pure over (world, event), no I/O, and replay-identical: folding the same
// event sequence into a fresh world reproduces this world exactly.
func (w *World) Apply(evt event.Event) error {
	payload, err := event.Decode(evt)
	if err != nil {
		return err
	}

	switch p := payload.(type) {
	case *event.WorldInitializedPayload:
		return w.applyWorldInitialized(p)
	case *event.CalendarAdvancedPayload:
		return w.applyCalendarAdvanced(p)
	case *event.MatchScheduledPayload:
		return w.applyMatchScheduled(p)
	case *event.GoalPayload:
		return w.applyGoal(p)
	case *event.YellowCardPayload:
		return w.applyYellowCard(p)
	case *event.RedCardPayload:
		return w.applyRedCard(p)
	case *event.InjuryPayload:
		return w.applyInjury(p)
	case *event.MatchEndedPayload:
		return w.applyMatchEnded(p)
	case *event.SoftStateUpdatedPayload:
		return w.applySoftState(p)
	case *event.SeasonEndedPayload:
		return w.applySeasonEnded(p)
	case *event.MediaStoryPublishedPayload:
		return w.applyMediaStory(p)
	case *event.OwnerStatementIssuedPayload:
		return w.applyOwnerStatement(p)
	case *event.MatchStartedPayload, *event.KickOffPayload, *event.CornerKickPayload,
		*event.FoulPayload, *event.FreeKickPayload, *event.PenaltyAwardedPayload,
		*event.OffsidePayload, *event.SubstitutionPayload, *event.MatchAbortedPayload,
		*event.ValidationFailedPayload, *event.HeadToHeadUpdatedPayload:
		// Transient in-match and audit events carry no world state.
		return nil
	default:
		return fmt.Errorf("apply: unhandled payload %T", payload)
	}
}

func (w *World) applyWorldInitialized(p *event.WorldInitializedPayload) error {
	w.Season = p.Season
	w.Seed = p.Seed
	date, err := time.Parse("2006-01-02", p.GenesisDate)
	if err != nil {
		return fmt.Errorf("parse genesis date: %w", err)
	}
	w.CurrentDate = date
	return nil
}

func (w *World) applyCalendarAdvanced(p *event.CalendarAdvancedPayload) error {
	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return fmt.Errorf("parse calendar date: %w", err)
	}
	w.CurrentDate = date
	w.Week++

	for leagueID, matchday := range p.Matchdays {
		league, ok := w.Leagues[leagueID]
		if !ok {
			return apperrors.New(apperrors.CodeLeagueNotFound,
				fmt.Sprintf("calendar references unknown league %s", leagueID))
		}
		league.CurrentMatchday = matchday
	}

	w.advanceWeeklyProgression()
	if w.Week%4 == 0 {
		w.applyMonthlyFinances()
	}
	return nil
}

// advanceWeeklyProgression recovers fitness, counts down injuries and
// suspensions. The walk is over sorted ids so replay order never varies.
func (w *World) advanceWeeklyProgression() {
	playerIDs := make([]string, 0, len(w.Players))
	for id := range w.Players {
		playerIDs = append(playerIDs, id)
	}
	sortStrings(playerIDs)

	for _, id := range playerIDs {
		player := w.Players[id]
		if player.Injured {
			player.InjuryWeeks--
			if player.InjuryWeeks <= 0 {
				player.Injured = false
				player.InjuryWeeks = 0
				player.Fitness = clampInt(player.Fitness, 0, 70)
			}
		} else {
			player.Fitness = clampInt(player.Fitness+10, 0, 100)
		}
		if player.Suspended {
			player.SuspensionMatches--
			if player.SuspensionMatches <= 0 {
				player.Suspended = false
				player.SuspensionMatches = 0
			}
		}
	}
}

func (w *World) applyMonthlyFinances() {
	for _, id := range w.TeamIDs() {
		team := w.Teams[id]
		team.Finances.Balance += team.Finances.MonthlyRevenue - team.Finances.MonthlyCosts
	}
}

func (w *World) applyMatchScheduled(p *event.MatchScheduledPayload) error {
	league, ok := w.Leagues[p.LeagueID]
	if !ok {
		return apperrors.New(apperrors.CodeLeagueNotFound,
			fmt.Sprintf("schedule references unknown league %s", p.LeagueID))
	}
	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return fmt.Errorf("parse match date: %w", err)
	}

	w.Matches[p.MatchID] = &Match{
		ID:         p.MatchID,
		LeagueID:   p.LeagueID,
		HomeTeamID: p.HomeTeam,
		AwayTeamID: p.AwayTeam,
		Matchday:   p.Matchday,
		Season:     p.Season,
		Date:       date,
		Weather:    Weather(p.Weather),
		Attendance: p.Attendance,
		Atmosphere: p.Atmosphere,
		Importance: Importance(p.Importance),
	}

	if league.Fixtures == nil {
		league.Fixtures = make(map[int][]string)
	}
	league.Fixtures[p.Matchday] = append(league.Fixtures[p.Matchday], p.MatchID)
	return nil
}

func (w *World) applyGoal(p *event.GoalPayload) error {
	match, ok := w.Matches[p.MatchID]
	if !ok {
		return apperrors.New(apperrors.CodeMatchNotFound,
			fmt.Sprintf("goal references unknown match %s", p.MatchID))
	}
	match.HomeScore = p.HomeScore
	match.AwayScore = p.AwayScore

	if scorer, ok := w.Players[p.Scorer]; ok {
		scorer.StatsForSeason(match.Season).Goals++
	}
	if p.Assist != "" {
		if assister, ok := w.Players[p.Assist]; ok {
			assister.StatsForSeason(match.Season).Assists++
		}
	}
	return nil
}

func (w *World) applyYellowCard(p *event.YellowCardPayload) error {
	match, ok := w.Matches[p.MatchID]
	if !ok {
		return apperrors.New(apperrors.CodeMatchNotFound,
			fmt.Sprintf("card references unknown match %s", p.MatchID))
	}
	if player, ok := w.Players[p.Player]; ok {
		player.YellowCards++
		player.StatsForSeason(match.Season).YellowCards++
	}
	return nil
}

func (w *World) applyRedCard(p *event.RedCardPayload) error {
	match, ok := w.Matches[p.MatchID]
	if !ok {
		return apperrors.New(apperrors.CodeMatchNotFound,
			fmt.Sprintf("card references unknown match %s", p.MatchID))
	}
	if player, ok := w.Players[p.Player]; ok {
		player.RedCards++
		player.Suspended = true
		player.SuspensionMatches = 3
		player.StatsForSeason(match.Season).RedCards++
	}
	return nil
}

func (w *World) applyInjury(p *event.InjuryPayload) error {
	match, ok := w.Matches[p.MatchID]
	if !ok {
		return apperrors.New(apperrors.CodeMatchNotFound,
			fmt.Sprintf("injury references unknown match %s", p.MatchID))
	}
	if player, ok := w.Players[p.Player]; ok {
		player.Injured = true
		player.InjuryWeeks = p.WeeksOut
		player.InjuryHistory = append(player.InjuryHistory, InjuryRecord{
			Season:   match.Season,
			Type:     p.Type,
			Severity: p.Severity,
			WeeksOut: p.WeeksOut,
		})
	}
	return nil
}

func (w *World) applyMatchEnded(p *event.MatchEndedPayload) error {
	match, ok := w.Matches[p.MatchID]
	if !ok {
		return apperrors.New(apperrors.CodeMatchNotFound,
			fmt.Sprintf("result references unknown match %s", p.MatchID))
	}
	if match.Finished {
		return apperrors.New(apperrors.CodeWorldInvariantViolated,
			fmt.Sprintf("match %s already finished", p.MatchID))
	}

	match.Finished = true
	match.HomeScore = p.HomeScore
	match.AwayScore = p.AwayScore

	home, ok := w.Teams[p.HomeTeam]
	if !ok {
		return apperrors.New(apperrors.CodeTeamNotFound,
			fmt.Sprintf("result references unknown team %s", p.HomeTeam))
	}
	away, ok := w.Teams[p.AwayTeam]
	if !ok {
		return apperrors.New(apperrors.CodeTeamNotFound,
			fmt.Sprintf("result references unknown team %s", p.AwayTeam))
	}

	homeResult, awayResult := "D", "D"
	switch {
	case p.HomeScore > p.AwayScore:
		homeResult, awayResult = "W", "L"
	case p.AwayScore > p.HomeScore:
		homeResult, awayResult = "L", "W"
	}
	home.RecordResult(homeResult, true, p.HomeScore, p.AwayScore, away.ID)
	away.RecordResult(awayResult, false, p.AwayScore, p.HomeScore, home.ID)

	// Per-player appearance bookkeeping: minutes, ratings, fitness drain.
	for _, playerID := range sortedKeysInt(p.MinutesPlayed) {
		minutes := p.MinutesPlayed[playerID]
		player, ok := w.Players[playerID]
		if !ok {
			continue
		}
		stats := player.StatsForSeason(match.Season)
		stats.Appearances++
		stats.Minutes += minutes
		if rating, ok := p.PlayerRatings[playerID]; ok {
			stats.RatingSum += rating
			stats.AvgRating = stats.RatingSum / float64(stats.Appearances)
		}
		player.Fitness = clampInt(player.Fitness-minutes/2, 0, 100)
	}
	return nil
}

func (w *World) applySoftState(p *event.SoftStateUpdatedPayload) error {
	switch p.TargetKind {
	case "player":
		player, ok := w.Players[p.TargetID]
		if !ok {
			return apperrors.New(apperrors.CodePlayerNotFound,
				fmt.Sprintf("soft state references unknown player %s", p.TargetID))
		}
		switch p.Field {
		case "form":
			player.Form = p.Value
		case "morale":
			player.Morale = p.Value
		case "fitness":
			player.Fitness = p.Value
		case "reputation":
			player.Reputation = p.Value
		default:
			return apperrors.New(apperrors.CodeProposalInvalid,
				fmt.Sprintf("soft state references unknown player field %s", p.Field))
		}
		player.ClampSoftState()
	case "team":
		team, ok := w.Teams[p.TargetID]
		if !ok {
			return apperrors.New(apperrors.CodeTeamNotFound,
				fmt.Sprintf("soft state references unknown team %s", p.TargetID))
		}
		switch p.Field {
		case "morale":
			team.Morale = p.Value
		case "tactical_familiarity":
			team.TacticalFamiliarity = p.Value
		case "reputation":
			team.Reputation = p.Value
		default:
			return apperrors.New(apperrors.CodeProposalInvalid,
				fmt.Sprintf("soft state references unknown team field %s", p.Field))
		}
		team.ClampSoftState()
	case "owner":
		owner, ok := w.Owners[p.TargetID]
		if !ok {
			return apperrors.New(apperrors.CodeProposalInvalid,
				fmt.Sprintf("soft state references unknown owner %s", p.TargetID))
		}
		if p.Field != "public_approval" {
			return apperrors.New(apperrors.CodeProposalInvalid,
				fmt.Sprintf("soft state references unknown owner field %s", p.Field))
		}
		owner.PublicApproval = clampInt(p.Value, 0, 100)
	case "staff":
		staff, ok := w.Staff[p.TargetID]
		if !ok {
			return apperrors.New(apperrors.CodeProposalInvalid,
				fmt.Sprintf("soft state references unknown staff %s", p.TargetID))
		}
		if p.Field != "team_rapport" {
			return apperrors.New(apperrors.CodeProposalInvalid,
				fmt.Sprintf("soft state references unknown staff field %s", p.Field))
		}
		staff.TeamRapport = clampInt(p.Value, 0, 100)
	default:
		return apperrors.New(apperrors.CodeProposalInvalid,
			fmt.Sprintf("soft state references unknown target kind %s", p.TargetKind))
	}
	return nil
}

func (w *World) applySeasonEnded(p *event.SeasonEndedPayload) error {
	league, ok := w.Leagues[p.LeagueID]
	if !ok {
		return apperrors.New(apperrors.CodeLeagueNotFound,
			fmt.Sprintf("season end references unknown league %s", p.LeagueID))
	}

	if league.ChampionsBySeason == nil {
		league.ChampionsBySeason = make(map[int]string)
	}
	if league.TopScorersBySeason == nil {
		league.TopScorersBySeason = make(map[int]string)
	}
	league.ChampionsBySeason[p.Season] = p.ChampionID
	league.TopScorersBySeason[p.Season] = p.TopScorerID

	if champion, ok := w.Teams[p.ChampionID]; ok {
		champion.Reputation = clampInt(champion.Reputation+3, 1, 100)
	}
	if scorer, ok := w.Players[p.TopScorerID]; ok {
		scorer.Awards = append(scorer.Awards, Award{Season: p.Season, Name: "Top Scorer"})
	}

	// Roll the league into the next season and clear per-season counters.
	league.Season = p.Season + 1
	league.CurrentMatchday = 1
	league.Fixtures = make(map[int][]string)

	for _, teamID := range league.TeamIDs {
		team, ok := w.Teams[teamID]
		if !ok {
			continue
		}
		team.ResetSeasonCounters()
		for _, playerID := range team.Squad {
			if player, ok := w.Players[playerID]; ok {
				player.YellowCards = 0
				player.RedCards = 0
			}
		}
	}

	// The world season advances once every league has rolled over.
	rolled := true
	for _, id := range w.LeagueIDs() {
		if w.Leagues[id].Season <= w.Season {
			rolled = false
			break
		}
	}
	if rolled {
		w.Season++
	}
	return nil
}

func (w *World) applyMediaStory(p *event.MediaStoryPublishedPayload) error {
	if outlet, ok := w.MediaOutlets[p.OutletID]; ok {
		outlet.PushStory(p.Headline)
	}
	return nil
}

func (w *World) applyOwnerStatement(p *event.OwnerStatementIssuedPayload) error {
	if owner, ok := w.Owners[p.OwnerID]; ok {
		owner.LastStatement = p.Statement
	}
	return nil
}
