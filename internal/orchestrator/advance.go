package orchestrator

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
	apperrors "github.com/sgb-io/back-of-the-neural-net/internal/errors"
	"github.com/sgb-io/back-of-the-neural-net/internal/platform/random"
	"github.com/sgb-io/back-of-the-neural-net/internal/projection"
	"github.com/sgb-io/back-of-the-neural-net/internal/schedule"
	"github.com/sgb-io/back-of-the-neural-net/internal/sim"
	"github.com/sgb-io/back-of-the-neural-net/internal/softstate"
)

// Summary reports what one Advance call did.
type Summary struct {
	Status        string `json:"status"`
	MatchesPlayed int    `json:"matches_played"`
	Events        int    `json:"events"`
}

// Advance statuses.
const (
	StatusMatchesCompleted = "matches_completed"
	StatusMatchdayAdvanced = "matchday_advanced"
	StatusSeasonEnded      = "season_ended"
	StatusIdle             = "idle"
)

// matchJob is the immutable input for one simulation worker.
type matchJob struct {
	match *domain.Match
	home  sim.TeamInput
	away  sim.TeamInput
	seed  int64
}

// matchOutcome is one worker's output.
type matchOutcome struct {
	job    matchJob
	result sim.Result
	err    error
}

// Advance runs one simulation step: simulate every pending fixture on the
// current matchdays, then move the calendar (or roll the season over). With
// nothing to do it is a no-op.
func (o *Orchestrator) Advance(ctx context.Context) (Summary, error) {
	if !o.advanceMu.TryLock() {
		return Summary{}, apperrors.New(apperrors.CodeAdvanceInProgress, "advance already running")
	}
	defer o.advanceMu.Unlock()

	ctx, span := o.tracer.Start(ctx, "advance")
	defer span.End()

	summary := Summary{Status: StatusIdle}

	jobs := o.pendingJobs()
	if len(jobs) > 0 {
		// Pre-match soft state.
		count, err := o.runSoftState(ctx, softstate.PhasePreMatch, nil)
		if err != nil {
			return summary, err
		}
		summary.Events += count
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcomes, err := o.simulate(ctx, jobs)
		if err != nil {
			return summary, err
		}
		if err := ctx.Err(); err != nil {
			// Cancelled before the append step: worker output is discarded.
			return summary, err
		}

		appended, played, err := o.applyOutcomes(ctx, outcomes)
		if err != nil {
			return summary, err
		}
		summary.Status = StatusMatchesCompleted
		summary.MatchesPlayed = played
		summary.Events += appended

		// Post-match soft state sees the batch of results.
		results := make([]*event.MatchEndedPayload, 0, len(outcomes))
		for _, outcome := range outcomes {
			if outcome.err == nil {
				results = append(results, outcome.result.Ended)
			}
		}
		count, err = o.runSoftState(ctx, softstate.PhasePostMatch, results)
		if err != nil {
			return summary, err
		}
		summary.Events += count
	}

	// Calendar movement: season rollover when everything is played,
	// otherwise the next matchday.
	switch {
	case o.seasonFullyPlayed():
		count, err := o.rolloverSeason(ctx)
		if err != nil {
			return summary, err
		}
		summary.Status = StatusSeasonEnded
		summary.Events += count
	default:
		count, advanced, err := o.advanceCalendar(ctx)
		if err != nil {
			return summary, err
		}
		if advanced && summary.Status == StatusIdle {
			summary.Status = StatusMatchdayAdvanced
		}
		summary.Events += count
	}

	o.maybeSnapshot(ctx)
	return summary, nil
}

// pendingJobs snapshots the unfinished fixtures of every league's current
// matchday. Everything handed to workers is a deep copy.
func (o *Orchestrator) pendingJobs() []matchJob {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var jobs []matchJob
	for _, leagueID := range o.world.LeagueIDs() {
		league := o.world.Leagues[leagueID]
		if league.SeasonComplete() {
			continue
		}
		for _, matchID := range league.Fixtures[league.CurrentMatchday] {
			match, ok := o.world.Match(matchID)
			if !ok || match.Finished {
				continue
			}
			jobs = append(jobs, matchJob{
				match: match.Clone(),
				home:  o.teamInput(match.HomeTeamID),
				away:  o.teamInput(match.AwayTeamID),
				seed:  random.DeriveSeed(o.world.Seed, "match", matchID),
			})
		}
	}
	return jobs
}

// teamInput deep-copies one side. Callers hold at least the read lock.
func (o *Orchestrator) teamInput(teamID string) sim.TeamInput {
	team := o.world.Teams[teamID].Clone()
	squad := o.world.SquadPlayers(teamID)
	players := make([]*domain.Player, 0, len(squad))
	for _, p := range squad {
		players = append(players, p.Clone())
	}
	return sim.TeamInput{Team: team, Players: players}
}

// simulate fans the jobs out to workers. Workers share no mutable state:
// each owns its snapshots and its derived stream, and failures stay local to
// their match.
func (o *Orchestrator) simulate(ctx context.Context, jobs []matchJob) ([]matchOutcome, error) {
	ctx, span := o.tracer.Start(ctx, "simulate-matchday")
	defer span.End()

	outcomes := make([]matchOutcome, len(jobs))
	group, _ := errgroup.WithContext(ctx)
	for i, job := range jobs {
		group.Go(func() error {
			outcomes[i] = runMatch(job)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	// Canonical order: results are appended by (league, home, away), never
	// by completion order.
	sort.Slice(outcomes, func(i, j int) bool {
		a, b := outcomes[i].job.match, outcomes[j].job.match
		if a.LeagueID != b.LeagueID {
			return a.LeagueID < b.LeagueID
		}
		if a.HomeTeamID != b.HomeTeamID {
			return a.HomeTeamID < b.HomeTeamID
		}
		return a.AwayTeamID < b.AwayTeamID
	})
	return outcomes, nil
}

// runMatch executes one simulation worker.
func runMatch(job matchJob) matchOutcome {
	engine, err := sim.NewEngine(sim.Input{
		Match:         job.match,
		Home:          job.home,
		Away:          job.away,
		Stream:        random.Derive(job.seed, "engine"),
		HomeAdvantage: true,
	})
	if err != nil {
		return matchOutcome{job: job, err: err}
	}
	result, err := engine.Run()
	return matchOutcome{job: job, result: result, err: err}
}

// applyOutcomes appends every match's events in canonical order and folds
// them into the world. Aborted matches contribute a single match.aborted
// record and nothing else.
func (o *Orchestrator) applyOutcomes(ctx context.Context, outcomes []matchOutcome) (int, int, error) {
	var batch []event.Event
	played := 0

	for _, outcome := range outcomes {
		match := outcome.job.match
		if outcome.err != nil {
			aborted, err := event.Encode(event.KindMatchAborted, match.Date, &event.MatchAbortedPayload{
				MatchID: match.ID,
				Reason:  outcome.err.Error(),
			})
			if err != nil {
				return 0, 0, err
			}
			batch = append(batch, aborted)
			continue
		}

		started, err := event.Encode(event.KindMatchStarted, match.Date, &event.MatchStartedPayload{
			MatchID: match.ID,
			Seed:    outcome.job.seed,
		})
		if err != nil {
			return 0, 0, err
		}
		batch = append(batch, started)
		batch = append(batch, outcome.result.Events...)

		audit, err := headToHeadEvents(match, outcome.result)
		if err != nil {
			return 0, 0, err
		}
		batch = append(batch, audit...)

		narrative, err := o.narrativeEvents(outcome)
		if err != nil {
			return 0, 0, err
		}
		batch = append(batch, narrative...)
		played++
	}

	appended, err := o.appendAndApply(ctx, batch)
	if err != nil {
		return 0, 0, err
	}
	return len(appended), played, nil
}

// headToHeadEvents emits the audit trail for both ledgers of one result.
func headToHeadEvents(match *domain.Match, result sim.Result) ([]event.Event, error) {
	homeResult, awayResult := "D", "D"
	switch {
	case result.HomeScore > result.AwayScore:
		homeResult, awayResult = "W", "L"
	case result.AwayScore > result.HomeScore:
		homeResult, awayResult = "L", "W"
	}

	var events []event.Event
	for _, pair := range []struct {
		team, opponent, outcome string
	}{
		{match.HomeTeamID, match.AwayTeamID, homeResult},
		{match.AwayTeamID, match.HomeTeamID, awayResult},
	} {
		evt, err := event.Encode(event.KindHeadToHeadUpdated, match.Date, &event.HeadToHeadUpdatedPayload{
			TeamID:     pair.team,
			OpponentID: pair.opponent,
			Result:     pair.outcome,
		})
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, nil
}

// runSoftState invokes the collaborator for a phase, validates the batch and
// appends the outcome. Collaborator failures degrade to an empty update plus
// a validation_failed record; they never stop the matchday.
func (o *Orchestrator) runSoftState(ctx context.Context, phase softstate.Phase, results []*event.MatchEndedPayload) (int, error) {
	if o.collab == nil {
		return 0, nil
	}

	ctx, span := o.tracer.Start(ctx, "soft-state-"+string(phase))
	defer span.End()

	snapshot, err := o.WorldSnapshot()
	if err != nil {
		return 0, err
	}

	matchdayCtx := softstate.MatchdayContext{
		Matchdays: make(map[string]int),
		Results:   results,
	}
	o.mu.RLock()
	for _, leagueID := range o.world.LeagueIDs() {
		matchdayCtx.Matchdays[leagueID] = o.world.Leagues[leagueID].CurrentMatchday
	}
	timestamp := o.world.CurrentDate
	o.mu.RUnlock()

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.SoftStateTimeout)
	proposals, proposeErr := o.collab.Propose(callCtx, snapshot, phase, matchdayCtx)
	cancel()

	var batch []event.Event
	if proposeErr != nil {
		failed, err := event.Encode(event.KindValidationFailed, timestamp, &event.ValidationFailedPayload{
			Reason: fmt.Sprintf("collaborator %s: %v", phase, proposeErr),
		})
		if err != nil {
			return 0, err
		}
		batch = append(batch, failed)
	} else {
		o.mu.RLock()
		accepted, rejected := softstate.Validate(o.world, phase, proposals)
		o.mu.RUnlock()

		for _, payload := range accepted {
			evt, err := event.Encode(event.KindSoftStateUpdated, timestamp, payload)
			if err != nil {
				return 0, err
			}
			batch = append(batch, evt)
		}
		for _, payload := range rejected {
			evt, err := event.Encode(event.KindValidationFailed, timestamp, payload)
			if err != nil {
				return 0, err
			}
			batch = append(batch, evt)
		}
	}

	appended, err := o.appendAndApply(ctx, batch)
	if err != nil {
		return 0, err
	}
	return len(appended), nil
}

// seasonFullyPlayed reports whether every league has finished every fixture
// of its season.
func (o *Orchestrator) seasonFullyPlayed() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	for _, leagueID := range o.world.LeagueIDs() {
		league := o.world.Leagues[leagueID]
		if len(league.Fixtures) == 0 {
			return false
		}
		for matchday := 1; matchday <= league.TotalMatchdays; matchday++ {
			for _, matchID := range league.Fixtures[matchday] {
				match, ok := o.world.Match(matchID)
				if !ok || !match.Finished {
					return false
				}
			}
		}
	}
	return true
}

// rolloverSeason closes every league's season and schedules the next one.
func (o *Orchestrator) rolloverSeason(ctx context.Context) (int, error) {
	total := 0

	// Close the season league by league.
	var closings []event.Event
	o.mu.RLock()
	timestamp := o.world.CurrentDate
	for _, leagueID := range o.world.LeagueIDs() {
		league := o.world.Leagues[leagueID]
		payload := &event.SeasonEndedPayload{
			LeagueID: leagueID,
			Season:   league.Season,
		}
		if table := projection.LeagueTable(o.world, leagueID); len(table) > 0 {
			payload.ChampionID = table[0].TeamID
		}
		if scorers := projection.TopScorers(o.world, leagueID, league.Season, 1); len(scorers) > 0 {
			payload.TopScorerID = scorers[0].PlayerID
			payload.TopScorerGoals = scorers[0].Goals
		}
		if assisters := projection.TopAssisters(o.world, leagueID, league.Season, 1); len(assisters) > 0 {
			payload.TopAssisterID = assisters[0].PlayerID
			payload.TopAssisterAssists = assisters[0].Assists
		}
		if keeperTeam, cleanSheets := projection.MostCleanSheets(o.world, leagueID); keeperTeam != "" {
			payload.BestKeeperID = keeperTeam
			payload.CleanSheets = cleanSheets
		}
		evt, err := event.Encode(event.KindSeasonEnded, timestamp, payload)
		if err != nil {
			o.mu.RUnlock()
			return 0, err
		}
		closings = append(closings, evt)
	}
	o.mu.RUnlock()

	appended, err := o.appendAndApply(ctx, closings)
	if err != nil {
		return 0, err
	}
	total += len(appended)

	// Schedule the new season from the rolled-over world state.
	var fixtures []event.Event
	o.mu.RLock()
	genesis := o.world.CurrentDate.AddDate(0, 0, 7)
	for _, leagueID := range o.world.LeagueIDs() {
		league := o.world.Leagues[leagueID]
		payloads, err := schedule.GenerateSeason(o.world, league, league.Season, genesis, o.world.Seed)
		if err != nil {
			o.mu.RUnlock()
			return total, err
		}
		for _, payload := range payloads {
			evt, err := event.Encode(event.KindMatchScheduled, timestamp, payload)
			if err != nil {
				o.mu.RUnlock()
				return total, err
			}
			fixtures = append(fixtures, evt)
		}
	}
	o.mu.RUnlock()

	appended, err = o.appendAndApply(ctx, fixtures)
	if err != nil {
		return total, err
	}
	total += len(appended)

	// Move the calendar into the new season's first week.
	calendar, err := event.Encode(event.KindCalendarAdvanced, genesis, &event.CalendarAdvancedPayload{
		Date:      genesis.Format("2006-01-02"),
		Matchdays: map[string]int{},
	})
	if err != nil {
		return total, err
	}
	appended, err = o.appendAndApply(ctx, []event.Event{calendar})
	if err != nil {
		return total, err
	}
	total += len(appended)

	return total, nil
}

// advanceCalendar moves every unfinished league one matchday forward and the
// world date one week. It reports false when nothing could move.
func (o *Orchestrator) advanceCalendar(ctx context.Context) (int, bool, error) {
	o.mu.RLock()
	matchdays := make(map[string]int)
	for _, leagueID := range o.world.LeagueIDs() {
		league := o.world.Leagues[leagueID]
		if league.CurrentMatchday < league.TotalMatchdays {
			matchdays[leagueID] = league.CurrentMatchday + 1
		}
	}
	date := o.world.CurrentDate.AddDate(0, 0, 7)
	o.mu.RUnlock()

	if len(matchdays) == 0 {
		return 0, false, nil
	}

	evt, err := event.Encode(event.KindCalendarAdvanced, date, &event.CalendarAdvancedPayload{
		Date:      date.Format("2006-01-02"),
		Matchdays: matchdays,
	})
	if err != nil {
		return 0, false, err
	}
	appended, err := o.appendAndApply(ctx, []event.Event{evt})
	if err != nil {
		return 0, false, err
	}
	return len(appended), true, nil
}
