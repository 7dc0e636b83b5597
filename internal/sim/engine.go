// Package sim is the deterministic match engine.
//
// An Engine consumes immutable team snapshots plus a derived random stream
// and produces the ordered event sequence for one match, ending with exactly
// one match.ended event. Two runs with the same inputs emit identical events.
package sim

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
	apperrors "github.com/sgb-io/back-of-the-neural-net/internal/errors"
	"github.com/sgb-io/back-of-the-neural-net/internal/platform/random"
)

// state is the engine lifecycle.
type state int

const (
	stateCreated state = iota
	stateKickedOff
	stateRunning
	stateEnded
)

func (s state) String() string {
	switch s {
	case stateCreated:
		return "created"
	case stateKickedOff:
		return "kicked-off"
	case stateRunning:
		return "running"
	case stateEnded:
		return "ended"
	}
	return "unknown"
}

// TeamInput is one side's immutable snapshot. The engine takes ownership of
// the player copies and mutates them freely (fitness, cards); callers must
// pass clones, never live world entities.
type TeamInput struct {
	Team    *domain.Team
	Players []*domain.Player
}

// Input carries everything one match simulation needs.
type Input struct {
	Match  *domain.Match
	Home   TeamInput
	Away   TeamInput
	Stream *random.Stream
	// HomeAdvantage applies the home strength multiplier; neutral-venue
	// matches turn it off.
	HomeAdvantage bool
}

// Result is the finished match output.
type Result struct {
	// Events is the full ordered stream: match.kickoff through match.ended.
	Events    []event.Event
	HomeScore int
	AwayScore int
	Ended     *event.MatchEndedPayload
}

// matchPlayer wraps a player with in-match state.
type matchPlayer struct {
	player    *domain.Player
	fitness   float64
	on        bool
	enteredAt int
	leftAt    int // 0 while still on
	yellows   int
	sentOff   bool
	injured   bool
	goals     int
	assists   int
	reds      int
}

// matchSide is one team's in-match state.
type matchSide struct {
	team    *domain.Team
	players []*matchPlayer // starters then bench, stable order
	bench   []*matchPlayer
	subs    int
	stats   event.TeamMatchStats
}

func (s *matchSide) onField() []*matchPlayer {
	active := make([]*matchPlayer, 0, 11)
	for _, mp := range s.players {
		if mp.on {
			active = append(active, mp)
		}
	}
	return active
}

// Engine simulates one match.
type Engine struct {
	input  Input
	stream *random.Stream
	state  state

	home *matchSide
	away *matchSide

	minute     int
	homeScore  int
	awayScore  int
	possession [2]int // minutes of possession, home then away

	events     []event.Event
	commentary []string
}

// NewEngine validates input and prepares both lineups.
func NewEngine(input Input) (*Engine, error) {
	if input.Match == nil {
		return nil, fmt.Errorf("match is required")
	}
	if input.Stream == nil {
		return nil, fmt.Errorf("random stream is required")
	}

	engine := &Engine{input: input, stream: input.Stream, state: stateCreated}

	var err error
	engine.home, err = newSide(input.Home)
	if err != nil {
		return nil, fmt.Errorf("home side: %w", err)
	}
	engine.away, err = newSide(input.Away)
	if err != nil {
		return nil, fmt.Errorf("away side: %w", err)
	}
	return engine, nil
}

func newSide(input TeamInput) (*matchSide, error) {
	if input.Team == nil {
		return nil, fmt.Errorf("team is required")
	}
	lineup, err := SelectStartingEleven(input.Players)
	if err != nil {
		return nil, err
	}

	side := &matchSide{team: input.Team}
	for _, p := range lineup.Starters {
		side.players = append(side.players, &matchPlayer{player: p, fitness: float64(p.Fitness), on: true})
	}
	for _, p := range lineup.Bench {
		mp := &matchPlayer{player: p, fitness: float64(p.Fitness)}
		side.players = append(side.players, mp)
		side.bench = append(side.bench, mp)
	}
	return side, nil
}

// transition moves the engine between lifecycle states; illegal moves are
// fatal engine errors.
func (e *Engine) transition(to state) error {
	legal := map[state]state{
		stateCreated:   stateKickedOff,
		stateKickedOff: stateRunning,
		stateRunning:   stateEnded,
	}
	if next, ok := legal[e.state]; !ok || next != to {
		return apperrors.New(apperrors.CodeEngineStateViolation,
			fmt.Sprintf("illegal transition %s -> %s", e.state, to))
	}
	e.state = to
	return nil
}

func (e *Engine) timestamp() time.Time {
	return e.input.Match.Date
}

func (e *Engine) emit(kind event.Kind, payload any) error {
	evt, err := event.Encode(kind, e.timestamp(), payload)
	if err != nil {
		return err
	}
	e.events = append(e.events, evt)
	return nil
}

func (e *Engine) say(format string, args ...any) {
	e.commentary = append(e.commentary, fmt.Sprintf("%d' - ", e.minute)+fmt.Sprintf(format, args...))
}

// Run simulates the full 90 minutes and returns the event stream.
func (e *Engine) Run() (Result, error) {
	if err := e.transition(stateKickedOff); err != nil {
		return Result{}, err
	}
	if err := e.emit(event.KindKickOff, &event.KickOffPayload{MatchID: e.input.Match.ID}); err != nil {
		return Result{}, err
	}
	e.minute = 0
	e.say("Kick-off at %s", e.home.team.Stadium.Name)

	if err := e.transition(stateRunning); err != nil {
		return Result{}, err
	}

	for minute := 1; minute <= 90; minute++ {
		e.minute = minute
		e.trackPossession()
		e.trackShotAttempt()

		if e.stream.Chance(e.eventProbability()) {
			if err := e.resolveMinute(); err != nil {
				return Result{}, err
			}
		}

		e.drainFitness()
	}

	if err := e.transition(stateEnded); err != nil {
		return Result{}, err
	}
	return e.finish()
}

// eventProbability modulates the base chance by the combined attacking
// strength of both sides and the weather.
func (e *Engine) eventProbability() float64 {
	combined := e.strength(e.home, true) + e.strength(e.away, false)
	p := PEventBase * (0.9 + combined/500)
	switch e.input.Match.Weather {
	case domain.WeatherSnowy:
		p *= 0.92
	case domain.WeatherRainy:
		p *= 0.96
	}
	if p < 0.25 {
		p = 0.25
	}
	if p > 0.55 {
		p = 0.55
	}
	return p
}

// strength folds home advantage and fitness into the side's raw strength.
func (e *Engine) strength(side *matchSide, home bool) float64 {
	value := teamStrength(side)
	if home && e.input.HomeAdvantage {
		value *= HomeAdvantage
	}
	value *= 0.5 + fitnessMean(side)/200
	return value
}

// attackingSide picks the side an attacking event belongs to. Strengths are
// raised to StrengthSharpness first so quality gaps show up in results, not
// only in possession.
func (e *Engine) attackingSide() (*matchSide, *matchSide) {
	homeStrength := math.Pow(e.strength(e.home, true), StrengthSharpness)
	awayStrength := math.Pow(e.strength(e.away, false), StrengthSharpness)
	if e.stream.Float64() < homeStrength/(homeStrength+awayStrength) {
		return e.home, e.away
	}
	return e.away, e.home
}

func (e *Engine) resolveMinute() error {
	target := e.stream.Float64()
	cumulative := 0.0
	kind := kindIdle
	for _, wk := range kindWeights() {
		cumulative += wk.weight
		if target < cumulative {
			kind = wk.kind
			break
		}
	}

	switch kind {
	case kindGoal:
		return e.resolveGoal()
	case kindFoul:
		return e.resolveFoul()
	case kindYellowCard:
		return e.resolveYellowCard()
	case kindRedCard:
		return e.resolveRedCard()
	case kindSubstitution:
		return e.resolveSubstitution()
	case kindCorner:
		return e.resolveCorner()
	case kindFreeKick:
		return e.resolveFreeKick()
	case kindOffside:
		return e.resolveOffside()
	case kindInjury:
		return e.resolveInjury()
	case kindPenalty:
		return e.resolvePenalty()
	default:
		return nil
	}
}

func (e *Engine) sideID(side *matchSide) string {
	return side.team.ID
}

func (e *Engine) isHome(side *matchSide) bool {
	return side == e.home
}

func (e *Engine) recordGoal(side *matchSide) {
	if e.isHome(side) {
		e.homeScore++
	} else {
		e.awayScore++
	}
	side.stats.Shots++
	side.stats.ShotsOnTarget++
}

// pickScorer resolves the scorer per the attacking-position rule.
func (e *Engine) pickScorer(side *matchSide) *matchPlayer {
	players := side.onField()
	attacking := e.stream.Chance(AttackingScorerChance)

	candidates := make([]random.Weighted, 0, len(players))
	for _, mp := range players {
		p := mp.player
		if p.Position == domain.PositionGK {
			continue
		}
		if attacking && !p.Position.IsAttacking() {
			continue
		}
		weight := float64(p.Shooting + p.Pace + p.Form)
		candidates = append(candidates, random.Weighted{ID: p.ID, Weight: weight})
	}
	if len(candidates) == 0 {
		// No attacker on the pitch; reopen to every outfielder.
		for _, mp := range players {
			if mp.player.Position == domain.PositionGK {
				continue
			}
			candidates = append(candidates, random.Weighted{
				ID:     mp.player.ID,
				Weight: float64(mp.player.Shooting + mp.player.Pace + mp.player.Form),
			})
		}
	}
	return side.byID(random.WeightedPick(e.stream, candidates))
}

// pickAssister resolves an optional assist from non-scorer outfielders.
func (e *Engine) pickAssister(side *matchSide, scorer *matchPlayer) *matchPlayer {
	if !e.stream.Chance(AssistChance) {
		return nil
	}
	candidates := make([]random.Weighted, 0, 10)
	for _, mp := range side.onField() {
		p := mp.player
		if p.ID == scorer.player.ID || p.Position == domain.PositionGK {
			continue
		}
		candidates = append(candidates, random.Weighted{ID: p.ID, Weight: float64(p.Passing)})
	}
	if len(candidates) == 0 {
		return nil
	}
	return side.byID(random.WeightedPick(e.stream, candidates))
}

func (s *matchSide) byID(id string) *matchPlayer {
	for _, mp := range s.players {
		if mp.player.ID == id {
			return mp
		}
	}
	return nil
}

func (e *Engine) resolveGoal() error {
	attacking, _ := e.attackingSide()
	scorer := e.pickScorer(attacking)
	if scorer == nil {
		return nil
	}
	assister := e.pickAssister(attacking, scorer)

	e.recordGoal(attacking)
	scorer.goals++
	assist := ""
	if assister != nil {
		assister.assists++
		assist = assister.player.ID
	}

	if assister != nil {
		e.say("GOAL! %s scores for %s, assisted by %s", scorer.player.Name, attacking.team.Name, assister.player.Name)
	} else {
		e.say("GOAL! %s scores for %s", scorer.player.Name, attacking.team.Name)
	}

	return e.emit(event.KindGoal, &event.GoalPayload{
		MatchID:   e.input.Match.ID,
		Minute:    e.minute,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
		Team:      e.sideID(attacking),
		Scorer:    scorer.player.ID,
		Assist:    assist,
	})
}

var foulSeverities = []string{"regular", "dangerous", "professional"}

// pickFouler weights by low defending: clumsier defenders concede more.
func (e *Engine) pickFouler(side *matchSide) *matchPlayer {
	candidates := make([]random.Weighted, 0, 11)
	for _, mp := range side.onField() {
		candidates = append(candidates, random.Weighted{
			ID:     mp.player.ID,
			Weight: float64(100 - mp.player.Defending),
		})
	}
	return side.byID(random.WeightedPick(e.stream, candidates))
}

// pickDissenter weights by low morale: frustrated players pick up cards.
func (e *Engine) pickDissenter(side *matchSide) *matchPlayer {
	candidates := make([]random.Weighted, 0, 11)
	for _, mp := range side.onField() {
		candidates = append(candidates, random.Weighted{
			ID:     mp.player.ID,
			Weight: float64(100 - mp.player.Morale),
		})
	}
	return side.byID(random.WeightedPick(e.stream, candidates))
}

func (e *Engine) resolveFoul() error {
	// The side under pressure fouls more: inverse of attacking strength.
	_, defending := e.attackingSide()
	fouler := e.pickFouler(defending)
	if fouler == nil {
		return nil
	}
	defending.stats.Fouls++
	severity := foulSeverities[e.stream.Intn(len(foulSeverities))]
	e.say("%s brings down an opponent (%s foul)", fouler.player.Name, severity)
	return e.emit(event.KindFoul, &event.FoulPayload{
		MatchID:   e.input.Match.ID,
		Minute:    e.minute,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
		Player:    fouler.player.ID,
		Team:      e.sideID(defending),
		Severity:  severity,
	})
}

var yellowCardReasons = []string{
	"Unsporting behavior",
	"Dissent",
	"Persistent fouling",
	"Delaying the game",
	"Simulation",
}

var redCardReasons = []string{"Serious foul play", "Violent conduct", "Offensive language"}

func (e *Engine) pickCardSide() *matchSide {
	if e.stream.Chance(0.5) {
		return e.home
	}
	return e.away
}

func (e *Engine) resolveYellowCard() error {
	side := e.pickCardSide()
	player := e.pickDissenter(side)
	if player == nil {
		return nil
	}

	if player.yellows >= 1 {
		// Second yellow converts to a red.
		return e.sendOff(side, player, "Second yellow card")
	}

	player.yellows++
	side.stats.YellowCards++
	reason := yellowCardReasons[e.stream.Intn(len(yellowCardReasons))]
	e.say("Yellow card for %s (%s)", player.player.Name, reason)
	return e.emit(event.KindYellowCard, &event.YellowCardPayload{
		MatchID:   e.input.Match.ID,
		Minute:    e.minute,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
		Player:    player.player.ID,
		Team:      e.sideID(side),
		Reason:    reason,
	})
}

func (e *Engine) resolveRedCard() error {
	side := e.pickCardSide()
	player := e.pickDissenter(side)
	if player == nil {
		return nil
	}
	reason := redCardReasons[e.stream.Intn(len(redCardReasons))]
	return e.sendOff(side, player, reason)
}

func (e *Engine) sendOff(side *matchSide, player *matchPlayer, reason string) error {
	player.sentOff = true
	player.reds++
	player.on = false
	player.leftAt = e.minute
	side.stats.RedCards++
	e.say("RED CARD! %s is sent off (%s)", player.player.Name, reason)
	return e.emit(event.KindRedCard, &event.RedCardPayload{
		MatchID:   e.input.Match.ID,
		Minute:    e.minute,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
		Player:    player.player.ID,
		Team:      e.sideID(side),
		Reason:    reason,
	})
}

// resolveSubstitution swaps the most tired on-field player for the strongest
// bench option, after minute 45 and at most three times per team.
func (e *Engine) resolveSubstitution() error {
	if e.minute < SubstitutionEarliestMinute {
		return nil
	}
	side := e.pickCardSide()
	if side.subs >= MaxSubstitutions {
		return nil
	}

	var off *matchPlayer
	for _, mp := range side.onField() {
		if mp.player.Position == domain.PositionGK {
			continue
		}
		if off == nil || mp.fitness < off.fitness ||
			(mp.fitness == off.fitness && mp.player.ID < off.player.ID) {
			off = mp
		}
	}
	var on *matchPlayer
	for _, mp := range side.bench {
		if mp.on || mp.sentOff || mp.injured || mp.leftAt > 0 {
			continue
		}
		if mp.player.Position == domain.PositionGK {
			continue
		}
		if on == nil || mp.player.OverallRating() > on.player.OverallRating() ||
			(mp.player.OverallRating() == on.player.OverallRating() && mp.player.ID < on.player.ID) {
			on = mp
		}
	}
	if off == nil || on == nil {
		return nil
	}

	off.on = false
	off.leftAt = e.minute
	on.on = true
	on.enteredAt = e.minute
	side.subs++

	e.say("Substitution for %s: %s replaces %s", side.team.Name, on.player.Name, off.player.Name)
	return e.emit(event.KindSubstitution, &event.SubstitutionPayload{
		MatchID:   e.input.Match.ID,
		Minute:    e.minute,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
		Team:      e.sideID(side),
		PlayerOff: off.player.ID,
		PlayerOn:  on.player.ID,
	})
}

func (e *Engine) resolveCorner() error {
	attacking, _ := e.attackingSide()
	attacking.stats.Corners++
	e.say("Corner for %s", attacking.team.Name)
	return e.emit(event.KindCornerKick, &event.CornerKickPayload{
		MatchID:   e.input.Match.ID,
		Minute:    e.minute,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
		Team:      e.sideID(attacking),
	})
}

func (e *Engine) resolveFreeKick() error {
	attacking, _ := e.attackingSide()
	attacking.stats.FreeKicks++

	kind := "indirect"
	if e.stream.Chance(FreeKickDirectChance) {
		kind = "direct"
	}
	location := "safe"
	if e.stream.Chance(FreeKickDangerChance) {
		location = "dangerous"
	}
	e.say("%s free kick for %s in a %s position", kind, attacking.team.Name, location)
	return e.emit(event.KindFreeKick, &event.FreeKickPayload{
		MatchID:   e.input.Match.ID,
		Minute:    e.minute,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
		Team:      e.sideID(attacking),
		Kind:      kind,
		Location:  location,
	})
}

func (e *Engine) resolveOffside() error {
	attacking, _ := e.attackingSide()
	attacking.stats.Offsides++

	candidates := make([]random.Weighted, 0, 4)
	for _, mp := range attacking.onField() {
		if mp.player.Position.IsForward() {
			candidates = append(candidates, random.Weighted{ID: mp.player.ID, Weight: float64(mp.player.Pace)})
		}
	}
	playerID := random.WeightedPick(e.stream, candidates)
	player := attacking.byID(playerID)
	if player != nil {
		e.say("%s is flagged offside", player.player.Name)
	} else {
		e.say("%s are caught offside", attacking.team.Name)
	}
	return e.emit(event.KindOffside, &event.OffsidePayload{
		MatchID:   e.input.Match.ID,
		Minute:    e.minute,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
		Team:      e.sideID(attacking),
		Player:    playerID,
	})
}

var injuryTypes = []string{
	"Muscle strain", "Ankle sprain", "Knee injury", "Hamstring pull",
	"Shoulder injury", "Back strain", "Concussion", "Bruised ribs",
}

func (e *Engine) resolveInjury() error {
	side := e.pickCardSide()

	candidates := make([]random.Weighted, 0, 11)
	for _, mp := range side.onField() {
		if mp.injured {
			continue
		}
		// Lower fitness, higher risk.
		candidates = append(candidates, random.Weighted{ID: mp.player.ID, Weight: 110 - mp.fitness})
	}
	if len(candidates) == 0 {
		return nil
	}
	player := side.byID(random.WeightedPick(e.stream, candidates))
	if player == nil {
		return nil
	}

	injuryType := injuryTypes[e.stream.Intn(len(injuryTypes))]
	severityRoll := e.stream.Float64()
	severity := "minor"
	weeksOut := e.stream.IntBetween(1, 2)
	switch {
	case severityRoll >= 0.9:
		severity = "severe"
		weeksOut = e.stream.IntBetween(7, 16)
	case severityRoll >= 0.6:
		severity = "moderate"
		weeksOut = e.stream.IntBetween(3, 6)
	}

	player.injured = true
	e.say("%s goes down injured (%s, %s)", player.player.Name, injuryType, severity)
	return e.emit(event.KindInjury, &event.InjuryPayload{
		MatchID:   e.input.Match.ID,
		Minute:    e.minute,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
		Player:    player.player.ID,
		Team:      e.sideID(side),
		Type:      injuryType,
		Severity:  severity,
		WeeksOut:  weeksOut,
	})
}

var penaltyReasons = []string{
	"Foul in the box",
	"Handball",
	"Tripping an attacker",
	"Dangerous play in the box",
}

func (e *Engine) resolvePenalty() error {
	attacking, _ := e.attackingSide()
	attacking.stats.Penalties++

	reason := penaltyReasons[e.stream.Intn(len(penaltyReasons))]
	e.say("Penalty to %s! %s", attacking.team.Name, reason)
	if err := e.emit(event.KindPenaltyAwarded, &event.PenaltyAwardedPayload{
		MatchID:   e.input.Match.ID,
		Minute:    e.minute,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
		Team:      e.sideID(attacking),
		Reason:    reason,
	}); err != nil {
		return err
	}

	if !e.stream.Chance(PenaltyConversion) {
		attacking.stats.Shots++
		e.say("The penalty is saved!")
		return nil
	}

	// The taker comes from the penalty group: strikers and the playmaker.
	candidates := make([]random.Weighted, 0, 4)
	for _, mp := range attacking.onField() {
		p := mp.player
		if p.Position == domain.PositionST || p.Position == domain.PositionCAM {
			candidates = append(candidates, random.Weighted{ID: p.ID, Weight: float64(p.Shooting)})
		}
	}
	if len(candidates) == 0 {
		for _, mp := range attacking.onField() {
			if mp.player.Position != domain.PositionGK {
				candidates = append(candidates, random.Weighted{ID: mp.player.ID, Weight: float64(mp.player.Shooting)})
			}
		}
	}
	taker := attacking.byID(random.WeightedPick(e.stream, candidates))
	if taker == nil {
		return nil
	}

	e.recordGoal(attacking)
	taker.goals++
	e.say("GOAL! %s converts the penalty for %s", taker.player.Name, attacking.team.Name)
	return e.emit(event.KindGoal, &event.GoalPayload{
		MatchID:   e.input.Match.ID,
		Minute:    e.minute,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
		Team:      e.sideID(attacking),
		Scorer:    taker.player.ID,
		Penalty:   true,
	})
}

func (e *Engine) trackPossession() {
	homeStrength := e.strength(e.home, true)
	awayStrength := e.strength(e.away, false)
	if e.stream.Float64() < homeStrength/(homeStrength+awayStrength) {
		e.possession[0]++
	} else {
		e.possession[1]++
	}
}

func (e *Engine) trackShotAttempt() {
	if !e.stream.Chance(ShotAttemptChance) {
		return
	}
	attacking, _ := e.attackingSide()
	attacking.stats.Shots++
	if e.stream.Chance(ShotOnTargetFraction) {
		attacking.stats.ShotsOnTarget++
	}
}

func (e *Engine) drainFitness() {
	for _, side := range []*matchSide{e.home, e.away} {
		for _, mp := range side.onField() {
			mp.fitness -= FitnessDrainPerMinute
			if mp.fitness < 0 {
				mp.fitness = 0
			}
		}
	}
}

// finish derives possession, ratings and summary statistics, then emits the
// closing match.ended event.
func (e *Engine) finish() (Result, error) {
	total := e.possession[0] + e.possession[1]
	homePossession := 50
	if total > 0 {
		homePossession = int(math.Round(float64(e.possession[0]) / float64(total) * 100))
	}
	e.home.stats.Possession = homePossession
	e.away.stats.Possession = 100 - homePossession

	minutes := make(map[string]int)
	ratings := make(map[string]float64)
	for _, side := range []*matchSide{e.home, e.away} {
		conceded := e.awayScore
		if side == e.away {
			conceded = e.homeScore
		}
		for _, mp := range side.players {
			played := e.minutesPlayed(mp)
			if played == 0 {
				continue
			}
			minutes[mp.player.ID] = played
			ratings[mp.player.ID] = playerRating(mp, conceded)
		}
	}

	e.say("Full time: %s %d - %d %s", e.home.team.Name, e.homeScore, e.awayScore, e.away.team.Name)

	ended := &event.MatchEndedPayload{
		MatchID:       e.input.Match.ID,
		LeagueID:      e.input.Match.LeagueID,
		Season:        e.input.Match.Season,
		Matchday:      e.input.Match.Matchday,
		HomeTeam:      e.home.team.ID,
		AwayTeam:      e.away.team.ID,
		HomeScore:     e.homeScore,
		AwayScore:     e.awayScore,
		Home:          e.home.stats,
		Away:          e.away.stats,
		PlayerRatings: ratings,
		MinutesPlayed: minutes,
		Commentary:    append([]string(nil), e.commentary...),
	}
	if err := e.emit(event.KindMatchEnded, ended); err != nil {
		return Result{}, err
	}

	e.sortWithinMinutes()

	return Result{
		Events:    e.events,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
		Ended:     ended,
	}, nil
}

func (e *Engine) minutesPlayed(mp *matchPlayer) int {
	switch {
	case mp.leftAt > 0:
		return mp.leftAt - mp.enteredAt
	case mp.on:
		return 90 - mp.enteredAt
	default:
		return 0
	}
}

// subOrder fixes the within-minute ordering: kick-off, fouls, cards, goals,
// substitutions, then the rest.
func subOrder(kind event.Kind) int {
	switch kind {
	case event.KindKickOff:
		return 0
	case event.KindFoul:
		return 1
	case event.KindYellowCard, event.KindRedCard:
		return 2
	case event.KindPenaltyAwarded:
		return 3
	case event.KindGoal:
		return 4
	case event.KindSubstitution:
		return 5
	case event.KindMatchEnded:
		return 9
	default:
		return 6
	}
}

// sortWithinMinutes stable-sorts the stream by (minute, sub-order). The
// stream is generated minute by minute, so this only reorders events that
// share a minute.
func (e *Engine) sortWithinMinutes() {
	type keyed struct {
		minute int
		evt    event.Event
	}
	keyedEvents := make([]keyed, len(e.events))
	for i, evt := range e.events {
		keyedEvents[i] = keyed{minute: eventMinute(evt), evt: evt}
	}
	sort.SliceStable(keyedEvents, func(i, j int) bool {
		if keyedEvents[i].minute != keyedEvents[j].minute {
			return keyedEvents[i].minute < keyedEvents[j].minute
		}
		return subOrder(keyedEvents[i].evt.Kind) < subOrder(keyedEvents[j].evt.Kind)
	})
	for i := range keyedEvents {
		e.events[i] = keyedEvents[i].evt
	}
}

// eventMinute extracts the minute from a match event payload for ordering.
func eventMinute(evt event.Event) int {
	payload, err := event.Decode(evt)
	if err != nil {
		return 0
	}
	switch p := payload.(type) {
	case *event.KickOffPayload:
		return p.Minute
	case *event.GoalPayload:
		return p.Minute
	case *event.YellowCardPayload:
		return p.Minute
	case *event.RedCardPayload:
		return p.Minute
	case *event.SubstitutionPayload:
		return p.Minute
	case *event.InjuryPayload:
		return p.Minute
	case *event.CornerKickPayload:
		return p.Minute
	case *event.FoulPayload:
		return p.Minute
	case *event.FreeKickPayload:
		return p.Minute
	case *event.PenaltyAwardedPayload:
		return p.Minute
	case *event.OffsidePayload:
		return p.Minute
	case *event.MatchEndedPayload:
		return 91
	default:
		return 0
	}
}
