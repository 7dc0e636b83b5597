package event

import (
	"strings"
	"time"
)

// Kind identifies the type of a world event. Kind strings are stable wire
// tags; renaming one is a log-breaking change.
type Kind string

// World lifecycle events.
const (
	// KindWorldInitialized records the genesis of a world.
	KindWorldInitialized Kind = "world.initialized"
	// KindCalendarAdvanced records the weekly calendar step across leagues.
	KindCalendarAdvanced Kind = "calendar.advanced"
	// KindSeasonEnded records the completion of a league season.
	KindSeasonEnded Kind = "season.ended"
)

// Match lifecycle and in-match events.
const (
	// KindMatchScheduled records a fixture entering the calendar.
	KindMatchScheduled Kind = "match.scheduled"
	// KindMatchStarted records the start of a simulated match.
	KindMatchStarted Kind = "match.started"
	// KindKickOff records the opening whistle.
	KindKickOff Kind = "match.kickoff"
	// KindGoal records a goal, including penalty conversions.
	KindGoal Kind = "match.goal"
	// KindYellowCard records a caution.
	KindYellowCard Kind = "match.yellow_card"
	// KindRedCard records a dismissal, straight or second yellow.
	KindRedCard Kind = "match.red_card"
	// KindSubstitution records a player swap.
	KindSubstitution Kind = "match.substitution"
	// KindInjury records an in-match injury.
	KindInjury Kind = "match.injury"
	// KindCornerKick records a corner.
	KindCornerKick Kind = "match.corner"
	// KindFoul records a foul without a card.
	KindFoul Kind = "match.foul"
	// KindFreeKick records a free kick award.
	KindFreeKick Kind = "match.free_kick"
	// KindPenaltyAwarded records a penalty award (conversion is a Goal).
	KindPenaltyAwarded Kind = "match.penalty_awarded"
	// KindOffside records an offside call.
	KindOffside Kind = "match.offside"
	// KindMatchEnded records the final whistle with summary statistics.
	KindMatchEnded Kind = "match.ended"
	// KindMatchAborted records a match the engine could not complete.
	KindMatchAborted Kind = "match.aborted"
)

// Soft-state events.
const (
	// KindSoftStateUpdated records a validated collaborator adjustment.
	KindSoftStateUpdated Kind = "softstate.updated"
	// KindValidationFailed records a rejected proposal or collaborator failure.
	KindValidationFailed Kind = "softstate.validation_failed"
)

// Narrative events.
const (
	// KindMediaStoryPublished records a media outlet story.
	KindMediaStoryPublished Kind = "media.story_published"
	// KindOwnerStatementIssued records a club owner statement.
	KindOwnerStatementIssued Kind = "owner.statement_issued"
	// KindHeadToHeadUpdated records a head-to-head ledger change for audit.
	KindHeadToHeadUpdated Kind = "team.head_to_head_updated"
)

// Event is an immutable record in the append-only world log.
type Event struct {
	// Seq is the global sequence number, assigned by storage on append.
	// Sequences are monotonic and gap-free.
	Seq uint64
	// Timestamp is the world time the event occurred. It is derived from the
	// simulated calendar, never from the wall clock, so replayed logs are
	// byte-identical.
	Timestamp time.Time
	// Kind identifies the payload variant.
	Kind Kind
	// PayloadJSON holds the kind-specific payload as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event kind is usable.
func (k Kind) IsValid() bool {
	return strings.TrimSpace(string(k)) != ""
}

// Domain returns the domain prefix of the event kind (e.g. "match", "season").
func (k Kind) Domain() string {
	for i, c := range k {
		if c == '.' {
			return string(k[:i])
		}
	}
	return string(k)
}
