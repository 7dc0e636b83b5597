package event

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/sgb-io/back-of-the-neural-net/internal/errors"
)

// ErrUnknownKind reports a payload kind the codec has no prototype for.
var ErrUnknownKind = apperrors.New(apperrors.CodeUnknownKind, "unknown event kind")

// prototypes maps each kind to a constructor for its payload type. The map is
// the single source of truth for log evolution: a kind missing here is
// unknown to replay.
var prototypes = map[Kind]func() any{
	KindWorldInitialized:     func() any { return &WorldInitializedPayload{} },
	KindCalendarAdvanced:     func() any { return &CalendarAdvancedPayload{} },
	KindSeasonEnded:          func() any { return &SeasonEndedPayload{} },
	KindMatchScheduled:       func() any { return &MatchScheduledPayload{} },
	KindMatchStarted:         func() any { return &MatchStartedPayload{} },
	KindMatchAborted:         func() any { return &MatchAbortedPayload{} },
	KindKickOff:              func() any { return &KickOffPayload{} },
	KindGoal:                 func() any { return &GoalPayload{} },
	KindYellowCard:           func() any { return &YellowCardPayload{} },
	KindRedCard:              func() any { return &RedCardPayload{} },
	KindSubstitution:         func() any { return &SubstitutionPayload{} },
	KindInjury:               func() any { return &InjuryPayload{} },
	KindCornerKick:           func() any { return &CornerKickPayload{} },
	KindFoul:                 func() any { return &FoulPayload{} },
	KindFreeKick:             func() any { return &FreeKickPayload{} },
	KindPenaltyAwarded:       func() any { return &PenaltyAwardedPayload{} },
	KindOffside:              func() any { return &OffsidePayload{} },
	KindMatchEnded:           func() any { return &MatchEndedPayload{} },
	KindSoftStateUpdated:     func() any { return &SoftStateUpdatedPayload{} },
	KindValidationFailed:     func() any { return &ValidationFailedPayload{} },
	KindMediaStoryPublished:  func() any { return &MediaStoryPublishedPayload{} },
	KindOwnerStatementIssued: func() any { return &OwnerStatementIssuedPayload{} },
	KindHeadToHeadUpdated:    func() any { return &HeadToHeadUpdatedPayload{} },
}

// Known reports whether the codec can decode the given kind.
func Known(kind Kind) bool {
	_, ok := prototypes[kind]
	return ok
}

// Kinds returns every kind the codec knows, for registry validation in tests.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(prototypes))
	for k := range prototypes {
		kinds = append(kinds, k)
	}
	return kinds
}

// Encode serializes a payload into an event envelope. The timestamp comes
// from the simulated calendar; Seq is left for storage to assign.
func Encode(kind Kind, timestamp time.Time, payload any) (Event, error) {
	if !kind.IsValid() {
		return Event{}, fmt.Errorf("event kind is required")
	}
	if _, ok := prototypes[kind]; !ok {
		return Event{}, fmt.Errorf("encode %s: %w", kind, ErrUnknownKind)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return Event{
		Timestamp: timestamp.UTC(),
		Kind:      kind,
		PayloadJSON: data,
	}, nil
}

// Decode deserializes an event's payload into its typed struct.
//
// Unknown kinds return ErrUnknownKind; the replayer decides whether that is
// fatal (strict mode, the default) or logged and skipped.
func Decode(evt Event) (any, error) {
	ctor, ok := prototypes[evt.Kind]
	if !ok {
		return nil, fmt.Errorf("decode seq %d kind %q: %w", evt.Seq, evt.Kind, ErrUnknownKind)
	}
	payload := ctor()
	if err := json.Unmarshal(evt.PayloadJSON, payload); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLogCorrupt,
			fmt.Sprintf("decode seq %d kind %s", evt.Seq, evt.Kind), err)
	}
	return payload, nil
}
