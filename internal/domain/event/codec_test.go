package event

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/sgb-io/back-of-the-neural-net/internal/errors"
)

func TestEncodeDecodeGoal(t *testing.T) {
	ts := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	evt, err := Encode(KindGoal, ts, &GoalPayload{
		MatchID:   "m1",
		Minute:    23,
		HomeScore: 1,
		Team:      "united-dragons",
		Scorer:    "p42",
		Assist:    "p17",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if evt.Kind != KindGoal {
		t.Fatalf("expected kind %s, got %s", KindGoal, evt.Kind)
	}
	if !evt.Timestamp.Equal(ts) {
		t.Fatalf("expected timestamp preserved, got %v", evt.Timestamp)
	}

	decoded, err := Decode(evt)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	goal, ok := decoded.(*GoalPayload)
	if !ok {
		t.Fatalf("expected *GoalPayload, got %T", decoded)
	}
	if goal.Scorer != "p42" || goal.Minute != 23 || goal.Assist != "p17" {
		t.Fatalf("round trip mismatch: %+v", goal)
	}
}

func TestEncodeUnknownKind(t *testing.T) {
	_, err := Encode(Kind("bogus.kind"), time.Now(), struct{}{})
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := Decode(Event{Seq: 7, Kind: Kind("future.kind"), PayloadJSON: []byte("{}")})
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestDecodeCorruptPayload(t *testing.T) {
	_, err := Decode(Event{Seq: 9, Kind: KindGoal, PayloadJSON: []byte("{not json")})
	if err == nil {
		t.Fatal("expected error for corrupt payload")
	}
	if apperrors.CodeOf(err) != apperrors.CodeLogCorrupt {
		t.Fatalf("expected log corrupt code, got %s", apperrors.CodeOf(err))
	}
}

func TestKindDomain(t *testing.T) {
	if got := KindGoal.Domain(); got != "match" {
		t.Fatalf("expected domain match, got %s", got)
	}
	if got := KindSeasonEnded.Domain(); got != "season" {
		t.Fatalf("expected domain season, got %s", got)
	}
}

func TestEveryKindHasPrototype(t *testing.T) {
	declared := []Kind{
		KindWorldInitialized, KindCalendarAdvanced, KindSeasonEnded,
		KindMatchScheduled, KindMatchStarted, KindMatchAborted,
		KindKickOff, KindGoal, KindYellowCard, KindRedCard,
		KindSubstitution, KindInjury, KindCornerKick, KindFoul,
		KindFreeKick, KindPenaltyAwarded, KindOffside, KindMatchEnded,
		KindSoftStateUpdated, KindValidationFailed,
		KindMediaStoryPublished, KindOwnerStatementIssued, KindHeadToHeadUpdated,
	}
	for _, k := range declared {
		if !Known(k) {
			t.Fatalf("kind %s has no codec prototype", k)
		}
	}
	if len(Kinds()) != len(declared) {
		t.Fatalf("prototype registry has %d kinds, declared %d", len(Kinds()), len(declared))
	}
}
