package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestCodeOf(t *testing.T) {
	err := New(CodeTeamNotFound, "team missing")
	if got := CodeOf(err); got != CodeTeamNotFound {
		t.Fatalf("expected %s, got %s", CodeTeamNotFound, got)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected %s for plain error, got %s", CodeUnknown, got)
	}
}

func TestCodeOfWrappedChain(t *testing.T) {
	inner := New(CodeLogCorrupt, "bad record")
	outer := Wrap(CodeUnknown, "replay failed", inner)
	// The outermost coded error wins.
	if got := CodeOf(outer); got != CodeUnknown {
		t.Fatalf("expected outermost code, got %s", got)
	}
	if !stderrors.Is(outer, inner) {
		t.Fatal("expected wrapped error to be reachable via Is")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeTeamNotFound, http.StatusNotFound},
		{CodeMatchNotFound, http.StatusNotFound},
		{CodeCalendarComplete, http.StatusBadRequest},
		{CodeAdvanceInProgress, http.StatusConflict},
		{CodeLogCorrupt, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.code); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.code, tc.want, got)
		}
	}
}

func TestErrorMessageFormat(t *testing.T) {
	base := stderrors.New("io failure")
	err := Wrap(CodeLogCorrupt, "read event 17", base)
	if err.Error() != "read event 17: io failure" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
