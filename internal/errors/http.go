package errors

import (
	stderrors "errors"
	"net/http"
)

// as delegates to the standard library; kept here so codes.go stays free of
// a stdlib alias import.
func as(err error, target any) bool {
	return stderrors.As(err, target)
}

// HTTPStatus maps a domain code to the HTTP status the API surface returns.
func HTTPStatus(code Code) int {
	switch code {
	case CodeLeagueNotFound, CodeTeamNotFound, CodePlayerNotFound, CodeMatchNotFound:
		return http.StatusNotFound
	case CodeCalendarComplete, CodeResetRefused, CodeProposalInvalid, CodeSeedOutOfRange:
		return http.StatusBadRequest
	case CodeAdvanceInProgress:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
