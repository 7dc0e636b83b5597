// Package errors provides structured error handling with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lookup errors
	CodeLeagueNotFound Code = "LEAGUE_NOT_FOUND"
	CodeTeamNotFound   Code = "TEAM_NOT_FOUND"
	CodePlayerNotFound Code = "PLAYER_NOT_FOUND"
	CodeMatchNotFound  Code = "MATCH_NOT_FOUND"

	// World errors
	CodeWorldInvariantViolated Code = "WORLD_INVARIANT_VIOLATED"
	CodeCalendarComplete       Code = "CALENDAR_COMPLETE"
	CodeAdvanceInProgress      Code = "ADVANCE_IN_PROGRESS"

	// Engine errors
	CodeEngineStateViolation Code = "ENGINE_STATE_VIOLATION"
	CodeLineupInfeasible     Code = "LINEUP_INFEASIBLE"
	CodeMatchAborted         Code = "MATCH_ABORTED"

	// Event log errors
	CodeLogCorrupt     Code = "EVENT_LOG_CORRUPT"
	CodeUnknownKind    Code = "EVENT_KIND_UNKNOWN"
	CodeAppendRejected Code = "EVENT_APPEND_REJECTED"

	// Soft-state errors
	CodeProposalInvalid   Code = "PROPOSAL_INVALID"
	CodeCollaboratorError Code = "COLLABORATOR_ERROR"

	// Scheduling errors
	CodeScheduleInfeasible Code = "SCHEDULE_INFEASIBLE"

	// Configuration errors
	CodeSeedOutOfRange Code = "SEED_OUT_OF_RANGE"
	CodeResetRefused   Code = "RESET_REFUSED"
)

// Error is a domain error carrying a stable code alongside its message.
type Error struct {
	Code    Code
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Wrapped != nil {
		return e.Message + ": " + e.Wrapped.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Wrapped
}

// New builds a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a coded error around a cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Wrapped: err}
}

// CodeOf extracts the code from err, or CodeUnknown when none is attached.
func CodeOf(err error) Code {
	var coded *Error
	if as(err, &coded) && coded != nil {
		return coded.Code
	}
	return CodeUnknown
}
