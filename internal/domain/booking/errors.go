package booking

import "errors"

var (
	// ErrNoSelection is the validation failure for an empty form; the
	// text is surfaced to the user as-is.
	ErrNoSelection = errors.New("Please select either hourly booking or date range")

	// ErrAuthRequired means no session user is present; the caller
	// should route to sign-in instead of submitting.
	ErrAuthRequired = errors.New("please log in to make a booking")

	// ErrSubmitInFlight rejects overlapping submissions of the same
	// form.
	ErrSubmitInFlight = errors.New("a booking submission is already in progress")
)

// FallbackSubmitMessage is shown when the collaborator fails without
// a message of its own.
const FallbackSubmitMessage = "Failed to create booking. Please try again."

// SubmissionError is a booking rejected by the network or the
// marketplace API. Message is user-facing: the collaborator's own
// text when it sent one, the generic fallback otherwise.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	return e.Message
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
