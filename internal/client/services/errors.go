package services

import (
	"errors"

	"github.com/dmitrijs2005/gamehub/internal/client/client"
	"github.com/dmitrijs2005/gamehub/internal/client/session"
)

var (
	ErrSubmitInFlight   = errors.New("a submission is already in progress")
	ErrIncompleteCode   = errors.New("enter all 6 digits")
	ErrVerifyInFlight   = errors.New("verification is already in progress")
	ErrResendInFlight   = errors.New("a new code is already being requested")
	ErrChallengeClosed  = errors.New("verification was cancelled")
	ErrAlreadyVerified  = errors.New("code already verified")
	ErrMalformedSession = errors.New("verification answer carries no session")
	ErrNotConfirmed     = errors.New("operation requires confirmation")
	ErrStaleResponse    = errors.New("response arrived after the flow moved on")
)

// ValidationError is a client-side check failure. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UserMessage turns any error from this package or the API client into the
// text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	var se *client.ServerError
	if errors.As(err, &se) {
		return se.Error()
	}

	switch {
	case errors.Is(err, client.ErrUnavailable):
		return client.GenericMessage
	case errors.Is(err, session.ErrNoSession), errors.Is(err, client.ErrUnauthorized):
		return "You are not signed in."
	case errors.Is(err, ErrIncompleteCode):
		return "Please enter all 6 digits."
	case errors.Is(err, ErrNotConfirmed):
		return "Please confirm the operation."
	case errors.Is(err, ErrSubmitInFlight), errors.Is(err, ErrVerifyInFlight), errors.Is(err, ErrResendInFlight):
		return "Please wait, the previous request is still running."
	case errors.Is(err, ErrChallengeClosed), errors.Is(err, ErrStaleResponse):
		return "This verification is no longer active."
	case errors.Is(err, ErrAlreadyVerified):
		return "This code has already been verified."
	}
	return client.GenericMessage
}
