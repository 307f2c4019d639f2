package agentforce

import (
	"fmt"
	"net/http"
)

// ValidationError reports rejected input before any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError is a failed token request. Either Status/Body are set from the
// remote response, or Err carries a transport-level failure.
type AuthError struct {
	Status int
	Body   string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("exception during authentication: %v", e.Err)
	}
	return fmt.Sprintf("authentication error: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *AuthError) Unwrap() error { return e.Err }

// SessionError is a failed session-creation request, distinct from the
// authentication failure that may precede it.
type SessionError struct {
	Status int
	Body   string
	Err    error
}

func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("exception during session creation: %v", e.Err)
	}
	return fmt.Sprintf("session creation error: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *SessionError) Unwrap() error { return e.Err }

// SendError is a failed message send after the capped retries are exhausted.
type SendError struct {
	Status int
	Body   string
	Err    error
}

func (e *SendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("exception during message sending: %v", e.Err)
	}
	return fmt.Sprintf("message sending error: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *SendError) Unwrap() error { return e.Err }
