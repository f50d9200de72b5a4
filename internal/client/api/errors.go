package api

import "fmt"

// Sentinel errors callers match with errors.Is.
var (
	ErrUnauthorized    = &Error{Message: "unauthorized", Status: 401}
	ErrPremiumRequired = &Error{Message: "premium required", Status: 403}
	ErrNotFound        = &Error{Message: "not found", Status: 404}
	ErrUnavailable     = &Error{Message: "server unavailable"}
)

// Error is an API-level failure. Status is the HTTP status code when the
// server answered, zero for transport failures. Message prefers the
// server-supplied message when one was decoded.
type Error struct {
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// Is lets server errors with matching status satisfy the sentinels above,
// so errors.Is(err, ErrUnauthorized) holds for any 401 regardless of the
// server's message text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Status != 0 {
		return e.Status == t.Status
	}
	return e.Message == t.Message
}
