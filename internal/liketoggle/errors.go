package liketoggle

import (
	"errors"
	"fmt"
)

var (
	// ErrInFlight is returned when a click arrives while another request is pending.
	ErrInFlight = errors.New("a like request is already in flight")
	// ErrNotVisible is returned when the clicked button is not the one currently shown.
	ErrNotVisible = errors.New("button is not visible")
)

// NetworkError means the request never produced a usable response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError means the server answered with a non-success status.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Message)
}

// IsNetworkError reports whether err wraps a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsServerError reports whether err wraps a *ServerError.
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// affordance turns an error into the short text shown next to the buttons.
func affordance(err error) string {
	var se *ServerError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return fmt.Sprintf("Server error (%d), please try again.", se.StatusCode)
	case IsNetworkError(err):
		return "Could not reach the server."
	default:
		return err.Error()
	}
}
