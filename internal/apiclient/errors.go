package apiclient

import "fmt"

// The client maps every failure into one of three kinds. All of them are
// recoverable: the caller keeps its cart and may retry.
//
//   - BackendError: the server answered with a non-2xx status and
//     (usually) a message, surfaced verbatim.
//   - NetworkError: no usable response was received.
//   - AuthError: the server answered 401; the session has already been
//     force-logged-out by the time the caller sees this.

type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "could not reach the server, please try again"
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type AuthError struct{}

func (e *AuthError) Error() string {
	return "session expired, please log in again"
}
