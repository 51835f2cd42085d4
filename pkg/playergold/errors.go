package playergold

import (
	"errors"
	"fmt"
)

const (
	msgRequestFailed      = "Request failed"
	msgParseAuth          = "Failed to parse authentication response"
	msgParseBalance       = "Failed to parse balance response"
	msgParseTransaction   = "Failed to parse transaction response"
	msgParseRecord        = "Failed to parse transaction record response"
	msgParseNetworkStatus = "Failed to parse network status response"
)

var (
	// ErrNotConfigured is returned by operations invoked before Configure.
	ErrNotConfigured = errors.New("playergold: client not configured")
	// ErrClosed is returned by operations invoked after Close.
	ErrClosed = errors.New("playergold: client closed")
	// ErrReconfigured is returned when Configure kept replacing the backend while an operation waited for a token.
	ErrReconfigured = errors.New("playergold: client reconfigured during authentication")
)

// TransportError reports a connection failure or a non-2xx response.
// Error returns the raw response body, or "Request failed" when there is none.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string { return e.Message }

func (e *TransportError) Unwrap() error { return e.Err }

// Detail includes the operation and status for logs.
func (e *TransportError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// DecodeError reports a successful response whose JSON lacks the expected shape.
type DecodeError struct {
	Op      string
	Message string
	Err     error
}

func (e *DecodeError) Error() string { return e.Message }

func (e *DecodeError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsDecode reports whether err is a DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
