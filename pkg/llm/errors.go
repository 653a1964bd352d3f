package llm

import (
	"errors"
	"fmt"
)

// ErrNoChoices marks a successful response whose choice list is empty.
var ErrNoChoices = errors.New("no choices in response")

// ErrStreamTruncated marks a stream that ended without the [DONE] marker.
// A clean close without the marker cannot be told apart from a truncated
// response, so it is treated as a failure.
var ErrStreamTruncated = errors.New("stream closed before [DONE] marker")

// ConfigError reports invalid client configuration. It is returned at
// construction time, before any network activity.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// RequestError reports a completion request that could not be completed:
// a transport failure, a non-success status, an empty choice list, or a
// stream that terminated abnormally.
type RequestError struct {
	Op         string // "completion" or "stream"
	StatusCode int    // zero for transport-level failures
	Body       string // response body snippet, when one was received
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed: status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
