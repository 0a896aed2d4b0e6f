package translate

import (
	"errors"
	"fmt"

	"github.com/pysugar/quicktrans/internal/platform"
)

// ErrNotInitialized is returned by New when a collaborator is missing.
var ErrNotInitialized = errors.New("translate: collaborator not initialized")

// Stage names the step of the translation path that failed.
type Stage string

const (
	StageBuild   Stage = "build"
	StageSend    Stage = "send"
	StageParse   Stage = "parse"
	StagePersist Stage = "persist"
)

// StageError wraps the error of a failed stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StageOf returns the failed stage of err, or "" if err did not come from Translate.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// TransportError reports a network failure or a non-success HTTP status.
type TransportError struct {
	Endpoint   string
	StatusCode int    // 0 when no response was received
	Body       string // truncated response body for non-2xx statuses
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a response that lacks the field expected for the platform.
type ParseError struct {
	Platform platform.Platform
	Field    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse %s response (expected %s): %v", e.Platform, e.Field, e.Err)
	}
	return fmt.Sprintf("failed to parse %s response: missing string field %s", e.Platform, e.Field)
}

func (e *ParseError) Unwrap() error { return e.Err }
