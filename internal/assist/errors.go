package assist

import (
	"errors"
	"fmt"
)

// Error taxonomy. All of these are handled locally and surfaced as a short
// status line in the pane; none propagate as fatal errors to the daemon.
var (
	// ErrSettingsDisabled: assistant turned off or no API key. Silent no-op.
	ErrSettingsDisabled = errors.New("assistant disabled")

	// ErrJobLaunch: the detached worker process could not be started.
	ErrJobLaunch = errors.New("analysis job launch failed")

	// ErrJobTimeout: no status artifact appeared before the poll deadline.
	ErrJobTimeout = errors.New("analysis timed out")

	// ErrInvalidResponse: malformed model output, empty content, or a
	// non-zero worker status.
	ErrInvalidResponse = errors.New("invalid model response")
)

// InvalidResponseError carries the worker's stderr for diagnostics.
type InvalidResponseError struct {
	Reason string
	Stderr string
}

func (e *InvalidResponseError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("invalid model response: %s: %s", e.Reason, e.Stderr)
	}
	return fmt.Sprintf("invalid model response: %s", e.Reason)
}

func (e *InvalidResponseError) Unwrap() error {
	return ErrInvalidResponse
}
