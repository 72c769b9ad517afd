package services

import "errors"

// Standard service errors
var (
	// Chat orchestration errors
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrRequestInFlight = errors.New("a request is already in flight")

	// Settings errors
	ErrInvalidAgeThreshold = errors.New("invalid age threshold")
	ErrInvalidFrequency    = errors.New("invalid schedule frequency")
	ErrInvalidScheduleTime = errors.New("invalid schedule time")
	ErrInvalidMaxPerRun    = errors.New("invalid max emails per run")

	// Agent errors
	ErrAgentFailure = errors.New("agent reported failure")
)

// transportErrorMessage is the fixed user-facing text for gateway calls
// that never produced an envelope
const transportErrorMessage = "Unable to reach the email assistant. Please check your connection and try again."

// IsBusy reports whether an error is the in-flight gate rejecting a call,
// which callers treat as a no-op rather than a failure
func IsBusy(err error) bool {
	return errors.Is(err, ErrRequestInFlight)
}
