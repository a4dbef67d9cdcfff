package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrUnknownPose    = errors.New("unknown pose")
	ErrInvalidSetting = errors.New("invalid setting")
	ErrBatchRunning   = errors.New("batch already running")
	ErrNotReady       = errors.New("studio not ready")

	// Generation client failures. ErrAuthExpired is the only one that aborts a batch.
	ErrAuthExpired    = errors.New("api credential rejected or expired")
	ErrNoCandidates   = errors.New("provider returned no candidates")
	ErrEmptyResponse  = errors.New("provider returned empty content")
	ErrNoImagePayload = errors.New("response contained no image part")
)

// IsFatal reports whether err must abort the whole batch.
func IsFatal(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}
