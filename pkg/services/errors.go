package services

import "errors"

var (
	// ErrValidation marks malformed request parameters, rejected before any
	// computation.
	ErrValidation = errors.New("invalid request")

	// ErrNoLogs means there is nothing to analyze at all. Fewer logs than
	// requested is a silent degrade; zero logs is not.
	ErrNoLogs = errors.New("no logs available for analysis")

	// ErrDataUnavailable means the log store could not supply data. This is
	// surfaced to the caller as a hard failure.
	ErrDataUnavailable = errors.New("log data unavailable")

	// ErrQuotaExhausted is the provider's permanent-for-now failure. It is
	// never retried and triggers the offline fallback immediately.
	ErrQuotaExhausted = errors.New("ai provider quota exhausted")

	// ErrProviderUnavailable covers transient provider failures that
	// persisted past the retry budget.
	ErrProviderUnavailable = errors.New("ai provider unavailable")

	// ErrRateLimited marks a caller that has not waited out the per-session
	// cooldown.
	ErrRateLimited = errors.New("cooldown in effect")
)
