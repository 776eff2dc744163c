package climate

import "errors"

var (
	// ErrProvider marks a recoverable external-provider failure: non-2xx,
	// malformed body, or timeout. At the chunk level it is swallowed; at the
	// fetcher level it downgrades that source to StatusFailed.
	ErrProvider = errors.New("provider error")

	// ErrConfiguration marks a missing credential. Fatal for the one fetcher
	// that needs it, not for the run.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation marks out-of-range input coordinates. Raised before any
	// network call and returned to the caller.
	ErrValidation = errors.New("validation error")

	// ErrPersistence marks a report-archive write failure. Logged by the
	// orchestrator, never propagated.
	ErrPersistence = errors.New("persistence error")
)
