package ingestion

import "errors"

// Error kinds surfaced by the service. Callers branch with errors.Is and
// map them to transport-level responses.
var (
	// ErrNotFound means the job or document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the actor lacks the role or ownership required
	// for the operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidState means the operation is not valid for the job's
	// current status, e.g. cancelling a completed job.
	ErrInvalidState = errors.New("invalid job state")
	// ErrConflict means a concurrent writer finalized the job first.
	ErrConflict = errors.New("conflicting update")
)
