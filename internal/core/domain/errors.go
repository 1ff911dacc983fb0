package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested source, document or scope does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a source is already tracked.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	// Rejected before any I/O is performed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRunInProgress indicates a pipeline run is already in flight.
	// A new run is neither queued nor started; the caller may retry later.
	ErrRunInProgress = errors.New("run in progress")

	// Collaborator Errors.

	// ErrUnreachable indicates a remote collaborator could not be reached.
	// For fetch failures this downgrades to a per-document skip.
	ErrUnreachable = errors.New("unreachable")

	// ErrDecodeFailed indicates a fetched document could not be decoded.
	// Treated as "no update this cycle" for the affected document.
	ErrDecodeFailed = errors.New("decode failed")

	// ErrRateLimited indicates the completion API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedResponse indicates the completion API returned an
	// unparseable or empty response.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrLLMUnavailable indicates no completion service is configured.
	// The ask command is disabled; search still works.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Storage Errors.

	// ErrCorruptSnapshot indicates a persisted history artifact is unreadable.
	// Serving the in-memory corpus must not be blocked by this; the artifact
	// is flagged for operator attention.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)
