package metadata

import "errors"

// Provider-level failure taxonomy. During search these degrade to zero
// results for the failing provider; during detail lookups they surface as an
// empty envelope. They never become request-level errors.
var (
	// ErrUpstreamUnavailable wraps transport failures and non-success
	// statuses from a catalog API.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNotFound means the upstream rejected a syntactically valid native ID.
	ErrNotFound = errors.New("not found")

	// ErrAuthenticationFailed means a credential exchange was required and
	// could not be completed.
	ErrAuthenticationFailed = errors.New("authentication failed")
)
