package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")

	// API and service errors
	ErrAPIRequest          = fmt.Errorf("API request failed")
	ErrRateLimited         = fmt.Errorf("rate limited by remote service")
	ErrTransient           = fmt.Errorf("transient request failure")
	ErrPreconditionFailed  = fmt.Errorf("precondition failed")
	ErrServiceUnavailable  = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound    = fmt.Errorf("playlist not found")
	ErrCollectionSync      = fmt.Errorf("collection sync failed")
	ErrRetryBudgetExceeded = fmt.Errorf("retry budget exceeded")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// Retryable reports whether an error is worth retrying under the transient
// failure policy: remote throttling and generic transport faults qualify,
// everything else (auth, validation, not-found) does not.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}
