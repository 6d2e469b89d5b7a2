package providers

import (
	"errors"
	"fmt"
	"time"
)

// ErrCatalogUnavailable marks failures after retries are exhausted.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// ErrProviderUnavailable is returned when no provider is configured.
var ErrProviderUnavailable = errors.New("provider unavailable")

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Remaining  string
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// PermanentError marks an upstream rejection that retrying cannot fix, such as a
// malformed query.
type PermanentError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("%s: permanent failure (status=%d): %v", e.Provider, e.StatusCode, e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether err carries a PermanentError.
func IsPermanent(err error) bool {
	var pErr *PermanentError
	return errors.As(err, &pErr)
}

// CatalogUnavailableError reports that the catalog could not be reached after Attempts tries.
// It matches ErrCatalogUnavailable with errors.Is and unwraps to the last cause.
type CatalogUnavailableError struct {
	Provider  string
	Operation string
	Attempts  int
	Err       error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("%s %s: catalog unavailable after %d attempts: %v", e.Provider, e.Operation, e.Attempts, e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error {
	return e.Err
}

func (e *CatalogUnavailableError) Is(target error) bool {
	return target == ErrCatalogUnavailable
}
