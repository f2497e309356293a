package domain

import (
	"errors"
	"fmt"
)

// NetworkError reports a transport-level failure talking to a provider.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProviderError reports a non-success HTTP status from a provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
}

// ErrInsecureContext is the precondition failure for geolocation outside a
// secure (HTTPS) or loopback context.
var ErrInsecureContext = errors.New("geolocation requires a secure context")

// Geolocation failures, mapped from platform error codes.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("location unavailable")
	ErrLocationTimeout     = errors.New("location request timed out")
	ErrLocationFailed      = errors.New("location failed")
)

// Platform geolocation error codes (W3C GeolocationPositionError).
const (
	LocationPermissionDenied    = 1
	LocationPositionUnavailable = 2
	LocationTimeout             = 3
)

// LocationError carries the raw platform code next to the mapped sentinel.
type LocationError struct {
	Code int
	Err  error
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("geolocation code=%d: %v", e.Code, e.Err)
}

func (e *LocationError) Unwrap() error { return e.Err }

// LocationErrorFromCode maps a platform error code to a LocationError.
// Unrecognized codes map to ErrLocationFailed.
func LocationErrorFromCode(code int) *LocationError {
	var err error
	switch code {
	case LocationPermissionDenied:
		err = ErrPermissionDenied
	case LocationPositionUnavailable:
		err = ErrPositionUnavailable
	case LocationTimeout:
		err = ErrLocationTimeout
	default:
		err = ErrLocationFailed
	}
	return &LocationError{Code: code, Err: err}
}

// IsNetworkError reports whether err is (or wraps) a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// User-facing messages shown by the render surface.
const (
	MsgInsecureContext     = "Location needs a secure (HTTPS) connection. Search for a city instead."
	MsgPermissionDenied    = "Location permission denied. Allow location access or search for a city."
	MsgPositionUnavailable = "Location unavailable. Check GPS or network and try again."
	MsgLocationTimeout     = "Location request timed out. Try again or search for a city."
	MsgLocationFailed      = "Unable to get your location."
	MsgForecastFailed      = "Failed to fetch weather"
)

// LocationMessage maps a geolocation failure to the text shown to the user.
// Anything unrecognized gets the generic failure message.
func LocationMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsecureContext):
		return MsgInsecureContext
	case errors.Is(err, ErrPermissionDenied):
		return MsgPermissionDenied
	case errors.Is(err, ErrPositionUnavailable):
		return MsgPositionUnavailable
	case errors.Is(err, ErrLocationTimeout):
		return MsgLocationTimeout
	default:
		return MsgLocationFailed
	}
}
