// Package geolocation holds Locator adapters. The device position is
// produced by the browser; the server only relays what it was told.
package geolocation

import (
	"context"
	"fmt"

	"weatherly/internal/domain"
	"weatherly/internal/ports"
)

// Fixed is a Locator that reports either a known position or a platform
// error code, exactly once per call.
type Fixed struct {
	Position domain.Coordinates
	// Code is a W3C geolocation error code. Zero means Position is valid.
	Code int
}

var _ ports.Locator = Fixed{}

// FromPosition returns a locator reporting the given fix.
func FromPosition(lat, lon float64) Fixed {
	return Fixed{Position: domain.Coordinates{Lat: lat, Lon: lon}}
}

// FromErrorCode returns a locator failing with the given platform code.
func FromErrorCode(code int) Fixed {
	if code == 0 {
		code = -1
	}
	return Fixed{Code: code}
}

func (f Fixed) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}
	if f.Code != 0 {
		return domain.Coordinates{}, domain.LocationErrorFromCode(f.Code)
	}
	if !f.Position.Valid() {
		return domain.Coordinates{}, fmt.Errorf("current position %s: %w", f.Position.Key(), domain.LocationErrorFromCode(domain.LocationPositionUnavailable))
	}
	return f.Position, nil
}
