package ports

import (
	"context"
	"weatherly/internal/domain"
)

// Contract for forward and reverse geocoding.
type Geocoder interface {
	// Return up to a handful of places matching a free-text query.
	// No match is an empty slice, never an error.
	Search(ctx context.Context, query string) ([]domain.PlaceRecord, error)
	// Resolve coordinates to a place. A nil record with a nil error means
	// no provider could name the place.
	Reverse(ctx context.Context, lat, lon float64) (*domain.PlaceRecord, error)
}
