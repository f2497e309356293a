package ports

import (
	"context"
	"weatherly/internal/domain"
)

// Contract for retrieving current and daily weather for a location.
type ForecastProvider interface {
	Fetch(ctx context.Context, at domain.Coordinates, units domain.Units) (domain.Forecast, error)
}
