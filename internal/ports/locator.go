package ports

import (
	"context"
	"weatherly/internal/domain"
)

// Port: the device position source. Failures are *domain.LocationError.
type Locator interface {
	CurrentPosition(ctx context.Context) (domain.Coordinates, error)
}
