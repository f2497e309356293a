package geocode

import (
	"context"

	"weatherly/internal/domain"
)

type nominatimResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		County        string `json:"county"`
		State         string `json:"state"`
		Country       string `json:"country"`
	} `json:"address"`
}

// place builds the record from address components. The response carries no
// usable coordinates of its own, so the requested ones are kept.
func (r nominatimResponse) place(lat, lon float64) *domain.PlaceRecord {
	a := r.Address
	name := firstNonEmpty(a.City, a.Town, a.Village, a.Suburb, a.Neighbourhood, r.Name, r.DisplayName)
	if name == "" {
		return nil
	}

	return &domain.PlaceRecord{
		Name:      name,
		Admin1:    a.State,
		Admin2:    a.County,
		Country:   a.Country,
		Latitude:  lat,
		Longitude: lon,
		Provider:  domain.ProviderNominatim,
	}
}

func (c *Client) reverseNominatim(ctx context.Context, lat, lon float64) (*domain.PlaceRecord, error) {
	var decoded nominatimResponse
	if err := c.nominatim.GetJSON(ctx, "nominatim.reverse", c.endpoints.FallbackReverseURL(lat, lon, c.language), &decoded); err != nil {
		return nil, err
	}
	return decoded.place(lat, lon), nil
}
