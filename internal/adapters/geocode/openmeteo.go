package geocode

import (
	"context"
	"strings"

	"weatherly/internal/domain"
)

type namedArea struct {
	Name string `json:"name"`
}

type openMeteoResult struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Country      string  `json:"country"`
	Admin1       string  `json:"admin1"`
	Admin2       string  `json:"admin2"`
	Admin3       string  `json:"admin3"`
	Admin4       string  `json:"admin4"`
	Locality     string  `json:"locality"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timezone     string  `json:"timezone"`
	LocalityInfo *struct {
		Informative    []namedArea `json:"informative"`
		Administrative []namedArea `json:"administrative"`
	} `json:"localityInfo"`
}

type openMeteoResponse struct {
	Results []openMeteoResult `json:"results"`
}

func (r openMeteoResult) place() domain.PlaceRecord {
	return domain.PlaceRecord{
		ID:        r.ID,
		Name:      r.Name,
		Country:   r.Country,
		Admin1:    r.Admin1,
		Admin2:    r.Admin2,
		Admin3:    r.Admin3,
		Admin4:    r.Admin4,
		Locality:  r.locality(),
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Timezone:  r.Timezone,
		Provider:  domain.ProviderOpenMeteo,
	}
}

// locality prefers the explicit field, then the first named informative
// area, then the first named administrative area.
func (r openMeteoResult) locality() string {
	if l := strings.TrimSpace(r.Locality); l != "" {
		return l
	}
	if r.LocalityInfo == nil {
		return ""
	}
	for _, areas := range [][]namedArea{r.LocalityInfo.Informative, r.LocalityInfo.Administrative} {
		for _, a := range areas {
			if n := strings.TrimSpace(a.Name); n != "" {
				return n
			}
		}
	}
	return ""
}

func (c *Client) searchOpenMeteo(ctx context.Context, query string) ([]domain.PlaceRecord, error) {
	var decoded openMeteoResponse
	if err := c.openMeteo.GetJSON(ctx, "open-meteo.search", c.endpoints.SearchURL(query, c.language), &decoded); err != nil {
		return nil, err
	}

	out := make([]domain.PlaceRecord, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		out = append(out, r.place())
	}
	return out, nil
}

// reverseOpenMeteo returns nil with a nil error when the provider answered
// without results.
func (c *Client) reverseOpenMeteo(ctx context.Context, lat, lon float64) (*domain.PlaceRecord, error) {
	var decoded openMeteoResponse
	if err := c.openMeteo.GetJSON(ctx, "open-meteo.reverse", c.endpoints.ReverseURL(lat, lon, c.language), &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Results) == 0 {
		return nil, nil
	}

	place := decoded.Results[0].place()
	return &place, nil
}
