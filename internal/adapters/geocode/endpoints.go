package geocode

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultSearchURL          = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultReverseURL         = "https://geocoding-api.open-meteo.com/v1/reverse"
	DefaultFallbackReverseURL = "https://nominatim.openstreetmap.org/reverse"

	// SearchCount caps forward-search results.
	SearchCount = 5
)

// Endpoints holds the provider base URLs. The URL builders are pure so they
// can be shown on diagnostic surfaces as well as used for requests.
type Endpoints struct {
	Search          string
	Reverse         string
	FallbackReverse string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Search:          DefaultSearchURL,
		Reverse:         DefaultReverseURL,
		FallbackReverse: DefaultFallbackReverseURL,
	}
}

// SearchURL builds the forward-search request for a raw query.
func (e Endpoints) SearchURL(query, lang string) string {
	return withQuery(e.Search, url.Values{
		"name":     {query},
		"count":    {strconv.Itoa(SearchCount)},
		"language": {lang},
		"format":   {"json"},
	})
}

// ReverseURL builds the primary reverse-geocoding request.
func (e Endpoints) ReverseURL(lat, lon float64, lang string) string {
	return withQuery(e.Reverse, url.Values{
		"latitude":  {formatCoord(lat)},
		"longitude": {formatCoord(lon)},
		"language":  {lang},
		"format":    {"json"},
		"count":     {"1"},
	})
}

// FallbackReverseURL builds the address-lookup reverse request.
func (e Endpoints) FallbackReverseURL(lat, lon float64, lang string) string {
	return withQuery(e.FallbackReverse, url.Values{
		"lat":             {formatCoord(lat)},
		"lon":             {formatCoord(lon)},
		"format":          {"jsonv2"},
		"zoom":            {"14"},
		"addressdetails":  {"1"},
		"accept-language": {lang},
	})
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func withQuery(base string, v url.Values) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + v.Encode()
}
