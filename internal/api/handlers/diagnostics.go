package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"weatherly/internal/adapters/forecast"
	"weatherly/internal/adapters/geocode"
	"weatherly/internal/api/dto"
	"weatherly/internal/domain"
)

// DiagnosticsHandler exposes the request URLs the service would issue,
// without performing any I/O.
type DiagnosticsHandler struct {
	Endpoints   geocode.Endpoints
	ForecastURL string
	Language    string
}

func (h *DiagnosticsHandler) URLs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil || !(domain.Coordinates{Lat: lat, Lon: lon}).Valid() {
		writeError(w, r, http.StatusBadRequest, "lat and lon must be valid coordinates")
		return
	}

	units := domain.Metric
	if raw := q.Get("units"); raw != "" {
		u, err := domain.ParseUnits(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "units must be metric or imperial")
			return
		}
		units = u
	}

	lang := h.Language
	if lang == "" {
		lang = geocode.DefaultLanguage
	}

	res := dto.URLsResponse{
		Reverse:         h.Endpoints.ReverseURL(lat, lon, lang),
		FallbackReverse: h.Endpoints.FallbackReverseURL(lat, lon, lang),
		Forecast:        forecast.BuildForecastURL(h.ForecastURL, lat, lon, units),
	}
	if query := strings.TrimSpace(q.Get("q")); query != "" {
		res.Search = h.Endpoints.SearchURL(query, lang)
	}

	writeJSON(w, r, http.StatusOK, res)
}
