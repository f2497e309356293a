package forecast

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weatherly/internal/domain"
	"weatherly/internal/platform/httpx"
	"weatherly/internal/platform/obs"
	"weatherly/internal/ports"
)

const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	forecastDays  = 7
	currentFields = "temperature_2m,weather_code,wind_speed_10m"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min"
)

// BuildForecastURL builds the forecast request for a coordinate pair and
// unit system. It performs no I/O.
func BuildForecastURL(base string, lat, lon float64, units domain.Units) string {
	v := url.Values{
		"latitude":         {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":        {strconv.FormatFloat(lon, 'f', -1, 64)},
		"timezone":         {"auto"},
		"forecast_days":    {strconv.Itoa(forecastDays)},
		"current":          {currentFields},
		"daily":            {dailyFields},
		"temperature_unit": {units.TemperatureUnit()},
		"wind_speed_unit":  {units.WindSpeedUnit()},
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + v.Encode()
}

// Client implements ports.ForecastProvider against the Open-Meteo
// forecast API.
type Client struct {
	http    *httpx.Client
	baseURL string
}

var _ ports.ForecastProvider = (*Client)(nil)

// NewClient creates a forecast client. An empty baseURL uses the public
// endpoint; a nil session gets a 10s timeout.
func NewClient(baseURL string, session *http.Client, userAgent string) *Client {
	if baseURL == "" {
		baseURL = DefaultForecastURL
	}
	if session == nil {
		session = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		http:    httpx.New("open-meteo-forecast", session, userAgent),
		baseURL: baseURL,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time        []string  `json:"time"`
		Max         []float64 `json:"temperature_2m_max"`
		Min         []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
}

// Fetch retrieves current conditions and the daily outlook. Values are
// passed through verbatim; a daily column shorter than the dates yields
// zero values for the missing days.
func (c *Client) Fetch(ctx context.Context, at domain.Coordinates, units domain.Units) (_ domain.Forecast, err error) {
	defer obs.Time(ctx, "forecast.Fetch")(&err)

	if units == "" {
		units = domain.Metric
	}

	var decoded forecastResponse
	rawURL := BuildForecastURL(c.baseURL, at.Lat, at.Lon, units)
	if err := c.http.GetJSON(ctx, "open-meteo.forecast", rawURL, &decoded); err != nil {
		return domain.Forecast{}, fmt.Errorf("fetch forecast %s: %w", at.Key(), err)
	}

	return decoded.forecast(at, units), nil
}

func (r forecastResponse) forecast(at domain.Coordinates, units domain.Units) domain.Forecast {
	out := domain.Forecast{
		Location: domain.PlaceRecord{Latitude: at.Lat, Longitude: at.Lon},
		Units:    units,
		Current: domain.CurrentWeather{
			Temperature: r.Current.Temperature,
			WindSpeed:   r.Current.WindSpeed,
			WeatherCode: r.Current.WeatherCode,
		},
		Daily: make([]domain.DailyForecast, 0, len(r.Daily.Time)),
	}

	for i, date := range r.Daily.Time {
		day := domain.DailyForecast{Date: date}
		if i < len(r.Daily.Max) {
			day.Max = r.Daily.Max[i]
		}
		if i < len(r.Daily.Min) {
			day.Min = r.Daily.Min[i]
		}
		if i < len(r.Daily.WeatherCode) {
			day.WeatherCode = r.Daily.WeatherCode[i]
		}
		out.Daily = append(out.Daily, day)
	}

	return out
}
