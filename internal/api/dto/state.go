package dto

import "weatherly/internal/domain"

type PlaceResponse struct {
	ID        int64   `json:"id,omitempty"`
	Label     string  `json:"label"`
	Name      string  `json:"name"`
	Country   string  `json:"country,omitempty"`
	Admin1    string  `json:"admin1,omitempty"`
	Admin2    string  `json:"admin2,omitempty"`
	Admin3    string  `json:"admin3,omitempty"`
	Admin4    string  `json:"admin4,omitempty"`
	Locality  string  `json:"locality,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone,omitempty"`
	Provider  string  `json:"provider,omitempty"`
}

type CoordinatesResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ConditionsResponse struct {
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"wind_speed"`
	WeatherCode int     `json:"weather_code"`
	Condition   string  `json:"condition"`
	Symbol      string  `json:"symbol"`
}

type DayResponse struct {
	Date        string  `json:"date"`
	Max         float64 `json:"max"`
	Min         float64 `json:"min"`
	WeatherCode int     `json:"weather_code"`
	Condition   string  `json:"condition"`
	Symbol      string  `json:"symbol"`
}

type ForecastResponse struct {
	Location        PlaceResponse      `json:"location"`
	Units           string             `json:"units"`
	TemperatureUnit string             `json:"temperature_unit"`
	WindSpeedUnit   string             `json:"wind_speed_unit"`
	Current         ConditionsResponse `json:"current"`
	Daily           []DayResponse      `json:"daily"`
}

type StateResponse struct {
	Query            string               `json:"query"`
	LastAppliedLabel string               `json:"last_applied_label"`
	UserEdited       bool                 `json:"user_edited"`
	Phase            string               `json:"phase"`
	Suggestions      []PlaceResponse      `json:"suggestions"`
	Selected         *PlaceResponse       `json:"selected"`
	PendingReverse   *CoordinatesResponse `json:"pending_reverse,omitempty"`
	FromGeolocation  bool                 `json:"from_geolocation"`
	Resolving        bool                 `json:"resolving"`
	Loading          bool                 `json:"loading"`
	Error            string               `json:"error,omitempty"`
	Units            string               `json:"units"`
	Forecast         *ForecastResponse    `json:"forecast"`
	Generation       uint64               `json:"generation"`
}

func NewPlaceResponse(p domain.PlaceRecord) PlaceResponse {
	return PlaceResponse{
		ID:        p.ID,
		Label:     domain.FormatPlace(p),
		Name:      p.Name,
		Country:   p.Country,
		Admin1:    p.Admin1,
		Admin2:    p.Admin2,
		Admin3:    p.Admin3,
		Admin4:    p.Admin4,
		Locality:  p.Locality,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Timezone:  p.Timezone,
		Provider:  p.Provider,
	}
}

func NewPlaceResponses(places []domain.PlaceRecord) []PlaceResponse {
	out := make([]PlaceResponse, 0, len(places))
	for _, p := range places {
		out = append(out, NewPlaceResponse(p))
	}
	return out
}

// NewForecastResponse decorates weather codes with their label and symbol.
func NewForecastResponse(f domain.Forecast) ForecastResponse {
	units := f.Units
	if units == "" {
		units = domain.Metric
	}

	daily := make([]DayResponse, 0, len(f.Daily))
	for _, d := range f.Daily {
		daily = append(daily, DayResponse{
			Date:        d.Date,
			Max:         d.Max,
			Min:         d.Min,
			WeatherCode: d.WeatherCode,
			Condition:   domain.CodeLabel(d.WeatherCode),
			Symbol:      domain.CodeSymbol(d.WeatherCode),
		})
	}

	return ForecastResponse{
		Location:        NewPlaceResponse(f.Location),
		Units:           string(units),
		TemperatureUnit: units.TemperatureSymbol(),
		WindSpeedUnit:   units.WindSpeedSymbol(),
		Current: ConditionsResponse{
			Temperature: f.Current.Temperature,
			WindSpeed:   f.Current.WindSpeed,
			WeatherCode: f.Current.WeatherCode,
			Condition:   domain.CodeLabel(f.Current.WeatherCode),
			Symbol:      domain.CodeSymbol(f.Current.WeatherCode),
		},
		Daily: daily,
	}
}

func NewStateResponse(s domain.SelectionState) StateResponse {
	out := StateResponse{
		Query:            s.Query,
		LastAppliedLabel: s.LastAppliedLabel,
		UserEdited:       s.UserEdited,
		Phase:            string(s.Phase),
		Suggestions:      NewPlaceResponses(s.Suggestions),
		FromGeolocation:  s.FromGeolocation,
		Resolving:        s.Resolving,
		Loading:          s.Loading,
		Error:            s.Error,
		Units:            string(s.Units),
		Generation:       s.Generation,
	}
	if s.Selected != nil {
		p := NewPlaceResponse(*s.Selected)
		out.Selected = &p
	}
	if s.PendingReverse != nil {
		out.PendingReverse = &CoordinatesResponse{Latitude: s.PendingReverse.Lat, Longitude: s.PendingReverse.Lon}
	}
	if s.Forecast != nil {
		f := NewForecastResponse(*s.Forecast)
		out.Forecast = &f
	}
	return out
}
