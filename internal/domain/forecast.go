package domain

// CurrentWeather holds the provider's "current" block, passed through verbatim.
type CurrentWeather struct {
	Temperature float64
	WindSpeed   float64
	WeatherCode int
}

// DailyForecast is one day of the 7-day outlook.
type DailyForecast struct {
	Date        string
	Max         float64
	Min         float64
	WeatherCode int
}

// Forecast is the result of a forecast fetch for one place and unit system.
type Forecast struct {
	Location PlaceRecord
	Units    Units
	Current  CurrentWeather
	Daily    []DailyForecast
}
