package domain

type weatherCode struct {
	label  string
	symbol string
}

// WMO weather interpretation codes reported by the forecast provider.
var weatherCodes = map[int]weatherCode{
	0:  {"Clear sky", "☀️"},
	1:  {"Mainly clear", "🌤️"},
	2:  {"Partly cloudy", "⛅"},
	3:  {"Overcast", "☁️"},
	45: {"Fog", "🌫️"},
	48: {"Depositing rime fog", "🌫️"},
	51: {"Drizzle: Light", "🌦️"},
	53: {"Drizzle: Moderate", "🌦️"},
	55: {"Drizzle: Dense", "🌧️"},
	61: {"Rain: Slight", "🌦️"},
	63: {"Rain: Moderate", "🌧️"},
	65: {"Rain: Heavy", "🌧️"},
	71: {"Snow fall: Slight", "🌨️"},
	73: {"Snow fall: Moderate", "🌨️"},
	75: {"Snow fall: Heavy", "❄️"},
	80: {"Rain showers: Slight", "🌦️"},
	81: {"Rain showers: Moderate", "🌧️"},
	82: {"Rain showers: Violent", "⛈️"},
	95: {"Thunderstorm", "⛈️"},
}

const (
	unknownCodeLabel  = "Unknown"
	unknownCodeSymbol = "?"
)

func CodeLabel(code int) string {
	if c, ok := weatherCodes[code]; ok {
		return c.label
	}
	return unknownCodeLabel
}

func CodeSymbol(code int) string {
	if c, ok := weatherCodes[code]; ok {
		return c.symbol
	}
	return unknownCodeSymbol
}
