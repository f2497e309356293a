package dto

type QueryRequest struct {
	Text string `json:"text" validate:"max=200"`
}

// LocateRequest carries what the browser's geolocation API reported:
// either a position or a W3C error code.
type LocateRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required_without=ErrorCode,omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,longitude"`
	ErrorCode *int     `json:"error_code" validate:"omitempty,gte=0"`
}

type UnitsRequest struct {
	Units string `json:"units" validate:"required,oneof=metric imperial"`
}

type URLsResponse struct {
	Search          string `json:"search,omitempty"`
	Reverse         string `json:"reverse"`
	FallbackReverse string `json:"fallback_reverse"`
	Forecast        string `json:"forecast"`
}
