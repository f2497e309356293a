package domain

// Provider tags identify which upstream produced a PlaceRecord.
const (
	ProviderOpenMeteo = "open-meteo"
	ProviderNominatim = "nominatim"
)

// PlaceholderName labels the synthesized record used when a device fix
// could not (yet) be resolved to a real place name.
const PlaceholderName = "My location"

// PlaceRecord is a normalized geocoding result. It has no identity beyond
// its field values and is passed by value; two records are equal when all
// fields are equal.
type PlaceRecord struct {
	ID        int64
	Name      string
	Country   string
	Admin1    string
	Admin2    string
	Admin3    string
	Admin4    string
	Locality  string
	Latitude  float64
	Longitude float64
	Timezone  string
	Provider  string
}

// Placeholder synthesizes the "My location" record for a raw device fix.
func Placeholder(c Coordinates) PlaceRecord {
	return PlaceRecord{
		Name:      PlaceholderName,
		Latitude:  c.Lat,
		Longitude: c.Lon,
	}
}

func (p PlaceRecord) Coordinates() Coordinates {
	return Coordinates{Lat: p.Latitude, Lon: p.Longitude}
}

// IsPlaceholder reports whether p carries the synthesized name instead of
// a resolved one.
func (p PlaceRecord) IsPlaceholder() bool {
	return p.Name == PlaceholderName
}

// NeedsUpgrade reports whether a background reverse lookup could improve
// the label: the record is a placeholder or lacks administrative detail.
func (p PlaceRecord) NeedsUpgrade() bool {
	return p.IsPlaceholder() || p.Admin1 == ""
}
