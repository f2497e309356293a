package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPlace(t *testing.T) {
	tests := []struct {
		name  string
		place PlaceRecord
		want  string
	}{
		{
			name:  "name admin1 country",
			place: PlaceRecord{Name: "London", Admin1: "England", Country: "GB"},
			want:  "London, England, GB",
		},
		{
			name:  "admin1 equal to name is not repeated",
			place: PlaceRecord{Name: "Berlin", Admin1: "Berlin", Country: "Germany"},
			want:  "Berlin, Germany",
		},
		{
			name:  "locality when name missing",
			place: PlaceRecord{Locality: "Soho", Admin1: "England"},
			want:  "Soho, England",
		},
		{
			name:  "admin2 before admin1",
			place: PlaceRecord{Admin2: "Kent", Admin1: "England", Country: "GB"},
			want:  "Kent, England, GB",
		},
		{
			name:  "admin1 only",
			place: PlaceRecord{Admin1: "Texas", Country: "US"},
			want:  "Texas, US",
		},
		{
			name:  "admin3 then admin4",
			place: PlaceRecord{Admin4: "Ward 4", Admin3: "District 3"},
			want:  "District 3",
		},
		{
			name:  "country only",
			place: PlaceRecord{Country: "Uruguay"},
			want:  "Uruguay",
		},
		{
			name:  "placeholder",
			place: Placeholder(Coordinates{Lat: 1, Lon: 2}),
			want:  "My location",
		},
		{
			name:  "empty",
			place: PlaceRecord{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPlace(tt.place))
		})
	}
}

func TestFormatPlaceNeverEmptyWithName(t *testing.T) {
	names := []string{"a", "London", " Paris ", "São Paulo"}
	for _, n := range names {
		p := PlaceRecord{Name: n, Admin1: "x", Country: "y"}
		assert.NotEmpty(t, FormatPlace(p), "name %q", n)
	}
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "london, england, gb", NormalizeLabel("  London, England, GB "))
	assert.Equal(t, "", NormalizeLabel("   "))
}
