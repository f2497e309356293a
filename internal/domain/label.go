package domain

import "strings"

// FormatPlace renders the display label for a place.
//
// The primary part is the first non-empty of Name, Locality, Admin2, Admin1,
// Admin3, Admin4. Admin1 is appended when it differs from the primary part,
// then Country. Parts are joined with ", ".
//
// The result doubles as the reconciliation baseline for the search box, so
// it must stay deterministic.
func FormatPlace(p PlaceRecord) string {
	primary := firstNonEmpty(p.Name, p.Locality, p.Admin2, p.Admin1, p.Admin3, p.Admin4)

	parts := make([]string, 0, 3)
	if primary != "" {
		parts = append(parts, primary)
	}
	if admin1 := strings.TrimSpace(p.Admin1); admin1 != "" && admin1 != primary {
		parts = append(parts, admin1)
	}
	if country := strings.TrimSpace(p.Country); country != "" {
		parts = append(parts, country)
	}

	return strings.Join(parts, ", ")
}

// NormalizeLabel is the comparison form used to detect user edits.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
