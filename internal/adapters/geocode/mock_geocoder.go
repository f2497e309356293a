package geocode

import (
	"context"
	"strings"
	"sync"

	"weatherly/internal/domain"
	"weatherly/internal/ports"
)

// MockGeocoder is an in-memory ports.Geocoder for tests and offline demos.
// Search matches Places by case-insensitive name prefix. Reverse delegates
// to ReverseFunc (nil means "no place found").
type MockGeocoder struct {
	Places      []domain.PlaceRecord
	SearchErr   error
	ReverseFunc func(ctx context.Context, call int, lat, lon float64) (*domain.PlaceRecord, error)

	mu           sync.Mutex
	searches     []string
	reverseCalls int
}

var _ ports.Geocoder = (*MockGeocoder)(nil)

func NewMockGeocoder(places ...domain.PlaceRecord) *MockGeocoder {
	return &MockGeocoder{Places: places}
}

func (m *MockGeocoder) Search(ctx context.Context, query string) ([]domain.PlaceRecord, error) {
	m.mu.Lock()
	m.searches = append(m.searches, query)
	m.mu.Unlock()

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.PlaceRecord, 0, len(m.Places))
	for _, p := range m.Places {
		if strings.HasPrefix(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
		if len(out) == SearchCount {
			break
		}
	}
	return out, nil
}

func (m *MockGeocoder) Reverse(ctx context.Context, lat, lon float64) (*domain.PlaceRecord, error) {
	m.mu.Lock()
	m.reverseCalls++
	call := m.reverseCalls
	m.mu.Unlock()

	if m.ReverseFunc == nil {
		return nil, nil
	}
	return m.ReverseFunc(ctx, call, lat, lon)
}

// Searches returns the queries received so far, in order.
func (m *MockGeocoder) Searches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searches...)
}

func (m *MockGeocoder) ReverseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reverseCalls
}
