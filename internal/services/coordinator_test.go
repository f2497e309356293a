package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"weatherly/internal/adapters/geocode"
	"weatherly/internal/adapters/geolocation"
	"weatherly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

var (
	london        = domain.PlaceRecord{ID: 1, Name: "London", Admin1: "England", Country: "GB", Latitude: 51.5, Longitude: -0.12}
	londonOntario = domain.PlaceRecord{ID: 2, Name: "London", Admin1: "Ontario", Country: "CA", Latitude: 42.98, Longitude: -81.23}
	paris         = domain.PlaceRecord{ID: 3, Name: "Paris", Admin1: "Ile-de-France", Country: "FR", Latitude: 48.85, Longitude: 2.35}

	secure = Origin{Secure: true, Host: "weather.example.com"}
)

type forecastCall struct {
	At    domain.Coordinates
	Units domain.Units
}

// fakeForecasts answers with the latitude as temperature. Fetches for a
// gated coordinate block until the gate is closed.
type fakeForecasts struct {
	mu    sync.Mutex
	calls []forecastCall
	gates map[domain.Coordinates]chan struct{}
	err   error
}

func (f *fakeForecasts) gate(at domain.Coordinates) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gates == nil {
		f.gates = map[domain.Coordinates]chan struct{}{}
	}
	ch := make(chan struct{})
	f.gates[at] = ch
	return ch
}

func (f *fakeForecasts) Fetch(ctx context.Context, at domain.Coordinates, units domain.Units) (domain.Forecast, error) {
	f.mu.Lock()
	f.calls = append(f.calls, forecastCall{At: at, Units: units})
	gate := f.gates[at]
	err := f.err
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.Forecast{}, ctx.Err()
		}
	}
	if err != nil {
		return domain.Forecast{}, err
	}
	return domain.Forecast{Units: units, Current: domain.CurrentWeather{Temperature: at.Lat}}, nil
}

func (f *fakeForecasts) Calls() []forecastCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]forecastCall(nil), f.calls...)
}

type spyLocator struct {
	called atomic.Bool
}

func (s *spyLocator) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	s.called.Store(true)
	return domain.Coordinates{Lat: 1, Lon: 2}, nil
}

type countingSurface struct {
	renders atomic.Int32
}

func (s *countingSurface) Render(domain.SelectionState) { s.renders.Add(1) }

func startCoordinator(t *testing.T, geo *geocode.MockGeocoder, fc *fakeForecasts, opts Options) *Coordinator {
	t.Helper()

	if opts.Debounce == 0 {
		opts.Debounce = 10 * time.Millisecond
	}
	c := NewCoordinator(geo, fc, opts)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-errCh)
	})

	return c
}

func apply(t *testing.T, c *Coordinator, in Intent) domain.SelectionState {
	t.Helper()
	s, err := c.Apply(context.Background(), in)
	require.NoError(t, err)
	return s
}

func TestSearchThenChoose(t *testing.T) {
	geo := geocode.NewMockGeocoder(london, londonOntario, paris)
	fc := &fakeForecasts{}
	c := startCoordinator(t, geo, fc, Options{})

	s := apply(t, c, Input{Text: "Lon"})
	assert.True(t, s.UserEdited)

	require.Eventually(t, func() bool {
		return len(c.Snapshot().Suggestions) == 2
	}, waitFor, tick)
	assert.Equal(t, domain.PhaseSuggesting, c.Snapshot().Phase)

	s = apply(t, c, Choose{Index: 0})
	assert.Equal(t, "London, England, GB", s.Query)
	assert.Equal(t, "London, England, GB", s.LastAppliedLabel)
	assert.False(t, s.UserEdited)
	assert.Empty(t, s.Suggestions)

	require.Eventually(t, func() bool {
		f := c.Snapshot().Forecast
		return f != nil && f.Location == london
	}, waitFor, tick)

	calls := fc.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, forecastCall{At: london.Coordinates(), Units: domain.Metric}, calls[0])
	assert.False(t, c.Snapshot().Loading)
}

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	geo := geocode.NewMockGeocoder(london)
	c := startCoordinator(t, geo, &fakeForecasts{}, Options{Debounce: 150 * time.Millisecond})

	for _, text := range []string{"L", "Lo", "Lon"} {
		apply(t, c, Input{Text: text})
	}

	require.Eventually(t, func() bool {
		return len(c.Snapshot().Suggestions) == 1
	}, waitFor, tick)
	assert.Equal(t, []string{"Lon"}, geo.Searches())
}

func TestEmptyQueryDoesNotSearch(t *testing.T) {
	geo := geocode.NewMockGeocoder(london)
	c := startCoordinator(t, geo, &fakeForecasts{}, Options{})

	s := apply(t, c, Input{Text: "   "})
	assert.Equal(t, domain.PhaseIdle, s.Phase)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, geo.Searches())
}

func TestSearchErrorsAreIgnored(t *testing.T) {
	geo := geocode.NewMockGeocoder(london)
	geo.SearchErr = &domain.NetworkError{Op: "open-meteo.search", Err: errors.New("connection refused")}
	c := startCoordinator(t, geo, &fakeForecasts{}, Options{})

	apply(t, c, Input{Text: "Lon"})

	require.Eventually(t, func() bool {
		return len(geo.Searches()) == 1 && c.Snapshot().Phase == domain.PhaseIdle
	}, waitFor, tick)

	s := c.Snapshot()
	assert.Empty(t, s.Error)
	assert.Empty(t, s.Suggestions)
	assert.Equal(t, "Lon", s.Query)
}

func TestStaleForecastIsDiscarded(t *testing.T) {
	fc := &fakeForecasts{}
	release := fc.gate(paris.Coordinates())
	c := startCoordinator(t, geocode.NewMockGeocoder(), fc, Options{})

	apply(t, c, ChoosePlace{Place: paris})
	apply(t, c, ChoosePlace{Place: london})

	require.Eventually(t, func() bool {
		f := c.Snapshot().Forecast
		return f != nil && f.Location == london
	}, waitFor, tick)

	close(release)
	assert.Never(t, func() bool {
		f := c.Snapshot().Forecast
		return f == nil || f.Location == paris
	}, 100*time.Millisecond, tick)
	assert.Len(t, fc.Calls(), 2)
}

func TestForecastFailure(t *testing.T) {
	fc := &fakeForecasts{err: &domain.ProviderError{Provider: "open-meteo-forecast", StatusCode: 500}}
	c := startCoordinator(t, geocode.NewMockGeocoder(), fc, Options{})

	apply(t, c, ChoosePlace{Place: paris})

	require.Eventually(t, func() bool {
		return c.Snapshot().Error == domain.MsgForecastFailed
	}, waitFor, tick)
	assert.False(t, c.Snapshot().Loading)
}

func TestSetUnitsRefetches(t *testing.T) {
	fc := &fakeForecasts{}
	c := startCoordinator(t, geocode.NewMockGeocoder(), fc, Options{})

	apply(t, c, ChoosePlace{Place: paris})
	require.Eventually(t, func() bool { return c.Snapshot().Forecast != nil }, waitFor, tick)

	apply(t, c, SetUnits{Units: domain.Metric})
	apply(t, c, SetUnits{Units: domain.Imperial})

	require.Eventually(t, func() bool {
		f := c.Snapshot().Forecast
		return f != nil && f.Units == domain.Imperial
	}, waitFor, tick)

	calls := fc.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, domain.Imperial, calls[1].Units)
}

func TestLocatePermissionDenied(t *testing.T) {
	fc := &fakeForecasts{}
	c := startCoordinator(t, geocode.NewMockGeocoder(), fc, Options{})

	apply(t, c, Locate{Origin: secure, Source: geolocation.FromErrorCode(domain.LocationPermissionDenied)})

	require.Eventually(t, func() bool {
		return c.Snapshot().Error == domain.MsgPermissionDenied
	}, waitFor, tick)

	s := c.Snapshot()
	assert.Nil(t, s.Selected)
	assert.False(t, s.Loading)
	assert.Empty(t, fc.Calls())
}

func TestLocateInsecureOrigin(t *testing.T) {
	spy := &spyLocator{}
	c := startCoordinator(t, geocode.NewMockGeocoder(), &fakeForecasts{}, Options{})

	s := apply(t, c, Locate{Origin: Origin{Host: "weather.example.com"}, Source: spy})
	assert.Equal(t, domain.MsgInsecureContext, s.Error)
	assert.Nil(t, s.Selected)

	time.Sleep(20 * time.Millisecond)
	assert.False(t, spy.called.Load())
}

func TestLocateOnLoopbackHost(t *testing.T) {
	geo := geocode.NewMockGeocoder()
	geo.ReverseFunc = func(ctx context.Context, call int, lat, lon float64) (*domain.PlaceRecord, error) {
		r := london
		return &r, nil
	}
	c := startCoordinator(t, geo, &fakeForecasts{}, Options{})

	apply(t, c, Locate{Origin: Origin{Host: "localhost:8080"}, Source: geolocation.FromPosition(51.51, -0.13)})

	require.Eventually(t, func() bool {
		return c.Snapshot().Query == "London, England, GB"
	}, waitFor, tick)

	s := c.Snapshot()
	assert.True(t, s.FromGeolocation)
	assert.Nil(t, s.PendingReverse, "complete record needs no upgrade")
	assert.Equal(t, domain.Coordinates{Lat: 51.51, Lon: -0.13}, s.Selected.Coordinates())
	assert.Equal(t, 1, geo.ReverseCalls())
}

func TestLocateFallbackUpgradeRelabels(t *testing.T) {
	geo := geocode.NewMockGeocoder()
	geo.ReverseFunc = func(ctx context.Context, call int, lat, lon float64) (*domain.PlaceRecord, error) {
		if call == 1 {
			return nil, nil
		}
		return &domain.PlaceRecord{Name: "FallbackCity", Admin1: "StateX", Country: "CountryY", Provider: domain.ProviderNominatim}, nil
	}
	fc := &fakeForecasts{}
	c := startCoordinator(t, geo, fc, Options{})

	apply(t, c, Locate{Origin: secure, Source: geolocation.FromPosition(10, 20)})

	require.Eventually(t, func() bool {
		return c.Snapshot().Query == "FallbackCity, StateX, CountryY"
	}, waitFor, tick)
	require.Eventually(t, func() bool {
		f := c.Snapshot().Forecast
		return f != nil && f.Location.Name == "FallbackCity"
	}, waitFor, tick)

	s := c.Snapshot()
	assert.Equal(t, s.Query, s.LastAppliedLabel)
	assert.Nil(t, s.PendingReverse)
	assert.False(t, s.Resolving)
	assert.Equal(t, domain.Coordinates{Lat: 10, Lon: 20}, s.Selected.Coordinates())
	assert.Len(t, fc.Calls(), 2, "placeholder and upgraded selection are fetched once each")
}

func TestLocateUnresolvedKeepsPlaceholder(t *testing.T) {
	geo := geocode.NewMockGeocoder()
	fc := &fakeForecasts{}
	c := startCoordinator(t, geo, fc, Options{})

	apply(t, c, Locate{Origin: secure, Source: geolocation.FromPosition(10, 20)})

	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return geo.ReverseCalls() == 2 && !s.Resolving && s.Forecast != nil
	}, waitFor, tick)

	s := c.Snapshot()
	assert.Equal(t, domain.PlaceholderName, s.Query)
	assert.True(t, s.Selected.IsPlaceholder())
	assert.Len(t, fc.Calls(), 1)
}

func TestUpgradeDoesNotClobberTyping(t *testing.T) {
	release := make(chan struct{})
	geo := geocode.NewMockGeocoder()
	geo.ReverseFunc = func(ctx context.Context, call int, lat, lon float64) (*domain.PlaceRecord, error) {
		if call == 1 {
			return nil, nil
		}
		<-release
		return &domain.PlaceRecord{Name: "ResolvedCity", Admin1: "Region", Country: "GB"}, nil
	}
	c := startCoordinator(t, geo, &fakeForecasts{}, Options{})

	apply(t, c, Locate{Origin: secure, Source: geolocation.FromPosition(51.5, -0.1)})
	require.Eventually(t, func() bool {
		return geo.ReverseCalls() == 2
	}, waitFor, tick)
	assert.Equal(t, domain.PlaceholderName, c.Snapshot().Query)

	apply(t, c, Input{Text: "Lon"})
	close(release)

	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return s.Selected != nil && s.Selected.Name == "ResolvedCity"
	}, waitFor, tick)

	s := c.Snapshot()
	assert.Equal(t, "Lon", s.Query)
	assert.Equal(t, domain.PlaceholderName, s.LastAppliedLabel)
	assert.Nil(t, s.PendingReverse)
}

func TestLocateDiscardedAfterNewerSelection(t *testing.T) {
	release := make(chan struct{})
	geo := geocode.NewMockGeocoder()
	geo.ReverseFunc = func(ctx context.Context, call int, lat, lon float64) (*domain.PlaceRecord, error) {
		<-release
		r := london
		return &r, nil
	}
	c := startCoordinator(t, geo, &fakeForecasts{}, Options{})

	apply(t, c, Locate{Origin: secure, Source: geolocation.FromPosition(51.5, -0.1)})
	require.Eventually(t, func() bool { return geo.ReverseCalls() == 1 }, waitFor, tick)

	apply(t, c, ChoosePlace{Place: paris})
	close(release)

	assert.Never(t, func() bool {
		s := c.Snapshot()
		return s.Selected == nil || *s.Selected != paris
	}, 100*time.Millisecond, tick)
	assert.Equal(t, "Paris, Ile-de-France, FR", c.Snapshot().Query)
}

func TestChooseOutOfRangeIsIgnored(t *testing.T) {
	c := startCoordinator(t, geocode.NewMockGeocoder(), &fakeForecasts{}, Options{})

	s := apply(t, c, Choose{Index: 4})
	assert.Nil(t, s.Selected)
	assert.Equal(t, domain.PhaseIdle, s.Phase)
}

func TestSurfaceRenderedPerEvent(t *testing.T) {
	surface := &countingSurface{}
	c := startCoordinator(t, geocode.NewMockGeocoder(), &fakeForecasts{}, Options{Surface: surface})

	apply(t, c, SetUnits{Units: domain.Imperial})
	assert.GreaterOrEqual(t, surface.renders.Load(), int32(2), "initial render plus one per event")
	assert.Equal(t, domain.Imperial, c.Snapshot().Units)
}

func TestDispatchAfterStop(t *testing.T) {
	c := NewCoordinator(geocode.NewMockGeocoder(), &fakeForecasts{}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, c.Run(ctx))

	_, err := c.Apply(context.Background(), Input{Text: "x"})
	assert.ErrorIs(t, err, ErrCoordinatorStopped)
}

func TestRelocateReplacesPendingUpgrade(t *testing.T) {
	release := make(chan struct{})
	geo := geocode.NewMockGeocoder()
	geo.ReverseFunc = func(ctx context.Context, call int, lat, lon float64) (*domain.PlaceRecord, error) {
		if lat == 5 {
			return &domain.PlaceRecord{Name: "NewTown", Admin1: "B", Country: "Y"}, nil
		}
		if call == 1 {
			return nil, nil
		}
		<-release
		return &domain.PlaceRecord{Name: "OldTown", Admin1: "A", Country: "X"}, nil
	}
	c := startCoordinator(t, geo, &fakeForecasts{}, Options{})

	apply(t, c, Locate{Origin: secure, Source: geolocation.FromPosition(1, 1)})
	require.Eventually(t, func() bool { return geo.ReverseCalls() == 2 }, waitFor, tick)

	apply(t, c, Locate{Origin: secure, Source: geolocation.FromPosition(5, 5)})
	require.Eventually(t, func() bool {
		return c.Snapshot().Query == "NewTown, B, Y"
	}, waitFor, tick)

	close(release)
	assert.Never(t, func() bool {
		s := c.Snapshot()
		return s.Selected == nil || s.Selected.Coordinates() != domain.Coordinates{Lat: 5, Lon: 5}
	}, 100*time.Millisecond, tick)
	assert.Equal(t, "NewTown, B, Y", c.Snapshot().Query)
}

func TestLocateReverseErrorKeepsPlaceholder(t *testing.T) {
	geo := geocode.NewMockGeocoder()
	geo.ReverseFunc = func(ctx context.Context, call int, lat, lon float64) (*domain.PlaceRecord, error) {
		return nil, errors.New("geocoder unavailable")
	}
	fc := &fakeForecasts{}
	c := startCoordinator(t, geo, fc, Options{})

	apply(t, c, Locate{Origin: secure, Source: geolocation.FromPosition(10, 20)})

	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return geo.ReverseCalls() == 2 && !s.Resolving && s.Forecast != nil
	}, waitFor, tick)

	s := c.Snapshot()
	require.NotNil(t, s.Selected)
	assert.True(t, s.Selected.IsPlaceholder())
	assert.Equal(t, domain.PlaceholderName, s.Query)
	assert.Nil(t, s.PendingReverse, "failed upgrade still clears the pending lookup")
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Len(t, fc.Calls(), 1)
}

func TestUpgradeReverseErrorClearsPending(t *testing.T) {
	geo := geocode.NewMockGeocoder()
	geo.ReverseFunc = func(ctx context.Context, call int, lat, lon float64) (*domain.PlaceRecord, error) {
		if call == 1 {
			return nil, nil
		}
		return nil, &domain.NetworkError{Op: "open-meteo.reverse", Err: errors.New("reset")}
	}
	c := startCoordinator(t, geo, &fakeForecasts{}, Options{})

	apply(t, c, Locate{Origin: secure, Source: geolocation.FromPosition(10, 20)})

	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return geo.ReverseCalls() == 2 && s.Selected != nil && !s.Resolving
	}, waitFor, tick)

	s := c.Snapshot()
	assert.Nil(t, s.PendingReverse)
	assert.Equal(t, domain.PhaseSelected, s.Phase)
}
