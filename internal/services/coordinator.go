package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"weatherly/internal/domain"
	"weatherly/internal/ports"
)

const (
	DefaultDebounce = 250 * time.Millisecond

	defaultQueueSize = 64
)

var ErrCoordinatorStopped = errors.New("coordinator: stopped")

type Options struct {
	// Debounce delays the forward search after the last keystroke.
	Debounce time.Duration
	// Surface is rendered after every processed event. Optional.
	Surface ports.Surface
	// Units is the initial unit system.
	Units     domain.Units
	QueueSize int
}

// SearchOutcome is the completion of a forward search. A non-nil Err is
// logged and otherwise ignored: typeahead failures never reach the user.
type SearchOutcome struct {
	Query   string
	Results []domain.PlaceRecord
	Err     error
}

type (
	debounceFired struct {
		token uint64
		query string
	}

	locateOutcome struct {
		token         uint64
		gen           uint64
		queryAtIntent string
		fix           domain.Coordinates
		place         *domain.PlaceRecord
		err           error
	}

	upgradeOutcome struct {
		gen    uint64
		target domain.Coordinates
		place  *domain.PlaceRecord
	}

	forecastOutcome struct {
		gen      uint64
		units    domain.Units
		forecast domain.Forecast
		err      error
	}

	envelope struct {
		intent Intent
		reply  chan domain.SelectionState
	}
)

type fetchKey struct {
	gen   uint64
	units domain.Units
}

// Coordinator owns the widget session. One goroutine (Run) serializes user
// intents and the completions of background lookups; lookups run in their
// own goroutines and never touch the state. Each completion carries the
// identity it was issued for and is dropped when that identity is stale.
//
// The Coordinator is safe for concurrent use.
type Coordinator struct {
	geocoder  ports.Geocoder
	forecasts ports.ForecastProvider
	surface   ports.Surface
	debounce  time.Duration

	events chan any
	done   chan struct{}

	// Owned by the Run goroutine.
	state       domain.SelectionState
	searchToken uint64
	locateToken uint64
	timer       *time.Timer
	lastFetch   *fetchKey

	mu       sync.RWMutex
	snapshot domain.SelectionState
}

func NewCoordinator(geocoder ports.Geocoder, forecasts ports.ForecastProvider, opts Options) *Coordinator {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}

	c := &Coordinator{
		geocoder:  geocoder,
		forecasts: forecasts,
		surface:   opts.Surface,
		debounce:  opts.Debounce,
		events:    make(chan any, opts.QueueSize),
		done:      make(chan struct{}),
		state:     domain.NewSelectionState(opts.Units),
	}
	c.snapshot = c.state.Clone()

	return c
}

// Run processes events until ctx is cancelled. It must be called once.
func (c *Coordinator) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.stopTimer()

	c.publish()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-c.events:
			var reply chan domain.SelectionState
			if env, ok := ev.(envelope); ok {
				ev, reply = env.intent, env.reply
			}

			c.handle(ctx, ev)
			c.publish()

			if reply != nil {
				reply <- c.state.Clone()
			}
		}
	}
}

// Dispatch queues an intent without waiting for it to be processed.
func (c *Coordinator) Dispatch(ctx context.Context, in Intent) error {
	select {
	case c.events <- in:
		return nil
	case <-c.done:
		return ErrCoordinatorStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Apply queues an intent and returns the state right after it was
// processed. Background work it started may still be in flight.
func (c *Coordinator) Apply(ctx context.Context, in Intent) (domain.SelectionState, error) {
	reply := make(chan domain.SelectionState, 1)

	select {
	case c.events <- envelope{intent: in, reply: reply}:
	case <-c.done:
		return domain.SelectionState{}, ErrCoordinatorStopped
	case <-ctx.Done():
		return domain.SelectionState{}, ctx.Err()
	}

	select {
	case s := <-reply:
		return s, nil
	case <-c.done:
		return domain.SelectionState{}, ErrCoordinatorStopped
	case <-ctx.Done():
		return domain.SelectionState{}, ctx.Err()
	}
}

// Snapshot returns a copy of the most recently published state.
func (c *Coordinator) Snapshot() domain.SelectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot.Clone()
}

func (c *Coordinator) publish() {
	s := c.state.Clone()

	c.mu.Lock()
	c.snapshot = s
	c.mu.Unlock()

	if c.surface != nil {
		c.surface.Render(s.Clone())
	}
}

// post delivers a completion to the loop. It gives up once the loop is
// gone.
func (c *Coordinator) post(ctx context.Context, ev any) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	case <-c.done:
	}
}

func (c *Coordinator) handle(ctx context.Context, ev any) {
	switch ev := ev.(type) {
	case Input:
		c.onInput(ctx, ev)
	case Choose:
		if _, ok := c.state.ChooseSuggestion(ev.Index); !ok {
			log.Printf("op=coordinator.choose index=%d ignored=no_such_suggestion", ev.Index)
			return
		}
		c.onSelected(ctx)
	case ChoosePlace:
		c.state.Choose(ev.Place)
		c.onSelected(ctx)
	case Locate:
		c.onLocate(ctx, ev)
	case SetUnits:
		if c.state.SetUnits(ev.Units) {
			c.maybeFetchForecast(ctx)
		}

	case debounceFired:
		c.onDebounce(ctx, ev)
	case SearchOutcome:
		c.onSearchOutcome(ev)
	case locateOutcome:
		c.onLocateOutcome(ctx, ev)
	case upgradeOutcome:
		if c.state.ApplyUpgrade(ev.gen, ev.target, ev.place) && ev.place != nil {
			c.maybeFetchForecast(ctx)
		}
	case forecastOutcome:
		c.onForecastOutcome(ev)

	default:
		log.Printf("op=coordinator.handle unknown_event=%T", ev)
	}
}

func (c *Coordinator) onInput(ctx context.Context, in Input) {
	c.searchToken++
	c.stopTimer()

	q, ok := c.state.EditQuery(in.Text)
	if !ok {
		return
	}

	token := c.searchToken
	c.timer = time.AfterFunc(c.debounce, func() {
		c.post(ctx, debounceFired{token: token, query: q})
	})
}

func (c *Coordinator) onDebounce(ctx context.Context, ev debounceFired) {
	if ev.token != c.searchToken || !c.state.BeginSearch(ev.query) {
		return
	}

	go func(q string) {
		results, err := c.geocoder.Search(ctx, q)
		c.post(ctx, SearchOutcome{Query: q, Results: results, Err: err})
	}(ev.query)
}

func (c *Coordinator) onSearchOutcome(ev SearchOutcome) {
	if ev.Err != nil {
		log.Printf("op=coordinator.search q=%q ignored err=%v", ev.Query, ev.Err)
		c.state.AbandonSearch(ev.Query)
		return
	}
	c.state.ApplySuggestions(ev.Query, ev.Results)
}

// onSelected runs after the user picked a place: pending searches are
// cancelled and the forecast follows the new selection.
func (c *Coordinator) onSelected(ctx context.Context) {
	c.searchToken++
	c.stopTimer()
	c.maybeFetchForecast(ctx)
}

func (c *Coordinator) onLocate(ctx context.Context, in Locate) {
	if !in.Origin.AllowsGeolocation() {
		c.state.FailLocation(domain.ErrInsecureContext)
		return
	}
	if in.Source == nil {
		c.state.FailLocation(domain.ErrLocationFailed)
		return
	}

	c.locateToken++
	issued := locateOutcome{
		token:         c.locateToken,
		gen:           c.state.Generation,
		queryAtIntent: c.state.Query,
	}
	c.state.BeginLocate()

	go func(out locateOutcome, source ports.Locator) {
		fix, err := source.CurrentPosition(ctx)
		if err != nil {
			out.err = err
			c.post(ctx, out)
			return
		}

		place, ok := c.reverse(ctx, "locate", fix)
		if !ok {
			return
		}

		out.fix, out.place = fix, place
		c.post(ctx, out)
	}(issued, in.Source)
}

// reverse resolves at, degrading any failure other than cancellation to
// "no place". It reports false only when ctx is done.
func (c *Coordinator) reverse(ctx context.Context, op string, at domain.Coordinates) (*domain.PlaceRecord, bool) {
	place, err := c.geocoder.Reverse(ctx, at.Lat, at.Lon)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false
		}
		log.Printf("op=coordinator.%s at=%s err=%v", op, at.Key(), err)
		return nil, true
	}
	return place, true
}

func (c *Coordinator) onLocateOutcome(ctx context.Context, ev locateOutcome) {
	if ev.token != c.locateToken {
		return
	}
	if ev.gen != c.state.Generation {
		log.Printf("op=coordinator.locate discarded=newer_selection")
		c.state.AbandonLocate()
		return
	}

	if ev.err != nil {
		if errors.Is(ev.err, context.Canceled) {
			return
		}
		log.Printf("op=coordinator.locate err=%v", ev.err)
		c.state.FailLocation(ev.err)
		return
	}

	if c.state.ApplyLocation(ev.fix, ev.place, ev.queryAtIntent) {
		c.startUpgrade(ctx, c.state.Generation, *c.state.PendingReverse)
	}
	c.maybeFetchForecast(ctx)
}

// startUpgrade resolves a better label for a geolocated selection in the
// background.
func (c *Coordinator) startUpgrade(ctx context.Context, gen uint64, target domain.Coordinates) {
	go func() {
		place, ok := c.reverse(ctx, "upgrade", target)
		if !ok {
			return
		}
		c.post(ctx, upgradeOutcome{gen: gen, target: target, place: place})
	}()
}

// maybeFetchForecast starts one fetch per selection generation and unit
// system.
func (c *Coordinator) maybeFetchForecast(ctx context.Context) {
	if c.state.Selected == nil {
		return
	}

	key := fetchKey{gen: c.state.Generation, units: c.state.Units}
	if c.lastFetch != nil && *c.lastFetch == key {
		return
	}
	c.lastFetch = &key
	c.state.BeginForecast()

	at := c.state.Selected.Coordinates()
	go func() {
		f, err := c.forecasts.Fetch(ctx, at, key.units)
		c.post(ctx, forecastOutcome{gen: key.gen, units: key.units, forecast: f, err: err})
	}()
}

func (c *Coordinator) onForecastOutcome(ev forecastOutcome) {
	if ev.err != nil {
		if c.state.FailForecast(ev.gen, ev.units) {
			log.Printf("op=coordinator.forecast gen=%d err=%v", ev.gen, ev.err)
		}
		return
	}
	c.state.ApplyForecast(ev.gen, ev.units, ev.forecast)
}

func (c *Coordinator) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
