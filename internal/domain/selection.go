package domain

import "strings"

// Phase is the coarse lookup state shown by the render surface.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSearching  Phase = "searching"
	PhaseSuggesting Phase = "suggesting"
	PhaseSelected   Phase = "selected"
	PhaseResolving  Phase = "resolving"
)

// SelectionState is the widget session aggregate: the active selection, the
// live search text and the bookkeeping needed to reconcile background
// lookups with user edits.
//
// Every mutation goes through one of the transition methods below. None of
// them perform I/O; the caller decides what to fetch based on the result.
type SelectionState struct {
	Selected *PlaceRecord
	Query    string
	// LastAppliedLabel is the label most recently written into Query by a
	// transition (empty when none has been written).
	LastAppliedLabel string
	UserEdited       bool
	PendingReverse   *Coordinates

	Suggestions     []PlaceRecord
	Phase           Phase
	FromGeolocation bool
	Resolving       bool
	// Loading is true while a geolocation request (Locating) or a forecast
	// fetch for the current selection (Fetching) is in flight.
	Loading  bool
	Locating bool
	Fetching bool
	Error    string

	Units    Units
	Forecast *Forecast

	// Generation identifies the current selection. It increases on every
	// assignment to Selected and stamps in-flight work issued for it.
	Generation uint64
}

func NewSelectionState(units Units) SelectionState {
	if units == "" {
		units = Metric
	}
	return SelectionState{Phase: PhaseIdle, Units: units}
}

// EditQuery records a keystroke. It returns the trimmed query and true when
// a forward search should be scheduled for it.
func (s *SelectionState) EditQuery(text string) (string, bool) {
	s.Query = text
	s.UserEdited = NormalizeLabel(text) != NormalizeLabel(s.LastAppliedLabel)

	q := strings.TrimSpace(text)
	if q == "" || s.isSelectedLabel(q) {
		s.Suggestions = nil
		s.settlePhase()
		return "", false
	}

	return q, true
}

// BeginSearch marks a forward search for q as in flight. It reports false
// when q no longer matches the search text.
func (s *SelectionState) BeginSearch(q string) bool {
	if q != strings.TrimSpace(s.Query) {
		return false
	}
	s.Phase = PhaseSearching
	return true
}

// ApplySuggestions installs search results for q. Results for a query that
// no longer matches the search text are dropped. A result whose label equals
// the current text is never suggested.
func (s *SelectionState) ApplySuggestions(q string, results []PlaceRecord) bool {
	current := strings.TrimSpace(s.Query)
	if q != current {
		return false
	}

	s.Suggestions = nil
	if !s.isSelectedLabel(current) {
		for _, r := range results {
			if FormatPlace(r) == current {
				continue
			}
			s.Suggestions = append(s.Suggestions, r)
		}
	}

	s.settlePhase()
	return true
}

// AbandonSearch settles the phase after a search for q ended without
// results being applied.
func (s *SelectionState) AbandonSearch(q string) bool {
	if s.Phase != PhaseSearching || q != strings.TrimSpace(s.Query) {
		return false
	}
	s.settlePhase()
	return true
}

// ChooseSuggestion selects the suggestion at index i.
func (s *SelectionState) ChooseSuggestion(i int) (PlaceRecord, bool) {
	if i < 0 || i >= len(s.Suggestions) {
		return PlaceRecord{}, false
	}
	place := s.Suggestions[i]
	s.Choose(place)
	return place, true
}

// Choose makes place the active selection and writes its label into the
// search text. A pending reverse upgrade is abandoned: the newer selection
// wins.
func (s *SelectionState) Choose(place PlaceRecord) {
	s.assign(place)

	label := FormatPlace(place)
	s.Query = label
	s.LastAppliedLabel = label
	s.UserEdited = false

	s.Suggestions = nil
	s.FromGeolocation = false
	s.PendingReverse = nil
	s.Resolving = false
	s.Error = ""
	s.settlePhase()
}

// BeginLocate marks a geolocation request as in flight. It replaces any
// pending reverse upgrade: completions for the old one are ignored.
func (s *SelectionState) BeginLocate() {
	s.Error = ""
	s.PendingReverse = nil
	s.Resolving = false
	s.Locating = true
	s.syncLoading()
	s.settlePhase()
}

// AbandonLocate ends a superseded geolocation request.
func (s *SelectionState) AbandonLocate() {
	s.Locating = false
	s.syncLoading()
}

// FailLocation surfaces a geolocation failure. The selection is untouched.
func (s *SelectionState) FailLocation(err error) {
	s.Locating = false
	s.syncLoading()
	s.Error = LocationMessage(err)
}

// ApplyLocation selects the place found for a device fix, or the "My
// location" placeholder when resolved is nil. The record is pinned to the
// fix coordinates.
//
// queryAtIntent is the search text when the request was issued; the label
// is written if the user has not edited since the last applied label or has
// not typed since the request. It reports whether a background reverse
// upgrade was registered.
func (s *SelectionState) ApplyLocation(fix Coordinates, resolved *PlaceRecord, queryAtIntent string) bool {
	place := Placeholder(fix)
	if resolved != nil {
		place = *resolved
		place.Latitude, place.Longitude = fix.Lat, fix.Lon
	}

	s.assign(place)
	s.FromGeolocation = true
	s.Suggestions = nil
	s.Error = ""
	s.Locating = false
	s.syncLoading()

	s.PendingReverse = nil
	s.Resolving = false
	if place.NeedsUpgrade() {
		pending := fix
		s.PendingReverse = &pending
		s.Resolving = true
	}

	s.writeLabel(FormatPlace(place), s.Query == queryAtIntent)
	s.settlePhase()

	return s.PendingReverse != nil
}

// ApplyUpgrade completes the background reverse lookup issued for target
// while the selection generation was gen. Completions for a replaced or
// abandoned pending lookup are ignored.
func (s *SelectionState) ApplyUpgrade(gen uint64, target Coordinates, resolved *PlaceRecord) bool {
	if s.PendingReverse == nil || *s.PendingReverse != target || gen != s.Generation {
		return false
	}

	s.PendingReverse = nil
	s.Resolving = false

	if resolved != nil {
		place := *resolved
		place.Latitude, place.Longitude = target.Lat, target.Lon
		s.assign(place)
		s.writeLabel(FormatPlace(place), false)
	}

	s.settlePhase()
	return true
}

// BeginForecast marks a forecast fetch for the current selection as in
// flight.
func (s *SelectionState) BeginForecast() {
	s.Fetching = true
	s.syncLoading()
	s.Error = ""
}

// ApplyForecast installs a forecast fetched for generation gen and units.
// Results for an outdated selection or unit system are dropped.
func (s *SelectionState) ApplyForecast(gen uint64, units Units, f Forecast) bool {
	if !s.isCurrentFetch(gen, units) {
		return false
	}
	f.Location = *s.Selected
	s.Forecast = &f
	s.Fetching = false
	s.syncLoading()
	s.Error = ""
	return true
}

// FailForecast surfaces a forecast failure for generation gen and units.
func (s *SelectionState) FailForecast(gen uint64, units Units) bool {
	if !s.isCurrentFetch(gen, units) {
		return false
	}
	s.Fetching = false
	s.syncLoading()
	s.Error = MsgForecastFailed
	return true
}

// SetUnits switches the unit system. It reports whether it changed.
func (s *SelectionState) SetUnits(u Units) bool {
	if u == s.Units {
		return false
	}
	s.Units = u
	return true
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s SelectionState) Clone() SelectionState {
	out := s
	if s.Selected != nil {
		p := *s.Selected
		out.Selected = &p
	}
	if s.PendingReverse != nil {
		c := *s.PendingReverse
		out.PendingReverse = &c
	}
	if s.Suggestions != nil {
		out.Suggestions = append([]PlaceRecord(nil), s.Suggestions...)
	}
	if s.Forecast != nil {
		f := *s.Forecast
		f.Daily = append([]DailyForecast(nil), s.Forecast.Daily...)
		out.Forecast = &f
	}
	return out
}

// CanOverwriteQuery reports whether the search text still matches the last
// applied label, i.e. the user has not diverged from it.
func (s *SelectionState) CanOverwriteQuery() bool {
	return !s.UserEdited || NormalizeLabel(s.Query) == NormalizeLabel(s.LastAppliedLabel)
}

func (s *SelectionState) assign(place PlaceRecord) {
	s.Selected = &place
	s.Generation++
}

func (s *SelectionState) writeLabel(label string, force bool) {
	if !force && !s.CanOverwriteQuery() {
		return
	}
	s.Query = label
	s.LastAppliedLabel = label
	s.UserEdited = false
}

func (s *SelectionState) isSelectedLabel(q string) bool {
	return s.Selected != nil && q == FormatPlace(*s.Selected)
}

func (s *SelectionState) isCurrentFetch(gen uint64, units Units) bool {
	return s.Selected != nil && gen == s.Generation && units == s.Units
}

func (s *SelectionState) syncLoading() {
	s.Loading = s.Locating || s.Fetching
}

func (s *SelectionState) settlePhase() {
	switch {
	case len(s.Suggestions) > 0:
		s.Phase = PhaseSuggesting
	case s.Resolving:
		s.Phase = PhaseResolving
	case s.Selected != nil:
		s.Phase = PhaseSelected
	default:
		s.Phase = PhaseIdle
	}
}
