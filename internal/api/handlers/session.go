package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"weatherly/internal/adapters/geolocation"
	"weatherly/internal/api/dto"
	"weatherly/internal/domain"
	"weatherly/internal/services"

	"github.com/go-chi/chi/v5"
)

// Session is the widget session the handlers drive.
type Session interface {
	Apply(ctx context.Context, in services.Intent) (domain.SelectionState, error)
	Snapshot() domain.SelectionState
}

type SessionHandler struct {
	Session Session
	// TrustProxy honours X-Forwarded-Proto. Enable it only behind a proxy
	// that overwrites the header.
	TrustProxy bool
}

// State returns the current snapshot.
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.NewStateResponse(h.Session.Snapshot()))
}

// Query records a search-box edit. Suggestions arrive asynchronously after
// the debounce; poll State to observe them.
func (h *SessionHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req dto.QueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.apply(w, r, http.StatusOK, services.Input{Text: req.Text})
}

func (h *SessionHandler) Choose(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 {
		writeError(w, r, http.StatusBadRequest, "index must be a non-negative integer")
		return
	}
	if idx >= len(h.Session.Snapshot().Suggestions) {
		writeError(w, r, http.StatusNotFound, "no such suggestion")
		return
	}
	h.apply(w, r, http.StatusOK, services.Choose{Index: idx})
}

// Locate relays the browser's geolocation result. The secure context is
// derived from TLS, or from X-Forwarded-Proto when TrustProxy is set.
func (h *SessionHandler) Locate(w http.ResponseWriter, r *http.Request) {
	var req dto.LocateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var source geolocation.Fixed
	if req.ErrorCode != nil {
		source = geolocation.FromErrorCode(*req.ErrorCode)
	} else {
		source = geolocation.FromPosition(*req.Latitude, *req.Longitude)
	}

	origin := services.Origin{
		Secure: h.isSecure(r),
		Host:   r.Host,
	}
	h.apply(w, r, http.StatusAccepted, services.Locate{Origin: origin, Source: source})
}

func (h *SessionHandler) Units(w http.ResponseWriter, r *http.Request) {
	var req dto.UnitsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.apply(w, r, http.StatusOK, services.SetUnits{Units: domain.Units(req.Units)})
}

func (h *SessionHandler) isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return h.TrustProxy && strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func (h *SessionHandler) apply(w http.ResponseWriter, r *http.Request, status int, in services.Intent) {
	s, err := h.Session.Apply(r.Context(), in)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, status, dto.NewStateResponse(s))
}
