package api

import (
	"net/http"

	"weatherly/internal/api/handlers"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// trustProxy lets X-Forwarded-Proto mark a request as secure.
func NewRouter(session handlers.Session, diagnostics *handlers.DiagnosticsHandler, trustProxy bool) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware)

	sessionHandler := &handlers.SessionHandler{Session: session, TrustProxy: trustProxy}

	r.Get("/health", handlers.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", sessionHandler.State)
		r.Put("/query", sessionHandler.Query)
		r.Post("/suggestions/{index}/choose", sessionHandler.Choose)
		r.Post("/locate", sessionHandler.Locate)
		r.Put("/units", sessionHandler.Units)
		r.Get("/diagnostics/urls", diagnostics.URLs)
	})

	return r
}
