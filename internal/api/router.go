package api

import (
	"carrier-match-service/internal/api/handlers"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(carriers *handlers.CarrierHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Route("/v1/carriers", func(r chi.Router) {
		r.Get("/", carriers.List)
		r.Post("/search", carriers.Search)
	})

	return r
}
