package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func buildRouter(s *stateStore) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// UI
	r.Get("/", s.indexHandler)
	r.Post("/submit", s.submitFormHandler)
	r.Get("/results/{id}", s.resultPageHandler)

	// Health/info
	r.Get("/healthz", healthzHandler)
	r.Get("/api/v1/server-info", serverInfoHandler)

	// Submissions and results
	r.Post("/api/v1/submissions", s.createSubmissionHandler)
	r.Get("/api/v1/results", s.listResultsHandler)
	r.Get("/api/v1/results/{id}", s.getResultHandler)
	r.Put("/api/v1/results/{id}", s.putResultHandler)
	r.Delete("/api/v1/results/{id}", s.deleteResultHandler)

	return r
}
