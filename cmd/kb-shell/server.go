package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type healthResponse struct {
	Status  string `json:"status"`
	Journal string `json:"journal"`
}

// buildRouter serves Prometheus metrics and a health probe. Handlers never
// touch the knowledge base, which belongs to the shell loop.
func (s *session) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth())
	if s.collector != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.collector.Registry(), promhttp.HandlerOpts{}))
	}

	return r
}

func (s *session) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := healthResponse{Status: "ok", Journal: "recording"}
		if s.journalFailed.Load() {
			resp.Status = "degraded"
			resp.Journal = "stopped"
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
