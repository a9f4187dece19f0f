package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/citizenvoice/pqrs-dashboard-api/config"
	"github.com/citizenvoice/pqrs-dashboard-api/gateways"
	"github.com/citizenvoice/pqrs-dashboard-api/stats"
)

// Stats exported for testing purposes
type Stats struct {
	Cases gateways.CaseService
}

// StatsHandler computes the dashboard overview over the current case list
func (s Stats) StatsHandler(w http.ResponseWriter, r *http.Request) {
	cases, err := s.Cases.List(r.Context())
	if err != nil {
		config.ErrorStatus("failed to get cases", http.StatusInternalServerError, w, err)
		return
	}

	overview := stats.Compute(cases, time.Now())
	b, err := json.Marshal(overview)
	if err != nil {
		config.ErrorStatus("failed to marshal stats", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
