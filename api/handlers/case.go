package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/citizenvoice/pqrs-dashboard-api/config"
	"github.com/citizenvoice/pqrs-dashboard-api/gateways"
	"github.com/citizenvoice/pqrs-dashboard-api/models"
)

// Case exported for testing purposes
type Case struct {
	Service gateways.CaseService
}

// CaseHandler returns the full list of PQRS records from the backend
func (c Case) CaseHandler(w http.ResponseWriter, r *http.Request) {
	cases, err := c.Service.List(r.Context())
	if err != nil {
		config.ErrorStatus("failed to get cases", http.StatusInternalServerError, w, err)
		return
	}
	// an empty list marshals to [] rather than null
	if cases == nil {
		cases = []models.Case{}
	}
	b, err := json.Marshal(cases)
	if err != nil {
		config.ErrorStatus("failed to marshal cases", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CaseByIDHandler returns a single PQRS record by its path id
func (c Case) CaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	record, err := c.Service.Get(r.Context(), caseID)
	if err != nil {
		writeCaseError(w, caseID, err)
		return
	}

	b, err := json.Marshal(record)
	if err != nil {
		config.ErrorStatus("failed to marshal case", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateCaseByIDHandler forwards an edited record to the backend and
// returns the backend's view of the saved record
func (c Case) UpdateCaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	var record models.Case
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}

	updated, err := c.Service.Update(r.Context(), caseID, record)
	if err != nil {
		// the backend owns validation on writes, so its status passes
		// straight through
		if upstream, ok := gateways.AsUpstream(err); ok {
			config.ErrorStatus("failed to update PQRS", upstream.Status, w, err)
			return
		}
		writeCaseError(w, caseID, err)
		return
	}

	b, err := json.Marshal(updated)
	if err != nil {
		config.ErrorStatus("failed to marshal case", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// writeCaseError maps gateway errors onto the status codes callers key off
func writeCaseError(w http.ResponseWriter, caseID string, err error) {
	switch {
	case errors.Is(err, gateways.ErrInvalidRequest):
		config.ErrorStatus("PQRS ID is required", http.StatusBadRequest, w, err)
	case errors.Is(err, gateways.ErrNotFound):
		config.ErrorStatus("PQRS not found", http.StatusNotFound, w, err)
	default:
		zap.S().Errorw("backend request failed",
			"case_id", caseID,
			"error", err)
		config.ErrorStatus("failed to fetch PQRS", http.StatusInternalServerError, w, err)
	}
}
