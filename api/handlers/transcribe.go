package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/citizenvoice/pqrs-dashboard-api/config"
	"github.com/citizenvoice/pqrs-dashboard-api/gateways"
)

// Transcribe exported for testing purposes
type Transcribe struct {
	Service gateways.Transcriber
}

// TranscribeRequest is the POST /transcribe body
type TranscribeRequest struct {
	AudioURL string `json:"audioUrl"`
}

// TranscribeHandler fetches the referenced audio and returns its speech
// transcription with word timings
func (t Transcribe) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}

	result, err := t.Service.Transcribe(r.Context(), req.AudioURL)
	if err != nil {
		if errors.Is(err, gateways.ErrInvalidRequest) {
			config.ErrorStatus("audio URL is required", http.StatusBadRequest, w, err)
			return
		}
		if upstream, ok := gateways.AsUpstream(err); ok {
			zap.S().Errorw("transcription failed",
				"kind", upstream.Kind,
				"status", upstream.Status,
				"audio_url", req.AudioURL)
		}
		config.ErrorStatus("failed to transcribe audio", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(result)
	if err != nil {
		config.ErrorStatus("failed to marshal transcription", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
