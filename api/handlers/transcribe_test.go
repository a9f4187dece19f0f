package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/citizenvoice/pqrs-dashboard-api/api/handlers"
	"github.com/citizenvoice/pqrs-dashboard-api/gateways"
	"github.com/citizenvoice/pqrs-dashboard-api/gateways/mocks"
	"github.com/citizenvoice/pqrs-dashboard-api/models"
)

func TestTranscribe_TranscribeHandler(t *testing.T) {
	payload, _ := json.Marshal(map[string]string{"audioUrl": "https://cdn/x.ogg"})
	req, _ := http.NewRequest("POST", "/api/v1/transcribe", bytes.NewReader(payload))

	service := &mocks.Transcriber{}
	service.On("Transcribe", mock.Anything, "https://cdn/x.ogg").Return(&models.TranscriptionResult{
		Text: "hola mundo",
		Words: []models.TranscriptWord{
			{Word: "hola", Start: 0, End: 0.4},
			{Word: "mundo", Start: 0.5, End: 1.0},
		},
	}, nil)

	u := handlers.Transcribe{Service: service}
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.TranscribeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got models.TranscriptionResult
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "hola mundo", got.Text)
	assert.Len(t, got.Words, 2)
}

func TestTranscribe_TranscribeHandlerMissingURL(t *testing.T) {
	payload, _ := json.Marshal(map[string]string{"audioUrl": ""})
	req, _ := http.NewRequest("POST", "/api/v1/transcribe", bytes.NewReader(payload))

	service := &mocks.Transcriber{}
	service.On("Transcribe", mock.Anything, "").Return(nil, gateways.ErrInvalidRequest)

	u := handlers.Transcribe{Service: service}
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.TranscribeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "audio URL is required")
}

func TestTranscribe_TranscribeHandlerUpstreamFailure(t *testing.T) {
	payload, _ := json.Marshal(map[string]string{"audioUrl": "https://cdn/x.ogg"})
	req, _ := http.NewRequest("POST", "/api/v1/transcribe", bytes.NewReader(payload))

	service := &mocks.Transcriber{}
	service.On("Transcribe", mock.Anything, "https://cdn/x.ogg").Return(nil, &gateways.UpstreamError{
		Kind:   gateways.UpstreamTranscription,
		Status: http.StatusTooManyRequests,
		Body:   "rate limited",
	})

	u := handlers.Transcribe{Service: service}
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.TranscribeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestTranscribe_TranscribeHandlerBadBody(t *testing.T) {
	req, _ := http.NewRequest("POST", "/api/v1/transcribe", bytes.NewReader([]byte("{not json")))

	u := handlers.Transcribe{Service: &mocks.Transcriber{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(u.TranscribeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
