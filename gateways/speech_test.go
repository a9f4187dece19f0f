package gateways_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citizenvoice/pqrs-dashboard-api/config"
	"github.com/citizenvoice/pqrs-dashboard-api/gateways"
)

func TestTranscribeEmptyURL(t *testing.T) {
	tr := gateways.NewTranscriber(&config.Config{SpeechURL: "http://unused"})

	_, err := tr.Transcribe(context.Background(), "")

	assert.ErrorIs(t, err, gateways.ErrInvalidRequest)
}

func TestTranscribeForwardsAudioAsMultipart(t *testing.T) {
	audioSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-ogg-bytes"))
	}))
	defer audioSrv.Close()

	speechSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-large-v3", r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))

		file, header, err := r.FormFile("file")
		assert.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "audio.ogg", header.Filename)

		w.Write([]byte(`{"text":"hola mundo","words":[{"word":"hola","start":0,"end":0.4},{"word":"mundo","start":0.5,"end":1.0}]}`))
	}))
	defer speechSrv.Close()

	tr := gateways.NewTranscriber(&config.Config{SpeechURL: speechSrv.URL, SpeechAPIKey: "test-key"})
	result, err := tr.Transcribe(context.Background(), audioSrv.URL+"/audio.ogg")

	assert.NoError(t, err)
	assert.Equal(t, "hola mundo", result.Text)
	assert.Len(t, result.Words, 2)
	assert.Equal(t, "hola", result.Words[0].Word)
}

func TestTranscribeAudioFetchFailure(t *testing.T) {
	audioSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer audioSrv.Close()

	speechCalled := false
	speechSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		speechCalled = true
	}))
	defer speechSrv.Close()

	tr := gateways.NewTranscriber(&config.Config{SpeechURL: speechSrv.URL})
	_, err := tr.Transcribe(context.Background(), audioSrv.URL+"/audio.ogg")

	upstream, ok := gateways.AsUpstream(err)
	assert.True(t, ok)
	assert.Equal(t, gateways.UpstreamAudioFetch, upstream.Kind)
	assert.Equal(t, http.StatusForbidden, upstream.Status)
	assert.False(t, speechCalled)
}

func TestTranscribeSpeechAPIFailure(t *testing.T) {
	audioSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-ogg-bytes"))
	}))
	defer audioSrv.Close()

	speechSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer speechSrv.Close()

	tr := gateways.NewTranscriber(&config.Config{SpeechURL: speechSrv.URL})
	_, err := tr.Transcribe(context.Background(), audioSrv.URL+"/audio.ogg")

	upstream, ok := gateways.AsUpstream(err)
	assert.True(t, ok)
	assert.Equal(t, gateways.UpstreamTranscription, upstream.Kind)
	assert.Equal(t, http.StatusTooManyRequests, upstream.Status)
	assert.Equal(t, "rate limited", upstream.Body)
}
