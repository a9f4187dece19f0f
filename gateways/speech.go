package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/citizenvoice/pqrs-dashboard-api/config"
	"github.com/citizenvoice/pqrs-dashboard-api/models"
)

const (
	defaultSpeechURL    = "https://api.groq.com/openai/v1/audio/transcriptions"
	speechModel         = "whisper-large-v3"
	speechOutputFormat  = "verbose_json"
	speechClientTimeout = 60 * time.Second
)

// Transcriber contains the single method of the transcription gateway:
// fetch the referenced audio, forward it to the speech API and return the
// text with word-level timings. One attempt, no retry.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (*models.TranscriptionResult, error)
}

type speechService struct {
	url    string
	apiKey string
	client *http.Client
}

// NewTranscriber initializes a transcriber against the configured speech API
func NewTranscriber(conf *config.Config) Transcriber {
	url := conf.SpeechURL
	if url == "" {
		url = defaultSpeechURL
	}
	return &speechService{
		url:    url,
		apiKey: conf.SpeechAPIKey,
		client: &http.Client{Timeout: speechClientTimeout},
	}
}

func (s *speechService) Transcribe(ctx context.Context, audioURL string) (*models.TranscriptionResult, error) {
	if audioURL == "" {
		return nil, fmt.Errorf("%w: audio url", ErrInvalidRequest)
	}

	audio, err := s.fetchAudio(ctx, audioURL)
	if err != nil {
		return nil, err
	}

	body, contentType, err := buildSpeechRequest(audio)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.S().Debugw("speech api returned non-success status",
			"status", resp.StatusCode,
		)
		return nil, &UpstreamError{Kind: UpstreamTranscription, Status: resp.StatusCode, Body: upstreamMessage(respBody)}
	}

	result := &models.TranscriptionResult{}
	if err := json.Unmarshal(respBody, result); err != nil {
		return nil, fmt.Errorf("failed to decode transcription: %w", err)
	}
	return result, nil
}

func (s *speechService) fetchAudio(ctx context.Context, audioURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: audio url", ErrInvalidRequest)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Kind: UpstreamAudioFetch, Status: resp.StatusCode}
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return audio, nil
}

// buildSpeechRequest repackages the audio bytes as the multipart upload
// the speech API expects, requesting the verbose output format
func buildSpeechRequest(audio []byte) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	fw, err := mw.CreateFormFile("file", "audio.ogg")
	if err != nil {
		return nil, "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return nil, "", fmt.Errorf("failed to build upload: %w", err)
	}
	_ = mw.WriteField("model", speechModel)
	_ = mw.WriteField("response_format", speechOutputFormat)
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to build upload: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}
