package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/citizenvoice/pqrs-dashboard-api/config"
	"github.com/citizenvoice/pqrs-dashboard-api/models"
)

const caseClientTimeout = 15 * time.Second

// CaseService contains the methods to use with the external PQRS backend.
// It holds no state beyond the HTTP client; every call is a single
// forwarded request with no retry.
type CaseService interface {
	List(ctx context.Context) ([]models.Case, error)
	Get(ctx context.Context, id string) (*models.Case, error)
	Update(ctx context.Context, id string, record models.Case) (*models.Case, error)
	Subscribe(ctx context.Context, token string) error
}

type caseService struct {
	baseURL string
	client  *http.Client
}

// NewCaseService initializes a new case service backed by the configured
// PQRS backend
func NewCaseService(conf *config.Config) CaseService {
	return &caseService{
		baseURL: strings.TrimRight(conf.BackendURL, "/"),
		client:  &http.Client{Timeout: caseClientTimeout},
	}
}

func (s *caseService) List(ctx context.Context) ([]models.Case, error) {
	body, err := s.do(ctx, http.MethodGet, s.baseURL+"/pqrs", nil)
	if err != nil {
		return nil, err
	}

	var cases []models.Case
	if err := json.Unmarshal(body, &cases); err != nil {
		return nil, fmt.Errorf("failed to decode pqrs list: %w", err)
	}
	for i := range cases {
		cases[i].Normalize()
	}
	return cases, nil
}

func (s *caseService) Get(ctx context.Context, id string) (*models.Case, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id", ErrInvalidRequest)
	}

	body, err := s.do(ctx, http.MethodGet, s.baseURL+"/pqrs/"+url.PathEscape(id), nil)
	if err != nil {
		if ue, ok := AsUpstream(err); ok && ue.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// The backend signals "no such record" with an empty object rather
	// than a 404, so probe before decoding.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode pqrs record: %w", err)
	}
	if len(probe) == 0 {
		return nil, ErrNotFound
	}

	record := &models.Case{}
	if err := json.Unmarshal(body, record); err != nil {
		return nil, fmt.Errorf("failed to decode pqrs record: %w", err)
	}
	record.Normalize()
	return record, nil
}

func (s *caseService) Update(ctx context.Context, id string, record models.Case) (*models.Case, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id", ErrInvalidRequest)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pqrs record: %w", err)
	}

	body, err := s.do(ctx, http.MethodPut, s.baseURL+"/pqrs/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, err
	}

	updated := &models.Case{}
	if len(body) == 0 || json.Unmarshal(body, updated) != nil || updated.TrackingNumber == "" {
		// Some backend versions return an acknowledgement instead of the
		// record; the submitted record is authoritative then.
		updated = &record
	}
	updated.Normalize()
	return updated, nil
}

func (s *caseService) Subscribe(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: token", ErrInvalidRequest)
	}
	payload, _ := json.Marshal(map[string]string{"token": token})
	_, err := s.do(ctx, http.MethodPost, s.baseURL+"/subscribe", payload)
	return err
}

// do performs one backend round trip and maps failures onto the gateway
// error taxonomy. Non-2xx responses surface the backend-provided error
// message when the body carries one.
func (s *caseService) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zap.S().Debugw("backend returned non-success status",
			"method", method,
			"url", url,
			"status", resp.StatusCode,
		)
		return nil, &UpstreamError{Kind: UpstreamBackend, Status: resp.StatusCode, Body: upstreamMessage(body)}
	}
	return body, nil
}

// upstreamMessage pulls the error string out of a JSON error body, falling
// back to the raw text
func upstreamMessage(body []byte) string {
	var e models.ErrorResponse
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
