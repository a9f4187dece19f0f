package gateways

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds handlers have to tell apart.
// Transport-level failures wrap ErrNetwork; upstream non-success statuses
// become an *UpstreamError.
var (
	ErrInvalidRequest = errors.New("missing required input")
	ErrNotFound       = errors.New("pqrs not found")
	ErrNetwork        = errors.New("network error")
)

// UpstreamKind names which upstream produced a non-success status
type UpstreamKind string

// The three upstreams this layer talks to
const (
	UpstreamBackend       UpstreamKind = "backend"
	UpstreamAudioFetch    UpstreamKind = "audio fetch"
	UpstreamTranscription UpstreamKind = "transcription"
)

// UpstreamError carries the upstream status and error body so handlers
// can surface the upstream-provided message
type UpstreamError struct {
	Kind   UpstreamKind
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s responded with status %d", e.Kind, e.Status)
	}
	return fmt.Sprintf("%s responded with status %d: %s", e.Kind, e.Status, e.Body)
}

// AsUpstream unwraps err into an *UpstreamError if it is one
func AsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	ok := errors.As(err, &ue)
	return ue, ok
}
