// Package casedetail owns the editable view-model of a single case: load,
// the working/authoritative copy pair, save, the per-attachment
// transcription sub-machine and timeline assembly.
package casedetail

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/citizenvoice/pqrs-dashboard-api/gateways"
	"github.com/citizenvoice/pqrs-dashboard-api/models"
)

// State is the lifecycle state of the detail view
type State int

// Orchestrator states
const (
	StateLoading State = iota
	StateViewing
	StateEditing
	StateError
)

// Errors returned for operations invoked in the wrong state
var (
	ErrNotViewing   = errors.New("case is not in viewing state")
	ErrNotEditing   = errors.New("case is not in editing state")
	ErrSaveInFlight = errors.New("a save is already in flight")
	ErrNoRecord     = errors.New("no case loaded")
)

// Transcription is the ephemeral per-attachment transcription state,
// keyed by media id. The zero value is the Idle state, which gives map
// lookups defined default-entry semantics.
type Transcription struct {
	Text     string
	InFlight bool
	Editing  bool
}

// Orchestrator drives a single case's detail view. It keeps the
// authoritative copy (last confirmed save) separate from the editable
// working copy; field edits only ever touch the working copy.
type Orchestrator struct {
	cases       gateways.CaseService
	transcriber gateways.Transcriber

	mu             sync.Mutex
	state          State
	err            error
	authoritative  *models.Case
	working        *models.Case
	saving         bool
	gen            uint64
	closed         bool
	transcriptions map[string]*Transcription
}

// New creates an orchestrator over the given gateways
func New(cases gateways.CaseService, transcriber gateways.Transcriber) *Orchestrator {
	return &Orchestrator{
		cases:          cases,
		transcriber:    transcriber,
		state:          StateLoading,
		transcriptions: make(map[string]*Transcription),
	}
}

// Load fetches the case by id and primes both copies. An empty id fails
// immediately without touching the network. A response arriving after
// Close or a newer Load is discarded rather than applied to stale state.
func (o *Orchestrator) Load(ctx context.Context, id string) error {
	o.mu.Lock()
	if id == "" {
		o.state = StateError
		o.err = fmt.Errorf("%w: id", gateways.ErrInvalidRequest)
		o.mu.Unlock()
		return o.err
	}
	o.state = StateLoading
	o.err = nil
	o.gen++
	gen := o.gen
	o.mu.Unlock()

	record, err := o.cases.Get(ctx, id)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.gen != gen {
		zap.S().Debugw("discarding stale case load", "id", id)
		return nil
	}
	if err != nil {
		o.state = StateError
		o.err = err
		return err
	}
	o.authoritative = record
	o.working = cloneCase(record)
	o.state = StateViewing
	o.transcriptions = make(map[string]*Transcription)
	return nil
}

// State returns the current lifecycle state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Err returns the surfaced error, if any
func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Record returns a copy of the authoritative case
func (o *Orchestrator) Record() (models.Case, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.authoritative == nil {
		return models.Case{}, false
	}
	return *cloneCase(o.authoritative), true
}

// WorkingCopy returns a copy of the editable draft
func (o *Orchestrator) WorkingCopy() (models.Case, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.working == nil {
		return models.Case{}, false
	}
	return *cloneCase(o.working), true
}

// StartEdit transitions Viewing -> Editing. The working copy is already
// primed from the last load or save.
func (o *Orchestrator) StartEdit() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateViewing {
		return ErrNotViewing
	}
	o.state = StateEditing
	return nil
}

// Edit applies a field mutation to the working copy only. The
// authoritative copy is untouched until a successful save.
func (o *Orchestrator) Edit(mutate func(*models.Case)) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateEditing {
		return ErrNotEditing
	}
	mutate(o.working)
	return nil
}

// CancelEdit discards the draft, resetting the working copy to the
// authoritative copy, and returns to Viewing
func (o *Orchestrator) CancelEdit() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateEditing {
		return ErrNotEditing
	}
	o.working = cloneCase(o.authoritative)
	o.state = StateViewing
	return nil
}

// Save pushes the full working copy through the update gateway. While a
// save is in flight re-entry is refused, not queued. On failure the state
// stays Editing and the draft keeps its edits; on success the working
// copy becomes the authoritative copy and the state returns to Viewing.
func (o *Orchestrator) Save(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StateEditing {
		o.mu.Unlock()
		return ErrNotEditing
	}
	if o.saving {
		o.mu.Unlock()
		return ErrSaveInFlight
	}
	o.saving = true
	draft := cloneCase(o.working)
	gen := o.gen
	o.mu.Unlock()

	updated, err := o.cases.Update(ctx, strconv.Itoa(draft.ID), *draft)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.saving = false
	if o.closed || o.gen != gen {
		zap.S().Debugw("discarding stale case save", "id", draft.ID)
		return nil
	}
	if err != nil {
		o.err = err
		return err
	}
	if updated != nil {
		o.authoritative = cloneCase(updated)
	} else {
		o.authoritative = cloneCase(draft)
	}
	o.working = cloneCase(o.authoritative)
	o.state = StateViewing
	o.err = nil
	return nil
}

// Transcription returns the per-attachment transcription state for the
// given media id; an unknown id yields the Idle zero value
func (o *Orchestrator) Transcription(mediaID string) Transcription {
	o.mu.Lock()
	defer o.mu.Unlock()
	if t, ok := o.transcriptions[mediaID]; ok {
		return *t
	}
	return Transcription{}
}

// RequestTranscription runs the Idle -> Transcribing -> Transcribed flow
// for one attachment. A request while one is already in flight for the
// same media id is a no-op; the in-flight flag gates re-entry before any
// network call. Failures return the attachment to Idle.
func (o *Orchestrator) RequestTranscription(ctx context.Context, mediaID, audioURL string) error {
	o.mu.Lock()
	t, ok := o.transcriptions[mediaID]
	if !ok {
		t = &Transcription{}
		o.transcriptions[mediaID] = t
	}
	if t.InFlight {
		o.mu.Unlock()
		return nil
	}
	t.InFlight = true
	gen := o.gen
	o.mu.Unlock()

	result, err := o.transcriber.Transcribe(ctx, audioURL)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.gen != gen {
		zap.S().Debugw("discarding stale transcription", "mediaId", mediaID)
		return nil
	}
	t.InFlight = false
	if err != nil {
		return err
	}
	t.Text = result.Text
	return nil
}

// EditTranscription switches a transcribed attachment into local edit
// mode. Edits are local-only annotations, never sent to any backend.
func (o *Orchestrator) EditTranscription(mediaID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	t, ok := o.transcriptions[mediaID]
	if !ok || t.Text == "" || t.InFlight {
		return fmt.Errorf("media %s has no transcription to edit", mediaID)
	}
	t.Editing = true
	return nil
}

// SaveTranscription stores the edited text and leaves edit mode
func (o *Orchestrator) SaveTranscription(mediaID, text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	t, ok := o.transcriptions[mediaID]
	if !ok || !t.Editing {
		return fmt.Errorf("media %s is not being edited", mediaID)
	}
	t.Text = text
	t.Editing = false
	return nil
}

// Timeline assembles the view timeline from the authoritative record
func (o *Orchestrator) Timeline() []models.TimelineEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.authoritative == nil {
		return nil
	}
	return BuildTimeline(*o.authoritative)
}

// Attachments partitions the authoritative record's attachment list
func (o *Orchestrator) Attachments() AttachmentSet {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.authoritative == nil {
		return AttachmentSet{}
	}
	return PartitionAttachments(*o.authoritative)
}

// Close marks the view unmounted. In-flight responses arriving afterwards
// are discarded; transcription state is destroyed, never persisted.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.gen++
	o.transcriptions = make(map[string]*Transcription)
}

func cloneCase(c *models.Case) *models.Case {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Updates != nil {
		clone.Updates = make([]models.Update, len(c.Updates))
		copy(clone.Updates, c.Updates)
	}
	return &clone
}
