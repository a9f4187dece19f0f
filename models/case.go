package models

import (
	"encoding/json"
	"time"
)

// Status is the workflow state of a case. Unknown or absent values
// normalize to StatusPending.
type Status string

// The four workflow states a case can be in.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Normalize maps absent or unrecognized statuses to pending
func (s Status) Normalize() Status {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed:
		return s
	}
	return StatusPending
}

// Case holds the structure for a PQRS record as returned by the backend.
// The attachments and location fields arrive as serialized JSON strings
// and stay opaque until parsed with ParsedAttachments/ParsedLocation.
type Case struct {
	ID                 int      `json:"id"`
	Type               string   `json:"type"`
	Status             Status   `json:"status,omitempty"`
	GravityLevel       string   `json:"gravity_level,omitempty"`
	GravityExplanation string   `json:"gravity_explanation,omitempty"`
	Subject            string   `json:"subject"`
	Details            string   `json:"details"`
	Identifier         string   `json:"identifier"`
	IsAnonymous        int      `json:"is_anonymous"`
	PhoneNumber        string   `json:"phone_number"`
	TrackingNumber     string   `json:"tracking_number"`
	Location           string   `json:"location,omitempty"`
	Attachments        string   `json:"attachments,omitempty"`
	Timestamp          string   `json:"timestamp,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
	Updates            []Update `json:"updates,omitempty"`
}

// Update is one entry in a case's ordered update log
type Update struct {
	Date    string         `json:"date"`
	Content string         `json:"content"`
	Type    AttachmentType `json:"type,omitempty"`
}

// Normalize fixes up a record at the fetch boundary
func (c *Case) Normalize() {
	c.Status = c.Status.Normalize()
}

// ParsedAttachments decodes the serialized attachment list. A malformed
// or empty value yields an empty list, never an error; a broken
// attachments blob must not take down the rest of the record.
func (c Case) ParsedAttachments() []Attachment {
	if c.Attachments == "" {
		return nil
	}
	var atts []Attachment
	if err := json.Unmarshal([]byte(c.Attachments), &atts); err != nil {
		return nil
	}
	return atts
}

// ParsedLocation decodes the serialized location, returning nil when the
// field is absent or malformed
func (c Case) ParsedLocation() *Location {
	if c.Location == "" {
		return nil
	}
	var loc Location
	if err := json.Unmarshal([]byte(c.Location), &loc); err != nil {
		return nil
	}
	return &loc
}

// SubmitterLabel is the display name for the submitter, honoring the
// anonymity flag
func (c Case) SubmitterLabel() string {
	if c.IsAnonymous != 0 {
		return "Anonymous"
	}
	return c.Identifier
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date strings the backend emits. Returns the zero
// time when nothing matches.
func ParseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
