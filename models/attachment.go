package models

// AttachmentType discriminates the media kind of an attachment entry
type AttachmentType string

// Attachment kinds carried on case records
const (
	AttachmentImage    AttachmentType = "image"
	AttachmentAudio    AttachmentType = "audio"
	AttachmentDocument AttachmentType = "document"
	AttachmentVideo    AttachmentType = "video"
	AttachmentText     AttachmentType = "text"
)

// Attachment is one entry of a case's attachment list. URL is required
// for every kind except text, which carries inline Content instead.
type Attachment struct {
	Type    AttachmentType `json:"type"`
	MediaID string         `json:"mediaId"`
	Caption string         `json:"caption,omitempty"`
	URL     string         `json:"url,omitempty"`
	Name    string         `json:"name,omitempty"`
	Content string         `json:"content,omitempty"`
}

// Location is the decoded form of a case's serialized location field
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}
