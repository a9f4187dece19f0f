package models

// PushMessage is the payload shape shared by the in-page listener and the
// out-of-band notification handler
type PushMessage struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Icon  string                 `json:"icon,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}
