package models

// TimelineEntry is a derived view row; it is assembled from the creation
// event, the update log and the last-modified event, and never persisted
type TimelineEntry struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
