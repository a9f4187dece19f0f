package models

// TranscriptionResult is the normalized speech-to-text output: the full
// text plus the per-word timings, passed through from upstream unmodified
type TranscriptionResult struct {
	Text  string           `json:"text"`
	Words []TranscriptWord `json:"words"`
}

// TranscriptWord is one word with its timing offsets in seconds
type TranscriptWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}
