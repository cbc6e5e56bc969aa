package models

import (
	"encoding/json"
)

// TranscriptionOptions holds the recognition flags sent to the speech service.
// Zero values are not meaningful here; build from DefaultTranscriptionOptions
// and override fields as needed.
type TranscriptionOptions struct {
	Model           string   `json:"model"`
	Language        string   `json:"language"` // "auto" requests language detection instead
	Punctuate       bool     `json:"punctuate"`
	Diarize         bool     `json:"diarize"`
	SmartFormat     bool     `json:"smart_format"`
	Summarize       bool     `json:"summarize"`
	DetectTopics    bool     `json:"detect_topics"`
	Utterances      bool     `json:"utterances"`
	ProfanityFilter bool     `json:"profanity_filter"`
	Redact          []string `json:"redact,omitempty"`
	Alternatives    int      `json:"alternatives"`
}

// DefaultTranscriptionOptions returns the documented recognition defaults.
// Only fields that differ from these are serialized into a request, so the
// service's own defaults apply otherwise.
func DefaultTranscriptionOptions() TranscriptionOptions {
	return TranscriptionOptions{
		Model:        "nova-2",
		Language:     "auto",
		Punctuate:    true,
		Diarize:      false,
		SmartFormat:  true,
		Alternatives: 1,
	}
}

// TranscriptionResult is the typed speech service response.
// Raw keeps the verbatim response bytes for the JSON artifact.
type TranscriptionResult struct {
	Metadata TranscriptionMetadata `json:"metadata"`
	Results  TranscriptionResults  `json:"results"`
	Raw      json.RawMessage       `json:"-"`
}

// TranscriptionMetadata holds audio-level response metadata
type TranscriptionMetadata struct {
	Duration   float64 `json:"duration"`
	Channels   int     `json:"channels"`
	SampleRate int     `json:"sample_rate"`
}

// TranscriptionResults holds the per-channel recognition results
type TranscriptionResults struct {
	Channels []TranscriptionChannel `json:"channels"`
}

// TranscriptionChannel holds the alternatives for one audio channel
type TranscriptionChannel struct {
	Alternatives []TranscriptionAlternative `json:"alternatives"`
}

// TranscriptionAlternative is one candidate transcript with its confidence
type TranscriptionAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// Transcript returns the primary transcript string, or "" when the response
// carries no channels or alternatives. Absence is handled here so callers
// never index into the nested response shape themselves.
func (r *TranscriptionResult) Transcript() string {
	if r == nil || len(r.Results.Channels) == 0 || len(r.Results.Channels[0].Alternatives) == 0 {
		return ""
	}
	return r.Results.Channels[0].Alternatives[0].Transcript
}

// Confidence returns the primary alternative's confidence score, or 0.
func (r *TranscriptionResult) Confidence() float64 {
	if r == nil || len(r.Results.Channels) == 0 || len(r.Results.Channels[0].Alternatives) == 0 {
		return 0
	}
	return r.Results.Channels[0].Alternatives[0].Confidence
}
