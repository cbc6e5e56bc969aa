package models

// CorrectionOptions holds the flags that shape a correction request.
type CorrectionOptions struct {
	Model             string  `json:"model"`
	Temperature       float64 `json:"temperature"` // clamped to [0, 1]
	MaxRetries        int     `json:"max_retries"` // additional attempts after the first
	MaxTokens         int     `json:"max_tokens"`
	FormatOutput      bool    `json:"format_output"` // request structured JSON output
	ExtractSpeakers   bool    `json:"extract_speakers"`
	ExtractTopics     bool    `json:"extract_topics"`
	CleanFillerWords  bool    `json:"clean_filler_words"`
}

// DefaultCorrectionOptions returns the documented correction defaults.
func DefaultCorrectionOptions() CorrectionOptions {
	return CorrectionOptions{
		Model:            "gpt-4o",
		Temperature:      0.2,
		MaxRetries:       2,
		MaxTokens:        4096,
		CleanFillerWords: true,
	}
}

// CorrectionResult pairs the original and corrected transcript.
// The JSON field names are an on-disk compatibility contract.
type CorrectionResult struct {
	OriginalTranscript  string   `json:"original_transcript"`
	CorrectedTranscript string   `json:"corrected_transcript"`
	ModelUsed           string   `json:"model_used"`
	Timestamp           float64  `json:"timestamp"` // unix seconds
	Topics              []string `json:"topics,omitempty"`

	// ParseError marks a structured-output completion that could not be
	// parsed; CorrectedTranscript then holds the raw completion text.
	ParseError bool `json:"parse_error,omitempty"`
}
