package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Deepgram DeepgramConfig `mapstructure:"deepgram"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Output   OutputConfig   `mapstructure:"output"`
}

// DeepgramConfig contains speech-to-text API settings
type DeepgramConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	Backoff           time.Duration `mapstructure:"backoff"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`

	Model           string `mapstructure:"model"`
	Language        string `mapstructure:"language"`
	Punctuate       bool   `mapstructure:"punctuate"`
	Diarize         bool   `mapstructure:"diarize"`
	SmartFormat     bool   `mapstructure:"smart_format"`
	Summarize       bool   `mapstructure:"summarize"`
	DetectTopics    bool   `mapstructure:"detect_topics"`
	Utterances      bool   `mapstructure:"utterances"`
	ProfanityFilter bool   `mapstructure:"profanity_filter"`
	Redact          string `mapstructure:"redact"` // comma separated terms
	Alternatives    int    `mapstructure:"alternatives"`
}

// OpenAIConfig contains transcript correction API settings
type OpenAIConfig struct {
	APIKey           string        `mapstructure:"api_key"`
	BaseURL          string        `mapstructure:"base_url"`
	Model            string        `mapstructure:"model"`
	Temperature      float64       `mapstructure:"temperature"`
	MaxRetries       int           `mapstructure:"max_retries"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	FormatOutput     bool          `mapstructure:"format_output"`
	ExtractSpeakers  bool          `mapstructure:"extract_speakers"`
	ExtractTopics    bool          `mapstructure:"extract_topics"`
	CleanFillerWords bool          `mapstructure:"clean_filler_words"`
	RateLimitBackoff time.Duration `mapstructure:"rate_limit_backoff"`
	TransientBackoff time.Duration `mapstructure:"transient_backoff"`
}

// OutputConfig contains local artifact directory roots
type OutputConfig struct {
	TranscriptsDir string `mapstructure:"transcripts_dir"`
	CorrectedDir   string `mapstructure:"corrected_dir"`
	BatchDir       string `mapstructure:"batch_dir"`
}
