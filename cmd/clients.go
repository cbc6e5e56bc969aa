package cmd

import (
	"strings"

	"github.com/jameshorton2486/transcript-creator-processor/internal/models"
	"github.com/jameshorton2486/transcript-creator-processor/internal/services/correction"
	"github.com/jameshorton2486/transcript-creator-processor/internal/services/transcription"
	"github.com/jameshorton2486/transcript-creator-processor/pkg/config"
)

// newTranscriptionClient builds the speech-to-text client from configuration.
func newTranscriptionClient(cfg *config.Config) *transcription.Client {
	return transcription.NewClient(transcription.Config{
		APIKey:            cfg.Deepgram.APIKey,
		BaseURL:           cfg.Deepgram.BaseURL,
		Timeout:           cfg.Deepgram.Timeout,
		MaxAttempts:       cfg.Deepgram.MaxAttempts,
		Backoff:           cfg.Deepgram.Backoff,
		RequestsPerSecond: cfg.Deepgram.RequestsPerSecond,
	})
}

// newCorrectionClient builds the transcript correction client from configuration.
func newCorrectionClient(cfg *config.Config) *correction.Client {
	return correction.NewClient(correction.Config{
		APIKey:           cfg.OpenAI.APIKey,
		BaseURL:          cfg.OpenAI.BaseURL,
		RateLimitBackoff: cfg.OpenAI.RateLimitBackoff,
		TransientBackoff: cfg.OpenAI.TransientBackoff,
	})
}

// transcriptionOptions maps configured recognition settings onto request options.
func transcriptionOptions(cfg *config.Config) models.TranscriptionOptions {
	opts := models.TranscriptionOptions{
		Model:           cfg.Deepgram.Model,
		Language:        cfg.Deepgram.Language,
		Punctuate:       cfg.Deepgram.Punctuate,
		Diarize:         cfg.Deepgram.Diarize,
		SmartFormat:     cfg.Deepgram.SmartFormat,
		Summarize:       cfg.Deepgram.Summarize,
		DetectTopics:    cfg.Deepgram.DetectTopics,
		Utterances:      cfg.Deepgram.Utterances,
		ProfanityFilter: cfg.Deepgram.ProfanityFilter,
		Alternatives:    cfg.Deepgram.Alternatives,
	}
	for _, term := range strings.Split(cfg.Deepgram.Redact, ",") {
		if term = strings.TrimSpace(term); term != "" {
			opts.Redact = append(opts.Redact, term)
		}
	}
	return opts
}

// correctionOptions maps configured correction settings onto request options.
func correctionOptions(cfg *config.Config) models.CorrectionOptions {
	return models.CorrectionOptions{
		Model:            cfg.OpenAI.Model,
		Temperature:      cfg.OpenAI.Temperature,
		MaxRetries:       cfg.OpenAI.MaxRetries,
		MaxTokens:        cfg.OpenAI.MaxTokens,
		FormatOutput:     cfg.OpenAI.FormatOutput,
		ExtractSpeakers:  cfg.OpenAI.ExtractSpeakers,
		ExtractTopics:    cfg.OpenAI.ExtractTopics,
		CleanFillerWords: cfg.OpenAI.CleanFillerWords,
	}
}
