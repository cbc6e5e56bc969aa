package transcription

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jameshorton2486/transcript-creator-processor/internal/models"
)

// encodeOptions serializes recognition options as query parameters.
// Only values that differ from the documented defaults are sent, so the
// service applies its own defaults for everything else. Language "auto"
// (or empty) is mapped to detect_language=true instead of a language code.
func encodeOptions(opts models.TranscriptionOptions) string {
	defaults := models.DefaultTranscriptionOptions()
	params := url.Values{}

	if opts.Model != "" && opts.Model != defaults.Model {
		params.Set("model", opts.Model)
	}

	if lang := normalizeLanguage(opts.Language); lang == "" {
		params.Set("detect_language", "true")
	} else {
		params.Set("language", lang)
	}

	if opts.Punctuate != defaults.Punctuate {
		params.Set("punctuate", strconv.FormatBool(opts.Punctuate))
	}
	if opts.Diarize != defaults.Diarize {
		params.Set("diarize", strconv.FormatBool(opts.Diarize))
	}
	if opts.SmartFormat != defaults.SmartFormat {
		params.Set("smart_format", strconv.FormatBool(opts.SmartFormat))
	}
	if opts.Summarize {
		params.Set("summarize", "true")
	}
	if opts.DetectTopics {
		params.Set("detect_topics", "true")
	}
	if opts.Utterances {
		params.Set("utterances", "true")
	}
	if opts.ProfanityFilter {
		params.Set("profanity_filter", "true")
	}

	for _, term := range opts.Redact {
		if term = strings.TrimSpace(term); term != "" {
			params.Add("redact", term)
		}
	}

	if opts.Alternatives > 1 {
		params.Set("alternatives", strconv.Itoa(opts.Alternatives))
	}

	return params.Encode()
}

// normalizeLanguage maps "auto" and empty language to auto-detection.
func normalizeLanguage(raw string) string {
	lang := strings.TrimSpace(raw)
	if lang == "" || strings.EqualFold(lang, "auto") {
		return ""
	}
	return lang
}

// contentTypeForFile selects a request content type from the file extension.
func contentTypeForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	case ".m4a", ".aac":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
