package correction

import (
	"strings"

	"github.com/jameshorton2486/transcript-creator-processor/internal/models"
)

const (
	baseInstruction = "You are an expert transcription editor. Your task is to correct any errors in the transcript " +
		"while preserving the original meaning. Fix spelling, grammar, punctuation, and sentence structure. " +
		"If there are obvious mistakes or unclear passages, use your judgment to correct them."

	fillerInstruction = "Remove filler words and verbal tics (um, uh, like, you know) unless they carry meaning."

	speakerInstruction = "Maintain any speaker labels if present (e.g., 'Speaker 1:'). " +
		"If the transcript clearly alternates between speakers without labels, add them."

	plainFormatInstruction = "Format the text for easy readability with proper paragraphs."

	structuredInstruction = "Respond with a single JSON object of the form " +
		`{"corrected_transcript": "<the full corrected text>"}` +
		" and nothing else. Do not wrap the JSON in markdown fences."

	structuredWithTopicsInstruction = "Respond with a single JSON object of the form " +
		`{"corrected_transcript": "<the full corrected text>", "topics": ["<topic>", ...]}` +
		" where topics lists the main subjects discussed, and nothing else. " +
		"Do not wrap the JSON in markdown fences."
)

// buildSystemPrompt assembles the editor instruction from the enabled flags.
// The structured-output instruction always comes last so the response shape
// is the model's most recent directive.
func buildSystemPrompt(opts models.CorrectionOptions) string {
	parts := []string{baseInstruction}

	if opts.CleanFillerWords {
		parts = append(parts, fillerInstruction)
	}
	if opts.ExtractSpeakers {
		parts = append(parts, speakerInstruction)
	}

	switch {
	case opts.FormatOutput && opts.ExtractTopics:
		parts = append(parts, structuredWithTopicsInstruction)
	case opts.FormatOutput:
		parts = append(parts, structuredInstruction)
	default:
		parts = append(parts, plainFormatInstruction)
	}

	return strings.Join(parts, " ")
}
