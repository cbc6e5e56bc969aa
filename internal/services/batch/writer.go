package batch

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jameshorton2486/transcript-creator-processor/internal/models"
	apperrors "github.com/jameshorton2486/transcript-creator-processor/pkg/errors"
)

// ResultWriter persists transcription and correction results as paired
// JSON and plain-text artifacts. Naming is deterministic so a rerun
// overwrites rather than duplicates.
type ResultWriter struct{}

// NewResultWriter creates a new artifact writer.
func NewResultWriter() *ResultWriter {
	return &ResultWriter{}
}

// WriteRaw writes `{base}_raw_transcript.json` and `{base}_raw_transcript.txt`
// under outputDir, creating the directory if needed. The JSON artifact keeps
// the service response verbatim when available.
func (w *ResultWriter) WriteRaw(result *models.TranscriptionResult, outputDir, baseName string) (jsonPath, textPath string, err error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", "", apperrors.WriteFailure(outputDir, err)
	}

	payload := []byte(result.Raw)
	if len(payload) == 0 {
		if payload, err = json.MarshalIndent(result, "", "  "); err != nil {
			return "", "", apperrors.WriteFailure(outputDir, err)
		}
	}

	jsonPath = filepath.Join(outputDir, baseName+"_raw_transcript.json")
	if err := os.WriteFile(jsonPath, payload, 0644); err != nil {
		return "", "", apperrors.WriteFailure(jsonPath, err)
	}

	textPath = filepath.Join(outputDir, baseName+"_raw_transcript.txt")
	if err := os.WriteFile(textPath, []byte(result.Transcript()), 0644); err != nil {
		return jsonPath, "", apperrors.WriteFailure(textPath, err)
	}

	return jsonPath, textPath, nil
}

// WriteCorrected writes `{base}_corrected_transcript.json` and
// `{base}_corrected_transcript.txt` under outputDir.
func (w *ResultWriter) WriteCorrected(result *models.CorrectionResult, outputDir, baseName string) (jsonPath, textPath string, err error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", "", apperrors.WriteFailure(outputDir, err)
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", "", apperrors.WriteFailure(outputDir, err)
	}

	jsonPath = filepath.Join(outputDir, baseName+"_corrected_transcript.json")
	if err := os.WriteFile(jsonPath, payload, 0644); err != nil {
		return "", "", apperrors.WriteFailure(jsonPath, err)
	}

	textPath = filepath.Join(outputDir, baseName+"_corrected_transcript.txt")
	if err := os.WriteFile(textPath, []byte(result.CorrectedTranscript), 0644); err != nil {
		return jsonPath, "", apperrors.WriteFailure(textPath, err)
	}

	return jsonPath, textPath, nil
}
