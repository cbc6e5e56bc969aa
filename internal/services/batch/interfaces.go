package batch

import (
	"context"

	"github.com/jameshorton2486/transcript-creator-processor/internal/models"
)

// Transcriber turns one audio file into a transcription result
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts models.TranscriptionOptions) (*models.TranscriptionResult, error)
	Ready() error
}

// Corrector turns a raw transcript into a corrected one
type Corrector interface {
	Correct(ctx context.Context, transcript string, opts models.CorrectionOptions) (*models.CorrectionResult, error)
	Ready() error
}

// ProgressFunc receives per-file progress after each file is attempted.
// index is 1-based.
type ProgressFunc func(index, total int, fileName string)
