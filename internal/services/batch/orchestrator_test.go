package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jameshorton2486/transcript-creator-processor/internal/models"
	apperrors "github.com/jameshorton2486/transcript-creator-processor/pkg/errors"
)

type stubTranscriber struct {
	readyErr error
	failFor  map[string]error
	emptyFor map[string]bool
	onCall   func(audioPath string)
	calls    []string
}

func (s *stubTranscriber) Ready() error { return s.readyErr }

func (s *stubTranscriber) Transcribe(ctx context.Context, audioPath string, opts models.TranscriptionOptions) (*models.TranscriptionResult, error) {
	s.calls = append(s.calls, audioPath)
	if s.onCall != nil {
		s.onCall(audioPath)
	}
	name := filepath.Base(audioPath)
	if err, ok := s.failFor[name]; ok {
		return nil, err
	}
	if s.emptyFor[name] {
		return rawResult(""), nil
	}
	return rawResult("transcript of " + name), nil
}

type stubCorrector struct {
	readyErr error
	failErr  error
	calls    []string
}

func (s *stubCorrector) Ready() error { return s.readyErr }

func (s *stubCorrector) Correct(ctx context.Context, transcript string, opts models.CorrectionOptions) (*models.CorrectionResult, error) {
	s.calls = append(s.calls, transcript)
	if s.failErr != nil {
		return nil, s.failErr
	}
	return &models.CorrectionResult{
		OriginalTranscript:  transcript,
		CorrectedTranscript: "corrected: " + transcript,
		ModelUsed:           opts.Model,
	}, nil
}

func newTestOrchestrator(t *testing.T, transcriber Transcriber, corrector Corrector) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(OrchestratorConfig{
		Transcriber:       transcriber,
		Corrector:         corrector,
		TranscriptionOpts: models.DefaultTranscriptionOptions(),
		CorrectionOpts:    models.DefaultCorrectionOptions(),
		ResultsRoot:       t.TempDir(),
	})
	o.now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }
	return o
}

func TestRun(t *testing.T) {
	files := []string{"/audio/one.mp3", "/audio/two.wav", "/audio/three.flac"}

	t.Run("all files succeed with correction", func(t *testing.T) {
		transcriber := &stubTranscriber{}
		corrector := &stubCorrector{}
		o := newTestOrchestrator(t, transcriber, corrector)

		var progress [][2]int
		job, err := o.Run(context.Background(), files, true, func(index, total int, name string) {
			progress = append(progress, [2]int{index, total})
		})

		require.NoError(t, err)
		assert.Equal(t, models.BatchStatusCompleted, o.Status())
		assert.Equal(t, 3, job.Processed)
		assert.Equal(t, 0, job.Errors)
		assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, progress)
		assert.Len(t, corrector.calls, 3)

		batchDir := job.OutputDir
		assert.Equal(t, "batch_20250314_093000", filepath.Base(batchDir))
		assert.FileExists(t, filepath.Join(batchDir, "raw_transcripts", "one_raw_transcript.json"))
		assert.FileExists(t, filepath.Join(batchDir, "raw_transcripts", "one_raw_transcript.txt"))
		assert.FileExists(t, filepath.Join(batchDir, "corrected_transcripts", "two_corrected_transcript.json"))
		assert.FileExists(t, filepath.Join(batchDir, "corrected_transcripts", "three_corrected_transcript.txt"))

		summary, err := os.ReadFile(filepath.Join(batchDir, "batch_summary.txt"))
		require.NoError(t, err)
		assert.Contains(t, string(summary), "Batch Processing Summary")
		assert.Contains(t, string(summary), "Date: 2025-03-14 09:30:00")
		assert.Contains(t, string(summary), "Files Processed: 3/3")
		assert.Contains(t, string(summary), "Errors: 0")
		assert.Contains(t, string(summary), "Transcription Model: nova-2")
		assert.Contains(t, string(summary), "Correction Model: gpt-4o")
	})

	t.Run("failed file is isolated", func(t *testing.T) {
		transcriber := &stubTranscriber{
			failFor: map[string]error{
				"two.wav": apperrors.RemoteServiceError("deepgram", 500, "boom"),
			},
		}
		o := newTestOrchestrator(t, transcriber, nil)

		job, err := o.Run(context.Background(), files, false, nil)

		require.NoError(t, err)
		assert.Equal(t, models.BatchStatusCompleted, o.Status())
		assert.Equal(t, 2, job.Processed)
		assert.Equal(t, 1, job.Errors)

		require.Len(t, job.Outcomes, 3)
		assert.Equal(t, models.OutcomeSuccess, job.Outcomes[0].Status)
		assert.Equal(t, models.OutcomeError, job.Outcomes[1].Status)
		assert.Contains(t, job.Outcomes[1].Reason, "REMOTE_SERVICE")
		assert.Equal(t, models.OutcomeSuccess, job.Outcomes[2].Status)

		rawDir := filepath.Join(job.OutputDir, "raw_transcripts")
		assert.FileExists(t, filepath.Join(rawDir, "one_raw_transcript.json"))
		assert.NoFileExists(t, filepath.Join(rawDir, "two_raw_transcript.json"))
		assert.FileExists(t, filepath.Join(rawDir, "three_raw_transcript.json"))

		summary, err := os.ReadFile(filepath.Join(job.OutputDir, "batch_summary.txt"))
		require.NoError(t, err)
		assert.Contains(t, string(summary), "Files Processed: 2/3")
		assert.Contains(t, string(summary), "Errors: 1")
	})

	t.Run("empty transcript counts as error without correction call", func(t *testing.T) {
		transcriber := &stubTranscriber{emptyFor: map[string]bool{"two.wav": true}}
		corrector := &stubCorrector{}
		o := newTestOrchestrator(t, transcriber, corrector)

		job, err := o.Run(context.Background(), files, true, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, job.Processed)
		assert.Equal(t, 1, job.Errors)
		assert.Equal(t, "no transcript", job.Outcomes[1].Reason)
		assert.Len(t, corrector.calls, 2)
	})

	t.Run("cancellation takes effect at file boundaries", func(t *testing.T) {
		transcriber := &stubTranscriber{}
		o := newTestOrchestrator(t, transcriber, nil)
		// cancel while file two is mid-call; it must still finish
		transcriber.onCall = func(audioPath string) {
			if filepath.Base(audioPath) == "two.wav" {
				o.Cancel()
			}
		}

		job, err := o.Run(context.Background(), files, false, nil)

		require.NoError(t, err)
		assert.Equal(t, models.BatchStatusCancelled, o.Status())
		assert.Equal(t, 2, job.Processed)
		assert.Len(t, transcriber.calls, 2)
		assert.NoFileExists(t, filepath.Join(job.OutputDir, "raw_transcripts", "three_raw_transcript.json"))

		summary, err := os.ReadFile(filepath.Join(job.OutputDir, "batch_summary.txt"))
		require.NoError(t, err)
		assert.Contains(t, string(summary), "Files Processed: 2/3")
	})

	t.Run("context cancellation stops before the next file", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		transcriber := &stubTranscriber{}
		transcriber.onCall = func(audioPath string) {
			if filepath.Base(audioPath) == "one.mp3" {
				cancel()
			}
		}
		o := newTestOrchestrator(t, transcriber, nil)

		job, err := o.Run(ctx, files, false, nil)

		require.NoError(t, err)
		assert.Equal(t, models.BatchStatusCancelled, o.Status())
		assert.Equal(t, 1, job.Processed)
	})

	t.Run("transcription-only run skips correction entirely", func(t *testing.T) {
		transcriber := &stubTranscriber{}
		corrector := &stubCorrector{}
		o := newTestOrchestrator(t, transcriber, corrector)

		job, err := o.Run(context.Background(), files, false, nil)

		require.NoError(t, err)
		assert.Empty(t, corrector.calls)
		assert.NoDirExists(t, filepath.Join(job.OutputDir, "corrected_transcripts"))
		summary, err := os.ReadFile(filepath.Join(job.OutputDir, "batch_summary.txt"))
		require.NoError(t, err)
		assert.NotContains(t, string(summary), "Correction Model")
	})

	t.Run("correction failure is a per-file error", func(t *testing.T) {
		transcriber := &stubTranscriber{}
		corrector := &stubCorrector{failErr: apperrors.CorrectionFailed(errors.New("exhausted"))}
		o := newTestOrchestrator(t, transcriber, corrector)

		job, err := o.Run(context.Background(), files[:1], true, nil)

		require.NoError(t, err)
		assert.Equal(t, models.BatchStatusCompleted, o.Status())
		assert.Equal(t, 0, job.Processed)
		assert.Equal(t, 1, job.Errors)
		// the raw artifact survives the failed correction
		assert.FileExists(t, filepath.Join(job.OutputDir, "raw_transcripts", "one_raw_transcript.json"))
	})

	t.Run("empty queue fails to start", func(t *testing.T) {
		o := newTestOrchestrator(t, &stubTranscriber{}, nil)

		_, err := o.Run(context.Background(), nil, false, nil)

		require.Error(t, err)
		assert.Equal(t, models.BatchStatusFailedToStart, o.Status())
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
	})

	t.Run("missing transcription key fails to start", func(t *testing.T) {
		transcriber := &stubTranscriber{readyErr: apperrors.InvalidCredentials("deepgram")}
		o := newTestOrchestrator(t, transcriber, nil)

		_, err := o.Run(context.Background(), files, false, nil)

		require.Error(t, err)
		assert.Equal(t, models.BatchStatusFailedToStart, o.Status())
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidCredentials))
		assert.Empty(t, transcriber.calls)
	})

	t.Run("missing correction key fails to start when correction requested", func(t *testing.T) {
		corrector := &stubCorrector{readyErr: apperrors.InvalidCredentials("openai")}
		o := newTestOrchestrator(t, &stubTranscriber{}, corrector)

		_, err := o.Run(context.Background(), files, true, nil)

		require.Error(t, err)
		assert.Equal(t, models.BatchStatusFailedToStart, o.Status())
	})
}
