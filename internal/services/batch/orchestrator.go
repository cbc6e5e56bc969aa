package batch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jameshorton2486/transcript-creator-processor/internal/models"
	apperrors "github.com/jameshorton2486/transcript-creator-processor/pkg/errors"
)

// Orchestrator drives a batch of audio files through transcription and
// optional correction, strictly one file at a time. Per-file failures are
// recorded and processing continues; only a missing transcription key or
// an empty queue prevents a run from starting.
type Orchestrator struct {
	transcriber Transcriber
	corrector   Corrector
	writer      *ResultWriter

	transcriptionOpts models.TranscriptionOptions
	correctionOpts    models.CorrectionOptions
	resultsRoot       string

	mu        sync.Mutex
	status    models.BatchStatus
	job       *models.BatchJob
	cancelled bool

	// now is replaceable in tests to pin the batch directory name
	now func() time.Time
}

// OrchestratorConfig wires the collaborators and run defaults.
type OrchestratorConfig struct {
	Transcriber       Transcriber
	Corrector         Corrector
	TranscriptionOpts models.TranscriptionOptions
	CorrectionOpts    models.CorrectionOptions
	ResultsRoot       string // parent directory for timestamped batch directories
}

// NewOrchestrator creates an idle orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	root := cfg.ResultsRoot
	if root == "" {
		root = "batch_results"
	}
	return &Orchestrator{
		transcriber:       cfg.Transcriber,
		corrector:         cfg.Corrector,
		writer:            NewResultWriter(),
		transcriptionOpts: cfg.TranscriptionOpts,
		correctionOpts:    cfg.CorrectionOpts,
		resultsRoot:       root,
		status:            models.BatchStatusIdle,
		now:               time.Now,
	}
}

// Status returns the current lifecycle state.
func (o *Orchestrator) Status() models.BatchStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Job returns a snapshot of the current job's outcomes and counters.
func (o *Orchestrator) Job() models.BatchJob {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.job == nil {
		return models.BatchJob{}
	}
	snapshot := *o.job
	snapshot.Files = append([]models.AudioFileRef(nil), o.job.Files...)
	snapshot.Outcomes = append([]models.FileOutcome(nil), o.job.Outcomes...)
	return snapshot
}

// Cancel requests a cooperative stop. The file currently in flight finishes
// and is recorded; the next file never starts.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == models.BatchStatusRunning {
		o.cancelled = true
		log.Printf("[WARN] Batch cancellation requested, stopping at next file boundary")
	}
}

func (o *Orchestrator) isCancelled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancelled
}

func (o *Orchestrator) setStatus(s models.BatchStatus) {
	o.mu.Lock()
	o.status = s
	o.mu.Unlock()
}

// Run processes the given files in order and blocks until the batch finishes,
// is cancelled, or fails to start. The returned job snapshot carries the
// per-file outcomes and the batch output directory.
func (o *Orchestrator) Run(ctx context.Context, paths []string, doCorrection bool, progress ProgressFunc) (models.BatchJob, error) {
	if len(paths) == 0 {
		o.setStatus(models.BatchStatusFailedToStart)
		return models.BatchJob{}, apperrors.ValidationError("files", "no audio files queued")
	}
	if err := o.transcriber.Ready(); err != nil {
		o.setStatus(models.BatchStatusFailedToStart)
		return models.BatchJob{}, err
	}
	if doCorrection && o.corrector == nil {
		o.setStatus(models.BatchStatusFailedToStart)
		return models.BatchJob{}, apperrors.ValidationError("do_correction", "correction requested but no corrector configured")
	}
	if doCorrection {
		if err := o.corrector.Ready(); err != nil {
			o.setStatus(models.BatchStatusFailedToStart)
			return models.BatchJob{}, err
		}
	}

	job := models.NewBatchJob(paths, doCorrection)
	batchDir, err := o.createBatchDirs(doCorrection)
	if err != nil {
		o.setStatus(models.BatchStatusFailedToStart)
		return models.BatchJob{}, err
	}
	job.OutputDir = batchDir

	o.mu.Lock()
	o.job = job
	o.cancelled = false
	o.status = models.BatchStatusRunning
	o.mu.Unlock()

	log.Printf("[DEBUG] Starting batch of %d files, output: %s", len(job.Files), batchDir)

	total := len(job.Files)
	cancelled := false
	for i, file := range job.Files {
		if o.isCancelled() || ctx.Err() != nil {
			log.Printf("[WARN] Batch stopped before file %d/%d", i+1, total)
			cancelled = true
			break
		}

		log.Printf("[DEBUG] Processing file %d/%d: %s", i+1, total, file.Name)
		o.processFile(ctx, job, file, doCorrection)

		if progress != nil {
			progress(i+1, total, file.Name)
		}
	}

	final := models.BatchStatusCompleted
	if cancelled {
		final = models.BatchStatusCancelled
	}
	o.setStatus(final)

	if err := o.writeSummary(job); err != nil {
		log.Printf("[ERROR] Could not write batch summary: %v", err)
	}

	log.Printf("[DEBUG] Batch %s. Processed: %d/%d, errors: %d",
		final, job.Processed, total, job.Errors)

	return o.Job(), nil
}

// processFile runs one file through transcription and optional correction.
// Every failure is converted into that file's outcome; nothing here aborts
// the batch.
func (o *Orchestrator) processFile(ctx context.Context, job *models.BatchJob, file models.AudioFileRef, doCorrection bool) {
	raw, err := o.transcriber.Transcribe(ctx, file.Path, o.transcriptionOpts)
	if err != nil {
		log.Printf("[ERROR] Transcription failed for %s: %v", file.Name, err)
		o.record(job, file.Name, err.Error())
		return
	}

	transcript := raw.Transcript()
	if strings.TrimSpace(transcript) == "" {
		log.Printf("[WARN] No transcript found for %s", file.Name)
		o.record(job, file.Name, "no transcript")
		return
	}

	baseName := strings.TrimSuffix(file.Name, filepath.Ext(file.Name))
	rawDir := filepath.Join(job.OutputDir, "raw_transcripts")
	if _, _, err := o.writer.WriteRaw(raw, rawDir, baseName); err != nil {
		log.Printf("[ERROR] %v", err)
	}

	if doCorrection {
		corrected, err := o.corrector.Correct(ctx, transcript, o.correctionOpts)
		if err != nil {
			log.Printf("[ERROR] Correction failed for %s: %v", file.Name, err)
			o.record(job, file.Name, err.Error())
			return
		}
		correctedDir := filepath.Join(job.OutputDir, "corrected_transcripts")
		if _, _, err := o.writer.WriteCorrected(corrected, correctedDir, baseName); err != nil {
			log.Printf("[ERROR] %v", err)
		}
	}

	o.mu.Lock()
	job.RecordSuccess(file.Name)
	o.mu.Unlock()
}

func (o *Orchestrator) record(job *models.BatchJob, fileName, reason string) {
	o.mu.Lock()
	job.RecordError(fileName, reason)
	o.mu.Unlock()
}

// createBatchDirs creates the timestamped batch directory and its
// subdirectories.
func (o *Orchestrator) createBatchDirs(doCorrection bool) (string, error) {
	batchDir := filepath.Join(o.resultsRoot, "batch_"+o.now().Format("20060102_150405"))

	if err := os.MkdirAll(filepath.Join(batchDir, "raw_transcripts"), 0755); err != nil {
		return "", apperrors.WriteFailure(batchDir, err)
	}
	if doCorrection {
		if err := os.MkdirAll(filepath.Join(batchDir, "corrected_transcripts"), 0755); err != nil {
			return "", apperrors.WriteFailure(batchDir, err)
		}
	}
	return batchDir, nil
}

// writeSummary persists the human-readable run summary into the batch
// directory. The layout is an on-disk compatibility contract.
func (o *Orchestrator) writeSummary(job *models.BatchJob) error {
	var b strings.Builder
	b.WriteString("Batch Processing Summary\n")
	b.WriteString("----------------------\n")
	fmt.Fprintf(&b, "Date: %s\n", o.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Files Processed: %d/%d\n", job.Processed, len(job.Files))
	fmt.Fprintf(&b, "Errors: %d\n", job.Errors)
	fmt.Fprintf(&b, "Transcription Model: %s\n", o.transcriptionOpts.Model)
	if job.DoCorrection {
		fmt.Fprintf(&b, "Correction Model: %s\n", o.correctionOpts.Model)
	}

	path := filepath.Join(job.OutputDir, "batch_summary.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return apperrors.WriteFailure(path, err)
	}
	return nil
}
